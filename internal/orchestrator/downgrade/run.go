package downgrade

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/fadonmez/backend/internal/config"
	apperr "github.com/fadonmez/backend/internal/errors"
	"github.com/fadonmez/backend/internal/model"
	"github.com/fadonmez/backend/internal/pgmq"
	"github.com/fadonmez/backend/internal/service"

	"github.com/rs/zerolog"
)

const readErrorBackoff = time.Second

// Queue is the subset of the pgmq client the orchestrator uses.
type Queue interface {
	ReadWithPoll(ctx context.Context, queue string, visibilitySec, timeoutSec, maxMessages int) ([]*pgmq.Message, error)
	Send(ctx context.Context, queue string, payload []byte) error
	Delete(ctx context.Context, queue string, msgIDs []int64) error
}

// Settings are the queue parameters of the downgrade orchestrator.
type Settings struct {
	Queue           string
	DeadLetterQueue string
	PollTimeoutSec  int
	PollMaxMsg      int
	VisibilitySec   int
	MaxAttempts     int
}

// SettingsFromConfig reads the orchestrator settings from cfg.
func SettingsFromConfig(cfg *config.Config) Settings {
	return Settings{
		Queue:           cfg.DowngradeQueueName,
		DeadLetterQueue: cfg.DowngradeDeadLetterQueueName,
		PollTimeoutSec:  cfg.DowngradePollTimeoutSec,
		PollMaxMsg:      cfg.DowngradePollMaxMsg,
		VisibilitySec:   cfg.DowngradeVisibilitySec,
		MaxAttempts:     cfg.DowngradeMaxAttempts,
	}
}

// Run consumes downgrade jobs until ctx is cancelled. A failed job becomes
// visible again after the visibility timeout and is retried. Once it has been
// read MaxAttempts times it is moved to the dead-letter queue.
func Run(ctx context.Context, logger zerolog.Logger, client Queue, subs service.SubscriptionService, s Settings) error {
	logger = logger.With().Str("orchestrator", "downgrade").Logger()
	logger.Info().Str("queue", s.Queue).Msg("Starting downgrade orchestrator")
	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("Shutting down downgrade orchestrator")
			return nil
		default:
		}

		msgs, err := client.ReadWithPoll(ctx, s.Queue, s.VisibilitySec, s.PollTimeoutSec, s.PollMaxMsg)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				continue
			}
			logger.Error().Err(err).Msg("Error reading downgrade queue")
			sleep(ctx, readErrorBackoff)
			continue
		}

		for _, msg := range msgs {
			handle(ctx, logger, client, subs, s, msg)
		}
	}
}

func handle(ctx context.Context, logger zerolog.Logger, client Queue, subs service.SubscriptionService, s Settings, msg *pgmq.Message) {
	log := logger.With().Int64("msg_id", msg.ID).Int("read_ct", msg.ReadCt).Logger()

	var job model.DowngradeJob
	if err := json.Unmarshal(msg.Data, &job); err != nil || job.UserID == "" {
		log.Error().Err(err).Msg("Malformed downgrade job; deleting message")
		ack(ctx, log, client, s.Queue, msg.ID)
		return
	}
	log = log.With().Str("user_id", job.UserID).Logger()

	res, err := subs.Downgrade(ctx, job.UserID)
	if err == nil {
		log.Info().
			Int64("removed_languages", res.RemovedLanguages).
			Int64("removed_words", res.RemovedWords).
			Msg("Downgrade applied")
		ack(ctx, log, client, s.Queue, msg.ID)
		return
	}

	if errors.Is(err, apperr.ErrNotFound) {
		log.Warn().Err(err).Msg("User no longer exists; dropping downgrade job")
		ack(ctx, log, client, s.Queue, msg.ID)
		return
	}

	if msg.ReadCt < s.MaxAttempts {
		log.Warn().Err(err).Msg("Downgrade failed; will retry after visibility timeout")
		return
	}

	if sendErr := client.Send(ctx, s.DeadLetterQueue, msg.Data); sendErr != nil {
		// Leave the job in place so it is not lost.
		log.Error().Err(sendErr).Str("dlq", s.DeadLetterQueue).Msg("Failed to send message to dead-letter queue")
		return
	}
	ack(ctx, log, client, s.Queue, msg.ID)
	log.Warn().Err(err).Int("attempts", msg.ReadCt).Msg("Exhausted downgrade retries; moved job to DLQ")
}

func ack(ctx context.Context, log zerolog.Logger, client Queue, queue string, id int64) {
	if err := client.Delete(ctx, queue, []int64{id}); err != nil {
		log.Error().Err(err).Msg("Error deleting downgrade message")
	}
}

func sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
