package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/fadonmez/backend/internal/model"

	"github.com/spf13/cobra"
)

const manualDowngradeReason = "vocabctl"

type downgradeOutput struct {
	UserID           string `json:"user_id"`
	Queued           bool   `json:"queued"`
	RemovedLanguages int64  `json:"removed_languages"`
	RemovedWords     int64  `json:"removed_words"`
}

func newDowngradeCommand(opts *RootOptions) *cobra.Command {
	var (
		enqueue bool
		queue   string
	)
	cmd := &cobra.Command{
		Use:   "downgrade <user-id>",
		Short: "Move a user to the NORMAL tier and trim their data",
		Long: `Downgrade a user to NORMAL right away, or with --enqueue hand the job to
the downgrade orchestrator through the queue.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID := args[0]
			return withBackend(cmd, opts, func(ctx context.Context, b *Backend) error {
				out := downgradeOutput{UserID: userID}
				if enqueue {
					payload, err := json.Marshal(model.DowngradeJob{UserID: userID, Reason: manualDowngradeReason, RequestedAt: time.Now().UTC()})
					if err != nil {
						return err
					}
					if err := b.Jobs.Send(ctx, queue, payload); err != nil {
						return err
					}
					out.Queued = true
				} else {
					res, err := b.Subscriptions.Downgrade(ctx, userID)
					if err != nil {
						return err
					}
					out.RemovedLanguages = res.RemovedLanguages
					out.RemovedWords = res.RemovedWords
				}
				return output(cmd.OutOrStdout(), opts.Format, out, func(w io.Writer) {
					if out.Queued {
						fmt.Fprintf(w, "queued downgrade of %s on %s\n", userID, queue)
						return
					}
					fmt.Fprintf(w, "downgraded %s: removed %d languages, %d words\n", userID, out.RemovedLanguages, out.RemovedWords)
				})
			})
		},
	}
	cmd.Flags().BoolVar(&enqueue, "enqueue", false, "queue the downgrade instead of applying it")
	cmd.Flags().StringVar(&queue, "queue", "downgrade_queue", "downgrade queue name")
	return cmd
}
