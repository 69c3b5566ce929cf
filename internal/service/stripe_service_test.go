package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/fadonmez/backend/internal/model"
	"github.com/fadonmez/backend/internal/quota"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
)

const testWebhookSecret = "whsec_test"

type sentJob struct {
	queue   string
	payload []byte
}

type fakeJobSender struct {
	mu   sync.Mutex
	sent []sentJob
}

func (f *fakeJobSender) Send(_ context.Context, queue string, payload []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentJob{queue: queue, payload: payload})
	return nil
}

func stripeEvent(eventType, object string) string {
	return fmt.Sprintf(`{"id":"evt_test","object":"event","api_version":%q,"type":%q,"data":{"object":%s}}`,
		stripe.APIVersion, eventType, object)
}

func postWebhook(t *testing.T, svc *StripeService, payload string, sign bool) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/webhooks/stripe", strings.NewReader(payload))
	if sign {
		signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
			Payload: []byte(payload),
			Secret:  testWebhookSecret,
		})
		req.Header.Set("Stripe-Signature", signed.Header)
	} else {
		req.Header.Set("Stripe-Signature", "t=1,v1=deadbeef")
	}
	rec := httptest.NewRecorder()
	svc.HandleWebhook(rec, req)
	return rec
}

func newStripeFixture(t *testing.T) (*StripeService, *memStore, *fakeJobSender) {
	t.Helper()
	store := newMemStore()
	jobs := &fakeJobSender{}
	subs := NewSubscriptionService(store, store, quota.Default(), zerolog.Nop())
	return NewStripeService(testWebhookSecret, subs, jobs, "downgrade_queue", zerolog.Nop()), store, jobs
}

func TestStripeWebhook_CheckoutCompletedUpgrades(t *testing.T) {
	svc, store, _ := newStripeFixture(t)
	userID := store.addUser(t, quota.TierNormal)

	payload := stripeEvent("checkout.session.completed",
		fmt.Sprintf(`{"id":"cs_test","object":"checkout.session","metadata":{"user_id":%q}}`, userID))
	rec := postWebhook(t, svc, payload, true)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	user, err := store.GetUserByID(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, quota.TierPremium, user.Tier)
}

func TestStripeWebhook_SubscriptionDeletedQueuesDowngrade(t *testing.T) {
	svc, store, jobs := newStripeFixture(t)
	userID := store.addUser(t, quota.TierPremium)

	payload := stripeEvent("customer.subscription.deleted",
		fmt.Sprintf(`{"id":"sub_test","object":"subscription","metadata":{"user_id":%q}}`, userID))
	rec := postWebhook(t, svc, payload, true)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	require.Len(t, jobs.sent, 1)
	assert.Equal(t, "downgrade_queue", jobs.sent[0].queue)
	var job model.DowngradeJob
	require.NoError(t, json.Unmarshal(jobs.sent[0].payload, &job))
	assert.Equal(t, userID, job.UserID)
	assert.Equal(t, "customer.subscription.deleted", job.Reason)

	user, err := store.GetUserByID(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, quota.TierPremium, user.Tier, "the downgrade itself runs in the orchestrator")
}

func TestStripeWebhook_Rejections(t *testing.T) {
	svc, _, jobs := newStripeFixture(t)

	rec := postWebhook(t, svc, stripeEvent("checkout.session.completed", `{"id":"cs_test","object":"checkout.session"}`), false)
	assert.Equal(t, http.StatusBadRequest, rec.Code, "bad signature")

	rec = postWebhook(t, svc, stripeEvent("checkout.session.completed", `{"id":"cs_test","object":"checkout.session"}`), true)
	assert.Equal(t, http.StatusBadRequest, rec.Code, "missing user_id metadata")

	rec = postWebhook(t, svc, stripeEvent("checkout.session.completed",
		`{"id":"cs_test","object":"checkout.session","metadata":{"user_id":"missing"}}`), true)
	assert.Equal(t, http.StatusInternalServerError, rec.Code, "unknown user")

	rec = postWebhook(t, svc, stripeEvent("invoice.paid", `{"id":"in_test","object":"invoice"}`), true)
	assert.Equal(t, http.StatusOK, rec.Code, "unhandled events are acknowledged")
	assert.Empty(t, jobs.sent)
}
