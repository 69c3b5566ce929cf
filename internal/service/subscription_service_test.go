package service

import (
	"context"
	"errors"
	"testing"

	apperr "github.com/fadonmez/backend/internal/errors"
	"github.com/fadonmez/backend/internal/quota"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDowngrade_KeepsNewestWordsAndDefaultLanguage(t *testing.T) {
	store := newMemStore()
	svc := NewSubscriptionService(store, store, quota.Default(), zerolog.Nop())

	userID := store.addUser(t, quota.TierPremium)
	fr := store.addLanguage(t, userID, "fr", true)
	de := store.addLanguage(t, userID, "de", false)
	frCategory := store.addCategory(t, fr, "home")
	deCategory := store.addCategory(t, de, "küche")

	store.trackWords(t, userID, deCategory, "de", 3)
	frWords := store.trackWords(t, userID, frCategory, "fr", 40)

	res, err := svc.Downgrade(context.Background(), userID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, res.RemovedLanguages)
	assert.EqualValues(t, 15, res.RemovedWords)

	user, err := store.GetUserByID(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, quota.TierNormal, user.Tier)

	languages, err := store.ListUserLanguages(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, languages, 1)
	assert.Equal(t, "fr", languages[0].LanguageCode)

	var kept []string
	for _, uw := range store.userWordsOf(userID) {
		kept = append(kept, uw.UserWordID)
	}
	assert.ElementsMatch(t, frWords[15:], kept, "the newest 25 words survive")

	deCat, err := store.GetCategoryByID(context.Background(), deCategory)
	require.NoError(t, err)
	assert.Nil(t, deCat)
}

func TestDowngrade_UnderLimitRemovesNothing(t *testing.T) {
	store := newMemStore()
	svc := NewSubscriptionService(store, store, quota.Default(), zerolog.Nop())
	userID := store.addUser(t, quota.TierPremium)
	fr := store.addLanguage(t, userID, "fr", true)
	store.trackWords(t, userID, store.addCategory(t, fr, "home"), "fr", 10)

	res, err := svc.Downgrade(context.Background(), userID)
	require.NoError(t, err)
	assert.Zero(t, res.RemovedWords)
	assert.Len(t, store.userWordsOf(userID), 10)
}

func TestSubscription_UnknownUser(t *testing.T) {
	store := newMemStore()
	svc := NewSubscriptionService(store, store, quota.Default(), zerolog.Nop())

	_, err := svc.Downgrade(context.Background(), "missing")
	assert.True(t, errors.Is(err, apperr.ErrNotFound))

	err = svc.Upgrade(context.Background(), "missing")
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestUpgrade_LiftsWordQuota(t *testing.T) {
	f := newWordFixture()
	subs := NewSubscriptionService(f.store, f.store, quota.Default(), zerolog.Nop())
	userID, categoryID := f.learner(t, quota.TierNormal)
	f.store.trackWords(t, userID, categoryID, "fr", 25)

	_, err := f.svc.Resolve(context.Background(), resolveReq(userID, categoryID, "maison"))
	require.True(t, errors.Is(err, apperr.ErrQuotaExceeded))

	require.NoError(t, subs.Upgrade(context.Background(), userID))

	res, err := f.svc.Resolve(context.Background(), resolveReq(userID, categoryID, "maison"))
	require.NoError(t, err)
	assert.Equal(t, StatusCreated, res.Status)
}
