package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	apperr "github.com/fadonmez/backend/internal/errors"
	"github.com/fadonmez/backend/internal/quota"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryService_Create(t *testing.T) {
	store := newMemStore()
	svc := NewCategoryService(store, store, store, quota.Default(), zerolog.Nop())
	userID := store.addUser(t, quota.TierPremium)
	ul := store.addLanguage(t, userID, "fr", true)

	c, err := svc.Create(context.Background(), userID, "FR", "  Kitchen ")
	require.NoError(t, err)
	assert.Equal(t, "kitchen", c.Name)
	assert.Equal(t, "fr", c.LanguageCode)
	assert.Equal(t, ul.ID, c.UserLanguageID)

	_, err = svc.Create(context.Background(), userID, "fr", "KITCHEN")
	assert.True(t, errors.Is(err, apperr.ErrAlreadyExists))

	_, err = svc.Create(context.Background(), userID, "de", "küche")
	assert.True(t, errors.Is(err, apperr.ErrNotFound), "the user does not learn german")

	_, err = svc.Create(context.Background(), userID, "fr", "   ")
	assert.True(t, errors.Is(err, apperr.ErrValidation))
}

func TestCategoryService_CapAppliesToEveryTier(t *testing.T) {
	for _, tier := range []quota.Tier{quota.TierNormal, quota.TierPremium} {
		t.Run(string(tier), func(t *testing.T) {
			store := newMemStore()
			svc := NewCategoryService(store, store, store, quota.Default(), zerolog.Nop())
			userID := store.addUser(t, tier)
			store.addLanguage(t, userID, "fr", true)

			for i := 0; i < 5; i++ {
				_, err := svc.Create(context.Background(), userID, "fr", fmt.Sprintf("topic %d", i))
				require.NoError(t, err)
			}
			_, err := svc.Create(context.Background(), userID, "fr", "one too many")
			assert.True(t, errors.Is(err, apperr.ErrQuotaExceeded))

			list, err := svc.List(context.Background(), userID, "fr")
			require.NoError(t, err)
			assert.Len(t, list, 5)
			assert.Equal(t, "topic 0", list[0].Name)
		})
	}
}

func TestCategoryService_Delete(t *testing.T) {
	store := newMemStore()
	svc := NewCategoryService(store, store, store, quota.Default(), zerolog.Nop())
	owner := store.addUser(t, quota.TierNormal)
	other := store.addUser(t, quota.TierNormal)
	ul := store.addLanguage(t, owner, "fr", true)
	kitchen := store.addCategory(t, ul, "kitchen")
	garden := store.addCategory(t, ul, "garden")
	store.trackWords(t, owner, kitchen, "fr", 3)
	store.trackWords(t, owner, garden, "fr", 1)

	err := svc.Delete(context.Background(), other, kitchen)
	assert.True(t, errors.Is(err, apperr.ErrNotAuthorized))

	err = svc.Delete(context.Background(), owner, "not-a-uuid")
	assert.True(t, errors.Is(err, apperr.ErrNotFound))

	require.NoError(t, svc.Delete(context.Background(), owner, kitchen))
	assert.Len(t, store.userWordsOf(owner), 1, "only the garden word remains")

	err = svc.Delete(context.Background(), owner, kitchen)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))

	// The freed slot can be used again.
	_, err = svc.Create(context.Background(), owner, "fr", "kitchen")
	require.NoError(t, err)
}
