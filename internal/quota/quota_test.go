package quota

import (
	"testing"

	apperr "github.com/fadonmez/backend/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckWordAddition(t *testing.T) {
	p := Default()

	tests := []struct {
		name     string
		tier     Tier
		global   int
		category int
		wantErr  error
	}{
		{"normal under cap", TierNormal, 24, 10, nil},
		{"normal at cap", TierNormal, 25, 10, apperr.ErrQuotaExceeded},
		{"normal over cap", TierNormal, 40, 0, apperr.ErrQuotaExceeded},
		{"premium ignores global cap", TierPremium, 500, 10, nil},
		{"premium category full", TierPremium, 500, 200, apperr.ErrCategoryFull},
		{"normal category full under global cap", TierNormal, 3, 200, apperr.ErrCategoryFull},
		{"unknown tier treated as normal", Tier(""), 25, 0, apperr.ErrQuotaExceeded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := p.CheckWordAddition(tt.tier, tt.global, tt.category)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCheckWordAddition_QuotaBeforeCategory(t *testing.T) {
	err := Default().CheckWordAddition(TierNormal, 25, 200)
	assert.ErrorIs(t, err, apperr.ErrQuotaExceeded)
}

func TestCheckCategoryCreation_AppliesToEveryTier(t *testing.T) {
	p := Default()

	assert.NoError(t, p.CheckCategoryCreation(TierNormal, 4))
	assert.ErrorIs(t, p.CheckCategoryCreation(TierNormal, 5), apperr.ErrQuotaExceeded)
	assert.ErrorIs(t, p.CheckCategoryCreation(TierPremium, 5), apperr.ErrQuotaExceeded)
}

func TestCheckLanguageAddition(t *testing.T) {
	p := Default()

	assert.NoError(t, p.CheckLanguageAddition(TierNormal, 0))
	assert.ErrorIs(t, p.CheckLanguageAddition(TierNormal, 1), apperr.ErrNotAuthorized)
	assert.NoError(t, p.CheckLanguageAddition(TierPremium, 3))
}

func TestRetainedWords(t *testing.T) {
	p := Default()

	assert.Equal(t, 25, p.RetainedWords(TierNormal))
	assert.Equal(t, Unlimited, p.RetainedWords(TierPremium))
}
