package service

import (
	"strings"
	"testing"
	"time"

	"betledger/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateOdds(t *testing.T) {
	tests := []struct {
		odds    string
		wantErr bool
	}{
		{"1.01", false},
		{"1000", false},
		{"2.125", false},
		{"1.00", true},
		{"1.009", true},
		{"1000.001", true},
		{"2.1255", true},
	}

	for _, tt := range tests {
		t.Run(tt.odds, func(t *testing.T) {
			err := validateOdds(dec(tt.odds))
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrValidation)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateMoney(t *testing.T) {
	assert.NoError(t, validateMoney("stake", dec("0.01"), maxStake))
	assert.NoError(t, validateMoney("stake", dec("1000000"), maxStake))
	assert.ErrorIs(t, validateMoney("stake", dec("0"), maxStake), ErrValidation)
	assert.ErrorIs(t, validateMoney("stake", dec("1000000.01"), maxStake), ErrValidation)

	err := validateMoney("stake", dec("1.001"), maxStake)
	require.Error(t, err)
	assert.Equal(t, "stake must have at most 2 decimal places", MessageOf(err))
}

func TestValidateBetFields_TextLimits(t *testing.T) {
	bet := newPendingBet(uuid.New(), "10", "2")
	require.NoError(t, validateBetFields(bet))

	notes := strings.Repeat("n", maxNotesLength+1)
	bet.Notes = &notes
	assert.ErrorIs(t, validateBetFields(bet), ErrValidation)

	bet.Notes = nil
	bet.Tags = make([]string, maxTags+1)
	for i := range bet.Tags {
		bet.Tags[i] = "tag"
	}
	assert.ErrorIs(t, validateBetFields(bet), ErrValidation)
}

func TestNormalizeCreateBankroll(t *testing.T) {
	input, err := normalizeCreateBankroll(models.CreateBankrollInput{
		Name:           "  Football  ",
		InitialBalance: dec("250.50"),
		Currency:       " usd ",
	}, "BRL")

	require.NoError(t, err)
	assert.Equal(t, "Football", input.Name)
	assert.Equal(t, "USD", input.Currency)

	input, err = normalizeCreateBankroll(models.CreateBankrollInput{Name: "Tennis", InitialBalance: dec("10")}, "BRL")
	require.NoError(t, err)
	assert.Equal(t, "BRL", input.Currency)
}

func TestNormalizeBetFilter(t *testing.T) {
	from := time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, -1)
	badSport := models.Sport("POLO")

	filter, err := normalizeBetFilter(models.BetFilter{})
	require.NoError(t, err)
	assert.Equal(t, defaultPageLimit, filter.Limit)

	_, err = normalizeBetFilter(models.BetFilter{Offset: -1})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = normalizeBetFilter(models.BetFilter{Sport: &badSport})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = normalizeBetFilter(models.BetFilter{From: &from, To: &to})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestNormalizeListLimit(t *testing.T) {
	limit, err := normalizeListLimit(0)
	require.NoError(t, err)
	assert.Equal(t, 10, limit)

	_, err = normalizeListLimit(-3)
	assert.ErrorIs(t, err, ErrValidation)
}
