package policy

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

type mapStore struct {
	values map[string]string
	err    error
}

func (s *mapStore) Get(_ context.Context, key string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.values[key], nil
}

func TestProviderReadsStoredValues(t *testing.T) {
	provider := NewProvider(&mapStore{values: map[string]string{
		KeyProcessingFee:     "750",
		KeySavingsMultiplier: "2.5",
		KeyMinGuarantors:     "3",
		KeyGracePeriodWeeks:  "6",
		KeyLoanInterestRate:  "12.5",
	}})
	ctx := context.Background()

	assert.True(t, decimal.RequireFromString("750").Equal(provider.ProcessingFee(ctx)))
	assert.True(t, decimal.RequireFromString("2.5").Equal(provider.SavingsMultiplier(ctx)))
	assert.Equal(t, 3, provider.MinGuarantors(ctx))
	assert.Equal(t, 6, provider.GracePeriodWeeks(ctx))
	assert.True(t, decimal.RequireFromString("12.5").Equal(provider.InterestRatePercent(ctx)))
}

func TestProviderDefaults(t *testing.T) {
	tests := []struct {
		name  string
		store Store
	}{
		{"empty store", &mapStore{values: map[string]string{}}},
		{"failing store", &mapStore{err: errors.New("settings table unavailable")}},
		{"garbage values", &mapStore{values: map[string]string{
			KeyProcessingFee:        "free",
			KeySavingsMultiplier:    "lots",
			KeyMinGuarantors:        "-1",
			KeyGracePeriodWeeks:     "4.5",
			KeyLoanInterestRate:     "ten",
			KeyMinWeeklyDeposit:     "?",
			KeyMissedDepositPenalty: "",
		}}},
	}

	ctx := context.Background()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := NewProvider(tt.store)

			assert.True(t, DefaultProcessingFee.Equal(provider.ProcessingFee(ctx)))
			assert.True(t, DefaultSavingsMultiplier.Equal(provider.SavingsMultiplier(ctx)))
			assert.Equal(t, DefaultMinGuarantors, provider.MinGuarantors(ctx))
			assert.Equal(t, DefaultGracePeriodWeeks, provider.GracePeriodWeeks(ctx))
			assert.True(t, DefaultLoanInterestRate.Equal(provider.InterestRatePercent(ctx)))
			assert.True(t, DefaultMinWeeklyDeposit.Equal(provider.MinWeeklyDeposit(ctx)))
			assert.True(t, DefaultMissedDepositPenalty.Equal(provider.MissedDepositPenalty(ctx)))
		})
	}
}
