// Package policy gives the engine typed access to administrator-owned
// settings. Every accessor falls back to a documented default when the
// key is missing or unparseable, so engine paths never fail on a bad
// setting row.
package policy

import (
	"context"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/wekeza/sacco-engine/pkg/utils"
)

// Setting keys as stored by the administrator UI.
const (
	KeyProcessingFee        = "processing_fee"
	KeySavingsMultiplier    = "savings_multiplier"
	KeyMinGuarantors        = "min_guarantors"
	KeyGracePeriodWeeks     = "grace_period_weeks"
	KeyLoanInterestRate     = "loan_interest_rate"
	KeyMinWeeklyDeposit     = "min_weekly_deposit"
	KeyMissedDepositPenalty = "missed_deposit_penalty"
)

// Defaults applied when a setting is absent.
var (
	DefaultProcessingFee        = decimal.NewFromInt(500)
	DefaultSavingsMultiplier    = decimal.NewFromInt(3)
	DefaultMinGuarantors        = 2
	DefaultGracePeriodWeeks     = 4
	DefaultLoanInterestRate     = decimal.NewFromInt(10) // percent of principal
	DefaultMinWeeklyDeposit     = decimal.NewFromInt(250)
	DefaultMissedDepositPenalty = decimal.NewFromInt(50)
)

// Store is the read-only settings source. Get returns an empty string
// when the key has no row.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
}

// Provider resolves engine policy from a Store.
type Provider struct {
	store Store
}

func NewProvider(store Store) *Provider {
	return &Provider{store: store}
}

func (p *Provider) raw(ctx context.Context, key string) string {
	value, err := p.store.Get(ctx, key)
	if err != nil {
		return ""
	}
	return value
}

func (p *Provider) intSetting(ctx context.Context, key string, def int) int {
	raw := p.raw(ctx, key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return def
	}
	return n
}

// ProcessingFee is the one-off application fee.
func (p *Provider) ProcessingFee(ctx context.Context) decimal.Decimal {
	return utils.DecimalFromSetting(p.raw(ctx, KeyProcessingFee), DefaultProcessingFee)
}

// SavingsMultiplier caps a requested loan at savings times this factor.
func (p *Provider) SavingsMultiplier(ctx context.Context) decimal.Decimal {
	return utils.DecimalFromSetting(p.raw(ctx, KeySavingsMultiplier), DefaultSavingsMultiplier)
}

// MinGuarantors is the accepted-guarantor count required to submit.
func (p *Provider) MinGuarantors(ctx context.Context) int {
	return p.intSetting(ctx, KeyMinGuarantors, DefaultMinGuarantors)
}

// GracePeriodWeeks is the installment-free window after disbursement.
func (p *Provider) GracePeriodWeeks(ctx context.Context) int {
	return p.intSetting(ctx, KeyGracePeriodWeeks, DefaultGracePeriodWeeks)
}

// InterestRatePercent is the one-time simple interest charged on
// disbursement, as a percentage of principal.
func (p *Provider) InterestRatePercent(ctx context.Context) decimal.Decimal {
	return utils.DecimalFromSetting(p.raw(ctx, KeyLoanInterestRate), DefaultLoanInterestRate)
}

// MinWeeklyDeposit is the compliance floor for member deposits.
func (p *Provider) MinWeeklyDeposit(ctx context.Context) decimal.Decimal {
	return utils.DecimalFromSetting(p.raw(ctx, KeyMinWeeklyDeposit), DefaultMinWeeklyDeposit)
}

// MissedDepositPenalty is the fine levied per missed deposit week.
func (p *Provider) MissedDepositPenalty(ctx context.Context) decimal.Decimal {
	return utils.DecimalFromSetting(p.raw(ctx, KeyMissedDepositPenalty), DefaultMissedDepositPenalty)
}
