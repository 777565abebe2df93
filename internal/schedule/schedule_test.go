package schedule

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/wekeza/sacco-engine/internal/domain"
)

func activeLoan(totalDue int64, repaid int64, weeks int, disbursedWeeksAgo int, now time.Time) *domain.LoanApplication {
	disbursed := now.AddDate(0, 0, -7*disbursedWeeksAgo)
	return &domain.LoanApplication{
		Status:         domain.StatusActive,
		RepaymentWeeks: weeks,
		TotalDue:       decimal.NewFromInt(totalDue),
		AmountRepaid:   decimal.NewFromInt(repaid),
		DisbursedAt:    &disbursed,
	}
}

func TestCompute(t *testing.T) {
	now := time.Date(2026, 6, 15, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name            string
		loan            *domain.LoanApplication
		graceWeeks      int
		wantStatus      string
		wantDue         int
		wantExpected    decimal.Decimal
		wantBalance     decimal.Decimal
		wantWeeksPassed int
	}{
		{
			name:            "six weeks in with four grace weeks, exactly on track",
			loan:            activeLoan(11000, 3300, 10, 6, now),
			graceWeeks:      4,
			wantStatus:      StatusAheadOfSchedule,
			wantDue:         3,
			wantExpected:    decimal.NewFromInt(3300),
			wantBalance:     decimal.Zero,
			wantWeeksPassed: 2,
		},
		{
			name:            "still inside grace period",
			loan:            activeLoan(11000, 0, 10, 2, now),
			graceWeeks:      4,
			wantStatus:      StatusGracePeriod,
			wantDue:         0,
			wantExpected:    decimal.Zero,
			wantBalance:     decimal.Zero,
			wantWeeksPassed: 0,
		},
		{
			name:            "grace period ignores repayments already made",
			loan:            activeLoan(11000, 5000, 10, 2, now),
			graceWeeks:      4,
			wantStatus:      StatusGracePeriod,
			wantDue:         0,
			wantExpected:    decimal.Zero,
			wantBalance:     decimal.NewFromInt(5000),
			wantWeeksPassed: 0,
		},
		{
			name:            "behind by one installment",
			loan:            activeLoan(11000, 2200, 10, 6, now),
			graceWeeks:      4,
			wantStatus:      StatusInArrears,
			wantDue:         3,
			wantExpected:    decimal.NewFromInt(3300),
			wantBalance:     decimal.NewFromInt(-1100),
			wantWeeksPassed: 2,
		},
		{
			name:            "overpaid is ahead of schedule",
			loan:            activeLoan(11000, 6000, 10, 6, now),
			graceWeeks:      4,
			wantStatus:      StatusAheadOfSchedule,
			wantDue:         3,
			wantExpected:    decimal.NewFromInt(3300),
			wantBalance:     decimal.NewFromInt(2700),
			wantWeeksPassed: 2,
		},
		{
			name:            "installments due capped at the term",
			loan:            activeLoan(11000, 11000, 10, 40, now),
			graceWeeks:      4,
			wantStatus:      StatusAheadOfSchedule,
			wantDue:         10,
			wantExpected:    decimal.NewFromInt(11000),
			wantBalance:     decimal.Zero,
			wantWeeksPassed: 36,
		},
		{
			name:            "zero grace weeks starts charging in week one",
			loan:            activeLoan(11000, 0, 10, 0, now),
			graceWeeks:      0,
			wantStatus:      StatusInArrears,
			wantDue:         1,
			wantExpected:    decimal.NewFromInt(1100),
			wantBalance:     decimal.NewFromInt(-1100),
			wantWeeksPassed: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compute(tt.loan, now, tt.graceWeeks)

			assert.Equal(t, tt.wantStatus, got.StatusText)
			assert.Equal(t, tt.wantDue, got.InstallmentsDue)
			assert.Equal(t, tt.wantWeeksPassed, got.WeeksPassed)
			assert.True(t, tt.wantExpected.Equal(got.ExpectedToDate), "expected_to_date: want %s got %s", tt.wantExpected, got.ExpectedToDate)
			assert.True(t, tt.wantBalance.Equal(got.RunningBalance), "running_balance: want %s got %s", tt.wantBalance, got.RunningBalance)
		})
	}
}

func TestComputeIsPure(t *testing.T) {
	now := time.Date(2026, 6, 15, 10, 0, 0, 0, time.UTC)
	loan := activeLoan(11000, 3300, 10, 6, now)

	first := Compute(loan, now, 4)
	second := Compute(loan, now, 4)

	assert.Equal(t, first, second)
	assert.True(t, decimal.NewFromInt(3300).Equal(loan.AmountRepaid), "input loan must not be mutated")
}

func TestComputeWeeksRemaining(t *testing.T) {
	now := time.Date(2026, 6, 15, 10, 0, 0, 0, time.UTC)

	inGrace := Compute(activeLoan(11000, 0, 10, 1, now), now, 4)
	assert.Equal(t, 10, inGrace.WeeksRemaining)

	midTerm := Compute(activeLoan(11000, 0, 10, 6, now), now, 4)
	assert.Equal(t, 7, midTerm.WeeksRemaining)

	pastTerm := Compute(activeLoan(11000, 0, 10, 40, now), now, 4)
	assert.Equal(t, 0, pastTerm.WeeksRemaining)
}
