// Package schedule computes the weekly repayment position of a
// disbursed loan. Everything here is pure: same inputs, same output,
// no storage access.
package schedule

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/wekeza/sacco-engine/internal/domain"
	"github.com/wekeza/sacco-engine/pkg/utils"
)

// Status labels exposed on the loan read model.
const (
	StatusGracePeriod     = "GRACE_PERIOD"
	StatusInArrears       = "IN_ARREARS"
	StatusAheadOfSchedule = "AHEAD_OF_SCHEDULE"
)

// Result is the computed repayment position at a point in time.
type Result struct {
	WeeklyInstallment decimal.Decimal `json:"weekly_installment"`
	WeeksPassed       int             `json:"weeks_passed"`
	WeeksRemaining    int             `json:"weeks_remaining"`
	InstallmentsDue   int             `json:"installments_due"`
	ExpectedToDate    decimal.Decimal `json:"expected_to_date"`
	RunningBalance    decimal.Decimal `json:"running_balance"`
	StatusText        string          `json:"status_text"`
}

// Compute derives the repayment position of loan at now, given the
// configured number of interest-free grace weeks.
//
// Installments fall due weekly once the grace period ends; the first
// post-grace week already carries one installment. A running balance
// below zero means arrears; zero or above reports AHEAD_OF_SCHEDULE,
// including the exactly-on-track case.
func Compute(loan *domain.LoanApplication, now time.Time, graceWeeks int) Result {
	weeklyInstallment := utils.WeeklyInstallment(loan.TotalDue, loan.RepaymentWeeks)

	rawWeeksPassed := 0
	if loan.DisbursedAt != nil {
		rawWeeksPassed = utils.WholeWeeksBetween(*loan.DisbursedAt, now)
	}
	effectiveWeeksPassed := rawWeeksPassed - graceWeeks

	if effectiveWeeksPassed < 0 {
		return Result{
			WeeklyInstallment: weeklyInstallment,
			WeeksPassed:       0,
			WeeksRemaining:    loan.RepaymentWeeks,
			InstallmentsDue:   0,
			ExpectedToDate:    decimal.Zero,
			RunningBalance:    loan.AmountRepaid,
			StatusText:        StatusGracePeriod,
		}
	}

	installmentsDue := utils.MinInt(effectiveWeeksPassed+1, loan.RepaymentWeeks)
	expectedToDate := weeklyInstallment.Mul(decimal.NewFromInt(int64(installmentsDue)))
	runningBalance := loan.AmountRepaid.Sub(expectedToDate)

	statusText := StatusAheadOfSchedule
	if runningBalance.IsNegative() {
		statusText = StatusInArrears
	}

	return Result{
		WeeklyInstallment: weeklyInstallment,
		WeeksPassed:       utils.ClampMin(effectiveWeeksPassed, 0),
		WeeksRemaining:    utils.ClampMin(loan.RepaymentWeeks-installmentsDue, 0),
		InstallmentsDue:   installmentsDue,
		ExpectedToDate:    expectedToDate,
		RunningBalance:    runningBalance,
		StatusText:        statusText,
	}
}
