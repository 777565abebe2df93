package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type FineStatus string

const (
	FineOpen    FineStatus = "OPEN"
	FineCleared FineStatus = "CLEARED"
)

// InterestStage is the one-way escalation stage of a fine. Backward
// transitions do not exist.
type InterestStage string

const (
	StageNone InterestStage = "NONE"
	StageOne  InterestStage = "STAGE_1_20"
	StageTwo  InterestStage = "STAGE_2_50"
)

// Escalation thresholds and rates.
var (
	stageOneAfterDays = 30
	stageTwoAfterDays = 365
	stageOneRate      = decimal.RequireFromString("0.20")
	stageTwoRate      = decimal.RequireFromString("0.50")
)

// MemberFine is a penalty owed by a member. The balance only grows via
// escalation until the fine is cleared through a separate payment flow.
type MemberFine struct {
	ID                uuid.UUID       `json:"id" db:"id"`
	MemberID          string          `json:"member_id" db:"member_id"`
	Reason            string          `json:"reason" db:"reason"`
	OriginalAmount    decimal.Decimal `json:"original_amount" db:"original_amount"`
	CurrentBalance    decimal.Decimal `json:"current_balance" db:"current_balance"`
	InterestStage     InterestStage   `json:"interest_stage" db:"interest_stage"`
	Status            FineStatus      `json:"status" db:"status"`
	DateCreated       time.Time       `json:"date_created" db:"date_created"`
	DateStage1Applied *time.Time      `json:"date_stage_1_applied,omitempty" db:"date_stage_1_applied"`
	DateStage2Applied *time.Time      `json:"date_stage_2_applied,omitempty" db:"date_stage_2_applied"`
}

// Escalate applies the time-based interest stages in place and reports
// whether anything changed. Stage 1 adds 20% of the original amount
// after 30 days; stage 2 adds 50% of the then-current balance after a
// further 365 days. Both stages may fire in a single pass. Calling
// again with no further elapsed time is a no-op, so callers can run
// this on every fetch.
func (f *MemberFine) Escalate(now time.Time) bool {
	if f.Status == FineCleared {
		return false
	}

	changed := false

	// Stage 2 measures elapsed time from the moment stage 1 landed. When
	// stage 1 fires within this same pass the fine's creation date is the
	// reference instead, so a long-dormant fine can cross both thresholds
	// in one evaluation.
	stageOneRef := f.DateStage1Applied

	if f.InterestStage == StageNone {
		if daysBetween(f.DateCreated, now) > stageOneAfterDays {
			f.CurrentBalance = f.CurrentBalance.Add(f.OriginalAmount.Mul(stageOneRate))
			f.InterestStage = StageOne
			applied := now
			f.DateStage1Applied = &applied
			changed = true
		}
	}

	if f.InterestStage == StageOne {
		ref := f.DateCreated
		if stageOneRef != nil {
			ref = *stageOneRef
		}
		if daysBetween(ref, now) > stageTwoAfterDays {
			// Compounds on the current balance, not the original.
			f.CurrentBalance = f.CurrentBalance.Add(f.CurrentBalance.Mul(stageTwoRate))
			f.InterestStage = StageTwo
			applied := now
			f.DateStage2Applied = &applied
			changed = true
		}
	}

	return changed
}

func daysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}
