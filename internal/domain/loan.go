package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status is the lifecycle state of a loan application.
type Status string

const (
	StatusFeePending        Status = "FEE_PENDING"
	StatusFeePaid           Status = "FEE_PAID"
	StatusPendingGuarantors Status = "PENDING_GUARANTORS"
	StatusSubmitted         Status = "SUBMITTED"
	StatusVerified          Status = "VERIFIED"
	StatusTabled            Status = "TABLED"
	StatusVoting            Status = "VOTING"
	StatusApproved          Status = "APPROVED"
	StatusRejected          Status = "REJECTED"
	StatusActive            Status = "ACTIVE"
	StatusInArrears         Status = "IN_ARREARS"
	StatusOverdue           Status = "OVERDUE"
	StatusCompleted         Status = "COMPLETED"
)

// transitions is the only legal forward graph. Anything not listed is
// an invalid transition regardless of who asks.
var transitions = map[Status][]Status{
	StatusFeePending:        {StatusFeePaid},
	StatusFeePaid:           {StatusPendingGuarantors},
	StatusPendingGuarantors: {StatusSubmitted},
	StatusSubmitted:         {StatusVerified},
	StatusVerified:          {StatusTabled},
	StatusTabled:            {StatusVoting},
	StatusVoting:            {StatusApproved, StatusRejected},
	StatusApproved:          {StatusActive},
	StatusActive:            {StatusInArrears, StatusOverdue, StatusCompleted},
	StatusInArrears:         {StatusActive, StatusOverdue, StatusCompleted},
	StatusOverdue:           {StatusCompleted},
}

// CanTransition reports whether from -> to is a legal move.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether a status admits no further transitions by
// the member. A member may only hold one non-terminal application.
func (s Status) IsTerminal() bool {
	return s == StatusRejected || s == StatusCompleted
}

// IsDisbursed reports whether principal has left the treasury for this
// status. Used by the liquidity calculation.
func (s Status) IsDisbursed() bool {
	switch s {
	case StatusActive, StatusInArrears, StatusOverdue, StatusCompleted:
		return true
	}
	return false
}

// LoanApplication is a member's loan from first fee through repayment.
type LoanApplication struct {
	ID                uuid.UUID       `json:"id" db:"id"`
	MemberID          string          `json:"member_id" db:"member_id"`
	Status            Status          `json:"status" db:"status"`
	AmountRequested   decimal.Decimal `json:"amount_requested" db:"amount_requested"`
	Purpose           string          `json:"purpose" db:"purpose"`
	RepaymentWeeks    int             `json:"repayment_weeks" db:"repayment_weeks"`
	FeeAmount         decimal.Decimal `json:"fee_amount" db:"fee_amount"`
	FeeTransactionRef string          `json:"fee_transaction_ref,omitempty" db:"fee_transaction_ref"`
	InterestAmount    decimal.Decimal `json:"interest_amount" db:"interest_amount"`
	TotalDue          decimal.Decimal `json:"total_due" db:"total_due"`
	AmountRepaid      decimal.Decimal `json:"amount_repaid" db:"amount_repaid"`
	DisbursedAt       *time.Time      `json:"disbursed_at,omitempty" db:"disbursed_at"`
	CreatedAt         time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at" db:"updated_at"`
}

// DTOs for requests and responses

type StartApplicationRequest struct {
	MemberID string `json:"member_id" validate:"required"`
}

type SubmitDetailsRequest struct {
	AmountRequested decimal.Decimal `json:"amount_requested" validate:"required"`
	Purpose         string          `json:"purpose" validate:"required"`
	RepaymentWeeks  int             `json:"repayment_weeks" validate:"required,gt=0"`
}

type DecisionRequest struct {
	Approve bool `json:"approve"`
}

type RepaymentRequest struct {
	Amount decimal.Decimal `json:"amount" validate:"required"`
}
