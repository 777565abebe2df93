package domain

import (
	"time"

	"github.com/google/uuid"
)

type VoteDecision string

const (
	VoteYes VoteDecision = "YES"
	VoteNo  VoteDecision = "NO"
)

// Vote is a member's single, immutable ballot on a loan in VOTING.
type Vote struct {
	ID                uuid.UUID    `json:"id" db:"id"`
	LoanApplicationID uuid.UUID    `json:"loan_application_id" db:"loan_application_id"`
	MemberID          string       `json:"member_id" db:"member_id"`
	Decision          VoteDecision `json:"decision" db:"decision"`
	CreatedAt         time.Time    `json:"created_at" db:"created_at"`
}

// Tally is the display-only count of guarantor consents and ballots.
// Approval stays a manual secretary decision; no quorum is computed.
type Tally struct {
	LoanApplicationID  uuid.UUID `json:"loan_application_id"`
	GuarantorsAccepted int       `json:"guarantors_accepted"`
	VotesYes           int       `json:"votes_yes"`
	VotesNo            int       `json:"votes_no"`
}

type CastVoteRequest struct {
	MemberID string `json:"member_id" validate:"required"`
	Approve  bool   `json:"approve"`
}
