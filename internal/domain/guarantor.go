package domain

import (
	"time"

	"github.com/google/uuid"
)

type GuarantorStatus string

const (
	GuarantorPending  GuarantorStatus = "PENDING"
	GuarantorAccepted GuarantorStatus = "ACCEPTED"
	GuarantorRejected GuarantorStatus = "REJECTED"
)

// GuarantorRequest is one member's invitation to stand behind another
// member's loan. A (loan, guarantor) pair exists at most once.
type GuarantorRequest struct {
	ID                uuid.UUID       `json:"id" db:"id"`
	LoanApplicationID uuid.UUID       `json:"loan_application_id" db:"loan_application_id"`
	GuarantorID       string          `json:"guarantor_id" db:"guarantor_id"`
	Status            GuarantorStatus `json:"status" db:"status"`
	CreatedAt         time.Time       `json:"created_at" db:"created_at"`
	RespondedAt       *time.Time      `json:"responded_at,omitempty" db:"responded_at"`
}

type AddGuarantorRequest struct {
	GuarantorID string `json:"guarantor_id" validate:"required"`
}

type GuarantorResponseRequest struct {
	Accept bool `json:"accept"`
}
