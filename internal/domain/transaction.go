package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TxDeposit       TransactionType = "deposit"
	TxProcessingFee TransactionType = "processing_fee"
	TxDisbursement  TransactionType = "disbursement"
	TxRepayment     TransactionType = "repayment"
	TxOtherIncome   TransactionType = "other_income"
)

type TransactionStatus string

const (
	TxCompleted TransactionStatus = "completed"
	TxPending   TransactionStatus = "pending"
)

// Transaction is one ledger entry. Reference is unique and is what a
// loan application claims when a processing fee is reconciled.
type Transaction struct {
	ID        uuid.UUID         `json:"id" db:"id"`
	MemberID  string            `json:"member_id" db:"member_id"`
	Type      TransactionType   `json:"type" db:"type"`
	Status    TransactionStatus `json:"status" db:"status"`
	Amount    decimal.Decimal   `json:"amount" db:"amount"`
	Reference string            `json:"reference" db:"reference"`
	CreatedAt time.Time         `json:"created_at" db:"created_at"`
}

// TreasuryAggregates are the four source figures the liquidity
// calculation reconciles. Always read fresh; never cached.
type TreasuryAggregates struct {
	TotalDeposits           decimal.Decimal `db:"total_deposits"`
	TotalOtherIncome        decimal.Decimal `db:"total_other_income"`
	TotalRepayments         decimal.Decimal `db:"total_repayments"`
	TotalPrincipalDisbursed decimal.Decimal `db:"total_principal_disbursed"`
}

// TreasurySnapshot is the point-in-time liquidity read model.
type TreasurySnapshot struct {
	TotalDeposits           decimal.Decimal `json:"total_deposits"`
	TotalOtherIncome        decimal.Decimal `json:"total_other_income"`
	TotalRepayments         decimal.Decimal `json:"total_repayments"`
	TotalPrincipalDisbursed decimal.Decimal `json:"total_principal_disbursed"`
	AvailableFunds          decimal.Decimal `json:"available_funds"`
	ComputedAt              time.Time       `json:"computed_at"`
}
