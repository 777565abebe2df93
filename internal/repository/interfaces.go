package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wekeza/sacco-engine/internal/domain"
)

// LoanRepository defines the interface for loan application data operations
type LoanRepository interface {
	// Create creates a new loan application
	Create(ctx context.Context, loan *domain.LoanApplication) error

	// GetByID retrieves a loan application by id
	GetByID(ctx context.Context, id uuid.UUID) (*domain.LoanApplication, error)

	// GetOpenByMemberID retrieves the member's non-terminal application, if any
	GetOpenByMemberID(ctx context.Context, memberID string) (*domain.LoanApplication, error)

	// Update persists all mutable loan fields
	Update(ctx context.Context, loan *domain.LoanApplication) error

	// ListByStatuses retrieves applications in any of the given statuses
	ListByStatuses(ctx context.Context, statuses ...domain.Status) ([]*domain.LoanApplication, error)
}

// GuarantorRepository defines the interface for guarantor request operations
type GuarantorRepository interface {
	// Create inserts a guarantor request; the (loan, guarantor) pair is unique
	Create(ctx context.Context, request *domain.GuarantorRequest) error

	// GetByID retrieves a guarantor request
	GetByID(ctx context.Context, id uuid.UUID) (*domain.GuarantorRequest, error)

	// UpdateStatus records the guarantor's one-time answer
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.GuarantorStatus, respondedAt time.Time) error

	// CountAccepted counts ACCEPTED requests for a loan
	CountAccepted(ctx context.Context, loanID uuid.UUID) (int, error)

	// ListByLoanID retrieves all guarantor requests for a loan
	ListByLoanID(ctx context.Context, loanID uuid.UUID) ([]*domain.GuarantorRequest, error)
}

// VoteRepository defines the interface for vote operations
type VoteRepository interface {
	// Create inserts a ballot; the (loan, member) pair is unique
	Create(ctx context.Context, vote *domain.Vote) error

	// Count returns YES and NO counts for a loan
	Count(ctx context.Context, loanID uuid.UUID) (yes int, no int, err error)
}

// FineRepository defines the interface for member fine operations
type FineRepository interface {
	// Create inserts a new fine
	Create(ctx context.Context, fine *domain.MemberFine) error

	// GetByID retrieves a fine
	GetByID(ctx context.Context, id uuid.UUID) (*domain.MemberFine, error)

	// ListOpenByMemberID retrieves the member's OPEN fines
	ListOpenByMemberID(ctx context.Context, memberID string) ([]*domain.MemberFine, error)

	// UpdateEscalation persists balance, stage and stage dates after escalation
	UpdateEscalation(ctx context.Context, fine *domain.MemberFine) error
}

// LedgerRepository aggregates deposit and transaction records.
type LedgerRepository interface {
	// SumCompletedDeposits totals a member's completed deposits
	SumCompletedDeposits(ctx context.Context, memberID string) (decimal.Decimal, error)

	// LatestUnlinkedFeePayment finds the newest completed processing-fee
	// payment for the member whose reference no application has claimed
	LatestUnlinkedFeePayment(ctx context.Context, memberID string) (*domain.Transaction, error)

	// CreateTransaction inserts a ledger entry
	CreateTransaction(ctx context.Context, tx *domain.Transaction) error

	// TreasuryAggregates reads the four liquidity source figures
	TreasuryAggregates(ctx context.Context) (*domain.TreasuryAggregates, error)

	// MembersBelowWeeklyDeposit lists members whose completed deposits
	// since the cutoff sum below the minimum
	MembersBelowWeeklyDeposit(ctx context.Context, since time.Time, minimum decimal.Decimal) ([]string, error)
}

// SettingRepository reads administrator-owned key/value settings.
type SettingRepository interface {
	// Get returns a setting value, or empty string when absent
	Get(ctx context.Context, key string) (string, error)
}

// Repos bundles every repository bound to one transaction.
type Repos struct {
	Loans      LoanRepository
	Guarantors GuarantorRepository
	Votes      VoteRepository
	Fines      FineRepository
	Ledger     LedgerRepository
	Settings   SettingRepository
}

// UnitOfWork runs a function with all repositories sharing a single
// database transaction. The status write and its correlated ledger
// insert either both commit or both roll back.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(r Repos) error) error
}
