package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/wekeza/sacco-engine/internal/domain"
)

type loanRepository struct {
	db sqlx.ExtContext
}

func NewLoanRepository(db sqlx.ExtContext) LoanRepository {
	return &loanRepository{db: db}
}

func (r *loanRepository) Create(ctx context.Context, loan *domain.LoanApplication) error {
	query := `
		INSERT INTO loan_applications (id, member_id, status, amount_requested, purpose, repayment_weeks,
			fee_amount, fee_transaction_ref, interest_amount, total_due, amount_repaid, disbursed_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err := r.db.ExecContext(ctx, query,
		loan.ID,
		loan.MemberID,
		loan.Status,
		loan.AmountRequested,
		loan.Purpose,
		loan.RepaymentWeeks,
		loan.FeeAmount,
		loan.FeeTransactionRef,
		loan.InterestAmount,
		loan.TotalDue,
		loan.AmountRepaid,
		loan.DisbursedAt,
		loan.CreatedAt,
		loan.UpdatedAt,
	)

	return err
}

func (r *loanRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.LoanApplication, error) {
	query := `
		SELECT id, member_id, status, amount_requested, purpose, repayment_weeks,
			fee_amount, fee_transaction_ref, interest_amount, total_due, amount_repaid, disbursed_at, created_at, updated_at
		FROM loan_applications
		WHERE id = $1
	`

	var loan domain.LoanApplication
	if err := sqlx.GetContext(ctx, r.db, &loan, query, id); err != nil {
		return nil, err
	}

	return &loan, nil
}

func (r *loanRepository) GetOpenByMemberID(ctx context.Context, memberID string) (*domain.LoanApplication, error) {
	query := `
		SELECT id, member_id, status, amount_requested, purpose, repayment_weeks,
			fee_amount, fee_transaction_ref, interest_amount, total_due, amount_repaid, disbursed_at, created_at, updated_at
		FROM loan_applications
		WHERE member_id = $1 AND status NOT IN ($2, $3)
		ORDER BY created_at DESC
		LIMIT 1
	`

	var loan domain.LoanApplication
	if err := sqlx.GetContext(ctx, r.db, &loan, query, memberID, domain.StatusRejected, domain.StatusCompleted); err != nil {
		return nil, err
	}

	return &loan, nil
}

func (r *loanRepository) Update(ctx context.Context, loan *domain.LoanApplication) error {
	query := `
		UPDATE loan_applications
		SET status = $2, amount_requested = $3, purpose = $4, repayment_weeks = $5,
			fee_amount = $6, fee_transaction_ref = $7, interest_amount = $8, total_due = $9,
			amount_repaid = $10, disbursed_at = $11, updated_at = $12
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query,
		loan.ID,
		loan.Status,
		loan.AmountRequested,
		loan.Purpose,
		loan.RepaymentWeeks,
		loan.FeeAmount,
		loan.FeeTransactionRef,
		loan.InterestAmount,
		loan.TotalDue,
		loan.AmountRepaid,
		loan.DisbursedAt,
		time.Now(),
	)

	return err
}

func (r *loanRepository) ListByStatuses(ctx context.Context, statuses ...domain.Status) ([]*domain.LoanApplication, error) {
	query, args, err := sqlx.In(`
		SELECT id, member_id, status, amount_requested, purpose, repayment_weeks,
			fee_amount, fee_transaction_ref, interest_amount, total_due, amount_repaid, disbursed_at, created_at, updated_at
		FROM loan_applications
		WHERE status IN (?)
		ORDER BY created_at
	`, statuses)
	if err != nil {
		return nil, err
	}

	query = sqlx.Rebind(sqlx.DOLLAR, query)

	var loans []*domain.LoanApplication
	if err := sqlx.SelectContext(ctx, r.db, &loans, query, args...); err != nil {
		return nil, err
	}

	return loans, nil
}
