package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/wekeza/sacco-engine/internal/domain"
)

type ledgerRepository struct {
	db sqlx.ExtContext
}

func NewLedgerRepository(db sqlx.ExtContext) LedgerRepository {
	return &ledgerRepository{db: db}
}

func (r *ledgerRepository) SumCompletedDeposits(ctx context.Context, memberID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM transactions
		WHERE member_id = $1 AND type = $2 AND status = $3
	`

	var total decimal.Decimal
	if err := sqlx.GetContext(ctx, r.db, &total, query, memberID, domain.TxDeposit, domain.TxCompleted); err != nil {
		return decimal.Zero, err
	}

	return total, nil
}

func (r *ledgerRepository) LatestUnlinkedFeePayment(ctx context.Context, memberID string) (*domain.Transaction, error) {
	// A fee payment is linked once any application carries its reference;
	// reference uniqueness is what makes reconciliation idempotent.
	query := `
		SELECT t.id, t.member_id, t.type, t.status, t.amount, t.reference, t.created_at
		FROM transactions t
		WHERE t.member_id = $1 AND t.type = $2 AND t.status = $3
			AND NOT EXISTS (
				SELECT 1 FROM loan_applications la WHERE la.fee_transaction_ref = t.reference
			)
		ORDER BY t.created_at DESC
		LIMIT 1
	`

	var tx domain.Transaction
	if err := sqlx.GetContext(ctx, r.db, &tx, query, memberID, domain.TxProcessingFee, domain.TxCompleted); err != nil {
		return nil, err
	}

	return &tx, nil
}

func (r *ledgerRepository) CreateTransaction(ctx context.Context, tx *domain.Transaction) error {
	query := `
		INSERT INTO transactions (id, member_id, type, status, amount, reference, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.ExecContext(ctx, query,
		tx.ID,
		tx.MemberID,
		tx.Type,
		tx.Status,
		tx.Amount,
		tx.Reference,
		tx.CreatedAt,
	)

	return err
}

func (r *ledgerRepository) TreasuryAggregates(ctx context.Context) (*domain.TreasuryAggregates, error) {
	query := `
		SELECT
			COALESCE((SELECT SUM(amount) FROM transactions WHERE type = $1 AND status = $4), 0) AS total_deposits,
			COALESCE((SELECT SUM(amount) FROM transactions WHERE type NOT IN ($1, $2, $3) AND status = $4), 0) AS total_other_income,
			COALESCE((SELECT SUM(amount) FROM transactions WHERE type = $3 AND status = $4), 0) AS total_repayments,
			COALESCE((SELECT SUM(amount_requested) FROM loan_applications WHERE status IN ($5, $6, $7, $8)), 0) AS total_principal_disbursed
	`

	var aggregates domain.TreasuryAggregates
	err := sqlx.GetContext(ctx, r.db, &aggregates, query,
		domain.TxDeposit,
		domain.TxDisbursement,
		domain.TxRepayment,
		domain.TxCompleted,
		domain.StatusActive,
		domain.StatusCompleted,
		domain.StatusInArrears,
		domain.StatusOverdue,
	)
	if err != nil {
		return nil, err
	}

	return &aggregates, nil
}

func (r *ledgerRepository) MembersBelowWeeklyDeposit(ctx context.Context, since time.Time, minimum decimal.Decimal) ([]string, error) {
	// Membership is derived from ledger history: anyone who has ever
	// transacted is expected to keep up the weekly deposit.
	query := `
		SELECT member_id
		FROM transactions
		GROUP BY member_id
		HAVING COALESCE(SUM(amount) FILTER (WHERE type = $1 AND status = $2 AND created_at >= $3), 0) < $4
		ORDER BY member_id
	`

	var members []string
	if err := sqlx.SelectContext(ctx, r.db, &members, query, domain.TxDeposit, domain.TxCompleted, since, minimum); err != nil {
		return nil, err
	}

	return members, nil
}
