package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/wekeza/sacco-engine/internal/domain"
)

type guarantorRepository struct {
	db sqlx.ExtContext
}

func NewGuarantorRepository(db sqlx.ExtContext) GuarantorRepository {
	return &guarantorRepository{db: db}
}

func (r *guarantorRepository) Create(ctx context.Context, request *domain.GuarantorRequest) error {
	query := `
		INSERT INTO guarantor_requests (id, loan_application_id, guarantor_id, status, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.ExecContext(ctx, query,
		request.ID,
		request.LoanApplicationID,
		request.GuarantorID,
		request.Status,
		request.CreatedAt,
	)

	return err
}

func (r *guarantorRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.GuarantorRequest, error) {
	query := `
		SELECT id, loan_application_id, guarantor_id, status, created_at, responded_at
		FROM guarantor_requests
		WHERE id = $1
	`

	var request domain.GuarantorRequest
	if err := sqlx.GetContext(ctx, r.db, &request, query, id); err != nil {
		return nil, err
	}

	return &request, nil
}

func (r *guarantorRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.GuarantorStatus, respondedAt time.Time) error {
	query := `
		UPDATE guarantor_requests
		SET status = $2, responded_at = $3
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query, id, status, respondedAt)
	return err
}

func (r *guarantorRepository) CountAccepted(ctx context.Context, loanID uuid.UUID) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM guarantor_requests
		WHERE loan_application_id = $1 AND status = $2
	`

	var count int
	if err := sqlx.GetContext(ctx, r.db, &count, query, loanID, domain.GuarantorAccepted); err != nil {
		return 0, err
	}

	return count, nil
}

func (r *guarantorRepository) ListByLoanID(ctx context.Context, loanID uuid.UUID) ([]*domain.GuarantorRequest, error) {
	query := `
		SELECT id, loan_application_id, guarantor_id, status, created_at, responded_at
		FROM guarantor_requests
		WHERE loan_application_id = $1
		ORDER BY created_at
	`

	var requests []*domain.GuarantorRequest
	if err := sqlx.SelectContext(ctx, r.db, &requests, query, loanID); err != nil {
		return nil, err
	}

	return requests, nil
}
