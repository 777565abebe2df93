package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/wekeza/sacco-engine/internal/domain"
)

type fineRepository struct {
	db sqlx.ExtContext
}

func NewFineRepository(db sqlx.ExtContext) FineRepository {
	return &fineRepository{db: db}
}

func (r *fineRepository) Create(ctx context.Context, fine *domain.MemberFine) error {
	query := `
		INSERT INTO member_fines (id, member_id, reason, original_amount, current_balance,
			interest_stage, status, date_created, date_stage_1_applied, date_stage_2_applied)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.ExecContext(ctx, query,
		fine.ID,
		fine.MemberID,
		fine.Reason,
		fine.OriginalAmount,
		fine.CurrentBalance,
		fine.InterestStage,
		fine.Status,
		fine.DateCreated,
		fine.DateStage1Applied,
		fine.DateStage2Applied,
	)

	return err
}

func (r *fineRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.MemberFine, error) {
	query := `
		SELECT id, member_id, reason, original_amount, current_balance,
			interest_stage, status, date_created, date_stage_1_applied, date_stage_2_applied
		FROM member_fines
		WHERE id = $1
	`

	var fine domain.MemberFine
	if err := sqlx.GetContext(ctx, r.db, &fine, query, id); err != nil {
		return nil, err
	}

	return &fine, nil
}

func (r *fineRepository) ListOpenByMemberID(ctx context.Context, memberID string) ([]*domain.MemberFine, error) {
	query := `
		SELECT id, member_id, reason, original_amount, current_balance,
			interest_stage, status, date_created, date_stage_1_applied, date_stage_2_applied
		FROM member_fines
		WHERE member_id = $1 AND status = $2
		ORDER BY date_created
	`

	var fines []*domain.MemberFine
	if err := sqlx.SelectContext(ctx, r.db, &fines, query, memberID, domain.FineOpen); err != nil {
		return nil, err
	}

	return fines, nil
}

func (r *fineRepository) UpdateEscalation(ctx context.Context, fine *domain.MemberFine) error {
	query := `
		UPDATE member_fines
		SET current_balance = $2, interest_stage = $3, date_stage_1_applied = $4, date_stage_2_applied = $5
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query,
		fine.ID,
		fine.CurrentBalance,
		fine.InterestStage,
		fine.DateStage1Applied,
		fine.DateStage2Applied,
	)

	return err
}
