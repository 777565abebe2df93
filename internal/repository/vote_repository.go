package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/wekeza/sacco-engine/internal/domain"
)

type voteRepository struct {
	db sqlx.ExtContext
}

func NewVoteRepository(db sqlx.ExtContext) VoteRepository {
	return &voteRepository{db: db}
}

func (r *voteRepository) Create(ctx context.Context, vote *domain.Vote) error {
	query := `
		INSERT INTO votes (id, loan_application_id, member_id, decision, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.ExecContext(ctx, query,
		vote.ID,
		vote.LoanApplicationID,
		vote.MemberID,
		vote.Decision,
		vote.CreatedAt,
	)

	return err
}

func (r *voteRepository) Count(ctx context.Context, loanID uuid.UUID) (int, int, error) {
	query := `
		SELECT
			COUNT(*) FILTER (WHERE decision = $2) AS yes,
			COUNT(*) FILTER (WHERE decision = $3) AS no
		FROM votes
		WHERE loan_application_id = $1
	`

	var counts struct {
		Yes int `db:"yes"`
		No  int `db:"no"`
	}
	if err := sqlx.GetContext(ctx, r.db, &counts, query, loanID, domain.VoteYes, domain.VoteNo); err != nil {
		return 0, 0, err
	}

	return counts.Yes, counts.No, nil
}
