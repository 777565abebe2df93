package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/wekeza/sacco-engine/internal/domain"
	"github.com/wekeza/sacco-engine/internal/repository"
	engineErrors "github.com/wekeza/sacco-engine/pkg/errors"
)

// TallyService tracks guarantor consensus and member votes. Duplicate
// submissions are rejected by the database uniqueness constraints, so
// concurrent requests need no extra locking: the loser gets a conflict.
type TallyService struct {
	uow   repository.UnitOfWork
	repos repository.Repos
	now   func() time.Time
}

func NewTallyService(uow repository.UnitOfWork, repos repository.Repos) *TallyService {
	return &TallyService{
		uow:   uow,
		repos: repos,
		now:   time.Now,
	}
}

// AddGuarantor invites a member to guarantee a PENDING_GUARANTORS loan.
func (s *TallyService) AddGuarantor(ctx context.Context, loanID uuid.UUID, guarantorID string) (*domain.GuarantorRequest, error) {
	if guarantorID == "" {
		return nil, engineErrors.WrapInvalidInput("guarantor_id is required")
	}

	request := &domain.GuarantorRequest{
		ID:                uuid.New(),
		LoanApplicationID: loanID,
		GuarantorID:       guarantorID,
		Status:            domain.GuarantorPending,
		CreatedAt:         s.now(),
	}

	err := s.uow.WithinTx(ctx, func(r repository.Repos) error {
		loan, err := r.Loans.GetByID(ctx, loanID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return engineErrors.WrapLoanNotFound(loanID.String())
			}
			return engineErrors.WrapDatabaseError(err)
		}
		if loan.Status != domain.StatusPendingGuarantors {
			return engineErrors.WrapInvalidState(string(loan.Status), string(domain.StatusPendingGuarantors))
		}

		if err := r.Guarantors.Create(ctx, request); err != nil {
			if repository.IsUniqueViolation(err) {
				return engineErrors.WrapDuplicateGuarantor(loanID.String(), guarantorID)
			}
			return engineErrors.WrapDatabaseError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return request, nil
}

// RespondGuarantor records the invited guarantor's one-time answer.
func (s *TallyService) RespondGuarantor(ctx context.Context, requestID uuid.UUID, accept bool) (*domain.GuarantorRequest, error) {
	var updated *domain.GuarantorRequest

	err := s.uow.WithinTx(ctx, func(r repository.Repos) error {
		request, err := r.Guarantors.GetByID(ctx, requestID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return engineErrors.WrapGuarantorRequestMissing(requestID.String())
			}
			return engineErrors.WrapDatabaseError(err)
		}
		if request.Status != domain.GuarantorPending {
			return engineErrors.WrapGuarantorAlreadyDecided(requestID.String())
		}

		status := domain.GuarantorRejected
		if accept {
			status = domain.GuarantorAccepted
		}
		respondedAt := s.now()
		if err := r.Guarantors.UpdateStatus(ctx, requestID, status, respondedAt); err != nil {
			return engineErrors.WrapDatabaseError(err)
		}

		request.Status = status
		request.RespondedAt = &respondedAt
		updated = request
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// CastVote records a member's single ballot on a loan in VOTING. The
// loan owner may not vote on their own loan.
func (s *TallyService) CastVote(ctx context.Context, loanID uuid.UUID, memberID string, approve bool) (*domain.Vote, error) {
	if memberID == "" {
		return nil, engineErrors.WrapInvalidInput("member_id is required")
	}

	decision := domain.VoteNo
	if approve {
		decision = domain.VoteYes
	}

	vote := &domain.Vote{
		ID:                uuid.New(),
		LoanApplicationID: loanID,
		MemberID:          memberID,
		Decision:          decision,
		CreatedAt:         s.now(),
	}

	err := s.uow.WithinTx(ctx, func(r repository.Repos) error {
		loan, err := r.Loans.GetByID(ctx, loanID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return engineErrors.WrapLoanNotFound(loanID.String())
			}
			return engineErrors.WrapDatabaseError(err)
		}
		if loan.Status != domain.StatusVoting {
			return engineErrors.WrapInvalidState(string(loan.Status), string(domain.StatusVoting))
		}
		if loan.MemberID == memberID {
			return engineErrors.WrapOwnLoanVote(loanID.String())
		}

		if err := r.Votes.Create(ctx, vote); err != nil {
			if repository.IsUniqueViolation(err) {
				return engineErrors.WrapDuplicateVote(loanID.String(), memberID)
			}
			return engineErrors.WrapDatabaseError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return vote, nil
}

// Tally returns the display-only guarantor and vote counts for a loan.
func (s *TallyService) Tally(ctx context.Context, loanID uuid.UUID) (*domain.Tally, error) {
	accepted, err := s.repos.Guarantors.CountAccepted(ctx, loanID)
	if err != nil {
		return nil, engineErrors.WrapDatabaseError(err)
	}

	yes, no, err := s.repos.Votes.Count(ctx, loanID)
	if err != nil {
		return nil, engineErrors.WrapDatabaseError(err)
	}

	return &domain.Tally{
		LoanApplicationID:  loanID,
		GuarantorsAccepted: accepted,
		VotesYes:           yes,
		VotesNo:            no,
	}, nil
}
