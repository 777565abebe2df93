package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/wekeza/sacco-engine/internal/domain"
	"github.com/wekeza/sacco-engine/internal/policy"
	"github.com/wekeza/sacco-engine/internal/repository"
	engineErrors "github.com/wekeza/sacco-engine/pkg/errors"
)

// FineService serves member fines with lazy interest escalation: no
// timer charges interest, the next fetch does. The pure stage rules
// live on the domain type; this service only persists what changed.
type FineService struct {
	uow      repository.UnitOfWork
	repos    repository.Repos
	policy   *policy.Provider
	notifier Notifier
	logger   *zap.Logger
	now      func() time.Time
}

func NewFineService(
	uow repository.UnitOfWork,
	repos repository.Repos,
	policyProvider *policy.Provider,
	notifier Notifier,
	logger *zap.Logger,
) *FineService {
	return &FineService{
		uow:      uow,
		repos:    repos,
		policy:   policyProvider,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

// ListWithEscalation returns the member's open fines after applying
// any due interest stages. Escalated fines are persisted in a single
// transaction; fines with nothing due are returned untouched.
func (s *FineService) ListWithEscalation(ctx context.Context, memberID string) ([]*domain.MemberFine, error) {
	if memberID == "" {
		return nil, engineErrors.WrapInvalidInput("member_id is required")
	}

	fines, err := s.repos.Fines.ListOpenByMemberID(ctx, memberID)
	if err != nil {
		return nil, engineErrors.WrapDatabaseError(err)
	}

	now := s.now()
	var escalated []*domain.MemberFine
	for _, fine := range fines {
		if fine.Escalate(now) {
			escalated = append(escalated, fine)
		}
	}

	if len(escalated) > 0 {
		err := s.uow.WithinTx(ctx, func(r repository.Repos) error {
			for _, fine := range escalated {
				if err := r.Fines.UpdateEscalation(ctx, fine); err != nil {
					return engineErrors.WrapDatabaseError(err)
				}
			}
			return nil
		})
		if err != nil {
			return nil, err
		}

		s.logger.Info("escalated fines",
			zap.String("member_id", memberID),
			zap.Int("count", len(escalated)),
		)
	}

	return fines, nil
}

// LevyMissedDepositFines creates an OPEN fine for every member whose
// completed deposits over the trailing week fall short of the policy
// minimum. Returns the number of fines created. Escalation of existing
// fines stays out of here; it happens lazily on fetch.
func (s *FineService) LevyMissedDepositFines(ctx context.Context) (int, error) {
	minimum := s.policy.MinWeeklyDeposit(ctx)
	penalty := s.policy.MissedDepositPenalty(ctx)
	now := s.now()
	cutoff := now.AddDate(0, 0, -7)

	members, err := s.repos.Ledger.MembersBelowWeeklyDeposit(ctx, cutoff, minimum)
	if err != nil {
		return 0, engineErrors.WrapDatabaseError(err)
	}
	if len(members) == 0 {
		return 0, nil
	}

	err = s.uow.WithinTx(ctx, func(r repository.Repos) error {
		for _, memberID := range members {
			fine := &domain.MemberFine{
				ID:             uuid.New(),
				MemberID:       memberID,
				Reason:         fmt.Sprintf("missed minimum weekly deposit of %s", minimum.StringFixed(2)),
				OriginalAmount: penalty,
				CurrentBalance: penalty,
				InterestStage:  domain.StageNone,
				Status:         domain.FineOpen,
				DateCreated:    now,
			}
			if err := r.Fines.Create(ctx, fine); err != nil {
				return engineErrors.WrapDatabaseError(err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	for _, memberID := range members {
		s.notifier.Notify(ctx, memberID,
			fmt.Sprintf("A fine of %s has been applied for missing the weekly deposit.", penalty.StringFixed(2)))
	}

	s.logger.Info("levied missed-deposit fines",
		zap.Int("count", len(members)),
		zap.String("penalty", penalty.StringFixed(2)),
	)
	return len(members), nil
}

// MinWeeklyDeposit exposes the current compliance floor for read models.
func (s *FineService) MinWeeklyDeposit(ctx context.Context) decimal.Decimal {
	return s.policy.MinWeeklyDeposit(ctx)
}
