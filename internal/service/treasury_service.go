package service

import (
	"context"
	"time"

	"github.com/wekeza/sacco-engine/internal/domain"
	"github.com/wekeza/sacco-engine/internal/repository"
	engineErrors "github.com/wekeza/sacco-engine/pkg/errors"
)

// TreasuryService reports funds available for new disbursement. The
// figure is recomputed from source aggregates on every call; there is
// no running balance to drift.
type TreasuryService struct {
	repos repository.Repos
	now   func() time.Time
}

func NewTreasuryService(repos repository.Repos) *TreasuryService {
	return &TreasuryService{
		repos: repos,
		now:   time.Now,
	}
}

// Snapshot reconciles the four ledgers into available funds:
// (deposits + other income + repayments) - principal out the door.
func (s *TreasuryService) Snapshot(ctx context.Context) (*domain.TreasurySnapshot, error) {
	aggregates, err := s.repos.Ledger.TreasuryAggregates(ctx)
	if err != nil {
		return nil, engineErrors.WrapDatabaseError(err)
	}

	available := aggregates.TotalDeposits.
		Add(aggregates.TotalOtherIncome).
		Add(aggregates.TotalRepayments).
		Sub(aggregates.TotalPrincipalDisbursed)

	return &domain.TreasurySnapshot{
		TotalDeposits:           aggregates.TotalDeposits,
		TotalOtherIncome:        aggregates.TotalOtherIncome,
		TotalRepayments:         aggregates.TotalRepayments,
		TotalPrincipalDisbursed: aggregates.TotalPrincipalDisbursed,
		AvailableFunds:          available,
		ComputedAt:              s.now(),
	}, nil
}
