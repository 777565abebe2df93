package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/wekeza/sacco-engine/internal/domain"
	"github.com/wekeza/sacco-engine/internal/repository"
)

// fakeUnitOfWork hands the test's mock repositories to the callback;
// rollback/commit behavior is covered by the repository package tests.
type fakeUnitOfWork struct {
	repos repository.Repos
}

func (f *fakeUnitOfWork) WithinTx(_ context.Context, fn func(r repository.Repos) error) error {
	return fn(f.repos)
}

type mapSettings struct {
	values map[string]string
}

func (s *mapSettings) Get(_ context.Context, key string) (string, error) {
	return s.values[key], nil
}

type MockLoanRepository struct {
	mock.Mock
}

func (m *MockLoanRepository) Create(ctx context.Context, loan *domain.LoanApplication) error {
	args := m.Called(ctx, loan)
	return args.Error(0)
}

func (m *MockLoanRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.LoanApplication, error) {
	args := m.Called(ctx, id)
	if loan := args.Get(0); loan != nil {
		return loan.(*domain.LoanApplication), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockLoanRepository) GetOpenByMemberID(ctx context.Context, memberID string) (*domain.LoanApplication, error) {
	args := m.Called(ctx, memberID)
	if loan := args.Get(0); loan != nil {
		return loan.(*domain.LoanApplication), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockLoanRepository) Update(ctx context.Context, loan *domain.LoanApplication) error {
	args := m.Called(ctx, loan)
	return args.Error(0)
}

func (m *MockLoanRepository) ListByStatuses(ctx context.Context, statuses ...domain.Status) ([]*domain.LoanApplication, error) {
	args := m.Called(ctx, statuses)
	if loans := args.Get(0); loans != nil {
		return loans.([]*domain.LoanApplication), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockGuarantorRepository struct {
	mock.Mock
}

func (m *MockGuarantorRepository) Create(ctx context.Context, request *domain.GuarantorRequest) error {
	args := m.Called(ctx, request)
	return args.Error(0)
}

func (m *MockGuarantorRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.GuarantorRequest, error) {
	args := m.Called(ctx, id)
	if request := args.Get(0); request != nil {
		return request.(*domain.GuarantorRequest), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockGuarantorRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.GuarantorStatus, respondedAt time.Time) error {
	args := m.Called(ctx, id, status, respondedAt)
	return args.Error(0)
}

func (m *MockGuarantorRepository) CountAccepted(ctx context.Context, loanID uuid.UUID) (int, error) {
	args := m.Called(ctx, loanID)
	return args.Int(0), args.Error(1)
}

func (m *MockGuarantorRepository) ListByLoanID(ctx context.Context, loanID uuid.UUID) ([]*domain.GuarantorRequest, error) {
	args := m.Called(ctx, loanID)
	if requests := args.Get(0); requests != nil {
		return requests.([]*domain.GuarantorRequest), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockVoteRepository struct {
	mock.Mock
}

func (m *MockVoteRepository) Create(ctx context.Context, vote *domain.Vote) error {
	args := m.Called(ctx, vote)
	return args.Error(0)
}

func (m *MockVoteRepository) Count(ctx context.Context, loanID uuid.UUID) (int, int, error) {
	args := m.Called(ctx, loanID)
	return args.Int(0), args.Int(1), args.Error(2)
}

type MockFineRepository struct {
	mock.Mock
}

func (m *MockFineRepository) Create(ctx context.Context, fine *domain.MemberFine) error {
	args := m.Called(ctx, fine)
	return args.Error(0)
}

func (m *MockFineRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.MemberFine, error) {
	args := m.Called(ctx, id)
	if fine := args.Get(0); fine != nil {
		return fine.(*domain.MemberFine), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockFineRepository) ListOpenByMemberID(ctx context.Context, memberID string) ([]*domain.MemberFine, error) {
	args := m.Called(ctx, memberID)
	if fines := args.Get(0); fines != nil {
		return fines.([]*domain.MemberFine), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockFineRepository) UpdateEscalation(ctx context.Context, fine *domain.MemberFine) error {
	args := m.Called(ctx, fine)
	return args.Error(0)
}

type MockLedgerRepository struct {
	mock.Mock
}

func (m *MockLedgerRepository) SumCompletedDeposits(ctx context.Context, memberID string) (decimal.Decimal, error) {
	args := m.Called(ctx, memberID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockLedgerRepository) LatestUnlinkedFeePayment(ctx context.Context, memberID string) (*domain.Transaction, error) {
	args := m.Called(ctx, memberID)
	if tx := args.Get(0); tx != nil {
		return tx.(*domain.Transaction), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockLedgerRepository) CreateTransaction(ctx context.Context, tx *domain.Transaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockLedgerRepository) TreasuryAggregates(ctx context.Context) (*domain.TreasuryAggregates, error) {
	args := m.Called(ctx)
	if aggregates := args.Get(0); aggregates != nil {
		return aggregates.(*domain.TreasuryAggregates), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockLedgerRepository) MembersBelowWeeklyDeposit(ctx context.Context, since time.Time, minimum decimal.Decimal) ([]string, error) {
	args := m.Called(ctx, since, minimum)
	if members := args.Get(0); members != nil {
		return members.([]string), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockSettingRepository struct {
	mock.Mock
}

func (m *MockSettingRepository) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}
