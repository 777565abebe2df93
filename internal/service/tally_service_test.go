package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/wekeza/sacco-engine/internal/domain"
	"github.com/wekeza/sacco-engine/internal/repository"
	engineErrors "github.com/wekeza/sacco-engine/pkg/errors"
)

type tallyFixture struct {
	service    *TallyService
	loans      *MockLoanRepository
	guarantors *MockGuarantorRepository
	votes      *MockVoteRepository
}

func newTallyFixture() *tallyFixture {
	loans := new(MockLoanRepository)
	guarantors := new(MockGuarantorRepository)
	votes := new(MockVoteRepository)

	repos := repository.Repos{
		Loans:      loans,
		Guarantors: guarantors,
		Votes:      votes,
	}

	return &tallyFixture{
		service:    NewTallyService(&fakeUnitOfWork{repos: repos}, repos),
		loans:      loans,
		guarantors: guarantors,
		votes:      votes,
	}
}

func TestAddGuarantor(t *testing.T) {
	t.Run("creates a pending request on a PENDING_GUARANTORS loan", func(t *testing.T) {
		f := newTallyFixture()
		loanID := uuid.New()
		f.loans.On("GetByID", mock.Anything, loanID).
			Return(&domain.LoanApplication{ID: loanID, Status: domain.StatusPendingGuarantors}, nil)
		f.guarantors.On("Create", mock.Anything, mock.MatchedBy(func(r *domain.GuarantorRequest) bool {
			return r.GuarantorID == "MBR-002" && r.Status == domain.GuarantorPending
		})).Return(nil)

		request, err := f.service.AddGuarantor(context.Background(), loanID, "MBR-002")

		require.NoError(t, err)
		assert.Equal(t, domain.GuarantorPending, request.Status)
	})

	t.Run("duplicate guarantor surfaces a conflict", func(t *testing.T) {
		f := newTallyFixture()
		loanID := uuid.New()
		f.loans.On("GetByID", mock.Anything, loanID).
			Return(&domain.LoanApplication{ID: loanID, Status: domain.StatusPendingGuarantors}, nil)
		f.guarantors.On("Create", mock.Anything, mock.Anything).Return(&pq.Error{Code: "23505"})

		_, err := f.service.AddGuarantor(context.Background(), loanID, "MBR-002")

		assert.True(t, errors.Is(err, engineErrors.ErrDuplicateGuarantor))
		assert.Equal(t, engineErrors.KindConflict, engineErrors.KindOf(err))
	})

	t.Run("rejects when the loan is past guarantor collection", func(t *testing.T) {
		f := newTallyFixture()
		loanID := uuid.New()
		f.loans.On("GetByID", mock.Anything, loanID).
			Return(&domain.LoanApplication{ID: loanID, Status: domain.StatusVoting}, nil)

		_, err := f.service.AddGuarantor(context.Background(), loanID, "MBR-002")

		assert.True(t, errors.Is(err, engineErrors.ErrInvalidState))
		f.guarantors.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestRespondGuarantor(t *testing.T) {
	t.Run("records an acceptance once", func(t *testing.T) {
		f := newTallyFixture()
		requestID := uuid.New()
		f.guarantors.On("GetByID", mock.Anything, requestID).
			Return(&domain.GuarantorRequest{ID: requestID, Status: domain.GuarantorPending}, nil)
		f.guarantors.On("UpdateStatus", mock.Anything, requestID, domain.GuarantorAccepted, mock.Anything).Return(nil)

		request, err := f.service.RespondGuarantor(context.Background(), requestID, true)

		require.NoError(t, err)
		assert.Equal(t, domain.GuarantorAccepted, request.Status)
		assert.NotNil(t, request.RespondedAt)
	})

	t.Run("second answer is rejected", func(t *testing.T) {
		f := newTallyFixture()
		requestID := uuid.New()
		f.guarantors.On("GetByID", mock.Anything, requestID).
			Return(&domain.GuarantorRequest{ID: requestID, Status: domain.GuarantorAccepted}, nil)

		_, err := f.service.RespondGuarantor(context.Background(), requestID, false)

		assert.True(t, errors.Is(err, engineErrors.ErrGuarantorAlreadyDecided))
		f.guarantors.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestCastVote(t *testing.T) {
	votingLoan := func(loanID uuid.UUID) *domain.LoanApplication {
		return &domain.LoanApplication{ID: loanID, MemberID: "MBR-001", Status: domain.StatusVoting}
	}

	t.Run("records a yes ballot", func(t *testing.T) {
		f := newTallyFixture()
		loanID := uuid.New()
		f.loans.On("GetByID", mock.Anything, loanID).Return(votingLoan(loanID), nil)
		f.votes.On("Create", mock.Anything, mock.MatchedBy(func(v *domain.Vote) bool {
			return v.MemberID == "MBR-002" && v.Decision == domain.VoteYes
		})).Return(nil)

		vote, err := f.service.CastVote(context.Background(), loanID, "MBR-002", true)

		require.NoError(t, err)
		assert.Equal(t, domain.VoteYes, vote.Decision)
	})

	t.Run("owner may not vote on their own loan", func(t *testing.T) {
		f := newTallyFixture()
		loanID := uuid.New()
		f.loans.On("GetByID", mock.Anything, loanID).Return(votingLoan(loanID), nil)

		_, err := f.service.CastVote(context.Background(), loanID, "MBR-001", true)

		assert.True(t, errors.Is(err, engineErrors.ErrOwnLoanVote))
		f.votes.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("votes only while the loan is VOTING", func(t *testing.T) {
		f := newTallyFixture()
		loanID := uuid.New()
		f.loans.On("GetByID", mock.Anything, loanID).
			Return(&domain.LoanApplication{ID: loanID, MemberID: "MBR-001", Status: domain.StatusTabled}, nil)

		_, err := f.service.CastVote(context.Background(), loanID, "MBR-002", true)

		assert.True(t, errors.Is(err, engineErrors.ErrInvalidState))
	})

	t.Run("duplicate ballot surfaces a conflict", func(t *testing.T) {
		f := newTallyFixture()
		loanID := uuid.New()
		f.loans.On("GetByID", mock.Anything, loanID).Return(votingLoan(loanID), nil)
		f.votes.On("Create", mock.Anything, mock.Anything).Return(&pq.Error{Code: "23505"})

		_, err := f.service.CastVote(context.Background(), loanID, "MBR-002", false)

		assert.True(t, errors.Is(err, engineErrors.ErrDuplicateVote))
	})

	t.Run("unknown loan", func(t *testing.T) {
		f := newTallyFixture()
		loanID := uuid.New()
		f.loans.On("GetByID", mock.Anything, loanID).Return(nil, sql.ErrNoRows)

		_, err := f.service.CastVote(context.Background(), loanID, "MBR-002", true)

		assert.True(t, errors.Is(err, engineErrors.ErrLoanNotFound))
	})
}

func TestTally(t *testing.T) {
	f := newTallyFixture()
	loanID := uuid.New()
	f.guarantors.On("CountAccepted", mock.Anything, loanID).Return(2, nil)
	f.votes.On("Count", mock.Anything, loanID).Return(7, 3, nil)

	tally, err := f.service.Tally(context.Background(), loanID)

	require.NoError(t, err)
	assert.Equal(t, 2, tally.GuarantorsAccepted)
	assert.Equal(t, 7, tally.VotesYes)
	assert.Equal(t, 3, tally.VotesNo)
}
