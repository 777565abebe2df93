package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/wekeza/sacco-engine/internal/domain"
	"github.com/wekeza/sacco-engine/internal/policy"
	"github.com/wekeza/sacco-engine/internal/repository"
	"github.com/wekeza/sacco-engine/internal/schedule"
	engineErrors "github.com/wekeza/sacco-engine/pkg/errors"
)

// LoanStatusView is the loan read model served to presentation layers:
// the stored row, the computed repayment position for disbursed loans,
// and the guarantor/vote tally.
type LoanStatusView struct {
	Loan     *domain.LoanApplication `json:"loan"`
	Schedule *schedule.Result        `json:"schedule,omitempty"`
	Tally    *domain.Tally           `json:"tally"`
}

// LoanService drives a loan application through its lifecycle. Every
// transition runs inside one unit of work; notification delivery stays
// outside it and never rolls a transition back.
type LoanService struct {
	uow      repository.UnitOfWork
	repos    repository.Repos
	policy   *policy.Provider
	notifier Notifier
	logger   *zap.Logger
	now      func() time.Time
}

func NewLoanService(
	uow repository.UnitOfWork,
	repos repository.Repos,
	policyProvider *policy.Provider,
	notifier Notifier,
	logger *zap.Logger,
) *LoanService {
	return &LoanService{
		uow:      uow,
		repos:    repos,
		policy:   policyProvider,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

// StartApplication opens a FEE_PENDING application for the member.
// A member holds at most one non-terminal application.
func (s *LoanService) StartApplication(ctx context.Context, memberID string) (*domain.LoanApplication, error) {
	if memberID == "" {
		return nil, engineErrors.WrapInvalidInput("member_id is required")
	}

	fee := s.policy.ProcessingFee(ctx)
	now := s.now()

	loan := &domain.LoanApplication{
		ID:              uuid.New(),
		MemberID:        memberID,
		Status:          domain.StatusFeePending,
		AmountRequested: decimal.Zero,
		RepaymentWeeks:  0,
		FeeAmount:       fee,
		InterestAmount:  decimal.Zero,
		TotalDue:        decimal.Zero,
		AmountRepaid:    decimal.Zero,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	err := s.uow.WithinTx(ctx, func(r repository.Repos) error {
		existing, err := r.Loans.GetOpenByMemberID(ctx, memberID)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return engineErrors.WrapDatabaseError(err)
		}
		if existing != nil {
			return engineErrors.WrapActiveApplicationExists(memberID)
		}

		if err := r.Loans.Create(ctx, loan); err != nil {
			return engineErrors.WrapDatabaseError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return loan, nil
}

// GetStatus returns the loan read model. While the loan sits in
// FEE_PENDING this also runs fee reconciliation: an unclaimed
// processing-fee payment is linked by reference and the loan advances
// to FEE_PAID. Linkage is keyed on reference uniqueness, so repeating
// the read never double-links.
func (s *LoanService) GetStatus(ctx context.Context, loanID uuid.UUID) (*LoanStatusView, error) {
	loan, err := s.getLoan(ctx, s.repos, loanID)
	if err != nil {
		return nil, err
	}

	if loan.Status == domain.StatusFeePending {
		if reconciled, err := s.reconcileFee(ctx, loanID); err != nil {
			return nil, err
		} else if reconciled != nil {
			loan = reconciled
		}
	}

	view := &LoanStatusView{Loan: loan}

	if loan.Status.IsDisbursed() && loan.DisbursedAt != nil && loan.TotalDue.IsPositive() {
		result := schedule.Compute(loan, s.now(), s.policy.GracePeriodWeeks(ctx))
		view.Schedule = &result
	}

	accepted, err := s.repos.Guarantors.CountAccepted(ctx, loanID)
	if err != nil {
		return nil, engineErrors.WrapDatabaseError(err)
	}
	yes, no, err := s.repos.Votes.Count(ctx, loanID)
	if err != nil {
		return nil, engineErrors.WrapDatabaseError(err)
	}
	view.Tally = &domain.Tally{
		LoanApplicationID:  loanID,
		GuarantorsAccepted: accepted,
		VotesYes:           yes,
		VotesNo:            no,
	}

	return view, nil
}

func (s *LoanService) reconcileFee(ctx context.Context, loanID uuid.UUID) (*domain.LoanApplication, error) {
	var reconciled *domain.LoanApplication

	err := s.uow.WithinTx(ctx, func(r repository.Repos) error {
		loan, err := s.getLoan(ctx, r, loanID)
		if err != nil {
			return err
		}
		if loan.Status != domain.StatusFeePending {
			reconciled = loan
			return nil
		}

		payment, err := r.Ledger.LatestUnlinkedFeePayment(ctx, loan.MemberID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil // nothing to link yet
			}
			return engineErrors.WrapDatabaseError(err)
		}

		loan.FeeTransactionRef = payment.Reference
		loan.Status = domain.StatusFeePaid
		if err := r.Loans.Update(ctx, loan); err != nil {
			return engineErrors.WrapDatabaseError(err)
		}
		reconciled = loan
		return nil
	})
	if err != nil {
		return nil, err
	}

	return reconciled, nil
}

// SubmitDetails moves FEE_PAID -> PENDING_GUARANTORS, enforcing the
// savings-multiplier ceiling. The error names the computed ceiling.
func (s *LoanService) SubmitDetails(ctx context.Context, loanID uuid.UUID, req *domain.SubmitDetailsRequest) (*domain.LoanApplication, error) {
	if !req.AmountRequested.IsPositive() {
		return nil, engineErrors.WrapInvalidInput("amount_requested must be positive")
	}
	if req.RepaymentWeeks <= 0 {
		return nil, engineErrors.WrapInvalidInput("repayment_weeks must be positive")
	}
	if req.Purpose == "" {
		return nil, engineErrors.WrapInvalidInput("purpose is required")
	}

	var updated *domain.LoanApplication

	err := s.uow.WithinTx(ctx, func(r repository.Repos) error {
		loan, err := s.getLoan(ctx, r, loanID)
		if err != nil {
			return err
		}
		if loan.Status != domain.StatusFeePaid {
			return engineErrors.WrapInvalidState(string(loan.Status), string(domain.StatusFeePaid))
		}

		savings, err := r.Ledger.SumCompletedDeposits(ctx, loan.MemberID)
		if err != nil {
			return engineErrors.WrapDatabaseError(err)
		}
		ceiling := savings.Mul(s.policy.SavingsMultiplier(ctx))
		if req.AmountRequested.GreaterThan(ceiling) {
			return engineErrors.WrapSavingsLimitExceeded(req.AmountRequested, ceiling)
		}

		loan.AmountRequested = req.AmountRequested
		loan.Purpose = req.Purpose
		loan.RepaymentWeeks = req.RepaymentWeeks
		loan.Status = domain.StatusPendingGuarantors
		if err := r.Loans.Update(ctx, loan); err != nil {
			return engineErrors.WrapDatabaseError(err)
		}
		updated = loan
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// Finalize moves PENDING_GUARANTORS -> SUBMITTED once enough
// guarantors have accepted. The error names the required count.
func (s *LoanService) Finalize(ctx context.Context, loanID uuid.UUID) (*domain.LoanApplication, error) {
	var updated *domain.LoanApplication

	err := s.uow.WithinTx(ctx, func(r repository.Repos) error {
		loan, err := s.getLoan(ctx, r, loanID)
		if err != nil {
			return err
		}
		if loan.Status != domain.StatusPendingGuarantors {
			return engineErrors.WrapInvalidState(string(loan.Status), string(domain.StatusPendingGuarantors))
		}

		accepted, err := r.Guarantors.CountAccepted(ctx, loanID)
		if err != nil {
			return engineErrors.WrapDatabaseError(err)
		}
		required := s.policy.MinGuarantors(ctx)
		if accepted < required {
			return engineErrors.WrapInsufficientGuarantors(accepted, required)
		}

		loan.Status = domain.StatusSubmitted
		if err := r.Loans.Update(ctx, loan); err != nil {
			return engineErrors.WrapDatabaseError(err)
		}
		updated = loan
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// Verify is the loan officer's SUBMITTED -> VERIFIED transition.
func (s *LoanService) Verify(ctx context.Context, loanID uuid.UUID) (*domain.LoanApplication, error) {
	loan, err := s.advance(ctx, loanID, domain.StatusSubmitted, domain.StatusVerified)
	if err != nil {
		return nil, err
	}
	s.notifier.Notify(ctx, loan.MemberID, "Your loan application has been verified by the loan officer.")
	return loan, nil
}

// TableMotion is the secretary's VERIFIED -> TABLED transition.
func (s *LoanService) TableMotion(ctx context.Context, loanID uuid.UUID) (*domain.LoanApplication, error) {
	loan, err := s.advance(ctx, loanID, domain.StatusVerified, domain.StatusTabled)
	if err != nil {
		return nil, err
	}
	s.notifier.NotifyAll(ctx, "A loan application has been tabled for the next meeting.")
	return loan, nil
}

// OpenVoting is the chairperson's TABLED -> VOTING transition.
func (s *LoanService) OpenVoting(ctx context.Context, loanID uuid.UUID) (*domain.LoanApplication, error) {
	loan, err := s.advance(ctx, loanID, domain.StatusTabled, domain.StatusVoting)
	if err != nil {
		return nil, err
	}
	s.notifier.NotifyAll(ctx, "Voting is now open on a tabled loan application.")
	return loan, nil
}

// Decide is the secretary's finalization after the tally: VOTING ->
// APPROVED or REJECTED. No quorum is computed; the decision is manual.
func (s *LoanService) Decide(ctx context.Context, loanID uuid.UUID, approve bool) (*domain.LoanApplication, error) {
	to := domain.StatusRejected
	outcome := "rejected"
	if approve {
		to = domain.StatusApproved
		outcome = "approved"
	}

	loan, err := s.advance(ctx, loanID, domain.StatusVoting, to)
	if err != nil {
		return nil, err
	}
	s.notifier.Notify(ctx, loan.MemberID, fmt.Sprintf("Your loan application has been %s.", outcome))
	return loan, nil
}

// Disburse is the treasurer's APPROVED -> ACTIVE transition. Interest
// is a one-time simple charge: principal times the policy rate as a
// percentage. The disbursement ledger entry commits with the status
// write or not at all.
func (s *LoanService) Disburse(ctx context.Context, loanID uuid.UUID) (*domain.LoanApplication, error) {
	var updated *domain.LoanApplication

	err := s.uow.WithinTx(ctx, func(r repository.Repos) error {
		loan, err := s.getLoan(ctx, r, loanID)
		if err != nil {
			return err
		}
		if loan.Status != domain.StatusApproved {
			return engineErrors.WrapInvalidState(string(loan.Status), string(domain.StatusApproved))
		}

		rate := s.policy.InterestRatePercent(ctx)
		interest := loan.AmountRequested.Mul(rate).Div(decimal.NewFromInt(100))
		now := s.now()

		loan.InterestAmount = interest
		loan.TotalDue = loan.AmountRequested.Add(interest)
		loan.DisbursedAt = &now
		loan.Status = domain.StatusActive
		if err := r.Loans.Update(ctx, loan); err != nil {
			return engineErrors.WrapDatabaseError(err)
		}

		disbursement := &domain.Transaction{
			ID:        uuid.New(),
			MemberID:  loan.MemberID,
			Type:      domain.TxDisbursement,
			Status:    domain.TxCompleted,
			Amount:    loan.AmountRequested,
			Reference: fmt.Sprintf("DSB-%s", loan.ID),
			CreatedAt: now,
		}
		if err := r.Ledger.CreateTransaction(ctx, disbursement); err != nil {
			return engineErrors.WrapDatabaseError(err)
		}

		updated = loan
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Notify(ctx, updated.MemberID, "Your loan has been disbursed.")
	return updated, nil
}

// RecordRepayment adds a repayment to the running total and writes the
// matching ledger entry in the same transaction. Over-payment is
// tolerated; reaching the total due completes the loan.
func (s *LoanService) RecordRepayment(ctx context.Context, loanID uuid.UUID, amount decimal.Decimal) (*domain.LoanApplication, error) {
	if !amount.IsPositive() {
		return nil, engineErrors.WrapInvalidInput("repayment amount must be positive")
	}

	var updated *domain.LoanApplication

	err := s.uow.WithinTx(ctx, func(r repository.Repos) error {
		loan, err := s.getLoan(ctx, r, loanID)
		if err != nil {
			return err
		}
		if !loan.Status.IsDisbursed() || loan.Status == domain.StatusCompleted {
			return engineErrors.WrapInvalidState(string(loan.Status), string(domain.StatusActive))
		}

		now := s.now()
		loan.AmountRepaid = loan.AmountRepaid.Add(amount)
		if loan.AmountRepaid.GreaterThanOrEqual(loan.TotalDue) {
			loan.Status = domain.StatusCompleted
		}
		if err := r.Loans.Update(ctx, loan); err != nil {
			return engineErrors.WrapDatabaseError(err)
		}

		repayment := &domain.Transaction{
			ID:        uuid.New(),
			MemberID:  loan.MemberID,
			Type:      domain.TxRepayment,
			Status:    domain.TxCompleted,
			Amount:    amount,
			Reference: fmt.Sprintf("RPY-%s-%d", loan.ID, now.UnixNano()),
			CreatedAt: now,
		}
		if err := r.Ledger.CreateTransaction(ctx, repayment); err != nil {
			return engineErrors.WrapDatabaseError(err)
		}

		updated = loan
		return nil
	})
	if err != nil {
		return nil, err
	}

	if updated.Status == domain.StatusCompleted {
		s.notifier.Notify(ctx, updated.MemberID, "Congratulations, your loan is fully repaid.")
	}
	return updated, nil
}

// advance performs a plain from -> to status move with no extra writes.
func (s *LoanService) advance(ctx context.Context, loanID uuid.UUID, from, to domain.Status) (*domain.LoanApplication, error) {
	var updated *domain.LoanApplication

	err := s.uow.WithinTx(ctx, func(r repository.Repos) error {
		loan, err := s.getLoan(ctx, r, loanID)
		if err != nil {
			return err
		}
		if loan.Status != from || !domain.CanTransition(from, to) {
			return engineErrors.WrapInvalidState(string(loan.Status), string(from))
		}

		loan.Status = to
		if err := r.Loans.Update(ctx, loan); err != nil {
			return engineErrors.WrapDatabaseError(err)
		}
		updated = loan
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("loan transitioned",
		zap.String("loan_id", loanID.String()),
		zap.String("from", string(from)),
		zap.String("to", string(to)),
	)
	return updated, nil
}

func (s *LoanService) getLoan(ctx context.Context, r repository.Repos, loanID uuid.UUID) (*domain.LoanApplication, error) {
	loan, err := r.Loans.GetByID(ctx, loanID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, engineErrors.WrapLoanNotFound(loanID.String())
		}
		return nil, engineErrors.WrapDatabaseError(err)
	}
	return loan, nil
}
