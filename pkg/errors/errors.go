package errors

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Kind classifies an engine error for transport mapping and rollback
// decisions.
type Kind string

const (
	KindValidation   Kind = "VALIDATION"
	KindPrecondition Kind = "PRECONDITION"
	KindConflict     Kind = "CONFLICT"
	KindPersistence  Kind = "PERSISTENCE"
)

// Sentinel errors usable with errors.Is.
var (
	ErrLoanNotFound            = errors.New("loan application not found")
	ErrFineNotFound            = errors.New("fine not found")
	ErrGuarantorRequestMissing = errors.New("guarantor request not found")
	ErrInvalidState            = errors.New("loan is not in the required state")
	ErrActiveApplicationExists = errors.New("member already has an application in progress")
	ErrSavingsLimitExceeded    = errors.New("requested amount exceeds savings-based limit")
	ErrInsufficientGuarantors  = errors.New("not enough accepted guarantors")
	ErrFeePaymentMissing       = errors.New("no processing fee payment found")
	ErrDuplicateGuarantor      = errors.New("guarantor already added to this loan")
	ErrDuplicateVote           = errors.New("member has already voted on this loan")
	ErrOwnLoanVote             = errors.New("members may not vote on their own loan")
	ErrGuarantorAlreadyDecided = errors.New("guarantor request already answered")
)

// Error is a coded engine error. Code and Message are safe to show to
// members; Err carries the underlying cause for logs.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a coded engine error.
func New(kind Kind, code, message string, err error) *Error {
	return &Error{
		Kind:    kind,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// KindOf returns the Kind of err, or an empty Kind for foreign errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// Error codes
const (
	CodeLoanNotFound            = "LOAN_NOT_FOUND"
	CodeFineNotFound            = "FINE_NOT_FOUND"
	CodeGuarantorRequestMissing = "GUARANTOR_REQUEST_NOT_FOUND"
	CodeInvalidState            = "INVALID_LOAN_STATE"
	CodeActiveApplication       = "ACTIVE_APPLICATION_EXISTS"
	CodeSavingsLimitExceeded    = "SAVINGS_LIMIT_EXCEEDED"
	CodeInsufficientGuarantors  = "INSUFFICIENT_GUARANTORS"
	CodeFeePaymentMissing       = "FEE_PAYMENT_MISSING"
	CodeDuplicateGuarantor      = "DUPLICATE_GUARANTOR"
	CodeDuplicateVote           = "DUPLICATE_VOTE"
	CodeOwnLoanVote             = "OWN_LOAN_VOTE"
	CodeGuarantorDecided        = "GUARANTOR_ALREADY_DECIDED"
	CodeInvalidInput            = "INVALID_INPUT"
	CodeDatabaseError           = "DATABASE_ERROR"
)

// Wrap helpers, one per user-meaningful failure.

func WrapLoanNotFound(loanID string) *Error {
	return New(
		KindPrecondition,
		CodeLoanNotFound,
		fmt.Sprintf("Loan application %s not found", loanID),
		ErrLoanNotFound,
	)
}

func WrapFineNotFound(fineID string) *Error {
	return New(
		KindPrecondition,
		CodeFineNotFound,
		fmt.Sprintf("Fine %s not found", fineID),
		ErrFineNotFound,
	)
}

func WrapGuarantorRequestMissing(requestID string) *Error {
	return New(
		KindPrecondition,
		CodeGuarantorRequestMissing,
		fmt.Sprintf("Guarantor request %s not found", requestID),
		ErrGuarantorRequestMissing,
	)
}

func WrapInvalidState(current, required string) *Error {
	return New(
		KindPrecondition,
		CodeInvalidState,
		fmt.Sprintf("Loan is %s; this action requires a loan in %s", current, required),
		ErrInvalidState,
	)
}

func WrapActiveApplicationExists(memberID string) *Error {
	return New(
		KindPrecondition,
		CodeActiveApplication,
		fmt.Sprintf("Member %s already has a loan application in progress", memberID),
		ErrActiveApplicationExists,
	)
}

func WrapSavingsLimitExceeded(requested, ceiling decimal.Decimal) *Error {
	return New(
		KindPrecondition,
		CodeSavingsLimitExceeded,
		fmt.Sprintf("Requested amount %s exceeds your borrowing limit of %s", requested.StringFixed(2), ceiling.StringFixed(2)),
		ErrSavingsLimitExceeded,
	)
}

func WrapInsufficientGuarantors(accepted, required int) *Error {
	return New(
		KindPrecondition,
		CodeInsufficientGuarantors,
		fmt.Sprintf("Loan has %d accepted guarantors; %d are required", accepted, required),
		ErrInsufficientGuarantors,
	)
}

func WrapFeePaymentMissing(memberID string) *Error {
	return New(
		KindPrecondition,
		CodeFeePaymentMissing,
		fmt.Sprintf("No unclaimed processing fee payment found for member %s", memberID),
		ErrFeePaymentMissing,
	)
}

func WrapDuplicateGuarantor(loanID, guarantorID string) *Error {
	return New(
		KindConflict,
		CodeDuplicateGuarantor,
		fmt.Sprintf("Member %s is already a guarantor on loan %s", guarantorID, loanID),
		ErrDuplicateGuarantor,
	)
}

func WrapDuplicateVote(loanID, memberID string) *Error {
	return New(
		KindConflict,
		CodeDuplicateVote,
		fmt.Sprintf("Member %s has already voted on loan %s", memberID, loanID),
		ErrDuplicateVote,
	)
}

func WrapOwnLoanVote(loanID string) *Error {
	return New(
		KindPrecondition,
		CodeOwnLoanVote,
		fmt.Sprintf("The owner of loan %s may not vote on it", loanID),
		ErrOwnLoanVote,
	)
}

func WrapGuarantorAlreadyDecided(requestID string) *Error {
	return New(
		KindConflict,
		CodeGuarantorDecided,
		fmt.Sprintf("Guarantor request %s has already been answered", requestID),
		ErrGuarantorAlreadyDecided,
	)
}

func WrapInvalidInput(message string) *Error {
	return New(KindValidation, CodeInvalidInput, message, nil)
}

func WrapDatabaseError(err error) *Error {
	return New(
		KindPersistence,
		CodeDatabaseError,
		"database operation failed",
		err,
	)
}
