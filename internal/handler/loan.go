package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/wekeza/sacco-engine/internal/domain"
	"github.com/wekeza/sacco-engine/internal/service"
	"github.com/wekeza/sacco-engine/pkg/response"
)

// LoanHandler exposes the loan lifecycle over HTTP. Role enforcement
// (officer, secretary, chairperson, treasurer) happens in the auth
// layer in front of this API; the engine enforces state, not identity.
type LoanHandler struct {
	loans     *service.LoanService
	tally     *service.TallyService
	validator *validator.Validate
}

func NewLoanHandler(loans *service.LoanService, tally *service.TallyService) *LoanHandler {
	return &LoanHandler{
		loans:     loans,
		tally:     tally,
		validator: validator.New(),
	}
}

func (h *LoanHandler) StartApplication(w http.ResponseWriter, r *http.Request) {
	var req domain.StartApplicationRequest
	if !h.decode(w, r, &req) {
		return
	}

	loan, err := h.loans.StartApplication(r.Context(), req.MemberID)
	if err != nil {
		response.EngineError(w, err)
		return
	}

	response.Created(w, loan)
}

func (h *LoanHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	loanID, ok := h.loanID(w, r)
	if !ok {
		return
	}

	view, err := h.loans.GetStatus(r.Context(), loanID)
	if err != nil {
		response.EngineError(w, err)
		return
	}

	response.Success(w, view)
}

func (h *LoanHandler) SubmitDetails(w http.ResponseWriter, r *http.Request) {
	loanID, ok := h.loanID(w, r)
	if !ok {
		return
	}

	var req domain.SubmitDetailsRequest
	if !h.decode(w, r, &req) {
		return
	}

	loan, err := h.loans.SubmitDetails(r.Context(), loanID, &req)
	if err != nil {
		response.EngineError(w, err)
		return
	}

	response.Success(w, loan)
}

func (h *LoanHandler) Finalize(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.loans.Finalize)
}

func (h *LoanHandler) Verify(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.loans.Verify)
}

func (h *LoanHandler) TableMotion(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.loans.TableMotion)
}

func (h *LoanHandler) OpenVoting(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.loans.OpenVoting)
}

func (h *LoanHandler) Disburse(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.loans.Disburse)
}

func (h *LoanHandler) Decide(w http.ResponseWriter, r *http.Request) {
	loanID, ok := h.loanID(w, r)
	if !ok {
		return
	}

	var req domain.DecisionRequest
	if !h.decode(w, r, &req) {
		return
	}

	loan, err := h.loans.Decide(r.Context(), loanID, req.Approve)
	if err != nil {
		response.EngineError(w, err)
		return
	}

	response.Success(w, loan)
}

func (h *LoanHandler) RecordRepayment(w http.ResponseWriter, r *http.Request) {
	loanID, ok := h.loanID(w, r)
	if !ok {
		return
	}

	var req domain.RepaymentRequest
	if !h.decode(w, r, &req) {
		return
	}

	loan, err := h.loans.RecordRepayment(r.Context(), loanID, req.Amount)
	if err != nil {
		response.EngineError(w, err)
		return
	}

	response.Success(w, loan)
}

func (h *LoanHandler) AddGuarantor(w http.ResponseWriter, r *http.Request) {
	loanID, ok := h.loanID(w, r)
	if !ok {
		return
	}

	var req domain.AddGuarantorRequest
	if !h.decode(w, r, &req) {
		return
	}

	request, err := h.tally.AddGuarantor(r.Context(), loanID, req.GuarantorID)
	if err != nil {
		response.EngineError(w, err)
		return
	}

	response.Created(w, request)
}

func (h *LoanHandler) RespondGuarantor(w http.ResponseWriter, r *http.Request) {
	requestID, err := uuid.Parse(mux.Vars(r)["requestId"])
	if err != nil {
		response.BadRequest(w, "invalid guarantor request id", err)
		return
	}

	var req domain.GuarantorResponseRequest
	if !h.decode(w, r, &req) {
		return
	}

	request, serviceErr := h.tally.RespondGuarantor(r.Context(), requestID, req.Accept)
	if serviceErr != nil {
		response.EngineError(w, serviceErr)
		return
	}

	response.Success(w, request)
}

func (h *LoanHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	loanID, ok := h.loanID(w, r)
	if !ok {
		return
	}

	var req domain.CastVoteRequest
	if !h.decode(w, r, &req) {
		return
	}

	vote, err := h.tally.CastVote(r.Context(), loanID, req.MemberID, req.Approve)
	if err != nil {
		response.EngineError(w, err)
		return
	}

	response.Created(w, vote)
}

func (h *LoanHandler) Tally(w http.ResponseWriter, r *http.Request) {
	loanID, ok := h.loanID(w, r)
	if !ok {
		return
	}

	tally, err := h.tally.Tally(r.Context(), loanID)
	if err != nil {
		response.EngineError(w, err)
		return
	}

	response.Success(w, tally)
}

func (h *LoanHandler) transition(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, loanID uuid.UUID) (*domain.LoanApplication, error)) {
	loanID, ok := h.loanID(w, r)
	if !ok {
		return
	}

	loan, err := fn(r.Context(), loanID)
	if err != nil {
		response.EngineError(w, err)
		return
	}

	response.Success(w, loan)
}

func (h *LoanHandler) loanID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	loanID, err := uuid.Parse(mux.Vars(r)["loanId"])
	if err != nil {
		response.BadRequest(w, "invalid loan id", err)
		return uuid.Nil, false
	}
	return loanID, true
}

func (h *LoanHandler) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return false
	}
	if err := h.validator.Struct(dst); err != nil {
		response.BadRequest(w, "request validation failed", err)
		return false
	}
	return true
}
