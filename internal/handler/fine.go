package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/wekeza/sacco-engine/internal/service"
	"github.com/wekeza/sacco-engine/pkg/response"
)

type FineHandler struct {
	fines *service.FineService
}

func NewFineHandler(fines *service.FineService) *FineHandler {
	return &FineHandler{fines: fines}
}

// ListMemberFines returns the member's open fines. Fetching is what
// applies due interest stages, so balances here are always current.
func (h *FineHandler) ListMemberFines(w http.ResponseWriter, r *http.Request) {
	memberID := mux.Vars(r)["memberId"]

	fines, err := h.fines.ListWithEscalation(r.Context(), memberID)
	if err != nil {
		response.EngineError(w, err)
		return
	}

	response.Success(w, fines)
}
