package handler

import (
	"net/http"

	"github.com/wekeza/sacco-engine/internal/service"
	"github.com/wekeza/sacco-engine/pkg/response"
)

type TreasuryHandler struct {
	treasury *service.TreasuryService
}

func NewTreasuryHandler(treasury *service.TreasuryService) *TreasuryHandler {
	return &TreasuryHandler{treasury: treasury}
}

// Snapshot reports funds available for new disbursement.
func (h *TreasuryHandler) Snapshot(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.treasury.Snapshot(r.Context())
	if err != nil {
		response.EngineError(w, err)
		return
	}

	response.Success(w, snapshot)
}
