package handler

import (
	"encoding/json"
	"net/http"

	usecase "github.com/rvalenzuela/condo-reconciliation/usecase/manualreview"
)

type ManualReviewHandler struct {
	Usecase usecase.ManualReviewUsecase
}

func NewManualReviewHandler(uc usecase.ManualReviewUsecase) *ManualReviewHandler {
	return &ManualReviewHandler{Usecase: uc}
}

func (h *ManualReviewHandler) ListCases(w http.ResponseWriter, r *http.Request) {
	filters, err := parseListFilters(r)
	if err != nil {
		writeError(w, err)
		return
	}
	cases, total, err := h.Usecase.ListCases(filters)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, PagedResponse{Status: "ok", Total: total, Data: cases})
}

func (h *ManualReviewHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Usecase.Stats()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, APIResponse{Status: "ok", Data: stats})
}

type ApproveCaseRequest struct {
	VoucherID int64  `json:"voucher_id"`
	Approver  string `json:"approver"`
	Notes     string `json:"notes"`
}

func (h *ManualReviewHandler) ApproveCase(w http.ResponseWriter, r *http.Request) {
	caseID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var req ApproveCaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, APIResponse{Status: "error", Message: "invalid request body"})
		return
	}

	result, err := h.Usecase.Approve(r.Context(), caseID, req.VoucherID, req.Approver, req.Notes)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, APIResponse{Status: "ok", Data: result})
}

type RejectCaseRequest struct {
	Reason   string `json:"reason"`
	Approver string `json:"approver"`
	Notes    string `json:"notes"`
}

func (h *ManualReviewHandler) RejectCase(w http.ResponseWriter, r *http.Request) {
	caseID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var req RejectCaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, APIResponse{Status: "error", Message: "invalid request body"})
		return
	}

	if err := h.Usecase.Reject(r.Context(), caseID, req.Reason, req.Approver, req.Notes); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, APIResponse{Status: "ok", Message: "case rejected"})
}
