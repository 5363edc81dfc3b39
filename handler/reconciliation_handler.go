package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/rvalenzuela/condo-reconciliation/entity"
	usecase "github.com/rvalenzuela/condo-reconciliation/usecase/reconciliation"
)

type ReconciliationHandler struct {
	Usecase usecase.ReconciliationUsecase
}

func NewReconciliationHandler(uc usecase.ReconciliationUsecase) *ReconciliationHandler {
	return &ReconciliationHandler{Usecase: uc}
}

type ReconcileRequest struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Operator  string `json:"operator"`
}

func (h *ReconciliationHandler) Reconcile(w http.ResponseWriter, r *http.Request) {
	var req ReconcileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, APIResponse{Status: "error", Message: "invalid request body"})
		return
	}
	dateRange, err := parseRange(req.StartDate, req.EndDate)
	if err != nil {
		writeError(w, err)
		return
	}

	summary, err := h.Usecase.Reconcile(r.Context(), dateRange, req.Operator)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, APIResponse{Status: "ok", Data: summary})
}

// ScheduleReconcile records the batch for the cron server instead of
// running it inline.
func (h *ReconciliationHandler) ScheduleReconcile(w http.ResponseWriter, r *http.Request) {
	var req ReconcileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, APIResponse{Status: "error", Message: "invalid request body"})
		return
	}
	dateRange, err := parseRange(req.StartDate, req.EndDate)
	if err != nil {
		writeError(w, err)
		return
	}

	run, err := h.Usecase.CreateRun(dateRange, req.Operator)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, APIResponse{Status: "ok", Data: run})
}

func (h *ReconciliationHandler) GetUnclaimedDeposits(w http.ResponseWriter, r *http.Request) {
	filters, err := parseListFilters(r)
	if err != nil {
		writeError(w, err)
		return
	}
	deposits, total, err := h.Usecase.GetUnclaimedDeposits(filters)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, PagedResponse{Status: "ok", Total: total, Data: deposits})
}

func (h *ReconciliationHandler) GetUnfundedVouchers(w http.ResponseWriter, r *http.Request) {
	filters, err := parseListFilters(r)
	if err != nil {
		writeError(w, err)
		return
	}
	vouchers, total, err := h.Usecase.GetUnfundedVouchers(filters)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, PagedResponse{Status: "ok", Total: total, Data: vouchers})
}

type AssignHouseRequest struct {
	HouseNumber int    `json:"house_number"`
	Operator    string `json:"operator"`
	Notes       string `json:"notes"`
}

func (h *ReconciliationHandler) AssignHouse(w http.ResponseWriter, r *http.Request) {
	depositID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var req AssignHouseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, APIResponse{Status: "error", Message: "invalid request body"})
		return
	}

	result, err := h.Usecase.AssignHouse(r.Context(), depositID, req.HouseNumber, req.Operator, req.Notes)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, APIResponse{Status: "ok", Data: result})
}

type MatchVoucherRequest struct {
	DepositID   int64  `json:"deposit_id"`
	HouseNumber int    `json:"house_number"`
	Operator    string `json:"operator"`
	Notes       string `json:"notes"`
}

func (h *ReconciliationHandler) MatchVoucherToDeposit(w http.ResponseWriter, r *http.Request) {
	voucherID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var req MatchVoucherRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, APIResponse{Status: "error", Message: "invalid request body"})
		return
	}

	result, err := h.Usecase.MatchVoucherToDeposit(r.Context(), voucherID, req.DepositID, req.HouseNumber, req.Operator, req.Notes)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, APIResponse{Status: "ok", Data: result})
}

func pathID(r *http.Request, key string) (int64, error) {
	raw := mux.Vars(r)[key]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, entity.NewValidationError("invalid id %q", raw)
	}
	return id, nil
}

func parseRange(start, end string) (entity.DateRange, error) {
	var out entity.DateRange
	var err error
	if start != "" {
		out.Start, err = time.Parse("2006-01-02", start)
		if err != nil {
			return out, entity.NewValidationError("invalid start_date %q", start)
		}
	}
	if end != "" {
		out.End, err = time.Parse("2006-01-02", end)
		if err != nil {
			return out, entity.NewValidationError("invalid end_date %q", end)
		}
	}
	return out, nil
}

func parseListFilters(r *http.Request) (entity.ListFilters, error) {
	q := r.URL.Query()
	filters, err := parseRange(q.Get("start_date"), q.Get("end_date"))
	if err != nil {
		return entity.ListFilters{}, err
	}
	out := entity.ListFilters{Range: filters, SortBy: q.Get("sort_by")}
	if raw := q.Get("house_number"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return out, entity.NewValidationError("invalid house_number %q", raw)
		}
		out.HouseNumber = &n
	}
	out.Page, _ = strconv.Atoi(q.Get("page"))
	out.PageSize, _ = strconv.Atoi(q.Get("page_size"))
	return out, nil
}
