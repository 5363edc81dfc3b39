package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rvalenzuela/condo-reconciliation/entity"
	"github.com/rvalenzuela/condo-reconciliation/infra/db/model"
	usecase "github.com/rvalenzuela/condo-reconciliation/usecase/allocation"
)

type BalanceHandler struct {
	Usecase usecase.AllocationUsecase
}

func NewBalanceHandler(uc usecase.AllocationUsecase) *BalanceHandler {
	return &BalanceHandler{Usecase: uc}
}

func (h *BalanceHandler) GetHouseBalance(w http.ResponseWriter, r *http.Request) {
	houseID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	balance, err := h.Usecase.GetHouseBalance(houseID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, APIResponse{Status: "ok", Data: balance})
}

type CreatePeriodConfigRequest struct {
	EffectiveFrom        string          `json:"effective_from"`
	MaintenanceAmount    decimal.Decimal `json:"maintenance_amount"`
	WaterAmount          decimal.Decimal `json:"water_amount"`
	ExtraordinaryAmount  decimal.Decimal `json:"extraordinary_amount"`
	PaymentDueDay        int             `json:"payment_due_day"`
	LatePenaltyAmount    decimal.Decimal `json:"late_penalty_amount"`
	CentsCreditThreshold decimal.Decimal `json:"cents_credit_threshold"`
}

func (h *BalanceHandler) CreatePeriodConfig(w http.ResponseWriter, r *http.Request) {
	var req CreatePeriodConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, APIResponse{Status: "error", Message: "invalid request body"})
		return
	}
	effectiveFrom, err := time.Parse("2006-01-02", req.EffectiveFrom)
	if err != nil {
		writeError(w, entity.NewValidationError("invalid effective_from %q", req.EffectiveFrom))
		return
	}

	cfg, err := h.Usecase.CreatePeriodConfig(model.PeriodConfig{
		EffectiveFrom:        effectiveFrom,
		MaintenanceAmount:    req.MaintenanceAmount,
		WaterAmount:          req.WaterAmount,
		ExtraordinaryAmount:  req.ExtraordinaryAmount,
		PaymentDueDay:        req.PaymentDueDay,
		LatePenaltyAmount:    req.LatePenaltyAmount,
		CentsCreditThreshold: req.CentsCreditThreshold,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, APIResponse{Status: "ok", Data: cfg})
}

func (h *BalanceHandler) ApplyCredit(w http.ResponseWriter, r *http.Request) {
	houseID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	result, err := h.Usecase.ApplyCreditToPeriods(r.Context(), houseID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, APIResponse{Status: "ok", Data: result})
}
