package controllers

import (
	"github.com/rvalenzuela/condo-reconciliation/handler"

	"github.com/gorilla/mux"
)

func RegisterReconciliationRoutes(router *mux.Router, h *handler.ReconciliationHandler) {
	router.HandleFunc("/reconcile", h.Reconcile).Methods("POST")
	router.HandleFunc("/reconcile/schedule", h.ScheduleReconcile).Methods("POST")
	router.HandleFunc("/deposits/unclaimed", h.GetUnclaimedDeposits).Methods("GET")
	router.HandleFunc("/vouchers/unfunded", h.GetUnfundedVouchers).Methods("GET")
	router.HandleFunc("/deposits/{id}/assign_house", h.AssignHouse).Methods("POST")
	router.HandleFunc("/vouchers/{id}/match_deposit", h.MatchVoucherToDeposit).Methods("POST")
}
