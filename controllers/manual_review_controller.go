package controllers

import (
	"github.com/rvalenzuela/condo-reconciliation/handler"

	"github.com/gorilla/mux"
)

func RegisterManualReviewRoutes(router *mux.Router, h *handler.ManualReviewHandler) {
	router.HandleFunc("/manual_cases", h.ListCases).Methods("GET")
	router.HandleFunc("/manual_cases/stats", h.Stats).Methods("GET")
	router.HandleFunc("/manual_cases/{id}/approve", h.ApproveCase).Methods("POST")
	router.HandleFunc("/manual_cases/{id}/reject", h.RejectCase).Methods("POST")
}
