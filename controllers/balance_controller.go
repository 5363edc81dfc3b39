package controllers

import (
	"github.com/rvalenzuela/condo-reconciliation/handler"

	"github.com/gorilla/mux"
)

func RegisterBalanceRoutes(router *mux.Router, h *handler.BalanceHandler) {
	router.HandleFunc("/houses/{id}/balance", h.GetHouseBalance).Methods("GET")
	router.HandleFunc("/houses/{id}/apply_credit", h.ApplyCredit).Methods("POST")
	router.HandleFunc("/period_configs", h.CreatePeriodConfig).Methods("POST")
}
