package controllers

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/postgres" //postgres

	"github.com/rvalenzuela/condo-reconciliation/consts"
	"github.com/rvalenzuela/condo-reconciliation/handler"
	"github.com/rvalenzuela/condo-reconciliation/infra/db/dao"
	"github.com/rvalenzuela/condo-reconciliation/infra/db/model"
	"github.com/rvalenzuela/condo-reconciliation/infra/locker"
	"github.com/rvalenzuela/condo-reconciliation/infra/notify"
	"github.com/rvalenzuela/condo-reconciliation/middlewares"
	allocationUsecase "github.com/rvalenzuela/condo-reconciliation/usecase/allocation"
	"github.com/rvalenzuela/condo-reconciliation/usecase/identify"
	manualReviewUsecase "github.com/rvalenzuela/condo-reconciliation/usecase/manualreview"
	reconciliationUsecase "github.com/rvalenzuela/condo-reconciliation/usecase/reconciliation"
)

type App struct {
	DB     *gorm.DB
	Router *mux.Router
}

func (a *App) Initialize(DbHost, DbPort, DbUser, DbName, DbPassword string) {
	var err error
	DBURI := fmt.Sprintf("host=%s port=%s user=%s dbname=%s sslmode=disable password=%s", DbHost, DbPort, DbUser, DbName, DbPassword)

	a.DB, err = gorm.Open("postgres", DBURI)
	if err != nil {
		log.Fatalf("Cannot connect to database %s: %v", DbName, err)
	}

	a.DB.AutoMigrate(
		&model.BankTransaction{},
		&model.Voucher{},
		&model.TransactionStatus{},
		&model.ManualValidationApproval{},
		&model.House{},
		&model.HouseBalance{},
		&model.Period{},
		&model.PeriodConfig{},
		&model.ChargeOverride{},
		&model.HousePeriodCharge{},
		&model.PaymentAllocation{},
		&model.ReconcileRun{},
	) //database migration

	a.Router = mux.NewRouter().StrictSlash(true)
	a.initializeRoutes()
}

func (a *App) initializeRoutes() {
	a.Router.Use(middlewares.SetContentTypeMiddleware)

	d := dao.NewDaoMethod(a.DB)
	houseLocker := locker.New()
	notifier := notify.NewLogChannel()
	identifier := identify.NewHouseIdentifier(maxHouseFromEnv())

	allocator := allocationUsecase.NewAllocationUsecase(d, houseLocker)
	reconciler := reconciliationUsecase.NewReconciliationUsecase(d, identifier, allocator, notifier)
	reviewer := manualReviewUsecase.NewManualReviewUsecase(d, allocator, notifier)

	RegisterReconciliationRoutes(a.Router, handler.NewReconciliationHandler(reconciler))
	RegisterManualReviewRoutes(a.Router, handler.NewManualReviewHandler(reviewer))
	RegisterBalanceRoutes(a.Router, handler.NewBalanceHandler(allocator))
}

func (a *App) RunServer() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("\nServer starting on port %v", port)
	log.Fatal(http.ListenAndServe(":"+port, a.Router))
}

func maxHouseFromEnv() int {
	if raw := os.Getenv("MAX_HOUSE_NUMBER"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			return n
		}
	}
	return consts.DefaultMaxHouseNumber
}
