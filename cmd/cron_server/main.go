package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/postgres" //postgres

	"github.com/rvalenzuela/condo-reconciliation/consts"
	"github.com/rvalenzuela/condo-reconciliation/handler"
	"github.com/rvalenzuela/condo-reconciliation/infra/db/dao"
	"github.com/rvalenzuela/condo-reconciliation/infra/locker"
	"github.com/rvalenzuela/condo-reconciliation/infra/notify"
	allocationUsecase "github.com/rvalenzuela/condo-reconciliation/usecase/allocation"
	"github.com/rvalenzuela/condo-reconciliation/usecase/identify"
	reconciliationUsecase "github.com/rvalenzuela/condo-reconciliation/usecase/reconciliation"
)

type CronWorkerConfig struct {
	Interval time.Duration
	Workers  int
}

type App struct {
	DB        *gorm.DB
	Dao       dao.DaoMethod
	RunGuard  *locker.RunLocker
	Allocator allocationUsecase.AllocationUsecase
	Handler   *handler.ReconciliationHandler
}

func (a *App) startRunExecutorWorker(cfg CronWorkerConfig, workerID int) {
	for {
		ctx := context.Background()
		err := a.Handler.ReconciliationExecution(ctx, a.RunGuard)
		switch {
		case errors.Is(err, handler.ErrNoPendingRun):
			// idle tick
		case err != nil:
			log.Printf("[Worker %d] error: %s", workerID, err.Error())
		default:
			log.Printf("[Worker %d] success", workerID)
		}

		time.Sleep(cfg.Interval)
	}
}

// startCreditSweepWorker periodically applies accumulated credit to
// open charges for every house.
func (a *App) startCreditSweepWorker(cfg CronWorkerConfig) {
	for {
		houses, err := a.Dao.GetHouses()
		if err != nil {
			log.Printf("[CreditSweep] list houses: %s", err.Error())
			time.Sleep(cfg.Interval)
			continue
		}

		for _, house := range houses {
			_, err := a.Allocator.ApplyCreditToPeriods(context.Background(), house.ID)
			if err != nil {
				log.Printf("[CreditSweep] house %d: %s", house.ID, err.Error())
			}
		}

		time.Sleep(cfg.Interval)
	}
}

func (a *App) startCronWorker(cfg CronWorkerConfig) {
	var wg sync.WaitGroup

	for i := 0; i < cfg.Workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			log.Printf("spawn [Worker %d]", workerID)
			a.startRunExecutorWorker(cfg, workerID)
		}(i + 1)
	}

	wg.Add(1)
	go func() {
		log.Printf("spawn [CreditSweep]")
		a.startCreditSweepWorker(cfg)
	}()

	wg.Wait()
}

func (a *App) Initialize(DbHost, DbPort, DbUser, DbName, DbPassword string) {
	var err error
	DBURI := fmt.Sprintf("host=%s port=%s user=%s dbname=%s sslmode=disable password=%s", DbHost, DbPort, DbUser, DbName, DbPassword)

	a.DB, err = gorm.Open("postgres", DBURI)
	if err != nil {
		log.Fatalf("Cannot connect to database %s: %v", DbName, err)
	}

	a.Dao = dao.NewDaoMethod(a.DB)
	a.RunGuard = locker.NewRunLocker()

	houseLocker := locker.New()
	notifier := notify.NewLogChannel()
	identifier := identify.NewHouseIdentifier(envInt("MAX_HOUSE_NUMBER", consts.DefaultMaxHouseNumber))

	a.Allocator = allocationUsecase.NewAllocationUsecase(a.Dao, houseLocker)
	reconciler := reconciliationUsecase.NewReconciliationUsecase(a.Dao, identifier, a.Allocator, notifier)
	a.Handler = handler.NewReconciliationHandler(reconciler)
}

func (a *App) RunServer() {
	a.startCronWorker(CronWorkerConfig{
		Workers:  envInt("WORKER_NUM", consts.DefaultWorkerNumber),
		Interval: time.Duration(envInt("WORKER_INTERVAL_SEC", consts.DefaultIntervalInSec)) * time.Second,
	})
}

func envInt(key string, fallback int) int {
	if raw := os.Getenv(key); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			return n
		}
	}
	return fallback
}

func main() {
	app := App{}
	app.Initialize(
		os.Getenv("DB_HOST"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PASSWORD"))

	app.RunServer()
}
