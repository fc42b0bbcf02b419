package main

import (
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"garagepro-backend/config"
	"garagepro-backend/routes"
	"garagepro-backend/services"
	"garagepro-backend/store"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	if err := godotenv.Load(); err != nil {
		log.Info("No .env file found")
	}

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}

	policy := store.StockClampAtZero
	if cfg.StockPolicy == "reject" {
		policy = store.StockRejectShortfall
	}

	var st store.Store
	switch cfg.DataBackend {
	case "mysql":
		db, err := config.ConnectDB(cfg.DatabaseURL)
		if err != nil {
			log.WithError(err).Fatal("failed to connect database")
		}
		gs := store.NewGormStore(db, policy)
		if err := gs.AutoMigrate(); err != nil {
			log.WithError(err).Fatal("failed to migrate database")
		}
		st = gs
	default:
		st = store.NewMemoryStore(policy)
	}
	log.WithField("backend", cfg.DataBackend).Info("store initialized")

	lifecycle := services.NewLifecycleService(st, log)
	purchases := services.NewPurchaseService(st, log)
	invoices := services.NewInvoiceService(st, log)
	reports := services.NewReportService(st)

	alerts := services.NewStockAlertService(st, reports, log, cfg.LowStockThreshold)
	alerts.StartScheduler()

	r := routes.SetupRouter(routes.Deps{
		Store:     st,
		Lifecycle: lifecycle,
		Purchases: purchases,
		Invoices:  invoices,
		Reports:   reports,
		Log:       log,
	})

	log.WithField("port", cfg.Port).Info("starting server")
	if err := r.Run(":" + cfg.Port); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}
