package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/homeledger/homeledger-backend/internal/adapter/events"
	httpadapter "github.com/homeledger/homeledger-backend/internal/adapter/http"
	"github.com/homeledger/homeledger-backend/internal/adapter/repository/memory"
	"github.com/homeledger/homeledger-backend/internal/adapter/repository/postgres"
	"github.com/homeledger/homeledger-backend/internal/config"
	"github.com/homeledger/homeledger-backend/internal/domain"
	"github.com/homeledger/homeledger-backend/internal/usecase/ledger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("failed to load configuration")
	}

	// 1. Setup the store and repositories
	var (
		store           domain.Store
		walletRepo      domain.WalletRepository
		transactionRepo domain.TransactionRepository
		debtRepo        domain.DebtRepository
		goalRepo        domain.GoalRepository
		closeStore      func()
	)

	switch cfg.Storage.Backend {
	case "postgres":
		db, err := postgres.NewDB(cfg.Database.ConnectionString())
		if err != nil {
			logrus.WithError(err).Fatal("failed to connect to database")
		}
		if err := db.Migrate(); err != nil {
			logrus.WithError(err).Fatal("failed to migrate database")
		}
		store = postgres.NewStore(db)
		walletRepo = postgres.NewWalletRepository(db)
		transactionRepo = postgres.NewTransactionRepository(db)
		debtRepo = postgres.NewDebtRepository(db)
		goalRepo = postgres.NewGoalRepository(db)
		closeStore = func() { db.Close() }
	case "memory":
		memStore := memory.NewStore()
		store = memStore
		walletRepo = memory.NewWalletRepository(memStore)
		transactionRepo = memory.NewTransactionRepository(memStore)
		debtRepo = memory.NewDebtRepository(memStore)
		goalRepo = memory.NewGoalRepository(memStore)
		closeStore = func() {}
		logrus.Warn("using in-memory storage, all data is lost on restart")
	default:
		logrus.Fatalf("unknown storage backend %q", cfg.Storage.Backend)
	}
	defer closeStore()

	// 2. Setup the change-event publisher (optional)
	var notifier ledger.Notifier
	if cfg.AMQP.URL != "" {
		publisher, err := events.NewPublisher(cfg.AMQP.URL, cfg.AMQP.Exchange)
		if err != nil {
			logrus.WithError(err).Fatal("failed to connect to AMQP broker")
		}
		defer publisher.Close()
		notifier = publisher
	}

	// 3. Initialize the ledger mutation service
	ledgerService := ledger.NewService(store, notifier)

	// 4. Start the HTTP server
	app := fiber.New(fiber.Config{AppName: "homeledger"})
	server := httpadapter.NewServer(ledgerService, walletRepo, transactionRepo, debtRepo, goalRepo)
	server.RegisterRoutes(app, cfg.Access.Emails())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logrus.WithField("port", cfg.Server.Port).Info("HTTP server listening")
		return app.Listen(":" + cfg.Server.Port)
	})
	g.Go(func() error {
		<-ctx.Done()
		logrus.Info("shutting down gracefully")
		return app.ShutdownWithTimeout(shutdownTimeout)
	})

	if err := g.Wait(); err != nil {
		logrus.WithError(err).Fatal("server stopped")
	}
	logrus.Info("server stopped")
}
