package app

import (
	"fmt"

	"github.com/budgify/budgify/internal/config"
	"github.com/budgify/budgify/internal/db"
	"github.com/budgify/budgify/internal/repository"
	"github.com/budgify/budgify/internal/service"
	"github.com/budgify/budgify/internal/storage"
	"github.com/jmoiron/sqlx"
)

type App struct {
	Cfg            *config.Config
	DB             *sqlx.DB
	AuthService    *service.AuthService
	EmailService   *service.EmailService
	EntryService   *service.EntryService
	SavingsService *service.SavingsService
	BalanceService *service.BalanceService
	ExportService  *service.ExportService
}

func New(cfg *config.Config) (*App, error) {
	// Initialize database
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// Run database migrations
	err = db.RunMigrations(database.DB, cfg.DBDriver)
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	// Repositories
	userRepository := repository.NewUserRepository(database)
	incomeRepository := repository.NewIncomeRepository(database)
	expenseRepository := repository.NewExpenseRepository(database)
	savingsRepository := repository.NewSavingsRepository(database)
	ledgerRepository := repository.NewLedgerRepository(database)

	// Storage (nil when S3 is not configured)
	exportStorage, err := storage.New(cfg)
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	// Services
	emailService := service.NewEmailService(
		cfg.ResendAPIKey,
		cfg.EmailFrom,
		cfg.AppURL,
		cfg.AppName,
		cfg.IsDevelopment(),
	)
	authService := service.NewAuthService(userRepository, emailService, cfg.JWTSecret, cfg.JWTExpiry)
	entryService := service.NewEntryService(incomeRepository, expenseRepository)
	savingsService := service.NewSavingsService(savingsRepository, userRepository, emailService)
	balanceService := service.NewBalanceService(incomeRepository, expenseRepository, savingsRepository, ledgerRepository)
	exportService := service.NewExportService(ledgerRepository, exportStorage, cfg.S3PresignExpiry)

	return &App{
		Cfg:            cfg,
		DB:             database,
		AuthService:    authService,
		EmailService:   emailService,
		EntryService:   entryService,
		SavingsService: savingsService,
		BalanceService: balanceService,
		ExportService:  exportService,
	}, nil
}

func (a *App) Close() error {
	if a.DB != nil {
		return db.Close(a.DB)
	}
	return nil
}
