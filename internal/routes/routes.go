package routes

import (
	"net/http"

	"github.com/budgify/budgify/internal/app"
	"github.com/budgify/budgify/internal/handler"
	"github.com/budgify/budgify/internal/middleware"
	"github.com/budgify/budgify/internal/model"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	health := handler.NewHealthHandler(app.DB)
	auth := handler.NewAuthHandler(app.AuthService)
	balance := handler.NewBalanceHandler(app.BalanceService, app.EntryService)
	income := handler.NewEntryHandler(app.EntryService, model.EntryKindIncome)
	expense := handler.NewEntryHandler(app.EntryService, model.EntryKindExpense)
	savings := handler.NewSavingsHandler(app.SavingsService)
	export := handler.NewExportHandler(app.ExportService)

	// Path {userId} must match the token subject
	owner := middleware.RequireOwner("userId")

	mux := http.NewServeMux()

	// ============================================================================
	// PUBLIC ROUTES
	// ============================================================================

	mux.HandleFunc("GET /healthz", health.Health)

	// Auth (rate limited)
	rateLimiter := middleware.NewRateLimiter(app.Cfg.AuthRateLimit, app.Cfg.AuthRateWindow)

	mux.HandleFunc("POST /api/auth/signup", rateLimiter.Limit(auth.Signup))
	mux.HandleFunc("POST /api/auth/signin", rateLimiter.Limit(auth.Signin))

	// ============================================================================
	// PROTECTED ROUTES
	// ============================================================================

	mux.HandleFunc("GET /api/auth/profile", middleware.RequireAuth(auth.Profile))

	// Balance
	mux.HandleFunc("GET /api/balance/{userId}", owner(balance.Snapshot))
	mux.HandleFunc("GET /api/balance/{userId}/transactions", owner(balance.MonthIncome))
	mux.HandleFunc("GET /api/transactions/{userId}", owner(balance.Recent))

	// Income
	mux.HandleFunc("POST /api/income", middleware.RequireAuth(income.Create))
	mux.HandleFunc("PUT /api/income/{id}", middleware.RequireAuth(income.Update))
	mux.HandleFunc("DELETE /api/income/{id}", middleware.RequireAuth(income.Delete))
	mux.HandleFunc("GET /api/income/category/{period}/{userId}", owner(income.ByCategory))
	mux.HandleFunc("GET /api/income/monthly-dates/{userId}", owner(income.ByDate))

	// Expenses
	mux.HandleFunc("POST /api/expense", middleware.RequireAuth(expense.Create))
	mux.HandleFunc("PUT /api/expense/{id}", middleware.RequireAuth(expense.Update))
	mux.HandleFunc("DELETE /api/expense/{id}", middleware.RequireAuth(expense.Delete))
	mux.HandleFunc("GET /api/expenses/category/{period}/{userId}", owner(expense.ByCategory))
	mux.HandleFunc("GET /api/expenses/monthly-dates/{userId}", owner(expense.ByDate))

	// Savings goals
	mux.HandleFunc("GET /api/savings/goals/{userId}", owner(savings.Goals))
	mux.HandleFunc("POST /api/savings/goals", middleware.RequireAuth(savings.CreateGoal))
	mux.HandleFunc("PUT /api/savings/goals/{goalId}", middleware.RequireAuth(savings.UpdateGoal))
	mux.HandleFunc("DELETE /api/savings/goals/{goalId}", middleware.RequireAuth(savings.DeleteGoal))
	mux.HandleFunc("GET /api/savings/goals/{goalId}/transactions", middleware.RequireAuth(savings.GoalTransactions))

	// Savings transactions
	mux.HandleFunc("POST /api/savings/transactions", middleware.RequireAuth(savings.Contribute))
	mux.HandleFunc("GET /api/savings/transactions/{userId}", owner(savings.Transactions))
	mux.HandleFunc("GET /api/savings/transactions/{userId}/range", owner(savings.TransactionsInRange))
	mux.HandleFunc("GET /api/savings/summary/{userId}", owner(savings.Summary))
	mux.HandleFunc("GET /api/savings/monthly/{userId}", owner(savings.Monthly))

	// Export
	mux.HandleFunc("POST /api/export/{userId}", owner(export.Export))

	// ============================================================================
	// FALLBACK
	// ============================================================================

	mux.HandleFunc("/", handler.NotFound)

	// Global middleware - executed in order (top to bottom)
	return middleware.Chain(
		mux,
		middleware.RequestLogging,
		middleware.Recover,
		middleware.SecurityHeaders,
		middleware.Authenticate(app.AuthService),
	)
}
