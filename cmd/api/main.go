package main

import (
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/goodtricount/tricount/docs"
	"github.com/goodtricount/tricount/internal/auth"
	"github.com/goodtricount/tricount/internal/balance"
	"github.com/goodtricount/tricount/internal/config"
	"github.com/goodtricount/tricount/internal/database"
	"github.com/goodtricount/tricount/internal/expense"
	"github.com/goodtricount/tricount/internal/group"
	"github.com/goodtricount/tricount/internal/payment"
	"github.com/goodtricount/tricount/internal/user"
	"github.com/goodtricount/tricount/pkg/logging"
	mw "github.com/goodtricount/tricount/pkg/middleware"
)

// @title           Tricount API
// @version         1.0
// @description     Shared-expense group ledger: users, groups, expenses, payments and balances.
// @BasePath        /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Load .env file; absence is fine, production sets env vars directly
	_ = godotenv.Load()

	cfg := config.Load()
	logger := logging.Setup(cfg.LogLevel)

	db, err := database.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.ApplyMigrations(db); err != nil {
		logger.Error("failed to apply migrations", "error", err)
		os.Exit(1)
	}

	logger.Info("connected to database")

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)

	// User feature
	userRepo := user.NewRepository(db)
	userService := user.NewService(userRepo, cfg.BcryptCost)
	userHandler := user.NewHandler(userService, tokens)

	// Group feature
	groupRepo := group.NewRepository(db)
	groupService := group.NewService(groupRepo, userRepo)
	groupHandler := group.NewHandler(groupService)

	// Expense feature
	expenseRepo := expense.NewRepository(db)
	expenseService := expense.NewService(expenseRepo, groupRepo)
	expenseHandler := expense.NewHandler(expenseService)

	// Payment feature
	paymentRepo := payment.NewRepository(db)
	paymentService := payment.NewService(paymentRepo, groupRepo)
	paymentHandler := payment.NewHandler(paymentService)

	// Balance feature
	balanceRepo := balance.NewRepository(db)
	balanceService := balance.NewService(balanceRepo)
	balanceHandler := balance.NewHandler(balanceService)

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		// Credential endpoints stay unauthenticated
		r.Mount("/auth", userHandler.AuthRoutes())

		r.Group(func(r chi.Router) {
			r.Use(mw.Auth(tokens))

			r.Mount("/users", userHandler.Routes())
			r.Mount("/groups", groupHandler.Routes())
			r.Mount("/expenses", expenseHandler.Routes())
			r.Mount("/payments", paymentHandler.Routes())
			r.Mount("/balances", balanceHandler.Routes())
		})
	})

	logger.Info("server starting", "port", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}
}
