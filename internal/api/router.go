package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"credit-engine/internal/api/handler"
	mw "credit-engine/internal/api/middleware"
	"credit-engine/internal/config"
	"credit-engine/internal/domain/credit"
	"credit-engine/internal/domain/customer"
	"credit-engine/internal/domain/loan"

	_ "credit-engine/docs"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/traceid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

type Services struct {
	Customers customer.CustomerService
	Loans     loan.LoanService
	Credit    credit.CreditService
}

// SetupRouter wires middleware and every route. redisClient may be nil. Background work
// started by the middleware stops when ctx is done.
func SetupRouter(ctx context.Context, svc Services, cfg *config.Config, redisClient *redis.Client, logger *slog.Logger) *chi.Mux {
	router := chi.NewRouter()

	setupMiddleware(ctx, router, cfg, redisClient, logger)
	setupMetricsEndpoint(router, cfg, logger)
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	setupSwaggerEndpoint(router, logger)

	authHandler := handler.NewAuthHandler(cfg.Server.Auth, logger)
	router.Post("/auth/token", authHandler.GenerateBearerToken)

	router.Group(func(r chi.Router) {
		r.Use(mw.AuthMiddleware(cfg.Server.Auth, logger))
		setupCreditRoutes(r, svc.Credit, logger)
		setupCustomerRoutes(r, svc.Customers, svc.Credit, svc.Loans, logger)
		setupLoanRoutes(r, svc.Loans, logger)
	})

	return router
}

func setupMiddleware(ctx context.Context, router *chi.Mux, cfg *config.Config, redisClient *redis.Client, logger *slog.Logger) {
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(traceid.Middleware)
	router.Use(mw.StructuredLogger(logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(middleware.Timeout(60 * time.Second))
	router.Use(mw.NewRateLimiterMiddleware(ctx, cfg.Server.RateLimit, redisClient, logger).Middleware)
	router.Use(mw.MetricsMiddleware())
}

func setupMetricsEndpoint(router *chi.Mux, cfg *config.Config, logger *slog.Logger) {
	metricsPath := cfg.Metrics.Path
	if metricsPath == "" {
		metricsPath = "/metrics"
	}
	logger.Info("Setting up Prometheus metrics endpoint", "path", metricsPath)
	router.Handle(metricsPath, promhttp.Handler())
}

func setupSwaggerEndpoint(router *chi.Mux, logger *slog.Logger) {
	logger.Info("Setting up Swagger UI endpoint", "path", "/swagger/")
	router.Get("/swagger/*", httpSwagger.WrapHandler)
	router.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/swagger/index.html", http.StatusMovedPermanently)
	})
}

func setupCreditRoutes(r chi.Router, svc credit.CreditService, logger *slog.Logger) {
	h := handler.NewCreditHandler(svc, logger)
	r.Post("/check-eligibility", h.CheckEligibility)
	r.Post("/create-loan", h.CreateLoan)
}

func setupCustomerRoutes(r chi.Router, svc customer.CustomerService, creditSvc credit.CreditService, loanSvc loan.LoanService, logger *slog.Logger) {
	h := handler.NewCustomerHandler(svc, logger)
	creditHandler := handler.NewCreditHandler(creditSvc, logger)
	loanHandler := handler.NewLoanHandler(loanSvc, logger)

	r.Post("/register", h.Register)
	r.Route("/customers", func(r chi.Router) {
		r.Get("/", h.ListCustomers)
		r.Route("/{customerID}", func(r chi.Router) {
			r.Get("/", h.GetCustomer)
			r.Delete("/", h.DeleteCustomer)
			r.Get("/total-debt", loanHandler.CustomerTotalDebt)
			r.Get("/score", creditHandler.CustomerScore)
		})
	})
}

func setupLoanRoutes(r chi.Router, svc loan.LoanService, logger *slog.Logger) {
	h := handler.NewLoanHandler(svc, logger)
	r.Get("/view-loan/{loanID}", h.ViewLoan)
	r.Get("/view-loans/{customerID}", h.ViewCustomerLoans)
	r.Route("/loans", func(r chi.Router) {
		r.Get("/active", h.ListActiveLoans)
		r.Get("/late", h.ListLateLoans)
	})
}
