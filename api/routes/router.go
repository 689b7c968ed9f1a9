package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kimocks-netizen/caro-backend/api/controllers"
	"github.com/kimocks-netizen/caro-backend/api/middleware"
	authsvc "github.com/kimocks-netizen/caro-backend/internal/auth"
	productsvc "github.com/kimocks-netizen/caro-backend/internal/products"
	quotesvc "github.com/kimocks-netizen/caro-backend/internal/quotes"
	verificationsvc "github.com/kimocks-netizen/caro-backend/internal/verification"
	"github.com/kimocks-netizen/caro-backend/pkg/config"
	"github.com/kimocks-netizen/caro-backend/pkg/logger"
	"github.com/kimocks-netizen/caro-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP controllers.Pinger,
	redisClient *redis.Client,
	quoteService quotesvc.Service,
	verificationService verificationsvc.Service,
	productService productsvc.Service,
	authService authsvc.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS),
	)

	var limiter middleware.RateLimiterStore
	if redisClient != nil {
		limiter = redisClient
	}

	loginPolicy := middleware.NewRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	resendPolicy := middleware.NewRateLimitPolicy(
		"resend",
		cfg.AuthRateLimit.ResendWindow,
		cfg.AuthRateLimit.ResendIPLimit,
		cfg.AuthRateLimit.ResendEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, pinger(redisClient)))
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/quotes", controllers.SubmitQuote(quoteService, logg))
		r.Get("/quotes/track/{trackingCode}", controllers.TrackQuote(quoteService, logg))

		r.Route("/verify", func(r chi.Router) {
			r.Post("/email", controllers.VerifyEmail(verificationService, logg))
			r.With(middleware.RateLimit(resendPolicy, limiter, logg)).Post("/resend", controllers.ResendVerification(verificationService, logg))
		})

		r.With(middleware.RateLimit(loginPolicy, limiter, logg)).Post("/auth/login", controllers.AdminLogin(authService, logg))

		r.Get("/products", controllers.ListProducts(productService, logg))
		r.Get("/products/{id}", controllers.GetProduct(productService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))
			r.Use(middleware.RequireRole("admin", logg))

			r.Get("/quotes", controllers.AdminListQuotes(quoteService, logg))
			r.Get("/quotes/admin/{id}", controllers.AdminQuoteDetail(quoteService, logg))
			r.Put("/quotes/{id}/status", controllers.AdminUpdateQuoteStatus(quoteService, logg))
			r.Put("/quotes/{id}/pricing", controllers.AdminUpdateQuotePricing(quoteService, logg))
			r.Put("/quotes/{id}/issue", controllers.AdminIssueQuote(quoteService, logg))

			r.Post("/products", controllers.AdminCreateProduct(productService, logg))
			r.Put("/products/{id}", controllers.AdminUpdateProduct(productService, logg))
			r.Delete("/products/{id}", controllers.AdminDeleteProduct(productService, logg))
		})
	})

	return r
}

// pinger keeps a nil *redis.Client from becoming a non-nil interface.
func pinger(c *redis.Client) controllers.Pinger {
	if c == nil {
		return nil
	}
	return c
}
