package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/danupra/hrisgo/internal/auth"
	"github.com/danupra/hrisgo/internal/config"
	"github.com/danupra/hrisgo/internal/service"
	"github.com/danupra/hrisgo/pkg/health"
	"github.com/danupra/hrisgo/pkg/middleware"
)

// Services bundles the service layer dependencies of the router.
type Services struct {
	Sessions  *service.SessionService
	Users     *service.UserService
	Pegawai   *service.PegawaiService
	Pekerja   *service.PekerjaService
	Companies *service.CompanyService
}

// NewRouter creates a chi router with all routes registered.
func NewRouter(
	cfg *config.Config,
	svcs Services,
	codec *auth.TokenCodec,
	healthHandler *health.Handler,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(CORS(CORSConfig{AllowedOrigins: cfg.CORSAllowedOrigins, Environment: cfg.Environment}))
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics("hris"))

	// Health and metrics endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	cookies := newCookieWriter(cfg.RefreshTokenCookieName, cfg.RefreshTokenExpiry, cfg.Environment == "production")

	// Auth endpoints (public). Rate limited outside development so password
	// guessing costs the client its request budget.
	authHandler := NewAuthHandler(svcs.Sessions, cookies, logger)
	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		if cfg.Environment != "development" {
			r.Use(middleware.RateLimit(cfg.AuthRateLimitRPS, cfg.AuthRateLimitBurst, logger))
		}

		r.Post("/signup", authHandler.SignUp)
		r.Post("/signin/email", authHandler.SignInEmail)
		r.Post("/refresh", authHandler.Refresh)
		r.Post("/logout", authHandler.Logout)
	})

	// Token validator bridging the middleware to the codec.
	tokenValidator := func(token string) (*middleware.Claims, error) {
		claims, err := codec.VerifyAccessToken(token)
		if err != nil {
			return nil, err
		}
		return &middleware.Claims{
			UserID: claims.UserID,
			Role:   claims.Role,
		}, nil
	}

	// User administration (auth required)
	userHandler := NewUserHandler(svcs.Users, logger)
	r.Route("/api/v1/users", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(middleware.Auth(tokenValidator))

		r.Get("/find", userHandler.Find)
		r.Put("/update-password", userHandler.UpdatePassword)

		// Account administration is admin-only.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole("admin"))

			r.Get("/check-email/{email}", userHandler.CheckEmail)
			r.Post("/", userHandler.Create)
			r.Patch("/suspended", userHandler.Suspend)
			r.Patch("/unsuspended", userHandler.Unsuspend)
		})
	})

	// Staff employees (auth required)
	pegawaiHandler := NewPegawaiHandler(svcs.Pegawai, logger)
	r.Route("/api/v1/pegawai", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(middleware.Auth(tokenValidator))

		r.Get("/", pegawaiHandler.List)
		r.Get("/{id}", pegawaiHandler.Get)
		r.Post("/", pegawaiHandler.Create)
		r.Put("/{id}", pegawaiHandler.Update)
		r.Delete("/{id}", pegawaiHandler.Delete)
	})

	// Field workers (auth required)
	pekerjaHandler := NewPekerjaHandler(svcs.Pekerja, logger)
	r.Route("/api/v1/pekerja", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(middleware.Auth(tokenValidator))

		r.Get("/", pekerjaHandler.List)
		r.Get("/{id}", pekerjaHandler.Get)
		r.Post("/", pekerjaHandler.Create)
		r.Put("/{id}", pekerjaHandler.Update)
		r.Delete("/{id}", pekerjaHandler.Delete)
	})

	// Companies (auth required)
	companyHandler := NewCompanyHandler(svcs.Companies, logger)
	r.Route("/api/v1/companies", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(middleware.Auth(tokenValidator))

		r.Get("/", companyHandler.List)
		r.Get("/{id}", companyHandler.Get)
		r.Post("/", companyHandler.Create)
		r.Put("/{id}", companyHandler.Update)
		r.Delete("/{id}", companyHandler.Delete)
	})

	return r
}
