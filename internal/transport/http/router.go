package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-signup-api/internal/application/activation"
	"github.com/go-signup-api/internal/application/session"
	"github.com/go-signup-api/internal/config"
	"github.com/go-signup-api/internal/infrastructure/token"
	"github.com/go-signup-api/internal/transport/http/handler"
	appmiddleware "github.com/go-signup-api/internal/transport/http/middleware"
	"golang.org/x/time/rate"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	UserRepo        UserRepository
	Mailer          Mailer
	IDPVerifier     IDPVerifier
	ActivationCodec *token.Codec
	AccessCodec     *token.Codec
	RefreshCodec    *token.Codec
}

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// 5 requests/second, burst of 10, applied to sensitive public endpoints.
	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	activationSvc := activation.NewService(activation.ServiceDeps{
		UserRepo: deps.UserRepo,
		Mailer:   deps.Mailer,
		Codec:    deps.ActivationCodec,
	})
	sessionSvc := session.NewService(session.ServiceDeps{
		UserRepo:     deps.UserRepo,
		AccessCodec:  deps.AccessCodec,
		RefreshCodec: deps.RefreshCodec,
		IDPVerifier:  deps.IDPVerifier,
	})

	healthH := handler.NewHealthHandler()
	userH := handler.NewUserHandler(activationSvc, deps.UserRepo)
	sessionH := handler.NewSessionHandler(sessionSvc, deps.RefreshCodec.TTL(), cfg.AppEnv == "production")

	r.Route("/v1", func(r chi.Router) {
		// ── Public routes ────────────────────────────────────────────────────
		r.Get("/health-check/{action}", healthH.Ping)
		r.With(sensitiveRL.Limit).Post("/users", userH.Register)
		r.With(sensitiveRL.Limit).Post("/users/activate", userH.Activate)
		r.With(sensitiveRL.Limit).Post("/sessions/login", sessionH.Login)
		r.With(sensitiveRL.Limit).Post("/sessions/social", sessionH.SocialAuth)
		r.Post("/sessions/refresh", sessionH.Refresh)

		// ── Authenticated routes ─────────────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(appmiddleware.Auth(deps.AccessCodec))

			r.Get("/users/{id}", userH.Get)
		})
	})

	return r
}
