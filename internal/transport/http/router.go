package http

import (
	"context"
	"net/http"

	"github.com/go-access-gate/internal/application/grant"
	"github.com/go-access-gate/internal/application/verification"
	"github.com/go-access-gate/internal/config"
	"github.com/go-access-gate/internal/transport/http/handler"
	appmiddleware "github.com/go-access-gate/internal/transport/http/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"
)

// Deps holds the application services behind the router.
type Deps struct {
	Verification verification.Service
	Grants       grant.Service
}

// NewRouter builds and returns the application router. Background cleanup of
// the rate limiter stops when ctx is cancelled.
func NewRouter(ctx context.Context, cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", appmiddleware.SecretTokenHeader},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// 5 requests/second, burst of 10 per client. Only guards grant redemption:
	// every message arrives through one relay, so an IP bucket on /messages
	// would throttle all requesters together.
	redeemRL := appmiddleware.NewRateLimiter(ctx, rate.Limit(5), 10, cfg.TrustProxyHeaders)

	healthH := handler.NewHealthHandler()
	messageH := handler.NewMessageHandler(deps.Verification)
	grantH := handler.NewGrantHandler(deps.Grants)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/health-check/{action}", healthH.Ping)
		r.Post("/health-check/{action}", healthH.Ping)

		r.With(appmiddleware.SecretToken(cfg.InboundSecretToken)).
			Post("/messages", messageH.Post)
		r.With(redeemRL.Limit).Get("/grants/{token}", grantH.Redeem)
	})

	return r
}
