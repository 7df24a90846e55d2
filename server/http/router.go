package serverhttp

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"tenancy-recon/internal/comments"
	"tenancy-recon/internal/config"
	"tenancy-recon/internal/middleware"
	recHnd "tenancy-recon/internal/reconcile/handler"
	"tenancy-recon/internal/tenantmap"
)

func NewRouter(cfg config.Config, logger zerolog.Logger, matcher *tenantmap.Matcher, store *comments.Store) *chi.Mux {
	r := chi.NewRouter()

	// order matters: recover -> requestID -> logging -> cors
	r.Use(middleware.Recover(logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logging(logger))
	r.Use(middleware.CORS(cfg.AllowOrigins))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	creds := make([]middleware.Credential, 0, len(cfg.Users))
	for _, u := range cfg.Users {
		creds = append(creds, middleware.Credential{User: u.U, Pass: u.P})
	}

	r.Route("/tenancy/api", func(r chi.Router) {
		r.Use(middleware.BasicAuth(creds, logger))

		r.Get("/", recHnd.Tenancy(cfg, logger, matcher))
		r.Get("/mapping-debug", recHnd.MappingDebug(matcher))
		r.Get("/ban-debug", recHnd.BanDebug(cfg))

		r.Route("/comments", func(r chi.Router) {
			r.Get("/{type}", comments.GetHandler(store, logger))
			r.Post("/{type}", comments.PostHandler(store, logger))
		})
	})

	return r
}
