package router

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wmbogo12/profiles-rest-api/internal/handler"
	"github.com/wmbogo12/profiles-rest-api/internal/middleware"
)

// Options configures the HTTP tree.
type Options struct {
	Tokens         middleware.TokenVerifier
	Profiles       middleware.ProfileChecker
	LoginLimiter   *middleware.RateLimiter
	DB             handler.Pinger
	RequestTimeout time.Duration
}

// Handlers are the viewsets served under /api.
type Handlers struct {
	Profiles *handler.ProfileViewSet
	Feed     *handler.FeedViewSet
	Login    *handler.LoginViewSet
}

// APIRegistry registers every /api viewset and view.
func APIRegistry(h Handlers, loginLimiter *middleware.RateLimiter) *Registry {
	reg := NewRegistry()
	reg.Register("hello-viewset", handler.NewHelloViewSet(), "hello-viewset")
	reg.Register("profile", h.Profiles, "")
	reg.Register("feed", h.Feed, "")
	if loginLimiter != nil {
		reg.Register("login", h.Login, "login", loginLimiter.Handler)
	} else {
		reg.Register("login", h.Login, "login")
	}
	reg.Handle("hello-view", handler.NewHelloAPIView())
	return reg
}

// New builds the complete HTTP handler: health and metrics endpoints plus
// the token-authenticated /api tree.
func New(opts Options, h Handlers) http.Handler {
	timeout := opts.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Metrics)
	r.Use(middleware.Recovery)
	r.Use(chimw.StripSlashes)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
	})

	r.Get("/health", handler.HealthLive)
	r.Get("/health/ready", handler.HealthReady(opts.DB))
	r.Handle("/metrics", promhttp.Handler())

	registry := APIRegistry(h, opts.LoginLimiter)
	r.Route("/api", func(r chi.Router) {
		r.Use(chimw.Timeout(timeout))
		r.Use(middleware.TokenAuth(opts.Tokens, opts.Profiles))
		registry.Mount(r)
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
