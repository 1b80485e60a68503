// Package http provides the HTTP delivery layer for the URL shortener service.
// This package contains the HTTP handlers and related types used for processing
// incoming requests, validating input, and formatting responses.
package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v2"
	"github.com/go-chi/httprate"
	"github.com/go-chi/render"
	"github.com/vadimbarashkov/shortlink/docs"
	"github.com/vadimbarashkov/shortlink/pkg/middleware/recoverer"

	httpSwagger "github.com/swaggo/http-swagger"
)

// RouterConfig holds the tunables of the HTTP surface.
type RouterConfig struct {
	CORSOrigin        string
	RateLimitRequests int // zero disables rate limiting
	RateLimitWindow   time.Duration
}

// NewRouter initializes and returns a new Chi router configured with middleware and routes for the URL shortener API.
func NewRouter(logger *httplog.Logger, cfg RouterConfig, authUseCase authUseCase, linkUseCase linkUseCase) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.CORSOrigin},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "Accept"},
		AllowCredentials: true,
		MaxAge:           84600,
	}))
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(httplog.RequestLogger(logger))
	r.Use(recoverer.New(logger.Logger))

	if cfg.RateLimitRequests > 0 {
		r.Use(httprate.Limit(
			cfg.RateLimitRequests,
			cfg.RateLimitWindow,
			httprate.WithKeyFuncs(httprate.KeyByIP),
			httprate.WithLimitCounter(newFixedWindowCounter(cfg.RateLimitWindow)),
			httprate.WithLimitHandler(handleTooManyRequests),
		))
	}

	r.NotFound(handleNotFound)
	r.MethodNotAllowed(handleMethodNotAllowed)

	r.Get("/ping", handlePing)

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/docs/swagger.yml"),
	))

	r.Get("/docs/swagger.yml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		w.Write(docs.Swagger)
	})

	validate := newValidate()
	auth := newAuthenticator(authUseCase)
	ah := newAuthHandler(authUseCase, validate)
	lh := newLinkHandler(linkUseCase, validate)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", ah.register)
			r.Post("/login", ah.login)
		})

		r.Route("/urls", func(r chi.Router) {
			r.Post("/public", lh.shortenPublicURL)

			r.Post("/", auth.require(lh.shortenURL))
			r.Get("/", auth.require(lh.listLinks))

			r.Route("/{id}", func(r chi.Router) {
				r.Patch("/", auth.require(lh.modifyLink))
				r.Delete("/", auth.require(lh.deleteLink))
				r.Get("/qr", auth.require(lh.qrCode))
			})
		})
	})

	r.Get("/{slug}", lh.redirect)

	return r
}

func handleNotFound(w http.ResponseWriter, r *http.Request) {
	render.Status(r, http.StatusNotFound)
	render.JSON(w, r, resourceNotFoundResponse)
}

func handleMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	render.Status(r, http.StatusMethodNotAllowed)
	render.JSON(w, r, methodNotAllowedResponse)
}

func handleTooManyRequests(w http.ResponseWriter, r *http.Request) {
	render.Status(r, http.StatusTooManyRequests)
	render.JSON(w, r, tooManyRequestsResponse)
}
