// Package api provides the HTTP API of the billing service: the trial
// endpoints, the decommissioned Stripe webhook and the service metrics.
package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/jwtauth/v5"
	"github.com/vocdoni/saas-billing/trials"
	"go.vocdoni.io/dvote/log"
)

// Config holds the configuration of the API server.
type Config struct {
	Host   string
	Port   int
	Secret string
	// Trials grants and reads the user trials
	Trials *trials.Trials
}

// API type represents the API HTTP server with JWT authentication capabilities.
type API struct {
	auth    *jwtauth.JWTAuth
	host    string
	port    int
	trials  *trials.Trials
	metrics *metrics
}

// New creates a new API HTTP server. It does not start the server. Use Start() for that.
func New(conf *Config) *API {
	if conf == nil {
		return nil
	}
	return &API{
		auth:    jwtauth.New("HS256", []byte(conf.Secret), nil),
		host:    conf.Host,
		port:    conf.Port,
		trials:  conf.Trials,
		metrics: newMetrics(),
	}
}

// Start starts the API HTTP server (non blocking).
func (a *API) Start() {
	go func() {
		if err := http.ListenAndServe(fmt.Sprintf("%s:%d", a.host, a.port), a.initRouter()); err != nil {
			log.Fatalf("failed to start the API server: %v", err)
		}
	}()
}

// initRouter creates the router with all the routes and middleware.
func (a *API) initRouter() http.Handler {
	// Create the router with a basic middleware stack
	r := chi.NewRouter()
	r.Use(cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		AllowCredentials: true,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}).Handler)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(a.metrics.middleware)
	r.Use(middleware.Throttle(throttleLimit))
	r.Use(middleware.ThrottleBacklog(throttleBacklog, 40000, 60*time.Second))
	r.Use(middleware.Timeout(requestTimeout))

	// protected routes
	r.Group(func(r chi.Router) {
		// seek, verify and validate JWT tokens
		r.Use(jwtauth.Verifier(a.auth))
		// handle valid JWT tokens
		r.Use(a.authenticator)
		// get the trial of the current user
		log.Infow("new route", "method", "GET", "path", usersMeTrialEndpoint)
		r.Get(usersMeTrialEndpoint, a.trialStatusHandler)
		// start the trial of the current user
		log.Infow("new route", "method", "POST", "path", usersMeTrialEndpoint)
		r.Post(usersMeTrialEndpoint, a.startTrialHandler)
	})

	// Public routes
	r.Group(func(r chi.Router) {
		r.Get(pingEndpoint, func(w http.ResponseWriter, _ *http.Request) {
			if _, err := w.Write([]byte(".")); err != nil {
				log.Warnw("failed to write ping response", "error", err)
			}
		})
		// prometheus metrics
		log.Infow("new route", "method", "GET", "path", metricsEndpoint)
		r.Get(metricsEndpoint, a.metrics.handler().ServeHTTP)
		// decommissioned stripe webhook
		log.Infow("new route", "method", "POST", "path", legacyWebhookEndpoint)
		r.Post(legacyWebhookEndpoint, legacyWebhookHandler)
		log.Infow("new route", "method", "GET", "path", legacyWebhookEndpoint)
		r.Get(legacyWebhookEndpoint, legacyWebhookHandler)
	})
	return r
}
