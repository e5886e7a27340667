package api

import "time"

const (
	// public routes

	// GET /ping to check the service is alive
	pingEndpoint = "/ping"
	// GET /metrics to scrape the Prometheus metrics
	metricsEndpoint = "/metrics"
	// POST and GET /subscriptions/webhook, the decommissioned Stripe webhook
	legacyWebhookEndpoint = "/subscriptions/webhook"

	// trial routes

	// GET /users/me/trial to get the trial of the current user
	// POST /users/me/trial to start the trial of the current user
	usersMeTrialEndpoint = "/users/me/trial"
)

const (
	requestTimeout  = 45 * time.Second
	throttleLimit   = 100
	throttleBacklog = 5000
)
