package api

import "net/http"

// legacyWebhookBody is the fixed answer of the decommissioned webhook.
var legacyWebhookBody = []byte(`{"error":"legacy_webhook_removed"}`)

// legacyWebhookHandler answers every call to the old Stripe webhook with 410
// Gone, so the dispatcher stops delivering events to it. The request is never
// read.
func legacyWebhookHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusGone)
	_, _ = w.Write(legacyWebhookBody)
}
