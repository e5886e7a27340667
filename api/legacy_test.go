package api

import (
	"net/http"
	"testing"

	qt "github.com/frankban/quicktest"
)

const stripeEventBody = `{
  "id": "evt_1NG8Du2eZvKYlo2CUI79vXWy",
  "object": "event",
  "api_version": "2025-10-29.clover",
  "type": "customer.subscription.updated",
  "data": {"object": {"id": "sub_123", "object": "subscription", "status": "active"}}
}`

func TestLegacyWebhookGone(t *testing.T) {
	c := qt.New(t)
	_, srv, _ := testServer(c)

	bodies := map[string]string{
		"empty":     "",
		"malformed": `{"id": "evt_`,
		"event":     stripeEventBody,
	}
	for _, method := range []string{http.MethodPost, http.MethodGet} {
		for name, body := range bodies {
			c.Run(method+" "+name, func(c *qt.C) {
				status, header, resp := request(c, srv, method, legacyWebhookEndpoint, "", body)
				c.Assert(status, qt.Equals, http.StatusGone)
				c.Assert(string(resp), qt.Equals, `{"error":"legacy_webhook_removed"}`)
				c.Assert(header.Get("Content-Type"), qt.Equals, "application/json")
			})
		}
	}
}

func TestLegacyWebhookIgnoresCredentials(t *testing.T) {
	c := qt.New(t)
	a, srv, _ := testServer(c)
	token := testToken(c, a, map[string]any{"userId": testEmail})

	status, _, resp := request(c, srv, http.MethodPost, legacyWebhookEndpoint+"?livemode=true", token, stripeEventBody)
	c.Assert(status, qt.Equals, http.StatusGone)
	c.Assert(string(resp), qt.Equals, `{"error":"legacy_webhook_removed"}`)
	status, _, _ = request(c, srv, http.MethodPost, legacyWebhookEndpoint, "not-a-jwt", "")
	c.Assert(status, qt.Equals, http.StatusGone)
}

func TestLegacyWebhookOtherMethods(t *testing.T) {
	c := qt.New(t)
	_, srv, _ := testServer(c)
	for _, method := range []string{http.MethodPut, http.MethodDelete, http.MethodPatch} {
		status, _, resp := request(c, srv, method, legacyWebhookEndpoint, "", stripeEventBody)
		c.Assert(status, qt.Equals, http.StatusMethodNotAllowed, qt.Commentf("method %s", method))
		c.Assert(string(resp), qt.Not(qt.Equals), `{"error":"legacy_webhook_removed"}`)
	}
}
