// Package stripe configures the Stripe client shared by the whole process and
// exposes the customer operations the billing service needs.
package stripe

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"

	stripeapi "github.com/stripe/stripe-go/v83"
	"go.vocdoni.io/dvote/log"
)

// Client wraps the Stripe API client. A Client is immutable once built and
// safe for concurrent use.
type Client struct {
	config *Config
	api    *stripeapi.Client
}

// customerIdempotencyPrefix prefixes the idempotency key of the customer
// created for a user, so concurrent creations collapse into one customer.
const customerIdempotencyPrefix = "customer-"

var (
	defaultOnce   sync.Once
	defaultClient atomic.Pointer[Client]
	defaultErr    error
)

// Init builds the process-wide Stripe client from the given configuration.
// Only the first call constructs anything; later calls return the same client
// and error regardless of their argument.
func Init(config *Config) (*Client, error) {
	defaultOnce.Do(func() {
		client, err := NewClient(config)
		if err != nil {
			defaultErr = err
			return
		}
		defaultClient.Store(client)
	})
	return defaultClient.Load(), defaultErr
}

// Default returns the client built by Init, or nil if Init has not been called
// or failed. It is safe to call concurrently with Init.
func Default() *Client {
	return defaultClient.Load()
}

// NewClient creates a new Stripe client with the given configuration. It fails
// if the SDK in use negotiates a different API version than APIVersion.
func NewClient(config *Config) (*Client, error) {
	if config == nil || config.APIKey == "" {
		return nil, NewStripeError(codeInvalidConfiguration, "API key is required", nil)
	}
	if stripeapi.APIVersion != APIVersion {
		return nil, NewStripeError(codeInvalidConfiguration,
			fmt.Sprintf("SDK pins API version %s, expected %s", stripeapi.APIVersion, APIVersion), nil)
	}
	timeout := config.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	backendConfig := &stripeapi.BackendConfig{
		HTTPClient:        &http.Client{Timeout: timeout},
		MaxNetworkRetries: stripeapi.Int64(config.MaxNetworkRetries),
	}
	if config.BackendURL != "" {
		backendConfig.URL = stripeapi.String(config.BackendURL)
	}
	backends := &stripeapi.Backends{
		API:     stripeapi.GetBackendWithConfig(stripeapi.APIBackend, backendConfig),
		Connect: stripeapi.GetBackendWithConfig(stripeapi.ConnectBackend, backendConfig),
		Uploads: stripeapi.GetBackendWithConfig(stripeapi.UploadsBackend, backendConfig),
	}
	log.Infow("stripe client configured", "apiVersion", APIVersion, "retries", config.MaxNetworkRetries)
	return &Client{
		config: config,
		api:    stripeapi.NewClient(config.APIKey, stripeapi.WithBackends(backends)),
	}, nil
}

// Customer retrieves a customer by ID.
func (c *Client) Customer(ctx context.Context, customerID string) (*stripeapi.Customer, error) {
	customer, err := c.api.V1Customers.Retrieve(ctx, customerID, &stripeapi.CustomerRetrieveParams{})
	if err != nil {
		if isNotFound(err) {
			return nil, NewStripeError(codeCustomerNotFound, fmt.Sprintf("customer %s not found", customerID), err)
		}
		return nil, NewStripeError(codeAPICallFailed, "failed to get customer", err)
	}
	return customer, nil
}

// CustomerByEmail retrieves the first customer registered with the given email.
func (c *Client) CustomerByEmail(ctx context.Context, email string) (*stripeapi.Customer, error) {
	params := &stripeapi.CustomerListParams{
		Email: stripeapi.String(email),
	}
	params.Limit = stripeapi.Int64(1)
	for customer, err := range c.api.V1Customers.List(ctx, params) {
		if err != nil {
			return nil, NewStripeError(codeAPICallFailed, "failed to list customers", err)
		}
		return customer, nil
	}
	return nil, NewStripeError(codeCustomerNotFound, fmt.Sprintf("customer with email %s not found", email), nil)
}

// CreateCustomer creates a customer with the given email and metadata. A
// non empty idempotencyKey makes Stripe return the customer of an earlier
// request with the same key instead of creating another one.
func (c *Client) CreateCustomer(ctx context.Context, email string, metadata map[string]string,
	idempotencyKey string,
) (*stripeapi.Customer, error) {
	params := &stripeapi.CustomerCreateParams{
		Email: stripeapi.String(email),
	}
	if idempotencyKey != "" {
		params.SetIdempotencyKey(idempotencyKey)
	}
	for k, v := range metadata {
		params.AddMetadata(k, v)
	}
	customer, err := c.api.V1Customers.Create(ctx, params)
	if err != nil {
		return nil, NewStripeError(codeAPICallFailed, "failed to create customer", err)
	}
	return customer, nil
}

// EnsureCustomer returns the ID of the customer registered with email,
// creating one tagged with the user ID if none exists yet. Creations are keyed
// by user ID, so concurrent calls for the same user get the same customer.
func (c *Client) EnsureCustomer(ctx context.Context, email, userID string) (string, error) {
	customer, err := c.CustomerByEmail(ctx, email)
	if err == nil {
		return customer.ID, nil
	}
	if !errors.Is(err, ErrCustomerNotFound) {
		return "", err
	}
	customer, err = c.CreateCustomer(ctx, email, map[string]string{"user_id": userID},
		customerIdempotencyPrefix+userID)
	if err != nil {
		return "", err
	}
	log.Debugw("stripe customer created", "customer", customer.ID, "user", userID)
	return customer.ID, nil
}
