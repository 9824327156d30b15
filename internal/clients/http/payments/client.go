// Package payments holds the client of the payment provider. The storefront
// builds it at boot but never captures payments.
package payments

import (
	"net/http"
	"strings"

	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/client"
)

// Client wraps the Stripe API client.
type Client struct {
	apiKey  string
	baseURL string
	api     *client.API
}

type options struct {
	baseURL    string
	httpClient *http.Client
}

type Option func(*options)

// WithBaseURL points the API backend at another host, e.g. stripe-mock.
func WithBaseURL(baseURL string) Option {
	return func(o *options) {
		if baseURL != "" {
			o.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) {
		if hc != nil {
			o.httpClient = hc
		}
	}
}

// New returns a client for apiKey. An empty key yields an unconfigured client.
func New(apiKey string, opts ...Option) *Client {
	o := options{baseURL: stripe.APIURL}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	config := &stripe.BackendConfig{URL: stripe.String(o.baseURL)}
	if o.httpClient != nil {
		config.HTTPClient = o.httpClient
	}
	api := stripe.GetBackendWithConfig(stripe.APIBackend, config)
	backends := &stripe.Backends{
		API:     api,
		Connect: stripe.GetBackend(stripe.ConnectBackend),
		Uploads: stripe.GetBackend(stripe.UploadsBackend),
	}
	key := strings.TrimSpace(apiKey)
	return &Client{
		apiKey:  key,
		baseURL: o.baseURL,
		api:     client.New(key, backends),
	}
}

// Configured reports whether an API key was supplied.
func (c *Client) Configured() bool {
	return c != nil && c.apiKey != ""
}

func (c *Client) BaseURL() string {
	if c == nil {
		return ""
	}
	return c.baseURL
}

// API exposes the underlying Stripe client.
func (c *Client) API() *client.API {
	if c == nil {
		return nil
	}
	return c.api
}
