package payments

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v81"
)

func TestNew(t *testing.T) {
	require.False(t, New("  ").Configured())

	c := New("sk_test_123", WithBaseURL("http://localhost:12111/"))
	require.True(t, c.Configured())
	require.Equal(t, "http://localhost:12111", c.BaseURL())
	require.NotNil(t, c.API())
	require.NotNil(t, c.API().PaymentIntents)

	var nilClient *Client
	require.False(t, nilClient.Configured())
	require.Nil(t, nilClient.API())
}

func TestNew_DefaultsToStripe(t *testing.T) {
	c := New("sk_test_123", WithHTTPClient(&http.Client{Timeout: time.Second}))
	require.Equal(t, stripe.APIURL, c.BaseURL())
	require.NotNil(t, c.API())
}
