// Package sicetac implements the protocol client for the RNDC/SICETAC
// reference-price web service: a legacy SOAP 1.1 gateway speaking
// entity-escaped XML-inside-XML over ISO-8859-1.
package sicetac

import (
	"context"
	"net/http"
	"time"

	"cotizador-platform/lib/models"
)

// Config holds everything the client needs to talk to the gateway. The
// credentials travel in plaintext inside the XML body; that is how the
// upstream protocol works, not a choice of this client.
type Config struct {
	Endpoint   string
	Username   string
	Password   string
	CompanyNIT string
	Timeout    time.Duration
	VerifySSL  bool
}

// Client is an immutable SICETAC protocol client. Construct it once and share
// it freely; concurrent FetchQuotes calls are independent.
type Client struct {
	cfg        Config
	httpClient *http.Client
	retry      RetryPolicy
}

func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 20 * time.Second
	}
	return &Client{
		cfg:        cfg,
		httpClient: newHTTPClient(cfg.VerifySSL),
		retry:      DefaultRetryPolicy(),
	}
}

// NewClientWithPolicy is the test seam for injecting a retry schedule.
func NewClientWithPolicy(cfg Config, policy RetryPolicy) *Client {
	c := NewClient(cfg)
	c.retry = policy
	return c
}

// FetchQuotes runs one full quote acquisition: build the wire payload, post
// it under the retry policy, decode the doubly-encoded response and derive
// the priced results. Errors from any stage propagate unmodified; either the
// full result set is returned or nothing is.
func (c *Client) FetchQuotes(ctx context.Context, query models.QuoteQuery) ([]models.QuoteResult, error) {
	payload := c.buildPayload(query)

	responseText, err := c.post(ctx, payload)
	if err != nil {
		return nil, err
	}

	documents, err := decodeResponse(responseText)
	if err != nil {
		return nil, err
	}

	return extractQuotes(documents, query)
}
