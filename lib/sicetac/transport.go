package sicetac

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

const soapAction = "urn:BPMServicesIntf-IBPMServices#AtenderMensajeRNDC"

func newHTTPClient(verifySSL bool) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: !verifySSL}
	return &http.Client{Transport: transport}
}

// postPayload performs one exchange with the gateway: the payload goes out as
// ISO-8859-1 bytes and the body comes back decoded from the same charset.
// Errors are marked transient when a retry plausibly helps (connection
// failures, timeouts, 5xx); 4xx rejections fail fast.
func (c *Client) postPayload(ctx context.Context, payload string) (string, error) {
	encoded, err := charmap.ISO8859_1.NewEncoder().String(payload)
	if err != nil {
		return "", fmt.Errorf("encoding payload to ISO-8859-1: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, strings.NewReader(encoded))
	if err != nil {
		return "", fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "text/xml; charset=ISO-8859-1")
	req.Header.Set("SOAPAction", soapAction)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &transientError{err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(charmap.ISO8859_1.NewDecoder().Reader(resp.Body))
	if err != nil {
		return "", &transientError{err: fmt.Errorf("reading response body: %w", err)}
	}

	switch {
	case resp.StatusCode >= 500:
		return "", &transientError{err: fmt.Errorf("gateway returned status %d", resp.StatusCode)}
	case resp.StatusCode >= 300:
		return "", fmt.Errorf("gateway rejected request with status %d", resp.StatusCode)
	}

	return string(body), nil
}

// post runs postPayload under the client's retry policy.
func (c *Client) post(ctx context.Context, payload string) (string, error) {
	var responseText string
	err := c.retry.Do(ctx, func(ctx context.Context) error {
		text, perr := c.postPayload(ctx, payload)
		if perr != nil {
			return perr
		}
		responseText = text
		return nil
	})
	if err != nil {
		return "", err
	}
	return responseText, nil
}
