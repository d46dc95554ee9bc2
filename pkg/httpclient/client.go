// Package httpclient is the HTTP transport of the resolver. It maps server
// responses and transport failures onto the error taxonomy the download
// engine's control flow keys on: 404s become ErrNotFound, timeouts and DNS
// failures become ErrConnectivity.
package httpclient

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	pkgerrors "github.com/jploot/picomaven/pkg/errors"
)

// DefaultUserAgent is sent when the caller does not configure one.
const DefaultUserAgent = "picomaven/1.0"

// Client performs GET requests against repository URLs.
type Client struct {
	client    *http.Client
	userAgent string
}

// NewClient creates a client with the given timeout and user agent.
func NewClient(timeout time.Duration, userAgent string) *Client {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &Client{
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
	}
}

// Get fetches u and returns the full response body. A 404 response returns an
// ErrNotFound error; timeouts, DNS failures, network dial/read errors and
// cancelled contexts return an ErrConnectivity error; other request errors
// are returned wrapped without that classification; any other non-200
// status returns an ErrDownloadFailed error.
func (c *Client) Get(ctx context.Context, u *url.URL) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), http.NoBody)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to create request")
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		if isConnectivity(err) {
			return nil, pkgerrors.Wrapf(pkgerrors.ErrConnectivity, "GET %s: %v", u, err)
		}
		return nil, pkgerrors.Wrapf(err, "GET %s", u)
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, pkgerrors.Wrapf(pkgerrors.ErrNotFound, "%s", u)
	default:
		return nil, pkgerrors.Wrapf(pkgerrors.ErrDownloadFailed, "unexpected status code %d for %s", resp.StatusCode, u)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		if isConnectivity(err) {
			return nil, pkgerrors.Wrapf(pkgerrors.ErrConnectivity, "GET %s: %v", u, err)
		}
		return nil, pkgerrors.Wrap(err, "failed to read response body")
	}
	return data, nil
}

// isConnectivity classifies transport errors that should move the engine's
// per-repository loop along rather than fail the resolve.
func isConnectivity(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled)
}
