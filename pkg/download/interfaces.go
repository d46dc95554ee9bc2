//go:generate mockgen -destination=./mocks/fetcher.go -package=mocks . Fetcher
package download

import (
	"context"
	"net/url"
)

// Fetcher is the transport the engine downloads through. It returns the full
// body of the resource at u, an ErrNotFound error for 404 responses, and an
// ErrConnectivity error for timeouts and DNS failures. Timeouts are the
// transport's responsibility; the engine has none of its own.
type Fetcher interface {
	Get(ctx context.Context, u *url.URL) ([]byte, error)
}
