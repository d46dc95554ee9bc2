package metadata

import (
	"context"
	"net/url"

	pkgerrors "github.com/jploot/picomaven/pkg/errors"
)

// Getter fetches the contents of a URL. Satisfied by the HTTP client.
type Getter interface {
	Get(ctx context.Context, u *url.URL) ([]byte, error)
}

// GetMetadata fetches and parses a maven-metadata.xml document. It returns
// (nil, nil) when the document does not exist (404), a connectivity error
// when the repository is unreachable, and a parse error for malformed XML.
func GetMetadata(ctx context.Context, client Getter, u *url.URL) (*Metadata, error) {
	data, err := client.Get(ctx, u)
	if err != nil {
		if pkgerrors.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return ParseMetadata(data)
}

// GetProject fetches and parses a pom.xml document with the same error shape
// as GetMetadata. The raw document bytes are returned alongside the parsed
// form so callers can persist exactly what the repository served.
func GetProject(ctx context.Context, client Getter, u *url.URL) (*Project, []byte, error) {
	data, err := client.Get(ctx, u)
	if err != nil {
		if pkgerrors.IsNotFound(err) {
			return nil, nil, nil
		}
		return nil, nil, err
	}
	p, err := ParseProject(data)
	if err != nil {
		return nil, nil, err
	}
	return p, data, nil
}
