// Package checksum computes and verifies artifact digests and fetches the
// sidecar checksum files repositories publish next to each artifact.
package checksum

import (
	"context"
	"crypto/md5"  //nolint:gosec // repository sidecars still publish MD5
	"crypto/sha1" //nolint:gosec // repository sidecars still publish SHA-1
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"hash"
	"net/url"
	"strings"

	pkgerrors "github.com/jploot/picomaven/pkg/errors"
)

// Algo identifies a digest algorithm.
type Algo string

// Supported digest algorithms.
const (
	MD5    Algo = "MD5"
	SHA1   Algo = "SHA-1"
	SHA256 Algo = "SHA-256"
	SHA512 Algo = "SHA-512"
)

// RemoteAlgos lists the algorithms probed for remote sidecar files, strongest
// first.
var RemoteAlgos = []Algo{SHA512, SHA256, SHA1, MD5}

// Ext returns the sidecar file extension for the algorithm: the lowercase
// algorithm name with dashes removed (e.g. "sha256").
func (a Algo) Ext() string {
	return strings.ToLower(strings.ReplaceAll(string(a), "-", ""))
}

// New returns a fresh hash instance for the algorithm. Unknown algorithms
// return nil.
func (a Algo) New() hash.Hash {
	switch a {
	case MD5:
		return md5.New() //nolint:gosec
	case SHA1:
		return sha1.New() //nolint:gosec
	case SHA256:
		return sha256.New()
	case SHA512:
		return sha512.New()
	}
	return nil
}

// Valid reports whether the algorithm is one of the supported set.
func (a Algo) Valid() bool {
	return a.New() != nil
}

// ParseAlgo maps common spellings ("sha256", "SHA-256") to an Algo.
func ParseAlgo(s string) (Algo, error) {
	for _, a := range RemoteAlgos {
		if strings.EqualFold(s, string(a)) || strings.EqualFold(s, a.Ext()) {
			return a, nil
		}
	}
	return "", pkgerrors.Wrapf(pkgerrors.ErrConfigValidation, "unknown checksum algorithm %q", s)
}

// Compute returns the lowercase hex digest of data under the algorithm.
func Compute(a Algo, data []byte) string {
	h := a.New()
	if h == nil {
		return ""
	}
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Verify reports whether data hashes to wantHex under the algorithm. The
// expected digest is compared case-insensitively with surrounding whitespace
// ignored.
func Verify(a Algo, wantHex string, data []byte) bool {
	got := Compute(a, data)
	return got != "" && got == normalizeHex(wantHex)
}

// Getter fetches the contents of a URL. Satisfied by the HTTP client.
type Getter interface {
	Get(ctx context.Context, u *url.URL) ([]byte, error)
}

// FetchRemote retrieves the sidecar digest published at artifactURL + "." +
// the algorithm extension. It returns the empty string when the repository
// does not publish a sidecar for this algorithm (404) and an error for
// transport failures. Sidecar files may carry a trailing filename and
// whitespace; only the digest token is returned.
func FetchRemote(ctx context.Context, client Getter, artifactURL *url.URL, a Algo) (string, error) {
	sidecar := *artifactURL
	sidecar.Path += "." + a.Ext()
	data, err := client.Get(ctx, &sidecar)
	if err != nil {
		if pkgerrors.IsNotFound(err) {
			return "", nil
		}
		return "", err
	}
	fields := strings.Fields(string(data))
	if len(fields) == 0 {
		return "", pkgerrors.Wrapf(pkgerrors.ErrParse, "empty checksum file at %s", sidecar.String())
	}
	return normalizeHex(fields[0]), nil
}

func normalizeHex(s string) string { return strings.ToLower(strings.TrimSpace(s)) }
