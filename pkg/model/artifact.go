// Package model provides the value types shared across the resolver:
// artifact coordinates, dependency requests, download results, and the
// transitive-dependency view handed to processor chains.
package model

import (
	"strings"

	"github.com/jploot/picomaven/pkg/checksum"
	pkgerrors "github.com/jploot/picomaven/pkg/errors"
)

// SnapshotSuffix marks versions that require metadata-driven resolution.
const SnapshotSuffix = "-SNAPSHOT"

// Coordinate identifies an artifact by its Maven coordinates. Identity is the
// full 4-tuple; Classifier is usually empty.
type Coordinate struct {
	Group      string `yaml:"group"`
	Artifact   string `yaml:"artifact"`
	Version    string `yaml:"version"`
	Classifier string `yaml:"classifier,omitempty"`
}

// IsSnapshot reports whether the version requires snapshot metadata
// resolution.
func (c Coordinate) IsSnapshot() bool {
	return strings.HasSuffix(c.Version, SnapshotSuffix)
}

// String renders the coordinate as group:artifact:version[:classifier].
func (c Coordinate) String() string {
	s := c.Group + ":" + c.Artifact + ":" + c.Version
	if c.Classifier != "" {
		s += ":" + c.Classifier
	}
	return s
}

// Validate checks that the mandatory coordinate fields are set.
func (c Coordinate) Validate() error {
	if c.Group == "" || c.Artifact == "" || c.Version == "" {
		return pkgerrors.Wrapf(pkgerrors.ErrInvalidCoordinate, "%q", c.String())
	}
	return nil
}

// ParseCoordinate parses group:artifact:version[:classifier] into a
// Coordinate. It is the inverse of Coordinate.String.
func ParseCoordinate(s string) (Coordinate, error) {
	parts := strings.Split(s, ":")
	if len(parts) < 3 || len(parts) > 4 {
		return Coordinate{}, pkgerrors.Wrapf(pkgerrors.ErrInvalidCoordinate, "%q", s)
	}
	c := Coordinate{Group: parts[0], Artifact: parts[1], Version: parts[2]}
	if len(parts) == 4 {
		c.Classifier = parts[3]
	}
	if err := c.Validate(); err != nil {
		return Coordinate{}, err
	}
	return c, nil
}

// Checksum is an expected digest declared on a dependency. When at least one
// checksum is declared, all declared checksums must match the downloaded
// bytes.
type Checksum struct {
	Algo  checksum.Algo `yaml:"algo"`
	Value string        `yaml:"value"`
}

// Dependency is one unit of resolution work: a coordinate plus the flags and
// expectations the caller attached to it. Immutable after construction.
type Dependency struct {
	Coordinate Coordinate
	// Transitive controls whether the descriptor is fetched and declared
	// dependencies expanded.
	Transitive bool
	// Checksums are caller-declared digests. Empty for transitive children,
	// which fall back to remote sidecar verification.
	Checksums []Checksum
}

// String renders the dependency's coordinate.
func (d Dependency) String() string { return d.Coordinate.String() }
