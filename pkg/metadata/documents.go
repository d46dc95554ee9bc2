// Package metadata models the two Maven repository documents the resolver
// consumes: maven-metadata.xml (version resolution, snapshots) and pom.xml
// (declared repositories and dependencies). Only the elements the resolver
// acts on are mapped.
package metadata

import (
	"encoding/xml"
	"sort"
	"strings"

	goversion "github.com/hashicorp/go-version"

	pkgerrors "github.com/jploot/picomaven/pkg/errors"
)

// Metadata is a parsed maven-metadata.xml, either at group level (version
// list) or at artifact level (snapshot build info).
type Metadata struct {
	XMLName    xml.Name   `xml:"metadata"`
	GroupID    string     `xml:"groupId"`
	ArtifactID string     `xml:"artifactId"`
	Version    string     `xml:"version"`
	Versioning Versioning `xml:"versioning"`
}

// Versioning carries the version bookkeeping of a metadata document.
type Versioning struct {
	Latest           string            `xml:"latest"`
	Release          string            `xml:"release"`
	Versions         []string          `xml:"versions>version"`
	Snapshot         Snapshot          `xml:"snapshot"`
	SnapshotVersions []SnapshotVersion `xml:"snapshotVersions>snapshotVersion"`
	LastUpdated      string            `xml:"lastUpdated"`
}

// Snapshot holds the timestamped build coordinates of the current snapshot.
type Snapshot struct {
	Timestamp   string `xml:"timestamp"`
	BuildNumber int    `xml:"buildNumber"`
}

// SnapshotVersion is one resolved snapshot file entry.
type SnapshotVersion struct {
	Classifier string `xml:"classifier"`
	Extension  string `xml:"extension"`
	Value      string `xml:"value"`
	Updated    string `xml:"updated"`
}

// BestVersion picks the version the artifact-level metadata should be fetched
// for. A version listed in the document wins verbatim; otherwise the newest
// parseable entry of the version list is used, then the latest/release
// fields, then want itself.
func (m *Metadata) BestVersion(want string) string {
	for _, v := range m.Versioning.Versions {
		if v == want {
			return v
		}
	}
	if newest := newestVersion(m.Versioning.Versions); newest != "" {
		return newest
	}
	if m.Versioning.Latest != "" {
		return m.Versioning.Latest
	}
	if m.Versioning.Release != "" {
		return m.Versioning.Release
	}
	return want
}

// newestVersion returns the highest entry of versions under semantic
// ordering, skipping entries go-version cannot parse.
func newestVersion(versions []string) string {
	parsed := make([]*goversion.Version, 0, len(versions))
	for _, raw := range versions {
		if v, err := goversion.NewVersion(raw); err == nil {
			parsed = append(parsed, v)
		}
	}
	if len(parsed) == 0 {
		return ""
	}
	sort.Sort(goversion.Collection(parsed))
	return parsed[len(parsed)-1].Original()
}

// Project is a parsed pom.xml, reduced to the elements the resolver consumes.
type Project struct {
	XMLName      xml.Name             `xml:"project"`
	GroupID      string               `xml:"groupId"`
	ArtifactID   string               `xml:"artifactId"`
	Version      string               `xml:"version"`
	Parent       Parent               `xml:"parent"`
	Repositories []Repository         `xml:"repositories>repository"`
	Dependencies []DeclaredDependency `xml:"dependencies>dependency"`
}

// Parent is the parent-project reference a POM may inherit its group and
// version from.
type Parent struct {
	GroupID    string `xml:"groupId"`
	ArtifactID string `xml:"artifactId"`
	Version    string `xml:"version"`
}

// Repository is a repository declaration inside a POM.
type Repository struct {
	ID  string `xml:"id"`
	URL string `xml:"url"`
}

// DeclaredDependency is one dependency declaration inside a POM. Group and
// Version may literally be ${project.groupId} / ${project.version}; the
// engine substitutes against the declaring artifact.
type DeclaredDependency struct {
	GroupID    string `xml:"groupId"`
	ArtifactID string `xml:"artifactId"`
	Version    string `xml:"version"`
	Classifier string `xml:"classifier"`
	Scope      string `xml:"scope"`
	Optional   string `xml:"optional"`
}

// IsOptional reports whether the declaration is marked optional.
func (d DeclaredDependency) IsOptional() bool {
	return strings.EqualFold(strings.TrimSpace(d.Optional), "true")
}

// EffectiveGroupID returns the POM's group, falling back to the parent
// reference when inherited.
func (p *Project) EffectiveGroupID() string {
	if p.GroupID != "" {
		return p.GroupID
	}
	return p.Parent.GroupID
}

// EffectiveVersion returns the POM's version, falling back to the parent
// reference when inherited.
func (p *Project) EffectiveVersion() string {
	if p.Version != "" {
		return p.Version
	}
	return p.Parent.Version
}

// RelevantScope reports whether a declared scope participates in transitive
// resolution. The empty scope is treated as compile; test, provided, system
// and import are dropped.
func RelevantScope(scope string) bool {
	switch strings.TrimSpace(scope) {
	case "", "compile", "runtime":
		return true
	}
	return false
}

// ParseMetadata decodes a maven-metadata.xml document.
func ParseMetadata(data []byte) (*Metadata, error) {
	var m Metadata
	if err := xml.Unmarshal(data, &m); err != nil {
		return nil, pkgerrors.Wrapf(pkgerrors.ErrParse, "maven-metadata.xml: %v", err)
	}
	return &m, nil
}

// ParseProject decodes a pom.xml document.
func ParseProject(data []byte) (*Project, error) {
	var p Project
	if err := xml.Unmarshal(data, &p); err != nil {
		return nil, pkgerrors.Wrapf(pkgerrors.ErrParse, "pom.xml: %v", err)
	}
	return &p, nil
}
