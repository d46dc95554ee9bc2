// Package layout maps artifact coordinates to remote URLs under a repository
// base and to local filesystem paths under the download root, following the
// standard Maven 2 repository layout. All functions are pure; they fail only
// when a coordinate is missing mandatory fields.
package layout

import (
	"net/url"
	"path/filepath"
	"strconv"
	"strings"

	pkgerrors "github.com/jploot/picomaven/pkg/errors"
	"github.com/jploot/picomaven/pkg/metadata"
	"github.com/jploot/picomaven/pkg/model"
)

// MetadataFile is the metadata document name used at both group and artifact
// level.
const MetadataFile = "maven-metadata.xml"

// groupPath converts a dotted group id into its slashed directory form.
func groupPath(group string) string {
	return strings.ReplaceAll(group, ".", "/")
}

// fileName renders {artifact}-{version}[-{classifier}].{ext} with version
// already resolved to its remote form.
func fileName(c model.Coordinate, version, ext string) string {
	name := c.Artifact + "-" + version
	if c.Classifier != "" {
		name += "-" + c.Classifier
	}
	return name + "." + ext
}

// join appends path elements to a copy of the repository base URL.
func join(repo *url.URL, elems ...string) (*url.URL, error) {
	u := *repo
	joined, err := url.JoinPath(u.Path, elems...)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to build repository URL")
	}
	u.Path = joined
	u.RawQuery = ""
	u.Fragment = ""
	return &u, nil
}

// DirectURL builds the artifact URL that holds when the version string is
// also the remote file version (every non-snapshot artifact):
// {repo}/{group}/{artifact}/{version}/{artifact}-{version}[-{classifier}].{ext}
func DirectURL(repo *url.URL, c model.Coordinate, ext string) (*url.URL, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return join(repo, groupPath(c.Group), c.Artifact, c.Version, fileName(c, c.Version, ext))
}

// GroupMetaURL builds the group-level metadata URL:
// {repo}/{group}/{artifact}/maven-metadata.xml
func GroupMetaURL(repo *url.URL, c model.Coordinate) (*url.URL, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return join(repo, groupPath(c.Group), c.Artifact, MetadataFile)
}

// ArtifactMetaURL builds the per-version metadata URL, resolving the version
// directory through the group metadata:
// {repo}/{group}/{artifact}/{resolved}/maven-metadata.xml
func ArtifactMetaURL(repo *url.URL, groupMeta *metadata.Metadata, c model.Coordinate) (*url.URL, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	version := c.Version
	if groupMeta != nil {
		version = groupMeta.BestVersion(c.Version)
	}
	return join(repo, groupPath(c.Group), c.Artifact, version, MetadataFile)
}

// ArtifactURL builds the final artifact URL. For snapshots the timestamped
// file version is substituted from the artifact metadata; otherwise the
// result equals DirectURL. The directory component always uses the
// coordinate's own version.
func ArtifactURL(repo *url.URL, artifactMeta *metadata.Metadata, c model.Coordinate, ext string) (*url.URL, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	version := remoteVersion(artifactMeta, c, ext)
	return join(repo, groupPath(c.Group), c.Artifact, c.Version, fileName(c, version, ext))
}

// remoteVersion resolves the version used in the remote file name. Snapshot
// metadata entries matching the extension and classifier win; the snapshot
// timestamp/build pair is the fallback.
func remoteVersion(artifactMeta *metadata.Metadata, c model.Coordinate, ext string) string {
	if !c.IsSnapshot() || artifactMeta == nil {
		return c.Version
	}
	for _, sv := range artifactMeta.Versioning.SnapshotVersions {
		if sv.Extension == ext && sv.Classifier == c.Classifier && sv.Value != "" {
			return sv.Value
		}
	}
	snap := artifactMeta.Versioning.Snapshot
	if snap.Timestamp != "" {
		stamped := snap.Timestamp
		if snap.BuildNumber > 0 {
			stamped += "-" + strconv.Itoa(snap.BuildNumber)
		}
		return strings.Replace(c.Version, "SNAPSHOT", stamped, 1)
	}
	return c.Version
}

// LocalPath maps a coordinate to its path under the download root:
// {root}/{group}/{artifact}/{version}/{artifact}-{version}[-{classifier}].{ext}
// Snapshot paths keep the -SNAPSHOT version.
func LocalPath(root string, c model.Coordinate, ext string) (string, error) {
	if err := c.Validate(); err != nil {
		return "", err
	}
	elems := append([]string{root}, strings.Split(groupPath(c.Group), "/")...)
	elems = append(elems, c.Artifact, c.Version, fileName(c, c.Version, ext))
	return filepath.Join(elems...), nil
}
