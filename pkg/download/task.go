package download

import (
	"context"
	"errors"
	"net/url"
	"os"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/jploot/picomaven/internal/logger"
	"github.com/jploot/picomaven/pkg/checksum"
	pkgerrors "github.com/jploot/picomaven/pkg/errors"
	"github.com/jploot/picomaven/pkg/fsutil"
	"github.com/jploot/picomaven/pkg/layout"
	"github.com/jploot/picomaven/pkg/metadata"
	"github.com/jploot/picomaven/pkg/model"
)

// Artifact file extensions in the repository layout.
const (
	extJar = "jar"
	extPom = "pom"
)

// task resolves one dependency: it locates the artifact across the shared
// repository set, downloads and verifies it, installs it atomically, and
// expands transitive children. All failures are encoded in the returned
// result.
type task struct {
	run      *run
	dep      model.Dependency
	optional bool
	// self is the task's own future, used to detect direct dependency cycles
	// surfaced by submission dedup.
	self *future
}

// execute runs the task to completion. It never panics across the task
// boundary and returns exactly one terminal result.
func (t *task) execute(ctx context.Context) (res model.DownloadResult) {
	defer func() {
		if r := recover(); r != nil {
			res = model.NewFailureResult(t.dep, "", t.optional,
				pkgerrors.Wrapf(pkgerrors.ErrDownloadFailed, "panic while resolving %s: %v", t.dep, r))
		}
	}()

	logger.Debugf("resolving %s", t.dep)

	artPath, err := layout.LocalPath(t.run.dir, t.dep.Coordinate, extJar)
	if err != nil {
		return model.NewFailureResult(t.dep, "", t.optional, err)
	}
	pomPath, err := layout.LocalPath(t.run.dir, t.dep.Coordinate, extPom)
	if err != nil {
		return model.NewFailureResult(t.dep, artPath, t.optional, err)
	}

	// Cache short-circuit: an installed artifact is never re-fetched. A
	// cached descriptor still expands children so repeated runs see the full
	// transitive picture.
	if fsutil.Exists(artPath) {
		logger.Debugf("%s is already downloaded", t.dep)
		var transitive []model.DownloadResult
		if t.dep.Transitive && fsutil.Exists(pomPath) {
			transitive = t.expandLocal(ctx, pomPath)
		}
		return model.NewSuccessResult(t.dep, artPath, t.optional, transitive)
	}

	for _, repo := range t.run.repos.Snapshot() {
		logger.Debugf("trying repository %s for %s", repo, t.dep)

		// Direct probe: skip the metadata round-trips when the version
		// string is also the remote file version.
		if !t.dep.Coordinate.IsSnapshot() {
			res, err := t.tryDirect(ctx, repo, artPath, pomPath)
			switch {
			case err == nil:
				return res
			case pkgerrors.IsConnectivity(err):
				logger.Warnf("connection to %s failed: %v", repo, err)
				continue
			case errors.Is(err, pkgerrors.ErrChecksumMismatch) || errors.Is(err, pkgerrors.ErrWrite):
				// Integrity and local write failures terminate the task.
				return res
			}
			logger.Debugf("direct artifact URL for %s did not work on %s, trying metadata", t.dep, repo)
		}

		res, next := t.tryMetadata(ctx, repo, artPath, pomPath)
		if next {
			continue
		}
		return res
	}

	return model.NewFailureResult(t.dep, artPath, t.optional,
		pkgerrors.Wrapf(pkgerrors.ErrExhausted, "%s", t.dep))
}

// tryDirect attempts the download through directly constructed URLs. A
// non-nil error means the repository did not produce the artifact this way;
// the caller decides between moving on and falling back to metadata.
func (t *task) tryDirect(ctx context.Context, repo *url.URL, artPath, pomPath string) (model.DownloadResult, error) {
	pomURL, err := layout.DirectURL(repo, t.dep.Coordinate, extPom)
	if err != nil {
		return model.DownloadResult{}, err
	}
	jarURL, err := layout.DirectURL(repo, t.dep.Coordinate, extJar)
	if err != nil {
		return model.DownloadResult{}, err
	}
	return t.download(ctx, artPath, pomPath, pomURL, jarURL)
}

// tryMetadata resolves the artifact through group and artifact metadata.
// next=true means this repository cannot serve the artifact and the loop
// should move on; otherwise the returned result is terminal for the task —
// once a repository yields a coherent artifact URL, no further repository is
// consulted.
func (t *task) tryMetadata(ctx context.Context, repo *url.URL, artPath, pomPath string) (model.DownloadResult, bool) {
	gmURL, err := layout.GroupMetaURL(repo, t.dep.Coordinate)
	if err != nil {
		return model.NewFailureResult(t.dep, artPath, t.optional, err), false
	}
	groupMeta, err := metadata.GetMetadata(ctx, t.run.fetcher, gmURL)
	if err != nil {
		t.logRepositorySkip(repo, err)
		return model.DownloadResult{}, true
	}
	if groupMeta == nil {
		logger.Debugf("%s not found in repository %s", t.dep, repo)
		return model.DownloadResult{}, true
	}

	amURL, err := layout.ArtifactMetaURL(repo, groupMeta, t.dep.Coordinate)
	if err != nil {
		return model.NewFailureResult(t.dep, artPath, t.optional, err), false
	}
	artifactMeta, err := metadata.GetMetadata(ctx, t.run.fetcher, amURL)
	if err != nil {
		t.logRepositorySkip(repo, err)
		return model.DownloadResult{}, true
	}
	if artifactMeta == nil {
		logger.Debugf("%s artifact metadata not found in repository %s", t.dep, repo)
		return model.DownloadResult{}, true
	}

	pomURL, err := layout.ArtifactURL(repo, artifactMeta, t.dep.Coordinate, extPom)
	if err != nil {
		return model.NewFailureResult(t.dep, artPath, t.optional, err), false
	}
	jarURL, err := layout.ArtifactURL(repo, artifactMeta, t.dep.Coordinate, extJar)
	if err != nil {
		return model.NewFailureResult(t.dep, artPath, t.optional, err), false
	}

	res, _ := t.download(ctx, artPath, pomPath, pomURL, jarURL)
	return res, false
}

func (t *task) logRepositorySkip(repo *url.URL, err error) {
	if pkgerrors.IsConnectivity(err) {
		logger.Warnf("connection to %s failed: %v", repo, err)
		return
	}
	if pkgerrors.IsParse(err) {
		logger.Warnf("skipping repository %s for %s: %v", repo, t.dep, err)
		return
	}
	logger.Debugf("skipping repository %s for %s: %v", repo, t.dep, err)
}

// download fetches the descriptor (for transitive dependencies), expands
// children, then streams, verifies and installs the artifact. The error
// return mirrors the result's failure cause so the direct-probe caller can
// classify it.
func (t *task) download(ctx context.Context, artPath, pomPath string, pomURL, jarURL *url.URL) (model.DownloadResult, error) {
	var transitive []model.DownloadResult

	if t.dep.Transitive {
		prj, raw, err := metadata.GetProject(ctx, t.run.fetcher, pomURL)
		switch {
		case err == nil && prj != nil:
			if werr := fsutil.WriteReplace(pomPath, raw); werr != nil {
				logger.Warnf("failed to persist descriptor for %s: %v", t.dep, werr)
			}
			transitive = t.expand(ctx, prj)
		case err == nil:
			// Descriptor absent: the artifact downloads without children.
			logger.Debugf("%s descriptor not found at %s", t.dep, pomURL)
		case pkgerrors.IsConnectivity(err):
			return model.NewFailureResult(t.dep, artPath, t.optional, err), err
		default:
			logger.Warnf("failed to fetch descriptor for %s: %v", t.dep, err)
		}
	}

	logger.Debugf("downloading %s from %s", t.dep, jarURL)
	data, err := t.run.fetcher.Get(ctx, jarURL)
	if err != nil {
		return model.NewFailureResult(t.dep, artPath, t.optional, err), err
	}

	if err := t.verifyChecksums(ctx, jarURL, data); err != nil {
		return model.NewFailureResult(t.dep, artPath, t.optional, err), err
	}

	if err := fsutil.WriteReplace(artPath, data); err != nil {
		return model.NewFailureResult(t.dep, artPath, t.optional, err), err
	}

	logger.Debugf("%s download succeeded", t.dep)
	return model.NewSuccessResult(t.dep, artPath, t.optional, transitive), nil
}

// verifyChecksums runs the verification pipeline over the downloaded bytes.
// Declared checksums must all match. Without declarations, remote sidecars
// are fetched concurrently: any mismatching digest fails the task, any
// matching digest verifies it, and a repository publishing no sidecars at all
// yields an accepted, unverified artifact.
func (t *task) verifyChecksums(ctx context.Context, jarURL *url.URL, data []byte) error {
	if len(t.dep.Checksums) > 0 {
		g, _ := errgroup.WithContext(ctx)
		for _, cs := range t.dep.Checksums {
			cs := cs
			g.Go(func() error {
				if !checksum.Verify(cs.Algo, cs.Value, data) {
					return pkgerrors.Wrapf(pkgerrors.ErrChecksumMismatch, "%s digest of %s", cs.Algo, t.dep)
				}
				return nil
			})
		}
		return g.Wait()
	}

	digests := make([]string, len(checksum.RemoteAlgos))
	g, gctx := errgroup.WithContext(ctx)
	for i, algo := range checksum.RemoteAlgos {
		i, algo := i, algo
		g.Go(func() error {
			d, err := checksum.FetchRemote(gctx, t.run.fetcher, jarURL, algo)
			if err != nil {
				logger.Debugf("could not fetch %s sidecar for %s: %v", algo, t.dep, err)
				return nil
			}
			digests[i] = d
			return nil
		})
	}
	_ = g.Wait()

	verified := false
	for i, algo := range checksum.RemoteAlgos {
		if digests[i] == "" {
			continue
		}
		if !checksum.Verify(algo, digests[i], data) {
			return pkgerrors.Wrapf(pkgerrors.ErrChecksumMismatch, "%s digest of %s", algo, t.dep)
		}
		verified = true
	}
	if !verified {
		logger.Debugf("no remote checksums available for %s, accepting unverified", t.dep)
	}
	return nil
}

// expandLocal expands children from an already-installed descriptor. Parse
// failures leave the cached artifact usable without children.
func (t *task) expandLocal(ctx context.Context, pomPath string) []model.DownloadResult {
	data, err := os.ReadFile(pomPath)
	if err != nil {
		logger.Warnf("failed to read cached descriptor %s: %v", pomPath, err)
		return nil
	}
	prj, err := metadata.ParseProject(data)
	if err != nil {
		logger.Warnf("cached descriptor for %s is malformed: %v", t.dep, err)
		return nil
	}
	return t.expand(ctx, prj)
}

// expand grows the repository set with the descriptor's declarations, runs
// each declared dependency through the processor chain, schedules the
// surviving children, and joins them. The aggregated list is in submission
// order; failed optional children are dropped.
func (t *task) expand(ctx context.Context, prj *metadata.Project) []model.DownloadResult {
	for _, decl := range prj.Repositories {
		u, err := url.Parse(strings.TrimSpace(decl.URL))
		if err != nil || u.Scheme == "" || u.Host == "" {
			logger.Warnf("repository URL %q declared by %s is invalid", decl.URL, t.dep)
			continue
		}
		if t.run.repos.Add(u) {
			logger.Debugf("adding repository %s", u)
		}
	}

	type child struct {
		fut      *future
		optional bool
	}
	var children []child
	for _, decl := range prj.Dependencies {
		view := &model.DownloadableTransitiveDependency{
			Parent:     t.dep.Coordinate,
			Group:      decl.GroupID,
			Artifact:   decl.ArtifactID,
			Version:    decl.Version,
			Classifier: decl.Classifier,
			Scope:      decl.Scope,
			Optional:   decl.IsOptional(),
			Allowed:    true,
		}
		for _, proc := range t.run.processors {
			proc(view)
		}
		if !view.Allowed {
			continue
		}
		if !metadata.RelevantScope(view.Scope) {
			continue
		}

		childDep := model.Dependency{
			Coordinate: model.Coordinate{
				Group:      substituteProjectTokens(t.dep.Coordinate, view.Group),
				Artifact:   view.Artifact,
				Version:    substituteProjectTokens(t.dep.Coordinate, view.Version),
				Classifier: view.Classifier,
			},
			Transitive: true,
		}
		if err := childDep.Coordinate.Validate(); err != nil {
			logger.Warnf("transitive dependency of %s is invalid: %v", t.dep, err)
			continue
		}

		logger.Debugf("%s requires transitive dependency %s", t.dep, childDep)
		f := t.run.submit(ctx, childDep, view.Optional)
		if f == t.self {
			logger.Warnf("%s depends on itself, skipping", t.dep)
			continue
		}
		children = append(children, child{fut: f, optional: view.Optional})
	}

	var results []model.DownloadResult
	for _, c := range children {
		res := c.fut.wait()
		res.Optional = c.optional
		if !res.Success {
			if c.optional {
				continue
			}
			logger.Debugf("failed to download %s: %v", res.Dependency, res.Err)
		}
		results = append(results, res)
	}
	return results
}

// substituteProjectTokens resolves the two property references POMs use for
// self-referential dependencies. Only ${project.groupId} and
// ${project.version} are handled, against the immediate parent.
func substituteProjectTokens(parent model.Coordinate, identifier string) string {
	if strings.EqualFold(identifier, "${project.groupId}") {
		return parent.Group
	}
	if strings.EqualFold(identifier, "${project.version}") {
		return parent.Version
	}
	return identifier
}
