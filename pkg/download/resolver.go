// Package download implements the concurrent resolver/downloader engine:
// repository probing, transitive expansion over a shared repository set,
// checksum verification, and atomic installation into the local tree.
package download

import (
	"context"
	"net/url"
	"runtime"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/jploot/picomaven/pkg/model"
)

// Resolver resolves root dependencies against a list of repositories and
// materializes artifacts under a download root. It is safe for reuse across
// resolve runs; per-run state lives in the run struct.
type Resolver struct {
	fetcher    Fetcher
	processors []model.TransitiveDependencyProcessor
	workers    int
}

// NewResolver creates a resolver. workers bounds concurrent download I/O; a
// non-positive value picks a default based on the machine. Joins never hold a
// worker slot, so any bound down to 1 is deadlock-free.
func NewResolver(fetcher Fetcher, processors []model.TransitiveDependencyProcessor, workers int) *Resolver {
	if workers <= 0 {
		workers = max(2, runtime.NumCPU()/2)
	}
	return &Resolver{
		fetcher:    fetcher,
		processors: processors,
		workers:    workers,
	}
}

// Resolve downloads every root dependency and its transitive closure,
// returning one result per root in input order. Failures never escape as
// errors; each result encodes its own outcome and carries child outcomes.
func (r *Resolver) Resolve(ctx context.Context, roots []model.Dependency, repositories []*url.URL, downloadDir string) []model.DownloadResult {
	rn := &run{
		fetcher:    &limitedFetcher{sem: semaphore.NewWeighted(int64(r.workers)), inner: r.fetcher},
		processors: r.processors,
		dir:        downloadDir,
		repos:      NewRepositorySet(repositories),
		registry:   &taskRegistry{},
		inflight:   make(map[string]*future),
	}

	futures := make([]*future, len(roots))
	for i, root := range roots {
		futures[i] = rn.submit(ctx, root, false)
	}

	results := make([]model.DownloadResult, len(roots))
	for i, f := range futures {
		results[i] = f.wait()
		results[i].Optional = false
	}

	// Every child is joined by its parent before the parent completes; the
	// drain is the backstop that keeps stragglers from outliving the run.
	rn.registry.drain()
	return results
}

// run is the state shared by all tasks of one resolve call.
type run struct {
	fetcher    Fetcher
	processors []model.TransitiveDependencyProcessor
	dir        string
	repos      *RepositorySet
	registry   *taskRegistry

	mu       sync.Mutex
	inflight map[string]*future
}

// submit schedules a dependency task and returns its future. Submissions are
// deduplicated on the coordinate: a diamond in the dependency graph joins the
// existing in-flight task instead of downloading the artifact twice.
func (rn *run) submit(ctx context.Context, dep model.Dependency, optional bool) *future {
	key := dep.Coordinate.String()
	rn.mu.Lock()
	if f, ok := rn.inflight[key]; ok {
		rn.mu.Unlock()
		return f
	}
	f := newFuture()
	rn.inflight[key] = f
	rn.mu.Unlock()

	rn.registry.add(f)
	t := &task{run: rn, dep: dep, optional: optional, self: f}
	go func() {
		f.complete(t.execute(ctx))
	}()
	return f
}

// limitedFetcher bounds concurrent transport calls with a weighted
// semaphore. Tasks block in Get, not in joins, so the bound never causes the
// recursive-submission deadlock a fixed worker pool would risk.
type limitedFetcher struct {
	sem   *semaphore.Weighted
	inner Fetcher
}

func (l *limitedFetcher) Get(ctx context.Context, u *url.URL) ([]byte, error) {
	if err := l.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer l.sem.Release(1)
	return l.inner.Get(ctx, u)
}
