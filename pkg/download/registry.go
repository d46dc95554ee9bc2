package download

import (
	"sync"

	"github.com/jploot/picomaven/pkg/model"
)

// future is the single-assignment result slot of one dependency task.
// complete is called exactly once; wait blocks until then.
type future struct {
	done   chan struct{}
	result model.DownloadResult
}

func newFuture() *future {
	return &future{done: make(chan struct{})}
}

func (f *future) complete(res model.DownloadResult) {
	f.result = res
	close(f.done)
}

// wait blocks until the task completes. Joins are uninterruptible; run
// cancellation reaches tasks through the transport context instead.
func (f *future) wait() model.DownloadResult {
	<-f.done
	return f.result
}

// taskRegistry keeps every in-flight future of one resolve run discoverable
// so the final join can drain stragglers before the run returns.
type taskRegistry struct {
	mu      sync.Mutex
	futures []*future
}

func (r *taskRegistry) add(f *future) {
	r.mu.Lock()
	r.futures = append(r.futures, f)
	r.mu.Unlock()
}

// drain waits for every registered future, re-checking for futures appended
// while waiting until the registry is quiescent.
func (r *taskRegistry) drain() {
	for waited := 0; ; {
		r.mu.Lock()
		pending := r.futures[waited:]
		waited = len(r.futures)
		r.mu.Unlock()
		if len(pending) == 0 {
			return
		}
		for _, f := range pending {
			f.wait()
		}
	}
}
