package download

import (
	"net/url"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jploot/picomaven/pkg/model"
)

func parseURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}

func TestRepositorySetInsertionOrder(t *testing.T) {
	s := NewRepositorySet([]*url.URL{
		parseURL(t, "https://r1.example.org"),
		parseURL(t, "https://r2.example.org"),
	})

	assert.False(t, s.Add(parseURL(t, "https://r1.example.org")), "duplicate insertion is a no-op")
	assert.True(t, s.Add(parseURL(t, "https://r3.example.org")))
	assert.Equal(t, 3, s.Len())

	snapshot := s.Snapshot()
	require.Len(t, snapshot, 3)
	assert.Equal(t, "https://r1.example.org", snapshot[0].String())
	assert.Equal(t, "https://r2.example.org", snapshot[1].String())
	assert.Equal(t, "https://r3.example.org", snapshot[2].String())
}

func TestRepositorySetSnapshotIsStable(t *testing.T) {
	s := NewRepositorySet([]*url.URL{parseURL(t, "https://r1.example.org")})
	snapshot := s.Snapshot()
	s.Add(parseURL(t, "https://r2.example.org"))
	assert.Len(t, snapshot, 1, "later insertions do not grow an existing snapshot")
	assert.Equal(t, 2, s.Len())
}

func TestRepositorySetConcurrentAdd(t *testing.T) {
	s := NewRepositorySet(nil)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			// All goroutines race the same three URLs.
			s.Add(parseURL(t, "https://r1.example.org"))
			s.Add(parseURL(t, "https://r2.example.org"))
			s.Add(parseURL(t, "https://r3.example.org"))
		}()
	}
	wg.Wait()
	assert.Equal(t, 3, s.Len())
}

func TestFutureWait(t *testing.T) {
	f := newFuture()
	res := model.DownloadResult{Success: true}
	go f.complete(res)
	assert.True(t, f.wait().Success)
	// wait is idempotent once completed
	assert.True(t, f.wait().Success)
}

func TestRegistryDrain(t *testing.T) {
	reg := &taskRegistry{}
	first := newFuture()
	reg.add(first)

	// A future appended while draining is still waited for.
	second := newFuture()
	go func() {
		reg.add(second)
		first.complete(model.DownloadResult{})
		second.complete(model.DownloadResult{})
	}()

	reg.drain()
	assert.Len(t, reg.futures, 2)
}
