package report

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/gkepool/internal/agent"
	"github.com/imamik/gkepool/internal/nodepool"
	"github.com/imamik/gkepool/internal/util/ptr"
)

type memoryStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	putErr  error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{objects: map[string][]byte{}}
}

func (m *memoryStore) PutObject(_ context.Context, key, _ string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.putErr != nil {
		return m.putErr
	}
	m.objects[key] = data
	return nil
}

func (m *memoryStore) GetObject(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.objects[key], nil
}

func (m *memoryStore) ListObjects(context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.objects))
	for k := range m.objects {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

var started = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func results() []agent.Result {
	return []agent.Result{
		{
			NodePool:    "p/l/c/a",
			ReconcileID: "rec-1",
			Action:      agent.ActionUpdate,
			Changes:     []nodepool.Change{{Field: nodepool.FieldVersion, From: ptr.String("1.29"), To: ptr.String("1.30")}},
			State:       &nodepool.State{Status: "RUNNING"},
			Duration:    1500 * time.Millisecond,
		},
		{
			NodePool:    "p/l/c/b",
			ReconcileID: "rec-2",
			Action:      agent.ActionCreate,
			Err:         errors.New("quota exceeded"),
		},
	}
}

func TestNew(t *testing.T) {
	t.Parallel()

	r := New(agent.PassApply, started, started.Add(2*time.Second), results())
	assert.Equal(t, "apply", r.Pass)
	assert.Equal(t, 1, r.Failed)
	require.Len(t, r.Entries, 2)
	assert.Equal(t, []string{"version: 1.29 -> 1.30"}, r.Entries[0].Changes)
	assert.Equal(t, "RUNNING", r.Entries[0].Status)
	assert.InDelta(t, 1.5, r.Entries[0].DurationSeconds, 1e-9)
	assert.Equal(t, "quota exceeded", r.Entries[1].Error)
	assert.Regexp(t, `^20260301T120000Z-apply-[0-9a-f-]{36}\.json$`, r.Key())
}

func TestPublisher_PublishAndGet(t *testing.T) {
	t.Parallel()

	store := newMemoryStore()
	p := NewPublisher(store)
	p.now = func() time.Time { return started.Add(time.Minute) }

	key, err := p.Publish(context.Background(), agent.PassDestroy, started, results())
	require.NoError(t, err)

	keys, err := p.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{key}, keys)

	got, err := p.Get(context.Background(), key)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "destroy", got.Pass)
	assert.True(t, started.Add(time.Minute).Equal(got.FinishedAt))
	assert.Len(t, got.Entries, 2)

	missing, err := p.Get(context.Background(), "nope.json")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestPublisher_GetCorrupt(t *testing.T) {
	t.Parallel()

	store := newMemoryStore()
	store.objects["bad.json"] = []byte("{")
	_, err := NewPublisher(store).Get(context.Background(), "bad.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode report bad.json")
}

func TestPublisher_ObserverSwallowsErrors(t *testing.T) {
	t.Parallel()

	store := newMemoryStore()
	store.putErr = errors.New("access denied")
	observe := NewPublisher(store).Observer()

	assert.NotPanics(t, func() {
		observe(context.Background(), agent.PassApply, started, results())
	})
	assert.Empty(t, store.objects)

	store.putErr = nil
	observe(context.Background(), agent.PassApply, started, results())
	assert.Len(t, store.objects, 1)
}
