package report

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/imamik/gkepool/internal/agent"
)

// Report is the record of one apply or destroy pass.
type Report struct {
	ID         string    `json:"id"`
	Pass       string    `json:"pass"`
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`
	Failed     int       `json:"failed"`
	Entries    []Entry   `json:"entries"`
}

// Entry is the outcome for one node pool.
type Entry struct {
	NodePool        string   `json:"nodePool"`
	ReconcileID     string   `json:"reconcileId"`
	Action          string   `json:"action"`
	Changes         []string `json:"changes,omitempty"`
	Status          string   `json:"status,omitempty"`
	Error           string   `json:"error,omitempty"`
	DurationSeconds float64  `json:"durationSeconds"`
}

// New builds a report from the results of a pass.
func New(pass agent.Pass, started, finished time.Time, results []agent.Result) *Report {
	r := &Report{
		ID:         uuid.NewString(),
		Pass:       string(pass),
		StartedAt:  started.UTC(),
		FinishedAt: finished.UTC(),
		Entries:    make([]Entry, 0, len(results)),
	}
	for _, res := range results {
		e := Entry{
			NodePool:        res.NodePool,
			ReconcileID:     res.ReconcileID,
			Action:          string(res.Action),
			DurationSeconds: res.Duration.Seconds(),
		}
		for _, c := range res.Changes {
			e.Changes = append(e.Changes, c.String())
		}
		if res.State != nil {
			e.Status = res.State.Status
		}
		if res.Err != nil {
			e.Error = res.Err.Error()
			r.Failed++
		}
		r.Entries = append(r.Entries, e)
	}
	return r
}

// Key is the object name of the report. Keys sort by start time.
func (r *Report) Key() string {
	return fmt.Sprintf("%s-%s-%s.json", r.StartedAt.Format("20060102T150405Z"), r.Pass, r.ID)
}

// ObjectStore is the storage reports are written to.
type ObjectStore interface {
	PutObject(ctx context.Context, key, contentType string, data []byte) error
	GetObject(ctx context.Context, key string) ([]byte, error)
	ListObjects(ctx context.Context) ([]string, error)
}

// Publisher writes reports to a store.
type Publisher struct {
	store ObjectStore
	now   func() time.Time
}

// NewPublisher creates a Publisher writing to store.
func NewPublisher(store ObjectStore) *Publisher {
	return &Publisher{store: store, now: time.Now}
}

// Publish stores a report of the pass and returns its key.
func (p *Publisher) Publish(ctx context.Context, pass agent.Pass, started time.Time, results []agent.Result) (string, error) {
	r := New(pass, started, p.now(), results)
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode report: %w", err)
	}
	key := r.Key()
	if err := p.store.PutObject(ctx, key, "application/json", data); err != nil {
		return "", err
	}
	return key, nil
}

// Observer adapts Publish to an agent observer. Publishing failures are
// logged; they never fail the pass.
func (p *Publisher) Observer() agent.Observer {
	return func(ctx context.Context, pass agent.Pass, started time.Time, results []agent.Result) {
		logger := log.FromContext(ctx)
		key, err := p.Publish(ctx, pass, started, results)
		if err != nil {
			logger.Error(err, "failed to publish pass report", "pass", pass)
			return
		}
		logger.Info("published pass report", "pass", pass, "key", key)
	}
}

// List returns the keys of stored reports, oldest first.
func (p *Publisher) List(ctx context.Context) ([]string, error) {
	return p.store.ListObjects(ctx)
}

// Get loads a stored report. It returns nil if there is none under key.
func (p *Publisher) Get(ctx context.Context, key string) (*Report, error) {
	data, err := p.store.GetObject(ctx, key)
	if err != nil || data == nil {
		return nil, err
	}
	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to decode report %s: %w", key, err)
	}
	return &r, nil
}
