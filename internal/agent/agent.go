package agent

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"k8s.io/apimachinery/pkg/util/wait"
	"sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/imamik/gkepool/internal/config"
	"github.com/imamik/gkepool/internal/nodepool"
	"github.com/imamik/gkepool/internal/platform/gke"
	"github.com/imamik/gkepool/internal/util/retry"
)

// Action is what a pass did, or would do, to a node pool.
type Action string

const (
	ActionNone   Action = "none"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Result describes the outcome for one node pool.
type Result struct {
	NodePool    string
	ReconcileID string
	Action      Action
	Changes     []nodepool.Change
	State       *nodepool.State
	Duration    time.Duration
	Err         error
}

// Pass names the kind of a finished pass.
type Pass string

const (
	PassApply   Pass = "apply"
	PassDestroy Pass = "destroy"
)

// Observer is told about every finished apply or destroy pass. Plans are not
// observed.
type Observer func(ctx context.Context, pass Pass, started time.Time, results []Result)

type mode struct {
	destroy bool
	dryRun  bool
}

// Agent drives node pool reconciliation, one node pool at a time.
type Agent struct {
	client   *gke.Client
	timeouts *config.Timeouts
	newID    func() string
	observe  Observer
}

// Option configures an Agent.
type Option func(*Agent)

// WithTimeouts sets the retry settings used for whole passes.
func WithTimeouts(t *config.Timeouts) Option {
	return func(a *Agent) {
		a.timeouts = t
	}
}

// WithIDGenerator replaces the reconcile ID source.
func WithIDGenerator(fn func() string) Option {
	return func(a *Agent) {
		a.newID = fn
	}
}

// WithObserver registers fn to run after every apply or destroy pass.
func WithObserver(fn Observer) Option {
	return func(a *Agent) {
		a.observe = fn
	}
}

// New creates an Agent that talks to the API through client.
func New(client *gke.Client, opts ...Option) *Agent {
	a := &Agent{
		client:   client,
		timeouts: config.LoadTimeouts(),
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Apply makes every node pool match its declaration. A failing node pool does
// not stop the others; all errors are returned joined.
func (a *Agent) Apply(ctx context.Context, specs []nodepool.Spec) ([]Result, error) {
	return a.run(ctx, specs, mode{})
}

// Plan reports what Apply would do without changing anything.
func (a *Agent) Plan(ctx context.Context, specs []nodepool.Spec) ([]Result, error) {
	return a.run(ctx, specs, mode{dryRun: true})
}

// Destroy deletes every declared node pool that exists, regardless of its
// declared ensure value.
func (a *Agent) Destroy(ctx context.Context, specs []nodepool.Spec) ([]Result, error) {
	return a.run(ctx, specs, mode{destroy: true})
}

// Watch runs Apply every interval until ctx is done. load is called before
// every pass so manifest edits are picked up.
func (a *Agent) Watch(ctx context.Context, interval time.Duration, load func() ([]nodepool.Spec, error)) {
	logger := log.FromContext(ctx)
	wait.UntilWithContext(ctx, func(ctx context.Context) {
		specs, err := load()
		if err != nil {
			logger.Error(err, "failed to load node pool declarations")
			return
		}
		if _, err := a.Apply(ctx, specs); err != nil {
			logger.Error(err, "reconcile pass finished with errors")
		}
	}, interval)
}

func (a *Agent) run(ctx context.Context, specs []nodepool.Spec, m mode) ([]Result, error) {
	started := time.Now()
	results := make([]Result, 0, len(specs))
	var errs []error
	for _, spec := range specs {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		r := a.reconcile(ctx, spec, m)
		results = append(results, r)
		if r.Err != nil {
			errs = append(errs, fmt.Errorf("node pool %s: %w", r.NodePool, r.Err))
		}
	}

	if a.observe != nil && !m.dryRun && len(results) > 0 {
		pass := PassApply
		if m.destroy {
			pass = PassDestroy
		}
		a.observe(ctx, pass, started, results)
	}
	return results, errors.Join(errs...)
}

func (a *Agent) reconcile(ctx context.Context, spec nodepool.Spec, m mode) Result {
	key := spec.Identity().String()
	id := a.newID()
	logger := log.FromContext(ctx).WithValues("nodePool", key, "reconcileID", id)
	ctx = log.IntoContext(ctx, logger)

	start := time.Now()
	var r Result
	policy := retry.DefaultPolicy
	policy.Retries = a.timeouts.RetryMaxAttempts
	policy.Delay = a.timeouts.RetryInitialDelay
	err := retry.Do(ctx, policy, func(ctx context.Context) error {
		r = a.pass(ctx, spec, m)
		if isPermanent(r.Err) {
			return retry.Permanent(r.Err)
		}
		return r.Err
	}, func(attempt int, err error, delay time.Duration) {
		logger.Info("retrying reconcile", "attempt", attempt, "delay", delay, "error", err.Error())
	})

	r.NodePool = key
	r.ReconcileID = id
	r.Duration = time.Since(start)
	r.Err = err

	if !m.dryRun {
		recordReconcile(r)
	}
	if err != nil {
		logger.Error(err, "reconcile failed", "action", r.Action)
	} else {
		logger.V(1).Info("reconcile finished", "action", r.Action, "changes", len(r.Changes), "duration", r.Duration)
	}
	return r
}

// pass runs one reconciliation from scratch with a fresh provider.
func (a *Agent) pass(ctx context.Context, spec nodepool.Spec, m mode) Result {
	p := nodepool.New(a.client, spec)
	r := Result{Action: ActionNone}

	if err := p.Prefetch(ctx); err != nil {
		r.Err = err
		return r
	}
	r.State = p.State()

	switch {
	case m.destroy || spec.Ensure == nodepool.EnsureAbsent:
		if !p.Exists() {
			return r
		}
		r.Action = ActionDelete
		if !m.dryRun {
			r.Err = p.Destroy(ctx)
		}

	case !p.Exists():
		r.Action = ActionCreate
		if !m.dryRun {
			r.Err = p.Create(ctx)
		}

	default:
		for _, c := range nodepool.Diff(spec, p.State()) {
			p.Dirty(c.Field, c.From, c.To)
		}
		r.Changes = p.Changes()
		if len(r.Changes) == 0 {
			return r
		}
		r.Action = ActionUpdate
		if !m.dryRun {
			r.Err = p.Flush(ctx)
		}
	}

	r.State = p.State()
	return r
}

// isPermanent reports errors that another attempt cannot fix.
func isPermanent(err error) bool {
	return gke.IsConfigError(err) ||
		gke.IsUnrecognizedState(err) ||
		errors.Is(err, nodepool.ErrUnsupported) ||
		errors.Is(err, context.Canceled)
}
