package nodepool

import (
	"cmp"
	"context"
	"slices"

	"sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/imamik/gkepool/internal/platform/gke"
)

// Provider reconciles one declared node pool. It caches the observed state,
// collects pending changes and is not safe for concurrent use.
type Provider struct {
	client *gke.Client
	spec   Spec

	state   *State
	dirty   map[string]Change
	created bool
	deleted bool
}

// New returns a Provider for spec. Nothing is fetched until Prefetch.
func New(client *gke.Client, spec Spec) *Provider {
	return &Provider{
		client: client,
		spec:   spec,
		dirty:  map[string]Change{},
	}
}

// Spec returns the desired state.
func (p *Provider) Spec() Spec {
	return p.spec
}

// State returns the cached observed state, nil before Prefetch.
func (p *Provider) State() *State {
	return p.state
}

// Prefetch reads the node pool and fills the cache.
func (p *Provider) Prefetch(ctx context.Context) error {
	payload, err := Fetch(ctx, p.client, p.spec.Identity())
	if err != nil {
		return err
	}
	if payload == nil {
		p.state = &State{Ensure: EnsureAbsent, Name: p.spec.Name}
		return nil
	}
	p.state = FetchToState(payload, p.spec)
	return nil
}

// Exists reports whether the cached state is present.
func (p *Provider) Exists() bool {
	return p.state != nil && p.state.Ensure == EnsurePresent
}

// Create creates the node pool and caches the result.
func (p *Provider) Create(ctx context.Context) error {
	logger := log.FromContext(ctx).WithValues("nodePool", p.spec.Identity().String())
	p.created = true

	logger.Info("creating node pool")
	payload, err := create(ctx, p.client, p.spec)
	if err != nil {
		return err
	}
	p.cache(payload)
	logger.Info("node pool created", "status", p.state.Status)
	return nil
}

// Destroy deletes the node pool.
func (p *Provider) Destroy(ctx context.Context) error {
	logger := log.FromContext(ctx).WithValues("nodePool", p.spec.Identity().String())
	p.deleted = true

	logger.Info("deleting node pool")
	if err := destroy(ctx, p.client, p.spec.Identity()); err != nil {
		return err
	}
	p.state = &State{Ensure: EnsureAbsent, Name: p.spec.Name}
	logger.Info("node pool deleted")
	return nil
}

// Dirty records a pending change of field, replacing an earlier one.
func (p *Provider) Dirty(field string, from, to any) {
	p.dirty[field] = Change{Field: field, From: from, To: to}
}

// Changes returns the pending changes in field order.
func (p *Provider) Changes() []Change {
	changes := make([]Change, 0, len(p.dirty))
	for _, c := range p.dirty {
		changes = append(changes, c)
	}
	slices.SortFunc(changes, func(a, b Change) int {
		return cmp.Or(
			cmp.Compare(fieldRank(a.Field), fieldRank(b.Field)),
			cmp.Compare(a.Field, b.Field),
		)
	})
	return changes
}

// Flush sends pending changes. It does nothing after Create or Destroy in
// the same pass, or when nothing is dirty.
func (p *Provider) Flush(ctx context.Context) error {
	if p.created || p.deleted || len(p.dirty) == 0 {
		return nil
	}
	logger := log.FromContext(ctx).WithValues("nodePool", p.spec.Identity().String())

	for _, c := range p.Changes() {
		logger.Info("updating node pool", "change", c.String())
	}
	payload, err := update(ctx, p.client, p.spec)
	if err != nil {
		return err
	}
	p.cache(payload)
	clear(p.dirty)
	return nil
}

// Instances is not supported for node pools.
func (p *Provider) Instances(ctx context.Context) ([]Spec, error) {
	return Instances(ctx, p.client)
}

func (p *Provider) cache(payload map[string]any) {
	if payload == nil {
		p.state = &State{Ensure: EnsurePresent, Name: p.spec.Name, InitialNodeCount: p.spec.InitialNodeCount}
		return
	}
	p.state = FetchToState(payload, p.spec)
}

func fieldRank(field string) int {
	if i := slices.Index(fieldOrder, field); i >= 0 {
		return i
	}
	return len(fieldOrder)
}
