package nodepool

import (
	"context"
	"fmt"

	"github.com/imamik/gkepool/internal/platform/gke"
	"github.com/imamik/gkepool/internal/property"
)

// envelopeKey wraps node pool bodies of create and update requests.
const envelopeKey = "nodePool"

// Fetch reads the node pool of id. A missing node pool returns nil.
func Fetch(ctx context.Context, client *gke.Client, id gke.Identity) (map[string]any, error) {
	link, err := gke.SelfLink(client.BaseURL(), id)
	if err != nil {
		return nil, err
	}
	return client.Fetch(ctx, id, link)
}

// FetchToState normalizes an API payload. InitialNodeCount is taken from spec
// so that it never shows up as drift.
func FetchToState(payload map[string]any, spec Spec) *State {
	name, _ := payload["name"].(string)
	status, _ := payload["status"].(string)
	selfLink, _ := payload["selfLink"].(string)
	return &State{
		Ensure:            EnsurePresent,
		Name:              name,
		InitialNodeCount:  spec.InitialNodeCount,
		Version:           property.StringFrom(payload["version"]),
		Config:            property.NodeConfigFromAPI(payload["config"]),
		Autoscaling:       property.NodePoolAutoscalingFromAPI(payload["autoscaling"]),
		Management:        property.NodeManagementFromAPI(payload["management"]),
		Status:            status,
		SelfLink:          selfLink,
		InstanceGroupURLs: property.StringsFrom(payload["instanceGroupUrls"]),
	}
}

// ResourceToRequest builds the node pool body from every set field of spec.
// Identity fields other than the name only appear in the URL.
func ResourceToRequest(spec Spec) map[string]any {
	req := map[string]any{"name": spec.Name}
	if spec.Config != nil {
		req["config"] = spec.Config.Serialize()
	}
	if spec.InitialNodeCount != nil {
		req["initialNodeCount"] = *spec.InitialNodeCount
	}
	if spec.Version != nil {
		req["version"] = *spec.Version
	}
	if spec.Autoscaling != nil {
		req["autoscaling"] = spec.Autoscaling.Serialize()
	}
	if spec.Management != nil {
		req["management"] = spec.Management.Serialize()
	}
	return req
}

// EncodeRequest wraps a node pool body in the request envelope.
func EncodeRequest(req map[string]any) map[string]any {
	return map[string]any{envelopeKey: req}
}

// Diff compares the set fields of spec against the observed state and
// returns the changes in field order. Fields unset on either side never
// drift.
func Diff(spec Spec, state *State) []Change {
	if state == nil || state.Ensure != EnsurePresent {
		return nil
	}

	var changes []Change
	if spec.Config != nil && !spec.Config.Equal(state.Config) {
		changes = append(changes, Change{Field: FieldConfig, From: state.Config, To: spec.Config})
	}
	if spec.Version != nil && state.Version != nil && *spec.Version != *state.Version {
		changes = append(changes, Change{Field: FieldVersion, From: state.Version, To: spec.Version})
	}
	if spec.Autoscaling != nil && !spec.Autoscaling.Equal(state.Autoscaling) {
		changes = append(changes, Change{Field: FieldAutoscaling, From: state.Autoscaling, To: spec.Autoscaling})
	}
	if spec.Management != nil && !spec.Management.Equal(state.Management) {
		changes = append(changes, Change{Field: FieldManagement, From: state.Management, To: spec.Management})
	}
	return changes
}

// create posts spec to the collection and waits for the node pool.
func create(ctx context.Context, client *gke.Client, spec Spec) (map[string]any, error) {
	id := spec.Identity()
	link, err := gke.CollectionLink(client.BaseURL(), id)
	if err != nil {
		return nil, err
	}
	resp, err := client.Post(ctx, id, link, EncodeRequest(ResourceToRequest(spec)))
	if err != nil {
		return nil, fmt.Errorf("failed to create node pool %s: %w", id, err)
	}
	return client.WaitForOperation(ctx, id, resp)
}

// update puts spec to the node pool and waits for the result.
func update(ctx context.Context, client *gke.Client, spec Spec) (map[string]any, error) {
	id := spec.Identity()
	link, err := gke.SelfLink(client.BaseURL(), id)
	if err != nil {
		return nil, err
	}
	resp, err := client.Put(ctx, id, link, EncodeRequest(ResourceToRequest(spec)))
	if err != nil {
		return nil, fmt.Errorf("failed to update node pool %s: %w", id, err)
	}
	return client.WaitForOperation(ctx, id, resp)
}

// destroy deletes the node pool and waits until the operation is done.
func destroy(ctx context.Context, client *gke.Client, id gke.Identity) error {
	link, err := gke.SelfLink(client.BaseURL(), id)
	if err != nil {
		return err
	}
	resp, err := client.Delete(ctx, id, link)
	if err != nil {
		return fmt.Errorf("failed to delete node pool %s: %w", id, err)
	}
	_, err = client.WaitForOperation(ctx, id, resp)
	return err
}

// Instances would enumerate existing node pools; the API offers no listing
// the reconciler can use.
func Instances(context.Context, *gke.Client) ([]Spec, error) {
	return nil, ErrUnsupported
}
