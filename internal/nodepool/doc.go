// Package nodepool reconciles declared GKE node pools against the API.
//
// The free functions ([Fetch], [FetchToState], [ResourceToRequest], [Diff])
// take their context explicitly. [Provider] wraps them for one node pool and
// keeps the observed state plus the pending changes of a single pass.
package nodepool
