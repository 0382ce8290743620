// Package gke is a small client for the GKE v1 node pool REST API.
//
// [Client] issues JSON requests against links built from {{var}} templates
// and an [Identity]. [ReturnIfObject] turns raw responses into objects or
// typed errors, and [Client.WaitForOperation] follows a long-running
// operation to DONE before fetching the resource it targets.
package gke
