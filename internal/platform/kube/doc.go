// Package kube reads the Kubernetes nodes that belong to a GKE node pool.
package kube
