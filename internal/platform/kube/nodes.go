package kube

import (
	"context"
	"fmt"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/labels"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/tools/clientcmd"
)

// NodePoolLabel is set by GKE on every node to the name of its node pool.
const NodePoolLabel = "cloud.google.com/gke-nodepool"

// NodeSummary counts the nodes of a node pool.
type NodeSummary struct {
	Total int
	Ready int
	// NotReady names the nodes whose Ready condition is not true.
	NotReady []string
}

// Nodes looks up node pool members in a cluster.
type Nodes struct {
	clientset kubernetes.Interface
}

// NewNodes creates a Nodes reader from a clientset.
func NewNodes(clientset kubernetes.Interface) *Nodes {
	return &Nodes{clientset: clientset}
}

// NewNodesFromKubeconfig creates a Nodes reader from a kubeconfig file.
func NewNodesFromKubeconfig(path string) (*Nodes, error) {
	restConfig, err := clientcmd.BuildConfigFromFlags("", path)
	if err != nil {
		return nil, fmt.Errorf("failed to load kubeconfig %s: %w", path, err)
	}
	clientset, err := kubernetes.NewForConfig(restConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create kubernetes clientset: %w", err)
	}
	return NewNodes(clientset), nil
}

// Summarize counts the nodes labeled with pool.
func (n *Nodes) Summarize(ctx context.Context, pool string) (*NodeSummary, error) {
	selector := labels.SelectorFromSet(labels.Set{NodePoolLabel: pool}).String()
	nodes, err := n.clientset.CoreV1().Nodes().List(ctx, metav1.ListOptions{LabelSelector: selector})
	if err != nil {
		return nil, fmt.Errorf("failed to list nodes of pool %s: %w", pool, err)
	}

	s := &NodeSummary{Total: len(nodes.Items)}
	for i := range nodes.Items {
		if isReady(&nodes.Items[i]) {
			s.Ready++
		} else {
			s.NotReady = append(s.NotReady, nodes.Items[i].Name)
		}
	}
	return s, nil
}

func isReady(node *corev1.Node) bool {
	for _, c := range node.Status.Conditions {
		if c.Type == corev1.NodeReady {
			return c.Status == corev1.ConditionTrue
		}
	}
	return false
}
