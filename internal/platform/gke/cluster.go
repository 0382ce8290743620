package gke

import (
	"context"

	"github.com/imamik/gkepool/internal/property"
)

// Cluster is the parent cluster of a node pool, as far as node pool
// management cares about it.
type Cluster struct {
	Name                 string
	Location             string
	Status               string
	CurrentMasterVersion string
	CurrentNodeCount     *int64
	AddonsConfig         *property.AddonsConfig
	NodePools            []string
}

// GetCluster reads the cluster of id. It returns nil if the cluster does not
// exist.
func (c *Client) GetCluster(ctx context.Context, id Identity) (*Cluster, error) {
	link, err := ClusterLink(c.baseURL, id)
	if err != nil {
		return nil, err
	}
	payload, err := c.Fetch(ctx, id, link)
	if err != nil || payload == nil {
		return nil, err
	}

	cluster := &Cluster{
		Name:                 stringField(payload, "name"),
		Location:             stringField(payload, "location"),
		Status:               stringField(payload, "status"),
		CurrentMasterVersion: stringField(payload, "currentMasterVersion"),
		CurrentNodeCount:     property.Int64From(payload["currentNodeCount"]),
		AddonsConfig:         property.AddonsConfigFromAPI(payload["addonsConfig"]),
	}
	if pools, ok := payload["nodePools"].([]any); ok {
		for _, p := range pools {
			if pool, ok := p.(map[string]any); ok {
				cluster.NodePools = append(cluster.NodePools, stringField(pool, "name"))
			}
		}
	}
	return cluster, nil
}
