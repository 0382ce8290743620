package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/imamik/gkepool/internal/platform/gke"
	"github.com/imamik/gkepool/internal/util/ptr"
)

// Cluster describes the cluster node pools are attached to.
func Cluster(ctx context.Context, opts Options, args []string, output string) error {
	if len(args) != 3 {
		return fmt.Errorf("expected PROJECT LOCATION CLUSTER, got %d arguments", len(args))
	}
	id := gke.Identity{Project: args[0], Location: args[1], Cluster: args[2]}

	cluster, err := clientForFlags(opts).GetCluster(ctx, id)
	if err != nil {
		return err
	}
	if cluster == nil {
		return fmt.Errorf("cluster %s/%s/%s not found", id.Project, id.Location, id.Cluster)
	}

	if output != OutputText {
		return printStructured(map[string]any{
			"name":                 cluster.Name,
			"location":             cluster.Location,
			"status":               cluster.Status,
			"currentMasterVersion": cluster.CurrentMasterVersion,
			"currentNodeCount":     ptr.Deref(cluster.CurrentNodeCount, 0),
			"addonsConfig":         cluster.AddonsConfig.Serialize(),
			"nodePools":            cluster.NodePools,
		}, output)
	}

	fmt.Fprintf(stdout, "name:       %s\n", cluster.Name)
	fmt.Fprintf(stdout, "location:   %s\n", cluster.Location)
	fmt.Fprintf(stdout, "status:     %s\n", cluster.Status)
	fmt.Fprintf(stdout, "version:    %s\n", cluster.CurrentMasterVersion)
	fmt.Fprintf(stdout, "nodes:      %d\n", ptr.Deref(cluster.CurrentNodeCount, 0))
	fmt.Fprintf(stdout, "addons:     %s\n", orDash(cluster.AddonsConfig.String()))
	fmt.Fprintf(stdout, "node pools: %s\n", orDash(strings.Join(cluster.NodePools, ", ")))
	return nil
}
