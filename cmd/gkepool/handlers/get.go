package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"sigs.k8s.io/yaml"

	"github.com/imamik/gkepool/internal/nodepool"
	"github.com/imamik/gkepool/internal/platform/kube"
	"github.com/imamik/gkepool/internal/util/ptr"
)

// newNodes reads cluster nodes; replaced in tests.
var newNodes = kube.NewNodesFromKubeconfig

// Output formats of get and cluster.
const (
	OutputText = "text"
	OutputJSON = "json"
	OutputYAML = "yaml"
)

// Get prints one node pool as the API reports it. With a kubeconfig, the text
// output also counts the pool's ready Kubernetes nodes.
func Get(ctx context.Context, opts Options, args []string, output, kubeconfig string) error {
	id, err := identityFromArgs(args)
	if err != nil {
		return err
	}

	client := clientForFlags(opts)
	payload, err := nodepool.Fetch(ctx, client, id)
	if err != nil {
		return err
	}
	if payload == nil {
		return fmt.Errorf("node pool %s not found", id)
	}

	if output == OutputText {
		state := nodepool.FetchToState(payload, nodepool.Spec{})
		fmt.Fprintf(stdout, "name:        %s\n", state.Name)
		fmt.Fprintf(stdout, "status:      %s\n", state.Status)
		fmt.Fprintf(stdout, "version:     %s\n", ptr.Deref(state.Version, "-"))
		fmt.Fprintf(stdout, "config:      %s\n", orDash(state.Config.String()))
		fmt.Fprintf(stdout, "autoscaling: %s\n", orDash(state.Autoscaling.String()))
		fmt.Fprintf(stdout, "management:  %s\n", orDash(state.Management.String()))
		if len(state.InstanceGroupURLs) > 0 {
			fmt.Fprintf(stdout, "instance groups:\n  %s\n", strings.Join(state.InstanceGroupURLs, "\n  "))
		}
		if kubeconfig != "" {
			return printNodes(ctx, kubeconfig, id.Name)
		}
		return nil
	}
	return printStructured(payload, output)
}

func printNodes(ctx context.Context, kubeconfig, pool string) error {
	nodes, err := newNodes(kubeconfig)
	if err != nil {
		return err
	}
	summary, err := nodes.Summarize(ctx, pool)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "nodes:       %d/%d ready\n", summary.Ready, summary.Total)
	if len(summary.NotReady) > 0 {
		fmt.Fprintf(stdout, "not ready:   %s\n", strings.Join(summary.NotReady, ", "))
	}
	return nil
}

func printStructured(v any, output string) error {
	var data []byte
	var err error
	switch output {
	case OutputJSON:
		data, err = json.MarshalIndent(v, "", "  ")
		data = append(data, '\n')
	case OutputYAML:
		data, err = yaml.Marshal(v)
	default:
		return fmt.Errorf("unknown output format %q (want %s, %s or %s)", output, OutputText, OutputJSON, OutputYAML)
	}
	if err != nil {
		return fmt.Errorf("failed to render %s: %w", output, err)
	}
	_, err = stdout.Write(data)
	return err
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
