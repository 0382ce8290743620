package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/gkepool/cmd/gkepool/handlers"
)

// Get returns the command that prints one node pool.
func Get(opts *handlers.Options) *cobra.Command {
	var output, kubeconfig string

	cmd := &cobra.Command{
		Use:   "get PROJECT LOCATION CLUSTER NAME",
		Short: "Print a node pool",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			return handlers.Get(cmd.Context(), *opts, args, output, kubeconfig)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", handlers.OutputText, "Output format: text, json or yaml")
	cmd.Flags().StringVar(&kubeconfig, "kubeconfig", "", "Kubeconfig of the cluster; adds node readiness to text output")

	return cmd
}

// Cluster returns the command that prints the parent cluster.
func Cluster(opts *handlers.Options) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "cluster PROJECT LOCATION CLUSTER",
		Short: "Print the cluster node pools belong to",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return handlers.Cluster(cmd.Context(), *opts, args, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", handlers.OutputText, "Output format: text, json or yaml")

	return cmd
}

// List returns the command that would enumerate node pools.
func List(opts *handlers.Options) *cobra.Command {
	return &cobra.Command{
		Use:    "list",
		Short:  "List node pools (not supported)",
		Hidden: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.List(cmd.Context(), *opts)
		},
	}
}
