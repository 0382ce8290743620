package commands

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/imamik/gkepool/cmd/gkepool/handlers"
)

// Apply returns the command that reconciles node pools with the manifest.
//
// Optional flags:
//
//	--file, -f: Path to the manifest (default: gkepool.yaml)
//	--watch: Reconcile again at this interval until interrupted
//	--metrics-bind-address: Serve Prometheus metrics while watching
func Apply(opts *handlers.Options) *cobra.Command {
	var (
		manifestPath string
		watch        time.Duration
		metricsAddr  string
	)

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Create, update or delete node pools to match the manifest",
		Long: `Reconcile every node pool declared in the manifest.

Missing node pools are created, drifted ones are updated in place and pools
marked "ensure: absent" are deleted. Each pool is handled independently; a
failure on one does not stop the others.

Examples:
  # Apply gkepool.yaml in the current directory
  gkepool apply

  # Keep reconciling every five minutes and expose metrics
  gkepool apply --watch 5m --metrics-bind-address :8080`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Apply(cmd.Context(), *opts, manifestPath, watch, metricsAddr)
		},
	}

	cmd.Flags().StringVarP(&manifestPath, "file", "f", "", "Path to manifest (default: gkepool.yaml)")
	cmd.Flags().DurationVar(&watch, "watch", 0, "Reconcile repeatedly at this interval")
	cmd.Flags().StringVar(&metricsAddr, "metrics-bind-address", "", "Address to serve /metrics on while watching")

	return cmd
}
