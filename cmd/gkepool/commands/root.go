// Package commands defines the CLI command structure and flag bindings.
//
// Command execution is delegated to handler functions in the handlers
// package.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/gkepool/cmd/gkepool/handlers"
)

// Root returns the root command for the gkepool CLI.
func Root() *cobra.Command {
	var opts handlers.Options

	cmd := &cobra.Command{
		Use:   "gkepool",
		Short: "Declaratively manage GKE node pools",
		Long: `Reconcile GKE node pools against a declarative manifest.

Node pools are read from gkepool.yaml unless a manifest is given with -f.
Credentials default to Application Default Credentials; the
GKEPOOL_ACCESS_TOKEN environment variable supplies a bearer token instead.`,
		SilenceUsage: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			handlers.SetupLogging(opts.Verbose)
		},
	}

	flags := cmd.PersistentFlags()
	flags.BoolVarP(&opts.Verbose, "verbose", "v", false, "Log every API call and operation poll")
	flags.StringVar(&opts.Endpoint, "endpoint", "", "GKE API base URL (default: https://container.googleapis.com/v1/)")
	flags.StringVar(&opts.CredentialsFile, "credentials-file", "", "Service account key file")
	flags.BoolVar(&opts.Anonymous, "anonymous", false, "Send requests without credentials")

	cmd.AddCommand(Init())
	cmd.AddCommand(Apply(&opts))
	cmd.AddCommand(Plan(&opts))
	cmd.AddCommand(Destroy(&opts))
	cmd.AddCommand(Get(&opts))
	cmd.AddCommand(Cluster(&opts))
	cmd.AddCommand(List(&opts))
	cmd.AddCommand(Reports(&opts))
	cmd.AddCommand(Version())
	cmd.AddCommand(Completion())

	return cmd
}
