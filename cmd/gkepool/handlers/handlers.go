// Package handlers implements the business logic for CLI commands.
//
// This package contains handler functions that are called by command definitions
// in the commands package. Handlers are framework-agnostic and can be tested
// independently of the CLI framework.
package handlers

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	ctrllog "sigs.k8s.io/controller-runtime/pkg/log"
	"sigs.k8s.io/controller-runtime/pkg/log/zap"

	"github.com/imamik/gkepool/internal/agent"
	"github.com/imamik/gkepool/internal/config"
	"github.com/imamik/gkepool/internal/nodepool"
	"github.com/imamik/gkepool/internal/platform/gke"
	"github.com/imamik/gkepool/internal/platform/s3"
	"github.com/imamik/gkepool/internal/report"
)

// Options carries the global CLI flags.
type Options struct {
	Endpoint        string
	CredentialsFile string
	Anonymous       bool
	Verbose         bool
}

// UserAgent is sent with every API request.
var UserAgent = "gkepool/dev"

// Factory function variables - can be replaced in tests for dependency injection.
var (
	// loadManifest reads and validates a manifest file.
	loadManifest = config.LoadManifest

	// loadTimeouts reads timeouts from the environment.
	loadTimeouts = config.LoadTimeouts

	// newClient creates a GKE API client.
	newClient = func(endpoint string, creds gke.CredentialSupplier, timeouts *config.Timeouts) *gke.Client {
		opts := []gke.ClientOption{
			gke.WithCredentials(creds),
			gke.WithTimeouts(timeouts),
			gke.WithUserAgent(UserAgent),
		}
		if endpoint != "" {
			opts = append(opts, gke.WithBaseURL(endpoint))
		}
		return gke.NewClient(opts...)
	}

	// newAgent creates the reconciliation driver.
	newAgent = func(client *gke.Client, timeouts *config.Timeouts, opts ...agent.Option) *agent.Agent {
		return agent.New(client, append([]agent.Option{agent.WithTimeouts(timeouts)}, opts...)...)
	}

	// newReportStore opens the bucket pass reports go to.
	newReportStore = func(ctx context.Context, cfg config.Reports) (report.ObjectStore, error) {
		return s3.NewClient(ctx, cfg)
	}

	// stdout receives command output.
	stdout io.Writer = os.Stdout

	// isTerminal reports whether output goes to a terminal.
	isTerminal = func() bool {
		return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	}
)

// SetupLogging installs the process-wide logger. Verbose enables development
// mode, which includes per-poll messages.
func SetupLogging(verbose bool) {
	opts := zap.Options{
		Development: verbose || os.Getenv("DEBUG") == "true",
		DestWriter:  os.Stderr,
	}
	ctrllog.SetLogger(zap.New(zap.UseFlagOptions(&opts)))
}

// credentialsFromFlags picks credentials when no manifest is involved.
func credentialsFromFlags(opts Options) gke.CredentialSupplier {
	switch {
	case opts.Anonymous:
		return gke.Anonymous()
	case opts.CredentialsFile != "":
		return gke.ServiceAccountKey(opts.CredentialsFile)
	case os.Getenv(config.AccessTokenEnvVar) != "":
		return gke.StaticToken(os.Getenv(config.AccessTokenEnvVar))
	default:
		return gke.DefaultCredentials()
	}
}

// credentialsFromManifest honors the manifest unless a flag overrides it.
func credentialsFromManifest(opts Options, c config.Credentials) gke.CredentialSupplier {
	if opts.Anonymous || opts.CredentialsFile != "" {
		return credentialsFromFlags(opts)
	}
	switch c.Type {
	case config.CredentialsAnonymous:
		return gke.Anonymous()
	case config.CredentialsServiceAccount:
		return gke.ServiceAccountKey(c.Path, c.Scopes...)
	case config.CredentialsAccessToken:
		return gke.StaticToken(c.Token)
	default:
		return gke.DefaultCredentials(c.Scopes...)
	}
}

// clientForFlags builds a client for commands that take an identity.
func clientForFlags(opts Options) *gke.Client {
	return newClient(opts.Endpoint, credentialsFromFlags(opts), loadTimeouts())
}

// manifestRun is a loaded manifest with a client ready to act on it.
type manifestRun struct {
	path     string
	manifest *config.Manifest
	client   *gke.Client
	timeouts *config.Timeouts
	reports  *report.Publisher
}

// agentOptions publishes pass reports when the manifest asks for them.
func (r *manifestRun) agentOptions() []agent.Option {
	if r.reports == nil {
		return nil
	}
	return []agent.Option{agent.WithObserver(r.reports.Observer())}
}

func loadRun(ctx context.Context, opts Options, path string) (*manifestRun, error) {
	if path == "" {
		path = config.DefaultManifestFilename
	}
	m, err := loadManifest(path)
	if err != nil {
		return nil, err
	}

	endpoint := m.Endpoint
	if opts.Endpoint != "" {
		endpoint = opts.Endpoint
	}
	timeouts := loadTimeouts()
	run := &manifestRun{
		path:     path,
		manifest: m,
		client:   newClient(endpoint, credentialsFromManifest(opts, m.Credentials), timeouts),
		timeouts: timeouts,
	}
	if m.Reports != nil {
		store, err := newReportStore(ctx, *m.Reports)
		if err != nil {
			return nil, err
		}
		run.reports = report.NewPublisher(store)
	}
	return run, nil
}

func specsFrom(m *config.Manifest) []nodepool.Spec {
	specs := make([]nodepool.Spec, 0, len(m.NodePools))
	for _, np := range m.NodePools {
		specs = append(specs, nodepool.SpecFromManifest(np))
	}
	return specs
}

func identityFromArgs(args []string) (gke.Identity, error) {
	if len(args) != 4 {
		return gke.Identity{}, fmt.Errorf("expected PROJECT LOCATION CLUSTER NAME, got %d arguments", len(args))
	}
	return gke.Identity{Project: args[0], Location: args[1], Cluster: args[2], Name: args[3]}, nil
}
