package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"gopkg.in/yaml.v3"
)

// machineTypeOptions are the machine types offered by the wizard.
var machineTypeOptions = []huh.Option[string]{
	huh.NewOption("e2-standard-2 - 2 vCPU, 8GB RAM", "e2-standard-2"),
	huh.NewOption("e2-standard-4 - 4 vCPU, 16GB RAM", "e2-standard-4"),
	huh.NewOption("e2-standard-8 - 8 vCPU, 32GB RAM", "e2-standard-8"),
	huh.NewOption("n2-standard-4 - 4 vCPU, 16GB RAM", "n2-standard-4"),
	huh.NewOption("n2-highmem-4 - 4 vCPU, 32GB RAM", "n2-highmem-4"),
}

// WizardResult holds the user's choices from the wizard.
type WizardResult struct {
	Project     string
	Location    string
	Cluster     string
	Name        string
	MachineType string
	NodeCount   int
	Autoscale   bool
	MaxNodes    int
	Preemptible bool
}

// RunWizard asks for a single node pool.
func RunWizard(ctx context.Context) (*WizardResult, error) {
	result := &WizardResult{
		Location:    "us-central1",
		MachineType: "e2-standard-4",
		NodeCount:   1,
		MaxNodes:    3,
	}

	form := huh.NewForm(
		// Where the pool lives
		huh.NewGroup(
			huh.NewInput().
				Title("Project").
				Description("Google Cloud project ID").
				Value(&result.Project).
				Validate(validateRequired("project")),
			huh.NewInput().
				Title("Location").
				Description("Region or zone of the cluster").
				Value(&result.Location).
				Validate(validateRequired("location")),
			huh.NewInput().
				Title("Cluster").
				Description("Name of the existing GKE cluster").
				Value(&result.Cluster).
				Validate(validateRequired("cluster")),
		),

		// The pool itself
		huh.NewGroup(
			huh.NewInput().
				Title("Node pool name").
				Description("Lowercase letters, numbers and hyphens").
				Placeholder("workers").
				Value(&result.Name).
				Validate(validatePoolName),
			huh.NewSelect[string]().
				Title("Machine type").
				Options(machineTypeOptions...).
				Value(&result.MachineType),
			huh.NewSelect[int]().
				Title("Initial nodes per zone").
				Options(
					huh.NewOption("1 node", 1),
					huh.NewOption("2 nodes", 2),
					huh.NewOption("3 nodes", 3),
				).
				Value(&result.NodeCount),
			huh.NewConfirm().
				Title("Use preemptible VMs?").
				Value(&result.Preemptible),
		),

		// Autoscaling
		huh.NewGroup(
			huh.NewConfirm().
				Title("Enable autoscaling?").
				Value(&result.Autoscale),
			huh.NewSelect[int]().
				Title("Maximum nodes per zone").
				Options(
					huh.NewOption("3 nodes", 3),
					huh.NewOption("5 nodes", 5),
					huh.NewOption("10 nodes", 10),
				).
				Value(&result.MaxNodes),
		),
	)

	if err := form.RunWithContext(ctx); err != nil {
		return nil, fmt.Errorf("wizard canceled: %w", err)
	}
	return result, nil
}

// ToManifest converts the wizard result to a manifest with one node pool.
func (r *WizardResult) ToManifest() *Manifest {
	count := int64(r.NodeCount)
	pool := NodePool{
		Name:             r.Name,
		Project:          r.Project,
		Location:         r.Location,
		Cluster:          r.Cluster,
		Ensure:           EnsurePresent,
		InitialNodeCount: &count,
		Config: map[string]any{
			"machine_type": r.MachineType,
			"preemptible":  r.Preemptible,
		},
		Management: map[string]any{
			"auto_repair":  true,
			"auto_upgrade": true,
		},
	}
	if r.Autoscale {
		pool.Autoscaling = map[string]any{
			"enabled":        true,
			"min_node_count": r.NodeCount,
			"max_node_count": max(r.MaxNodes, r.NodeCount),
		}
	}
	return &Manifest{
		Credentials: Credentials{Type: CredentialsDefault},
		NodePools:   []NodePool{pool},
	}
}

// SaveManifest writes a manifest as YAML.
func SaveManifest(m *Manifest, path string) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}

func validateRequired(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

// validatePoolName applies the GKE naming rule for node pools.
func validatePoolName(s string) error {
	if s == "" {
		return fmt.Errorf("node pool name is required")
	}
	if len(s) > 40 {
		return fmt.Errorf("node pool name must be 40 characters or less")
	}
	for _, c := range s {
		if (c < 'a' || c > 'z') && (c < '0' || c > '9') && c != '-' {
			return fmt.Errorf("node pool name can only contain lowercase letters, numbers, and hyphens")
		}
	}
	if s[0] < 'a' || s[0] > 'z' {
		return fmt.Errorf("node pool name must start with a letter")
	}
	if s[len(s)-1] == '-' {
		return fmt.Errorf("node pool name cannot end with a hyphen")
	}
	return nil
}
