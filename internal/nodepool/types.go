package nodepool

import (
	"errors"
	"fmt"

	"github.com/imamik/gkepool/internal/config"
	"github.com/imamik/gkepool/internal/platform/gke"
	"github.com/imamik/gkepool/internal/property"
)

// ErrUnsupported is returned for operations the node pool API cannot serve,
// e.g. enumerating every node pool of a project.
var ErrUnsupported = errors.New("operation not supported for node pools")

// Ensure is the declared lifecycle of a node pool.
type Ensure string

const (
	EnsurePresent Ensure = config.EnsurePresent
	EnsureAbsent  Ensure = config.EnsureAbsent
)

// Mutable fields, in the order drift is reported.
const (
	FieldConfig      = "config"
	FieldVersion     = "version"
	FieldAutoscaling = "autoscaling"
	FieldManagement  = "management"
)

var fieldOrder = []string{FieldConfig, FieldVersion, FieldAutoscaling, FieldManagement}

// Spec is the desired state of one node pool.
type Spec struct {
	Project  string
	Location string
	Cluster  string
	Name     string

	Ensure           Ensure
	InitialNodeCount *int64
	Version          *string
	Config           *property.NodeConfig
	Autoscaling      *property.NodePoolAutoscaling
	Management       *property.NodeManagement
}

// Identity is the composite key used to build links.
func (s Spec) Identity() gke.Identity {
	return gke.Identity{Project: s.Project, Location: s.Location, Cluster: s.Cluster, Name: s.Name}
}

// SpecFromManifest normalizes a manifest declaration.
func SpecFromManifest(np config.NodePool) Spec {
	spec := Spec{
		Project:          np.Project,
		Location:         np.Location,
		Cluster:          np.Cluster,
		Name:             np.Name,
		Ensure:           Ensure(np.Ensure),
		InitialNodeCount: np.InitialNodeCount,
		Config:           property.NodeConfigFromDeclaration(np.Config),
		Autoscaling:      property.NodePoolAutoscalingFromDeclaration(np.Autoscaling),
		Management:       property.NodeManagementFromDeclaration(np.Management),
	}
	if spec.Ensure == "" {
		spec.Ensure = EnsurePresent
	}
	if np.Version != "" {
		spec.Version = &np.Version
	}
	return spec
}

// State is the cached observed state of a node pool.
type State struct {
	Ensure Ensure
	Name   string

	// InitialNodeCount mirrors the desired value; the API only honors it at
	// creation time.
	InitialNodeCount *int64
	Version          *string
	Config           *property.NodeConfig
	Autoscaling      *property.NodePoolAutoscaling
	Management       *property.NodeManagement

	Status            string
	SelfLink          string
	InstanceGroupURLs []string
}

// Change is one pending field update.
type Change struct {
	Field string
	From  any
	To    any
}

func (c Change) String() string {
	return fmt.Sprintf("%s: %s -> %s", c.Field, render(c.From), render(c.To))
}

func render(v any) string {
	switch x := v.(type) {
	case nil:
		return "<unset>"
	case *string:
		if x == nil {
			return "<unset>"
		}
		return *x
	case *int64:
		if x == nil {
			return "<unset>"
		}
		return fmt.Sprint(*x)
	case property.Value:
		return "{" + x.String() + "}"
	default:
		return fmt.Sprint(x)
	}
}
