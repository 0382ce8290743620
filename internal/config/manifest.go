package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// DefaultManifestFilename is the manifest read when no file is given.
const DefaultManifestFilename = "gkepool.yaml"

// Ensure values of a node pool declaration.
const (
	EnsurePresent = "present"
	EnsureAbsent  = "absent"
)

// Credential types.
const (
	CredentialsDefault        = "default"
	CredentialsServiceAccount = "service_account"
	CredentialsAccessToken    = "access_token"
	CredentialsAnonymous      = "anonymous"
)

// Report storage defaults.
const (
	DefaultReportsRegion = "us-east-1"
	DefaultReportsPrefix = "gkepool/reports/"
)

// AccessTokenEnvVar supplies the token for access_token credentials when the
// manifest does not carry one.
const AccessTokenEnvVar = "GKEPOOL_ACCESS_TOKEN"

// Manifest is the declared state of a set of node pools.
type Manifest struct {
	// Endpoint overrides the GKE API base URL.
	Endpoint    string      `mapstructure:"endpoint" yaml:"endpoint,omitempty" validate:"omitempty,url"`
	Credentials Credentials `mapstructure:"credentials" yaml:"credentials,omitempty"`
	NodePools   []NodePool  `mapstructure:"node_pools" yaml:"node_pools,omitempty" validate:"required,min=1,dive"`
	// Reports, when set, publishes a JSON record of every apply and destroy
	// pass to S3-compatible object storage.
	Reports *Reports `mapstructure:"reports" yaml:"reports,omitempty"`
}

// Reports locates the bucket pass reports are written to. Access keys come
// from the standard AWS environment variables or shared config.
type Reports struct {
	Bucket    string `mapstructure:"bucket" yaml:"bucket,omitempty" validate:"required"`
	Prefix    string `mapstructure:"prefix" yaml:"prefix,omitempty"`
	Endpoint  string `mapstructure:"endpoint" yaml:"endpoint,omitempty" validate:"omitempty,url"`
	Region    string `mapstructure:"region" yaml:"region,omitempty"`
	PathStyle bool   `mapstructure:"path_style" yaml:"path_style,omitempty"`
}

// Credentials selects how API requests are authorized.
type Credentials struct {
	Type   string   `mapstructure:"type" yaml:"type,omitempty" validate:"omitempty,oneof=default service_account access_token anonymous"`
	Path   string   `mapstructure:"path" yaml:"path,omitempty" validate:"required_if=Type service_account"`
	Token  string   `mapstructure:"token" yaml:"token,omitempty"`
	Scopes []string `mapstructure:"scopes" yaml:"scopes,omitempty"`
}

// NodePool declares one node pool. Nested sections are kept as raw mappings
// and normalized by the property package.
type NodePool struct {
	Name             string         `mapstructure:"name" yaml:"name,omitempty" validate:"required"`
	Project          string         `mapstructure:"project" yaml:"project,omitempty" validate:"required"`
	Location         string         `mapstructure:"location" yaml:"location,omitempty" validate:"required"`
	Cluster          string         `mapstructure:"cluster" yaml:"cluster,omitempty" validate:"required"`
	Ensure           string         `mapstructure:"ensure" yaml:"ensure,omitempty" validate:"omitempty,oneof=present absent"`
	InitialNodeCount *int64         `mapstructure:"initial_node_count" yaml:"initial_node_count,omitempty" validate:"omitempty,min=0"`
	Version          string         `mapstructure:"version" yaml:"version,omitempty"`
	Config           map[string]any `mapstructure:"config" yaml:"config,omitempty"`
	Autoscaling      map[string]any `mapstructure:"autoscaling" yaml:"autoscaling,omitempty"`
	Management       map[string]any `mapstructure:"management" yaml:"management,omitempty"`
}

// Key identifies the node pool across the manifest.
func (np NodePool) Key() string {
	return fmt.Sprintf("%s/%s/%s/%s", np.Project, np.Location, np.Cluster, np.Name)
}

// LoadManifest reads and parses a manifest from a YAML file.
func LoadManifest(path string) (*Manifest, error) {
	// #nosec G304
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	m, err := ParseManifest(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// ParseManifest decodes, defaults and validates a YAML manifest. Unknown keys
// outside the nested node pool sections are rejected.
func ParseManifest(data []byte) (*Manifest, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to unmarshal yaml: %w", err)
	}

	var m Manifest
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		ErrorUnused: true,
		Result:      &m,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("failed to decode manifest: %w", err)
	}

	m.applyDefaults()

	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("manifest validation failed: %w", err)
	}
	return &m, nil
}

func (m *Manifest) applyDefaults() {
	if m.Credentials.Type == "" {
		m.Credentials.Type = CredentialsDefault
	}
	if m.Credentials.Type == CredentialsAccessToken && m.Credentials.Token == "" {
		m.Credentials.Token = os.Getenv(AccessTokenEnvVar)
	}
	if m.Reports != nil {
		if m.Reports.Region == "" {
			m.Reports.Region = DefaultReportsRegion
		}
		if m.Reports.Prefix == "" {
			m.Reports.Prefix = DefaultReportsPrefix
		}
	}
	for i := range m.NodePools {
		if m.NodePools[i].Ensure == "" {
			m.NodePools[i].Ensure = EnsurePresent
		}
	}
}

// Validate checks struct constraints and cross-field rules.
func (m *Manifest) Validate() error {
	if err := newValidator().Struct(m); err != nil {
		return describeValidation(err)
	}

	if m.Credentials.Type == CredentialsAccessToken && m.Credentials.Token == "" {
		return fmt.Errorf("credentials.token is required for access_token credentials (or set %s)", AccessTokenEnvVar)
	}

	seen := make(map[string]bool, len(m.NodePools))
	for _, np := range m.NodePools {
		if seen[np.Key()] {
			return fmt.Errorf("node pool %s is declared more than once", np.Key())
		}
		seen[np.Key()] = true
	}
	return nil
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("mapstructure"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return v
}

// describeValidation flattens validator errors into manifest paths.
func describeValidation(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		path := strings.TrimPrefix(fe.Namespace(), "Manifest.")
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s: failed %s=%s", path, fe.Tag(), fe.Param()))
		} else {
			msgs = append(msgs, fmt.Sprintf("%s: failed %s", path, fe.Tag()))
		}
	}
	return errors.New(strings.Join(msgs, "; "))
}
