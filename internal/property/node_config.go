package property

import (
	"cmp"
	"slices"
)

var (
	fieldAcceleratorCount = fieldName{api: "acceleratorCount", decl: "accelerator_count"}
	fieldAcceleratorType  = fieldName{api: "acceleratorType", decl: "accelerator_type"}

	fieldMachineType    = fieldName{api: "machineType", decl: "machine_type"}
	fieldDiskSizeGb     = fieldName{api: "diskSizeGb", decl: "disk_size_gb"}
	fieldOauthScopes    = fieldName{api: "oauthScopes", decl: "oauth_scopes"}
	fieldServiceAccount = fieldName{api: "serviceAccount", decl: "service_account"}
	fieldMetadata       = fieldName{api: "metadata", decl: "metadata"}
	fieldImageType      = fieldName{api: "imageType", decl: "image_type"}
	fieldLabels         = fieldName{api: "labels", decl: "labels"}
	fieldLocalSsdCount  = fieldName{api: "localSsdCount", decl: "local_ssd_count"}
	fieldTags           = fieldName{api: "tags", decl: "tags"}
	fieldPreemptible    = fieldName{api: "preemptible", decl: "preemptible"}
	fieldAccelerators   = fieldName{api: "accelerators", decl: "accelerators"}
	fieldDiskType       = fieldName{api: "diskType", decl: "disk_type"}
	fieldMinCPUPlatform = fieldName{api: "minCpuPlatform", decl: "min_cpu_platform"}
)

// AcceleratorConfig is a hardware accelerator attached to each node.
type AcceleratorConfig struct {
	AcceleratorCount *int64
	AcceleratorType  *string
}

// AcceleratorConfigFromAPI builds an AcceleratorConfig from a GKE API payload.
func AcceleratorConfigFromAPI(raw any) *AcceleratorConfig {
	return newAcceleratorConfig(raw, apiConvention)
}

// AcceleratorConfigFromDeclaration builds an AcceleratorConfig from manifest input.
func AcceleratorConfigFromDeclaration(raw any) *AcceleratorConfig {
	return newAcceleratorConfig(raw, declarationConvention)
}

func newAcceleratorConfig(raw any, conv convention) *AcceleratorConfig {
	m, ok := mapping(raw)
	if !ok {
		return nil
	}
	return &AcceleratorConfig{
		AcceleratorCount: Int64From(conv.get(m, fieldAcceleratorCount)),
		AcceleratorType:  StringFrom(conv.get(m, fieldAcceleratorType)),
	}
}

// newAccelerators normalizes a list of accelerators. Entries that are not
// mappings are dropped and the result is sorted, so the order in which the
// API or the manifest lists them never shows up as drift.
func newAccelerators(raw any, conv convention) []*AcceleratorConfig {
	items, ok := list(raw)
	if !ok {
		return nil
	}
	out := make([]*AcceleratorConfig, 0, len(items))
	for _, item := range items {
		if a := newAcceleratorConfig(item, conv); a != nil {
			out = append(out, a)
		}
	}
	slices.SortStableFunc(out, func(x, y *AcceleratorConfig) int { return x.order(y) })
	return out
}

// order is a total order for sorting: unset sorts before any value. compare
// skips unset fields, so it cannot be used to sort.
func (a *AcceleratorConfig) order(o *AcceleratorConfig) int {
	return cmp.Or(
		orderUnsetFirst(a.AcceleratorCount, o.AcceleratorCount),
		orderUnsetFirst(a.AcceleratorType, o.AcceleratorType),
	)
}

func orderUnsetFirst[T cmp.Ordered](a, b *T) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	return cmp.Compare(*a, *b)
}

// sortedStrings normalizes list fields GKE treats as sets.
func sortedStrings(v []string) []string {
	slices.Sort(v)
	return v
}

func (a *AcceleratorConfig) compare(o *AcceleratorConfig) int {
	var c comparator
	cmpScalar(&c, a.AcceleratorCount, o.AcceleratorCount)
	cmpScalar(&c, a.AcceleratorType, o.AcceleratorType)
	return c.result
}

func (a *AcceleratorConfig) entries() entries {
	var e entries
	addScalar(&e, fieldAcceleratorCount, a.AcceleratorCount)
	addScalar(&e, fieldAcceleratorType, a.AcceleratorType)
	return e
}

// Equal implements Value.
func (a *AcceleratorConfig) Equal(other Value) bool { return equalValues(a, other) }

// Compare implements Value.
func (a *AcceleratorConfig) Compare(other Value) (int, bool) { return compareValues(a, other) }

// Serialize implements Value.
func (a *AcceleratorConfig) Serialize() map[string]any {
	if a == nil {
		return nil
	}
	return a.entries().serialize()
}

func (a *AcceleratorConfig) String() string {
	if a == nil {
		return ""
	}
	return a.entries().describe()
}

// NodeConfig is the machine configuration shared by every node of a pool.
type NodeConfig struct {
	MachineType    *string
	DiskSizeGb     *int64
	OauthScopes    []string
	ServiceAccount *string
	Metadata       map[string]string
	ImageType      *string
	Labels         map[string]string
	LocalSsdCount  *int64
	Tags           []string
	Preemptible    *bool
	Accelerators   []*AcceleratorConfig
	DiskType       *string
	MinCPUPlatform *string
}

// NodeConfigFromAPI builds a NodeConfig from a GKE API payload.
func NodeConfigFromAPI(raw any) *NodeConfig {
	return newNodeConfig(raw, apiConvention)
}

// NodeConfigFromDeclaration builds a NodeConfig from manifest input.
func NodeConfigFromDeclaration(raw any) *NodeConfig {
	return newNodeConfig(raw, declarationConvention)
}

func newNodeConfig(raw any, conv convention) *NodeConfig {
	m, ok := mapping(raw)
	if !ok {
		return nil
	}
	return &NodeConfig{
		MachineType:    StringFrom(conv.get(m, fieldMachineType)),
		DiskSizeGb:     Int64From(conv.get(m, fieldDiskSizeGb)),
		OauthScopes:    sortedStrings(StringsFrom(conv.get(m, fieldOauthScopes))),
		ServiceAccount: StringFrom(conv.get(m, fieldServiceAccount)),
		Metadata:       StringMapFrom(conv.get(m, fieldMetadata)),
		ImageType:      StringFrom(conv.get(m, fieldImageType)),
		Labels:         StringMapFrom(conv.get(m, fieldLabels)),
		LocalSsdCount:  Int64From(conv.get(m, fieldLocalSsdCount)),
		Tags:           sortedStrings(StringsFrom(conv.get(m, fieldTags))),
		Preemptible:    BoolFrom(conv.get(m, fieldPreemptible)),
		Accelerators:   newAccelerators(conv.get(m, fieldAccelerators), conv),
		DiskType:       StringFrom(conv.get(m, fieldDiskType)),
		MinCPUPlatform: StringFrom(conv.get(m, fieldMinCPUPlatform)),
	}
}

func (n *NodeConfig) compare(o *NodeConfig) int {
	var c comparator
	cmpScalar(&c, n.MachineType, o.MachineType)
	cmpScalar(&c, n.DiskSizeGb, o.DiskSizeGb)
	cmpStrings(&c, n.OauthScopes, o.OauthScopes)
	cmpScalar(&c, n.ServiceAccount, o.ServiceAccount)
	cmpStringMap(&c, n.Metadata, o.Metadata)
	cmpScalar(&c, n.ImageType, o.ImageType)
	cmpStringMap(&c, n.Labels, o.Labels)
	cmpScalar(&c, n.LocalSsdCount, o.LocalSsdCount)
	cmpStrings(&c, n.Tags, o.Tags)
	cmpBool(&c, n.Preemptible, o.Preemptible)
	cmpList(&c, n.Accelerators, o.Accelerators)
	cmpScalar(&c, n.DiskType, o.DiskType)
	cmpScalar(&c, n.MinCPUPlatform, o.MinCPUPlatform)
	return c.result
}

func (n *NodeConfig) entries() entries {
	var e entries
	addScalar(&e, fieldMachineType, n.MachineType)
	addScalar(&e, fieldDiskSizeGb, n.DiskSizeGb)
	addStrings(&e, fieldOauthScopes, n.OauthScopes)
	addScalar(&e, fieldServiceAccount, n.ServiceAccount)
	addStringMap(&e, fieldMetadata, n.Metadata)
	addScalar(&e, fieldImageType, n.ImageType)
	addStringMap(&e, fieldLabels, n.Labels)
	addScalar(&e, fieldLocalSsdCount, n.LocalSsdCount)
	addStrings(&e, fieldTags, n.Tags)
	addScalar(&e, fieldPreemptible, n.Preemptible)
	addList(&e, fieldAccelerators, n.Accelerators)
	addScalar(&e, fieldDiskType, n.DiskType)
	addScalar(&e, fieldMinCPUPlatform, n.MinCPUPlatform)
	return e
}

// Equal implements Value.
func (n *NodeConfig) Equal(other Value) bool { return equalValues(n, other) }

// Compare implements Value.
func (n *NodeConfig) Compare(other Value) (int, bool) { return compareValues(n, other) }

// Serialize implements Value.
func (n *NodeConfig) Serialize() map[string]any {
	if n == nil {
		return nil
	}
	return n.entries().serialize()
}

func (n *NodeConfig) String() string {
	if n == nil {
		return ""
	}
	return n.entries().describe()
}
