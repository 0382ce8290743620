package property

var (
	fieldDisabled                 = fieldName{api: "disabled", decl: "disabled"}
	fieldHTTPLoadBalancing        = fieldName{api: "httpLoadBalancing", decl: "http_load_balancing"}
	fieldHorizontalPodAutoscaling = fieldName{api: "horizontalPodAutoscaling", decl: "horizontal_pod_autoscaling"}
)

// AddonToggle is the state of a single cluster addon.
type AddonToggle struct {
	Disabled *bool
}

// AddonToggleFromAPI builds an AddonToggle from a GKE API payload.
func AddonToggleFromAPI(raw any) *AddonToggle {
	return newAddonToggle(raw, apiConvention)
}

// AddonToggleFromDeclaration builds an AddonToggle from manifest input.
func AddonToggleFromDeclaration(raw any) *AddonToggle {
	return newAddonToggle(raw, declarationConvention)
}

func newAddonToggle(raw any, conv convention) *AddonToggle {
	m, ok := mapping(raw)
	if !ok {
		return nil
	}
	return &AddonToggle{
		Disabled: BoolFrom(conv.get(m, fieldDisabled)),
	}
}

func (a *AddonToggle) compare(o *AddonToggle) int {
	var c comparator
	cmpBool(&c, a.Disabled, o.Disabled)
	return c.result
}

func (a *AddonToggle) entries() entries {
	var e entries
	addScalar(&e, fieldDisabled, a.Disabled)
	return e
}

// Equal implements Value.
func (a *AddonToggle) Equal(other Value) bool { return equalValues(a, other) }

// Compare implements Value.
func (a *AddonToggle) Compare(other Value) (int, bool) { return compareValues(a, other) }

// Serialize implements Value.
func (a *AddonToggle) Serialize() map[string]any {
	if a == nil {
		return nil
	}
	return a.entries().serialize()
}

func (a *AddonToggle) String() string {
	if a == nil {
		return ""
	}
	return a.entries().describe()
}

// AddonsConfig is the addon configuration of a cluster.
type AddonsConfig struct {
	HTTPLoadBalancing        *AddonToggle
	HorizontalPodAutoscaling *AddonToggle
}

// AddonsConfigFromAPI builds an AddonsConfig from a GKE API payload.
func AddonsConfigFromAPI(raw any) *AddonsConfig {
	return newAddonsConfig(raw, apiConvention)
}

// AddonsConfigFromDeclaration builds an AddonsConfig from manifest input.
func AddonsConfigFromDeclaration(raw any) *AddonsConfig {
	return newAddonsConfig(raw, declarationConvention)
}

func newAddonsConfig(raw any, conv convention) *AddonsConfig {
	m, ok := mapping(raw)
	if !ok {
		return nil
	}
	return &AddonsConfig{
		HTTPLoadBalancing:        newAddonToggle(conv.get(m, fieldHTTPLoadBalancing), conv),
		HorizontalPodAutoscaling: newAddonToggle(conv.get(m, fieldHorizontalPodAutoscaling), conv),
	}
}

func (a *AddonsConfig) compare(o *AddonsConfig) int {
	var c comparator
	cmpNested(&c, a.HTTPLoadBalancing, o.HTTPLoadBalancing)
	cmpNested(&c, a.HorizontalPodAutoscaling, o.HorizontalPodAutoscaling)
	return c.result
}

func (a *AddonsConfig) entries() entries {
	var e entries
	addNested(&e, fieldHTTPLoadBalancing, a.HTTPLoadBalancing)
	addNested(&e, fieldHorizontalPodAutoscaling, a.HorizontalPodAutoscaling)
	return e
}

// Equal implements Value.
func (a *AddonsConfig) Equal(other Value) bool { return equalValues(a, other) }

// Compare implements Value.
func (a *AddonsConfig) Compare(other Value) (int, bool) { return compareValues(a, other) }

// Serialize implements Value.
func (a *AddonsConfig) Serialize() map[string]any {
	if a == nil {
		return nil
	}
	return a.entries().serialize()
}

func (a *AddonsConfig) String() string {
	if a == nil {
		return ""
	}
	return a.entries().describe()
}
