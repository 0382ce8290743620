package property

var (
	fieldAutoUpgradeStartTime = fieldName{api: "autoUpgradeStartTime", decl: "auto_upgrade_start_time"}
	fieldDescription          = fieldName{api: "description", decl: "description"}

	fieldAutoUpgrade    = fieldName{api: "autoUpgrade", decl: "auto_upgrade"}
	fieldAutoRepair     = fieldName{api: "autoRepair", decl: "auto_repair"}
	fieldUpgradeOptions = fieldName{api: "upgradeOptions", decl: "upgrade_options"}
)

// AutoUpgradeOptions describes the next scheduled automatic upgrade.
// GKE fills it in; declaring it only matters for drift output.
type AutoUpgradeOptions struct {
	AutoUpgradeStartTime *string
	Description          *string
}

// AutoUpgradeOptionsFromAPI builds AutoUpgradeOptions from a GKE API payload.
func AutoUpgradeOptionsFromAPI(raw any) *AutoUpgradeOptions {
	return newAutoUpgradeOptions(raw, apiConvention)
}

// AutoUpgradeOptionsFromDeclaration builds AutoUpgradeOptions from manifest input.
func AutoUpgradeOptionsFromDeclaration(raw any) *AutoUpgradeOptions {
	return newAutoUpgradeOptions(raw, declarationConvention)
}

func newAutoUpgradeOptions(raw any, conv convention) *AutoUpgradeOptions {
	m, ok := mapping(raw)
	if !ok {
		return nil
	}
	return &AutoUpgradeOptions{
		AutoUpgradeStartTime: StringFrom(conv.get(m, fieldAutoUpgradeStartTime)),
		Description:          StringFrom(conv.get(m, fieldDescription)),
	}
}

func (u *AutoUpgradeOptions) compare(o *AutoUpgradeOptions) int {
	var c comparator
	cmpScalar(&c, u.AutoUpgradeStartTime, o.AutoUpgradeStartTime)
	cmpScalar(&c, u.Description, o.Description)
	return c.result
}

func (u *AutoUpgradeOptions) entries() entries {
	var e entries
	addScalar(&e, fieldAutoUpgradeStartTime, u.AutoUpgradeStartTime)
	addScalar(&e, fieldDescription, u.Description)
	return e
}

// Equal implements Value.
func (u *AutoUpgradeOptions) Equal(other Value) bool { return equalValues(u, other) }

// Compare implements Value.
func (u *AutoUpgradeOptions) Compare(other Value) (int, bool) { return compareValues(u, other) }

// Serialize implements Value.
func (u *AutoUpgradeOptions) Serialize() map[string]any {
	if u == nil {
		return nil
	}
	return u.entries().serialize()
}

func (u *AutoUpgradeOptions) String() string {
	if u == nil {
		return ""
	}
	return u.entries().describe()
}

// NodeManagement controls automatic repair and upgrade of a node pool.
type NodeManagement struct {
	AutoUpgrade    *bool
	AutoRepair     *bool
	UpgradeOptions *AutoUpgradeOptions
}

// NodeManagementFromAPI builds a NodeManagement from a GKE API payload.
func NodeManagementFromAPI(raw any) *NodeManagement {
	return newNodeManagement(raw, apiConvention)
}

// NodeManagementFromDeclaration builds a NodeManagement from manifest input.
func NodeManagementFromDeclaration(raw any) *NodeManagement {
	return newNodeManagement(raw, declarationConvention)
}

func newNodeManagement(raw any, conv convention) *NodeManagement {
	m, ok := mapping(raw)
	if !ok {
		return nil
	}
	return &NodeManagement{
		AutoUpgrade:    BoolFrom(conv.get(m, fieldAutoUpgrade)),
		AutoRepair:     BoolFrom(conv.get(m, fieldAutoRepair)),
		UpgradeOptions: newAutoUpgradeOptions(conv.get(m, fieldUpgradeOptions), conv),
	}
}

func (n *NodeManagement) compare(o *NodeManagement) int {
	var c comparator
	cmpBool(&c, n.AutoUpgrade, o.AutoUpgrade)
	cmpBool(&c, n.AutoRepair, o.AutoRepair)
	cmpNested(&c, n.UpgradeOptions, o.UpgradeOptions)
	return c.result
}

func (n *NodeManagement) entries() entries {
	var e entries
	addScalar(&e, fieldAutoUpgrade, n.AutoUpgrade)
	addScalar(&e, fieldAutoRepair, n.AutoRepair)
	addNested(&e, fieldUpgradeOptions, n.UpgradeOptions)
	return e
}

// Equal implements Value.
func (n *NodeManagement) Equal(other Value) bool { return equalValues(n, other) }

// Compare implements Value.
func (n *NodeManagement) Compare(other Value) (int, bool) { return compareValues(n, other) }

// Serialize implements Value.
func (n *NodeManagement) Serialize() map[string]any {
	if n == nil {
		return nil
	}
	return n.entries().serialize()
}

func (n *NodeManagement) String() string {
	if n == nil {
		return ""
	}
	return n.entries().describe()
}
