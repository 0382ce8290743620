package property

var (
	fieldEnabled      = fieldName{api: "enabled", decl: "enabled"}
	fieldMinNodeCount = fieldName{api: "minNodeCount", decl: "min_node_count"}
	fieldMaxNodeCount = fieldName{api: "maxNodeCount", decl: "max_node_count"}
)

// NodePoolAutoscaling is the cluster autoscaler policy of a node pool.
type NodePoolAutoscaling struct {
	Enabled      *bool
	MinNodeCount *int64
	MaxNodeCount *int64
}

// NodePoolAutoscalingFromAPI builds a NodePoolAutoscaling from a GKE API payload.
func NodePoolAutoscalingFromAPI(raw any) *NodePoolAutoscaling {
	return newNodePoolAutoscaling(raw, apiConvention)
}

// NodePoolAutoscalingFromDeclaration builds a NodePoolAutoscaling from manifest input.
func NodePoolAutoscalingFromDeclaration(raw any) *NodePoolAutoscaling {
	return newNodePoolAutoscaling(raw, declarationConvention)
}

func newNodePoolAutoscaling(raw any, conv convention) *NodePoolAutoscaling {
	m, ok := mapping(raw)
	if !ok {
		return nil
	}
	return &NodePoolAutoscaling{
		Enabled:      BoolFrom(conv.get(m, fieldEnabled)),
		MinNodeCount: Int64From(conv.get(m, fieldMinNodeCount)),
		MaxNodeCount: Int64From(conv.get(m, fieldMaxNodeCount)),
	}
}

func (a *NodePoolAutoscaling) compare(o *NodePoolAutoscaling) int {
	var c comparator
	cmpBool(&c, a.Enabled, o.Enabled)
	cmpScalar(&c, a.MinNodeCount, o.MinNodeCount)
	cmpScalar(&c, a.MaxNodeCount, o.MaxNodeCount)
	return c.result
}

func (a *NodePoolAutoscaling) entries() entries {
	var e entries
	addScalar(&e, fieldEnabled, a.Enabled)
	addScalar(&e, fieldMinNodeCount, a.MinNodeCount)
	addScalar(&e, fieldMaxNodeCount, a.MaxNodeCount)
	return e
}

// Equal implements Value.
func (a *NodePoolAutoscaling) Equal(other Value) bool { return equalValues(a, other) }

// Compare implements Value.
func (a *NodePoolAutoscaling) Compare(other Value) (int, bool) { return compareValues(a, other) }

// Serialize implements Value.
func (a *NodePoolAutoscaling) Serialize() map[string]any {
	if a == nil {
		return nil
	}
	return a.entries().serialize()
}

func (a *NodePoolAutoscaling) String() string {
	if a == nil {
		return ""
	}
	return a.entries().describe()
}
