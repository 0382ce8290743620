// Package property normalizes node pool settings into comparable value objects.
//
// The same logical setting reaches the agent in two shapes: as a declaration
// from the manifest (snake_case keys, YAML scalars) and as a GKE API response
// (camelCase keys, JSON scalars, int64 encoded as strings). Every property
// type therefore has two constructors:
//
//   - XFromAPI(raw) for API payloads
//   - XFromDeclaration(raw) for manifest input
//
// Both return nil when raw is nil or not a mapping, ignore unknown keys and
// produce the same canonical value for the same logical input.
//
// # Unset fields
//
// A field that was absent or null in the source stays nil. Nil fields take no
// part in equality, ordering, serialization or description:
//
//	a := &NodePoolAutoscaling{Enabled: ptr.Bool(true)}
//	b := &NodePoolAutoscaling{Enabled: ptr.Bool(true), MaxNodeCount: ptr.Int64(5)}
//	a.Equal(b) // true, MaxNodeCount is unset in a
//
// Ordering walks the fields in their declared order and the first pair that
// is set on both sides and differs decides the result.
package property
