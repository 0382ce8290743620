// Package ptr provides helper functions for creating and reading pointers to
// primitive types. Optional node pool properties are modelled as pointers, so
// these show up wherever a value is declared or compared.
package ptr

// Bool returns a pointer to the given bool value.
func Bool(b bool) *bool { return &b }

// Int64 returns a pointer to the given int64 value.
func Int64(i int64) *int64 { return &i }

// String returns a pointer to the given string value.
func String(s string) *string { return &s }

// Deref returns the value p points to, or def when p is nil.
func Deref[T any](p *T, def T) T {
	if p == nil {
		return def
	}
	return *p
}
