package property

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

// Value is implemented by every nested property value object.
type Value interface {
	fmt.Stringer

	// Equal reports whether every field set on both sides is equal.
	// Values of a different type are never equal.
	Equal(other Value) bool

	// Compare orders two values of the same type. ok is false when other is
	// of a different type; the values are then unordered.
	Compare(other Value) (result int, ok bool)

	// Serialize renders the value with API field names, omitting unset fields.
	Serialize() map[string]any
}

// object is the constraint shared by the pointer value types of this package.
type object[T any] interface {
	*T
	Value
	compare(other *T) int
}

// fieldName carries both spellings of a field.
type fieldName struct {
	api  string
	decl string
}

// convention selects which spelling is read from a raw mapping.
type convention int

const (
	apiConvention convention = iota
	declarationConvention
)

func (c convention) get(raw map[string]any, f fieldName) any {
	if c == apiConvention {
		return raw[f.api]
	}
	return raw[f.decl]
}

func equalValues[T any, P object[T]](a P, other Value) bool {
	if other == nil {
		return true
	}
	o, ok := other.(P)
	if !ok {
		return false
	}
	if a == nil || o == nil {
		return true
	}
	return a.compare(o) == 0
}

func compareValues[T any, P object[T]](a P, other Value) (int, bool) {
	if other == nil {
		return 0, true
	}
	o, ok := other.(P)
	if !ok {
		return 0, false
	}
	if a == nil || o == nil {
		return 0, true
	}
	return a.compare(o), true
}

// comparator accumulates a field by field comparison. Once a pair decides the
// result, later fields are ignored.
type comparator struct {
	result int
}

func (c *comparator) done() bool {
	return c.result != 0
}

func cmpScalar[T cmp.Ordered](c *comparator, a, b *T) {
	if c.done() || a == nil || b == nil {
		return
	}
	c.result = cmp.Compare(*a, *b)
}

func cmpBool(c *comparator, a, b *bool) {
	if c.done() || a == nil || b == nil || *a == *b {
		return
	}
	if *a {
		c.result = 1
	} else {
		c.result = -1
	}
}

func cmpStrings(c *comparator, a, b []string) {
	if c.done() || a == nil || b == nil {
		return
	}
	c.result = slices.Compare(a, b)
}

func cmpStringMap(c *comparator, a, b map[string]string) {
	if c.done() || a == nil || b == nil {
		return
	}
	ak, bk := sortedKeys(a), sortedKeys(b)
	if r := slices.Compare(ak, bk); r != 0 {
		c.result = r
		return
	}
	for _, k := range ak {
		if r := cmp.Compare(a[k], b[k]); r != 0 {
			c.result = r
			return
		}
	}
}

func cmpNested[T any, P object[T]](c *comparator, a, b P) {
	if c.done() || a == nil || b == nil {
		return
	}
	c.result = a.compare(b)
}

func cmpList[T any, P object[T]](c *comparator, a, b []P) {
	if c.done() || a == nil || b == nil {
		return
	}
	c.result = slices.CompareFunc(a, b, func(x, y P) int { return x.compare(y) })
}

// entry is one set field, kept in declared order.
type entry struct {
	name   fieldName
	value  any
	nested Value
	list   []Value
}

type entries []entry

func addScalar[T any](e *entries, name fieldName, v *T) {
	if v == nil {
		return
	}
	*e = append(*e, entry{name: name, value: *v})
}

func addStrings(e *entries, name fieldName, v []string) {
	if v == nil {
		return
	}
	*e = append(*e, entry{name: name, value: slices.Clone(v)})
}

func addStringMap(e *entries, name fieldName, v map[string]string) {
	if v == nil {
		return
	}
	out := make(map[string]string, len(v))
	for k, val := range v {
		out[k] = val
	}
	*e = append(*e, entry{name: name, value: out})
}

func addNested[T any, P object[T]](e *entries, name fieldName, v P) {
	if v == nil {
		return
	}
	*e = append(*e, entry{name: name, nested: v})
}

func addList[T any, P object[T]](e *entries, name fieldName, v []P) {
	if v == nil {
		return
	}
	values := make([]Value, 0, len(v))
	for _, x := range v {
		values = append(values, x)
	}
	*e = append(*e, entry{name: name, list: values})
}

func (e entries) serialize() map[string]any {
	out := make(map[string]any, len(e))
	for _, en := range e {
		switch {
		case en.nested != nil:
			out[en.name.api] = en.nested.Serialize()
		case en.list != nil:
			items := make([]any, 0, len(en.list))
			for _, v := range en.list {
				items = append(items, v.Serialize())
			}
			out[en.name.api] = items
		default:
			out[en.name.api] = en.value
		}
	}
	return out
}

func (e entries) describe() string {
	parts := make([]string, 0, len(e))
	for _, en := range e {
		var rendered string
		switch {
		case en.nested != nil:
			rendered = "{" + en.nested.String() + "}"
		case en.list != nil:
			items := make([]string, 0, len(en.list))
			for _, v := range en.list {
				items = append(items, "{"+v.String()+"}")
			}
			rendered = "[" + strings.Join(items, ", ") + "]"
		default:
			rendered = fmt.Sprint(en.value)
		}
		parts = append(parts, en.name.decl+": "+rendered)
	}
	return strings.Join(parts, ", ")
}
