package record

import (
	"strconv"

	"github.com/elliotchance/orderedmap/v2"
)

// Flat maps dotted column paths to leaf values, in the order leaves were
// reached. Values are scalars (string, json.Number, bool, nil) or the JSON
// text of a retained array or an empty container.
type Flat = orderedmap.OrderedMap[string, any]

// NewFlat returns an empty Flat.
func NewFlat() *Flat {
	return orderedmap.NewOrderedMap[string, any]()
}

// FlattenOptions controls how containers become columns.
type FlattenOptions struct {
	// RetainArrays keeps every array as one column holding its JSON text.
	// When false, arrays are expanded with numeric path segments (a.c.0).
	RetainArrays bool
}

// Flatten walks rec depth-first and emits one entry per leaf, keyed by the
// dotted path from the root. Objects always recurse. Empty objects, and empty
// arrays in expand mode, are leaves so their column is still reported.
func Flatten(rec *Object, opts FlattenOptions) *Flat {
	out := NewFlat()
	if rec == nil {
		return out
	}
	for el := rec.Front(); el != nil; el = el.Next() {
		flattenValue(out, el.Key, el.Value, opts)
	}
	return out
}

func flattenValue(out *Flat, key string, v any, opts FlattenOptions) {
	switch t := v.(type) {
	case *Object:
		if t.Len() == 0 {
			out.Set(key, "{}")
			return
		}
		for el := t.Front(); el != nil; el = el.Next() {
			flattenValue(out, key+"."+el.Key, el.Value, opts)
		}
	case []any:
		if opts.RetainArrays || len(t) == 0 {
			out.Set(key, Encode(t))
			return
		}
		for i, item := range t {
			flattenValue(out, key+"."+strconv.Itoa(i), item, opts)
		}
	default:
		out.Set(key, v)
	}
}
