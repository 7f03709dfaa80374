// Package record holds the JSON data model used by the conversion pipeline.
//
// JSON objects are kept as insertion-ordered maps so that the column order of
// the output follows the order keys appear in the input. Values inside a
// record are one of:
//
//   - *Object for JSON objects
//   - []any for JSON arrays
//   - string, json.Number, bool or nil for scalars
package record

import (
	"encoding/json"

	"github.com/elliotchance/orderedmap/v2"
)

// Object is a JSON object that remembers the order its keys were read in.
// A record is a top-level *Object.
type Object = orderedmap.OrderedMap[string, any]

// NewObject returns an empty Object.
func NewObject() *Object {
	return orderedmap.NewOrderedMap[string, any]()
}

// shallowCopy returns a new Object with the same keys, order and values.
func shallowCopy(o *Object) *Object {
	out := NewObject()
	for el := o.Front(); el != nil; el = el.Next() {
		out.Set(el.Key, el.Value)
	}
	return out
}

// isFalsy reports whether v counts as absent while walking a path:
// null, false, zero and the empty string.
func isFalsy(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case bool:
		return !t
	case string:
		return t == ""
	case json.Number:
		f, err := t.Float64()
		return err == nil && f == 0
	case float64:
		return t == 0
	case int64:
		return t == 0
	case int:
		return t == 0
	}
	return false
}
