package record

import "strings"

// Extract removes the value at a dotted path.
//
// The input record is never modified: when the path resolves, out is a copy
// in which only the objects along the path are cloned and the final key is
// gone. When it does not resolve, out is rec itself and found is false.
//
// Path walking treats an intermediate value that is missing, null, false,
// zero or the empty string as absent, and so is any intermediate value that
// is not an object. A final key that is present is always extracted, whatever
// its value.
func Extract(rec *Object, path string) (out *Object, value any, found bool) {
	out, found = rewrite(rec, path, func(parent *Object, key string) {
		value, _ = parent.Get(key)
		parent.Delete(key)
	})
	return out, value, found
}

// Retain replaces the value at a dotted path with its JSON text, keeping the
// key where it was, so the Flattener emits one column for the whole subtree.
// Resolution follows the same rules as Extract; a miss returns rec unchanged.
func Retain(rec *Object, path string) (*Object, bool) {
	return rewrite(rec, path, func(parent *Object, key string) {
		value, _ := parent.Get(key)
		parent.Set(key, Encode(value))
	})
}

// RetainAll applies Retain for each path in order.
func RetainAll(rec *Object, paths []string) *Object {
	for _, path := range paths {
		rec, _ = Retain(rec, path)
	}
	return rec
}

// rewrite resolves path in rec and, when the final key exists, calls fn with
// a private copy of its parent object.
func rewrite(rec *Object, path string, fn func(parent *Object, key string)) (*Object, bool) {
	if rec == nil || path == "" {
		return rec, false
	}

	segments := strings.Split(path, ".")
	last := len(segments) - 1

	parent := rec
	for _, segment := range segments[:last] {
		v, ok := parent.Get(segment)
		if !ok || isFalsy(v) {
			return rec, false
		}
		child, ok := v.(*Object)
		if !ok {
			return rec, false
		}
		parent = child
	}
	if _, ok := parent.Get(segments[last]); !ok {
		return rec, false
	}

	// Copy on write along the resolved path.
	out := shallowCopy(rec)
	cursor := out
	for _, segment := range segments[:last] {
		v, _ := cursor.Get(segment)
		child := shallowCopy(v.(*Object))
		cursor.Set(segment, child)
		cursor = child
	}
	fn(cursor, segments[last])

	return out, true
}
