package record

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract_TopLevel(t *testing.T) {
	rec := mustObject(t, `{"meta":{"x":1,"y":2},"id":5}`)

	out, value, found := Extract(rec, "meta")

	require.True(t, found)
	assert.Equal(t, `{"x":1,"y":2}`, Encode(value))
	assert.Equal(t, `{"id":5}`, Encode(out))
	// Input is untouched.
	assert.Equal(t, `{"meta":{"x":1,"y":2},"id":5}`, Encode(rec))
}

func TestExtract_Nested(t *testing.T) {
	rec := mustObject(t, `{"a":{"b":{"c":1,"d":2},"e":3},"f":4}`)

	out, value, found := Extract(rec, "a.b.c")

	require.True(t, found)
	assert.Equal(t, json.Number("1"), value)
	assert.Equal(t, `{"a":{"b":{"d":2},"e":3},"f":4}`, Encode(out))
	assert.Equal(t, `{"a":{"b":{"c":1,"d":2},"e":3},"f":4}`, Encode(rec))
}

func TestExtract_FinalFalsyValueIsStillExtracted(t *testing.T) {
	rec := mustObject(t, `{"a":{"flag":false},"n":0}`)

	out, value, found := Extract(rec, "a.flag")
	require.True(t, found)
	assert.Equal(t, false, value)
	assert.Equal(t, `{"a":{},"n":0}`, Encode(out))

	_, value, found = Extract(rec, "n")
	require.True(t, found)
	assert.Equal(t, json.Number("0"), value)
}

func TestExtract_Misses(t *testing.T) {
	// Falsy intermediates stop the walk even when a deeper key could exist in
	// principle. This leniency is kept on purpose.
	tests := []struct {
		name string
		rec  string
		path string
	}{
		{"missing top", `{"a":1}`, "b"},
		{"missing intermediate", `{"a":{"b":1}}`, "x.b"},
		{"missing final", `{"a":{"b":1}}`, "a.c"},
		{"null intermediate", `{"a":null}`, "a.b"},
		{"false intermediate", `{"a":false}`, "a.b"},
		{"zero intermediate", `{"a":0}`, "a.b"},
		{"empty string intermediate", `{"a":""}`, "a.b"},
		{"scalar intermediate", `{"a":"text"}`, "a.b"},
		{"array intermediate", `{"a":[{"b":1}]}`, "a.0"},
		{"empty path", `{"a":1}`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := mustObject(t, tt.rec)

			out, value, found := Extract(rec, tt.path)

			assert.False(t, found)
			assert.Nil(t, value)
			assert.Same(t, rec, out)
			assert.Equal(t, tt.rec, Encode(rec))
		})
	}
}

func TestRetain_RoundTrip(t *testing.T) {
	rec := mustObject(t, `{"meta":{"x":1,"y":2},"id":5}`)

	out, found := Retain(rec, "meta")

	require.True(t, found)
	assert.Equal(t, []string{"meta", "id"}, out.Keys())
	meta, _ := out.Get("meta")
	assert.Equal(t, `{"x":1,"y":2}`, meta)
	assert.Equal(t, `{"meta":"{\"x\":1,\"y\":2}","id":5}`, Encode(out))

	flat := Flatten(out, FlattenOptions{})
	assert.Equal(t, []string{"meta", "id"}, flat.Keys())
}

func TestRetain_NestedKeepsPosition(t *testing.T) {
	rec := mustObject(t, `{"a":{"b":{"c":[1,2]},"z":true},"q":1}`)

	out, found := Retain(rec, "a.b")

	require.True(t, found)
	flat := Flatten(out, FlattenOptions{RetainArrays: false})
	assert.Equal(t, []string{"a.b", "a.z", "q"}, flat.Keys())
	v, _ := flat.Get("a.b")
	assert.Equal(t, `{"c":[1,2]}`, v)
}

func TestRetain_Miss(t *testing.T) {
	rec := mustObject(t, `{"id":1}`)

	out, found := Retain(rec, "meta")

	assert.False(t, found)
	assert.Same(t, rec, out)
}

func TestRetainAll(t *testing.T) {
	rec := mustObject(t, `{"a":{"x":1},"b":{"y":{"z":2}},"c":3}`)

	out := RetainAll(rec, []string{"a", "b.y", "missing", "a.x"})

	assert.Equal(t, `{"a":"{\"x\":1}","b":{"y":"{\"z\":2}"},"c":3}`, Encode(out))
	flat := Flatten(out, FlattenOptions{})
	assert.Equal(t, []string{"a", "b.y", "c"}, flat.Keys())
}

func TestRetainAll_Deterministic(t *testing.T) {
	text := `{"k":{"m":{"n":1,"o":[1,2]},"p":2},"q":{"r":null}}`
	paths := []string{"k.m", "q"}

	first := Encode(RetainAll(mustObject(t, text), paths))
	second := Encode(RetainAll(mustObject(t, text), paths))

	assert.Equal(t, first, second)
}
