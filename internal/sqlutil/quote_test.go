package sqlutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuoteIdentifier(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "plain", input: "events", expected: "`events`"},
		{name: "underscore", input: "raw_events", expected: "`raw_events`"},
		{name: "empty", input: "", expected: "``"},
		{name: "inner backtick", input: "ev`ents", expected: "`ev``ents`"},
		{name: "only backticks", input: "``", expected: "``````"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, QuoteIdentifier(tt.input))
		})
	}
}

func TestIsValidIdentifier(t *testing.T) {
	valid := []string{"events", "raw_events", "Events2024", "___"}
	invalid := []string{"", "raw events", "raw-events", "app.events", "ev`ents", "events; DROP TABLE events--", "t$"}

	for _, name := range valid {
		assert.True(t, IsValidIdentifier(name), name)
	}
	for _, name := range invalid {
		assert.False(t, IsValidIdentifier(name), name)
	}
}

func TestQuoteIdentifierSafe(t *testing.T) {
	q, err := QuoteIdentifierSafe("events")
	require.NoError(t, err)
	assert.Equal(t, "`events`", q)

	q, err = QuoteIdentifierSafe("events--")
	assert.Empty(t, q)
	var idErr *InvalidIdentifierError
	require.ErrorAs(t, err, &idErr)
	assert.Equal(t, "events--", idErr.Name)
}

func TestQuoteTable(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		wantErr  bool
	}{
		{name: "bare table", input: "events", expected: "`events`"},
		{name: "schema qualified", input: "app.events", expected: "`app`.`events`"},
		{name: "too many parts", input: "a.b.c", wantErr: true},
		{name: "empty schema", input: ".events", wantErr: true},
		{name: "empty table", input: "app.", wantErr: true},
		{name: "empty", input: "", wantErr: true},
		{name: "injection", input: "events;DROP TABLE x", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := QuoteTable(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.input)
				assert.Empty(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestInvalidIdentifierError_Error(t *testing.T) {
	err := &InvalidIdentifierError{Name: "bad@table"}
	assert.Equal(t, "invalid identifier: bad@table (must contain only alphanumeric characters and underscores)", err.Error())
}
