// Package sqlutil provides SQL helpers for the MySQL record source.
package sqlutil

import (
	"regexp"
	"strings"
)

// QuoteIdentifier quotes a MySQL identifier with backticks, doubling any
// backticks inside it.
// Example: "my_table" -> "`my_table`"
func QuoteIdentifier(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

// validIdentifierRegex restricts identifiers to alphanumerics and underscore.
var validIdentifierRegex = regexp.MustCompile("^[a-zA-Z0-9_]+$")

// IsValidIdentifier checks if a name only contains alphanumeric characters
// and underscores.
func IsValidIdentifier(name string) bool {
	return validIdentifierRegex.MatchString(name)
}

// QuoteIdentifierSafe quotes a MySQL identifier after validating it.
func QuoteIdentifierSafe(name string) (string, error) {
	if !IsValidIdentifier(name) {
		return "", &InvalidIdentifierError{Name: name}
	}
	return QuoteIdentifier(name), nil
}

// QuoteTable validates and quotes a table reference of the form "table" or
// "schema.table".
// Example: "app.events" -> "`app`.`events`"
func QuoteTable(name string) (string, error) {
	parts := strings.Split(name, ".")
	if len(parts) > 2 {
		return "", &InvalidIdentifierError{Name: name}
	}
	quoted := make([]string, 0, len(parts))
	for _, part := range parts {
		q, err := QuoteIdentifierSafe(part)
		if err != nil {
			return "", &InvalidIdentifierError{Name: name}
		}
		quoted = append(quoted, q)
	}
	return strings.Join(quoted, "."), nil
}

// InvalidIdentifierError is returned when an identifier contains invalid characters.
type InvalidIdentifierError struct {
	Name string
}

func (e *InvalidIdentifierError) Error() string {
	return "invalid identifier: " + e.Name + " (must contain only alphanumeric characters and underscores)"
}
