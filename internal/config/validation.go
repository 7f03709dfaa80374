package config

import (
	"fmt"
	"strings"

	"github.com/dbsmedya/ndjson2csv/internal/sqlutil"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("validation failed:\n  - %s", strings.Join(msgs, "\n  - "))
}

// Validate checks the configuration for required fields and valid values.
func (c *Config) Validate() error {
	var errors ValidationErrors

	errors = append(errors, c.validateInput()...)
	errors = append(errors, c.validateFlatten()...)

	if c.Input.Type == InputMySQL {
		errors = append(errors, c.validateDatabase()...)
	}

	if c.Progress.Width < 0 {
		errors = append(errors, ValidationError{
			Field:   "progress.width",
			Message: "width cannot be negative",
		})
	}

	switch c.Verification.Method {
	case "", "count", "sha256", "skip":
	default:
		errors = append(errors, ValidationError{
			Field:   "verification.method",
			Message: "method must be 'count', 'sha256', or 'skip'",
		})
	}

	errors = append(errors, c.validateLogging()...)

	if len(errors) > 0 {
		return errors
	}
	return nil
}

func (c *Config) validateInput() ValidationErrors {
	var errors ValidationErrors

	switch c.Input.Type {
	case InputFile, "":
	case InputMySQL:
		if c.Input.IsArray {
			errors = append(errors, ValidationError{
				Field:   "input.is_array",
				Message: "is_array only applies to file input",
			})
		}
	default:
		errors = append(errors, ValidationError{
			Field:   "input.type",
			Message: "type must be 'file' or 'mysql'",
		})
	}

	return errors
}

func (c *Config) validateFlatten() ValidationErrors {
	var errors ValidationErrors

	for i, path := range c.Flatten.RetainPaths {
		field := fmt.Sprintf("flatten.retain_paths[%d]", i)
		if strings.TrimSpace(path) == "" {
			errors = append(errors, ValidationError{
				Field:   field,
				Message: "retain path cannot be empty",
			})
			continue
		}
		for _, segment := range strings.Split(path, ".") {
			if segment == "" {
				errors = append(errors, ValidationError{
					Field:   field,
					Message: fmt.Sprintf("retain path %q has an empty segment", path),
				})
				break
			}
		}
	}

	return errors
}

func (c *Config) validateDatabase() ValidationErrors {
	var errors ValidationErrors
	db := &c.Database

	if db.Host == "" {
		errors = append(errors, ValidationError{
			Field:   "database.host",
			Message: "host is required",
		})
	}

	if db.Port <= 0 || db.Port > 65535 {
		errors = append(errors, ValidationError{
			Field:   "database.port",
			Message: "port must be between 1 and 65535",
		})
	}

	if db.User == "" {
		errors = append(errors, ValidationError{
			Field:   "database.user",
			Message: "user is required",
		})
	}

	if db.Database == "" {
		errors = append(errors, ValidationError{
			Field:   "database.database",
			Message: "database name is required",
		})
	}

	validTLS := map[string]bool{"disable": true, "preferred": true, "required": true, "": true}
	if !validTLS[db.TLS] {
		errors = append(errors, ValidationError{
			Field:   "database.tls",
			Message: "tls must be 'disable', 'preferred', or 'required'",
		})
	}

	switch {
	case db.Query == "" && db.Table == "":
		errors = append(errors, ValidationError{
			Field:   "database.query",
			Message: "either query or table is required",
		})
	case db.Query != "" && db.Table != "":
		errors = append(errors, ValidationError{
			Field:   "database.table",
			Message: "query and table are mutually exclusive",
		})
	case db.Table != "":
		if _, err := sqlutil.QuoteTable(db.Table); err != nil {
			errors = append(errors, ValidationError{
				Field:   "database.table",
				Message: err.Error(),
			})
		}
	}

	return errors
}

func (c *Config) validateLogging() ValidationErrors {
	var errors ValidationErrors

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true, "": true}
	if !validLevels[c.Logging.Level] {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Message: "level must be 'debug', 'info', 'warn', or 'error'",
		})
	}

	validFormats := map[string]bool{"json": true, "text": true, "": true}
	if !validFormats[c.Logging.Format] {
		errors = append(errors, ValidationError{
			Field:   "logging.format",
			Message: "format must be 'json' or 'text'",
		})
	}

	if c.Logging.Output == "stdout" || c.Logging.Output == "-" {
		errors = append(errors, ValidationError{
			Field:   "logging.output",
			Message: "output must be 'stderr' or a file path; stdout carries the CSV",
		})
	}

	return errors
}
