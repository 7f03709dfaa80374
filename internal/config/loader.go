package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/spf13/viper"
)

// Load reads configuration from the specified file path.
// It supports YAML files and performs environment variable substitution.
// An empty path returns the defaults.
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		return DefaultConfig(), nil
	}

	v := viper.New()

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return LoadFromViper(v)
}

// LoadFromViper creates a Config from an existing Viper instance.
// Useful for testing or when Viper is configured externally.
func LoadFromViper(v *viper.Viper) (*Config, error) {
	cfg := DefaultConfig()

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	substituteEnvVars(cfg)

	return cfg, nil
}

// envVarPattern matches ${VAR_NAME} or $VAR_NAME patterns
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}|\$([A-Za-z_][A-Za-z0-9_]*)`)

// substituteEnvVars replaces ${VAR_NAME} patterns with environment variable values.
func substituteEnvVars(cfg *Config) {
	cfg.Input.Path = expandEnvVar(cfg.Input.Path)
	cfg.Output.Path = expandEnvVar(cfg.Output.Path)

	cfg.Database.Host = expandEnvVar(cfg.Database.Host)
	cfg.Database.User = expandEnvVar(cfg.Database.User)
	cfg.Database.Password = expandEnvVar(cfg.Database.Password)
	cfg.Database.Database = expandEnvVar(cfg.Database.Database)

	cfg.Logging.Output = expandEnvVar(cfg.Logging.Output)
}

// expandEnvVar expands environment variables in the format ${VAR} or $VAR.
func expandEnvVar(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		var varName string
		if strings.HasPrefix(match, "${") {
			varName = match[2 : len(match)-1]
		} else {
			varName = match[1:]
		}

		if value, exists := os.LookupEnv(varName); exists {
			return value
		}
		// Return original if env var not found
		return match
	})
}

// Overrides carries CLI flag values layered on top of the config file.
// Booleans only switch a setting on; pointer fields are applied when non-nil.
type Overrides struct {
	InputPath          string
	OutputPath         string
	OnlyShowHeaders    bool
	UseFirstRowHeaders bool
	IsArray            bool
	RetainPaths        []string
	RetainArrays       *bool
	Quiet              bool
	Query              string
	Table              string
	LogLevel           string
	LogFormat          string
}

// ApplyOverrides applies CLI flag overrides to the configuration.
// Only non-zero/non-empty values are applied.
func (c *Config) ApplyOverrides(o Overrides) {
	if o.InputPath != "" {
		c.Input.Path = o.InputPath
	}
	if o.OutputPath != "" {
		c.Output.Path = o.OutputPath
	}
	if o.OnlyShowHeaders {
		c.Headers.OnlyShow = true
	}
	if o.UseFirstRowHeaders {
		c.Headers.UseFirstRow = true
	}
	if o.IsArray {
		c.Input.IsArray = true
	}
	if len(o.RetainPaths) > 0 {
		c.Flatten.RetainPaths = append(c.Flatten.RetainPaths, o.RetainPaths...)
	}
	if o.RetainArrays != nil {
		c.Flatten.RetainArrays = *o.RetainArrays
	}
	if o.Quiet {
		c.Progress.Enabled = false
	}
	if o.Query != "" {
		c.Database.Query = o.Query
		c.Database.Table = ""
	}
	if o.Table != "" {
		c.Database.Table = o.Table
		c.Database.Query = ""
	}
	if c.Database.Query != "" || c.Database.Table != "" {
		c.Input.Type = InputMySQL
	}
	if o.LogLevel != "" {
		c.Logging.Level = o.LogLevel
	}
	if o.LogFormat != "" {
		c.Logging.Format = o.LogFormat
	}
}
