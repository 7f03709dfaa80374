// Package config provides configuration structures and loading for ndjson-to-csv.
package config

// Config represents the complete application configuration.
type Config struct {
	Input        InputConfig        `yaml:"input" mapstructure:"input"`
	Headers      HeadersConfig      `yaml:"headers" mapstructure:"headers"`
	Flatten      FlattenConfig      `yaml:"flatten" mapstructure:"flatten"`
	Output       OutputConfig       `yaml:"output" mapstructure:"output"`
	Database     DatabaseConfig     `yaml:"database" mapstructure:"database"`
	Progress     ProgressConfig     `yaml:"progress" mapstructure:"progress"`
	Verification VerificationConfig `yaml:"verification" mapstructure:"verification"`
	Logging      LoggingConfig      `yaml:"logging" mapstructure:"logging"`
}

// Input source types.
const (
	InputFile  = "file"
	InputMySQL = "mysql"
)

// InputConfig selects where records are read from and how they are framed.
type InputConfig struct {
	Type    string `yaml:"type" mapstructure:"type"`         // file or mysql
	Path    string `yaml:"path" mapstructure:"path"`         // file path, "-" or empty for stdin
	IsArray bool   `yaml:"is_array" mapstructure:"is_array"` // single top-level JSON array instead of NDJSON
}

// HeadersConfig controls header discovery.
type HeadersConfig struct {
	OnlyShow    bool `yaml:"only_show" mapstructure:"only_show"`
	UseFirstRow bool `yaml:"use_first_row" mapstructure:"use_first_row"`
}

// FlattenConfig controls how nested records become columns.
type FlattenConfig struct {
	RetainPaths  []string `yaml:"retain_paths" mapstructure:"retain_paths"`
	RetainArrays bool     `yaml:"retain_arrays" mapstructure:"retain_arrays"`
}

// OutputConfig selects the CSV destination.
type OutputConfig struct {
	Path string `yaml:"path" mapstructure:"path"` // empty or "-" for stdout
}

// DatabaseConfig represents a MySQL connection used as a record source.
type DatabaseConfig struct {
	Host               string `yaml:"host" mapstructure:"host"`
	Port               int    `yaml:"port" mapstructure:"port"`
	User               string `yaml:"user" mapstructure:"user"`
	Password           string `yaml:"password" mapstructure:"password"`
	Database           string `yaml:"database" mapstructure:"database"`
	TLS                string `yaml:"tls" mapstructure:"tls"` // disable, preferred, required
	MaxConnections     int    `yaml:"max_connections" mapstructure:"max_connections"`
	MaxIdleConnections int    `yaml:"max_idle_connections" mapstructure:"max_idle_connections"`
	Query              string `yaml:"query" mapstructure:"query"`
	Table              string `yaml:"table" mapstructure:"table"`
}

// ProgressConfig controls the progress bar on stderr.
type ProgressConfig struct {
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
	Width   int  `yaml:"width" mapstructure:"width"` // 0 means terminal width
}

// VerificationConfig controls the check that both passes read the same input.
type VerificationConfig struct {
	Method string `yaml:"method" mapstructure:"method"` // count, sha256, or skip
}

// LoggingConfig represents logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`   // debug, info, warn, error
	Format string `yaml:"format" mapstructure:"format"` // json or text
	Output string `yaml:"output" mapstructure:"output"` // stdout, stderr, or file path
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() *Config {
	return &Config{
		Input: InputConfig{
			Type: InputFile,
			Path: "-",
		},
		Flatten: FlattenConfig{
			RetainArrays: true,
		},
		Database: DatabaseConfig{
			Port:               3306,
			TLS:                "preferred",
			MaxConnections:     2,
			MaxIdleConnections: 1,
		},
		Progress: ProgressConfig{
			Enabled: true,
		},
		Verification: VerificationConfig{
			Method: "count",
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "text",
			Output: "stderr",
		},
	}
}

// IsStdin reports whether the input path refers to standard input.
func (c *InputConfig) IsStdin() bool {
	return c.Path == "" || c.Path == "-"
}

// IsStdout reports whether CSV goes to standard output.
func (c *OutputConfig) IsStdout() bool {
	return c.Path == "" || c.Path == "-"
}
