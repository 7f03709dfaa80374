package cmd

import (
	"fmt"
	"os"

	"github.com/gookit/color"
	"github.com/spf13/cobra"

	"github.com/dbsmedya/ndjson2csv/internal/config"
)

// Version information (set via ldflags at build time)
var (
	Version = "0.0.1-dev"
	Commit  = "unknown"
)

// CLI flags that override config file values
var (
	cfgFile   string
	logLevel  string
	logFormat string

	onlyShowHeaders    bool
	useFirstRowHeaders bool
	isArray            bool
	retainPaths        []string
	retainArrays       bool
	quiet              bool
	outputPath         string
	query              string
	table              string
)

var rootCmd = &cobra.Command{
	Use:   "ndjson-to-csv [filename]",
	Short: "Convert newline-delimited JSON to CSV",
	Long: `Convert a stream of JSON records into CSV.

Nested objects become dotted-path columns (user.address.city). The input is
read twice: once to discover every column, once to write the rows, so each
row has the same columns in the same order without holding the input in
memory. Reads standard input when no filename (or "-") is given.

Examples:
  ndjson-to-csv events.ndjson > events.csv
  cat events.ndjson | ndjson-to-csv -r payload -o events.csv
  ndjson-to-csv -a -e export.json
  ndjson-to-csv -c source.yaml --table events`,
	Version:       Version,
	Args:          cobra.MaximumNArgs(1),
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE:          runConvert,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(rootCmd.ErrOrStderr(), color.Red.Sprint("Error: "+err.Error()))
		os.Exit(1)
	}
}

func init() {
	// Config file flag
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"Path to configuration file (optional)")

	// Logging overrides
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"Override log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "",
		"Override log format (json, text)")

	// Conversion flags
	rootCmd.Flags().BoolVarP(&onlyShowHeaders, "only-show-headers", "e", false,
		"Only list the headers from the input")
	rootCmd.Flags().BoolVarP(&useFirstRowHeaders, "use-first-row-headers", "f", false,
		"Use the headers from the first record (faster)")
	rootCmd.Flags().BoolVarP(&isArray, "is-array", "a", false,
		"Input is a single JSON array")
	rootCmd.Flags().StringArrayVarP(&retainPaths, "retain", "r", nil,
		"A dotted path under which to retain the JSON structure (repeatable)")
	rootCmd.Flags().BoolVar(&retainArrays, "retain-arrays", true,
		"Keep arrays as JSON text instead of expanding them into indexed columns")
	rootCmd.Flags().BoolVarP(&quiet, "quiet", "q", false,
		"Don't print progress (faster)")
	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "",
		"Write CSV to this file instead of stdout")

	// MySQL source
	rootCmd.Flags().StringVar(&query, "query", "",
		"Read records from this MySQL query instead of a file")
	rootCmd.Flags().StringVar(&table, "table", "",
		"Read records from this MySQL table (schema.table allowed)")
}

// GetConfigFile returns the config file path
func GetConfigFile() string {
	return cfgFile
}

// GetCLIOverrides returns the CLI flag override values. args are the
// positional arguments of the root command; cmd is the command being run
// and is used to tell an explicit --retain-arrays from its default.
func GetCLIOverrides(cmd *cobra.Command, args []string) config.Overrides {
	o := config.Overrides{
		OnlyShowHeaders:    onlyShowHeaders,
		UseFirstRowHeaders: useFirstRowHeaders,
		IsArray:            isArray,
		RetainPaths:        retainPaths,
		Quiet:              quiet,
		OutputPath:         outputPath,
		Query:              query,
		Table:              table,
		LogLevel:           logLevel,
		LogFormat:          logFormat,
	}
	if len(args) > 0 {
		o.InputPath = args[0]
	}
	if cmd.Root().Flags().Changed("retain-arrays") {
		v := retainArrays
		o.RetainArrays = &v
	}
	return o
}

// loadConfig reads the config file, layers the flags on top and validates
// the result.
func loadConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg, err := config.Load(GetConfigFile())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	cfg.ApplyOverrides(GetCLIOverrides(cmd, args))

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
