package cmd

import (
	"fmt"
	"strings"

	"github.com/gookit/color"
	"github.com/spf13/cobra"

	"github.com/dbsmedya/ndjson2csv/internal/config"
	"github.com/dbsmedya/ndjson2csv/internal/database"
	"github.com/dbsmedya/ndjson2csv/internal/header"
	"github.com/dbsmedya/ndjson2csv/internal/logger"
	"github.com/dbsmedya/ndjson2csv/internal/pipeline"
	"github.com/dbsmedya/ndjson2csv/internal/source"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration and check the input source",
	Long: `Validate checks the configuration file and, for a MySQL source, that the
database is reachable and the query runs.

Checks performed:
  - Configuration syntax and required fields
  - Retain path syntax
  - Database connectivity and row count (mysql input only)

Example:
  ndjson-to-csv validate --config source.yaml`,
	Args: cobra.NoArgs,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, nil)
	if err != nil {
		return err
	}

	log, err := logger.New(&cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer log.Sync()

	opts := pipeline.OptionsFromConfig(cfg)

	cmd.Printf("=== Configuration Validation ===\n")
	if GetConfigFile() != "" {
		cmd.Printf("Config file: %s\n", GetConfigFile())
	}
	cmd.Printf("Input: %s\n", describeInput(cfg))
	cmd.Printf("Header strategy: %s\n", opts.Strategy())
	if len(opts.RetainPaths) > 0 {
		cmd.Printf("Retain paths: %s\n", strings.Join(opts.RetainPaths, ", "))
	}
	cmd.Printf("Retain arrays: %t\n", opts.RetainArrays)
	if opts.Strategy() == header.Union {
		cmd.Printf("Pass verification: %s\n", cfg.Verification.Method)
	}

	if cfg.Input.Type == config.InputMySQL {
		ctx := cmd.Context()
		dbManager := database.NewManager(&cfg.Database, database.WithLogger(log))
		if err := dbManager.Connect(ctx); err != nil {
			return err
		}
		defer dbManager.Close()

		if err := dbManager.Ping(ctx); err != nil {
			return fmt.Errorf("database connection failed: %w", err)
		}

		src, err := source.NewMySQLSource(dbManager.DB, &cfg.Database)
		if err != nil {
			return err
		}
		cmd.Printf("Query: %s\n", src.Query())
		n, err := src.Count(ctx)
		if err != nil {
			return err
		}
		cmd.Printf("Database: connected, %d records\n", n)
	}

	cmd.Println(color.Green.Sprint("Configuration is valid"))
	return nil
}

func describeInput(cfg *config.Config) string {
	if cfg.Input.Type == config.InputMySQL {
		target := cfg.Database.Table
		if target == "" {
			target = "query"
		}
		return fmt.Sprintf("mysql %s@%s:%d/%s (%s)",
			cfg.Database.User, cfg.Database.Host, cfg.Database.Port, cfg.Database.Database, target)
	}

	name := cfg.Input.Path
	if cfg.Input.IsStdin() {
		name = "stdin"
	}
	if cfg.Input.IsArray {
		return name + " (JSON array)"
	}
	return name + " (NDJSON)"
}
