package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/dbsmedya/ndjson2csv/internal/config"
	"github.com/dbsmedya/ndjson2csv/internal/database"
	"github.com/dbsmedya/ndjson2csv/internal/logger"
	"github.com/dbsmedya/ndjson2csv/internal/output"
	"github.com/dbsmedya/ndjson2csv/internal/pipeline"
	"github.com/dbsmedya/ndjson2csv/internal/progress"
	"github.com/dbsmedya/ndjson2csv/internal/source"
)

func runConvert(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}

	log, err := logger.New(&cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer log.Sync()

	ctx, stop := withShutdownSignals(cmd.Context(), func(sig os.Signal) {
		log.Warnw("Received shutdown signal, stopping", "signal", sig.String())
	})
	defer stop()

	src, closeSource, err := openSource(ctx, cmd, cfg, log)
	if err != nil {
		return err
	}
	defer closeSource()

	opts := pipeline.OptionsFromConfig(cfg)
	if cfg.Progress.Enabled && isTerminal(cmd.ErrOrStderr()) {
		opts.Progress = progress.New(cmd.ErrOrStderr(), cfg.Progress.Width)
	}

	orch, err := pipeline.NewOrchestrator(src, opts, log)
	if err != nil {
		return err
	}

	if cfg.Headers.OnlyShow {
		res, err := orch.Run(ctx, nil)
		if err != nil {
			return err
		}
		printer := output.NewHeaderPrinter(cmd.OutOrStdout(), isTerminal(cmd.OutOrStdout()))
		return printer.Print(res.Headers.Names())
	}

	w, err := newCSVWriter(cmd, cfg)
	if err != nil {
		return err
	}

	res, err := orch.Run(ctx, w)
	if closeErr := w.Close(); err == nil && closeErr != nil {
		err = closeErr
	}
	if err != nil {
		return err
	}

	log.Debugw("Run statistics",
		"records", res.Stats.Discovered,
		"rows", res.Stats.Written,
		"csv_rows", w.Count(),
		"columns", res.Stats.Columns,
		"rows_with_dropped_columns", res.Stats.RowsWithExtras,
	)
	return nil
}

// openSource builds the configured record source and returns a function
// that releases it.
func openSource(ctx context.Context, cmd *cobra.Command, cfg *config.Config, log *logger.Logger) (source.Source, func(), error) {
	if cfg.Input.Type == config.InputMySQL {
		dbManager := database.NewManager(&cfg.Database, database.WithLogger(log))
		if err := dbManager.Connect(ctx); err != nil {
			return nil, nil, err
		}

		src, err := source.NewMySQLSource(dbManager.DB, &cfg.Database)
		if err != nil {
			dbManager.Close()
			return nil, nil, err
		}
		log.Infow("Reading records from MySQL", "query", src.Query())
		return src, func() {
			if err := dbManager.Close(); err != nil {
				log.Warnw("Failed to close database connection", "error", err)
			}
		}, nil
	}

	var opts []source.FileOption
	if in := cmd.InOrStdin(); in != io.Reader(os.Stdin) {
		opts = append(opts, source.WithStdin(in))
	}
	src := source.NewFileSource(cfg.Input.Path, cfg.Input.IsArray, opts...)
	return src, func() {
		if err := src.Close(); err != nil {
			log.Warnw("Failed to clean up input", "error", err)
		}
	}, nil
}

func newCSVWriter(cmd *cobra.Command, cfg *config.Config) (*output.CSVWriter, error) {
	if cfg.Output.IsStdout() {
		return output.NewCSVWriter(cmd.OutOrStdout()), nil
	}
	return output.NewFileCSVWriter(cfg.Output.Path)
}

// isTerminal reports whether w is a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
