package main

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/medidex/internal/config"
	logpkg "github.com/kailas-cloud/medidex/internal/logger"
	catalogrepo "github.com/kailas-cloud/medidex/internal/repository/catalog"
	ingestuc "github.com/kailas-cloud/medidex/internal/usecase/ingest"
	"github.com/kailas-cloud/medidex/internal/version"
)

type importFlags struct {
	env        string
	driver     string
	addrs      []string
	sqlitePath string
	batchSize  int
}

func newRootCmd() *cobra.Command {
	var f importFlags

	cmd := &cobra.Command{
		Use:   "medidex-import <file.csv>",
		Short: "Replace the medicine catalog with a CSV export",
		Long: `Replace the medicine catalog with a CSV export.

The file needs a header row. Recognized columns: medicine_name (required),
category_name, slug, generic_name, strength, manufacturer_name, unit,
unit_size, price. Existing records are removed before the import.

Catalog settings come from config/<env>.yaml; flags override them.

Examples:
  medidex-import data/medicines.csv
  medidex-import --driver=sqlite --sqlite-path=data/medidex.db data/medicines.csv
  medidex-import --env=prod --batch-size=500 medicines.csv`,
		Args:         cobra.ExactArgs(1),
		Version:      version.String(),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, f, args[0])
		},
	}

	cmd.Flags().StringVar(&f.env, "env", config.GetEnv(), "Config environment (config/<env>.yaml)")
	cmd.Flags().StringVar(&f.driver, "driver", "", "Catalog driver override: redis, valkey or sqlite")
	cmd.Flags().StringSliceVar(&f.addrs, "addr", nil, "Redis/Valkey address override (repeatable)")
	cmd.Flags().StringVar(&f.sqlitePath, "sqlite-path", "", "SQLite database path override")
	cmd.Flags().IntVar(&f.batchSize, "batch-size", ingestuc.DefaultBatchSize, "Records per insert batch")
	return cmd
}

// catalogOptions merges config and flag overrides.
func catalogOptions(cfg config.CatalogConfig, f importFlags) (catalogrepo.Options, error) {
	opts := catalogrepo.Options{
		Driver:           cfg.Driver,
		Addrs:            cfg.Addrs,
		Password:         cfg.Password,
		KeyPrefix:        cfg.KeyPrefix,
		SQLitePath:       cfg.SQLitePath,
		ReadinessTimeout: time.Duration(cfg.ReadinessTimeout) * time.Second,
	}
	if f.driver != "" {
		opts.Driver = f.driver
	}
	if len(f.addrs) > 0 {
		opts.Addrs = f.addrs
	}
	if f.sqlitePath != "" {
		opts.SQLitePath = f.sqlitePath
	}
	if opts.Driver == catalogrepo.DriverMemory || opts.Driver == "" {
		return catalogrepo.Options{}, fmt.Errorf("driver %q does not persist; use redis, valkey or sqlite", opts.Driver)
	}
	return opts, nil
}

func runImport(cmd *cobra.Command, f importFlags, path string) error {
	cfg, err := config.Load(f.env)
	if err != nil {
		return err
	}
	opts, err := catalogOptions(cfg.Catalog, f)
	if err != nil {
		return err
	}

	logger, err := logpkg.NewLogger(f.env, cfg.Logging.Level)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	catalog, closeCatalog, err := catalogrepo.Open(ctx, opts, logger)
	if err != nil {
		return fmt.Errorf("open catalog: %w", err)
	}
	defer closeCatalog()

	start := time.Now()
	report, err := ingestuc.New(catalog, logger).WithBatchSize(f.batchSize).ImportFile(ctx, path)
	if err != nil {
		return err
	}

	logger.Info("Data import completed successfully",
		zap.String("file", path),
		zap.String("driver", opts.Driver),
		zap.Int("rows", report.Rows),
		zap.Int("imported", report.Imported),
		zap.Int("skipped", report.Skipped()),
		zap.Duration("took", time.Since(start)),
	)
	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d medicines (%d skipped) from %s\n",
		report.Imported, report.Skipped(), path)
	return nil
}
