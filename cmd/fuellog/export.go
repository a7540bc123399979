package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pkordes/fuel-logbook/internal/config"
	"github.com/pkordes/fuel-logbook/internal/domain"
	"github.com/pkordes/fuel-logbook/internal/repo"
	"github.com/pkordes/fuel-logbook/internal/service"
	"github.com/pkordes/fuel-logbook/internal/sheet"
)

const defaultTimeout = 10 * time.Second

// exportOptions are the flags shared by both export commands.
type exportOptions struct {
	records  string
	template string
	out      string
	from     string
	to       string
}

func (o *exportOptions) bind(cmd *cobra.Command, defaultTemplate string) {
	cmd.Flags().StringVarP(&o.records, "records", "r", "", "JSON backup of the logbook (required)")
	cmd.Flags().StringVarP(&o.template, "template", "t", defaultTemplate, "template path or http(s) URL")
	cmd.Flags().StringVarP(&o.out, "out", "o", ".", "output directory")
	cmd.Flags().StringVar(&o.from, "from", "", "first date to include (YYYY-MM-DD)")
	cmd.Flags().StringVar(&o.to, "to", "", "last date to include (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("records")
}

// exportFunc is ExportService.Dispatch or ExportService.FuelLog.
type exportFunc func(*service.ExportService, context.Context, domain.RecordFilter, service.DocumentSink) (int, error)

func dispatchCmd() *cobra.Command {
	var opts exportOptions
	cmd := &cobra.Command{
		Use:   "dispatch",
		Short: "Write one dispatch sheet per date and driver",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runExport(cmd, opts, (*service.ExportService).Dispatch)
		},
	}
	opts.bind(cmd, templateDefaults().Dispatch)
	return cmd
}

func fuelLogCmd() *cobra.Command {
	var opts exportOptions
	cmd := &cobra.Command{
		Use:   "fuel-log",
		Short: "Write the fuel consumption log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runExport(cmd, opts, (*service.ExportService).FuelLog)
		},
	}
	opts.bind(cmd, templateDefaults().FuelLog)
	return cmd
}

func runExport(cmd *cobra.Command, opts exportOptions, export exportFunc) error {
	ctx := cmd.Context()

	store, err := loadRecords(ctx, opts.records)
	if err != nil {
		return err
	}

	client := &http.Client{Timeout: templateDefaults().Timeout}
	loader := sheet.NewTemplateLoader(opts.template, client)
	// Both exports share one loader; each command only uses its own.
	svc := service.NewExportService(store, loader, loader, service.WithLogger(slog.Default()))

	filter := domain.RecordFilter{From: opts.from, To: opts.to}
	n, err := export(svc, ctx, filter, service.DirSink{Dir: opts.out})
	if err != nil {
		return fmt.Errorf("export failed after %d document(s): %w", n, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%d document(s) written to %s\n", n, opts.out)
	return nil
}

// loadRecords reads a logbook backup into an in-memory store. Entries go
// through the same validation as the API import.
func loadRecords(ctx context.Context, path string) (repo.RecordRepo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read records: %w", err)
	}
	var legacy []domain.LegacyRecord
	if err := json.Unmarshal(data, &legacy); err != nil {
		return nil, fmt.Errorf("parse records %s: %w", path, err)
	}

	store := repo.NewMemoryRecordRepo()
	if len(legacy) == 0 {
		return store, nil
	}
	if _, err := service.NewRecordService(store).Import(ctx, legacy); err != nil {
		return nil, fmt.Errorf("load records: %w", err)
	}
	return store, nil
}

// templateDefaults reads template settings from the environment, falling
// back to the built-in defaults when the environment is malformed.
func templateDefaults() config.Templates {
	t, err := config.LoadTemplates()
	if err != nil {
		return config.Templates{
			Dispatch: config.DefaultDispatchTemplate,
			FuelLog:  config.DefaultFuelLogTemplate,
			Timeout:  defaultTimeout,
		}
	}
	return t
}
