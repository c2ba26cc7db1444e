// Package main is the docdupe entry point and composition root.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/docdupe/internal/adapters/driven/config/file"
	"github.com/custodia-labs/docdupe/internal/adapters/driven/fingerprint"
	"github.com/custodia-labs/docdupe/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/docdupe/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/docdupe/internal/adapters/driving/cli"
	"github.com/custodia-labs/docdupe/internal/connectors/filesystem"
	"github.com/custodia-labs/docdupe/internal/core/domain"
	"github.com/custodia-labs/docdupe/internal/core/ports/driven"
	"github.com/custodia-labs/docdupe/internal/core/services"
	"github.com/custodia-labs/docdupe/internal/extractors"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

// homeEnv overrides the configuration directory.
const homeEnv = "DOCDUPE_HOME"

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env if present; a missing file is not an error.
	_ = godotenv.Load()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	dir := os.Getenv(homeEnv)
	if dir == "" {
		d, err := file.DefaultDir()
		if err != nil {
			return err
		}
		dir = d
	}

	configStore, err := file.NewConfigStore(dir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore)

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}

	reportStore, closeStore, err := openReportStore(settings.Storage.Backend, filepath.Join(dir, "data"))
	if err != nil {
		return err
	}
	defer closeStore()

	guard := services.NewCorpusGuard()

	cli.SetVersion(version)
	cli.SetServices(cli.Services{
		Scan: services.NewScanService(
			filesystem.NewWalker(),
			fingerprint.NewMD5(),
			extractors.NewDefaultRegistry(),
			guard,
			settings.Scan.Workers,
		),
		Document: services.NewDocumentService(filesystem.NewRemover(settings.Delete.MaxRetries), guard),
		Report:   services.NewReportService(reportStore, settings.Report.History),
		Settings: settingsService,
	})

	return cli.Execute(ctx)
}

// openReportStore opens the configured report backend. The returned func
// releases it.
func openReportStore(backend domain.StorageBackend, dataDir string) (driven.ReportStore, func(), error) {
	if backend == domain.StorageBackendMemory {
		return memory.NewReportStore(), func() {}, nil
	}

	store, err := sqlite.NewStore(dataDir)
	if err != nil {
		return nil, nil, fmt.Errorf("opening report database: %w", err)
	}

	return store.ReportStore(), func() {
		if err := store.Close(); err != nil {
			fmt.Fprintln(os.Stderr, "Warning: closing report database:", err)
		}
	}, nil
}
