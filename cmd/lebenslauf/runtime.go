package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/lebenslauf/internal/app"
	"github.com/jonathan/lebenslauf/internal/config"
	"github.com/jonathan/lebenslauf/internal/export"
	"github.com/jonathan/lebenslauf/internal/logging"
	"github.com/jonathan/lebenslauf/internal/persistence"
	"github.com/jonathan/lebenslauf/internal/storage"
)

// loadConfig resolves the configuration. Precedence, highest first: flags,
// environment, config file, defaults.
func (o *rootOptions) loadConfig(cmd *cobra.Command) (config.Config, error) {
	var file config.Config
	if o.configPath != "" {
		c, err := config.LoadConfig(o.configPath)
		if err != nil {
			return config.Config{}, err
		}
		file = *c
	}

	env := config.FromEnv()
	cfg := env.MergeWithDefaults(file)
	cfg = cfg.MergeWithDefaults(config.Defaults())
	// Verbose only switches on: any of file, env or flag enables it.
	cfg.Verbose = file.Verbose || env.Verbose || o.verbose

	flags := cmd.Flags()
	if flags.Changed("data-dir") {
		cfg.DataDir = o.dataDir
	}
	if flags.Changed("lang") {
		cfg.DefaultLang = o.lang
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// session bundles what most commands need.
type session struct {
	cfg config.Config
	log logging.Logger
	ws  *app.Workspace
}

// openSession loads the config and opens the workspace on the data dir.
func (o *rootOptions) openSession(cmd *cobra.Command) (*session, error) {
	cfg, err := o.loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	log := logging.New(cmd.ErrOrStderr(), cfg.Verbose)

	local, err := storage.NewFileStore(cfg.DataDir, cfg.StorageQuota)
	if err != nil {
		return nil, fmt.Errorf("failed to open data dir: %w", err)
	}
	store := persistence.NewAdapter(local, storage.NewMemoryStore(0), log)

	ws, err := app.Open(cmd.Context(), store, log)
	if err != nil {
		return nil, fmt.Errorf("failed to load cv: %w", err)
	}
	log.Debug(cmd.Context(), "workspace opened", "data_dir", cfg.DataDir)
	return &session{cfg: cfg, log: log, ws: ws}, nil
}

// pdfExporter starts Chrome and wires the export engine to the workspace.
// The returned func stops the browser.
func (s *session) pdfExporter(ctx context.Context) (*app.PDFExporter, func(), error) {
	renderer, err := export.NewRenderer(ctx, s.log, export.RendererOptions{
		ExecPath:      s.cfg.ChromePath,
		ViewportWidth: s.cfg.ViewportWidth,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to start Chrome (set CHROME_PATH to override the binary): %w", err)
	}
	engine := export.NewEngine(s.log, export.Options{ImageTimeout: s.cfg.ImageWait()})
	return app.NewPDFExporter(s.ws, renderer, engine), renderer.Close, nil
}

// writeOutput writes body to path, or to the command's stdout for "-".
func writeOutput(cmd *cobra.Command, path string, body []byte) error {
	if path == "-" {
		_, err := cmd.OutOrStdout().Write(body)
		return err
	}
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
