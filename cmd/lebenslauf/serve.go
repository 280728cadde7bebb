package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jonathan/lebenslauf/internal/comments"
	"github.com/jonathan/lebenslauf/internal/server"
)

func newServeCmd(root *rootOptions) *cobra.Command {
	var port int
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the local editor and preview server",
		Long: `Start an HTTP server that exposes the CV editor API, the live preview at
/{lang}/lebenslauf and PDF export. Comments are enabled when DATABASE_URL is set.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := root.openSession(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				s.cfg.Port = port
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			exporter, closeBrowser, err := s.pdfExporter(ctx)
			if err != nil {
				return err
			}
			defer closeBrowser()

			deps := server.Deps{Workspace: s.ws, Exporter: exporter, Log: s.log}
			if s.cfg.DatabaseURL != "" {
				if err := comments.Migrate(ctx, s.cfg.DatabaseURL); err != nil {
					return err
				}
				store, err := comments.Connect(ctx, s.cfg.DatabaseURL, s.log)
				if err != nil {
					return err
				}
				defer store.Close()
				deps.Comments = store
			} else {
				s.log.Info(ctx, "DATABASE_URL not set, comments disabled")
			}

			srv := server.New(server.Config{Port: s.cfg.Port, DefaultLang: s.cfg.Lang()}, deps)
			fmt.Fprintf(cmd.ErrOrStderr(), "Preview: http://localhost:%d/%s/lebenslauf\n", s.cfg.Port, s.cfg.Lang())
			return srv.Start(ctx)
		},
	}
	cmd.Flags().IntVarP(&port, "port", "p", 8080, "Port to listen on")
	return cmd
}
