// Package main provides the lebenslauf CLI: a local CV builder with a live
// preview server and PDF export.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// rootOptions are the persistent flags shared by every command.
type rootOptions struct {
	configPath string
	verbose    bool
	dataDir    string
	lang       string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "lebenslauf",
		Short: "Local CV builder with live preview and PDF export",
		Long: "lebenslauf keeps a single CV in a local data directory, serves an editor API with a live " +
			"preview and exports the preview as a multi-page A4 PDF.",
		SilenceUsage: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.configPath, "config", "c", "", "Path to a JSON config file")
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "Print debug logs")
	pf.StringVar(&opts.dataDir, "data-dir", "", "Directory holding the stored CV")
	pf.StringVar(&opts.lang, "lang", "", "Display language (tg, ru, de, en)")

	cmd.AddCommand(
		newServeCmd(opts),
		newPreviewCmd(opts),
		newPDFCmd(opts),
		newExportCmd(opts),
		newImportCmd(opts),
		newClearCmd(opts),
		newStatusCmd(opts),
		newMigrateCmd(opts),
	)
	return cmd
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
