package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/lebenslauf/internal/app"
	"github.com/jonathan/lebenslauf/internal/export"
	"github.com/jonathan/lebenslauf/internal/observability"
	"github.com/jonathan/lebenslauf/internal/rendering"
)

func newPreviewCmd(root *rootOptions) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Write the preview page of the stored CV as HTML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := root.openSession(cmd)
			if err != nil {
				return err
			}
			data, custom := s.ws.Snapshot()
			page, err := rendering.RenderPage(data, custom, s.cfg.Lang(), rendering.PageOptions{})
			if err != nil {
				return err
			}
			return writeOutput(cmd, out, []byte(page))
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "-", `Output file ("-" for stdout)`)
	return cmd
}

func newPDFCmd(root *rootOptions) *cobra.Command {
	var out string
	var quiet bool
	cmd := &cobra.Command{
		Use:   "pdf",
		Short: "Export the stored CV as an A4 PDF",
		Long: `Render the preview in headless Chrome, capture it as one tall image and slice
it across as many A4 pages as needed. Without --out the file is named
Lebenslauf_<last>_<first>.pdf in the current directory.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := root.openSession(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			exporter, closeBrowser, err := s.pdfExporter(ctx)
			if err != nil {
				return err
			}
			defer closeBrowser()

			lang := s.cfg.Lang()
			var progress export.ProgressFunc
			if !quiet {
				progress = func(p export.Progress) {
					fmt.Fprintf(cmd.ErrOrStderr(), "[%3d%%] %s\n", p.Percent, p.Message(lang))
				}
			}

			res, err := exporter.Export(ctx, app.PDFOptions{Lang: lang}, progress)
			if err != nil {
				return err
			}
			path := out
			if path == "" {
				path = res.Filename
			}
			if err := writeOutput(cmd, path, res.PDF); err != nil {
				return err
			}
			switch {
			case path == "-":
			case s.cfg.Verbose:
				observability.NewPrinter(cmd.ErrOrStderr()).PrintExport(path, res)
			default:
				fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s (%d pages)\n", path, res.Pages)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", `Output file ("-" for stdout)`)
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Do not print progress")
	return cmd
}
