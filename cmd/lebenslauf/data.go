package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/lebenslauf/internal/comments"
	"github.com/jonathan/lebenslauf/internal/i18n"
)

var errNeedsConfirmation = errors.New("pass --yes to confirm")

func newExportCmd(root *rootOptions) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the stored CV as a JSON export file",
		Long: `Write the stored CV wrapped in a {version, timestamp, data} envelope.
Without --out the file is named lebenslauf_<yyyy-mm-dd>.json.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := root.openSession(cmd)
			if err != nil {
				return err
			}
			name := out
			if name == "-" {
				name = ""
			}
			f, err := s.ws.Export(name)
			if err != nil {
				return err
			}
			path := out
			if path == "" {
				path = f.Name
			}
			if err := writeOutput(cmd, path, f.Body); err != nil {
				return err
			}
			if path != "-" {
				fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", path)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", `Output file ("-" for stdout)`)
	return cmd
}

func newImportCmd(root *rootOptions) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the stored CV with a JSON export file",
		Long: `Replace the stored CV with the data of an export file. A stored CV with
content is only replaced when --yes is given. A file that fails to parse
leaves the stored CV untouched.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := root.openSession(cmd)
			if err != nil {
				return err
			}
			if !yes && !s.ws.Data().IsEmpty() {
				return fmt.Errorf("%s: %w", i18n.T(s.cfg.Lang(), i18n.KeyErrConfirmImport), errNeedsConfirmation)
			}

			contents, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[0], err)
			}
			data, err := s.ws.Import(cmd.Context(), contents)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Imported %q: %d experience, %d education, %d skills, %d languages\n",
				data.PersonalInfo.FullName(), len(data.Experience), len(data.Education), len(data.Skills), len(data.Languages))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Replace a non-empty stored CV")
	return cmd
}

func newClearCmd(root *rootOptions) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete the stored CV and customization",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				return errNeedsConfirmation
			}
			s, err := root.openSession(cmd)
			if err != nil {
				return err
			}
			return s.ws.Clear(cmd.Context())
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Confirm deletion")
	return cmd
}

func newMigrateCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the comments database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := root.loadConfig(cmd)
			if err != nil {
				return err
			}
			if cfg.DatabaseURL == "" {
				return fmt.Errorf("DATABASE_URL environment variable is required")
			}
			if err := comments.Migrate(cmd.Context(), cfg.DatabaseURL); err != nil {
				return err
			}
			fmt.Fprintln(cmd.ErrOrStderr(), "Migrations applied")
			return nil
		},
	}
}
