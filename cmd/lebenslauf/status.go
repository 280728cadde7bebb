package main

import (
	"github.com/spf13/cobra"

	"github.com/jonathan/lebenslauf/internal/editor"
	"github.com/jonathan/lebenslauf/internal/observability"
)

func newStatusCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Summarize the stored CV and list missing fields",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := root.openSession(cmd)
			if err != nil {
				return err
			}
			data := s.ws.Data()
			saved, _ := s.ws.LastSaved(cmd.Context())

			p := observability.NewPrinter(cmd.OutOrStdout())
			p.PrintCV(data, saved)
			p.PrintCompleteness(editor.CheckCompleteness(data))
			return nil
		},
	}
}
