package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mikemtdev/career-lift/internal/extract"
	"github.com/mikemtdev/career-lift/resume/render"
)

func newRenderCmd() *cobra.Command {
	var in, out string
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a CV document to PDF",
		RunE: func(cmd *cobra.Command, _ []string) error {
			doc, err := readDocument(in)
			if err != nil {
				return err
			}
			data, err := render.PDF(doc.Title, doc.CV)
			if err != nil {
				return fmt.Errorf("render pdf: %w", err)
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return fmt.Errorf("write pdf: %w", err)
			}
			pages, err := extract.PageCount(data)
			if err != nil {
				return fmt.Errorf("inspect pdf: %w", err)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d bytes, %d pages)\n", out, len(data), pages)
			return err
		},
	}
	cmd.Flags().StringVarP(&in, "in", "i", "", "Path to CV document JSON (required)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Path to output PDF (required)")
	for _, name := range []string{"in", "out"} {
		if err := cmd.MarkFlagRequired(name); err != nil {
			panic(fmt.Sprintf("failed to mark %s flag as required: %v", name, err))
		}
	}
	return cmd
}
