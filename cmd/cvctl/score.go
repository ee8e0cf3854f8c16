package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mikemtdev/career-lift/internal/ats"
	"github.com/mikemtdev/career-lift/resume/contract"
	"github.com/mikemtdev/career-lift/resume/model"
)

func newScoreCmd() *cobra.Command {
	var in string
	cmd := &cobra.Command{
		Use:   "score",
		Short: "Print the ATS score of a CV document",
		RunE: func(cmd *cobra.Command, _ []string) error {
			doc, err := readDocument(in)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), ats.Score(doc.CV))
		},
	}
	cmd.Flags().StringVarP(&in, "in", "i", "", "Path to CV document JSON (required)")
	if err := cmd.MarkFlagRequired("in"); err != nil {
		panic(fmt.Sprintf("failed to mark in flag as required: %v", err))
	}
	return cmd
}

func readDocument(path string) (model.Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return model.Document{}, fmt.Errorf("failed to read cv file: %w", err)
	}
	doc, err := contract.Decode(raw)
	if err != nil {
		return model.Document{}, fmt.Errorf("invalid cv document: %w", err)
	}
	return doc, nil
}
