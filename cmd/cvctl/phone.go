package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mikemtdev/career-lift/internal/phone"
)

func newPhoneCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "phone",
		Short: "Classify and format phone numbers",
	}

	lookup := &cobra.Command{
		Use:   "lookup NUMBER",
		Short: "Identify the country and operator of a number",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeJSON(cmd.OutOrStdout(), phone.Classify(args[0]))
		},
	}

	var local bool
	format := &cobra.Command{
		Use:   "format NUMBER",
		Short: "Format a number for display",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), phone.Format(args[0], !local))
			return err
		},
	}
	format.Flags().BoolVar(&local, "local", false, "Omit the country code")

	validate := &cobra.Command{
		Use:   "validate NUMBER COUNTRY",
		Short: "Check a number belongs to a country (ISO code)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			iso := strings.ToUpper(strings.TrimSpace(args[1]))
			return writeJSON(cmd.OutOrStdout(), map[string]any{
				"isValid": phone.ValidateForCountry(args[0], iso),
				"country": iso,
			})
		},
	}

	operators := &cobra.Command{
		Use:   "operators COUNTRY",
		Short: "List operators for a country (ISO code)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeJSON(cmd.OutOrStdout(), phone.Operators(strings.ToUpper(args[0])))
		},
	}

	prefixes := &cobra.Command{
		Use:   "prefixes COUNTRY OPERATOR",
		Short: "Show the prefixes assigned to an operator",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, ok := phone.OperatorPrefixes(strings.ToUpper(args[0]), args[1])
			if !ok {
				return fmt.Errorf("operator not found: %s", args[1])
			}
			return writeJSON(cmd.OutOrStdout(), p)
		},
	}

	cmd.AddCommand(lookup, format, validate, operators, prefixes)
	return cmd
}
