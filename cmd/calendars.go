package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const (
	outputYAML = "yaml"
	outputJSON = "json"
)

func newCalendarsCmd(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "calendars",
		Short: "Show the calendars every configured account can see",
		Long: `Ask Google for the calendar list of every account in calendars.json and
print it as calendar ID to name per account. Use it to pick the calendar IDs
to keep in calendars.json.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateOutput(output); err != nil {
				return err
			}
			conf, err := a.loadCalendars()
			if err != nil {
				return err
			}
			all, err := a.aggregator().Calendars(cmd.Context(), conf)
			if err != nil {
				return err
			}
			return printCalendars(cmd.OutOrStdout(), output, all)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", outputYAML, "Output format: yaml or json")

	return cmd
}

func validateOutput(output string) error {
	switch output {
	case outputYAML, outputJSON:
		return nil
	default:
		return fmt.Errorf("unsupported output format %q (supported: yaml, json)", output)
	}
}

// printCalendars pretty-prints a calendar mapping. Both formats sort the
// keys.
func printCalendars(w io.Writer, output string, v interface{}) error {
	switch output {
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "    ")
		enc.SetEscapeHTML(false)
		return enc.Encode(v)
	default:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to encode calendars: %w", err)
		}
		return enc.Close()
	}
}

