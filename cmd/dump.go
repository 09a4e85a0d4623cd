package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/teemow/yotei/internal/calendar"
)

func newDumpCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "dump",
		Short: "Print the events of the next 48 hours as raw JSON",
		Long: `Fetch the events of the next 48 hours from every calendar in
calendars.json, sort them by start and print them as one JSON array of the
Google Calendar API event objects.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			events, err := a.upcoming(cmd)
			if err != nil {
				return err
			}
			return writeDump(cmd.OutOrStdout(), events)
		},
	}
}

// upcoming aggregates the events of the default window.
func (a *app) upcoming(cmd *cobra.Command) ([]calendar.Event, error) {
	conf, err := a.loadCalendars()
	if err != nil {
		return nil, err
	}
	from, to := calendar.DefaultWindow(a.now)
	return a.aggregator().Upcoming(cmd.Context(), conf, from, to)
}

func writeDump(w io.Writer, events []calendar.Event) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(calendar.RawEvents(events)); err != nil {
		return fmt.Errorf("failed to encode events: %w", err)
	}
	return nil
}
