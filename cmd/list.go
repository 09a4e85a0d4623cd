package cmd

import (
	"github.com/spf13/cobra"

	"github.com/teemow/yotei/internal/speech"
)

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print the events of the next 48 hours as a Japanese announcement",
		Long: `Fetch the events of the next 48 hours and print a greeting with the
current date and time, one line per event with its start spoken relative to
today, and a closing line. The output is meant to be piped into a speech
synthesizer.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			now := a.now()
			events, err := a.upcoming(cmd)
			if err != nil {
				return err
			}
			return speech.Write(cmd.OutOrStdout(), now.Local(), events)
		},
	}
}
