package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/teemow/yotei/internal/config"
	"github.com/teemow/yotei/internal/logging"
)

// discoverFunc lists the calendars of one account.
type discoverFunc func(ctx context.Context, account string) (map[string]string, error)

func newAddTokenCmd(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "add-token <id>",
		Short: "Authorize a Google account and add all its calendars",
		Long: `Authorize a new Google account under the given ID. Unless a valid token
is already stored, a browser window opens for the consent. All calendars of
the account are then added to calendars.json; remove the ones you do not
want announced.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateOutput(output); err != nil {
				return err
			}
			conf, err := a.loadCalendars()
			if err != nil {
				return err
			}
			return runAddToken(cmd.Context(), cmd.OutOrStdout(), a.settings.CalendarsPath(), conf, args[0], output,
				a.aggregator().Discover)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", outputYAML, "Format of the discovered calendars: yaml or json")

	return cmd
}

// runAddToken adds the calendars of account id to conf and saves it to path.
// An id that is already configured is rejected before discover is called.
func runAddToken(ctx context.Context, out io.Writer, path string, conf config.Calendars, id, output string, discover discoverFunc) error {
	if conf.Has(id) {
		fmt.Fprintf(out, "Account ID %s is already in %s\n", id, path)
		return fmt.Errorf("account %s: %w", id, config.ErrAccountExists)
	}

	calendars, err := discover(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to discover calendars of %s: %w", id, err)
	}
	if err := printCalendars(out, output, calendars); err != nil {
		return err
	}

	if err := conf.Add(id, calendars); err != nil {
		return err
	}
	if err := config.Save(path, conf); err != nil {
		return err
	}

	logging.WithOperation(slog.Default(), "add-token").Debug("account added",
		logging.Account(id), logging.Count(len(calendars)))
	fmt.Fprintf(out, "Added all the %s's calendars to %s. Remove unnecessary ones.\n", id, path)
	return nil
}
