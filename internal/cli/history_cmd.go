package cli

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"fraudlabs-cli/internal/config"
	"fraudlabs-cli/internal/fraudlabs"
	"fraudlabs-cli/internal/history"

	"github.com/spf13/cobra"
)

var errNoHistory = errors.New("history store not configured: run `fraudlabs config set --history-dsn <path>`")

func (a *App) newHistoryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Locally recorded API calls",
	}
	cmd.AddCommand(a.newHistoryListCommand())
	return cmd
}

func (a *App) newHistoryListCommand() *cobra.Command {
	var (
		limit  int
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent calls, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dsn := a.store.Get(config.KeyHistoryDSN)
			if dsn == "" {
				return errNoHistory
			}

			ctx := cmd.Context()
			repo, err := history.Open(ctx, dsn)
			if err != nil {
				return err
			}
			defer repo.Close()

			entries, err := repo.Recent(ctx, limit)
			if err != nil {
				return err
			}

			if asJSON {
				if entries == nil {
					entries = []history.Entry{}
				}
				return a.out.JSON(entries)
			}
			if len(entries) == 0 {
				fmt.Fprintln(a.Stdout, "No history recorded yet.")
				return nil
			}

			tw := tabwriter.NewWriter(a.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "CREATED\tOPERATION\tREFERENCE\tSTATUS\tSCORE")
			for _, e := range entries {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
					e.CreatedAt.Local().Format(time.DateTime), e.Operation, e.Reference, e.Status, e.Score)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of entries")
	cmd.Flags().BoolVar(&asJSON, "json", false, "output as JSON")
	return cmd
}

// record stores a successful call when a history store is configured.
// Failures are logged and never change the command result.
func (a *App) record(ctx context.Context, e history.Entry, resp *fraudlabs.Response) {
	dsn := a.store.Get(config.KeyHistoryDSN)
	if dsn == "" {
		return
	}
	e.Response = string(resp.Raw)

	repo, err := history.Open(ctx, dsn)
	if err != nil {
		a.log.Warn().Err(err).Str("operation", e.Operation).Msg("history unavailable")
		return
	}
	defer repo.Close()

	saved, err := repo.Insert(ctx, e)
	if err != nil {
		a.log.Warn().Err(err).Str("operation", e.Operation).Msg("record history")
		return
	}
	a.log.Debug().Str("id", saved.ID).Str("operation", e.Operation).Msg("history recorded")
}
