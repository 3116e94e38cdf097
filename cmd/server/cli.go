package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/aethra/equivalencias/internal/backend"
	"github.com/aethra/equivalencias/internal/models"
	"github.com/aethra/equivalencias/internal/panel"
	"github.com/aethra/equivalencias/internal/ui"
	"github.com/spf13/cobra"
)

func newListCmd() *cobra.Command {
	var (
		search string
		sortBy string
		desc   bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List equivalences from the backend",
		Long: `List fetches the collection once and prints it through the same filter
and sort the panel uses. --search and --sort are applied to the full
collection independently; when both are given the sort wins, as in the panel.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			client, err := backend.NewClient(cfg.Backend.URL, cfg.Backend.Timeout)
			if err != nil {
				return err
			}
			records, err := client.List(cmdContext(cmd))
			if err != nil {
				return fmt.Errorf("list equivalencias: %w", err)
			}

			view := panel.Filter(records, search)
			if sortBy != "" {
				col, err := models.ParseColumn(sortBy)
				if err != nil {
					return err
				}
				dir := panel.Asc
				if desc {
					dir = panel.Desc
				}
				view = panel.NewSorter(cfg.LocaleTag()).Sort(records, col, dir)
			}

			return printRecords(cmd.OutOrStdout(), view)
		},
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "case-insensitive substring filter")
	cmd.Flags().StringVar(&sortBy, "sort", "", "column key or index (0-7) to sort by")
	cmd.Flags().BoolVar(&desc, "desc", false, "sort descending")
	return cmd
}

func newCheckAuthCmd() *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "check-auth",
		Short: "Check the backend session, optionally logging in first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			client, err := backend.NewClient(cfg.Backend.URL, cfg.Backend.Timeout)
			if err != nil {
				return err
			}
			ctx := cmdContext(cmd)

			if username != "" {
				if _, err := client.Login(ctx, username, password); err != nil {
					return fmt.Errorf("login: %w", err)
				}
				defer func() { _ = client.Logout(ctx) }()
			}

			session, err := client.CheckAuth(ctx)
			if err != nil {
				return fmt.Errorf("check auth: %w", err)
			}
			out := cmd.OutOrStdout()
			if !session.Authenticated {
				fmt.Fprintln(out, "not authenticated")
				return nil
			}
			fmt.Fprintf(out, "authenticated as %s\n", session.Username)
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "log in with this user before checking")
	cmd.Flags().StringVarP(&password, "password", "p", "", "password for --username")
	return cmd
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func printRecords(w io.Writer, records []models.Equivalencia) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprint(tw, "ID")
	for _, col := range models.Columns {
		fmt.Fprintf(tw, "\t%s", col.Label())
	}
	fmt.Fprintln(tw)

	for _, rec := range records {
		fmt.Fprintf(tw, "%d", rec.ID)
		for _, col := range models.Columns {
			value := rec.Field(col)
			if col == models.ColJustificativa {
				value = ui.Truncate(value)
			}
			fmt.Fprintf(tw, "\t%s", value)
		}
		fmt.Fprintln(tw)
	}
	fmt.Fprintf(tw, "\n%d equivalência(s)\n", len(records))
	return tw.Flush()
}
