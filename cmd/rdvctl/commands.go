package main

import (
	"context"
	"encoding/json"
	"fmt"

	"rendezvous/internal/notification"
	"rendezvous/pkg/app"
	"rendezvous/pkg/config"

	"github.com/spf13/cobra"
)

type env struct {
	cfg      *config.Config
	services *app.Services
	close    func()
}

type opener func(ctx context.Context) (*env, error)

func newRootCmd(open opener) *cobra.Command {
	var current *env

	rootCmd := &cobra.Command{
		Use:          "rdvctl",
		Short:        "Operate a rendezvous booking store",
		Long:         "rdvctl runs maintenance tasks directly against the configured store.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			e, err := open(cmd.Context())
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			current = e
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if current != nil && current.close != nil {
				current.close()
			}
		},
	}
	get := func() *env { return current }

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create the store schema and seed missing collections",
		Long:  "Opening the store applies the schema and seeds defaults; migrate does only that and reports the backend.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "store ready (%s backend)\n", get().cfg.StoreBackend)
			return nil
		},
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "Remove expired unbooked slots and empty days now",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := get().services.Availability.Sweep(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %d expired slots, %d empty days (%d days modified)\n",
				res.DeletedSlots, res.DeletedDays, res.ModifiedDays)
			return nil
		},
	}

	pruneCmd := &cobra.Command{
		Use:   "prune",
		Short: "Remove availability days before today",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			removed, err := get().services.Availability.PrunePastDays(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %d past days\n", removed)
			return nil
		},
	}

	tokenCmd := &cobra.Command{
		Use:   "token",
		Short: "Inspect or rotate the admin token",
	}
	tokenShowCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the admin token and back-office link",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e := get()
			tok, err := e.services.Admin.Token(cmd.Context())
			if err != nil {
				return err
			}
			printToken(cmd, e, tok.Token)
			return nil
		},
	}
	tokenRotateCmd := &cobra.Command{
		Use:   "rotate",
		Short: "Replace the admin token; the previous one stops working",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e := get()
			tok, err := e.services.Admin.RotateToken(cmd.Context())
			if err != nil {
				return err
			}
			printToken(cmd, e, tok.Token)
			return nil
		},
	}
	tokenCmd.AddCommand(tokenShowCmd, tokenRotateCmd)

	settingsCmd := &cobra.Command{
		Use:   "settings",
		Short: "Inspect business settings",
	}
	settingsShowCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the current settings as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			settings, err := get().services.Admin.Settings(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd, settings)
		},
	}
	settingsCmd.AddCommand(settingsShowCmd)

	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Print booking statistics as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			stats, err := get().services.Admin.Stats(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd, stats)
		},
	}

	rootCmd.AddCommand(migrateCmd, sweepCmd, pruneCmd, tokenCmd, settingsCmd, statsCmd)
	return rootCmd
}

func printToken(cmd *cobra.Command, e *env, token string) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "token: %s\n", token)
	fmt.Fprintf(out, "admin: %s\n", notification.AdminLink(e.cfg.AdminBaseURL, token))
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
