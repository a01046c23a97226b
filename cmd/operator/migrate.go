package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/easeaico/mindcare/internal/config"
	"github.com/easeaico/mindcare/internal/storage"
)

func newMigrateCmd() *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the chat tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if dryRun {
				fmt.Fprintln(out, "Dry run mode - no changes will be made")
				fmt.Fprintln(out, "  - Would migrate chat_sessions, chat_messages, mood_analytics")
				return nil
			}

			cfg, err := config.LoadFrom(os.Getenv("CONFIG_FILE"))
			if err != nil {
				return err
			}
			if cfg.DatabaseURL == "" {
				return fmt.Errorf("DATABASE_URL is required (environment or config file)")
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
			defer cancel()

			store, err := storage.NewStore(ctx, cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer store.Close()

			fmt.Fprintln(out, "Migrating application tables...")
			if err := store.AutoMigrate(ctx); err != nil {
				return err
			}
			fmt.Fprintln(out, "  ✓ Application tables migrated")
			fmt.Fprintln(out, "\nMigration completed successfully!")
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show what would be migrated without executing")
	return cmd
}
