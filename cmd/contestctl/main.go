// contestctl is the operator CLI: role grants, contest date edits,
// promotions, event-voter registration, invite sends, social-post
// reconciliation, and database backups.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"pitchcontest/config"
	"pitchcontest/db"
	"pitchcontest/store"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "contestctl",
		Short:         "Administer pitch contests",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(newAddRoleCommand())
	cmd.AddCommand(newRemoveRoleCommand())
	cmd.AddCommand(newSetDateCommand())
	cmd.AddCommand(newToggleNomineeFlagCommand())
	cmd.AddCommand(newPromoteCommand())
	cmd.AddCommand(newSetWinnerCommand())
	cmd.AddCommand(newRegisterVotersCommand())
	cmd.AddCommand(newSendInvitesCommand())
	cmd.AddCommand(newReconcileCommand())
	cmd.AddCommand(newHandleUpdateCommand())
	cmd.AddCommand(newBackupDBCommand())
	return cmd
}

// setup loads configuration, connects to the database, and returns the
// shared dependencies for every subcommand.
func setup() (config.Config, *store.Storage, *slog.Logger, error) {
	cfg, err := config.Parse(nil)
	if err != nil {
		return config.Config{}, nil, nil, err
	}
	conn, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		return config.Config{}, nil, nil, err
	}
	return cfg, store.NewStorage(conn), slog.Default(), nil
}
