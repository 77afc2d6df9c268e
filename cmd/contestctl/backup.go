package main

import (
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/spf13/cobra"

	"pitchcontest/config"
)

func newBackupDBCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "backup-db",
		Short: "Dump the database with pg_dump",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Parse(nil)
			if err != nil {
				return err
			}
			if output == "" {
				output = fmt.Sprintf("contest-%s.dump", time.Now().Format("20060102-150405"))
			}

			dump := exec.CommandContext(cmd.Context(),
				"pg_dump", "--format=custom", "--file="+output, cfg.DatabaseURL)
			dump.Stdout = os.Stdout
			dump.Stderr = os.Stderr
			if err := dump.Run(); err != nil {
				return fmt.Errorf("pg_dump failed: %w", err)
			}
			fmt.Printf("wrote %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Dump file path (default timestamped)")
	return cmd
}
