package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"pitchcontest/engine"
	"pitchcontest/notify"
)

func newRegisterVotersCommand() *cobra.Command {
	var contestID, file string

	cmd := &cobra.Command{
		Use:   "register-voters",
		Short: "Register event voters from a file of emails/phones (no invites sent)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, st, logger, err := setup()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			contest, err := st.GetContest(ctx, contestID)
			if err != nil {
				return err
			}

			f, err := os.Open(file)
			if err != nil {
				return err
			}
			defer f.Close()

			registry := engine.NewEventInviteRegistry(st, &notify.LogNotifier{Logger: logger}, cfg, logger)
			created, existing := 0, 0
			scanner := bufio.NewScanner(f)
			for scanner.Scan() {
				line := strings.TrimSpace(scanner.Text())
				if line == "" || strings.HasPrefix(line, "#") {
					continue
				}
				_, isNew, err := registry.RegisterOrFetch(ctx, contest, line)
				if err != nil {
					return fmt.Errorf("%s: %w", line, err)
				}
				if isNew {
					created++
				} else {
					existing++
				}
			}
			if err := scanner.Err(); err != nil {
				return err
			}
			fmt.Printf("registered %d new, %d already present\n", created, existing)
			return nil
		},
	}

	cmd.Flags().StringVarP(&contestID, "contest", "c", "", "Contest reference")
	cmd.Flags().StringVarP(&file, "file", "f", "", "File with one email or phone per line")
	_ = cmd.MarkFlagRequired("contest")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newSendInvitesCommand() *cobra.Command {
	var contestID string
	var force bool

	cmd := &cobra.Command{
		Use:   "send-invites",
		Short: "Send (or with --force resend) voting links to registered event voters",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, st, logger, err := setup()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			contest, err := st.GetContest(ctx, contestID)
			if err != nil {
				return err
			}

			registry := engine.NewEventInviteRegistry(st, &notify.LogNotifier{Logger: logger}, cfg, logger)
			invites, err := st.InvitesForContest(ctx, contest.ID)
			if err != nil {
				return err
			}
			sent := 0
			for i := range invites {
				uri, err := registry.SendInvite(ctx, contest, &invites[i], force)
				if err != nil {
					return fmt.Errorf("%s: %w", invites[i].Identity, err)
				}
				if uri != "" {
					sent++
					fmt.Printf("%s %s\n", invites[i].Identity, uri)
				}
			}
			fmt.Printf("sent %d of %d\n", sent, len(invites))
			return nil
		},
	}

	cmd.Flags().StringVarP(&contestID, "contest", "c", "", "Contest reference")
	cmd.Flags().BoolVar(&force, "force", false, "Resend to identities already invited")
	_ = cmd.MarkFlagRequired("contest")
	return cmd
}
