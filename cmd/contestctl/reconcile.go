package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"pitchcontest/engine"
	"pitchcontest/reconcile"
)

func newReconcileCommand() *cobra.Command {
	var contestID, postsFile string

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Match fetched social posts to pending votes and upgrade confirmed ones",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, st, logger, err := setup()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			contest, err := st.GetContest(ctx, contestID)
			if err != nil {
				return err
			}

			raw, err := os.ReadFile(postsFile)
			if err != nil {
				return err
			}
			var posts []reconcile.Post
			if err := json.Unmarshal(raw, &posts); err != nil {
				return fmt.Errorf("invalid posts file: %w", err)
			}

			report, err := reconcile.New(st, logger).Run(ctx, contest, posts)
			if err != nil {
				return err
			}
			out, err := json.MarshalIndent(report, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		},
	}

	cmd.Flags().StringVarP(&contestID, "contest", "c", "", "Contest reference")
	cmd.Flags().StringVarP(&postsFile, "posts", "p", "", "JSON file of fetched posts")
	_ = cmd.MarkFlagRequired("contest")
	_ = cmd.MarkFlagRequired("posts")
	return cmd
}

func newHandleUpdateCommand() *cobra.Command {
	var contestID, oldHandle, newHandle string

	cmd := &cobra.Command{
		Use:   "handle-update",
		Short: "Rename a recorded social handle, or invalidate it with -n '!'",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, st, _, err := setup()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			contest, err := st.GetContest(ctx, contestID)
			if err != nil {
				return err
			}

			// '!' marks the handle so the reconciler skips it.
			replacement := "!" + oldHandle
			if newHandle != "!" {
				replacement = engine.NormalizeHandle(newHandle)
			}

			n, err := st.ReplaceVoteHandle(ctx, contest.ID, oldHandle, replacement)
			if err != nil {
				return err
			}
			if n == 0 {
				return fmt.Errorf("no vote with handle %q", oldHandle)
			}
			fmt.Printf("%d vote(s): %s -> %s\n", n, oldHandle, replacement)
			return nil
		},
	}

	cmd.Flags().StringVarP(&contestID, "contest", "c", "", "Contest reference")
	cmd.Flags().StringVarP(&oldHandle, "old", "o", "", "Handle currently recorded")
	cmd.Flags().StringVarP(&newHandle, "new", "n", "", "Replacement handle, or '!' to invalidate")
	_ = cmd.MarkFlagRequired("contest")
	_ = cmd.MarkFlagRequired("old")
	_ = cmd.MarkFlagRequired("new")
	return cmd
}
