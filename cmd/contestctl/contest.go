package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"pitchcontest/engine"
	"pitchcontest/models"
)

func newSetDateCommand() *cobra.Command {
	var contestID, field, value string

	cmd := &cobra.Command{
		Use:   "set-date",
		Short: "Set one of a contest's window timestamps (RFC 3339)",
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := time.Parse(time.RFC3339, value)
			if err != nil {
				return fmt.Errorf("invalid timestamp %q: %w", value, err)
			}
			_, st, _, err := setup()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			contest, err := st.GetContest(ctx, contestID)
			if err != nil {
				return err
			}

			switch field {
			case "submission_start":
				contest.SubmissionStart = t
			case "submission_end":
				contest.SubmissionEnd = t
			case "public_voting_start":
				contest.PublicVotingStart = t
			case "public_voting_end":
				contest.PublicVotingEnd = t
			case "judging_start":
				contest.JudgingStart = t
			case "judging_end":
				contest.JudgingEnd = t
			case "event_voting_start":
				contest.EventVotingStart = t
			case "event_voting_end":
				contest.EventVotingEnd = t
			default:
				return fmt.Errorf("unknown field %q", field)
			}

			if err := st.UpdateContestTimes(ctx, contest); err != nil {
				return err
			}
			warnWindowOrder(contest)
			fmt.Printf("%s.%s = %s\n", contestID, field, t.Format(time.RFC3339))
			return nil
		},
	}

	cmd.Flags().StringVarP(&contestID, "contest", "c", "", "Contest reference")
	cmd.Flags().StringVarP(&field, "field", "f", "", "Timestamp field name")
	cmd.Flags().StringVarP(&value, "value", "v", "", "New value, RFC 3339")
	_ = cmd.MarkFlagRequired("contest")
	_ = cmd.MarkFlagRequired("field")
	_ = cmd.MarkFlagRequired("value")
	return cmd
}

// warnWindowOrder prints a warning when the contest's windows are not
// monotonically non-decreasing. Out-of-order windows are stored as
// given; phase flags just derive oddly from them.
func warnWindowOrder(c *models.Contest) {
	ordered := []struct {
		name string
		t    time.Time
	}{
		{"submission_start", c.SubmissionStart},
		{"submission_end", c.SubmissionEnd},
		{"public_voting_start", c.PublicVotingStart},
		{"public_voting_end", c.PublicVotingEnd},
		{"judging_start", c.JudgingStart},
		{"judging_end", c.JudgingEnd},
		{"event_voting_start", c.EventVotingStart},
		{"event_voting_end", c.EventVotingEnd},
	}
	for i := 1; i < len(ordered); i++ {
		if ordered[i].t.Before(ordered[i-1].t) {
			fmt.Printf("warning: %s precedes %s\n", ordered[i].name, ordered[i-1].name)
		}
	}
}

func newToggleNomineeFlagCommand() *cobra.Command {
	var nomineeID, field string

	cmd := &cobra.Command{
		Use:   "toggle-nominee-flag",
		Short: "Flip one of a nominee's boolean flags",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, st, _, err := setup()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			nominee, err := st.GetNominee(ctx, nomineeID)
			if err != nil {
				return err
			}

			var flag *bool
			switch field {
			case "is_valid":
				flag = &nominee.IsValid
			case "is_public":
				flag = &nominee.IsPublic
			case "is_semi_finalist":
				flag = &nominee.IsSemiFinalist
			case "is_finalist":
				flag = &nominee.IsFinalist
			case "is_winner":
				flag = &nominee.IsWinner
			default:
				return fmt.Errorf("unknown flag %q", field)
			}
			*flag = !*flag

			if err := st.UpdateNomineeFlags(ctx, nominee); err != nil {
				return err
			}
			fmt.Printf("%s.%s = %v\n", nominee.DisplayName, field, *flag)
			return nil
		},
	}

	cmd.Flags().StringVarP(&nomineeID, "nominee", "n", "", "Nominee reference")
	cmd.Flags().StringVarP(&field, "field", "f", "", "Flag to toggle")
	_ = cmd.MarkFlagRequired("nominee")
	_ = cmd.MarkFlagRequired("field")
	return cmd
}

func newPromoteCommand() *cobra.Command {
	var contestID, metric, flag string
	var count int

	cmd := &cobra.Command{
		Use:   "promote",
		Short: "Promote the top-scoring nominees to semi-finalist or finalist",
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
			tally := engine.NewScoreTally(st, logger)
			promoted, err := tally.Promote(ctx, contest, engine.Metric(metric), count, flag)
			if err != nil {
				return err
			}
			for _, s := range promoted {
				fmt.Printf("%s (votes=%d judges=%d)\n", s.DisplayName, s.VoteScore, s.JudgeScore)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&contestID, "contest", "c", "", "Contest reference")
	cmd.Flags().StringVarP(&metric, "metric", "m", string(engine.MetricVote), "Score to sort by: vote, judge, composite")
	cmd.Flags().IntVarP(&count, "count", "k", 0, "Number of nominees to promote")
	cmd.Flags().StringVarP(&flag, "flag", "f", "", "Flag to set: semi_finalist or finalist")
	_ = cmd.MarkFlagRequired("contest")
	_ = cmd.MarkFlagRequired("count")
	_ = cmd.MarkFlagRequired("flag")
	return cmd
}

func newSetWinnerCommand() *cobra.Command {
	var contestID, nomineeID string

	cmd := &cobra.Command{
		Use:   "set-winner",
		Short: "Mark a nominee as the contest winner",
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
			tally := engine.NewScoreTally(st, logger)
			if err := tally.SetWinner(ctx, contest, nomineeID); err != nil {
				return err
			}
			winner, err := tally.Winner(ctx, contest)
			if err != nil {
				return err
			}
			fmt.Printf("winner: %s\n", winner.DisplayName)
			return nil
		},
	}

	cmd.Flags().StringVarP(&contestID, "contest", "c", "", "Contest reference")
	cmd.Flags().StringVarP(&nomineeID, "nominee", "n", "", "Nominee reference")
	_ = cmd.MarkFlagRequired("contest")
	_ = cmd.MarkFlagRequired("nominee")
	return cmd
}
