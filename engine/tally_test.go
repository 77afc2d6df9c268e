package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"pitchcontest/models"
	"pitchcontest/testutil"
)

func TestTallyAllScoring(t *testing.T) {
	st := testutil.SetupTestDB(t)
	contest := testutil.CreateTestContest(t, st)
	acme := testutil.CreateTestNominee(t, st, contest.ID, "Acme Corp")
	other := testutil.CreateTestNominee(t, st, contest.ID, "Other Co")
	ctx := context.Background()

	testutil.CreateTestVote(t, st, contest.ID, acme.ID, "user-1", models.VoteStatusSingle, "")
	testutil.CreateTestVote(t, st, contest.ID, acme.ID, "user-2", models.VoteStatusDouble, "")
	testutil.CreateTestVote(t, st, contest.ID, other.ID, "user-3", models.VoteStatusSingle, "")

	judges := NewJudgeRankLedger(st, testLogger())
	require.NoError(t, judges.SubmitRanking(ctx, contest, "judge-1", []models.RankingEntry{
		{NomineeRef: acme.ID, Rank: intPtr(1)},
		{NomineeRef: other.ID, Rank: intPtr(models.MaxRanks)},
	}))
	require.NoError(t, judges.SubmitRanking(ctx, contest, "judge-2", []models.RankingEntry{
		{NomineeRef: acme.ID, Rank: intPtr(2)},
	}))

	tally := NewScoreTally(st, testLogger())
	scores, err := tally.TallyAll(ctx, contest)
	require.NoError(t, err)
	require.Len(t, scores, 2)

	// Display-name order: Acme Corp first.
	require.Equal(t, acme.ID, scores[0].NomineeRef)
	require.Equal(t, 3, scores[0].VoteScore)
	// Rank 1 is worth MaxRanks points, rank 2 one less.
	require.Equal(t, models.MaxRanks+models.MaxRanks-1, scores[0].JudgeScore)

	require.Equal(t, other.ID, scores[1].NomineeRef)
	require.Equal(t, 1, scores[1].VoteScore)
	require.Equal(t, 1, scores[1].JudgeScore)

	// Composite sums to 1.0 over the contest.
	total := scores[0].Composite + scores[1].Composite
	require.InDelta(t, 1.0, total, 1e-9)
	require.Greater(t, scores[0].Composite, scores[1].Composite)
}

func TestTallyAllIgnoresInvalidVotes(t *testing.T) {
	st := testutil.SetupTestDB(t)
	contest := testutil.CreateTestContest(t, st)
	acme := testutil.CreateTestNominee(t, st, contest.ID, "Acme Corp")
	ctx := context.Background()

	testutil.CreateTestVote(t, st, contest.ID, acme.ID, "user-1", models.VoteStatusInvalid, "")

	tally := NewScoreTally(st, testLogger())
	scores, err := tally.TallyAll(ctx, contest)
	require.NoError(t, err)
	require.Equal(t, 0, scores[0].VoteScore)
}

func TestPromoteHardCutoff(t *testing.T) {
	st := testutil.SetupTestDB(t)
	contest := testutil.CreateTestContest(t, st)
	ctx := context.Background()

	// Four nominees with vote scores 3, 2, 1, 1. Promoting two keeps the
	// cutoff hard: the nominee tied at 1 below the slice is left out.
	names := []string{"Alpha", "Bravo", "Charlie", "Delta"}
	votes := []int{3, 2, 1, 1}
	nominees := make([]*models.Nominee, len(names))
	for i, name := range names {
		nominees[i] = testutil.CreateTestNominee(t, st, contest.ID, name)
		for v := 0; v < votes[i]; v++ {
			testutil.CreateTestVote(t, st, contest.ID, nominees[i].ID,
				name+"-voter-"+string(rune('a'+v)), models.VoteStatusSingle, "")
		}
	}

	tally := NewScoreTally(st, testLogger())
	promoted, err := tally.Promote(ctx, contest, MetricVote, 2, FlagSemiFinalist)
	require.NoError(t, err)
	require.Len(t, promoted, 2)
	require.Equal(t, "Alpha", promoted[0].DisplayName)
	require.Equal(t, "Bravo", promoted[1].DisplayName)

	count, err := st.CountSemiFinalists(ctx, contest.ID)
	require.NoError(t, err)
	require.Equal(t, 2, count)
}

func TestPromoteStableTieOrder(t *testing.T) {
	st := testutil.SetupTestDB(t)
	contest := testutil.CreateTestContest(t, st)
	ctx := context.Background()

	// All tied at zero: the stable sort preserves display-name order, so
	// the first name wins the only slot.
	testutil.CreateTestNominee(t, st, contest.ID, "Alpha")
	testutil.CreateTestNominee(t, st, contest.ID, "Bravo")

	tally := NewScoreTally(st, testLogger())
	promoted, err := tally.Promote(ctx, contest, MetricVote, 1, FlagFinalist)
	require.NoError(t, err)
	require.Len(t, promoted, 1)
	require.Equal(t, "Alpha", promoted[0].DisplayName)
}

func TestSetWinner(t *testing.T) {
	st := testutil.SetupTestDB(t)
	contest := testutil.CreateTestContest(t, st)
	acme := testutil.CreateTestNominee(t, st, contest.ID, "Acme Corp")
	other := testutil.CreateTestNominee(t, st, contest.ID, "Other Co")
	ctx := context.Background()

	tally := NewScoreTally(st, testLogger())

	winner, err := tally.Winner(ctx, contest)
	require.NoError(t, err)
	require.Nil(t, winner)

	require.NoError(t, tally.SetWinner(ctx, contest, acme.ID))
	winner, err = tally.Winner(ctx, contest)
	require.NoError(t, err)
	require.Equal(t, acme.ID, winner.ID)

	// Changing the winner clears the previous flag.
	require.NoError(t, tally.SetWinner(ctx, contest, other.ID))
	winner, err = tally.Winner(ctx, contest)
	require.NoError(t, err)
	require.Equal(t, other.ID, winner.ID)
}
