package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"pitchcontest/models"
	"pitchcontest/testutil"
)

func intPtr(n int) *int { return &n }

func TestSubmitRankingReplaces(t *testing.T) {
	st := testutil.SetupTestDB(t)
	contest := testutil.CreateTestContest(t, st)
	acme := testutil.CreateTestNominee(t, st, contest.ID, "Acme Corp")
	other := testutil.CreateTestNominee(t, st, contest.ID, "Other Co")
	ledger := NewJudgeRankLedger(st, testLogger())
	ctx := context.Background()

	err := ledger.SubmitRanking(ctx, contest, "judge-1", []models.RankingEntry{
		{NomineeRef: acme.ID, Rank: intPtr(1), Comment: "strong pitch"},
		{NomineeRef: other.ID, Rank: intPtr(2)},
	})
	require.NoError(t, err)

	ranks, err := st.JudgeRanksByNominee(ctx, contest.ID, "judge-1")
	require.NoError(t, err)
	require.Equal(t, map[string]int{acme.ID: 1, other.ID: 2}, ranks)

	// Resubmission fully replaces: the old rank for acme disappears.
	err = ledger.SubmitRanking(ctx, contest, "judge-1", []models.RankingEntry{
		{NomineeRef: other.ID, Rank: intPtr(1), Comment: "changed my mind"},
	})
	require.NoError(t, err)

	ranks, err = st.JudgeRanksByNominee(ctx, contest.ID, "judge-1")
	require.NoError(t, err)
	require.Equal(t, map[string]int{other.ID: 1}, ranks)

	comments, err := st.JudgeCommentsByNominee(ctx, contest.ID, "judge-1")
	require.NoError(t, err)
	require.Equal(t, map[string]string{other.ID: "changed my mind"}, comments)
}

func TestSubmitRankingDoesNotTouchOtherJudges(t *testing.T) {
	st := testutil.SetupTestDB(t)
	contest := testutil.CreateTestContest(t, st)
	acme := testutil.CreateTestNominee(t, st, contest.ID, "Acme Corp")
	ledger := NewJudgeRankLedger(st, testLogger())
	ctx := context.Background()

	// Both judges rank the same nominee first; there is no cross-judge
	// deduplication.
	for _, judge := range []string{"judge-1", "judge-2"} {
		err := ledger.SubmitRanking(ctx, contest, judge, []models.RankingEntry{
			{NomineeRef: acme.ID, Rank: intPtr(1)},
		})
		require.NoError(t, err)
	}

	err := ledger.SubmitRanking(ctx, contest, "judge-1", nil)
	require.NoError(t, err)

	ranks, err := ledger.RanksFor(ctx, acme.ID)
	require.NoError(t, err)
	require.Equal(t, []int{1}, ranks)
}

func TestSubmitRankingValidation(t *testing.T) {
	st := testutil.SetupTestDB(t)
	contest := testutil.CreateTestContest(t, st)
	acme := testutil.CreateTestNominee(t, st, contest.ID, "Acme Corp")
	ledger := NewJudgeRankLedger(st, testLogger())
	ctx := context.Background()

	var validationErr *ValidationError
	err := ledger.SubmitRanking(ctx, contest, "judge-1", []models.RankingEntry{
		{NomineeRef: acme.ID, Rank: intPtr(0)},
	})
	require.ErrorAs(t, err, &validationErr)

	err = ledger.SubmitRanking(ctx, contest, "judge-1", []models.RankingEntry{
		{NomineeRef: acme.ID, Rank: intPtr(models.MaxRanks + 1)},
	})
	require.ErrorAs(t, err, &validationErr)
}

func TestSubmitRankingOutsideWindow(t *testing.T) {
	st := testutil.SetupTestDB(t)
	contest := testutil.CreateTestContest(t, st)
	acme := testutil.CreateTestNominee(t, st, contest.ID, "Acme Corp")
	ctx := context.Background()

	contest.JudgingStart = time.Now().Add(24 * time.Hour)
	contest.JudgingEnd = time.Now().Add(48 * time.Hour)
	require.NoError(t, st.UpdateContestTimes(ctx, contest))

	ledger := NewJudgeRankLedger(st, testLogger())
	err := ledger.SubmitRanking(ctx, contest, "judge-1", []models.RankingEntry{
		{NomineeRef: acme.ID, Rank: intPtr(1)},
	})
	var phaseErr *PhaseError
	require.ErrorAs(t, err, &phaseErr)
}
