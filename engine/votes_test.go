package engine

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"pitchcontest/models"
	"pitchcontest/testutil"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCastVoteOnce(t *testing.T) {
	st := testutil.SetupTestDB(t)
	contest := testutil.CreateTestContest(t, st)
	nominee := testutil.CreateTestNominee(t, st, contest.ID, "Acme Corp")
	ledger := NewVoteLedger(st, testLogger())
	ctx := context.Background()

	err := ledger.CastVote(ctx, contest, "user-1", nominee.ID, "1.2.3.4", "test-agent")
	require.NoError(t, err)

	vote, err := st.VoteForUser(ctx, contest.ID, "user-1")
	require.NoError(t, err)
	require.NotNil(t, vote)
	require.Equal(t, models.VoteStatusSingle, vote.Status)
	require.Equal(t, nominee.ID, vote.NomineeID)
}

func TestCastVoteIsIdempotent(t *testing.T) {
	st := testutil.SetupTestDB(t)
	contest := testutil.CreateTestContest(t, st)
	acme := testutil.CreateTestNominee(t, st, contest.ID, "Acme Corp")
	other := testutil.CreateTestNominee(t, st, contest.ID, "Other Co")
	ledger := NewVoteLedger(st, testLogger())
	ctx := context.Background()

	// Repeat calls, including for a different nominee, must leave
	// exactly one live vote and never error.
	require.NoError(t, ledger.CastVote(ctx, contest, "user-1", acme.ID, "", ""))
	require.NoError(t, ledger.CastVote(ctx, contest, "user-1", acme.ID, "", ""))
	require.NoError(t, ledger.CastVote(ctx, contest, "user-1", other.ID, "", ""))

	vote, err := st.VoteForUser(ctx, contest.ID, "user-1")
	require.NoError(t, err)
	require.NotNil(t, vote)
	require.Equal(t, acme.ID, vote.NomineeID)

	scores, err := ledger.Tally(ctx, contest)
	require.NoError(t, err)
	require.Equal(t, 1, scores[acme.ID])
	require.Equal(t, 0, scores[other.ID])
}

func TestCastVoteOutsideWindow(t *testing.T) {
	st := testutil.SetupTestDB(t)
	contest := testutil.CreateTestContest(t, st)
	nominee := testutil.CreateTestNominee(t, st, contest.ID, "Acme Corp")
	ctx := context.Background()

	contest.PublicVotingStart = time.Now().Add(24 * time.Hour)
	contest.PublicVotingEnd = time.Now().Add(48 * time.Hour)
	require.NoError(t, st.UpdateContestTimes(ctx, contest))

	ledger := NewVoteLedger(st, testLogger())
	err := ledger.CastVote(ctx, contest, "user-1", nominee.ID, "", "")
	var phaseErr *PhaseError
	require.ErrorAs(t, err, &phaseErr)

	vote, err := st.VoteForUser(ctx, contest.ID, "user-1")
	require.NoError(t, err)
	require.Nil(t, vote)
}

func TestCastVoteRejectsHiddenNominee(t *testing.T) {
	st := testutil.SetupTestDB(t)
	contest := testutil.CreateTestContest(t, st)
	nominee := testutil.CreateTestNominee(t, st, contest.ID, "Hidden Co")
	ctx := context.Background()

	nominee.IsPublic = false
	require.NoError(t, st.UpdateNomineeFlags(ctx, nominee))

	ledger := NewVoteLedger(st, testLogger())
	err := ledger.CastVote(ctx, contest, "user-1", nominee.ID, "", "")
	require.Error(t, err)
}

func TestScoreCountsUpgradeOnce(t *testing.T) {
	st := testutil.SetupTestDB(t)
	contest := testutil.CreateTestContest(t, st)
	nominee := testutil.CreateTestNominee(t, st, contest.ID, "Acme Corp")
	ledger := NewVoteLedger(st, testLogger())
	ctx := context.Background()

	require.NoError(t, ledger.CastVote(ctx, contest, "user-1", nominee.ID, "", ""))
	scores, err := ledger.Tally(ctx, contest)
	require.NoError(t, err)
	require.Equal(t, 1, scores[nominee.ID])

	// Adding a second voter's single vote adds exactly 1.
	require.NoError(t, ledger.CastVote(ctx, contest, "user-2", nominee.ID, "", ""))
	scores, err = ledger.Tally(ctx, contest)
	require.NoError(t, err)
	require.Equal(t, 2, scores[nominee.ID])

	// Upgrading a single vote to double adds exactly 1, not 2.
	vote, err := st.VoteForUser(ctx, contest.ID, "user-1")
	require.NoError(t, err)
	require.NoError(t, st.UpdateVoteStatus(ctx, vote.ID, models.VoteStatusDouble))
	scores, err = ledger.Tally(ctx, contest)
	require.NoError(t, err)
	require.Equal(t, 3, scores[nominee.ID])
}

func TestRecordSocialHandle(t *testing.T) {
	st := testutil.SetupTestDB(t)
	contest := testutil.CreateTestContest(t, st)
	nominee := testutil.CreateTestNominee(t, st, contest.ID, "Acme Corp")
	ledger := NewVoteLedger(st, testLogger())
	ctx := context.Background()

	// No vote yet: logged, not an error.
	require.NoError(t, ledger.RecordSocialHandle(ctx, contest, "user-1", "@AcmeFan"))

	require.NoError(t, ledger.CastVote(ctx, contest, "user-1", nominee.ID, "", ""))
	require.NoError(t, ledger.RecordSocialHandle(ctx, contest, "user-1", "https://twitter.com/@AcmeFan"))

	vote, err := st.VoteForUser(ctx, contest.ID, "user-1")
	require.NoError(t, err)
	require.Equal(t, "acmefan", vote.SocialHandle)

	// Overwriting with a different handle is a warning, not a failure.
	require.NoError(t, ledger.RecordSocialHandle(ctx, contest, "user-1", "@OtherFan"))
	vote, err = st.VoteForUser(ctx, contest.ID, "user-1")
	require.NoError(t, err)
	require.Equal(t, "otherfan", vote.SocialHandle)
}
