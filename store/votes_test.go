package store_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"pitchcontest/models"
	"pitchcontest/store"
	"pitchcontest/testutil"
)

// The partial unique index is the storage-layer source of truth for the
// one-live-vote invariant; these tests pin its behavior down.
func TestVoteUniqueIndex(t *testing.T) {
	st := testutil.SetupTestDB(t)
	contest := testutil.CreateTestContest(t, st)
	acme := testutil.CreateTestNominee(t, st, contest.ID, "Acme Corp")
	other := testutil.CreateTestNominee(t, st, contest.ID, "Other Co")
	ctx := context.Background()

	testutil.CreateTestVote(t, st, contest.ID, acme.ID, "user-1", models.VoteStatusSingle, "")

	// A second live vote for the same user, even on another nominee,
	// violates the index.
	err := st.CreateVote(ctx, &models.Vote{
		ID:        uuid.NewString(),
		ContestID: contest.ID,
		NomineeID: other.ID,
		UserID:    "user-1",
		Status:    models.VoteStatusSingle,
	})
	require.Error(t, err)
	require.True(t, store.IsUniqueViolation(err))

	// Invalid votes sit outside the index, so an invalidated vote can
	// coexist with a fresh live one.
	vote, err := st.VoteForUser(ctx, contest.ID, "user-1")
	require.NoError(t, err)
	require.NoError(t, st.UpdateVoteStatus(ctx, vote.ID, models.VoteStatusInvalid))

	err = st.CreateVote(ctx, &models.Vote{
		ID:        uuid.NewString(),
		ContestID: contest.ID,
		NomineeID: other.ID,
		UserID:    "user-1",
		Status:    models.VoteStatusSingle,
	})
	require.NoError(t, err)
}

func TestReplaceVoteHandleRewritesAll(t *testing.T) {
	st := testutil.SetupTestDB(t)
	contest := testutil.CreateTestContest(t, st)
	acme := testutil.CreateTestNominee(t, st, contest.ID, "Acme Corp")
	ctx := context.Background()

	// A vote against a hidden nominee still carries the handle and must
	// be rewritten along with the rest.
	hidden := &models.Nominee{
		ID:          uuid.NewString(),
		ContestID:   contest.ID,
		SubmitterID: uuid.NewString(),
		DisplayName: "Hidden Co",
		IsValid:     true,
	}
	require.NoError(t, st.CreateNominee(ctx, hidden))

	v1 := testutil.CreateTestVote(t, st, contest.ID, acme.ID, "user-1",
		models.VoteStatusSingle, "oldhandle")
	v2 := testutil.CreateTestVote(t, st, contest.ID, hidden.ID, "user-2",
		models.VoteStatusSingle, "oldhandle")
	testutil.CreateTestVote(t, st, contest.ID, acme.ID, "user-3",
		models.VoteStatusSingle, "otherhandle")

	n, err := st.ReplaceVoteHandle(ctx, contest.ID, "oldhandle", "newhandle")
	require.NoError(t, err)
	require.EqualValues(t, 2, n)

	for _, id := range []string{v1.ID, v2.ID} {
		fresh, err := st.GetVote(ctx, id)
		require.NoError(t, err)
		require.Equal(t, "newhandle", fresh.SocialHandle)
	}

	n, err = st.ReplaceVoteHandle(ctx, contest.ID, "missing", "whatever")
	require.NoError(t, err)
	require.EqualValues(t, 0, n)
}

func TestSetContestWinnerIsExclusive(t *testing.T) {
	st := testutil.SetupTestDB(t)
	contest := testutil.CreateTestContest(t, st)
	acme := testutil.CreateTestNominee(t, st, contest.ID, "Acme Corp")
	other := testutil.CreateTestNominee(t, st, contest.ID, "Other Co")
	ctx := context.Background()

	require.NoError(t, st.SetContestWinner(ctx, contest.ID, acme.ID))
	require.NoError(t, st.SetContestWinner(ctx, contest.ID, other.ID))

	winner, err := st.ContestWinner(ctx, contest.ID)
	require.NoError(t, err)
	require.Equal(t, other.ID, winner.ID)

	// Unknown nominee references are rejected.
	err = st.SetContestWinner(ctx, contest.ID, "no-such-nominee")
	require.ErrorIs(t, err, store.ErrNotFound)
}
