package handlers_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"pitchcontest/models"
	"pitchcontest/notify"
	"pitchcontest/router"
	"pitchcontest/store"
	"pitchcontest/testutil"
)

func testServer(t *testing.T) (http.Handler, *store.Storage) {
	t.Helper()
	st := testutil.SetupTestDB(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	mux := router.New(st, testutil.GetTestConfig(), &notify.LogNotifier{Logger: logger}, logger)
	return mux, st
}

func do(mux http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func TestCastVoteEndToEnd(t *testing.T) {
	mux, st := testServer(t)
	contest := testutil.CreateTestContest(t, st)
	nominee := testutil.CreateTestNominee(t, st, contest.ID, "Acme Corp")
	ctx := context.Background()

	voter := map[string]string{"X-User-Ref": "user-1"}
	path := "/contests/" + contest.ID + "/votes"

	w := do(mux, testutil.MakeRequest("POST", path,
		models.CastVoteRequest{NomineeRef: nominee.ID}, voter))
	require.Equal(t, http.StatusOK, w.Code)

	// The retry is a no-op with the same empty success body.
	w = do(mux, testutil.MakeRequest("POST", path,
		models.CastVoteRequest{NomineeRef: nominee.ID}, voter))
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, "{}", w.Body.String())

	vote, err := st.VoteForUser(ctx, contest.ID, "user-1")
	require.NoError(t, err)
	require.NotNil(t, vote)
	require.Equal(t, models.VoteStatusSingle, vote.Status)
}

func TestCastVoteRequiresLogin(t *testing.T) {
	mux, st := testServer(t)
	contest := testutil.CreateTestContest(t, st)
	nominee := testutil.CreateTestNominee(t, st, contest.ID, "Acme Corp")

	w := do(mux, testutil.MakeRequest("POST", "/contests/"+contest.ID+"/votes",
		models.CastVoteRequest{NomineeRef: nominee.ID}, nil))
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestCastVoteUnknownContest(t *testing.T) {
	mux, _ := testServer(t)
	w := do(mux, testutil.MakeRequest("POST", "/contests/no-such-contest/votes",
		models.CastVoteRequest{NomineeRef: "whatever"},
		map[string]string{"X-User-Ref": "user-1"}))
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdminScoresRequireRole(t *testing.T) {
	mux, st := testServer(t)
	contest := testutil.CreateTestContest(t, st)
	path := "/contests/" + contest.ID + "/admin/scores"

	w := do(mux, testutil.MakeRequest("GET", path, nil,
		map[string]string{"X-User-Ref": "user-1"}))
	require.Equal(t, http.StatusForbidden, w.Code)

	testutil.GrantRole(t, st, contest.ID, "admin-1", models.RoleAdmin)
	w = do(mux, testutil.MakeRequest("GET", path, nil,
		map[string]string{"X-User-Ref": "admin-1"}))
	require.Equal(t, http.StatusOK, w.Code)
}

func TestAdminScoresReflectVotes(t *testing.T) {
	mux, st := testServer(t)
	contest := testutil.CreateTestContest(t, st)
	nominee := testutil.CreateTestNominee(t, st, contest.ID, "Acme Corp")
	testutil.GrantRole(t, st, contest.ID, "admin-1", models.RoleAdmin)

	w := do(mux, testutil.MakeRequest("POST", "/contests/"+contest.ID+"/votes",
		models.CastVoteRequest{NomineeRef: nominee.ID},
		map[string]string{"X-User-Ref": "user-1"}))
	require.Equal(t, http.StatusOK, w.Code)

	w = do(mux, testutil.MakeRequest("GET", "/contests/"+contest.ID+"/admin/scores",
		nil, map[string]string{"X-User-Ref": "admin-1"}))
	require.Equal(t, http.StatusOK, w.Code)

	var scores []models.NomineeScore
	require.NoError(t, json.NewDecoder(w.Body).Decode(&scores))
	require.Len(t, scores, 1)
	require.Equal(t, 1, scores[0].VoteScore)
}

func TestEventVoteFlow(t *testing.T) {
	mux, st := testServer(t)
	contest := testutil.CreateTestContest(t, st)
	finalist := testutil.CreateTestNominee(t, st, contest.ID, "Acme Corp")
	ctx := context.Background()

	finalist.IsFinalist = true
	require.NoError(t, st.UpdateNomineeFlags(ctx, finalist))
	testutil.GrantRole(t, st, contest.ID, "registrar-1", models.RoleRegistrar)

	// Register an attendee; the invite is created and (re)sent.
	w := do(mux, testutil.MakeRequest("POST", "/contests/"+contest.ID+"/event-voters",
		models.RegisterVoterRequest{EmailOrPhone: "alice@example.com"},
		map[string]string{"X-User-Ref": "registrar-1"}))
	require.Equal(t, http.StatusOK, w.Code)

	inv, err := st.InviteByIdentity(ctx, contest.ID, "alice@example.com")
	require.NoError(t, err)
	require.NotNil(t, inv)

	// Following the invite link binds the nonce to the browser session.
	w = do(mux, testutil.MakeRequest("GET", "/event-vote/"+inv.Nonce, nil, nil))
	require.Equal(t, http.StatusOK, w.Code)
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)

	// The cookie-carrying browser can cast exactly one event vote.
	req := testutil.MakeRequest("POST", "/contests/"+contest.ID+"/event-votes",
		models.EventVoteRequest{NomineeRef: finalist.ID}, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w = do(mux, req)
	require.Equal(t, http.StatusOK, w.Code)

	fresh, err := st.InviteByNonce(ctx, inv.Nonce)
	require.NoError(t, err)
	require.True(t, fresh.Redeemed())
	require.Equal(t, finalist.ID, *fresh.NomineeID)

	// Without the cookie the browser is not an event voter.
	w = do(mux, testutil.MakeRequest("POST", "/contests/"+contest.ID+"/event-votes",
		models.EventVoteRequest{NomineeRef: finalist.ID}, nil))
	require.Equal(t, http.StatusForbidden, w.Code)
}
