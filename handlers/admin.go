package handlers

import (
	"net/http"
	"time"

	"pitchcontest/middleware"
	"pitchcontest/models"
)

// requireAdmin loads the contest and enforces the admin role.
func (h *Handler) requireAdmin(w http.ResponseWriter, r *http.Request) (*models.Contest, string, bool) {
	contest, okc := h.loadContest(w, r)
	if !okc {
		return nil, "", false
	}
	user, oku := h.requireUser(w, r)
	if !oku {
		return nil, "", false
	}
	if !h.requireRole(w, r, contest, user, models.RoleAdmin) {
		return nil, "", false
	}
	return contest, user, true
}

// ReviewScores handles GET /contests/{contestID}/admin/scores
func (h *Handler) ReviewScores(w http.ResponseWriter, r *http.Request) {
	contest, _, oka := h.requireAdmin(w, r)
	if !oka {
		return
	}
	scores, err := h.tally.TallyAll(r.Context(), contest)
	if err != nil {
		h.writeEngineError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, scores)
}

// ReviewVotes handles GET /contests/{contestID}/admin/votes
func (h *Handler) ReviewVotes(w http.ResponseWriter, r *http.Request) {
	contest, _, oka := h.requireAdmin(w, r)
	if !oka {
		return
	}
	votes, err := h.store.VotesForContest(r.Context(), contest.ID)
	if err != nil {
		h.writeEngineError(w, err)
		return
	}

	type voteRow struct {
		VoteRef      string    `json:"vote_ref"`
		VoterRef     string    `json:"voter_ref"`
		NomineeRef   string    `json:"nominee_ref"`
		Status       string    `json:"status"`
		SocialHandle string    `json:"social_handle,omitempty"`
		CreatedAt    time.Time `json:"created_at"`
	}
	rows := make([]voteRow, 0, len(votes))
	for _, v := range votes {
		rows = append(rows, voteRow{
			VoteRef:      v.ID,
			VoterRef:     v.UserID,
			NomineeRef:   v.NomineeID,
			Status:       v.Status,
			SocialHandle: v.SocialHandle,
			CreatedAt:    v.CreatedAt,
		})
	}
	middleware.JSONResponse(w, http.StatusOK, rows)
}

// ReviewJudges handles GET /contests/{contestID}/admin/judges, showing
// each judge's ranking progress.
func (h *Handler) ReviewJudges(w http.ResponseWriter, r *http.Request) {
	contest, _, oka := h.requireAdmin(w, r)
	if !oka {
		return
	}
	ctx := r.Context()
	judges, err := h.store.JudgesForContest(ctx, contest.ID)
	if err != nil {
		h.writeEngineError(w, err)
		return
	}

	type judgeRow struct {
		JudgeRef  string `json:"judge_ref"`
		RankCount int    `json:"rank_count"`
	}
	rows := make([]judgeRow, 0, len(judges))
	for _, judge := range judges {
		count, err := h.store.RankCountForJudge(ctx, contest.ID, judge)
		if err != nil {
			h.writeEngineError(w, err)
			return
		}
		rows = append(rows, judgeRow{JudgeRef: judge, RankCount: count})
	}
	middleware.JSONResponse(w, http.StatusOK, rows)
}

// ReviewNominees handles GET /contests/{contestID}/admin/nominees,
// listing every nominee including hidden and invalid ones.
func (h *Handler) ReviewNominees(w http.ResponseWriter, r *http.Request) {
	contest, _, oka := h.requireAdmin(w, r)
	if !oka {
		return
	}
	nominees, err := h.store.AllNominees(r.Context(), contest.ID)
	if err != nil {
		h.writeEngineError(w, err)
		return
	}

	type nomineeRow struct {
		NomineeRef  string `json:"nominee_ref"`
		DisplayName string `json:"display_name"`
		URL         string `json:"url,omitempty"`
		IsValid     bool   `json:"is_valid"`
		IsPublic    bool   `json:"is_public"`
		IsSemi      bool   `json:"is_semi_finalist"`
		IsFinalist  bool   `json:"is_finalist"`
		IsWinner    bool   `json:"is_winner"`
	}
	rows := make([]nomineeRow, 0, len(nominees))
	for _, n := range nominees {
		rows = append(rows, nomineeRow{
			NomineeRef:  n.ID,
			DisplayName: n.DisplayName,
			URL:         n.URL,
			IsValid:     n.IsValid,
			IsPublic:    n.IsPublic,
			IsSemi:      n.IsSemiFinalist,
			IsFinalist:  n.IsFinalist,
			IsWinner:    n.IsWinner,
		})
	}
	middleware.JSONResponse(w, http.StatusOK, rows)
}

// AdminEventTally handles GET /contests/{contestID}/admin/event-votes,
// the live dashboard during event voting.
func (h *Handler) AdminEventTally(w http.ResponseWriter, r *http.Request) {
	contest, _, oka := h.requireAdmin(w, r)
	if !oka {
		return
	}
	tally, err := h.invites.AdminTally(r.Context(), contest)
	if err != nil {
		h.writeEngineError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, tally)
}

// SetVoteStatus handles POST /contests/{contestID}/admin/vote-status.
// Votes are never deleted; retraction means status=invalid.
func (h *Handler) SetVoteStatus(w http.ResponseWriter, r *http.Request) {
	contest, admin, oka := h.requireAdmin(w, r)
	if !oka {
		return
	}

	var req models.SetVoteStatusRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	switch req.Status {
	case models.VoteStatusInvalid, models.VoteStatusSingle, models.VoteStatusDouble:
	default:
		middleware.ErrorResponse(w, http.StatusBadRequest, "unknown vote status")
		return
	}

	ctx := r.Context()
	vote, err := h.store.GetVote(ctx, req.VoteRef)
	if err != nil {
		h.writeEngineError(w, err)
		return
	}
	if vote.ContestID != contest.ID {
		middleware.ErrorResponse(w, http.StatusNotFound, "not found")
		return
	}
	if err := h.store.UpdateVoteStatus(ctx, vote.ID, req.Status); err != nil {
		h.writeEngineError(w, err)
		return
	}
	h.logger.Info("vote status changed",
		"vote", vote.ID, "from", vote.Status, "to", req.Status, "admin", admin)
	ok(w)
}

// SetNomineeVisibility handles POST /contests/{contestID}/admin/nominee-visibility.
// Only valid nominees may be published.
func (h *Handler) SetNomineeVisibility(w http.ResponseWriter, r *http.Request) {
	contest, admin, oka := h.requireAdmin(w, r)
	if !oka {
		return
	}

	var req models.SetVisibilityRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	ctx := r.Context()
	nominee, err := h.store.GetContestNominee(ctx, contest.ID, req.NomineeRef)
	if err != nil {
		h.writeEngineError(w, err)
		return
	}
	if req.IsPublic && !nominee.IsValid {
		middleware.ErrorResponse(w, http.StatusBadRequest, "nominee is not valid")
		return
	}
	nominee.IsPublic = req.IsPublic
	if err := h.store.UpdateNomineeFlags(ctx, nominee); err != nil {
		h.writeEngineError(w, err)
		return
	}
	h.logger.Info("nominee visibility changed",
		"nominee", nominee.ID, "is_public", req.IsPublic, "admin", admin)
	ok(w)
}

// SendInvites handles POST /contests/{contestID}/admin/send-invites,
// the batch (re)send over every registered identity. The per-invite
// hard cap still applies under force.
func (h *Handler) SendInvites(w http.ResponseWriter, r *http.Request) {
	contest, admin, oka := h.requireAdmin(w, r)
	if !oka {
		return
	}

	var req struct {
		Force bool `json:"force"`
	}
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	ctx := r.Context()
	invites, err := h.store.InvitesForContest(ctx, contest.ID)
	if err != nil {
		h.writeEngineError(w, err)
		return
	}
	sent := 0
	for i := range invites {
		uri, err := h.invites.SendInvite(ctx, contest, &invites[i], req.Force)
		if err != nil {
			h.writeEngineError(w, err)
			return
		}
		if uri != "" {
			sent++
		}
	}
	h.logger.Info("invite batch sent",
		"contest", contest.ID, "sent", sent, "total", len(invites), "admin", admin)
	middleware.JSONResponse(w, http.StatusOK, struct {
		Sent  int `json:"sent"`
		Total int `json:"total"`
	}{Sent: sent, Total: len(invites)})
}
