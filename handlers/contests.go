package handlers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"pitchcontest/middleware"
	"pitchcontest/models"
	"pitchcontest/phase"
)

// ContestInfo handles GET /contests/{contestID}
func (h *Handler) ContestInfo(w http.ResponseWriter, r *http.Request) {
	contest, okc := h.loadContest(w, r)
	if !okc {
		return
	}
	ctx := r.Context()
	now := time.Now()
	flags := phase.Derive(contest, now)

	contestants, err := h.store.CountPublicNominees(ctx, contest.ID)
	if err != nil {
		h.writeEngineError(w, err)
		return
	}
	semiFinalists, err := h.store.CountSemiFinalists(ctx, contest.ID)
	if err != nil {
		h.writeEngineError(w, err)
		return
	}
	finalists, err := h.store.CountFinalists(ctx, contest.ID)
	if err != nil {
		h.writeEngineError(w, err)
		return
	}

	info := models.ContestInfo{
		DisplayName:         contest.DisplayName,
		ContestantCount:     contestants,
		SemiFinalistCount:   semiFinalists,
		FinalistCount:       finalists,
		IsPreNominating:     flags.IsPreNominating,
		IsNominating:        flags.IsNominating,
		IsPublicVoting:      flags.IsPublicVoting,
		IsJudging:           flags.IsJudging,
		IsEventRegistration: flags.IsEventRegistration,
		IsEventVoting:       flags.IsEventVoting,
		IsExpired:           flags.IsExpired,
		ShowAllContestants:  phase.ShowAllContestants(contest, now),
		ShowSemiFinalists:   phase.ShowSemiFinalists(contest, now),
		ShowFinalists:       phase.ShowFinalists(contest, now),
	}
	if flags.IsExpired {
		winner, err := h.tally.Winner(ctx, contest)
		if err != nil {
			h.writeEngineError(w, err)
			return
		}
		if winner != nil {
			info.ShowWinner = true
			info.WinnerRef = winner.ID
		}
	}
	middleware.JSONResponse(w, http.StatusOK, info)
}

// UserState handles GET /contests/{contestID}/user-state
func (h *Handler) UserState(w http.ResponseWriter, r *http.Request) {
	contest, okc := h.loadContest(w, r)
	if !okc {
		return
	}
	ctx := r.Context()
	state := models.UserState{}

	if user := userRef(r); user != "" {
		state.IsLoggedIn = true
		roles, err := h.store.RolesForUser(ctx, contest.ID, user)
		if err != nil {
			h.writeEngineError(w, err)
			return
		}
		for _, role := range roles {
			switch role {
			case models.RoleAdmin:
				state.IsAdmin = true
			case models.RoleJudge:
				state.IsJudge = true
			case models.RoleRegistrar:
				state.IsRegistrar = true
			}
		}
		vote, err := h.store.VoteForUser(ctx, contest.ID, user)
		if err != nil {
			h.writeEngineError(w, err)
			return
		}
		if vote != nil {
			state.VoteRef = vote.ID
		}
		flags := phase.Derive(contest, time.Now())
		state.CanVote = flags.IsPublicVoting && vote == nil
	}

	if inv, err := h.invites.ValidateNonce(ctx, contest, h.sessions.Nonce(r)); err != nil {
		h.writeEngineError(w, err)
		return
	} else if inv != nil {
		state.IsEventVoter = true
		if inv.Redeemed() {
			state.EventVoteRef = *inv.NomineeID
		}
	}
	middleware.JSONResponse(w, http.StatusOK, state)
}

// PublicNominees handles GET /contests/{contestID}/nominees
func (h *Handler) PublicNominees(w http.ResponseWriter, r *http.Request) {
	contest, okc := h.loadContest(w, r)
	if !okc {
		return
	}
	nominees, err := h.store.PublicNominees(r.Context(), contest.ID)
	if err != nil {
		h.writeEngineError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, nominees)
}

// Finalists handles GET /contests/{contestID}/finalists
func (h *Handler) Finalists(w http.ResponseWriter, r *http.Request) {
	contest, okc := h.loadContest(w, r)
	if !okc {
		return
	}
	nominees, err := h.store.FinalistNominees(r.Context(), contest.ID)
	if err != nil {
		h.writeEngineError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, nominees)
}

// SubmitNominee handles POST /contests/{contestID}/nominees. The new
// nominee starts non-public; an administrator reviews and publishes it.
func (h *Handler) SubmitNominee(w http.ResponseWriter, r *http.Request) {
	contest, okc := h.loadContest(w, r)
	if !okc {
		return
	}
	user, oku := h.requireUser(w, r)
	if !oku {
		return
	}
	flags := phase.Derive(contest, time.Now())
	if !flags.IsNominating {
		middleware.JSONResponse(w, http.StatusOK,
			models.MessageResponse{Message: "Nominations are not currently open"})
		return
	}

	var req models.SubmitNomineeRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.DisplayName == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "display_name is required")
		return
	}

	nominee := &models.Nominee{
		ID:          uuid.NewString(),
		ContestID:   contest.ID,
		SubmitterID: user,
		DisplayName: req.DisplayName,
		URL:         req.URL,
		YoutubeCode: req.YoutubeCode,
		Summary:     req.Summary,
		IsValid:     true,
	}
	if err := h.store.CreateNominee(r.Context(), nominee); err != nil {
		h.writeEngineError(w, err)
		return
	}
	h.logger.Info("nominee submitted",
		"nominee", nominee.ID, "contest", contest.ID, "submitter", user)
	middleware.JSONResponse(w, http.StatusOK, nominee)
}

// JudgeComments handles GET /contests/{contestID}/judge-comments.
// Submitters of semi-finalist nominees may read the judges' comments;
// comments come back anonymous.
func (h *Handler) JudgeComments(w http.ResponseWriter, r *http.Request) {
	contest, okc := h.loadContest(w, r)
	if !okc {
		return
	}
	user, oku := h.requireUser(w, r)
	if !oku {
		return
	}
	ctx := r.Context()
	nominees, err := h.store.SemiFinalistNomineesForUser(ctx, contest.ID, user)
	if err != nil {
		h.writeEngineError(w, err)
		return
	}

	type nomineeComments struct {
		NomineeRef  string   `json:"nominee_ref"`
		DisplayName string   `json:"display_name"`
		Comments    []string `json:"comments"`
	}
	result := make([]nomineeComments, 0, len(nominees))
	for _, n := range nominees {
		comments, err := h.store.CommentsForNominee(ctx, n.ID)
		if err != nil {
			h.writeEngineError(w, err)
			return
		}
		result = append(result, nomineeComments{
			NomineeRef:  n.ID,
			DisplayName: n.DisplayName,
			Comments:    comments,
		})
	}
	middleware.JSONResponse(w, http.StatusOK, result)
}
