package handlers

import (
	"net/http"
	"time"

	"pitchcontest/middleware"
	"pitchcontest/models"
	"pitchcontest/phase"
)

// requireJudge checks the judge role and the judging window together;
// a judge outside the window is treated like any other visitor.
func (h *Handler) requireJudge(w http.ResponseWriter, r *http.Request,
	contest *models.Contest) (string, bool) {

	user, oku := h.requireUser(w, r)
	if !oku {
		return "", false
	}
	flags := phase.Derive(contest, time.Now())
	if !flags.IsJudging {
		middleware.JSONResponse(w, http.StatusOK,
			models.MessageResponse{Message: "Judging is not currently open"})
		return "", false
	}
	if !h.requireRole(w, r, contest, user, models.RoleJudge) {
		return "", false
	}
	return user, true
}

// JudgingList handles GET /contests/{contestID}/judging
func (h *Handler) JudgingList(w http.ResponseWriter, r *http.Request) {
	contest, okc := h.loadContest(w, r)
	if !okc {
		return
	}
	judge, okj := h.requireJudge(w, r, contest)
	if !okj {
		return
	}
	entries, err := h.judges.JudgingList(r.Context(), contest, judge)
	if err != nil {
		h.writeEngineError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, entries)
}

// SubmitRanking handles POST /contests/{contestID}/judging
func (h *Handler) SubmitRanking(w http.ResponseWriter, r *http.Request) {
	contest, okc := h.loadContest(w, r)
	if !okc {
		return
	}
	judge, okj := h.requireJudge(w, r, contest)
	if !okj {
		return
	}

	var req models.SubmitRankingRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	if err := h.judges.SubmitRanking(r.Context(), contest, judge, req.Nominees); err != nil {
		h.writeEngineError(w, err)
		return
	}
	ok(w)
}
