package handlers

import (
	"net/http"

	"pitchcontest/middleware"
	"pitchcontest/models"
)

// CastVote handles POST /contests/{contestID}/votes
func (h *Handler) CastVote(w http.ResponseWriter, r *http.Request) {
	contest, okc := h.loadContest(w, r)
	if !okc {
		return
	}
	user, oku := h.requireUser(w, r)
	if !oku {
		return
	}

	var req models.CastVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.NomineeRef == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "nominee_ref is required")
		return
	}

	err := h.votes.CastVote(r.Context(), contest, user, req.NomineeRef,
		middleware.GetClientIP(r), r.UserAgent())
	if err != nil {
		h.writeEngineError(w, err)
		return
	}
	ok(w)
}

// RecordSocialHandle handles POST /contests/{contestID}/social-handle
func (h *Handler) RecordSocialHandle(w http.ResponseWriter, r *http.Request) {
	contest, okc := h.loadContest(w, r)
	if !okc {
		return
	}
	user, oku := h.requireUser(w, r)
	if !oku {
		return
	}

	var req models.SocialHandleRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.SocialHandle == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "social_handle is required")
		return
	}

	if err := h.votes.RecordSocialHandle(r.Context(), contest, user, req.SocialHandle); err != nil {
		h.writeEngineError(w, err)
		return
	}
	ok(w)
}
