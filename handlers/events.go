package handlers

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"pitchcontest/middleware"
	"pitchcontest/models"
)

// RegisterEventVoter handles POST /contests/{contestID}/event-voters.
// Registrars (and admins) register attendees at the door; registration
// is idempotent and always (re)sends the voting link.
func (h *Handler) RegisterEventVoter(w http.ResponseWriter, r *http.Request) {
	contest, okc := h.loadContest(w, r)
	if !okc {
		return
	}
	user, oku := h.requireUser(w, r)
	if !oku {
		return
	}
	if !h.requireRole(w, r, contest, user, models.RoleRegistrar) {
		return
	}

	var req models.RegisterVoterRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	ctx := r.Context()
	inv, created, err := h.invites.RegisterOrFetch(ctx, contest, req.EmailOrPhone)
	if err != nil {
		h.writeEngineError(w, err)
		return
	}
	uri, err := h.invites.SendInvite(ctx, contest, inv, true)
	if err != nil {
		h.writeEngineError(w, err)
		return
	}

	var msg string
	switch {
	case uri == "":
		msg = fmt.Sprintf("Invite for %s suppressed (send limit reached)", inv.Identity)
	case created:
		msg = fmt.Sprintf("%s registered successfully and invite sent", inv.Identity)
	default:
		msg = fmt.Sprintf("Resent invite to %s", inv.Identity)
	}
	middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{Message: msg})
}

// ClaimInvite handles GET /event-vote/{nonce}. The link from the invite
// mail or SMS lands here; a valid nonce is bound to the browser session.
func (h *Handler) ClaimInvite(w http.ResponseWriter, r *http.Request) {
	nonce := chi.URLParam(r, "nonce")
	inv, err := h.store.InviteByNonce(r.Context(), nonce)
	if err != nil {
		h.writeEngineError(w, err)
		return
	}
	if inv == nil {
		middleware.ErrorResponse(w, http.StatusNotFound, "unknown voting link")
		return
	}
	h.sessions.SetNonce(w, inv.Nonce)
	middleware.JSONResponse(w, http.StatusOK, struct {
		ContestRef string `json:"contest_ref"`
	}{ContestRef: inv.ContestID})
}

// CastEventVote handles POST /contests/{contestID}/event-votes. The
// browser's invite comes from the signed session cookie; an invalid or
// foreign-contest session is simply not an event voter.
func (h *Handler) CastEventVote(w http.ResponseWriter, r *http.Request) {
	contest, okc := h.loadContest(w, r)
	if !okc {
		return
	}
	ctx := r.Context()
	inv, err := h.invites.ValidateNonce(ctx, contest, h.sessions.Nonce(r))
	if err != nil {
		h.writeEngineError(w, err)
		return
	}
	if inv == nil {
		middleware.ErrorResponse(w, http.StatusForbidden, "not an event voter")
		return
	}

	var req models.EventVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.NomineeRef == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "nominee_ref is required")
		return
	}

	// The logged-in user, when present, is recorded for the audit trail
	// only; the invite is the voting credential.
	var redeemingUser *string
	if user := userRef(r); user != "" {
		redeemingUser = &user
	}
	err = h.invites.Redeem(ctx, contest, inv, req.NomineeRef, redeemingUser,
		middleware.GetClientIP(r), r.UserAgent())
	if err != nil {
		h.writeEngineError(w, err)
		return
	}
	ok(w)
}
