package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"pitchcontest/config"
	"pitchcontest/engine"
	"pitchcontest/middleware"
	"pitchcontest/models"
	"pitchcontest/notify"
	"pitchcontest/session"
	"pitchcontest/store"
)

type Handler struct {
	store    *store.Storage
	cfg      config.Config
	votes    *engine.VoteLedger
	judges   *engine.JudgeRankLedger
	tally    *engine.ScoreTally
	invites  *engine.EventInviteRegistry
	sessions *session.Store
	logger   *slog.Logger
}

func New(st *store.Storage, cfg config.Config, notifier notify.Notifier, logger *slog.Logger) *Handler {
	return &Handler{
		store:    st,
		cfg:      cfg,
		votes:    engine.NewVoteLedger(st, logger),
		judges:   engine.NewJudgeRankLedger(st, logger),
		tally:    engine.NewScoreTally(st, logger),
		invites:  engine.NewEventInviteRegistry(st, notifier, cfg, logger),
		sessions: session.NewStore(cfg.SessionSecret, !cfg.TestMode),
		logger:   logger,
	}
}

// userRef returns the authenticated user's reference, or "" for an
// anonymous request.
func userRef(r *http.Request) string {
	return r.Header.Get("X-User-Ref")
}

// requireUser writes a 403 and returns false for anonymous requests.
func (h *Handler) requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	user := userRef(r)
	if user == "" {
		middleware.ErrorResponse(w, http.StatusForbidden, "login required")
		return "", false
	}
	return user, true
}

// loadContest resolves the contest from the URL, writing a 404 on an
// unknown reference.
func (h *Handler) loadContest(w http.ResponseWriter, r *http.Request) (*models.Contest, bool) {
	id := chi.URLParam(r, "contestID")
	contest, err := h.store.GetContest(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			middleware.ErrorResponse(w, http.StatusNotFound, "contest not found")
		} else {
			h.logger.Error("failed to load contest", "contest", id, "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "database error")
		}
		return nil, false
	}
	return contest, true
}

// requireRole enforces a role_assignment check, writing the response on
// failure. Admins pass any role check.
func (h *Handler) requireRole(w http.ResponseWriter, r *http.Request,
	contest *models.Contest, userID, role string) bool {

	ok, err := h.store.HasRole(r.Context(), contest.ID, userID, role)
	if err != nil {
		h.logger.Error("failed to check role", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "database error")
		return false
	}
	if !ok && role != models.RoleAdmin {
		ok, err = h.store.HasRole(r.Context(), contest.ID, userID, models.RoleAdmin)
		if err != nil {
			h.logger.Error("failed to check role", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "database error")
			return false
		}
	}
	if !ok {
		middleware.ErrorResponse(w, http.StatusForbidden, "forbidden")
		return false
	}
	return true
}

// writeEngineError maps an engine failure onto the wire contract.
// Phase violations are user-facing messages with a 200, matching the
// thin JSON contract; they are not server errors.
func (h *Handler) writeEngineError(w http.ResponseWriter, err error) {
	var phaseErr *engine.PhaseError
	var cfgErr *engine.ConfigError
	var validationErr *engine.ValidationError
	switch {
	case errors.As(err, &phaseErr):
		middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{Message: phaseErr.Message})
	case errors.As(err, &validationErr):
		middleware.ErrorResponse(w, http.StatusBadRequest, validationErr.Message)
	case errors.As(err, &cfgErr):
		h.logger.Error("configuration error", "error", cfgErr.Message)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "configuration error")
	case errors.Is(err, store.ErrNotFound):
		middleware.ErrorResponse(w, http.StatusNotFound, "not found")
	case errors.Is(err, engine.ErrForbidden):
		middleware.ErrorResponse(w, http.StatusForbidden, "forbidden")
	default:
		h.logger.Error("operation failed", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "internal error")
	}
}

// ok writes the empty success object.
func ok(w http.ResponseWriter) {
	middleware.JSONResponse(w, http.StatusOK, struct{}{})
}
