// Package router builds the chi route table.
package router

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"pitchcontest/config"
	"pitchcontest/handlers"
	"pitchcontest/notify"
	"pitchcontest/store"
)

func New(st *store.Storage, cfg config.Config, notifier notify.Notifier, logger *slog.Logger) http.Handler {
	h := handlers.New(st, cfg, notifier, logger)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)

	// Invite links land outside any contest scope; the nonce alone
	// resolves the contest.
	r.Get("/event-vote/{nonce}", h.ClaimInvite)

	r.Route("/contests/{contestID}", func(r chi.Router) {
		r.Get("/", h.ContestInfo)
		r.Get("/user-state", h.UserState)
		r.Get("/nominees", h.PublicNominees)
		r.Post("/nominees", h.SubmitNominee)
		r.Get("/finalists", h.Finalists)

		r.Post("/votes", h.CastVote)
		r.Post("/social-handle", h.RecordSocialHandle)

		r.Get("/judging", h.JudgingList)
		r.Post("/judging", h.SubmitRanking)
		r.Get("/judge-comments", h.JudgeComments)

		r.Post("/event-voters", h.RegisterEventVoter)
		r.Post("/event-votes", h.CastEventVote)

		r.Route("/admin", func(r chi.Router) {
			r.Get("/scores", h.ReviewScores)
			r.Get("/votes", h.ReviewVotes)
			r.Get("/judges", h.ReviewJudges)
			r.Get("/nominees", h.ReviewNominees)
			r.Get("/event-votes", h.AdminEventTally)
			r.Post("/vote-status", h.SetVoteStatus)
			r.Post("/nominee-visibility", h.SetNomineeVisibility)
			r.Post("/send-invites", h.SendInvites)
		})
	})

	return r
}
