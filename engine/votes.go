package engine

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"pitchcontest/models"
	"pitchcontest/phase"
	"pitchcontest/store"
)

// VoteLedger records public web votes and their social handles.
type VoteLedger struct {
	store  *store.Storage
	logger *slog.Logger
}

func NewVoteLedger(st *store.Storage, logger *slog.Logger) *VoteLedger {
	return &VoteLedger{store: st, logger: logger}
}

// CastVote records a single-weight vote for the nominee. Outside the
// public-voting window it returns a PhaseError. A voter who already
// holds a live vote in the contest gets a silent no-op, so a retried
// submission never surfaces as an error.
func (l *VoteLedger) CastVote(ctx context.Context, contest *models.Contest,
	userID, nomineeID, remoteAddr, userAgent string) error {

	flags := phase.Derive(contest, time.Now())
	if !flags.IsPublicVoting {
		return &PhaseError{Message: "Public voting is not currently open"}
	}

	nominee, err := l.store.GetContestNominee(ctx, contest.ID, nomineeID)
	if err != nil {
		return err
	}
	if !nominee.IsPublic {
		return store.ErrNotFound
	}

	existing, err := l.store.VoteForUser(ctx, contest.ID, userID)
	if err != nil {
		return err
	}
	if existing != nil {
		l.logger.InfoContext(ctx, "duplicate vote ignored",
			"voter", userID, "contest", contest.ID, "existing_vote", existing.ID)
		return nil
	}

	vote := &models.Vote{
		ID:        uuid.NewString(),
		ContestID: contest.ID,
		NomineeID: nominee.ID,
		UserID:    userID,
		Status:    models.VoteStatusSingle,
	}
	if err := l.store.CreateVote(ctx, vote); err != nil {
		// The partial unique index is the source of truth for the
		// one-live-vote invariant; losing the race is still a no-op.
		if store.IsUniqueViolation(err) {
			l.logger.InfoContext(ctx, "duplicate vote ignored",
				"voter", userID, "contest", contest.ID)
			return nil
		}
		return fmt.Errorf("failed to record vote: %w", err)
	}

	// Audit entry for fraud review.
	l.logger.InfoContext(ctx, "vote cast",
		"voter", userID,
		"nominee", nominee.ID,
		"contest", contest.ID,
		"remote_addr", remoteAddr,
		"user_agent", userAgent)
	return nil
}

// RecordSocialHandle attaches a normalized handle to the caller's own
// vote. A caller with no vote gets a logged no-op, and overwriting a
// different handle is a warning, never a failure.
func (l *VoteLedger) RecordSocialHandle(ctx context.Context, contest *models.Contest,
	userID, rawHandle string) error {

	vote, err := l.store.VoteForUser(ctx, contest.ID, userID)
	if err != nil {
		return err
	}
	if vote == nil {
		l.logger.WarnContext(ctx, "social handle with no vote",
			"voter", userID, "contest", contest.ID, "handle", rawHandle)
		return nil
	}

	handle := NormalizeHandle(rawHandle)
	if vote.SocialHandle != "" && vote.SocialHandle != handle {
		l.logger.WarnContext(ctx, "replacing social handle",
			"vote", vote.ID, "old", vote.SocialHandle, "new", handle)
	}
	return l.store.UpdateVoteHandle(ctx, vote.ID, handle)
}

// Tally returns the weighted vote score per nominee: single counts 1,
// double counts 2.
func (l *VoteLedger) Tally(ctx context.Context, contest *models.Contest) (map[string]int, error) {
	return l.store.TallyVotes(ctx, contest.ID)
}

// handleSuffixes are mail-domain tails people paste along with their
// handle; they carry no identity beyond the local part.
var handleSuffixes = []string{
	"@gmail.com",
	"@yahoo.com",
	"@hotmail.com",
	"@outlook.com",
}

const maxHandleLen = 100

var nonHandleChars = regexp.MustCompile(`[^a-z0-9]`)

// NormalizeHandle canonicalizes a pasted social handle: lower-case,
// profile-URL prefix and leading @ stripped, known mail-domain suffix
// stripped, then reduced to letters and digits so punctuation variants
// of the same handle collapse to one key. Truncated to the storage
// column width.
func NormalizeHandle(raw string) string {
	h := strings.ToLower(strings.TrimSpace(raw))
	for _, prefix := range []string{"https://twitter.com/", "http://twitter.com/", "twitter.com/"} {
		if strings.HasPrefix(h, prefix) {
			h = h[len(prefix):]
			break
		}
	}
	h = strings.TrimPrefix(h, "@")
	for _, suffix := range handleSuffixes {
		if strings.HasSuffix(h, suffix) {
			h = h[:len(h)-len(suffix)]
			break
		}
	}
	h = nonHandleChars.ReplaceAllString(h, "")
	if len(h) > maxHandleLen {
		h = h[:maxHandleLen]
	}
	return h
}
