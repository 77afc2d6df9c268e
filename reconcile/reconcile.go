// Package reconcile matches externally fetched social posts to pending
// public votes and upgrades a confirmed vote's weight from single to
// double. It is advisory tooling: it only ever changes Vote.status and
// reports every ambiguous case for a human to resolve.
package reconcile

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strings"
	"time"

	"pitchcontest/engine"
	"pitchcontest/models"
	"pitchcontest/store"
)

// Post is one externally fetched social post.
type Post struct {
	Author    string    `json:"author"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
	IsRetweet bool      `json:"is_retweet"`
}

// Finding is one anomaly the operator should look at.
type Finding struct {
	Handle     string    `json:"handle,omitempty"`
	NomineeRef string    `json:"nominee_ref,omitempty"`
	At         time.Time `json:"at,omitempty"`
	Detail     string    `json:"detail"`
	Suggestion string    `json:"suggestion,omitempty"`
}

// Report is the outcome of one reconciliation run.
type Report struct {
	Upgraded     int       `json:"upgraded"`
	Duplicates   []Finding `json:"duplicates,omitempty"`
	VoteNotFound []Finding `json:"vote_not_found,omitempty"`
	ParseMisses  []Finding `json:"parse_misses,omitempty"`
	NoTweetFound []Finding `json:"no_tweet_found,omitempty"`
}

var (
	stripNonLetters = regexp.MustCompile(`[^a-z]`)
	// A shared voting link embeds the nominee reference directly.
	linkPattern = regexp.MustCompile(`/([0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12})\b`)
	// Free-text vote announcement, e.g. "I just voted for Acme Corp in the ...".
	tweetPattern = regexp.MustCompile(`I.*voted for (.+) in the`)
)

// Fingerprint reduces a display name to a coarse 5-character key:
// lower-case, letters only, truncated. Coarse on purpose, so minor
// misspellings in a post still match.
func Fingerprint(name string) string {
	s := stripNonLetters.ReplaceAllString(strings.ToLower(name), "")
	if len(s) > 5 {
		s = s[:5]
	}
	return s
}

type Reconciler struct {
	store  *store.Storage
	logger *slog.Logger
}

func New(st *store.Storage, logger *slog.Logger) *Reconciler {
	return &Reconciler{store: st, logger: logger}
}

// Run processes the posts oldest first against the contest's public
// nominees. A post that names a nominee and matches exactly one
// pending single vote for that (nominee, handle) pair upgrades it to
// double. Everything else becomes a report finding; nothing is ever
// guessed.
func (r *Reconciler) Run(ctx context.Context, contest *models.Contest, posts []Post) (*Report, error) {
	nominees, err := r.store.PublicNominees(ctx, contest.ID)
	if err != nil {
		return nil, err
	}
	byFingerprint := make(map[string]string, len(nominees))
	byID := make(map[string]models.Nominee, len(nominees))
	for _, n := range nominees {
		byFingerprint[Fingerprint(n.DisplayName)] = n.ID
		byID[n.ID] = n
	}

	// Pending set: every live vote carrying a social handle that has not
	// yet been confirmed. Removal marks a vote as accounted for. Invalid
	// votes were retracted by an operator and stay untouchable.
	pending := make(map[string]models.Vote)
	votes, err := r.store.VotesForContest(ctx, contest.ID)
	if err != nil {
		return nil, err
	}
	for _, v := range votes {
		if v.SocialHandle != "" && v.Status != models.VoteStatusInvalid {
			pending[v.ID] = v
		}
	}

	report := &Report{}
	matchedHandles := make(map[string]bool)
	// Posts that named a nominee but matched no vote, kept for the
	// no-tweet-found remediation hints.
	type orphanPost struct {
		handle    string
		nomineeID string
		at        time.Time
	}
	var orphans []orphanPost

	sorted := make([]Post, len(posts))
	copy(sorted, posts)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
	})

	for _, post := range sorted {
		if post.IsRetweet {
			continue
		}
		handle := engine.NormalizeHandle(post.Author)

		nomineeID, ok := r.extractNominee(post.Text, byFingerprint, byID)
		if !ok {
			if !matchedHandles[handle] {
				report.ParseMisses = append(report.ParseMisses, Finding{
					Handle: handle,
					At:     post.CreatedAt,
					Detail: fmt.Sprintf("post did not name a contestant: %s", post.Text),
				})
			}
			continue
		}

		candidates, err := r.store.VotesByNomineeAndHandle(ctx, nomineeID, handle)
		if err != nil {
			return nil, err
		}
		switch {
		case len(candidates) == 1 && candidates[0].Status != models.VoteStatusInvalid:
			v := candidates[0]
			if _, isPending := pending[v.ID]; isPending {
				if v.Status != models.VoteStatusDouble {
					if err := r.store.UpdateVoteStatus(ctx, v.ID, models.VoteStatusDouble); err != nil {
						return nil, err
					}
					report.Upgraded++
					r.logger.InfoContext(ctx, "vote upgraded",
						"vote", v.ID, "handle", handle, "nominee", nomineeID)
				}
				delete(pending, v.ID)
				matchedHandles[handle] = true
			} else if !matchedHandles[handle] {
				report.Duplicates = append(report.Duplicates, Finding{
					Handle:     handle,
					NomineeRef: nomineeID,
					At:         post.CreatedAt,
					Detail:     "vote already accounted for",
				})
			}
		case len(candidates) > 1:
			report.Duplicates = append(report.Duplicates, Finding{
				Handle:     handle,
				NomineeRef: nomineeID,
				At:         post.CreatedAt,
				Detail:     fmt.Sprintf("%d votes for the same handle and contestant", len(candidates)),
			})
		default:
			if !matchedHandles[handle] {
				report.VoteNotFound = append(report.VoteNotFound, Finding{
					Handle:     handle,
					NomineeRef: nomineeID,
					At:         post.CreatedAt.Truncate(time.Minute),
					Detail:     "no vote recorded under this handle",
				})
				orphans = append(orphans, orphanPost{
					handle: handle, nomineeID: nomineeID, at: post.CreatedAt,
				})
			}
		}
	}

	// Report every pending vote no post accounted for. A handle
	// starting with '!' was invalidated by an operator and stays quiet.
	remaining := make([]models.Vote, 0, len(pending))
	for _, v := range pending {
		remaining = append(remaining, v)
	}
	sort.SliceStable(remaining, func(i, j int) bool {
		return remaining[i].CreatedAt.Before(remaining[j].CreatedAt)
	})
	for _, v := range remaining {
		if strings.Contains(v.SocialHandle, "!") ||
			v.Status == models.VoteStatusDouble {
			continue
		}
		f := Finding{
			Handle:     v.SocialHandle,
			NomineeRef: v.NomineeID,
			At:         v.CreatedAt,
			Detail:     "no post found for this vote",
		}
		for _, o := range orphans {
			if o.nomineeID == v.NomineeID && near(o.at, v.CreatedAt) {
				f.Suggestion = fmt.Sprintf(
					"contestctl handle-update -c %s -o %s -n %s",
					contest.ID, v.SocialHandle, o.handle)
				break
			}
		}
		report.NoTweetFound = append(report.NoTweetFound, f)
	}
	return report, nil
}

// extractNominee tries the embedded-link reference first, then the
// free-text announcement matched through the fingerprint index.
func (r *Reconciler) extractNominee(text string, byFingerprint map[string]string,
	byID map[string]models.Nominee) (string, bool) {

	if m := linkPattern.FindStringSubmatch(text); m != nil {
		if _, ok := byID[m[1]]; ok {
			return m[1], true
		}
	}
	if m := tweetPattern.FindStringSubmatch(text); m != nil {
		if id, ok := byFingerprint[Fingerprint(m[1])]; ok {
			return id, true
		}
	}
	return "", false
}

// near reports whether two instants fall within the same 10-minute
// window, the cross-reference radius for remediation hints.
func near(a, b time.Time) bool {
	d := a.Sub(b)
	if d < 0 {
		d = -d
	}
	return d <= 10*time.Minute
}
