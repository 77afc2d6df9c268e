package phase_test

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"pitchcontest/models"
	"pitchcontest/phase"
)

// newContest builds a contest with consecutive non-overlapping windows
// spaced gap apart, starting at base.
func newContest(base time.Time, window, gap time.Duration) *models.Contest {
	c := &models.Contest{DisplayName: "Test Contest", TimeZone: "America/Denver"}
	c.SubmissionStart = base
	c.SubmissionEnd = c.SubmissionStart.Add(window)
	c.PublicVotingStart = c.SubmissionEnd.Add(gap)
	c.PublicVotingEnd = c.PublicVotingStart.Add(window)
	c.JudgingStart = c.PublicVotingEnd.Add(gap)
	c.JudgingEnd = c.JudgingStart.Add(window)
	c.EventVotingStart = c.JudgingEnd.Add(gap)
	c.EventVotingEnd = c.EventVotingStart.Add(window)
	return c
}

func TestDeriveEachWindow(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c := newContest(base, 24*time.Hour, time.Hour)

	tests := []struct {
		name string
		now  time.Time
		want func(phase.Flags) bool
	}{
		{"pre-nominating", base.Add(-time.Minute), func(f phase.Flags) bool { return f.IsPreNominating }},
		{"nominating", base.Add(time.Hour), func(f phase.Flags) bool { return f.IsNominating }},
		{"public voting", c.PublicVotingStart.Add(time.Hour), func(f phase.Flags) bool { return f.IsPublicVoting }},
		{"judging", c.JudgingStart.Add(time.Hour), func(f phase.Flags) bool { return f.IsJudging }},
		{"event voting", c.EventVotingStart.Add(time.Hour), func(f phase.Flags) bool { return f.IsEventVoting }},
		{"expired", c.EventVotingEnd.Add(time.Second), func(f phase.Flags) bool { return f.IsExpired }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.True(t, tt.want(phase.Derive(c, tt.now)))
		})
	}
}

func TestDeriveBoundariesInclusive(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c := newContest(base, 24*time.Hour, time.Hour)

	f := phase.Derive(c, c.PublicVotingStart)
	require.True(t, f.IsPublicVoting, "window start is inclusive")

	f = phase.Derive(c, c.PublicVotingEnd)
	require.True(t, f.IsPublicVoting, "window end is inclusive")

	f = phase.Derive(c, c.EventVotingEnd)
	require.False(t, f.IsExpired, "not expired until strictly after event voting end")
	require.True(t, f.IsEventVoting)
}

// Non-overlapping windows must never produce two simultaneous activity
// phases, at any instant.
func TestDeriveExclusivityProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 200; i++ {
		base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).
			Add(time.Duration(rng.Intn(10000)) * time.Hour)
		window := time.Duration(1+rng.Intn(72)) * time.Hour
		gap := time.Duration(1+rng.Intn(48)) * time.Hour
		c := newContest(base, window, gap)

		span := c.EventVotingEnd.Sub(c.SubmissionStart)
		for j := 0; j < 50; j++ {
			now := c.SubmissionStart.Add(time.Duration(rng.Int63n(int64(span) + 2)))
			f := phase.Derive(c, now)
			active := 0
			for _, b := range []bool{f.IsNominating, f.IsPublicVoting, f.IsJudging, f.IsEventVoting} {
				if b {
					active++
				}
			}
			require.LessOrEqual(t, active, 1,
				"windows %v/%v at %v derived %+v", window, gap, now, f)
		}
	}
}

func TestDeriveSpanningFlags(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c := newContest(base, 24*time.Hour, time.Hour)

	// Event registration runs from submission open to event voting close.
	f := phase.Derive(c, c.PublicVotingStart.Add(time.Hour))
	require.True(t, f.IsEventRegistration)
	f = phase.Derive(c, base.Add(-time.Second))
	require.False(t, f.IsEventRegistration)

	// Semi-finalist window covers the judging gap too.
	f = phase.Derive(c, c.PublicVotingEnd.Add(30*time.Minute))
	require.True(t, f.IsSemiFinalistWindow)
	require.False(t, f.IsJudging)
}

func TestDeriveUnknownTimeZoneFallsBackToUTC(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c := newContest(base, 24*time.Hour, time.Hour)
	c.TimeZone = "Not/AZone"

	f := phase.Derive(c, base.Add(time.Hour))
	require.True(t, f.IsNominating)
}

func TestShowWindows(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c := newContest(base, 24*time.Hour, time.Hour)

	require.True(t, phase.ShowAllContestants(c, c.PublicVotingEnd))
	require.False(t, phase.ShowAllContestants(c, c.PublicVotingEnd.Add(time.Second)))
	require.True(t, phase.ShowSemiFinalists(c, c.JudgingStart))
	require.True(t, phase.ShowFinalists(c, c.EventVotingStart))
	require.False(t, phase.ShowFinalists(c, c.JudgingEnd.Add(-time.Second)))
}
