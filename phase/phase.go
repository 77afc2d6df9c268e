package phase

import (
	"time"

	"pitchcontest/models"
)

// Flags is the set of derived lifecycle predicates for one instant.
// Window flags use inclusive range tests (start <= now <= end);
// IsPreNominating and IsExpired are the open boundaries on either side.
type Flags struct {
	IsPreNominating      bool
	IsNominating         bool
	IsPublicVoting       bool
	IsSemiFinalistWindow bool
	IsJudging            bool
	IsEventRegistration  bool
	IsEventVoting        bool
	IsExpired            bool
}

// Derive computes the lifecycle flags for a contest at the given instant.
// All comparisons happen in the contest's declared time zone; an unknown
// zone falls back to UTC.
func Derive(c *models.Contest, now time.Time) Flags {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		loc = time.UTC
	}
	now = now.In(loc)

	in := func(start, end time.Time) bool {
		start, end = start.In(loc), end.In(loc)
		return !now.Before(start) && !now.After(end)
	}

	return Flags{
		IsPreNominating:      now.Before(c.SubmissionStart.In(loc)),
		IsNominating:         in(c.SubmissionStart, c.SubmissionEnd),
		IsPublicVoting:       in(c.PublicVotingStart, c.PublicVotingEnd),
		IsSemiFinalistWindow: in(c.PublicVotingEnd, c.JudgingEnd),
		IsJudging:            in(c.JudgingStart, c.JudgingEnd),
		IsEventRegistration:  in(c.SubmissionStart, c.EventVotingEnd),
		IsEventVoting:        in(c.EventVotingStart, c.EventVotingEnd),
		IsExpired:            now.After(c.EventVotingEnd.In(loc)),
	}
}

// ShowAllContestants reports whether the public contestant list should be
// visible at the given instant.
func ShowAllContestants(c *models.Contest, now time.Time) bool {
	return inRange(c, now, c.SubmissionStart, c.PublicVotingEnd)
}

// ShowSemiFinalists reports whether the semi-finalist list window is open.
func ShowSemiFinalists(c *models.Contest, now time.Time) bool {
	return inRange(c, now, c.PublicVotingEnd, c.JudgingEnd)
}

// ShowFinalists reports whether the finalist list window is open.
func ShowFinalists(c *models.Contest, now time.Time) bool {
	return inRange(c, now, c.JudgingEnd, c.EventVotingEnd)
}

func inRange(c *models.Contest, now, start, end time.Time) bool {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		loc = time.UTC
	}
	now = now.In(loc)
	return !now.Before(start.In(loc)) && !now.After(end.In(loc))
}
