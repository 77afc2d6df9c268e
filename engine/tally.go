package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"pitchcontest/models"
	"pitchcontest/store"
)

// Metric selects which score column Promote sorts by.
type Metric string

const (
	MetricVote      Metric = "vote"
	MetricJudge     Metric = "judge"
	MetricComposite Metric = "composite"
)

// Promotion flags assignable through Promote. Winner is set separately
// and only ever by an explicit administrative choice.
const (
	FlagSemiFinalist = "semi_finalist"
	FlagFinalist     = "finalist"
)

// ScoreTally combines vote and judge scores into per-nominee totals and
// applies the administrative promotion steps.
type ScoreTally struct {
	store  *store.Storage
	logger *slog.Logger
}

func NewScoreTally(st *store.Storage, logger *slog.Logger) *ScoreTally {
	return &ScoreTally{store: st, logger: logger}
}

// TallyAll scores every public nominee. The judge score awards
// MaxRanks+1-rank points per rank, so rank 1 is worth MaxRanks points
// and rank MaxRanks is worth one. The composite weights normalized
// vote and judge scores 40/60; when either contest-wide total is zero
// that term contributes nothing. Results are in display-name order.
func (t *ScoreTally) TallyAll(ctx context.Context, contest *models.Contest) ([]models.NomineeScore, error) {
	nominees, err := t.store.PublicNominees(ctx, contest.ID)
	if err != nil {
		return nil, err
	}
	voteScores, err := t.store.TallyVotes(ctx, contest.ID)
	if err != nil {
		return nil, err
	}

	scores := make([]models.NomineeScore, 0, len(nominees))
	voteTotal, judgeTotal := 0, 0
	for _, n := range nominees {
		ranks, err := t.store.RanksForNominee(ctx, n.ID)
		if err != nil {
			return nil, err
		}
		judgeScore := 0
		for _, r := range ranks {
			judgeScore += models.MaxRanks + 1 - r
		}
		voteScore := voteScores[n.ID]
		voteTotal += voteScore
		judgeTotal += judgeScore
		scores = append(scores, models.NomineeScore{
			NomineeRef:  n.ID,
			DisplayName: n.DisplayName,
			VoteScore:   voteScore,
			JudgeScore:  judgeScore,
			JudgeRanks:  ranks,
		})
	}

	for i := range scores {
		var composite float64
		if voteTotal > 0 {
			composite += 0.4 * float64(scores[i].VoteScore) / float64(voteTotal)
		}
		if judgeTotal > 0 {
			composite += 0.6 * float64(scores[i].JudgeScore) / float64(judgeTotal)
		}
		scores[i].Composite = composite
	}
	return scores, nil
}

// Promote marks the top count nominees by the chosen metric as
// semi-finalists or finalists. The sort is stable and the cutoff is
// hard: nominees tied with the last promoted slot but sorted below it
// are not included. Returns the promoted nominees in rank order.
func (t *ScoreTally) Promote(ctx context.Context, contest *models.Contest,
	metric Metric, count int, flag string) ([]models.NomineeScore, error) {

	if flag != FlagSemiFinalist && flag != FlagFinalist {
		return nil, fmt.Errorf("unknown promotion flag %q", flag)
	}

	scores, err := t.TallyAll(ctx, contest)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(scores, func(i, j int) bool {
		switch metric {
		case MetricJudge:
			return scores[i].JudgeScore > scores[j].JudgeScore
		case MetricComposite:
			return scores[i].Composite > scores[j].Composite
		default:
			return scores[i].VoteScore > scores[j].VoteScore
		}
	})

	if count > len(scores) {
		count = len(scores)
	}
	promoted := scores[:count]
	for _, s := range promoted {
		nominee, err := t.store.GetNominee(ctx, s.NomineeRef)
		if err != nil {
			return nil, err
		}
		switch flag {
		case FlagSemiFinalist:
			nominee.IsSemiFinalist = true
		case FlagFinalist:
			nominee.IsFinalist = true
		}
		if err := t.store.UpdateNomineeFlags(ctx, nominee); err != nil {
			return nil, err
		}
		t.logger.InfoContext(ctx, "nominee promoted",
			"nominee", nominee.ID, "contest", contest.ID, "flag", flag)
	}
	return promoted, nil
}

// Winner returns the contest's winning nominee, or nil when none is
// set.
func (t *ScoreTally) Winner(ctx context.Context, contest *models.Contest) (*models.Nominee, error) {
	return t.store.ContestWinner(ctx, contest.ID)
}

// SetWinner marks the nominee as the contest winner, replacing any
// previous choice. The winner is always a manual decision.
func (t *ScoreTally) SetWinner(ctx context.Context, contest *models.Contest, nomineeID string) error {
	if _, err := t.store.GetContestNominee(ctx, contest.ID, nomineeID); err != nil {
		return err
	}
	if err := t.store.SetContestWinner(ctx, contest.ID, nomineeID); err != nil {
		return err
	}
	t.logger.InfoContext(ctx, "winner set", "nominee", nomineeID, "contest", contest.ID)
	return nil
}
