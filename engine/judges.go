package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"pitchcontest/models"
	"pitchcontest/phase"
	"pitchcontest/store"
)

// JudgeRankLedger records each judge's private top-N ranking and
// comments. A resubmission replaces the judge's prior state wholesale.
type JudgeRankLedger struct {
	store  *store.Storage
	logger *slog.Logger
}

func NewJudgeRankLedger(st *store.Storage, logger *slog.Logger) *JudgeRankLedger {
	return &JudgeRankLedger{store: st, logger: logger}
}

// SubmitRanking validates and stores the judge's ranking. Ranks are
// judge-private scratch values from 1 (best) to MaxRanks; two judges
// may both rank the same nominee first.
func (l *JudgeRankLedger) SubmitRanking(ctx context.Context, contest *models.Contest,
	judgeID string, entries []models.RankingEntry) error {

	flags := phase.Derive(contest, time.Now())
	if !flags.IsJudging {
		return &PhaseError{Message: "Judging is not currently open"}
	}

	var ranks []models.JudgeRank
	var comments []models.JudgeComment
	for _, e := range entries {
		nominee, err := l.store.GetContestNominee(ctx, contest.ID, e.NomineeRef)
		if err != nil {
			return err
		}
		if !nominee.IsPublic {
			return store.ErrNotFound
		}
		if e.Rank != nil {
			if *e.Rank < 1 || *e.Rank > models.MaxRanks {
				return &ValidationError{
					Message: fmt.Sprintf("rank %d out of range 1..%d", *e.Rank, models.MaxRanks),
				}
			}
			ranks = append(ranks, models.JudgeRank{
				JudgeID:   judgeID,
				NomineeID: nominee.ID,
				Rank:      *e.Rank,
			})
		}
		if e.Comment != "" {
			comments = append(comments, models.JudgeComment{
				JudgeID:   judgeID,
				NomineeID: nominee.ID,
				Comment:   e.Comment,
			})
		}
	}

	if err := l.store.ReplaceJudgeRanking(ctx, contest.ID, judgeID, ranks, comments); err != nil {
		return fmt.Errorf("failed to store ranking: %w", err)
	}
	l.logger.InfoContext(ctx, "ranking submitted",
		"judge", judgeID, "contest", contest.ID, "ranks", len(ranks), "comments", len(comments))
	return nil
}

// JudgingList returns the contest's public nominees with the judge's
// own current ranks and comments, for the judging form readback.
func (l *JudgeRankLedger) JudgingList(ctx context.Context, contest *models.Contest,
	judgeID string) ([]models.JudgingEntry, error) {

	nominees, err := l.store.PublicNominees(ctx, contest.ID)
	if err != nil {
		return nil, err
	}
	ranks, err := l.store.JudgeRanksByNominee(ctx, contest.ID, judgeID)
	if err != nil {
		return nil, err
	}
	comments, err := l.store.JudgeCommentsByNominee(ctx, contest.ID, judgeID)
	if err != nil {
		return nil, err
	}

	entries := make([]models.JudgingEntry, 0, len(nominees))
	for _, n := range nominees {
		e := models.JudgingEntry{
			NomineeRef:  n.ID,
			DisplayName: n.DisplayName,
			Comment:     comments[n.ID],
		}
		if r, ok := ranks[n.ID]; ok {
			rank := r
			e.Rank = &rank
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// RanksFor returns every judge's rank for the nominee.
func (l *JudgeRankLedger) RanksFor(ctx context.Context, nomineeID string) ([]int, error) {
	return l.store.RanksForNominee(ctx, nomineeID)
}
