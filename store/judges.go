package store

import (
	"context"

	"pitchcontest/models"
)

// ReplaceJudgeRanking deletes the judge's existing ranks and comments for
// the contest's nominees and inserts the new submission, in one
// transaction. There is no merge: a resubmission fully replaces the
// judge's prior state.
func (s *Storage) ReplaceJudgeRanking(ctx context.Context, contestID, judgeID string,
	ranks []models.JudgeRank, comments []models.JudgeComment) error {

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	deleteRanks := `
        DELETE FROM judge_rank r
        USING nominee n
        WHERE r.nominee_id = n.id AND n.contest_id = $1 AND r.judge_id = $2`
	if _, err := tx.ExecContext(ctx, deleteRanks, contestID, judgeID); err != nil {
		return err
	}
	deleteComments := `
        DELETE FROM judge_comment c
        USING nominee n
        WHERE c.nominee_id = n.id AND n.contest_id = $1 AND c.judge_id = $2`
	if _, err := tx.ExecContext(ctx, deleteComments, contestID, judgeID); err != nil {
		return err
	}

	for _, r := range ranks {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO judge_rank (judge_id, nominee_id, rank) VALUES ($1, $2, $3)`,
			r.JudgeID, r.NomineeID, r.Rank)
		if err != nil {
			return err
		}
	}
	for _, c := range comments {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO judge_comment (judge_id, nominee_id, comment) VALUES ($1, $2, $3)`,
			c.JudgeID, c.NomineeID, c.Comment)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// RanksForNominee returns every judge's rank value for the nominee.
func (s *Storage) RanksForNominee(ctx context.Context, nomineeID string) ([]int, error) {
	ranks := []int{}
	query := `SELECT rank FROM judge_rank WHERE nominee_id = $1 ORDER BY rank`
	err := s.db.SelectContext(ctx, &ranks, query, nomineeID)
	return ranks, err
}

// JudgeRanksByNominee returns the judge's own ranks for the contest's
// nominees, keyed by nominee ID.
func (s *Storage) JudgeRanksByNominee(ctx context.Context, contestID, judgeID string) (map[string]int, error) {
	rows := []models.JudgeRank{}
	query := `
        SELECT r.judge_id, r.nominee_id, r.rank FROM judge_rank r
        JOIN nominee n ON n.id = r.nominee_id
        WHERE n.contest_id = $1 AND r.judge_id = $2`
	if err := s.db.SelectContext(ctx, &rows, query, contestID, judgeID); err != nil {
		return nil, err
	}
	ranks := make(map[string]int, len(rows))
	for _, r := range rows {
		ranks[r.NomineeID] = r.Rank
	}
	return ranks, nil
}

// JudgeCommentsByNominee returns the judge's own comments for the
// contest's nominees, keyed by nominee ID.
func (s *Storage) JudgeCommentsByNominee(ctx context.Context, contestID, judgeID string) (map[string]string, error) {
	rows := []models.JudgeComment{}
	query := `
        SELECT c.judge_id, c.nominee_id, c.comment FROM judge_comment c
        JOIN nominee n ON n.id = c.nominee_id
        WHERE n.contest_id = $1 AND c.judge_id = $2`
	if err := s.db.SelectContext(ctx, &rows, query, contestID, judgeID); err != nil {
		return nil, err
	}
	comments := make(map[string]string, len(rows))
	for _, c := range rows {
		comments[c.NomineeID] = c.Comment
	}
	return comments, nil
}

// CommentsForNominee returns all judges' comments for a nominee, without
// judge identity.
func (s *Storage) CommentsForNominee(ctx context.Context, nomineeID string) ([]string, error) {
	comments := []string{}
	query := `SELECT comment FROM judge_comment WHERE nominee_id = $1`
	err := s.db.SelectContext(ctx, &comments, query, nomineeID)
	return comments, err
}

// RankCountForJudge counts how many of the contest's public nominees the
// judge has ranked, for the admin judge-progress review.
func (s *Storage) RankCountForJudge(ctx context.Context, contestID, judgeID string) (int, error) {
	var count int
	query := `
        SELECT COUNT(1) FROM judge_rank r
        JOIN nominee n ON n.id = r.nominee_id
        WHERE n.contest_id = $1 AND n.is_public = TRUE AND r.judge_id = $2`
	err := s.db.GetContext(ctx, &count, query, contestID, judgeID)
	return count, err
}
