package store

import (
	"context"
	"database/sql"
	"errors"

	"pitchcontest/models"
)

func (s *Storage) CreateVote(ctx context.Context, v *models.Vote) error {
	query := `
        INSERT INTO vote (id, contest_id, nominee_id, user_id, status, social_handle)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING created_at`
	return s.db.QueryRowContext(ctx, query,
		v.ID, v.ContestID, v.NomineeID, v.UserID, v.Status, v.SocialHandle,
	).Scan(&v.CreatedAt)
}

func (s *Storage) GetVote(ctx context.Context, id string) (*models.Vote, error) {
	v := &models.Vote{}
	query := `SELECT * FROM vote WHERE id = $1`
	if err := s.db.GetContext(ctx, v, query, id); err != nil {
		return nil, notFound(err)
	}
	return v, nil
}

// VoteForUser returns the user's live (non-invalid) vote in the contest,
// or nil if they have not voted.
func (s *Storage) VoteForUser(ctx context.Context, contestID, userID string) (*models.Vote, error) {
	v := &models.Vote{}
	query := `
        SELECT * FROM vote
        WHERE contest_id = $1 AND user_id = $2 AND status <> 'invalid'`
	if err := s.db.GetContext(ctx, v, query, contestID, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return v, nil
}

func (s *Storage) UpdateVoteStatus(ctx context.Context, voteID, status string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE vote SET status = $1 WHERE id = $2`, status, voteID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Storage) UpdateVoteHandle(ctx context.Context, voteID, handle string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE vote SET social_handle = $1 WHERE id = $2`, handle, voteID)
	return err
}

// ReplaceVoteHandle rewrites every vote in the contest recorded under
// the old handle, whatever the nominee's visibility. Returns the number
// of votes changed.
func (s *Storage) ReplaceVoteHandle(ctx context.Context, contestID, oldHandle, newHandle string) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE vote SET social_handle = $1 WHERE contest_id = $2 AND social_handle = $3`,
		newHandle, contestID, oldHandle)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// VotesForContest returns all votes against the contest's public
// nominees, newest first, for admin review.
func (s *Storage) VotesForContest(ctx context.Context, contestID string) ([]models.Vote, error) {
	votes := []models.Vote{}
	query := `
        SELECT v.* FROM vote v
        JOIN nominee n ON n.id = v.nominee_id
        WHERE v.contest_id = $1 AND n.is_public = TRUE
        ORDER BY v.created_at DESC`
	err := s.db.SelectContext(ctx, &votes, query, contestID)
	return votes, err
}

// VotesByNomineeAndHandle returns all votes recorded for the nominee
// under the given social handle, regardless of status.
func (s *Storage) VotesByNomineeAndHandle(ctx context.Context, nomineeID, handle string) ([]models.Vote, error) {
	votes := []models.Vote{}
	query := `
        SELECT * FROM vote
        WHERE nominee_id = $1 AND social_handle = $2
        ORDER BY created_at`
	err := s.db.SelectContext(ctx, &votes, query, nomineeID, handle)
	return votes, err
}

// TallyVotes computes the weighted vote score per nominee:
// single counts 1, double counts 2, invalid counts 0.
func (s *Storage) TallyVotes(ctx context.Context, contestID string) (map[string]int, error) {
	rows := []struct {
		NomineeID string `db:"nominee_id"`
		Score     int    `db:"score"`
	}{}
	query := `
        SELECT nominee_id,
               SUM(CASE status WHEN 'single' THEN 1 WHEN 'double' THEN 2 ELSE 0 END) AS score
        FROM vote
        WHERE contest_id = $1
        GROUP BY nominee_id`
	if err := s.db.SelectContext(ctx, &rows, query, contestID); err != nil {
		return nil, err
	}
	scores := make(map[string]int, len(rows))
	for _, r := range rows {
		scores[r.NomineeID] = r.Score
	}
	return scores, nil
}
