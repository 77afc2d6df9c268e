package store

import (
	"context"

	"pitchcontest/models"
)

func (s *Storage) CreateContest(ctx context.Context, c *models.Contest) error {
	query := `
        INSERT INTO contest (id, display_name, time_zone,
            submission_start, submission_end,
            public_voting_start, public_voting_end,
            judging_start, judging_end,
            event_voting_start, event_voting_end)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
        RETURNING created_at`
	return s.db.QueryRowContext(ctx, query,
		c.ID, c.DisplayName, c.TimeZone,
		c.SubmissionStart, c.SubmissionEnd,
		c.PublicVotingStart, c.PublicVotingEnd,
		c.JudgingStart, c.JudgingEnd,
		c.EventVotingStart, c.EventVotingEnd,
	).Scan(&c.CreatedAt)
}

func (s *Storage) GetContest(ctx context.Context, id string) (*models.Contest, error) {
	c := &models.Contest{}
	query := `SELECT * FROM contest WHERE id = $1`
	if err := s.db.GetContext(ctx, c, query, id); err != nil {
		return nil, notFound(err)
	}
	return c, nil
}

// UpdateContestTimes rewrites the contest's window timestamps and time
// zone. Window ordering is not validated here; overlapping windows are
// a supported configuration.
func (s *Storage) UpdateContestTimes(ctx context.Context, c *models.Contest) error {
	query := `
        UPDATE contest SET
            time_zone = $1,
            submission_start = $2, submission_end = $3,
            public_voting_start = $4, public_voting_end = $5,
            judging_start = $6, judging_end = $7,
            event_voting_start = $8, event_voting_end = $9
        WHERE id = $10`
	_, err := s.db.ExecContext(ctx, query,
		c.TimeZone,
		c.SubmissionStart, c.SubmissionEnd,
		c.PublicVotingStart, c.PublicVotingEnd,
		c.JudgingStart, c.JudgingEnd,
		c.EventVotingStart, c.EventVotingEnd,
		c.ID)
	return err
}
