package store

import (
	"context"

	"pitchcontest/models"
)

func (s *Storage) CreateNominee(ctx context.Context, n *models.Nominee) error {
	query := `
        INSERT INTO nominee (id, contest_id, submitter_id, display_name,
            url, youtube_code, summary, is_valid, is_public)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        RETURNING created_at`
	return s.db.QueryRowContext(ctx, query,
		n.ID, n.ContestID, n.SubmitterID, n.DisplayName,
		n.URL, n.YoutubeCode, n.Summary, n.IsValid, n.IsPublic,
	).Scan(&n.CreatedAt)
}

func (s *Storage) GetNominee(ctx context.Context, id string) (*models.Nominee, error) {
	n := &models.Nominee{}
	query := `SELECT * FROM nominee WHERE id = $1`
	if err := s.db.GetContext(ctx, n, query, id); err != nil {
		return nil, notFound(err)
	}
	return n, nil
}

// GetContestNominee resolves a nominee reference and verifies it belongs
// to the contest; an unrelated reference is a not-found, never a leak.
func (s *Storage) GetContestNominee(ctx context.Context, contestID, nomineeID string) (*models.Nominee, error) {
	n := &models.Nominee{}
	query := `SELECT * FROM nominee WHERE id = $1 AND contest_id = $2`
	if err := s.db.GetContext(ctx, n, query, nomineeID, contestID); err != nil {
		return nil, notFound(err)
	}
	return n, nil
}

func (s *Storage) AllNominees(ctx context.Context, contestID string) ([]models.Nominee, error) {
	nominees := []models.Nominee{}
	query := `SELECT * FROM nominee WHERE contest_id = $1 ORDER BY display_name`
	err := s.db.SelectContext(ctx, &nominees, query, contestID)
	return nominees, err
}

func (s *Storage) PublicNominees(ctx context.Context, contestID string) ([]models.Nominee, error) {
	nominees := []models.Nominee{}
	query := `
        SELECT * FROM nominee
        WHERE contest_id = $1 AND is_public = TRUE
        ORDER BY display_name`
	err := s.db.SelectContext(ctx, &nominees, query, contestID)
	return nominees, err
}

func (s *Storage) FinalistNominees(ctx context.Context, contestID string) ([]models.Nominee, error) {
	nominees := []models.Nominee{}
	query := `
        SELECT * FROM nominee
        WHERE contest_id = $1 AND is_finalist = TRUE
        ORDER BY display_name`
	err := s.db.SelectContext(ctx, &nominees, query, contestID)
	return nominees, err
}

// SemiFinalistNomineesForUser returns the user's own semi-finalist
// nominees, used to gate judge-comment readback to submitters.
func (s *Storage) SemiFinalistNomineesForUser(ctx context.Context, contestID, userID string) ([]models.Nominee, error) {
	nominees := []models.Nominee{}
	query := `
        SELECT * FROM nominee
        WHERE contest_id = $1 AND submitter_id = $2 AND is_semi_finalist = TRUE
        ORDER BY display_name`
	err := s.db.SelectContext(ctx, &nominees, query, contestID, userID)
	return nominees, err
}

// UpdateNomineeFlags persists visibility and the promotion booleans.
func (s *Storage) UpdateNomineeFlags(ctx context.Context, n *models.Nominee) error {
	query := `
        UPDATE nominee SET
            is_valid = $1, is_public = $2,
            is_semi_finalist = $3, is_finalist = $4, is_winner = $5
        WHERE id = $6`
	_, err := s.db.ExecContext(ctx, query,
		n.IsValid, n.IsPublic, n.IsSemiFinalist, n.IsFinalist, n.IsWinner, n.ID)
	return err
}

// SetContestWinner marks a single nominee as the contest winner,
// clearing any previous winner in the same transaction.
func (s *Storage) SetContestWinner(ctx context.Context, contestID, nomineeID string) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`UPDATE nominee SET is_winner = FALSE WHERE contest_id = $1`, contestID); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx,
		`UPDATE nominee SET is_winner = TRUE WHERE id = $1 AND contest_id = $2`,
		nomineeID, contestID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return tx.Commit()
}

// ContestWinner returns the winning nominee, or nil if none is set.
func (s *Storage) ContestWinner(ctx context.Context, contestID string) (*models.Nominee, error) {
	n := &models.Nominee{}
	query := `SELECT * FROM nominee WHERE contest_id = $1 AND is_winner = TRUE LIMIT 1`
	if err := s.db.GetContext(ctx, n, query, contestID); err != nil {
		if notFound(err) == ErrNotFound {
			return nil, nil
		}
		return nil, err
	}
	return n, nil
}

func (s *Storage) CountPublicNominees(ctx context.Context, contestID string) (int, error) {
	var count int
	query := `SELECT COUNT(1) FROM nominee WHERE contest_id = $1 AND is_public = TRUE`
	err := s.db.GetContext(ctx, &count, query, contestID)
	return count, err
}

func (s *Storage) CountSemiFinalists(ctx context.Context, contestID string) (int, error) {
	var count int
	query := `SELECT COUNT(1) FROM nominee WHERE contest_id = $1 AND is_semi_finalist = TRUE`
	err := s.db.GetContext(ctx, &count, query, contestID)
	return count, err
}

func (s *Storage) CountFinalists(ctx context.Context, contestID string) (int, error) {
	var count int
	query := `SELECT COUNT(1) FROM nominee WHERE contest_id = $1 AND is_finalist = TRUE`
	err := s.db.GetContext(ctx, &count, query, contestID)
	return count, err
}
