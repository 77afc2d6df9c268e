package store

import (
	"context"

	"pitchcontest/models"
)

func (s *Storage) AddRole(ctx context.Context, contestID, userID, role string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO role_assignment (contest_id, user_id, role) VALUES ($1, $2, $3)
         ON CONFLICT DO NOTHING`,
		contestID, userID, role)
	return err
}

func (s *Storage) RemoveRole(ctx context.Context, contestID, userID, role string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM role_assignment WHERE contest_id = $1 AND user_id = $2 AND role = $3`,
		contestID, userID, role)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Storage) HasRole(ctx context.Context, contestID, userID, role string) (bool, error) {
	var count int
	query := `
        SELECT COUNT(1) FROM role_assignment
        WHERE contest_id = $1 AND user_id = $2 AND role = $3`
	if err := s.db.GetContext(ctx, &count, query, contestID, userID, role); err != nil {
		return false, err
	}
	return count > 0, nil
}

// RolesForUser lists the user's roles in the contest.
func (s *Storage) RolesForUser(ctx context.Context, contestID, userID string) ([]string, error) {
	roles := []string{}
	query := `SELECT role FROM role_assignment WHERE contest_id = $1 AND user_id = $2 ORDER BY role`
	err := s.db.SelectContext(ctx, &roles, query, contestID, userID)
	return roles, err
}

// JudgesForContest lists the user IDs holding the judge role, for the
// admin judge-progress review.
func (s *Storage) JudgesForContest(ctx context.Context, contestID string) ([]string, error) {
	judges := []string{}
	query := `SELECT user_id FROM role_assignment WHERE contest_id = $1 AND role = $2 ORDER BY user_id`
	err := s.db.SelectContext(ctx, &judges, query, contestID, models.RoleJudge)
	return judges, err
}
