package store

import (
	"context"
	"database/sql"
	"errors"

	"pitchcontest/models"
)

// CreateInvite inserts the invite row and its nonce alias together.
func (s *Storage) CreateInvite(ctx context.Context, inv *models.EventInvite) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
        INSERT INTO event_invite (id, contest_id, identity, nonce)
        VALUES ($1, $2, $3, $4)
        RETURNING created_at`
	if err := tx.QueryRowContext(ctx, query,
		inv.ID, inv.ContestID, inv.Identity, inv.Nonce).Scan(&inv.CreatedAt); err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO invite_alias (alias_name, invite_id) VALUES ($1, $2)`,
		inv.Nonce, inv.ID)
	if err != nil {
		return err
	}
	return tx.Commit()
}

// InviteByIdentity returns the invite for (contest, identity), or nil.
func (s *Storage) InviteByIdentity(ctx context.Context, contestID, identity string) (*models.EventInvite, error) {
	inv := &models.EventInvite{}
	query := `SELECT * FROM event_invite WHERE contest_id = $1 AND identity = $2`
	if err := s.db.GetContext(ctx, inv, query, contestID, identity); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return inv, nil
}

// InviteByNonce resolves a nonce through the alias table, or nil when the
// token is unknown.
func (s *Storage) InviteByNonce(ctx context.Context, nonce string) (*models.EventInvite, error) {
	inv := &models.EventInvite{}
	query := `
        SELECT i.* FROM event_invite i
        JOIN invite_alias a ON a.invite_id = i.id
        WHERE a.alias_name = $1`
	if err := s.db.GetContext(ctx, inv, query, nonce); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return inv, nil
}

func (s *Storage) InvitesForContest(ctx context.Context, contestID string) ([]models.EventInvite, error) {
	invites := []models.EventInvite{}
	query := `SELECT * FROM event_invite WHERE contest_id = $1 ORDER BY identity`
	err := s.db.SelectContext(ctx, &invites, query, contestID)
	return invites, err
}

func (s *Storage) IncrementInvitesSent(ctx context.Context, inviteID string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE event_invite SET invites_sent = invites_sent + 1 WHERE id = $1`,
		inviteID)
	return err
}

// RedeemInvite sets the invite's nominee exactly once. The conditional
// WHERE makes the first write win under concurrent redemption; it
// returns false without error when the invite was already redeemed.
func (s *Storage) RedeemInvite(ctx context.Context, inviteID, nomineeID string,
	redeemingUserID *string, remoteAddr, userAgent string) (bool, error) {

	query := `
        UPDATE event_invite
        SET nominee_id = $1, redeeming_user_id = $2, remote_addr = $3, user_agent = $4
        WHERE id = $5 AND nominee_id IS NULL`
	res, err := s.db.ExecContext(ctx, query,
		nomineeID, redeemingUserID, remoteAddr, userAgent, inviteID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}
