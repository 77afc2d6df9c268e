package engine

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"pitchcontest/auth"
	"pitchcontest/config"
	"pitchcontest/models"
	"pitchcontest/notify"
	"pitchcontest/phase"
	"pitchcontest/store"
)

const inviteMailSubject = "%s Voting Link"

const inviteMailBody = `Dear Attendee:

Thank you for attending %s. Please help choose the winner.
Your personal voting link is:

%s

This link may only be used one time and goes live when event voting opens.

Any questions can be directed to %s.
`

const inviteSMSBody = "Vote at %s here: %s"

var (
	emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	nonDigit     = regexp.MustCompile(`\D`)
	// Guard against mailing out links that point back at the dev box.
	localHostPattern = regexp.MustCompile(`/localhost|/127`)
)

// EventInviteRegistry issues one single-use invite token per
// (contest, identity), delivers the voting link, and enforces single
// redemption.
type EventInviteRegistry struct {
	store    *store.Storage
	notifier notify.Notifier
	cfg      config.Config
	logger   *slog.Logger
}

func NewEventInviteRegistry(st *store.Storage, n notify.Notifier, cfg config.Config,
	logger *slog.Logger) *EventInviteRegistry {
	return &EventInviteRegistry{store: st, notifier: n, cfg: cfg, logger: logger}
}

// ValidateIdentity accepts an email address or a 10-digit US phone
// number. Phones normalize to "(NNN) NNN-NNNN"; emails lower-case.
func ValidateIdentity(raw string) (string, error) {
	v := strings.TrimSpace(raw)
	if strings.Contains(v, "@") {
		v = strings.ToLower(v)
		if !emailPattern.MatchString(v) {
			return "", &ValidationError{Message: fmt.Sprintf("invalid email address %q", raw)}
		}
		return v, nil
	}
	digits := nonDigit.ReplaceAllString(v, "")
	if len(digits) == 11 && digits[0] == '1' {
		digits = digits[1:]
	}
	if len(digits) != 10 {
		return "", &ValidationError{Message: fmt.Sprintf("invalid phone number %q", raw)}
	}
	return fmt.Sprintf("(%s) %s-%s", digits[0:3], digits[3:6], digits[6:10]), nil
}

// IsEmail distinguishes a normalized identity's delivery channel.
func IsEmail(identity string) bool {
	return strings.Contains(identity, "@")
}

// RegisterOrFetch returns the invite for (contest, identity), creating
// it with a fresh nonce on first registration. Registration is
// idempotent: the second call returns the existing row and reports
// created=false.
func (r *EventInviteRegistry) RegisterOrFetch(ctx context.Context, contest *models.Contest,
	rawIdentity string) (*models.EventInvite, bool, error) {

	identity, err := ValidateIdentity(rawIdentity)
	if err != nil {
		return nil, false, err
	}

	existing, err := r.store.InviteByIdentity(ctx, contest.ID, identity)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}

	nonce, err := auth.GenerateNonce()
	if err != nil {
		return nil, false, err
	}
	inv := &models.EventInvite{
		ID:        uuid.NewString(),
		ContestID: contest.ID,
		Identity:  identity,
		Nonce:     nonce,
	}
	if err := r.store.CreateInvite(ctx, inv); err != nil {
		// Lost a registration race; the winner's row is the invite.
		if store.IsUniqueViolation(err) {
			existing, ferr := r.store.InviteByIdentity(ctx, contest.ID, identity)
			if ferr != nil {
				return nil, false, ferr
			}
			return existing, false, nil
		}
		return nil, false, fmt.Errorf("failed to register invite: %w", err)
	}
	r.logger.InfoContext(ctx, "event voter registered",
		"contest", contest.ID, "identity", identity, "invite", inv.ID)
	return inv, true, nil
}

// VotingURL builds the absolute single-use link for the invite.
func (r *EventInviteRegistry) VotingURL(inv *models.EventInvite) string {
	return strings.TrimRight(r.cfg.BaseURL, "/") + "/event-vote/" + inv.Nonce
}

// SendInvite delivers the voting link by email or SMS and increments
// the send counter. A resend needs force, and no invite is ever sent
// more than MaxInvitesSent times, force or not. Returns the URL on
// delivery and "" when the send was suppressed.
func (r *EventInviteRegistry) SendInvite(ctx context.Context, contest *models.Contest,
	inv *models.EventInvite, force bool) (string, error) {

	uri := r.VotingURL(inv)
	if (inv.InvitesSent > 0 && !force) || inv.InvitesSent >= r.cfg.MaxInvitesSent {
		r.logger.InfoContext(ctx, "invite send suppressed",
			"identity", inv.Identity, "invites_sent", inv.InvitesSent, "force", force)
		return "", nil
	}
	if !r.cfg.TestMode && localHostPattern.MatchString(uri) {
		return "", &ConfigError{Message: fmt.Sprintf("invite URL %s contains local host", uri)}
	}

	if IsEmail(inv.Identity) {
		subject := fmt.Sprintf(inviteMailSubject, contest.DisplayName)
		body := fmt.Sprintf(inviteMailBody, contest.DisplayName, uri, r.cfg.SupportEmail)
		if err := r.notifier.SendEmail(ctx, inv.Identity, r.cfg.SupportEmail, subject, body); err != nil {
			return "", fmt.Errorf("failed to send invite mail: %w", err)
		}
	} else {
		body := fmt.Sprintf(inviteSMSBody, contest.DisplayName, uri)
		if err := r.notifier.SendSMS(ctx, inv.Identity, body); err != nil {
			return "", fmt.Errorf("failed to send invite sms: %w", err)
		}
	}

	if err := r.store.IncrementInvitesSent(ctx, inv.ID); err != nil {
		return "", err
	}
	inv.InvitesSent++
	r.logger.InfoContext(ctx, "invite sent", "identity", inv.Identity, "uri", uri)
	return uri, nil
}

// ValidateNonce resolves a session nonce to the contest's invite. An
// unknown nonce or one from a different contest returns (nil, nil):
// the browser is simply not an event voter.
func (r *EventInviteRegistry) ValidateNonce(ctx context.Context, contest *models.Contest,
	nonce string) (*models.EventInvite, error) {

	if nonce == "" {
		return nil, nil
	}
	inv, err := r.store.InviteByNonce(ctx, nonce)
	if err != nil {
		return nil, err
	}
	if inv == nil || inv.ContestID != contest.ID {
		return nil, nil
	}
	return inv, nil
}

// Redeem spends the invite on a finalist. Outside the event-voting
// window it returns a PhaseError; a second redemption is a silent
// no-op with the first choice retained.
func (r *EventInviteRegistry) Redeem(ctx context.Context, contest *models.Contest,
	inv *models.EventInvite, nomineeID string, redeemingUserID *string,
	remoteAddr, userAgent string) error {

	flags := phase.Derive(contest, time.Now())
	if !flags.IsEventVoting {
		msg := "Live voting has not yet started"
		if flags.IsExpired {
			msg = "Live voting is over"
		}
		return &PhaseError{Message: msg}
	}

	if inv.Redeemed() {
		return nil
	}

	nominee, err := r.store.GetContestNominee(ctx, contest.ID, nomineeID)
	if err != nil {
		return err
	}
	if !nominee.IsFinalist {
		return store.ErrNotFound
	}

	if len(userAgent) > 100 {
		userAgent = userAgent[:100]
	}
	won, err := r.store.RedeemInvite(ctx, inv.ID, nominee.ID, redeemingUserID, remoteAddr, userAgent)
	if err != nil {
		return err
	}
	if !won {
		// Another request redeemed first; its choice stands.
		return nil
	}
	r.logger.InfoContext(ctx, "event vote cast",
		"invite", inv.ID, "nominee", nominee.ID, "contest", contest.ID,
		"remote_addr", remoteAddr)
	return nil
}

// AdminTally reports per-finalist redeemed counts, highest first, with
// registration and redemption totals for the live dashboard.
func (r *EventInviteRegistry) AdminTally(ctx context.Context, contest *models.Contest) (*models.EventTally, error) {
	finalists, err := r.store.FinalistNominees(ctx, contest.ID)
	if err != nil {
		return nil, err
	}
	invites, err := r.store.InvitesForContest(ctx, contest.ID)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	redeemed := 0
	for _, inv := range invites {
		if inv.Redeemed() {
			redeemed++
			counts[*inv.NomineeID]++
		}
	}

	tally := &models.EventTally{
		Nominees:      make([]models.EventTallyRow, 0, len(finalists)),
		TotalInvites:  len(invites),
		TotalRedeemed: redeemed,
	}
	for _, n := range finalists {
		tally.Nominees = append(tally.Nominees, models.EventTallyRow{
			NomineeRef:  n.ID,
			DisplayName: n.DisplayName,
			Count:       counts[n.ID],
		})
	}
	sort.SliceStable(tally.Nominees, func(i, j int) bool {
		return tally.Nominees[i].Count > tally.Nominees[j].Count
	})
	return tally, nil
}
