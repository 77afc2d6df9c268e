package models

import "time"

// Vote status constants
const (
	VoteStatusInvalid = "invalid"
	VoteStatusSingle  = "single"
	VoteStatusDouble  = "double"
)

// Role constants for role_assignment rows
const (
	RoleAdmin     = "admin"
	RoleJudge     = "judge"
	RoleRegistrar = "registrar"
)

// MaxRanks is the worst rank a judge may assign; rank 1 is best.
// Rank r contributes MaxRanks+1-r points to a nominee's judge score.
const MaxRanks = 10

// Domain types

type Contest struct {
	ID                string    `db:"id" json:"id"`
	DisplayName       string    `db:"display_name" json:"display_name"`
	TimeZone          string    `db:"time_zone" json:"time_zone"`
	SubmissionStart   time.Time `db:"submission_start" json:"submission_start"`
	SubmissionEnd     time.Time `db:"submission_end" json:"submission_end"`
	PublicVotingStart time.Time `db:"public_voting_start" json:"public_voting_start"`
	PublicVotingEnd   time.Time `db:"public_voting_end" json:"public_voting_end"`
	JudgingStart      time.Time `db:"judging_start" json:"judging_start"`
	JudgingEnd        time.Time `db:"judging_end" json:"judging_end"`
	EventVotingStart  time.Time `db:"event_voting_start" json:"event_voting_start"`
	EventVotingEnd    time.Time `db:"event_voting_end" json:"event_voting_end"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
}

type Nominee struct {
	ID             string    `db:"id" json:"id"`
	ContestID      string    `db:"contest_id" json:"contest_id"`
	SubmitterID    string    `db:"submitter_id" json:"-"`
	DisplayName    string    `db:"display_name" json:"display_name"`
	URL            string    `db:"url" json:"url"`
	YoutubeCode    string    `db:"youtube_code" json:"youtube_code"`
	Summary        string    `db:"summary" json:"summary"`
	IsValid        bool      `db:"is_valid" json:"-"`
	IsPublic       bool      `db:"is_public" json:"is_public"`
	IsSemiFinalist bool      `db:"is_semi_finalist" json:"is_semi_finalist"`
	IsFinalist     bool      `db:"is_finalist" json:"is_finalist"`
	IsWinner       bool      `db:"is_winner" json:"is_winner"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

type Vote struct {
	ID string `db:"id" json:"id"`
	// ContestID is derived from the nominee at insert time; it exists so
	// the partial unique index on (contest_id, user_id) can enforce the
	// one-live-vote invariant at the storage layer.
	ContestID    string    `db:"contest_id" json:"contest_id"`
	NomineeID    string    `db:"nominee_id" json:"nominee_id"`
	UserID       string    `db:"user_id" json:"-"`
	Status       string    `db:"status" json:"status"`
	SocialHandle string    `db:"social_handle" json:"social_handle,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

type JudgeRank struct {
	JudgeID   string `db:"judge_id" json:"-"`
	NomineeID string `db:"nominee_id" json:"nominee_id"`
	Rank      int    `db:"rank" json:"rank"`
}

type JudgeComment struct {
	JudgeID   string `db:"judge_id" json:"-"`
	NomineeID string `db:"nominee_id" json:"nominee_id"`
	Comment   string `db:"comment" json:"comment"`
}

type EventInvite struct {
	ID              string    `db:"id" json:"id"`
	ContestID       string    `db:"contest_id" json:"contest_id"`
	Identity        string    `db:"identity" json:"identity"`
	Nonce           string    `db:"nonce" json:"-"` // single-use token, never exposed in JSON
	InvitesSent     int       `db:"invites_sent" json:"invites_sent"`
	NomineeID       *string   `db:"nominee_id" json:"nominee_id,omitempty"`
	RedeemingUserID *string   `db:"redeeming_user_id" json:"-"`
	RemoteAddr      string    `db:"remote_addr" json:"-"`
	UserAgent       string    `db:"user_agent" json:"-"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

// Redeemed reports whether the invite's single vote has been used.
func (i *EventInvite) Redeemed() bool {
	return i.NomineeID != nil
}

type RoleAssignment struct {
	ContestID string    `db:"contest_id" json:"contest_id"`
	UserID    string    `db:"user_id" json:"user_id"`
	Role      string    `db:"role" json:"role"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Request types

type CastVoteRequest struct {
	NomineeRef string `json:"nominee_ref"`
}

type SocialHandleRequest struct {
	NomineeRef   string `json:"nominee_ref"`
	SocialHandle string `json:"social_handle"`
}

type RankingEntry struct {
	NomineeRef string `json:"nominee_ref"`
	Rank       *int   `json:"rank,omitempty"`
	Comment    string `json:"comment,omitempty"`
}

type SubmitRankingRequest struct {
	Nominees []RankingEntry `json:"nominees"`
}

type RegisterVoterRequest struct {
	EmailOrPhone string `json:"email_or_phone"`
}

type EventVoteRequest struct {
	NomineeRef string `json:"nominee_ref"`
}

type SubmitNomineeRequest struct {
	DisplayName string `json:"display_name"`
	URL         string `json:"url"`
	YoutubeCode string `json:"youtube_code"`
	Summary     string `json:"summary"`
}

type SetVoteStatusRequest struct {
	VoteRef string `json:"vote_ref"`
	Status  string `json:"status"`
}

type SetVisibilityRequest struct {
	NomineeRef string `json:"nominee_ref"`
	IsPublic   bool   `json:"is_public"`
}

// Response types
//
// The wire contract is deliberately thin: {} on success or idempotent
// no-op, {"message": ...} on a reportable condition. Callers distinguish
// authorization failures only by HTTP status.

type MessageResponse struct {
	Message string `json:"message,omitempty"`
}

type ContestInfo struct {
	DisplayName         string `json:"display_name"`
	ContestantCount     int    `json:"contestant_count"`
	SemiFinalistCount   int    `json:"semi_finalist_count"`
	FinalistCount       int    `json:"finalist_count"`
	IsPreNominating     bool   `json:"is_pre_nominating"`
	IsNominating        bool   `json:"is_nominating"`
	IsPublicVoting      bool   `json:"is_public_voting"`
	IsJudging           bool   `json:"is_judging"`
	IsEventRegistration bool   `json:"is_event_registration"`
	IsEventVoting       bool   `json:"is_event_voting"`
	IsExpired           bool   `json:"is_expired"`
	ShowAllContestants  bool   `json:"show_all_contestants"`
	ShowSemiFinalists   bool   `json:"show_semi_finalists"`
	ShowFinalists       bool   `json:"show_finalists"`
	ShowWinner          bool   `json:"show_winner"`
	WinnerRef           string `json:"winner_ref,omitempty"`
}

type UserState struct {
	IsLoggedIn   bool   `json:"is_logged_in"`
	IsAdmin      bool   `json:"is_admin"`
	IsJudge      bool   `json:"is_judge"`
	IsRegistrar  bool   `json:"is_registrar"`
	IsEventVoter bool   `json:"is_event_voter"`
	CanVote      bool   `json:"can_vote"`
	VoteRef      string `json:"vote_ref,omitempty"`
	EventVoteRef string `json:"event_vote_ref,omitempty"`
}

type NomineeScore struct {
	NomineeRef  string  `json:"nominee_ref"`
	DisplayName string  `json:"display_name"`
	VoteScore   int     `json:"vote_score"`
	JudgeScore  int     `json:"judge_score"`
	JudgeRanks  []int   `json:"judge_ranks"`
	Composite   float64 `json:"composite"`
}

type JudgingEntry struct {
	NomineeRef  string `json:"nominee_ref"`
	DisplayName string `json:"display_name"`
	Rank        *int   `json:"rank,omitempty"`
	Comment     string `json:"comment,omitempty"`
}

type EventTallyRow struct {
	NomineeRef  string `json:"nominee_ref"`
	DisplayName string `json:"display_name"`
	Count       int    `json:"count"`
}

type EventTally struct {
	Nominees      []EventTallyRow `json:"nominees"`
	TotalInvites  int             `json:"total_invites"`
	TotalRedeemed int             `json:"total_redeemed"`
}
