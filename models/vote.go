package models

import "time"

// TargetKind distinguishes which table a vote points at.
type TargetKind string

const (
	TargetPost    TargetKind = "post"
	TargetComment TargetKind = "comment"
)

// Valid reports whether the kind is one of the known votable tables.
func (k TargetKind) Valid() bool {
	return k == TargetPost || k == TargetComment
}

// VoteType is the direction of a vote.
type VoteType string

const (
	VoteUp   VoteType = "up"
	VoteDown VoteType = "down"
)

// Valid reports whether the vote type is up or down.
func (t VoteType) Valid() bool {
	return t == VoteUp || t == VoteDown
}

// Vote is one ledger row. The unique index guarantees at most one row per
// (target, user) pair; a duplicate-key error on insert means a concurrent
// request won the race.
type Vote struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	TargetKind TargetKind `gorm:"size:16;not null;uniqueIndex:idx_target_user" json:"target_kind"`
	TargetID   uint       `gorm:"not null;uniqueIndex:idx_target_user" json:"target_id"`
	UserID     uint       `gorm:"not null;uniqueIndex:idx_target_user;index" json:"user_id"`
	Type       VoteType   `gorm:"size:8;not null" json:"type"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// VoteAction says what a CastVote call did to the ledger.
type VoteAction string

const (
	VoteAdded   VoteAction = "added"
	VoteRemoved VoteAction = "removed"
	VoteChanged VoteAction = "changed"
)

// VoteResult reports the transition applied by a single cast and the fresh
// counters read in the same transaction.
type VoteResult struct {
	Action VoteAction   `json:"action"`
	Type   VoteType     `json:"type,omitempty"`
	From   VoteType     `json:"from,omitempty"`
	To     VoteType     `json:"to,omitempty"`
	Votes  VoteCounters `json:"votes"`
}
