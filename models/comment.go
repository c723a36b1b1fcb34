package models

import "time"

// MaxCommentDepth is the deepest nesting level a reply may reach.
// Top-level comments sit at depth 0.
const MaxCommentDepth = 5

// RedactedContent replaces the body of a soft-deleted comment. The row and
// its position in the thread are preserved so replies stay attached.
const RedactedContent = "[removed]"

// Comment is a reply to a post, optionally nested under another comment.
type Comment struct {
	ID        uint         `gorm:"primaryKey" json:"id"`
	PostID    uint         `gorm:"index;not null" json:"post_id"`
	UserID    uint         `gorm:"index;not null" json:"user_id"`
	Content   string       `gorm:"type:text;not null" json:"content"`
	ParentID  *uint        `gorm:"index" json:"parent_id,omitempty"`
	Depth     int          `gorm:"default:0;not null" json:"depth"`
	Votes     VoteCounters `gorm:"embedded" json:"votes"`
	CreatedAt time.Time    `json:"created_at"`
}

// CommentNode is a comment with its replies materialized, the shape the
// tree builder hands to the presentation layer.
type CommentNode struct {
	Comment
	Replies []*CommentNode `json:"replies"`
}
