package services

import (
	"errors"
	"fmt"
)

// Validation errors: the input violates an invariant and nothing was written.
var (
	ErrInvalidContent    = errors.New("content must be between 1 and 1000 characters")
	ErrDepthExceeded     = errors.New("comment nesting depth limit reached")
	ErrCrossPostReply    = errors.New("parent comment belongs to a different post")
	ErrInvalidVoteType   = errors.New("vote type must be up or down")
	ErrInvalidTargetKind = errors.New("vote target must be a post or a comment")
)

// Not-found errors: the referenced entity does not exist.
var (
	ErrPostNotFound    = errors.New("post not found")
	ErrParentNotFound  = errors.New("parent comment not found")
	ErrCommentNotFound = errors.New("comment not found")
	ErrTargetNotFound  = errors.New("vote target not found")
)

// ErrConcurrentVoteConflict means two casts for the same (target, user) pair
// raced and the retry also lost. Transient; the caller may try again.
var ErrConcurrentVoteConflict = errors.New("concurrent vote conflict, please retry")

// RepositoryError wraps an unexpected storage failure so callers can treat
// every backend problem uniformly while the cause stays available via Unwrap.
type RepositoryError struct {
	Op  string
	Err error
}

func (e *RepositoryError) Error() string {
	return fmt.Sprintf("repository failure in %s: %v", e.Op, e.Err)
}

func (e *RepositoryError) Unwrap() error {
	return e.Err
}

func repositoryError(op string, err error) error {
	return &RepositoryError{Op: op, Err: err}
}
