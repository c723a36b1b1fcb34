package repositories

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// Sentinel errors shared by all repository implementations. Services match
// on these instead of importing gorm.
var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateVote is returned when an insert collides with the unique
	// (target_kind, target_id, user_id) index, i.e. a concurrent cast won.
	ErrDuplicateVote = errors.New("vote already exists for this target and user")
)

// translateNotFound maps gorm's record-not-found to the repository sentinel.
func translateNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// isDuplicateKey detects a unique index violation. MySQL reports error 1062
// with a "Duplicate entry" message; newer gorm versions also translate it.
func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "Duplicate entry")
}
