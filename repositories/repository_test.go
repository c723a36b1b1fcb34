package repositories

import (
	"errors"
	"fmt"
	"testing"

	"gorm.io/gorm"
)

func TestTranslateNotFound(t *testing.T) {
	if err := translateNotFound(gorm.ErrRecordNotFound); !errors.Is(err, ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
	other := errors.New("timeout")
	if err := translateNotFound(other); !errors.Is(err, other) {
		t.Errorf("unrelated error was rewritten: %v", err)
	}
}

func TestIsDuplicateKey(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{gorm.ErrDuplicatedKey, true},
		{fmt.Errorf("wrapped: %w", gorm.ErrDuplicatedKey), true},
		{errors.New("Error 1062 (23000): Duplicate entry '1-1-10' for key 'idx_target_user'"), true},
		{errors.New("connection refused"), false},
	}
	for _, tt := range tests {
		if got := isDuplicateKey(tt.err); got != tt.want {
			t.Errorf("isDuplicateKey(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}
