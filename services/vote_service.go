package services

import (
	"context"
	"errors"

	"github.com/polemika/polemika/models"
	"github.com/polemika/polemika/repositories"
)

// VoteService is the vote ledger: it enforces one vote per (target, user)
// and keeps the denormalized counters on the target in step with the ledger.
type VoteService struct {
	votes repositories.VoteRepository
}

// NewVoteService creates a VoteService on top of the given repository.
func NewVoteService(votes repositories.VoteRepository) *VoteService {
	return &VoteService{votes: votes}
}

// CastVote applies one vote transition. First vote adds, repeating the same
// direction toggles it off, the opposite direction changes it in place; the
// counters move with the ledger inside a single repository transaction.
// When a concurrent cast for the same pair wins the insert race the decision
// is re-run once before giving up with ErrConcurrentVoteConflict.
func (s *VoteService) CastVote(ctx context.Context, kind models.TargetKind, targetID, userID uint, voteType models.VoteType) (*models.VoteResult, error) {
	if !kind.Valid() {
		return nil, ErrInvalidTargetKind
	}
	if !voteType.Valid() {
		return nil, ErrInvalidVoteType
	}

	result, err := s.votes.Apply(ctx, kind, targetID, userID, voteType)
	if errors.Is(err, repositories.ErrDuplicateVote) {
		// Lost the race to another cast by the same user. The ledger row now
		// exists, so one re-run resolves to a change or a toggle-off.
		result, err = s.votes.Apply(ctx, kind, targetID, userID, voteType)
	}
	switch {
	case err == nil:
		return result, nil
	case errors.Is(err, repositories.ErrDuplicateVote):
		return nil, ErrConcurrentVoteConflict
	case errors.Is(err, repositories.ErrNotFound):
		return nil, ErrTargetNotFound
	default:
		return nil, repositoryError("apply vote", err)
	}
}

// CurrentVote returns the caller's standing vote on a target, or nil when
// none exists.
func (s *VoteService) CurrentVote(ctx context.Context, kind models.TargetKind, targetID, userID uint) (*models.Vote, error) {
	if !kind.Valid() {
		return nil, ErrInvalidTargetKind
	}
	vote, err := s.votes.Find(ctx, kind, targetID, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, nil
		}
		return nil, repositoryError("load vote", err)
	}
	return vote, nil
}
