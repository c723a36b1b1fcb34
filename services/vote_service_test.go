package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/polemika/polemika/models"
	"github.com/polemika/polemika/repositories"
)

// fakeVoteRepo is an in-memory VoteRepository honoring the Apply contract:
// the ledger and the counters move together, missing targets fail, and a
// duplicate insert can be injected to simulate a lost race.
type fakeVoteRepo struct {
	votes    map[string]*models.Vote
	counters map[string]*models.VoteCounters
	failWith error
	// raceOnce makes the next insert behave as if a concurrent cast of
	// raceType won just before it.
	raceOnce bool
	raceType models.VoteType
	// stuck makes every insert lose the race, for exhausted-retry tests.
	stuck bool
}

func newFakeVoteRepo() *fakeVoteRepo {
	return &fakeVoteRepo{
		votes:    make(map[string]*models.Vote),
		counters: make(map[string]*models.VoteCounters),
	}
}

func (r *fakeVoteRepo) addTarget(kind models.TargetKind, id uint) {
	r.counters[targetKey(kind, id)] = &models.VoteCounters{}
}

func targetKey(kind models.TargetKind, id uint) string {
	return fmt.Sprintf("%s:%d", kind, id)
}

func pairKey(kind models.TargetKind, id, userID uint) string {
	return fmt.Sprintf("%s:%d:%d", kind, id, userID)
}

func (r *fakeVoteRepo) Apply(ctx context.Context, kind models.TargetKind, targetID, userID uint, voteType models.VoteType) (*models.VoteResult, error) {
	if r.failWith != nil {
		return nil, r.failWith
	}
	counters, ok := r.counters[targetKey(kind, targetID)]
	if !ok {
		return nil, repositories.ErrNotFound
	}

	key := pairKey(kind, targetID, userID)
	existing, voted := r.votes[key]

	var result models.VoteResult
	switch {
	case !voted:
		if r.stuck {
			return nil, repositories.ErrDuplicateVote
		}
		if r.raceOnce {
			r.raceOnce = false
			r.votes[key] = &models.Vote{TargetKind: kind, TargetID: targetID, UserID: userID, Type: r.raceType}
			r.bump(counters, r.raceType, 1)
			return nil, repositories.ErrDuplicateVote
		}
		r.votes[key] = &models.Vote{TargetKind: kind, TargetID: targetID, UserID: userID, Type: voteType}
		r.bump(counters, voteType, 1)
		result = models.VoteResult{Action: models.VoteAdded, Type: voteType}
	case existing.Type == voteType:
		delete(r.votes, key)
		r.bump(counters, voteType, -1)
		result = models.VoteResult{Action: models.VoteRemoved, Type: voteType}
	default:
		from := existing.Type
		existing.Type = voteType
		r.bump(counters, from, -1)
		r.bump(counters, voteType, 1)
		result = models.VoteResult{Action: models.VoteChanged, From: from, To: voteType}
	}
	result.Votes = *counters
	return &result, nil
}

func (r *fakeVoteRepo) Find(ctx context.Context, kind models.TargetKind, targetID, userID uint) (*models.Vote, error) {
	if r.failWith != nil {
		return nil, r.failWith
	}
	v, ok := r.votes[pairKey(kind, targetID, userID)]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *v
	return &copied, nil
}

func (r *fakeVoteRepo) bump(c *models.VoteCounters, t models.VoteType, delta int) {
	if t == models.VoteDown {
		c.Down += delta
	} else {
		c.Up += delta
	}
}

// ledgerCount tallies ledger rows for a target per type, to check the
// counters never drift from the vote rows.
func (r *fakeVoteRepo) ledgerCount(kind models.TargetKind, targetID uint) (up, down int) {
	for _, v := range r.votes {
		if v.TargetKind == kind && v.TargetID == targetID {
			if v.Type == models.VoteUp {
				up++
			} else {
				down++
			}
		}
	}
	return up, down
}

func newTestVoteService() (*VoteService, *fakeVoteRepo) {
	repo := newFakeVoteRepo()
	repo.addTarget(models.TargetPost, 1)
	repo.addTarget(models.TargetComment, 7)
	return NewVoteService(repo), repo
}

func TestCastVoteToggle(t *testing.T) {
	svc, repo := newTestVoteService()
	ctx := context.Background()

	res, err := svc.CastVote(ctx, models.TargetPost, 1, 10, models.VoteUp)
	if err != nil {
		t.Fatalf("first cast failed: %v", err)
	}
	if res.Action != models.VoteAdded || res.Type != models.VoteUp {
		t.Errorf("first cast = %+v, want added/up", res)
	}
	if res.Votes.Up != 1 || res.Votes.Down != 0 {
		t.Errorf("counters = %+v, want up=1 down=0", res.Votes)
	}

	// same direction again toggles the vote off and restores the counter
	res, err = svc.CastVote(ctx, models.TargetPost, 1, 10, models.VoteUp)
	if err != nil {
		t.Fatalf("toggle-off failed: %v", err)
	}
	if res.Action != models.VoteRemoved {
		t.Errorf("toggle-off action = %s, want removed", res.Action)
	}
	if res.Votes.Up != 0 {
		t.Errorf("up = %d after toggle-off, want 0", res.Votes.Up)
	}
	if len(repo.votes) != 0 {
		t.Errorf("ledger still has %d rows after toggle-off", len(repo.votes))
	}

	// a third cast starts over
	res, err = svc.CastVote(ctx, models.TargetPost, 1, 10, models.VoteUp)
	if err != nil {
		t.Fatalf("re-cast failed: %v", err)
	}
	if res.Action != models.VoteAdded {
		t.Errorf("re-cast action = %s, want added", res.Action)
	}
}

func TestCastVoteChange(t *testing.T) {
	svc, repo := newTestVoteService()
	ctx := context.Background()

	if _, err := svc.CastVote(ctx, models.TargetPost, 1, 10, models.VoteUp); err != nil {
		t.Fatalf("setup cast failed: %v", err)
	}

	res, err := svc.CastVote(ctx, models.TargetPost, 1, 10, models.VoteDown)
	if err != nil {
		t.Fatalf("change failed: %v", err)
	}
	if res.Action != models.VoteChanged || res.From != models.VoteUp || res.To != models.VoteDown {
		t.Errorf("change result = %+v, want changed up->down", res)
	}
	if res.Votes.Up != 0 || res.Votes.Down != 1 {
		t.Errorf("counters = %+v, want up=0 down=1", res.Votes)
	}
	if len(repo.votes) != 1 {
		t.Errorf("ledger has %d rows, want 1", len(repo.votes))
	}
}

func TestCastVoteValidation(t *testing.T) {
	svc, _ := newTestVoteService()
	ctx := context.Background()

	if _, err := svc.CastVote(ctx, "user", 1, 10, models.VoteUp); !errors.Is(err, ErrInvalidTargetKind) {
		t.Errorf("bad kind: got %v, want ErrInvalidTargetKind", err)
	}
	if _, err := svc.CastVote(ctx, models.TargetPost, 1, 10, "sideways"); !errors.Is(err, ErrInvalidVoteType) {
		t.Errorf("bad type: got %v, want ErrInvalidVoteType", err)
	}
}

func TestCastVoteTargetNotFound(t *testing.T) {
	svc, _ := newTestVoteService()

	if _, err := svc.CastVote(context.Background(), models.TargetPost, 404, 10, models.VoteUp); !errors.Is(err, ErrTargetNotFound) {
		t.Errorf("got %v, want ErrTargetNotFound", err)
	}
}

func TestCastVoteCounterConsistency(t *testing.T) {
	svc, repo := newTestVoteService()
	ctx := context.Background()

	// a fixed scramble of casts from three users on the same comment
	casts := []struct {
		user uint
		vote models.VoteType
	}{
		{1, models.VoteUp}, {2, models.VoteDown}, {3, models.VoteUp},
		{1, models.VoteDown}, {2, models.VoteDown}, {3, models.VoteUp},
		{1, models.VoteDown}, {2, models.VoteUp},
	}
	for i, cast := range casts {
		if _, err := svc.CastVote(ctx, models.TargetComment, 7, cast.user, cast.vote); err != nil {
			t.Fatalf("cast %d failed: %v", i, err)
		}
		up, down := repo.ledgerCount(models.TargetComment, 7)
		counters := repo.counters[targetKey(models.TargetComment, 7)]
		if counters.Up != up || counters.Down != down {
			t.Fatalf("after cast %d: counters up=%d down=%d, ledger up=%d down=%d",
				i, counters.Up, counters.Down, up, down)
		}
	}

	// user 1: up, changed to down, toggled off -> no row
	if v, _ := svc.CurrentVote(ctx, models.TargetComment, 7, 1); v != nil {
		t.Errorf("user 1 still has a vote: %+v", v)
	}
	// user 2: down, toggled off, re-cast up -> up
	if v, _ := svc.CurrentVote(ctx, models.TargetComment, 7, 2); v == nil || v.Type != models.VoteUp {
		t.Errorf("user 2 vote = %+v, want up", v)
	}
	// user 3: up, then up again -> toggled off, no row
	if v, _ := svc.CurrentVote(ctx, models.TargetComment, 7, 3); v != nil {
		t.Errorf("user 3 still has a vote: %+v", v)
	}
}

func TestCastVoteRetriesLostRace(t *testing.T) {
	svc, repo := newTestVoteService()
	repo.raceOnce = true
	repo.raceType = models.VoteUp

	// our insert loses to a concurrent identical cast; the retry re-reads,
	// sees the winner's up vote and resolves to a toggle-off
	res, err := svc.CastVote(context.Background(), models.TargetPost, 1, 10, models.VoteUp)
	if err != nil {
		t.Fatalf("cast after lost race failed: %v", err)
	}
	if res.Action != models.VoteRemoved {
		t.Errorf("action = %s, want removed", res.Action)
	}
	up, down := repo.ledgerCount(models.TargetPost, 1)
	counters := repo.counters[targetKey(models.TargetPost, 1)]
	if counters.Up != up || counters.Down != down {
		t.Errorf("counters drifted from ledger after race")
	}
}

func TestCastVoteConflictExhausted(t *testing.T) {
	svc, repo := newTestVoteService()
	repo.stuck = true

	if _, err := svc.CastVote(context.Background(), models.TargetPost, 1, 10, models.VoteUp); !errors.Is(err, ErrConcurrentVoteConflict) {
		t.Errorf("got %v, want ErrConcurrentVoteConflict", err)
	}
}

func TestCurrentVote(t *testing.T) {
	svc, _ := newTestVoteService()
	ctx := context.Background()

	v, err := svc.CurrentVote(ctx, models.TargetPost, 1, 10)
	if err != nil {
		t.Fatalf("CurrentVote failed: %v", err)
	}
	if v != nil {
		t.Errorf("expected no vote, got %+v", v)
	}

	if _, err := svc.CastVote(ctx, models.TargetPost, 1, 10, models.VoteDown); err != nil {
		t.Fatalf("cast failed: %v", err)
	}
	v, err = svc.CurrentVote(ctx, models.TargetPost, 1, 10)
	if err != nil {
		t.Fatalf("CurrentVote failed: %v", err)
	}
	if v == nil || v.Type != models.VoteDown {
		t.Errorf("vote = %+v, want down", v)
	}
}

func TestCastVoteRepositoryFailure(t *testing.T) {
	svc, repo := newTestVoteService()
	repo.failWith = errors.New("connection reset")

	_, err := svc.CastVote(context.Background(), models.TargetPost, 1, 10, models.VoteUp)
	var repoErr *RepositoryError
	if !errors.As(err, &repoErr) {
		t.Fatalf("expected RepositoryError, got %v", err)
	}
}
