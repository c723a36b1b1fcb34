package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/polemika/polemika/models"
	"github.com/polemika/polemika/repositories"
	"github.com/polemika/polemika/services"
	"github.com/polemika/polemika/utils"
)

// stubVoteRepo keeps just enough state to drive the controller: one post
// target and one ledger slot.
type stubVoteRepo struct {
	vote     *models.Vote
	counters models.VoteCounters
}

func (r *stubVoteRepo) Apply(ctx context.Context, kind models.TargetKind, targetID, userID uint, voteType models.VoteType) (*models.VoteResult, error) {
	if kind != models.TargetPost || targetID != 1 {
		return nil, repositories.ErrNotFound
	}
	var result models.VoteResult
	switch {
	case r.vote == nil:
		r.vote = &models.Vote{TargetKind: kind, TargetID: targetID, UserID: userID, Type: voteType}
		result = models.VoteResult{Action: models.VoteAdded, Type: voteType}
		if voteType == models.VoteUp {
			r.counters.Up++
		} else {
			r.counters.Down++
		}
	case r.vote.Type == voteType:
		r.vote = nil
		result = models.VoteResult{Action: models.VoteRemoved, Type: voteType}
		if voteType == models.VoteUp {
			r.counters.Up--
		} else {
			r.counters.Down--
		}
	default:
		result = models.VoteResult{Action: models.VoteChanged, From: r.vote.Type, To: voteType}
		r.vote.Type = voteType
		if voteType == models.VoteUp {
			r.counters.Up++
			r.counters.Down--
		} else {
			r.counters.Down++
			r.counters.Up--
		}
	}
	result.Votes = r.counters
	return &result, nil
}

func (r *stubVoteRepo) Find(ctx context.Context, kind models.TargetKind, targetID, userID uint) (*models.Vote, error) {
	if r.vote == nil {
		return nil, repositories.ErrNotFound
	}
	return r.vote, nil
}

func newVoteTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	controller := NewVoteController(services.NewVoteService(&stubVoteRepo{}))
	r.POST("/api/v1/votes/:kind/:id", controller.CastVote)
	r.GET("/api/v1/votes/:kind/:id", controller.GetVote)
	return r
}

func castVote(t *testing.T, r *gin.Engine, path, body string) (*httptest.ResponseRecorder, utils.JSONResponse) {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	var envelope utils.JSONResponse
	if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("invalid response body %q: %v", w.Body.String(), err)
	}
	return w, envelope
}

func TestCastVoteEndpoint(t *testing.T) {
	r := newVoteTestRouter()

	w, envelope := castVote(t, r, "/api/v1/votes/post/1", `{"user_id":10,"type":"up"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if envelope.Code != 0 {
		t.Fatalf("business code = %d, want 0", envelope.Code)
	}
	data, _ := envelope.Data.(map[string]interface{})
	if data["action"] != "added" || data["type"] != "up" {
		t.Errorf("data = %v, want added/up", data)
	}

	// opposite direction switches the vote in place
	_, envelope = castVote(t, r, "/api/v1/votes/post/1", `{"user_id":10,"type":"down"}`)
	data, _ = envelope.Data.(map[string]interface{})
	if data["action"] != "changed" || data["from"] != "up" || data["to"] != "down" {
		t.Errorf("data = %v, want changed up->down", data)
	}
	votes, _ := data["votes"].(map[string]interface{})
	if votes["up"] != float64(0) || votes["down"] != float64(1) {
		t.Errorf("votes = %v, want up=0 down=1", votes)
	}
}

func TestCastVoteEndpointErrors(t *testing.T) {
	r := newVoteTestRouter()

	tests := []struct {
		name       string
		path       string
		body       string
		wantStatus int
	}{
		{"unknown kind", "/api/v1/votes/user/1", `{"user_id":10,"type":"up"}`, http.StatusBadRequest},
		{"bad type", "/api/v1/votes/post/1", `{"user_id":10,"type":"sideways"}`, http.StatusBadRequest},
		{"missing target", "/api/v1/votes/post/404", `{"user_id":10,"type":"up"}`, http.StatusNotFound},
		{"bad id", "/api/v1/votes/post/zero", `{"user_id":10,"type":"up"}`, http.StatusBadRequest},
		{"empty body", "/api/v1/votes/post/1", ``, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, envelope := castVote(t, r, tt.path, tt.body)
			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if envelope.Code == 0 {
				t.Errorf("expected a non-zero business code")
			}
		})
	}
}

func TestGetVoteEndpoint(t *testing.T) {
	r := newVoteTestRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/votes/post/1?user_id=10", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var envelope utils.JSONResponse
	if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	data, _ := envelope.Data.(map[string]interface{})
	if data["vote"] != nil {
		t.Errorf("vote = %v, want null before any cast", data["vote"])
	}
}
