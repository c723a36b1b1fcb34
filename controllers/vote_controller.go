package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polemika/polemika/models"
	"github.com/polemika/polemika/services"
	"github.com/polemika/polemika/utils"
)

// VoteController exposes the vote ledger over HTTP. Posts and comments are
// voted on uniformly, the path names the target kind.
type VoteController struct {
	votes *services.VoteService
}

// NewVoteController creates a new VoteController instance.
func NewVoteController(votes *services.VoteService) *VoteController {
	return &VoteController{votes: votes}
}

// CastVote applies one vote transition and returns what happened together
// with the fresh counters.
func (v *VoteController) CastVote(ctx *gin.Context) {
	kind := models.TargetKind(ctx.Param("kind"))
	targetID, ok := parseID(ctx.Param("id"))
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40028, "invalid target id")
		return
	}

	var req struct {
		UserID uint   `json:"user_id" binding:"required"`
		Type   string `json:"type" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40029, "invalid request payload")
		return
	}

	result, err := v.votes.CastVote(ctx.Request.Context(), kind, targetID, req.UserID, models.VoteType(req.Type))
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	switch kind {
	case models.TargetPost:
		utils.InvalidateByPrefix(fmt.Sprintf("cache:post:detail:%d", targetID))
		utils.InvalidateByPrefix("cache:posts:list:")
	case models.TargetComment:
		// Comment counters render inside cached trees and the tree key does
		// not carry the comment id, so drop every tree page.
		utils.InvalidateByPrefix("cache:comments:tree:")
	}

	utils.Success(ctx, result)
}

// GetVote returns the caller's standing vote on a target, if any.
func (v *VoteController) GetVote(ctx *gin.Context) {
	kind := models.TargetKind(ctx.Param("kind"))
	targetID, ok := parseID(ctx.Param("id"))
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40028, "invalid target id")
		return
	}
	userID, ok := parseID(ctx.Query("user_id"))
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40035, "invalid user id")
		return
	}

	vote, err := v.votes.CurrentVote(ctx.Request.Context(), kind, targetID, userID)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{"vote": vote})
}
