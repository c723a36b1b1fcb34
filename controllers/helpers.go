package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/polemika/polemika/services"
	"github.com/polemika/polemika/utils"
)

func parsePagination(pageStr, sizeStr string) (int, int) {
	page := 1
	pageSize := 10
	if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
		page = p
	}
	if s, err := strconv.Atoi(sizeStr); err == nil && s > 0 && s <= 100 {
		pageSize = s
	}
	return page, pageSize
}

func parseID(raw string) (uint, bool) {
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// respondServiceError maps service-layer errors onto the response envelope.
// Validation problems get 400, missing entities 404, transient vote races
// 409, everything else is a 500 logged with its cause.
func respondServiceError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidContent):
		utils.Error(ctx, http.StatusBadRequest, 40030, err.Error())
	case errors.Is(err, services.ErrDepthExceeded):
		utils.Error(ctx, http.StatusBadRequest, 40031, err.Error())
	case errors.Is(err, services.ErrCrossPostReply):
		utils.Error(ctx, http.StatusBadRequest, 40032, err.Error())
	case errors.Is(err, services.ErrInvalidVoteType):
		utils.Error(ctx, http.StatusBadRequest, 40033, err.Error())
	case errors.Is(err, services.ErrInvalidTargetKind):
		utils.Error(ctx, http.StatusBadRequest, 40034, err.Error())
	case errors.Is(err, services.ErrPostNotFound):
		utils.Error(ctx, http.StatusNotFound, 40410, err.Error())
	case errors.Is(err, services.ErrParentNotFound):
		utils.Error(ctx, http.StatusNotFound, 40411, err.Error())
	case errors.Is(err, services.ErrCommentNotFound):
		utils.Error(ctx, http.StatusNotFound, 40412, err.Error())
	case errors.Is(err, services.ErrTargetNotFound):
		utils.Error(ctx, http.StatusNotFound, 40413, err.Error())
	case errors.Is(err, services.ErrConcurrentVoteConflict):
		utils.Error(ctx, http.StatusConflict, 40910, err.Error())
	default:
		if utils.Sugar != nil {
			utils.Sugar.Errorf("request failed: %v", err)
		}
		utils.Error(ctx, http.StatusInternalServerError, 50010, "internal error")
	}
}
