package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/polemika/polemika/services"
	"github.com/polemika/polemika/utils"
)

// CommentController exposes the comment tree and the creation/redaction
// paths over HTTP.
type CommentController struct {
	comments *services.CommentService
}

// NewCommentController creates a new CommentController instance.
func NewCommentController(comments *services.CommentService) *CommentController {
	return &CommentController{comments: comments}
}

// GetCommentTree returns one page of a post's discussion as a nested tree.
// Pagination applies to top-level comments; replies always come whole.
func (c *CommentController) GetCommentTree(ctx *gin.Context) {
	postID, ok := parseID(ctx.Param("id"))
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40024, "invalid post id")
		return
	}
	page, pageSize := parsePagination(ctx.Query("page"), ctx.Query("page_size"))

	cacheKey := fmt.Sprintf("cache:comments:tree:post=%d:page=%d:size=%d", postID, page, pageSize)
	if b, ok := utils.CacheGetBytes(ctx.Request.Context(), cacheKey); ok {
		ctx.Data(200, "application/json", b)
		return
	}

	tree, err := c.comments.BuildCommentTree(ctx.Request.Context(), postID, page, pageSize)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	payload := gin.H{
		"comments": tree.Comments,
		"pagination": gin.H{
			"page":        tree.Page,
			"page_size":   tree.PageSize,
			"total":       tree.Total,
			"total_pages": int((tree.Total + int64(tree.PageSize) - 1) / int64(tree.PageSize)),
		},
	}
	utils.CacheSetJSON(ctx.Request.Context(), cacheKey, utils.JSONResponse{Code: 0, Message: "success", Data: payload}, time.Hour)
	utils.Success(ctx, payload)
}

// CreateComment adds a comment or a reply to a post.
func (c *CommentController) CreateComment(ctx *gin.Context) {
	postID, ok := parseID(ctx.Param("id"))
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40025, "invalid post id")
		return
	}

	var req struct {
		AuthorID uint   `json:"author_id" binding:"required"`
		Content  string `json:"content" binding:"required"`
		ParentID *uint  `json:"parent_id"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40026, "invalid request payload")
		return
	}

	content := utils.Sanitize(req.Content)
	comment, err := c.comments.CreateComment(ctx.Request.Context(), postID, req.AuthorID, content, req.ParentID)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	utils.InvalidateByPrefix(fmt.Sprintf("cache:comments:tree:post=%d", postID))
	utils.InvalidateByPrefix(fmt.Sprintf("cache:post:detail:%d", postID))
	utils.Success(ctx, gin.H{"comment": comment})
}

// DeleteComment soft-deletes a comment: the content is replaced by the
// deletion marker while replies stay attached.
func (c *CommentController) DeleteComment(ctx *gin.Context) {
	commentID, ok := parseID(ctx.Param("id"))
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40027, "invalid comment id")
		return
	}

	if err := c.comments.RedactComment(ctx.Request.Context(), commentID); err != nil {
		respondServiceError(ctx, err)
		return
	}

	utils.InvalidateByPrefix("cache:comments:tree:")
	utils.Success(ctx, gin.H{"message": "comment removed"})
}
