package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/polemika/polemika/config"
	"github.com/polemika/polemika/models"
	"github.com/polemika/polemika/repositories"
	"github.com/polemika/polemika/utils"
)

// PostController serves the board listing and post CRUD. Posts are thin
// documents here; the interesting behavior lives in comments and votes.
type PostController struct {
	posts repositories.PostRepository
}

// NewPostController creates a new PostController instance.
func NewPostController(posts repositories.PostRepository) *PostController {
	return &PostController{posts: posts}
}

// CreatePost files a new post under one of the configured boards.
func (p *PostController) CreatePost(ctx *gin.Context) {
	var req struct {
		UserID  uint   `json:"user_id" binding:"required"`
		Title   string `json:"title" binding:"required,min=1"`
		Content string `json:"content" binding:"required"`
		Board   string `json:"board"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40020, "invalid request payload")
		return
	}

	title := utils.SanitizePlain(strings.TrimSpace(req.Title))
	if title == "" {
		utils.Error(ctx, http.StatusBadRequest, 40021, "title cannot be empty")
		return
	}
	content := utils.Sanitize(req.Content)

	board := req.Board
	if board == "" {
		board = "general"
	}
	if !validBoard(board) {
		utils.Error(ctx, http.StatusBadRequest, 40022, "invalid board")
		return
	}

	post := models.Post{
		UserID:  req.UserID,
		Title:   title,
		Content: content,
		Board:   board,
	}
	if err := p.posts.Create(ctx.Request.Context(), &post); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50020, "failed to create post")
		return
	}

	utils.InvalidateByPrefix("cache:posts:list:")
	utils.Success(ctx, gin.H{"post": post})
}

// ListPosts returns paginated posts, optionally filtered by board.
func (p *PostController) ListPosts(ctx *gin.Context) {
	page, pageSize := parsePagination(ctx.Query("page"), ctx.Query("page_size"))
	board := strings.TrimSpace(ctx.Query("board"))

	cacheKey := fmt.Sprintf("cache:posts:list:board=%s:page=%d:size=%d", board, page, pageSize)
	if b, ok := utils.CacheGetBytes(ctx.Request.Context(), cacheKey); ok {
		ctx.Data(200, "application/json", b)
		return
	}

	posts, total, err := p.posts.List(ctx.Request.Context(), board, (page-1)*pageSize, pageSize)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50021, "failed to list posts")
		return
	}

	payload := gin.H{
		"items": posts,
		"pagination": gin.H{
			"page":        page,
			"page_size":   pageSize,
			"total":       total,
			"total_pages": int((total + int64(pageSize) - 1) / int64(pageSize)),
		},
	}
	utils.CacheSetJSON(ctx.Request.Context(), cacheKey, utils.JSONResponse{Code: 0, Message: "success", Data: payload}, time.Hour)
	utils.Success(ctx, payload)
}

// GetPost returns a single post.
func (p *PostController) GetPost(ctx *gin.Context) {
	postID, ok := parseID(ctx.Param("id"))
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40023, "invalid post id")
		return
	}

	cacheKey := fmt.Sprintf("cache:post:detail:%d", postID)
	if b, ok := utils.CacheGetBytes(ctx.Request.Context(), cacheKey); ok {
		ctx.Data(200, "application/json", b)
		return
	}

	post, err := p.posts.FindByID(ctx.Request.Context(), postID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40401, "post not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50022, "failed to load post")
		return
	}

	payload := gin.H{"post": post}
	utils.CacheSetJSON(ctx.Request.Context(), cacheKey, utils.JSONResponse{Code: 0, Message: "success", Data: payload}, time.Hour)
	utils.Success(ctx, payload)
}

func validBoard(board string) bool {
	for _, b := range config.Get().Boards {
		if b == board {
			return true
		}
	}
	return false
}
