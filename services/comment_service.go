package services

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/polemika/polemika/models"
	"github.com/polemika/polemika/repositories"
)

const (
	minContentLength = 1
	maxContentLength = 1000
)

// CommentService builds comment trees for rendering and handles comment
// creation with depth and cross-post validation.
type CommentService struct {
	comments repositories.CommentRepository
	posts    repositories.PostRepository
}

// NewCommentService creates a CommentService on top of the given repositories.
func NewCommentService(comments repositories.CommentRepository, posts repositories.PostRepository) *CommentService {
	return &CommentService{comments: comments, posts: posts}
}

// CommentTreePage is one page of a post's discussion: the requested slice of
// top-level comments with all replies attached, plus the top-level total.
type CommentTreePage struct {
	Comments []*models.CommentNode `json:"comments"`
	Total    int64                 `json:"total"`
	Page     int                   `json:"page"`
	PageSize int                   `json:"page_size"`
}

// BuildCommentTree loads one page of top-level comments (newest first) and
// attaches replies level by level, oldest first. Pagination applies to
// top-level comments only. The traversal is iterative with an id-to-node
// arena, one query per level, and stops at MaxCommentDepth, so rows nested
// deeper than the creation path allows are dropped instead of recursed into.
func (s *CommentService) BuildCommentTree(ctx context.Context, postID uint, page, pageSize int) (*CommentTreePage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}

	total, err := s.comments.CountTopLevel(ctx, postID)
	if err != nil {
		return nil, repositoryError("count top-level comments", err)
	}

	top, err := s.comments.FindTopLevel(ctx, postID, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, repositoryError("load top-level comments", err)
	}

	arena := make(map[uint]*models.CommentNode, len(top))
	roots := make([]*models.CommentNode, 0, len(top))
	frontier := make([]uint, 0, len(top))
	for _, c := range top {
		node := &models.CommentNode{Comment: c, Replies: []*models.CommentNode{}}
		arena[c.ID] = node
		roots = append(roots, node)
		frontier = append(frontier, c.ID)
	}

	for level := 1; level <= models.MaxCommentDepth && len(frontier) > 0; level++ {
		children, err := s.comments.FindByParentIDs(ctx, frontier)
		if err != nil {
			return nil, repositoryError("load comment replies", err)
		}
		frontier = frontier[:0]
		for _, c := range children {
			if c.ParentID == nil {
				continue
			}
			parent, ok := arena[*c.ParentID]
			if !ok {
				continue
			}
			node := &models.CommentNode{Comment: c, Replies: []*models.CommentNode{}}
			arena[c.ID] = node
			parent.Replies = append(parent.Replies, node)
			frontier = append(frontier, c.ID)
		}
	}

	return &CommentTreePage{Comments: roots, Total: total, Page: page, PageSize: pageSize}, nil
}

// CreateComment validates content and parentage, computes the nesting depth
// and persists the comment. Nothing is written when validation fails.
func (s *CommentService) CreateComment(ctx context.Context, postID, authorID uint, content string, parentID *uint) (*models.Comment, error) {
	content = strings.TrimSpace(content)
	if n := utf8.RuneCountInString(content); n < minContentLength || n > maxContentLength {
		return nil, ErrInvalidContent
	}

	if _, err := s.posts.FindByID(ctx, postID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, repositoryError("load post", err)
	}

	depth := 0
	if parentID != nil {
		parent, err := s.comments.FindByID(ctx, *parentID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, ErrParentNotFound
			}
			return nil, repositoryError("load parent comment", err)
		}
		if parent.PostID != postID {
			return nil, ErrCrossPostReply
		}
		depth = parent.Depth + 1
		if depth > models.MaxCommentDepth {
			return nil, ErrDepthExceeded
		}
	}

	comment := &models.Comment{
		PostID:   postID,
		UserID:   authorID,
		Content:  content,
		ParentID: parentID,
		Depth:    depth,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, repositoryError("create comment", err)
	}
	return comment, nil
}

// RedactComment soft-deletes a comment by replacing its content with the
// deletion marker. The row, its depth and its counters are preserved so the
// thread structure stays intact.
func (s *CommentService) RedactComment(ctx context.Context, commentID uint) error {
	if err := s.comments.UpdateContent(ctx, commentID, models.RedactedContent); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrCommentNotFound
		}
		return repositoryError("redact comment", err)
	}
	return nil
}
