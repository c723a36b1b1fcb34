package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/polemika/polemika/models"
)

// CommentRepository abstracts comment storage. The tree builder and the
// creation path receive it at construction time so tests can swap in an
// in-memory implementation.
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	FindByID(ctx context.Context, id uint) (*models.Comment, error)
	// FindTopLevel returns comments of a post without a parent, newest first.
	FindTopLevel(ctx context.Context, postID uint, offset, limit int) ([]models.Comment, error)
	CountTopLevel(ctx context.Context, postID uint) (int64, error)
	// FindByParentIDs returns all direct replies to the given comments,
	// oldest first, so threads read chronologically.
	FindByParentIDs(ctx context.Context, parentIDs []uint) ([]models.Comment, error)
	UpdateContent(ctx context.Context, id uint, content string) error
}

type gormCommentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a MySQL-backed CommentRepository.
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &gormCommentRepository{db: db}
}

func (r *gormCommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

func (r *gormCommentRepository) FindByID(ctx context.Context, id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).First(&comment, id).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &comment, nil
}

func (r *gormCommentRepository) FindTopLevel(ctx context.Context, postID uint, offset, limit int) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.WithContext(ctx).
		Where("post_id = ? AND parent_id IS NULL", postID).
		Order("created_at DESC, id DESC").
		Offset(offset).Limit(limit).
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}

func (r *gormCommentRepository) CountTopLevel(ctx context.Context, postID uint) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.Comment{}).
		Where("post_id = ? AND parent_id IS NULL", postID).
		Count(&total).Error
	return total, err
}

func (r *gormCommentRepository) FindByParentIDs(ctx context.Context, parentIDs []uint) ([]models.Comment, error) {
	if len(parentIDs) == 0 {
		return nil, nil
	}
	var comments []models.Comment
	err := r.db.WithContext(ctx).
		Where("parent_id IN ?", parentIDs).
		Order("created_at ASC, id ASC").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}

func (r *gormCommentRepository) UpdateContent(ctx context.Context, id uint, content string) error {
	res := r.db.WithContext(ctx).Model(&models.Comment{}).
		Where("id = ?", id).
		UpdateColumn("content", content)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
