package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/polemika/polemika/models"
)

// PostRepository abstracts post storage for the board listing and the
// post-detail surface.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	FindByID(ctx context.Context, id uint) (*models.Post, error)
	// List returns a page of posts, newest first, optionally filtered by
	// board, together with the total count for the filter.
	List(ctx context.Context, board string, offset, limit int) ([]models.Post, int64, error)
}

type gormPostRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a MySQL-backed PostRepository.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &gormPostRepository{db: db}
}

func (r *gormPostRepository) Create(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

func (r *gormPostRepository) FindByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).First(&post, id).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &post, nil
}

func (r *gormPostRepository) List(ctx context.Context, board string, offset, limit int) ([]models.Post, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Post{}).Order("created_at DESC, id DESC")
	if board != "" {
		query = query.Where("board = ?", board)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var posts []models.Post
	if err := query.Offset(offset).Limit(limit).Find(&posts).Error; err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}
