package repository

import (
	"context"
	"errors"

	"azaunur/internal/models"

	"gorm.io/gorm"
)

// PostRepository defines the interface for post data operations.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint, viewerID uint) (*models.Post, error)
	Exists(ctx context.Context, id uint) (bool, error)
	// ListForFeed returns every post, newest first, with the viewer's
	// engagement flags and derived counts populated.
	ListForFeed(ctx context.Context, viewerID uint) ([]*models.Post, error)
	GetByUserID(ctx context.Context, userID uint, viewerID uint) ([]*models.Post, error)
	// SearchTag returns the newest posts whose body contains #tag, excluding
	// the given authors before the limit is applied so pages never under-fill.
	SearchTag(ctx context.Context, tag string, viewerID uint, excludeAuthors []uint, limit int) ([]*models.Post, error)
	SearchBody(ctx context.Context, query string, viewerID uint, excludeAuthors []uint, limit int) ([]*models.Post, error)
	// ListSaved returns the viewer's saved posts in most-recently-saved order.
	ListSaved(ctx context.Context, viewerID uint) ([]*models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	// DeleteCascade removes the post together with its comments, comment
	// likes, likes, reposts, saves, and views. Callers run it inside a
	// transaction.
	DeleteCascade(ctx context.Context, id uint) error
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

// applyPostDetails adds subqueries computing counts and the viewer's
// engagement flags in a single query. A zero viewerID matches no facts.
func (r *postRepository) applyPostDetails(db *gorm.DB, viewerID uint) *gorm.DB {
	return db.Select("posts.*, "+
		"(SELECT COUNT(*) FROM post_likes WHERE post_likes.post_id = posts.id) AS likes_count, "+
		"(SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id) AS comments_count, "+
		"(SELECT COUNT(*) FROM reposts WHERE reposts.post_id = posts.id) AS reposts_count, "+
		"(SELECT COUNT(*) FROM post_views WHERE post_views.post_id = posts.id) AS views_count, "+
		"EXISTS(SELECT 1 FROM post_likes WHERE post_likes.post_id = posts.id AND post_likes.user_id = ?) AS liked, "+
		"EXISTS(SELECT 1 FROM reposts WHERE reposts.post_id = posts.id AND reposts.user_id = ?) AS reposted, "+
		"EXISTS(SELECT 1 FROM saved_posts WHERE saved_posts.post_id = posts.id AND saved_posts.user_id = ?) AS saved",
		viewerID, viewerID, viewerID)
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

func (r *postRepository) GetByID(ctx context.Context, id uint, viewerID uint) (*models.Post, error) {
	var post models.Post
	err := r.applyPostDetails(r.db.WithContext(ctx), viewerID).
		Preload("User").
		First(&post, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewNotFoundError("post", id)
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Post{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *postRepository) ListForFeed(ctx context.Context, viewerID uint) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.applyPostDetails(r.db.WithContext(ctx), viewerID).
		Preload("User").
		Order("created_at DESC, id DESC").
		Find(&posts).Error
	return posts, err
}

func (r *postRepository) GetByUserID(ctx context.Context, userID uint, viewerID uint) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.applyPostDetails(r.db.WithContext(ctx), viewerID).
		Preload("User").
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&posts).Error
	return posts, err
}

func (r *postRepository) SearchTag(ctx context.Context, tag string, viewerID uint, excludeAuthors []uint, limit int) ([]*models.Post, error) {
	return r.searchBody(ctx, "%#"+tag+"%", viewerID, excludeAuthors, limit)
}

func (r *postRepository) SearchBody(ctx context.Context, query string, viewerID uint, excludeAuthors []uint, limit int) ([]*models.Post, error) {
	return r.searchBody(ctx, "%"+query+"%", viewerID, excludeAuthors, limit)
}

func (r *postRepository) searchBody(ctx context.Context, pattern string, viewerID uint, excludeAuthors []uint, limit int) ([]*models.Post, error) {
	var posts []*models.Post
	q := r.applyPostDetails(r.db.WithContext(ctx), viewerID).
		Preload("User").
		// LOWER on both sides for an ILIKE match that sqlite also honors.
		Where("LOWER(body) LIKE LOWER(?)", pattern)
	if len(excludeAuthors) > 0 {
		q = q.Where("user_id NOT IN ?", excludeAuthors)
	}
	err := q.Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&posts).Error
	return posts, err
}

func (r *postRepository) ListSaved(ctx context.Context, viewerID uint) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.applyPostDetails(r.db.WithContext(ctx), viewerID).
		Preload("User").
		Joins("JOIN saved_posts ON saved_posts.post_id = posts.id AND saved_posts.user_id = ?", viewerID).
		Order("saved_posts.created_at DESC, saved_posts.id DESC").
		Find(&posts).Error
	return posts, err
}

func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).Save(post).Error
}

func (r *postRepository) DeleteCascade(ctx context.Context, id uint) error {
	db := r.db.WithContext(ctx)

	commentIDs := db.Model(&models.Comment{}).Select("id").Where("post_id = ?", id)
	if err := db.Where("comment_id IN (?)", commentIDs).Delete(&models.CommentLike{}).Error; err != nil {
		return err
	}
	for _, m := range []any{&models.Comment{}, &models.PostLike{}, &models.Repost{}, &models.SavedPost{}, &models.PostView{}} {
		if err := db.Where("post_id = ?", id).Delete(m).Error; err != nil {
			return err
		}
	}
	return db.Delete(&models.Post{}, id).Error
}
