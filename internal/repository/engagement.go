package repository

import (
	"context"

	"azaunur/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Fact identifies one kind of engagement edge between an actor and a subject.
type Fact string

const (
	FactPostLike    Fact = "post_like"
	FactCommentLike Fact = "comment_like"
	FactRepost      Fact = "repost"
	FactSave        Fact = "save"
)

type factDef struct {
	model      func() any
	subjectCol string
}

var factDefs = map[Fact]factDef{
	FactPostLike:    {model: func() any { return &models.PostLike{} }, subjectCol: "post_id"},
	FactCommentLike: {model: func() any { return &models.CommentLike{} }, subjectCol: "comment_id"},
	FactRepost:      {model: func() any { return &models.Repost{} }, subjectCol: "post_id"},
	FactSave:        {model: func() any { return &models.SavedPost{} }, subjectCol: "post_id"},
}

func newFactRow(fact Fact, actorID, subjectID uint) any {
	switch fact {
	case FactPostLike:
		return &models.PostLike{UserID: actorID, PostID: subjectID}
	case FactCommentLike:
		return &models.CommentLike{UserID: actorID, CommentID: subjectID}
	case FactRepost:
		return &models.Repost{UserID: actorID, PostID: subjectID}
	case FactSave:
		return &models.SavedPost{UserID: actorID, PostID: subjectID}
	}
	return nil
}

// EngagementRepository stores like, repost, and save edges. Each edge is
// unique per (actor, subject) pair and toggles between present and absent.
type EngagementRepository interface {
	// Toggle flips the fact for the pair and reports the resulting state.
	Toggle(ctx context.Context, fact Fact, actorID, subjectID uint) (active bool, err error)
	Active(ctx context.Context, fact Fact, actorID, subjectID uint) (bool, error)
	Count(ctx context.Context, fact Fact, subjectID uint) (int64, error)
	// ActiveSubjects returns the subject ids the actor has the fact on.
	ActiveSubjects(ctx context.Context, fact Fact, actorID uint) ([]uint, error)
	// ListReposts returns every repost network-wide with the reposting user
	// preloaded, newest first.
	ListReposts(ctx context.Context) ([]*models.Repost, error)
	// MarkViews records that the viewer has seen the given posts. Already
	// recorded views are skipped.
	MarkViews(ctx context.Context, viewerID uint, postIDs []uint) error
}

type engagementRepository struct {
	db *gorm.DB
}

// NewEngagementRepository creates a new engagement repository.
func NewEngagementRepository(db *gorm.DB) EngagementRepository {
	return &engagementRepository{db: db}
}

func (r *engagementRepository) Toggle(ctx context.Context, fact Fact, actorID, subjectID uint) (bool, error) {
	def := factDefs[fact]
	db := r.db.WithContext(ctx)

	res := db.Where("user_id = ? AND "+def.subjectCol+" = ?", actorID, subjectID).Delete(def.model())
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected > 0 {
		return false, nil
	}

	ins := db.Clauses(clause.OnConflict{DoNothing: true}).Create(newFactRow(fact, actorID, subjectID))
	if ins.Error != nil {
		return false, ins.Error
	}
	// RowsAffected of zero means a concurrent writer inserted the same edge
	// first. The edge exists either way.
	return true, nil
}

func (r *engagementRepository) Active(ctx context.Context, fact Fact, actorID, subjectID uint) (bool, error) {
	def := factDefs[fact]
	var count int64
	err := r.db.WithContext(ctx).Model(def.model()).
		Where("user_id = ? AND "+def.subjectCol+" = ?", actorID, subjectID).
		Count(&count).Error
	return count > 0, err
}

func (r *engagementRepository) Count(ctx context.Context, fact Fact, subjectID uint) (int64, error) {
	def := factDefs[fact]
	var count int64
	err := r.db.WithContext(ctx).Model(def.model()).
		Where(def.subjectCol+" = ?", subjectID).
		Count(&count).Error
	return count, err
}

func (r *engagementRepository) ActiveSubjects(ctx context.Context, fact Fact, actorID uint) ([]uint, error) {
	def := factDefs[fact]
	var ids []uint
	err := r.db.WithContext(ctx).Model(def.model()).
		Where("user_id = ?", actorID).
		Pluck(def.subjectCol, &ids).Error
	return ids, err
}

func (r *engagementRepository) ListReposts(ctx context.Context) ([]*models.Repost, error) {
	var reposts []*models.Repost
	err := r.db.WithContext(ctx).
		Preload("User").
		Order("created_at DESC, id DESC").
		Find(&reposts).Error
	return reposts, err
}

func (r *engagementRepository) MarkViews(ctx context.Context, viewerID uint, postIDs []uint) error {
	if len(postIDs) == 0 {
		return nil
	}
	views := make([]models.PostView, 0, len(postIDs))
	for _, id := range postIDs {
		views = append(views, models.PostView{PostID: id, UserID: viewerID})
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&views).Error
}
