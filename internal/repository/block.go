package repository

import (
	"context"

	"azaunur/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BlockRepository stores directed block edges. Visibility checks treat the
// relation as symmetric: either direction hides both parties from each other.
type BlockRepository interface {
	Block(ctx context.Context, blockerID, blockedID uint) (created bool, err error)
	Unblock(ctx context.Context, blockerID, blockedID uint) error
	IsBlocked(ctx context.Context, blockerID, blockedID uint) (bool, error)
	// EitherDirection reports whether a blocks b or b blocks a.
	EitherDirection(ctx context.Context, a, b uint) (bool, error)
	// BlockedPeerIDs returns every user id blocked by or blocking userID.
	BlockedPeerIDs(ctx context.Context, userID uint) ([]uint, error)
	// BlockedUsers returns the users userID has blocked, newest first.
	BlockedUsers(ctx context.Context, userID uint) ([]*models.User, error)
}

type blockRepository struct {
	db *gorm.DB
}

// NewBlockRepository creates a new block repository.
func NewBlockRepository(db *gorm.DB) BlockRepository {
	return &blockRepository{db: db}
}

func (r *blockRepository) Block(ctx context.Context, blockerID, blockedID uint) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.Block{BlockerID: blockerID, BlockedID: blockedID})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *blockRepository) Unblock(ctx context.Context, blockerID, blockedID uint) error {
	return r.db.WithContext(ctx).
		Where("blocker_id = ? AND blocked_id = ?", blockerID, blockedID).
		Delete(&models.Block{}).Error
}

func (r *blockRepository) IsBlocked(ctx context.Context, blockerID, blockedID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Block{}).
		Where("blocker_id = ? AND blocked_id = ?", blockerID, blockedID).
		Count(&count).Error
	return count > 0, err
}

func (r *blockRepository) EitherDirection(ctx context.Context, a, b uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Block{}).
		Where("(blocker_id = ? AND blocked_id = ?) OR (blocker_id = ? AND blocked_id = ?)", a, b, b, a).
		Count(&count).Error
	return count > 0, err
}

func (r *blockRepository) BlockedPeerIDs(ctx context.Context, userID uint) ([]uint, error) {
	var blocked []uint
	if err := r.db.WithContext(ctx).Model(&models.Block{}).
		Where("blocker_id = ?", userID).
		Pluck("blocked_id", &blocked).Error; err != nil {
		return nil, err
	}
	var blockers []uint
	if err := r.db.WithContext(ctx).Model(&models.Block{}).
		Where("blocked_id = ?", userID).
		Pluck("blocker_id", &blockers).Error; err != nil {
		return nil, err
	}
	seen := make(map[uint]struct{}, len(blocked)+len(blockers))
	ids := make([]uint, 0, len(blocked)+len(blockers))
	for _, id := range append(blocked, blockers...) {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids, nil
}

func (r *blockRepository) BlockedUsers(ctx context.Context, userID uint) ([]*models.User, error) {
	var users []*models.User
	err := r.db.WithContext(ctx).
		Joins("JOIN blocks ON blocks.blocked_id = users.id AND blocks.blocker_id = ?", userID).
		Order("blocks.created_at DESC").
		Find(&users).Error
	return users, err
}
