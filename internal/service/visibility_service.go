package service

import (
	"context"

	"azaunur/internal/repository"
)

// VisibilityService answers who may see whom. A block in either direction
// hides both parties from each other; the service never mutates anything.
type VisibilityService struct {
	blockRepo repository.BlockRepository
}

func NewVisibilityService(blockRepo repository.BlockRepository) *VisibilityService {
	return &VisibilityService{blockRepo: blockRepo}
}

// BlockedPeers returns the set of user ids hidden from the viewer: everyone
// the viewer blocked plus everyone who blocked the viewer.
func (s *VisibilityService) BlockedPeers(ctx context.Context, viewerID uint) (map[uint]struct{}, error) {
	ids, err := s.blockRepo.BlockedPeerIDs(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	peers := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		peers[id] = struct{}{}
	}
	return peers, nil
}

// BlockedPeerIDs is BlockedPeers as a slice, for SQL NOT IN pre-filters.
func (s *VisibilityService) BlockedPeerIDs(ctx context.Context, viewerID uint) ([]uint, error) {
	return s.blockRepo.BlockedPeerIDs(ctx, viewerID)
}

// IsMutuallyVisible reports whether two users can see each other. A user is
// always visible to themselves.
func (s *VisibilityService) IsMutuallyVisible(ctx context.Context, a, b uint) (bool, error) {
	if a == b {
		return true, nil
	}
	blocked, err := s.blockRepo.EitherDirection(ctx, a, b)
	if err != nil {
		return false, err
	}
	return !blocked, nil
}
