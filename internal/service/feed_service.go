package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"azaunur/internal/middleware"
	"azaunur/internal/models"
	"azaunur/internal/observability"
	"azaunur/internal/repository"
)

const (
	tagFeedLimit    = 100
	searchPostLimit = 30
	searchUserLimit = 30
	searchTagLimit  = 50
)

// FeedItem is one entry of an assembled feed: either an original post or a
// repost of one. Ordering uses the item's own timestamp, so a repost surfaces
// at the moment of the repost, not of the original.
type FeedItem struct {
	Kind       string       `json:"kind"`
	Post       *models.Post `json:"post"`
	RepostedBy *models.User `json:"reposted_by,omitempty"`
	Timestamp  time.Time    `json:"timestamp"`
}

// SearchResult bundles the account and post matches of one query.
type SearchResult struct {
	Users []*models.User `json:"users"`
	Posts []*models.Post `json:"posts"`
}

// FeedService assembles the network-wide feed and the tag, saved, and search
// views derived from it.
type FeedService struct {
	postRepo       repository.PostRepository
	userRepo       repository.UserRepository
	engagementRepo repository.EngagementRepository
	visibility     *VisibilityService
}

func NewFeedService(
	postRepo repository.PostRepository,
	userRepo repository.UserRepository,
	engagementRepo repository.EngagementRepository,
	visibility *VisibilityService,
) *FeedService {
	return &FeedService{
		postRepo:       postRepo,
		userRepo:       userRepo,
		engagementRepo: engagementRepo,
		visibility:     visibility,
	}
}

// BuildFeed returns every visible post and repost, newest first, and records
// a view fact for each distinct post surfaced to the viewer.
func (s *FeedService) BuildFeed(ctx context.Context, viewerID uint) ([]*FeedItem, error) {
	blocked, err := s.visibility.BlockedPeers(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	posts, err := s.postRepo.ListForFeed(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	reposts, err := s.engagementRepo.ListReposts(ctx)
	if err != nil {
		return nil, err
	}

	byID := make(map[uint]*models.Post, len(posts))
	items := make([]*FeedItem, 0, len(posts)+len(reposts))
	for _, p := range posts {
		byID[p.ID] = p
		if _, hidden := blocked[p.UserID]; hidden {
			continue
		}
		items = append(items, &FeedItem{Kind: "post", Post: p, Timestamp: p.CreatedAt})
	}
	for _, r := range reposts {
		// A repost is hidden when the reposting user or the original
		// author is blocked either way.
		if _, hidden := blocked[r.UserID]; hidden {
			continue
		}
		original, ok := byID[r.PostID]
		if !ok {
			continue
		}
		if _, hidden := blocked[original.UserID]; hidden {
			continue
		}
		actor := r.User
		items = append(items, &FeedItem{Kind: "repost", Post: original, RepostedBy: &actor, Timestamp: r.CreatedAt})
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Timestamp.After(items[j].Timestamp)
	})

	if err := s.markViews(ctx, viewerID, items); err != nil {
		middleware.Logger.WarnContext(ctx, "failed to record feed views", "error", err)
	}

	observability.FeedBuilds.WithLabelValues("home").Inc()
	observability.FeedItemsReturned.Observe(float64(len(items)))
	return items, nil
}

// TagFeed returns the newest posts carrying #tag, blocked authors excluded
// before the limit is applied.
func (s *FeedService) TagFeed(ctx context.Context, viewerID uint, tag string) ([]*FeedItem, error) {
	tag = strings.TrimPrefix(tag, "#")
	if tag == "" {
		return nil, models.NewValidationError("Tag is required")
	}
	exclude, err := s.visibility.BlockedPeerIDs(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	posts, err := s.postRepo.SearchTag(ctx, tag, viewerID, exclude, tagFeedLimit)
	if err != nil {
		return nil, err
	}
	observability.FeedBuilds.WithLabelValues("tag").Inc()
	return postItems(posts), nil
}

// SavedFeed returns the viewer's bookmarks in most-recently-saved order.
func (s *FeedService) SavedFeed(ctx context.Context, viewerID uint) ([]*FeedItem, error) {
	posts, err := s.postRepo.ListSaved(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	observability.FeedBuilds.WithLabelValues("saved").Inc()
	return postItems(posts), nil
}

// Search matches accounts by handle and posts by body. A query starting with
// # searches tags only.
func (s *FeedService) Search(ctx context.Context, viewerID uint, query string) (*SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return &SearchResult{}, nil
	}
	exclude, err := s.visibility.BlockedPeerIDs(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	if tag, ok := strings.CutPrefix(query, "#"); ok {
		posts, err := s.postRepo.SearchTag(ctx, strings.ToLower(tag), viewerID, exclude, searchTagLimit)
		if err != nil {
			return nil, err
		}
		return &SearchResult{Posts: posts}, nil
	}

	users, err := s.userRepo.Search(ctx, query, searchUserLimit, exclude)
	if err != nil {
		return nil, err
	}
	posts, err := s.postRepo.SearchBody(ctx, query, viewerID, exclude, searchPostLimit)
	if err != nil {
		return nil, err
	}
	return &SearchResult{Users: users, Posts: posts}, nil
}

func (s *FeedService) markViews(ctx context.Context, viewerID uint, items []*FeedItem) error {
	seen := make(map[uint]struct{}, len(items))
	ids := make([]uint, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item.Post.ID]; ok {
			continue
		}
		seen[item.Post.ID] = struct{}{}
		ids = append(ids, item.Post.ID)
	}
	return s.engagementRepo.MarkViews(ctx, viewerID, ids)
}

func postItems(posts []*models.Post) []*FeedItem {
	items := make([]*FeedItem, 0, len(posts))
	for _, p := range posts {
		items = append(items, &FeedItem{Kind: "post", Post: p, Timestamp: p.CreatedAt})
	}
	return items
}
