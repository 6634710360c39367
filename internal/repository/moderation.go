package repository

import (
	"context"
	"errors"
	"time"

	"azaunur/internal/models"

	"gorm.io/gorm"
)

// ModerationRepository stores reports and verification requests and serves
// the admin dashboard queries.
type ModerationRepository interface {
	CreateReport(ctx context.Context, report *models.Report) error
	GetReport(ctx context.Context, id uint) (*models.Report, error)
	// ListReports returns reports with the given status, newest first. An
	// empty status returns all reports.
	ListReports(ctx context.Context, status models.ReportStatus) ([]*models.Report, error)
	UpdateReport(ctx context.Context, report *models.Report) error

	CreateVerificationRequest(ctx context.Context, req *models.VerificationRequest) error
	GetVerificationRequest(ctx context.Context, id uint) (*models.VerificationRequest, error)
	// PendingVerificationRequest returns the user's pending request, or nil.
	PendingVerificationRequest(ctx context.Context, userID uint) (*models.VerificationRequest, error)
	ListVerificationRequests(ctx context.Context, status models.VerificationStatus) ([]*models.VerificationRequest, error)
	UpdateVerificationRequest(ctx context.Context, req *models.VerificationRequest) error

	Stats(ctx context.Context, since time.Time) (*models.AdminStats, error)
}

type moderationRepository struct {
	db *gorm.DB
}

// NewModerationRepository creates a new moderation repository.
func NewModerationRepository(db *gorm.DB) ModerationRepository {
	return &moderationRepository{db: db}
}

func (r *moderationRepository) CreateReport(ctx context.Context, report *models.Report) error {
	return r.db.WithContext(ctx).Create(report).Error
}

func (r *moderationRepository) GetReport(ctx context.Context, id uint) (*models.Report, error) {
	var report models.Report
	err := r.db.WithContext(ctx).
		Preload("Reporter").
		Preload("Reported").
		First(&report, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewNotFoundError("report", id)
	}
	if err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *moderationRepository) ListReports(ctx context.Context, status models.ReportStatus) ([]*models.Report, error) {
	var reports []*models.Report
	q := r.db.WithContext(ctx).
		Preload("Reporter").
		Preload("Reported")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	err := q.Order("created_at DESC, id DESC").Find(&reports).Error
	return reports, err
}

func (r *moderationRepository) UpdateReport(ctx context.Context, report *models.Report) error {
	return r.db.WithContext(ctx).Save(report).Error
}

func (r *moderationRepository) CreateVerificationRequest(ctx context.Context, req *models.VerificationRequest) error {
	return r.db.WithContext(ctx).Create(req).Error
}

func (r *moderationRepository) GetVerificationRequest(ctx context.Context, id uint) (*models.VerificationRequest, error) {
	var req models.VerificationRequest
	err := r.db.WithContext(ctx).
		Preload("User").
		First(&req, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewNotFoundError("verification request", id)
	}
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *moderationRepository) PendingVerificationRequest(ctx context.Context, userID uint) (*models.VerificationRequest, error) {
	var req models.VerificationRequest
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, models.VerificationStatusPending).
		Order("created_at DESC").
		First(&req).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *moderationRepository) ListVerificationRequests(ctx context.Context, status models.VerificationStatus) ([]*models.VerificationRequest, error) {
	var reqs []*models.VerificationRequest
	q := r.db.WithContext(ctx).Preload("User")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	err := q.Order("created_at DESC, id DESC").Find(&reqs).Error
	return reqs, err
}

func (r *moderationRepository) UpdateVerificationRequest(ctx context.Context, req *models.VerificationRequest) error {
	return r.db.WithContext(ctx).Save(req).Error
}

func (r *moderationRepository) Stats(ctx context.Context, since time.Time) (*models.AdminStats, error) {
	db := r.db.WithContext(ctx)
	stats := &models.AdminStats{}
	counts := []struct {
		model any
		dest  *int64
	}{
		{&models.User{}, &stats.TotalUsers},
		{&models.Post{}, &stats.TotalPosts},
		{&models.Comment{}, &stats.TotalComments},
		{&models.Message{}, &stats.TotalMessages},
	}
	for _, c := range counts {
		if err := db.Model(c.model).Count(c.dest).Error; err != nil {
			return nil, err
		}
	}
	err := db.Model(&models.Post{}).
		Distinct("user_id").
		Where("created_at >= ?", since).
		Count(&stats.ActiveToday).Error
	if err != nil {
		return nil, err
	}
	return stats, nil
}
