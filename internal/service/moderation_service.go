package service

import (
	"context"
	"strings"
	"time"

	"azaunur/internal/cache"
	"azaunur/internal/models"
	"azaunur/internal/repository"

	"gorm.io/gorm"
)

// BanDuration is how long a report-triggered suspension lasts.
const BanDuration = 5 * time.Hour

// ModerationService runs the report and verification lifecycles plus the
// admin dashboard. Every admin operation checks the caller's flag itself, so
// handlers cannot forget to.
type ModerationService struct {
	db             *gorm.DB
	userRepo       repository.UserRepository
	moderationRepo repository.ModerationRepository
}

func NewModerationService(
	db *gorm.DB,
	userRepo repository.UserRepository,
	moderationRepo repository.ModerationRepository,
) *ModerationService {
	return &ModerationService{
		db:             db,
		userRepo:       userRepo,
		moderationRepo: moderationRepo,
	}
}

func (s *ModerationService) requireAdmin(ctx context.Context, userID uint) error {
	admin, err := s.userRepo.IsAdmin(ctx, userID)
	if err != nil {
		return err
	}
	if !admin {
		return models.NewForbiddenError("Admin access required")
	}
	return nil
}

// ReportUser files a complaint about another account.
func (s *ModerationService) ReportUser(ctx context.Context, reporterID, targetID uint, reason string) (*models.Report, error) {
	if reporterID == targetID {
		return nil, models.NewValidationError("You cannot report yourself")
	}
	if _, err := s.userRepo.GetByID(ctx, targetID); err != nil {
		return nil, err
	}
	report := &models.Report{
		ReporterID: reporterID,
		ReportedID: targetID,
		Reason:     strings.TrimSpace(reason),
	}
	if err := s.moderationRepo.CreateReport(ctx, report); err != nil {
		return nil, err
	}
	return report, nil
}

// PendingReports lists unresolved reports for the admin queue.
func (s *ModerationService) PendingReports(ctx context.Context, adminID uint) ([]*models.Report, error) {
	if err := s.requireAdmin(ctx, adminID); err != nil {
		return nil, err
	}
	return s.moderationRepo.ListReports(ctx, models.ReportStatusPending)
}

// ForgiveReport resolves a pending report without sanction.
func (s *ModerationService) ForgiveReport(ctx context.Context, adminID, reportID uint) error {
	if err := s.requireAdmin(ctx, adminID); err != nil {
		return err
	}
	report, err := s.moderationRepo.GetReport(ctx, reportID)
	if err != nil {
		return err
	}
	if report.Status != models.ReportStatusPending {
		return models.NewConflictError("Report is already resolved")
	}
	report.Status = models.ReportStatusForgiven
	return s.moderationRepo.UpdateReport(ctx, report)
}

// BanFromReport resolves a pending report by suspending the reported account
// for BanDuration. The report state and the suspension commit together.
func (s *ModerationService) BanFromReport(ctx context.Context, adminID, reportID uint) (*models.User, error) {
	if err := s.requireAdmin(ctx, adminID); err != nil {
		return nil, err
	}
	report, err := s.moderationRepo.GetReport(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if report.Status != models.ReportStatusPending {
		return nil, models.NewConflictError("Report is already resolved")
	}

	var banned *models.User
	err = s.db.Transaction(func(tx *gorm.DB) error {
		users := repository.NewUserRepository(tx)
		user, err := users.GetByID(ctx, report.ReportedID)
		if err != nil {
			return err
		}
		until := time.Now().UTC().Add(BanDuration)
		user.BannedUntil = &until
		if err := users.Update(ctx, user); err != nil {
			return err
		}
		report.Status = models.ReportStatusBanned
		if err := repository.NewModerationRepository(tx).UpdateReport(ctx, report); err != nil {
			return err
		}
		banned = user
		return nil
	})
	if err != nil {
		return nil, err
	}
	cache.InvalidateUser(ctx, banned.ID)
	cache.InvalidateProfile(ctx, banned.Handle)
	return banned, nil
}

// RequestVerification files a badge application. One pending request per
// account.
func (s *ModerationService) RequestVerification(ctx context.Context, userID uint, reason string) (*models.VerificationRequest, error) {
	pending, err := s.moderationRepo.PendingVerificationRequest(ctx, userID)
	if err != nil {
		return nil, err
	}
	if pending != nil {
		return nil, models.NewConflictError("You already have a pending verification request")
	}
	req := &models.VerificationRequest{UserID: userID, Reason: strings.TrimSpace(reason)}
	if err := s.moderationRepo.CreateVerificationRequest(ctx, req); err != nil {
		return nil, err
	}
	return req, nil
}

// PendingVerification returns the user's own open request, if any.
func (s *ModerationService) PendingVerification(ctx context.Context, userID uint) (*models.VerificationRequest, error) {
	return s.moderationRepo.PendingVerificationRequest(ctx, userID)
}

// PendingVerificationRequests lists the admin queue.
func (s *ModerationService) PendingVerificationRequests(ctx context.Context, adminID uint) ([]*models.VerificationRequest, error) {
	if err := s.requireAdmin(ctx, adminID); err != nil {
		return nil, err
	}
	return s.moderationRepo.ListVerificationRequests(ctx, models.VerificationStatusPending)
}

// ApproveVerification grants the badge and closes the request atomically.
func (s *ModerationService) ApproveVerification(ctx context.Context, adminID, requestID uint, badgeType string) error {
	if err := s.requireAdmin(ctx, adminID); err != nil {
		return err
	}
	if !validBadgeType(badgeType) {
		return models.NewValidationError("Unknown verification type")
	}
	req, err := s.moderationRepo.GetVerificationRequest(ctx, requestID)
	if err != nil {
		return err
	}
	if req.Status != models.VerificationStatusPending {
		return models.NewConflictError("Request is already resolved")
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		users := repository.NewUserRepository(tx)
		user, err := users.GetByID(ctx, req.UserID)
		if err != nil {
			return err
		}
		user.IsVerified = true
		user.VerificationType = &badgeType
		if err := users.Update(ctx, user); err != nil {
			return err
		}
		req.Status = models.VerificationStatusApproved
		return repository.NewModerationRepository(tx).UpdateVerificationRequest(ctx, req)
	})
	if err != nil {
		return err
	}
	cache.InvalidateUser(ctx, req.UserID)
	return nil
}

// RejectVerification closes the request without granting anything.
func (s *ModerationService) RejectVerification(ctx context.Context, adminID, requestID uint) error {
	if err := s.requireAdmin(ctx, adminID); err != nil {
		return err
	}
	req, err := s.moderationRepo.GetVerificationRequest(ctx, requestID)
	if err != nil {
		return err
	}
	if req.Status != models.VerificationStatusPending {
		return models.NewConflictError("Request is already resolved")
	}
	req.Status = models.VerificationStatusRejected
	return s.moderationRepo.UpdateVerificationRequest(ctx, req)
}

// SetVerification grants or revokes a badge directly, outside the request
// flow. An empty badgeType revokes.
func (s *ModerationService) SetVerification(ctx context.Context, adminID, userID uint, badgeType string) (*models.User, error) {
	if err := s.requireAdmin(ctx, adminID); err != nil {
		return nil, err
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if badgeType == "" || badgeType == "none" {
		user.IsVerified = false
		user.VerificationType = nil
	} else {
		if !validBadgeType(badgeType) {
			return nil, models.NewValidationError("Unknown verification type")
		}
		user.IsVerified = true
		user.VerificationType = &badgeType
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	cache.InvalidateUser(ctx, user.ID)
	cache.InvalidateProfile(ctx, user.Handle)
	return user, nil
}

// ToggleAdmin flips the target's admin flag.
func (s *ModerationService) ToggleAdmin(ctx context.Context, adminID, userID uint) (bool, error) {
	if err := s.requireAdmin(ctx, adminID); err != nil {
		return false, err
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return false, err
	}
	user.IsAdmin = !user.IsAdmin
	if err := s.userRepo.Update(ctx, user); err != nil {
		return false, err
	}
	cache.InvalidateUser(ctx, user.ID)
	return user.IsAdmin, nil
}

// SetCustomStatus sets or clears the label shown on a profile. Empty clears.
func (s *ModerationService) SetCustomStatus(ctx context.Context, adminID, userID uint, status string) (*models.User, error) {
	if err := s.requireAdmin(ctx, adminID); err != nil {
		return nil, err
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	status = strings.TrimSpace(status)
	if status == "" {
		user.CustomStatus = nil
	} else {
		user.CustomStatus = &status
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	cache.InvalidateUser(ctx, user.ID)
	cache.InvalidateProfile(ctx, user.Handle)
	return user, nil
}

// Stats returns the dashboard totals. Active accounts are those that posted
// in the last day.
func (s *ModerationService) Stats(ctx context.Context, adminID uint) (*models.AdminStats, error) {
	if err := s.requireAdmin(ctx, adminID); err != nil {
		return nil, err
	}
	return s.moderationRepo.Stats(ctx, time.Now().UTC().Add(-24*time.Hour))
}

func validBadgeType(badgeType string) bool {
	switch badgeType {
	case models.VerificationGold, models.VerificationVIP, models.VerificationExclusive:
		return true
	}
	return false
}
