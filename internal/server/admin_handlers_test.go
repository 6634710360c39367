package server

import (
	"net/http"
	"testing"
	"time"

	"azaunur/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportAndBanFlow(t *testing.T) {
	s, db := newTestServer(t)
	reporter := createHandlerTestUser(t, db, "reporter")
	offender := createHandlerTestUser(t, db, "offender")
	admin := createHandlerTestUser(t, db, "moderator")
	require.NoError(t, db.Model(admin).Update("is_admin", true).Error)

	reporterApp := authedApp(reporter.ID)
	reporterApp.Post("/users/:id/report", s.ReportUser)

	resp, err := reporterApp.Test(jsonRequest(t, http.MethodPost, "/users/2/report", map[string]string{
		"reason": "spam",
	}))
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	adminApp := authedApp(admin.ID)
	adminApp.Get("/admin/reports", s.GetPendingReports)
	adminApp.Post("/admin/reports/:id/ban", s.BanFromReport)

	resp, err = adminApp.Test(jsonRequest(t, http.MethodGet, "/admin/reports", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	reports, ok := body["reports"].([]any)
	require.True(t, ok)
	require.Len(t, reports, 1)

	resp, err = adminApp.Test(jsonRequest(t, http.MethodPost, "/admin/reports/1/ban", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var banned models.User
	require.NoError(t, db.First(&banned, offender.ID).Error)
	require.NotNil(t, banned.BannedUntil)
	assert.True(t, banned.BannedUntil.After(time.Now().Add(4*time.Hour)))

	var report models.Report
	require.NoError(t, db.First(&report).Error)
	assert.Equal(t, models.ReportStatusBanned, report.Status)

	// A resolved report cannot be resolved again.
	resp, err = adminApp.Test(jsonRequest(t, http.MethodPost, "/admin/reports/1/ban", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestAdminEndpoints_RequireAdmin(t *testing.T) {
	s, db := newTestServer(t)
	regular := createHandlerTestUser(t, db, "regular")

	app := authedApp(regular.ID)
	app.Get("/admin/reports", s.GetPendingReports)
	app.Get("/admin/stats", s.GetAdminStats)

	resp, err := app.Test(jsonRequest(t, http.MethodGet, "/admin/reports", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, err = app.Test(jsonRequest(t, http.MethodGet, "/admin/stats", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestVerificationFlow(t *testing.T) {
	s, db := newTestServer(t)
	applicant := createHandlerTestUser(t, db, "applicant")
	admin := createHandlerTestUser(t, db, "moderator")
	require.NoError(t, db.Model(admin).Update("is_admin", true).Error)

	applicantApp := authedApp(applicant.ID)
	applicantApp.Post("/verification", s.RequestVerification)

	resp, err := applicantApp.Test(jsonRequest(t, http.MethodPost, "/verification", map[string]string{
		"reason": "I am notable",
	}))
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// Only one pending request at a time.
	resp, err = applicantApp.Test(jsonRequest(t, http.MethodPost, "/verification", map[string]string{
		"reason": "again",
	}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	adminApp := authedApp(admin.ID)
	adminApp.Post("/admin/verification/:id/approve", s.ApproveVerification)

	resp, err = adminApp.Test(jsonRequest(t, http.MethodPost, "/admin/verification/1/approve", map[string]string{
		"type": models.VerificationGold,
	}))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var verified models.User
	require.NoError(t, db.First(&verified, applicant.ID).Error)
	assert.True(t, verified.IsVerified)
	require.NotNil(t, verified.VerificationType)
	assert.Equal(t, models.VerificationGold, *verified.VerificationType)
}

func TestGetAdminStats(t *testing.T) {
	s, db := newTestServer(t)
	admin := createHandlerTestUser(t, db, "moderator")
	require.NoError(t, db.Model(admin).Update("is_admin", true).Error)
	createHandlerTestPost(t, db, admin.ID, "one")

	app := authedApp(admin.ID)
	app.Get("/admin/stats", s.GetAdminStats)

	resp, err := app.Test(jsonRequest(t, http.MethodGet, "/admin/stats", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, float64(1), body["total_users"])
	assert.Equal(t, float64(1), body["total_posts"])
}
