package store

import (
	"context"
	"errors"
	"net"
	"os"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/justsurfingit/carreira-ia/internal/apperrors"
	"github.com/justsurfingit/carreira-ia/internal/models"
	"github.com/justsurfingit/carreira-ia/internal/services"
	"github.com/justsurfingit/carreira-ia/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ services.ResumeStore      = (*Store)(nil)
	_ services.ApplicationStore = (*Store)(nil)
	_ services.DeliveryStore    = (*Store)(nil)
	_ services.JobSearchStore   = (*Store)(nil)
	_ services.BillingStore     = (*Store)(nil)
	_ services.IntegrationStore = (*Store)(nil)
	_ services.CatalogStore     = (*Store)(nil)
	_ services.AdminStore       = (*Store)(nil)
	_ services.AuthStore        = (*Store)(nil)
	_ services.ProfileStore     = (*Store)(nil)
	_ services.InboxStore       = (*Store)(nil)
)

func TestMain(m *testing.M) {
	testutils.InitTestMain()
	os.Exit(m.Run())
}

func connRefused() error {
	return &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}
}

func TestListResumesByUser_NewestFirst(t *testing.T) {
	db, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()
	s := New(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "created_at", "updated_at", "user_id", "file_name", "file_key", "file_url", "status"}).
		AddRow(2, now, now, 7, "CV.pdf", "k2", "u2", models.ResumeUploaded).
		AddRow(1, now.Add(-time.Hour), now, 7, "cv.pdf", "k1", "u1", models.ResumeAnalyzed)

	mock.ExpectQuery(`SELECT \* FROM "resumes" WHERE user_id = \$1 ORDER BY created_at DESC`).
		WithArgs(7).
		WillReturnRows(rows)

	out, err := s.ListResumesByUser(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, uint(2), out[0].ID)
	assert.Equal(t, "cv.pdf", out[1].FileName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListResumesByUser_DegradesWhenUnavailable(t *testing.T) {
	db, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()
	s := New(db)

	mock.ExpectQuery(`SELECT \* FROM "resumes"`).WillReturnError(connRefused())

	out, err := s.ListResumesByUser(context.Background(), 7)
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.NotNil(t, out)
}

func TestGetResume_NotFoundWhenUnavailable(t *testing.T) {
	db, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()
	s := New(db)

	mock.ExpectQuery(`SELECT \* FROM "resumes"`).WillReturnError(connRefused())

	_, err := s.GetResume(context.Background(), 3)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestCountApplications_UnavailableIsAnError(t *testing.T) {
	db, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()
	s := New(db)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "job_applications"`).WillReturnError(connRefused())

	_, err := s.CountApplicationsByUser(context.Background(), 1)
	assert.ErrorIs(t, err, apperrors.ErrStoreUnavailable)
}

func TestCountApplications(t *testing.T) {
	db, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()
	s := New(db)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "job_applications" WHERE user_id = \$1`).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	n, err := s.CountApplicationsByUser(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestCreateApplicationWithTask_WritesOutboxInSameTransaction(t *testing.T) {
	db, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()
	s := New(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "job_applications"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(10))
	mock.ExpectQuery(`INSERT INTO "delivery_tasks"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(20))
	mock.ExpectQuery(`INSERT INTO "application_events"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(30))
	mock.ExpectCommit()

	app := &models.JobApplication{UserID: 1, ResumeID: 2, JobListingID: 3, Status: models.ApplicationPending}
	require.NoError(t, s.CreateApplicationWithTask(context.Background(), app))
	assert.Equal(t, uint(10), app.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateApplicationWithTask_UniqueViolationIsDuplicate(t *testing.T) {
	db, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()
	s := New(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "job_applications"`).
		WillReturnError(&pgconn.PgError{Code: "23505", Message: "duplicate key value"})
	mock.ExpectRollback()

	err := s.CreateApplicationWithTask(context.Background(), &models.JobApplication{UserID: 1, ResumeID: 2, JobListingID: 3})
	assert.ErrorIs(t, err, apperrors.ErrDuplicateApplication)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertUser_OwnerBecomesAdmin(t *testing.T) {
	db, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()
	s := New(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "users" WHERE open_id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(`INSERT INTO "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	u, err := s.UpsertUser(context.Background(), models.User{OpenID: "owner-1", Name: "Owner"}, "owner-1")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, u.Role)
	assert.Equal(t, models.SubscriptionInactive, u.SubscriptionStatus)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteIntegration_ForeignRowIsNotFound(t *testing.T) {
	db, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()
	s := New(db)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "integrations" WHERE`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := s.DeleteIntegration(context.Background(), 1, 99)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestUpdateResume_UnavailableOnWrite(t *testing.T) {
	db, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()
	s := New(db)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "resumes" SET`).WillReturnError(connRefused())
	mock.ExpectRollback()

	err := s.UpdateResume(context.Background(), 1, map[string]interface{}{"status": models.ResumeAnalyzing})
	assert.ErrorIs(t, err, apperrors.ErrStoreUnavailable)
}

func TestSaveJobListing_EmptySourceURLStillFiltersOnIt(t *testing.T) {
	db, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()
	s := New(db)

	mock.ExpectQuery(`SELECT \* FROM "job_listings" WHERE source_url = \$1 AND title = \$2 AND company = \$3`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "job_listings"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(6))
	mock.ExpectCommit()

	l := &models.JobListing{Title: "Desenvolvedor Go", Company: "Globex"}
	require.NoError(t, s.SaveJobListing(context.Background(), l))
	assert.Equal(t, uint(6), l.ID)
	assert.Equal(t, "Globex", l.Company)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveJobListing_ExternalIDReusesStoredRow(t *testing.T) {
	db, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()
	s := New(db)

	rows := sqlmock.NewRows([]string{"id", "title", "company", "source_site", "external_id"}).
		AddRow(5, "Desenvolvedor Go", "Acme", "adzuna", "az-42")
	mock.ExpectQuery(`SELECT \* FROM "job_listings" WHERE source_site = \$1 AND external_id = \$2`).
		WillReturnRows(rows)

	l := &models.JobListing{Title: "Desenvolvedor Go (remoto)", Company: "Acme", SourceSite: "adzuna", ExternalID: "az-42"}
	require.NoError(t, s.SaveJobListing(context.Background(), l))
	assert.Equal(t, uint(5), l.ID)
	assert.Equal(t, "Desenvolvedor Go", l.Title)
	assert.NoError(t, mock.ExpectationsWereMet())
}
