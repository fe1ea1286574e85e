package applicationinfra

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/Abraxas-365/prointern/pkg/errx"
	"github.com/Abraxas-365/prointern/pkg/kernel"
	"github.com/Abraxas-365/prointern/recruitment/application"
	"github.com/Abraxas-365/prointern/recruitment/interview"
	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepo(t *testing.T) (*PostgresApplicationRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresApplicationRepository(sqlx.NewDb(db, "postgres")), mock
}

func applicationRow(id string, status application.Status, interviewID any) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(applicationColumns).AddRow(
		id, "j-1", "in-1", "rec-1", "Backend Intern",
		"Acme", "", string(status), interviewID, "",
		now, nil, now,
	)
}

func TestCreate_UniquePairViolation(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectExec(`INSERT INTO applications`).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "applications_intern_id_internship_id_key"})

	err := repo.Create(context.Background(), &application.Application{ID: "a-1", InternID: "in-1", InternshipID: "j-1", Status: application.StatusApplied})
	assert.True(t, errx.IsCode(err, application.CodeAlreadyApplied))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectExec(`INSERT INTO applications`).
		WithArgs("a-1", "j-1", "in-1", "rec-1", "Backend Intern", "Acme", "", "Applied", nil, "hello",
			sqlmock.AnyArg(), nil, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Create(context.Background(), &application.Application{
		ID:           "a-1",
		InternshipID: "j-1",
		InternID:     "in-1",
		RecruiterID:  "rec-1",
		JobTitle:     "Backend Intern",
		CompanyName:  "Acme",
		Status:       application.StatusApplied,
		CoverLetter:  "hello",
		AppliedOn:    time.Now(),
		UpdatedAt:    time.Now(),
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByID(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery(`SELECT .* FROM applications WHERE id = \$1`).
		WithArgs("a-1").
		WillReturnRows(applicationRow("a-1", application.StatusInReview, "iv-1"))

	app, err := repo.GetByID(context.Background(), "a-1")
	require.NoError(t, err)
	assert.Equal(t, application.StatusInReview, app.Status)
	require.NotNil(t, app.InterviewID)
	assert.Equal(t, kernel.InterviewID("iv-1"), *app.InterviewID)

	mock.ExpectQuery(`SELECT .* FROM applications`).WithArgs("gone").WillReturnError(sql.ErrNoRows)
	_, err = repo.GetByID(context.Background(), "gone")
	assert.True(t, errx.IsCode(err, application.CodeApplicationNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExistsByInternAndInternship(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("in-1", "j-1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.ExistsByInternAndInternship(context.Background(), "in-1", "j-1")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListByRecruiter_Ordered(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery(`SELECT .* FROM applications WHERE recruiter_id = \$1 ORDER BY applied_on DESC, id`).
		WithArgs("rec-1").
		WillReturnRows(applicationRow("a-1", application.StatusApplied, nil))

	apps, err := repo.ListByRecruiter(context.Background(), "rec-1")
	require.NoError(t, err)
	require.Len(t, apps, 1)
	assert.Nil(t, apps[0].InterviewID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransitionStatus(t *testing.T) {
	repo, mock := newRepo(t)
	at := time.Now()

	mock.ExpectExec(`UPDATE applications SET status = \$1, status_changed_at = \$2, updated_at = \$3 WHERE`).
		WithArgs("Accepted", at, at, "a-1", "In Review").
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.TransitionStatus(context.Background(), "a-1", application.StatusInReview, application.StatusAccepted, at))

	mock.ExpectExec(`UPDATE applications SET status`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT .* FROM applications WHERE id = \$1`).
		WithArgs("a-1").
		WillReturnRows(applicationRow("a-1", application.StatusRejected, nil))

	err := repo.TransitionStatus(context.Background(), "a-1", application.StatusApplied, application.StatusAccepted, at)
	assert.True(t, errx.IsCode(err, application.CodeInvalidTransition))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttachInterview(t *testing.T) {
	repo, mock := newRepo(t)
	at := time.Now()

	mock.ExpectExec(`UPDATE applications SET status = \$1, interview_id = \$2, status_changed_at = \$3, updated_at = \$4 WHERE id = \$5 AND interview_id IS NULL AND status = \$6`).
		WithArgs("In Review", "iv-1", at, at, "a-1", "Applied").
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.AttachInterview(context.Background(), "a-1", "iv-1", at))

	mock.ExpectExec(`UPDATE applications SET status`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT .* FROM applications`).
		WithArgs("a-1").
		WillReturnRows(applicationRow("a-1", application.StatusInReview, "iv-1"))

	err := repo.AttachInterview(context.Background(), "a-1", "iv-2", at)
	assert.True(t, errx.IsCode(err, interview.CodeAlreadyScheduled))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCountByInternship_Unavailable(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM applications`).
		WithArgs("j-1").
		WillReturnError(sql.ErrConnDone)

	_, err := repo.CountByInternship(context.Background(), "j-1")
	assert.True(t, errx.IsType(err, errx.TypeUnavailable))
	assert.NoError(t, mock.ExpectationsWereMet())
}
