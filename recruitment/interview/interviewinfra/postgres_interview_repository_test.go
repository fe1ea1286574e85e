package interviewinfra

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/Abraxas-365/prointern/pkg/errx"
	"github.com/Abraxas-365/prointern/recruitment/interview"
	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepo(t *testing.T) (*PostgresInterviewRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresInterviewRepository(sqlx.NewDb(db, "postgres")), mock
}

func TestCreateAndGet(t *testing.T) {
	repo, mock := newRepo(t)
	now := time.Now()
	iv := &interview.Interview{
		ID:            "iv-1",
		ApplicationID: "a-1",
		RecruiterID:   "rec-1",
		Date:          "2025-06-01",
		Time:          "10:00",
		MeetingLink:   "https://meet.google.com/abc",
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	mock.ExpectExec(`INSERT INTO interviews`).
		WithArgs("iv-1", "a-1", "rec-1", "2025-06-01", "10:00", "https://meet.google.com/abc", now, now).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Create(context.Background(), iv))

	mock.ExpectQuery(`SELECT .* FROM interviews WHERE id = \$1`).
		WithArgs("iv-1").
		WillReturnRows(sqlmock.NewRows(interviewColumns).
			AddRow("iv-1", "a-1", "rec-1", "2025-06-01", "10:00", "https://meet.google.com/abc", now, now))

	got, err := repo.GetByID(context.Background(), "iv-1")
	require.NoError(t, err)
	assert.Equal(t, "2025-06-01", got.Schedule().Date)
	assert.True(t, got.BelongsTo("a-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByApplication_NotFound(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery(`SELECT .* FROM interviews WHERE application_id = \$1 ORDER BY created_at DESC LIMIT 1`).
		WithArgs("a-1").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByApplication(context.Background(), "a-1")
	assert.True(t, errx.IsCode(err, interview.CodeInterviewNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdate(t *testing.T) {
	repo, mock := newRepo(t)
	now := time.Now()

	mock.ExpectExec(`UPDATE interviews SET date = \$1, time = \$2, meeting_link = \$3, updated_at = \$4 WHERE id = \$5`).
		WithArgs("2025-06-01", "14:00", "https://meet.google.com/abc", now, "iv-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Update(context.Background(), &interview.Interview{
		ID: "iv-1", Date: "2025-06-01", Time: "14:00", MeetingLink: "https://meet.google.com/abc", UpdatedAt: now,
	}))

	mock.ExpectExec(`UPDATE interviews`).WillReturnError(sql.ErrConnDone)
	err := repo.Update(context.Background(), &interview.Interview{ID: "iv-1"})
	assert.True(t, errx.IsType(err, errx.TypeUnavailable))
	assert.NoError(t, mock.ExpectationsWereMet())
}
