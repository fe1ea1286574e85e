package interviewinfra

import (
	"context"

	"github.com/Abraxas-365/prointern/internal/pgutil"
	"github.com/Abraxas-365/prointern/pkg/kernel"
	"github.com/Abraxas-365/prointern/recruitment/interview"
	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

type PostgresInterviewRepository struct {
	db *sqlx.DB
}

func NewPostgresInterviewRepository(db *sqlx.DB) *PostgresInterviewRepository {
	return &PostgresInterviewRepository{db: db}
}

var interviewColumns = []string{
	"id", "application_id", "recruiter_id", "date", "time",
	"meeting_link", "created_at", "updated_at",
}

func (r *PostgresInterviewRepository) Create(ctx context.Context, iv *interview.Interview) error {
	query := `
		INSERT INTO interviews (
			id, application_id, recruiter_id, date, time, meeting_link, created_at, updated_at
		) VALUES (
			:id, :application_id, :recruiter_id, :date, :time, :meeting_link, :created_at, :updated_at
		)
	`
	if _, err := r.db.NamedExecContext(ctx, query, iv); err != nil {
		return pgutil.Unavailable(err, "create interview")
	}
	return nil
}

func (r *PostgresInterviewRepository) GetByID(ctx context.Context, id kernel.InterviewID) (*interview.Interview, error) {
	return r.getOne(ctx, pgutil.Psql.Select(interviewColumns...).
		From("interviews").
		Where(sq.Eq{"id": id.String()}),
		func() error { return interview.ErrInterviewNotFound().WithDetail("interview_id", id) },
	)
}

// FindByApplication returns the most recently created interview for the application
func (r *PostgresInterviewRepository) FindByApplication(ctx context.Context, applicationID kernel.ApplicationID) (*interview.Interview, error) {
	return r.getOne(ctx, pgutil.Psql.Select(interviewColumns...).
		From("interviews").
		Where(sq.Eq{"application_id": applicationID.String()}).
		OrderBy("created_at DESC").
		Limit(1),
		func() error { return interview.ErrInterviewNotFound().WithDetail("application_id", applicationID) },
	)
}

func (r *PostgresInterviewRepository) getOne(ctx context.Context, builder sq.SelectBuilder, notFound func() error) (*interview.Interview, error) {
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, pgutil.Unavailable(err, "build interview select")
	}

	var iv interview.Interview
	if err := r.db.GetContext(ctx, &iv, query, args...); err != nil {
		if pgutil.IsNoRows(err) {
			return nil, notFound()
		}
		return nil, pgutil.Unavailable(err, "load interview")
	}
	return &iv, nil
}

// Update overwrites the scheduling fields in place
func (r *PostgresInterviewRepository) Update(ctx context.Context, iv *interview.Interview) error {
	query, args, err := pgutil.Psql.Update("interviews").
		Set("date", iv.Date).
		Set("time", iv.Time).
		Set("meeting_link", iv.MeetingLink).
		Set("updated_at", iv.UpdatedAt).
		Where(sq.Eq{"id": iv.ID.String()}).
		ToSql()
	if err != nil {
		return pgutil.Unavailable(err, "build interview update")
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return pgutil.Unavailable(err, "update interview")
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return pgutil.Unavailable(err, "update interview")
	}
	if rows == 0 {
		return interview.ErrInterviewNotFound().WithDetail("interview_id", iv.ID)
	}
	return nil
}

var _ interview.Repository = (*PostgresInterviewRepository)(nil)
