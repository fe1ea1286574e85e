package applicationinfra

import (
	"context"
	"time"

	"github.com/Abraxas-365/prointern/internal/pgutil"
	"github.com/Abraxas-365/prointern/pkg/kernel"
	"github.com/Abraxas-365/prointern/recruitment/application"
	"github.com/Abraxas-365/prointern/recruitment/interview"
	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

// PostgresApplicationRepository implements application.Repository using PostgreSQL.
// The applications table carries UNIQUE (intern_id, internship_id).
type PostgresApplicationRepository struct {
	db *sqlx.DB
}

func NewPostgresApplicationRepository(db *sqlx.DB) *PostgresApplicationRepository {
	return &PostgresApplicationRepository{db: db}
}

// ============================================================================
// Database Models
// ============================================================================

var applicationColumns = []string{
	"id", "internship_id", "intern_id", "recruiter_id", "job_title",
	"company_name", "logo_ref", "status", "interview_id", "cover_letter",
	"applied_on", "status_changed_at", "updated_at",
}

type applicationModel struct {
	ID              string     `db:"id"`
	InternshipID    string     `db:"internship_id"`
	InternID        string     `db:"intern_id"`
	RecruiterID     string     `db:"recruiter_id"`
	JobTitle        string     `db:"job_title"`
	CompanyName     string     `db:"company_name"`
	LogoRef         string     `db:"logo_ref"`
	Status          string     `db:"status"`
	InterviewID     *string    `db:"interview_id"`
	CoverLetter     string     `db:"cover_letter"`
	AppliedOn       time.Time  `db:"applied_on"`
	StatusChangedAt *time.Time `db:"status_changed_at"`
	UpdatedAt       time.Time  `db:"updated_at"`
}

func (m *applicationModel) toEntity() *application.Application {
	var interviewID *kernel.InterviewID
	if m.InterviewID != nil {
		id := kernel.InterviewID(*m.InterviewID)
		interviewID = &id
	}

	return &application.Application{
		ID:              kernel.ApplicationID(m.ID),
		InternshipID:    kernel.InternshipID(m.InternshipID),
		InternID:        kernel.InternID(m.InternID),
		RecruiterID:     kernel.RecruiterID(m.RecruiterID),
		JobTitle:        kernel.JobTitle(m.JobTitle),
		CompanyName:     kernel.CompanyName(m.CompanyName),
		LogoRef:         kernel.FileRef(m.LogoRef),
		Status:          application.Status(m.Status),
		InterviewID:     interviewID,
		CoverLetter:     m.CoverLetter,
		AppliedOn:       m.AppliedOn,
		StatusChangedAt: m.StatusChangedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

func fromEntity(app *application.Application) *applicationModel {
	var interviewID *string
	if app.InterviewID != nil {
		id := app.InterviewID.String()
		interviewID = &id
	}

	return &applicationModel{
		ID:              app.ID.String(),
		InternshipID:    app.InternshipID.String(),
		InternID:        app.InternID.String(),
		RecruiterID:     app.RecruiterID.String(),
		JobTitle:        string(app.JobTitle),
		CompanyName:     string(app.CompanyName),
		LogoRef:         app.LogoRef.String(),
		Status:          app.Status.String(),
		InterviewID:     interviewID,
		CoverLetter:     app.CoverLetter,
		AppliedOn:       app.AppliedOn,
		StatusChangedAt: app.StatusChangedAt,
		UpdatedAt:       app.UpdatedAt,
	}
}

// ============================================================================
// Repository Implementation
// ============================================================================

func (r *PostgresApplicationRepository) Create(ctx context.Context, app *application.Application) error {
	query := `
		INSERT INTO applications (
			id, internship_id, intern_id, recruiter_id, job_title,
			company_name, logo_ref, status, interview_id, cover_letter,
			applied_on, status_changed_at, updated_at
		) VALUES (
			:id, :internship_id, :intern_id, :recruiter_id, :job_title,
			:company_name, :logo_ref, :status, :interview_id, :cover_letter,
			:applied_on, :status_changed_at, :updated_at
		)
	`

	if _, err := r.db.NamedExecContext(ctx, query, fromEntity(app)); err != nil {
		if pgutil.IsUniqueViolation(err) {
			return application.ErrAlreadyApplied().WithDetail("internship_id", app.InternshipID)
		}
		return pgutil.Unavailable(err, "create application")
	}
	return nil
}

func (r *PostgresApplicationRepository) GetByID(ctx context.Context, id kernel.ApplicationID) (*application.Application, error) {
	query, args, err := pgutil.Psql.Select(applicationColumns...).
		From("applications").
		Where(sq.Eq{"id": id.String()}).
		ToSql()
	if err != nil {
		return nil, pgutil.Unavailable(err, "build application select")
	}

	var model applicationModel
	if err := r.db.GetContext(ctx, &model, query, args...); err != nil {
		if pgutil.IsNoRows(err) {
			return nil, application.ErrApplicationNotFound().WithDetail("application_id", id)
		}
		return nil, pgutil.Unavailable(err, "load application")
	}
	return model.toEntity(), nil
}

func (r *PostgresApplicationRepository) ExistsByInternAndInternship(ctx context.Context, internID kernel.InternID, internshipID kernel.InternshipID) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM applications WHERE intern_id = $1 AND internship_id = $2)`

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, internID.String(), internshipID.String()); err != nil {
		return false, pgutil.Unavailable(err, "check existing application")
	}
	return exists, nil
}

func (r *PostgresApplicationRepository) list(ctx context.Context, where sq.Eq) ([]application.Application, error) {
	query, args, err := pgutil.Psql.Select(applicationColumns...).
		From("applications").
		Where(where).
		OrderBy("applied_on DESC", "id").
		ToSql()
	if err != nil {
		return nil, pgutil.Unavailable(err, "build application list")
	}

	var models []applicationModel
	if err := r.db.SelectContext(ctx, &models, query, args...); err != nil {
		return nil, pgutil.Unavailable(err, "list applications")
	}

	apps := make([]application.Application, 0, len(models))
	for _, m := range models {
		apps = append(apps, *m.toEntity())
	}
	return apps, nil
}

func (r *PostgresApplicationRepository) ListByRecruiter(ctx context.Context, recruiterID kernel.RecruiterID) ([]application.Application, error) {
	return r.list(ctx, sq.Eq{"recruiter_id": recruiterID.String()})
}

func (r *PostgresApplicationRepository) ListByIntern(ctx context.Context, internID kernel.InternID) ([]application.Application, error) {
	return r.list(ctx, sq.Eq{"intern_id": internID.String()})
}

func (r *PostgresApplicationRepository) ListByInternship(ctx context.Context, internshipID kernel.InternshipID) ([]application.Application, error) {
	return r.list(ctx, sq.Eq{"internship_id": internshipID.String()})
}

func (r *PostgresApplicationRepository) CountByInternship(ctx context.Context, internshipID kernel.InternshipID) (int64, error) {
	var count int64
	query := `SELECT COUNT(*) FROM applications WHERE internship_id = $1`
	if err := r.db.GetContext(ctx, &count, query, internshipID.String()); err != nil {
		return 0, pgutil.Unavailable(err, "count applications")
	}
	return count, nil
}

// TransitionStatus is a compare-and-set on status
func (r *PostgresApplicationRepository) TransitionStatus(ctx context.Context, id kernel.ApplicationID, from, to application.Status, at time.Time) error {
	query, args, err := pgutil.Psql.Update("applications").
		Set("status", to.String()).
		Set("status_changed_at", at).
		Set("updated_at", at).
		Where(sq.Eq{"id": id.String(), "status": from.String()}).
		ToSql()
	if err != nil {
		return pgutil.Unavailable(err, "build status update")
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return pgutil.Unavailable(err, "update application status")
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return pgutil.Unavailable(err, "update application status")
	}
	if rows > 0 {
		return nil
	}
	return r.explainMiss(ctx, id, to)
}

// AttachInterview sets the interview only while the application is Applied
// without one
func (r *PostgresApplicationRepository) AttachInterview(ctx context.Context, id kernel.ApplicationID, interviewID kernel.InterviewID, at time.Time) error {
	query, args, err := pgutil.Psql.Update("applications").
		Set("status", application.StatusInReview.String()).
		Set("interview_id", interviewID.String()).
		Set("status_changed_at", at).
		Set("updated_at", at).
		Where(sq.Eq{"id": id.String(), "status": application.StatusApplied.String(), "interview_id": nil}).
		ToSql()
	if err != nil {
		return pgutil.Unavailable(err, "build interview attach")
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return pgutil.Unavailable(err, "attach interview")
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return pgutil.Unavailable(err, "attach interview")
	}
	if rows > 0 {
		return nil
	}

	current, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := current.CanAttachInterview(); err != nil {
		return err
	}
	return interview.ErrAlreadyScheduled().WithDetail("application_id", id)
}

// explainMiss turns a guarded update that touched no row into the error the
// caller should see
func (r *PostgresApplicationRepository) explainMiss(ctx context.Context, id kernel.ApplicationID, to application.Status) error {
	current, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return application.ErrInvalidTransition().
		WithDetail("current_status", current.Status).
		WithDetail("target_status", to)
}

var _ application.Repository = (*PostgresApplicationRepository)(nil)
