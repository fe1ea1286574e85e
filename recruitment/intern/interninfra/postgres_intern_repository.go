package interninfra

import (
	"context"
	"time"

	"github.com/Abraxas-365/prointern/internal/pgutil"
	"github.com/Abraxas-365/prointern/pkg/kernel"
	"github.com/Abraxas-365/prointern/recruitment/intern"
	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type PostgresInternRepository struct {
	db *sqlx.DB
}

func NewPostgresInternRepository(db *sqlx.DB) *PostgresInternRepository {
	return &PostgresInternRepository{db: db}
}

var internColumns = []string{
	"id", "full_name", "email", "mobile_number", "cv_ref", "profile_picture_ref",
	"applied_internship_ids", "created_at", "updated_at",
}

type internModel struct {
	ID                   string         `db:"id"`
	FullName             string         `db:"full_name"`
	Email                string         `db:"email"`
	MobileNumber         string         `db:"mobile_number"`
	CVRef                string         `db:"cv_ref"`
	ProfilePictureRef    string         `db:"profile_picture_ref"`
	AppliedInternshipIDs pq.StringArray `db:"applied_internship_ids"`
	CreatedAt            time.Time      `db:"created_at"`
	UpdatedAt            time.Time      `db:"updated_at"`
}

func (m *internModel) toEntity() *intern.Intern {
	applied := make([]kernel.InternshipID, 0, len(m.AppliedInternshipIDs))
	for _, id := range m.AppliedInternshipIDs {
		applied = append(applied, kernel.InternshipID(id))
	}
	return &intern.Intern{
		ID:                   kernel.InternID(m.ID),
		FullName:             m.FullName,
		Email:                kernel.Email(m.Email),
		MobileNumber:         m.MobileNumber,
		CVRef:                kernel.FileRef(m.CVRef),
		ProfilePictureRef:    kernel.FileRef(m.ProfilePictureRef),
		AppliedInternshipIDs: applied,
		CreatedAt:            m.CreatedAt,
		UpdatedAt:            m.UpdatedAt,
	}
}

func internshipIDArray(ids []kernel.InternshipID) pq.StringArray {
	out := make(pq.StringArray, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	return out
}

func (r *PostgresInternRepository) Create(ctx context.Context, i *intern.Intern) error {
	query, args, err := pgutil.Psql.Insert("interns").
		Columns(internColumns...).
		Values(
			i.ID.String(), i.FullName, string(i.Email), i.MobileNumber,
			i.CVRef.String(), i.ProfilePictureRef.String(),
			internshipIDArray(i.AppliedInternshipIDs), i.CreatedAt, i.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return pgutil.Unavailable(err, "build intern insert")
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if pgutil.IsUniqueViolation(err) {
			return intern.ErrInvalidRequest().WithDetail("intern_id", i.ID).WithDetail("error", "profile already exists")
		}
		return pgutil.Unavailable(err, "create intern")
	}
	return nil
}

func (r *PostgresInternRepository) GetByID(ctx context.Context, id kernel.InternID) (*intern.Intern, error) {
	query, args, err := pgutil.Psql.Select(internColumns...).
		From("interns").
		Where(sq.Eq{"id": id.String()}).
		ToSql()
	if err != nil {
		return nil, pgutil.Unavailable(err, "build intern select")
	}

	var model internModel
	if err := r.db.GetContext(ctx, &model, query, args...); err != nil {
		if pgutil.IsNoRows(err) {
			return nil, intern.ErrInternNotFound().WithDetail("intern_id", id)
		}
		return nil, pgutil.Unavailable(err, "load intern")
	}
	return model.toEntity(), nil
}

// UpdateProfile writes the contact fields and picture. CV and mirror are untouched.
func (r *PostgresInternRepository) UpdateProfile(ctx context.Context, i *intern.Intern) error {
	return r.update(ctx, i.ID, "update intern profile", map[string]any{
		"full_name":           i.FullName,
		"email":               string(i.Email),
		"mobile_number":       i.MobileNumber,
		"profile_picture_ref": i.ProfilePictureRef.String(),
		"updated_at":          i.UpdatedAt,
	})
}

func (r *PostgresInternRepository) SetCVRef(ctx context.Context, id kernel.InternID, ref kernel.FileRef) error {
	return r.update(ctx, id, "set intern cv", map[string]any{
		"cv_ref":     ref.String(),
		"updated_at": time.Now(),
	})
}

func (r *PostgresInternRepository) AddAppliedInternship(ctx context.Context, id kernel.InternID, internshipID kernel.InternshipID) error {
	return r.update(ctx, id, "add applied internship", map[string]any{
		"applied_internship_ids": sq.Expr(
			"CASE WHEN ? = ANY(applied_internship_ids) THEN applied_internship_ids ELSE array_append(applied_internship_ids, ?) END",
			internshipID.String(), internshipID.String(),
		),
	})
}

func (r *PostgresInternRepository) SetAppliedInternships(ctx context.Context, id kernel.InternID, internshipIDs []kernel.InternshipID) error {
	return r.update(ctx, id, "set applied internships", map[string]any{
		"applied_internship_ids": internshipIDArray(internshipIDs),
	})
}

func (r *PostgresInternRepository) update(ctx context.Context, id kernel.InternID, op string, set map[string]any) error {
	query, args, err := pgutil.Psql.Update("interns").
		SetMap(set).
		Where(sq.Eq{"id": id.String()}).
		ToSql()
	if err != nil {
		return pgutil.Unavailable(err, "build "+op)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return pgutil.Unavailable(err, op)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return pgutil.Unavailable(err, op)
	}
	if rows == 0 {
		return intern.ErrInternNotFound().WithDetail("intern_id", id)
	}
	return nil
}

var _ intern.Repository = (*PostgresInternRepository)(nil)
