package internshipinfra

import (
	"context"
	"time"

	"github.com/Abraxas-365/prointern/internal/pgutil"
	"github.com/Abraxas-365/prointern/pkg/kernel"
	"github.com/Abraxas-365/prointern/recruitment/internship"
	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type PostgresInternshipRepository struct {
	db *sqlx.DB
}

func NewPostgresInternshipRepository(db *sqlx.DB) *PostgresInternshipRepository {
	return &PostgresInternshipRepository{db: db}
}

// ============================================================================
// Database Models
// ============================================================================

var internshipColumns = []string{
	"id", "title", "company_name", "job_type", "location", "category",
	"qualifications", "salary", "description", "logo_ref",
	"owner_recruiter_id", "applied_intern_ids", "created_at", "updated_at",
}

type internshipModel struct {
	ID               string         `db:"id"`
	Title            string         `db:"title"`
	CompanyName      string         `db:"company_name"`
	JobType          string         `db:"job_type"`
	Location         string         `db:"location"`
	Category         string         `db:"category"`
	Qualifications   string         `db:"qualifications"`
	Salary           string         `db:"salary"`
	Description      string         `db:"description"`
	LogoRef          string         `db:"logo_ref"`
	OwnerRecruiterID string         `db:"owner_recruiter_id"`
	AppliedInternIDs pq.StringArray `db:"applied_intern_ids"`
	CreatedAt        time.Time      `db:"created_at"`
	UpdatedAt        time.Time      `db:"updated_at"`
}

func (m *internshipModel) toEntity() *internship.Internship {
	applied := make([]kernel.InternID, 0, len(m.AppliedInternIDs))
	for _, id := range m.AppliedInternIDs {
		applied = append(applied, kernel.InternID(id))
	}
	return &internship.Internship{
		ID:               kernel.InternshipID(m.ID),
		Title:            kernel.JobTitle(m.Title),
		CompanyName:      kernel.CompanyName(m.CompanyName),
		JobType:          kernel.JobType(m.JobType),
		Location:         m.Location,
		Category:         m.Category,
		Qualifications:   m.Qualifications,
		Salary:           m.Salary,
		Description:      m.Description,
		LogoRef:          kernel.FileRef(m.LogoRef),
		OwnerRecruiterID: kernel.RecruiterID(m.OwnerRecruiterID),
		AppliedInternIDs: applied,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

func internIDArray(ids []kernel.InternID) pq.StringArray {
	out := make(pq.StringArray, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	return out
}

// ============================================================================
// Repository Implementation
// ============================================================================

func (r *PostgresInternshipRepository) Create(ctx context.Context, i *internship.Internship) error {
	query, args, err := pgutil.Psql.Insert("internships").
		Columns(internshipColumns...).
		Values(
			i.ID.String(), string(i.Title), string(i.CompanyName), string(i.JobType),
			i.Location, i.Category, i.Qualifications, i.Salary, i.Description,
			i.LogoRef.String(), i.OwnerRecruiterID.String(), internIDArray(i.AppliedInternIDs),
			i.CreatedAt, i.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return pgutil.Unavailable(err, "build internship insert")
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return pgutil.Unavailable(err, "create internship")
	}
	return nil
}

func (r *PostgresInternshipRepository) GetByID(ctx context.Context, id kernel.InternshipID) (*internship.Internship, error) {
	query, args, err := pgutil.Psql.Select(internshipColumns...).
		From("internships").
		Where(sq.Eq{"id": id.String()}).
		ToSql()
	if err != nil {
		return nil, pgutil.Unavailable(err, "build internship select")
	}

	var model internshipModel
	if err := r.db.GetContext(ctx, &model, query, args...); err != nil {
		if pgutil.IsNoRows(err) {
			return nil, internship.ErrInternshipNotFound().WithDetail("internship_id", id)
		}
		return nil, pgutil.Unavailable(err, "load internship")
	}
	return model.toEntity(), nil
}

// Update writes the posting fields. The applicant mirror is left alone.
func (r *PostgresInternshipRepository) Update(ctx context.Context, i *internship.Internship) error {
	query, args, err := pgutil.Psql.Update("internships").
		SetMap(map[string]any{
			"title":          string(i.Title),
			"company_name":   string(i.CompanyName),
			"job_type":       string(i.JobType),
			"location":       i.Location,
			"category":       i.Category,
			"qualifications": i.Qualifications,
			"salary":         i.Salary,
			"description":    i.Description,
			"logo_ref":       i.LogoRef.String(),
			"updated_at":     i.UpdatedAt,
		}).
		Where(sq.Eq{"id": i.ID.String()}).
		ToSql()
	if err != nil {
		return pgutil.Unavailable(err, "build internship update")
	}
	return r.exec(ctx, i.ID, "update internship", query, args)
}

func (r *PostgresInternshipRepository) Delete(ctx context.Context, id kernel.InternshipID) error {
	query, args, err := pgutil.Psql.Delete("internships").Where(sq.Eq{"id": id.String()}).ToSql()
	if err != nil {
		return pgutil.Unavailable(err, "build internship delete")
	}
	return r.exec(ctx, id, "delete internship", query, args)
}

func (r *PostgresInternshipRepository) ListByRecruiter(ctx context.Context, recruiterID kernel.RecruiterID, search string, pagination kernel.PaginationOptions) (*kernel.Paginated[internship.Internship], error) {
	pagination = pagination.Normalize()

	where := sq.And{sq.Eq{"owner_recruiter_id": recruiterID.String()}}
	if search != "" {
		where = append(where, sq.ILike{"title": "%" + search + "%"})
	}

	countQuery, countArgs, err := pgutil.Psql.Select("COUNT(*)").From("internships").Where(where).ToSql()
	if err != nil {
		return nil, pgutil.Unavailable(err, "build internship count")
	}
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, countArgs...); err != nil {
		return nil, pgutil.Unavailable(err, "count internships")
	}

	query, args, err := pgutil.Psql.Select(internshipColumns...).
		From("internships").
		Where(where).
		OrderBy("created_at DESC", "id").
		Limit(uint64(pagination.PageSize)).
		Offset(uint64(pagination.Offset())).
		ToSql()
	if err != nil {
		return nil, pgutil.Unavailable(err, "build internship list")
	}

	var models []internshipModel
	if err := r.db.SelectContext(ctx, &models, query, args...); err != nil {
		return nil, pgutil.Unavailable(err, "list internships")
	}

	items := make([]internship.Internship, 0, len(models))
	for _, m := range models {
		items = append(items, *m.toEntity())
	}
	page := kernel.NewPaginated(items, pagination.Page, pagination.PageSize, total)
	return &page, nil
}

// AddApplicant appends internID to the mirror unless it is already there
func (r *PostgresInternshipRepository) AddApplicant(ctx context.Context, id kernel.InternshipID, internID kernel.InternID) error {
	query, args, err := pgutil.Psql.Update("internships").
		Set("applied_intern_ids", sq.Expr(
			"CASE WHEN ? = ANY(applied_intern_ids) THEN applied_intern_ids ELSE array_append(applied_intern_ids, ?) END",
			internID.String(), internID.String(),
		)).
		Where(sq.Eq{"id": id.String()}).
		ToSql()
	if err != nil {
		return pgutil.Unavailable(err, "build applicant append")
	}
	return r.exec(ctx, id, "add applicant", query, args)
}

func (r *PostgresInternshipRepository) SetApplicants(ctx context.Context, id kernel.InternshipID, internIDs []kernel.InternID) error {
	query, args, err := pgutil.Psql.Update("internships").
		Set("applied_intern_ids", internIDArray(internIDs)).
		Where(sq.Eq{"id": id.String()}).
		ToSql()
	if err != nil {
		return pgutil.Unavailable(err, "build applicant reset")
	}
	return r.exec(ctx, id, "set applicants", query, args)
}

func (r *PostgresInternshipRepository) exec(ctx context.Context, id kernel.InternshipID, op, query string, args []any) error {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return pgutil.Unavailable(err, op)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return pgutil.Unavailable(err, op)
	}
	if rows == 0 {
		return internship.ErrInternshipNotFound().WithDetail("internship_id", id)
	}
	return nil
}

var _ internship.Repository = (*PostgresInternshipRepository)(nil)
