// Package memstore is an in-process record store implementing the four
// repository ports. Each record is copied on the way in and out.
package memstore

import (
	"context"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Abraxas-365/prointern/pkg/kernel"
	"github.com/Abraxas-365/prointern/recruitment/application"
	"github.com/Abraxas-365/prointern/recruitment/intern"
	"github.com/Abraxas-365/prointern/recruitment/internship"
	"github.com/Abraxas-365/prointern/recruitment/interview"
)

type pairKey struct {
	intern     kernel.InternID
	internship kernel.InternshipID
}

// Store holds every record kind behind one lock
type Store struct {
	mu           sync.RWMutex
	internships  map[kernel.InternshipID]internship.Internship
	interns      map[kernel.InternID]intern.Intern
	applications map[kernel.ApplicationID]application.Application
	interviews   map[kernel.InterviewID]interview.Interview
	pairs        map[pairKey]kernel.ApplicationID
}

func New() *Store {
	return &Store{
		internships:  make(map[kernel.InternshipID]internship.Internship),
		interns:      make(map[kernel.InternID]intern.Intern),
		applications: make(map[kernel.ApplicationID]application.Application),
		interviews:   make(map[kernel.InterviewID]interview.Interview),
		pairs:        make(map[pairKey]kernel.ApplicationID),
	}
}

func (s *Store) Ping(ctx context.Context) error { return nil }

func (s *Store) Internships() *InternshipRepository   { return &InternshipRepository{s: s} }
func (s *Store) Interns() *InternRepository           { return &InternRepository{s: s} }
func (s *Store) Applications() *ApplicationRepository { return &ApplicationRepository{s: s} }
func (s *Store) Interviews() *InterviewRepository     { return &InterviewRepository{s: s} }

// ============================================================================
// Internships
// ============================================================================

type InternshipRepository struct{ s *Store }

func cloneInternship(i internship.Internship) internship.Internship {
	i.AppliedInternIDs = slices.Clone(i.AppliedInternIDs)
	return i
}

func (r *InternshipRepository) Create(ctx context.Context, i *internship.Internship) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.internships[i.ID] = cloneInternship(*i)
	return nil
}

func (r *InternshipRepository) GetByID(ctx context.Context, id kernel.InternshipID) (*internship.Internship, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	i, ok := r.s.internships[id]
	if !ok {
		return nil, internship.ErrInternshipNotFound().WithDetail("internship_id", id)
	}
	out := cloneInternship(i)
	return &out, nil
}

func (r *InternshipRepository) Update(ctx context.Context, i *internship.Internship) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	current, ok := r.s.internships[i.ID]
	if !ok {
		return internship.ErrInternshipNotFound().WithDetail("internship_id", i.ID)
	}
	updated := cloneInternship(*i)
	updated.AppliedInternIDs = current.AppliedInternIDs
	updated.CreatedAt = current.CreatedAt
	r.s.internships[i.ID] = updated
	return nil
}

func (r *InternshipRepository) Delete(ctx context.Context, id kernel.InternshipID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.internships[id]; !ok {
		return internship.ErrInternshipNotFound().WithDetail("internship_id", id)
	}
	delete(r.s.internships, id)
	return nil
}

func (r *InternshipRepository) ListByRecruiter(ctx context.Context, recruiterID kernel.RecruiterID, query string, pagination kernel.PaginationOptions) (*kernel.Paginated[internship.Internship], error) {
	pagination = pagination.Normalize()
	query = strings.ToLower(strings.TrimSpace(query))

	r.s.mu.RLock()
	matched := []internship.Internship{}
	for _, i := range r.s.internships {
		if i.OwnerRecruiterID != recruiterID {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(string(i.Title)), query) {
			continue
		}
		matched = append(matched, cloneInternship(i))
	}
	r.s.mu.RUnlock()

	sort.Slice(matched, func(a, b int) bool {
		if !matched[a].CreatedAt.Equal(matched[b].CreatedAt) {
			return matched[a].CreatedAt.After(matched[b].CreatedAt)
		}
		return matched[a].ID < matched[b].ID
	})

	total := len(matched)
	start := min(pagination.Offset(), total)
	end := min(start+pagination.PageSize, total)
	page := kernel.NewPaginated(matched[start:end], pagination.Page, pagination.PageSize, total)
	return &page, nil
}

func (r *InternshipRepository) AddApplicant(ctx context.Context, id kernel.InternshipID, internID kernel.InternID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	i, ok := r.s.internships[id]
	if !ok {
		return internship.ErrInternshipNotFound().WithDetail("internship_id", id)
	}
	if i.AddApplicant(internID) {
		r.s.internships[id] = i
	}
	return nil
}

func (r *InternshipRepository) SetApplicants(ctx context.Context, id kernel.InternshipID, internIDs []kernel.InternID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	i, ok := r.s.internships[id]
	if !ok {
		return internship.ErrInternshipNotFound().WithDetail("internship_id", id)
	}
	i.AppliedInternIDs = slices.Clone(internIDs)
	r.s.internships[id] = i
	return nil
}

// ============================================================================
// Interns
// ============================================================================

type InternRepository struct{ s *Store }

func cloneIntern(i intern.Intern) intern.Intern {
	i.AppliedInternshipIDs = slices.Clone(i.AppliedInternshipIDs)
	return i
}

func (r *InternRepository) Create(ctx context.Context, i *intern.Intern) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.interns[i.ID] = cloneIntern(*i)
	return nil
}

func (r *InternRepository) GetByID(ctx context.Context, id kernel.InternID) (*intern.Intern, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	i, ok := r.s.interns[id]
	if !ok {
		return nil, intern.ErrInternNotFound().WithDetail("intern_id", id)
	}
	out := cloneIntern(i)
	return &out, nil
}

func (r *InternRepository) UpdateProfile(ctx context.Context, i *intern.Intern) error {
	return r.mutate(i.ID, func(current *intern.Intern) {
		current.FullName = i.FullName
		current.Email = i.Email
		current.MobileNumber = i.MobileNumber
		current.ProfilePictureRef = i.ProfilePictureRef
		current.UpdatedAt = i.UpdatedAt
	})
}

func (r *InternRepository) SetCVRef(ctx context.Context, id kernel.InternID, ref kernel.FileRef) error {
	return r.mutate(id, func(current *intern.Intern) {
		current.CVRef = ref
		current.UpdatedAt = time.Now()
	})
}

func (r *InternRepository) AddAppliedInternship(ctx context.Context, id kernel.InternID, internshipID kernel.InternshipID) error {
	return r.mutate(id, func(current *intern.Intern) {
		current.MarkApplied(internshipID)
	})
}

func (r *InternRepository) SetAppliedInternships(ctx context.Context, id kernel.InternID, internshipIDs []kernel.InternshipID) error {
	return r.mutate(id, func(current *intern.Intern) {
		current.AppliedInternshipIDs = slices.Clone(internshipIDs)
	})
}

func (r *InternRepository) mutate(id kernel.InternID, fn func(*intern.Intern)) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	i, ok := r.s.interns[id]
	if !ok {
		return intern.ErrInternNotFound().WithDetail("intern_id", id)
	}
	fn(&i)
	r.s.interns[id] = i
	return nil
}

// ============================================================================
// Applications
// ============================================================================

type ApplicationRepository struct{ s *Store }

func cloneApplication(a application.Application) application.Application {
	if a.InterviewID != nil {
		id := *a.InterviewID
		a.InterviewID = &id
	}
	if a.StatusChangedAt != nil {
		at := *a.StatusChangedAt
		a.StatusChangedAt = &at
	}
	return a
}

func (r *ApplicationRepository) Create(ctx context.Context, a *application.Application) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := pairKey{intern: a.InternID, internship: a.InternshipID}
	if existing, ok := r.s.pairs[key]; ok {
		return application.ErrAlreadyApplied().
			WithDetail("internship_id", a.InternshipID).
			WithDetail("application_id", existing)
	}
	r.s.applications[a.ID] = cloneApplication(*a)
	r.s.pairs[key] = a.ID
	return nil
}

func (r *ApplicationRepository) GetByID(ctx context.Context, id kernel.ApplicationID) (*application.Application, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	a, ok := r.s.applications[id]
	if !ok {
		return nil, application.ErrApplicationNotFound().WithDetail("application_id", id)
	}
	out := cloneApplication(a)
	return &out, nil
}

func (r *ApplicationRepository) ExistsByInternAndInternship(ctx context.Context, internID kernel.InternID, internshipID kernel.InternshipID) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	_, ok := r.s.pairs[pairKey{intern: internID, internship: internshipID}]
	return ok, nil
}

func (r *ApplicationRepository) list(match func(application.Application) bool) []application.Application {
	r.s.mu.RLock()
	var out []application.Application
	for _, a := range r.s.applications {
		if match(a) {
			out = append(out, cloneApplication(a))
		}
	}
	r.s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].AppliedOn.Equal(out[j].AppliedOn) {
			return out[i].AppliedOn.After(out[j].AppliedOn)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (r *ApplicationRepository) ListByRecruiter(ctx context.Context, recruiterID kernel.RecruiterID) ([]application.Application, error) {
	return r.list(func(a application.Application) bool { return a.RecruiterID == recruiterID }), nil
}

func (r *ApplicationRepository) ListByIntern(ctx context.Context, internID kernel.InternID) ([]application.Application, error) {
	return r.list(func(a application.Application) bool { return a.InternID == internID }), nil
}

func (r *ApplicationRepository) ListByInternship(ctx context.Context, internshipID kernel.InternshipID) ([]application.Application, error) {
	return r.list(func(a application.Application) bool { return a.InternshipID == internshipID }), nil
}

func (r *ApplicationRepository) CountByInternship(ctx context.Context, internshipID kernel.InternshipID) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var n int64
	for _, a := range r.s.applications {
		if a.InternshipID == internshipID {
			n++
		}
	}
	return n, nil
}

func (r *ApplicationRepository) TransitionStatus(ctx context.Context, id kernel.ApplicationID, from, to application.Status, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.applications[id]
	if !ok {
		return application.ErrApplicationNotFound().WithDetail("application_id", id)
	}
	if a.Status != from {
		return application.ErrInvalidTransition().
			WithDetail("current_status", a.Status).
			WithDetail("target_status", to)
	}
	a.Status = to
	a.StatusChangedAt = &at
	a.UpdatedAt = at
	r.s.applications[id] = a
	return nil
}

func (r *ApplicationRepository) AttachInterview(ctx context.Context, id kernel.ApplicationID, interviewID kernel.InterviewID, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.applications[id]
	if !ok {
		return application.ErrApplicationNotFound().WithDetail("application_id", id)
	}
	if err := a.CanAttachInterview(); err != nil {
		return err
	}
	a.Status = application.StatusInReview
	a.InterviewID = &interviewID
	a.StatusChangedAt = &at
	a.UpdatedAt = at
	r.s.applications[id] = a
	return nil
}

// ============================================================================
// Interviews
// ============================================================================

type InterviewRepository struct{ s *Store }

func (r *InterviewRepository) Create(ctx context.Context, iv *interview.Interview) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.interviews[iv.ID] = *iv
	return nil
}

func (r *InterviewRepository) GetByID(ctx context.Context, id kernel.InterviewID) (*interview.Interview, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	iv, ok := r.s.interviews[id]
	if !ok {
		return nil, interview.ErrInterviewNotFound().WithDetail("interview_id", id)
	}
	return &iv, nil
}

func (r *InterviewRepository) Update(ctx context.Context, iv *interview.Interview) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	current, ok := r.s.interviews[iv.ID]
	if !ok {
		return interview.ErrInterviewNotFound().WithDetail("interview_id", iv.ID)
	}
	current.Date = iv.Date
	current.Time = iv.Time
	current.MeetingLink = iv.MeetingLink
	current.UpdatedAt = iv.UpdatedAt
	r.s.interviews[iv.ID] = current
	return nil
}

func (r *InterviewRepository) FindByApplication(ctx context.Context, applicationID kernel.ApplicationID) (*interview.Interview, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var latest *interview.Interview
	for _, iv := range r.s.interviews {
		if iv.ApplicationID != applicationID {
			continue
		}
		if latest == nil || iv.CreatedAt.After(latest.CreatedAt) {
			found := iv
			latest = &found
		}
	}
	if latest == nil {
		return nil, interview.ErrInterviewNotFound().WithDetail("application_id", applicationID)
	}
	return latest, nil
}

var (
	_ internship.Repository  = (*InternshipRepository)(nil)
	_ intern.Repository      = (*InternRepository)(nil)
	_ application.Repository = (*ApplicationRepository)(nil)
	_ interview.Repository   = (*InterviewRepository)(nil)
)
