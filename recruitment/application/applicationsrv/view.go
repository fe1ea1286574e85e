package applicationsrv

import (
	"context"
	"sort"
	"sync"

	"github.com/Abraxas-365/prointern/internal/metrics"
	"github.com/Abraxas-365/prointern/pkg/errx"
	"github.com/Abraxas-365/prointern/pkg/kernel"
	"github.com/Abraxas-365/prointern/pkg/logx"
	"github.com/Abraxas-365/prointern/recruitment/application"
	"github.com/Abraxas-365/prointern/recruitment/intern"
	"github.com/Abraxas-365/prointern/recruitment/internship"
	"github.com/Abraxas-365/prointern/recruitment/interview"
	"github.com/Abraxas-365/prointern/recruitment/reconcile"
	"golang.org/x/sync/errgroup"
)

// lookups holds the records referenced by a page of applications. A missing
// entry means the record was not found or could not be read.
type lookups struct {
	mu          sync.Mutex
	internships map[kernel.InternshipID]*internship.Internship
	interns     map[kernel.InternID]*intern.Intern
	interviews  map[kernel.InterviewID]*interview.Interview
}

// assemble merges each application with its internship, intern and, when
// withInterview is set, interview. Lookups run concurrently, each failing
// soft; only cancellation fails the whole list.
func (s *ApplicationService) assemble(ctx context.Context, apps []application.Application, withInterview bool) ([]application.ApplicationView, error) {
	sort.SliceStable(apps, func(i, j int) bool {
		if !apps[i].AppliedOn.Equal(apps[j].AppliedOn) {
			return apps[i].AppliedOn.After(apps[j].AppliedOn)
		}
		return apps[i].ID < apps[j].ID
	})

	found, err := s.prefetch(ctx, apps, withInterview)
	if err != nil {
		return nil, err
	}

	views := make([]application.ApplicationView, 0, len(apps))
	var stale []kernel.ApplicationID
	for i := range apps {
		app := &apps[i]
		view := application.ApplicationView{
			ApplicationID:   app.ID,
			InternshipID:    app.InternshipID,
			InternID:        app.InternID,
			Status:          app.Status,
			InternshipTitle: app.JobTitle,
			CompanyName:     app.CompanyName,
			LogoRef:         app.LogoRef,
			AppliedOn:       app.AppliedOn,
			InterviewID:     app.InterviewID,
		}

		mirrorsStale := false
		if posting := found.internships[app.InternshipID]; posting != nil {
			view.JobType = posting.JobType
			mirrorsStale = !posting.HasApplicant(app.InternID)
		}
		if applicant := found.interns[app.InternID]; applicant != nil {
			view.InternName = applicant.FullName
			view.InternProfilePictureRef = applicant.ProfilePictureRef
			view.InternCVRef = applicant.CVRef
			mirrorsStale = mirrorsStale || !applicant.HasAppliedTo(app.InternshipID)
		}
		if withInterview && app.Status == application.StatusInReview && app.HasInterview() {
			if iv := found.interviews[*app.InterviewID]; iv != nil && iv.BelongsTo(app.ID) {
				schedule := iv.Schedule()
				view.Interview = &schedule
			}
		}

		if mirrorsStale {
			stale = append(stale, app.ID)
		}
		views = append(views, view)
	}

	for _, id := range stale {
		s.enqueueRepair(ctx, reconcile.NewMirrorsJob(id))
	}
	return views, nil
}

func (s *ApplicationService) prefetch(ctx context.Context, apps []application.Application, withInterview bool) (*lookups, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	found := &lookups{
		internships: make(map[kernel.InternshipID]*internship.Internship),
		interns:     make(map[kernel.InternID]*intern.Intern),
		interviews:  make(map[kernel.InterviewID]*interview.Interview),
	}

	internshipIDs := make(map[kernel.InternshipID]struct{})
	internIDs := make(map[kernel.InternID]struct{})
	interviewIDs := make(map[kernel.InterviewID]struct{})
	for _, app := range apps {
		internshipIDs[app.InternshipID] = struct{}{}
		internIDs[app.InternID] = struct{}{}
		if withInterview && app.Status == application.StatusInReview && app.HasInterview() {
			interviewIDs[*app.InterviewID] = struct{}{}
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.fanOut)

	for id := range internshipIDs {
		id := id
		g.Go(func() error {
			posting, err := s.internshipRepo.GetByID(gctx, id)
			if err := softFail(gctx, err, "internship", id.String()); err != nil {
				return err
			}
			found.mu.Lock()
			found.internships[id] = posting
			found.mu.Unlock()
			return nil
		})
	}
	for id := range internIDs {
		id := id
		g.Go(func() error {
			applicant, err := s.internRepo.GetByID(gctx, id)
			if err := softFail(gctx, err, "intern", id.String()); err != nil {
				return err
			}
			found.mu.Lock()
			found.interns[id] = applicant
			found.mu.Unlock()
			return nil
		})
	}
	for id := range interviewIDs {
		id := id
		g.Go(func() error {
			iv, err := s.interviewRepo.GetByID(gctx, id)
			if err := softFail(gctx, err, "interview", id.String()); err != nil {
				return err
			}
			found.mu.Lock()
			found.interviews[id] = iv
			found.mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return found, nil
}

// softFail turns a lookup error into a missing record. It only returns an
// error when ctx is done.
func softFail(ctx context.Context, err error, kind, id string) error {
	if err == nil {
		return nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}

	metrics.ViewAssemblyMisses.WithLabelValues(kind).Inc()
	if !errx.IsType(err, errx.TypeNotFound) {
		logx.With(map[string]any{"kind": kind, "id": id}).WithError(err).Warn("lookup failed while assembling applications")
	}
	return nil
}
