package reconcilesrv

import (
	"context"
	"testing"
	"time"

	"github.com/Abraxas-365/prointern/internal/memstore"
	"github.com/Abraxas-365/prointern/pkg/errx"
	"github.com/Abraxas-365/prointern/pkg/kernel"
	"github.com/Abraxas-365/prointern/recruitment/application"
	"github.com/Abraxas-365/prointern/recruitment/intern"
	"github.com/Abraxas-365/prointern/recruitment/internship"
	"github.com/Abraxas-365/prointern/recruitment/interview"
	"github.com/Abraxas-365/prointern/recruitment/reconcile"
	"github.com/Abraxas-365/prointern/recruitment/reconcile/reconcileinfra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	store *memstore.Store
	queue *reconcileinfra.MemoryQueue
	svc   *Service
}

func newFixture(t *testing.T, interns intern.Repository) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memstore.New()
	queue := reconcileinfra.NewMemoryQueue(8)
	if interns == nil {
		interns = store.Interns()
	}

	require.NoError(t, store.Internships().Create(ctx, &internship.Internship{ID: "j-1", Title: "Backend Intern", OwnerRecruiterID: "rec-1"}))
	require.NoError(t, store.Internships().Create(ctx, &internship.Internship{ID: "j-2", Title: "Data Intern", OwnerRecruiterID: "rec-1"}))
	require.NoError(t, store.Interns().Create(ctx, &intern.Intern{ID: "in-1", FullName: "Ana Torres"}))
	for _, id := range []kernel.InternshipID{"j-1", "j-2"} {
		require.NoError(t, store.Applications().Create(ctx, &application.Application{
			ID:           kernel.ApplicationID("a-" + id.String()),
			InternshipID: id,
			InternID:     "in-1",
			RecruiterID:  "rec-1",
			Status:       application.StatusApplied,
			AppliedOn:    time.Now(),
		}))
	}

	svc := NewService(store.Applications(), store.Internships(), interns, store.Interviews(), queue, Config{MaxAttempts: 2, RetryDelay: time.Minute})
	return &fixture{store: store, queue: queue, svc: svc}
}

type brokenInterns struct {
	intern.Repository
}

func (brokenInterns) AddAppliedInternship(ctx context.Context, id kernel.InternID, internshipID kernel.InternshipID) error {
	return errx.New("store offline", errx.TypeUnavailable)
}

func TestRepairApplication_Idempotent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	for i := 0; i < 2; i++ {
		require.NoError(t, f.svc.RepairApplication(ctx, "a-j-1"))
	}

	applicant, err := f.store.Interns().GetByID(ctx, "in-1")
	require.NoError(t, err)
	assert.Equal(t, []kernel.InternshipID{"j-1"}, applicant.AppliedInternshipIDs)

	posting, err := f.store.Internships().GetByID(ctx, "j-1")
	require.NoError(t, err)
	assert.Equal(t, []kernel.InternID{"in-1"}, posting.AppliedInternIDs)
}

func TestRepairApplication_SkipsDeletedInternship(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	require.NoError(t, f.store.Internships().Delete(ctx, "j-1"))

	require.NoError(t, f.svc.RepairApplication(ctx, "a-j-1"))

	applicant, err := f.store.Interns().GetByID(ctx, "in-1")
	require.NoError(t, err)
	assert.True(t, applicant.HasAppliedTo("j-1"))
}

func TestRebuildMirrors(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	require.NoError(t, f.store.Interns().SetAppliedInternships(ctx, "in-1", []kernel.InternshipID{"stale"}))

	require.NoError(t, f.svc.RebuildInternMirror(ctx, "in-1"))
	applicant, err := f.store.Interns().GetByID(ctx, "in-1")
	require.NoError(t, err)
	assert.ElementsMatch(t, []kernel.InternshipID{"j-1", "j-2"}, applicant.AppliedInternshipIDs)

	require.NoError(t, f.svc.RebuildInternshipMirror(ctx, "j-2"))
	posting, err := f.store.Internships().GetByID(ctx, "j-2")
	require.NoError(t, err)
	assert.Equal(t, []kernel.InternID{"in-1"}, posting.AppliedInternIDs)
}

func TestProcess_RebuildMirrorsDropsStaleEntries(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	require.NoError(t, f.store.Interns().SetAppliedInternships(ctx, "in-1", []kernel.InternshipID{"stale"}))
	require.NoError(t, f.store.Internships().SetApplicants(ctx, "j-1", []kernel.InternID{"in-9"}))

	require.NoError(t, f.svc.Process(ctx, reconcile.NewRebuildMirrorsJob("a-j-1")))

	applicant, err := f.store.Interns().GetByID(ctx, "in-1")
	require.NoError(t, err)
	assert.ElementsMatch(t, []kernel.InternshipID{"j-1", "j-2"}, applicant.AppliedInternshipIDs)

	posting, err := f.store.Internships().GetByID(ctx, "j-1")
	require.NoError(t, err)
	assert.Equal(t, []kernel.InternID{"in-1"}, posting.AppliedInternIDs)
}

func TestLinkInterview(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	require.NoError(t, f.store.Interviews().Create(ctx, &interview.Interview{ID: "iv-1", ApplicationID: "a-j-1", RecruiterID: "rec-1", CreatedAt: time.Now()}))
	require.NoError(t, f.store.Interviews().Create(ctx, &interview.Interview{ID: "iv-other", ApplicationID: "a-j-2", RecruiterID: "rec-1", CreatedAt: time.Now()}))

	require.NoError(t, f.svc.LinkInterview(ctx, "a-j-1", "iv-other"))
	app, err := f.store.Applications().GetByID(ctx, "a-j-1")
	require.NoError(t, err)
	assert.Nil(t, app.InterviewID)

	require.NoError(t, f.svc.LinkInterview(ctx, "a-j-1", "iv-1"))
	require.NoError(t, f.svc.LinkInterview(ctx, "a-j-1", "iv-1"))
	app, err = f.store.Applications().GetByID(ctx, "a-j-1")
	require.NoError(t, err)
	assert.Equal(t, application.StatusInReview, app.Status)
	assert.Equal(t, kernel.InterviewID("iv-1"), *app.InterviewID)
}

func TestLinkInterview_LeavesTerminalApplication(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	require.NoError(t, f.store.Interviews().Create(ctx, &interview.Interview{ID: "iv-1", ApplicationID: "a-j-1", RecruiterID: "rec-1"}))
	require.NoError(t, f.store.Applications().TransitionStatus(ctx, "a-j-1", application.StatusApplied, application.StatusRejected, time.Now()))

	require.NoError(t, f.svc.LinkInterview(ctx, "a-j-1", "iv-1"))

	app, err := f.store.Applications().GetByID(ctx, "a-j-1")
	require.NoError(t, err)
	assert.Equal(t, application.StatusRejected, app.Status)
	assert.Nil(t, app.InterviewID)
}

func TestProcess_SucceedsAndRetries(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		f := newFixture(t, nil)
		require.NoError(t, f.svc.Process(ctx, reconcile.NewMirrorsJob("a-j-2")))

		delayed, err := f.queue.DelayedSize(ctx)
		require.NoError(t, err)
		assert.Zero(t, delayed)
	})

	t.Run("retry then drop", func(t *testing.T) {
		f := newFixture(t, nil)
		f.svc = NewService(f.store.Applications(), f.store.Internships(), brokenInterns{f.store.Interns()}, f.store.Interviews(), f.queue, Config{MaxAttempts: 2, RetryDelay: time.Minute})

		job := reconcile.NewMirrorsJob("a-j-1")
		require.Error(t, f.svc.Process(ctx, job))
		assert.Equal(t, 1, job.Attempt)
		delayed, err := f.queue.DelayedSize(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), delayed)

		require.Error(t, f.svc.Process(ctx, job))
		assert.Equal(t, 2, job.Attempt)
		delayed, err = f.queue.DelayedSize(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), delayed)
	})

	t.Run("missing application is dropped", func(t *testing.T) {
		f := newFixture(t, nil)
		err := f.svc.Process(ctx, reconcile.NewMirrorsJob("gone"))
		assert.True(t, errx.IsCode(err, application.CodeApplicationNotFound))
		delayed, derr := f.queue.DelayedSize(ctx)
		require.NoError(t, derr)
		assert.Zero(t, delayed)
	})

	t.Run("invalid job", func(t *testing.T) {
		f := newFixture(t, nil)
		err := f.svc.Process(ctx, &reconcile.Job{Kind: reconcile.KindInterviewLink, ApplicationID: "a-j-1"})
		assert.True(t, errx.IsCode(err, reconcile.CodeInvalidJob))
	})
}

func TestRequestRepairAndStats(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	_, err := f.svc.RequestRepair(ctx, "rec-2", "a-j-1")
	assert.True(t, errx.IsCode(err, application.CodeUnauthorized))

	job, err := f.svc.RequestRepair(ctx, "rec-1", "a-j-1")
	require.NoError(t, err)
	assert.Equal(t, reconcile.KindMirrors, job.Kind)

	stats, err := f.svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Ready)

	_, err = f.svc.RequestRepair(ctx, "rec-1", "gone")
	assert.True(t, errx.IsCode(err, application.CodeApplicationNotFound))

	_, err = f.svc.RequestRebuild(ctx, "rec-2", "a-j-2")
	assert.True(t, errx.IsCode(err, application.CodeUnauthorized))

	job, err = f.svc.RequestRebuild(ctx, "rec-1", "a-j-2")
	require.NoError(t, err)
	assert.Equal(t, reconcile.KindRebuildMirrors, job.Kind)
	assert.Equal(t, 2, job.MaxAttempts)
}
