package interviewsrv

import (
	"context"
	"testing"
	"time"

	"github.com/Abraxas-365/prointern/internal/memstore"
	"github.com/Abraxas-365/prointern/pkg/errx"
	"github.com/Abraxas-365/prointern/pkg/kernel"
	"github.com/Abraxas-365/prointern/recruitment/application"
	"github.com/Abraxas-365/prointern/recruitment/application/reviewsrv"
	"github.com/Abraxas-365/prointern/recruitment/interview"
	"github.com/Abraxas-365/prointern/recruitment/reconcile"
	"github.com/Abraxas-365/prointern/recruitment/reconcile/reconcileinfra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var scheduleReq = interview.ScheduleInterviewRequest{
	Date:        "2025-06-01",
	Time:        "10:00",
	MeetingLink: "https://meet.google.com/abc-defg-hij",
}

// flakyApplications fails AttachInterview while down is set
type flakyApplications struct {
	application.Repository
	down bool
}

func (f *flakyApplications) AttachInterview(ctx context.Context, id kernel.ApplicationID, interviewID kernel.InterviewID, at time.Time) error {
	if f.down {
		return errx.New("store offline", errx.TypeUnavailable)
	}
	return f.Repository.AttachInterview(ctx, id, interviewID, at)
}

func seed(t *testing.T, store *memstore.Store, ids ...kernel.ApplicationID) {
	t.Helper()
	for n, id := range ids {
		require.NoError(t, store.Applications().Create(context.Background(), &application.Application{
			ID:           id,
			InternshipID: kernel.InternshipID("j-" + id.String()),
			InternID:     "in-1",
			RecruiterID:  "rec-1",
			Status:       application.StatusApplied,
			AppliedOn:    time.Now().Add(time.Duration(n) * time.Second),
		}))
	}
}

// assertAttachment checks that In Review holds exactly when the interview id resolves
func assertAttachment(t *testing.T, store *memstore.Store, id kernel.ApplicationID) {
	t.Helper()
	ctx := context.Background()
	app, err := store.Applications().GetByID(ctx, id)
	require.NoError(t, err)

	resolves := false
	if app.InterviewID != nil {
		_, err := store.Interviews().GetByID(ctx, *app.InterviewID)
		resolves = err == nil
	}
	if app.Status == application.StatusInReview {
		assert.True(t, resolves, "In Review application %s has no interview", id)
	}
	if app.Status == application.StatusApplied {
		assert.False(t, resolves, "Applied application %s has an interview", id)
	}
}

func TestSchedule_MovesApplicationInReview(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	seed(t, store, "a-1")
	svc := NewInterviewService(store.Interviews(), store.Applications(), reconcileinfra.NewMemoryQueue(4))

	iv, err := svc.Schedule(ctx, "rec-1", "a-1", scheduleReq)
	require.NoError(t, err)
	assert.Equal(t, "2025-06-01", iv.Date)
	assert.Equal(t, kernel.RecruiterID("rec-1"), iv.RecruiterID)

	app, err := store.Applications().GetByID(ctx, "a-1")
	require.NoError(t, err)
	assert.Equal(t, application.StatusInReview, app.Status)
	require.NotNil(t, app.InterviewID)
	assert.Equal(t, iv.ID, *app.InterviewID)
	assertAttachment(t, store, "a-1")

	_, err = svc.Schedule(ctx, "rec-1", "a-1", scheduleReq)
	assert.True(t, errx.IsCode(err, interview.CodeAlreadyScheduled))
}

func TestSchedule_AcceptKeepsInterviewHistory(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	seed(t, store, "a-1")
	svc := NewInterviewService(store.Interviews(), store.Applications(), reconcileinfra.NewMemoryQueue(4))
	review := reviewsrv.NewReviewService(store.Applications())

	_, err := svc.Schedule(ctx, "rec-1", "a-1", scheduleReq)
	require.NoError(t, err)

	app, err := review.Accept(ctx, "rec-1", "a-1")
	require.NoError(t, err)
	assert.Equal(t, application.StatusAccepted, app.Status)

	schedule, err := svc.FetchForApplicant(ctx, "in-1", "a-1")
	require.NoError(t, err)
	require.NotNil(t, schedule)
	assert.Equal(t, "2025-06-01", schedule.Date)
	assert.Equal(t, "10:00", schedule.Time)

	_, err = svc.Schedule(ctx, "rec-1", "a-1", scheduleReq)
	assert.True(t, errx.IsCode(err, application.CodeInvalidTransition))
}

func TestFetchForApplicant_NoInterviewAfterReject(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	seed(t, store, "a-2")
	svc := NewInterviewService(store.Interviews(), store.Applications(), reconcileinfra.NewMemoryQueue(4))
	review := reviewsrv.NewReviewService(store.Applications())

	_, err := review.Reject(ctx, "rec-1", "a-2")
	require.NoError(t, err)

	schedule, err := svc.FetchForApplicant(ctx, "in-1", "a-2")
	require.NoError(t, err)
	assert.Nil(t, schedule)

	_, err = store.Interviews().FindByApplication(ctx, "a-2")
	assert.True(t, errx.IsCode(err, interview.CodeInterviewNotFound))

	_, err = svc.FetchForApplicant(ctx, "someone-else", "a-2")
	assert.True(t, errx.IsCode(err, application.CodeUnauthorized))

	schedule, err = svc.FetchForApplicant(ctx, "rec-1", "a-2")
	require.NoError(t, err)
	assert.Nil(t, schedule)
}

func TestUpdate_OnlyChangesInterview(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	seed(t, store, "a-1")
	svc := NewInterviewService(store.Interviews(), store.Applications(), reconcileinfra.NewMemoryQueue(4))

	iv, err := svc.Schedule(ctx, "rec-1", "a-1", scheduleReq)
	require.NoError(t, err)

	newTime := "14:00"
	updated, err := svc.Update(ctx, "rec-1", iv.ID, interview.UpdateInterviewRequest{Time: &newTime})
	require.NoError(t, err)
	assert.Equal(t, "14:00", updated.Time)
	assert.Equal(t, "2025-06-01", updated.Date)
	assert.Equal(t, scheduleReq.MeetingLink, updated.MeetingLink)

	stored, err := store.Interviews().GetByID(ctx, iv.ID)
	require.NoError(t, err)
	assert.Equal(t, "14:00", stored.Time)

	app, err := store.Applications().GetByID(ctx, "a-1")
	require.NoError(t, err)
	assert.Equal(t, application.StatusInReview, app.Status)
	assert.Equal(t, iv.ID, *app.InterviewID)
}

func TestUpdate_Rules(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	seed(t, store, "a-1")
	svc := NewInterviewService(store.Interviews(), store.Applications(), reconcileinfra.NewMemoryQueue(4))

	iv, err := svc.Schedule(ctx, "rec-1", "a-1", scheduleReq)
	require.NoError(t, err)

	newTime := "14:00"
	_, err = svc.Update(ctx, "rec-2", iv.ID, interview.UpdateInterviewRequest{Time: &newTime})
	assert.True(t, errx.IsCode(err, interview.CodeUnauthorized))

	_, err = svc.Update(ctx, "rec-1", iv.ID, interview.UpdateInterviewRequest{})
	assert.True(t, errx.IsCode(err, interview.CodeInvalidRequest))

	_, err = svc.Update(ctx, "rec-1", "missing", interview.UpdateInterviewRequest{Time: &newTime})
	assert.True(t, errx.IsCode(err, interview.CodeInterviewNotFound))

	_, err = reviewsrv.NewReviewService(store.Applications()).Reject(ctx, "rec-1", "a-1")
	require.NoError(t, err)
	_, err = svc.Update(ctx, "rec-1", iv.ID, interview.UpdateInterviewRequest{Time: &newTime})
	assert.True(t, errx.IsCode(err, application.CodeInvalidTransition))
}

func TestSchedule_OwnershipAndValidation(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	seed(t, store, "a-1")
	svc := NewInterviewService(store.Interviews(), store.Applications(), reconcileinfra.NewMemoryQueue(4))

	_, err := svc.Schedule(ctx, "rec-2", "a-1", scheduleReq)
	assert.True(t, errx.IsCode(err, application.CodeUnauthorized))

	bad := scheduleReq
	bad.Date = "01/06/2025"
	_, err = svc.Schedule(ctx, "rec-1", "a-1", bad)
	assert.True(t, errx.IsCode(err, interview.CodeValidationFailed))

	_, err = store.Interviews().FindByApplication(ctx, "a-1")
	assert.True(t, errx.IsCode(err, interview.CodeInterviewNotFound))
	assertAttachment(t, store, "a-1")
}

func TestSchedule_FailedAttachQueuesLinkAndRetryReuses(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	seed(t, store, "a-1")
	apps := &flakyApplications{Repository: store.Applications(), down: true}
	queue := reconcileinfra.NewMemoryQueue(4)
	svc := NewInterviewService(store.Interviews(), apps, queue)

	_, err := svc.Schedule(ctx, "rec-1", "a-1", scheduleReq)
	require.Error(t, err)
	assert.True(t, errx.IsType(err, errx.TypeUnavailable))

	orphan, err := store.Interviews().FindByApplication(ctx, "a-1")
	require.NoError(t, err)
	assertAttachment(t, store, "a-1")

	newTime := "09:00"
	_, err = svc.Update(ctx, "rec-1", orphan.ID, interview.UpdateInterviewRequest{Time: &newTime})
	assert.True(t, errx.IsCode(err, interview.CodeNotAttached))
	stored, err := store.Interviews().GetByID(ctx, orphan.ID)
	require.NoError(t, err)
	assert.Equal(t, scheduleReq.Time, stored.Time)

	job, err := queue.Dequeue(ctx, time.Millisecond)
	require.NoError(t, err)
	require.NotNil(t, job)
	assert.Equal(t, reconcile.KindInterviewLink, job.Kind)
	require.NotNil(t, job.InterviewID)
	assert.Equal(t, orphan.ID, *job.InterviewID)

	apps.down = false
	retryReq := scheduleReq
	retryReq.Time = "11:30"
	iv, err := svc.Schedule(ctx, "rec-1", "a-1", retryReq)
	require.NoError(t, err)
	assert.Equal(t, orphan.ID, iv.ID)
	assert.Equal(t, "11:30", iv.Time)
	assertAttachment(t, store, "a-1")
}
