package application

import (
	"testing"

	"github.com/Abraxas-365/prointern/pkg/errx"
	"github.com/Abraxas-365/prointern/pkg/kernel"
	"github.com/Abraxas-365/prointern/recruitment/interview"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to Status
		want     bool
	}{
		{StatusApplied, StatusInReview, true},
		{StatusApplied, StatusAccepted, true},
		{StatusApplied, StatusRejected, true},
		{StatusApplied, StatusApplied, false},
		{StatusInReview, StatusAccepted, true},
		{StatusInReview, StatusRejected, true},
		{StatusInReview, StatusInReview, true},
		{StatusInReview, StatusApplied, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CanTransition(tt.from, tt.to), "%s -> %s", tt.from, tt.to)
	}

	for _, terminal := range []Status{StatusAccepted, StatusRejected} {
		for _, to := range Statuses {
			assert.False(t, CanTransition(terminal, to), "%s -> %s", terminal, to)
		}
	}
}

func TestApplication_UpdateStatus_Terminal(t *testing.T) {
	app := &Application{Status: StatusApplied}
	require.NoError(t, app.Accept())
	assert.Equal(t, StatusAccepted, app.Status)
	require.NotNil(t, app.StatusChangedAt)

	err := app.Reject()
	require.Error(t, err)
	assert.True(t, errx.IsCode(err, CodeInvalidTransition))
	assert.Equal(t, StatusAccepted, app.Status)

	e, ok := errx.As(err)
	require.True(t, ok)
	assert.Equal(t, StatusAccepted, e.Details["current_status"])
	assert.Equal(t, StatusRejected, e.Details["target_status"])
}

func TestApplication_AttachInterview(t *testing.T) {
	app := &Application{Status: StatusApplied}
	require.NoError(t, app.AttachInterview(kernel.InterviewID("iv-1")))
	assert.Equal(t, StatusInReview, app.Status)
	require.True(t, app.HasInterview())
	assert.Equal(t, kernel.InterviewID("iv-1"), *app.InterviewID)

	err := app.AttachInterview(kernel.InterviewID("iv-2"))
	assert.True(t, errx.IsCode(err, interview.CodeAlreadyScheduled))

	rejected := &Application{Status: StatusRejected}
	err = rejected.AttachInterview(kernel.InterviewID("iv-3"))
	assert.True(t, errx.IsCode(err, CodeInvalidTransition))
	assert.False(t, rejected.HasInterview())
}

func TestRecruiterListFilter(t *testing.T) {
	view := ApplicationView{Status: StatusApplied, InternName: "Ana Torres", InternshipTitle: "Backend Intern"}

	assert.True(t, RecruiterListFilter{}.Matches(view))
	assert.True(t, RecruiterListFilter{Query: "ana"}.Matches(view))
	assert.True(t, RecruiterListFilter{Query: "BACKEND"}.Matches(view))
	assert.False(t, RecruiterListFilter{Query: "frontend"}.Matches(view))
	assert.False(t, RecruiterListFilter{Status: StatusInReview}.Matches(view))

	assert.NoError(t, RecruiterListFilter{Status: StatusInReview}.Validate())
	assert.True(t, errx.IsCode(RecruiterListFilter{Status: "Pending"}.Validate(), CodeInvalidStatus))
}

func TestCreateApplicationRequest_Validate(t *testing.T) {
	assert.NoError(t, CreateApplicationRequest{InternshipID: "j-1"}.Validate())
	assert.True(t, errx.IsCode(CreateApplicationRequest{}.Validate(), CodeValidationFailed))
}
