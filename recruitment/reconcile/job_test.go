package reconcile

import (
	"errors"
	"testing"

	"github.com/Abraxas-365/prointern/pkg/errx"
	"github.com/Abraxas-365/prointern/pkg/kernel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJob_Validate(t *testing.T) {
	assert.NoError(t, NewMirrorsJob("a-1").Validate())
	assert.NoError(t, NewInterviewLinkJob("a-1", "iv-1").Validate())
	assert.NoError(t, NewRebuildMirrorsJob("a-1").Validate())
	assert.True(t, errx.IsCode(NewRebuildMirrorsJob("").Validate(), CodeInvalidJob))

	missingInterview := NewMirrorsJob("a-1")
	missingInterview.Kind = KindInterviewLink
	assert.True(t, errx.IsCode(missingInterview.Validate(), CodeInvalidJob))

	unknown := &Job{Kind: "REINDEX", ApplicationID: kernel.ApplicationID("a-1")}
	assert.True(t, errx.IsCode(unknown.Validate(), CodeUnknownKind))
}

func TestJob_RecordFailure(t *testing.T) {
	job := NewMirrorsJob("a-1")

	require.True(t, job.RecordFailure(errors.New("store down"), 3))
	assert.Equal(t, 3, job.MaxAttempts)
	assert.Equal(t, "store down", job.LastError)
	require.True(t, job.RecordFailure(errors.New("store down"), 3))
	assert.False(t, job.RecordFailure(errors.New("store down"), 3))
	assert.Equal(t, 3, job.Attempt)
}
