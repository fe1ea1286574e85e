package reconcile

import (
	"time"

	"github.com/Abraxas-365/prointern/pkg/kernel"
	"github.com/google/uuid"
)

// Kind selects the repair a job performs
type Kind string

const (
	// KindMirrors re-adds an application to the intern and internship mirror sets
	KindMirrors Kind = "MIRRORS"
	// KindInterviewLink attaches an interview whose application write failed
	KindInterviewLink Kind = "INTERVIEW_LINK"
	// KindRebuildMirrors regenerates both mirror sets touched by an application
	// from every application of its intern and its internship
	KindRebuildMirrors Kind = "REBUILD_MIRRORS"
)

func (k Kind) IsValid() bool {
	switch k {
	case KindMirrors, KindInterviewLink, KindRebuildMirrors:
		return true
	}
	return false
}

// Job is one read-repair request keyed by application id. Processing a job
// twice has the same effect as processing it once.
type Job struct {
	ID            kernel.JobID         `json:"id"`
	Kind          Kind                 `json:"kind"`
	ApplicationID kernel.ApplicationID `json:"application_id"`
	InterviewID   *kernel.InterviewID  `json:"interview_id,omitempty"`
	Attempt       int                  `json:"attempt"`
	MaxAttempts   int                  `json:"max_attempts"`
	EnqueuedAt    time.Time            `json:"enqueued_at"`
	LastError     string               `json:"last_error,omitempty"`
}

func newJob(kind Kind, applicationID kernel.ApplicationID) *Job {
	return &Job{
		ID:            kernel.NewJobID(uuid.NewString()),
		Kind:          kind,
		ApplicationID: applicationID,
		EnqueuedAt:    time.Now(),
	}
}

func NewMirrorsJob(applicationID kernel.ApplicationID) *Job {
	return newJob(KindMirrors, applicationID)
}

func NewRebuildMirrorsJob(applicationID kernel.ApplicationID) *Job {
	return newJob(KindRebuildMirrors, applicationID)
}

func NewInterviewLinkJob(applicationID kernel.ApplicationID, interviewID kernel.InterviewID) *Job {
	j := newJob(KindInterviewLink, applicationID)
	j.InterviewID = &interviewID
	return j
}

// Validate checks the fields a worker needs to process the job
func (j *Job) Validate() error {
	if !j.Kind.IsValid() {
		return ErrUnknownKind().WithDetail("kind", j.Kind)
	}
	if j.ApplicationID.IsEmpty() {
		return ErrInvalidJob().WithDetail("reason", "missing application id")
	}
	if j.Kind == KindInterviewLink && (j.InterviewID == nil || j.InterviewID.IsEmpty()) {
		return ErrInvalidJob().WithDetail("reason", "missing interview id")
	}
	return nil
}

// RecordFailure counts an attempt and reports whether another one is allowed
func (j *Job) RecordFailure(err error, defaultMaxAttempts int) bool {
	j.Attempt++
	if err != nil {
		j.LastError = err.Error()
	}
	if j.MaxAttempts == 0 {
		j.MaxAttempts = defaultMaxAttempts
	}
	return j.Attempt < j.MaxAttempts
}
