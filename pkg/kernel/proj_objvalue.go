package kernel

import (
	"net/mail"
	"strings"
)

type JobTitle string

type CompanyName string

// FileRef is a path inside the file storage, e.g. "interns/{id}/cv.pdf"
type FileRef string

func (f FileRef) String() string { return string(f) }
func (f FileRef) IsEmpty() bool  { return strings.TrimSpace(string(f)) == "" }

type Email string

// IsValid reports whether the address parses as a bare RFC 5322 address
func (e Email) IsValid() bool {
	addr, err := mail.ParseAddress(string(e))
	return err == nil && addr.Address == string(e)
}

// Normalized lowercases and trims the address
func (e Email) Normalized() Email {
	return Email(strings.ToLower(strings.TrimSpace(string(e))))
}

type JobType string

const (
	JobTypeFullTime JobType = "Full-time"
	JobTypePartTime JobType = "Part-time"
	JobTypeRemote   JobType = "Remote"
	JobTypeOnSite   JobType = "On-site"
	JobTypeHybrid   JobType = "Hybrid"
)

var JobTypes = []JobType{JobTypeFullTime, JobTypePartTime, JobTypeRemote, JobTypeOnSite, JobTypeHybrid}
