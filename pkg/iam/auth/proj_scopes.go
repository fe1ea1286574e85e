package auth

import "strings"

// Role is the kind of account the identity provider issued the token for
type Role string

const (
	RoleIntern    Role = "intern"
	RoleRecruiter Role = "recruiter"
)

func (r Role) IsValid() bool {
	return r == RoleIntern || r == RoleRecruiter
}

const (
	// Internship scopes
	ScopeInternshipsAll    = "internships:*"
	ScopeInternshipsRead   = "internships:read"
	ScopeInternshipsWrite  = "internships:write"
	ScopeInternshipsDelete = "internships:delete"

	// Application scopes
	ScopeApplicationsAll    = "applications:*"
	ScopeApplicationsRead   = "applications:read"
	ScopeApplicationsApply  = "applications:apply"
	ScopeApplicationsReview = "applications:review" // Accept/reject

	// Interview scopes
	ScopeInterviewsAll      = "interviews:*"
	ScopeInterviewsRead     = "interviews:read"
	ScopeInterviewsSchedule = "interviews:schedule"

	// Intern profile scopes
	ScopeInternsReadCV  = "interns:read_cv"
	ScopeInternsWriteCV = "interns:write_cv"
)

// RoleScopes maps each role to the scopes its tokens carry
var RoleScopes = map[Role][]string{
	RoleIntern: {
		ScopeInternshipsRead,
		ScopeApplicationsRead,
		ScopeApplicationsApply,
		ScopeInterviewsRead,
		ScopeInternsWriteCV,
	},
	RoleRecruiter: {
		ScopeInternshipsAll,
		ScopeApplicationsRead,
		ScopeApplicationsReview,
		ScopeInterviewsAll,
		ScopeInternsReadCV,
	},
}

// ScopeDescriptions documents the scopes for the token issuer
var ScopeDescriptions = map[string]string{
	ScopeInternshipsAll:     "Full access to internship postings",
	ScopeInternshipsRead:    "View internship postings",
	ScopeInternshipsWrite:   "Create and edit internship postings",
	ScopeInternshipsDelete:  "Delete internship postings",
	ScopeApplicationsAll:    "Full access to applications",
	ScopeApplicationsRead:   "View applications",
	ScopeApplicationsApply:  "Apply to internships",
	ScopeApplicationsReview: "Accept or reject applications",
	ScopeInterviewsAll:      "Full access to interviews",
	ScopeInterviewsRead:     "View interview details",
	ScopeInterviewsSchedule: "Schedule and reschedule interviews",
	ScopeInternsReadCV:      "Download applicant CVs",
	ScopeInternsWriteCV:     "Upload own CV",
}

// HasScope reports whether granted covers required, honouring "resource:*"
func HasScope(granted []string, required string) bool {
	resource, _, _ := strings.Cut(required, ":")
	for _, s := range granted {
		if s == required || s == "*" || s == resource+":*" {
			return true
		}
	}
	return false
}
