package intern

import (
	"slices"
	"time"

	"github.com/Abraxas-365/prointern/pkg/kernel"
)

// Intern is an applicant profile. Its id is the identity-provider user id.
type Intern struct {
	ID                kernel.InternID `db:"id" json:"id"`
	FullName          string          `db:"full_name" json:"full_name"`
	Email             kernel.Email    `db:"email" json:"email"`
	MobileNumber      string          `db:"mobile_number" json:"mobile_number"`
	CVRef             kernel.FileRef  `db:"cv_ref" json:"cv_ref"`
	ProfilePictureRef kernel.FileRef  `db:"profile_picture_ref" json:"profile_picture_ref"`

	// AppliedInternshipIDs is advisory; see application.Repository for the
	// authoritative record
	AppliedInternshipIDs []kernel.InternshipID `db:"applied_internship_ids" json:"applied_internship_ids"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

func (i *Intern) HasCV() bool {
	return !i.CVRef.IsEmpty()
}

func (i *Intern) HasAppliedTo(internshipID kernel.InternshipID) bool {
	return slices.Contains(i.AppliedInternshipIDs, internshipID)
}

// MarkApplied appends internshipID to the mirror set, reporting whether it changed
func (i *Intern) MarkApplied(internshipID kernel.InternshipID) bool {
	if i.HasAppliedTo(internshipID) {
		return false
	}
	i.AppliedInternshipIDs = append(i.AppliedInternshipIDs, internshipID)
	return true
}

func (i *Intern) ApplyProfile(req SaveProfileRequest) {
	i.FullName = req.FullName
	i.Email = req.Email.Normalized()
	i.MobileNumber = req.MobileNumber
	if req.ProfilePictureRef != nil {
		i.ProfilePictureRef = *req.ProfilePictureRef
	}
	i.UpdatedAt = time.Now()
}

// CVPath is where an intern's CV is stored
func CVPath(id kernel.InternID) string {
	return "interns/" + id.String() + "/cv.pdf"
}
