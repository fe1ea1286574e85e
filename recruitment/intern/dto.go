package intern

import (
	"strings"

	"github.com/Abraxas-365/prointern/pkg/kernel"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// SaveProfileRequest creates or replaces the caller's own profile
type SaveProfileRequest struct {
	FullName          string          `json:"full_name"`
	Email             kernel.Email    `json:"email"`
	MobileNumber      string          `json:"mobile_number"`
	ProfilePictureRef *kernel.FileRef `json:"profile_picture_ref,omitempty"`
}

func (r SaveProfileRequest) Validate() error {
	r.FullName = strings.TrimSpace(r.FullName)
	err := validation.ValidateStruct(&r,
		validation.Field(&r.FullName, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Email, validation.Required, is.EmailFormat),
		validation.Field(&r.MobileNumber, validation.Length(0, 32)),
	)
	return validationError(err)
}

// UploadCVRequest carries the raw file of a CV upload
type UploadCVRequest struct {
	Data        []byte
	ContentType string
	FileName    string
}

type CVUploadResponse struct {
	CVRef kernel.FileRef `json:"cv_ref"`
}

type CVLinkResponse struct {
	URL string `json:"url"`
}

func validationError(err error) error {
	if err == nil {
		return nil
	}
	e := ErrValidationFailed()
	if errs, ok := err.(validation.Errors); ok {
		for field, fieldErr := range errs {
			e.WithDetail(field, fieldErr.Error())
		}
		return e
	}
	return e.WithDetail("error", err.Error())
}
