package internsrv

import (
	"bytes"
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/Abraxas-365/prointern/pkg/errx"
	"github.com/Abraxas-365/prointern/pkg/fsx"
	"github.com/Abraxas-365/prointern/pkg/kernel"
	"github.com/Abraxas-365/prointern/pkg/logx"
	"github.com/Abraxas-365/prointern/recruitment/intern"
)

const pdfContentType = "application/pdf"

var pdfMagic = []byte("%PDF-")

type Config struct {
	MaxCVBytes int64
	URLTTL     time.Duration
}

// InternService manages applicant profiles and their CV file
type InternService struct {
	internRepo intern.Repository
	fileSystem fsx.FileSystem
	cfg        Config
}

func NewInternService(internRepo intern.Repository, fileSystem fsx.FileSystem, cfg Config) *InternService {
	if cfg.MaxCVBytes <= 0 {
		cfg.MaxCVBytes = 5 << 20
	}
	if cfg.URLTTL <= 0 {
		cfg.URLTTL = 15 * time.Minute
	}
	return &InternService{
		internRepo: internRepo,
		fileSystem: fileSystem,
		cfg:        cfg,
	}
}

func (s *InternService) GetProfile(ctx context.Context, id kernel.InternID) (*intern.Intern, error) {
	return s.internRepo.GetByID(ctx, id)
}

// SaveProfile creates the caller's profile on first use and updates it after
func (s *InternService) SaveProfile(ctx context.Context, id kernel.InternID, req intern.SaveProfileRequest) (*intern.Intern, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	profile, err := s.internRepo.GetByID(ctx, id)
	switch {
	case err == nil:
		profile.ApplyProfile(req)
		if err := s.internRepo.UpdateProfile(ctx, profile); err != nil {
			return nil, err
		}
		logx.Infof("Intern profile %s updated", id)
		return profile, nil

	case errx.IsCode(err, intern.CodeInternNotFound):
		profile = &intern.Intern{
			ID:                   id,
			AppliedInternshipIDs: []kernel.InternshipID{},
			CreatedAt:            time.Now(),
		}
		profile.ApplyProfile(req)
		if err := s.internRepo.Create(ctx, profile); err != nil {
			return nil, err
		}
		logx.Infof("Intern profile %s created", id)
		return profile, nil

	default:
		return nil, err
	}
}

// UploadCV stores a PDF at interns/{id}/cv.pdf and records it on the profile
func (s *InternService) UploadCV(ctx context.Context, id kernel.InternID, req intern.UploadCVRequest) (*intern.CVUploadResponse, error) {
	if len(req.Data) == 0 {
		return nil, intern.ErrInvalidRequest().WithDetail("error", "empty file")
	}
	if int64(len(req.Data)) > s.cfg.MaxCVBytes {
		return nil, intern.ErrFileSizeTooLarge().
			WithDetail("size", len(req.Data)).
			WithDetail("max_size", s.cfg.MaxCVBytes)
	}
	if !isPDF(req) {
		return nil, intern.ErrInvalidFileType().WithDetail("content_type", req.ContentType)
	}

	if _, err := s.internRepo.GetByID(ctx, id); err != nil {
		return nil, err
	}

	path := intern.CVPath(id)
	if err := s.fileSystem.WriteFile(ctx, path, req.Data); err != nil {
		return nil, err
	}

	ref := kernel.FileRef(path)
	if err := s.internRepo.SetCVRef(ctx, id, ref); err != nil {
		return nil, err
	}

	logx.Infof("CV uploaded for intern %s (%d bytes)", id, len(req.Data))
	return &intern.CVUploadResponse{CVRef: ref}, nil
}

// GetDownloadLink returns a time-limited link to the intern's CV
func (s *InternService) GetDownloadLink(ctx context.Context, id kernel.InternID) (*intern.CVLinkResponse, error) {
	profile, err := s.internRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !profile.HasCV() {
		return nil, intern.ErrNoCVUploaded().WithDetail("intern_id", id)
	}

	url, err := s.fileSystem.DownloadURL(ctx, profile.CVRef.String(), s.cfg.URLTTL)
	if err != nil {
		if errx.IsType(err, errx.TypeNotFound) {
			return nil, intern.ErrNoCVUploaded().WithDetail("intern_id", id)
		}
		return nil, err
	}
	return &intern.CVLinkResponse{URL: url}, nil
}

func isPDF(req intern.UploadCVRequest) bool {
	contentType := strings.ToLower(strings.TrimSpace(req.ContentType))
	if contentType == "" {
		contentType = http.DetectContentType(req.Data)
	}
	if !strings.HasPrefix(contentType, pdfContentType) {
		return false
	}
	return bytes.HasPrefix(req.Data, pdfMagic)
}
