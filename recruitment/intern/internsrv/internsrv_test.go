package internsrv

import (
	"context"
	"strings"
	"testing"

	"github.com/Abraxas-365/prointern/internal/memstore"
	"github.com/Abraxas-365/prointern/pkg/errx"
	"github.com/Abraxas-365/prointern/pkg/fsx/fsxmem"
	"github.com/Abraxas-365/prointern/pkg/kernel"
	"github.com/Abraxas-365/prointern/recruitment/intern"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (*InternService, *fsxmem.FileSystem) {
	t.Helper()
	store := memstore.New()
	fs := fsxmem.New("http://files.test")
	svc := NewInternService(store.Interns(), fs, Config{MaxCVBytes: 64})

	_, err := svc.SaveProfile(context.Background(), "in-1", intern.SaveProfileRequest{
		FullName: "Ana Torres",
		Email:    "Ana@Uni.edu",
	})
	require.NoError(t, err)
	return svc, fs
}

func TestInternService_SaveProfile(t *testing.T) {
	svc, _ := newTestService(t)

	profile, err := svc.GetProfile(context.Background(), "in-1")
	require.NoError(t, err)
	assert.Equal(t, kernel.Email("ana@uni.edu"), profile.Email)

	updated, err := svc.SaveProfile(context.Background(), "in-1", intern.SaveProfileRequest{
		FullName:     "Ana María Torres",
		Email:        "ana@uni.edu",
		MobileNumber: "+51 999 999 999",
	})
	require.NoError(t, err)
	assert.Equal(t, "Ana María Torres", updated.FullName)
	assert.Equal(t, profile.CreatedAt, updated.CreatedAt)

	_, err = svc.SaveProfile(context.Background(), "in-1", intern.SaveProfileRequest{FullName: "x", Email: "nope"})
	assert.True(t, errx.IsCode(err, intern.CodeValidationFailed))
}

func TestInternService_DownloadLinkWithoutCV(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.GetDownloadLink(context.Background(), "in-1")
	require.Error(t, err)
	assert.True(t, errx.IsCode(err, intern.CodeNoCVUploaded))

	_, err = svc.GetDownloadLink(context.Background(), "missing")
	assert.True(t, errx.IsCode(err, intern.CodeInternNotFound))
}

func TestInternService_UploadCV(t *testing.T) {
	ctx := context.Background()
	svc, fs := newTestService(t)

	resp, err := svc.UploadCV(ctx, "in-1", intern.UploadCVRequest{Data: []byte("%PDF-1.7 cv"), ContentType: "application/pdf"})
	require.NoError(t, err)
	assert.Equal(t, kernel.FileRef("interns/in-1/cv.pdf"), resp.CVRef)

	stored, err := fs.ReadFile(ctx, "interns/in-1/cv.pdf")
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.7 cv", string(stored))

	link, err := svc.GetDownloadLink(ctx, "in-1")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(link.URL, "http://files.test/interns/in-1/cv.pdf"))
}

func TestInternService_UploadCVRejects(t *testing.T) {
	svc, _ := newTestService(t)

	tests := []struct {
		name string
		req  intern.UploadCVRequest
		code errx.Code
	}{
		{"empty", intern.UploadCVRequest{}, intern.CodeInvalidRequest},
		{"too large", intern.UploadCVRequest{Data: []byte("%PDF-" + strings.Repeat("x", 64)), ContentType: "application/pdf"}, intern.CodeFileSizeTooLarge},
		{"not a pdf", intern.UploadCVRequest{Data: []byte("hello"), ContentType: "text/plain"}, intern.CodeInvalidFileType},
		{"pdf header lies", intern.UploadCVRequest{Data: []byte("PK\x03\x04"), ContentType: "application/pdf"}, intern.CodeInvalidFileType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.UploadCV(context.Background(), "in-1", tt.req)
			assert.True(t, errx.IsCode(err, tt.code), "got %v", err)
		})
	}
}
