package fsxmem

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/Abraxas-365/prointern/pkg/errx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileSystem_RoundTrip(t *testing.T) {
	ctx := context.Background()
	fs := New("http://localhost:8080/files/")

	require.NoError(t, fs.WriteFileStream(ctx, "interns/i-1/cv.pdf", strings.NewReader("%PDF")))

	data, err := fs.ReadFile(ctx, "/interns/i-1/cv.pdf")
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(data))

	url, err := fs.DownloadURL(ctx, "interns/i-1/cv.pdf", time.Minute)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "http://localhost:8080/files/interns/i-1/cv.pdf?expires="))

	require.NoError(t, fs.DeleteFile(ctx, "interns/i-1/cv.pdf"))
	_, err = fs.DownloadURL(ctx, "interns/i-1/cv.pdf", time.Minute)
	assert.True(t, errx.IsType(err, errx.TypeNotFound))
}
