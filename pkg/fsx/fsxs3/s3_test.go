package fsxs3

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/Abraxas-365/prointern/pkg/errx"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeObjects struct {
	objects map[string][]byte
	types   map[string]string
	failPut error
}

func newFakeObjects() *fakeObjects {
	return &fakeObjects{objects: map[string][]byte{}, types: map[string]string{}}
}

func (f *fakeObjects) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.failPut != nil {
		return nil, f.failPut
	}
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[aws.ToString(in.Key)] = data
	f.types[aws.ToString(in.Key)] = aws.ToString(in.ContentType)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeObjects) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	data, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(string(data)))}, nil
}

func (f *fakeObjects) HeadObject(ctx context.Context, in *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	if _, ok := f.objects[aws.ToString(in.Key)]; !ok {
		return nil, &types.NotFound{}
	}
	return &s3.HeadObjectOutput{}, nil
}

func (f *fakeObjects) DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	delete(f.objects, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func newTestFS(objects *fakeObjects) *S3FileSystem {
	return &S3FileSystem{
		client: objects,
		presign: func(ctx context.Context, in *s3.GetObjectInput, ttl time.Duration) (string, error) {
			return "https://files.test/" + aws.ToString(in.Key) + "?ttl=" + ttl.String(), nil
		},
		bucket: "prointern",
		prefix: "uploads",
	}
}

func TestS3FileSystem_WriteReadDelete(t *testing.T) {
	ctx := context.Background()
	objects := newFakeObjects()
	fs := newTestFS(objects)

	p := fs.Join("interns", "i-1", "cv.pdf")
	require.NoError(t, fs.WriteFile(ctx, p, []byte("%PDF-1.4")))
	assert.Contains(t, objects.objects, "uploads/interns/i-1/cv.pdf")
	assert.Equal(t, "application/pdf", objects.types["uploads/interns/i-1/cv.pdf"])

	ok, err := fs.Exists(ctx, p)
	require.NoError(t, err)
	assert.True(t, ok)

	data, err := fs.ReadFile(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(data))

	require.NoError(t, fs.DeleteFile(ctx, p))
	ok, err = fs.Exists(ctx, p)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = fs.ReadFile(ctx, p)
	assert.True(t, errx.IsType(err, errx.TypeNotFound))
}

func TestS3FileSystem_WriteFailureIsUnavailable(t *testing.T) {
	objects := newFakeObjects()
	objects.failPut = errors.New("connection reset")
	fs := newTestFS(objects)

	err := fs.WriteFile(context.Background(), "interns/i-1/cv.pdf", []byte("x"))
	require.Error(t, err)
	assert.True(t, errx.IsType(err, errx.TypeUnavailable))
}

func TestS3FileSystem_DownloadURL(t *testing.T) {
	fs := newTestFS(newFakeObjects())

	url, err := fs.DownloadURL(context.Background(), "/interns/i-1/cv.pdf", 15*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, "https://files.test/uploads/interns/i-1/cv.pdf?ttl=15m0s", url)
}
