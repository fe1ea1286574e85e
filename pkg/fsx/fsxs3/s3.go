package fsxs3

import (
	"bytes"
	"context"
	"errors"
	"io"
	"path"
	"strings"
	"time"

	"github.com/Abraxas-365/prointern/pkg/errx"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

type objectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, opts ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	HeadObject(ctx context.Context, in *s3.HeadObjectInput, opts ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, opts ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3FileSystem stores files under a key prefix in one bucket
type S3FileSystem struct {
	client  objectAPI
	presign func(ctx context.Context, in *s3.GetObjectInput, ttl time.Duration) (string, error)
	bucket  string
	prefix  string
}

// NewS3FileSystem creates a file system backed by the given bucket
func NewS3FileSystem(client *s3.Client, bucket, prefix string) *S3FileSystem {
	presigner := s3.NewPresignClient(client)
	return &S3FileSystem{
		client: client,
		presign: func(ctx context.Context, in *s3.GetObjectInput, ttl time.Duration) (string, error) {
			req, err := presigner.PresignGetObject(ctx, in, s3.WithPresignExpires(ttl))
			if err != nil {
				return "", err
			}
			return req.URL, nil
		},
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
	}
}

func (fs *S3FileSystem) key(p string) string {
	p = strings.TrimLeft(p, "/")
	if fs.prefix == "" {
		return p
	}
	return fs.prefix + "/" + p
}

func (fs *S3FileSystem) Join(parts ...string) string {
	return path.Join(parts...)
}

func (fs *S3FileSystem) WriteFile(ctx context.Context, p string, data []byte) error {
	return fs.WriteFileStream(ctx, p, bytes.NewReader(data))
}

func (fs *S3FileSystem) WriteFileStream(ctx context.Context, p string, r io.Reader) error {
	_, err := fs.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(fs.bucket),
		Key:         aws.String(fs.key(p)),
		Body:        r,
		ContentType: aws.String(contentType(p)),
	})
	if err != nil {
		return errx.Wrap(err, "failed to upload file", errx.TypeUnavailable).WithDetail("path", p)
	}
	return nil
}

func (fs *S3FileSystem) ReadFile(ctx context.Context, p string) ([]byte, error) {
	out, err := fs.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(fs.bucket),
		Key:    aws.String(fs.key(p)),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, errx.New("file not found", errx.TypeNotFound).WithDetail("path", p)
		}
		return nil, errx.Wrap(err, "failed to read file", errx.TypeUnavailable).WithDetail("path", p)
	}
	defer out.Body.Close()
	return io.ReadAll(out.Body)
}

func (fs *S3FileSystem) Exists(ctx context.Context, p string) (bool, error) {
	_, err := fs.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(fs.bucket),
		Key:    aws.String(fs.key(p)),
	})
	if err == nil {
		return true, nil
	}
	if isNotFound(err) {
		return false, nil
	}
	return false, errx.Wrap(err, "failed to stat file", errx.TypeUnavailable).WithDetail("path", p)
}

func (fs *S3FileSystem) DeleteFile(ctx context.Context, p string) error {
	_, err := fs.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(fs.bucket),
		Key:    aws.String(fs.key(p)),
	})
	if err != nil {
		return errx.Wrap(err, "failed to delete file", errx.TypeUnavailable).WithDetail("path", p)
	}
	return nil
}

func (fs *S3FileSystem) DownloadURL(ctx context.Context, p string, ttl time.Duration) (string, error) {
	url, err := fs.presign(ctx, &s3.GetObjectInput{
		Bucket: aws.String(fs.bucket),
		Key:    aws.String(fs.key(p)),
	}, ttl)
	if err != nil {
		return "", errx.Wrap(err, "failed to presign download", errx.TypeUnavailable).WithDetail("path", p)
	}
	return url, nil
}

func isNotFound(err error) bool {
	var nsk *types.NoSuchKey
	var nf *types.NotFound
	return errors.As(err, &nsk) || errors.As(err, &nf)
}

func contentType(p string) string {
	switch strings.ToLower(path.Ext(p)) {
	case ".pdf":
		return "application/pdf"
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	default:
		return "application/octet-stream"
	}
}
