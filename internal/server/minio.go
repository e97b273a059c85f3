package server

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

func normaliseEndpoint(raw string) (endpoint string, secure bool, err error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false, fmt.Errorf("empty endpoint")
	}

	// Accept either "minio:9000" or "http://minio:9000" / "https://minio:9000".
	if strings.Contains(raw, "://") {
		u, err := url.Parse(raw)
		if err != nil {
			return "", false, err
		}
		if u.Host == "" {
			return "", false, fmt.Errorf("invalid endpoint")
		}
		if u.Path != "" && u.Path != "/" {
			return "", false, fmt.Errorf("endpoint must not contain a path")
		}
		secure = (u.Scheme == "https")
		return u.Host, secure, nil
	}

	// No scheme provided, treat as host:port (insecure by default for local MinIO).
	return raw, false, nil
}

// S3BlobStore stores blobs in a MinIO/S3 bucket. It is the alternative
// to DirBlobStore for deployments that already run object storage;
// both satisfy the same Put/Get/Delete contract.
type S3BlobStore struct {
	client *minio.Client
	bucket string
}

// NewS3BlobStore connects to the configured endpoint and ensures the
// bucket exists.
func NewS3BlobStore(rawEndpoint, accessKey, secretKey, bucket string) (*S3BlobStore, error) {
	if rawEndpoint == "" || accessKey == "" || secretKey == "" || bucket == "" {
		return nil, fmt.Errorf("s3 configuration incomplete")
	}

	endpoint, secure, err := normaliseEndpoint(rawEndpoint)
	if err != nil {
		return nil, fmt.Errorf("bad s3 endpoint: %w", err)
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: secure,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("%w: bucket check: %v", ErrStorageUnavailable, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("%w: make bucket: %v", ErrStorageUnavailable, err)
		}
	}

	return &S3BlobStore{client: client, bucket: bucket}, nil
}

// NewS3BlobStoreFromEnv builds the store from RELAY_S3_* variables.
func NewS3BlobStoreFromEnv() (*S3BlobStore, error) {
	return NewS3BlobStore(
		os.Getenv("RELAY_S3_ENDPOINT"),
		os.Getenv("RELAY_S3_ACCESS_KEY"),
		os.Getenv("RELAY_S3_SECRET_KEY"),
		os.Getenv("RELAY_S3_BUCKET"),
	)
}

func (s *S3BlobStore) Put(key string, data []byte) error {
	if !validBlobKey(key) {
		return fmt.Errorf("invalid blob key %q", key)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{})
	if err != nil {
		return fmt.Errorf("%w: putobject: %v", ErrStorageUnavailable, err)
	}
	return nil
}

func (s *S3BlobStore) Delete(key string) error {
	if !validBlobKey(key) {
		return fmt.Errorf("invalid blob key %q", key)
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("%w: removeobject: %v", ErrStorageUnavailable, err)
	}
	return nil
}

func (s *S3BlobStore) Get(key string) ([]byte, error) {
	if !validBlobKey(key) {
		return nil, ErrBlobNotFound
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("%w: getobject: %v", ErrStorageUnavailable, err)
	}
	defer func() { _ = obj.Close() }()

	data, err := io.ReadAll(obj)
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, ErrBlobNotFound
		}
		return nil, fmt.Errorf("%w: read object: %v", ErrStorageUnavailable, err)
	}
	return data, nil
}
