package storage

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"fotomuro/api/internal/apperr"
	"fotomuro/api/internal/config"
)

// Entry is one listing result. Folder entries are prefix placeholders
// the backend synthesizes for non-recursive listings; they carry no
// blob of their own.
type Entry struct {
	Name     string
	Size     int64
	IsFolder bool
}

// ObjectStore wraps the bucket holding every event namespace. All paths
// are "<prefix>/<filename>" inside that single bucket.
type ObjectStore struct {
	client *minio.Client
	bucket string
}

func NewObjectStore(cfg config.StorageConfig) (*ObjectStore, error) {
	endpoint := cfg.Endpoint
	useSSL := cfg.UseSSL

	if strings.HasPrefix(endpoint, "http") {
		u, err := url.Parse(endpoint)
		if err != nil {
			return nil, fmt.Errorf("parse endpoint: %w", err)
		}
		endpoint = u.Host
		useSSL = u.Scheme == "https"
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: useSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("init minio: %w", err)
	}

	return &ObjectStore{
		client: client,
		bucket: cfg.Bucket,
	}, nil
}

func (s *ObjectStore) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("bucket exists %s: %w", s.bucket, err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("create bucket %s: %w", s.bucket, err)
		}
	}
	return nil
}

// Put stores data at path. With overwrite disabled an occupied path is a
// Conflict. The S3 API offers no conditional create here, so the check
// is a stat followed by the put; the residual window is accepted and
// callers treat the metadata-level dedup as the fast path only.
func (s *ObjectStore) Put(ctx context.Context, path string, data []byte, contentType string, overwrite bool) error {
	if !overwrite {
		occupied, err := s.exists(ctx, path)
		if err != nil {
			return apperr.Wrap(apperr.Dependency, "stat object", err)
		}
		if occupied {
			return apperr.New(apperr.Conflict, fmt.Sprintf("object already exists: %s", path))
		}
	}

	_, err := s.client.PutObject(ctx, s.bucket, path, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return apperr.Wrap(apperr.Dependency, "put object", err)
	}
	return nil
}

// Move renames a blob via copy+remove, the only rename S3 offers. The
// source going missing mid-flight surfaces as NotFound; an occupied
// destination as Conflict.
func (s *ObjectStore) Move(ctx context.Context, fromPath, toPath string) error {
	occupied, err := s.exists(ctx, toPath)
	if err != nil {
		return apperr.Wrap(apperr.Dependency, "stat destination", err)
	}
	if occupied {
		return apperr.New(apperr.Conflict, fmt.Sprintf("destination already exists: %s", toPath))
	}

	src := minio.CopySrcOptions{Bucket: s.bucket, Object: fromPath}
	dst := minio.CopyDestOptions{Bucket: s.bucket, Object: toPath}

	if _, err := s.client.CopyObject(ctx, dst, src); err != nil {
		if isNoSuchKey(err) {
			return apperr.New(apperr.NotFound, fmt.Sprintf("object not found: %s", fromPath))
		}
		return apperr.Wrap(apperr.Dependency, "copy object", err)
	}

	if err := s.client.RemoveObject(ctx, s.bucket, fromPath, minio.RemoveObjectOptions{}); err != nil {
		// The copy landed; a failed remove leaves a duplicate pair for
		// the reconciliation sweep to report.
		return apperr.Wrap(apperr.Dependency, "remove source after copy", err)
	}
	return nil
}

// Delete removes a blob. S3 deletes are silently idempotent, so an
// explicit stat keeps the NotFound contract; callers cleaning up
// best-effort treat that as non-fatal.
func (s *ObjectStore) Delete(ctx context.Context, path string) error {
	occupied, err := s.exists(ctx, path)
	if err != nil {
		return apperr.Wrap(apperr.Dependency, "stat object", err)
	}
	if !occupied {
		return apperr.New(apperr.NotFound, fmt.Sprintf("object not found: %s", path))
	}

	if err := s.client.RemoveObject(ctx, s.bucket, path, minio.RemoveObjectOptions{}); err != nil {
		return apperr.Wrap(apperr.Dependency, "remove object", err)
	}
	return nil
}

// List enumerates the direct children of prefix. Sub-prefixes come back
// as folder entries, blobs as files with their size.
func (s *ObjectStore) List(ctx context.Context, prefix string, limit int) ([]Entry, error) {
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}

	entries := make([]Entry, 0, 16)
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: false,
	}) {
		if obj.Err != nil {
			return nil, apperr.Wrap(apperr.Dependency, "list objects", obj.Err)
		}

		name := strings.TrimPrefix(obj.Key, prefix)
		if folder := strings.HasSuffix(name, "/"); folder {
			entries = append(entries, Entry{Name: strings.TrimSuffix(name, "/"), IsFolder: true})
		} else {
			entries = append(entries, Entry{Name: name, Size: obj.Size})
		}

		if limit > 0 && len(entries) >= limit {
			break
		}
	}
	return entries, nil
}

// ListEventFolders returns the top-level event prefixes. An event folder
// is any root entry without a file extension and without blob metadata.
func (s *ObjectStore) ListEventFolders(ctx context.Context, limit int) ([]string, error) {
	entries, err := s.List(ctx, "", limit)
	if err != nil {
		return nil, err
	}

	folders := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsFolder && !strings.Contains(e.Name, ".") {
			folders = append(folders, e.Name)
		}
	}
	return folders, nil
}

// SignedURL produces a time-limited read URL for an existing blob.
func (s *ObjectStore) SignedURL(ctx context.Context, path string, ttl time.Duration) (string, error) {
	occupied, err := s.exists(ctx, path)
	if err != nil {
		return "", apperr.Wrap(apperr.Dependency, "stat object", err)
	}
	if !occupied {
		return "", apperr.New(apperr.NotFound, fmt.Sprintf("object not found: %s", path))
	}

	u, err := s.client.PresignedGetObject(ctx, s.bucket, path, ttl, url.Values{})
	if err != nil {
		return "", apperr.Wrap(apperr.Dependency, "presign url", err)
	}
	return u.String(), nil
}

func (s *ObjectStore) exists(ctx context.Context, path string) (bool, error) {
	_, err := s.client.StatObject(ctx, s.bucket, path, minio.StatObjectOptions{})
	if err != nil {
		if isNoSuchKey(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func isNoSuchKey(err error) bool {
	resp := minio.ToErrorResponse(err)
	return resp.Code == "NoSuchKey" || resp.StatusCode == 404
}
