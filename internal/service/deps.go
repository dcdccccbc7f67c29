package service

import (
	"context"
	"time"

	"fotomuro/api/internal/models"
	"fotomuro/api/internal/repository"
	"fotomuro/api/internal/storage"
)

// The services consume narrow interfaces so the minio and pgx adapters
// can be swapped for fakes in tests. The concrete implementations live
// in internal/storage and internal/repository.

type BlobStore interface {
	Put(ctx context.Context, path string, data []byte, contentType string, overwrite bool) error
	Move(ctx context.Context, fromPath, toPath string) error
	Delete(ctx context.Context, path string) error
	List(ctx context.Context, prefix string, limit int) ([]storage.Entry, error)
	ListEventFolders(ctx context.Context, limit int) ([]string, error)
	SignedURL(ctx context.Context, path string, ttl time.Duration) (string, error)
}

type EventStore interface {
	Create(ctx context.Context, event models.Event) error
	GetByID(ctx context.Context, id string) (models.Event, error)
	GetByPrefix(ctx context.Context, pathPrefix string) (models.Event, error)
	List(ctx context.Context) ([]models.Event, error)
}

type ImageStore interface {
	Create(ctx context.Context, info models.ImageInfo) error
	GetByHash(ctx context.Context, hash string) (models.ImageInfo, error)
	DeleteByHash(ctx context.Context, hash string) (int64, error)
	ListByEvent(ctx context.Context, eventPrefix string) ([]models.ImageInfo, error)
}

type LogStore interface {
	Append(ctx context.Context, entry models.LogEntry) error
	List(ctx context.Context, filter repository.LogFilter) ([]models.LogEntry, error)
}

type ModeratorStore interface {
	Exists(ctx context.Context, email string) (bool, error)
}

type Cache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}
