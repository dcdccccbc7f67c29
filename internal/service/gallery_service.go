package service

import (
	"context"
	"strings"

	"fotomuro/api/internal/apperr"
	"fotomuro/api/internal/config"
	"fotomuro/api/internal/models"
	"fotomuro/api/internal/repository"
)

const listLimit = 1000

// ImageRef points at one stored image for display: the filename plus
// the folder to fetch it (or its thumbnail) from.
type ImageRef struct {
	Filename string `json:"filename"`
	Folder   string `json:"folder"`
}

// GalleryService is the read side: per-event/state listings for the
// moderation panel and the public gallery, signed browsing URLs, and
// the audit trail view. It never mutates anything.
type GalleryService struct {
	store BlobStore
	logs  LogStore
	cfg   *config.AppConfig
}

func NewGalleryService(store BlobStore, logs LogStore, cfg *config.AppConfig) *GalleryService {
	return &GalleryService{
		store: store,
		logs:  logs,
		cfg:   cfg,
	}
}

// ListImages enumerates the images of one event and state. With no
// event given only the approved state is served, flattened across every
// event folder, which is what the public gallery renders.
func (s *GalleryService) ListImages(ctx context.Context, evento, state string) ([]ImageRef, error) {
	if !models.ValidLifecycle(state) {
		return nil, apperr.New(apperr.Validation, "invalid state")
	}

	if evento == "" {
		if models.Lifecycle(state) != models.LifecycleApproved {
			return nil, apperr.New(apperr.Validation, "event required for this state")
		}
		folders, err := s.store.ListEventFolders(ctx, 100)
		if err != nil {
			return nil, err
		}
		refs := make([]ImageRef, 0, 64)
		for _, folder := range folders {
			sub, err := s.listFolder(ctx, folderPath(folder, state))
			if err != nil {
				return nil, err
			}
			refs = append(refs, sub...)
		}
		return refs, nil
	}

	if !validSegment(evento) {
		return nil, apperr.New(apperr.Validation, "invalid event")
	}
	return s.listFolder(ctx, folderPath(evento, state))
}

func (s *GalleryService) listFolder(ctx context.Context, folder string) ([]ImageRef, error) {
	entries, err := s.store.List(ctx, folder, listLimit)
	if err != nil {
		return nil, err
	}

	refs := make([]ImageRef, 0, len(entries))
	for _, e := range entries {
		if e.IsFolder || !isImageFile(e.Name) {
			continue
		}
		refs = append(refs, ImageRef{Filename: e.Name, Folder: folder})
	}
	return refs, nil
}

// SignedURL produces a time-limited read URL for one blob. The folder
// may span several segments ("demo2025/approved") but must stay inside
// the bucket.
func (s *GalleryService) SignedURL(ctx context.Context, folder, filename string) (string, error) {
	if folder == "" || !validSegment(filename) {
		return "", apperr.New(apperr.Validation, "missing folder or filename")
	}
	for _, segment := range strings.Split(folder, "/") {
		if !validSegment(segment) {
			return "", apperr.New(apperr.Validation, "invalid folder")
		}
	}

	return s.store.SignedURL(ctx, folder+"/"+filename, s.cfg.Security.SignedURLTTL)
}

// Logs returns the filtered audit trail, newest first.
func (s *GalleryService) Logs(ctx context.Context, filter repository.LogFilter) ([]models.LogEntry, error) {
	entries, err := s.logs.List(ctx, filter)
	if err != nil {
		return nil, apperr.Wrap(apperr.Dependency, "list logs", err)
	}
	return entries, nil
}
