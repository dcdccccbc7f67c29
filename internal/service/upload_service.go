package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"fotomuro/api/internal/apperr"
	"fotomuro/api/internal/config"
	"fotomuro/api/internal/media"
	"fotomuro/api/internal/media/sniffer"
	"fotomuro/api/internal/models"
	"fotomuro/api/internal/repository"
)

var (
	ErrUnsupportedType = apperr.New(apperr.Validation, "unsupported image type")
	ErrTooLarge        = apperr.New(apperr.Validation, "file too large")
	ErrDuplicateImage  = apperr.New(apperr.Conflict, "image already uploaded")
	ErrInvalidEvent    = apperr.New(apperr.Validation, "invalid or unregistered event")
)

type SubmitInput struct {
	EventID      string
	Data         []byte
	DeclaredMIME string
	Description  string
}

type SubmitResult struct {
	Filename string
	Event    models.Event
	Resized  bool
}

// UploadService runs the intake pipeline: validate, resize when needed,
// hash, dedup, transcode, store blob pair, record metadata, audit. The
// blob+blob+record sequence is not transactional; a failure partway
// through is surfaced and earlier sub-steps are not rolled back beyond
// a best-effort cleanup of the pending blob.
type UploadService struct {
	events EventStore
	images ImageStore
	logs   LogStore
	store  BlobStore
	cfg    *config.AppConfig
	log    zerolog.Logger
}

func NewUploadService(events EventStore, images ImageStore, logs LogStore, store BlobStore, cfg *config.AppConfig, log zerolog.Logger) *UploadService {
	return &UploadService{
		events: events,
		images: images,
		logs:   logs,
		store:  store,
		cfg:    cfg,
		log:    log,
	}
}

func (s *UploadService) Submit(ctx context.Context, input SubmitInput) (SubmitResult, error) {
	if len(input.Data) == 0 {
		return SubmitResult{}, apperr.New(apperr.Validation, "no file received")
	}
	if input.EventID == "" {
		return SubmitResult{}, apperr.New(apperr.Validation, "no event selected")
	}
	if input.Description == "" {
		return SubmitResult{}, apperr.New(apperr.Validation, "description required")
	}
	if int64(len(input.Data)) > s.cfg.Upload.MaxBytes {
		return SubmitResult{}, ErrTooLarge
	}

	head := input.Data
	if len(head) > 512 {
		head = head[:512]
	}
	sniffed, err := sniffer.DetectHead(head)
	if err != nil {
		return SubmitResult{}, ErrUnsupportedType
	}
	if input.DeclaredMIME != "" && input.DeclaredMIME != sniffed.MIME {
		return SubmitResult{}, ErrUnsupportedType
	}

	working, err := media.Analyze(input.Data, s.cfg.Upload)
	if err != nil {
		return SubmitResult{}, apperr.Wrap(apperr.Validation, "unreadable image", err)
	}

	event, err := s.events.GetByID(ctx, input.EventID)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return SubmitResult{}, ErrInvalidEvent
		}
		return SubmitResult{}, apperr.Wrap(apperr.Dependency, "resolve event", err)
	}

	// Fast-path dedup against the metadata table. The authoritative
	// gate is the no-overwrite put below; two concurrent uploads of the
	// same bytes can both pass this check and the loser fails there.
	if _, err := s.images.GetByHash(ctx, working.Hash); err == nil {
		return SubmitResult{}, ErrDuplicateImage
	} else if !errors.Is(err, repository.ErrImageNotFound) {
		return SubmitResult{}, apperr.Wrap(apperr.Dependency, "duplicate check", err)
	}

	full, thumb, err := working.Encode(s.cfg.Upload)
	if err != nil {
		return SubmitResult{}, apperr.Wrap(apperr.Dependency, "transcode", err)
	}

	filename := working.Hash + ".webp"
	pendingPath := blobPath(event.PathPrefix, string(models.LifecyclePending), filename)

	if err := s.store.Put(ctx, pendingPath, full, "image/webp", false); err != nil {
		if apperr.IsKind(err, apperr.Conflict) {
			return SubmitResult{}, ErrDuplicateImage
		}
		return SubmitResult{}, err
	}

	if err := s.store.Put(ctx, thumbPath(event.PathPrefix, filename), thumb, "image/webp", false); err != nil {
		if cleanupErr := s.store.Delete(ctx, pendingPath); cleanupErr != nil {
			s.log.Warn().Err(cleanupErr).Str("path", pendingPath).Msg("cleanup of pending blob failed")
		}
		return SubmitResult{}, err
	}

	if err := s.images.Create(ctx, models.ImageInfo{
		Hash:        working.Hash,
		EventPrefix: event.PathPrefix,
		Description: input.Description,
	}); err != nil {
		// Orphan blob pair with no row: known inconsistency window,
		// left for the reconciliation sweep to report.
		s.log.Error().Err(err).Str("hash", working.Hash).Msg("image metadata insert failed after blob writes")
		return SubmitResult{}, apperr.Wrap(apperr.Dependency, "save image metadata", err)
	}

	if err := s.logs.Append(ctx, models.LogEntry{
		Filename:  filename,
		Action:    models.ActionUploadImage,
		From:      folderPath(event.PathPrefix, string(models.LifecyclePending)),
		To:        "n/a",
		Device:    "client",
		Browser:   "n/a",
		OS:        "n/a",
		Location:  "n/a",
		Evento:    event.PathPrefix,
		Moderator: models.ModeratorAnonymous,
	}); err != nil {
		s.log.Error().Err(err).Str("filename", filename).Msg("audit append failed for upload")
	}

	s.log.Info().
		Str("filename", filename).
		Str("event", event.PathPrefix).
		Bool("resized", working.Resized).
		Int("width", working.Width).
		Int("height", working.Height).
		Msg("image uploaded, awaiting moderation")

	return SubmitResult{
		Filename: filename,
		Event:    event,
		Resized:  working.Resized,
	}, nil
}
