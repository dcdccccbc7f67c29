package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"fotomuro/api/internal/apperr"
	"fotomuro/api/internal/models"
)

// ModerationService moves images between lifecycle folders. The blob's
// folder is the state; a transition is a single blob move plus one
// audit row. Moves and deletes are not serialized against concurrent
// moderators: a vanished source surfaces as NotFound, an occupied
// destination as Conflict, never as silent corruption.
type ModerationService struct {
	images ImageStore
	logs   LogStore
	store  BlobStore
	log    zerolog.Logger
}

func NewModerationService(images ImageStore, logs LogStore, store BlobStore, log zerolog.Logger) *ModerationService {
	return &ModerationService{
		images: images,
		logs:   logs,
		store:  store,
		log:    log,
	}
}

// Approve moves a pending image to approved.
func (s *ModerationService) Approve(ctx context.Context, moderator, filename, evento string) error {
	return s.transition(ctx, moderator, filename, evento, models.LifecyclePending, models.LifecycleApproved)
}

// Reject moves a pending image to rejected.
func (s *ModerationService) Reject(ctx context.Context, moderator, filename, evento string) error {
	return s.transition(ctx, moderator, filename, evento, models.LifecyclePending, models.LifecycleRejected)
}

// Move is the generalized transition: un-rejecting into approved or
// un-approving into rejected, depending on the target.
func (s *ModerationService) Move(ctx context.Context, moderator, filename, evento string, from, to models.Lifecycle) error {
	return s.transition(ctx, moderator, filename, evento, from, to)
}

func (s *ModerationService) transition(ctx context.Context, moderator, filename, evento string, from, to models.Lifecycle) error {
	if err := checkActor(moderator); err != nil {
		return err
	}
	if err := checkImageParams(filename, evento); err != nil {
		return err
	}
	if !models.ValidLifecycle(string(from)) || !models.ValidLifecycle(string(to)) {
		return apperr.New(apperr.Validation, "invalid lifecycle folder")
	}
	if from == to {
		return apperr.New(apperr.Validation, "source and destination are the same")
	}

	srcPath := blobPath(evento, string(from), filename)
	dstPath := blobPath(evento, string(to), filename)

	if err := s.store.Move(ctx, srcPath, dstPath); err != nil {
		return err
	}

	action := models.ActionMoveToRejected
	if to == models.LifecycleApproved {
		action = models.ActionMoveToApproved
	}

	s.audit(ctx, models.LogEntry{
		Filename:  filename,
		Action:    action,
		From:      folderPath(evento, string(from)),
		To:        folderPath(evento, string(to)),
		Device:    "server",
		Browser:   "n/a",
		OS:        "n/a",
		Location:  "n/a",
		Evento:    evento,
		Moderator: moderator,
	})

	s.log.Info().
		Str("filename", filename).
		Str("from", srcPath).
		Str("to", dstPath).
		Str("moderator", moderator).
		Msg("image moved")
	return nil
}

// Delete removes an image for good: full blob, thumbnail, metadata row.
// The three sub-steps are best-effort and independent; an already
// missing thumbnail or metadata row does not fail the delete, but a
// store or database error on the later steps does, so the caller knows
// to retry instead of believing the deletion completed.
func (s *ModerationService) Delete(ctx context.Context, moderator, filename, evento, from string) error {
	if err := checkActor(moderator); err != nil {
		return err
	}
	if err := checkImageParams(filename, evento); err != nil {
		return err
	}

	folders := []string{from}
	if from == "" {
		folders = []string{
			string(models.LifecycleApproved),
			string(models.LifecycleRejected),
			string(models.LifecyclePending),
		}
	} else if !models.ValidLifecycle(from) {
		return apperr.New(apperr.Validation, "invalid lifecycle folder")
	}

	foundIn := ""
	for _, folder := range folders {
		err := s.store.Delete(ctx, blobPath(evento, folder, filename))
		if err == nil {
			foundIn = folder
			break
		}
		if !apperr.IsKind(err, apperr.NotFound) {
			return err
		}
	}
	if foundIn == "" {
		return apperr.New(apperr.NotFound, fmt.Sprintf("image not found: %s", filename))
	}

	if err := s.store.Delete(ctx, thumbPath(evento, filename)); err != nil {
		if !apperr.IsKind(err, apperr.NotFound) {
			return apperr.Wrap(apperr.Dependency, "delete thumbnail", err)
		}
		s.log.Debug().Str("filename", filename).Msg("thumbnail already absent")
	}

	if _, err := s.images.DeleteByHash(ctx, hashStem(filename)); err != nil {
		// The blob is gone but the row remains; failing here lets the
		// moderator retry until the dangling row is cleared.
		return apperr.Wrap(apperr.Dependency, "delete image metadata", err)
	}

	s.audit(ctx, models.LogEntry{
		Filename:  filename,
		Action:    models.ActionDeleteImage,
		From:      folderPath(evento, foundIn),
		To:        "none",
		Device:    "server",
		Browser:   "n/a",
		OS:        "n/a",
		Location:  "n/a",
		Evento:    evento,
		Moderator: moderator,
	})

	s.log.Info().
		Str("filename", filename).
		Str("from", foundIn).
		Str("moderator", moderator).
		Msg("image deleted")
	return nil
}

// audit appends one log row. A failed append never undoes the completed
// transition; the gap itself gets logged so it stays visible.
func (s *ModerationService) audit(ctx context.Context, entry models.LogEntry) {
	if err := s.logs.Append(ctx, entry); err != nil {
		s.log.Error().
			Err(err).
			Str("filename", entry.Filename).
			Str("action", entry.Action).
			Msg("audit append failed")
	}
}

func checkActor(moderator string) error {
	if moderator == "" {
		return apperr.New(apperr.Unauthorized, "no session")
	}
	return nil
}

func checkImageParams(filename, evento string) error {
	if !validSegment(filename) {
		return apperr.New(apperr.Validation, "missing or invalid filename")
	}
	if !validSegment(evento) {
		return apperr.New(apperr.Validation, "missing or invalid event")
	}
	return nil
}
