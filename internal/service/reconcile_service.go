package service

import (
	"context"

	"github.com/rs/zerolog"

	"fotomuro/api/internal/models"
)

// ReconcileService is the periodic sweep over the accepted
// inconsistency windows: blob writes and metadata writes are not
// transactional, so orphan blobs and dangling rows can accumulate. The
// sweep only reports; fixing anything is an operator decision.
type ReconcileService struct {
	events EventStore
	images ImageStore
	store  BlobStore
	log    zerolog.Logger
}

func NewReconcileService(events EventStore, images ImageStore, store BlobStore, log zerolog.Logger) *ReconcileService {
	return &ReconcileService{
		events: events,
		images: images,
		store:  store,
		log:    log,
	}
}

func (s *ReconcileService) Run(ctx context.Context) error {
	events, err := s.events.List(ctx)
	if err != nil {
		return err
	}

	var orphanBlobs, danglingRows int
	for _, event := range events {
		blobs, err := s.collectHashes(ctx, event.PathPrefix)
		if err != nil {
			return err
		}

		rows, err := s.images.ListByEvent(ctx, event.PathPrefix)
		if err != nil {
			return err
		}

		recorded := make(map[string]struct{}, len(rows))
		for _, row := range rows {
			recorded[row.Hash] = struct{}{}
			if _, ok := blobs[row.Hash]; !ok {
				danglingRows++
				s.log.Warn().
					Str("hash", row.Hash).
					Str("event", event.PathPrefix).
					Msg("metadata row has no blob in any lifecycle folder")
			}
		}

		for hash := range blobs {
			if _, ok := recorded[hash]; !ok {
				orphanBlobs++
				s.log.Warn().
					Str("hash", hash).
					Str("event", event.PathPrefix).
					Msg("blob has no metadata row")
			}
		}
	}

	s.log.Info().
		Int("events", len(events)).
		Int("orphan_blobs", orphanBlobs).
		Int("dangling_rows", danglingRows).
		Msg("reconciliation sweep finished")
	return nil
}

func (s *ReconcileService) collectHashes(ctx context.Context, eventPrefix string) (map[string]struct{}, error) {
	hashes := make(map[string]struct{}, 64)
	for _, state := range []models.Lifecycle{models.LifecyclePending, models.LifecycleApproved, models.LifecycleRejected} {
		entries, err := s.store.List(ctx, folderPath(eventPrefix, string(state)), listLimit)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			if e.IsFolder || !isImageFile(e.Name) {
				continue
			}
			hashes[hashStem(e.Name)] = struct{}{}
		}
	}
	return hashes, nil
}
