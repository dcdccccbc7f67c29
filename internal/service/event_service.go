package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/rs/zerolog"

	"fotomuro/api/internal/apperr"
	"fotomuro/api/internal/ids"
	"fotomuro/api/internal/models"
	"fotomuro/api/internal/repository"
)

const (
	eventsCacheKey = "events:all"
	eventsCacheTTL = 5 * time.Minute
)

var prefixPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

// EventService creates and lists event namespaces. Creating an event
// materializes the four lifecycle folders by writing a placeholder blob
// into each, then records the row; the listing is cache-friendly and
// may be served a few minutes stale.
type EventService struct {
	events EventStore
	store  BlobStore
	cache  Cache
	log    zerolog.Logger
}

func NewEventService(events EventStore, store BlobStore, cache Cache, log zerolog.Logger) *EventService {
	return &EventService{
		events: events,
		store:  store,
		cache:  cache,
		log:    log,
	}
}

func (s *EventService) Create(ctx context.Context, name, pathPrefix string) (models.Event, error) {
	if name == "" || pathPrefix == "" {
		return models.Event{}, apperr.New(apperr.Validation, "missing name or path prefix")
	}
	if !prefixPattern.MatchString(pathPrefix) {
		return models.Event{}, apperr.New(apperr.Validation, "path prefix must be lowercase letters, digits, - or _")
	}

	if _, err := s.events.GetByPrefix(ctx, pathPrefix); err == nil {
		return models.Event{}, apperr.New(apperr.Conflict, fmt.Sprintf("an event with prefix %q already exists", pathPrefix))
	} else if !errors.Is(err, repository.ErrEventNotFound) {
		return models.Event{}, apperr.Wrap(apperr.Dependency, "check event prefix", err)
	}

	for _, folder := range models.LifecycleFolders {
		target := blobPath(pathPrefix, folder, PlaceholderName)
		err := s.store.Put(ctx, target, []byte{}, "image/webp", false)
		if err == nil {
			continue
		}
		if apperr.IsKind(err, apperr.Conflict) {
			// Leftover from an earlier half-finished create; the folder
			// already exists, which is what we wanted.
			s.log.Warn().Str("path", target).Msg("placeholder already present")
			continue
		}
		s.log.Warn().Err(err).Str("path", target).Msg("placeholder write failed, partial folders may remain")
		return models.Event{}, apperr.Wrap(apperr.Dependency, fmt.Sprintf("create folder %s", folder), err)
	}

	event := models.Event{
		ID:         ids.New(),
		Name:       name,
		PathPrefix: pathPrefix,
	}
	if err := s.events.Create(ctx, event); err != nil {
		return models.Event{}, apperr.Wrap(apperr.Dependency, "register event", err)
	}

	if s.cache != nil {
		if err := s.cache.Del(ctx, eventsCacheKey); err != nil {
			s.log.Warn().Err(err).Msg("events cache invalidation failed")
		}
	}

	s.log.Info().Str("name", name).Str("prefix", pathPrefix).Msg("event created")
	return event, nil
}

// List returns all events, alphabetical by name, via a short-lived
// cache.
func (s *EventService) List(ctx context.Context) ([]models.Event, error) {
	if s.cache != nil {
		if raw, hit, err := s.cache.Get(ctx, eventsCacheKey); err == nil && hit {
			var events []models.Event
			if err := json.Unmarshal([]byte(raw), &events); err == nil {
				return events, nil
			}
		} else if err != nil {
			s.log.Warn().Err(err).Msg("events cache read failed")
		}
	}

	events, err := s.events.List(ctx)
	if err != nil {
		return nil, apperr.Wrap(apperr.Dependency, "list events", err)
	}

	if s.cache != nil {
		if raw, err := json.Marshal(events); err == nil {
			if err := s.cache.Set(ctx, eventsCacheKey, string(raw), eventsCacheTTL); err != nil {
				s.log.Warn().Err(err).Msg("events cache write failed")
			}
		}
	}

	return events, nil
}
