package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"fotomuro/api/internal/apperr"
	"fotomuro/api/internal/models"
	"fotomuro/api/internal/repository"
	"fotomuro/api/internal/storage"
)

// fakeBlobStore mimics the bucket semantics the services rely on:
// create-without-overwrite, copy+remove moves, stat-checked deletes and
// folder-aware listings. Call counters let tests assert that failed
// operations touched nothing.
type fakeBlobStore struct {
	objects map[string][]byte
	puts    int
	moves   int
	deletes int

	failPutPaths  map[string]error
	failThumbPuts bool
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{
		objects:      make(map[string][]byte),
		failPutPaths: make(map[string]error),
	}
}

func (f *fakeBlobStore) Put(_ context.Context, path string, data []byte, _ string, overwrite bool) error {
	if err, ok := f.failPutPaths[path]; ok {
		return err
	}
	if f.failThumbPuts && strings.Contains(path, "/thumbnails/") {
		return apperr.New(apperr.Dependency, "thumbnail write refused")
	}
	if _, exists := f.objects[path]; exists && !overwrite {
		return apperr.New(apperr.Conflict, fmt.Sprintf("object already exists: %s", path))
	}
	f.puts++
	f.objects[path] = append([]byte(nil), data...)
	return nil
}

func (f *fakeBlobStore) Move(_ context.Context, fromPath, toPath string) error {
	if _, exists := f.objects[toPath]; exists {
		return apperr.New(apperr.Conflict, fmt.Sprintf("destination already exists: %s", toPath))
	}
	data, exists := f.objects[fromPath]
	if !exists {
		return apperr.New(apperr.NotFound, fmt.Sprintf("object not found: %s", fromPath))
	}
	f.moves++
	f.objects[toPath] = data
	delete(f.objects, fromPath)
	return nil
}

func (f *fakeBlobStore) Delete(_ context.Context, path string) error {
	if _, exists := f.objects[path]; !exists {
		return apperr.New(apperr.NotFound, fmt.Sprintf("object not found: %s", path))
	}
	f.deletes++
	delete(f.objects, path)
	return nil
}

func (f *fakeBlobStore) List(_ context.Context, prefix string, _ int) ([]storage.Entry, error) {
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}

	seenFolders := make(map[string]struct{})
	var entries []storage.Entry
	for key, data := range f.objects {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		rest := strings.TrimPrefix(key, prefix)
		if idx := strings.Index(rest, "/"); idx >= 0 {
			folder := rest[:idx]
			if _, ok := seenFolders[folder]; !ok {
				seenFolders[folder] = struct{}{}
				entries = append(entries, storage.Entry{Name: folder, IsFolder: true})
			}
			continue
		}
		entries = append(entries, storage.Entry{Name: rest, Size: int64(len(data))})
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}

func (f *fakeBlobStore) ListEventFolders(ctx context.Context, limit int) ([]string, error) {
	entries, err := f.List(ctx, "", limit)
	if err != nil {
		return nil, err
	}
	var folders []string
	for _, e := range entries {
		if e.IsFolder && !strings.Contains(e.Name, ".") {
			folders = append(folders, e.Name)
		}
	}
	return folders, nil
}

func (f *fakeBlobStore) SignedURL(_ context.Context, path string, _ time.Duration) (string, error) {
	if _, exists := f.objects[path]; !exists {
		return "", apperr.New(apperr.NotFound, fmt.Sprintf("object not found: %s", path))
	}
	return "https://signed.example/" + path, nil
}

func (f *fakeBlobStore) has(path string) bool {
	_, ok := f.objects[path]
	return ok
}

type fakeEventStore struct {
	byID     map[string]models.Event
	byPrefix map[string]models.Event
}

func newFakeEventStore() *fakeEventStore {
	return &fakeEventStore{
		byID:     make(map[string]models.Event),
		byPrefix: make(map[string]models.Event),
	}
}

func (f *fakeEventStore) Create(_ context.Context, event models.Event) error {
	f.byID[event.ID] = event
	f.byPrefix[event.PathPrefix] = event
	return nil
}

func (f *fakeEventStore) GetByID(_ context.Context, id string) (models.Event, error) {
	event, ok := f.byID[id]
	if !ok {
		return models.Event{}, repository.ErrEventNotFound
	}
	return event, nil
}

func (f *fakeEventStore) GetByPrefix(_ context.Context, pathPrefix string) (models.Event, error) {
	event, ok := f.byPrefix[pathPrefix]
	if !ok {
		return models.Event{}, repository.ErrEventNotFound
	}
	return event, nil
}

func (f *fakeEventStore) List(_ context.Context) ([]models.Event, error) {
	events := make([]models.Event, 0, len(f.byID))
	for _, event := range f.byID {
		events = append(events, event)
	}
	sort.Slice(events, func(i, j int) bool { return events[i].Name < events[j].Name })
	return events, nil
}

type fakeImageStore struct {
	rows      map[string]models.ImageInfo
	createErr error
}

func newFakeImageStore() *fakeImageStore {
	return &fakeImageStore{rows: make(map[string]models.ImageInfo)}
}

func (f *fakeImageStore) Create(_ context.Context, info models.ImageInfo) error {
	if f.createErr != nil {
		return f.createErr
	}
	info.CreatedAt = time.Now()
	f.rows[info.Hash] = info
	return nil
}

func (f *fakeImageStore) GetByHash(_ context.Context, hash string) (models.ImageInfo, error) {
	info, ok := f.rows[hash]
	if !ok {
		return models.ImageInfo{}, repository.ErrImageNotFound
	}
	return info, nil
}

func (f *fakeImageStore) DeleteByHash(_ context.Context, hash string) (int64, error) {
	if _, ok := f.rows[hash]; !ok {
		return 0, nil
	}
	delete(f.rows, hash)
	return 1, nil
}

func (f *fakeImageStore) ListByEvent(_ context.Context, eventPrefix string) ([]models.ImageInfo, error) {
	var infos []models.ImageInfo
	for _, info := range f.rows {
		if info.EventPrefix == eventPrefix {
			infos = append(infos, info)
		}
	}
	return infos, nil
}

type fakeLogStore struct {
	entries []models.LogEntry
}

func (f *fakeLogStore) Append(_ context.Context, entry models.LogEntry) error {
	entry.ID = int64(len(f.entries) + 1)
	entry.Timestamp = time.Now()
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeLogStore) List(_ context.Context, filter repository.LogFilter) ([]models.LogEntry, error) {
	var out []models.LogEntry
	for i := len(f.entries) - 1; i >= 0; i-- {
		e := f.entries[i]
		if filter.Evento != "" && e.Evento != filter.Evento {
			continue
		}
		if filter.Moderator != "" && e.Moderator != filter.Moderator {
			continue
		}
		if filter.Action != "" && e.Action != filter.Action {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (f *fakeLogStore) withAction(action string) []models.LogEntry {
	var out []models.LogEntry
	for _, e := range f.entries {
		if e.Action == action {
			out = append(out, e)
		}
	}
	return out
}

func logEntryFor(filename, action, moderator, evento string) models.LogEntry {
	return models.LogEntry{
		Filename:  filename,
		Action:    action,
		From:      evento + "/pending",
		To:        evento + "/approved",
		Device:    "server",
		Browser:   "n/a",
		OS:        "n/a",
		Location:  "n/a",
		Evento:    evento,
		Moderator: moderator,
	}
}

type fakeModeratorStore struct {
	emails map[string]struct{}
}

func newFakeModeratorStore(emails ...string) *fakeModeratorStore {
	f := &fakeModeratorStore{emails: make(map[string]struct{})}
	for _, email := range emails {
		f.emails[email] = struct{}{}
	}
	return f
}

func (f *fakeModeratorStore) Exists(_ context.Context, email string) (bool, error) {
	_, ok := f.emails[email]
	return ok, nil
}

type fakeCache struct {
	values map[string]string
	gets   int
	hits   int
}

func newFakeCache() *fakeCache {
	return &fakeCache{values: make(map[string]string)}
}

func (f *fakeCache) Get(_ context.Context, key string) (string, bool, error) {
	f.gets++
	value, ok := f.values[key]
	if ok {
		f.hits++
	}
	return value, ok, nil
}

func (f *fakeCache) Set(_ context.Context, key, value string, _ time.Duration) error {
	f.values[key] = value
	return nil
}

func (f *fakeCache) Del(_ context.Context, key string) error {
	delete(f.values, key)
	return nil
}
