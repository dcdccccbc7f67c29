package models

import "time"

// Lifecycle is the moderation folder an image currently lives in. The
// blob's location is the single source of truth; nothing stores the
// state redundantly.
type Lifecycle string

const (
	LifecyclePending  Lifecycle = "pending"
	LifecycleApproved Lifecycle = "approved"
	LifecycleRejected Lifecycle = "rejected"
)

// FolderThumbnails sits next to the three lifecycle folders and holds
// thumb_<hash>.webp companions for every non-deleted image.
const FolderThumbnails = "thumbnails"

// LifecycleFolders lists every folder materialized under an event prefix.
var LifecycleFolders = []string{
	string(LifecyclePending),
	string(LifecycleApproved),
	string(LifecycleRejected),
	FolderThumbnails,
}

func ValidLifecycle(s string) bool {
	switch Lifecycle(s) {
	case LifecyclePending, LifecycleApproved, LifecycleRejected:
		return true
	}
	return false
}

// Event is a logical namespace for photos. PathPrefix is globally unique
// and maps to the four sibling folders in the object store. Events are
// immutable once created.
type Event struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	PathPrefix string    `json:"pathPrefix"`
	CreatedAt  time.Time `json:"createdAt"`
}

// ImageInfo is the metadata row for an uploaded image. Hash is the
// sha256 hex of the final pixel bytes and doubles as the filename stem
// and the global dedup key.
type ImageInfo struct {
	Hash        string    `json:"hash"`
	EventPrefix string    `json:"eventPrefix"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Audit actions, one per kind of state change.
const (
	ActionUploadImage    = "upload-image"
	ActionMoveToApproved = "move-to-approved"
	ActionMoveToRejected = "move-to-rejected"
	ActionDeleteImage    = "delete-image"
)

// ModeratorAnonymous marks log entries produced by unauthenticated
// client actions (the initial upload).
const ModeratorAnonymous = "anonymous"

// LogEntry is an append-only audit record. Entries are never mutated or
// deleted.
type LogEntry struct {
	ID        int64     `json:"id"`
	Filename  string    `json:"filename"`
	Action    string    `json:"action"`
	From      string    `json:"from"`
	To        string    `json:"to"`
	Device    string    `json:"device"`
	Browser   string    `json:"browser"`
	OS        string    `json:"os"`
	Location  string    `json:"location"`
	Evento    string    `json:"evento"`
	Moderator string    `json:"moderator"`
	Timestamp time.Time `json:"timestamp"`
}

// Moderator is one entry of the externally managed allow-list.
type Moderator struct {
	Email string `json:"email"`
}
