package events

import (
	"time"

	"github.com/spec-kit/file-vault-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserRegistered EventType = "user_registered"
	EventFileUploaded   EventType = "file_uploaded"
	EventFileDeleted    EventType = "file_deleted"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string        `json:"id"`
	Type      EventType     `json:"type"`
	ActorID   domain.UserID `json:"actor_id"`
	Timestamp time.Time     `json:"timestamp"`
	Payload   interface{}   `json:"payload"`
}

// UserRegisteredPayload payload.
type UserRegisteredPayload struct {
	Email string `json:"email"`
}

// FileUploadedPayload payload.
type FileUploadedPayload struct {
	FileID       domain.FileID         `json:"file_id"`
	OriginalName string                `json:"original_name"`
	MimeType     string                `json:"mime_type"`
	SizeBytes    int64                 `json:"size_bytes"`
	Visibility   domain.FileVisibility `json:"visibility"`
}

// FileDeletedPayload payload.
type FileDeletedPayload struct {
	FileID      domain.FileID `json:"file_id"`
	StoragePath string        `json:"storage_path"`
}
