package domain

import (
	"fmt"
	"time"
)

// FileID identifies a stored file record.
type FileID string

func (id FileID) String() string {
	return string(id)
}

// FileVisibility gates access for non-owners.
type FileVisibility string

const (
	VisibilityPublic  FileVisibility = "public"
	VisibilityPrivate FileVisibility = "private"
)

// ParseVisibility validates a visibility value supplied by a client.
// An empty value defaults to private.
func ParseVisibility(raw string) (FileVisibility, error) {
	switch FileVisibility(raw) {
	case VisibilityPublic:
		return VisibilityPublic, nil
	case VisibilityPrivate, "":
		return VisibilityPrivate, nil
	default:
		return "", fmt.Errorf("invalid visibility %q", raw)
	}
}

// File is the metadata record for an uploaded binary. Fields are immutable
// after creation; the only lifecycle transitions are create and delete.
type File struct {
	ID           FileID
	OwnerID      UserID
	OriginalName string
	StoragePath  string
	MimeType     string
	SizeBytes    int64
	Visibility   FileVisibility
	CreatedAt    time.Time
}

// IsPublic reports whether the file is readable without authentication.
func (f *File) IsPublic() bool {
	return f.Visibility == VisibilityPublic
}

// OwnedBy reports whether the given user owns the file.
func (f *File) OwnedBy(id UserID) bool {
	return f.OwnerID == id
}
