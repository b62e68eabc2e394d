package dto

import "time"

// FileResponse describes a stored file to API clients. The storage path is
// deliberately not exposed.
type FileResponse struct {
	ID           string    `json:"id"`
	OriginalName string    `json:"original_name"`
	MimeType     string    `json:"mime_type"`
	SizeBytes    int64     `json:"size_bytes"`
	Visibility   string    `json:"visibility"`
	OwnerID      string    `json:"owner_id"`
	CreatedAt    time.Time `json:"created_at"`
}
