// Package cache keeps hot file metadata in Redis so the download path can
// skip a database round trip. The database remains the source of truth;
// entries expire on their own and are invalidated on delete.
package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/file-vault-service/internal/domain"
)

const (
	fileKeyPrefix = "file:"

	// DefaultFileTTL is the TTL for cached file metadata.
	DefaultFileTTL = time.Hour
)

// ErrCacheMiss is returned when no entry exists for the key.
var ErrCacheMiss = errors.New("cache miss")

// FileCache stores file metadata as Redis hashes keyed by file id. A nil
// *FileCache is valid and disables caching.
type FileCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewFileCache wraps a Redis client.
func NewFileCache(client *redis.Client) *FileCache {
	return &FileCache{client: client, ttl: DefaultFileTTL}
}

// GetFile retrieves cached metadata. Returns ErrCacheMiss when absent.
func (c *FileCache) GetFile(ctx context.Context, id domain.FileID) (*domain.File, error) {
	if c == nil || c.client == nil {
		return nil, ErrCacheMiss
	}

	result, err := c.client.HGetAll(ctx, fileKeyPrefix+id.String()).Result()
	if err != nil {
		return nil, fmt.Errorf("redis hgetall failed: %w", err)
	}
	if len(result) == 0 {
		return nil, ErrCacheMiss
	}

	size, err := strconv.ParseInt(result["size_bytes"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("corrupt cache entry for %s: %w", id, err)
	}
	createdAt, err := time.Parse(time.RFC3339Nano, result["created_at"])
	if err != nil {
		return nil, fmt.Errorf("corrupt cache entry for %s: %w", id, err)
	}

	return &domain.File{
		ID:           id,
		OwnerID:      domain.UserID(result["owner_id"]),
		OriginalName: result["original_name"],
		StoragePath:  result["storage_path"],
		MimeType:     result["mime_type"],
		SizeBytes:    size,
		Visibility:   domain.FileVisibility(result["visibility"]),
		CreatedAt:    createdAt,
	}, nil
}

// SetFile stores metadata for a file.
func (c *FileCache) SetFile(ctx context.Context, file *domain.File) error {
	if c == nil || c.client == nil {
		return nil
	}

	key := fileKeyPrefix + file.ID.String()
	fields := map[string]any{
		"owner_id":      file.OwnerID.String(),
		"original_name": file.OriginalName,
		"storage_path":  file.StoragePath,
		"mime_type":     file.MimeType,
		"size_bytes":    strconv.FormatInt(file.SizeBytes, 10),
		"visibility":    string(file.Visibility),
		"created_at":    file.CreatedAt.Format(time.RFC3339Nano),
	}

	pipe := c.client.Pipeline()
	pipe.HSet(ctx, key, fields)
	pipe.Expire(ctx, key, c.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to cache file: %w", err)
	}
	return nil
}

// Invalidate drops the entry for a file id.
func (c *FileCache) Invalidate(ctx context.Context, id domain.FileID) error {
	if c == nil || c.client == nil {
		return nil
	}
	if err := c.client.Del(ctx, fileKeyPrefix+id.String()).Err(); err != nil {
		return fmt.Errorf("failed to invalidate file cache: %w", err)
	}
	return nil
}
