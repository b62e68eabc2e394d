package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/file-vault-service/internal/authz"
	"github.com/spec-kit/file-vault-service/internal/cache"
	"github.com/spec-kit/file-vault-service/internal/config"
	"github.com/spec-kit/file-vault-service/internal/domain"
	"github.com/spec-kit/file-vault-service/internal/events"
	"github.com/spec-kit/file-vault-service/internal/repository"
	"github.com/spec-kit/file-vault-service/internal/storage"
	apperrors "github.com/spec-kit/file-vault-service/pkg/util"
)

// FileService coordinates uploads, downloads and deletion of stored files.
// Every resource-scoped call is decided by the authz package before any
// store or repository access happens on the caller's behalf.
type FileService struct {
	files      repository.FileRepository
	store      storage.BlobStore
	fileCache  *cache.FileCache
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.StorageConfig
}

// FileDependencies bundles collaborators for the file service.
type FileDependencies struct {
	FileRepo   repository.FileRepository
	Store      storage.BlobStore
	Cache      *cache.FileCache
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// UploadInput describes an incoming upload.
type UploadInput struct {
	OriginalName string
	MimeType     string
	SizeBytes    int64
	Visibility   string
	Content      io.Reader
}

// NewFileService constructs the service.
func NewFileService(cfg config.StorageConfig, deps FileDependencies) *FileService {
	return &FileService{
		files:      deps.FileRepo,
		store:      deps.Store,
		fileCache:  deps.Cache,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
		cfg:        cfg,
	}
}

// Upload validates the payload, commits the bytes to the blob store and only
// then records metadata. If the record insert fails the blob is removed; a
// blob that cannot be removed is logged with its path for out-of-band
// cleanup so it is never lost silently.
func (s *FileService) Upload(ctx context.Context, requester authz.Requester, input UploadInput) (*domain.File, error) {
	if err := authz.Authorize(requester, authz.OpUpload, nil); err != nil {
		return nil, err
	}

	visibility, err := domain.ParseVisibility(input.Visibility)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error(), nil)
	}
	if input.OriginalName == "" {
		return nil, apperrors.NewValidationError("file name required", nil)
	}
	if !s.mimeAllowed(input.MimeType) {
		return nil, apperrors.NewValidationError("unsupported file type", map[string]any{
			"mime_type": input.MimeType,
			"allowed":   s.cfg.AllowedMimeTypes,
		})
	}
	if input.SizeBytes > s.cfg.MaxUploadBytes {
		return nil, apperrors.NewPayloadTooLarge("file exceeds upload limit", map[string]any{
			"max_bytes": s.cfg.MaxUploadBytes,
		})
	}

	// The declared size is client-controlled; cap the stream as well.
	limited := io.LimitReader(input.Content, s.cfg.MaxUploadBytes+1)
	path, size, err := s.store.Save(ctx, limited, input.OriginalName)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if size > s.cfg.MaxUploadBytes {
		s.removeBlobOrLog(ctx, path)
		return nil, apperrors.NewPayloadTooLarge("file exceeds upload limit", map[string]any{
			"max_bytes": s.cfg.MaxUploadBytes,
		})
	}

	file := &domain.File{
		OwnerID:      requester.ID,
		OriginalName: input.OriginalName,
		StoragePath:  path,
		MimeType:     input.MimeType,
		SizeBytes:    size,
		Visibility:   visibility,
	}
	if err := s.files.Create(ctx, file); err != nil {
		s.removeBlobOrLog(ctx, path)
		return nil, apperrors.NewInternalError(fmt.Errorf("record upload: %w", err))
	}

	if err := s.fileCache.SetFile(ctx, file); err != nil {
		s.logger.Warn("file cache set failed", zap.Error(err))
	}

	s.publish(ctx, events.Event{
		Type:    events.EventFileUploaded,
		ActorID: requester.ID,
		Payload: events.FileUploadedPayload{
			FileID:       file.ID,
			OriginalName: file.OriginalName,
			MimeType:     file.MimeType,
			SizeBytes:    file.SizeBytes,
			Visibility:   file.Visibility,
		},
	})
	return file, nil
}

// Download authorizes the read and returns the metadata plus a reader over
// the stored bytes. A record whose blob has vanished (for example a delete
// that raced this read) reports not-found, never a dangling stream.
func (s *FileService) Download(ctx context.Context, requester authz.Requester, id domain.FileID) (*domain.File, io.ReadCloser, error) {
	file, err := s.getFile(ctx, id)
	if err != nil && !errors.Is(err, authz.ErrNotFound) {
		return nil, nil, err
	}

	if err := authz.Authorize(requester, authz.OpDownload, file); err != nil {
		return nil, nil, err
	}

	rc, err := s.store.Open(ctx, file.StoragePath)
	if err != nil {
		if errors.Is(err, storage.ErrBlobNotFound) {
			s.logger.Warn("file record without blob",
				zap.String("file_id", file.ID.String()),
				zap.String("storage_path", file.StoragePath))
			return nil, nil, authz.ErrNotFound
		}
		return nil, nil, apperrors.NewInternalError(err)
	}
	return file, rc, nil
}

// ListMine returns the requester's own files.
func (s *FileService) ListMine(ctx context.Context, requester authz.Requester) ([]domain.File, error) {
	if err := authz.Authorize(requester, authz.OpListMine, nil); err != nil {
		return nil, err
	}
	return s.files.ListByOwner(ctx, requester.ID)
}

// ListPublic returns all public files. Anonymous callers are allowed.
func (s *FileService) ListPublic(ctx context.Context, requester authz.Requester) ([]domain.File, error) {
	if err := authz.Authorize(requester, authz.OpListPublic, nil); err != nil {
		return nil, err
	}
	return s.files.ListPublic(ctx)
}

// Delete removes the blob and then the metadata record. A blob that is
// already gone does not block record deletion. Deleting an id that does not
// exist (including a second delete of the same id) reports not-found.
func (s *FileService) Delete(ctx context.Context, requester authz.Requester, id domain.FileID) error {
	// Always read the record fresh; the cache may outlive a concurrent delete.
	file, err := s.lookupFile(ctx, id)
	if err != nil && !errors.Is(err, authz.ErrNotFound) {
		return err
	}

	if err := authz.Authorize(requester, authz.OpDelete, file); err != nil {
		return err
	}

	if err := s.store.Remove(ctx, file.StoragePath); err != nil && !errors.Is(err, storage.ErrBlobNotFound) {
		return apperrors.NewInternalError(fmt.Errorf("remove blob: %w", err))
	}

	if err := s.files.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Lost a race with another delete; the record is gone either way.
			return authz.ErrNotFound
		}
		s.logger.Error("blob removed but record delete failed",
			zap.String("file_id", id.String()),
			zap.String("storage_path", file.StoragePath),
			zap.Error(err))
		return apperrors.NewInternalError(err)
	}

	if err := s.fileCache.Invalidate(ctx, id); err != nil {
		s.logger.Warn("file cache invalidate failed", zap.Error(err))
	}

	s.publish(ctx, events.Event{
		Type:    events.EventFileDeleted,
		ActorID: requester.ID,
		Payload: events.FileDeletedPayload{FileID: id, StoragePath: file.StoragePath},
	})
	return nil
}

// getFile serves reads through the cache, falling back to the repository.
func (s *FileService) getFile(ctx context.Context, id domain.FileID) (*domain.File, error) {
	if file, err := s.fileCache.GetFile(ctx, id); err == nil {
		return file, nil
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Warn("file cache get failed", zap.Error(err))
	}

	file, err := s.lookupFile(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.fileCache.SetFile(ctx, file); err != nil {
		s.logger.Warn("file cache set failed", zap.Error(err))
	}
	return file, nil
}

func (s *FileService) lookupFile(ctx context.Context, id domain.FileID) (*domain.File, error) {
	file, err := s.files.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, authz.ErrNotFound
		}
		return nil, apperrors.NewInternalError(err)
	}
	return file, nil
}

func (s *FileService) mimeAllowed(mimeType string) bool {
	for _, allowed := range s.cfg.AllowedMimeTypes {
		if mimeType == allowed {
			return true
		}
	}
	return false
}

func (s *FileService) removeBlobOrLog(ctx context.Context, path string) {
	if err := s.store.Remove(ctx, path); err != nil && !errors.Is(err, storage.ErrBlobNotFound) {
		s.logger.Error("orphaned blob needs manual cleanup",
			zap.String("storage_path", path),
			zap.Error(err))
	}
}

func (s *FileService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Timestamp = time.Now().UTC()
	_ = s.dispatcher.Publish(ctx, event)
}
