package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/file-vault-service/internal/domain"
)

// FileRepository persists file metadata. Rows are immutable after creation;
// the only mutations are insert and delete.
type FileRepository interface {
	Create(ctx context.Context, file *domain.File) error
	GetByID(ctx context.Context, id domain.FileID) (*domain.File, error)
	ListByOwner(ctx context.Context, ownerID domain.UserID) ([]domain.File, error)
	ListPublic(ctx context.Context) ([]domain.File, error)
	Delete(ctx context.Context, id domain.FileID) error
}

type fileRepository struct {
	pool *pgxpool.Pool
}

// NewFileRepository returns a Postgres-backed implementation.
func NewFileRepository(pool *pgxpool.Pool) FileRepository {
	return &fileRepository{pool: pool}
}

func (r *fileRepository) Create(ctx context.Context, file *domain.File) error {
	const query = `
        INSERT INTO files (owner_id, original_name, storage_path, mime_type, size_bytes, visibility)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at`

	return r.pool.QueryRow(ctx, query,
		file.OwnerID,
		file.OriginalName,
		file.StoragePath,
		file.MimeType,
		file.SizeBytes,
		file.Visibility,
	).Scan(&file.ID, &file.CreatedAt)
}

func (r *fileRepository) GetByID(ctx context.Context, id domain.FileID) (*domain.File, error) {
	const query = `
        SELECT id, owner_id, original_name, storage_path, mime_type, size_bytes, visibility, created_at
        FROM files WHERE id=$1`

	var file domain.File
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&file.ID,
		&file.OwnerID,
		&file.OriginalName,
		&file.StoragePath,
		&file.MimeType,
		&file.SizeBytes,
		&file.Visibility,
		&file.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &file, nil
}

func (r *fileRepository) ListByOwner(ctx context.Context, ownerID domain.UserID) ([]domain.File, error) {
	const query = `
        SELECT id, owner_id, original_name, storage_path, mime_type, size_bytes, visibility, created_at
        FROM files WHERE owner_id=$1 ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanFiles(rows)
}

func (r *fileRepository) ListPublic(ctx context.Context) ([]domain.File, error) {
	const query = `
        SELECT id, owner_id, original_name, storage_path, mime_type, size_bytes, visibility, created_at
        FROM files WHERE visibility=$1 ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, domain.VisibilityPublic)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanFiles(rows)
}

func (r *fileRepository) Delete(ctx context.Context, id domain.FileID) error {
	const query = `DELETE FROM files WHERE id=$1`

	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanFiles(rows pgx.Rows) ([]domain.File, error) {
	var result []domain.File
	for rows.Next() {
		var file domain.File
		if err := rows.Scan(
			&file.ID,
			&file.OwnerID,
			&file.OriginalName,
			&file.StoragePath,
			&file.MimeType,
			&file.SizeBytes,
			&file.Visibility,
			&file.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, file)
	}
	return result, rows.Err()
}
