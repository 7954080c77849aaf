package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/aditya-mahendru/docMgr/internal/core/domain"
	"github.com/aditya-mahendru/docMgr/internal/core/ports/driven"
)

// ==================== Metadata Store ====================

// metadataStore implements driven.MetadataStore.
type metadataStore struct {
	store *Store
}

var _ driven.MetadataStore = (*metadataStore)(nil)

// Save stores or updates a document.
func (s *metadataStore) Save(ctx context.Context, info domain.DocumentInfo) error {
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO documents (id, filename, content_type, size, description, uploaded_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			filename = excluded.filename,
			content_type = excluded.content_type,
			size = excluded.size,
			description = excluded.description,
			uploaded_at = excluded.uploaded_at
	`, info.ID, info.Filename, info.ContentType, info.Size, info.Description, info.UploadedAt.UTC())
	if err != nil {
		return fmt.Errorf("saving document: %w", err)
	}
	return nil
}

// Get retrieves a document by ID.
func (s *metadataStore) Get(ctx context.Context, id string) (*domain.DocumentInfo, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, filename, content_type, size, description, uploaded_at
		FROM documents WHERE id = ?
	`, id)

	var info domain.DocumentInfo
	if err := row.Scan(&info.ID, &info.Filename, &info.ContentType,
		&info.Size, &info.Description, &info.UploadedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning document: %w", err)
	}
	return &info, nil
}

// Delete removes a document and its stored bytes.
func (s *metadataStore) Delete(ctx context.Context, id string) error {
	_, err := s.store.db.ExecContext(ctx, "DELETE FROM documents WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}
	return nil
}

// List returns all documents, newest first.
func (s *metadataStore) List(ctx context.Context) ([]domain.DocumentInfo, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, filename, content_type, size, description, uploaded_at
		FROM documents ORDER BY uploaded_at DESC, id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	var docs []domain.DocumentInfo //nolint:prealloc // size unknown from query
	for rows.Next() {
		var info domain.DocumentInfo
		if err := rows.Scan(&info.ID, &info.Filename, &info.ContentType,
			&info.Size, &info.Description, &info.UploadedAt); err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}
		docs = append(docs, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating documents: %w", err)
	}

	return docs, nil
}

// ==================== Blob Store ====================

// blobStore implements driven.BlobStore. Blobs belong to a registered
// document and are removed with it.
type blobStore struct {
	store *Store
}

var _ driven.BlobStore = (*blobStore)(nil)

// Put stores the bytes for a document.
func (s *blobStore) Put(ctx context.Context, id string, data []byte) error {
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO blobs (document_id, data) VALUES (?, ?)
		ON CONFLICT(document_id) DO UPDATE SET data = excluded.data
	`, id, data)
	if err != nil {
		return fmt.Errorf("saving blob: %w", err)
	}
	return nil
}

// Get returns the bytes for a document.
func (s *blobStore) Get(ctx context.Context, id string) ([]byte, error) {
	var data []byte
	err := s.store.db.QueryRowContext(ctx, "SELECT data FROM blobs WHERE document_id = ?", id).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("reading blob: %w", err)
	}
	return data, nil
}

// Delete removes the bytes for a document.
func (s *blobStore) Delete(ctx context.Context, id string) error {
	_, err := s.store.db.ExecContext(ctx, "DELETE FROM blobs WHERE document_id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting blob: %w", err)
	}
	return nil
}
