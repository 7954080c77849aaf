package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aditya-mahendru/docMgr/internal/core/domain"
	"github.com/aditya-mahendru/docMgr/internal/core/ports/driven"
	"github.com/aditya-mahendru/docMgr/internal/similarity"
)

// ErrInvalidRecord is returned when an upsert contains a malformed record.
var ErrInvalidRecord = errors.New("invalid embedding record")

// vectorStore implements driven.VectorStore over the embeddings table.
// Queries are exact: every record in the collection is scored.
type vectorStore struct {
	store      *Store
	collection string
}

var _ driven.VectorStore = (*vectorStore)(nil)

// Upsert replaces all records of documentID inside one transaction.
// Every record of a collection has the same number of dimensions; a set
// that disagrees with the other documents is rejected.
func (s *vectorStore) Upsert(ctx context.Context, documentID string, records []domain.EmbeddingRecord) error {
	unlock := s.store.locks.Lock(s.collection + "/" + documentID)
	defer unlock()

	dims, err := recordDimensions(records)
	if err != nil {
		return err
	}

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM embeddings WHERE collection = ? AND document_id = ?",
		s.collection, documentID); err != nil {
		return fmt.Errorf("deleting previous records: %w", err)
	}

	// The delete above holds the write lock, so this sees every commit.
	if dims > 0 {
		var held int
		err := tx.QueryRowContext(ctx,
			"SELECT dimensions FROM embeddings WHERE collection = ? AND dimensions != ? LIMIT 1",
			s.collection, dims).Scan(&held)
		switch {
		case err == nil:
			return fmt.Errorf("%w: %d dimensions, collection %s holds %d",
				ErrInvalidRecord, dims, s.collection, held)
		case !errors.Is(err, sql.ErrNoRows):
			return fmt.Errorf("checking dimensions: %w", err)
		}
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO embeddings (collection, document_id, chunk_index, vector, dimensions, metadata)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for i := range records {
		rec := &records[i]
		if rec.DocumentID != documentID {
			return fmt.Errorf("%w: record %s belongs to %q", ErrInvalidRecord, rec.ID(), rec.DocumentID)
		}
		if len(rec.Vector) == 0 {
			return fmt.Errorf("%w: record %s has no vector", ErrInvalidRecord, rec.ID())
		}

		metadataJSON, err := json.Marshal(rec.Metadata)
		if err != nil {
			return fmt.Errorf("marshalling record metadata: %w", err)
		}

		if _, err := stmt.ExecContext(ctx, s.collection, documentID, rec.ChunkIndex,
			float32SliceToBytes(rec.Vector), len(rec.Vector), string(metadataJSON)); err != nil {
			return fmt.Errorf("saving record %s: %w", rec.ID(), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Delete removes all records of documentID.
func (s *vectorStore) Delete(ctx context.Context, documentID string) error {
	unlock := s.store.locks.Lock(s.collection + "/" + documentID)
	defer unlock()

	_, err := s.store.db.ExecContext(ctx,
		"DELETE FROM embeddings WHERE collection = ? AND document_id = ?",
		s.collection, documentID)
	if err != nil {
		return fmt.Errorf("deleting records: %w", err)
	}
	return nil
}

// Query scans the collection and returns the k nearest records to vector.
func (s *vectorStore) Query(ctx context.Context, vector []float32, k int) ([]domain.ScoredRecord, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT document_id, chunk_index, vector, metadata
		FROM embeddings WHERE collection = ?
	`, s.collection)
	if err != nil {
		return nil, fmt.Errorf("querying records: %w", err)
	}
	defer rows.Close()

	top := similarity.NewTopK(vector, k)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		top.Offer(*rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating records: %w", err)
	}

	return top.Results(), nil
}

// Records returns the records of documentID ordered by chunk index.
func (s *vectorStore) Records(ctx context.Context, documentID string) ([]domain.EmbeddingRecord, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT document_id, chunk_index, vector, metadata
		FROM embeddings WHERE collection = ? AND document_id = ?
		ORDER BY chunk_index
	`, s.collection, documentID)
	if err != nil {
		return nil, fmt.Errorf("querying records: %w", err)
	}
	defer rows.Close()

	var records []domain.EmbeddingRecord //nolint:prealloc // size unknown from query
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating records: %w", err)
	}

	return records, nil
}

// Stats returns record and document counts for the collection.
func (s *vectorStore) Stats(ctx context.Context) (*domain.VectorStats, error) {
	stats := &domain.VectorStats{Collection: s.collection}

	row := s.store.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COUNT(DISTINCT document_id), COALESCE(MAX(dimensions), 0)
		FROM embeddings WHERE collection = ?
	`, s.collection)
	if err := row.Scan(&stats.RecordCount, &stats.DocumentCount, &stats.Dimensions); err != nil {
		return nil, fmt.Errorf("counting records: %w", err)
	}

	if stats.RecordCount == 0 {
		return stats, nil
	}

	var metadataJSON string
	row = s.store.db.QueryRowContext(ctx, `
		SELECT metadata FROM embeddings WHERE collection = ?
		ORDER BY document_id, chunk_index LIMIT 1
	`, s.collection)
	if err := row.Scan(&metadataJSON); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return stats, nil
		}
		return nil, fmt.Errorf("reading sample record: %w", err)
	}

	var sample domain.RecordMetadata
	if err := json.Unmarshal([]byte(metadataJSON), &sample); err != nil {
		return nil, fmt.Errorf("unmarshaling sample metadata: %w", err)
	}
	stats.Sample = &sample

	return stats, nil
}

// recordDimensions returns the shared vector size of records, or 0 for an
// empty set.
func recordDimensions(records []domain.EmbeddingRecord) (int, error) {
	dims := 0
	for i := range records {
		n := len(records[i].Vector)
		if n == 0 {
			continue
		}
		if dims == 0 {
			dims = n
		} else if n != dims {
			return 0, fmt.Errorf("%w: record %s has %d dimensions, want %d",
				ErrInvalidRecord, records[i].ID(), n, dims)
		}
	}
	return dims, nil
}

// scanRecord scans an embedding record from *sql.Rows.
func scanRecord(rows *sql.Rows) (*domain.EmbeddingRecord, error) {
	var rec domain.EmbeddingRecord
	var vectorBlob []byte
	var metadataJSON string

	if err := rows.Scan(&rec.DocumentID, &rec.ChunkIndex, &vectorBlob, &metadataJSON); err != nil {
		return nil, fmt.Errorf("scanning record: %w", err)
	}

	rec.Vector = bytesToFloat32Slice(vectorBlob)

	if err := json.Unmarshal([]byte(metadataJSON), &rec.Metadata); err != nil {
		return nil, fmt.Errorf("unmarshaling record metadata: %w", err)
	}

	return &rec, nil
}
