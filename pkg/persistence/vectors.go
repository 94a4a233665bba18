package persistence

import (
	"context"
	"database/sql"
	"encoding/binary"
	"fmt"
	"math"
	"sort"

	"github.com/google/uuid"
)

// Document represents an ingested PDF document.
type Document struct {
	ID        string
	Path      string
	PageCount int
}

// Chunk is a slice of document text with its embedding.
type Chunk struct {
	ID         string
	DocumentID string
	Index      int
	Content    string
	Embedding  []float32
}

// ScoredChunk is a chunk with its similarity to a query embedding.
type ScoredChunk struct {
	Chunk
	Similarity float64
}

// InsertDocument records an ingested document and returns its ID.
// Re-ingesting an existing path replaces the document and its chunks.
func InsertDocument(ctx context.Context, db *sql.DB, path string, pageCount int) (string, error) {
	if _, err := db.ExecContext(ctx, `DELETE FROM documents WHERE path = ?`, path); err != nil {
		return "", fmt.Errorf("failed to remove stale document: %w", err)
	}

	id := uuid.New().String()
	_, err := db.ExecContext(ctx,
		`INSERT INTO documents (id, path, page_count) VALUES (?, ?, ?)`,
		id, path, pageCount,
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert document: %w", err)
	}
	return id, nil
}

// InsertChunks stores chunks with their embeddings in a single transaction.
func InsertChunks(ctx context.Context, db *sql.DB, documentID string, contents []string, embeddings [][]float32) error {
	if len(contents) != len(embeddings) {
		return fmt.Errorf("chunk/embedding count mismatch: %d vs %d", len(contents), len(embeddings))
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO chunks (id, document_id, chunk_index, content, embedding) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i := range contents {
		if _, err := stmt.ExecContext(ctx,
			uuid.New().String(), documentID, i, contents[i], encodeEmbedding(embeddings[i]),
		); err != nil {
			return fmt.Errorf("failed to insert chunk %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit chunks: %w", err)
	}
	return nil
}

// SearchSimilar returns the topK chunks most similar to the query embedding,
// ranked by cosine similarity. The full chunk set is scanned in process;
// knowledge bases here are a handful of PDFs, not millions of vectors.
func SearchSimilar(ctx context.Context, db *sql.DB, query []float32, topK int) ([]ScoredChunk, error) {
	if topK <= 0 {
		topK = 4
	}

	rows, err := db.QueryContext(ctx,
		`SELECT id, document_id, chunk_index, content, embedding FROM chunks`)
	if err != nil {
		return nil, fmt.Errorf("failed to query chunks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var scored []ScoredChunk
	for rows.Next() {
		var c Chunk
		var blob []byte
		if err := rows.Scan(&c.ID, &c.DocumentID, &c.Index, &c.Content, &blob); err != nil {
			return nil, fmt.Errorf("failed to scan chunk: %w", err)
		}
		c.Embedding = decodeEmbedding(blob)

		scored = append(scored, ScoredChunk{
			Chunk:      c,
			Similarity: cosineSimilarity(query, c.Embedding),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("chunk iteration failed: %w", err)
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Similarity > scored[j].Similarity
	})

	if len(scored) > topK {
		scored = scored[:topK]
	}
	return scored, nil
}

// CountChunks returns the number of stored chunks.
func CountChunks(ctx context.Context, db *sql.DB) (int, error) {
	var count int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM chunks`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count chunks: %w", err)
	}
	return count, nil
}

// encodeEmbedding packs a float32 vector into a little-endian byte blob.
func encodeEmbedding(embedding []float32) []byte {
	buf := make([]byte, 4*len(embedding))
	for i, v := range embedding {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}

// decodeEmbedding unpacks a little-endian byte blob into a float32 vector.
func decodeEmbedding(blob []byte) []float32 {
	embedding := make([]float32, len(blob)/4)
	for i := range embedding {
		embedding[i] = math.Float32frombits(binary.LittleEndian.Uint32(blob[i*4:]))
	}
	return embedding
}

// cosineSimilarity computes the cosine similarity between two vectors.
// Mismatched or zero-length vectors score 0.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
