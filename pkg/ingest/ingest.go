package ingest

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"advisor/pkg/embedding"
	"advisor/pkg/logx"
	"advisor/pkg/persistence"
)

// Ingestor runs the document pipeline: extract, split, embed, store.
type Ingestor struct {
	db       *sql.DB
	embedder embedding.Embedder
	splitter *Splitter
	logger   *logx.Logger
}

// NewIngestor creates an ingestor writing to db using the given embedder.
func NewIngestor(db *sql.DB, embedder embedding.Embedder, chunkSize, chunkOverlap int) *Ingestor {
	return &Ingestor{
		db:       db,
		embedder: embedder,
		splitter: NewSplitter(chunkSize, chunkOverlap),
		logger:   logx.NewLogger("ingest"),
	}
}

// IngestDir ingests every PDF under dir. Files that fail are logged and
// skipped; the error returned reflects only a failure to read the directory.
func (in *Ingestor) IngestDir(ctx context.Context, dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("failed to read PDF directory %s: %w", dir, err)
	}

	ingested := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".pdf") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := in.IngestFile(ctx, path); err != nil {
			in.logger.Warn("skipping %s: %v", entry.Name(), err)
			continue
		}
		ingested++
	}

	in.logger.Info("ingested %d document(s) from %s", ingested, dir)
	return ingested, nil
}

// IngestFile extracts, chunks, embeds, and stores a single PDF. Re-ingesting
// a path replaces the previous document and its chunks.
func (in *Ingestor) IngestFile(ctx context.Context, path string) error {
	doc, err := ExtractPDF(path)
	if err != nil {
		return err
	}

	chunks := in.splitter.Split(doc.Text)
	if len(chunks) == 0 {
		return fmt.Errorf("no chunks produced for %s", path)
	}
	in.logger.Debug("split %s into %d chunks", filepath.Base(path), len(chunks))

	vectors, err := in.embedder.EmbedBatch(ctx, chunks)
	if err != nil {
		return fmt.Errorf("failed to embed %s: %w", path, err)
	}
	if len(vectors) != len(chunks) {
		return fmt.Errorf("embedder returned %d vectors for %d chunks", len(vectors), len(chunks))
	}

	docID, err := persistence.InsertDocument(ctx, in.db, path, doc.PageCount)
	if err != nil {
		return err
	}

	if err := persistence.InsertChunks(ctx, in.db, docID, chunks, vectors); err != nil {
		return err
	}

	in.logger.Info("ingested %s (%d pages, %d chunks)", filepath.Base(path), doc.PageCount, len(chunks))
	return nil
}
