// Package ingest loads PDF documents into the vector store: text extraction,
// chunking, embedding, and persistence.
package ingest

import (
	"strings"
)

// Splitter breaks text into overlapping chunks along natural boundaries.
// It prefers paragraph breaks, then line breaks, then word breaks, and only
// cuts mid-word when a single word exceeds the chunk size.
type Splitter struct {
	chunkSize    int
	chunkOverlap int
	separators   []string
}

// NewSplitter creates a splitter with the given chunk size and overlap.
func NewSplitter(chunkSize, chunkOverlap int) *Splitter {
	if chunkSize <= 0 {
		chunkSize = 1000
	}
	if chunkOverlap < 0 || chunkOverlap >= chunkSize {
		chunkOverlap = chunkSize / 5
	}
	return &Splitter{
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
		separators:   []string{"\n\n", "\n", " ", ""},
	}
}

// Split breaks text into chunks of at most chunkSize characters with
// chunkOverlap characters of overlap between consecutive chunks.
func (s *Splitter) Split(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if len(text) <= s.chunkSize {
		return []string{text}
	}

	pieces := s.splitRecursive(text, 0)
	return s.mergePieces(pieces)
}

// splitRecursive splits text by the separator at the given depth, recursing
// into finer separators for any piece still larger than the chunk size.
func (s *Splitter) splitRecursive(text string, depth int) []string {
	if len(text) <= s.chunkSize {
		return []string{text}
	}
	if depth >= len(s.separators) {
		return s.hardSplit(text)
	}

	sep := s.separators[depth]
	if sep == "" {
		return s.hardSplit(text)
	}

	var pieces []string
	for _, part := range strings.Split(text, sep) {
		if part == "" {
			continue
		}
		if len(part) > s.chunkSize {
			pieces = append(pieces, s.splitRecursive(part, depth+1)...)
		} else {
			pieces = append(pieces, part)
		}
	}
	return pieces
}

// hardSplit cuts text into chunkSize slices with no regard for boundaries.
func (s *Splitter) hardSplit(text string) []string {
	var pieces []string
	for len(text) > s.chunkSize {
		pieces = append(pieces, text[:s.chunkSize])
		text = text[s.chunkSize:]
	}
	if text != "" {
		pieces = append(pieces, text)
	}
	return pieces
}

// mergePieces greedily packs pieces into chunks up to chunkSize, carrying
// chunkOverlap characters of the previous chunk into the next.
func (s *Splitter) mergePieces(pieces []string) []string {
	var chunks []string
	var current strings.Builder

	flush := func() {
		chunk := strings.TrimSpace(current.String())
		if chunk != "" {
			chunks = append(chunks, chunk)
		}

		current.Reset()
		// Seed the next chunk with the tail of this one.
		if s.chunkOverlap > 0 && chunk != "" {
			tail := chunk
			if len(tail) > s.chunkOverlap {
				tail = tail[len(tail)-s.chunkOverlap:]
			}
			current.WriteString(tail)
		}
	}

	for _, piece := range pieces {
		if current.Len() > 0 && current.Len()+1+len(piece) > s.chunkSize {
			flush()
		}
		// Drop the overlap seed when the piece alone fills the chunk.
		if current.Len() > 0 && current.Len()+1+len(piece) > s.chunkSize {
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteString(" ")
		}
		current.WriteString(piece)
	}

	if strings.TrimSpace(current.String()) != "" {
		chunk := strings.TrimSpace(current.String())
		// Skip a trailing chunk that is nothing but the overlap seed.
		if len(chunks) == 0 || !strings.HasSuffix(chunks[len(chunks)-1], chunk) {
			chunks = append(chunks, chunk)
		}
	}

	return chunks
}
