package ingest

import (
	"strings"
	"testing"
)

func TestSplitShortText(t *testing.T) {
	s := NewSplitter(1000, 200)
	chunks := s.Split("a short passage")
	if len(chunks) != 1 || chunks[0] != "a short passage" {
		t.Fatalf("expected single chunk, got %v", chunks)
	}
}

func TestSplitEmptyText(t *testing.T) {
	s := NewSplitter(1000, 200)
	if chunks := s.Split("   \n\n  "); chunks != nil {
		t.Fatalf("expected nil for whitespace input, got %v", chunks)
	}
}

func TestSplitRespectsChunkSize(t *testing.T) {
	s := NewSplitter(100, 20)
	text := strings.Repeat("token expiry on mobile devices is a common failure mode. ", 40)
	chunks := s.Split(text)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for i, c := range chunks {
		if len(c) > 100 {
			t.Errorf("chunk %d exceeds size limit: %d chars", i, len(c))
		}
	}
}

func TestSplitPrefersParagraphBoundaries(t *testing.T) {
	s := NewSplitter(60, 0)
	text := "first paragraph about tokens.\n\nsecond paragraph about cors headers."
	chunks := s.Split(text)
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d: %v", len(chunks), chunks)
	}
	if !strings.Contains(chunks[0], "first paragraph") {
		t.Errorf("chunk 0 = %q", chunks[0])
	}
	if !strings.Contains(chunks[1], "second paragraph") {
		t.Errorf("chunk 1 = %q", chunks[1])
	}
}

func TestSplitOverlapCarriesContext(t *testing.T) {
	s := NewSplitter(100, 30)
	text := strings.Repeat("alpha bravo charlie delta echo foxtrot. ", 20)
	chunks := s.Split(text)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	// The start of each later chunk should repeat text from its predecessor.
	for i := 1; i < len(chunks); i++ {
		head := chunks[i]
		if len(head) > 20 {
			head = head[:20]
		}
		if !strings.Contains(chunks[i-1], strings.Fields(head)[0]) {
			t.Errorf("chunk %d does not overlap predecessor", i)
		}
	}
}

func TestSplitHandlesOversizedWord(t *testing.T) {
	s := NewSplitter(50, 10)
	text := strings.Repeat("x", 175)
	chunks := s.Split(text)
	if len(chunks) < 3 {
		t.Fatalf("expected hard splits, got %d chunks", len(chunks))
	}
	for i, c := range chunks {
		if len(c) > 50 {
			t.Errorf("chunk %d too large: %d", i, len(c))
		}
	}
}

func TestSplitterDefaults(t *testing.T) {
	s := NewSplitter(0, -1)
	if s.chunkSize != 1000 {
		t.Errorf("chunkSize = %d, want 1000", s.chunkSize)
	}
	if s.chunkOverlap != 200 {
		t.Errorf("chunkOverlap = %d, want 200", s.chunkOverlap)
	}
}
