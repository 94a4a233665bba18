package tools

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"advisor/pkg/persistence"
)

func TestRegistryRegisterAndGet(t *testing.T) {
	r := NewRegistry()
	weather := NewWeatherTool()
	if err := r.Register(weather); err != nil {
		t.Fatalf("Register: %v", err)
	}
	got, err := r.Get(ToolWeather)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Name() != ToolWeather {
		t.Errorf("Name() = %q", got.Name())
	}
	if err := r.Register(weather); err == nil {
		t.Error("expected duplicate registration to fail")
	}
	if _, err := r.Get("no_such_tool"); err == nil {
		t.Error("expected lookup of unknown tool to fail")
	}
}

func TestRegistryDefinitionsSorted(t *testing.T) {
	r := NewRegistry()
	for _, tool := range []Tool{NewWeatherTool(), NewWebSearchTool(), NewWebScraperTool()} {
		if err := r.Register(tool); err != nil {
			t.Fatalf("Register(%s): %v", tool.Name(), err)
		}
	}
	defs := r.Definitions()
	if len(defs) != 3 {
		t.Fatalf("got %d definitions", len(defs))
	}
	for i := 1; i < len(defs); i++ {
		if defs[i-1].Name > defs[i].Name {
			t.Errorf("definitions not sorted: %q before %q", defs[i-1].Name, defs[i].Name)
		}
	}
}

func TestWeatherToolSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "Berlin") {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if r.URL.Query().Get("format") != "3" {
			t.Errorf("missing format=3 in %q", r.URL.RawQuery)
		}
		fmt.Fprint(w, "Berlin: ⛅️ +18°C\n")
	}))
	defer srv.Close()

	tool := NewWeatherToolWithBase(srv.URL)
	res, err := tool.Exec(context.Background(), map[string]any{"city": "Berlin"})
	if err != nil {
		t.Fatalf("Exec: %v", err)
	}
	if !res.Success {
		t.Fatalf("expected success, got %q", res.Content)
	}
	if !strings.Contains(res.Content, "Berlin") {
		t.Errorf("Content = %q", res.Content)
	}
}

func TestWeatherToolFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	tool := NewWeatherToolWithBase(srv.URL)
	res, err := tool.Exec(context.Background(), map[string]any{"city": "Berlin"})
	if err != nil {
		t.Fatalf("Exec: %v", err)
	}
	if res.Success {
		t.Error("expected failure on HTTP 503")
	}
	if res.Content != "Weather data unavailable" {
		t.Errorf("Content = %q", res.Content)
	}
}

func TestWeatherToolMissingCity(t *testing.T) {
	tool := NewWeatherTool()
	if _, err := tool.Exec(context.Background(), map[string]any{}); err == nil {
		t.Error("expected error for missing city")
	}
}

func TestWebScraperExtractsText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `<html><head><title>Docs</title><script>var x=1;</script></head>
<body><h1>Token Expiry</h1><p>Tokens expire after one hour.</p></body></html>`)
	}))
	defer srv.Close()

	tool := NewWebScraperTool()
	res, err := tool.Exec(context.Background(), map[string]any{"url": srv.URL})
	if err != nil {
		t.Fatalf("Exec: %v", err)
	}
	if !res.Success {
		t.Fatalf("expected success, got %q", res.Content)
	}
	if !strings.Contains(res.Content, "Tokens expire after one hour.") {
		t.Errorf("Content = %q", res.Content)
	}
	if strings.Contains(res.Content, "var x=1") {
		t.Errorf("script content leaked: %q", res.Content)
	}
}

func TestWebScraperTruncatesLongPages(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprintf(w, "<html><body><p>%s</p></body></html>", strings.Repeat("word ", 1000))
	}))
	defer srv.Close()

	tool := NewWebScraperTool()
	res, err := tool.Exec(context.Background(), map[string]any{"url": srv.URL})
	if err != nil {
		t.Fatalf("Exec: %v", err)
	}
	if len(res.Content) > maxScrapeChars {
		t.Errorf("content not truncated: %d chars", len(res.Content))
	}
}

func TestWebScraperRejectsBadScheme(t *testing.T) {
	tool := NewWebScraperTool()
	res, err := tool.Exec(context.Background(), map[string]any{"url": "ftp://example.com"})
	if err != nil {
		t.Fatalf("Exec: %v", err)
	}
	if res.Success {
		t.Error("expected failure for non-http URL")
	}
}

const searchResultsPage = `<html><body>
<div class="result results_links results_links_deep web-result">
  <a class="result__a" href="https://example.com/tokens">Token docs</a>
  <a class="result__snippet" href="https://example.com/tokens">How tokens expire and refresh.</a>
</div>
<div class="result results_links results_links_deep web-result">
  <a class="result__a" href="//duckduckgo.com/l/?uddg=https%3A%2F%2Fexample.org%2Fcors&amp;rut=abc">CORS guide</a>
  <a class="result__snippet" href="#">Configuring allowed origins.</a>
</div>
</body></html>`

func TestWebSearchParsesResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("q") != "token expiry" {
			t.Errorf("query = %q", r.URL.Query().Get("q"))
		}
		io.WriteString(w, searchResultsPage)
	}))
	defer srv.Close()

	tool := NewWebSearchToolWithBase(srv.URL)
	res, err := tool.Exec(context.Background(), map[string]any{"query": "token expiry"})
	if err != nil {
		t.Fatalf("Exec: %v", err)
	}
	if !res.Success {
		t.Fatalf("expected success, got %q", res.Content)
	}
	if !strings.Contains(res.Content, "Token docs") || !strings.Contains(res.Content, "https://example.com/tokens") {
		t.Errorf("first result missing: %q", res.Content)
	}
	if !strings.Contains(res.Content, "https://example.org/cors") {
		t.Errorf("redirect link not unwrapped: %q", res.Content)
	}
}

func TestWebSearchFallbackOnServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	tool := NewWebSearchToolWithBase(srv.URL)
	res, err := tool.Exec(context.Background(), map[string]any{"query": "anything"})
	if err != nil {
		t.Fatalf("Exec: %v", err)
	}
	if res.Success {
		t.Error("expected failure on HTTP 500")
	}
}

type stubEmbedder struct {
	vec []float32
	err error
}

func (s *stubEmbedder) Embed(_ context.Context, _ string) ([]float32, error) {
	return s.vec, s.err
}

func (s *stubEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = s.vec
	}
	return out, s.err
}

func (s *stubEmbedder) Name() string { return "stub" }

func TestPDFSearchAnswersFromChunks(t *testing.T) {
	db, err := persistence.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	docID, err := persistence.InsertDocument(ctx, db, "/docs/auth.pdf", 3)
	if err != nil {
		t.Fatalf("InsertDocument: %v", err)
	}
	err = persistence.InsertChunks(ctx, db, docID,
		[]string{"tokens expire after one hour"},
		[][]float32{{1, 0, 0}},
	)
	if err != nil {
		t.Fatalf("InsertChunks: %v", err)
	}

	var gotPassages string
	answer := func(_ context.Context, question, passages string) (string, error) {
		gotPassages = passages
		return "Tokens expire after one hour.", nil
	}

	tool := NewPDFSearchTool(db, &stubEmbedder{vec: []float32{1, 0, 0}}, answer, 4)
	res, err := tool.Exec(ctx, map[string]any{"query": "when do tokens expire"})
	if err != nil {
		t.Fatalf("Exec: %v", err)
	}
	if !res.Success {
		t.Fatalf("expected success, got %q", res.Content)
	}
	if res.Content != "Tokens expire after one hour." {
		t.Errorf("Content = %q", res.Content)
	}
	if !strings.Contains(gotPassages, "tokens expire after one hour") {
		t.Errorf("passages = %q", gotPassages)
	}
}

func TestPDFSearchFallbackOnEmbedError(t *testing.T) {
	db, err := persistence.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()

	tool := NewPDFSearchTool(db, &stubEmbedder{err: fmt.Errorf("embedder down")}, nil, 4)
	res, err := tool.Exec(context.Background(), map[string]any{"query": "anything"})
	if err != nil {
		t.Fatalf("Exec: %v", err)
	}
	if res.Success {
		t.Error("expected failure when embedding fails")
	}
	if !strings.Contains(res.Content, "unavailable") {
		t.Errorf("Content = %q", res.Content)
	}
}

func TestPDFSearchNoChunks(t *testing.T) {
	db, err := persistence.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()

	tool := NewPDFSearchTool(db, &stubEmbedder{vec: []float32{1, 0, 0}}, nil, 4)
	res, err := tool.Exec(context.Background(), map[string]any{"query": "anything"})
	if err != nil {
		t.Fatalf("Exec: %v", err)
	}
	if res.Success {
		t.Error("expected failure with empty knowledge base")
	}
}
