package tools

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"

	"advisor/pkg/logx"
)

// ToolWebSearch is the constant name for the web search tool.
const ToolWebSearch = "web_search"

const webSearchFallback = "Web search is unavailable right now"

// defaultSearchResults is how many results a search returns by default.
const defaultSearchResults = 5

// SearchResult is a single web search hit.
type SearchResult struct {
	Title   string
	URL     string
	Snippet string
}

// WebSearchTool searches the web through the DuckDuckGo HTML endpoint,
// which needs no API key.
type WebSearchTool struct {
	httpClient *http.Client
	baseURL    string
	logger     *logx.Logger
}

// NewWebSearchTool creates a web search tool.
func NewWebSearchTool() *WebSearchTool {
	return NewWebSearchToolWithBase("https://html.duckduckgo.com/html/")
}

// NewWebSearchToolWithBase creates a web search tool against a specific
// endpoint, used by tests.
func NewWebSearchToolWithBase(baseURL string) *WebSearchTool {
	return &WebSearchTool{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    baseURL,
		logger:     logx.NewLogger("web_search"),
	}
}

// Name returns the tool name.
func (t *WebSearchTool) Name() string {
	return ToolWebSearch
}

// Definition returns the tool definition for LLM.
func (t *WebSearchTool) Definition() ToolDefinition {
	return ToolDefinition{
		Name: ToolWebSearch,
		Description: "Search the web for current information. Returns titles, URLs, and " +
			"snippets. Use scrape_webpage to read a promising result in full.",
		InputSchema: InputSchema{
			Type: "object",
			Properties: map[string]Property{
				"query": {
					Type:        "string",
					Description: "The search query",
				},
			},
			Required: []string{"query"},
		},
	}
}

// Exec runs the search. Failures degrade to a fallback message rather
// than an error.
func (t *WebSearchTool) Exec(ctx context.Context, args map[string]any) (*ExecResult, error) {
	query, ok := args["query"].(string)
	if !ok || strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("query is required and must be a string")
	}

	results, err := t.search(ctx, query)
	if err != nil {
		t.logger.Warn("search failed: %v", err)
		return &ExecResult{Content: webSearchFallback, Success: false}, nil
	}
	if len(results) == 0 {
		return &ExecResult{Content: "No results found for: " + query, Success: false}, nil
	}

	var sb strings.Builder
	for i, r := range results {
		sb.WriteString(fmt.Sprintf("%d. %s\n   %s\n", i+1, r.Title, r.URL))
		if r.Snippet != "" {
			sb.WriteString("   " + r.Snippet + "\n")
		}
	}

	return &ExecResult{Content: sb.String(), Success: true}, nil
}

func (t *WebSearchTool) search(ctx context.Context, query string) ([]SearchResult, error) {
	searchURL := fmt.Sprintf("%s?q=%s", t.baseURL, url.QueryEscape(query))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, http.NoBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}

	return parseSearchResults(string(body), defaultSearchResults)
}

// parseSearchResults extracts hits from the DuckDuckGo HTML response.
// Result blocks are divs with both "result" and "results_links" classes.
func parseSearchResults(content string, maxResults int) ([]SearchResult, error) {
	doc, err := html.Parse(strings.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	var results []SearchResult
	var findResults func(*html.Node)
	findResults = func(n *html.Node) {
		if len(results) >= maxResults {
			return
		}
		if n.Type == html.ElementNode && n.Data == "div" {
			class := attrValue(n, "class")
			if strings.Contains(class, "result") && strings.Contains(class, "results_links") {
				r := extractSearchResult(n)
				if r.URL != "" && r.Title != "" {
					results = append(results, r)
				}
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			findResults(c)
		}
	}
	findResults(doc)

	return results, nil
}

func extractSearchResult(n *html.Node) SearchResult {
	var result SearchResult

	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			class := attrValue(n, "class")
			if strings.Contains(class, "result__a") {
				result.URL = attrValue(n, "href")
				result.Title = nodeText(n)
			} else if strings.Contains(class, "result__snippet") {
				result.Snippet = nodeText(n)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)

	// Unwrap DuckDuckGo redirect links.
	if strings.HasPrefix(result.URL, "//duckduckgo.com/l/?uddg=") {
		if decoded, err := url.QueryUnescape(strings.TrimPrefix(result.URL, "//duckduckgo.com/l/?uddg=")); err == nil {
			if idx := strings.Index(decoded, "&"); idx > 0 {
				decoded = decoded[:idx]
			}
			result.URL = decoded
		}
	}

	return result
}

func attrValue(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

func nodeText(n *html.Node) string {
	var sb strings.Builder
	var getText func(*html.Node)
	getText = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(strings.TrimSpace(n.Data))
			sb.WriteString(" ")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			getText(c)
		}
	}
	getText(n)
	return strings.TrimSpace(sb.String())
}
