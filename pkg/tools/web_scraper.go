package tools

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html"

	"advisor/pkg/logx"
)

// ToolWebScraper is the constant name for the web scraper tool.
const ToolWebScraper = "scrape_webpage"

const webScraperFallback = "Unable to retrieve the webpage content"

// maxScrapeChars bounds the extracted text handed back to the model.
const maxScrapeChars = 1000

// WebScraperTool fetches a page and returns its readable text.
type WebScraperTool struct {
	httpClient   *http.Client
	maxBodyBytes int64
	logger       *logx.Logger
}

// NewWebScraperTool creates a web scraper tool.
func NewWebScraperTool() *WebScraperTool {
	return &WebScraperTool{
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
			CheckRedirect: func(_ *http.Request, via []*http.Request) error {
				if len(via) >= 5 {
					return fmt.Errorf("too many redirects")
				}
				return nil
			},
		},
		maxBodyBytes: 512 * 1024,
		logger:       logx.NewLogger("web_scraper"),
	}
}

// Name returns the tool name.
func (t *WebScraperTool) Name() string {
	return ToolWebScraper
}

// Definition returns the tool definition for LLM.
func (t *WebScraperTool) Definition() ToolDefinition {
	return ToolDefinition{
		Name: ToolWebScraper,
		Description: "Fetch a web page and return its readable text content. " +
			"Use after web_search to read a page from the results.",
		InputSchema: InputSchema{
			Type: "object",
			Properties: map[string]Property{
				"url": {
					Type:        "string",
					Description: "Full URL to fetch, including the scheme",
				},
			},
			Required: []string{"url"},
		},
	}
}

// Exec fetches and extracts page text. Failures degrade to a fallback
// message rather than an error.
func (t *WebScraperTool) Exec(ctx context.Context, args map[string]any) (*ExecResult, error) {
	urlStr, ok := args["url"].(string)
	if !ok || urlStr == "" {
		return nil, fmt.Errorf("url is required and must be a string")
	}
	if !strings.HasPrefix(urlStr, "http://") && !strings.HasPrefix(urlStr, "https://") {
		return &ExecResult{Content: webScraperFallback, Success: false}, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, http.NoBody)
	if err != nil {
		return &ExecResult{Content: webScraperFallback, Success: false}, nil
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; Advisor/1.0)")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,text/plain;q=0.8")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		t.logger.Warn("scrape request failed: %v", err)
		return &ExecResult{Content: webScraperFallback, Success: false}, nil
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		t.logger.Warn("scrape of %s returned HTTP %d", urlStr, resp.StatusCode)
		return &ExecResult{Content: webScraperFallback, Success: false}, nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, t.maxBodyBytes))
	if err != nil {
		return &ExecResult{Content: webScraperFallback, Success: false}, nil
	}

	text := extractPageText(string(body))
	if text == "" {
		return &ExecResult{Content: webScraperFallback, Success: false}, nil
	}
	if len(text) > maxScrapeChars {
		text = text[:maxScrapeChars]
	}

	return &ExecResult{Content: text, Success: true}, nil
}

// extractPageText walks the parsed HTML and collects visible text,
// skipping script and style subtrees.
func extractPageText(content string) string {
	doc, err := html.Parse(strings.NewReader(content))
	if err != nil {
		return ""
	}

	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript":
				return
			}
		}
		if n.Type == html.TextNode {
			trimmed := strings.TrimSpace(n.Data)
			if trimmed != "" {
				sb.WriteString(trimmed)
				sb.WriteString(" ")
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return strings.TrimSpace(sb.String())
}
