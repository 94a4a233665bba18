package tools

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"advisor/pkg/logx"
)

// ToolWeather is the constant name for the weather tool.
const ToolWeather = "get_weather"

const weatherFallback = "Weather data unavailable"

// WeatherTool fetches a one-line weather report from wttr.in.
type WeatherTool struct {
	httpClient *http.Client
	baseURL    string
	logger     *logx.Logger
}

// NewWeatherTool creates a weather tool against the public wttr.in service.
func NewWeatherTool() *WeatherTool {
	return NewWeatherToolWithBase("https://wttr.in")
}

// NewWeatherToolWithBase creates a weather tool against a specific base URL.
func NewWeatherToolWithBase(baseURL string) *WeatherTool {
	return &WeatherTool{
		httpClient: &http.Client{Timeout: 5 * time.Second},
		baseURL:    strings.TrimRight(baseURL, "/"),
		logger:     logx.NewLogger("weather"),
	}
}

// Name returns the tool name.
func (t *WeatherTool) Name() string {
	return ToolWeather
}

// Definition returns the tool definition for LLM.
func (t *WeatherTool) Definition() ToolDefinition {
	return ToolDefinition{
		Name:        ToolWeather,
		Description: "Get the current weather for a city. Returns a short one-line report.",
		InputSchema: InputSchema{
			Type: "object",
			Properties: map[string]Property{
				"city": {
					Type:        "string",
					Description: "City name, e.g. 'Berlin' or 'San Francisco'",
				},
			},
			Required: []string{"city"},
		},
	}
}

// Exec fetches the report. Network or service failures degrade to a
// fallback message rather than an error.
func (t *WeatherTool) Exec(ctx context.Context, args map[string]any) (*ExecResult, error) {
	city, ok := args["city"].(string)
	if !ok || strings.TrimSpace(city) == "" {
		return nil, fmt.Errorf("city is required and must be a string")
	}

	reqURL := fmt.Sprintf("%s/%s?format=3", t.baseURL, url.PathEscape(strings.TrimSpace(city)))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return &ExecResult{Content: weatherFallback, Success: false}, nil
	}
	req.Header.Set("User-Agent", "curl/8.0")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		t.logger.Warn("weather request failed: %v", err)
		return &ExecResult{Content: weatherFallback, Success: false}, nil
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		t.logger.Warn("weather service returned HTTP %d", resp.StatusCode)
		return &ExecResult{Content: weatherFallback, Success: false}, nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil {
		return &ExecResult{Content: weatherFallback, Success: false}, nil
	}

	report := strings.TrimSpace(string(body))
	if report == "" {
		return &ExecResult{Content: weatherFallback, Success: false}, nil
	}

	return &ExecResult{Content: report, Success: true}, nil
}
