// Package webui provides the browser dashboard: a chat pane over the
// advisor session plus a live view of recent log output.
package webui

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"advisor/pkg/chat"
	"advisor/pkg/logx"
	"advisor/pkg/version"
)

//go:embed web/templates/*.html
var templateFS embed.FS

// Server is the web UI HTTP server. It owns one chat session; the web UI
// is a single-user surface like the CLI.
type Server struct {
	session   *chat.Session
	templates *template.Template
	logger    *logx.Logger
}

// NewServer creates a web UI server over the given session.
func NewServer(session *chat.Session) *Server {
	// Templates are embedded, a parse failure is a build defect.
	templates := template.Must(template.ParseFS(templateFS, "web/templates/*.html"))
	return &Server{
		session:   session,
		templates: templates,
		logger:    logx.NewLogger("webui"),
	}
}

// RegisterRoutes registers all web UI routes on the mux.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/", s.handleDashboard)
	mux.HandleFunc("/api/chat", s.handleChat)
	mux.HandleFunc("/api/clear", s.handleClear)
	mux.HandleFunc("/api/logs", s.handleLogs)
	mux.HandleFunc("/api/healthz", s.handleHealth)
}

// ListenAndServe runs the server until the context is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	s.RegisterRoutes(mux)

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	s.logger.Info("web UI listening on %s", addr)
	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, "dashboard.html", nil); err != nil {
		s.logger.Error("failed to render dashboard: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Response string   `json:"response"`
	Mode     string   `json:"mode"`
	Sections []string `json:"sections,omitempty"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}
	if req.Message == "" {
		http.Error(w, "message is required", http.StatusBadRequest)
		return
	}

	reply, err := s.session.ProcessMessage(r.Context(), req.Message)
	if err != nil {
		s.logger.Error("chat turn failed: %v", err)
		http.Error(w, fmt.Sprintf("chat failed: %v", err), http.StatusInternalServerError)
		return
	}

	s.writeJSON(w, chatResponse{
		Response: reply.Content,
		Mode:     string(reply.Mode),
		Sections: reply.Sections,
	})
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := s.session.Clear(r.Context()); err != nil {
		http.Error(w, fmt.Sprintf("clear failed: %v", err), http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, map[string]string{"status": "cleared"})
}

// handleLogs returns recent log entries from the in-memory buffer.
// Query params: component (filter), since (RFC3339 timestamp).
func (s *Server) handleLogs(w http.ResponseWriter, r *http.Request) {
	component := r.URL.Query().Get("component")

	var since time.Time
	if raw := r.URL.Query().Get("since"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			http.Error(w, "invalid since timestamp, want RFC3339", http.StatusBadRequest)
			return
		}
		since = parsed
	}

	entries := logx.GetRecentLogEntries(component, since)
	s.writeJSON(w, map[string]any{
		"entries": entries,
		"count":   len(entries),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, map[string]string{"status": "ok", "version": version.Version})
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response: %v", err)
	}
}
