package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SessionMessage is a persisted chat message.
type SessionMessage struct {
	ID        string
	SessionID string
	Role      string
	Content   string
	CreatedAt time.Time
}

// CreateSession records a new chat session and returns its ID.
func CreateSession(ctx context.Context, db *sql.DB) (string, error) {
	id := uuid.New().String()
	if _, err := db.ExecContext(ctx, `INSERT INTO sessions (id) VALUES (?)`, id); err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}
	return id, nil
}

// SaveMessage appends a message to a session's history.
func SaveMessage(ctx context.Context, db *sql.DB, sessionID, role, content string) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO messages (id, session_id, role, content) VALUES (?, ?, ?, ?)`,
		uuid.New().String(), sessionID, role, content,
	)
	if err != nil {
		return fmt.Errorf("failed to save message: %w", err)
	}
	return nil
}

// GetMessages returns a session's messages in insertion order.
func GetMessages(ctx context.Context, db *sql.DB, sessionID string) ([]SessionMessage, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, session_id, role, content, created_at
		 FROM messages WHERE session_id = ? ORDER BY created_at, id`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var messages []SessionMessage
	for rows.Next() {
		var m SessionMessage
		if err := rows.Scan(&m.ID, &m.SessionID, &m.Role, &m.Content, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("message iteration failed: %w", err)
	}
	return messages, nil
}

// ClearMessages removes all messages for a session.
func ClearMessages(ctx context.Context, db *sql.DB, sessionID string) error {
	if _, err := db.ExecContext(ctx, `DELETE FROM messages WHERE session_id = ?`, sessionID); err != nil {
		return fmt.Errorf("failed to clear messages: %w", err)
	}
	return nil
}
