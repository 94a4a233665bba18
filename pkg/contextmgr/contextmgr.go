// Package contextmgr manages conversation history for the chat agents.
// The full exchange is retained until Clear is called, with oldest-first
// compaction only when the context outgrows the model window.
package contextmgr

import (
	"fmt"
	"strings"

	"advisor/pkg/utils"
)

// Message represents a single message in the conversation context.
type Message struct {
	Role    string
	Content string
}

// ContextManager manages conversation context and token counting.
type ContextManager struct {
	messages []Message
	counter  *utils.TokenCounter
}

// NewContextManager creates a new context manager instance.
func NewContextManager() *ContextManager {
	counter, err := utils.NewTokenCounter()
	if err != nil {
		counter = nil // CountTokens falls back to character estimation
	}
	return &ContextManager{
		messages: make([]Message, 0),
		counter:  counter,
	}
}

// AddMessage stores a role/content pair in the context.
func (cm *ContextManager) AddMessage(role, content string) {
	cm.messages = append(cm.messages, Message{
		Role:    role,
		Content: content,
	})
}

// CountTokens returns the token count of the full context.
func (cm *ContextManager) CountTokens() int {
	total := 0
	for i := range cm.messages {
		msg := &cm.messages[i]
		if cm.counter != nil {
			total += cm.counter.CountTokens(msg.Role) + cm.counter.CountTokens(msg.Content)
		} else {
			total += (len(msg.Role) + len(msg.Content)) / 4
		}
	}
	return total
}

// CompactIfNeeded drops oldest messages until the context fits under the
// threshold. The most recent message is always kept.
func (cm *ContextManager) CompactIfNeeded(threshold int) {
	if cm.CountTokens() <= threshold {
		return
	}

	target := threshold / 2
	for cm.CountTokens() > target && len(cm.messages) > 1 {
		cm.messages = cm.messages[1:]
	}
}

// GetMessages returns a copy of all messages in the context.
func (cm *ContextManager) GetMessages() []Message {
	result := make([]Message, len(cm.messages))
	copy(result, cm.messages)
	return result
}

// History renders the conversation as "role: content" lines, the format
// the diagnostic classifiers inspect for follow-up detection.
func (cm *ContextManager) History() string {
	var sb strings.Builder
	for i := range cm.messages {
		msg := &cm.messages[i]
		sb.WriteString(msg.Role)
		sb.WriteString(": ")
		sb.WriteString(msg.Content)
		sb.WriteString("\n")
	}
	return sb.String()
}

// Clear removes all messages from the context.
func (cm *ContextManager) Clear() {
	cm.messages = cm.messages[:0]
}

// GetMessageCount returns the number of messages in the context.
func (cm *ContextManager) GetMessageCount() int {
	return len(cm.messages)
}

// GetContextSummary returns a brief summary of the context state.
func (cm *ContextManager) GetContextSummary() string {
	messageCount := len(cm.messages)
	if messageCount == 0 {
		return "Empty context"
	}

	roleCounts := make(map[string]int)
	for i := range cm.messages {
		roleCounts[cm.messages[i].Role]++
	}

	var roleBreakdown []string
	for role, count := range roleCounts {
		roleBreakdown = append(roleBreakdown, fmt.Sprintf("%s: %d", role, count))
	}

	return fmt.Sprintf("%d messages (%d tokens) - %s",
		messageCount, cm.CountTokens(), strings.Join(roleBreakdown, ", "))
}
