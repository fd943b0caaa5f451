// Package testutil provides shared test doubles for the search service.
package testutil

import (
	"strings"
	"sync"

	"github.com/turtacn/KeyMark-Search/internal/infrastructure/monitoring/logging"
)

// MockLogger implements logging.Logger and records every entry.
type MockLogger struct {
	mu       *sync.Mutex
	name     string
	entries  *[]LogMessage
	Messages []LogMessage
}

// LogMessage is one entry captured by MockLogger.
type LogMessage struct {
	Level   string
	Logger  string
	Message string
	Fields  []logging.Field
}

// NewMockLogger creates a MockLogger.
func NewMockLogger() *MockLogger {
	entries := make([]LogMessage, 0)
	return &MockLogger{mu: &sync.Mutex{}, entries: &entries}
}

func (m *MockLogger) log(level, msg string, fields []logging.Field) {
	m.mu.Lock()
	defer m.mu.Unlock()
	*m.entries = append(*m.entries, LogMessage{Level: level, Logger: m.name, Message: msg, Fields: fields})
	m.Messages = *m.entries
}

func (m *MockLogger) Debug(msg string, fields ...logging.Field) { m.log("debug", msg, fields) }
func (m *MockLogger) Info(msg string, fields ...logging.Field)  { m.log("info", msg, fields) }
func (m *MockLogger) Warn(msg string, fields ...logging.Field)  { m.log("warn", msg, fields) }
func (m *MockLogger) Error(msg string, fields ...logging.Field) { m.log("error", msg, fields) }
func (m *MockLogger) Fatal(msg string, fields ...logging.Field) { m.log("fatal", msg, fields) }

// With returns m; fields are not merged into later entries.
func (m *MockLogger) With(fields ...logging.Field) logging.Logger { return m }

// Named returns a logger sharing m's entries under a dotted name.
func (m *MockLogger) Named(name string) logging.Logger {
	child := *m
	if m.name != "" {
		child.name = m.name + "." + name
	} else {
		child.name = name
	}
	return &child
}

func (m *MockLogger) Sync() error { return nil }

// GetMessages returns a copy of all logged entries, including those of
// named children.
func (m *MockLogger) GetMessages() []LogMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]LogMessage, len(*m.entries))
	copy(result, *m.entries)
	return result
}

// Clear removes all logged entries.
func (m *MockLogger) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	*m.entries = (*m.entries)[:0]
	m.Messages = nil
}

// HasMessage reports whether an entry with level and exact msg was logged.
func (m *MockLogger) HasMessage(level, msg string) bool {
	for _, logged := range m.GetMessages() {
		if logged.Level == level && logged.Message == msg {
			return true
		}
	}
	return false
}

// HasMessageContaining reports whether an entry at level contains substr.
func (m *MockLogger) HasMessageContaining(level, substr string) bool {
	for _, logged := range m.GetMessages() {
		if logged.Level == level && strings.Contains(logged.Message, substr) {
			return true
		}
	}
	return false
}

//Personal.AI order the ending
