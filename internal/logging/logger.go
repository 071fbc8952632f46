// Package logging holds the process logger and the per-run transcript
// written under ~/.sixhats/logs.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// ExecutionLogger records a brainstorming run as a readable transcript.
type ExecutionLogger interface {
	Log(format string, args ...interface{})
	LogAgent(agentID, event, details string)
	LogSection(title string)
	LogAgentOutput(agentID, role, output string)
	LogError(err error)
	LogToolCall(toolName, input, output string)
	Close() error
	GetFilePath() string
}

var (
	_ ExecutionLogger = (*Logger)(nil)
	_ ExecutionLogger = (*NullLogger)(nil)
)

// DefaultLogDir returns ~/.sixhats/logs.
func DefaultLogDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".sixhats", "logs")
}

// Logger handles file-based execution logging
type Logger struct {
	mu       sync.Mutex
	file     *os.File
	filePath string
}

// NewLogger creates a transcript file for a session in logDir, or in
// DefaultLogDir when logDir is empty.
func NewLogger(sessionID string, logDir string) (*Logger, error) {
	if logDir == "" {
		logDir = DefaultLogDir()
	}
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	name := fmt.Sprintf("%s_%s.log", time.Now().Format("2006-01-02_15-04-05"), sessionID)
	filePath := filepath.Join(logDir, name)
	file, err := os.Create(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to create log file: %w", err)
	}

	l := &Logger{file: file, filePath: filePath}
	l.write(frame('═', "SIX HATS BRAINSTORMING LOG", "",
		"Session: "+sessionID,
		"Started: "+time.Now().Format(stampLayout)) + "\n")
	return l, nil
}

const (
	frameWidth  = 62
	stampLayout = "2006-01-02 15:04:05"
)

// frame draws lines inside a box of frameWidth columns. An empty line
// becomes a divider.
func frame(edge rune, lines ...string) string {
	bar := strings.Repeat(string(edge), frameWidth)
	var sb strings.Builder
	fmt.Fprintf(&sb, "+%s+\n", bar)
	for _, line := range lines {
		if line == "" {
			fmt.Fprintf(&sb, "+%s+\n", bar)
			continue
		}
		fmt.Fprintf(&sb, "|  %-*s|\n", frameWidth-2, line)
	}
	fmt.Fprintf(&sb, "+%s+\n", bar)
	return sb.String()
}

func (l *Logger) write(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return
	}
	l.file.WriteString(s)
}

// Log writes a timestamped line
func (l *Logger) Log(format string, args ...interface{}) {
	l.write(fmt.Sprintf("[%s] %s\n", time.Now().Format("15:04:05"), fmt.Sprintf(format, args...)))
}

func (l *Logger) LogAgent(agentID, event, details string) {
	l.Log("[%s] %s: %s", agentID, event, details)
}

func (l *Logger) LogSection(title string) {
	bar := strings.Repeat("=", frameWidth+2)
	l.write(fmt.Sprintf("\n%s\n  %s\n%s\n\n", bar, title, bar))
}

// LogAgentOutput writes a hat's full answer under a small header.
func (l *Logger) LogAgentOutput(agentID, role, output string) {
	l.write("\n" + frame('-', "Agent: "+agentID, "Role:  "+role) + output + "\n")
}

func (l *Logger) LogError(err error) {
	l.Log("ERROR: %v", err)
}

// LogToolCall records a tool call with its input and output shortened.
func (l *Logger) LogToolCall(toolName, input, output string) {
	l.Log("TOOL [%s] Input: %s", toolName, truncate(input, 100))
	l.Log("TOOL [%s] Output: %s", toolName, truncate(output, 200))
}

// Close writes the footer and closes the file. Later calls are no-ops.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}

	l.file.WriteString("\n" + frame('═', "Completed: "+time.Now().Format(stampLayout)))
	err := l.file.Close()
	l.file = nil
	return err
}

func (l *Logger) GetFilePath() string {
	return l.filePath
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

// NullLogger is a no-op logger when logging is disabled
type NullLogger struct{}

func (n *NullLogger) Log(format string, args ...interface{})      {}
func (n *NullLogger) LogAgent(agentID, event, details string)     {}
func (n *NullLogger) LogSection(title string)                     {}
func (n *NullLogger) LogAgentOutput(agentID, role, output string) {}
func (n *NullLogger) LogError(err error)                          {}
func (n *NullLogger) LogToolCall(toolName, input, output string)  {}
func (n *NullLogger) Close() error                                { return nil }
func (n *NullLogger) GetFilePath() string                         { return "" }
