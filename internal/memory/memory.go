package memory

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	MaxSessions    = 50
	ExpiryDays     = 30
	SessionsFolder = ".sixhats/sessions"
)

// ErrSessionNotFound is returned when no file exists for a session ID.
var ErrSessionNotFound = errors.New("session not found")

type Message struct {
	AgentID   string    `json:"agent_id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

type Session struct {
	ID        string    `json:"id"`
	Workflow  string    `json:"workflow"`
	Problem   string    `json:"problem,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Messages  []Message `json:"messages"`
}

// GetSessionsDir returns the path to sessions directory
func GetSessionsDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, SessionsFolder)
}

// GenerateID creates a short unique session ID
func GenerateID() string {
	return strings.SplitN(uuid.NewString(), "-", 2)[0]
}

// NewSession creates a new session
func NewSession(workflow string) *Session {
	now := time.Now()
	return &Session{
		ID:        GenerateID(),
		Workflow:  workflow,
		CreatedAt: now,
		UpdatedAt: now,
		Messages:  []Message{},
	}
}

// AddMessage appends a message to the session
func (s *Session) AddMessage(agentID, role, content string) {
	s.Messages = append(s.Messages, Message{
		AgentID:   agentID,
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	})
	s.UpdatedAt = time.Now()
}

// GetHistory returns formatted history for context
func (s *Session) GetHistory() string {
	if len(s.Messages) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("=== Previous Session Context ===\n\n")
	for _, msg := range s.Messages {
		fmt.Fprintf(&sb, "[%s] %s:\n%s\n\n", msg.AgentID, msg.Role, msg.Content)
	}
	return sb.String()
}

// Store keeps sessions as JSON files in Dir.
type Store struct {
	Dir string
}

// NewStore returns a store rooted at dir, or ~/.sixhats/sessions when empty.
func NewStore(dir string) *Store {
	if dir == "" {
		dir = GetSessionsDir()
	}
	return &Store{Dir: dir}
}

func (st *Store) path(id string) string {
	return filepath.Join(st.Dir, id+".json")
}

// Save persists the session to disk
func (st *Store) Save(s *Session) error {
	if err := os.MkdirAll(st.Dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(st.path(s.ID), data, 0644)
}

// Load loads a session by ID
func (st *Store) Load(id string) (*Session, error) {
	data, err := os.ReadFile(st.path(id))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
		}
		return nil, err
	}

	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("session %s: %w", id, err)
	}
	return &session, nil
}

// List returns all sessions, most recently updated first
func (st *Store) List() ([]Session, error) {
	files, err := os.ReadDir(st.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []Session{}, nil
		}
		return nil, err
	}

	var sessions []Session
	for _, f := range files {
		if filepath.Ext(f.Name()) != ".json" {
			continue
		}

		session, err := st.Load(strings.TrimSuffix(f.Name(), ".json"))
		if err != nil {
			continue
		}
		sessions = append(sessions, *session)
	}

	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].UpdatedAt.After(sessions[j].UpdatedAt)
	})

	return sessions, nil
}

// Latest returns the most recently updated session, or nil if none exist
func (st *Store) Latest() (*Session, error) {
	sessions, err := st.List()
	if err != nil || len(sessions) == 0 {
		return nil, err
	}
	return &sessions[0], nil
}

// Cleanup removes expired and excess sessions and reports how many went.
func (st *Store) Cleanup(now time.Time) (int, error) {
	sessions, err := st.List()
	if err != nil {
		return 0, err
	}

	cutoff := now.AddDate(0, 0, -ExpiryDays)
	removed := 0
	for i, s := range sessions {
		if s.UpdatedAt.Before(cutoff) || i >= MaxSessions {
			if err := os.Remove(st.path(s.ID)); err == nil {
				removed++
			}
		}
	}

	return removed, nil
}

// Delete removes a session by ID
func (st *Store) Delete(id string) error {
	err := os.Remove(st.path(id))
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return err
}
