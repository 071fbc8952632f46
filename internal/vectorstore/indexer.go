package vectorstore

import (
	"context"
	"fmt"

	"sixhats/internal/memory"

	"github.com/philippgille/chromem-go"
)

// IndexSession indexes every non-empty message of a session
func IndexSession(ctx context.Context, store *ChromemStore, session *memory.Session) error {
	docs := make([]chromem.Document, 0, len(session.Messages))
	for i, msg := range session.Messages {
		if msg.Content == "" {
			continue
		}
		docs = append(docs, chromem.Document{
			ID:      fmt.Sprintf("%s_%d", session.ID, i),
			Content: msg.Content,
			Metadata: map[string]string{
				"session_id": session.ID,
				"workflow":   session.Workflow,
				"agent_id":   msg.AgentID,
				"role":       msg.Role,
				"timestamp":  msg.Timestamp.Format("2006-01-02 15:04:05"),
			},
		})
	}
	if len(docs) == 0 {
		return nil
	}

	if err := store.AddDocuments(ctx, docs); err != nil {
		return fmt.Errorf("failed to index session %s: %w", session.ID, err)
	}
	return nil
}

// DeleteSession removes every indexed message of a session
func DeleteSession(ctx context.Context, store *ChromemStore, sessionID string) error {
	return store.collection.Delete(ctx, map[string]string{"session_id": sessionID}, nil)
}
