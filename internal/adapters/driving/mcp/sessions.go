package mcp

import (
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/custodia-labs/copilot-cli/internal/core/ports/driving"
)

// maxConversations bounds the conversations kept in memory. The oldest is
// evicted first.
const maxConversations = 32

// fixedScope is a conversation's Scope. It is set by the first question
// that names documents and replaced only by a later one that does.
type fixedScope struct {
	mu  sync.Mutex
	ids []string
}

func (f *fixedScope) set(ids []string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ids = slices.Clone(ids)
}

// ScopedDocIDs returns the current scope.
func (f *fixedScope) ScopedDocIDs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.ids)
}

type session struct {
	id           string
	scope        *fixedScope
	conversation driving.Conversation

	// mu orders scope changes with the question that uses them.
	mu sync.Mutex
}

type sessions struct {
	factory ConversationFactory

	mu    sync.Mutex
	byID  map[string]*session
	order []string
}

func newSessions(factory ConversationFactory) *sessions {
	return &sessions{factory: factory, byID: make(map[string]*session)}
}

// get returns the conversation for id, starting a new one when id is empty.
func (ss *sessions) get(id string) (*session, error) {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	if id != "" {
		s, ok := ss.byID[id]
		if !ok {
			return nil, fmt.Errorf("conversation %s: %w", id, ErrUnknownConversation)
		}
		return s, nil
	}

	scope := &fixedScope{}
	s := &session{
		id:           uuid.NewString(),
		scope:        scope,
		conversation: ss.factory(scope),
	}
	ss.byID[s.id] = s
	ss.order = append(ss.order, s.id)

	for len(ss.order) > maxConversations {
		delete(ss.byID, ss.order[0])
		ss.order = ss.order[1:]
	}
	return s, nil
}

func (ss *sessions) count() int {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	return len(ss.byID)
}
