package assistant

import (
	"log"
	"sync"

	"github.com/guilhermexp/lifebetter/internal/events"
	"github.com/guilhermexp/lifebetter/internal/lock"
	"github.com/guilhermexp/lifebetter/internal/model"
	"github.com/guilhermexp/lifebetter/internal/store"
)

// Manager hands out one Session per conversation ID and serializes
// utterances within a conversation. Different conversations proceed in
// parallel against the shared store.
type Manager struct {
	cfg    model.Config
	store  store.TaskStore
	bus    *events.Bus
	online OnlineChecker
	logger *log.Logger

	mu       sync.Mutex
	sessions map[string]*Session
	locks    *lock.MutexMap
}

func NewManager(cfg model.Config, st store.TaskStore, bus *events.Bus, online OnlineChecker, logger *log.Logger) *Manager {
	return &Manager{
		cfg:      cfg,
		store:    st,
		bus:      bus,
		online:   online,
		logger:   logger,
		sessions: make(map[string]*Session),
		locks:    lock.NewMutexMap(),
	}
}

// Session returns the session for the conversation, creating it on first
// use.
func (m *Manager) Session(conversationID string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[conversationID]; ok {
		return s
	}
	s := NewSession(conversationID, m.cfg, m.store, m.bus, m.online, m.logger)
	m.sessions[conversationID] = s
	return s
}

// Handle routes one utterance into its conversation's session under the
// per-conversation lock.
func (m *Manager) Handle(conversationID, text string) (model.CommandResult, error) {
	m.locks.Lock(conversationID)
	defer m.locks.Unlock(conversationID)

	return m.Session(conversationID).Handle(text)
}
