package game

import (
	"errors"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/jason-s-yu/landgrab/internal/models"
)

// ErrMatchNotFound is returned when a match id is not in the store.
var ErrMatchNotFound = errors.New("match not found")

// ResolvedFunc is called with a snapshot after every committed ApplyAction.
// seq numbers the resolutions of one match from 1. Calls for one match arrive in seq order.
type ResolvedFunc func(seq int, state models.GameState)

// Session wraps an Engine with the lock that serializes callers and the
// per-match metadata the transport needs.
type Session struct {
	matchID string

	mu      sync.Mutex
	engine  *Engine
	npcRand *rand.Rand
	seq     int

	// notifyMu is taken before mu is released so listeners see resolutions in order.
	notifyMu sync.Mutex

	// NPCPlayerID names the seat played by the computer, or is empty.
	NPCPlayerID string
	CreatedAt   time.Time

	onResolved []ResolvedFunc
}

// ID returns the match id.
func (s *Session) ID() string {
	return s.matchID
}

// State returns a snapshot of the match.
func (s *Session) State() models.GameState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.GetState()
}

// Advance runs AdvanceTurn under the session lock.
func (s *Session) Advance() models.GameState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.AdvanceTurn()
}

// Apply runs ApplyAction under the session lock and notifies listeners.
func (s *Session) Apply(action1, action2 *models.Action) models.GameState {
	return s.ApplyWith(func(models.GameState, *rand.Rand) (*models.Action, *models.Action) {
		return action1, action2
	})
}

// ApplyWith lets choose inspect the current state before picking both actions,
// all under one lock so nothing can change in between. npcRand is the session's
// NPC source and must not be kept past the call.
// Listeners are not notified when the match was already over.
func (s *Session) ApplyWith(choose func(current models.GameState, npcRand *rand.Rand) (*models.Action, *models.Action)) models.GameState {
	s.mu.Lock()
	current := s.engine.GetState()
	if current.IsOver() {
		s.mu.Unlock()
		return current
	}
	a1, a2 := choose(current, s.npcRand)
	next := s.engine.ApplyAction(a1, a2)
	s.seq++
	seq := s.seq
	listeners := s.onResolved
	s.notifyMu.Lock()
	s.mu.Unlock()
	defer s.notifyMu.Unlock()

	for _, fn := range listeners {
		fn(seq, next.Clone())
	}
	return next
}

// MatchStore is the registry of live matches, keyed by match id.
type MatchStore struct {
	mu         sync.Mutex
	sessions   map[string]*Session
	onResolved []ResolvedFunc
}

func NewMatchStore() *MatchStore {
	return &MatchStore{
		sessions: make(map[string]*Session),
	}
}

// OnResolved registers fn for every session added after this call.
func (m *MatchStore) OnResolved(fn ResolvedFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onResolved = append(m.onResolved, fn)
}

// Add registers engine under its match id and returns its session.
// npcRand drives the NPC seat's choices; nil gets a time-seeded source.
func (m *MatchStore) Add(engine *Engine, npcPlayerID string, npcRand *rand.Rand) *Session {
	if npcRand == nil {
		npcRand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	s := &Session{
		matchID:     engine.MatchID(),
		engine:      engine,
		npcRand:     npcRand,
		NPCPlayerID: npcPlayerID,
		CreatedAt:   time.Now(),
		onResolved:  append([]ResolvedFunc(nil), m.onResolved...),
	}
	m.sessions[s.matchID] = s
	return s
}

// Get returns the session for id.
func (m *MatchStore) Get(id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrMatchNotFound
	}
	return s, nil
}

// Delete removes a match. Deleting an unknown id returns ErrMatchNotFound.
func (m *MatchStore) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return ErrMatchNotFound
	}
	delete(m.sessions, id)
	return nil
}

// IDs returns the ids of every live match, sorted.
func (m *MatchStore) IDs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len returns the number of live matches.
func (m *MatchStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
