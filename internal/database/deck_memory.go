package database

import (
	"context"
	"sort"
	"sync"

	"github.com/jason-s-yu/landgrab/internal/models"
)

// MemoryDeckStore is an in-process DeckStore used when no database is configured, and in tests.
type MemoryDeckStore struct {
	mu    sync.Mutex
	decks map[string]map[string]models.Deck
}

func NewMemoryDeckStore() *MemoryDeckStore {
	return &MemoryDeckStore{decks: make(map[string]map[string]models.Deck)}
}

func copyDeck(d models.Deck) models.Deck {
	d.Cards = append([]models.DeckCard{}, d.Cards...)
	return d
}

func (s *MemoryDeckStore) CreateDeck(_ context.Context, ownerID string, deck models.Deck) (models.Deck, error) {
	deck, err := prepareCreate(deck)
	if err != nil {
		return models.Deck{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	owned, ok := s.decks[ownerID]
	if !ok {
		owned = make(map[string]models.Deck)
		s.decks[ownerID] = owned
	}
	owned[deck.ID] = copyDeck(deck)
	return copyDeck(deck), nil
}

func (s *MemoryDeckStore) GetDeck(_ context.Context, ownerID, deckID string) (models.Deck, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.decks[ownerID][deckID]
	if !ok {
		return models.Deck{}, ErrDeckNotFound
	}
	return copyDeck(d), nil
}

func (s *MemoryDeckStore) ListDecks(_ context.Context, ownerID string) ([]models.Deck, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Deck, 0, len(s.decks[ownerID]))
	for _, d := range s.decks[ownerID] {
		out = append(out, copyDeck(d))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *MemoryDeckStore) UpdateDeck(_ context.Context, ownerID, deckID string, deck models.Deck) (models.Deck, error) {
	deck, err := prepareUpdate(deckID, deck)
	if err != nil {
		return models.Deck{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.decks[ownerID][deckID]; !ok {
		return models.Deck{}, ErrDeckNotFound
	}
	s.decks[ownerID][deckID] = copyDeck(deck)
	return copyDeck(deck), nil
}

func (s *MemoryDeckStore) DeleteDeck(_ context.Context, ownerID, deckID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.decks[ownerID][deckID]; !ok {
		return ErrDeckNotFound
	}
	delete(s.decks[ownerID], deckID)
	return nil
}
