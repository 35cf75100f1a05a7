// internal/database/deck.go
package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jason-s-yu/landgrab/internal/models"
)

// DeckStore persists saved deck lists keyed by an opaque owner id.
// Template ids inside a deck are not checked against any catalog here.
type DeckStore interface {
	CreateDeck(ctx context.Context, ownerID string, deck models.Deck) (models.Deck, error)
	GetDeck(ctx context.Context, ownerID, deckID string) (models.Deck, error)
	ListDecks(ctx context.Context, ownerID string) ([]models.Deck, error)
	UpdateDeck(ctx context.Context, ownerID, deckID string, deck models.Deck) (models.Deck, error)
	DeleteDeck(ctx context.Context, ownerID, deckID string) error
}

// ValidateDeck checks the shape of a deck list.
func ValidateDeck(deck models.Deck) error {
	if deck.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidDeck)
	}
	total := 0
	for _, c := range deck.Cards {
		if c.TemplateID == "" {
			return fmt.Errorf("%w: card entry without templateId", ErrInvalidDeck)
		}
		if c.Count <= 0 || c.Count > models.MaxCopiesPerCard {
			return fmt.Errorf("%w: %s has count %d, want 1-%d", ErrInvalidDeck, c.TemplateID, c.Count, models.MaxCopiesPerCard)
		}
		total += c.Count
		if total > models.MaxDeckSize {
			return fmt.Errorf("%w: more than %d cards", ErrInvalidDeck, models.MaxDeckSize)
		}
	}
	return nil
}

// prepareCreate validates deck and assigns an id if it has none.
func prepareCreate(deck models.Deck) (models.Deck, error) {
	if err := ValidateDeck(deck); err != nil {
		return models.Deck{}, err
	}
	if deck.ID == "" {
		deck.ID = uuid.NewString()
	}
	if deck.Cards == nil {
		deck.Cards = []models.DeckCard{}
	}
	return deck, nil
}

// prepareUpdate validates deck and checks that its id matches the one in the request path.
// An empty body id adopts the path id.
func prepareUpdate(deckID string, deck models.Deck) (models.Deck, error) {
	if deck.ID == "" {
		deck.ID = deckID
	}
	if deck.ID != deckID {
		return models.Deck{}, fmt.Errorf("%w: deck id %q in body does not match %q", ErrInvalidDeck, deck.ID, deckID)
	}
	if err := ValidateDeck(deck); err != nil {
		return models.Deck{}, err
	}
	if deck.Cards == nil {
		deck.Cards = []models.DeckCard{}
	}
	return deck, nil
}

// PgDeckStore is the Postgres implementation of DeckStore.
type PgDeckStore struct {
	pool *pgxpool.Pool
}

func NewPgDeckStore(pool *pgxpool.Pool) *PgDeckStore {
	return &PgDeckStore{pool: pool}
}

// CreateDeck stores deck for ownerID, overwriting any deck with the same id.
func (s *PgDeckStore) CreateDeck(ctx context.Context, ownerID string, deck models.Deck) (models.Deck, error) {
	deck, err := prepareCreate(deck)
	if err != nil {
		return models.Deck{}, err
	}
	cards, err := json.Marshal(deck.Cards)
	if err != nil {
		return models.Deck{}, fmt.Errorf("failed to marshal deck cards: %w", err)
	}

	q := `
		INSERT INTO decks (owner_id, id, name, cards)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (owner_id, id)
		DO UPDATE SET name = EXCLUDED.name, cards = EXCLUDED.cards, updated_at = NOW()
	`
	err = pgx.BeginTxFunc(ctx, s.pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
		_, execErr := tx.Exec(ctx, q, ownerID, deck.ID, deck.Name, cards)
		return execErr
	})
	if err != nil {
		return models.Deck{}, fmt.Errorf("failed to insert deck: %w", err)
	}
	return deck, nil
}

func (s *PgDeckStore) GetDeck(ctx context.Context, ownerID, deckID string) (models.Deck, error) {
	q := `SELECT id, name, cards FROM decks WHERE owner_id = $1 AND id = $2`
	deck, err := scanDeck(s.pool.QueryRow(ctx, q, ownerID, deckID))
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Deck{}, ErrDeckNotFound
	}
	if err != nil {
		return models.Deck{}, fmt.Errorf("failed to get deck %s: %w", deckID, err)
	}
	return deck, nil
}

// ListDecks returns every deck of ownerID ordered by name; an owner with no decks gets an empty slice.
func (s *PgDeckStore) ListDecks(ctx context.Context, ownerID string) ([]models.Deck, error) {
	q := `SELECT id, name, cards FROM decks WHERE owner_id = $1 ORDER BY name, id`
	rows, err := s.pool.Query(ctx, q, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list decks: %w", err)
	}
	defer rows.Close()

	decks := []models.Deck{}
	for rows.Next() {
		d, err := scanDeck(rows)
		if err != nil {
			return nil, err
		}
		decks = append(decks, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list decks: %w", err)
	}
	return decks, nil
}

func (s *PgDeckStore) UpdateDeck(ctx context.Context, ownerID, deckID string, deck models.Deck) (models.Deck, error) {
	deck, err := prepareUpdate(deckID, deck)
	if err != nil {
		return models.Deck{}, err
	}
	cards, err := json.Marshal(deck.Cards)
	if err != nil {
		return models.Deck{}, fmt.Errorf("failed to marshal deck cards: %w", err)
	}

	q := `
		UPDATE decks SET name = $3, cards = $4, updated_at = NOW()
		WHERE owner_id = $1 AND id = $2
	`
	err = pgx.BeginTxFunc(ctx, s.pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
		tag, execErr := tx.Exec(ctx, q, ownerID, deckID, deck.Name, cards)
		if execErr != nil {
			return execErr
		}
		if tag.RowsAffected() == 0 {
			return ErrDeckNotFound
		}
		return nil
	})
	if errors.Is(err, ErrDeckNotFound) {
		return models.Deck{}, err
	}
	if err != nil {
		return models.Deck{}, fmt.Errorf("failed to update deck: %w", err)
	}
	return deck, nil
}

func (s *PgDeckStore) DeleteDeck(ctx context.Context, ownerID, deckID string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM decks WHERE owner_id = $1 AND id = $2`, ownerID, deckID)
	if err != nil {
		return fmt.Errorf("failed to delete deck: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrDeckNotFound
	}
	return nil
}

func scanDeck(row pgx.Row) (models.Deck, error) {
	var d models.Deck
	var cards []byte
	if err := row.Scan(&d.ID, &d.Name, &cards); err != nil {
		return models.Deck{}, err
	}
	if err := json.Unmarshal(cards, &d.Cards); err != nil {
		return models.Deck{}, fmt.Errorf("failed to decode cards of deck %s: %w", d.ID, err)
	}
	return d, nil
}
