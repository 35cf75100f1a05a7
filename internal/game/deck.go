// internal/game/deck.go
package game

import (
	"fmt"
	"math/rand"

	"github.com/google/uuid"
	"github.com/jason-s-yu/landgrab/internal/models"
)

const (
	// HandSize is the number of cards a player is refilled to at the start of each turn.
	HandSize = 3

	gainFundsCopies = 4
	otherCopies     = 2
)

// StartingDeckList returns the default deck list for a catalog: four copies of every
// GAIN_FUNDS template and two of everything else, in template id order.
func StartingDeckList(cat Catalog) []models.DeckCard {
	ids := cat.IDs()
	list := make([]models.DeckCard, 0, len(ids))
	for _, id := range ids {
		t, _ := cat.Get(id)
		count := otherCopies
		if t.Type == models.EffectGainFunds {
			count = gainFundsCopies
		}
		list = append(list, models.DeckCard{TemplateID: id, Count: count})
	}
	return list
}

// checkDeckList bounds a list before buildCards mints anything from it.
func checkDeckList(list []models.DeckCard) error {
	total := 0
	for _, entry := range list {
		if entry.Count < 0 || entry.Count > models.MaxCopiesPerCard {
			return fmt.Errorf("%w: %s has count %d", ErrInvalidDeckList, entry.TemplateID, entry.Count)
		}
		total += entry.Count
		if total > models.MaxDeckSize {
			return fmt.Errorf("%w: more than %d cards", ErrInvalidDeckList, models.MaxDeckSize)
		}
	}
	return nil
}

// buildCards expands a deck list into physical cards with fresh ids.
func buildCards(list []models.DeckCard, cat Catalog) ([]models.Card, error) {
	var cards []models.Card
	for _, entry := range list {
		if _, ok := cat.Get(entry.TemplateID); !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownTemplate, entry.TemplateID)
		}
		for i := 0; i < entry.Count; i++ {
			cards = append(cards, models.Card{ID: uuid.NewString(), TemplateID: entry.TemplateID})
		}
	}
	return cards, nil
}

// shuffleCards applies a uniform random permutation in place.
func shuffleCards(cards []models.Card, r *rand.Rand) {
	r.Shuffle(len(cards), func(i, j int) {
		cards[i], cards[j] = cards[j], cards[i]
	})
}

// drawCards moves up to n cards from the front of the player's deck into their hand.
// When the deck runs out the discard pile is shuffled back in; if both are empty
// drawing stops early. It returns how many cards were reshuffled.
func drawCards(p *models.PlayerState, n int, r *rand.Rand) (reshuffled int) {
	for i := 0; i < n; i++ {
		if len(p.Deck) == 0 {
			if len(p.Discard) == 0 {
				return reshuffled
			}
			reshuffled += len(p.Discard)
			p.Deck = append(p.Deck, p.Discard...)
			p.Discard = []models.Card{}
			shuffleCards(p.Deck, r)
		}
		p.Hand = append(p.Hand, p.Deck[0])
		p.Deck = p.Deck[1:]
	}
	return reshuffled
}
