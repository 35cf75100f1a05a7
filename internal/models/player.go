// internal/models/player.go
package models

// PlayerState holds one player's resources and card zones.
// Hand, Deck and Discard partition the player's full card set.
type PlayerState struct {
	PlayerID   string `json:"playerId"`
	Funds      int    `json:"funds"`
	Properties int    `json:"properties"`
	Hand       []Card `json:"hand"`
	Deck       []Card `json:"deck"`
	Discard    []Card `json:"discard"`
}

// TotalCards returns the number of cards across all three zones.
func (p *PlayerState) TotalCards() int {
	return len(p.Hand) + len(p.Deck) + len(p.Discard)
}

// HandIndex returns the position of cardID in the hand, or -1.
func (p *PlayerState) HandIndex(cardID string) int {
	for i, c := range p.Hand {
		if c.ID == cardID {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy of the player.
func (p PlayerState) Clone() PlayerState {
	p.Hand = cloneCards(p.Hand)
	p.Deck = cloneCards(p.Deck)
	p.Discard = cloneCards(p.Discard)
	return p
}

func cloneCards(cards []Card) []Card {
	out := make([]Card, len(cards))
	copy(out, cards)
	return out
}
