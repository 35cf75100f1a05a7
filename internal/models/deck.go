// internal/models/deck.go
package models

// Limits on a deck list. Lists beyond them are rejected before any card is minted.
const (
	MaxCopiesPerCard = 20
	MaxDeckSize      = 60
)

// DeckCard is one line of a saved deck list.
type DeckCard struct {
	TemplateID string `json:"templateId" yaml:"templateId"`
	Count      int    `json:"count" yaml:"count"`
}

// Deck is a saved deck list owned by a client. It is not tied to any match.
type Deck struct {
	ID    string     `json:"id,omitempty" yaml:"id,omitempty"`
	Name  string     `json:"name" yaml:"name"`
	Cards []DeckCard `json:"cards" yaml:"cards"`
}

// Size returns the total number of cards the list expands to.
func (d *Deck) Size() int {
	n := 0
	for _, c := range d.Cards {
		n += c.Count
	}
	return n
}
