package models

// Action is a player's declared intent to play one card from their hand.
// A nil *Action means the player passes.
type Action struct {
	PlayerID string `json:"playerId"`
	CardID   string `json:"cardId"`
}

// ResolvedAction records a card that actually took effect during resolution.
type ResolvedAction struct {
	PlayerID       string `json:"playerId"`
	CardTemplateID string `json:"cardTemplateId"`
}
