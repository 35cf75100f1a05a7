// internal/game/sync_state.go
package game

import "github.com/jason-s-yu/landgrab/internal/models"

// ObfPlayerState is one player's state as seen by a particular viewer.
// Hand is only filled in for the viewer's own seat; deck order is never revealed.
type ObfPlayerState struct {
	PlayerID    string        `json:"playerId"`
	Funds       int           `json:"funds"`
	Properties  int           `json:"properties"`
	HandSize    int           `json:"handSize"`
	DeckSize    int           `json:"deckSize"`
	DiscardSize int           `json:"discardSize"`
	Hand        []models.Card `json:"hand,omitempty"`
	Discard     []models.Card `json:"discard"`
}

// ObfGameState is returned by ObfuscatedView.
type ObfGameState struct {
	MatchID     string                  `json:"matchId"`
	Turn        int                     `json:"turn"`
	Phase       models.Phase            `json:"phase"`
	Players     []ObfPlayerState        `json:"players"`
	LastActions []models.ResolvedAction `json:"lastActions"`
	Log         []string                `json:"log"`
	Winner      string                  `json:"winner,omitempty"`
}

// ObfuscatedView builds the snapshot of s that forPlayer is allowed to see.
func ObfuscatedView(s models.GameState, forPlayer string) ObfGameState {
	s = s.Clone()
	obf := ObfGameState{
		MatchID:     s.MatchID,
		Turn:        s.Turn,
		Phase:       s.Phase,
		Players:     make([]ObfPlayerState, 0, len(s.Players)),
		LastActions: s.LastActions,
		Log:         s.Log,
		Winner:      Winner(s),
	}
	for _, p := range s.Players {
		op := ObfPlayerState{
			PlayerID:    p.PlayerID,
			Funds:       p.Funds,
			Properties:  p.Properties,
			HandSize:    len(p.Hand),
			DeckSize:    len(p.Deck),
			DiscardSize: len(p.Discard),
			Discard:     p.Discard,
		}
		if p.PlayerID == forPlayer {
			op.Hand = p.Hand
		}
		obf.Players = append(obf.Players, op)
	}
	return obf
}
