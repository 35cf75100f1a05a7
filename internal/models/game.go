// internal/models/game.go
package models

// Phase is a step of the match state machine.
type Phase string

const (
	PhaseDraw       Phase = "DRAW"
	PhaseAction     Phase = "ACTION"
	PhaseResolution Phase = "RESOLUTION"
	PhaseGameOver   Phase = "GAME_OVER"
)

// GameState is the full state of one match. Players is always of length 2 and
// its order matters: the opponent of index i is index 1-i.
type GameState struct {
	MatchID     string           `json:"matchId"`
	Turn        int              `json:"turn"`
	Players     []PlayerState    `json:"players"`
	Phase       Phase            `json:"phase"`
	LastActions []ResolvedAction `json:"lastActions"`
	Log         []string         `json:"log"`
}

// Clone returns a deep copy that shares no slices with s.
func (s GameState) Clone() GameState {
	out := s
	out.Players = make([]PlayerState, len(s.Players))
	for i, p := range s.Players {
		out.Players[i] = p.Clone()
	}
	out.LastActions = make([]ResolvedAction, len(s.LastActions))
	copy(out.LastActions, s.LastActions)
	out.Log = make([]string, len(s.Log))
	copy(out.Log, s.Log)
	return out
}

// PlayerIndex returns the index of playerID in Players, or -1.
func (s *GameState) PlayerIndex(playerID string) int {
	for i := range s.Players {
		if s.Players[i].PlayerID == playerID {
			return i
		}
	}
	return -1
}

// Player returns a pointer into Players for playerID, or nil.
func (s *GameState) Player(playerID string) *PlayerState {
	if i := s.PlayerIndex(playerID); i >= 0 {
		return &s.Players[i]
	}
	return nil
}

// IsOver reports whether the match reached its terminal phase.
func (s *GameState) IsOver() bool {
	return s.Phase == PhaseGameOver
}
