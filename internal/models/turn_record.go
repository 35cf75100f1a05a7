package models

// TurnRecord is the compact summary of one resolution that is queued for the historian.
// Seq numbers the resolutions of a match from 1; a turn may hold several.
type TurnRecord struct {
	MatchID   string           `json:"match_id"`
	Seq       int              `json:"seq"`
	Turn      int              `json:"turn"`
	Phase     Phase            `json:"phase"`
	Actions   []ResolvedAction `json:"actions"`
	Players   []TurnPlayer     `json:"players"`
	Timestamp int64            `json:"timestamp"` // epoch millis
}

// TurnPlayer is a player's resource counters after a turn.
type TurnPlayer struct {
	PlayerID   string `json:"player_id"`
	Funds      int    `json:"funds"`
	Properties int    `json:"properties"`
}

// NewTurnRecord summarizes the seq-th resolution of s; ts is epoch millis.
func NewTurnRecord(s GameState, seq int, ts int64) TurnRecord {
	rec := TurnRecord{
		MatchID:   s.MatchID,
		Seq:       seq,
		Turn:      s.Turn,
		Phase:     s.Phase,
		Actions:   append([]ResolvedAction{}, s.LastActions...),
		Players:   make([]TurnPlayer, 0, len(s.Players)),
		Timestamp: ts,
	}
	for _, p := range s.Players {
		rec.Players = append(rec.Players, TurnPlayer{PlayerID: p.PlayerID, Funds: p.Funds, Properties: p.Properties})
	}
	return rec
}
