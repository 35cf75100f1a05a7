// internal/npc/npc.go
package npc

import (
	"math/rand"

	"github.com/jason-s-yu/landgrab/internal/models"
)

// DefaultPlayerID is the seat id used for a computer opponent when none is given.
const DefaultPlayerID = "npc"

// Catalog is the template lookup the NPC needs to price its hand.
type Catalog interface {
	Get(templateID string) (models.CardTemplate, bool)
}

// weights per effect type; higher is picked more often.
var weights = map[models.EffectType]int{
	models.EffectGainFunds: 3,
	models.EffectAcquire:   2,
	models.EffectFraud:     2,
	models.EffectDefend:    1,
}

// Weights returns the pick weight of every card in the player's hand that they can afford, keyed by card id.
func Weights(p models.PlayerState, cat Catalog) map[string]int {
	out := make(map[string]int, len(p.Hand))
	for _, c := range p.Hand {
		tpl, ok := cat.Get(c.TemplateID)
		if !ok || tpl.Cost > p.Funds {
			continue
		}
		out[c.ID] = weights[tpl.Type]
	}
	return out
}

// ChooseAction picks a card for playerID by weighted random choice over its affordable cards.
// It returns nil (a pass) when the player is missing or cannot afford anything.
func ChooseAction(state models.GameState, playerID string, cat Catalog, r *rand.Rand) *models.Action {
	p := state.Player(playerID)
	if p == nil {
		return nil
	}
	w := Weights(*p, cat)
	total := 0
	for _, v := range w {
		total += v
	}
	if total == 0 {
		return nil
	}

	// iterate in hand order so a seeded source gives a stable choice
	roll := r.Intn(total)
	for _, c := range p.Hand {
		v, ok := w[c.ID]
		if !ok {
			continue
		}
		if roll < v {
			return &models.Action{PlayerID: playerID, CardID: c.ID}
		}
		roll -= v
	}
	return nil
}
