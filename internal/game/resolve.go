// internal/game/resolve.go
package game

import (
	"fmt"

	"github.com/jason-s-yu/landgrab/internal/models"
)

// side is one player's half of a simultaneous resolution.
type side struct {
	playerIdx int
	template  models.CardTemplate
	played    bool
}

// is reports whether this side played a card of effect type t.
func (sd side) is(t models.EffectType) bool {
	return sd.played && sd.template.Type == t
}

// prepareSide checks whether action can be played against s and, if so, pays for it:
// the cost is deducted and the card moves from hand to discard.
// Missing players, cards not in hand, unknown templates and insufficient funds all mean "did not play".
func prepareSide(s *models.GameState, cat Catalog, action *models.Action) side {
	if action == nil {
		return side{playerIdx: -1}
	}
	idx := s.PlayerIndex(action.PlayerID)
	if idx < 0 {
		return side{playerIdx: -1}
	}
	p := &s.Players[idx]
	cardIdx := p.HandIndex(action.CardID)
	if cardIdx < 0 {
		return side{playerIdx: idx}
	}
	card := p.Hand[cardIdx]
	tpl, ok := cat.Get(card.TemplateID)
	if !ok || p.Funds < tpl.Cost {
		return side{playerIdx: idx}
	}

	p.Funds -= tpl.Cost
	p.Hand = append(p.Hand[:cardIdx:cardIdx], p.Hand[cardIdx+1:]...)
	p.Discard = append(p.Discard, card)
	s.Log = append(s.Log, fmt.Sprintf("%s played %s.", p.PlayerID, tpl.Name))
	return side{playerIdx: idx, template: tpl, played: true}
}

// fire applies a side's effect against the other player in the match.
func fire(s *models.GameState, sd side) {
	player := &s.Players[sd.playerIdx]
	opponent := &s.Players[1-sd.playerIdx]
	ApplyEffect(sd.template.Type, player, opponent)
}

// resolveActions plays both actions against s and applies the interaction table:
//
//	ACQUIRE vs ACQUIRE  neither fires
//	ACQUIRE vs DEFEND   nothing fires
//	ACQUIRE vs FRAUD    the Fraud fires, the Acquire is nullified
//	otherwise           each played card fires unless it is a FRAUD or DEFEND
//
// Branches are checked in that order with side A before side B; the first match wins.
// It returns the resolved actions, side A first.
func resolveActions(s *models.GameState, cat Catalog, action1, action2 *models.Action) []models.ResolvedAction {
	a := prepareSide(s, cat, action1)
	b := prepareSide(s, cat, action2)

	resolved := []models.ResolvedAction{}
	for _, sd := range []side{a, b} {
		if sd.played {
			resolved = append(resolved, models.ResolvedAction{
				PlayerID:       s.Players[sd.playerIdx].PlayerID,
				CardTemplateID: sd.template.TemplateID,
			})
		}
	}

	switch {
	case a.is(models.EffectAcquire) && b.is(models.EffectAcquire):
		s.Log = append(s.Log, "Both acquisitions cancelled each other out.")
	case a.is(models.EffectAcquire) && b.is(models.EffectDefend):
		s.Log = append(s.Log, blockedLine(s, a, b))
	case a.is(models.EffectAcquire) && b.is(models.EffectFraud):
		s.Log = append(s.Log, blockedLine(s, a, b))
		fire(s, b)
	case b.is(models.EffectAcquire) && a.is(models.EffectDefend):
		s.Log = append(s.Log, blockedLine(s, b, a))
	case b.is(models.EffectAcquire) && a.is(models.EffectFraud):
		s.Log = append(s.Log, blockedLine(s, b, a))
		fire(s, a)
	default:
		// Lone FRAUD and DEFEND plays only matter as counters and never fire here.
		for _, sd := range []side{a, b} {
			if sd.played && !sd.is(models.EffectFraud) && !sd.is(models.EffectDefend) {
				fire(s, sd)
			}
		}
	}
	return resolved
}

func blockedLine(s *models.GameState, attacker, counter side) string {
	return fmt.Sprintf("%s's %s was stopped by %s's %s.",
		s.Players[attacker.playerIdx].PlayerID, attacker.template.Name,
		s.Players[counter.playerIdx].PlayerID, counter.template.Name)
}
