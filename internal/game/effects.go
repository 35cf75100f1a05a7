// internal/game/effects.go
package game

import (
	"fmt"

	"github.com/jason-s-yu/landgrab/internal/models"
)

// gainFundsAmount is how many funds a GAIN_FUNDS card grants.
const gainFundsAmount = 2

// ApplyGainFunds grants the acting player funds.
func ApplyGainFunds(player *models.PlayerState) {
	player.Funds += gainFundsAmount
}

// ApplyAcquire moves one property from the opponent to the player, if the opponent has any.
func ApplyAcquire(player, opponent *models.PlayerState) {
	transferProperty(player, opponent)
}

// ApplyDefend has no direct effect. A Defend only matters as a counter during resolution.
func ApplyDefend(player, opponent *models.PlayerState) {}

// ApplyFraud uses the same transfer rule as Acquire.
func ApplyFraud(player, opponent *models.PlayerState) {
	transferProperty(player, opponent)
}

func transferProperty(player, opponent *models.PlayerState) {
	if opponent.Properties > 0 {
		opponent.Properties--
		player.Properties++
	}
}

// ApplyEffect dispatches to the effect function for t.
// Catalogs reject unknown types on load, so reaching the default case is a programming error.
func ApplyEffect(t models.EffectType, player, opponent *models.PlayerState) {
	switch t {
	case models.EffectGainFunds:
		ApplyGainFunds(player)
	case models.EffectAcquire:
		ApplyAcquire(player, opponent)
	case models.EffectDefend:
		ApplyDefend(player, opponent)
	case models.EffectFraud:
		ApplyFraud(player, opponent)
	default:
		panic(fmt.Sprintf("game: unhandled effect type %q", t))
	}
}
