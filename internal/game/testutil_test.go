package game

import (
	"io"
	"math/rand"
	"testing"

	"github.com/jason-s-yu/landgrab/internal/catalog"
	"github.com/jason-s-yu/landgrab/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

const (
	p1 = "player1-id"
	p2 = "player2-id"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func testOpts(seed int64) []Option {
	return []Option{WithRand(rand.New(rand.NewSource(seed))), WithLogger(quietLogger())}
}

func defaultCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.Default()
	require.NoError(t, err)
	return c
}

// newTestEngine creates a fresh match with the default catalog and a seeded shuffle.
func newTestEngine(t *testing.T, seed int64) *Engine {
	t.Helper()
	cat := defaultCatalog(t)
	st, err := CreateInitialState(p1, p2, cat, testOpts(seed)...)
	require.NoError(t, err)
	return NewEngine(st, cat, testOpts(seed)...)
}

// seat describes one player's setup for a hand-built resolution scenario.
type seat struct {
	funds      int
	properties int
	hand       []string // template ids; card ids are "<player>-<index>"
}

// scenarioEngine builds an engine in the ACTION phase with exactly the given hands and empty decks.
func scenarioEngine(t *testing.T, s1, s2 seat) *Engine {
	t.Helper()
	build := func(id string, s seat) models.PlayerState {
		hand := make([]models.Card, 0, len(s.hand))
		for i, tpl := range s.hand {
			hand = append(hand, models.Card{ID: cardID(id, i), TemplateID: tpl})
		}
		return models.PlayerState{
			PlayerID:   id,
			Funds:      s.funds,
			Properties: s.properties,
			Hand:       hand,
			Deck:       []models.Card{},
			Discard:    []models.Card{},
		}
	}
	st := models.GameState{
		MatchID: "scenario",
		Turn:    1,
		Players: []models.PlayerState{build(p1, s1), build(p2, s2)},
		Phase:   models.PhaseAction,
		Log:     []string{"Match started."},
	}
	return NewEngine(st, defaultCatalog(t), testOpts(1)...)
}

func cardID(player string, i int) string {
	return player + "-" + string(rune('a'+i))
}

func play(player string, i int) *models.Action {
	return &models.Action{PlayerID: player, CardID: cardID(player, i)}
}
