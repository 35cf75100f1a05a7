// internal/game/engine_test.go
package game

import (
	"math/rand"
	"testing"

	"github.com/jason-s-yu/landgrab/internal/catalog"
	"github.com/jason-s-yu/landgrab/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func templateIDs(cards []models.Card) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.TemplateID
	}
	return out
}

// TestCreateInitialState checks the genesis state of a fresh match.
func TestCreateInitialState(t *testing.T) {
	e := newTestEngine(t, 42)
	st := e.GetState()

	assert.NotEmpty(t, st.MatchID)
	assert.Equal(t, 0, st.Turn)
	assert.Equal(t, models.PhaseDraw, st.Phase)
	assert.Equal(t, []string{"Match started."}, st.Log)
	assert.Empty(t, st.LastActions)
	require.Len(t, st.Players, 2)
	assert.Equal(t, p1, st.Players[0].PlayerID)
	assert.Equal(t, p2, st.Players[1].PlayerID)

	seen := map[string]bool{}
	for _, p := range st.Players {
		assert.Equal(t, 2, p.Funds)
		assert.Equal(t, 1, p.Properties)
		assert.Empty(t, p.Hand)
		assert.Empty(t, p.Discard)
		// one GAIN_FUNDS template x4, three others x2
		assert.Len(t, p.Deck, 4*1+2*3)

		counts := map[string]int{}
		for _, c := range p.Deck {
			counts[c.TemplateID]++
			assert.False(t, seen[c.ID], "card id %s reused", c.ID)
			seen[c.ID] = true
		}
		assert.Equal(t, map[string]int{"GAIN_FUNDS": 4, "ACQUIRE": 2, "DEFEND": 2, "FRAUD": 2}, counts)
	}
}

func TestCreateInitialState_GainFundsKeyedByEffectType(t *testing.T) {
	cat, err := catalog.New(
		models.CardTemplate{TemplateID: "GAIN_FUNDS", Name: "資金集め", Cost: 0, Type: models.EffectGainFunds},
		models.CardTemplate{TemplateID: "BIG_GRANT", Name: "Grant", Cost: 1, Type: models.EffectGainFunds},
		models.CardTemplate{TemplateID: "DECOY", Name: "資金集め", Cost: 0, Type: models.EffectDefend},
	)
	require.NoError(t, err)

	st, err := CreateInitialState(p1, p2, cat, testOpts(7)...)
	require.NoError(t, err)

	counts := map[string]int{}
	for _, c := range st.Players[0].Deck {
		counts[c.TemplateID]++
	}
	assert.Equal(t, 4, counts["GAIN_FUNDS"])
	assert.Equal(t, 4, counts["BIG_GRANT"])
	assert.Equal(t, 2, counts["DECOY"], "a non-GAIN_FUNDS template sharing the name still gets two copies")
}

func TestCreateInitialState_RejectsBadPlayers(t *testing.T) {
	cat := defaultCatalog(t)
	for _, ids := range [][2]string{{"", p2}, {p1, ""}, {p1, p1}} {
		_, err := CreateInitialState(ids[0], ids[1], cat, testOpts(1)...)
		assert.ErrorIs(t, err, ErrInvalidPlayers)
	}
}

func TestCreateInitialState_SeededShuffleIsReproducible(t *testing.T) {
	cat := defaultCatalog(t)
	a, err := CreateInitialState(p1, p2, cat, testOpts(99)...)
	require.NoError(t, err)
	b, err := CreateInitialState(p1, p2, cat, testOpts(99)...)
	require.NoError(t, err)

	assert.Equal(t, templateIDs(a.Players[0].Deck), templateIDs(b.Players[0].Deck))
	assert.Equal(t, templateIDs(a.Players[1].Deck), templateIDs(b.Players[1].Deck))
	assert.NotEqual(t, a.MatchID, b.MatchID)
}

func TestCreateInitialStateFromDecks(t *testing.T) {
	cat := defaultCatalog(t)
	deck1 := []models.DeckCard{{TemplateID: "ACQUIRE", Count: 5}}
	deck2 := []models.DeckCard{{TemplateID: "DEFEND", Count: 1}, {TemplateID: "FRAUD", Count: 2}}

	st, err := CreateInitialStateFromDecks(p1, p2, cat, deck1, deck2, testOpts(3)...)
	require.NoError(t, err)
	assert.Len(t, st.Players[0].Deck, 5)
	assert.Len(t, st.Players[1].Deck, 3)

	_, err = CreateInitialStateFromDecks(p1, p2, cat, deck1, []models.DeckCard{{TemplateID: "BRIBE", Count: 1}}, testOpts(3)...)
	assert.ErrorIs(t, err, ErrUnknownTemplate)
}

func TestCreateInitialStateFromDecks_RejectsOversizeLists(t *testing.T) {
	cat := defaultCatalog(t)
	ok := []models.DeckCard{{TemplateID: "ACQUIRE", Count: 5}}

	for name, list := range map[string][]models.DeckCard{
		"huge count":     {{TemplateID: "ACQUIRE", Count: 1 << 40}},
		"negative count": {{TemplateID: "ACQUIRE", Count: -1}},
		"too many cards": {
			{TemplateID: "ACQUIRE", Count: models.MaxCopiesPerCard},
			{TemplateID: "DEFEND", Count: models.MaxCopiesPerCard},
			{TemplateID: "FRAUD", Count: models.MaxCopiesPerCard},
			{TemplateID: "GAIN_FUNDS", Count: 1},
		},
	} {
		_, err := CreateInitialStateFromDecks(p1, p2, cat, ok, list, testOpts(3)...)
		assert.ErrorIs(t, err, ErrInvalidDeckList, name)
		assert.ErrorContains(t, err, p2, name)
	}

	full := []models.DeckCard{
		{TemplateID: "ACQUIRE", Count: models.MaxCopiesPerCard},
		{TemplateID: "DEFEND", Count: models.MaxCopiesPerCard},
		{TemplateID: "FRAUD", Count: models.MaxCopiesPerCard},
	}
	st, err := CreateInitialStateFromDecks(p1, p2, cat, full, ok, testOpts(3)...)
	require.NoError(t, err)
	assert.Len(t, st.Players[0].Deck, models.MaxDeckSize)
}

// TestAdvanceTurn_DrawsToHandSize covers the first turn of a fresh match.
func TestAdvanceTurn_DrawsToHandSize(t *testing.T) {
	e := newTestEngine(t, 42)
	before := e.GetState()

	st := e.AdvanceTurn()
	assert.Equal(t, 1, st.Turn)
	assert.Equal(t, models.PhaseAction, st.Phase)
	assert.Equal(t, "--- Turn 1 ---", st.Log[len(st.Log)-1])
	for i, p := range st.Players {
		assert.Len(t, p.Hand, HandSize)
		assert.Len(t, p.Deck, len(before.Players[i].Deck)-HandSize)
		// FIFO: the hand is the front of the old deck
		assert.Equal(t, before.Players[i].Deck[:HandSize], p.Hand)
	}

	// a full hand draws nothing on the next turn
	st = e.AdvanceTurn()
	assert.Equal(t, 2, st.Turn)
	for _, p := range st.Players {
		assert.Len(t, p.Hand, HandSize)
	}
}

func TestAdvanceTurn_ClearsLastActions(t *testing.T) {
	e := scenarioEngine(t,
		seat{funds: 2, properties: 1, hand: []string{"GAIN_FUNDS"}},
		seat{funds: 2, properties: 1},
	)
	st := e.ApplyAction(play(p1, 0), nil)
	require.Len(t, st.LastActions, 1)

	st = e.AdvanceTurn()
	assert.Empty(t, st.LastActions)
}

// TestAdvanceTurn_ReshufflesDiscard moves every card to the discard pile and checks the reshuffle.
func TestAdvanceTurn_ReshufflesDiscard(t *testing.T) {
	cat := defaultCatalog(t)
	st, err := CreateInitialState(p1, p2, cat, testOpts(5)...)
	require.NoError(t, err)
	total := st.Players[0].TotalCards()
	st.Players[0].Discard = st.Players[0].Deck
	st.Players[0].Deck = []models.Card{}

	e := NewEngine(st, cat, testOpts(5)...)
	next := e.AdvanceTurn()

	pl := next.Players[0]
	assert.NotEmpty(t, pl.Deck)
	assert.Empty(t, pl.Discard)
	assert.Len(t, pl.Hand, HandSize)
	assert.Equal(t, total, pl.TotalCards())
	assert.Contains(t, next.Log, p1+" reshuffled 10 card(s) into their deck.")
}

func TestAdvanceTurn_StopsWhenOutOfCards(t *testing.T) {
	e := scenarioEngine(t, seat{funds: 2, properties: 1}, seat{funds: 2, properties: 1})
	st := e.GetState()
	st.Players[0].Deck = []models.Card{{ID: "x", TemplateID: "DEFEND"}}
	e = NewEngine(st, defaultCatalog(t), testOpts(1)...)

	next := e.AdvanceTurn()
	assert.Len(t, next.Players[0].Hand, 1)
	assert.Empty(t, next.Players[1].Hand)
	assert.Equal(t, models.PhaseAction, next.Phase)
}

func TestGetState_ReturnsDeepCopy(t *testing.T) {
	e := newTestEngine(t, 1)
	st := e.AdvanceTurn()

	st.Players[0].Funds = 1000
	st.Players[0].Hand[0].TemplateID = "HACKED"
	st.Players[1].Deck = nil
	st.Log[0] = "rewritten"

	again := e.GetState()
	assert.Equal(t, 2, again.Players[0].Funds)
	assert.NotEqual(t, "HACKED", again.Players[0].Hand[0].TemplateID)
	assert.NotEmpty(t, again.Players[1].Deck)
	assert.Equal(t, "Match started.", again.Log[0])
}

func TestNewEngine_CopiesInput(t *testing.T) {
	cat := defaultCatalog(t)
	st, err := CreateInitialState(p1, p2, cat, testOpts(1)...)
	require.NoError(t, err)
	e := NewEngine(st, cat, testOpts(1)...)

	st.Players[0].Deck[0].TemplateID = "HACKED"
	assert.NotEqual(t, "HACKED", e.GetState().Players[0].Deck[0].TemplateID)
}

func TestGetCardTemplate(t *testing.T) {
	e := newTestEngine(t, 1)
	tpl, ok := e.GetCardTemplate("FRAUD")
	require.True(t, ok)
	assert.Equal(t, 1, tpl.Cost)

	_, ok = e.GetCardTemplate("NOPE")
	assert.False(t, ok)
}

// TestTerminalIdempotence checks that nothing moves once the match is over.
func TestTerminalIdempotence(t *testing.T) {
	e := scenarioEngine(t,
		seat{funds: 2, properties: 1, hand: []string{"ACQUIRE", "GAIN_FUNDS"}},
		seat{funds: 2, properties: 1, hand: []string{"GAIN_FUNDS"}},
	)
	over := e.ApplyAction(play(p1, 0), nil)
	require.Equal(t, models.PhaseGameOver, over.Phase)

	assert.Equal(t, over, e.AdvanceTurn())
	assert.Equal(t, over, e.ApplyAction(play(p1, 1), play(p2, 0)))
	assert.Equal(t, over, e.AdvanceTurn())
	assert.Equal(t, over, e.GetState())
}

func TestWinner(t *testing.T) {
	e := scenarioEngine(t,
		seat{funds: 2, properties: 1, hand: []string{"ACQUIRE"}},
		seat{funds: 2, properties: 1},
	)
	assert.Equal(t, "", Winner(e.GetState()))
	st := e.ApplyAction(play(p1, 0), nil)
	assert.Equal(t, p1, Winner(st))

	st.Players[0].Properties = 0
	assert.Equal(t, "", Winner(st))
}

// TestRandomPlayInvariants drives many seeded matches with random plays and checks
// card conservation, the funds floor and the properties floor after every step.
func TestRandomPlayInvariants(t *testing.T) {
	for seed := int64(1); seed <= 20; seed++ {
		e := newTestEngine(t, seed)
		r := rand.New(rand.NewSource(seed * 31))
		start := e.GetState()
		sizes := []int{start.Players[0].TotalCards(), start.Players[1].TotalCards()}

		pick := func(p models.PlayerState) *models.Action {
			if len(p.Hand) == 0 || r.Intn(5) == 0 {
				return nil
			}
			return &models.Action{PlayerID: p.PlayerID, CardID: p.Hand[r.Intn(len(p.Hand))].ID}
		}

		for turn := 0; turn < 60; turn++ {
			st := e.AdvanceTurn()
			st = e.ApplyAction(pick(st.Players[0]), pick(st.Players[1]))
			for i, p := range st.Players {
				require.Equal(t, sizes[i], p.TotalCards(), "seed %d turn %d: card count changed", seed, turn)
				require.GreaterOrEqual(t, p.Funds, 0)
				require.GreaterOrEqual(t, p.Properties, 0)
			}
			if st.IsOver() {
				break
			}
		}
	}
}
