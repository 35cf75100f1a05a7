// internal/game/engine.go
package game

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/jason-s-yu/landgrab/internal/models"
	"github.com/sirupsen/logrus"
)

const (
	startingFunds      = 2
	startingProperties = 1
)

var (
	// ErrUnknownTemplate is returned when a deck list references a template the catalog lacks.
	ErrUnknownTemplate = errors.New("unknown card template")
	// ErrInvalidDeckList is returned when a deck list has a bad count or is larger than models.MaxDeckSize.
	ErrInvalidDeckList = errors.New("invalid deck list")
	// ErrInvalidPlayers is returned when a match is created without two distinct player ids.
	ErrInvalidPlayers = errors.New("a match needs two distinct player ids")
)

// Catalog is the read-only template lookup the engine depends on.
type Catalog interface {
	Get(templateID string) (models.CardTemplate, bool)
	IDs() []string
}

type options struct {
	rng    *rand.Rand
	logger logrus.FieldLogger
}

// Option configures match creation and engines.
type Option func(*options)

// WithRand sets the random source used for every shuffle. Pass a seeded source for reproducible matches.
func WithRand(r *rand.Rand) Option {
	return func(o *options) { o.rng = r }
}

// WithLogger sets the logger used for engine diagnostics.
func WithLogger(l logrus.FieldLogger) Option {
	return func(o *options) { o.logger = l }
}

func buildOptions(opts []Option) options {
	o := options{}
	for _, fn := range opts {
		fn(&o)
	}
	if o.rng == nil {
		o.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if o.logger == nil {
		o.logger = logrus.StandardLogger()
	}
	return o
}

// CreateInitialState builds the genesis state of a match using the catalog's default deck list for both players.
func CreateInitialState(player1ID, player2ID string, cat Catalog, opts ...Option) (models.GameState, error) {
	list := StartingDeckList(cat)
	return CreateInitialStateFromDecks(player1ID, player2ID, cat, list, list, opts...)
}

// CreateInitialStateFromDecks builds the genesis state of a match where each player starts with their own deck list.
func CreateInitialStateFromDecks(player1ID, player2ID string, cat Catalog, deck1, deck2 []models.DeckCard, opts ...Option) (models.GameState, error) {
	if player1ID == "" || player2ID == "" || player1ID == player2ID {
		return models.GameState{}, ErrInvalidPlayers
	}
	if err := checkDeckList(deck1); err != nil {
		return models.GameState{}, fmt.Errorf("deck for %s: %w", player1ID, err)
	}
	if err := checkDeckList(deck2); err != nil {
		return models.GameState{}, fmt.Errorf("deck for %s: %w", player2ID, err)
	}
	o := buildOptions(opts)

	players := make([]models.PlayerState, 0, 2)
	for _, seat := range []struct {
		id   string
		list []models.DeckCard
	}{{player1ID, deck1}, {player2ID, deck2}} {
		cards, err := buildCards(seat.list, cat)
		if err != nil {
			return models.GameState{}, fmt.Errorf("deck for %s: %w", seat.id, err)
		}
		shuffleCards(cards, o.rng)
		players = append(players, models.PlayerState{
			PlayerID:   seat.id,
			Funds:      startingFunds,
			Properties: startingProperties,
			Hand:       []models.Card{},
			Deck:       cards,
			Discard:    []models.Card{},
		})
	}

	state := models.GameState{
		MatchID:     uuid.NewString(),
		Turn:        0,
		Players:     players,
		Phase:       models.PhaseDraw,
		LastActions: []models.ResolvedAction{},
		Log:         []string{"Match started."},
	}
	o.logger.WithFields(logrus.Fields{
		"match":   state.MatchID,
		"player1": player1ID,
		"player2": player2ID,
	}).Debug("created initial match state")
	return state, nil
}

// Engine owns the state of a single match. It is not safe for concurrent use;
// callers serialize access (see MatchStore). Every state it hands out is a deep copy.
type Engine struct {
	state   models.GameState
	catalog Catalog
	rng     *rand.Rand
	logger  logrus.FieldLogger
}

// NewEngine takes a private copy of state and drives it from here on.
func NewEngine(state models.GameState, cat Catalog, opts ...Option) *Engine {
	o := buildOptions(opts)
	return &Engine{
		state:   state.Clone(),
		catalog: cat,
		rng:     o.rng,
		logger:  o.logger.WithField("match", state.MatchID),
	}
}

// MatchID returns the id of the match this engine drives.
func (e *Engine) MatchID() string {
	return e.state.MatchID
}

// GetState returns a deep copy of the current state.
func (e *Engine) GetState() models.GameState {
	return e.state.Clone()
}

// GetCardTemplate looks up a template in the engine's catalog.
func (e *Engine) GetCardTemplate(templateID string) (models.CardTemplate, bool) {
	return e.catalog.Get(templateID)
}

// AdvanceTurn starts the next turn: it refills every hand to HandSize and opens the action phase.
// After GAME_OVER it returns the state unchanged.
func (e *Engine) AdvanceTurn() models.GameState {
	if e.state.IsOver() {
		return e.state.Clone()
	}

	e.state.Turn++
	e.state.Phase = models.PhaseDraw
	e.state.LastActions = []models.ResolvedAction{}
	e.state.Log = append(e.state.Log, fmt.Sprintf("--- Turn %d ---", e.state.Turn))

	for i := range e.state.Players {
		p := &e.state.Players[i]
		need := HandSize - len(p.Hand)
		if need <= 0 {
			continue
		}
		if n := drawCards(p, need, e.rng); n > 0 {
			e.state.Log = append(e.state.Log, fmt.Sprintf("%s reshuffled %d card(s) into their deck.", p.PlayerID, n))
		}
	}

	e.state.Phase = models.PhaseAction
	e.logger.Debugf("advanced to turn %d", e.state.Turn)
	return e.state.Clone()
}

// ApplyAction resolves both players' simultaneous actions. Either action may be nil (a pass).
// Resolution runs on a private copy that is committed only once it is complete.
// After GAME_OVER it returns the state unchanged.
func (e *Engine) ApplyAction(action1, action2 *models.Action) models.GameState {
	if e.state.IsOver() {
		return e.state.Clone()
	}

	next := e.state.Clone()
	next.Phase = models.PhaseResolution
	next.LastActions = resolveActions(&next, e.catalog, action1, action2)

	if checkWinCondition(&next) {
		next.Phase = models.PhaseGameOver
		next.Log = append(next.Log, "Game over.")
		e.logger.WithField("turn", next.Turn).Info("match reached game over")
	} else {
		next.Phase = models.PhaseAction
	}

	e.state = next
	return e.state.Clone()
}

// checkWinCondition reports whether any player has run out of properties.
func checkWinCondition(s *models.GameState) bool {
	for _, p := range s.Players {
		if p.Properties <= 0 {
			return true
		}
	}
	return false
}

// Winner returns the id of the player with more properties once the match is over.
// It returns "" while the match is running or when both players ended level.
func Winner(s models.GameState) string {
	if !s.IsOver() || len(s.Players) != 2 {
		return ""
	}
	a, b := s.Players[0], s.Players[1]
	switch {
	case a.Properties > b.Properties:
		return a.PlayerID
	case b.Properties > a.Properties:
		return b.PlayerID
	}
	return ""
}
