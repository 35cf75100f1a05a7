// internal/handlers/game.go
package handlers

import (
	"errors"
	"math/rand"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jason-s-yu/landgrab/internal/database"
	"github.com/jason-s-yu/landgrab/internal/game"
	"github.com/jason-s-yu/landgrab/internal/models"
	"github.com/jason-s-yu/landgrab/internal/npc"
)

// CreateMatchRequest is the body of POST /games.
type CreateMatchRequest struct {
	Player1ID     string `json:"player1Id"`
	Player2ID     string `json:"player2Id"`
	Player1DeckID string `json:"player1DeckId,omitempty"`
	Player2DeckID string `json:"player2DeckId,omitempty"`
	// NPC makes player 2 a computer opponent. Player2ID defaults to npc.DefaultPlayerID.
	NPC  bool   `json:"npc,omitempty"`
	Seed *int64 `json:"seed,omitempty"`
}

// ActionRequest is the body of POST /games/{matchId}/action.
type ActionRequest struct {
	Action1 *models.Action `json:"action1,omitempty"`
	Action2 *models.Action `json:"action2,omitempty"`
}

// CreateMatchHandler builds a new match and registers it in the store.
// Saved decks are looked up under the caller's X-Client-Id.
func CreateMatchHandler(gs *GameServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateMatchRequest
		if err := decodeBody(r, &req, false); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		npcID := ""
		if req.NPC {
			if req.Player2ID == "" {
				req.Player2ID = npc.DefaultPlayerID
			}
			npcID = req.Player2ID
		}

		opts := []game.Option{game.WithLogger(gs.Logger)}
		var npcRand *rand.Rand
		if req.Seed != nil {
			opts = append(opts, game.WithRand(rand.New(rand.NewSource(*req.Seed))))
			// separate from the shuffle source so NPC picks replay identically
			npcRand = rand.New(rand.NewSource(*req.Seed))
		}

		var state models.GameState
		var err error
		if req.Player1DeckID == "" && req.Player2DeckID == "" {
			state, err = game.CreateInitialState(req.Player1ID, req.Player2ID, gs.Catalog, opts...)
		} else {
			var deck1, deck2 []models.DeckCard
			deck1, err = gs.deckList(r, req.Player1DeckID)
			if err == nil {
				deck2, err = gs.deckList(r, req.Player2DeckID)
			}
			if err != nil {
				writeDeckError(w, err)
				return
			}
			state, err = game.CreateInitialStateFromDecks(req.Player1ID, req.Player2ID, gs.Catalog, deck1, deck2, opts...)
		}
		if err != nil {
			// both ErrInvalidPlayers and ErrUnknownTemplate are caller mistakes here
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		sess := gs.Matches.Add(game.NewEngine(state, gs.Catalog, opts...), npcID, npcRand)
		gs.Logger.WithField("match", sess.ID()).Infof("match created: %s vs %s", req.Player1ID, req.Player2ID)
		writeJSON(w, http.StatusCreated, sess.State())
	}
}

// deckList resolves a saved deck id to its card list. An empty id means the catalog default.
func (gs *GameServer) deckList(r *http.Request, deckID string) ([]models.DeckCard, error) {
	if deckID == "" {
		return game.StartingDeckList(gs.Catalog), nil
	}
	owner := r.Header.Get(ClientIDHeader)
	if owner == "" {
		return nil, errMissingClientID
	}
	deck, err := gs.Decks.GetDeck(r.Context(), owner, deckID)
	if err != nil {
		return nil, err
	}
	return deck.Cards, nil
}

// GetMatchHandler returns the full state, or the obfuscated view when ?playerId= is set.
func GetMatchHandler(gs *GameServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := gs.session(w, r)
		if !ok {
			return
		}
		state := sess.State()
		if pid := r.URL.Query().Get("playerId"); pid != "" {
			writeJSON(w, http.StatusOK, game.ObfuscatedView(state, pid))
			return
		}
		writeJSON(w, http.StatusOK, state)
	}
}

// AdvanceTurnHandler moves the match into its next action phase.
func AdvanceTurnHandler(gs *GameServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := gs.session(w, r)
		if !ok {
			return
		}
		state := sess.Advance()
		gs.hub.broadcastState(sess.ID(), state)
		writeJSON(w, http.StatusOK, state)
	}
}

// ApplyActionHandler resolves one round. The NPC seat, if any, picks its own card.
func ApplyActionHandler(gs *GameServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := gs.session(w, r)
		if !ok {
			return
		}
		var req ActionRequest
		if err := decodeBody(r, &req, true); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		state := gs.applyActions(sess, req.Action1, req.Action2)
		gs.hub.broadcastState(sess.ID(), state)
		writeJSON(w, http.StatusOK, state)
	}
}

// applyActions fills in the NPC seat's choice, then resolves the round.
func (gs *GameServer) applyActions(sess *game.Session, action1, action2 *models.Action) models.GameState {
	if sess.NPCPlayerID == "" {
		return sess.Apply(action1, action2)
	}
	return sess.ApplyWith(func(current models.GameState, npcRand *rand.Rand) (*models.Action, *models.Action) {
		choice := npc.ChooseAction(current, sess.NPCPlayerID, gs.Catalog, npcRand)
		switch current.PlayerIndex(sess.NPCPlayerID) {
		case 0:
			return choice, action2
		case 1:
			return action1, choice
		}
		return action1, action2
	})
}

// DeleteMatchHandler drops a match from the store.
func DeleteMatchHandler(gs *GameServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "matchId")
		if err := gs.Matches.Delete(id); err != nil {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		gs.hub.closeMatch(id)
		writeJSON(w, http.StatusOK, map[string]string{"message": "match deleted"})
	}
}

// session looks up the match named in the path, writing a 404 if it is unknown.
func (gs *GameServer) session(w http.ResponseWriter, r *http.Request) (*game.Session, bool) {
	sess, err := gs.Matches.Get(chi.URLParam(r, "matchId"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return nil, false
	}
	return sess, true
}

func writeDeckError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, errMissingClientID), errors.Is(err, database.ErrInvalidDeck):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, database.ErrDeckNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "deck store error")
	}
}
