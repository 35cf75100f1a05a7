// internal/handlers/deck.go
package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jason-s-yu/landgrab/internal/models"
)

// owner reads the X-Client-Id header, writing a 400 when it is absent.
func owner(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := r.Header.Get(ClientIDHeader)
	if id == "" {
		writeError(w, http.StatusBadRequest, errMissingClientID.Error())
		return "", false
	}
	return id, true
}

// CreateDeckHandler saves a new deck for the caller. An id is assigned if the body has none.
func CreateDeckHandler(gs *GameServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID, ok := owner(w, r)
		if !ok {
			return
		}
		var deck models.Deck
		if err := decodeBody(r, &deck, false); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		saved, err := gs.Decks.CreateDeck(r.Context(), ownerID, deck)
		if err != nil {
			gs.Logger.Warnf("create deck for %s: %v", ownerID, err)
			writeDeckError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, saved)
	}
}

func ListDecksHandler(gs *GameServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID, ok := owner(w, r)
		if !ok {
			return
		}
		decks, err := gs.Decks.ListDecks(r.Context(), ownerID)
		if err != nil {
			gs.Logger.Warnf("list decks for %s: %v", ownerID, err)
			writeDeckError(w, err)
			return
		}
		if decks == nil {
			decks = []models.Deck{}
		}
		writeJSON(w, http.StatusOK, decks)
	}
}

func GetDeckHandler(gs *GameServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID, ok := owner(w, r)
		if !ok {
			return
		}
		deck, err := gs.Decks.GetDeck(r.Context(), ownerID, chi.URLParam(r, "deckId"))
		if err != nil {
			writeDeckError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, deck)
	}
}

// UpdateDeckHandler replaces a deck. The body id must be empty or equal the path id.
func UpdateDeckHandler(gs *GameServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID, ok := owner(w, r)
		if !ok {
			return
		}
		var deck models.Deck
		if err := decodeBody(r, &deck, false); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		saved, err := gs.Decks.UpdateDeck(r.Context(), ownerID, chi.URLParam(r, "deckId"), deck)
		if err != nil {
			writeDeckError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, saved)
	}
}

func DeleteDeckHandler(gs *GameServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID, ok := owner(w, r)
		if !ok {
			return
		}
		if err := gs.Decks.DeleteDeck(r.Context(), ownerID, chi.URLParam(r, "deckId")); err != nil {
			writeDeckError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "deck deleted"})
	}
}
