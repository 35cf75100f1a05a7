// internal/handlers/game_server.go
package handlers

import (
	"github.com/jason-s-yu/landgrab/internal/catalog"
	"github.com/jason-s-yu/landgrab/internal/database"
	"github.com/jason-s-yu/landgrab/internal/game"
	"github.com/sirupsen/logrus"
)

// GameServer holds everything the HTTP and WebSocket handlers share:
// the card catalog, the live match store, the deck store and the socket hub.
type GameServer struct {
	Catalog *catalog.Catalog
	Matches *game.MatchStore
	Decks   database.DeckStore
	Logger  *logrus.Logger

	hub *matchHub
}

func NewGameServer(cat *catalog.Catalog, matches *game.MatchStore, decks database.DeckStore, logger *logrus.Logger) *GameServer {
	return &GameServer{
		Catalog: cat,
		Matches: matches,
		Decks:   decks,
		Logger:  logger,
		hub:     newMatchHub(logger),
	}
}
