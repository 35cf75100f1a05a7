package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// ListCardsHandler returns the whole catalog, sorted by template id.
func ListCardsHandler(gs *GameServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, gs.Catalog.All())
	}
}

// GetCardHandler returns a single template.
func GetCardHandler(gs *GameServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tpl, ok := gs.Catalog.Get(chi.URLParam(r, "templateId"))
		if !ok {
			writeError(w, http.StatusNotFound, "card template not found")
			return
		}
		writeJSON(w, http.StatusOK, tpl)
	}
}
