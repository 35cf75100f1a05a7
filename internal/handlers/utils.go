package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

// ClientIDHeader carries the opaque owner id for deck endpoints.
const ClientIDHeader = "X-Client-Id"

var errMissingClientID = errors.New("missing " + ClientIDHeader + " header")

type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON encodes v as the response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// decodeBody decodes a JSON body into v. An empty body is allowed when allowEmpty is set.
func decodeBody(r *http.Request, v interface{}, allowEmpty bool) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if allowEmpty && errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
