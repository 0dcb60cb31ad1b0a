// internal/server/handlers/keywords.go

package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"autopress/internal/domain/signal"
)

// KeywordHandler handles keyword-pool HTTP requests
type KeywordHandler struct {
	ranker signal.Ranker
}

// NewKeywordHandler creates a new keyword handler
func NewKeywordHandler(ranker signal.Ranker) *KeywordHandler {
	return &KeywordHandler{
		ranker: ranker,
	}
}

// GetKeywords returns the current ranked keyword pool
func (h *KeywordHandler) GetKeywords(w http.ResponseWriter, r *http.Request) {
	ranked, err := h.ranker.Rank(r.Context())
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to rank keywords", err)
		return
	}

	respondWithJSON(w, http.StatusOK, ranked)
}

// Helper for JSON responses
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("Failed to marshal response"))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// Helper for error responses
func respondWithError(w http.ResponseWriter, code int, message string, err error) {
	response := map[string]string{"error": message}

	jsonResponse, _ := json.Marshal(response)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(jsonResponse)
}

// Common errors
var (
	ErrNotFound = errors.New("not found")
)
