// internal/server/handlers/stats.go

package handlers

import (
	"net/http"

	"autopress/internal/adapter/storage"
)

// StatsHandler exposes aggregate pipeline counters
type StatsHandler struct {
	registry *storage.RegistryStore
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(registry *storage.RegistryStore) *StatsHandler {
	return &StatsHandler{
		registry: registry,
	}
}

// GetStats returns aggregate publication counters
func (h *StatsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	total, today, keywords, err := h.registry.Stats(r.Context())
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to load stats", err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]int{
		"totalPosts":    total,
		"postsToday":    today,
		"knownKeywords": keywords,
	})
}
