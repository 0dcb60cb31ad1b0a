// internal/server/handlers/publish.go

package handlers

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"autopress/internal/service/publish"
)

// PublishHandler handles manual publication triggers
type PublishHandler struct {
	pipeline *publish.Pipeline
	log      *logrus.Logger
}

// NewPublishHandler creates a new publish handler
func NewPublishHandler(pipeline *publish.Pipeline, log *logrus.Logger) *PublishHandler {
	return &PublishHandler{
		pipeline: pipeline,
		log:      log,
	}
}

// TriggerPublish runs one publication cycle, inferring the time slot
// from the current hour. Same pipeline as a scheduled firing.
func (h *PublishHandler) TriggerPublish(w http.ResponseWriter, r *http.Request) {
	if err := h.pipeline.RunManual(r.Context()); err != nil {
		h.log.WithError(err).Error("Manual publication failed")
		respondWithError(w, http.StatusInternalServerError, "Publication failed", err)
		return
	}

	respondWithJSON(w, http.StatusAccepted, map[string]string{"status": "ok"})
}
