package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ashvale/sentrygate-core/internal/eventlog"
)

// maxListLimit caps the number of events one request can fetch.
const maxListLimit = 500

// handleListEvents returns recent events, newest first.
//
// GET /api/events?limit=50
func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeBadRequest(w, "limit must be a positive integer")
			return
		}
		limit = parsed
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	events, err := s.events.List(r.Context(), limit)
	if err != nil {
		s.logger.Error("failed to list events", "error", err)
		writeInternalError(w, "failed to list events")
		return
	}
	if events == nil {
		events = []eventlog.SecurityEvent{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"events": events,
		"count":  len(events),
	})
}

// handleGetEvent returns a single event by ID.
//
// GET /api/events/{id}
func (s *Server) handleGetEvent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	event, err := s.events.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, eventlog.ErrEventNotFound) {
			writeNotFound(w, "event not found")
			return
		}
		s.logger.Error("failed to get event", "event_id", id, "error", err)
		writeInternalError(w, "failed to get event")
		return
	}

	writeJSON(w, http.StatusOK, event)
}

// handleDeleteEvent removes an event by ID.
//
// DELETE /api/events/{id}
func (s *Server) handleDeleteEvent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := s.events.Delete(r.Context(), id); err != nil {
		if errors.Is(err, eventlog.ErrEventNotFound) {
			writeNotFound(w, "event not found")
			return
		}
		s.logger.Error("failed to delete event", "event_id", id, "error", err)
		writeInternalError(w, "failed to delete event")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"deleted": id})
}

// handleEventStats returns event totals per status.
//
// GET /api/events/stats
func (s *Server) handleEventStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.events.Stats(r.Context())
	if err != nil {
		s.logger.Error("failed to get event stats", "error", err)
		writeInternalError(w, "failed to get event stats")
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

// handleAlarmCancel silences an active siren on the device.
//
// POST /api/alarm/cancel
func (s *Server) handleAlarmCancel(w http.ResponseWriter, _ *http.Request) {
	if s.alarm == nil {
		writeError(w, http.StatusServiceUnavailable, ErrCodeInternal, "device link not available")
		return
	}

	if err := s.alarm.CancelAlarm(); err != nil {
		s.logger.Error("failed to cancel alarm", "error", err)
		writeInternalError(w, "failed to cancel alarm")
		return
	}

	s.logger.Info("alarm cancel requested via API")
	writeJSON(w, http.StatusOK, map[string]string{"status": "cancelled"})
}
