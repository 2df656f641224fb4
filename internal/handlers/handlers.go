package handlers

import (
	"context"
	"net/http"

	"github.com/abrezinsky/hockeyscorer/internal/logger"
	"github.com/abrezinsky/hockeyscorer/internal/services"
)

// HealthChecker reports whether the store is usable
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// Handlers holds all HTTP handler dependencies
type Handlers struct {
	Game    services.GameServicer
	Logs    services.LogServicer
	History services.HistoryServicer
	Consent services.ConsentServicer
	Share   services.ShareServicer
	Health  HealthChecker
	// Live is the websocket endpoint; nil disables /ws
	Live http.Handler
	Log  logger.Logger
}

// New creates a new Handlers instance with all dependencies
func New(
	game services.GameServicer,
	logs services.LogServicer,
	history services.HistoryServicer,
	consent services.ConsentServicer,
	share services.ShareServicer,
	health HealthChecker,
	live http.Handler,
	log logger.Logger,
) *Handlers {
	return &Handlers{
		Game:    game,
		Logs:    logs,
		History: history,
		Consent: consent,
		Share:   share,
		Health:  health,
		Live:    live,
		Log:     log,
	}
}

func (h *Handlers) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := h.Health.Ping(r.Context()); err != nil {
		respondJSON(w, http.StatusServiceUnavailable, HealthResponse{Status: "unavailable"})
		return
	}
	respondOK(w, HealthResponse{Status: "ok"})
}
