package handlers

import (
	"net/http"
	"strconv"

	"github.com/abrezinsky/hockeyscorer/internal/models"
)

func (h *Handlers) gameResponse(r *http.Request, state models.CurrentGameState) (*GameResponse, error) {
	canStart, err := h.Game.CanStart(r.Context())
	if err != nil {
		return nil, err
	}
	return &GameResponse{CurrentGameState: state, CanStart: canStart}, nil
}

func (h *Handlers) respondGame(w http.ResponseWriter, r *http.Request, state models.CurrentGameState) {
	resp, err := h.gameResponse(r, state)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondOK(w, resp)
}

func (h *Handlers) handleGetGame(w http.ResponseWriter, r *http.Request) {
	state, err := h.Game.State(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondGame(w, r, state)
}

func (h *Handlers) handleStartGame(w http.ResponseWriter, r *http.Request) {
	state, err := h.Game.StartGame(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondGame(w, r, state)
}

func (h *Handlers) handleToggleHalftime(w http.ResponseWriter, r *http.Request) {
	state, err := h.Game.ToggleHalftime(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondGame(w, r, state)
}

func (h *Handlers) handleEndGame(w http.ResponseWriter, r *http.Request) {
	result, err := h.Game.EndGame(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondOK(w, result)
}

func (h *Handlers) handleAddPlayer(w http.ResponseWriter, r *http.Request) {
	teamID, err := urlParam(r, "teamID")
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	var req PlayerCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, r, err)
		return
	}

	player, err := h.Game.AddPlayer(r.Context(), teamID, req.Name)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondCreated(w, player)
}

func (h *Handlers) handleRemovePlayer(w http.ResponseWriter, r *http.Request) {
	teamID, playerID, err := teamAndPlayer(r)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	if err := h.Game.RemovePlayer(r.Context(), teamID, playerID); err != nil {
		h.respondError(w, r, err)
		return
	}
	respondDeleted(w)
}

func (h *Handlers) handleSetPlayerActive(w http.ResponseWriter, r *http.Request) {
	teamID, playerID, err := teamAndPlayer(r)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	var req PlayerActiveRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, r, err)
		return
	}
	if err := h.Game.SetPlayerActive(r.Context(), teamID, playerID, req.Active); err != nil {
		h.respondError(w, r, err)
		return
	}
	h.handleGetGame(w, r)
}

func (h *Handlers) handleUpdateTeam(w http.ResponseWriter, r *http.Request) {
	teamID, err := urlParam(r, "teamID")
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	var req TeamUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, r, err)
		return
	}

	team, err := h.Game.UpdateTeam(r.Context(), teamID, req.Name, req.Color)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondOK(w, team)
}

func (h *Handlers) handleUpdateScore(w http.ResponseWriter, r *http.Request) {
	teamID, playerID, err := teamAndPlayer(r)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	var req ScoreRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, r, err)
		return
	}
	if req.Points == 0 {
		h.respondError(w, r, BadRequest("Invalid points: must not be zero"))
		return
	}

	changed, err := h.Game.UpdateScore(r.Context(), teamID, playerID, req.Points)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	state, err := h.Game.State(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondOK(w, ScoreResponse{Changed: changed, Game: state})
}

func (h *Handlers) handleSearchPlayers(w http.ResponseWriter, r *http.Request) {
	matches, err := h.Game.SearchPlayers(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	if limit := r.URL.Query().Get("limit"); limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil || n < 1 {
			h.respondError(w, r, BadRequest("Invalid limit parameter"))
			return
		}
		if n < len(matches) {
			matches = matches[:n]
		}
	}
	respondOK(w, matches)
}

func (h *Handlers) handleAddNote(w http.ResponseWriter, r *http.Request) {
	var req NoteRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, r, err)
		return
	}
	entry, err := h.Game.AddNote(r.Context(), req.Content)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondCreated(w, entry)
}

func teamAndPlayer(r *http.Request) (string, string, error) {
	teamID, err := urlParam(r, "teamID")
	if err != nil {
		return "", "", err
	}
	playerID, err := urlParam(r, "playerID")
	if err != nil {
		return "", "", err
	}
	return teamID, playerID, nil
}
