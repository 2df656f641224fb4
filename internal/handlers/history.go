package handlers

import (
	"net/http"
)

func (h *Handlers) handleGetCurrentLog(w http.ResponseWriter, r *http.Request) {
	entries, err := h.Logs.CurrentLog(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondOK(w, entries)
}

func (h *Handlers) handleEditCurrentNote(w http.ResponseWriter, r *http.Request) {
	h.editNote(w, r, nil)
}

func (h *Handlers) handleDeleteCurrentNote(w http.ResponseWriter, r *http.Request) {
	h.deleteNote(w, r, nil)
}

func (h *Handlers) handleEditHistoryNote(w http.ResponseWriter, r *http.Request) {
	gameID, err := urlParam(r, "id")
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.editNote(w, r, &gameID)
}

func (h *Handlers) handleDeleteHistoryNote(w http.ResponseWriter, r *http.Request) {
	gameID, err := urlParam(r, "id")
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.deleteNote(w, r, &gameID)
}

func (h *Handlers) editNote(w http.ResponseWriter, r *http.Request, gameID *string) {
	noteID, err := urlParam(r, "noteID")
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	var req NoteRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, r, err)
		return
	}
	note, err := h.Logs.EditNote(r.Context(), noteID, gameID, req.Content)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondOK(w, note)
}

func (h *Handlers) deleteNote(w http.ResponseWriter, r *http.Request, gameID *string) {
	noteID, err := urlParam(r, "noteID")
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	if err := h.Logs.DeleteNote(r.Context(), noteID, gameID); err != nil {
		h.respondError(w, r, err)
		return
	}
	respondDeleted(w)
}

func (h *Handlers) handleListHistory(w http.ResponseWriter, r *http.Request) {
	games, err := h.History.List(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondOK(w, games)
}

func (h *Handlers) handleGetHistoryGame(w http.ResponseWriter, r *http.Request) {
	id, err := urlParam(r, "id")
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	game, err := h.History.Get(r.Context(), id)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondOK(w, game)
}

func (h *Handlers) handleUpdateHistoryGame(w http.ResponseWriter, r *http.Request) {
	id, err := urlParam(r, "id")
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	var req HistoryUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, r, err)
		return
	}

	game, err := h.History.Update(r.Context(), id, req.Teams)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondOK(w, game)
}

func (h *Handlers) handleDeleteHistoryGame(w http.ResponseWriter, r *http.Request) {
	id, err := urlParam(r, "id")
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	if err := h.History.Delete(r.Context(), id); err != nil {
		h.respondError(w, r, err)
		return
	}
	respondDeleted(w)
}

func (h *Handlers) handleGetHistoryLog(w http.ResponseWriter, r *http.Request) {
	id, err := urlParam(r, "id")
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	if _, err := h.History.Get(r.Context(), id); err != nil {
		h.respondError(w, r, err)
		return
	}
	entries, err := h.Logs.GameLog(r.Context(), id)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondOK(w, entries)
}

func (h *Handlers) handleGetHistorySummary(w http.ResponseWriter, r *http.Request) {
	id, err := urlParam(r, "id")
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	text, err := h.History.Summary(r.Context(), id)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(text))
}
