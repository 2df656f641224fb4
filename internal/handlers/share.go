package handlers

import (
	"net/http"
	"strconv"
)

func (h *Handlers) handleGetConsent(w http.ResponseWriter, r *http.Request) {
	ok, err := h.Consent.HasConsent()
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondOK(w, ConsentResponse{Consent: ok})
}

func (h *Handlers) handleGiveConsent(w http.ResponseWriter, r *http.Request) {
	if err := h.Consent.GiveConsent(); err != nil {
		h.respondError(w, r, err)
		return
	}
	respondOK(w, ConsentResponse{Consent: true})
}

func (h *Handlers) handleGetShare(w http.ResponseWriter, r *http.Request) {
	respondOK(w, ShareResponse{URL: h.Share.ScoreboardURL()})
}

func (h *Handlers) handleGetShareQR(w http.ResponseWriter, r *http.Request) {
	size := 256
	if s := r.URL.Query().Get("size"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			h.respondError(w, r, BadRequest("Invalid size parameter"))
			return
		}
		size = n
	}

	png, err := h.Share.QRCode(size)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-cache")
	w.Write(png)
}
