package handlers

import "net/http"

// Events streams the caller's session events over a websocket
func (h *Handler) Events(w http.ResponseWriter, r *http.Request) {
	id := sessionID(r.Context())
	if err := h.events.Serve(w, r, id); err != nil {
		// the upgrader has already answered the client
		h.logger.Warnw("Websocket upgrade failed", "error", err, "session", id)
	}
}
