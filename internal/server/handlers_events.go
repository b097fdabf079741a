package server

import (
	"net/http"
	"time"
)

// keepaliveInterval is how often an idle event stream sends a comment.
var keepaliveInterval = 25 * time.Second

// handleEvents streams slice changes until the client disconnects. The first
// event is "ready"; each change is a "change" event carrying the slice name,
// the operation and the slice epoch. Clients re-read the slice they care about.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	ctx := r.Context()
	changes := s.store.Watch(ctx, 64)

	if err := sse.WriteEvent("ready", map[string]string{"user_id": string(s.store.Session.UserID())}); err != nil {
		return
	}

	ticker := time.NewTicker(keepaliveInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := sse.WriteComment("keepalive"); err != nil {
				return
			}
		case c, ok := <-changes:
			if !ok {
				return
			}
			if err := sse.WriteEvent("change", c); err != nil {
				s.logger.Debug("event stream closed", "error", err)
				return
			}
		}
	}
}
