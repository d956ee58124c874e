package api

import (
	"net/http"
)

func (s *Server) handleEngineStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"sessions": s.store.Len(),
		"stats":    s.metrics.Stats(),
	})
}
