package api

import (
	"encoding/json"
	"net/http"
)

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	queueDepth := 0
	if s.orchestrator != nil {
		queueDepth = s.orchestrator.QueueDepth()
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"generation":  s.gen.Stats.Snapshot(),
		"queue_depth": queueDepth,
	})
}
