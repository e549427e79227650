package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/FungiProxy/QuoteTemplate-sub001/internal/quote"
)

// handleModelConfig returns the configuration used for a model, falling back
// to the built-in default when none is on disk. Each request reads the
// configs directory afresh.
func (s *Server) handleModelConfig(w http.ResponseWriter, r *http.Request) {
	model := strings.TrimSpace(chi.URLParam(r, "model"))
	if !quote.ValidModel(model) {
		jsonError(w, "invalid model", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.gen.NewConfigStore(s.log).Load(model))
}
