package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/haldorsen/matchbook/internal/api/logger"
	"github.com/haldorsen/matchbook/internal/api/models"
)

// RegisterPairHandler creates a book for a new trading pair. Idempotent:
// registering an already-known symbol reports Created=false, not an error.
func (eh *EngineHolder) RegisterPairHandler(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterPairRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, models.ErrBadRequest("Invalid JSON format", map[string]interface{}{"error": err.Error()}))
		return
	}

	symbol := strings.TrimSpace(req.Symbol)
	if symbol == "" {
		writeErrorResponse(w, models.ErrBadRequest("symbol cannot be empty", map[string]interface{}{"field": "symbol"}))
		return
	}

	created := eh.Engine.RegisterPair(symbol)

	logger.Info("Pair registration requested", map[string]interface{}{"symbol": symbol, "created": created})

	response := models.RegisterPairResponse{
		BaseResponse: models.BaseResponse{
			Success:   true,
			Timestamp: time.Now().UTC(),
		},
		Symbol:  symbol,
		Created: created,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}
