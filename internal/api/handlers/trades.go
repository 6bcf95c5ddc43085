package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/haldorsen/matchbook/internal/api/logger"
	"github.com/haldorsen/matchbook/internal/api/models"
	"github.com/haldorsen/matchbook/internal/matching"
)

// GetTradesHandler handles retrieving recent trades. The matching core never
// retains trades once returned from Submit, so this reads from whichever
// TradeStore collaborator the caller wired in; with none configured it
// reports an empty list rather than an error.
func (eh *EngineHolder) GetTradesHandler(w http.ResponseWriter, r *http.Request) {
	limitStr := r.URL.Query().Get("limit")

	limit := 100
	if limitStr != "" {
		parsedLimit, err := strconv.Atoi(limitStr)
		if err == nil && parsedLimit > 0 {
			limit = parsedLimit
			if limit > 1000 {
				limit = 1000
			}
		}
	}

	var trades []*matching.Trade
	if eh.Stores != nil && eh.Stores.Trades != nil {
		fetched, err := eh.Stores.Trades.GetRecent(limit)
		if err != nil {
			writeErrorResponse(w, models.ErrInternal(err.Error()))
			return
		}
		trades = fetched
	}

	deref := make([]matching.Trade, len(trades))
	for i, t := range trades {
		deref[i] = *t
	}
	tradeDTOs := convertTradesToDTO(deref)

	logger.Info("Retrieved trades", map[string]interface{}{
		"count": len(tradeDTOs),
		"limit": limit,
	})

	response := models.GetTradesResponse{
		BaseResponse: models.BaseResponse{
			Success:   true,
			Timestamp: time.Now().UTC(),
		},
		Trades: tradeDTOs,
		Count:  len(tradeDTOs),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}
