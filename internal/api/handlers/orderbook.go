package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/haldorsen/matchbook/internal/api/logger"
	"github.com/haldorsen/matchbook/internal/api/models"
)

// GetOrderBookHandler handles full order book snapshot requests for a pair.
func (eh *EngineHolder) GetOrderBookHandler(w http.ResponseWriter, r *http.Request) {
	symbol := r.URL.Query().Get("symbol")
	if symbol == "" {
		writeErrorResponse(w, models.ErrBadRequest("symbol query parameter is required", nil))
		return
	}

	data, err := eh.Engine.MarketData(symbol)
	if err != nil {
		writeErrorResponse(w, models.ErrUnknownPairError(symbol))
		return
	}

	bids := make([]models.PriceLevel, len(data.BidDepth))
	for i, l := range data.BidDepth {
		bids[i] = models.PriceLevel{Price: l.Price, Quantity: l.Quantity}
	}
	asks := make([]models.PriceLevel, len(data.AskDepth))
	for i, l := range data.AskDepth {
		asks[i] = models.PriceLevel{Price: l.Price, Quantity: l.Quantity}
	}

	var midPrice float64
	if data.BestBid > 0 && data.BestAsk > 0 {
		midPrice = (data.BestBid + data.BestAsk) / 2.0
	}

	logger.Info("Order book snapshot retrieved", map[string]interface{}{
		"symbol":     symbol,
		"bid_levels": len(bids),
		"ask_levels": len(asks),
	})

	response := models.OrderBookResponse{
		BaseResponse: models.BaseResponse{
			Success:   true,
			Timestamp: time.Now().UTC(),
		},
		Symbol:   symbol,
		Bids:     bids,
		Asks:     asks,
		Spread:   data.Spread,
		MidPrice: midPrice,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}

// GetTopOfBookHandler handles best bid/ask requests for a pair.
func (eh *EngineHolder) GetTopOfBookHandler(w http.ResponseWriter, r *http.Request) {
	symbol := r.URL.Query().Get("symbol")
	if symbol == "" {
		writeErrorResponse(w, models.ErrBadRequest("symbol query parameter is required", nil))
		return
	}

	data, err := eh.Engine.MarketData(symbol)
	if err != nil {
		writeErrorResponse(w, models.ErrUnknownPairError(symbol))
		return
	}

	var bestBid, bestAsk *models.BestQuote
	var midPrice float64

	if data.BestBid > 0 && len(data.BidDepth) > 0 {
		bestBid = &models.BestQuote{Price: data.BestBid, Quantity: data.BidDepth[0].Quantity}
	}
	if data.BestAsk > 0 && len(data.AskDepth) > 0 {
		bestAsk = &models.BestQuote{Price: data.BestAsk, Quantity: data.AskDepth[0].Quantity}
	}
	if bestBid != nil && bestAsk != nil {
		midPrice = (bestBid.Price + bestAsk.Price) / 2.0
	}

	logger.Info("Top of book retrieved", map[string]interface{}{
		"symbol":   symbol,
		"best_bid": data.BestBid,
		"best_ask": data.BestAsk,
	})

	response := models.TopOfBookResponse{
		BaseResponse: models.BaseResponse{
			Success:   true,
			Timestamp: time.Now().UTC(),
		},
		Symbol:   symbol,
		BestBid:  bestBid,
		BestAsk:  bestAsk,
		Spread:   data.Spread,
		MidPrice: midPrice,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}
