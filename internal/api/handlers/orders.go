package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/haldorsen/matchbook/internal/api/logger"
	"github.com/haldorsen/matchbook/internal/api/models"
	"github.com/haldorsen/matchbook/internal/matching"
)

// EngineHolder wraps the matching engine for dependency injection. Stores is
// optional: when set, handlers persist orders and trades to it after the
// engine call returns, since the core never calls collaborators itself.
type EngineHolder struct {
	Engine *matching.Engine
	Stores *Stores
}

// Stores groups the pull-based persistence collaborators a handler may
// write to after a successful engine call.
type Stores struct {
	Orders OrderStore
	Trades TradeStore
}

// OrderStore and TradeStore are the handler-side view of internal/storage's
// interfaces, kept narrow so handlers don't import the storage package directly.
type OrderStore interface {
	Save(order *matching.Order) error
	Remove(orderID uint64) error
}

type TradeStore interface {
	SaveBatch(trades []*matching.Trade) error
	GetRecent(limit int) ([]*matching.Trade, error)
}

// NewEngineHolder creates a new engine holder with no persistence wired in.
func NewEngineHolder(engine *matching.Engine) *EngineHolder {
	return &EngineHolder{Engine: engine}
}

// WithStores attaches persistence collaborators to an existing holder.
func (eh *EngineHolder) WithStores(stores *Stores) *EngineHolder {
	eh.Stores = stores
	return eh
}

// writeErrorResponse writes an error response
func writeErrorResponse(w http.ResponseWriter, httpErr *models.HTTPError) {
	logger.Warn("Request failed", map[string]interface{}{
		"error_code": httpErr.Error.Code,
		"status":     httpErr.StatusCode,
	})

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpErr.StatusCode)

	response := models.BaseResponse{
		Success:   false,
		Timestamp: time.Now().UTC(),
		Message:   httpErr.Error.Message,
		Error:     &httpErr.Error,
	}

	json.NewEncoder(w).Encode(response)
}

// convertOrderType converts string to OrderType
func convertOrderType(orderType string) matching.OrderType {
	switch strings.ToLower(strings.TrimSpace(orderType)) {
	case "market":
		return matching.MarketOrder
	case "limit":
		return matching.LimitOrder
	default:
		return matching.NoActionOrder
	}
}

// convertSide converts string to SideType
func convertSide(side string) matching.SideType {
	switch strings.ToLower(strings.TrimSpace(side)) {
	case "buy":
		return matching.Buy
	case "sell":
		return matching.Sell
	default:
		return matching.NoActionSide
	}
}

// convertTradesToDTO converts matching trades to DTO trades
func convertTradesToDTO(trades []matching.Trade) []models.TradeDTO {
	dtos := make([]models.TradeDTO, len(trades))
	for i, trade := range trades {
		dtos[i] = models.TradeDTO{
			BuyOrderID:  trade.BuyOrderID,
			SellOrderID: trade.SellOrderID,
			Symbol:      trade.Symbol,
			Price:       trade.Price,
			Quantity:    trade.Quantity,
			Timestamp:   trade.Timestamp,
		}
	}
	return dtos
}

// persistTrades writes trades to the configured trade store, if any. The
// engine itself never calls storage; this is the pull-based hand-off point.
func (eh *EngineHolder) persistTrades(trades []matching.Trade) {
	if eh.Stores == nil || eh.Stores.Trades == nil || len(trades) == 0 {
		return
	}
	ptrs := make([]*matching.Trade, len(trades))
	for i := range trades {
		ptrs[i] = &trades[i]
	}
	if err := eh.Stores.Trades.SaveBatch(ptrs); err != nil {
		logger.Error("failed to persist trades", map[string]interface{}{"error": err.Error()})
	}
}

func (eh *EngineHolder) persistOrder(order *matching.Order) {
	if eh.Stores == nil || eh.Stores.Orders == nil {
		return
	}
	if err := eh.Stores.Orders.Save(order); err != nil {
		logger.Error("failed to persist order", map[string]interface{}{"error": err.Error()})
	}
}

// SubmitOrderHandler handles single order submission
func (eh *EngineHolder) SubmitOrderHandler(w http.ResponseWriter, r *http.Request) {
	var req models.SubmitOrderRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, models.ErrBadRequest("Invalid JSON format", map[string]interface{}{"error": err.Error()}))
		return
	}

	if httpErr := req.Validate(); httpErr != nil {
		writeErrorResponse(w, httpErr)
		return
	}

	trades, orderID, err := eh.Engine.Submit(req.UserID, req.Symbol, convertSide(req.Side), convertOrderType(req.OrderType), req.Price, req.Quantity)
	if httpErr := translateSubmitError(err, req.Symbol); httpErr != nil {
		writeErrorResponse(w, httpErr)
		return
	}

	eh.persistTrades(trades)
	if order, ok := eh.Engine.Order(orderID, req.Symbol); ok {
		eh.persistOrder(order)
	}

	logger.Info("Order submitted successfully", map[string]interface{}{
		"order_id": orderID,
		"user_id":  req.UserID,
		"symbol":   req.Symbol,
		"type":     req.OrderType,
		"side":     req.Side,
		"trades":   len(trades),
	})

	response := models.SubmitOrderResponse{
		BaseResponse: models.BaseResponse{
			Success:   true,
			Timestamp: time.Now().UTC(),
			Message:   "Order submitted successfully",
		},
		OrderID: orderID,
		Trades:  convertTradesToDTO(trades),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}

func translateSubmitError(err error, symbol string) *models.HTTPError {
	switch err {
	case nil:
		return nil
	case matching.ErrUnknownPair:
		return models.ErrUnknownPairError(symbol)
	case matching.ErrInvalidArgument:
		return models.ErrBadRequest("quantity and limit price must be positive", map[string]interface{}{"symbol": symbol})
	default:
		return models.ErrInternal(err.Error())
	}
}

// BatchOrderHandler handles batch order submission
func (eh *EngineHolder) BatchOrderHandler(w http.ResponseWriter, r *http.Request) {
	var req models.BatchOrderRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, models.ErrBadRequest("Invalid JSON format", map[string]interface{}{"error": err.Error()}))
		return
	}

	if httpErr := req.Validate(); httpErr != nil {
		writeErrorResponse(w, httpErr)
		return
	}

	results := make([]models.BatchOrderResult, len(req.Orders))
	successful := 0
	failed := 0

	for i, orderReq := range req.Orders {
		result := models.BatchOrderResult{Index: i}

		if httpErr := orderReq.Validate(); httpErr != nil {
			result.Success = false
			result.Error = &httpErr.Error
			failed++
			results[i] = result
			continue
		}

		trades, orderID, err := eh.Engine.Submit(orderReq.UserID, orderReq.Symbol, convertSide(orderReq.Side), convertOrderType(orderReq.OrderType), orderReq.Price, orderReq.Quantity)
		if httpErr := translateSubmitError(err, orderReq.Symbol); httpErr != nil {
			result.Success = false
			result.Error = &httpErr.Error
			failed++
			results[i] = result
			continue
		}

		eh.persistTrades(trades)
		if order, ok := eh.Engine.Order(orderID, orderReq.Symbol); ok {
			eh.persistOrder(order)
		}

		result.Success = true
		result.OrderID = orderID
		result.Trades = convertTradesToDTO(trades)
		successful++
		results[i] = result
	}

	logger.Info("Batch order processed", map[string]interface{}{
		"total":      len(req.Orders),
		"successful": successful,
		"failed":     failed,
	})

	response := models.BatchOrderResponse{
		BaseResponse: models.BaseResponse{
			Success:   true,
			Timestamp: time.Now().UTC(),
		},
		Results: results,
		Summary: models.BatchOrderSummary{
			Total:      len(req.Orders),
			Successful: successful,
			Failed:     failed,
		},
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}

// CancelOrderHandler handles order cancellation. Requires a symbol query
// parameter since cancellation is scoped to a single pair's book.
func (eh *EngineHolder) CancelOrderHandler(w http.ResponseWriter, r *http.Request) {
	pathParts := strings.Split(r.URL.Path, "/")
	if len(pathParts) < 5 {
		writeErrorResponse(w, models.ErrBadRequest("Invalid order ID", nil))
		return
	}

	orderIDStr := pathParts[len(pathParts)-1]
	orderID, err := strconv.ParseUint(orderIDStr, 10, 64)
	if err != nil {
		writeErrorResponse(w, models.ErrBadRequest("Invalid order ID format", map[string]interface{}{"provided_value": orderIDStr}))
		return
	}

	symbol := r.URL.Query().Get("symbol")
	if symbol == "" {
		writeErrorResponse(w, models.ErrBadRequest("symbol query parameter is required", nil))
		return
	}

	cancelled := eh.Engine.Cancel(orderID, symbol)
	if !cancelled {
		writeErrorResponse(w, models.ErrOrderNotFoundError(orderID))
		return
	}

	if eh.Stores != nil && eh.Stores.Orders != nil {
		if err := eh.Stores.Orders.Remove(orderID); err != nil {
			logger.Error("failed to remove cancelled order from store", map[string]interface{}{"error": err.Error()})
		}
	}

	logger.Info("Order cancelled", map[string]interface{}{"order_id": orderID, "symbol": symbol})

	response := models.CancelOrderResponse{
		BaseResponse: models.BaseResponse{
			Success:   true,
			Timestamp: time.Now().UTC(),
			Message:   "Order cancelled successfully",
		},
		OrderID: orderID,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}

// GetOrderHandler handles retrieving a single resting order by id.
func (eh *EngineHolder) GetOrderHandler(w http.ResponseWriter, r *http.Request) {
	pathParts := strings.Split(r.URL.Path, "/")
	if len(pathParts) < 5 {
		writeErrorResponse(w, models.ErrBadRequest("Invalid order ID", nil))
		return
	}

	orderIDStr := pathParts[len(pathParts)-1]
	orderID, err := strconv.ParseUint(orderIDStr, 10, 64)
	if err != nil {
		writeErrorResponse(w, models.ErrBadRequest("Invalid order ID format", map[string]interface{}{"provided_value": orderIDStr}))
		return
	}

	symbol := r.URL.Query().Get("symbol")
	if symbol == "" {
		writeErrorResponse(w, models.ErrBadRequest("symbol query parameter is required", nil))
		return
	}

	order, ok := eh.Engine.Order(orderID, symbol)
	if !ok {
		writeErrorResponse(w, models.ErrOrderNotFoundError(orderID))
		return
	}

	response := models.GetOrderResponse{
		BaseResponse: models.BaseResponse{
			Success:   true,
			Timestamp: time.Now().UTC(),
		},
		Order: convertOrderToDTO(order),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}

// GetAllOrdersHandler handles retrieving resting orders for a user on a pair.
func (eh *EngineHolder) GetAllOrdersHandler(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	symbol := r.URL.Query().Get("symbol")
	limitStr := r.URL.Query().Get("limit")

	if userID == "" || symbol == "" {
		writeErrorResponse(w, models.ErrBadRequest("user_id and symbol query parameters are required", nil))
		return
	}

	limit := 100
	if limitStr != "" {
		if parsedLimit, err := strconv.Atoi(limitStr); err == nil && parsedLimit > 0 {
			limit = parsedLimit
			if limit > 1000 {
				limit = 1000
			}
		}
	}

	orders := eh.Engine.UserOrders(userID, symbol)
	if len(orders) > limit {
		orders = orders[:limit]
	}

	orderDTOs := make([]models.OrderDTO, len(orders))
	for i, order := range orders {
		orderDTOs[i] = *convertOrderToDTO(order)
	}

	logger.Info("Retrieved orders", map[string]interface{}{"count": len(orderDTOs), "symbol": symbol})

	response := models.GetOrdersResponse{
		BaseResponse: models.BaseResponse{
			Success:   true,
			Timestamp: time.Now().UTC(),
		},
		Orders: orderDTOs,
		Count:  len(orderDTOs),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}

// convertOrderToDTO converts a matching order to DTO
func convertOrderToDTO(order *matching.Order) *models.OrderDTO {
	var orderType, side string

	switch order.OrderType {
	case matching.MarketOrder:
		orderType = "market"
	case matching.LimitOrder:
		orderType = "limit"
	default:
		orderType = "unknown"
	}

	switch order.Side {
	case matching.Buy:
		side = "buy"
	case matching.Sell:
		side = "sell"
	default:
		side = "unknown"
	}

	return &models.OrderDTO{
		OrderID:           order.ID,
		UserID:            order.UserID,
		Symbol:            order.Symbol,
		OrderType:         orderType,
		Side:              side,
		Price:             order.Price,
		Quantity:          order.Quantity,
		FilledQuantity:    order.Filled,
		RemainingQuantity: order.Remaining(),
		Status:            order.Status.String(),
		Timestamp:         order.Timestamp,
	}
}
