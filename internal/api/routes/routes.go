package routes

import (
	"net/http"

	"github.com/haldorsen/matchbook/internal/api/handlers"
	"github.com/haldorsen/matchbook/internal/api/middleware"
)

// SetupRoutes configures all API routes with middleware
func SetupRoutes(engineHolder *handlers.EngineHolder) http.Handler {
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("/api/v1/health", handlers.HealthHandler)

	// Pair registration
	mux.HandleFunc("/api/v1/pairs", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			engineHolder.RegisterPairHandler(w, r)
		} else {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})

	// Order endpoints
	mux.HandleFunc("/api/v1/orders", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			engineHolder.SubmitOrderHandler(w, r)
		case http.MethodGet:
			engineHolder.GetAllOrdersHandler(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})

	mux.HandleFunc("/api/v1/orders/batch", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			engineHolder.BatchOrderHandler(w, r)
		} else {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})

	mux.HandleFunc("/api/v1/orders/", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			engineHolder.GetOrderHandler(w, r)
		case http.MethodDelete:
			engineHolder.CancelOrderHandler(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})

	// Order book endpoints
	mux.HandleFunc("/api/v1/orderbook", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			engineHolder.GetOrderBookHandler(w, r)
		} else {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})

	mux.HandleFunc("/api/v1/orderbook/top", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			engineHolder.GetTopOfBookHandler(w, r)
		} else {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})

	// Trade endpoints
	mux.HandleFunc("/api/v1/trades", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			engineHolder.GetTradesHandler(w, r)
		} else {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})

	// Apply middleware (order matters; a request passes Logging -> CORS -> RequestID -> Recovery -> Handler)
	handler := middleware.Recovery(mux)
	handler = middleware.RequestID(handler)
	handler = middleware.CORS(handler)
	handler = middleware.Logging(handler)

	return handler
}
