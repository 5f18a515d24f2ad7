package http

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/invensync/invensync/internal/inventory/domain"
	"github.com/invensync/invensync/internal/inventory/usecase/command"
	"github.com/invensync/invensync/internal/inventory/usecase/query"
	"github.com/invensync/invensync/internal/middleware"
	"github.com/invensync/invensync/pkg/logger"
)

var (
	requestCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inventory_service_requests_total",
			Help: "Total number of requests to inventory service",
		},
		[]string{"method", "endpoint", "status"},
	)

	requestLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "inventory_service_request_duration_seconds",
			Help:    "Duration of inventory service requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	itemsDecayed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "inventory_items_decayed_total",
			Help: "Total number of items mutated by decay passes",
		},
	)

	decayFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "inventory_decay_failures_total",
			Help: "Total number of per-item update failures during decay passes",
		},
	)
)

// ItemHandler handles HTTP requests for inventory items
type ItemHandler struct {
	repo            domain.ItemRepository
	createHandler   *command.CreateItemHandler
	updateHandler   *command.UpdateItemHandler
	deleteHandler   *command.DeleteItemHandler
	decayHandler    *command.ApplyDecayHandler
	getHandler      *query.GetItemHandler
	listHandler     *query.ListItemsHandler
	expiringHandler *query.ExpiringItemsHandler
	recentHandler   *query.RecentItemsHandler
	statsHandler    *query.GetStatsHandler
}

// NewItemHandler creates a new item handler. A nil alerter disables
// expiring-item events.
func NewItemHandler(repo domain.ItemRepository, alerter command.ExpiryAlerter) *ItemHandler {
	decayHandler := command.NewApplyDecayHandler(repo)
	if alerter != nil {
		decayHandler = command.NewApplyDecayHandlerWithAlerts(repo, alerter)
	}

	return &ItemHandler{
		repo:            repo,
		createHandler:   command.NewCreateItemHandler(repo),
		updateHandler:   command.NewUpdateItemHandler(repo),
		deleteHandler:   command.NewDeleteItemHandler(repo),
		decayHandler:    decayHandler,
		getHandler:      query.NewGetItemHandler(repo),
		listHandler:     query.NewListItemsHandler(repo),
		expiringHandler: query.NewExpiringItemsHandler(repo),
		recentHandler:   query.NewRecentItemsHandler(repo),
		statsHandler:    query.NewGetStatsHandler(repo),
	}
}

// Repository exposes the backing item repository for collaborating services.
func (h *ItemHandler) Repository() domain.ItemRepository {
	return h.repo
}

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// DecayResult is the payload returned by the decay endpoint
type DecayResult struct {
	Mutated   int      `json:"mutated"`
	FailedIDs []string `json:"failed_ids,omitempty"`
}

// CreateItem handles POST /api/items
func (h *ItemHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.OwnerFromContext(r.Context())
	if !ok {
		respondJSON(w, http.StatusUnauthorized, Response{Success: false, Error: "Not authenticated"})
		return
	}

	var req struct {
		Name       string  `json:"name"`
		Quantity   float64 `json:"quantity"`
		Unit       string  `json:"unit"`
		Category   string  `json:"category"`
		ExpiryDays *int    `json:"expiry_days"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid request body"})
		return
	}

	item, err := h.createHandler.Handle(command.CreateItemCommand{
		OwnerID:    ownerID,
		Name:       req.Name,
		Quantity:   req.Quantity,
		Unit:       req.Unit,
		Category:   req.Category,
		ExpiryDays: req.ExpiryDays,
	})
	if err != nil {
		respondError(w, r, err, "Failed to create item")
		return
	}

	respondJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: "Item created successfully",
		Data:    item,
	})
}

// ListItems handles GET /api/items
func (h *ItemHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.OwnerFromContext(r.Context())
	if !ok {
		respondJSON(w, http.StatusUnauthorized, Response{Success: false, Error: "Not authenticated"})
		return
	}

	items, err := h.listHandler.Handle(query.ListItemsQuery{
		OwnerID:  ownerID,
		Category: r.URL.Query().Get("category"),
		Search:   r.URL.Query().Get("q"),
		Sort:     domain.SortMode(r.URL.Query().Get("sort")),
	})
	if err != nil {
		respondError(w, r, err, "Failed to list items")
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: items})
}

// GetItem handles GET /api/items/{id}
func (h *ItemHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	ownerID, _ := middleware.OwnerFromContext(r.Context())
	item, err := h.ownedItem(mux.Vars(r)["id"], ownerID)
	if err != nil {
		respondError(w, r, err, "Failed to get item")
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: item})
}

// UpdateItem handles PATCH /api/items/{id}
func (h *ItemHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	ownerID, _ := middleware.OwnerFromContext(r.Context())
	item, err := h.ownedItem(mux.Vars(r)["id"], ownerID)
	if err != nil {
		respondError(w, r, err, "Failed to update item")
		return
	}

	var req struct {
		Name        *string  `json:"name"`
		Quantity    *float64 `json:"quantity"`
		Unit        *string  `json:"unit"`
		Category    *string  `json:"category"`
		ExpiryDays  *int     `json:"expiry_days"`
		ClearExpiry bool     `json:"clear_expiry"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid request body"})
		return
	}

	cmd := command.UpdateItemCommand{
		ID:       item.ID,
		Name:     req.Name,
		Quantity: req.Quantity,
		Unit:     req.Unit,
		Category: req.Category,
	}
	if req.ClearExpiry {
		cmd.SetExpiry = true
	} else if req.ExpiryDays != nil {
		cmd.SetExpiry = true
		cmd.ExpiryDays = req.ExpiryDays
	}

	updated, err := h.updateHandler.Handle(cmd)
	if err != nil {
		respondError(w, r, err, "Failed to update item")
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Item updated successfully",
		Data:    updated,
	})
}

// DeleteItem handles DELETE /api/items/{id}
func (h *ItemHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	ownerID, _ := middleware.OwnerFromContext(r.Context())
	item, err := h.ownedItem(mux.Vars(r)["id"], ownerID)
	if err != nil {
		respondError(w, r, err, "Failed to delete item")
		return
	}

	if err := h.deleteHandler.Handle(command.DeleteItemCommand{ID: item.ID}); err != nil {
		respondError(w, r, err, "Failed to delete item")
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Message: "Item deleted successfully"})
}

// ApplyDecay handles POST /api/items/decay. Screens call this once per
// session before reading any view, so dashboards always reflect
// current-day status.
func (h *ItemHandler) ApplyDecay(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.OwnerFromContext(r.Context())
	if !ok {
		respondJSON(w, http.StatusUnauthorized, Response{Success: false, Error: "Not authenticated"})
		return
	}

	mutated, err := h.decayHandler.Handle(r.Context(), ownerID, time.Now())
	itemsDecayed.Add(float64(mutated))

	if err != nil {
		var partial *domain.PartialDecayError
		if errors.As(err, &partial) {
			decayFailures.Add(float64(len(partial.FailedIDs)))
			respondJSON(w, http.StatusOK, Response{
				Success: false,
				Error:   "Some items could not be updated",
				Data:    DecayResult{Mutated: partial.Mutated, FailedIDs: partial.FailedIDs},
			})
			return
		}
		respondError(w, r, err, "Failed to apply decay")
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    DecayResult{Mutated: mutated},
	})
}

// ExpiringItems handles GET /api/items/expiring
func (h *ItemHandler) ExpiringItems(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.OwnerFromContext(r.Context())
	if !ok {
		respondJSON(w, http.StatusUnauthorized, Response{Success: false, Error: "Not authenticated"})
		return
	}

	threshold, _ := strconv.Atoi(r.URL.Query().Get("threshold"))

	items, err := h.expiringHandler.Handle(query.ExpiringItemsQuery{
		OwnerID:   ownerID,
		Threshold: threshold,
	})
	if err != nil {
		respondError(w, r, err, "Failed to list expiring items")
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: items})
}

// RecentItems handles GET /api/items/recent
func (h *ItemHandler) RecentItems(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.OwnerFromContext(r.Context())
	if !ok {
		respondJSON(w, http.StatusUnauthorized, Response{Success: false, Error: "Not authenticated"})
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	items, err := h.recentHandler.Handle(query.RecentItemsQuery{
		OwnerID: ownerID,
		Limit:   limit,
	})
	if err != nil {
		respondError(w, r, err, "Failed to list recent items")
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: items})
}

// GetStats handles GET /api/items/stats
func (h *ItemHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.OwnerFromContext(r.Context())
	if !ok {
		respondJSON(w, http.StatusUnauthorized, Response{Success: false, Error: "Not authenticated"})
		return
	}

	stats, err := h.statsHandler.Handle(query.GetStatsQuery{OwnerID: ownerID})
	if err != nil {
		respondError(w, r, err, "Failed to compute stats")
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: stats})
}

// ownedItem fetches an item and hides it from other owners
func (h *ItemHandler) ownedItem(id, ownerID string) (*domain.InventoryItem, error) {
	if ownerID == "" {
		return nil, &domain.ValidationError{Field: "owner_id", Reason: "is required"}
	}
	item, err := h.getHandler.Handle(query.GetItemQuery{ID: id})
	if err != nil {
		return nil, err
	}
	if item.OwnerID != ownerID {
		return nil, domain.ErrItemNotFound
	}
	return item, nil
}

// RegisterRoutes registers all item routes
func (h *ItemHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/items", h.instrument("list_items", middleware.Auth(h.ListItems))).Methods("GET")
	router.HandleFunc("/api/items", h.instrument("create_item", middleware.Auth(h.CreateItem))).Methods("POST")
	router.HandleFunc("/api/items/decay", h.instrument("apply_decay", middleware.Auth(h.ApplyDecay))).Methods("POST")
	router.HandleFunc("/api/items/expiring", h.instrument("expiring_items", middleware.Auth(h.ExpiringItems))).Methods("GET")
	router.HandleFunc("/api/items/recent", h.instrument("recent_items", middleware.Auth(h.RecentItems))).Methods("GET")
	router.HandleFunc("/api/items/stats", h.instrument("get_stats", middleware.Auth(h.GetStats))).Methods("GET")
	router.HandleFunc("/api/items/{id}", h.instrument("get_item", middleware.Auth(h.GetItem))).Methods("GET")
	router.HandleFunc("/api/items/{id}", h.instrument("update_item", middleware.Auth(h.UpdateItem))).Methods("PATCH")
	router.HandleFunc("/api/items/{id}", h.instrument("delete_item", middleware.Auth(h.DeleteItem))).Methods("DELETE")
}

// RegisterHealthCheck registers health check endpoint
func (h *ItemHandler) RegisterHealthCheck(router *mux.Router, db *sql.DB) {
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := db.Ping(); err != nil {
			respondJSON(w, http.StatusServiceUnavailable, Response{
				Success: false,
				Error:   "Database unavailable",
			})
			return
		}

		respondJSON(w, http.StatusOK, Response{
			Success: true,
			Message: "Inventory service is healthy",
		})
	}).Methods("GET")
}

// instrument records request count and latency per endpoint
func (h *ItemHandler) instrument(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(ww, r)

		requestCounter.WithLabelValues(r.Method, endpoint, strconv.Itoa(ww.statusCode)).Inc()
		requestLatency.WithLabelValues(r.Method, endpoint).Observe(time.Since(start).Seconds())
	}
}

// statusRecorder wraps http.ResponseWriter to capture the status code
type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.statusCode = code
	sr.ResponseWriter.WriteHeader(code)
}

// respondError maps domain errors to HTTP statuses
func respondError(w http.ResponseWriter, r *http.Request, err error, message string) {
	var validationErr *domain.ValidationError

	status := http.StatusInternalServerError
	switch {
	case errors.As(err, &validationErr):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrItemNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrStoreUnavailable):
		status = http.StatusServiceUnavailable
	}

	if status >= 500 {
		logger.Error(r.Context()).Err(err).Msg(message)
	}

	respondJSON(w, status, Response{Success: false, Error: err.Error()})
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
