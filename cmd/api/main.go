package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/safar/go-storefront/internal/analytics"
	"github.com/safar/go-storefront/internal/auth"
	"github.com/safar/go-storefront/internal/catalog"
	"github.com/safar/go-storefront/internal/checkout"
	"github.com/safar/go-storefront/internal/config"
	"github.com/safar/go-storefront/internal/events"
	"github.com/safar/go-storefront/internal/inventory"
	"github.com/safar/go-storefront/internal/recommend"
	"github.com/safar/go-storefront/internal/store"
)

var log = logrus.New()

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Load config: %v", err)
	}

	if level, err := logrus.ParseLevel(cfg.Log.Level); err == nil {
		log.SetLevel(level)
	}

	st := store.New()
	st.Seed()

	bus := events.NewBus(log)
	inv := inventory.New(st, bus, log, cfg.Inventory.LowStockThreshold)
	cat := catalog.New(st, bus, log)
	authSvc := auth.New(st, log)
	checkoutSvc := checkout.New(st, inv, bus, log)
	analyticsSvc := analytics.New(st)
	recommendSvc := recommend.New(st)

	// Stand-in for the dashboard views that re-read analytics when the
	// underlying data moves.
	bus.Subscribe(events.KindOrderCreated, func(payload any) {
		log.WithField("payload", payload).Debug("refreshing sales views")
	})
	bus.Subscribe(events.KindInventoryUpdated, func(payload any) {
		log.WithField("payload", payload).Debug("refreshing inventory views")
	})

	mux := http.NewServeMux()

	mux.HandleFunc("/register", handleRegister(authSvc))
	mux.HandleFunc("/login", handleLogin(authSvc))
	mux.HandleFunc("/users", handleUsers(st))
	mux.HandleFunc("/users/", handleUserByID(st, authSvc, recommendSvc))
	mux.HandleFunc("/products", handleProducts(cat))
	mux.HandleFunc("/products/", handleProductByID(cat, recommendSvc))
	mux.HandleFunc("/orders", handleOrders(st))
	mux.HandleFunc("/orders/", handleOrderByID(st))
	mux.HandleFunc("/checkout", handleCheckout(checkoutSvc))
	mux.HandleFunc("/stock/consume", handleConsume(inv))
	mux.HandleFunc("/stock/adjust", handleAdjust(inv))
	mux.HandleFunc("/stock/restock", handleRestock(inv))
	mux.HandleFunc("/inventory/report", handleInventoryReport(inv))
	mux.HandleFunc("/inventory/alerts", handleStockAlerts(inv))
	mux.HandleFunc("/inventory/low-stock", handleLowStock(inv))
	mux.HandleFunc("/inventory/out-of-stock", handleOutOfStock(inv))
	mux.HandleFunc("/analytics/sales", handleSalesAnalytics(analyticsSvc))
	mux.HandleFunc("/analytics/products", handleProductAnalytics(analyticsSvc))
	mux.HandleFunc("/analytics/customers", handleCustomerAnalytics(analyticsSvc))
	mux.HandleFunc("/recommendations/trending", handleTrending(recommendSvc))

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      mux,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	log.Infof("Server starting on port %s", cfg.Server.Port)
	if err := server.ListenAndServe(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

func handleRegister(svc *auth.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}

		var req auth.RegisterInput
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		user, err := svc.Register(req)
		if err != nil {
			respondError(w, statusForError(err), err.Error())
			return
		}

		respondJSON(w, http.StatusCreated, user)
	}
}

func handleLogin(svc *auth.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}

		var req struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		user, err := svc.Login(req.Email, req.Password)
		if err != nil {
			respondError(w, statusForError(err), err.Error())
			return
		}

		respondJSON(w, http.StatusOK, user)
	}
}

func handleUsers(st *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}
		respondJSON(w, http.StatusOK, st.ListUsers())
	}
}

func handleUserByID(st *store.Store, authSvc *auth.Service, rec *recommend.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, rest, err := parseID(r.URL.Path, "/users/")
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid user ID")
			return
		}

		switch rest {
		case "orders":
			respondJSON(w, http.StatusOK, st.ListOrdersByUser(id))
			return
		case "recommendations":
			respondJSON(w, http.StatusOK, rec.Personalized(id, queryInt(r, "limit")))
			return
		case "":
		default:
			respondError(w, http.StatusNotFound, "Not found")
			return
		}

		switch r.Method {
		case http.MethodGet:
			user, err := st.GetUser(id)
			if err != nil {
				respondError(w, statusForError(err), err.Error())
				return
			}
			respondJSON(w, http.StatusOK, user)

		case http.MethodPut:
			var req struct {
				Name     *string `json:"name"`
				Email    *string `json:"email"`
				Password *string `json:"password"`
				Phone    *string `json:"phone"`
				Address  *string `json:"address"`
			}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				respondError(w, http.StatusBadRequest, "Invalid request body")
				return
			}
			user, err := authSvc.UpdateProfile(id, store.UserPatch{
				Name:     req.Name,
				Email:    req.Email,
				Password: req.Password,
				Phone:    req.Phone,
				Address:  req.Address,
			})
			if err != nil {
				respondError(w, statusForError(err), err.Error())
				return
			}
			respondJSON(w, http.StatusOK, user)

		default:
			respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	}
}

func handleProducts(cat *catalog.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			var req struct {
				Name        string  `json:"name"`
				Price       float64 `json:"price"`
				Category    string  `json:"category"`
				Description string  `json:"description"`
				Stock       int     `json:"stock"`
			}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				respondError(w, http.StatusBadRequest, "Invalid request body")
				return
			}

			product, err := cat.AddProduct(catalog.ProductInput{
				Name:        req.Name,
				Price:       decimal.NewFromFloat(req.Price),
				Category:    req.Category,
				Description: req.Description,
				Stock:       req.Stock,
			})
			if err != nil {
				respondError(w, statusForError(err), err.Error())
				return
			}
			respondJSON(w, http.StatusCreated, product)

		case http.MethodGet:
			respondJSON(w, http.StatusOK, cat.ListProducts())

		default:
			respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	}
}

func handleProductByID(cat *catalog.Service, rec *recommend.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, rest, err := parseID(r.URL.Path, "/products/")
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid product ID")
			return
		}

		switch rest {
		case "similar":
			respondJSON(w, http.StatusOK, rec.Similar(id, queryInt(r, "limit")))
			return
		case "":
		default:
			respondError(w, http.StatusNotFound, "Not found")
			return
		}

		switch r.Method {
		case http.MethodGet:
			product, err := cat.GetProduct(id)
			if err != nil {
				respondError(w, statusForError(err), err.Error())
				return
			}
			respondJSON(w, http.StatusOK, product)

		case http.MethodPut:
			var req struct {
				Name        *string  `json:"name"`
				Price       *float64 `json:"price"`
				Category    *string  `json:"category"`
				Description *string  `json:"description"`
				Stock       *int     `json:"stock"`
			}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				respondError(w, http.StatusBadRequest, "Invalid request body")
				return
			}
			patch := store.ProductPatch{
				Name:        req.Name,
				Category:    req.Category,
				Description: req.Description,
				Stock:       req.Stock,
			}
			if req.Price != nil {
				price := decimal.NewFromFloat(*req.Price)
				patch.Price = &price
			}
			product, err := cat.UpdateProduct(id, patch)
			if err != nil {
				respondError(w, statusForError(err), err.Error())
				return
			}
			respondJSON(w, http.StatusOK, product)

		case http.MethodDelete:
			removed := cat.DeleteProduct(id)
			respondJSON(w, http.StatusOK, map[string]bool{"removed": removed})

		default:
			respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	}
}

func handleOrders(st *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}
		respondJSON(w, http.StatusOK, st.ListOrders())
	}
}

func handleOrderByID(st *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _, err := parseID(r.URL.Path, "/orders/")
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid order ID")
			return
		}

		order, err := st.GetOrder(id)
		if err != nil {
			respondError(w, statusForError(err), err.Error())
			return
		}
		respondJSON(w, http.StatusOK, order)
	}
}

func handleCheckout(svc *checkout.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}

		var req struct {
			UserID int64                `json:"user_id"`
			Items  []checkout.LineInput `json:"items"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		order, err := svc.Checkout(req.UserID, req.Items)
		if err != nil {
			respondError(w, statusForError(err), err.Error())
			return
		}
		respondJSON(w, http.StatusCreated, order)
	}
}

func handleConsume(inv *inventory.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}

		var req struct {
			ProductID int64 `json:"product_id"`
			Quantity  int   `json:"quantity"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		product, err := inv.Consume(req.ProductID, req.Quantity)
		if err != nil {
			respondError(w, statusForError(err), err.Error())
			return
		}
		respondJSON(w, http.StatusOK, product)
	}
}

func handleAdjust(inv *inventory.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}

		var req struct {
			ProductID int64  `json:"product_id"`
			Delta     int    `json:"delta"`
			Reason    string `json:"reason"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if req.Reason == "" {
			req.Reason = "Manual adjustment"
		}

		product, err := inv.Adjust(req.ProductID, req.Delta, req.Reason)
		if err != nil {
			respondError(w, statusForError(err), err.Error())
			return
		}
		respondJSON(w, http.StatusOK, product)
	}
}

func handleRestock(inv *inventory.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}

		var req struct {
			ProductID int64 `json:"product_id"`
			Quantity  int   `json:"quantity"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		product, err := inv.Restock(req.ProductID, req.Quantity)
		if err != nil {
			respondError(w, statusForError(err), err.Error())
			return
		}
		respondJSON(w, http.StatusOK, product)
	}
}

func handleInventoryReport(inv *inventory.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, inv.Report())
	}
}

func handleStockAlerts(inv *inventory.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, inv.Alerts())
	}
}

func handleLowStock(inv *inventory.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, inv.LowStock(queryInt(r, "threshold")))
	}
}

func handleOutOfStock(inv *inventory.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, inv.OutOfStock())
	}
}

func handleSalesAnalytics(svc *analytics.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, svc.Sales())
	}
}

func handleProductAnalytics(svc *analytics.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, svc.Products())
	}
}

func handleCustomerAnalytics(svc *analytics.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, svc.Customers())
	}
}

func handleTrending(svc *recommend.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, svc.Trending(queryInt(r, "limit")))
	}
}

// parseID splits "/users/42/orders" into 42 and "orders".
func parseID(path, prefix string) (int64, string, error) {
	idStr, rest, _ := strings.Cut(path[len(prefix):], "/")
	id, err := strconv.ParseInt(idStr, 10, 64)
	return id, rest, err
}

func queryInt(r *http.Request, key string) int {
	n, _ := strconv.Atoi(r.URL.Query().Get(key))
	return n
}

func statusForError(err error) int {
	var validation *store.ValidationError
	switch {
	case errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, store.ErrProductNotFound),
		errors.Is(err, store.ErrUserNotFound),
		errors.Is(err, store.ErrOrderNotFound):
		return http.StatusNotFound
	case errors.Is(err, store.ErrInsufficientStock),
		errors.Is(err, store.ErrDuplicateEmail):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Errorf("Error encoding JSON response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
