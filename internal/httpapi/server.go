// Package httpapi exposes the inventory tracker over HTTP. Every mutating
// route resolves the caller's session and checks the required capability
// before the operation runs; handlers then pass the actor explicitly.
package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"invtrack/internal/audit"
	"invtrack/internal/auth"
	"invtrack/internal/catalog"
	"invtrack/internal/domain"
	"invtrack/internal/engine"
	"invtrack/internal/report"
	"invtrack/internal/store"
	"invtrack/internal/supplier"
)

// Server serves the inventory HTTP API.
type Server struct {
	auth      *auth.Manager
	catalog   *catalog.Catalog
	suppliers *supplier.Directory
	engine    *engine.Engine
	reports   *report.Reporter
	audit     *audit.Recorder
	log       *slog.Logger
}

// NewServer creates a Server over the assembled services.
func NewServer(
	am *auth.Manager,
	cat *catalog.Catalog,
	dir *supplier.Directory,
	eng *engine.Engine,
	rep *report.Reporter,
	rec *audit.Recorder,
	log *slog.Logger,
) *Server {
	return &Server{
		auth:      am,
		catalog:   cat,
		suppliers: dir,
		engine:    eng,
		reports:   rep,
		audit:     rec,
		log:       log,
	}
}

// RegisterRoutes registers all API routes on the given mux.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/login", s.handleLogin)
	mux.HandleFunc("POST /api/logout", s.withAuth(auth.CapViewReports, s.handleLogout))

	mux.HandleFunc("POST /api/users", s.withAuth(auth.CapManageUsers, s.handleRegisterUser))

	mux.HandleFunc("GET /api/products", s.withAuth(auth.CapViewReports, s.handleListProducts))
	mux.HandleFunc("POST /api/products", s.withAuth(auth.CapManageCatalog, s.handleAddProduct))
	mux.HandleFunc("GET /api/products/low-stock", s.withAuth(auth.CapViewReports, s.handleLowStock))
	mux.HandleFunc("GET /api/products/{id}", s.withAuth(auth.CapViewReports, s.handleGetProduct))
	mux.HandleFunc("PATCH /api/products/{id}", s.withAuth(auth.CapManageCatalog, s.handleUpdateProduct))
	mux.HandleFunc("DELETE /api/products/{id}", s.withAuth(auth.CapDeleteProduct, s.handleDeleteProduct))

	mux.HandleFunc("GET /api/suppliers", s.withAuth(auth.CapViewReports, s.handleListSuppliers))
	mux.HandleFunc("POST /api/suppliers", s.withAuth(auth.CapManageSuppliers, s.handleAddSupplier))
	mux.HandleFunc("GET /api/suppliers/{id}", s.withAuth(auth.CapViewReports, s.handleGetSupplier))
	mux.HandleFunc("PATCH /api/suppliers/{id}", s.withAuth(auth.CapManageSuppliers, s.handleUpdateSupplier))

	mux.HandleFunc("POST /api/orders/sales", s.withAuth(auth.CapCreateOrder, s.handleCreateSalesOrder))
	mux.HandleFunc("GET /api/orders/sales", s.withAuth(auth.CapViewReports, s.handleListSalesOrders))
	mux.HandleFunc("POST /api/orders/purchases", s.withAuth(auth.CapCreateOrder, s.handleCreatePurchaseOrder))
	mux.HandleFunc("GET /api/orders/purchases", s.withAuth(auth.CapViewReports, s.handleListPurchaseOrders))

	mux.HandleFunc("GET /api/reports/inventory", s.withAuth(auth.CapViewReports, s.handleInventoryReport))
	mux.HandleFunc("GET /api/reports/sales", s.withAuth(auth.CapViewReports, s.handleSalesReport))
	mux.HandleFunc("GET /api/reports/purchases", s.withAuth(auth.CapViewReports, s.handlePurchaseReport))

	mux.HandleFunc("GET /api/audit", s.withAuth(auth.CapViewAudit, s.handleAudit))
}

// Handler returns the complete http.Handler for the API.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.RegisterRoutes(mux)
	return mux
}

// withAuth resolves the bearer token to a session, checks the capability, and
// passes the session on to the handler.
func (s *Server) withAuth(c auth.Capability, h func(http.ResponseWriter, *http.Request, *domain.Session)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		sess, err := s.auth.Session(token)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "session not found or expired")
			return
		}
		if err := s.auth.Require(sess, c); err != nil {
			writeError(w, http.StatusForbidden, "permission denied")
			return
		}
		h(w, r, sess)
	}
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if after, ok := strings.CutPrefix(h, "Bearer "); ok {
		return strings.TrimSpace(after)
	}
	return ""
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encoding JSON response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// errorStatus maps service errors to HTTP status codes: validation failures
// are 400, unknown references 404, stock and uniqueness conflicts 409, and
// commit failures 503.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, store.ErrProductNotFound),
		errors.Is(err, store.ErrSupplierNotFound),
		errors.Is(err, store.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, store.ErrInsufficientStock),
		errors.Is(err, store.ErrSKUExists),
		errors.Is(err, store.ErrUsernameExists),
		errors.Is(err, store.ErrProductReferenced):
		return http.StatusConflict
	case errors.Is(err, engine.ErrInvalidQuantity),
		errors.Is(err, engine.ErrInvalidUnitPrice),
		errors.Is(err, catalog.ErrMissingSKU),
		errors.Is(err, catalog.ErrMissingName),
		errors.Is(err, catalog.ErrInvalidPrice),
		errors.Is(err, catalog.ErrInvalidStock),
		errors.Is(err, supplier.ErrMissingName):
		return http.StatusBadRequest
	case errors.Is(err, auth.ErrPermissionDenied):
		return http.StatusForbidden
	case engine.IsRetryable(err):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeServiceError(w http.ResponseWriter, err error) {
	status := errorStatus(err)
	if status >= 500 {
		s.log.Error("request failed", "error", err)
	}
	writeError(w, status, err.Error())
}

func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}

// parseDateRange reads optional from/to query params. Values may be RFC 3339
// timestamps or plain dates; a plain "to" date extends to the end of that day
// so the range stays inclusive.
func parseDateRange(r *http.Request) (*domain.DateRange, error) {
	fromStr := r.URL.Query().Get("from")
	toStr := r.URL.Query().Get("to")
	if fromStr == "" && toStr == "" {
		return nil, nil
	}

	rng := &domain.DateRange{
		From: time.Time{},
		To:   time.Date(9999, 12, 31, 23, 59, 59, 0, time.UTC),
	}
	if fromStr != "" {
		t, _, err := parseDateParam(fromStr)
		if err != nil {
			return nil, fmt.Errorf("invalid from date %q", fromStr)
		}
		rng.From = t
	}
	if toStr != "" {
		t, dateOnly, err := parseDateParam(toStr)
		if err != nil {
			return nil, fmt.Errorf("invalid to date %q", toStr)
		}
		if dateOnly {
			t = t.Add(24*time.Hour - time.Millisecond)
		}
		rng.To = t
	}
	return rng, nil
}

func parseDateParam(s string) (t time.Time, dateOnly bool, err error) {
	if t, err = time.Parse(time.RFC3339, s); err == nil {
		return t, false, nil
	}
	t, err = time.Parse("2006-01-02", s)
	return t, true, err
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sess, err := s.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "invalid username or password")
			return
		}
		s.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, LoginResponse{
		Token:     sess.Token,
		Username:  sess.Username,
		Role:      sess.Role,
		ExpiresAt: sess.ExpiresAt.UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request, sess *domain.Session) {
	s.auth.Logout(sess.Token)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRegisterUser(w http.ResponseWriter, r *http.Request, sess *domain.Session) {
	var req RegisterUserRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	u, err := s.auth.Register(r.Context(), sess, req.Username, req.Password, req.Role)
	if err != nil {
		if errors.Is(err, store.ErrUsernameExists) || errors.Is(err, auth.ErrPermissionDenied) {
			s.writeServiceError(w, err)
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.audit.Record(r.Context(), sess.Username, domain.ActionRegisterUser,
		fmt.Sprintf("Registered user %s with role %s", u.Username, u.Role))
	writeJSON(w, http.StatusCreated, u)
}

func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request, _ *domain.Session) {
	var (
		products []domain.Product
		err      error
	)
	if term := r.URL.Query().Get("q"); term != "" {
		products, err = s.catalog.Search(r.Context(), term)
	} else {
		products, err = s.catalog.List(r.Context())
	}
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	if products == nil {
		products = []domain.Product{}
	}
	writeJSON(w, http.StatusOK, ProductsResponse{Products: products})
}

func (s *Server) handleAddProduct(w http.ResponseWriter, r *http.Request, sess *domain.Session) {
	var p domain.Product
	if err := decodeBody(r, &p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.catalog.Add(r.Context(), sess.Username, &p); err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) handleGetProduct(w http.ResponseWriter, r *http.Request, _ *domain.Session) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	p, err := s.catalog.Get(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleUpdateProduct(w http.ResponseWriter, r *http.Request, sess *domain.Session) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	var upd domain.ProductUpdate
	if err := decodeBody(r, &upd); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p, err := s.catalog.Update(r.Context(), sess.Username, id, upd)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleDeleteProduct(w http.ResponseWriter, r *http.Request, sess *domain.Session) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	if err := s.catalog.Delete(r.Context(), sess.Username, id); err != nil {
		s.writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleLowStock(w http.ResponseWriter, r *http.Request, _ *domain.Session) {
	var threshold int64
	if v := r.URL.Query().Get("threshold"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid threshold")
			return
		}
		threshold = n
	}

	products, err := s.catalog.LowStock(r.Context(), threshold)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	if products == nil {
		products = []domain.Product{}
	}
	writeJSON(w, http.StatusOK, ProductsResponse{Products: products})
}

func (s *Server) handleListSuppliers(w http.ResponseWriter, r *http.Request, _ *domain.Session) {
	suppliers, err := s.suppliers.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	if suppliers == nil {
		suppliers = []domain.Supplier{}
	}
	writeJSON(w, http.StatusOK, SuppliersResponse{Suppliers: suppliers})
}

func (s *Server) handleAddSupplier(w http.ResponseWriter, r *http.Request, sess *domain.Session) {
	var sup domain.Supplier
	if err := decodeBody(r, &sup); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.suppliers.Add(r.Context(), sess.Username, &sup); err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sup)
}

func (s *Server) handleGetSupplier(w http.ResponseWriter, r *http.Request, _ *domain.Session) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid supplier id")
		return
	}

	sup, err := s.suppliers.Get(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sup)
}

func (s *Server) handleUpdateSupplier(w http.ResponseWriter, r *http.Request, sess *domain.Session) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid supplier id")
		return
	}

	var upd domain.SupplierUpdate
	if err := decodeBody(r, &upd); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sup, err := s.suppliers.Update(r.Context(), sess.Username, id, upd)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sup)
}

func (s *Server) handleCreateSalesOrder(w http.ResponseWriter, r *http.Request, sess *domain.Session) {
	var req CreateSalesOrderRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	order, err := s.engine.CreateSalesOrder(r.Context(), sess.Username, req.ProductID, req.Quantity)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, order)
}

func (s *Server) handleCreatePurchaseOrder(w http.ResponseWriter, r *http.Request, sess *domain.Session) {
	var req CreatePurchaseOrderRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	order, err := s.engine.CreatePurchaseOrder(r.Context(), sess.Username,
		req.ProductID, req.SupplierID, req.Quantity, req.UnitPrice)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, order)
}

func (s *Server) handleListSalesOrders(w http.ResponseWriter, r *http.Request, _ *domain.Session) {
	rng, err := parseDateRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	orders, err := s.reports.SalesOrders(r.Context(), rng)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	if orders == nil {
		orders = []domain.SalesOrder{}
	}
	writeJSON(w, http.StatusOK, SalesOrdersResponse{Orders: orders})
}

func (s *Server) handleListPurchaseOrders(w http.ResponseWriter, r *http.Request, _ *domain.Session) {
	rng, err := parseDateRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	orders, err := s.reports.PurchaseOrders(r.Context(), rng)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	if orders == nil {
		orders = []domain.PurchaseOrder{}
	}
	writeJSON(w, http.StatusOK, PurchaseOrdersResponse{Orders: orders})
}

func (s *Server) handleInventoryReport(w http.ResponseWriter, r *http.Request, _ *domain.Session) {
	sum, err := s.reports.InventorySummary(r.Context())
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

func (s *Server) handleSalesReport(w http.ResponseWriter, r *http.Request, _ *domain.Session) {
	rng, err := parseDateRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	rep, err := s.reports.SalesReport(r.Context(), rng)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

func (s *Server) handlePurchaseReport(w http.ResponseWriter, r *http.Request, _ *domain.Session) {
	rng, err := parseDateRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	rep, err := s.reports.PurchaseReport(r.Context(), rng)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

func (s *Server) handleAudit(w http.ResponseWriter, r *http.Request, _ *domain.Session) {
	limit := 100
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	entries, err := s.audit.Recent(r.Context(), limit)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	if entries == nil {
		entries = []domain.AuditEntry{}
	}
	writeJSON(w, http.StatusOK, AuditResponse{Entries: entries})
}
