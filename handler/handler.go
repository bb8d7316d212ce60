package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"order-management/service"
	"order-management/store"
	"strconv"

	"github.com/gorilla/mux"
)

// Handler is the HTTP layer that talks to service.Service
type Handler struct {
	svc service.ServiceInterface
}

// NewHandler returns a Handler instance
func NewHandler(s service.ServiceInterface) *Handler {
	return &Handler{svc: s}
}

// RegisterRoutes registers all routes on the provided router
func (h *Handler) RegisterRoutes(r *mux.Router) {
	// Customers
	r.HandleFunc("/customers", h.CreateCustomer).Methods("POST")
	r.HandleFunc("/customers/{id}", h.GetCustomer).Methods("GET")
	r.HandleFunc("/customers/{id}", h.UpdateCustomer).Methods("PUT")
	r.HandleFunc("/customers/{id}", h.DeleteCustomer).Methods("DELETE")

	// Items
	r.HandleFunc("/items", h.CreateItem).Methods("POST")
	r.HandleFunc("/items/{id}", h.GetItem).Methods("GET")
	r.HandleFunc("/items/{id}", h.UpdateItem).Methods("PUT")
	r.HandleFunc("/items/{id}", h.DeleteItem).Methods("DELETE")

	// Orders
	r.HandleFunc("/orders", h.CreateOrder).Methods("POST")
	r.HandleFunc("/orders/{id}", h.GetOrder).Methods("GET")
	r.HandleFunc("/orders/{id}", h.UpdateOrder).Methods("PUT")
	r.HandleFunc("/orders/{id}", h.DeleteOrder).Methods("DELETE")
}

// --- request / response shapes ---
type customerReq struct {
	Name  *string `json:"name"`
	Phone *string `json:"phone"`
}

type itemReq struct {
	Name  *string  `json:"name"`
	Price *float64 `json:"price"`
}

// itemRef is an item reference by id, as opposed to a catalog record.
type itemRef struct {
	ID int64 `json:"id"`
}

type createOrderReq struct {
	CustID int64     `json:"cust_id"`
	Items  []itemRef `json:"items"`
	Notes  *string   `json:"notes"`
}

type updateOrderReq struct {
	CustID *int64     `json:"cust_id"`
	Items  *[]itemRef `json:"items"`
	Notes  *string    `json:"notes"`
}

// --- helpers ---
func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

func writeMessage(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusOK, map[string]string{"message": msg})
}

// writeServiceErr maps missing references to 404; everything else is a
// storage failure.
func writeServiceErr(w http.ResponseWriter, err error) {
	if store.IsNotFound(err) {
		writeErr(w, http.StatusNotFound, err.Error())
		return
	}
	writeErr(w, http.StatusInternalServerError, err.Error())
}

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
}

func refIDs(refs []itemRef) []int64 {
	ids := make([]int64, 0, len(refs))
	for _, ref := range refs {
		ids = append(ids, ref.ID)
	}
	return ids
}

// --- Customers ---

// CreateCustomer handles POST /customers
func (h *Handler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var req customerReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	if _, err := h.svc.CreateCustomer(req.Name, req.Phone); err != nil {
		writeServiceErr(w, err)
		return
	}
	writeMessage(w, "Customer created successfully")
}

// GetCustomer handles GET /customers/{id}
func (h *Handler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeErr(w, http.StatusBadRequest, "invalid id")
		return
	}
	c, err := h.svc.GetCustomer(id)
	if err != nil {
		writeServiceErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// UpdateCustomer handles PUT /customers/{id}
// body: { "name": "...", "phone": "..." } — both optional
func (h *Handler) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeErr(w, http.StatusBadRequest, "invalid id")
		return
	}
	var req customerReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	if err := h.svc.UpdateCustomer(id, req.Name, req.Phone); err != nil {
		writeServiceErr(w, err)
		return
	}
	writeMessage(w, fmt.Sprintf("Customer with ID %d updated successfully", id))
}

// DeleteCustomer handles DELETE /customers/{id}
func (h *Handler) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeErr(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := h.svc.DeleteCustomer(id); err != nil {
		writeServiceErr(w, err)
		return
	}
	writeMessage(w, "Customer deleted successfully")
}

// --- Items ---

// CreateItem handles POST /items
func (h *Handler) CreateItem(w http.ResponseWriter, r *http.Request) {
	var req itemReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	if _, err := h.svc.CreateItem(req.Name, req.Price); err != nil {
		writeServiceErr(w, err)
		return
	}
	writeMessage(w, "Item created successfully")
}

// GetItem handles GET /items/{id}
func (h *Handler) GetItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeErr(w, http.StatusBadRequest, "invalid id")
		return
	}
	it, err := h.svc.GetItem(id)
	if err != nil {
		writeServiceErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, it)
}

// UpdateItem handles PUT /items/{id}
func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeErr(w, http.StatusBadRequest, "invalid id")
		return
	}
	var req itemReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	if err := h.svc.UpdateItem(id, req.Name, req.Price); err != nil {
		writeServiceErr(w, err)
		return
	}
	writeMessage(w, fmt.Sprintf("Item with ID %d updated successfully", id))
}

// DeleteItem handles DELETE /items/{id}
func (h *Handler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeErr(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := h.svc.DeleteItem(id); err != nil {
		writeServiceErr(w, err)
		return
	}
	writeMessage(w, "Item deleted successfully")
}

// --- Orders ---

// CreateOrder handles POST /orders
// body: { "cust_id": 1, "items": [{"id": 10}], "notes": "..." }
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	if _, err := h.svc.CreateOrder(req.CustID, refIDs(req.Items), req.Notes); err != nil {
		writeServiceErr(w, err)
		return
	}
	writeMessage(w, "Order created successfully")
}

// GetOrder handles GET /orders/{id}
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeErr(w, http.StatusBadRequest, "invalid id")
		return
	}
	view, err := h.svc.GetOrder(id)
	if err != nil {
		writeServiceErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// UpdateOrder handles PUT /orders/{id}
// body: { "cust_id": 2, "items": [{"id": 10}], "notes": "..." } — all optional;
// a present items list replaces the order's associations wholesale
func (h *Handler) UpdateOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeErr(w, http.StatusBadRequest, "invalid id")
		return
	}
	var req updateOrderReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	patch := service.OrderPatchDTO{
		CustID: req.CustID,
		Notes:  req.Notes,
	}
	if req.Items != nil {
		ids := refIDs(*req.Items)
		patch.ItemIDs = &ids
	}
	if err := h.svc.UpdateOrder(id, patch); err != nil {
		writeServiceErr(w, err)
		return
	}
	writeMessage(w, fmt.Sprintf("Order with ID %d updated successfully", id))
}

// DeleteOrder handles DELETE /orders/{id}
func (h *Handler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeErr(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := h.svc.DeleteOrder(id); err != nil {
		writeServiceErr(w, err)
		return
	}
	writeMessage(w, "Order deleted successfully")
}
