package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"order-management/service"
	"order-management/store"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeService implements service.ServiceInterface with function fields.
type fakeService struct {
	CreateCustomerFn func(name, phone *string) (int64, error)
	GetCustomerFn    func(id int64) (service.CustomerDTO, error)
	UpdateCustomerFn func(id int64, name, phone *string) error
	DeleteCustomerFn func(id int64) error

	CreateItemFn func(name *string, price *float64) (int64, error)
	GetItemFn    func(id int64) (service.ItemDTO, error)
	UpdateItemFn func(id int64, name *string, price *float64) error
	DeleteItemFn func(id int64) error

	CreateOrderFn func(custID int64, itemIDs []int64, notes *string) (int64, error)
	GetOrderFn    func(id int64) (service.OrderViewDTO, error)
	UpdateOrderFn func(id int64, patch service.OrderPatchDTO) error
	DeleteOrderFn func(id int64) error
}

func (f *fakeService) CreateCustomer(name, phone *string) (int64, error) {
	return f.CreateCustomerFn(name, phone)
}
func (f *fakeService) GetCustomer(id int64) (service.CustomerDTO, error) {
	return f.GetCustomerFn(id)
}
func (f *fakeService) UpdateCustomer(id int64, name, phone *string) error {
	return f.UpdateCustomerFn(id, name, phone)
}
func (f *fakeService) DeleteCustomer(id int64) error { return f.DeleteCustomerFn(id) }
func (f *fakeService) CreateItem(name *string, price *float64) (int64, error) {
	return f.CreateItemFn(name, price)
}
func (f *fakeService) GetItem(id int64) (service.ItemDTO, error) { return f.GetItemFn(id) }
func (f *fakeService) UpdateItem(id int64, name *string, price *float64) error {
	return f.UpdateItemFn(id, name, price)
}
func (f *fakeService) DeleteItem(id int64) error { return f.DeleteItemFn(id) }
func (f *fakeService) CreateOrder(custID int64, itemIDs []int64, notes *string) (int64, error) {
	return f.CreateOrderFn(custID, itemIDs, notes)
}
func (f *fakeService) GetOrder(id int64) (service.OrderViewDTO, error) { return f.GetOrderFn(id) }
func (f *fakeService) UpdateOrder(id int64, patch service.OrderPatchDTO) error {
	return f.UpdateOrderFn(id, patch)
}
func (f *fakeService) DeleteOrder(id int64) error { return f.DeleteOrderFn(id) }

func newRouter(svc service.ServiceInterface) *mux.Router {
	r := mux.NewRouter()
	NewHandler(svc).RegisterRoutes(r)
	return r
}

func doRequest(t *testing.T, r *mux.Router, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func TestCreateOrder(t *testing.T) {
	var gotCust int64
	var gotItems []int64
	var gotNotes *string
	r := newRouter(&fakeService{
		CreateOrderFn: func(custID int64, itemIDs []int64, notes *string) (int64, error) {
			gotCust, gotItems, gotNotes = custID, itemIDs, notes
			return 7, nil
		},
	})

	rr := doRequest(t, r, "POST", "/orders", `{"cust_id":1,"items":[{"id":10},{"id":11}],"notes":"rush"}`)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "Order created successfully", resp["message"])

	assert.Equal(t, int64(1), gotCust)
	assert.Equal(t, []int64{10, 11}, gotItems)
	require.NotNil(t, gotNotes)
	assert.Equal(t, "rush", *gotNotes)
}

func TestCreateOrderMissingReference(t *testing.T) {
	r := newRouter(&fakeService{
		CreateOrderFn: func(custID int64, itemIDs []int64, notes *string) (int64, error) {
			return 0, &store.NotFoundError{Entity: "item", ID: 11}
		},
	})

	rr := doRequest(t, r, "POST", "/orders", `{"cust_id":1,"items":[{"id":11}]}`)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "item 11 not found")
}

func TestCreateOrderBadJSON(t *testing.T) {
	r := newRouter(&fakeService{})
	rr := doRequest(t, r, "POST", "/orders", `{not json`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestGetOrder(t *testing.T) {
	ts := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	r := newRouter(&fakeService{
		GetOrderFn: func(id int64) (service.OrderViewDTO, error) {
			return service.OrderViewDTO{
				ID:        id,
				CustID:    1,
				Timestamp: ts,
				Notes:     "rush",
				Customer:  service.CustomerInfoDTO{Name: "alice", Phone: "555-0101"},
				Items: []service.OrderItemDTO{
					{Name: "tea", Price: 5.0},
					{Name: "mug", Price: 7.5},
				},
			}, nil
		},
	})

	rr := doRequest(t, r, "GET", "/orders/3", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var view service.OrderViewDTO
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &view))
	assert.Equal(t, int64(3), view.ID)
	assert.Equal(t, "alice", view.Customer.Name)
	require.Len(t, view.Items, 2)
	assert.Equal(t, 5.0, view.Items[0].Price)
	assert.Equal(t, 7.5, view.Items[1].Price)
}

func TestGetOrderNotFound(t *testing.T) {
	r := newRouter(&fakeService{
		GetOrderFn: func(id int64) (service.OrderViewDTO, error) {
			return service.OrderViewDTO{}, &store.NotFoundError{Entity: "order", ID: id}
		},
	})
	rr := doRequest(t, r, "GET", "/orders/99", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestGetOrderBadID(t *testing.T) {
	r := newRouter(&fakeService{})
	rr := doRequest(t, r, "GET", "/orders/abc", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestUpdateOrderPatchPresence(t *testing.T) {
	var got service.OrderPatchDTO
	r := newRouter(&fakeService{
		UpdateOrderFn: func(id int64, patch service.OrderPatchDTO) error {
			got = patch
			return nil
		},
	})

	// notes only: cust_id and items must stay absent
	rr := doRequest(t, r, "PUT", "/orders/3", `{"notes":"later"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	require.NotNil(t, got.Notes)
	assert.Equal(t, "later", *got.Notes)
	assert.Nil(t, got.CustID)
	assert.Nil(t, got.ItemIDs)

	// empty items list is a present, empty replacement
	rr = doRequest(t, r, "PUT", "/orders/3", `{"items":[]}`)
	require.Equal(t, http.StatusOK, rr.Code)
	require.NotNil(t, got.ItemIDs)
	assert.Empty(t, *got.ItemIDs)

	// full patch
	rr = doRequest(t, r, "PUT", "/orders/3", `{"cust_id":2,"items":[{"id":20}],"notes":"x"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	require.NotNil(t, got.CustID)
	assert.Equal(t, int64(2), *got.CustID)
	require.NotNil(t, got.ItemIDs)
	assert.Equal(t, []int64{20}, *got.ItemIDs)
}

func TestUpdateOrderNotFound(t *testing.T) {
	r := newRouter(&fakeService{
		UpdateOrderFn: func(id int64, patch service.OrderPatchDTO) error {
			return &store.NotFoundError{Entity: "order", ID: id}
		},
	})
	rr := doRequest(t, r, "PUT", "/orders/99", `{"notes":"x"}`)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestDeleteOrder(t *testing.T) {
	deleted := int64(0)
	r := newRouter(&fakeService{
		DeleteOrderFn: func(id int64) error {
			deleted = id
			return nil
		},
	})
	rr := doRequest(t, r, "DELETE", "/orders/3", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, int64(3), deleted)

	r2 := newRouter(&fakeService{
		DeleteOrderFn: func(id int64) error {
			return &store.NotFoundError{Entity: "order", ID: id}
		},
	})
	rr2 := doRequest(t, r2, "DELETE", "/orders/99", "")
	assert.Equal(t, http.StatusNotFound, rr2.Code)
}

func TestCustomerEndpoints(t *testing.T) {
	var createdName, createdPhone *string
	r := newRouter(&fakeService{
		CreateCustomerFn: func(name, phone *string) (int64, error) {
			createdName, createdPhone = name, phone
			return 1, nil
		},
		GetCustomerFn: func(id int64) (service.CustomerDTO, error) {
			return service.CustomerDTO{ID: id, Name: "alice", Phone: "555-0101"}, nil
		},
		UpdateCustomerFn: func(id int64, name, phone *string) error { return nil },
		DeleteCustomerFn: func(id int64) error { return nil },
	})

	rr := doRequest(t, r, "POST", "/customers", `{"name":"alice"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	require.NotNil(t, createdName)
	assert.Equal(t, "alice", *createdName)
	assert.Nil(t, createdPhone)

	rr = doRequest(t, r, "GET", "/customers/1", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var c service.CustomerDTO
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &c))
	assert.Equal(t, "alice", c.Name)

	rr = doRequest(t, r, "PUT", "/customers/1", `{"phone":"555-0102"}`)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = doRequest(t, r, "DELETE", "/customers/1", "")
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestItemEndpoints(t *testing.T) {
	r := newRouter(&fakeService{
		CreateItemFn: func(name *string, price *float64) (int64, error) { return 10, nil },
		GetItemFn: func(id int64) (service.ItemDTO, error) {
			return service.ItemDTO{ID: id, Name: "tea", Price: 5.0}, nil
		},
		UpdateItemFn: func(id int64, name *string, price *float64) error { return nil },
		DeleteItemFn: func(id int64) error {
			return &store.NotFoundError{Entity: "item", ID: id}
		},
	})

	rr := doRequest(t, r, "POST", "/items", `{"name":"tea","price":5.0}`)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = doRequest(t, r, "GET", "/items/10", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var it service.ItemDTO
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &it))
	assert.Equal(t, 5.0, it.Price)

	rr = doRequest(t, r, "PUT", "/items/10", `{"price":6.0}`)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = doRequest(t, r, "DELETE", "/items/99", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
