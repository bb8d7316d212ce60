package service

import (
	"order-management/store"
	"time"
)

type Service struct {
	store store.Store
}

func NewService(s store.Store) *Service {
	return &Service{store: s}
}

func (s *Service) CreateCustomer(name, phone *string) (int64, error) {
	return s.store.CreateCustomer(name, phone)
}

func (s *Service) GetCustomer(id int64) (CustomerDTO, error) {
	row, err := s.store.GetCustomer(id)
	if err != nil {
		return CustomerDTO{}, err
	}
	return CustomerDTO{
		ID:    row.ID,
		Name:  row.Name.String,
		Phone: row.Phone.String,
	}, nil
}

func (s *Service) UpdateCustomer(id int64, name, phone *string) error {
	return s.store.UpdateCustomer(id, name, phone)
}

func (s *Service) DeleteCustomer(id int64) error {
	return s.store.DeleteCustomer(id)
}

func (s *Service) CreateItem(name *string, price *float64) (int64, error) {
	return s.store.CreateItem(name, price)
}

func (s *Service) GetItem(id int64) (ItemDTO, error) {
	row, err := s.store.GetItem(id)
	if err != nil {
		return ItemDTO{}, err
	}
	return ItemDTO{
		ID:    row.ID,
		Name:  row.Name.String,
		Price: row.Price.Float64,
	}, nil
}

func (s *Service) UpdateItem(id int64, name *string, price *float64) error {
	return s.store.UpdateItem(id, name, price)
}

func (s *Service) DeleteItem(id int64) error {
	return s.store.DeleteItem(id)
}

// CreateOrder validates the customer, then every item id, before any row
// is written; the store then inserts the order and its association rows
// in one transaction. A missing reference aborts the whole operation.
func (s *Service) CreateOrder(custID int64, itemIDs []int64, notes *string) (int64, error) {
	if _, err := s.store.GetCustomer(custID); err != nil {
		return 0, err
	}
	for _, itemID := range itemIDs {
		if _, err := s.store.GetItem(itemID); err != nil {
			return 0, err
		}
	}
	return s.store.CreateOrder(custID, notes, itemIDs)
}

// GetOrder joins the order with its customer and item projections. A
// customer deleted after the order was placed degrades to an empty
// projection rather than failing the read.
func (s *Service) GetOrder(id int64) (OrderViewDTO, error) {
	row, err := s.store.GetOrder(id)
	if err != nil {
		return OrderViewDTO{}, err
	}

	view := OrderViewDTO{
		ID:        row.ID,
		CustID:    row.CustID,
		Timestamp: row.CreatedAt,
		Notes:     row.Notes.String,
	}

	cust, err := s.store.GetCustomer(row.CustID)
	if err != nil && !store.IsNotFound(err) {
		return OrderViewDTO{}, err
	}
	view.Customer = CustomerInfoDTO{Name: cust.Name.String, Phone: cust.Phone.String}

	items, err := s.store.GetOrderItems(id)
	if err != nil {
		return OrderViewDTO{}, err
	}
	view.Items = make([]OrderItemDTO, 0, len(items))
	for _, it := range items {
		view.Items = append(view.Items, OrderItemDTO{Name: it.Name.String, Price: it.Price.Float64})
	}
	return view, nil
}

// UpdateOrder applies the present patch fields to an existing order. A
// present item list fully replaces the prior associations. The new
// customer reference is validated like on create; see DESIGN.md.
func (s *Service) UpdateOrder(id int64, patch OrderPatchDTO) error {
	if _, err := s.store.GetOrder(id); err != nil {
		return err
	}
	if patch.CustID != nil {
		if _, err := s.store.GetCustomer(*patch.CustID); err != nil {
			return err
		}
	}
	if patch.ItemIDs != nil {
		for _, itemID := range *patch.ItemIDs {
			if _, err := s.store.GetItem(itemID); err != nil {
				return err
			}
		}
	}
	return s.store.UpdateOrder(id, store.OrderPatch{
		CustID:  patch.CustID,
		Notes:   patch.Notes,
		ItemIDs: patch.ItemIDs,
	})
}

func (s *Service) DeleteOrder(id int64) error {
	return s.store.DeleteOrder(id)
}

// DTOs
type CustomerDTO struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

type ItemDTO struct {
	ID    int64   `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// CustomerInfoDTO is the customer projection embedded in an order view.
type CustomerInfoDTO struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

type OrderItemDTO struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

type OrderViewDTO struct {
	ID        int64           `json:"id"`
	CustID    int64           `json:"cust_id"`
	Timestamp time.Time       `json:"timestamp"`
	Notes     string          `json:"notes"`
	Customer  CustomerInfoDTO `json:"customer"`
	Items     []OrderItemDTO  `json:"items"`
}

// OrderPatchDTO mirrors the optional fields of an order update request.
type OrderPatchDTO struct {
	CustID  *int64
	Notes   *string
	ItemIDs *[]int64
}
