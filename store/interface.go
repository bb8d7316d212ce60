package store

// Store exposes persistence primitives per entity plus the transactional
// order operations. Each call is atomic on its own; multi-row order
// mutations run inside a single transaction.
type Store interface {
	CreateCustomer(name, phone *string) (int64, error)
	GetCustomer(id int64) (CustomerRow, error)
	UpdateCustomer(id int64, name, phone *string) error
	DeleteCustomer(id int64) error

	CreateItem(name *string, price *float64) (int64, error)
	GetItem(id int64) (ItemRow, error)
	UpdateItem(id int64, name *string, price *float64) error
	DeleteItem(id int64) error

	CreateOrder(custID int64, notes *string, itemIDs []int64) (int64, error)
	GetOrder(id int64) (OrderRow, error)
	GetOrderItems(id int64) ([]OrderItemRow, error)
	UpdateOrder(id int64, patch OrderPatch) error
	DeleteOrder(id int64) error

	Close() error
}
