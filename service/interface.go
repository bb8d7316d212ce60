package service

type ServiceInterface interface {
	CreateCustomer(name, phone *string) (int64, error)
	GetCustomer(id int64) (CustomerDTO, error)
	UpdateCustomer(id int64, name, phone *string) error
	DeleteCustomer(id int64) error

	CreateItem(name *string, price *float64) (int64, error)
	GetItem(id int64) (ItemDTO, error)
	UpdateItem(id int64, name *string, price *float64) error
	DeleteItem(id int64) error

	CreateOrder(custID int64, itemIDs []int64, notes *string) (int64, error)
	GetOrder(id int64) (OrderViewDTO, error)
	UpdateOrder(id int64, patch OrderPatchDTO) error
	DeleteOrder(id int64) error
}
