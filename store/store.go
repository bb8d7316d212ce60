package store

import (
	"database/sql"
	"time"

	_ "github.com/lib/pq"
)

// CustomerRow, ItemRow, OrderRow etc are simple structs representing DB rows
type CustomerRow struct {
	ID    int64
	Name  sql.NullString
	Phone sql.NullString
}

type ItemRow struct {
	ID    int64
	Name  sql.NullString
	Price sql.NullFloat64
}

type OrderRow struct {
	ID        int64
	CustID    int64
	Notes     sql.NullString
	CreatedAt time.Time
}

// OrderItemRow is the (name, price) projection of an item joined through
// the order's association rows.
type OrderItemRow struct {
	Name  sql.NullString
	Price sql.NullFloat64
}

// PostgresStore is a Store backed by Postgres
type PostgresStore struct {
	DB *sql.DB
}

func NewPostgresStore(dsn string) (*PostgresStore, error) {
	DB, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	if err := DB.Ping(); err != nil {
		return nil, err
	}
	return &PostgresStore{DB: DB}, nil
}

func (s *PostgresStore) Close() error { return s.DB.Close() }

// helpers: optional request fields map to nullable columns
func nullString(p *string) sql.NullString {
	if p == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *p, Valid: true}
}

func nullFloat(p *float64) sql.NullFloat64 {
	if p == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *p, Valid: true}
}

// CreateCustomer inserts a customer and returns its id
func (s *PostgresStore) CreateCustomer(name, phone *string) (int64, error) {
	var id int64
	err := s.DB.QueryRow(
		`INSERT INTO customers (name, phone) VALUES ($1, $2) RETURNING id`,
		nullString(name), nullString(phone),
	).Scan(&id)
	return id, err
}

func (s *PostgresStore) GetCustomer(id int64) (CustomerRow, error) {
	var c CustomerRow
	err := s.DB.QueryRow(`SELECT id, name, phone FROM customers WHERE id=$1`, id).
		Scan(&c.ID, &c.Name, &c.Phone)
	if err == sql.ErrNoRows {
		return CustomerRow{}, &NotFoundError{Entity: "customer", ID: id}
	}
	if err != nil {
		return CustomerRow{}, err
	}
	return c, nil
}

// UpdateCustomer overwrites only the fields that are present.
func (s *PostgresStore) UpdateCustomer(id int64, name, phone *string) error {
	var existing int64
	err := s.DB.QueryRow(`SELECT id FROM customers WHERE id=$1`, id).Scan(&existing)
	if err == sql.ErrNoRows {
		return &NotFoundError{Entity: "customer", ID: id}
	}
	if err != nil {
		return err
	}
	if name != nil {
		if _, err := s.DB.Exec(`UPDATE customers SET name=$1 WHERE id=$2`, *name, id); err != nil {
			return err
		}
	}
	if phone != nil {
		if _, err := s.DB.Exec(`UPDATE customers SET phone=$1 WHERE id=$2`, *phone, id); err != nil {
			return err
		}
	}
	return nil
}

func (s *PostgresStore) DeleteCustomer(id int64) error {
	res, err := s.DB.Exec(`DELETE FROM customers WHERE id=$1`, id)
	if err != nil {
		return err
	}
	ra, _ := res.RowsAffected()
	if ra == 0 {
		return &NotFoundError{Entity: "customer", ID: id}
	}
	return nil
}

// CreateItem inserts a catalog item and returns its id
func (s *PostgresStore) CreateItem(name *string, price *float64) (int64, error) {
	var id int64
	err := s.DB.QueryRow(
		`INSERT INTO items (name, price) VALUES ($1, $2) RETURNING id`,
		nullString(name), nullFloat(price),
	).Scan(&id)
	return id, err
}

func (s *PostgresStore) GetItem(id int64) (ItemRow, error) {
	var it ItemRow
	err := s.DB.QueryRow(`SELECT id, name, price FROM items WHERE id=$1`, id).
		Scan(&it.ID, &it.Name, &it.Price)
	if err == sql.ErrNoRows {
		return ItemRow{}, &NotFoundError{Entity: "item", ID: id}
	}
	if err != nil {
		return ItemRow{}, err
	}
	return it, nil
}

func (s *PostgresStore) UpdateItem(id int64, name *string, price *float64) error {
	var existing int64
	err := s.DB.QueryRow(`SELECT id FROM items WHERE id=$1`, id).Scan(&existing)
	if err == sql.ErrNoRows {
		return &NotFoundError{Entity: "item", ID: id}
	}
	if err != nil {
		return err
	}
	if name != nil {
		if _, err := s.DB.Exec(`UPDATE items SET name=$1 WHERE id=$2`, *name, id); err != nil {
			return err
		}
	}
	if price != nil {
		if _, err := s.DB.Exec(`UPDATE items SET price=$1 WHERE id=$2`, *price, id); err != nil {
			return err
		}
	}
	return nil
}

func (s *PostgresStore) DeleteItem(id int64) error {
	res, err := s.DB.Exec(`DELETE FROM items WHERE id=$1`, id)
	if err != nil {
		return err
	}
	ra, _ := res.RowsAffected()
	if ra == 0 {
		return &NotFoundError{Entity: "item", ID: id}
	}
	return nil
}
