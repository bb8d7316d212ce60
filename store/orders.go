package store

import "database/sql"

// OrderPatch carries the optional fields of an order update. A nil field
// is left untouched; a non-nil ItemIDs replaces the association rows
// wholesale, even when the new list is empty.
type OrderPatch struct {
	CustID  *int64
	Notes   *string
	ItemIDs *[]int64
}

// CreateOrder inserts the order row and one association row per item id,
// in the given sequence, as a single transaction. Referential validation
// happens in the service layer before this is called.
func (s *PostgresStore) CreateOrder(custID int64, notes *string, itemIDs []int64) (int64, error) {
	tx, err := s.DB.Begin()
	if err != nil {
		return 0, err
	}
	rolledBack := false
	defer func() {
		if !rolledBack {
			_ = tx.Rollback()
		}
	}()

	var orderID int64
	if err := tx.QueryRow(
		`INSERT INTO orders (cust_id, notes) VALUES ($1, $2) RETURNING id`,
		custID, nullString(notes),
	).Scan(&orderID); err != nil {
		_ = tx.Rollback()
		rolledBack = true
		return 0, err
	}

	stmt, err := tx.Prepare(`INSERT INTO item_list (order_id, item_id) VALUES ($1, $2)`)
	if err != nil {
		_ = tx.Rollback()
		rolledBack = true
		return 0, err
	}
	defer stmt.Close()

	for _, itemID := range itemIDs {
		if _, err := stmt.Exec(orderID, itemID); err != nil {
			_ = tx.Rollback()
			rolledBack = true
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		_ = tx.Rollback()
		rolledBack = true
		return 0, err
	}
	rolledBack = true
	return orderID, nil
}

func (s *PostgresStore) GetOrder(id int64) (OrderRow, error) {
	var o OrderRow
	err := s.DB.QueryRow(`SELECT id, cust_id, notes, created_at FROM orders WHERE id=$1`, id).
		Scan(&o.ID, &o.CustID, &o.Notes, &o.CreatedAt)
	if err == sql.ErrNoRows {
		return OrderRow{}, &NotFoundError{Entity: "order", ID: id}
	}
	if err != nil {
		return OrderRow{}, err
	}
	return o, nil
}

// GetOrderItems returns the (name, price) projection of every item the
// order's association rows point at, one row per association.
func (s *PostgresStore) GetOrderItems(id int64) ([]OrderItemRow, error) {
	rows, err := s.DB.Query(`
		SELECT i.name, i.price
		FROM item_list il
		JOIN items i ON i.id = il.item_id
		WHERE il.order_id = $1
		ORDER BY il.item_id
	`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []OrderItemRow{}
	for rows.Next() {
		var it OrderItemRow
		if err := rows.Scan(&it.Name, &it.Price); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// UpdateOrder applies the present patch fields as one transaction. Item
// replacement deletes every existing association row before inserting the
// new list, so a failed insert leaves the old associations intact.
func (s *PostgresStore) UpdateOrder(id int64, patch OrderPatch) error {
	tx, err := s.DB.Begin()
	if err != nil {
		return err
	}
	rolledBack := false
	defer func() {
		if !rolledBack {
			_ = tx.Rollback()
		}
	}()

	if patch.Notes != nil {
		if _, err := tx.Exec(`UPDATE orders SET notes=$1 WHERE id=$2`, *patch.Notes, id); err != nil {
			_ = tx.Rollback()
			rolledBack = true
			return err
		}
	}
	if patch.CustID != nil {
		if _, err := tx.Exec(`UPDATE orders SET cust_id=$1 WHERE id=$2`, *patch.CustID, id); err != nil {
			_ = tx.Rollback()
			rolledBack = true
			return err
		}
	}
	if patch.ItemIDs != nil {
		if _, err := tx.Exec(`DELETE FROM item_list WHERE order_id=$1`, id); err != nil {
			_ = tx.Rollback()
			rolledBack = true
			return err
		}
		stmt, err := tx.Prepare(`INSERT INTO item_list (order_id, item_id) VALUES ($1, $2)`)
		if err != nil {
			_ = tx.Rollback()
			rolledBack = true
			return err
		}
		defer stmt.Close()
		for _, itemID := range *patch.ItemIDs {
			if _, err := stmt.Exec(id, itemID); err != nil {
				_ = tx.Rollback()
				rolledBack = true
				return err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		_ = tx.Rollback()
		rolledBack = true
		return err
	}
	rolledBack = true
	return nil
}

// DeleteOrder removes the order row and all of its association rows in
// one transaction, so no orphaned join rows survive.
func (s *PostgresStore) DeleteOrder(id int64) error {
	tx, err := s.DB.Begin()
	if err != nil {
		return err
	}
	rolledBack := false
	defer func() {
		if !rolledBack {
			_ = tx.Rollback()
		}
	}()

	if _, err := tx.Exec(`DELETE FROM item_list WHERE order_id=$1`, id); err != nil {
		_ = tx.Rollback()
		rolledBack = true
		return err
	}

	res, err := tx.Exec(`DELETE FROM orders WHERE id=$1`, id)
	if err != nil {
		_ = tx.Rollback()
		rolledBack = true
		return err
	}
	ra, _ := res.RowsAffected()
	if ra == 0 {
		_ = tx.Rollback()
		rolledBack = true
		return &NotFoundError{Entity: "order", ID: id}
	}

	if err := tx.Commit(); err != nil {
		_ = tx.Rollback()
		rolledBack = true
		return err
	}
	rolledBack = true
	return nil
}
