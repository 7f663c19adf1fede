package storage

import (
	"database/sql"
	"errors"
	"fmt"
)

// AppendFoodStock writes one row to a camp's food stock ledger.
func (s *Store) AppendFoodStock(entry FoodStockEntry) error {
	if entry.CampID == 0 {
		return errors.New("camp_id is required")
	}
	if entry.Date == "" {
		return errors.New("date is required")
	}
	if entry.ChangeReason == "" {
		return errors.New("change_reason is required")
	}

	_, err := s.db.Exec(
		`INSERT INTO food_stock_history (
			camp_id, date, stock_available, change_reason, change_amount
		) VALUES (?, ?, ?, ?, ?)`,
		entry.CampID,
		entry.Date,
		entry.StockAvailable,
		entry.ChangeReason,
		entry.ChangeAmount,
	)
	if err != nil {
		return fmt.Errorf("append food stock for camp %d: %w", entry.CampID, err)
	}
	return nil
}

// LatestFoodStock returns the most recent ledger entry for a camp, or
// ErrNotFound when the ledger is empty.
func (s *Store) LatestFoodStock(campID int64) (*FoodStockEntry, error) {
	row := s.db.QueryRow(
		`SELECT id, camp_id, date, stock_available, change_reason, change_amount
		FROM food_stock_history
		WHERE camp_id = ?
		ORDER BY date DESC, id DESC
		LIMIT 1`,
		campID,
	)

	var entry FoodStockEntry
	err := row.Scan(
		&entry.ID,
		&entry.CampID,
		&entry.Date,
		&entry.StockAvailable,
		&entry.ChangeReason,
		&entry.ChangeAmount,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("latest food stock for camp %d: %w", campID, err)
	}

	return &entry, nil
}

// FoodStockHistory returns a camp's full food ledger, oldest first.
func (s *Store) FoodStockHistory(campID int64) ([]FoodStockEntry, error) {
	rows, err := s.db.Query(
		`SELECT id, camp_id, date, stock_available, change_reason, change_amount
		FROM food_stock_history
		WHERE camp_id = ?
		ORDER BY date, id`,
		campID,
	)
	if err != nil {
		return nil, fmt.Errorf("food stock history for camp %d: %w", campID, err)
	}
	defer rows.Close()

	entries := make([]FoodStockEntry, 0)
	for rows.Next() {
		var entry FoodStockEntry
		if err := rows.Scan(
			&entry.ID,
			&entry.CampID,
			&entry.Date,
			&entry.StockAvailable,
			&entry.ChangeReason,
			&entry.ChangeAmount,
		); err != nil {
			return nil, fmt.Errorf("scan food stock row: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate food stock rows: %w", err)
	}

	return entries, nil
}
