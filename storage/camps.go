package storage

import (
	"database/sql"
	"errors"
	"fmt"
)

// CreateCamp inserts a new camp and returns it with its assigned id.
func (s *Store) CreateCamp(camp Camp) (*Camp, error) {
	if camp.Name == "" {
		return nil, errors.New("camp name is required")
	}
	if camp.CoordinatorID == 0 {
		return nil, errors.New("coordinator_id is required")
	}
	if camp.StartDate == "" || camp.EndDate == "" {
		return nil, errors.New("start and end dates are required")
	}
	if err := validateCampType(camp.Type); err != nil {
		return nil, err
	}

	res, err := s.db.Exec(
		`INSERT INTO camps (
			coordinator_id, leader_id, name, location, latitude, longitude,
			start_date, end_date, type, approved_daily_food_stock,
			leader_daily_payment_rate, capacity, daily_food_per_camper
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		camp.CoordinatorID,
		nullInt64(camp.LeaderID),
		camp.Name,
		camp.Location,
		nullFloat64(camp.Latitude),
		nullFloat64(camp.Longitude),
		camp.StartDate,
		camp.EndDate,
		camp.Type,
		camp.ApprovedDailyFoodStock,
		camp.LeaderDailyPaymentRate,
		camp.Capacity,
		camp.DailyFoodPerCamper,
	)
	if err != nil {
		return nil, fmt.Errorf("insert camp %q: %w", camp.Name, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("read new camp id for %q: %w", camp.Name, err)
	}

	return s.GetCampByID(id)
}

// GetCampByID fetches one camp by id.
func (s *Store) GetCampByID(id int64) (*Camp, error) {
	row := s.db.QueryRow(campSelect+` WHERE id = ?`, id)

	camp, err := scanCamp(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get camp %d: %w", id, err)
	}
	return camp, nil
}

// CampExists reports whether a camp with the given name already exists.
func (s *Store) CampExists(name string) (bool, error) {
	var one int
	err := s.db.QueryRow(`SELECT 1 FROM camps WHERE name = ? LIMIT 1`, name).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check camp name %q: %w", name, err)
	}
	return true, nil
}

// ListCamps returns all camps ordered by start date.
func (s *Store) ListCamps() ([]Camp, error) {
	rows, err := s.db.Query(campSelect + ` ORDER BY start_date, id`)
	if err != nil {
		return nil, fmt.Errorf("list camps: %w", err)
	}
	defer rows.Close()

	return collectCamps(rows)
}

// UnassignedCamps returns future camps that have no leader yet.
func (s *Store) UnassignedCamps(today string) ([]Camp, error) {
	rows, err := s.db.Query(
		campSelect+` WHERE leader_id IS NULL AND start_date >= ? ORDER BY start_date, id`,
		today,
	)
	if err != nil {
		return nil, fmt.Errorf("list unassigned camps: %w", err)
	}
	defer rows.Close()

	return collectCamps(rows)
}

// CampsForLeader returns every camp assigned to the given leader.
func (s *Store) CampsForLeader(leaderID int64) ([]Camp, error) {
	rows, err := s.db.Query(
		campSelect+` WHERE leader_id = ? ORDER BY start_date, id`,
		leaderID,
	)
	if err != nil {
		return nil, fmt.Errorf("list camps for leader %d: %w", leaderID, err)
	}
	defer rows.Close()

	return collectCamps(rows)
}

// StartedCampsForLeader returns the leader's camps whose start date is on or
// before today. These are the camps daily logs may be recorded for.
func (s *Store) StartedCampsForLeader(leaderID int64, today string) ([]Camp, error) {
	rows, err := s.db.Query(
		campSelect+` WHERE leader_id = ? AND start_date <= ? ORDER BY start_date, id`,
		leaderID, today,
	)
	if err != nil {
		return nil, fmt.Errorf("list started camps for leader %d: %w", leaderID, err)
	}
	defer rows.Close()

	return collectCamps(rows)
}

// AssignLeader sets the leader for a camp.
func (s *Store) AssignLeader(campID, leaderID int64) error {
	res, err := s.db.Exec(
		`UPDATE camps SET leader_id = ? WHERE id = ?`,
		leaderID, campID,
	)
	if err != nil {
		return fmt.Errorf("assign leader %d to camp %d: %w", leaderID, campID, err)
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("read rows affected for assign leader: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// CampOccupancy returns how many campers are registered to a camp.
func (s *Store) CampOccupancy(campID int64) (int, error) {
	var count int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM campers WHERE camp_id = ?`,
		campID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count campers for camp %d: %w", campID, err)
	}
	return count, nil
}

// SetDailyFoodPerCamper updates the per-camper daily food requirement.
func (s *Store) SetDailyFoodPerCamper(campID int64, units int) error {
	if units < 0 {
		return errors.New("daily food units must be >= 0")
	}

	res, err := s.db.Exec(
		`UPDATE camps SET daily_food_per_camper = ? WHERE id = ?`,
		units, campID,
	)
	if err != nil {
		return fmt.Errorf("set daily food for camp %d: %w", campID, err)
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("read rows affected for set daily food: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// SetPaymentRate updates the leader daily payment rate for a camp.
func (s *Store) SetPaymentRate(campID int64, rate float64) error {
	if rate < 0 {
		return errors.New("payment rate must be >= 0")
	}

	res, err := s.db.Exec(
		`UPDATE camps SET leader_daily_payment_rate = ? WHERE id = ?`,
		rate, campID,
	)
	if err != nil {
		return fmt.Errorf("set payment rate for camp %d: %w", campID, err)
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("read rows affected for set payment rate: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// AddApprovedFoodStock raises the approved daily food stock for a camp by
// the given number of units.
func (s *Store) AddApprovedFoodStock(campID int64, units int) error {
	if units <= 0 {
		return errors.New("top-up units must be > 0")
	}

	res, err := s.db.Exec(
		`UPDATE camps
		SET approved_daily_food_stock = approved_daily_food_stock + ?
		WHERE id = ?`,
		units, campID,
	)
	if err != nil {
		return fmt.Errorf("top up food stock for camp %d: %w", campID, err)
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("read rows affected for food top-up: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

const campSelect = `SELECT id, coordinator_id, leader_id, name, location,
	latitude, longitude, start_date, end_date, type,
	approved_daily_food_stock, leader_daily_payment_rate, capacity,
	daily_food_per_camper, created_at
FROM camps`

func scanCamp(row scanner) (*Camp, error) {
	var (
		camp      Camp
		leaderID  sql.NullInt64
		latitude  sql.NullFloat64
		longitude sql.NullFloat64
	)

	if err := row.Scan(
		&camp.ID,
		&camp.CoordinatorID,
		&leaderID,
		&camp.Name,
		&camp.Location,
		&latitude,
		&longitude,
		&camp.StartDate,
		&camp.EndDate,
		&camp.Type,
		&camp.ApprovedDailyFoodStock,
		&camp.LeaderDailyPaymentRate,
		&camp.Capacity,
		&camp.DailyFoodPerCamper,
		&camp.CreatedAt,
	); err != nil {
		return nil, err
	}

	camp.LeaderID = int64Ptr(leaderID)
	camp.Latitude = float64Ptr(latitude)
	camp.Longitude = float64Ptr(longitude)

	return &camp, nil
}

func collectCamps(rows *sql.Rows) ([]Camp, error) {
	camps := make([]Camp, 0)
	for rows.Next() {
		camp, err := scanCamp(rows)
		if err != nil {
			return nil, fmt.Errorf("scan camp row: %w", err)
		}
		camps = append(camps, *camp)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate camp rows: %w", err)
	}

	return camps, nil
}
