package storage

import (
	"database/sql"
	"fmt"
)

// AttendanceByDay returns one camp's roll call counts per day, oldest day
// first. Days without records do not appear.
func (s *Store) AttendanceByDay(campID int64) ([]AttendanceDay, error) {
	rows, err := s.db.Query(
		`SELECT date,
			SUM(CASE WHEN status = 'present' THEN 1 ELSE 0 END),
			SUM(CASE WHEN status = 'absent' THEN 1 ELSE 0 END)
		FROM attendance_records
		WHERE camp_id = ?
		GROUP BY date
		ORDER BY date`,
		campID,
	)
	if err != nil {
		return nil, fmt.Errorf("attendance by day for camp %d: %w", campID, err)
	}
	defer rows.Close()

	days := make([]AttendanceDay, 0)
	for rows.Next() {
		var day AttendanceDay
		if err := rows.Scan(&day.Date, &day.Present, &day.Absent); err != nil {
			return nil, fmt.Errorf("scan attendance day: %w", err)
		}
		days = append(days, day)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate attendance days: %w", err)
	}

	return days, nil
}

// AttendanceTodayByCamp returns today's roll call for every camp that has
// not yet ended. Camps with no records today appear with zero counts.
func (s *Store) AttendanceTodayByCamp(today string) ([]CampAttendanceToday, error) {
	rows, err := s.db.Query(
		`SELECT c.id, c.name,
			SUM(CASE WHEN a.status = 'present' THEN 1 ELSE 0 END),
			SUM(CASE WHEN a.status = 'absent' THEN 1 ELSE 0 END)
		FROM camps c
		LEFT JOIN attendance_records a ON a.camp_id = c.id AND a.date = ?
		WHERE c.end_date >= ?
		GROUP BY c.id, c.name
		ORDER BY c.id`,
		today, today,
	)
	if err != nil {
		return nil, fmt.Errorf("attendance summary for %s: %w", today, err)
	}
	defer rows.Close()

	camps := make([]CampAttendanceToday, 0)
	for rows.Next() {
		var camp CampAttendanceToday
		if err := rows.Scan(&camp.CampID, &camp.CampName, &camp.Present, &camp.Absent); err != nil {
			return nil, fmt.Errorf("scan attendance summary row: %w", err)
		}
		camps = append(camps, camp)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate attendance summary rows: %w", err)
	}

	return camps, nil
}

// LatestStockLevels returns the most recent ledger reading for every camp
// that has not yet ended. Camps with an empty ledger do not appear.
func (s *Store) LatestStockLevels(today string) ([]CampStockLevel, error) {
	rows, err := s.db.Query(
		`SELECT f.camp_id, c.name, f.stock_available
		FROM food_stock_history f
		INNER JOIN camps c ON f.camp_id = c.id
		WHERE f.id = (
			SELECT f2.id
			FROM food_stock_history f2
			WHERE f2.camp_id = f.camp_id AND f2.date <= ?
			ORDER BY f2.date DESC, f2.id DESC
			LIMIT 1
		)
		AND c.end_date >= ?
		ORDER BY f.camp_id`,
		today, today,
	)
	if err != nil {
		return nil, fmt.Errorf("latest stock levels for %s: %w", today, err)
	}
	defer rows.Close()

	levels := make([]CampStockLevel, 0)
	for rows.Next() {
		var level CampStockLevel
		if err := rows.Scan(&level.CampID, &level.CampName, &level.StockAvailable); err != nil {
			return nil, fmt.Errorf("scan stock level row: %w", err)
		}
		levels = append(levels, level)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate stock level rows: %w", err)
	}

	return levels, nil
}

// ActivityEngagementByCamp returns participants per activity for one camp,
// in the order the activities ran. Activities nobody joined count zero.
func (s *Store) ActivityEngagementByCamp(campID int64) ([]ActivityEngagement, error) {
	rows, err := s.db.Query(
		`SELECT a.activity_name, COUNT(ac.camper_id)
		FROM activities a
		LEFT JOIN activity_campers ac ON a.id = ac.activity_id
		WHERE a.camp_id = ?
		GROUP BY a.id, a.activity_name
		ORDER BY a.activity_date, a.id`,
		campID,
	)
	if err != nil {
		return nil, fmt.Errorf("activity engagement for camp %d: %w", campID, err)
	}
	defer rows.Close()

	return scanEngagement(rows)
}

// ActivityEngagementAllCamps returns total participants per activity name
// across every camp, alphabetically.
func (s *Store) ActivityEngagementAllCamps() ([]ActivityEngagement, error) {
	rows, err := s.db.Query(
		`SELECT a.activity_name, COUNT(ac.camper_id)
		FROM activities a
		LEFT JOIN activity_campers ac ON a.id = ac.activity_id
		GROUP BY a.activity_name
		ORDER BY a.activity_name`,
	)
	if err != nil {
		return nil, fmt.Errorf("activity engagement across camps: %w", err)
	}
	defer rows.Close()

	return scanEngagement(rows)
}

func scanEngagement(rows *sql.Rows) ([]ActivityEngagement, error) {
	engagement := make([]ActivityEngagement, 0)
	for rows.Next() {
		var entry ActivityEngagement
		if err := rows.Scan(&entry.Activity, &entry.Participants); err != nil {
			return nil, fmt.Errorf("scan engagement row: %w", err)
		}
		engagement = append(engagement, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate engagement rows: %w", err)
	}

	return engagement, nil
}

// PresentCamperCount counts distinct campers ever marked present. A campID
// of zero counts across every camp.
func (s *Store) PresentCamperCount(campID int64) (int, error) {
	query := `SELECT COUNT(DISTINCT camper_id)
		FROM attendance_records
		WHERE status = 'present'`
	args := []any{}
	if campID != 0 {
		query += " AND camp_id = ?"
		args = append(args, campID)
	}

	var count int
	if err := s.db.QueryRow(query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("present camper count for camp %d: %w", campID, err)
	}
	return count, nil
}
