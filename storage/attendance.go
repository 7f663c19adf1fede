package storage

import (
	"errors"
	"fmt"
)

// RecordAttendance marks one camper present or absent on one camp day.
func (s *Store) RecordAttendance(campID, camperID int64, date, status string) error {
	if campID == 0 || camperID == 0 {
		return errors.New("camp_id and camper_id are required")
	}
	if date == "" {
		return errors.New("date is required")
	}
	if err := validateAttendanceStatus(status); err != nil {
		return err
	}

	_, err := s.db.Exec(
		`INSERT INTO attendance_records (camp_id, camper_id, date, status)
		VALUES (?, ?, ?, ?)`,
		campID, camperID, date, status,
	)
	if err != nil {
		return fmt.Errorf("record attendance for camper %d on %s: %w", camperID, date, err)
	}
	return nil
}

// AttendanceRate returns the share of 'present' records for a camp, or zero
// when no attendance has been recorded.
func (s *Store) AttendanceRate(campID int64) (float64, error) {
	var total, present int
	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(SUM(CASE WHEN status = 'present' THEN 1 ELSE 0 END), 0)
		FROM attendance_records
		WHERE camp_id = ?`,
		campID,
	).Scan(&total, &present)
	if err != nil {
		return 0, fmt.Errorf("attendance rate for camp %d: %w", campID, err)
	}

	if total == 0 {
		return 0, nil
	}
	return float64(present) / float64(total), nil
}
