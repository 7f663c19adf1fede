package storage

import (
	"database/sql"
	"errors"
	"fmt"
)

// CamperImport is one name/date-of-birth pair for bulk registration.
type CamperImport struct {
	Name        string
	DateOfBirth string
}

// ImportCampers bulk-registers campers to a camp, skipping any camper whose
// name and date of birth already exist anywhere in the system. Returns the
// number of rows actually inserted.
func (s *Store) ImportCampers(campID int64, campers []CamperImport) (int, error) {
	if campID == 0 {
		return 0, errors.New("camp_id is required")
	}

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin camper import: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	inserted := 0
	for _, camper := range campers {
		if camper.Name == "" || camper.DateOfBirth == "" {
			return 0, fmt.Errorf("camper entry %q/%q is incomplete", camper.Name, camper.DateOfBirth)
		}

		res, err := tx.Exec(
			`INSERT OR IGNORE INTO campers (camp_id, name, date_of_birth)
			VALUES (?, ?, ?)`,
			campID, camper.Name, camper.DateOfBirth,
		)
		if err != nil {
			return 0, fmt.Errorf("insert camper %q: %w", camper.Name, err)
		}

		rowsAffected, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("read rows affected for camper %q: %w", camper.Name, err)
		}
		inserted += int(rowsAffected)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit camper import: %w", err)
	}

	return inserted, nil
}

// CamperExists reports whether a camper with the same name and date of
// birth is already registered to any camp.
func (s *Store) CamperExists(name, dateOfBirth string) (bool, error) {
	var one int
	err := s.db.QueryRow(
		`SELECT 1 FROM campers WHERE name = ? AND date_of_birth = ? LIMIT 1`,
		name, dateOfBirth,
	).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check camper %q: %w", name, err)
	}
	return true, nil
}

// CampersForCamp returns every camper registered to a camp.
func (s *Store) CampersForCamp(campID int64) ([]Camper, error) {
	rows, err := s.db.Query(
		`SELECT id, camp_id, name, date_of_birth, created_at
		FROM campers
		WHERE camp_id = ?
		ORDER BY name`,
		campID,
	)
	if err != nil {
		return nil, fmt.Errorf("list campers for camp %d: %w", campID, err)
	}
	defer rows.Close()

	campers := make([]Camper, 0)
	for rows.Next() {
		var camper Camper
		if err := rows.Scan(
			&camper.ID,
			&camper.CampID,
			&camper.Name,
			&camper.DateOfBirth,
			&camper.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan camper row: %w", err)
		}
		campers = append(campers, camper)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate camper rows: %w", err)
	}

	return campers, nil
}
