package storage

import (
	"errors"
	"fmt"
)

// CreateActivity records one camp activity (a daily log entry) and returns
// its assigned id.
func (s *Store) CreateActivity(activity Activity) (int64, error) {
	if activity.CampID == 0 {
		return 0, errors.New("camp_id is required")
	}
	if activity.ActivityDate == "" {
		return 0, errors.New("activity_date is required")
	}
	if activity.ActivityName == "" {
		return 0, errors.New("activity_name is required")
	}
	if activity.IncidentCount < 0 {
		return 0, errors.New("incident_count must be >= 0")
	}

	res, err := s.db.Exec(
		`INSERT INTO activities (
			camp_id, activity_date, activity_name, incident_count, notes
		) VALUES (?, ?, ?, ?, ?)`,
		activity.CampID,
		activity.ActivityDate,
		activity.ActivityName,
		activity.IncidentCount,
		activity.Notes,
	)
	if err != nil {
		return 0, fmt.Errorf("insert activity %q: %w", activity.ActivityName, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("read new activity id for %q: %w", activity.ActivityName, err)
	}

	return id, nil
}

// ActivitiesForLeader returns every activity logged in camps the leader is
// assigned to, most recent first.
func (s *Store) ActivitiesForLeader(leaderID int64) ([]Activity, error) {
	rows, err := s.db.Query(
		`SELECT a.id, a.camp_id, a.activity_date, a.activity_name,
			a.incident_count, a.notes
		FROM activities a
		INNER JOIN camps c ON a.camp_id = c.id
		WHERE c.leader_id = ?
		ORDER BY a.activity_date DESC, a.id DESC`,
		leaderID,
	)
	if err != nil {
		return nil, fmt.Errorf("list activities for leader %d: %w", leaderID, err)
	}
	defer rows.Close()

	activities := make([]Activity, 0)
	for rows.Next() {
		var activity Activity
		if err := rows.Scan(
			&activity.ID,
			&activity.CampID,
			&activity.ActivityDate,
			&activity.ActivityName,
			&activity.IncidentCount,
			&activity.Notes,
		); err != nil {
			return nil, fmt.Errorf("scan activity row: %w", err)
		}
		activities = append(activities, activity)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate activity rows: %w", err)
	}

	return activities, nil
}

// AddActivityParticipant links a camper to an activity. Re-adding an
// existing participant is a no-op.
func (s *Store) AddActivityParticipant(activityID, camperID int64) error {
	if activityID == 0 || camperID == 0 {
		return errors.New("activity_id and camper_id are required")
	}

	_, err := s.db.Exec(
		`INSERT OR IGNORE INTO activity_campers (activity_id, camper_id)
		VALUES (?, ?)`,
		activityID, camperID,
	)
	if err != nil {
		return fmt.Errorf("add participant %d to activity %d: %w", camperID, activityID, err)
	}
	return nil
}

// ActivityParticipants returns the campers linked to an activity.
func (s *Store) ActivityParticipants(activityID int64) ([]Camper, error) {
	rows, err := s.db.Query(
		`SELECT cr.id, cr.camp_id, cr.name, cr.date_of_birth, cr.created_at
		FROM campers cr
		INNER JOIN activity_campers ac ON cr.id = ac.camper_id
		WHERE ac.activity_id = ?
		ORDER BY cr.name`,
		activityID,
	)
	if err != nil {
		return nil, fmt.Errorf("list participants for activity %d: %w", activityID, err)
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
			return nil, fmt.Errorf("scan participant row: %w", err)
		}
		campers = append(campers, camper)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate participant rows: %w", err)
	}

	return campers, nil
}
