package storage

import (
	"database/sql"
	"fmt"
)

// LeaderStatistics aggregates lifetime dashboard figures across every camp
// the leader has led that is underway or finished as of today.
func (s *Store) LeaderStatistics(leaderID int64, today string) (*LeaderStats, error) {
	stats := &LeaderStats{}

	var money sql.NullFloat64
	err := s.db.QueryRow(
		`SELECT COUNT(c.id),
			SUM((julianday(c.end_date) - julianday(c.start_date) + 1) * c.leader_daily_payment_rate)
		FROM camps c
		WHERE c.leader_id = ? AND c.start_date <= ?`,
		leaderID, today,
	).Scan(&stats.TotalCamps, &money)
	if err != nil {
		return nil, fmt.Errorf("leader camp totals for %d: %w", leaderID, err)
	}
	if money.Valid {
		stats.TotalMoneyEarned = money.Float64
	}

	err = s.db.QueryRow(
		`SELECT COUNT(cr.id)
		FROM campers cr
		INNER JOIN camps c ON cr.camp_id = c.id
		WHERE c.leader_id = ? AND c.start_date <= ?`,
		leaderID, today,
	).Scan(&stats.TotalCampersLed)
	if err != nil {
		return nil, fmt.Errorf("leader camper totals for %d: %w", leaderID, err)
	}

	var incidents sql.NullInt64
	err = s.db.QueryRow(
		`SELECT SUM(a.incident_count)
		FROM activities a
		INNER JOIN camps c ON a.camp_id = c.id
		WHERE c.leader_id = ? AND c.start_date <= ?`,
		leaderID, today,
	).Scan(&incidents)
	if err != nil {
		return nil, fmt.Errorf("leader incident totals for %d: %w", leaderID, err)
	}
	if incidents.Valid {
		stats.TotalIncidents = int(incidents.Int64)
	}

	var foodUsed sql.NullInt64
	err = s.db.QueryRow(
		`SELECT SUM(-f.change_amount)
		FROM food_stock_history f
		INNER JOIN camps c ON f.camp_id = c.id
		WHERE c.leader_id = ? AND f.change_amount < 0`,
		leaderID,
	).Scan(&foodUsed)
	if err != nil {
		return nil, fmt.Errorf("leader food totals for %d: %w", leaderID, err)
	}
	if foodUsed.Valid {
		stats.TotalFoodUsed = int(foodUsed.Int64)
	}

	var participation sql.NullFloat64
	err = s.db.QueryRow(
		`SELECT AVG(per_activity.rate)
		FROM (
			SELECT CAST(COUNT(ac.camper_id) AS REAL) /
				(SELECT COUNT(*) FROM campers WHERE camp_id = a.camp_id) AS rate
			FROM activities a
			INNER JOIN camps c ON a.camp_id = c.id
			LEFT JOIN activity_campers ac ON ac.activity_id = a.id
			WHERE c.leader_id = ?
				AND (SELECT COUNT(*) FROM campers WHERE camp_id = a.camp_id) > 0
			GROUP BY a.id
		) per_activity`,
		leaderID,
	).Scan(&participation)
	if err != nil {
		return nil, fmt.Errorf("leader participation rate for %d: %w", leaderID, err)
	}
	if participation.Valid {
		stats.AvgParticipationRate = participation.Float64
	}

	return stats, nil
}

// LeaderTrends returns per-camp dashboard rows for every camp the leader has
// led that is underway or finished, ordered by start date.
func (s *Store) LeaderTrends(leaderID int64, today string) ([]CampTrend, error) {
	rows, err := s.db.Query(
		`SELECT c.id, c.name, c.start_date,
			(julianday(c.end_date) - julianday(c.start_date) + 1) * c.leader_daily_payment_rate,
			(SELECT COUNT(*) FROM campers WHERE camp_id = c.id),
			COALESCE((SELECT SUM(incident_count) FROM activities WHERE camp_id = c.id), 0),
			COALESCE((SELECT SUM(-change_amount) FROM food_stock_history
				WHERE camp_id = c.id AND change_amount < 0), 0)
		FROM camps c
		WHERE c.leader_id = ? AND c.start_date <= ?
		ORDER BY c.start_date, c.id`,
		leaderID, today,
	)
	if err != nil {
		return nil, fmt.Errorf("leader trends for %d: %w", leaderID, err)
	}
	defer rows.Close()

	trends := make([]CampTrend, 0)
	for rows.Next() {
		var trend CampTrend
		if err := rows.Scan(
			&trend.CampID,
			&trend.CampName,
			&trend.StartDate,
			&trend.MoneyEarned,
			&trend.TotalCampers,
			&trend.IncidentCount,
			&trend.FoodUsed,
		); err != nil {
			return nil, fmt.Errorf("scan trend row: %w", err)
		}
		trends = append(trends, trend)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate trend rows: %w", err)
	}

	for i := range trends {
		rate, err := s.campParticipationRate(trends[i].CampID)
		if err != nil {
			return nil, err
		}
		trends[i].ParticipationRate = rate
	}

	return trends, nil
}

func (s *Store) campParticipationRate(campID int64) (float64, error) {
	var rate sql.NullFloat64
	err := s.db.QueryRow(
		`SELECT AVG(per_activity.rate)
		FROM (
			SELECT CAST(COUNT(ac.camper_id) AS REAL) /
				(SELECT COUNT(*) FROM campers WHERE camp_id = a.camp_id) AS rate
			FROM activities a
			LEFT JOIN activity_campers ac ON ac.activity_id = a.id
			WHERE a.camp_id = ?
				AND (SELECT COUNT(*) FROM campers WHERE camp_id = a.camp_id) > 0
			GROUP BY a.id
		) per_activity`,
		campID,
	).Scan(&rate)
	if err != nil {
		return 0, fmt.Errorf("participation rate for camp %d: %w", campID, err)
	}
	if !rate.Valid {
		return 0, nil
	}
	return rate.Float64, nil
}
