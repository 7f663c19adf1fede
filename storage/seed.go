package storage

import (
	"fmt"
	"math/rand"
	"time"
)

// SeedDemoData populates the database with sample camps, campers, leader
// assignments, food stock history, attendance, activities, and
// notifications. Existing seeded tables are cleared first; user accounts are
// left untouched. Deterministic: the random choices use a fixed seed.
func (s *Store) SeedDemoData(coordinatorID int64, today time.Time) error {
	rng := rand.New(rand.NewSource(42))

	if err := s.resetSeededTables(); err != nil {
		return err
	}
	campIDs, err := s.seedCamps(coordinatorID, today)
	if err != nil {
		return err
	}
	if err := s.seedCampers(campIDs); err != nil {
		return err
	}
	if err := s.seedLeaderAssignments(campIDs); err != nil {
		return err
	}
	if err := s.seedFoodStockHistory(today); err != nil {
		return err
	}
	if err := s.seedAttendance(rng, today); err != nil {
		return err
	}
	if err := s.seedActivities(rng, today); err != nil {
		return err
	}
	if err := s.seedNotifications(coordinatorID, campIDs); err != nil {
		return err
	}

	return nil
}

func (s *Store) resetSeededTables() error {
	tables := []string{
		"attendance_records",
		"activity_campers",
		"activities",
		"food_stock_history",
		"campers",
		"notifications",
		"camps",
	}
	for _, table := range tables {
		if _, err := s.db.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("clear seeded table %s: %w", table, err)
		}
	}
	return nil
}

func (s *Store) seedCamps(coordinatorID int64, today time.Time) ([]int64, error) {
	day := func(offset int) string {
		return today.AddDate(0, 0, offset).Format(campDateFormat)
	}

	camps := []Camp{
		{
			Name: "Riverbend Expedition Camp", Location: "Riverbend",
			StartDate: day(-2), EndDate: day(1), Type: CampTypeOvernight,
			ApprovedDailyFoodStock: 15, LeaderDailyPaymentRate: 100,
			Capacity: 20, DailyFoodPerCamper: 5,
		},
		{
			Name: "Sunset Valley Camp", Location: "Sunset Valley",
			StartDate: day(-5), EndDate: day(2), Type: CampTypeOvernight,
			ApprovedDailyFoodStock: 30, LeaderDailyPaymentRate: 80,
			Capacity: 15, DailyFoodPerCamper: 3,
		},
		{
			Name: "Mountain Expedition", Location: "The Alps",
			StartDate: day(40), EndDate: day(42), Type: CampTypeOvernight,
			ApprovedDailyFoodStock: 25, LeaderDailyPaymentRate: 100,
			Capacity: 12, DailyFoodPerCamper: 5,
		},
		{
			Name: "Desert Trek", Location: "The Dunes",
			StartDate: day(60), EndDate: day(64), Type: CampTypeExpedition,
			ApprovedDailyFoodStock: 25, LeaderDailyPaymentRate: 150,
			Capacity: 10, DailyFoodPerCamper: 5,
		},
		{
			Name: "Summer Adventure", Location: "Mountain Base",
			StartDate: day(-60), EndDate: day(-54), Type: CampTypeExpedition,
			ApprovedDailyFoodStock: 20, LeaderDailyPaymentRate: 200,
			Capacity: 10, DailyFoodPerCamper: 2,
		},
		{
			Name: "Forest Exploration", Location: "Greenwood Park",
			StartDate: day(90), EndDate: day(95), Type: CampTypeDayCamp,
			ApprovedDailyFoodStock: 10, LeaderDailyPaymentRate: 40,
			Capacity: 8, DailyFoodPerCamper: 2,
		},
	}

	ids := make([]int64, 0, len(camps))
	for _, camp := range camps {
		camp.CoordinatorID = coordinatorID
		created, err := s.CreateCamp(camp)
		if err != nil {
			return nil, fmt.Errorf("seed camp %q: %w", camp.Name, err)
		}
		ids = append(ids, created.ID)
	}

	return ids, nil
}

func (s *Store) seedCampers(campIDs []int64) error {
	names := []CamperImport{
		{"Alice Pickles", "2012-04-12"},
		{"Ben Turner", "2013-01-23"},
		{"Chloe Adams", "2012-11-02"},
		{"Daniel Bright", "2014-03-15"},
		{"Ella Winters", "2013-07-08"},
		{"Finn Cooper", "2012-09-30"},
		{"Grace Holloway", "2013-12-19"},
		{"Harry Kingston", "2014-02-27"},
		{"Isla Matthews", "2012-05-21"},
		{"Jack Rivers", "2013-08-14"},
		{"Katie Daniels", "2012-05-22"},
		{"Leo Martinez", "2013-11-11"},
		{"Mia Carter", "2012-07-01"},
		{"Noah Adams", "2011-04-04"},
		{"Olivia Brooks", "2013-09-15"},
	}

	for i, camper := range names {
		campID := campIDs[i%len(campIDs)]
		if _, err := s.ImportCampers(campID, []CamperImport{camper}); err != nil {
			return fmt.Errorf("seed camper %q: %w", camper.Name, err)
		}
	}

	return nil
}

func (s *Store) seedLeaderAssignments(campIDs []int64) error {
	leaders, err := s.listActiveLeaders()
	if err != nil {
		return err
	}
	if len(leaders) == 0 {
		return nil
	}

	for i, campID := range campIDs {
		if err := s.AssignLeader(campID, leaders[i%len(leaders)]); err != nil {
			return fmt.Errorf("seed leader for camp %d: %w", campID, err)
		}
	}

	return nil
}

func (s *Store) listActiveLeaders() ([]int64, error) {
	rows, err := s.db.Query(
		`SELECT id FROM users WHERE role = ? AND is_disabled = 0 ORDER BY id`,
		RoleLeader,
	)
	if err != nil {
		return nil, fmt.Errorf("list active leaders: %w", err)
	}
	defer rows.Close()

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan leader id: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate leader ids: %w", err)
	}

	return ids, nil
}

func (s *Store) seedFoodStockHistory(today time.Time) error {
	camps, err := s.ListCamps()
	if err != nil {
		return err
	}

	for _, camp := range camps {
		start, err := time.Parse(campDateFormat, camp.StartDate)
		if err != nil {
			return fmt.Errorf("parse seed start date for camp %d: %w", camp.ID, err)
		}
		end, err := time.Parse(campDateFormat, camp.EndDate)
		if err != nil {
			return fmt.Errorf("parse seed end date for camp %d: %w", camp.ID, err)
		}
		if start.After(today) {
			continue
		}

		fullDays := int(end.Sub(start).Hours()/24) + 1
		initialStock := camp.ApprovedDailyFoodStock * fullDays
		running := initialStock

		if err := s.AppendFoodStock(FoodStockEntry{
			CampID:         camp.ID,
			Date:           camp.StartDate,
			StockAvailable: initialStock,
			ChangeReason:   "initial allocation",
			ChangeAmount:   initialStock,
		}); err != nil {
			return err
		}

		lastDay := end
		if today.Before(end) {
			lastDay = today
		}
		daysToSeed := int(lastDay.Sub(start).Hours()/24) + 1

		for i := 0; i < daysToSeed; i++ {
			running -= camp.ApprovedDailyFoodStock
			if err := s.AppendFoodStock(FoodStockEntry{
				CampID:         camp.ID,
				Date:           start.AddDate(0, 0, i).Format(campDateFormat),
				StockAvailable: running,
				ChangeReason:   "daily usage",
				ChangeAmount:   -camp.ApprovedDailyFoodStock,
			}); err != nil {
				return err
			}
		}
	}

	return nil
}

func (s *Store) seedAttendance(rng *rand.Rand, today time.Time) error {
	camps, err := s.ListCamps()
	if err != nil {
		return err
	}

	for _, camp := range camps {
		start, err := time.Parse(campDateFormat, camp.StartDate)
		if err != nil {
			return fmt.Errorf("parse seed start date for camp %d: %w", camp.ID, err)
		}
		end, err := time.Parse(campDateFormat, camp.EndDate)
		if err != nil {
			return fmt.Errorf("parse seed end date for camp %d: %w", camp.ID, err)
		}
		if start.After(today) {
			continue
		}
		if today.Before(end) {
			end = today
		}

		campers, err := s.CampersForCamp(camp.ID)
		if err != nil {
			return err
		}

		totalDays := int(end.Sub(start).Hours()/24) + 1
		for offset := 0; offset < totalDays; offset++ {
			day := start.AddDate(0, 0, offset).Format(campDateFormat)
			for _, camper := range campers {
				status := attendancePresent
				if rng.Float64() < 0.25 {
					status = attendanceAbsent
				}
				if err := s.RecordAttendance(camp.ID, camper.ID, day, status); err != nil {
					return err
				}
			}
		}
	}

	return nil
}

func (s *Store) seedActivities(rng *rand.Rand, today time.Time) error {
	exampleActivities := []string{"Archery", "Canoeing", "Hiking", "Campfire", "Swimming"}

	camps, err := s.ListCamps()
	if err != nil {
		return err
	}

	for _, camp := range camps {
		start, err := time.Parse(campDateFormat, camp.StartDate)
		if err != nil {
			return fmt.Errorf("parse seed start date for camp %d: %w", camp.ID, err)
		}

		campers, err := s.CampersForCamp(camp.ID)
		if err != nil {
			return err
		}
		if len(campers) == 0 {
			continue
		}

		for offset, name := range exampleActivities {
			activityDate := start.AddDate(0, 0, offset)
			if activityDate.After(today) {
				break
			}

			activityID, err := s.CreateActivity(Activity{
				CampID:       camp.ID,
				ActivityDate: activityDate.Format(campDateFormat),
				ActivityName: name,
				Notes:        "Notes for " + name,
			})
			if err != nil {
				return err
			}

			// Roughly 70-90% of the camp joins each activity.
			rate := 0.7 + rng.Float64()*0.2
			num := int(float64(len(campers)) * rate)
			if num < 1 {
				num = 1
			}
			for _, i := range rng.Perm(len(campers))[:num] {
				if err := s.AddActivityParticipant(activityID, campers[i].ID); err != nil {
					return err
				}
			}
		}
	}

	return nil
}

func (s *Store) seedNotifications(coordinatorID int64, campIDs []int64) error {
	if len(campIDs) == 0 {
		return nil
	}

	notifications := []Notification{
		{
			CampID:        campIDs[0],
			CoordinatorID: coordinatorID,
			Type:          NotificationNotEnoughFood,
			Message:       "Food stock for Riverbend Expedition Camp has fallen below the approved daily level.",
		},
		{
			CampID:        campIDs[0],
			CoordinatorID: coordinatorID,
			Type:          NotificationLowPaymentRate,
			Message:       "Leader daily payment rate for Riverbend Expedition Camp is below the recommended threshold.",
			IsRead:        true,
		},
	}

	for _, n := range notifications {
		if err := s.CreateNotification(n); err != nil {
			return err
		}
	}

	return nil
}
