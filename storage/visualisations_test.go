package storage

import (
	"testing"
)

func mustImportCampers(t *testing.T, store *Store, campID int64, names ...string) []Camper {
	t.Helper()

	imports := make([]CamperImport, 0, len(names))
	for _, name := range names {
		imports = append(imports, CamperImport{Name: name, DateOfBirth: "2015-01-01"})
	}
	if _, err := store.ImportCampers(campID, imports); err != nil {
		t.Fatalf("import campers: %v", err)
	}

	campers, err := store.CampersForCamp(campID)
	if err != nil {
		t.Fatalf("list campers: %v", err)
	}
	return campers
}

func mustRecordAttendance(t *testing.T, store *Store, campID, camperID int64, date, status string) {
	t.Helper()

	if err := store.RecordAttendance(campID, camperID, date, status); err != nil {
		t.Fatalf("record attendance: %v", err)
	}
}

func TestAttendanceByDayGroupsPerDate(t *testing.T) {
	store := newTestStore(t)
	coordinator := mustCreateUser(t, store, "coordinator", RoleCoordinator)
	camp := mustCreateCamp(t, store, testCamp(coordinator.ID, "Eagle Point", "2026-06-01", "2026-06-05"))
	campers := mustImportCampers(t, store, camp.ID, "Ada", "Grace", "Alan")

	mustRecordAttendance(t, store, camp.ID, campers[0].ID, "2026-06-01", "present")
	mustRecordAttendance(t, store, camp.ID, campers[1].ID, "2026-06-01", "present")
	mustRecordAttendance(t, store, camp.ID, campers[2].ID, "2026-06-01", "absent")
	mustRecordAttendance(t, store, camp.ID, campers[0].ID, "2026-06-02", "absent")

	days, err := store.AttendanceByDay(camp.ID)
	if err != nil {
		t.Fatalf("AttendanceByDay failed: %v", err)
	}
	if len(days) != 2 {
		t.Fatalf("expected 2 days, got %d", len(days))
	}
	if days[0].Date != "2026-06-01" || days[0].Present != 2 || days[0].Absent != 1 {
		t.Fatalf("unexpected first day: %+v", days[0])
	}
	if days[1].Date != "2026-06-02" || days[1].Present != 0 || days[1].Absent != 1 {
		t.Fatalf("unexpected second day: %+v", days[1])
	}
}

func TestAttendanceTodayByCampSkipsEndedCamps(t *testing.T) {
	store := newTestStore(t)
	coordinator := mustCreateUser(t, store, "coordinator", RoleCoordinator)

	running := mustCreateCamp(t, store, testCamp(coordinator.ID, "Running Camp", "2026-06-01", "2026-06-10"))
	quiet := mustCreateCamp(t, store, testCamp(coordinator.ID, "Quiet Camp", "2026-06-01", "2026-06-10"))
	mustCreateCamp(t, store, testCamp(coordinator.ID, "Ended Camp", "2026-05-01", "2026-05-05"))

	campers := mustImportCampers(t, store, running.ID, "Ada", "Grace")
	mustRecordAttendance(t, store, running.ID, campers[0].ID, "2026-06-03", "present")
	mustRecordAttendance(t, store, running.ID, campers[1].ID, "2026-06-03", "absent")
	// A different day must not leak into today's summary.
	mustRecordAttendance(t, store, running.ID, campers[0].ID, "2026-06-02", "absent")

	camps, err := store.AttendanceTodayByCamp("2026-06-03")
	if err != nil {
		t.Fatalf("AttendanceTodayByCamp failed: %v", err)
	}
	if len(camps) != 2 {
		t.Fatalf("expected 2 ongoing camps, got %d", len(camps))
	}
	if camps[0].CampID != running.ID || camps[0].Present != 1 || camps[0].Absent != 1 {
		t.Fatalf("unexpected running camp counts: %+v", camps[0])
	}
	if camps[1].CampID != quiet.ID || camps[1].Present != 0 || camps[1].Absent != 0 {
		t.Fatalf("camp without records should count zero: %+v", camps[1])
	}
}

func TestLatestStockLevelsPicksNewestEntry(t *testing.T) {
	store := newTestStore(t)
	coordinator := mustCreateUser(t, store, "coordinator", RoleCoordinator)

	camp := mustCreateCamp(t, store, testCamp(coordinator.ID, "Eagle Point", "2026-06-01", "2026-06-10"))
	ended := mustCreateCamp(t, store, testCamp(coordinator.ID, "Ended Camp", "2026-05-01", "2026-05-05"))
	mustCreateCamp(t, store, testCamp(coordinator.ID, "No Ledger", "2026-06-01", "2026-06-10"))

	entries := []FoodStockEntry{
		{CampID: camp.ID, Date: "2026-06-01", StockAvailable: 100, ChangeReason: "top_up", ChangeAmount: 100},
		{CampID: camp.ID, Date: "2026-06-02", StockAvailable: 70, ChangeReason: "daily_consumption", ChangeAmount: -30},
		{CampID: ended.ID, Date: "2026-05-02", StockAvailable: 40, ChangeReason: "top_up", ChangeAmount: 40},
	}
	for _, entry := range entries {
		if err := store.AppendFoodStock(entry); err != nil {
			t.Fatalf("append ledger entry: %v", err)
		}
	}

	levels, err := store.LatestStockLevels("2026-06-03")
	if err != nil {
		t.Fatalf("LatestStockLevels failed: %v", err)
	}
	if len(levels) != 1 {
		t.Fatalf("expected only the ongoing camp with a ledger, got %d rows", len(levels))
	}
	if levels[0].CampID != camp.ID || levels[0].StockAvailable != 70 {
		t.Fatalf("expected newest reading 70, got %+v", levels[0])
	}
}

func TestActivityEngagementByCamp(t *testing.T) {
	store := newTestStore(t)
	coordinator := mustCreateUser(t, store, "coordinator", RoleCoordinator)
	camp := mustCreateCamp(t, store, testCamp(coordinator.ID, "Eagle Point", "2026-06-01", "2026-06-10"))
	other := mustCreateCamp(t, store, testCamp(coordinator.ID, "Other Camp", "2026-06-01", "2026-06-10"))
	campers := mustImportCampers(t, store, camp.ID, "Ada", "Grace")

	hikeID, err := store.CreateActivity(Activity{CampID: camp.ID, ActivityDate: "2026-06-02", ActivityName: "Hike"})
	if err != nil {
		t.Fatalf("create activity: %v", err)
	}
	craftID, err := store.CreateActivity(Activity{CampID: camp.ID, ActivityDate: "2026-06-01", ActivityName: "Crafts"})
	if err != nil {
		t.Fatalf("create activity: %v", err)
	}
	if _, err := store.CreateActivity(Activity{CampID: other.ID, ActivityDate: "2026-06-01", ActivityName: "Hike"}); err != nil {
		t.Fatalf("create activity: %v", err)
	}

	for _, camper := range campers {
		if err := store.AddActivityParticipant(hikeID, camper.ID); err != nil {
			t.Fatalf("add participant: %v", err)
		}
	}
	if err := store.AddActivityParticipant(craftID, campers[0].ID); err != nil {
		t.Fatalf("add participant: %v", err)
	}

	engagement, err := store.ActivityEngagementByCamp(camp.ID)
	if err != nil {
		t.Fatalf("ActivityEngagementByCamp failed: %v", err)
	}
	if len(engagement) != 2 {
		t.Fatalf("expected 2 activities, got %d", len(engagement))
	}
	// Ordered by activity date: crafts ran first.
	if engagement[0].Activity != "Crafts" || engagement[0].Participants != 1 {
		t.Fatalf("unexpected first activity: %+v", engagement[0])
	}
	if engagement[1].Activity != "Hike" || engagement[1].Participants != 2 {
		t.Fatalf("unexpected second activity: %+v", engagement[1])
	}

	all, err := store.ActivityEngagementAllCamps()
	if err != nil {
		t.Fatalf("ActivityEngagementAllCamps failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 activity names across camps, got %d", len(all))
	}
	// Alphabetical, with both camps' hikes merged under one name.
	if all[0].Activity != "Crafts" || all[0].Participants != 1 {
		t.Fatalf("unexpected merged crafts row: %+v", all[0])
	}
	if all[1].Activity != "Hike" || all[1].Participants != 2 {
		t.Fatalf("unexpected merged hike row: %+v", all[1])
	}
}

func TestPresentCamperCount(t *testing.T) {
	store := newTestStore(t)
	coordinator := mustCreateUser(t, store, "coordinator", RoleCoordinator)
	camp := mustCreateCamp(t, store, testCamp(coordinator.ID, "Eagle Point", "2026-06-01", "2026-06-10"))
	other := mustCreateCamp(t, store, testCamp(coordinator.ID, "Other Camp", "2026-06-01", "2026-06-10"))
	campers := mustImportCampers(t, store, camp.ID, "Ada", "Grace")
	others := mustImportCampers(t, store, other.ID, "Alan")

	// Ada present twice still counts once; an absence never counts.
	mustRecordAttendance(t, store, camp.ID, campers[0].ID, "2026-06-01", "present")
	mustRecordAttendance(t, store, camp.ID, campers[0].ID, "2026-06-02", "present")
	mustRecordAttendance(t, store, camp.ID, campers[1].ID, "2026-06-01", "absent")
	mustRecordAttendance(t, store, other.ID, others[0].ID, "2026-06-01", "present")

	count, err := store.PresentCamperCount(camp.ID)
	if err != nil {
		t.Fatalf("PresentCamperCount failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 distinct present camper, got %d", count)
	}

	count, err = store.PresentCamperCount(0)
	if err != nil {
		t.Fatalf("PresentCamperCount across camps failed: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 distinct present campers overall, got %d", count)
	}
}
