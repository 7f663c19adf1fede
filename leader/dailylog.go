package leader

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/laluke1/camptrack/storage"
	"github.com/laluke1/camptrack/ui"
)

// createDailyLog records one activity entry for a camp that has started.
func (l *Interface) createDailyLog() {
	ui.ClearScreen(l.out)
	ui.Header(l.out, false)
	l.sectionHeader("DAILY LOG")
	fmt.Fprintln(l.out, "\nYou are now creating a new daily log.")

	camps, err := l.store.StartedCampsForLeader(l.user.ID, l.today())
	if err != nil {
		l.logger.Error().Err(err).Msg("could not list started camps")
		l.reportError("Could not load your camps.")
		return
	}
	if len(camps) == 0 {
		l.pressEnter("No camps available for logging.")
		return
	}

	rows := make([][]string, 0, len(camps))
	for i, camp := range camps {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			camp.Name,
			camp.StartDate,
			camp.EndDate,
		})
	}
	fmt.Fprintln(l.out, ui.RenderTable(
		[]string{"No.", "Camp Name", "Start Date", "End Date"},
		rows,
	))

	selected, ok := l.chooseByNumber(len(camps), "Please choose a camp to create a log for (or Q to cancel): ")
	if !ok {
		return
	}
	camp := camps[selected-1]

	fmt.Fprintf(l.out, "\nYou are now creating a log for %s [%s - %s].\n",
		camp.Name, camp.StartDate, camp.EndDate)

	activity, ok := l.promptLogDetails(camp.ID)
	if !ok {
		return
	}

	id, err := l.store.CreateActivity(*activity)
	if err != nil {
		l.logger.Error().Err(err).Int64("camp_id", camp.ID).Msg("could not create activity")
		l.reportError("Log could not be created.")
		return
	}
	l.reportSuccess(fmt.Sprintf("Log created with activity ID %d.", id))
}

func (l *Interface) promptLogDetails(campID int64) (*storage.Activity, bool) {
	activity := &storage.Activity{CampID: campID}

	for {
		raw, ok := l.readLine("1. Enter activity date (YYYY-MM-DD): ")
		if !ok {
			return nil, false
		}
		date, err := time.Parse("2006-01-02", strings.TrimSpace(raw))
		if err != nil {
			fmt.Fprintln(l.out, "Invalid date format. Please use YYYY-MM-DD.")
			continue
		}
		activity.ActivityDate = date.Format("2006-01-02")
		break
	}

	for {
		name, ok := l.readLine("2. Enter activity name: ")
		if !ok {
			return nil, false
		}
		name = strings.TrimSpace(name)
		if name == "" {
			fmt.Fprintln(l.out, "Activity name cannot be empty. Please try again.")
			continue
		}
		activity.ActivityName = name
		break
	}

	for {
		raw, ok := l.readLine("3. Enter incident count: ")
		if !ok {
			return nil, false
		}
		count, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil || count < 0 {
			fmt.Fprintln(l.out, "Invalid count. Please use a non-negative number.")
			continue
		}
		activity.IncidentCount = count
		break
	}

	notes, ok := l.readLine("4. Enter notes (e.g. special achievements): ")
	if !ok {
		return nil, false
	}
	activity.Notes = strings.TrimSpace(notes)

	return activity, true
}

// logParticipation marks which campers took part in one logged activity.
func (l *Interface) logParticipation() {
	ui.ClearScreen(l.out)
	ui.Header(l.out, false)
	l.sectionHeader("ACTIVITY PARTICIPATION LOG")

	activities, err := l.store.ActivitiesForLeader(l.user.ID)
	if err != nil {
		l.logger.Error().Err(err).Msg("could not list activities")
		l.reportError("Could not load your activities.")
		return
	}
	if len(activities) == 0 {
		l.pressEnter("No activities available for logging.")
		return
	}

	rows := make([][]string, 0, len(activities))
	for _, activity := range activities {
		rows = append(rows, []string{
			strconv.FormatInt(activity.ID, 10),
			activity.ActivityDate,
			activity.ActivityName,
			strconv.FormatInt(activity.CampID, 10),
		})
	}
	fmt.Fprintln(l.out, ui.RenderTable(
		[]string{"ID", "Activity Date", "Activity Name", "Camp"},
		rows,
	))

	var selected *storage.Activity
	for selected == nil {
		raw, ok := l.readLine("Please choose an activity ID to log participation for (or Q to cancel): ")
		if !ok {
			return
		}
		choice := strings.ToLower(strings.TrimSpace(raw))
		if choice == "q" {
			return
		}
		id, err := strconv.ParseInt(choice, 10, 64)
		if err != nil {
			fmt.Fprintln(l.out, "Invalid activity chosen. Please try again.")
			continue
		}
		for i := range activities {
			if activities[i].ID == id {
				selected = &activities[i]
				break
			}
		}
		if selected == nil {
			fmt.Fprintln(l.out, "Invalid activity chosen. Please try again.")
		}
	}

	campers, err := l.store.CampersForCamp(selected.CampID)
	if err != nil {
		l.logger.Error().Err(err).Int64("camp_id", selected.CampID).Msg("could not list campers")
		l.reportError("Could not load the camp roster.")
		return
	}
	if len(campers) == 0 {
		l.pressEnter("This camp has no registered campers.")
		return
	}

	fmt.Fprintf(l.out, "\nYou are now adding participation for %s on %s.\n",
		selected.ActivityName, selected.ActivityDate)
	fmt.Fprintln(l.out, "Please indicate 'Y / N' for each camper's participation in this activity.")

	marked := 0
	for i, camper := range campers {
		participated, ok := l.promptYesNo(fmt.Sprintf("%d. %s: ", i+1, camper.Name))
		if !ok {
			return
		}
		if !participated {
			continue
		}
		if err := l.store.AddActivityParticipant(selected.ID, camper.ID); err != nil {
			l.logger.Error().Err(err).Int64("camper_id", camper.ID).Msg("could not add participant")
			fmt.Fprintf(l.out, "Could not record participation for %s.\n", camper.Name)
			continue
		}
		marked++
	}

	l.reportSuccess(fmt.Sprintf("Participation logged for %d camper(s) in activity %d.", marked, selected.ID))
}

// recordAttendance marks each camper present or absent for one camp day and
// reports the camp's running attendance rate.
func (l *Interface) recordAttendance() {
	ui.ClearScreen(l.out)
	ui.Header(l.out, false)
	l.sectionHeader("ATTENDANCE")

	camps, err := l.store.StartedCampsForLeader(l.user.ID, l.today())
	if err != nil {
		l.logger.Error().Err(err).Msg("could not list started camps")
		l.reportError("Could not load your camps.")
		return
	}
	if len(camps) == 0 {
		l.pressEnter("No running camps to take attendance for.")
		return
	}

	rows := make([][]string, 0, len(camps))
	for i, camp := range camps {
		rows = append(rows, []string{strconv.Itoa(i + 1), camp.Name, camp.StartDate, camp.EndDate})
	}
	fmt.Fprintln(l.out, ui.RenderTable(
		[]string{"No.", "Camp Name", "Start Date", "End Date"},
		rows,
	))

	selected, ok := l.chooseByNumber(len(camps), "Please choose a camp (or Q to cancel): ")
	if !ok {
		return
	}
	camp := camps[selected-1]

	campers, err := l.store.CampersForCamp(camp.ID)
	if err != nil {
		l.logger.Error().Err(err).Int64("camp_id", camp.ID).Msg("could not list campers")
		l.reportError("Could not load the camp roster.")
		return
	}
	if len(campers) == 0 {
		l.pressEnter("This camp has no registered campers.")
		return
	}

	date := l.today()
	fmt.Fprintf(l.out, "\nTaking attendance for %s on %s.\n", camp.Name, date)
	fmt.Fprintln(l.out, "Please indicate 'Y / N' for each camper.")

	for i, camper := range campers {
		present, ok := l.promptYesNo(fmt.Sprintf("%d. %s: ", i+1, camper.Name))
		if !ok {
			return
		}
		status := "absent"
		if present {
			status = "present"
		}
		if err := l.store.RecordAttendance(camp.ID, camper.ID, date, status); err != nil {
			l.logger.Error().Err(err).Int64("camper_id", camper.ID).Msg("could not record attendance")
			fmt.Fprintf(l.out, "Could not record attendance for %s.\n", camper.Name)
		}
	}

	rate, err := l.store.AttendanceRate(camp.ID)
	if err != nil {
		l.logger.Warn().Err(err).Int64("camp_id", camp.ID).Msg("could not compute attendance rate")
		l.reportSuccess("Attendance recorded.")
		return
	}
	l.reportSuccess(fmt.Sprintf("Attendance recorded. Camp attendance rate: %.1f%%.", rate*100))
}

// logFoodUsage appends a consumption entry to a camp's food ledger.
func (l *Interface) logFoodUsage() {
	ui.ClearScreen(l.out)
	ui.Header(l.out, false)
	l.sectionHeader("FOOD USAGE")

	camps, err := l.store.StartedCampsForLeader(l.user.ID, l.today())
	if err != nil {
		l.logger.Error().Err(err).Msg("could not list started camps")
		l.reportError("Could not load your camps.")
		return
	}
	if len(camps) == 0 {
		l.pressEnter("No running camps to log food usage for.")
		return
	}

	rows := make([][]string, 0, len(camps))
	for i, camp := range camps {
		rows = append(rows, []string{strconv.Itoa(i + 1), camp.Name, camp.StartDate, camp.EndDate})
	}
	fmt.Fprintln(l.out, ui.RenderTable(
		[]string{"No.", "Camp Name", "Start Date", "End Date"},
		rows,
	))

	selected, ok := l.chooseByNumber(len(camps), "Please choose a camp (or Q to cancel): ")
	if !ok {
		return
	}
	camp := camps[selected-1]

	// Stock carried forward from the last ledger entry, or the approved
	// level when the ledger is empty.
	available := camp.ApprovedDailyFoodStock
	if latest, err := l.store.LatestFoodStock(camp.ID); err == nil {
		available = latest.StockAvailable
	}

	occupancy, err := l.store.CampOccupancy(camp.ID)
	if err != nil {
		occupancy = 0
	}
	suggested := camp.DailyFoodPerCamper * occupancy

	fmt.Fprintf(l.out, "\nStock available: %d unit(s)\n", available)
	if suggested > 0 {
		fmt.Fprintf(l.out, "Expected daily usage for %d camper(s): %d unit(s)\n", occupancy, suggested)
	}

	for {
		raw, ok := l.readLine(">> Enter units consumed today: ")
		if !ok {
			return
		}
		units, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil || units <= 0 {
			fmt.Fprintln(l.out, "Units consumed must be a positive whole number.")
			continue
		}
		if units > available {
			fmt.Fprintf(l.out, "Only %d unit(s) are available. Please try again.\n", available)
			continue
		}

		entry := storage.FoodStockEntry{
			CampID:         camp.ID,
			Date:           l.today(),
			StockAvailable: available - units,
			ChangeReason:   "daily_consumption",
			ChangeAmount:   -units,
		}
		if err := l.store.AppendFoodStock(entry); err != nil {
			l.logger.Error().Err(err).Int64("camp_id", camp.ID).Msg("could not append food ledger entry")
			l.reportError("Could not log the food usage.")
			return
		}
		l.reportSuccess(fmt.Sprintf("Logged %d unit(s) consumed. %d unit(s) remaining.", units, available-units))
		return
	}
}

func (l *Interface) promptYesNo(prompt string) (bool, bool) {
	for {
		raw, ok := l.readLine(prompt)
		if !ok {
			return false, false
		}
		switch strings.ToLower(strings.TrimSpace(raw)) {
		case "y", "yes":
			return true, true
		case "n", "no":
			return false, true
		default:
			fmt.Fprintln(l.out, "Invalid input, please try again.")
		}
	}
}
