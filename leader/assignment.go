package leader

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/laluke1/camptrack/storage"
	"github.com/laluke1/camptrack/ui"
)

// selectCampToSupervise lists future camps without a leader and assigns the
// chosen one, unless its dates overlap a camp the leader already supervises.
func (l *Interface) selectCampToSupervise() {
	for {
		unassigned, err := l.store.UnassignedCamps(l.today())
		if err != nil {
			l.logger.Error().Err(err).Msg("could not list unassigned camps")
			l.reportError("Could not load the available camps.")
			return
		}

		ui.ClearScreen(l.out)
		ui.Header(l.out, false)
		l.sectionHeader("AVAILABLE CAMPS TO SUPERVISE")

		if len(unassigned) == 0 {
			l.pressEnter("Sorry, there are no available camps at the moment.")
			return
		}

		rows := make([][]string, 0, len(unassigned))
		for i, camp := range unassigned {
			rows = append(rows, []string{
				strconv.Itoa(i + 1),
				fmt.Sprintf("%s (%s)", camp.Name, camp.Location),
				camp.Type,
				strconv.Itoa(camp.Capacity),
				fmt.Sprintf("%s -> %s", camp.StartDate, camp.EndDate),
			})
		}
		fmt.Fprintln(l.out, ui.RenderTable(
			[]string{"Option", "Camp Name", "Type", "Capacity", "Dates"},
			rows,
		))

		selected, ok := l.chooseByNumber(len(unassigned), "Select a camp by number (or type Q to cancel): ")
		if !ok {
			return
		}
		camp := unassigned[selected-1]

		conflict, err := l.findDateConflict(camp)
		if err != nil {
			l.logger.Error().Err(err).Msg("could not check camp conflicts")
			l.reportError("Could not check your existing assignments.")
			return
		}
		if conflict == nil {
			if err := l.store.AssignLeader(camp.ID, l.user.ID); err != nil {
				l.logger.Error().Err(err).Int64("camp_id", camp.ID).Msg("could not assign leader")
				l.reportError("Could not assign you to the camp.")
				return
			}
			l.logger.Info().Int64("camp_id", camp.ID).Msg("camp assigned")
			l.reportSuccess(fmt.Sprintf("You are now supervising %s.", camp.Name))
			return
		}

		fmt.Fprintln(l.out)
		fmt.Fprintln(l.out, ui.ErrorStyle.Render("Date conflict detected!"))
		fmt.Fprintf(l.out, "You are already supervising %s (%s -> %s),\n",
			conflict.Name, conflict.StartDate, conflict.EndDate)
		fmt.Fprintf(l.out, "which overlaps with %s (%s -> %s).\n",
			camp.Name, camp.StartDate, camp.EndDate)

		retry, ok := l.readLine("\nWould you like to select a different camp? (y/n): ")
		if !ok || strings.ToLower(strings.TrimSpace(retry)) != "y" {
			return
		}
	}
}

// findDateConflict returns an already-assigned camp whose dates overlap the
// candidate, or nil when the candidate is clear.
func (l *Interface) findDateConflict(candidate storage.Camp) (*storage.Camp, error) {
	assigned, err := l.store.CampsForLeader(l.user.ID)
	if err != nil {
		return nil, err
	}

	for i, camp := range assigned {
		if candidate.StartDate <= camp.EndDate && camp.StartDate <= candidate.EndDate {
			return &assigned[i], nil
		}
	}
	return nil, nil
}

// chooseActiveCamp shows the leader's camps that have not finished and
// returns the selected one, or nil when there is nothing to choose.
func (l *Interface) chooseActiveCamp() *storage.Camp {
	assigned, err := l.store.CampsForLeader(l.user.ID)
	if err != nil {
		l.logger.Error().Err(err).Msg("could not list assigned camps")
		l.reportError("Could not load your camps.")
		return nil
	}

	active := make([]storage.Camp, 0, len(assigned))
	for _, camp := range assigned {
		status, err := l.store.CampStatusFor(camp, l.now())
		if err != nil {
			l.logger.Warn().Err(err).Int64("camp_id", camp.ID).Msg("could not derive camp status")
			continue
		}
		if status == storage.StatusCompleted || status == storage.StatusCancelled {
			continue
		}
		active = append(active, camp)
	}

	if len(active) == 0 {
		l.pressEnter("You don't have any active camps assigned to you at the moment.")
		return nil
	}

	rows := make([][]string, 0, len(active))
	for i, camp := range active {
		occupancy, err := l.store.CampOccupancy(camp.ID)
		if err != nil {
			l.logger.Warn().Err(err).Int64("camp_id", camp.ID).Msg("could not count campers")
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			fmt.Sprintf("%s (%s)", camp.Name, camp.Location),
			camp.Type,
			fmt.Sprintf("%d (Occ: %d)", camp.Capacity, occupancy),
			strconv.Itoa(camp.DailyFoodPerCamper),
			fmt.Sprintf("%s -> %s", camp.StartDate, camp.EndDate),
		})
	}

	l.sectionHeader("MY CAMPS")
	fmt.Fprintln(l.out, ui.RenderTable(
		[]string{"Option", "Camp Name", "Type", "Capacity", "Food/Day", "Dates"},
		rows,
	))

	selected, ok := l.chooseByNumber(len(active), "Select a camp by number (or type Q to return): ")
	if !ok {
		return nil
	}
	return &active[selected-1]
}

// chooseByNumber prompts until it gets a selection in [1, max] or a Q.
func (l *Interface) chooseByNumber(max int, prompt string) (int, bool) {
	for {
		raw, ok := l.readLine(prompt)
		if !ok {
			return 0, false
		}
		choice := strings.ToLower(strings.TrimSpace(raw))
		if choice == "q" {
			return 0, false
		}

		n, err := strconv.Atoi(choice)
		if err != nil || n < 1 || n > max {
			fmt.Fprintln(l.out, "Invalid choice. Please try again.")
			continue
		}
		return n, true
	}
}

// setDailyFood updates the per-camper daily food requirement for one of the
// leader's active camps.
func (l *Interface) setDailyFood() {
	ui.ClearScreen(l.out)
	ui.Header(l.out, false)

	camp := l.chooseActiveCamp()
	if camp == nil {
		return
	}

	fmt.Fprintf(l.out, "\nCurrent food units per camper per day: %d\n", camp.DailyFoodPerCamper)

	for {
		raw, ok := l.readLine(">> Enter food units required per camper per day (e.g. 2): ")
		if !ok {
			return
		}
		units, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil || units < 0 {
			fmt.Fprintln(l.out, "Invalid number. Please try again.")
			continue
		}

		if err := l.store.SetDailyFoodPerCamper(camp.ID, units); err != nil {
			l.logger.Error().Err(err).Int64("camp_id", camp.ID).Msg("could not set daily food")
			l.reportError("Could not update the daily food requirement.")
			return
		}
		l.reportSuccess(fmt.Sprintf("Daily food per camper for %s set to %d unit(s).", camp.Name, units))
		return
	}
}
