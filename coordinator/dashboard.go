package coordinator

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/laluke1/camptrack/pagination"
	"github.com/laluke1/camptrack/storage"
	"github.com/laluke1/camptrack/ui"
)

// dashboard is the paginated camp overview. A camp id opens its detail view.
func (c *Interface) dashboard() {
	page := 1

	for {
		camps, err := c.store.ListCamps()
		if err != nil {
			c.logger.Error().Err(err).Msg("could not list camps")
			c.reportError("Could not load the camp dashboard.")
			return
		}

		ui.ClearScreen(c.out)
		ui.Header(c.out, false)
		c.sectionHeader("CAMP DASHBOARD")

		if len(camps) == 0 {
			fmt.Fprintln(c.out, "No camps yet. Create one from the coordinator menu.")
			c.pressEnter("")
			return
		}

		visible, resolved := pagination.Slice(camps, page, campsPerPage)
		page = resolved.Number
		ui.PageBanner(c.out, resolved.Number, resolved.Total, len(visible), len(camps))
		c.renderCampTable(visible)

		fmt.Fprintln(c.out)
		fmt.Fprintln(c.out, "Commands: [camp id] details | [p]rev [n]ext [f]irst [l]ast | [b] back")

		command, ok := c.readLine("\n>> Command: ")
		if !ok {
			return
		}
		command = strings.TrimSpace(command)

		if next, handled := pagination.Apply(command, page, resolved.Total); handled {
			page = next
			continue
		}

		switch strings.ToLower(command) {
		case "b", "q":
			return
		default:
			id, err := strconv.ParseInt(command, 10, 64)
			if err != nil {
				c.reportError("Invalid command. Please try again.")
				continue
			}
			if !c.showCampDetails(id) {
				c.reportError(fmt.Sprintf("No camp with id %d was found.", id))
			}
		}
	}
}

func (c *Interface) renderCampTable(camps []storage.Camp) {
	rows := make([][]string, 0, len(camps))
	for _, camp := range camps {
		status, err := c.store.CampStatusFor(camp, c.now())
		if err != nil {
			c.logger.Warn().Err(err).Int64("camp_id", camp.ID).Msg("could not derive camp status")
			status = "unknown"
		}

		rows = append(rows, []string{
			strconv.FormatInt(camp.ID, 10),
			camp.Name,
			c.leaderName(camp.LeaderID),
			camp.Location,
			ui.FormatDate(camp.StartDate),
			ui.FormatDate(camp.EndDate),
			string(status),
		})
	}

	fmt.Fprintln(c.out, ui.RenderTable(
		[]string{"ID", "Name", "Leader", "Location", "Start", "End", "Status"},
		rows,
	))
}
