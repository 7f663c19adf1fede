package coordinator

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/laluke1/camptrack/storage"
	"github.com/laluke1/camptrack/ui"
)

// minLeaderRate is the floor for a leader's daily pay in pounds.
const minLeaderRate = 100.0

// createCamp walks the coordinator through a new camp one field at a time,
// then asks for confirmation before saving. Answering "r" at the
// confirmation restarts the form; any other refusal discards it.
func (c *Interface) createCamp() {
	for {
		ui.ClearScreen(c.out)
		ui.Header(c.out, false)
		c.sectionHeader("NEW CAMP CREATION")
		fmt.Fprintln(c.out)

		camp, ok := c.promptCampForm()
		if !ok {
			return
		}

		fmt.Fprintln(c.out)
		c.sectionHeader("CONFIRM DETAILS")
		fmt.Fprintln(c.out, ui.RenderTable(
			[]string{"Field", "Value"},
			[][]string{
				{"Name", camp.Name},
				{"Leader", c.leaderName(camp.LeaderID)},
				{"Location", camp.Location},
				{"Start date", ui.FormatDate(camp.StartDate)},
				{"End date", ui.FormatDate(camp.EndDate)},
				{"Type", camp.Type},
				{"Capacity", strconv.Itoa(camp.Capacity)},
				{"Approved daily food stock", strconv.Itoa(camp.ApprovedDailyFoodStock)},
				{"Leader daily rate", fmt.Sprintf("£%.2f", camp.LeaderDailyPaymentRate)},
			},
		))

		confirm, ok := c.readLine("\nAre the details above correct? (y/n): ")
		if !ok {
			return
		}

		switch strings.ToLower(strings.TrimSpace(confirm)) {
		case "y", "yes":
			if _, err := c.store.CreateCamp(*camp); err != nil {
				c.logger.Error().Err(err).Str("camp", camp.Name).Msg("could not create camp")
				c.reportError("Could not save the camp.")
				return
			}
			c.logger.Info().Str("camp", camp.Name).Msg("camp created")
			c.reportSuccess(fmt.Sprintf("Camp %s saved.", camp.Name))
			return
		default:
			choice, ok := c.readLine("Type 'r' to restart, anything else to discard: ")
			if !ok {
				return
			}
			if strings.ToLower(strings.TrimSpace(choice)) == "r" {
				continue
			}
			fmt.Fprintln(c.out, "Camp discarded.")
			c.pressEnter("")
			return
		}
	}
}

// promptCampForm gathers and validates every camp field. A false result
// means input ended before the form was complete.
func (c *Interface) promptCampForm() (*storage.Camp, bool) {
	camp := &storage.Camp{CoordinatorID: c.user.ID}

	name, ok := c.promptCampName()
	if !ok {
		return nil, false
	}
	camp.Name = name

	leaderID, ok := c.promptLeader()
	if !ok {
		return nil, false
	}
	camp.LeaderID = leaderID

	location, ok := c.promptNonEmpty(">> Enter camp location: ", "Camp location cannot be empty.")
	if !ok {
		return nil, false
	}
	camp.Location = location

	start, ok := c.promptStartDate()
	if !ok {
		return nil, false
	}
	camp.StartDate = start.Format("2006-01-02")

	end, ok := c.promptEndDate(start)
	if !ok {
		return nil, false
	}
	camp.EndDate = end.Format("2006-01-02")

	campType, ok := c.promptCampType(start, end)
	if !ok {
		return nil, false
	}
	camp.Type = campType

	capacity, ok := c.promptPositiveInt(">> Enter camp capacity: ", "Capacity must be greater than 0.")
	if !ok {
		return nil, false
	}
	camp.Capacity = capacity

	foodStock, ok := c.promptNonNegativeInt(">> Enter approved daily food stock: ",
		"Approved daily food stock cannot be a negative value.")
	if !ok {
		return nil, false
	}
	camp.ApprovedDailyFoodStock = foodStock

	rate, ok := c.promptLeaderRate()
	if !ok {
		return nil, false
	}
	camp.LeaderDailyPaymentRate = rate

	return camp, true
}

func (c *Interface) promptCampName() (string, bool) {
	for {
		name, ok := c.readLine(">> Enter camp name: ")
		if !ok {
			return "", false
		}
		name = strings.TrimSpace(name)
		if name == "" {
			fmt.Fprintln(c.out, "Camp name cannot be empty. Please try again.")
			continue
		}

		exists, err := c.store.CampExists(name)
		if err != nil {
			c.logger.Error().Err(err).Msg("could not check camp name")
			fmt.Fprintln(c.out, "Could not check the camp name. Please try again.")
			continue
		}
		if exists {
			fmt.Fprintln(c.out, "A camp with that name already exists. Please choose another.")
			continue
		}
		return name, true
	}
}

// promptLeader resolves an optional leader by username. Blank leaves the
// camp unassigned.
func (c *Interface) promptLeader() (*int64, bool) {
	for {
		username, ok := c.readLine(">> Enter leader username (blank for unassigned): ")
		if !ok {
			return nil, false
		}
		username = strings.TrimSpace(username)
		if username == "" {
			return nil, true
		}

		leader, err := c.store.GetUserByUsername(username)
		if err != nil {
			fmt.Fprintf(c.out, "User %s was not found. Please try again.\n", username)
			continue
		}
		if leader.Role != storage.RoleLeader {
			fmt.Fprintf(c.out, "%s is not a scout leader. Please try again.\n", username)
			continue
		}
		if leader.IsDisabled {
			fmt.Fprintf(c.out, "%s is disabled and cannot lead a camp.\n", username)
			continue
		}
		return &leader.ID, true
	}
}

func (c *Interface) promptStartDate() (time.Time, bool) {
	today := c.now().Truncate(24 * time.Hour)
	for {
		raw, ok := c.readLine(">> Enter start date (YYYY-MM-DD): ")
		if !ok {
			return time.Time{}, false
		}
		start, err := time.Parse("2006-01-02", strings.TrimSpace(raw))
		if err != nil {
			fmt.Fprintln(c.out, "Invalid date format. Please use YYYY-MM-DD.")
			continue
		}
		if start.Before(today) {
			fmt.Fprintln(c.out, "Start date cannot be in the past.")
			continue
		}
		return start, true
	}
}

func (c *Interface) promptEndDate(start time.Time) (time.Time, bool) {
	for {
		raw, ok := c.readLine(">> Enter end date (YYYY-MM-DD): ")
		if !ok {
			return time.Time{}, false
		}
		end, err := time.Parse("2006-01-02", strings.TrimSpace(raw))
		if err != nil {
			fmt.Fprintln(c.out, "Invalid date format. Please use YYYY-MM-DD.")
			continue
		}
		if end.Before(start) {
			fmt.Fprintln(c.out, "End date cannot be before start date.")
			continue
		}
		return end, true
	}
}

func (c *Interface) promptCampType(start, end time.Time) (string, bool) {
	for {
		raw, ok := c.readLine(">> Enter camp type ('day_camp' / 'overnight' / 'expedition'): ")
		if !ok {
			return "", false
		}
		campType := strings.ToLower(strings.TrimSpace(raw))
		switch campType {
		case "":
			fmt.Fprintln(c.out, "Camp type cannot be empty. Please try again.")
		case storage.CampTypeDayCamp, storage.CampTypeOvernight, storage.CampTypeExpedition:
			if campType == storage.CampTypeOvernight && start.Equal(end) {
				fmt.Fprintln(c.out, "Overnight camps need an end date after the start date.")
				continue
			}
			return campType, true
		default:
			fmt.Fprintln(c.out, "Camp type must be one of 'day_camp', 'overnight', 'expedition'.")
		}
	}
}

func (c *Interface) promptLeaderRate() (float64, bool) {
	for {
		raw, ok := c.readLine(">> Enter leader daily rate: £")
		if !ok {
			return 0, false
		}
		rate, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			fmt.Fprintln(c.out, "Leader daily rate must be a valid number. Please try again.")
			continue
		}
		if rate < minLeaderRate {
			fmt.Fprintf(c.out, "The minimum leader rate is £%.2f per day. Please try again.\n", minLeaderRate)
			continue
		}
		return rate, true
	}
}

func (c *Interface) promptNonEmpty(prompt, emptyMessage string) (string, bool) {
	for {
		value, ok := c.readLine(prompt)
		if !ok {
			return "", false
		}
		value = strings.TrimSpace(value)
		if value == "" {
			fmt.Fprintln(c.out, emptyMessage)
			continue
		}
		return value, true
	}
}

func (c *Interface) promptPositiveInt(prompt, rangeMessage string) (int, bool) {
	for {
		raw, ok := c.readLine(prompt)
		if !ok {
			return 0, false
		}
		value, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			fmt.Fprintln(c.out, "Please provide a valid integer.")
			continue
		}
		if value <= 0 {
			fmt.Fprintln(c.out, rangeMessage)
			continue
		}
		return value, true
	}
}

func (c *Interface) promptNonNegativeInt(prompt, rangeMessage string) (int, bool) {
	for {
		raw, ok := c.readLine(prompt)
		if !ok {
			return 0, false
		}
		value, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			fmt.Fprintln(c.out, "Please provide a valid whole number.")
			continue
		}
		if value < 0 {
			fmt.Fprintln(c.out, rangeMessage)
			continue
		}
		return value, true
	}
}
