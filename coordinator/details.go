package coordinator

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/laluke1/camptrack/storage"
	"github.com/laluke1/camptrack/ui"
)

// showCampDetails renders one camp and its management actions. It reports
// whether the camp exists; a missing id is the caller's message to handle.
func (c *Interface) showCampDetails(id int64) bool {
	for {
		camp, err := c.store.GetCampByID(id)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return false
			}
			c.logger.Error().Err(err).Int64("camp_id", id).Msg("could not load camp")
			c.reportError("Could not load the camp details.")
			return true
		}

		occupancy, err := c.store.CampOccupancy(camp.ID)
		if err != nil {
			c.logger.Error().Err(err).Int64("camp_id", id).Msg("could not count campers")
			c.reportError("Could not load the camp details.")
			return true
		}

		status, err := c.store.CampStatusFor(*camp, c.now())
		if err != nil {
			status = "unknown"
		}

		ui.ClearScreen(c.out)
		ui.Header(c.out, false)
		c.sectionHeader("CAMP DETAILS")
		c.renderCampDetails(camp, occupancy, status)

		if c.campEnded(camp) {
			fmt.Fprintln(c.out)
			fmt.Fprintln(c.out, ui.MutedStyle.Render("This camp has ended and can no longer be modified."))
			c.pressEnter("")
			return true
		}

		fmt.Fprintln(c.out)
		fmt.Fprintln(c.out, "Commands: [A] set leader daily rate | [B] top up food stock | [Q] back")

		command, ok := c.readLine("\n>> Command: ")
		if !ok {
			return true
		}

		switch strings.ToLower(strings.TrimSpace(command)) {
		case "a":
			c.setPaymentRate(camp)
		case "b":
			c.topUpFoodStock(camp, occupancy)
		case "q", "back":
			return true
		case "":
			continue
		default:
			c.reportError("Invalid command. Please try again.")
		}
	}
}

func (c *Interface) renderCampDetails(camp *storage.Camp, occupancy int, status storage.CampStatus) {
	fmt.Fprintln(c.out, ui.RenderTable(
		[]string{"Field", "Value"},
		[][]string{
			{"Name", camp.Name},
			{"Leader", c.leaderName(camp.LeaderID)},
			{"Location", camp.Location},
			{"Start date", ui.FormatDate(camp.StartDate)},
			{"End date", ui.FormatDate(camp.EndDate)},
			{"Type", camp.Type},
			{"Status", string(status)},
			{"Occupancy", fmt.Sprintf("%d / %d", occupancy, camp.Capacity)},
			{"Approved daily food stock", strconv.Itoa(camp.ApprovedDailyFoodStock)},
			{"Daily food per camper", strconv.Itoa(camp.DailyFoodPerCamper)},
			{"Leader daily rate", fmt.Sprintf("£%.2f", camp.LeaderDailyPaymentRate)},
			{"Days left", strconv.Itoa(daysLeft(c.now(), camp.EndDate))},
		},
	))
}

func (c *Interface) campEnded(camp *storage.Camp) bool {
	end, err := time.Parse("2006-01-02", camp.EndDate)
	if err != nil {
		return false
	}
	return end.Before(c.now().Truncate(24 * time.Hour))
}

// setPaymentRate prompts for and stores a new leader daily rate.
func (c *Interface) setPaymentRate(camp *storage.Camp) {
	fmt.Fprintf(c.out, "Current leader daily rate: £%.2f\n", camp.LeaderDailyPaymentRate)

	raw, ok := c.readLine(">> Enter new leader daily rate: £")
	if !ok {
		return
	}
	rate, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || rate <= 0 {
		c.reportError("Leader daily rate must be a positive number.")
		return
	}

	if err := c.store.SetPaymentRate(camp.ID, rate); err != nil {
		c.logger.Error().Err(err).Int64("camp_id", camp.ID).Msg("could not set payment rate")
		c.reportError("Could not update the leader daily rate.")
		return
	}
	c.reportSuccess(fmt.Sprintf("Leader daily rate for %s set to £%.2f.", camp.Name, rate))
}

// topUpFoodStock prompts for and applies a food stock top up. The suggested
// amount covers every registered camper for the remaining camp days.
func (c *Interface) topUpFoodStock(camp *storage.Camp, occupancy int) {
	needed := camp.DailyFoodPerCamper * occupancy * daysLeft(c.now(), camp.EndDate)
	shortfall := needed - camp.ApprovedDailyFoodStock

	fmt.Fprintf(c.out, "Current approved daily food stock: %d\n", camp.ApprovedDailyFoodStock)
	if shortfall > 0 {
		fmt.Fprintf(c.out, "Recommended top up to cover %d camper(s): %d unit(s)\n", occupancy, shortfall)
	}

	raw, ok := c.readLine(">> Enter top up amount: ")
	if !ok {
		return
	}
	amount, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || amount <= 0 {
		c.reportError("Top up amount must be a positive whole number.")
		return
	}

	if err := c.store.AddApprovedFoodStock(camp.ID, amount); err != nil {
		c.logger.Error().Err(err).Int64("camp_id", camp.ID).Msg("could not top up food stock")
		c.reportError("Could not top up the food stock.")
		return
	}
	c.recordTopUp(camp, amount)
	c.reportSuccess(fmt.Sprintf("Food stock for %s topped up by %d unit(s).", camp.Name, amount))
}

// recordTopUp appends the top up to the camp's food ledger. A ledger failure
// is logged but does not undo the stock change itself.
func (c *Interface) recordTopUp(camp *storage.Camp, amount int) {
	err := c.store.AppendFoodStock(storage.FoodStockEntry{
		CampID:         camp.ID,
		Date:           c.now().Format("2006-01-02"),
		StockAvailable: camp.ApprovedDailyFoodStock + amount,
		ChangeReason:   "top_up",
		ChangeAmount:   amount,
	})
	if err != nil {
		c.logger.Warn().Err(err).Int64("camp_id", camp.ID).Msg("could not record food ledger entry")
	}
}
