package coordinator

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/laluke1/camptrack/storage"
	"github.com/laluke1/camptrack/ui"
)

// recommendedRatePerCamper is the advised leader pay per registered camper
// per day. Camps paying under occupancy times this raise an alert.
const recommendedRatePerCamper = 20.0

// GenerateNotifications scans every running or upcoming camp and files an
// unread alert for each logistics problem found: food stock that cannot cover
// the registered campers for the remaining days, or a leader daily rate under
// the recommended level. A camp with an unread alert of the same type is
// skipped so the coordinator is not nagged twice about the same problem.
func GenerateNotifications(store *storage.Store, coordinatorID int64, today time.Time) error {
	camps, err := store.ListCamps()
	if err != nil {
		return fmt.Errorf("generate notifications: %w", err)
	}

	for _, camp := range camps {
		end, err := time.Parse("2006-01-02", camp.EndDate)
		if err != nil || end.Before(today.Truncate(24*time.Hour)) {
			continue
		}

		occupancy, err := store.CampOccupancy(camp.ID)
		if err != nil {
			return fmt.Errorf("generate notifications: %w", err)
		}
		if occupancy == 0 {
			continue
		}

		days := daysLeft(today, camp.EndDate)
		needed := camp.DailyFoodPerCamper * occupancy * days
		recommendedRate := recommendedRatePerCamper * float64(occupancy)

		switch {
		case camp.ApprovedDailyFoodStock < needed:
			message := fmt.Sprintf(
				"Camp %q needs at least %d more unit(s) of food to cover %d camper(s) for %d day(s).",
				camp.Name, needed-camp.ApprovedDailyFoodStock, occupancy, days,
			)
			if err := fileNotification(store, camp.ID, coordinatorID,
				storage.NotificationNotEnoughFood, message); err != nil {
				return err
			}
		case camp.LeaderDailyPaymentRate < recommendedRate:
			message := fmt.Sprintf(
				"Leader daily rate for camp %q is £%.2f, below the recommended £%.2f.",
				camp.Name, camp.LeaderDailyPaymentRate, recommendedRate,
			)
			if err := fileNotification(store, camp.ID, coordinatorID,
				storage.NotificationLowPaymentRate, message); err != nil {
				return err
			}
		}
	}

	return nil
}

func fileNotification(store *storage.Store, campID, coordinatorID int64, notificationType, message string) error {
	exists, err := store.HasUnreadNotification(campID, notificationType)
	if err != nil {
		return fmt.Errorf("generate notifications: %w", err)
	}
	if exists {
		return nil
	}

	err = store.CreateNotification(storage.Notification{
		CampID:        campID,
		CoordinatorID: coordinatorID,
		Type:          notificationType,
		Message:       message,
	})
	if err != nil {
		return fmt.Errorf("generate notifications: %w", err)
	}
	return nil
}

// notificationsView lists unread alerts and lets the coordinator act on
// them. Resolving an alert walks the matching fix flow and marks it read.
func (c *Interface) notificationsView() {
	showRead := false

	for {
		notifications, err := c.store.NotificationsFor(c.user.ID)
		if err != nil {
			c.logger.Error().Err(err).Msg("could not list notifications")
			c.reportError("Could not load your notifications.")
			return
		}

		var unread, read []storage.Notification
		for _, n := range notifications {
			if n.IsRead {
				read = append(read, n)
			} else {
				unread = append(unread, n)
			}
		}

		ui.ClearScreen(c.out)
		ui.Header(c.out, false)
		c.sectionHeader("NOTIFICATIONS")

		if len(unread) == 0 {
			fmt.Fprintln(c.out, "No unread notifications.")
		} else {
			c.renderNotificationTable(unread)
		}

		if showRead {
			fmt.Fprintln(c.out)
			fmt.Fprintln(c.out, ui.MutedStyle.Render("Read notifications:"))
			if len(read) == 0 {
				fmt.Fprintln(c.out, "None.")
			} else {
				c.renderNotificationTable(read)
			}
		}

		fmt.Fprintln(c.out)
		fmt.Fprintln(c.out, "Commands: [notification id] resolve | [r] show read | [b] back")

		command, ok := c.readLine("\n>> Command: ")
		if !ok {
			return
		}

		switch strings.ToLower(strings.TrimSpace(command)) {
		case "b", "q":
			return
		case "r":
			showRead = !showRead
		case "":
			continue
		default:
			id, err := strconv.ParseInt(strings.TrimSpace(command), 10, 64)
			if err != nil {
				c.reportError("Invalid command. Please try again.")
				continue
			}
			c.resolveNotification(unread, id)
		}
	}
}

func (c *Interface) renderNotificationTable(notifications []storage.Notification) {
	rows := make([][]string, 0, len(notifications))
	for _, n := range notifications {
		rows = append(rows, []string{
			strconv.FormatInt(n.ID, 10),
			strconv.FormatInt(n.CampID, 10),
			n.Type,
			n.Message,
		})
	}

	fmt.Fprintln(c.out, ui.RenderTable(
		[]string{"ID", "Camp", "Type", "Message"},
		rows,
	))
}

// resolveNotification runs the fix flow for one unread alert and marks it
// read once the underlying value has been corrected.
func (c *Interface) resolveNotification(unread []storage.Notification, id int64) {
	var target *storage.Notification
	for i := range unread {
		if unread[i].ID == id {
			target = &unread[i]
			break
		}
	}
	if target == nil {
		c.reportError(fmt.Sprintf("No unread notification with id %d was found.", id))
		return
	}

	camp, err := c.store.GetCampByID(target.CampID)
	if err != nil {
		c.logger.Error().Err(err).Int64("camp_id", target.CampID).Msg("could not load camp")
		c.reportError("Could not load the camp for this notification.")
		return
	}

	fmt.Fprintln(c.out)
	fmt.Fprintln(c.out, ui.AccentStyle.Render(target.Message))

	var resolved bool
	switch target.Type {
	case storage.NotificationNotEnoughFood:
		resolved = c.resolveFoodShortfall(camp)
	case storage.NotificationLowPaymentRate:
		resolved = c.resolveLowRate(camp)
	default:
		resolved = true
	}
	if !resolved {
		return
	}

	if err := c.store.SetNotificationRead(target.ID, true); err != nil {
		c.logger.Error().Err(err).Int64("notification_id", target.ID).Msg("could not mark notification read")
		c.reportError("Could not mark the notification as read.")
	}
}

// resolveFoodShortfall tops up a camp's food stock by at least the current
// shortfall, so the alert cannot immediately recur.
func (c *Interface) resolveFoodShortfall(camp *storage.Camp) bool {
	occupancy, err := c.store.CampOccupancy(camp.ID)
	if err != nil {
		c.logger.Error().Err(err).Int64("camp_id", camp.ID).Msg("could not count campers")
		c.reportError("Could not load the camp occupancy.")
		return false
	}

	needed := camp.DailyFoodPerCamper * occupancy * daysLeft(c.now(), camp.EndDate)
	shortfall := needed - camp.ApprovedDailyFoodStock
	if shortfall < 1 {
		shortfall = 1
	}

	raw, ok := c.readLine(fmt.Sprintf(">> Enter top up amount (minimum %d): ", shortfall))
	if !ok {
		return false
	}
	amount, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || amount < shortfall {
		c.reportError(fmt.Sprintf("Top up amount must be at least %d unit(s).", shortfall))
		return false
	}

	if err := c.store.AddApprovedFoodStock(camp.ID, amount); err != nil {
		c.logger.Error().Err(err).Int64("camp_id", camp.ID).Msg("could not top up food stock")
		c.reportError("Could not top up the food stock.")
		return false
	}
	c.recordTopUp(camp, amount)

	c.reportSuccess(fmt.Sprintf("Food stock for %s topped up by %d unit(s).", camp.Name, amount))
	return true
}

// resolveLowRate raises a camp's leader daily rate to at least the
// recommended level.
func (c *Interface) resolveLowRate(camp *storage.Camp) bool {
	occupancy, err := c.store.CampOccupancy(camp.ID)
	if err != nil {
		c.logger.Error().Err(err).Int64("camp_id", camp.ID).Msg("could not count campers")
		c.reportError("Could not load the camp occupancy.")
		return false
	}

	recommended := recommendedRatePerCamper * float64(occupancy)

	raw, ok := c.readLine(fmt.Sprintf(">> Enter new leader daily rate (minimum £%.2f): £", recommended))
	if !ok {
		return false
	}
	rate, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || rate < recommended {
		c.reportError(fmt.Sprintf("Leader daily rate must be at least £%.2f.", recommended))
		return false
	}

	if err := c.store.SetPaymentRate(camp.ID, rate); err != nil {
		c.logger.Error().Err(err).Int64("camp_id", camp.ID).Msg("could not set payment rate")
		c.reportError("Could not update the leader daily rate.")
		return false
	}

	c.reportSuccess(fmt.Sprintf("Leader daily rate for %s set to £%.2f.", camp.Name, rate))
	return true
}
