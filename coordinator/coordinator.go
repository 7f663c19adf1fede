// Package coordinator is the camp logistics interface for coordinator users.
package coordinator

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/laluke1/camptrack/storage"
	"github.com/laluke1/camptrack/ui"
)

// campsPerPage is the dashboard page size.
const campsPerPage = 5

// Interface drives the coordinator menus for one logged-in coordinator.
type Interface struct {
	store  *storage.Store
	user   *storage.User
	rawIn  io.Reader
	in     *bufio.Scanner
	out    io.Writer
	logger zerolog.Logger
	now    func() time.Time
}

// New builds the coordinator interface. The user must hold the coordinator
// role.
func New(store *storage.Store, user *storage.User, in io.Reader, out io.Writer, logger zerolog.Logger) (*Interface, error) {
	if user.Role != storage.RoleCoordinator {
		return nil, errors.New("coordinator: user must be a coordinator")
	}

	return &Interface{
		store:  store,
		user:   user,
		rawIn:  in,
		in:     bufio.NewScanner(in),
		out:    out,
		logger: logger,
		now:    time.Now,
	}, nil
}

// Run is the coordinator command loop. Pending logistics alerts are refreshed
// before the menu is drawn so that the dashboard banner reflects the current
// camp state. It returns when the coordinator backs out.
func (c *Interface) Run() {
	for {
		if err := GenerateNotifications(c.store, c.user.ID, c.now()); err != nil {
			c.logger.Warn().Err(err).Msg("notification refresh failed")
		}

		c.renderMenu()

		command, ok := c.readLine("\n>> Command: ")
		if !ok {
			return
		}

		switch strings.TrimSpace(command) {
		case "1":
			c.createCamp()
		case "2":
			c.dashboard()
		case "3":
			c.notificationsView()
		case "4":
			c.campVisualisations()
		case "5":
			ui.ClearScreen(c.out)
			ui.Header(c.out, false)
			fmt.Fprintln(c.out, "Returning to the main menu...")
			fmt.Fprintln(c.out)
			return
		default:
			c.reportError("Invalid command. Please try again.")
		}
	}
}

func (c *Interface) renderMenu() {
	ui.ClearScreen(c.out)
	ui.Header(c.out, false)
	c.sectionHeader("COORDINATOR INTERFACE")

	fmt.Fprintln(c.out, ui.RenderTable(
		[]string{"Command", "Action"},
		[][]string{
			{"1", "Create new camp"},
			{"2", "View dashboard"},
			{"3", "View notifications"},
			{"4", "Camp visualisations"},
			{"5", "Back to Main Menu"},
		},
	))

	unread, err := c.unreadNotificationCount()
	if err != nil {
		c.logger.Warn().Err(err).Msg("could not count notifications")
		return
	}
	if unread > 0 {
		fmt.Fprintln(c.out)
		fmt.Fprintln(c.out, ui.AccentStyle.Render(
			fmt.Sprintf("You have %d unread notification(s).", unread)))
	}
}

func (c *Interface) unreadNotificationCount() (int, error) {
	notifications, err := c.store.NotificationsFor(c.user.ID)
	if err != nil {
		return 0, err
	}
	unread := 0
	for _, n := range notifications {
		if !n.IsRead {
			unread++
		}
	}
	return unread, nil
}

func (c *Interface) sectionHeader(title string) {
	rule := strings.Repeat("═", ui.TerminalWidth)
	fmt.Fprintln(c.out, rule)
	fmt.Fprintln(c.out, ui.Center(" "+title+" ", ui.TerminalWidth))
	fmt.Fprintln(c.out, rule)
}

func (c *Interface) readLine(prompt string) (string, bool) {
	fmt.Fprint(c.out, prompt)
	if !c.in.Scan() {
		return "", false
	}
	return c.in.Text(), true
}

// pressEnter shows a message and waits for the coordinator to acknowledge it.
func (c *Interface) pressEnter(message string) {
	fmt.Fprintln(c.out, message)
	fmt.Fprint(c.out, "Press Enter to continue...")
	c.in.Scan()
	fmt.Fprintln(c.out)
}

func (c *Interface) reportError(message string) {
	c.pressEnter(ui.ErrorStyle.Render("Error: " + message))
}

func (c *Interface) reportSuccess(message string) {
	c.pressEnter(ui.SuccessStyle.Render("Success: " + message))
}

// leaderName resolves a camp's leader to a display name.
func (c *Interface) leaderName(leaderID *int64) string {
	if leaderID == nil {
		return "Unassigned"
	}
	leader, err := c.store.GetUserByID(*leaderID)
	if err != nil {
		c.logger.Warn().Err(err).Int64("leader_id", *leaderID).Msg("could not resolve leader")
		return fmt.Sprintf("#%d", *leaderID)
	}
	return leader.Username
}

// daysLeft counts the remaining camp days including today, never below one.
// A camp on its final day still needs one day of food.
func daysLeft(today time.Time, endDate string) int {
	end, err := time.Parse("2006-01-02", endDate)
	if err != nil {
		return 1
	}
	days := int(end.Sub(today.Truncate(24*time.Hour)).Hours() / 24)
	if days < 1 {
		return 1
	}
	return days
}
