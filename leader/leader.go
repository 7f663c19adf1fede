// Package leader is the camp supervision interface for scout leader users.
package leader

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

// Interface drives the leader menus for one logged-in scout leader.
type Interface struct {
	store  *storage.Store
	user   *storage.User
	rawIn  io.Reader
	in     *bufio.Scanner
	out    io.Writer
	logger zerolog.Logger
	now    func() time.Time
}

// New builds the leader interface. The user must hold the leader role.
func New(store *storage.Store, user *storage.User, in io.Reader, out io.Writer, logger zerolog.Logger) (*Interface, error) {
	if user.Role != storage.RoleLeader {
		return nil, errors.New("leader: user must be a scout leader")
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

// Run is the leader command loop. It returns when the leader backs out.
func (l *Interface) Run() {
	for {
		l.renderMenu()

		command, ok := l.readLine("\n>> Command: ")
		if !ok {
			return
		}

		switch strings.ToLower(strings.TrimSpace(command)) {
		case "1":
			l.selectCampToSupervise()
		case "2":
			l.importCampersFlow()
		case "3":
			l.setDailyFood()
		case "4":
			l.createDailyLog()
		case "5":
			l.logParticipation()
		case "6":
			l.recordAttendance()
		case "7":
			l.logFoodUsage()
		case "8":
			l.showDashboard()
		case "q", "b":
			ui.ClearScreen(l.out)
			ui.Header(l.out, false)
			fmt.Fprintln(l.out, "Exiting leader interface...")
			fmt.Fprintln(l.out)
			return
		default:
			l.reportError("Invalid choice. Please try again.")
		}
	}
}

func (l *Interface) renderMenu() {
	ui.ClearScreen(l.out)
	ui.Header(l.out, false)
	l.sectionHeader("LEADER INTERFACE")

	fmt.Fprintln(l.out, ui.RenderTable(
		[]string{"Command", "Action"},
		[][]string{
			{"1", "Select a camp to supervise"},
			{"2", "Assign campers to my camps"},
			{"3", "Set food units per camper per day"},
			{"4", "Add daily log"},
			{"5", "Add activity participation"},
			{"6", "Record attendance"},
			{"7", "Log food usage"},
			{"8", "View dashboard"},
			{"Q", "Return to Main Menu"},
		},
	))
}

func (l *Interface) sectionHeader(title string) {
	rule := strings.Repeat("═", ui.TerminalWidth)
	fmt.Fprintln(l.out, rule)
	fmt.Fprintln(l.out, ui.Center(" "+title+" ", ui.TerminalWidth))
	fmt.Fprintln(l.out, rule)
}

func (l *Interface) readLine(prompt string) (string, bool) {
	fmt.Fprint(l.out, prompt)
	if !l.in.Scan() {
		return "", false
	}
	return l.in.Text(), true
}

// pressEnter shows a message and waits for the leader to acknowledge it.
func (l *Interface) pressEnter(message string) {
	fmt.Fprintln(l.out, message)
	fmt.Fprint(l.out, "Press Enter to continue...")
	l.in.Scan()
	fmt.Fprintln(l.out)
}

func (l *Interface) reportError(message string) {
	l.pressEnter(ui.ErrorStyle.Render("Error: " + message))
}

func (l *Interface) reportSuccess(message string) {
	l.pressEnter(ui.SuccessStyle.Render("Success: " + message))
}

func (l *Interface) today() string {
	return l.now().Format("2006-01-02")
}
