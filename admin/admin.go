// Package admin is the account management interface for admin users.
package admin

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"github.com/laluke1/camptrack/storage"
	"github.com/laluke1/camptrack/ui"
)

// usersPerPage is the listing page size.
const usersPerPage = 5

// Interface drives the admin menu for one logged-in admin.
type Interface struct {
	store  *storage.Store
	user   *storage.User
	rawIn  io.Reader
	in     *bufio.Scanner
	out    io.Writer
	logger zerolog.Logger
}

// New builds the admin interface. The user must hold the admin role.
func New(store *storage.Store, user *storage.User, in io.Reader, out io.Writer, logger zerolog.Logger) (*Interface, error) {
	if user.Role != storage.RoleAdmin {
		return nil, errors.New("admin: user must be an admin")
	}

	return &Interface{
		store:  store,
		user:   user,
		rawIn:  in,
		in:     bufio.NewScanner(in),
		out:    out,
		logger: logger,
	}, nil
}

// Run is the admin command loop. It returns when the admin backs out.
func (a *Interface) Run() {
	for {
		a.renderMenu()

		command, ok := a.readLine("\n>> Command: ")
		if !ok {
			return
		}

		switch strings.TrimSpace(command) {
		case "1":
			a.createUser()
		case "2":
			a.listUsers()
		case "3":
			a.editUser()
		case "4":
			a.deleteUser()
		case "5":
			a.toggleDisabled()
		case "6":
			ui.ClearScreen(a.out)
			ui.Header(a.out, false)
			fmt.Fprintln(a.out, "Returning to the main menu...")
			fmt.Fprintln(a.out)
			return
		default:
			a.reportError("Invalid command. Please try again.")
		}
	}
}

func (a *Interface) renderMenu() {
	ui.ClearScreen(a.out)
	ui.Header(a.out, false)
	a.sectionHeader("ADMIN INTERFACE")

	fmt.Fprintln(a.out, ui.RenderTable(
		[]string{"Command", "Action"},
		[][]string{
			{"1", "Create user"},
			{"2", "List users"},
			{"3", "Edit user"},
			{"4", "Delete user"},
			{"5", "Enable/Disable user"},
			{"6", "Back to Main Menu"},
		},
	))
}

func (a *Interface) sectionHeader(title string) {
	rule := strings.Repeat("═", ui.TerminalWidth)
	fmt.Fprintln(a.out, rule)
	fmt.Fprintln(a.out, ui.Center(" "+title+" ", ui.TerminalWidth))
	fmt.Fprintln(a.out, rule)
}

func (a *Interface) readLine(prompt string) (string, bool) {
	fmt.Fprint(a.out, prompt)
	if !a.in.Scan() {
		return "", false
	}
	return a.in.Text(), true
}

// pressEnter shows a message and waits for the admin to acknowledge it.
func (a *Interface) pressEnter(message string) {
	fmt.Fprintln(a.out, message)
	fmt.Fprint(a.out, "Press Enter to continue...")
	a.in.Scan()
	fmt.Fprintln(a.out)
}

func (a *Interface) reportError(message string) {
	a.pressEnter(ui.ErrorStyle.Render("Error: " + message))
}

func (a *Interface) reportSuccess(message string) {
	a.pressEnter(ui.SuccessStyle.Render("Success: " + message))
}

func userStatus(user storage.User) string {
	if user.IsDisabled {
		return "Disabled"
	}
	return "Enabled"
}
