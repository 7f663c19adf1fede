// Package cli wires the application together: startup, login, and the
// role-dispatched main menu.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/laluke1/camptrack/admin"
	"github.com/laluke1/camptrack/auth"
	"github.com/laluke1/camptrack/chat"
	"github.com/laluke1/camptrack/config"
	"github.com/laluke1/camptrack/coordinator"
	"github.com/laluke1/camptrack/leader"
	"github.com/laluke1/camptrack/storage"
	"github.com/laluke1/camptrack/ui"
)

// App holds everything the interactive session needs. In and Out are the
// user's terminal; tests substitute scripted readers and buffers.
type App struct {
	Store  *storage.Store
	Config *config.AppConfig
	Logger zerolog.Logger
	In     io.Reader
	Out    io.Writer
}

// Run takes the user through login and the main menu, returning when the
// user logs out. A failed login is returned as an error so the process can
// exit nonzero.
func (a *App) Run() error {
	ui.ClearScreen(a.Out)
	ui.Header(a.Out, true)

	session, err := auth.Login(a.Store, a.In, a.Out)
	if err != nil {
		a.Logger.Warn().Err(err).Msg("login failed")
		return fmt.Errorf("login: %w", err)
	}
	a.Logger.Info().Str("username", session.User.Username).Str("role", session.User.Role).Msg("user logged in")

	a.sessionLoop(session)
	return nil
}

// sessionLoop is the role-dispatched main menu. A failure inside a role
// interface is reported and the menu redrawn rather than ending the session.
//
// Each interface layers its own bufio.Scanner over the shared In reader.
// That requires reads to stop at line boundaries: a terminal delivers input
// line by line, and test readers must do the same, or one scanner buffers
// lines meant for the next.
func (a *App) sessionLoop(session *auth.Session) {
	scanner := bufio.NewScanner(a.In)
	user := session.User

	for {
		a.renderMainMenu(user)

		fmt.Fprint(a.Out, "Enter command (1-3): ")
		if !scanner.Scan() {
			return
		}

		switch strings.TrimSpace(scanner.Text()) {
		case "1":
			if err := a.openRoleInterface(user); err != nil {
				a.Logger.Error().Err(err).Str("username", user.Username).Msg("role interface failed")
				fmt.Fprintln(a.Out)
				fmt.Fprintln(a.Out, ui.ErrorStyle.Render("An error occurred."))
				fmt.Fprintln(a.Out, "Returning to the main menu...")
			}
		case "2":
			a.Logger.Debug().Str("username", user.Username).Msg("opening messages")
			chat.NewSession(a.Store, user, a.In, a.Out, a.Logger, chat.Options{
				ChatsPerPage:    a.Config.ChatsPerPage,
				MessagesPerPage: a.Config.MessagesPerPage,
				PollInterval:    time.Duration(a.Config.PollIntervalMS) * time.Millisecond,
			}).Run()
		case "3":
			a.Logger.Info().Str("username", user.Username).Msg("user logging out")
			auth.Logout(session, a.Out)
			return
		default:
			fmt.Fprintln(a.Out, "Invalid command. Please try again")
			fmt.Fprint(a.Out, "Press Enter to continue...")
			scanner.Scan()
		}
	}
}

func (a *App) renderMainMenu(user *storage.User) {
	ui.ClearScreen(a.Out)
	ui.Header(a.Out, true)

	rule := strings.Repeat("═", ui.TerminalWidth)
	fmt.Fprintln(a.Out, rule)
	fmt.Fprintln(a.Out, ui.Center(
		fmt.Sprintf(" Main Menu - %s (%s) ", user.Username, user.RoleTitle()),
		ui.TerminalWidth))
	fmt.Fprintln(a.Out, rule)
	fmt.Fprintln(a.Out)

	var roleRow []string
	switch user.Role {
	case storage.RoleAdmin:
		roleRow = []string{"1", "Admin Interface", "Manage users"}
	case storage.RoleCoordinator:
		roleRow = []string{"1", "Coordinator Interface", "Manage camp logistics"}
	default:
		roleRow = []string{"1", "Leader Interface", "Manage scouts and camp activities"}
	}

	fmt.Fprintln(a.Out, ui.RenderTable(
		[]string{"Command", "Function", "Description"},
		[][]string{
			roleRow,
			{"2", "Messages", "Direct chat messaging system"},
			{"3", "Logout", "Exit CampTrack"},
		},
	))
	fmt.Fprintln(a.Out)
}

func (a *App) openRoleInterface(user *storage.User) error {
	switch user.Role {
	case storage.RoleAdmin:
		iface, err := admin.New(a.Store, user, a.In, a.Out, a.Logger)
		if err != nil {
			return err
		}
		iface.Run()
	case storage.RoleCoordinator:
		iface, err := coordinator.New(a.Store, user, a.In, a.Out, a.Logger)
		if err != nil {
			return err
		}
		iface.Run()
	case storage.RoleLeader:
		iface, err := leader.New(a.Store, user, a.In, a.Out, a.Logger)
		if err != nil {
			return err
		}
		iface.Run()
	default:
		return fmt.Errorf("unrecognized user role %q", user.Role)
	}
	return nil
}
