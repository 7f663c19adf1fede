package chat

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/laluke1/camptrack/pagination"
	"github.com/laluke1/camptrack/storage"
	"github.com/laluke1/camptrack/ui"
)

const usersPerPage = 10

// browseUsers shows every enabled account the user can message, ten per
// page, and lets them open a chat by number. Storage failures are returned
// so the caller can shut the interface down.
func (s *Session) browseUsers() error {
	page := 1

	for {
		ui.ClearScreen(s.out)
		ui.Header(s.out, true)
		s.renderMenuBanner()

		users, err := s.store.ActiveUsers(s.user.ID)
		if err != nil {
			return fmt.Errorf("list users: %w", err)
		}

		pageUsers, resolved := pagination.Slice(users, page, usersPerPage)
		page = resolved.Number

		fmt.Fprintf(s.out, "Users (Page %d/%d)\n", resolved.Number, resolved.Total)
		ui.Divider(s.out)
		for i, user := range pageUsers {
			fmt.Fprintf(s.out, "%2d. @%-16s [%s]\n", i+1, user.Username, user.RoleTitle())
		}
		ui.Divider(s.out)

		var commands []string
		if resolved.Number > 1 {
			commands = append(commands, "p - Previous")
		}
		if resolved.Number < resolved.Total {
			commands = append(commands, "n - Next")
		}
		commands = append(commands,
			fmt.Sprintf("# - Open chat [1-%d]", len(pageUsers)),
			fmt.Sprintf("%s - %s to main menu", ui.ErrorStyle.Render("b"), ui.ErrorStyle.Render("Back")),
		)
		fmt.Fprintf(s.out, "Commands: %s\n", strings.Join(commands, " | "))

		line, ok := s.readLine("\nEnter command: ")
		if !ok {
			return nil
		}
		command := strings.ToLower(strings.TrimSpace(line))

		switch command {
		case "p", "n", "f", "l":
			page, _ = pagination.Apply(command, page, resolved.Total)
		case "b":
			return nil
		default:
			if index, err := strconv.Atoi(command); err == nil {
				if index >= 1 && index <= len(pageUsers) {
					selected := pageUsers[index-1]
					return s.openChat(selected.ID, selected.Username)
				}
				continue
			}
			fmt.Fprintf(s.out, "Unrecognized command: %s\n", command)
		}
	}
}

// promptForRecipient asks for a username and resolves it against the
// enabled accounts.
func (s *Session) promptForRecipient() (*storage.User, bool, error) {
	users, err := s.store.ActiveUsers(s.user.ID)
	if err != nil {
		return nil, false, fmt.Errorf("list users: %w", err)
	}
	if len(users) == 0 {
		fmt.Fprintln(s.out, "No users to chat with")
		return nil, false, nil
	}

	line, ok := s.readLine("Enter their username: ")
	if !ok {
		return nil, false, nil
	}
	wanted := strings.TrimSpace(line)

	for i := range users {
		if users[i].Username == wanted {
			return &users[i], true, nil
		}
	}

	fmt.Fprintf(s.out, "User %s was not found...\n", wanted)
	return nil, false, nil
}
