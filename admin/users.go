package admin

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/laluke1/camptrack/auth"
	"github.com/laluke1/camptrack/pagination"
	"github.com/laluke1/camptrack/storage"
	"github.com/laluke1/camptrack/ui"
)

func (a *Interface) createUser() {
	ui.ClearScreen(a.out)
	ui.Header(a.out, false)
	a.sectionHeader("CREATE NEW USER")

	fmt.Fprintln(a.out, "\nUser Roles:")
	fmt.Fprintln(a.out)
	fmt.Fprintln(a.out, ui.RenderTable(
		[]string{"Role", "Official Title", "Description"},
		[][]string{
			{storage.RoleCoordinator, "Logistics Coordinator", "Manages camp logistics/resources"},
			{storage.RoleLeader, "Scout Leader", "Supervises scouts and leads activities"},
		},
	))

	fmt.Fprintln(a.out, "\nEnter their details (blank to cancel):")

	username, ok := a.readLine("\n  Username: ")
	if !ok {
		return
	}
	username = strings.TrimSpace(username)
	if username == "" {
		a.pressEnter("Create User operation cancelled.")
		return
	}

	if _, err := a.store.GetUserByUsername(username); err == nil {
		a.reportError(fmt.Sprintf("Username %q exists.", username))
		return
	}

	role, ok := a.readLine("  Type (coordinator/leader): ")
	if !ok {
		return
	}
	role = strings.ToLower(strings.TrimSpace(role))
	if role != storage.RoleCoordinator && role != storage.RoleLeader {
		a.reportError("Invalid type.")
		return
	}

	// Empty passwords are allowed; the seeded default accounts start with
	// one and set a real password later.
	password, err := auth.PromptPassword(a.rawIn, a.in, a.out, "  Password: ")
	if err != nil {
		return
	}
	confirmation, err := auth.PromptPassword(a.rawIn, a.in, a.out, "  Enter password again: ")
	if err != nil {
		return
	}
	if password != confirmation {
		a.reportError("Nonmatching passwords.")
		return
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		a.logger.Error().Err(err).Msg("hash password")
		a.reportError("Failed creating user.")
		return
	}

	user, err := a.store.CreateUser(username, hash, role)
	if err != nil {
		a.logger.Error().Err(err).Str("username", username).Msg("create user")
		a.reportError("Failed creating user.")
		return
	}

	fmt.Fprintln(a.out)
	fmt.Fprintln(a.out, ui.SuccessStyle.Render("User created."))
	fmt.Fprintln(a.out, ui.RenderTable(
		[]string{"Field", "Value"},
		[][]string{
			{"Username", user.Username},
			{"Role", user.RoleTitle()},
			{"Status", userStatus(*user)},
		},
	))
	a.pressEnter("")
}

func (a *Interface) listUsers() {
	page := 1
	searchQuery := ""

	for {
		ui.ClearScreen(a.out)
		ui.Header(a.out, false)

		all, err := a.store.ListUsers(false)
		if err != nil {
			a.logger.Error().Err(err).Msg("list users")
			a.reportError("Could not load users.")
			return
		}

		users := all
		if searchQuery != "" {
			users = filterUsers(all, searchQuery)
		}

		if len(users) == 0 {
			a.sectionHeader("USERS")
			if searchQuery != "" {
				fmt.Fprintf(a.out, "\nNo users match %q.\n\n", searchQuery)
				searchQuery = ""
				a.pressEnter("")
				continue
			}
			fmt.Fprintln(a.out, "\nNo users found.")
			a.pressEnter("")
			return
		}

		pageUsers, resolved := pagination.Slice(users, page, usersPerPage)
		page = resolved.Number

		a.renderUsersTable(pageUsers, resolved, searchQuery)
		a.renderUserStats(users)
		a.renderListMenu(resolved)

		command, ok := a.readLine("\n>> Command: ")
		if !ok {
			return
		}
		command = strings.ToLower(strings.TrimSpace(command))

		if next, isNav := pagination.Apply(command, page, resolved.Total); isNav {
			page = next
			continue
		}

		switch command {
		case "s":
			query, ok := a.readLine("Search (username or role): ")
			if !ok {
				return
			}
			if query = strings.TrimSpace(query); query != "" {
				searchQuery = query
				page = 1
			}
		case "c":
			searchQuery = ""
			page = 1
		case "r":
			continue
		case "b":
			return
		default:
			a.pressEnter("Invalid command")
		}
	}
}

func (a *Interface) renderUsersTable(users []storage.User, page pagination.Page, searchQuery string) {
	resultsFor := "Results for: all users"
	if searchQuery != "" {
		resultsFor = fmt.Sprintf("Results for: %q", searchQuery)
	}

	rule := strings.Repeat("═", ui.TerminalWidth)
	fmt.Fprintln(a.out, rule)
	fmt.Fprintln(a.out, ui.Center(resultsFor, ui.TerminalWidth))
	fmt.Fprintln(a.out, ui.Center(
		fmt.Sprintf("Page %d/%d | Showing %d users", page.Number, page.Total, len(users)),
		ui.TerminalWidth,
	))
	fmt.Fprintln(a.out, rule)
	fmt.Fprintln(a.out)

	rows := make([][]string, 0, len(users))
	for _, user := range users {
		rows = append(rows, []string{
			strconv.FormatInt(user.ID, 10),
			user.Username,
			user.RoleTitle(),
			userStatus(user),
		})
	}
	fmt.Fprintln(a.out, ui.RenderTable([]string{"ID", "Username", "Role", "Status"}, rows))
}

func (a *Interface) renderUserStats(users []storage.User) {
	stats := map[string]int{}
	for _, user := range users {
		if user.IsDisabled {
			stats["disabled"]++
		} else {
			stats["enabled"]++
		}
		stats[user.Role]++
	}

	ui.Divider(a.out)
	fmt.Fprintln(a.out, ui.Center(" STATISTICS ", ui.TerminalWidth))
	ui.Divider(a.out)
	fmt.Fprintln(a.out, ui.RenderTable(
		[]string{"Total", "Enabled", "Disabled", "Admins", "Coordinators", "Leaders"},
		[][]string{{
			strconv.Itoa(len(users)),
			strconv.Itoa(stats["enabled"]),
			strconv.Itoa(stats["disabled"]),
			strconv.Itoa(stats[storage.RoleAdmin]),
			strconv.Itoa(stats[storage.RoleCoordinator]),
			strconv.Itoa(stats[storage.RoleLeader]),
		}},
	))
}

func (a *Interface) renderListMenu(page pagination.Page) {
	ui.Divider(a.out)
	fmt.Fprintln(a.out, "[P] Previous      [N] Next")
	fmt.Fprintln(a.out, "[F] First         [L] Last")
	fmt.Fprintln(a.out, "[G #] Go to page  [S] Search")
	fmt.Fprintln(a.out, "[C] Clear search  [R] Refresh")
	fmt.Fprintf(a.out, "[B] Back to menu  Page %d/%d\n", page.Number, page.Total)
	ui.Divider(a.out)
}

// filterUsers matches the query against usernames and role titles.
func filterUsers(users []storage.User, query string) []storage.User {
	query = strings.ToLower(query)

	matched := make([]storage.User, 0, len(users))
	for _, user := range users {
		if strings.Contains(strings.ToLower(user.Username), query) ||
			strings.Contains(strings.ToLower(user.RoleTitle()), query) {
			matched = append(matched, user)
		}
	}
	return matched
}

func (a *Interface) editUser() {
	ui.ClearScreen(a.out)
	ui.Header(a.out, false)
	a.sectionHeader("EDIT USER")

	user := a.lookupModifiableUser("Edit User")
	if user == nil {
		return
	}

	fmt.Fprintln(a.out)
	fmt.Fprintln(a.out, ui.RenderTable(
		[]string{"Field", "Current Value"},
		[][]string{
			{"ID", strconv.FormatInt(user.ID, 10)},
			{"Username", user.Username},
			{"Role", user.RoleTitle()},
			{"Status", userStatus(*user)},
		},
	))
	fmt.Fprintln(a.out)
	fmt.Fprintln(a.out, ui.RenderTable(
		[]string{"Option", "Action"},
		[][]string{
			{"1", "Edit Username"},
			{"2", "Change Password"},
			{"3", "Change Role"},
			{"4", "Cancel"},
		},
	))

	command, ok := a.readLine("\nEnter command: ")
	if !ok {
		return
	}

	switch strings.TrimSpace(command) {
	case "1":
		a.editUsername(user)
	case "2":
		a.editPassword(user)
	case "3":
		a.editRole(user)
	case "4":
		a.pressEnter("Edit operation cancelled.")
	default:
		a.reportError("Invalid command.")
	}
}

func (a *Interface) editUsername(user *storage.User) {
	newUsername, ok := a.readLine("  New username: ")
	if !ok {
		return
	}
	newUsername = strings.TrimSpace(newUsername)
	if newUsername == "" {
		a.pressEnter("Invalid username.")
		return
	}

	if _, err := a.store.GetUserByUsername(newUsername); err == nil {
		a.reportError(fmt.Sprintf("Username %q already exists.", newUsername))
		return
	}

	user.Username = newUsername
	if err := a.store.UpdateUser(*user); err != nil {
		a.logger.Error().Err(err).Int64("user_id", user.ID).Msg("update username")
		a.reportError("Failed updating username.")
		return
	}
	a.reportSuccess(fmt.Sprintf("Username successfully updated to %q.", newUsername))
}

func (a *Interface) editPassword(user *storage.User) {
	newPassword, err := auth.PromptPassword(a.rawIn, a.in, a.out, "  New password: ")
	if err != nil {
		return
	}
	confirmation, err := auth.PromptPassword(a.rawIn, a.in, a.out, "  Confirm password: ")
	if err != nil {
		return
	}
	if newPassword != confirmation {
		a.reportError("Nonmatching passwords.")
		return
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		a.logger.Error().Err(err).Msg("hash password")
		a.reportError("Failed updating password.")
		return
	}

	user.PasswordHash = hash
	if err := a.store.UpdateUser(*user); err != nil {
		a.logger.Error().Err(err).Int64("user_id", user.ID).Msg("update password")
		a.reportError("Failed updating password.")
		return
	}
	a.reportSuccess("Password updated successfully.")
}

func (a *Interface) editRole(user *storage.User) {
	newRole, ok := a.readLine("  New role (coordinator/leader): ")
	if !ok {
		return
	}
	newRole = strings.ToLower(strings.TrimSpace(newRole))

	if (newRole != storage.RoleCoordinator && newRole != storage.RoleLeader) || newRole == user.Role {
		a.pressEnter("The user's role was not changed")
		return
	}

	user.Role = newRole
	if err := a.store.UpdateUser(*user); err != nil {
		a.logger.Error().Err(err).Int64("user_id", user.ID).Msg("update role")
		a.reportError("Failed updating role.")
		return
	}
	a.reportSuccess(fmt.Sprintf("User role successfully updated to %s.", user.RoleTitle()))
}

func (a *Interface) deleteUser() {
	ui.ClearScreen(a.out)
	ui.Header(a.out, false)
	a.sectionHeader("DELETE USER")

	user := a.lookupModifiableUser("Delete User")
	if user == nil {
		return
	}

	fmt.Fprintln(a.out)
	fmt.Fprintln(a.out, ui.RenderTable(
		[]string{"Field", "Value"},
		[][]string{
			{"ID", strconv.FormatInt(user.ID, 10)},
			{"Username", user.Username},
			{"Role", user.RoleTitle()},
			{"Status", userStatus(*user)},
		},
	))

	confirmation, ok := a.readLine(fmt.Sprintf("\nEnter \"DELETE %s\" for confirmation: ", user.Username))
	if !ok {
		return
	}
	if strings.TrimSpace(confirmation) != "DELETE "+user.Username {
		a.pressEnter("Delete User operation cancelled.")
		return
	}

	if err := a.store.DeleteUser(user.ID); err != nil {
		a.logger.Error().Err(err).Int64("user_id", user.ID).Msg("delete user")
		a.reportError("Failed deleting user.")
		return
	}
	a.reportSuccess(fmt.Sprintf("User %q has been successfully deleted.", user.Username))
}

func (a *Interface) toggleDisabled() {
	ui.ClearScreen(a.out)
	ui.Header(a.out, false)
	a.sectionHeader("DISABLE/ENABLE USER")

	user := a.lookupModifiableUser("Toggle Disable/Enable")
	if user == nil {
		return
	}

	updatedStatus := "Disabled"
	action := "Disable"
	if user.IsDisabled {
		updatedStatus = "Enabled"
		action = "Enable"
	}

	fmt.Fprintln(a.out)
	fmt.Fprintln(a.out, ui.RenderTable(
		[]string{"Field", "Value"},
		[][]string{
			{"Username", user.Username},
			{"Role", user.RoleTitle()},
			{"Current Status", userStatus(*user)},
			{"New Status", updatedStatus},
		},
	))

	confirm, ok := a.readLine(fmt.Sprintf("\n%s this user? (y/n): ", action))
	if !ok {
		return
	}
	if strings.ToLower(strings.TrimSpace(confirm)) != "y" {
		a.pressEnter("Toggle Disable/Enable operation cancelled.")
		return
	}

	if err := a.store.SetUserDisabled(user.ID, !user.IsDisabled); err != nil {
		a.logger.Error().Err(err).Int64("user_id", user.ID).Msg("toggle disabled")
		a.reportError("Failed updating user.")
		return
	}
	a.reportSuccess(fmt.Sprintf("User %q is now %s.", user.Username, updatedStatus))
}

// lookupModifiableUser prompts for a username and rejects anything an admin
// may not modify. Admin accounts, including the admin's own, are off limits.
func (a *Interface) lookupModifiableUser(operation string) *storage.User {
	username, ok := a.readLine("Enter username (blank to cancel): ")
	if !ok {
		return nil
	}
	username = strings.TrimSpace(username)
	if username == "" {
		a.pressEnter(operation + " operation cancelled.")
		return nil
	}

	user, err := a.store.GetUserByUsername(username)
	if err != nil {
		a.reportError(fmt.Sprintf("User %q does not exist.", username))
		return nil
	}

	if user.Role != storage.RoleCoordinator && user.Role != storage.RoleLeader {
		a.reportError("Only coordinators and leaders can be modified.")
		return nil
	}

	return user
}
