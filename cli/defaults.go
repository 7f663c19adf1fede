package cli

import (
	"fmt"
	"time"

	"github.com/laluke1/camptrack/auth"
	"github.com/laluke1/camptrack/storage"
)

// defaultAccounts are the stock accounts created on a fresh database. They
// start with an empty password; an admin is expected to set real ones.
var defaultAccounts = []struct {
	username string
	role     string
}{
	{"admin", storage.RoleAdmin},
	{"coordinator", storage.RoleCoordinator},
	{"leader1", storage.RoleLeader},
	{"leader2", storage.RoleLeader},
	{"leader3", storage.RoleLeader},
}

// EnsureDefaultUsers creates the stock accounts when the user table is
// empty. It reports whether this was a first run.
func EnsureDefaultUsers(store *storage.Store) (bool, error) {
	count, err := store.CountUsers()
	if err != nil {
		return false, fmt.Errorf("count users: %w", err)
	}
	if count > 0 {
		return false, nil
	}

	emptyHash, err := auth.HashPassword("")
	if err != nil {
		return false, fmt.Errorf("hash default password: %w", err)
	}

	for _, account := range defaultAccounts {
		if _, err := store.CreateUser(account.username, emptyHash, account.role); err != nil {
			return false, fmt.Errorf("create default user %q: %w", account.username, err)
		}
	}
	return true, nil
}

// SeedDemo loads the sample dataset, attributing camps to the stock
// coordinator account.
func SeedDemo(store *storage.Store, today time.Time) error {
	coordinator, err := store.GetUserByUsername("coordinator")
	if err != nil {
		return fmt.Errorf("look up coordinator for demo seed: %w", err)
	}
	if err := store.SeedDemoData(coordinator.ID, today); err != nil {
		return fmt.Errorf("seed demo data: %w", err)
	}
	return nil
}
