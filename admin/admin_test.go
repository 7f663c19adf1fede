package admin

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/laluke1/camptrack/auth"
	"github.com/laluke1/camptrack/storage"
)

func newTestStore(t *testing.T) *storage.Store {
	t.Helper()

	store, _, err := storage.Open(t.TempDir())
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Fatalf("close test store: %v", err)
		}
	})

	return store
}

func createUser(t *testing.T, store *storage.Store, username, role string) *storage.User {
	t.Helper()

	user, err := store.CreateUser(username, "hash", role)
	if err != nil {
		t.Fatalf("create user %q: %v", username, err)
	}
	return user
}

func runAdmin(t *testing.T, store *storage.Store, admin *storage.User, script string) string {
	t.Helper()

	var out bytes.Buffer
	iface, err := New(store, admin, strings.NewReader(script), &out, zerolog.Nop())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	iface.Run()

	return out.String()
}

func TestNewRejectsNonAdmin(t *testing.T) {
	store := newTestStore(t)
	leader := createUser(t, store, "leader", storage.RoleLeader)

	if _, err := New(store, leader, strings.NewReader(""), &bytes.Buffer{}, zerolog.Nop()); err == nil {
		t.Fatal("expected non-admin to be rejected")
	}
}

func TestCreateUserFlow(t *testing.T) {
	store := newTestStore(t)
	admin := createUser(t, store, "admin", storage.RoleAdmin)

	out := runAdmin(t, store, admin, "1\nnewleader\nleader\npw\npw\n\n6\n")
	if !strings.Contains(out, "User created.") {
		t.Fatalf("expected creation notice, got:\n%s", out)
	}

	user, err := store.GetUserByUsername("newleader")
	if err != nil {
		t.Fatalf("created user not found: %v", err)
	}
	if user.Role != storage.RoleLeader {
		t.Fatalf("unexpected role %q", user.Role)
	}
	if !auth.VerifyPassword("pw", user.PasswordHash) {
		t.Fatal("stored hash does not verify the chosen password")
	}
}

func TestCreateUserRejectsDuplicateAndBadRole(t *testing.T) {
	store := newTestStore(t)
	admin := createUser(t, store, "admin", storage.RoleAdmin)
	createUser(t, store, "taken", storage.RoleLeader)

	out := runAdmin(t, store, admin, "1\ntaken\n\n6\n")
	if !strings.Contains(out, `Username "taken" exists.`) {
		t.Fatalf("expected duplicate notice, got:\n%s", out)
	}

	out = runAdmin(t, store, admin, "1\nsomeone\nadmin\n\n6\n")
	if !strings.Contains(out, "Invalid type.") {
		t.Fatalf("expected role rejection, got:\n%s", out)
	}
	if _, err := store.GetUserByUsername("someone"); err == nil {
		t.Fatal("rejected user must not be created")
	}
}

func TestCreateUserRejectsNonmatchingPasswords(t *testing.T) {
	store := newTestStore(t)
	admin := createUser(t, store, "admin", storage.RoleAdmin)

	out := runAdmin(t, store, admin, "1\nnew\nleader\npw1\npw2\n\n6\n")
	if !strings.Contains(out, "Nonmatching passwords.") {
		t.Fatalf("expected mismatch notice, got:\n%s", out)
	}
	if _, err := store.GetUserByUsername("new"); err == nil {
		t.Fatal("user must not be created on password mismatch")
	}
}

func TestListUsersShowsStatsAndSearch(t *testing.T) {
	store := newTestStore(t)
	admin := createUser(t, store, "admin", storage.RoleAdmin)
	createUser(t, store, "bob", storage.RoleLeader)
	createUser(t, store, "carol", storage.RoleCoordinator)

	out := runAdmin(t, store, admin, "2\ns\nbob\nb\n6\n")
	if !strings.Contains(out, "Results for: all users") {
		t.Fatalf("expected unfiltered listing first, got:\n%s", out)
	}
	if !strings.Contains(out, `Results for: "bob"`) {
		t.Fatalf("expected filtered listing, got:\n%s", out)
	}
	if !strings.Contains(out, "STATISTICS") {
		t.Fatalf("expected stats block, got:\n%s", out)
	}
}

func TestEditRoleFlow(t *testing.T) {
	store := newTestStore(t)
	admin := createUser(t, store, "admin", storage.RoleAdmin)
	createUser(t, store, "bob", storage.RoleLeader)

	runAdmin(t, store, admin, "3\nbob\n3\ncoordinator\n\n6\n")

	user, err := store.GetUserByUsername("bob")
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if user.Role != storage.RoleCoordinator {
		t.Fatalf("expected role change, got %q", user.Role)
	}
}

func TestDeleteUserRequiresExactConfirmation(t *testing.T) {
	store := newTestStore(t)
	admin := createUser(t, store, "admin", storage.RoleAdmin)
	createUser(t, store, "bob", storage.RoleLeader)

	runAdmin(t, store, admin, "4\nbob\nDELETE wrong\n\n6\n")
	if _, err := store.GetUserByUsername("bob"); err != nil {
		t.Fatal("user must survive a failed confirmation")
	}

	runAdmin(t, store, admin, "4\nbob\nDELETE bob\n\n6\n")
	if _, err := store.GetUserByUsername("bob"); err == nil {
		t.Fatal("user must be deleted after exact confirmation")
	}
}

func TestAdminAccountsCannotBeModified(t *testing.T) {
	store := newTestStore(t)
	admin := createUser(t, store, "admin", storage.RoleAdmin)
	createUser(t, store, "root2", storage.RoleAdmin)

	out := runAdmin(t, store, admin, "4\nroot2\n\n6\n")
	if !strings.Contains(out, "Only coordinators and leaders can be modified.") {
		t.Fatalf("expected guard notice, got:\n%s", out)
	}
	if _, err := store.GetUserByUsername("root2"); err != nil {
		t.Fatal("admin account must survive")
	}
}

func TestToggleDisabledFlow(t *testing.T) {
	store := newTestStore(t)
	admin := createUser(t, store, "admin", storage.RoleAdmin)
	bob := createUser(t, store, "bob", storage.RoleLeader)

	runAdmin(t, store, admin, "5\nbob\ny\n\n6\n")

	user, err := store.GetUserByID(bob.ID)
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if !user.IsDisabled {
		t.Fatal("expected user disabled after toggle")
	}
}
