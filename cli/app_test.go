package cli

import (
	"bytes"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/laluke1/camptrack/auth"
	"github.com/laluke1/camptrack/config"
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

// byteReader delivers input one byte per Read so that the login prompt, the
// main menu, and each sub-interface consume exactly the lines addressed to
// them, the way a line-buffered terminal behaves.
type byteReader struct {
	r io.Reader
}

func (b byteReader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	return b.r.Read(p[:1])
}

func runApp(t *testing.T, store *storage.Store, script string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	app := &App{
		Store: store,
		Config: &config.AppConfig{
			PollIntervalMS:  10,
			ChatsPerPage:    3,
			MessagesPerPage: 10,
		},
		Logger: zerolog.Nop(),
		In:     byteReader{strings.NewReader(script)},
		Out:    &out,
	}
	err := app.Run()
	return out.String(), err
}

func TestEnsureDefaultUsers(t *testing.T) {
	store := newTestStore(t)

	firstRun, err := EnsureDefaultUsers(store)
	if err != nil {
		t.Fatalf("EnsureDefaultUsers failed: %v", err)
	}
	if !firstRun {
		t.Fatal("expected first run on an empty database")
	}

	count, err := store.CountUsers()
	if err != nil {
		t.Fatalf("count users: %v", err)
	}
	if count != 5 {
		t.Fatalf("expected 5 stock accounts, got %d", count)
	}

	admin, err := store.GetUserByUsername("admin")
	if err != nil {
		t.Fatalf("admin account missing: %v", err)
	}
	if admin.Role != storage.RoleAdmin {
		t.Fatalf("unexpected admin role %q", admin.Role)
	}
	if !auth.VerifyPassword("", admin.PasswordHash) {
		t.Fatal("stock accounts must start with an empty password")
	}

	// A second call leaves the table alone.
	firstRun, err = EnsureDefaultUsers(store)
	if err != nil {
		t.Fatalf("second EnsureDefaultUsers failed: %v", err)
	}
	if firstRun {
		t.Fatal("expected no-op on a populated database")
	}
	if count, _ := store.CountUsers(); count != 5 {
		t.Fatalf("account count changed to %d", count)
	}
}

func TestSeedDemoPopulatesCamps(t *testing.T) {
	store := newTestStore(t)

	if _, err := EnsureDefaultUsers(store); err != nil {
		t.Fatalf("EnsureDefaultUsers failed: %v", err)
	}
	if err := SeedDemo(store, time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)); err != nil {
		t.Fatalf("SeedDemo failed: %v", err)
	}

	camps, err := store.ListCamps()
	if err != nil {
		t.Fatalf("list camps: %v", err)
	}
	if len(camps) == 0 {
		t.Fatal("expected seeded camps")
	}
}

func TestAppLoginAndLogout(t *testing.T) {
	store := newTestStore(t)
	if _, err := EnsureDefaultUsers(store); err != nil {
		t.Fatalf("EnsureDefaultUsers failed: %v", err)
	}

	out, err := runApp(t, store, "admin\n\n3\n")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !strings.Contains(out, "Welcome, admin. You are logged in as an Admin.") {
		t.Fatalf("welcome line missing:\n%s", out)
	}
	if !strings.Contains(out, "Admin Interface") {
		t.Fatalf("role menu entry missing:\n%s", out)
	}
}

func TestAppRejectsRepeatedBadLogins(t *testing.T) {
	store := newTestStore(t)
	if _, err := EnsureDefaultUsers(store); err != nil {
		t.Fatalf("EnsureDefaultUsers failed: %v", err)
	}

	out, err := runApp(t, store, "admin\nwrong\nadmin\nwrong\nadmin\nwrong\n")
	if err == nil {
		t.Fatal("expected an error after three failed logins")
	}
	if !strings.Contains(out, "Login failed. Invalid username or password.") {
		t.Fatalf("failure notice missing:\n%s", out)
	}
}

func TestAppOpensRoleInterface(t *testing.T) {
	store := newTestStore(t)
	if _, err := EnsureDefaultUsers(store); err != nil {
		t.Fatalf("EnsureDefaultUsers failed: %v", err)
	}

	// Enter the coordinator interface, back out, then log out.
	out, err := runApp(t, store, "coordinator\n\n1\n5\n3\n")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !strings.Contains(out, "COORDINATOR INTERFACE") {
		t.Fatalf("coordinator interface missing:\n%s", out)
	}
	if !strings.Contains(out, "Returning to the main menu...") {
		t.Fatalf("return notice missing:\n%s", out)
	}
}

func TestAppOpensMessages(t *testing.T) {
	store := newTestStore(t)
	if _, err := EnsureDefaultUsers(store); err != nil {
		t.Fatalf("EnsureDefaultUsers failed: %v", err)
	}

	out, err := runApp(t, store, "leader1\n\n2\nq\n3\n")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !strings.Contains(out, "Exiting chat interface...") {
		t.Fatalf("chat exit notice missing:\n%s", out)
	}
}

func TestAppInvalidCommandRecovers(t *testing.T) {
	store := newTestStore(t)
	if _, err := EnsureDefaultUsers(store); err != nil {
		t.Fatalf("EnsureDefaultUsers failed: %v", err)
	}

	out, err := runApp(t, store, "admin\n\n9\n\n3\n")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !strings.Contains(out, "Invalid command. Please try again") {
		t.Fatalf("invalid command notice missing:\n%s", out)
	}
}
