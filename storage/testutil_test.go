package storage

import (
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	dataDir := t.TempDir()
	store, _, err := Open(dataDir)
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

func mustCreateUser(t *testing.T, store *Store, username, role string) *User {
	t.Helper()

	user, err := store.CreateUser(username, "hash-"+username, role)
	if err != nil {
		t.Fatalf("create user %q: %v", username, err)
	}
	return user
}

func mustSendMessage(t *testing.T, store *Store, senderID, recipientID int64, body string) {
	t.Helper()

	if err := store.InsertMessage(senderID, recipientID, body); err != nil {
		t.Fatalf("send message %q: %v", body, err)
	}
}

func mustCreateCamp(t *testing.T, store *Store, camp Camp) *Camp {
	t.Helper()

	created, err := store.CreateCamp(camp)
	if err != nil {
		t.Fatalf("create camp %q: %v", camp.Name, err)
	}
	return created
}
