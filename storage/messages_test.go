package storage

import (
	"testing"
)

// setMessageTime pins a message's created_at so conversation-ordering tests
// do not depend on the one-second resolution of datetime('now').
func setMessageTime(t *testing.T, store *Store, messageID int64, timestamp string) {
	t.Helper()

	if _, err := store.db.Exec(
		`UPDATE messages SET created_at = ? WHERE id = ?`,
		timestamp, messageID,
	); err != nil {
		t.Fatalf("set message time: %v", err)
	}
}

func latestMessageID(t *testing.T, store *Store) int64 {
	t.Helper()

	var id int64
	if err := store.db.QueryRow(`SELECT MAX(id) FROM messages`).Scan(&id); err != nil {
		t.Fatalf("read latest message id: %v", err)
	}
	return id
}

func TestInsertMessageRejectsEmptyBody(t *testing.T) {
	store := newTestStore(t)
	alice := mustCreateUser(t, store, "alice", RoleLeader)
	bob := mustCreateUser(t, store, "bob", RoleLeader)

	for _, body := range []string{"", "   ", "\t\n"} {
		if err := store.InsertMessage(alice.ID, bob.ID, body); err == nil {
			t.Fatalf("expected empty body %q to be rejected", body)
		}
	}

	count, err := store.CountMessagesBetween(alice.ID, bob.ID)
	if err != nil {
		t.Fatalf("CountMessagesBetween failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected no rows, got %d", count)
	}
}

func TestUnreadCountTracksReadState(t *testing.T) {
	store := newTestStore(t)
	alice := mustCreateUser(t, store, "alice", RoleLeader)
	bob := mustCreateUser(t, store, "bob", RoleLeader)
	carol := mustCreateUser(t, store, "carol", RoleCoordinator)

	mustSendMessage(t, store, bob.ID, alice.ID, "hi alice")
	mustSendMessage(t, store, bob.ID, alice.ID, "are you there?")
	mustSendMessage(t, store, carol.ID, alice.ID, "logistics question")

	unread, err := store.UnreadCount(alice.ID, bob.ID)
	if err != nil {
		t.Fatalf("UnreadCount failed: %v", err)
	}
	if unread != 2 {
		t.Fatalf("expected 2 unread from bob, got %d", unread)
	}

	// Opening the chat with bob marks his messages read; carol's stay unread.
	if err := store.MarkConversationRead(bob.ID, alice.ID); err != nil {
		t.Fatalf("MarkConversationRead failed: %v", err)
	}

	unread, err = store.UnreadCount(alice.ID, bob.ID)
	if err != nil {
		t.Fatalf("UnreadCount failed: %v", err)
	}
	if unread != 0 {
		t.Fatalf("expected 0 unread from bob after open, got %d", unread)
	}

	unread, err = store.UnreadCount(alice.ID, carol.ID)
	if err != nil {
		t.Fatalf("UnreadCount failed: %v", err)
	}
	if unread != 1 {
		t.Fatalf("expected carol's unread untouched, got %d", unread)
	}
}

func TestMarkMessageReadIsIdempotent(t *testing.T) {
	store := newTestStore(t)
	alice := mustCreateUser(t, store, "alice", RoleLeader)
	bob := mustCreateUser(t, store, "bob", RoleLeader)

	mustSendMessage(t, store, bob.ID, alice.ID, "hello")
	id := latestMessageID(t, store)

	if err := store.MarkMessageRead(id); err != nil {
		t.Fatalf("first MarkMessageRead failed: %v", err)
	}
	if err := store.MarkMessageRead(id); err != nil {
		t.Fatalf("repeated MarkMessageRead failed: %v", err)
	}

	messages, err := store.MessagesBetween(alice.ID, bob.ID, 10, 0)
	if err != nil {
		t.Fatalf("MessagesBetween failed: %v", err)
	}
	if len(messages) != 1 || !messages[0].IsRead {
		t.Fatalf("expected one read message, got %+v", messages)
	}
}

func TestMessagesBetweenWindowsAscendingAndDisjoint(t *testing.T) {
	store := newTestStore(t)
	alice := mustCreateUser(t, store, "alice", RoleLeader)
	bob := mustCreateUser(t, store, "bob", RoleLeader)

	for i := 0; i < 25; i++ {
		sender, recipient := alice.ID, bob.ID
		if i%2 == 1 {
			sender, recipient = bob.ID, alice.ID
		}
		mustSendMessage(t, store, sender, recipient, "message")
	}

	seen := make(map[int64]bool)
	var prevWindowMin int64

	for offset := 0; offset < 25; offset += 10 {
		window, err := store.MessagesBetween(alice.ID, bob.ID, 10, offset)
		if err != nil {
			t.Fatalf("MessagesBetween offset %d failed: %v", offset, err)
		}

		for i := 1; i < len(window); i++ {
			if window[i].ID <= window[i-1].ID {
				t.Fatalf("window not ascending at offset %d: %+v", offset, window)
			}
		}
		for _, m := range window {
			if seen[m.ID] {
				t.Fatalf("message %d returned twice", m.ID)
			}
			seen[m.ID] = true
		}

		// Each later window is strictly older than everything before it.
		if prevWindowMin != 0 && len(window) > 0 {
			if window[len(window)-1].ID >= prevWindowMin {
				t.Fatalf("offset %d window not strictly older than previous", offset)
			}
		}
		if len(window) > 0 {
			prevWindowMin = window[0].ID
		}
	}

	if len(seen) != 25 {
		t.Fatalf("expected windows to cover 25 messages, covered %d", len(seen))
	}
}

func TestMessagesAfterReturnsBothDirectionsAscending(t *testing.T) {
	store := newTestStore(t)
	alice := mustCreateUser(t, store, "alice", RoleLeader)
	bob := mustCreateUser(t, store, "bob", RoleLeader)
	carol := mustCreateUser(t, store, "carol", RoleCoordinator)

	mustSendMessage(t, store, alice.ID, bob.ID, "one")
	watermark := latestMessageID(t, store)

	mustSendMessage(t, store, bob.ID, alice.ID, "two")
	mustSendMessage(t, store, alice.ID, bob.ID, "three")
	mustSendMessage(t, store, carol.ID, alice.ID, "unrelated")

	newer, err := store.MessagesAfter(alice.ID, bob.ID, watermark)
	if err != nil {
		t.Fatalf("MessagesAfter failed: %v", err)
	}
	if len(newer) != 2 {
		t.Fatalf("expected 2 newer messages, got %d", len(newer))
	}
	if newer[0].Body != "two" || newer[1].Body != "three" {
		t.Fatalf("unexpected poll batch: %+v", newer)
	}
	if newer[0].ID >= newer[1].ID {
		t.Fatal("poll batch not ascending by id")
	}
	if newer[0].SenderUsername != "bob" {
		t.Fatalf("expected sender username joined, got %q", newer[0].SenderUsername)
	}
}

func TestConversationsOrderingAndUnread(t *testing.T) {
	store := newTestStore(t)
	alice := mustCreateUser(t, store, "alice", RoleLeader)
	bob := mustCreateUser(t, store, "bob", RoleLeader)
	carol := mustCreateUser(t, store, "carol", RoleCoordinator)

	mustSendMessage(t, store, bob.ID, alice.ID, "old thread")
	setMessageTime(t, store, latestMessageID(t, store), "2025-01-01 10:00:00")
	mustSendMessage(t, store, carol.ID, alice.ID, "newer thread")
	setMessageTime(t, store, latestMessageID(t, store), "2025-01-02 10:00:00")
	mustSendMessage(t, store, carol.ID, alice.ID, "latest in thread")
	setMessageTime(t, store, latestMessageID(t, store), "2025-01-03 10:00:00")

	conversations, err := store.Conversations(alice.ID, 0, 0)
	if err != nil {
		t.Fatalf("Conversations failed: %v", err)
	}
	if len(conversations) != 2 {
		t.Fatalf("expected 2 conversations, got %d", len(conversations))
	}

	if conversations[0].PartnerID != carol.ID {
		t.Fatalf("expected carol first (most recent), got %+v", conversations[0])
	}
	if conversations[0].LastMessage != "latest in thread" {
		t.Fatalf("expected latest message surfaced, got %q", conversations[0].LastMessage)
	}
	if conversations[0].UnreadCount != 2 {
		t.Fatalf("expected 2 unread from carol, got %d", conversations[0].UnreadCount)
	}
	if conversations[1].PartnerID != bob.ID || conversations[1].UnreadCount != 1 {
		t.Fatalf("unexpected second conversation: %+v", conversations[1])
	}
	if conversations[0].PartnerRole != RoleCoordinator {
		t.Fatalf("expected partner role joined, got %q", conversations[0].PartnerRole)
	}
}

func TestConversationsHideDisabledPartners(t *testing.T) {
	store := newTestStore(t)
	alice := mustCreateUser(t, store, "alice", RoleLeader)
	bob := mustCreateUser(t, store, "bob", RoleLeader)

	mustSendMessage(t, store, bob.ID, alice.ID, "hello")

	if err := store.SetUserDisabled(bob.ID, true); err != nil {
		t.Fatalf("disable bob: %v", err)
	}

	conversations, err := store.Conversations(alice.ID, 0, 0)
	if err != nil {
		t.Fatalf("Conversations failed: %v", err)
	}
	if len(conversations) != 0 {
		t.Fatalf("disabled partner should disappear from list, got %+v", conversations)
	}

	total, err := store.CountConversations(alice.ID)
	if err != nil {
		t.Fatalf("CountConversations failed: %v", err)
	}
	if total != 0 {
		t.Fatalf("expected 0 countable conversations, got %d", total)
	}

	// The messages themselves are not deleted.
	count, err := store.CountMessagesBetween(alice.ID, bob.ID)
	if err != nil {
		t.Fatalf("CountMessagesBetween failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("messages should survive partner disablement, got %d", count)
	}

	// Re-enabling brings the conversation back.
	if err := store.SetUserDisabled(bob.ID, false); err != nil {
		t.Fatalf("re-enable bob: %v", err)
	}
	conversations, err = store.Conversations(alice.ID, 0, 0)
	if err != nil {
		t.Fatalf("Conversations failed: %v", err)
	}
	if len(conversations) != 1 {
		t.Fatalf("expected conversation back after re-enable, got %+v", conversations)
	}
}

func TestConversationsPagination(t *testing.T) {
	store := newTestStore(t)
	alice := mustCreateUser(t, store, "alice", RoleLeader)

	partners := []string{"u1", "u2", "u3", "u4", "u5"}
	for i, name := range partners {
		partner := mustCreateUser(t, store, name, RoleLeader)
		mustSendMessage(t, store, partner.ID, alice.ID, "hi from "+name)
		setMessageTime(t, store, latestMessageID(t, store),
			"2025-01-0"+string(rune('1'+i))+" 09:00:00")
	}

	total, err := store.CountConversations(alice.ID)
	if err != nil {
		t.Fatalf("CountConversations failed: %v", err)
	}
	if total != 5 {
		t.Fatalf("expected 5 conversations, got %d", total)
	}

	page1, err := store.Conversations(alice.ID, 3, 0)
	if err != nil {
		t.Fatalf("Conversations page 1 failed: %v", err)
	}
	page2, err := store.Conversations(alice.ID, 3, 3)
	if err != nil {
		t.Fatalf("Conversations page 2 failed: %v", err)
	}
	if len(page1) != 3 || len(page2) != 2 {
		t.Fatalf("unexpected page sizes: %d, %d", len(page1), len(page2))
	}

	// Most recently active first: u5 leads page 1.
	if page1[0].PartnerUsername != "u5" {
		t.Fatalf("expected u5 first, got %q", page1[0].PartnerUsername)
	}
	if page2[len(page2)-1].PartnerUsername != "u1" {
		t.Fatalf("expected u1 last, got %q", page2[len(page2)-1].PartnerUsername)
	}
}
