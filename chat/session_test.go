package chat

import (
	"bytes"
	"database/sql"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/laluke1/camptrack/storage"
)

func newTestStore(t *testing.T) *storage.Store {
	t.Helper()

	store, _ := newTestStoreAt(t)
	return store
}

func newTestStoreAt(t *testing.T) (*storage.Store, string) {
	t.Helper()

	store, dbPath, err := storage.Open(t.TempDir())
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Fatalf("close test store: %v", err)
		}
	})

	return store, dbPath
}

// dropMessagesTable pulls the messages table out from under an open store,
// so its next message query fails the way a corrupted database would.
func dropMessagesTable(t *testing.T, dbPath string) {
	t.Helper()

	raw, err := sql.Open("sqlite3", "file:"+dbPath+"?_busy_timeout=5000")
	if err != nil {
		t.Fatalf("open raw database: %v", err)
	}
	defer raw.Close()

	if _, err := raw.Exec("DROP TABLE messages"); err != nil {
		t.Fatalf("drop messages table: %v", err)
	}
}

func createUser(t *testing.T, store *storage.Store, username, role string) *storage.User {
	t.Helper()

	user, err := store.CreateUser(username, "hash", role)
	if err != nil {
		t.Fatalf("create user %q: %v", username, err)
	}
	return user
}

func sendMessage(t *testing.T, store *storage.Store, senderID, recipientID int64, body string) {
	t.Helper()

	if err := store.InsertMessage(senderID, recipientID, body); err != nil {
		t.Fatalf("send message %q: %v", body, err)
	}
}

// syncBuffer guards the render target because the chat poller writes from
// its own goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func runSession(t *testing.T, store *storage.Store, user *storage.User, script string) string {
	t.Helper()

	var out syncBuffer
	session := NewSession(store, user, strings.NewReader(script), &out, zerolog.Nop(), Options{
		PollInterval: 10 * time.Millisecond,
	})
	session.Run()

	return out.String()
}

func TestRunQuitsOnCommand(t *testing.T) {
	store := newTestStore(t)
	alice := createUser(t, store, "alice", storage.RoleLeader)

	out := runSession(t, store, alice, "q\n")
	if !strings.Contains(out, "Exiting chat interface...") {
		t.Fatalf("expected exit notice, got:\n%s", out)
	}
	if !strings.Contains(out, "No chats to display.") {
		t.Fatalf("expected empty chat list, got:\n%s", out)
	}
}

func TestRunExitsWhenInputEnds(t *testing.T) {
	store := newTestStore(t)
	alice := createUser(t, store, "alice", storage.RoleLeader)

	out := runSession(t, store, alice, "")
	if !strings.Contains(out, "Exiting chat interface...") {
		t.Fatalf("expected exit notice on exhausted input, got:\n%s", out)
	}
}

func TestMenuListsConversationsWithUnreadMarker(t *testing.T) {
	store := newTestStore(t)
	alice := createUser(t, store, "alice", storage.RoleLeader)
	bob := createUser(t, store, "bob", storage.RoleCoordinator)

	sendMessage(t, store, bob.ID, alice.ID, "supply question")
	sendMessage(t, store, bob.ID, alice.ID, "second question")

	out := runSession(t, store, alice, "q\n")
	if !strings.Contains(out, "bob") {
		t.Fatalf("expected bob in chat list, got:\n%s", out)
	}
	if !strings.Contains(out, "(2 unread)") {
		t.Fatalf("expected unread total, got:\n%s", out)
	}
	if !strings.Contains(out, "second question") {
		t.Fatalf("expected latest message snippet, got:\n%s", out)
	}
}

func TestOpeningChatMarksConversationRead(t *testing.T) {
	store := newTestStore(t)
	alice := createUser(t, store, "alice", storage.RoleLeader)
	bob := createUser(t, store, "bob", storage.RoleLeader)
	carol := createUser(t, store, "carol", storage.RoleCoordinator)

	sendMessage(t, store, bob.ID, alice.ID, "hello alice")
	sendMessage(t, store, carol.ID, alice.ID, "unrelated note")

	out := runSession(t, store, alice, "o\ncarol\n/b\nq\n")
	if !strings.Contains(out, "Chat with @carol") {
		t.Fatalf("expected chat with carol opened, got:\n%s", out)
	}

	// Only the opened conversation is marked read.
	unread, err := store.UnreadCount(alice.ID, carol.ID)
	if err != nil {
		t.Fatalf("UnreadCount failed: %v", err)
	}
	if unread != 0 {
		t.Fatalf("expected carol's messages read after open, got %d unread", unread)
	}

	unread, err = store.UnreadCount(alice.ID, bob.ID)
	if err != nil {
		t.Fatalf("UnreadCount failed: %v", err)
	}
	if unread != 1 {
		t.Fatalf("expected bob's message still unread, got %d", unread)
	}
}

func TestChatSendPersistsMessage(t *testing.T) {
	store := newTestStore(t)
	alice := createUser(t, store, "alice", storage.RoleLeader)
	bob := createUser(t, store, "bob", storage.RoleLeader)

	sendMessage(t, store, bob.ID, alice.ID, "hello")

	runSession(t, store, alice, "1\nhi bob\n/b\nq\n")

	messages, err := store.MessagesBetween(alice.ID, bob.ID, 10, 0)
	if err != nil {
		t.Fatalf("MessagesBetween failed: %v", err)
	}
	if len(messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(messages))
	}
	last := messages[len(messages)-1]
	if last.SenderID != alice.ID || last.Body != "hi bob" {
		t.Fatalf("unexpected stored message: %+v", last)
	}
}

func TestChatIgnoresBlankInput(t *testing.T) {
	store := newTestStore(t)
	alice := createUser(t, store, "alice", storage.RoleLeader)
	bob := createUser(t, store, "bob", storage.RoleLeader)

	sendMessage(t, store, bob.ID, alice.ID, "hello")

	runSession(t, store, alice, "1\n\n   \n/b\nq\n")

	count, err := store.CountMessagesBetween(alice.ID, bob.ID)
	if err != nil {
		t.Fatalf("CountMessagesBetween failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("blank input must not produce messages, got %d rows", count)
	}
}

func TestMoreLoadsStrictlyOlderWindows(t *testing.T) {
	store := newTestStore(t)
	alice := createUser(t, store, "alice", storage.RoleLeader)
	bob := createUser(t, store, "bob", storage.RoleLeader)

	for i := 1; i <= 25; i++ {
		sendMessage(t, store, bob.ID, alice.ID, fmt.Sprintf("message %d", i))
	}

	out := runSession(t, store, alice, "1\n/m\n/m\n/m\n/b\nq\n")

	if !strings.Contains(out, "== Showing most recent 10 of 25 messages ==") {
		t.Fatalf("expected initial window banner, got:\n%s", out)
	}
	if !strings.Contains(out, "-- Loading 10 older messages --") {
		t.Fatalf("expected first /more window, got:\n%s", out)
	}
	if !strings.Contains(out, "-- 5 older messages remaining (/more to load) --") {
		t.Fatalf("expected remaining notice, got:\n%s", out)
	}
	if !strings.Contains(out, "-- Loading 5 older messages --") {
		t.Fatalf("expected final /more window, got:\n%s", out)
	}
	if !strings.Contains(out, "-- All messages loaded --") {
		t.Fatalf("expected all-loaded notice, got:\n%s", out)
	}
	if !strings.Contains(out, "No older messages...") {
		t.Fatalf("expected exhausted notice, got:\n%s", out)
	}
}

func TestChatHelpListsCommands(t *testing.T) {
	store := newTestStore(t)
	alice := createUser(t, store, "alice", storage.RoleLeader)
	bob := createUser(t, store, "bob", storage.RoleLeader)

	sendMessage(t, store, bob.ID, alice.ID, "hello")

	out := runSession(t, store, alice, "1\n/help\n/b\nq\n")
	if !strings.Contains(out, "Go back to the main chat menu") {
		t.Fatalf("expected chat help, got:\n%s", out)
	}
}

func TestBrowseUsersOpensChatBySelection(t *testing.T) {
	store := newTestStore(t)
	alice := createUser(t, store, "alice", storage.RoleLeader)
	createUser(t, store, "bob", storage.RoleCoordinator)

	// Roles order coordinator before leader, so bob is entry 1.
	out := runSession(t, store, alice, "u\n1\nhello there\n/b\nq\n")
	if !strings.Contains(out, "Chat with @bob") {
		t.Fatalf("expected chat with bob, got:\n%s", out)
	}
}

func TestOpenChatByUsernamePrompt(t *testing.T) {
	store := newTestStore(t)
	alice := createUser(t, store, "alice", storage.RoleLeader)
	createUser(t, store, "bob", storage.RoleLeader)

	out := runSession(t, store, alice, "o\nbob\n/b\nq\n")
	if !strings.Contains(out, "Chat with @bob") {
		t.Fatalf("expected chat with bob, got:\n%s", out)
	}

	out = runSession(t, store, alice, "o\nnobody\nq\n")
	if !strings.Contains(out, "User nobody was not found...") {
		t.Fatalf("expected unknown-user notice, got:\n%s", out)
	}
}

func TestPollerRendersIncomingAndMarksRead(t *testing.T) {
	store := newTestStore(t)
	alice := createUser(t, store, "alice", storage.RoleLeader)
	bob := createUser(t, store, "bob", storage.RoleLeader)

	sendMessage(t, store, bob.ID, alice.ID, "opening line")

	reader, writer := io.Pipe()
	var out syncBuffer

	session := NewSession(store, alice, reader, &out, zerolog.Nop(), Options{
		PollInterval: 10 * time.Millisecond,
	})

	finished := make(chan struct{})
	go func() {
		defer close(finished)
		session.Run()
	}()

	write := func(s string) {
		t.Helper()
		if _, err := io.WriteString(writer, s); err != nil {
			t.Errorf("write input: %v", err)
		}
	}

	write("1\n")
	time.Sleep(50 * time.Millisecond)

	// A message lands while the chat is open.
	sendMessage(t, store, bob.ID, alice.ID, "landed while open")
	time.Sleep(100 * time.Millisecond)

	write("/b\nq\n")
	writer.Close()
	<-finished

	if !strings.Contains(out.String(), "landed while open") {
		t.Fatalf("expected live message rendered, got:\n%s", out.String())
	}

	unread, err := store.UnreadCount(alice.ID, bob.ID)
	if err != nil {
		t.Fatalf("UnreadCount failed: %v", err)
	}
	if unread != 0 {
		t.Fatalf("expected live message marked read, got %d unread", unread)
	}
}

func TestPollerEchoesOwnSend(t *testing.T) {
	store := newTestStore(t)
	alice := createUser(t, store, "alice", storage.RoleLeader)
	bob := createUser(t, store, "bob", storage.RoleLeader)

	sendMessage(t, store, bob.ID, alice.ID, "opening line")

	reader, writer := io.Pipe()
	var out syncBuffer

	session := NewSession(store, alice, reader, &out, zerolog.Nop(), Options{
		PollInterval: 10 * time.Millisecond,
	})

	finished := make(chan struct{})
	go func() {
		defer close(finished)
		session.Run()
	}()

	io.WriteString(writer, "1\nhello from me\n")
	time.Sleep(100 * time.Millisecond)
	io.WriteString(writer, "/b\nq\n")
	writer.Close()
	<-finished

	if !strings.Contains(out.String(), "You: hello from me") {
		t.Fatalf("expected own message echoed by poller, got:\n%s", out.String())
	}
}

// trippingReader hands out its script one byte per read, like a line-buffered
// terminal, and fires trip once the given number of full lines have been
// consumed. Firing between lines lets a test break the database at an exact
// point in the command sequence.
type trippingReader struct {
	script  string
	pos     int
	lines   int
	after   int
	trip    func()
	tripped bool
}

func (r *trippingReader) Read(p []byte) (int, error) {
	if !r.tripped && r.lines >= r.after {
		r.tripped = true
		r.trip()
	}
	if r.pos >= len(r.script) {
		return 0, io.EOF
	}
	p[0] = r.script[r.pos]
	if r.script[r.pos] == '\n' {
		r.lines++
	}
	r.pos++
	return 1, nil
}

func runFailingSession(t *testing.T, store *storage.Store, user *storage.User, in io.Reader) string {
	t.Helper()

	var out syncBuffer
	session := NewSession(store, user, in, &out, zerolog.Nop(), Options{
		PollInterval: 10 * time.Millisecond,
	})
	session.Run()

	return out.String()
}

func TestStorageFailureOpeningChatEndsInterface(t *testing.T) {
	store, dbPath := newTestStoreAt(t)
	alice := createUser(t, store, "alice", storage.RoleLeader)
	bob := createUser(t, store, "bob", storage.RoleLeader)

	sendMessage(t, store, bob.ID, alice.ID, "hello")

	// The menu renders fine; the database breaks just before the open
	// command is read.
	in := &trippingReader{
		script: "1\n",
		after:  0,
		trip:   func() { dropMessagesTable(t, dbPath) },
	}
	out := runFailingSession(t, store, alice, in)

	if !strings.Contains(out, "bob") {
		t.Fatalf("expected the menu rendered before the failure, got:\n%s", out)
	}
	if !strings.Contains(out, "Sorry, we are facing technical difficulties.") {
		t.Fatalf("expected apology on storage failure, got:\n%s", out)
	}
	if !strings.Contains(out, "Exiting chat interface...") {
		t.Fatalf("expected interface to terminate, got:\n%s", out)
	}
}

func TestStorageFailureSendingMessageEndsInterface(t *testing.T) {
	store, dbPath := newTestStoreAt(t)
	alice := createUser(t, store, "alice", storage.RoleLeader)
	bob := createUser(t, store, "bob", storage.RoleLeader)

	sendMessage(t, store, bob.ID, alice.ID, "hello")

	// The chat opens fine; the database breaks before the send is read.
	in := &trippingReader{
		script: "1\nnever lands\n/b\nq\n",
		after:  1,
		trip:   func() { dropMessagesTable(t, dbPath) },
	}
	out := runFailingSession(t, store, alice, in)

	if !strings.Contains(out, "Chat with @bob") {
		t.Fatalf("expected chat opened before the failure, got:\n%s", out)
	}
	if !strings.Contains(out, "Sorry, we are facing technical difficulties.") {
		t.Fatalf("expected apology on failed send, got:\n%s", out)
	}
	if !strings.Contains(out, "Exiting chat interface...") {
		t.Fatalf("expected interface to terminate, got:\n%s", out)
	}
	// The failed send must not leave the chat open waiting for commands.
	if strings.Contains(out, "Chats\n") && strings.Count(out, "Chat with @bob") > 1 {
		t.Fatalf("interface kept running after the failure:\n%s", out)
	}
}
