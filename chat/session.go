// Package chat is the direct-messaging interface. A Session owns the menu
// and chat views for one logged-in user; while a chat is open a background
// poller picks up new messages and marks incoming ones read.
package chat

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/laluke1/camptrack/pagination"
	"github.com/laluke1/camptrack/storage"
	"github.com/laluke1/camptrack/ui"
)

const (
	defaultChatsPerPage    = 3
	defaultMessagesPerPage = 10
	defaultPollInterval    = 250 * time.Millisecond
)

// Options tune a Session. Zero values fall back to the defaults.
type Options struct {
	ChatsPerPage    int
	MessagesPerPage int
	PollInterval    time.Duration
	TermWidth       int
}

// Session drives the messaging interface for one user.
//
// All message writes, whether from the input loop or the poller, go through
// one mutex so a send and a read-receipt update never interleave.
type Session struct {
	store  *storage.Store
	user   *storage.User
	in     *bufio.Scanner
	out    io.Writer
	logger zerolog.Logger

	chatsPerPage    int
	messagesPerPage int
	pollInterval    time.Duration
	termWidth       int

	mu sync.Mutex

	chatPage int
}

// NewSession builds a messaging session reading commands from in and
// rendering to out.
func NewSession(store *storage.Store, user *storage.User, in io.Reader, out io.Writer, logger zerolog.Logger, opts Options) *Session {
	if opts.ChatsPerPage <= 0 {
		opts.ChatsPerPage = defaultChatsPerPage
	}
	if opts.MessagesPerPage <= 0 {
		opts.MessagesPerPage = defaultMessagesPerPage
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = defaultPollInterval
	}
	if opts.TermWidth <= 0 {
		opts.TermWidth = ui.TerminalWidth
	}

	return &Session{
		store:           store,
		user:            user,
		in:              bufio.NewScanner(in),
		out:             out,
		logger:          logger,
		chatsPerPage:    opts.ChatsPerPage,
		messagesPerPage: opts.MessagesPerPage,
		pollInterval:    opts.PollInterval,
		termWidth:       opts.TermWidth,
		chatPage:        1,
	}
}

// Run is the main command loop of the messaging interface. It returns when
// the user backs out, input is exhausted, or storage fails. Any storage
// failure inside the interface prints one apology and shuts it down.
func (s *Session) Run() {
	defer fmt.Fprintln(s.out, "Exiting chat interface...")

	for {
		chats, err := s.renderMenu()
		if err != nil {
			s.reportStorageFailure(err)
			return
		}

		line, ok := s.readLine("\nEnter command: ")
		if !ok {
			return
		}
		command := strings.ToLower(strings.TrimSpace(line))

		if page, isNav := pagination.Apply(command, s.chatPage, s.totalChatPages()); isNav {
			s.chatPage = page
			continue
		}

		switch command {
		case "o":
			partner, ok, err := s.promptForRecipient()
			if err != nil {
				s.reportStorageFailure(err)
				return
			}
			if ok {
				s.chatPage = 1
				if err := s.openChat(partner.ID, partner.Username); err != nil {
					s.reportStorageFailure(err)
					return
				}
			}
		case "u":
			if err := s.browseUsers(); err != nil {
				s.reportStorageFailure(err)
				return
			}
		case "r", "":
			continue
		case "b", "q":
			return
		default:
			if index, err := strconv.Atoi(command); err == nil {
				if index >= 1 && index <= len(chats) {
					selected := chats[index-1]
					if err := s.openChat(selected.PartnerID, selected.PartnerUsername); err != nil {
						s.reportStorageFailure(err)
						return
					}
				}
				continue
			}
			fmt.Fprintf(s.out, "Unrecognized command: %s\n", command)
		}
	}
}

// reportStorageFailure is the single exit path for storage errors anywhere
// in the messaging interface.
func (s *Session) reportStorageFailure(err error) {
	s.logger.Error().Err(err).Msg("chat interface storage failure")
	fmt.Fprintln(s.out, ui.ErrorStyle.Render("Sorry, we are facing technical difficulties."))
}

// renderMenu draws the chat list page and returns the conversations shown so
// numeric selection can map back to a partner.
func (s *Session) renderMenu() ([]storage.Conversation, error) {
	ui.ClearScreen(s.out)
	ui.Header(s.out, true)
	s.renderMenuBanner()

	total, err := s.store.CountConversations(s.user.ID)
	if err != nil {
		return nil, err
	}

	page := pagination.Resolve(total, s.chatPage, s.chatsPerPage)
	s.chatPage = page.Number
	if s.chatPage < 1 {
		s.chatPage = 1
	}

	chats, err := s.store.Conversations(s.user.ID, page.Size, page.Offset)
	if err != nil {
		return nil, err
	}

	if len(chats) == 0 {
		fmt.Fprintln(s.out, "No chats to display.")
	} else {
		if page.Total > 1 {
			fmt.Fprintf(s.out, "Chats (Page %d/%d)\n", page.Number, page.Total)
		} else {
			fmt.Fprintln(s.out, "Chats")
		}
		ui.Divider(s.out)

		for i, chat := range chats {
			s.renderConversation(i+1, chat)
		}

		if page.Total > 1 {
			fmt.Fprintln(s.out)
			ui.Divider(s.out)
			fmt.Fprintln(s.out, "Navigate: f - first page | p - previous | n - next | l - last page")
		}
		ui.Divider(s.out)
	}

	s.renderMenuCommands(len(chats))
	return chats, nil
}

func (s *Session) renderMenuBanner() {
	rule := strings.Repeat("═", s.termWidth)
	title := fmt.Sprintf("%s | @%s [%s]",
		lipglossBold("Messages"), s.user.Username, s.user.RoleTitle())

	fmt.Fprintln(s.out, rule)
	fmt.Fprintln(s.out, ui.Center(title, s.termWidth))
	fmt.Fprintln(s.out, rule)
}

func (s *Session) renderConversation(index int, chat storage.Conversation) {
	snippet := chat.LastMessage
	if len(snippet) > 20 {
		snippet = snippet[:20] + "..."
	}

	var unread string
	if chat.UnreadCount > 0 {
		unread = " " + ui.AccentStyle.Render("■")
	}
	if chat.UnreadCount > 1 {
		unread += fmt.Sprintf(" (%d unread)", chat.UnreadCount)
	}

	fmt.Fprintf(s.out, "%2d. %s [%s]%s\n",
		index,
		ui.SuccessStyle.Render(chat.PartnerUsername),
		storage.RoleTitle(chat.PartnerRole),
		unread,
	)
	fmt.Fprintf(s.out, "    %s\n", snippet)
	fmt.Fprintf(s.out, "    %s\n", ui.MutedStyle.Render(ui.FormatTimestamp(chat.LastTimestamp)))
}

func (s *Session) renderMenuCommands(shownChats int) {
	fmt.Fprintln(s.out, "Commands:")
	if shownChats > 0 {
		fmt.Fprintf(s.out, "    # - Open chat from above list [1-%d]\n", shownChats)
	}
	fmt.Fprintln(s.out, "    o - Open chat with a specified user")
	fmt.Fprintln(s.out, "    u - List all users you can chat with")
	fmt.Fprintln(s.out, "    r - Refresh")
	fmt.Fprintf(s.out, "    %s - %s chat interface\n",
		ui.ErrorStyle.Render("b"), ui.ErrorStyle.Render("Exit"))
}

func (s *Session) totalChatPages() int {
	total, err := s.store.CountConversations(s.user.ID)
	if err != nil {
		s.logger.Warn().Err(err).Msg("count conversations")
		return s.chatPage
	}
	return pagination.Resolve(total, 1, s.chatsPerPage).Total
}

func (s *Session) readLine(prompt string) (string, bool) {
	fmt.Fprint(s.out, ui.PromptStyle.Render(prompt))
	if !s.in.Scan() {
		return "", false
	}
	return s.in.Text(), true
}

func lipglossBold(s string) string {
	return ui.TitleStyle.Render(s)
}
