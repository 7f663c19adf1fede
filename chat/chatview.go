package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/laluke1/camptrack/storage"
	"github.com/laluke1/camptrack/ui"
)

// openChat enters the chat view with one partner. Opening marks everything
// the partner already sent as read, shows the most recent message window,
// and starts the live poller. The view exits on /b and its aliases or when
// input runs out. A storage failure is returned so the caller can shut the
// messaging interface down.
func (s *Session) openChat(partnerID int64, partnerUsername string) error {
	s.mu.Lock()
	err := s.store.MarkConversationRead(partnerID, s.user.ID)
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("mark conversation read: %w", err)
	}

	total, err := s.store.CountMessagesBetween(s.user.ID, partnerID)
	if err != nil {
		return fmt.Errorf("count messages: %w", err)
	}

	window, err := s.store.MessagesBetween(s.user.ID, partnerID, s.messagesPerPage, 0)
	if err != nil {
		return fmt.Errorf("load message window: %w", err)
	}

	// The poller only reports messages newer than the freshest one already
	// on screen.
	var watermark int64
	if len(window) > 0 {
		watermark = window[len(window)-1].ID
	}

	ui.ClearScreen(s.out)
	ui.Header(s.out, true)
	s.renderChatBanner(partnerUsername)

	if s.messagesPerPage < total {
		remaining := total - s.messagesPerPage
		fmt.Fprintf(s.out, "== Showing most recent %d of %d messages ==\n", len(window), total)
		fmt.Fprintf(s.out, "Enter /more to load %d older messages\n\n",
			min(s.messagesPerPage, remaining))
	} else if len(window) > 0 {
		fmt.Fprintf(s.out, "== Showing all %d messages ==\n\n", len(window))
	} else {
		fmt.Fprintln(s.out, "No messages yet. Say hello!")
		fmt.Fprintln(s.out)
	}

	for _, message := range window {
		s.printMessage(message)
	}
	if len(window) > 0 {
		fmt.Fprintf(s.out, "\n%s\n\n", strings.Repeat("═", s.termWidth))
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		s.poll(ctx, partnerID, watermark)
	}()
	defer func() {
		cancel()
		<-done
	}()

	historyOffset := 0

	for {
		if !s.in.Scan() {
			return nil
		}
		raw := s.in.Text()

		// The poller shares the lock, so a send and a read-receipt update
		// never interleave and the two writers cannot garble the screen.
		s.mu.Lock()
		exit, err := s.handleChatInput(raw, partnerID, partnerUsername, &historyOffset)
		s.mu.Unlock()
		if err != nil {
			return err
		}
		if exit {
			return nil
		}
	}
}

func (s *Session) handleChatInput(raw string, partnerID int64, partnerUsername string, historyOffset *int) (bool, error) {
	message := strings.TrimSpace(raw)

	ui.EraseLines(s.out, raw, s.termWidth)

	switch strings.ToLower(message) {
	case "/b", "/back", "/q", "/quit", "/exit":
		return true, nil
	case "/c", "/clear", "/clean":
		if err := s.redrawChat(partnerID, partnerUsername, *historyOffset); err != nil {
			return false, err
		}
	case "/m", "/more":
		offset, err := s.loadOlderMessages(partnerID, *historyOffset)
		if err != nil {
			return false, err
		}
		*historyOffset = offset
	case "/help", "/h":
		s.renderChatHelp()
	default:
		if message == "" {
			return false, nil
		}
		if err := s.store.InsertMessage(s.user.ID, partnerID, message); err != nil {
			return false, fmt.Errorf("send message: %w", err)
		}
	}

	return false, nil
}

// redrawChat clears the screen and reprints every message loaded so far,
// including anything sent or received since the view opened.
func (s *Session) redrawChat(partnerID int64, partnerUsername string, historyOffset int) error {
	ui.ClearScreen(s.out)
	ui.Header(s.out, true)
	s.renderChatBanner(partnerUsername)

	window, err := s.store.MessagesBetween(
		s.user.ID, partnerID, s.messagesPerPage+historyOffset, 0,
	)
	if err != nil {
		return fmt.Errorf("redraw chat: %w", err)
	}
	for _, message := range window {
		s.printMessage(message)
	}
	return nil
}

// loadOlderMessages prints the next window of strictly older history and
// returns the new history offset.
func (s *Session) loadOlderMessages(partnerID int64, historyOffset int) (int, error) {
	total, err := s.store.CountMessagesBetween(s.user.ID, partnerID)
	if err != nil {
		return historyOffset, fmt.Errorf("count messages: %w", err)
	}

	offset := historyOffset + s.messagesPerPage
	if total <= offset {
		fmt.Fprintln(s.out, "No older messages...")
		return historyOffset, nil
	}

	window, err := s.store.MessagesBetween(s.user.ID, partnerID, s.messagesPerPage, offset)
	if err != nil {
		return historyOffset, fmt.Errorf("load older messages: %w", err)
	}
	if len(window) == 0 {
		fmt.Fprintln(s.out, "No older messages...")
		return historyOffset, nil
	}

	fmt.Fprintf(s.out, "-- Loading %d older messages --\n", len(window))
	for _, message := range window {
		s.printMessage(message)
	}

	remaining := total - (offset + s.messagesPerPage)
	if remaining > 0 {
		fmt.Fprintf(s.out, "-- %d older messages remaining (/more to load) --\n\n", remaining)
	} else {
		fmt.Fprintf(s.out, "-- All messages loaded --\n\n")
	}

	return offset, nil
}

func (s *Session) renderChatBanner(partnerUsername string) {
	rule := strings.Repeat("═", s.termWidth)
	fmt.Fprintln(s.out, rule)
	fmt.Fprintln(s.out, ui.Center("Chat with @"+partnerUsername, s.termWidth))
	fmt.Fprintln(s.out, rule)
	fmt.Fprintf(s.out, "\nEnter %s for a list of commands, %s to exit the chat.\n\n",
		ui.ErrorStyle.Render("/help"), ui.ErrorStyle.Render("/b"))
}

func (s *Session) renderChatHelp() {
	fmt.Fprintln(s.out)
	fmt.Fprintln(s.out, "Commands:")
	fmt.Fprintf(s.out, "    %s    - Go back to the main chat menu\n", ui.ErrorStyle.Render("/b"))
	fmt.Fprintln(s.out, "    /m    - Load older messages")
	fmt.Fprintln(s.out, "    /c    - Clean the chat view")
	fmt.Fprintln(s.out)
}

func (s *Session) printMessage(message storage.Message) {
	timestamp := ui.MutedStyle.Render(ui.FormatTimestamp(message.CreatedAt))
	if message.SenderID == s.user.ID {
		fmt.Fprintf(s.out, "[%s] You: %s\n", timestamp, message.Body)
		return
	}
	fmt.Fprintf(s.out, "[%s] %s: %s\n", timestamp, message.SenderUsername, message.Body)
}
