package storage

import (
	"errors"
	"fmt"
	"strings"
)

// InsertMessage appends a new direct message. The body must be non-empty
// after trimming; messages are immutable once written and have no deletion
// path.
func (s *Store) InsertMessage(senderID, recipientID int64, body string) error {
	if senderID == 0 {
		return errors.New("sender_id is required")
	}
	if recipientID == 0 {
		return errors.New("recipient_id is required")
	}
	body = strings.TrimSpace(body)
	if body == "" {
		return errors.New("message body is empty")
	}

	_, err := s.db.Exec(
		`INSERT INTO messages (sender_id, recipient_id, message)
		VALUES (?, ?, ?)`,
		senderID, recipientID, body,
	)
	if err != nil {
		return fmt.Errorf("insert message from %d to %d: %w", senderID, recipientID, err)
	}

	return nil
}

// MarkConversationRead marks every message from senderID to recipientID as
// read. Called in bulk when the recipient opens the chat.
func (s *Store) MarkConversationRead(senderID, recipientID int64) error {
	_, err := s.db.Exec(
		`UPDATE messages
		SET is_read = 1
		WHERE sender_id = ? AND recipient_id = ?`,
		senderID, recipientID,
	)
	if err != nil {
		return fmt.Errorf("mark conversation read %d -> %d: %w", senderID, recipientID, err)
	}
	return nil
}

// MarkMessageRead marks a single message as read. Safe to repeat: a message
// already read stays read.
func (s *Store) MarkMessageRead(messageID int64) error {
	_, err := s.db.Exec(
		`UPDATE messages SET is_read = 1 WHERE id = ?`,
		messageID,
	)
	if err != nil {
		return fmt.Errorf("mark message %d read: %w", messageID, err)
	}
	return nil
}

// MessagesBetween returns a window of the conversation between two users.
// The window is selected newest-first (limit/offset walk backwards through
// history) but returned ascending by id, ready to render chronologically.
func (s *Store) MessagesBetween(userA, userB int64, limit, offset int) ([]Message, error) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := s.db.Query(
		`SELECT m.id, m.sender_id, m.recipient_id, m.message, m.created_at,
			m.is_read, u.username
		FROM messages m
		INNER JOIN users u ON m.sender_id = u.id
		WHERE (m.sender_id = ? AND m.recipient_id = ?)
		   OR (m.sender_id = ? AND m.recipient_id = ?)
		ORDER BY m.id DESC
		LIMIT ? OFFSET ?`,
		userA, userB, userB, userA, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("get messages between %d and %d: %w", userA, userB, err)
	}
	defer rows.Close()

	messages, err := collectMessages(rows)
	if err != nil {
		return nil, err
	}

	// Reverse the newest-first window into ascending id order.
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	return messages, nil
}

// MessagesAfter returns every message between two users with id greater than
// afterID, ascending. This is the live-poll query: both directions of the
// open conversation, watermark-filtered.
func (s *Store) MessagesAfter(userA, userB, afterID int64) ([]Message, error) {
	rows, err := s.db.Query(
		`SELECT m.id, m.sender_id, m.recipient_id, m.message, m.created_at,
			m.is_read, u.username
		FROM messages m
		INNER JOIN users u ON m.sender_id = u.id
		WHERE m.id > ? AND (
			(m.sender_id = ? AND m.recipient_id = ?)
		 OR (m.sender_id = ? AND m.recipient_id = ?)
		)
		ORDER BY m.id ASC`,
		afterID, userA, userB, userB, userA,
	)
	if err != nil {
		return nil, fmt.Errorf("get messages after %d between %d and %d: %w", afterID, userA, userB, err)
	}
	defer rows.Close()

	return collectMessages(rows)
}

// CountMessagesBetween returns the total number of messages in the
// conversation between two users.
func (s *Store) CountMessagesBetween(userA, userB int64) (int, error) {
	var count int
	err := s.db.QueryRow(
		`SELECT COUNT(*)
		FROM messages
		WHERE (sender_id = ? AND recipient_id = ?)
		   OR (sender_id = ? AND recipient_id = ?)`,
		userA, userB, userB, userA,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count messages between %d and %d: %w", userA, userB, err)
	}
	return count, nil
}

// UnreadCount returns how many unread messages userID has from senderID.
func (s *Store) UnreadCount(userID, senderID int64) (int, error) {
	var count int
	err := s.db.QueryRow(
		`SELECT COUNT(*)
		FROM messages
		WHERE recipient_id = ? AND sender_id = ? AND is_read = 0`,
		userID, senderID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count unread from %d to %d: %w", senderID, userID, err)
	}
	return count, nil
}

// conversationsCTE derives the chat list: the latest message per
// conversation partner plus unread counts, partners restricted to
// non-disabled accounts. ROW_NUMBER() picks the most recent message in each
// thread; ties on identical timestamps fall back to storage order.
const conversationsCTE = `
WITH chat_threads AS (
	SELECT
		m.sender_id AS sender_id,
		CASE WHEN m.sender_id = ? THEN m.recipient_id ELSE m.sender_id END AS partner_id,
		m.message AS message,
		m.created_at AS timestamp
	FROM messages m
	WHERE m.sender_id = ? OR m.recipient_id = ?
),
latest_in_thread AS (
	SELECT
		sender_id,
		partner_id,
		message,
		timestamp,
		ROW_NUMBER() OVER (
			PARTITION BY partner_id
			ORDER BY timestamp DESC
		) AS msg_rank
	FROM chat_threads
),
unread_totals AS (
	SELECT COUNT(*) AS num_unread, sender_id AS partner_id
	FROM messages
	WHERE recipient_id = ? AND is_read = 0
	GROUP BY sender_id
)
SELECT
	lt.partner_id,
	u.username,
	u.role,
	lt.sender_id,
	lt.message,
	lt.timestamp,
	COALESCE(ut.num_unread, 0) AS num_unread
FROM latest_in_thread lt
INNER JOIN users u ON lt.partner_id = u.id AND u.is_disabled = 0
LEFT JOIN unread_totals ut ON lt.partner_id = ut.partner_id
WHERE lt.msg_rank = 1
ORDER BY lt.timestamp DESC
`

// Conversations returns the chat list for a user, most recently active
// first. Disabled partners are filtered out on every call; their messages
// remain stored.
func (s *Store) Conversations(userID int64, limit, offset int) ([]Conversation, error) {
	query := conversationsCTE
	args := []any{userID, userID, userID, userID}
	if limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, limit, offset)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("get conversations for user %d: %w", userID, err)
	}
	defer rows.Close()

	conversations := make([]Conversation, 0)
	for rows.Next() {
		var c Conversation
		if err := rows.Scan(
			&c.PartnerID,
			&c.PartnerUsername,
			&c.PartnerRole,
			&c.LastSenderID,
			&c.LastMessage,
			&c.LastTimestamp,
			&c.UnreadCount,
		); err != nil {
			return nil, fmt.Errorf("scan conversation row: %w", err)
		}
		conversations = append(conversations, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate conversation rows: %w", err)
	}

	return conversations, nil
}

// CountConversations returns the number of conversations the user has with
// non-disabled partners.
func (s *Store) CountConversations(userID int64) (int, error) {
	var count int
	err := s.db.QueryRow(
		`SELECT COUNT(DISTINCT
			CASE WHEN sender_id = ? THEN recipient_id ELSE sender_id END
		)
		FROM messages
		WHERE (sender_id = ? OR recipient_id = ?)
		AND (
			CASE WHEN sender_id = ? THEN recipient_id ELSE sender_id END
		) IN (SELECT id FROM users WHERE is_disabled = 0)`,
		userID, userID, userID, userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count conversations for user %d: %w", userID, err)
	}
	return count, nil
}

func collectMessages(rows interface {
	Next() bool
	Err() error
	Scan(dest ...any) error
}) ([]Message, error) {
	messages := make([]Message, 0)
	for rows.Next() {
		var (
			m      Message
			isRead int
		)
		if err := rows.Scan(
			&m.ID,
			&m.SenderID,
			&m.RecipientID,
			&m.Body,
			&m.CreatedAt,
			&isRead,
			&m.SenderUsername,
		); err != nil {
			return nil, fmt.Errorf("scan message row: %w", err)
		}
		m.IsRead = isRead == 1
		messages = append(messages, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate message rows: %w", err)
	}

	return messages, nil
}
