package storage

import (
	"database/sql"
	"errors"
	"fmt"
)

// CreateNotification stores a logistics alert for a coordinator.
func (s *Store) CreateNotification(n Notification) error {
	if n.CampID == 0 {
		return errors.New("camp_id is required")
	}
	if n.CoordinatorID == 0 {
		return errors.New("coordinator_id is required")
	}
	if n.Type == "" || n.Message == "" {
		return errors.New("type and message are required")
	}

	isRead := 0
	if n.IsRead {
		isRead = 1
	}

	_, err := s.db.Exec(
		`INSERT INTO notifications (camp_id, coordinator_id, type, message, is_read)
		VALUES (?, ?, ?, ?, ?)`,
		n.CampID, n.CoordinatorID, n.Type, n.Message, isRead,
	)
	if err != nil {
		return fmt.Errorf("insert notification for camp %d: %w", n.CampID, err)
	}
	return nil
}

// NotificationsFor returns a coordinator's notifications, unread first, then
// newest first.
func (s *Store) NotificationsFor(coordinatorID int64) ([]Notification, error) {
	rows, err := s.db.Query(
		`SELECT id, camp_id, coordinator_id, type, message, is_read, created_at
		FROM notifications
		WHERE coordinator_id = ?
		ORDER BY is_read ASC, id DESC`,
		coordinatorID,
	)
	if err != nil {
		return nil, fmt.Errorf("list notifications for coordinator %d: %w", coordinatorID, err)
	}
	defer rows.Close()

	notifications := make([]Notification, 0)
	for rows.Next() {
		var (
			n      Notification
			isRead int
		)
		if err := rows.Scan(
			&n.ID,
			&n.CampID,
			&n.CoordinatorID,
			&n.Type,
			&n.Message,
			&isRead,
			&n.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan notification row: %w", err)
		}
		n.IsRead = isRead == 1
		notifications = append(notifications, n)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notification rows: %w", err)
	}

	return notifications, nil
}

// HasUnreadNotification reports whether an unread notification of the given
// type already exists for a camp. Used to suppress duplicate alerts.
func (s *Store) HasUnreadNotification(campID int64, notificationType string) (bool, error) {
	var one int
	err := s.db.QueryRow(
		`SELECT 1 FROM notifications
		WHERE camp_id = ? AND type = ? AND is_read = 0
		LIMIT 1`,
		campID, notificationType,
	).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check unread notification for camp %d: %w", campID, err)
	}
	return true, nil
}

// SetNotificationRead flips the read flag on a notification.
func (s *Store) SetNotificationRead(id int64, read bool) error {
	isRead := 0
	if read {
		isRead = 1
	}

	res, err := s.db.Exec(
		`UPDATE notifications SET is_read = ? WHERE id = ?`,
		isRead, id,
	)
	if err != nil {
		return fmt.Errorf("set read for notification %d: %w", id, err)
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("read rows affected for notification %d: %w", id, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}
