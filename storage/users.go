package storage

import (
	"database/sql"
	"errors"
	"fmt"
)

// CreateUser inserts a new account and returns it with its assigned id.
func (s *Store) CreateUser(username, passwordHash, role string) (*User, error) {
	if username == "" {
		return nil, errors.New("username is required")
	}
	if passwordHash == "" {
		return nil, errors.New("password_hash is required")
	}
	if err := validateRole(role); err != nil {
		return nil, err
	}

	res, err := s.db.Exec(
		`INSERT INTO users (username, password_hash, role)
		VALUES (?, ?, ?)`,
		username, passwordHash, role,
	)
	if err != nil {
		return nil, fmt.Errorf("insert user %q: %w", username, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("read new user id for %q: %w", username, err)
	}

	return s.GetUserByID(id)
}

// GetUserByID fetches one account by id.
func (s *Store) GetUserByID(id int64) (*User, error) {
	row := s.db.QueryRow(
		`SELECT id, username, password_hash, role, is_disabled, created_at
		FROM users
		WHERE id = ?`,
		id,
	)

	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get user %d: %w", id, err)
	}
	return user, nil
}

// GetUserByUsername fetches one account by username.
func (s *Store) GetUserByUsername(username string) (*User, error) {
	if username == "" {
		return nil, errors.New("username is required")
	}

	row := s.db.QueryRow(
		`SELECT id, username, password_hash, role, is_disabled, created_at
		FROM users
		WHERE username = ?`,
		username,
	)

	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get user %q: %w", username, err)
	}
	return user, nil
}

// ListUsers returns all accounts ordered by username. When disabledOnly is
// set, only disabled accounts are returned.
func (s *Store) ListUsers(disabledOnly bool) ([]User, error) {
	query := `SELECT id, username, password_hash, role, is_disabled, created_at
		FROM users`
	if disabledOnly {
		query += ` WHERE is_disabled = 1`
	}
	query += ` ORDER BY username`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := make([]User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user row: %w", err)
		}
		users = append(users, *user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate user rows: %w", err)
	}

	return users, nil
}

// ActiveUsers returns all non-disabled accounts except the given one,
// ordered by role then username. This backs the chat user directory.
func (s *Store) ActiveUsers(excludingID int64) ([]User, error) {
	rows, err := s.db.Query(
		`SELECT id, username, password_hash, role, is_disabled, created_at
		FROM users
		WHERE is_disabled = 0 AND id != ?
		ORDER BY role, username`,
		excludingID,
	)
	if err != nil {
		return nil, fmt.Errorf("list active users: %w", err)
	}
	defer rows.Close()

	users := make([]User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan active user row: %w", err)
		}
		users = append(users, *user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate active user rows: %w", err)
	}

	return users, nil
}

// UpdateUser writes username, password hash, role, and disabled flag back to
// the row identified by user.ID.
func (s *Store) UpdateUser(user User) error {
	if user.ID == 0 {
		return errors.New("user id is required")
	}
	if user.Username == "" {
		return errors.New("username is required")
	}
	if err := validateRole(user.Role); err != nil {
		return err
	}

	isDisabled := 0
	if user.IsDisabled {
		isDisabled = 1
	}

	res, err := s.db.Exec(
		`UPDATE users
		SET username = ?, password_hash = ?, role = ?, is_disabled = ?
		WHERE id = ?`,
		user.Username, user.PasswordHash, user.Role, isDisabled, user.ID,
	)
	if err != nil {
		return fmt.Errorf("update user %d: %w", user.ID, err)
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("read rows affected for update user %d: %w", user.ID, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// DeleteUser removes an account permanently.
func (s *Store) DeleteUser(id int64) error {
	res, err := s.db.Exec(`DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete user %d: %w", id, err)
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("read rows affected for delete user %d: %w", id, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// SetUserDisabled flips the disabled flag for an account.
func (s *Store) SetUserDisabled(id int64, disabled bool) error {
	isDisabled := 0
	if disabled {
		isDisabled = 1
	}

	res, err := s.db.Exec(
		`UPDATE users SET is_disabled = ? WHERE id = ?`,
		isDisabled, id,
	)
	if err != nil {
		return fmt.Errorf("set disabled for user %d: %w", id, err)
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("read rows affected for set disabled %d: %w", id, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// CountUsers returns the total number of accounts.
func (s *Store) CountUsers() (int, error) {
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return count, nil
}

func scanUser(row scanner) (*User, error) {
	var (
		user       User
		isDisabled int
	)

	if err := row.Scan(
		&user.ID,
		&user.Username,
		&user.PasswordHash,
		&user.Role,
		&isDisabled,
		&user.CreatedAt,
	); err != nil {
		return nil, err
	}

	user.IsDisabled = isDisabled == 1
	return &user, nil
}
