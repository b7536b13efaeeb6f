package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	"github.com/lib/pq"

	"github.com/bloghub-dev/bloghub/shared/domain"
	internal_errors "github.com/bloghub-dev/bloghub/shared/errors"
)

// =========================================================================
// Public Methods (satisfy the service.AuthStorage interface)
// =========================================================================

// SaveUser creates a new user record and returns the generated id.
func (s *Storage) SaveUser(user domain.User) (domain.UserId, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	var id domain.UserId
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		id, err = s.saveUser(tx, user)
		return err
	})
	return id, err
}

// User fetches a user by email. Read-only, uses the connection pool directly.
func (s *Storage) User(email domain.Email) (domain.User, error) {
	return s.user(s.db, email)
}

// UserById fetches a user by id. The auto-reply task uses this to re-check
// the user still exists after its delay elapses.
func (s *Storage) UserById(id domain.UserId) (domain.User, error) {
	return s.userById(s.db, id)
}

// UpdateUserSettings overwrites the user's auto-reply settings.
func (s *Storage) UpdateUserSettings(id domain.UserId, settings domain.UserSettings) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		return s.updateUserSettings(tx, id, settings)
	})
}

// =========================================================================
// Internal Methods (Core Database Logic)
// These methods accept a Querier and are transaction-agnostic.
// =========================================================================

func (s *Storage) saveUser(q Querier, user domain.User) (domain.UserId, error) {
	var id domain.UserId
	err := q.QueryRow(`
	INSERT INTO users(email, password_hash, auto_reply_enabled, reply_delay_minutes)
	VALUES($1, $2, $3, $4)
	RETURNING id`,
		user.Email, user.PassHash, user.AutoReplyEnabled, user.ReplyDelayMinutes).Scan(&id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" { // unique_violation
			return id, &internal_errors.ErrorWithStatusCode{Message: "User already exists", StatusCode: http.StatusConflict}
		}
		return id, fmt.Errorf("failed to insert user: %w", err)
	}
	return id, nil
}

func (s *Storage) user(q Querier, email domain.Email) (domain.User, error) {
	var user domain.User
	err := q.QueryRow(`
	SELECT id, email, password_hash, auto_reply_enabled, reply_delay_minutes, created_at
	FROM users
	WHERE email = $1`, email).
		Scan(&user.Id, &user.Email, &user.PassHash, &user.AutoReplyEnabled, &user.ReplyDelayMinutes, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, &internal_errors.ErrorWithStatusCode{Message: "User not found", StatusCode: http.StatusNotFound}
		}
		return domain.User{}, fmt.Errorf("failed to query user: %w", err)
	}
	return user, nil
}

func (s *Storage) userById(q Querier, id domain.UserId) (domain.User, error) {
	var user domain.User
	err := q.QueryRow(`
	SELECT id, email, password_hash, auto_reply_enabled, reply_delay_minutes, created_at
	FROM users
	WHERE id = $1`, id).
		Scan(&user.Id, &user.Email, &user.PassHash, &user.AutoReplyEnabled, &user.ReplyDelayMinutes, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, &internal_errors.ErrorWithStatusCode{Message: "User not found", StatusCode: http.StatusNotFound}
		}
		return domain.User{}, fmt.Errorf("failed to query user by id: %w", err)
	}
	return user, nil
}

func (s *Storage) updateUserSettings(q Querier, id domain.UserId, settings domain.UserSettings) error {
	result, err := q.Exec(`
	UPDATE users SET
		auto_reply_enabled = $1,
		reply_delay_minutes = $2
	WHERE id = $3`,
		settings.AutoReplyEnabled, settings.ReplyDelayMinutes, id)
	if err != nil {
		return fmt.Errorf("failed to update user settings: %w", err)
	}
	updated, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if updated == 0 {
		return &internal_errors.ErrorWithStatusCode{Message: "User not found", StatusCode: http.StatusNotFound}
	}
	return nil
}
