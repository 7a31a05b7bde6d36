package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/recshelf/internal/apperror"
	"github.com/sakif/recshelf/internal/model"
	"github.com/sakif/recshelf/internal/repository"
)

// compile-time check that *DB implements repository.UserRepository
var _ repository.UserRepository = (*DB)(nil)

// Upsert inserts or updates a user keyed by their external identity.
//
// First sign-in: generate an internal ID (xid) and INSERT with whatever role
// the caller pre-set (the service sets "user" by default, "admin" for seeded
// accounts). Subsequent sign-ins: keep the existing internal ID, role and
// created_at, and UPDATE the profile fields only if the provider's copy
// drifted — repeating the same input is a no-op, which is what makes the
// sign-in sync idempotent.
//
// On return, user holds the canonical stored record either way.
func (db *DB) Upsert(ctx context.Context, user *model.User) error {
	existing, err := db.GetByExternalID(ctx, user.ExternalID)
	if err != nil && !errors.Is(err, apperror.ErrNotFound) {
		return fmt.Errorf("sqlite: looking up user by external_id %s: %w", user.ExternalID, err)
	}

	if existing != nil {
		drifted := existing.Email != user.Email ||
			existing.DisplayName != user.DisplayName ||
			existing.AvatarURL != user.AvatarURL

		// Carry over the immutable and admin-managed fields.
		user.ID = existing.ID
		user.Role = existing.Role
		user.CreatedAt = existing.CreatedAt
		user.UpdatedAt = existing.UpdatedAt

		if !drifted {
			return nil
		}

		user.UpdatedAt = time.Now()
		_, err = db.conn.ExecContext(ctx,
			`UPDATE users SET email = ?, display_name = ?, avatar_url = ?, updated_at = ?
			 WHERE id = ?`,
			user.Email,
			user.DisplayName,
			user.AvatarURL,
			user.UpdatedAt,
			user.ID,
		)
		if err != nil {
			return fmt.Errorf("sqlite: updating user %s: %w", user.ID, err)
		}
		return nil
	}

	now := time.Now()
	user.ID = xid.New().String()
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.Role == "" {
		user.Role = model.RoleUser
	}

	_, err = db.conn.ExecContext(ctx,
		`INSERT INTO users (id, external_id, email, display_name, avatar_url, role, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		user.ID,
		user.ExternalID,
		user.Email,
		user.DisplayName,
		user.AvatarURL,
		user.Role,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting user (externalID=%s): %w", user.ExternalID, err)
	}

	return nil
}

// GetByExternalID retrieves a user by their external identity.
// Returns apperror.ErrNotFound if no user has signed in with that identity.
func (db *DB) GetByExternalID(ctx context.Context, externalID string) (*model.User, error) {
	return db.getUser(ctx, `external_id`, externalID)
}

// GetUserByID retrieves a user by their internal ID.
func (db *DB) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	return db.getUser(ctx, `id`, id)
}

func (db *DB) getUser(ctx context.Context, column, value string) (*model.User, error) {
	var u model.User

	err := db.conn.QueryRowContext(ctx,
		`SELECT id, external_id, email, display_name, avatar_url, role, created_at, updated_at
		 FROM users WHERE `+column+` = ?`,
		value,
	).Scan(
		&u.ID,
		&u.ExternalID,
		&u.Email,
		&u.DisplayName,
		&u.AvatarURL,
		&u.Role,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("User not found")
		}
		return nil, fmt.Errorf("sqlite: getting user by %s %s: %w", column, value, err)
	}

	return &u, nil
}

// UpdateRole patches only the role column.
// RowsAffected detects "not found" without a prior SELECT.
func (db *DB) UpdateRole(ctx context.Context, id string, role model.Role) error {
	result, err := db.conn.ExecContext(ctx,
		`UPDATE users SET role = ?, updated_at = ? WHERE id = ?`,
		role, time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating role for user %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("User not found")
	}

	return nil
}
