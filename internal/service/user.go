// Package service contains the business logic layer of the application.
//
// The layering follows the usual three-tier split:
//
//	Handler (HTTP)     → parses requests, writes responses
//	Service (business) → validates, authorizes, orchestrates
//	Repository (data)  → reads/writes the database
//
// Services accept primitives and return domain errors (apperror), never
// HTTP types or status codes. They receive repository interfaces, not the
// concrete sqlite types, so tests inject in-memory mocks.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/recshelf/internal/apperror"
	"github.com/sakif/recshelf/internal/model"
	"github.com/sakif/recshelf/internal/repository"
)

// UserService handles the user directory: upsert-on-sign-in synchronization
// and admin-gated role changes.
type UserService struct {
	users      repository.UserRepository
	seedAdmins map[string]bool // external IDs promoted to admin on sign-in
	logger     *slog.Logger
}

// NewUserService creates a UserService.
//
// seedAdmins lists external identities that are granted the admin role when
// they sign in. This is the bootstrap path: role changes require an existing
// admin, so the first admin has to come from configuration.
func NewUserService(users repository.UserRepository, seedAdmins []string, logger *slog.Logger) *UserService {
	seeds := make(map[string]bool, len(seedAdmins))
	for _, id := range seedAdmins {
		if id = strings.TrimSpace(id); id != "" {
			seeds[id] = true
		}
	}
	return &UserService{
		users:      users,
		seedAdmins: seeds,
		logger:     logger,
	}
}

// GetOrCreate synchronizes the directory with the identity provider on
// sign-in.
//
// First sign-in inserts a new record with the default role ("admin" for
// seeded identities). Later sign-ins patch email/display name/avatar if they
// drifted and otherwise change nothing — calling this repeatedly with
// identical input is a no-op. Role and CreatedAt are never touched by
// sign-in; a seeded identity that was demoted in the meantime is re-promoted
// here, which is the documented recovery path for losing the last admin.
func (s *UserService) GetOrCreate(ctx context.Context, externalID, email, displayName, avatarURL string) (*model.User, error) {
	if externalID == "" {
		return nil, apperror.ValidationFailed("externalId", "External ID is required")
	}

	user := &model.User{
		ExternalID:  externalID,
		Email:       email,
		DisplayName: displayName,
		AvatarURL:   avatarURL,
	}
	if s.seedAdmins[externalID] {
		user.Role = model.RoleAdmin
	}

	if err := s.users.Upsert(ctx, user); err != nil {
		return nil, fmt.Errorf("service/user: upserting user (externalID=%s): %w", externalID, err)
	}

	// Upsert preserves the stored role, so seeded identities that signed in
	// before being demoted need an explicit re-promotion.
	if s.seedAdmins[user.ExternalID] && !user.IsAdmin() {
		if err := s.users.UpdateRole(ctx, user.ID, model.RoleAdmin); err != nil {
			return nil, fmt.Errorf("service/user: promoting seed admin %s: %w", user.ID, err)
		}
		user.Role = model.RoleAdmin
		s.logger.Info("seed admin promoted",
			slog.String("userID", user.ID),
			slog.String("externalID", user.ExternalID),
		)
	}

	s.logger.Info("user signed in",
		slog.String("userID", user.ID),
		slog.String("externalID", user.ExternalID),
		slog.String("role", string(user.Role)),
	)

	return user, nil
}

// GetByExternalID returns the user for the given external identity.
// Returns apperror.ErrNotFound if they never signed in. Pure lookup, no
// side effects.
func (s *UserService) GetByExternalID(ctx context.Context, externalID string) (*model.User, error) {
	if externalID == "" {
		return nil, apperror.ValidationFailed("externalId", "External ID is required")
	}
	return s.users.GetByExternalID(ctx, externalID)
}

// SetRole changes the role of the user with internal ID targetUserID.
//
// Admin only. Patches nothing but the role field. There is deliberately no
// guard against an admin demoting themselves — the seed-admins file is the
// recovery path if that leaves zero admins.
func (s *UserService) SetRole(ctx context.Context, requesterExternalID, targetUserID string, newRole model.Role) error {
	if !newRole.IsValid() {
		return apperror.ValidationFailed("role", "Role must be admin or user")
	}

	requester, err := s.users.GetByExternalID(ctx, requesterExternalID)
	if err != nil || !canManageRoles(requester) {
		return apperror.Unauthorized("Only admins can update roles")
	}

	if err := s.users.UpdateRole(ctx, targetUserID, newRole); err != nil {
		return err
	}

	s.logger.Info("user role updated",
		slog.String("targetUserID", targetUserID),
		slog.String("newRole", string(newRole)),
		slog.String("requester", requester.ID),
	)

	return nil
}
