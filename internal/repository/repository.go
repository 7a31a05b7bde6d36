// Package repository declares the storage interfaces the service layer
// depends on. The sqlite subpackage provides the real implementation; tests
// substitute in-memory mocks.
package repository

import (
	"context"

	"github.com/sakif/recshelf/internal/model"
)

// ListFilter narrows a recommendation listing. The filters are
// mutually-favoring, not combinable: StaffPicksOnly wins over Genre, and an
// empty filter returns everything. Every path orders by created_at
// descending.
type ListFilter struct {
	Genre          model.Genre // zero value = no genre filter
	StaffPicksOnly bool
}

// UserRepository is the user directory's storage contract.
type UserRepository interface {
	// Upsert inserts the user on first sign-in or patches drifted profile
	// fields on subsequent sign-ins, keyed by ExternalID. The internal ID,
	// role, and CreatedAt are preserved across updates. On return, user
	// holds the canonical stored record.
	Upsert(ctx context.Context, user *model.User) error
	GetByExternalID(ctx context.Context, externalID string) (*model.User, error)
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	// UpdateRole patches only the role column of the user with the given
	// internal ID. Returns apperror.ErrNotFound if no such user exists.
	UpdateRole(ctx context.Context, id string, role model.Role) error
}

// RecommendationRepository is the recommendation store's storage contract.
type RecommendationRepository interface {
	Create(ctx context.Context, rec *model.Recommendation) error
	GetByID(ctx context.Context, id string) (*model.Recommendation, error)
	List(ctx context.Context, filter ListFilter) ([]model.Recommendation, error)
	ListByOwner(ctx context.Context, ownerExternalID string) ([]model.Recommendation, error)
	Latest(ctx context.Context, limit int) ([]model.Recommendation, error)
	// SetStaffPick patches only the is_staff_pick column.
	SetStaffPick(ctx context.Context, id string, staffPick bool) error
	Delete(ctx context.Context, id string) error
}
