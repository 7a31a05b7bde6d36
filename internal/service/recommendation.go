package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/sakif/recshelf/internal/apperror"
	"github.com/sakif/recshelf/internal/model"
	"github.com/sakif/recshelf/internal/repository"
)

const (
	// MaxBlurbLength caps the blurb. Checked against the raw (pre-trim)
	// input, before trimming is applied on store.
	MaxBlurbLength = 500

	// DefaultLatestLimit is the landing-page "latest N" default.
	DefaultLatestLimit = 5
	// MaxLatestLimit caps how many records the public latest endpoint hands out.
	MaxLatestLimit = 50
)

// RecommendationService handles recommendation business logic: validation on
// create, the owner-or-admin delete rule, admin-only staff-pick curation,
// and the filtered read paths.
type RecommendationService struct {
	recs   repository.RecommendationRepository
	users  repository.UserRepository
	logger *slog.Logger
}

// NewRecommendationService creates a RecommendationService.
func NewRecommendationService(
	recs repository.RecommendationRepository,
	users repository.UserRepository,
	logger *slog.Logger,
) *RecommendationService {
	return &RecommendationService{
		recs:   recs,
		users:  users,
		logger: logger,
	}
}

// Create validates and stores a new recommendation for the caller.
//
// Checks run in a fixed order, each with its own validation failure: the
// caller must resolve to a signed-in user, title and blurb must be non-empty
// after trimming, the blurb must fit the length cap, and the link must parse
// as an absolute URL. On success the stored record carries a point-in-time
// snapshot of the owner's display name and avatar — deliberately not kept in
// sync with later profile edits — and starts with the staff-pick flag off.
func (s *RecommendationService) Create(ctx context.Context, callerExternalID, title string, genre model.Genre, link, blurb string) (*model.Recommendation, error) {
	owner, err := s.users.GetByExternalID(ctx, callerExternalID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.NotFound("User not found. Please sign in again.")
		}
		return nil, fmt.Errorf("creating recommendation: %w", err)
	}

	if strings.TrimSpace(title) == "" {
		return nil, apperror.ValidationFailed("title", "Title is required")
	}
	if strings.TrimSpace(blurb) == "" {
		return nil, apperror.ValidationFailed("blurb", "Blurb is required")
	}
	// Length is checked on the raw input; trimming happens after.
	if len(blurb) > MaxBlurbLength {
		return nil, apperror.ValidationFailed("blurb",
			fmt.Sprintf("Blurb must be %d characters or less", MaxBlurbLength))
	}
	if !isValidURL(link) {
		return nil, apperror.ValidationFailed("link", "Please provide a valid URL")
	}
	if !genre.IsValid() {
		return nil, apperror.ValidationFailed("genre", "Genre must be one of the supported categories")
	}

	rec := &model.Recommendation{
		OwnerExternalID:  owner.ExternalID,
		OwnerDisplayName: owner.DisplayName,
		OwnerAvatarURL:   owner.AvatarURL,
		Title:            strings.TrimSpace(title),
		Genre:            genre,
		Link:             strings.TrimSpace(link),
		Blurb:            strings.TrimSpace(blurb),
		IsStaffPick:      false,
	}

	if err := s.recs.Create(ctx, rec); err != nil {
		s.logger.Error("failed to create recommendation",
			slog.String("owner", owner.ExternalID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating recommendation: %w", err)
	}

	s.logger.Info("recommendation created",
		slog.String("id", rec.ID),
		slog.String("owner", rec.OwnerExternalID),
		slog.String("genre", string(rec.Genre)),
	)

	return rec, nil
}

// Remove permanently deletes a recommendation.
//
// The caller must resolve to a user and be either the record's owner or an
// admin. The delete is hard: a second Remove of the same id reports
// ErrNotFound.
func (s *RecommendationService) Remove(ctx context.Context, callerExternalID, recommendationID string) error {
	caller, err := s.users.GetByExternalID(ctx, callerExternalID)
	if err != nil {
		return err
	}

	rec, err := s.recs.GetByID(ctx, recommendationID)
	if err != nil {
		return err
	}

	if !canManageRecommendation(caller, rec) {
		return apperror.Unauthorized("You can only delete your own recommendations")
	}

	if err := s.recs.Delete(ctx, recommendationID); err != nil {
		return err
	}

	s.logger.Info("recommendation deleted",
		slog.String("id", recommendationID),
		slog.String("caller", caller.ExternalID),
	)

	return nil
}

// ToggleStaffPick flips the staff-pick flag and returns the new value.
//
// Admin only. There is intentionally no "set to value" variant, so two
// admins toggling concurrently race last-write-wins — the store serializes
// the writes and the later one lands.
func (s *RecommendationService) ToggleStaffPick(ctx context.Context, callerExternalID, recommendationID string) (bool, error) {
	caller, err := s.users.GetByExternalID(ctx, callerExternalID)
	if err != nil || !canCurate(caller) {
		return false, apperror.Unauthorized("Only admins can mark staff picks")
	}

	rec, err := s.recs.GetByID(ctx, recommendationID)
	if err != nil {
		return false, err
	}

	newValue := !rec.IsStaffPick
	if err := s.recs.SetStaffPick(ctx, recommendationID, newValue); err != nil {
		return false, err
	}

	s.logger.Info("staff pick toggled",
		slog.String("id", recommendationID),
		slog.Bool("isStaffPick", newValue),
		slog.String("caller", caller.ExternalID),
	)

	return newValue, nil
}

// List returns recommendations matching the filter, newest first.
// No authentication required; the filter precedence lives in the repository.
func (s *RecommendationService) List(ctx context.Context, filter repository.ListFilter) ([]model.Recommendation, error) {
	if filter.Genre != "" && !filter.Genre.IsValid() {
		return nil, apperror.ValidationFailed("genre", "Genre must be one of the supported categories")
	}

	recs, err := s.recs.List(ctx, filter)
	if err != nil {
		s.logger.Error("failed to list recommendations", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing recommendations: %w", err)
	}
	return recs, nil
}

// ListByOwner returns one owner's recommendations, newest first. Any caller
// may view any owner's list; there is no authorization check here.
func (s *RecommendationService) ListByOwner(ctx context.Context, ownerExternalID string) ([]model.Recommendation, error) {
	if ownerExternalID == "" {
		return nil, apperror.ValidationFailed("externalId", "External ID is required")
	}

	recs, err := s.recs.ListByOwner(ctx, ownerExternalID)
	if err != nil {
		s.logger.Error("failed to list recommendations by owner",
			slog.String("owner", ownerExternalID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("listing recommendations by owner: %w", err)
	}
	return recs, nil
}

// LatestPublic returns the limit most recent recommendations for the
// landing page. Ignores all filters, requires no authentication, and clamps
// limit to a sane range (default 5).
func (s *RecommendationService) LatestPublic(ctx context.Context, limit int) ([]model.Recommendation, error) {
	if limit <= 0 {
		limit = DefaultLatestLimit
	}
	if limit > MaxLatestLimit {
		limit = MaxLatestLimit
	}

	recs, err := s.recs.Latest(ctx, limit)
	if err != nil {
		s.logger.Error("failed to fetch latest recommendations", slog.String("error", err.Error()))
		return nil, fmt.Errorf("fetching latest recommendations: %w", err)
	}
	return recs, nil
}

// isValidURL reports whether link parses as an absolute URL with a scheme
// and host. Mirrors what a browser URL constructor would accept for an
// http(s) link; "not a url" and scheme-less strings are rejected.
func isValidURL(link string) bool {
	u, err := url.Parse(strings.TrimSpace(link))
	if err != nil {
		return false
	}
	return u.Scheme != "" && u.Host != ""
}
