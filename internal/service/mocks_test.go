package service

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"time"

	"github.com/sakif/recshelf/internal/apperror"
	"github.com/sakif/recshelf/internal/model"
	"github.com/sakif/recshelf/internal/repository"
)

// In-memory mocks for the repository interfaces. The services only see the
// interfaces, so these swap in transparently — no database in service tests.

type mockUserRepo struct {
	byExternalID map[string]*model.User
	nextID       int
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{byExternalID: make(map[string]*model.User)}
}

// add seeds a user directly, bypassing Upsert. Returns a copy.
func (m *mockUserRepo) add(externalID string, role model.Role) *model.User {
	m.nextID++
	u := &model.User{
		ID:          fmt.Sprintf("user-%d", m.nextID),
		ExternalID:  externalID,
		Email:       externalID + "@example.com",
		DisplayName: "User " + externalID,
		Role:        role,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	m.byExternalID[externalID] = u
	u2 := *u
	return &u2
}

func (m *mockUserRepo) Upsert(_ context.Context, user *model.User) error {
	if existing, ok := m.byExternalID[user.ExternalID]; ok {
		drifted := existing.Email != user.Email ||
			existing.DisplayName != user.DisplayName ||
			existing.AvatarURL != user.AvatarURL
		user.ID = existing.ID
		user.Role = existing.Role
		user.CreatedAt = existing.CreatedAt
		user.UpdatedAt = existing.UpdatedAt
		if drifted {
			user.UpdatedAt = time.Now()
			stored := *user
			m.byExternalID[user.ExternalID] = &stored
		}
		return nil
	}

	m.nextID++
	user.ID = fmt.Sprintf("user-%d", m.nextID)
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.Role == "" {
		user.Role = model.RoleUser
	}
	stored := *user
	m.byExternalID[user.ExternalID] = &stored
	return nil
}

func (m *mockUserRepo) GetByExternalID(_ context.Context, externalID string) (*model.User, error) {
	u, ok := m.byExternalID[externalID]
	if !ok {
		return nil, apperror.NotFound("User not found")
	}
	u2 := *u
	return &u2, nil
}

func (m *mockUserRepo) GetUserByID(_ context.Context, id string) (*model.User, error) {
	for _, u := range m.byExternalID {
		if u.ID == id {
			u2 := *u
			return &u2, nil
		}
	}
	return nil, apperror.NotFound("User not found")
}

func (m *mockUserRepo) UpdateRole(_ context.Context, id string, role model.Role) error {
	for _, u := range m.byExternalID {
		if u.ID == id {
			u.Role = role
			return nil
		}
	}
	return apperror.NotFound("User not found")
}

var _ repository.UserRepository = (*mockUserRepo)(nil)

type mockRecRepo struct {
	recs   map[string]*model.Recommendation
	nextID int
	clock  time.Time
}

func newMockRecRepo() *mockRecRepo {
	return &mockRecRepo{
		recs:  make(map[string]*model.Recommendation),
		clock: time.Now(),
	}
}

func (m *mockRecRepo) Create(_ context.Context, rec *model.Recommendation) error {
	m.nextID++
	// Advance a fake clock so created_at ordering is deterministic.
	m.clock = m.clock.Add(time.Second)
	rec.ID = fmt.Sprintf("rec-%d", m.nextID)
	rec.CreatedAt = m.clock
	stored := *rec
	m.recs[rec.ID] = &stored
	return nil
}

func (m *mockRecRepo) GetByID(_ context.Context, id string) (*model.Recommendation, error) {
	r, ok := m.recs[id]
	if !ok {
		return nil, apperror.NotFound("Recommendation not found")
	}
	r2 := *r
	return &r2, nil
}

func (m *mockRecRepo) List(_ context.Context, filter repository.ListFilter) ([]model.Recommendation, error) {
	var out []model.Recommendation
	for _, r := range m.recs {
		switch {
		case filter.StaffPicksOnly:
			if !r.IsStaffPick {
				continue
			}
		case filter.Genre != "":
			if r.Genre != filter.Genre {
				continue
			}
		}
		out = append(out, *r)
	}
	sortNewestFirst(out)
	return out, nil
}

func (m *mockRecRepo) ListByOwner(_ context.Context, owner string) ([]model.Recommendation, error) {
	var out []model.Recommendation
	for _, r := range m.recs {
		if r.OwnerExternalID == owner {
			out = append(out, *r)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (m *mockRecRepo) Latest(_ context.Context, limit int) ([]model.Recommendation, error) {
	all, _ := m.List(context.Background(), repository.ListFilter{})
	if limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

func (m *mockRecRepo) SetStaffPick(_ context.Context, id string, staffPick bool) error {
	r, ok := m.recs[id]
	if !ok {
		return apperror.NotFound("Recommendation not found")
	}
	r.IsStaffPick = staffPick
	return nil
}

func (m *mockRecRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.recs[id]; !ok {
		return apperror.NotFound("Recommendation not found")
	}
	delete(m.recs, id)
	return nil
}

var _ repository.RecommendationRepository = (*mockRecRepo)(nil)

func sortNewestFirst(recs []model.Recommendation) {
	sort.Slice(recs, func(i, j int) bool {
		return recs[i].CreatedAt.After(recs[j].CreatedAt)
	})
}

// testLogger only shows errors so test output stays readable.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}
