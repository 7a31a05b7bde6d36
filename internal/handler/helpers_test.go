package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/sakif/recshelf/internal/auth"
	"github.com/sakif/recshelf/internal/model"
	sqliteRepo "github.com/sakif/recshelf/internal/repository/sqlite"
	"github.com/sakif/recshelf/internal/service"
)

// testEnv runs the real handler → service → sqlite stack against an
// in-memory database, with the same route shape the server registers.
type testEnv struct {
	router http.Handler
	tokens *auth.TokenService
	users  *service.UserService
	recs   *service.RecommendationService
}

func newTestEnv(t *testing.T, seedAdmins []string) *testEnv {
	t.Helper()

	db, err := sqliteRepo.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	userService := service.NewUserService(db, seedAdmins, logger)
	recService := service.NewRecommendationService(db, db, logger)

	tokens, err := auth.NewTokenService("handler-test-secret-key")
	require.NoError(t, err)

	recHandler := NewRecommendationHandler(recService, logger)
	userHandler := NewUserHandler(userService, logger)

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Get("/recommendations/latest", recHandler.HandleLatest)
		r.Get("/recommendations", recHandler.HandleList)
		r.Get("/users/{externalID}/recommendations", recHandler.HandleListByOwner)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(tokens))
			r.Get("/me", userHandler.HandleMe)
			r.Post("/recommendations", recHandler.HandleCreate)
			r.Delete("/recommendations/{id}", recHandler.HandleDelete)
			r.Post("/recommendations/{id}/staff-pick", recHandler.HandleToggleStaffPick)
			r.Put("/users/{id}/role", userHandler.HandleUpdateRole)
		})
	})

	return &testEnv{router: r, tokens: tokens, users: userService, recs: recService}
}

// signIn registers the identity in the directory and returns a session
// cookie for it, mirroring the OAuth callback flow.
func (e *testEnv) signIn(t *testing.T, externalID string) *http.Cookie {
	t.Helper()

	_, err := e.users.GetOrCreate(context.Background(), externalID, externalID+"@example.com", "User "+externalID, "")
	require.NoError(t, err)

	token, err := e.tokens.Generate(externalID)
	require.NoError(t, err)

	return &http.Cookie{Name: auth.CookieName, Value: token}
}

// do performs a request against the router. body is JSON-encoded when
// non-nil; cookie is attached when non-nil.
func (e *testEnv) do(t *testing.T, method, path string, body any, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(buf)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}

	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}

// seedRec creates a recommendation through the service layer. The short
// sleep keeps created_at strictly increasing for ordering assertions.
func (e *testEnv) seedRec(t *testing.T, ownerExternalID, title string, genre model.Genre) *model.Recommendation {
	t.Helper()

	time.Sleep(5 * time.Millisecond)
	rec, err := e.recs.Create(context.Background(), ownerExternalID, title, genre, "https://example.com/"+title, "worth a look")
	require.NoError(t, err)
	return rec
}

func decodeBody[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()

	var out T
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&out))
	return out
}
