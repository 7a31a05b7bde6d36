package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/recshelf/internal/model"
)

func TestHandleMe_RequiresAuth(t *testing.T) {
	env := newTestEnv(t, nil)

	rr := env.do(t, http.MethodGet, "/api/me", nil, nil)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestHandleMe_ReturnsCaller(t *testing.T) {
	env := newTestEnv(t, []string{"github:admin"})
	cookie := env.signIn(t, "github:admin")

	rr := env.do(t, http.MethodGet, "/api/me", nil, cookie)

	require.Equal(t, http.StatusOK, rr.Code)
	user := decodeBody[model.User](t, rr)
	assert.Equal(t, "github:admin", user.ExternalID)
	assert.Equal(t, model.RoleAdmin, user.Role)
	assert.NotEmpty(t, user.ID)
}

func TestHandleUpdateRole_AdminPromotes(t *testing.T) {
	env := newTestEnv(t, []string{"github:admin"})
	admin := env.signIn(t, "github:admin")
	target := env.signIn(t, "github:ada")

	ada, err := env.users.GetByExternalID(context.Background(), "github:ada")
	require.NoError(t, err)

	rr := env.do(t, http.MethodPut, "/api/users/"+ada.ID+"/role", roleRequest{Role: "admin"}, admin)
	require.Equal(t, http.StatusNoContent, rr.Code)

	rr = env.do(t, http.MethodGet, "/api/me", nil, target)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, model.RoleAdmin, decodeBody[model.User](t, rr).Role)
}

func TestHandleUpdateRole_NonAdminForbidden(t *testing.T) {
	env := newTestEnv(t, nil)
	pleb := env.signIn(t, "github:pleb")
	env.signIn(t, "github:ada")

	ada, err := env.users.GetByExternalID(context.Background(), "github:ada")
	require.NoError(t, err)

	rr := env.do(t, http.MethodPut, "/api/users/"+ada.ID+"/role", roleRequest{Role: "admin"}, pleb)

	require.Equal(t, http.StatusForbidden, rr.Code)
	errResp := decodeBody[ErrorResponse](t, rr)
	assert.Equal(t, "Unauthorized: Only admins can update roles", errResp.Message)
}

func TestHandleUpdateRole_InvalidRole(t *testing.T) {
	env := newTestEnv(t, []string{"github:admin"})
	admin := env.signIn(t, "github:admin")
	env.signIn(t, "github:ada")

	ada, err := env.users.GetByExternalID(context.Background(), "github:ada")
	require.NoError(t, err)

	rr := env.do(t, http.MethodPut, "/api/users/"+ada.ID+"/role", roleRequest{Role: "superuser"}, admin)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHandleUpdateRole_UnknownTarget(t *testing.T) {
	env := newTestEnv(t, []string{"github:admin"})
	admin := env.signIn(t, "github:admin")

	rr := env.do(t, http.MethodPut, "/api/users/no-such-id/role", roleRequest{Role: "admin"}, admin)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}
