package permissions_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hostel/permissions"
)

func TestParseRole(t *testing.T) {
	for _, role := range permissions.Roles {
		got, err := permissions.ParseRole(string(role))
		require.NoError(t, err)
		assert.Equal(t, role, got)
	}

	for _, invalid := range []string{"", "user", "Admin", "root"} {
		_, err := permissions.ParseRole(invalid)
		assert.Error(t, err, invalid)
	}
}

func TestAllowed(t *testing.T) {
	sa, admin, owner := permissions.RoleSuperAdmin, permissions.RoleAdmin, permissions.RoleOwner

	tests := []struct {
		name     string
		resource permissions.Resource
		action   permissions.Action
		allowed  []permissions.Role
	}{
		{"list users", permissions.ResourceUser, permissions.ActionList, []permissions.Role{sa, admin}},
		{"create user", permissions.ResourceUser, permissions.ActionCreate, []permissions.Role{sa, admin}},
		{"delete user", permissions.ResourceUser, permissions.ActionDelete, []permissions.Role{sa, admin}},
		{"stats", permissions.ResourceStats, permissions.ActionList, []permissions.Role{sa, admin}},
		{"list hostels", permissions.ResourceHostel, permissions.ActionList, []permissions.Role{sa, admin, owner}},
		{"create hostel", permissions.ResourceHostel, permissions.ActionCreate, []permissions.Role{sa, admin, owner}},
		{"update hostel", permissions.ResourceHostel, permissions.ActionUpdate, []permissions.Role{sa, admin, owner}},
		{"delete hostel", permissions.ResourceHostel, permissions.ActionDelete, []permissions.Role{sa, admin}},
		{"create room", permissions.ResourceRoom, permissions.ActionCreate, []permissions.Role{sa, admin, owner}},
		{"delete room", permissions.ResourceRoom, permissions.ActionDelete, []permissions.Role{sa, admin, owner}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, role := range permissions.Roles {
				want := false
				for _, r := range tt.allowed {
					want = want || r == role
				}

				assert.Equal(t, want, permissions.Allowed(role, tt.resource, tt.action), role)
			}
		})
	}

	assert.False(t, permissions.Allowed(permissions.Role("guest"), permissions.ResourceRoom, permissions.ActionList))
	assert.False(t, permissions.Allowed(sa, permissions.Resource("booking"), permissions.ActionList))
}

func TestPermissionData_Authorize(t *testing.T) {
	data := permissions.Get()
	require.NotNil(t, data)

	assert.True(t, data.Authorize("", "/api/auth/login", http.MethodPost))
	assert.True(t, data.Authorize(permissions.RoleOwner, "/api/auth/me", http.MethodGet))
	assert.True(t, data.Authorize(permissions.RoleOwner, "/api/hostels/", http.MethodGet))
	assert.False(t, data.Authorize(permissions.RoleOwner, "/api/hostels/stats", http.MethodGet))
	assert.False(t, data.Authorize(permissions.RoleOwner, "/api/hostels/{id}", http.MethodDelete))
	assert.True(t, data.Authorize(permissions.RoleAdmin, "/api/hostels/{id}", http.MethodDelete))
	assert.False(t, data.Authorize(permissions.RoleOwner, "/api/users", http.MethodPost))
	assert.True(t, data.Authorize(permissions.RoleOwner, "/api/rooms/{id}", http.MethodPut))
	assert.False(t, data.Authorize(permissions.RoleSuperAdmin, "/api/unknown", http.MethodGet))
}

func TestIdentity(t *testing.T) {
	ctx := permissions.WithIdentity(context.Background(), permissions.Identity{ID: "u1", Role: permissions.RoleOwner})

	identity, ok := permissions.IdentityFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, "u1", identity.ID)
	assert.True(t, identity.CanAccessOwner("u1"))
	assert.False(t, identity.CanAccessOwner("u2"))

	admin := permissions.Identity{ID: "a1", Role: permissions.RoleAdmin}
	assert.True(t, admin.CanAccessOwner("u2"))

	_, ok = permissions.IdentityFromContext(context.Background())
	assert.False(t, ok)
}

func TestPermissionData_EveryRouteHasAResource(t *testing.T) {
	data := permissions.Get()
	require.NotNil(t, data)

	for _, endpoint := range data.Endpoints {
		if endpoint.Skip || endpoint.Self {
			continue
		}

		assert.NotEmpty(t, endpoint.Resource, endpoint.Method+" "+endpoint.Path)
		assert.NotEmpty(t, endpoint.Action, endpoint.Method+" "+endpoint.Path)
	}

	assert.True(t, data.Authorize(permissions.RoleOwner, "/api/rooms/options", http.MethodGet))
}

func TestFindPermissions_WithoutIndex(t *testing.T) {
	data := &permissions.PermissionData{Endpoints: []permissions.Permission{
		{Path: "/api/rooms/", Method: http.MethodGet, Resource: permissions.ResourceRoom, Action: permissions.ActionList},
	}}

	permission, ok := data.FindPermissions("/api/rooms", http.MethodGet)
	require.True(t, ok)
	assert.Equal(t, permissions.ResourceRoom, permission.Resource)

	_, ok = data.FindPermissions("/api/rooms", http.MethodPost)
	assert.False(t, ok)
}
