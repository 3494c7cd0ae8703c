package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRole_IsValid(t *testing.T) {
	assert.True(t, RoleGuest.IsValid())
	assert.True(t, RoleUser.IsValid())
	assert.True(t, RoleAdmin.IsValid())
	assert.True(t, RoleSuperAdmin.IsValid())

	assert.False(t, Role("MODERATOR").IsValid())
	assert.False(t, Role("user").IsValid()) // регистр имеет значение
	assert.False(t, Role("").IsValid())
}

func TestParseRole(t *testing.T) {
	role, ok := ParseRole("ADMIN")
	require.True(t, ok)
	assert.Equal(t, RoleAdmin, role)

	_, ok = ParseRole("nonsense")
	assert.False(t, ok)
}

func TestPermissions_GuestHasNone(t *testing.T) {
	assert.Empty(t, Permissions(RoleGuest))
	assert.False(t, HasPermission(RoleGuest, PermViewPhotos))
}

func TestPermissions_UnknownRoleHasNone(t *testing.T) {
	assert.Empty(t, Permissions(Role("MODERATOR")))
	assert.False(t, HasPermission(Role("MODERATOR"), PermViewPhotos))
}

// Каждая следующая роль в иерархии включает все разрешения предыдущей
func TestPermissions_Monotonic(t *testing.T) {
	hierarchy := []Role{RoleGuest, RoleUser, RoleAdmin, RoleSuperAdmin}

	for i := 1; i < len(hierarchy); i++ {
		lower, higher := hierarchy[i-1], hierarchy[i]
		for _, perm := range Permissions(lower) {
			assert.True(t, HasPermission(higher, perm),
				"роль %s должна наследовать разрешение %s роли %s", higher, perm, lower)
		}
		assert.Greater(t, len(Permissions(higher)), len(Permissions(lower)))
	}
}

func TestPermissions_AdminBoundaries(t *testing.T) {
	// ADMIN модерирует, но не управляет ролями и настройками системы
	assert.True(t, HasPermission(RoleAdmin, PermListUsers))
	assert.True(t, HasPermission(RoleAdmin, PermBanUsers))
	assert.False(t, HasPermission(RoleAdmin, PermManageRoles))
	assert.False(t, HasPermission(RoleAdmin, PermManageSystemSettings))

	assert.True(t, HasPermission(RoleSuperAdmin, PermManageRoles))
	assert.True(t, HasPermission(RoleSuperAdmin, PermManageSystemSettings))
}

func TestHasAnyPermission(t *testing.T) {
	assert.True(t, HasAnyPermission(RoleAdmin, PermManageRoles, PermListUsers))
	assert.False(t, HasAnyPermission(RoleUser, PermManageRoles, PermListUsers))
	assert.False(t, HasAnyPermission(RoleUser))
}

func TestHasRole(t *testing.T) {
	assert.True(t, HasRole(RoleAdmin, RoleAdmin, RoleSuperAdmin))
	assert.False(t, HasRole(RoleUser, RoleAdmin, RoleSuperAdmin))
}

func TestPermissions_ReturnsCopy(t *testing.T) {
	perms := Permissions(RoleUser)
	require.NotEmpty(t, perms)

	perms[0] = Permission("tampered")
	assert.NotContains(t, Permissions(RoleUser), Permission("tampered"))
}
