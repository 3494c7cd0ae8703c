// Package auth содержит статическую модель ролей и разрешений.
// Никаких побочных эффектов и I/O: таблица role -> permissions
// фиксируется на этапе компиляции и только читается.
package auth

// Role - уровень привилегий пользователя.
// Порядок строго возрастающий: GUEST < USER < ADMIN < SUPER_ADMIN.
type Role string

const (
	RoleGuest      Role = "GUEST"
	RoleUser       Role = "USER"
	RoleAdmin      Role = "ADMIN"
	RoleSuperAdmin Role = "SUPER_ADMIN"
)

// Permission - конкретная возможность, выводится из роли
type Permission string

const (
	PermGeneratePhotos       Permission = "generate:photos"
	PermViewPhotos           Permission = "view:photos"
	PermManageProfile        Permission = "manage:profile"
	PermDeleteAccount        Permission = "delete:account"
	PermListUsers            Permission = "list:users"
	PermBanUsers             Permission = "ban:users"
	PermViewStats            Permission = "view:stats"
	PermManageRoles          Permission = "manage:roles"
	PermManageSystemSettings Permission = "manage:system_settings"
)

// rolePermissions - полная таблица разрешений.
// Набор каждой роли - строгое надмножество набора предыдущей.
var rolePermissions = map[Role][]Permission{
	RoleGuest: {},
	RoleUser: {
		PermGeneratePhotos,
		PermViewPhotos,
		PermManageProfile,
		PermDeleteAccount,
	},
	RoleAdmin: {
		PermGeneratePhotos,
		PermViewPhotos,
		PermManageProfile,
		PermDeleteAccount,
		PermListUsers,
		PermBanUsers,
		PermViewStats,
	},
	RoleSuperAdmin: {
		PermGeneratePhotos,
		PermViewPhotos,
		PermManageProfile,
		PermDeleteAccount,
		PermListUsers,
		PermBanUsers,
		PermViewStats,
		PermManageRoles,
		PermManageSystemSettings,
	},
}

// IsValid сообщает, известна ли роль таблице
func (r Role) IsValid() bool {
	_, ok := rolePermissions[r]
	return ok
}

// ParseRole преобразует строку в роль; false для неизвестных значений
func ParseRole(s string) (Role, bool) {
	r := Role(s)
	return r, r.IsValid()
}

// HasPermission проверяет, даёт ли роль указанное разрешение
func HasPermission(role Role, perm Permission) bool {
	for _, p := range rolePermissions[role] {
		if p == perm {
			return true
		}
	}
	return false
}

// HasAnyPermission проверяет наличие хотя бы одного из разрешений
func HasAnyPermission(role Role, perms ...Permission) bool {
	for _, p := range perms {
		if HasPermission(role, p) {
			return true
		}
	}
	return false
}

// HasRole проверяет вхождение роли в список допустимых
func HasRole(role Role, allowed ...Role) bool {
	for _, r := range allowed {
		if role == r {
			return true
		}
	}
	return false
}

// Permissions возвращает копию набора разрешений роли
func Permissions(role Role) []Permission {
	perms := rolePermissions[role]
	out := make([]Permission, len(perms))
	copy(out, perms)
	return out
}
