package entity

import "slices"

const (
	PermissionViewRoster    = "view_roster"
	PermissionManageUsers   = "manage_users"
	PermissionManageRoles   = "manage_roles"
	PermissionEnrollFaces   = "enroll_faces"
	PermissionVerifyFaces   = "verify_faces"
	PermissionRecognize     = "recognize_faces"
	PermissionStageImages   = "stage_images"
	PermissionViewOwnRecord = "view_own_record"
)

var rolePermissions = map[Role][]string{
	RoleAdministrator: {
		PermissionViewRoster,
		PermissionManageUsers,
		PermissionManageRoles,
		PermissionEnrollFaces,
		PermissionVerifyFaces,
		PermissionRecognize,
		PermissionStageImages,
		PermissionViewOwnRecord,
	},
	RoleSecurity: {
		PermissionVerifyFaces,
		PermissionRecognize,
		PermissionStageImages,
		PermissionViewOwnRecord,
	},
	RoleOwner: {
		PermissionEnrollFaces,
		PermissionVerifyFaces,
		PermissionStageImages,
		PermissionViewOwnRecord,
	},
	RoleTenant: {
		PermissionVerifyFaces,
		PermissionStageImages,
		PermissionViewOwnRecord,
	},
}

func GetPermissionsByRole(role Role) []string {
	permissions, exists := rolePermissions[role]
	if !exists {
		return []string{PermissionViewOwnRecord}
	}

	return permissions
}

func HasPermission(role Role, permission string) bool {
	return slices.Contains(GetPermissionsByRole(role), permission)
}
