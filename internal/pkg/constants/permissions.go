package constants

const (
	CreateListing  = "create_listing"
	ManageListing  = "manage_listing"
	RequestBooking = "request_booking"
	DecideBooking  = "decide_booking"
)

// PermissionRoles maps each permission to the roles allowed to perform it.
var PermissionRoles = map[string][]string{
	CreateListing:  {Owner},
	ManageListing:  {Owner},
	RequestBooking: {Tenant},
	DecideBooking:  {Owner},
}

// AllowedRole returns true if role is in the list of allowed roles for the permission.
func AllowedRole(permission, role string) bool {
	roles, ok := PermissionRoles[permission]
	if !ok {
		return false
	}
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}
