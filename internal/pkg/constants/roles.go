package constants

const (
	Owner  = "owner"
	Tenant = "tenant"
)

// ValidRoles is the set of roles a user can register with.
var ValidRoles = []string{Owner, Tenant}

// IsValidRole returns true if role is one of the allowed values.
func IsValidRole(role string) bool {
	for _, r := range ValidRoles {
		if r == role {
			return true
		}
	}
	return false
}
