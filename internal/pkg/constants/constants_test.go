package constants

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllowedRole(t *testing.T) {
	assert.True(t, AllowedRole(CreateListing, Owner))
	assert.False(t, AllowedRole(CreateListing, Tenant))
	assert.True(t, AllowedRole(RequestBooking, Tenant))
	assert.False(t, AllowedRole("unknown", Owner))
}

func TestIsValidRole(t *testing.T) {
	assert.True(t, IsValidRole("owner"))
	assert.True(t, IsValidRole("tenant"))
	assert.False(t, IsValidRole("admin"))
}
