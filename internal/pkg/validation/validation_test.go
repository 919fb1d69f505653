package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidEmail(t *testing.T) {
	assert.True(t, IsValidEmail("owner@roomrento.in"))
	assert.False(t, IsValidEmail("owner@roomrento"))
	assert.False(t, IsValidEmail("owner roomrento.in"))
}

func TestIsValidPassword(t *testing.T) {
	assert.True(t, IsValidPassword("s3cret!pass"))
	assert.False(t, IsValidPassword("short1!"))
	assert.False(t, IsValidPassword("nodigits!!"))
	assert.False(t, IsValidPassword("nospecial12"))
}

func TestIsValidFullname(t *testing.T) {
	assert.True(t, IsValidFullname("Asha D'Souza-Verma"))
	assert.False(t, IsValidFullname(""))
	assert.False(t, IsValidFullname("Asha 2"))
}

func TestIsValidPhone(t *testing.T) {
	for _, p := range []string{"9876543210", "+919876543210", "098765 43210", "98765-43210"} {
		assert.True(t, IsValidPhone(p), p)
	}
	for _, p := range []string{"", "12345", "5876543210", "98765432101"} {
		assert.False(t, IsValidPhone(p), p)
	}
}
