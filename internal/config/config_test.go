package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateServer_RequiresJWTSecret(t *testing.T) {
	for _, env := range []string{"development", "production"} {
		assert.ErrorIs(t, (&Config{Env: env}).ValidateServer(), ErrJWTSecretRequired, env)
		assert.ErrorIs(t, (&Config{Env: env, JWTSecret: "   "}).ValidateServer(), ErrJWTSecretRequired, env)
	}
	assert.NoError(t, (&Config{Env: "production", JWTSecret: "s3cret"}).ValidateServer())
	assert.NoError(t, (&Config{Env: "test"}).ValidateServer())
}
