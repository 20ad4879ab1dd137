package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/jwalitptl/encounter-api/pkg/errors"
)

func TestMissingKeyIsUnauthorized(t *testing.T) {
	a := NewAPIKeyAuthenticator()
	actor, err := a.Authenticate("", false)
	require.NotNil(t, err)
	assert.Empty(t, actor)
	assert.Equal(t, apperrors.ErrUnauthorized, err.Code)
	assert.Equal(t, "Missing API key", err.Message)
}

func TestEmptyKeyIsUnauthorized(t *testing.T) {
	a := NewAPIKeyAuthenticator()
	actor, err := a.Authenticate("", true)
	require.NotNil(t, err)
	assert.Empty(t, actor)
	assert.Equal(t, "Invalid API key", err.Message)
}

func TestNonEmptyKeyMapsToFixedActor(t *testing.T) {
	a := NewAPIKeyAuthenticator()
	for _, key := range []string{"k", "any-key", "secret-123"} {
		actor, err := a.Authenticate(key, true)
		require.Nil(t, err)
		assert.Equal(t, "api-key-actor", actor)
	}
}
