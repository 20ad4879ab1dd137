package auth

import (
	apperrors "github.com/jwalitptl/encounter-api/pkg/errors"
)

// Authenticator resolves an API key to an actor identity.
type Authenticator interface {
	Authenticate(apiKey string, present bool) (string, *apperrors.AppError)
}

// APIKeyAuthenticator is the stub keychain: any non-empty key maps to a fixed
// actor identity. Real key validation/lookup will be added later.
type APIKeyAuthenticator struct {
	actor string
}

const defaultActor = "api-key-actor"

func NewAPIKeyAuthenticator() *APIKeyAuthenticator {
	return &APIKeyAuthenticator{actor: defaultActor}
}

func (a *APIKeyAuthenticator) Authenticate(apiKey string, present bool) (string, *apperrors.AppError) {
	if !present {
		return "", apperrors.NewUnauthorized("Missing API key")
	}
	if apiKey == "" {
		return "", apperrors.NewUnauthorized("Invalid API key")
	}
	return a.actor, nil
}
