package services

import (
	"context"

	"google.golang.org/api/idtoken"
)

// GoogleServiceProvider verifies a caller's Google-issued identity token.
type GoogleServiceProvider interface {
	ValidateIdToken(ctx context.Context, idToken string, audience string) (*idtoken.Payload, error)
}

// GoogleService is the production GoogleServiceProvider.
type GoogleService struct{}

func (GoogleService) ValidateIdToken(ctx context.Context, idToken string, audience string) (*idtoken.Payload, error) {
	return idtoken.Validate(ctx, idToken, audience)
}
