package auth

import (
	"context"
	"errors"
)

var ErrInvalidToken = errors.New("invalid or expired token")

// Identity is the authenticated caller. UserID scopes every stored entity.
type Identity struct {
	UserID string
	Email  string
}

// Verifier turns a bearer token into an Identity.
type Verifier interface {
	Verify(ctx context.Context, token string) (*Identity, error)
}

// Verifiers tries each verifier in order and accepts the first success.
type Verifiers []Verifier

func (vs Verifiers) Verify(ctx context.Context, token string) (*Identity, error) {
	for _, v := range vs {
		if v == nil {
			continue
		}
		if id, err := v.Verify(ctx, token); err == nil {
			return id, nil
		}
	}
	return nil, ErrInvalidToken
}
