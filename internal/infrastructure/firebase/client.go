package firebase

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	fbauth "firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"

	"smtm/internal/shared/auth"
)

// App wraps a Firebase app shared by the Firestore store and ID-token verification.
type App struct {
	app *firebase.App
}

// NewApp initializes Firebase. An empty credentialsFile falls back to
// application default credentials.
func NewApp(ctx context.Context, projectID, credentialsFile string) (*App, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}
	return &App{app: app}, nil
}

func (a *App) Firestore(ctx context.Context) (*firestore.Client, error) {
	client, err := a.app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firestore client: %w", err)
	}
	return client, nil
}

func (a *App) TokenVerifier(ctx context.Context) (*TokenVerifier, error) {
	client, err := a.app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase auth client: %w", err)
	}
	return &TokenVerifier{client: client}, nil
}

type idTokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*fbauth.Token, error)
}

// TokenVerifier accepts Firebase ID tokens as bearer tokens.
type TokenVerifier struct {
	client idTokenVerifier
}

func (v *TokenVerifier) Verify(ctx context.Context, token string) (*auth.Identity, error) {
	t, err := v.client.VerifyIDToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", auth.ErrInvalidToken, err)
	}

	email, _ := t.Claims["email"].(string)
	return &auth.Identity{UserID: t.UID, Email: email}, nil
}
