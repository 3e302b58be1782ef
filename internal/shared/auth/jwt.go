package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

const DefaultSessionTTL = 24 * time.Hour

type Claims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// JWT issues and validates HS256 session tokens whose subject is the user ID.
type JWT struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewJWT(secret string, ttl time.Duration) *JWT {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &JWT{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// TTL is how long generated tokens stay valid.
func (j *JWT) TTL() time.Duration {
	return j.ttl
}

func (j *JWT) Generate(userID, email string) (string, error) {
	if userID == "" {
		return "", errors.New("user ID is required")
	}

	now := j.now()
	claims := Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.ttl)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return token, nil
}

func (j *JWT) Validate(token string) (*Claims, error) {
	var claims Claims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return j.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return &claims, nil
}

// Verify implements Verifier.
func (j *JWT) Verify(ctx context.Context, token string) (*Identity, error) {
	claims, err := j.Validate(token)
	if err != nil {
		return nil, err
	}
	return &Identity{UserID: claims.Subject, Email: claims.Email}, nil
}
