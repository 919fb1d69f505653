package auth

import (
	"fmt"
	"time"

	"roomrento-backend/internal/domain"
	"roomrento-backend/internal/session"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Tokens issues and verifies HS256 bearer tokens.
type Tokens struct {
	Secret string
	TTL    time.Duration
}

// Issue signs a token for u.
func (t *Tokens) Issue(u *domain.User) (string, error) {
	if t.Secret == "" {
		return "", fmt.Errorf("auth: JWT_SECRET is not set")
	}
	ttl := t.TTL
	if ttl == 0 {
		ttl = 72 * time.Hour
	}
	claims := jwt.MapClaims{
		"sub":   u.UserID.String(),
		"email": u.Email,
		"role":  u.Role,
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(t.Secret))
}

// Parse verifies tokenString and returns the session it carries. Without a
// secret every token is rejected.
func (t *Tokens) Parse(tokenString string) (session.Context, error) {
	if t.Secret == "" {
		return session.Context{}, ErrInvalidToken
	}
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return []byte(t.Secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return session.Context{}, ErrInvalidToken
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return session.Context{}, ErrInvalidToken
	}
	sub, err := claims.GetSubject()
	if err != nil {
		return session.Context{}, ErrInvalidToken
	}
	id, err := uuid.Parse(sub)
	if err != nil {
		return session.Context{}, ErrInvalidToken
	}
	email, _ := claims["email"].(string)
	role, _ := claims["role"].(string)
	return session.Context{UserID: id, Email: email, Role: role}, nil
}
