package main

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// SessionTokenCreator mints and verifies the bearer tokens that tie a
// client to its server-held VerificationSession.
type SessionTokenCreator interface {
	CreateSessionToken(sessionId string) (token string, err error)
	ParseSessionToken(token string) (sessionId string, err error)
}

const sessionTokenIssuer = "go-travel-verifier"

func NewHmacSessionTokenCreator(secret string) (*HmacSessionTokenCreator, error) {
	if secret == "" {
		return nil, fmt.Errorf("session token secret must not be empty")
	}
	return &HmacSessionTokenCreator{secret: []byte(secret)}, nil
}

type HmacSessionTokenCreator struct {
	secret []byte
}

func (c *HmacSessionTokenCreator) CreateSessionToken(sessionId string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Issuer:    sessionTokenIssuer,
		Subject:   sessionId,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(SessionTimeout)),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return token, nil
}

func (c *HmacSessionTokenCreator) ParseSessionToken(token string) (string, error) {
	var claims jwt.RegisteredClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return c.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to parse session token: %w", err)
	}
	if !parsed.Valid || claims.Subject == "" {
		return "", fmt.Errorf("invalid session token")
	}
	return claims.Subject, nil
}
