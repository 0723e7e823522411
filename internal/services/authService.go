package services

import (
	"context"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"

	"rebelbot/internal/utils"
)

// TokenVerifier checks bearer tokens issued by the identity provider.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*utils.Claims, error)
}

type jwtVerifier struct {
	secret []byte
}

// NewTokenVerifier returns a verifier for HS256 tokens signed with secret.
func NewTokenVerifier(secret []byte) TokenVerifier {
	return &jwtVerifier{secret: secret}
}

func (v *jwtVerifier) Verify(ctx context.Context, tokenString string) (*utils.Claims, error) {
	if len(v.secret) == 0 {
		log.Error().Msg("JWT secret is not configured, rejecting token")
		return nil, fmt.Errorf("%w: verifier not configured", ErrUnauthorized)
	}

	claims := &utils.Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		log.Debug().Err(err).Msg("Token verification failed")
		return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	if !token.Valid || claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrUnauthorized)
	}
	return claims, nil
}
