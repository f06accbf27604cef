package auth

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/fixlane/marketplace-api/internal/config"
	"github.com/fixlane/marketplace-api/internal/domain"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// JWTValidator validates bearer tokens issued by the identity service.
// Tokens are HS256-signed with a shared secret; claims carry the actor's
// id (sub), display name, email and roles.
type JWTValidator struct {
	config *config.AuthConfig
}

// NewJWTValidator creates a new JWT validator
func NewJWTValidator(cfg *config.AuthConfig) *JWTValidator {
	return &JWTValidator{config: cfg}
}

// ValidateToken validates a JWT token and returns the user context
func (v *JWTValidator) ValidateToken(tokenString string) (*UserContext, error) {
	if v.config.JWTSecret == "" {
		return nil, fmt.Errorf("%w: no signing secret configured", ErrInvalidToken)
	}

	claims := jwt.MapClaims{}
	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	}
	if v.config.Issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(v.config.Issuer))
	}
	if v.config.Audience != "" {
		parserOpts = append(parserOpts, jwt.WithAudience(v.config.Audience))
	}

	parsedToken, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(v.config.JWTSecret), nil
	}, parserOpts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !parsedToken.Valid {
		return nil, ErrInvalidToken
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	userID, err := uuid.Parse(sub)
	if err != nil {
		return nil, fmt.Errorf("%w: subject is not a UUID", ErrInvalidToken)
	}

	userCtx := &UserContext{UserID: userID}
	if name, ok := claims["name"].(string); ok {
		userCtx.DisplayName = name
	}
	if email, ok := claims["email"].(string); ok {
		userCtx.Email = email
	}
	userCtx.Roles = parseRoles(claims)
	if len(userCtx.Roles) == 0 {
		return nil, fmt.Errorf("%w: no recognized roles", ErrInvalidToken)
	}

	return userCtx, nil
}

// parseRoles accepts either a "roles" array claim or a single "role" string
func parseRoles(claims jwt.MapClaims) []domain.UserRoleType {
	var roles []domain.UserRoleType

	if raw, ok := claims["roles"].([]interface{}); ok {
		for _, item := range raw {
			if s, ok := item.(string); ok {
				role := domain.UserRoleType(s)
				if role.IsValid() {
					roles = append(roles, role)
				}
			}
		}
	}
	if s, ok := claims["role"].(string); ok {
		role := domain.UserRoleType(s)
		if role.IsValid() {
			roles = append(roles, role)
		}
	}

	return roles
}
