package auth_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fixlane/marketplace-api/internal/auth"
	"github.com/fixlane/marketplace-api/internal/config"
	"github.com/fixlane/marketplace-api/internal/domain"
)

const testSecret = "test-signing-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func baseClaims(userID uuid.UUID) jwt.MapClaims {
	return jwt.MapClaims{
		"sub":   userID.String(),
		"name":  "Kari Customer",
		"email": "kari@example.com",
		"roles": []string{"customer"},
		"exp":   time.Now().Add(time.Hour).Unix(),
		"iat":   time.Now().Unix(),
	}
}

func TestValidateToken(t *testing.T) {
	validator := auth.NewJWTValidator(&config.AuthConfig{JWTSecret: testSecret})
	userID := uuid.New()

	userCtx, err := validator.ValidateToken(signToken(t, testSecret, baseClaims(userID)))
	require.NoError(t, err)

	assert.Equal(t, userID, userCtx.UserID)
	assert.Equal(t, "Kari Customer", userCtx.DisplayName)
	assert.Equal(t, "kari@example.com", userCtx.Email)
	assert.Equal(t, []domain.UserRoleType{domain.RoleCustomer}, userCtx.Roles)
}

func TestValidateToken_Expired(t *testing.T) {
	validator := auth.NewJWTValidator(&config.AuthConfig{JWTSecret: testSecret})
	claims := baseClaims(uuid.New())
	claims["exp"] = time.Now().Add(-time.Hour).Unix()

	_, err := validator.ValidateToken(signToken(t, testSecret, claims))
	assert.ErrorIs(t, err, auth.ErrExpiredToken)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	validator := auth.NewJWTValidator(&config.AuthConfig{JWTSecret: testSecret})

	_, err := validator.ValidateToken(signToken(t, "other-secret", baseClaims(uuid.New())))
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestValidateToken_SingleRoleClaim(t *testing.T) {
	validator := auth.NewJWTValidator(&config.AuthConfig{JWTSecret: testSecret})
	claims := baseClaims(uuid.New())
	delete(claims, "roles")
	claims["role"] = "vendor"

	userCtx, err := validator.ValidateToken(signToken(t, testSecret, claims))
	require.NoError(t, err)
	assert.Equal(t, []domain.UserRoleType{domain.RoleVendor}, userCtx.Roles)
}

func TestValidateToken_NoRecognizedRoles(t *testing.T) {
	validator := auth.NewJWTValidator(&config.AuthConfig{JWTSecret: testSecret})
	claims := baseClaims(uuid.New())
	claims["roles"] = []string{"superhero"}

	_, err := validator.ValidateToken(signToken(t, testSecret, claims))
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestValidateToken_SubjectMustBeUUID(t *testing.T) {
	validator := auth.NewJWTValidator(&config.AuthConfig{JWTSecret: testSecret})
	claims := baseClaims(uuid.New())
	claims["sub"] = "not-a-uuid"

	_, err := validator.ValidateToken(signToken(t, testSecret, claims))
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestValidateToken_IssuerChecked(t *testing.T) {
	validator := auth.NewJWTValidator(&config.AuthConfig{
		JWTSecret: testSecret,
		Issuer:    "fixlane-identity",
	})

	claims := baseClaims(uuid.New())
	claims["iss"] = "fixlane-identity"
	_, err := validator.ValidateToken(signToken(t, testSecret, claims))
	require.NoError(t, err)

	claims["iss"] = "someone-else"
	_, err = validator.ValidateToken(signToken(t, testSecret, claims))
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestUserContextRoles(t *testing.T) {
	user := &auth.UserContext{
		UserID: uuid.New(),
		Roles:  []domain.UserRoleType{domain.RoleVendor},
	}
	assert.True(t, user.HasRole(domain.RoleVendor))
	assert.False(t, user.HasRole(domain.RoleCustomer))
	assert.True(t, user.HasAnyRole(domain.RoleCustomer, domain.RoleVendor))
	assert.False(t, user.IsAdmin())

	svc := &auth.UserContext{Roles: []domain.UserRoleType{domain.RoleAPIService}}
	assert.True(t, svc.IsAdmin())
}
