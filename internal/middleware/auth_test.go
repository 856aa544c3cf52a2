package middleware

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
)

func TestAudienceMatches(t *testing.T) {
	assert.True(t, audienceMatches("https://api.healthion.app", "https://api.healthion.app"))
	assert.False(t, audienceMatches("https://other.app", "https://api.healthion.app"))

	// Auth0 sends an array when the token also carries the userinfo audience.
	aud := []interface{}{"https://api.healthion.app", "https://tenant.auth0.com/userinfo"}
	assert.True(t, audienceMatches(aud, "https://api.healthion.app"))
	assert.False(t, audienceMatches(aud, "https://missing.app"))

	assert.False(t, audienceMatches(nil, "https://api.healthion.app"))
	assert.False(t, audienceMatches(42, "https://api.healthion.app"))
}

func TestEmailFromClaims(t *testing.T) {
	audience := "https://api.healthion.app"

	claims := jwt.MapClaims{"email": "direct@example.com"}
	assert.Equal(t, "direct@example.com", emailFromClaims(claims, audience, "auth0|abc"))

	claims = jwt.MapClaims{"https://api.healthion.app/email": "namespaced@example.com"}
	assert.Equal(t, "namespaced@example.com", emailFromClaims(claims, audience, "auth0|abc"))

	// Machine-to-machine tokens have no email claim at all.
	claims = jwt.MapClaims{}
	assert.Equal(t, "auth0|abc@unknown.com", emailFromClaims(claims, audience, "auth0|abc"))
}

func TestPermissionsFromClaims(t *testing.T) {
	claims := jwt.MapClaims{"permissions": []interface{}{"read:data", "write:data"}}
	assert.Equal(t, []string{"read:data", "write:data"}, permissionsFromClaims(claims))

	assert.Empty(t, permissionsFromClaims(jwt.MapClaims{}))
	assert.Empty(t, permissionsFromClaims(jwt.MapClaims{"permissions": "read:data"}))
}
