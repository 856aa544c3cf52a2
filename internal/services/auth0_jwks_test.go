package services

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newJWKSServer(t *testing.T, kid string, key *rsa.PrivateKey) (*httptest.Server, *int) {
	t.Helper()

	hits := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		pub := key.Public().(*rsa.PublicKey)
		json.NewEncoder(w).Encode(Auth0JWKS{
			Keys: []Auth0JWK{{
				Kty: "RSA",
				Kid: kid,
				Use: "sig",
				Alg: "RS256",
				N:   base64.RawURLEncoding.EncodeToString(pub.N.Bytes()),
				E:   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(pub.E)).Bytes()),
			}},
		})
	}))
	t.Cleanup(server.Close)
	return server, &hits
}

func TestKeyfuncVerifiesSignedToken(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	server, _ := newJWKSServer(t, "test-kid", key)
	client := NewAuth0JWKSClient(server.URL)

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, jwt.MapClaims{
		"sub": "auth0|abc",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	token.Header["kid"] = "test-kid"
	signed, err := token.SignedString(key)
	require.NoError(t, err)

	parsed, err := jwt.Parse(signed, client.Keyfunc)
	require.NoError(t, err)
	assert.True(t, parsed.Valid)

	claims := parsed.Claims.(jwt.MapClaims)
	assert.Equal(t, "auth0|abc", claims["sub"])
}

func TestKeyfuncCachesKeys(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	server, hits := newJWKSServer(t, "cached-kid", key)
	client := NewAuth0JWKSClient(server.URL)

	_, err = client.GetPublicKey("cached-kid")
	require.NoError(t, err)
	_, err = client.GetPublicKey("cached-kid")
	require.NoError(t, err)

	assert.Equal(t, 1, *hits)
}

func TestKeyfuncRejectsNonRSAToken(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	server, _ := newJWKSServer(t, "test-kid", key)
	client := NewAuth0JWKSClient(server.URL)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "auth0|abc"})
	signed, err := token.SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = jwt.Parse(signed, client.Keyfunc)
	assert.ErrorContains(t, err, "unexpected signing method")
}

func TestKeyfuncRejectsMissingKid(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	server, _ := newJWKSServer(t, "test-kid", key)
	client := NewAuth0JWKSClient(server.URL)

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, jwt.MapClaims{"sub": "auth0|abc"})
	signed, err := token.SignedString(key)
	require.NoError(t, err)

	_, err = jwt.Parse(signed, client.Keyfunc)
	assert.ErrorContains(t, err, "kid")
}

func TestGetPublicKeyUnknownKid(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	server, _ := newJWKSServer(t, "known-kid", key)
	client := NewAuth0JWKSClient(server.URL)

	_, err = client.GetPublicKey("other-kid")
	assert.ErrorContains(t, err, "not found")
}
