// internal/auth/session.go
package auth

import (
	"crypto/ed25519"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// CookieName is the cookie carrying the signed session token.
const CookieName = "tbg_token"

// privateKey and publicKey are used for signing and verifying JWT tokens.
var (
	privateKey ed25519.PrivateKey
	publicKey  ed25519.PublicKey

	// tokenExpire is how long a session token is valid (0 => never).
	tokenExpire time.Duration
)

// Session identifies one player seat in one game.
type Session struct {
	PlayerToken uuid.UUID
	GameID      uuid.UUID
}

type sessionClaims struct {
	GameID string `json:"gid"`
	jwt.RegisteredClaims
}

// Init generates a fresh ed25519 key pair at runtime and sets the token lifetime.
// Tokens issued before a restart become invalid, as do the games they point to.
func Init(expire time.Duration) error {
	var err error
	publicKey, privateKey, err = ed25519.GenerateKey(nil)
	if err != nil {
		return fmt.Errorf("failed to generate ed25519 key pair: %w", err)
	}
	tokenExpire = expire
	return nil
}

// InitFromPath reads ed25519 private/public keys from file and sets the token lifetime.
func InitFromPath(privatePath, publicPath string, expire time.Duration) error {
	privateKeyData, err := os.ReadFile(privatePath)
	if err != nil {
		return fmt.Errorf("failed to read private key file: %w", err)
	}
	publicKeyData, err := os.ReadFile(publicPath)
	if err != nil {
		return fmt.Errorf("failed to read public key file: %w", err)
	}

	privateKey = ed25519.PrivateKey(privateKeyData)
	publicKey = ed25519.PublicKey(publicKeyData)
	tokenExpire = expire
	return nil
}

// CreateJWT signs a session token with "sub" = player token and "gid" = game ID.
func CreateJWT(s Session) (string, error) {
	claims := sessionClaims{
		GameID: s.GameID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  s.PlayerToken.String(),
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
	}
	if tokenExpire > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(tokenExpire))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims)
	return token.SignedString(privateKey)
}

// AuthenticateJWT verifies a session token and returns the seat it names.
func AuthenticateJWT(tokenString string) (Session, error) {
	var claims sessionClaims
	t, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodEd25519); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return publicKey, nil
	})
	if err != nil {
		return Session{}, fmt.Errorf("jwt parse error: %w", err)
	}
	if !t.Valid {
		return Session{}, fmt.Errorf("invalid token")
	}

	playerToken, err := uuid.Parse(claims.Subject)
	if err != nil {
		return Session{}, fmt.Errorf("invalid sub in jwt: %w", err)
	}
	gameID, err := uuid.Parse(claims.GameID)
	if err != nil {
		return Session{}, fmt.Errorf("invalid gid in jwt: %w", err)
	}
	return Session{PlayerToken: playerToken, GameID: gameID}, nil
}
