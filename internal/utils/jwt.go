package utils // package utils provides helper functions for token creation and hashing

import (
	"crypto/rand"     // secure random number generation
	"crypto/sha256"   // SHA-256 hashing for refresh tokens
	"encoding/base64" // base64 encoding of refresh token bytes
	"encoding/hex"    // hex encoding of token digests
	"time"            // expiry computation

	"github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
)

// refreshTokenBytes is the entropy of an opaque refresh token. The
// token carries no claims; validity is established solely by the
// refresh_tokens ledger.
const refreshTokenBytes = 64

// AccessToken is a signed JWT access token along with its expiry.
// Access tokens are short-lived and sent in the Authorization header
// when calling protected endpoints.
type AccessToken struct {
	Token string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time
}

// RefreshToken is a long-lived opaque token used to obtain new access
// tokens. Raw is returned to the client once; the database only ever
// sees its SHA-256 hash.
type RefreshToken struct {
	Raw string    // raw token string returned to the client
	Exp time.Time // UTC expiration time
}

// NewAccessToken builds and signs an HS256 JWT for an account. The
// claims follow the wire contract of the API: `sub` carries the email,
// `account_id` the numeric id and `role` the role name, plus the
// standard iss/aud/exp/iat set. ttlMin is the lifetime in minutes.
func NewAccessToken(secret, issuer, audience, email string, accountID uint64, role string, ttlMin int) (AccessToken, error) {
	now := time.Now().UTC()
	exp := now.Add(time.Duration(ttlMin) * time.Minute)
	claims := jwt.MapClaims{
		"sub":        email,
		"account_id": accountID,
		"role":       role,
		"iss":        issuer,
		"aud":        audience,
		"exp":        exp.Unix(),
		"iat":        now.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, Exp: exp}, nil
}

// NewRefreshToken returns a cryptographically secure random token and
// its expiration time. ttlDays controls how many days the token stays
// valid in the ledger.
func NewRefreshToken(ttlDays int) (RefreshToken, error) {
	buf := make([]byte, refreshTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return RefreshToken{}, err
	}
	return RefreshToken{
		Raw: base64.RawURLEncoding.EncodeToString(buf),
		Exp: time.Now().UTC().Add(time.Duration(ttlDays) * 24 * time.Hour),
	}, nil
}

// HashRefreshRaw returns the SHA-256 hash of the raw refresh token as
// a hex string. Storing only the hash prevents a leaked database from
// being used to refresh sessions.
func HashRefreshRaw(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
