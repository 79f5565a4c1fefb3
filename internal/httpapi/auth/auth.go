// Package auth guards the HTTP boundary's /parse endpoint with a single
// bearer token: the server is configured with one API key, that key is
// hashed with bcrypt at startup (never compared or stored in the clear),
// and each request presents a JWT signed with the hash as its secret.
package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// ErrNoToken is returned by Validate when the request carries no bearer
// token at all.
var ErrNoToken = errors.New("no bearer token present")

// Guard checks bearer tokens against a single configured API key.
type Guard struct {
	keyHash []byte
}

// NewGuard hashes apiKey with bcrypt and returns a Guard that issues and
// validates tokens against it. apiKey is never retained in the clear.
func NewGuard(apiKey string) (*Guard, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(apiKey), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash api key: %w", err)
	}
	return &Guard{keyHash: hash}, nil
}

// Issue mints a short-lived JWT for a caller that has already presented the
// correct API key out of band (e.g. at process configuration time, not over
// the wire): the token is HS256-signed with the bcrypt hash as the HMAC
// secret, so anyone holding the hash can mint tokens without ever
// transmitting the raw key.
func (g *Guard) Issue(ttl time.Duration) (string, error) {
	claims := jwt.RegisteredClaims{
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(g.keyHash)
}

// Middleware wraps next, rejecting any request that does not carry a valid
// bearer token signed by this Guard.
func (g *Guard) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := g.validate(r); err != nil {
			http.Error(w, "unauthorized: "+err.Error(), http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (g *Guard) validate(r *http.Request) (*jwt.Token, error) {
	hdr := r.Header.Get("Authorization")
	if !strings.HasPrefix(hdr, "Bearer ") {
		return nil, ErrNoToken
	}
	raw := strings.TrimPrefix(hdr, "Bearer ")
	return jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return g.keyHash, nil
	})
}
