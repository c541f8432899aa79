// Package token implements the session token format used by the dashboard:
// three dot-separated base64 segments shaped like a JWT but carrying no
// cryptographic signature. The third segment is a fixed format marker, not
// an HMAC — the token is self-encoded and must not be trusted across any
// real security boundary.
package token

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"time"

	"github.com/finn/cloudcost-dashboard/internal/domain"
)

// header is the fixed first segment, encoded once.
var header = base64.StdEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))

// marker is appended to the first two segments to form the third.
const marker = "secret"

// Claims is the payload carried by a session token. Exp is an absolute
// epoch-millisecond deadline.
type Claims struct {
	ID    string      `json:"id"`
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
	Exp   int64       `json:"exp"`
}

// Codec issues and decodes session tokens.
type Codec struct {
	ttl time.Duration
	now func() time.Time
}

// New creates a codec issuing tokens valid for ttl.
func New(ttl time.Duration) *Codec {
	return NewWithClock(ttl, time.Now)
}

// NewWithClock creates a codec with an injected clock.
func NewWithClock(ttl time.Duration, now func() time.Time) *Codec {
	return &Codec{ttl: ttl, now: now}
}

// Issue encodes the user's identity, role and expiry into a token.
func (c *Codec) Issue(u *domain.User) string {
	claims := Claims{
		ID:    u.ID,
		Email: u.Email,
		Role:  u.Role,
		Exp:   c.now().Add(c.ttl).UnixMilli(),
	}
	body, _ := json.Marshal(claims)
	payload := base64.StdEncoding.EncodeToString(body)
	sig := base64.StdEncoding.EncodeToString([]byte(header + "." + payload + "." + marker))
	return header + "." + payload + "." + sig
}

// Decode returns the claims carried by the token, or nil if the token does
// not split into three segments, the payload is not well-formed, or the
// expiry is not strictly in the future. It never returns an error: absence
// of claims is the only failure signal.
func (c *Codec) Decode(tok string) *Claims {
	parts := strings.Split(tok, ".")
	if len(parts) != 3 {
		return nil
	}

	body, err := base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		return nil
	}

	var claims Claims
	if err := json.Unmarshal(body, &claims); err != nil {
		return nil
	}

	if claims.Exp <= c.now().UnixMilli() {
		return nil
	}

	return &claims
}
