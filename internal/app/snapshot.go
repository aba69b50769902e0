package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/form3tech-oss/jwt-go"
)

// ErrInvalidSnapshot is returned when a snapshot token fails verification.
var ErrInvalidSnapshot = errors.New("invalid game snapshot")

const snapshotClaim = "view"

// ViewSealer signs one player's View into an HS256 token so a client can hold
// a tamper-proof record of what it was shown, and verifies it on the way back.
// Tokens are signed, not encrypted: only what the player may already see is
// sealed.
type ViewSealer struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewViewSealer creates a sealer. A zero ttl issues tokens that never expire.
func NewViewSealer(secret, issuer string, ttl time.Duration) *ViewSealer {
	return &ViewSealer{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}
}

// Seal encodes the view shown to player into a signed token.
func (s *ViewSealer) Seal(player string, view View) (string, error) {
	if len(s.secret) == 0 {
		return "", fmt.Errorf("snapshot secret is empty")
	}
	if player == "" {
		return "", fmt.Errorf("snapshot player is empty")
	}
	raw, err := json.Marshal(view)
	if err != nil {
		return "", fmt.Errorf("failed to marshal view: %w", err)
	}

	now := s.now()
	claims := jwt.MapClaims{
		"iss":         s.issuer,
		"sub":         view.GameID,
		"aud":         player,
		"iat":         now.Unix(),
		snapshotClaim: string(raw),
	}
	if s.ttl > 0 {
		claims["exp"] = now.Add(s.ttl).Unix()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Open verifies a token sealed for player and returns the view it carries.
func (s *ViewSealer) Open(tokenString, player string) (View, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return View{}, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return View{}, ErrInvalidSnapshot
	}
	if iss, _ := claims["iss"].(string); iss != s.issuer {
		return View{}, fmt.Errorf("%w: issuer %q", ErrInvalidSnapshot, iss)
	}
	if !claims.VerifyAudience(player, true) {
		return View{}, fmt.Errorf("%w: not sealed for %q", ErrInvalidSnapshot, player)
	}
	raw, ok := claims[snapshotClaim].(string)
	if !ok {
		return View{}, fmt.Errorf("%w: missing %s claim", ErrInvalidSnapshot, snapshotClaim)
	}

	var view View
	if err := json.Unmarshal([]byte(raw), &view); err != nil {
		return View{}, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}
	if sub, _ := claims["sub"].(string); sub != view.GameID {
		return View{}, fmt.Errorf("%w: subject %q does not match game %q", ErrInvalidSnapshot, sub, view.GameID)
	}
	return view, nil
}
