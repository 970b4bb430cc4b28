// Package auth issues and verifies session tokens. A token binds a
// player identity to a room; reconnecting clients present it to reclaim
// their seat.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// SessionTTL bounds how long a seat can be reclaimed with one token.
const SessionTTL = 24 * time.Hour

var ErrInvalidToken = errors.New("auth: invalid session token")

// Claims identifies one player in one room.
type Claims struct {
	RoomID   uuid.UUID `json:"room_id"`
	PlayerID uuid.UUID `json:"player_id"`
	jwt.RegisteredClaims
}

// Signer creates and parses session tokens with a shared HMAC secret.
type Signer struct {
	secret []byte
}

func NewSigner(secret string) *Signer {
	return &Signer{secret: []byte(secret)}
}

// CreateSession returns a signed token for the given seat.
func (s *Signer) CreateSession(roomID, playerID uuid.UUID) (string, error) {
	now := time.Now()
	claims := Claims{
		RoomID:   roomID,
		PlayerID: playerID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   playerID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(SessionTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: sign session: %w", err)
	}
	return signed, nil
}

// ParseSession verifies the token and returns its claims.
func (s *Signer) ParseSession(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.RoomID == uuid.Nil || claims.PlayerID == uuid.Nil {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
