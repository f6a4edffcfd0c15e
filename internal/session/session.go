package session

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims embeds the user id as the JWT subject. The token is the only
// session state; nothing is stored server-side.
type Claims struct {
	jwt.RegisteredClaims
}

type Manager struct {
	secret []byte
	maxAge time.Duration
}

func NewManager(secret string, maxAge time.Duration) *Manager {
	return &Manager{
		secret: []byte(secret),
		maxAge: maxAge,
	}
}

// Issue produces a signed token embedding the user id and issuance time.
func (m *Manager) Issue(userID string) (string, error) {
	now := time.Now().UTC()

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.maxAge)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Verify checks signature and expiry and returns the embedded user id.
// Tampered or expired tokens yield an error; callers treat any error as
// "no session".
func (m *Manager) Verify(tokenStr string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		// Enforce HS256

		_, ok := t.Method.(*jwt.SigningMethodHMAC)

		if !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	})

	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(*Claims)

	if !ok || !token.Valid {
		return "", errors.New("invalid token")
	}

	if claims.Subject == "" {
		return "", errors.New("missing subject")
	}

	return claims.Subject, nil
}
