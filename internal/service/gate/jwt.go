package gate

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/gharapp/server/internal/domain"
)

func (s *service) generateSessionToken() (string, error) {
	claims := jwt.MapClaims{
		"pin_verified": true,
		"iat":          time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString([]byte(s.secret))
}

// ValidateSessionToken checks both the token signature and that the gate
// is still authenticated. This is the access-control boundary: protected
// operations are refused, not hidden, while the gate is closed.
func (s *service) ValidateSessionToken(tokenString string) error {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		return []byte(s.secret), nil
	})
	if err != nil {
		return err
	}

	if !token.Valid {
		return errors.New("invalid token")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != domain.SessionAuthenticated {
		return ErrNotAuthenticated
	}

	return nil
}
