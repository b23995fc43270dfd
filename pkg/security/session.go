package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/samandr77/microservices/condo/internal/entity"
)

// SessionClaims is the payload of the bearer token issued by the backend.
type SessionClaims struct {
	UserID int64       `json:"user_id"`
	Email  string      `json:"email"`
	Role   entity.Role `json:"role"`
	jwt.RegisteredClaims
}

// SessionParser turns a signed bearer token into an entity.Session.
type SessionParser struct {
	secret []byte
}

func NewSessionParser(secret string) *SessionParser {
	return &SessionParser{secret: []byte(secret)}
}

func (p *SessionParser) Parse(token string) (entity.Session, error) {
	var claims SessionClaims

	t, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}

		return p.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return entity.Session{}, fmt.Errorf("token expired: %w", entity.ErrUnauthenticated)
		}

		return entity.Session{}, fmt.Errorf("parse token: %w: %w", entity.ErrUnauthenticated, err)
	}

	if !t.Valid || claims.UserID <= 0 {
		return entity.Session{}, fmt.Errorf("invalid token: %w", entity.ErrUnauthenticated)
	}

	sess := entity.Session{
		UserID: claims.UserID,
		Email:  claims.Email,
		Role:   claims.Role,
		Token:  token,
	}

	if claims.IssuedAt != nil {
		sess.IssuedAt = claims.IssuedAt.Time
	}

	return sess, nil
}

// Sign issues a token for the session. Used by tests and local tooling.
func (p *SessionParser) Sign(s entity.Session, ttl time.Duration) (string, error) {
	now := time.Now()

	claims := SessionClaims{
		UserID: s.UserID,
		Email:  s.Email,
		Role:   s.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return token, nil
}
