package auth

import (
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/PhamQuy48/storefront/internal/domain/model"
)

type claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// JWTStrategy reads HS256 tokens carrying the user id as subject and a role claim.
type JWTStrategy struct {
	secret []byte
	ttl    time.Duration
}

// NewJWTStrategy builds JWTStrategy with provided secret and options.
func NewJWTStrategy(secret string, opts Options) *JWTStrategy {
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &JWTStrategy{secret: []byte(secret), ttl: ttl}
}

func (s *JWTStrategy) IssueToken(identity model.Identity) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Role: string(identity.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(identity.UserID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	})
	return token.SignedString(s.secret)
}

func (s *JWTStrategy) ParseToken(token string) (model.Identity, error) {
	parsed, err := jwt.ParseWithClaims(token, &claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil {
		return model.Identity{}, ErrInvalidToken
	}

	c, ok := parsed.Claims.(*claims)
	if !ok || !parsed.Valid {
		return model.Identity{}, ErrInvalidToken
	}

	userID, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return model.Identity{}, ErrInvalidToken
	}

	role, ok := model.ParseRole(c.Role)
	if !ok {
		return model.Identity{}, ErrInvalidToken
	}

	return model.Identity{UserID: userID, Role: role}, nil
}

func (s *JWTStrategy) Name() string {
	return "jwt"
}
