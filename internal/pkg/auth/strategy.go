package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/PhamQuy48/storefront/internal/domain/model"
)

var ErrInvalidToken = errors.New("invalid auth token")

// Strategy issues and verifies identity tokens. Issuing is used by tooling
// only; sessions are created by the external authentication service.
type Strategy interface {
	IssueToken(identity model.Identity) (string, error)
	ParseToken(token string) (model.Identity, error)
	Name() string
}

type Options struct {
	TTL time.Duration
}

// NewStrategy builds the strategy registered under name.
func NewStrategy(name, secret string, opts Options) (Strategy, error) {
	switch name {
	case "hmac":
		return NewHMACStrategy(secret, opts), nil
	case "jwt":
		return NewJWTStrategy(secret, opts), nil
	default:
		return nil, fmt.Errorf("unknown auth strategy %q", name)
	}
}
