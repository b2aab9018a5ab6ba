package usecase

import (
	"strings"

	"github.com/PhamQuy48/storefront/internal/domain/model"
	pkgAuth "github.com/PhamQuy48/storefront/internal/pkg/auth"
)

// AuthUseCase resolves caller identity from tokens issued by the
// authentication service.
type AuthUseCase struct {
	tokens pkgAuth.Strategy
}

// NewAuthUseCase constructs AuthUseCase.
func NewAuthUseCase(strategy pkgAuth.Strategy) *AuthUseCase {
	return &AuthUseCase{tokens: strategy}
}

// ParseToken validates token and returns the identity it carries.
func (u *AuthUseCase) ParseToken(token string) (model.Identity, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return model.Identity{}, pkgAuth.ErrInvalidToken
	}
	return u.tokens.ParseToken(token)
}

// IssueToken signs identity. Used by tooling to mint tokens for local runs.
func (u *AuthUseCase) IssueToken(identity model.Identity) (string, error) {
	return u.tokens.IssueToken(identity)
}
