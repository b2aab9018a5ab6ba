package test

import (
	"github.com/PhamQuy48/storefront/internal/domain/model"
	pkgAuth "github.com/PhamQuy48/storefront/internal/pkg/auth"
)

// StrategyStub issues and parses tokens via function overrides.
type StrategyStub struct {
	IssueFn func(model.Identity) (string, error)
	ParseFn func(string) (model.Identity, error)
	NameVal string
}

// IssueToken returns deterministic tokens for tests.
func (s StrategyStub) IssueToken(identity model.Identity) (string, error) {
	if s.IssueFn != nil {
		return s.IssueFn(identity)
	}
	return "token", nil
}

// ParseToken parses previously issued token strings.
func (s StrategyStub) ParseToken(token string) (model.Identity, error) {
	if s.ParseFn != nil {
		return s.ParseFn(token)
	}
	return model.Identity{UserID: 1, Role: model.RoleCustomer}, nil
}

// Name returns the strategy identifier used in tests.
func (s StrategyStub) Name() string {
	if s.NameVal != "" {
		return s.NameVal
	}
	return "stub"
}

// TokenParserStub implements middleware token parsing contract.
type TokenParserStub struct {
	Identity model.Identity
	Err      error
	ParseFn  func(string) (model.Identity, error)
}

// ParseToken either delegates to override or returns predefined result.
func (s TokenParserStub) ParseToken(token string) (model.Identity, error) {
	if s.ParseFn != nil {
		return s.ParseFn(token)
	}
	if s.Err != nil {
		return model.Identity{}, s.Err
	}
	return s.Identity, nil
}

var _ pkgAuth.Strategy = StrategyStub{}
