// Command devtoken mints identity tokens for local runs against the
// storefront API.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/PhamQuy48/storefront/internal/domain/model"
	"github.com/PhamQuy48/storefront/internal/pkg/auth"
	"github.com/PhamQuy48/storefront/internal/usecase"
)

func main() {
	if err := run(os.Args[1:], os.LookupEnv, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "devtoken: %v\n", err)
		os.Exit(2)
	}
}

func run(args []string, lookup func(string) (string, bool), out io.Writer) error {
	secret, _ := lookup("AUTH_SECRET")
	strategy, ok := lookup("AUTH_STRATEGY")
	if !ok || strategy == "" {
		strategy = "hmac"
	}

	fs := flag.NewFlagSet("devtoken", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	userID := fs.Int64("user", 1, "User id carried by the token")
	role := fs.String("role", string(model.RoleCustomer), "Role: customer, staff or admin")
	ttl := fs.Duration("ttl", 24*time.Hour, "Token lifetime")
	fs.StringVar(&secret, "secret", secret, "Signing secret, defaults to AUTH_SECRET")
	fs.StringVar(&strategy, "strategy", strategy, "Token format: hmac or jwt")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if secret == "" {
		return fmt.Errorf("signing secret must be provided")
	}
	if *userID <= 0 {
		return fmt.Errorf("user id must be positive")
	}
	r, ok := model.ParseRole(*role)
	if !ok {
		return fmt.Errorf("unknown role %q", *role)
	}

	tokens, err := auth.NewStrategy(strategy, secret, auth.Options{TTL: *ttl})
	if err != nil {
		return err
	}
	token, err := usecase.NewAuthUseCase(tokens).IssueToken(model.Identity{UserID: *userID, Role: r})
	if err != nil {
		return fmt.Errorf("issue token: %w", err)
	}
	_, err = fmt.Fprintln(out, token)
	return err
}
