// Package account simulates a local user account. It exists so the
// dashboard has a login gate; it is NOT authentication. The password
// hash is a salted base64 encoding, trivially reversible, and must
// never be used where real security is required.
package account

import (
	"context"
	"encoding/base64"

	"pricewatch/pricewatcher/internal/model"
	"pricewatch/pricewatcher/internal/storage"
	"pricewatch/pricewatcher/pkg/errors"
)

const pseudoHashSalt = "price-watcher-salt"

// PseudoHash encodes a password with a fixed salt. Non-cryptographic
// by design; kept only for the login simulation.
func PseudoHash(password string) string {
	return base64.StdEncoding.EncodeToString([]byte(password + pseudoHashSalt))
}

// Service handles the simulated signup/login flows
type Service struct {
	accessor *storage.Accessor
}

// NewService creates an account service
func NewService(accessor *storage.Accessor) *Service {
	return &Service{accessor: accessor}
}

// SignUp creates the local account and logs it in
func (s *Service) SignUp(ctx context.Context, email, password, confirmPassword string) error {
	if email == "" || password == "" || confirmPassword == "" {
		return errors.NewValidation("account", "all fields are required")
	}
	if len(password) < 6 {
		return errors.NewValidation("account", "password must be at least 6 characters long")
	}
	if password != confirmPassword {
		return errors.NewValidation("account", "passwords do not match")
	}

	existing, hasCreds, err := s.accessor.Credentials(ctx)
	if err != nil {
		return err
	}
	if hasCreds && existing.Email == email {
		return errors.NewValidation("account", "an account with this email already exists")
	}

	creds := model.Credentials{
		Email:          email,
		HashedPassword: PseudoHash(password),
	}
	if err := s.accessor.SaveCredentials(ctx, creds); err != nil {
		return err
	}
	return s.accessor.SetLoggedIn(ctx, true)
}

// LogIn checks the supplied credentials against the stored account and
// marks the session logged in
func (s *Service) LogIn(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return errors.NewValidation("account", "email and password are required")
	}

	creds, hasCreds, err := s.accessor.Credentials(ctx)
	if err != nil {
		return err
	}
	if !hasCreds || creds.Email != email {
		return errors.NewValidation("account", "invalid email or username")
	}
	if creds.HashedPassword != PseudoHash(password) {
		return errors.NewValidation("account", "invalid password")
	}

	return s.accessor.SetLoggedIn(ctx, true)
}

// LogOut clears the session flag, leaving data intact
func (s *Service) LogOut(ctx context.Context) error {
	return s.accessor.SetLoggedIn(ctx, false)
}

// DeleteAccount wipes the account and all tracking data
func (s *Service) DeleteAccount(ctx context.Context) error {
	return s.accessor.DeleteAccount(ctx)
}
