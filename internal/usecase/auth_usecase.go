package usecase

import (
	"crypto/subtle"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"storefront/internal/domain"
)

type AuthUseCase interface {
	// Login moves the session to authenticated when the credentials match.
	Login(state domain.AuthState, username, password string) (bool, error)
	Logout(state domain.AuthState) error
}

type authUseCase struct {
	username     string
	passwordHash []byte
	log          *logrus.Logger
}

// NewAuthUseCase keeps only a bcrypt hash of the operator password.
func NewAuthUseCase(username, password string, logger *logrus.Logger) (AuthUseCase, error) {
	if username == "" || password == "" {
		return nil, errors.New("admin username and password must be set")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("could not hash admin password: %w", err)
	}
	return &authUseCase{
		username:     username,
		passwordHash: hash,
		log:          logger,
	}, nil
}

func (uc *authUseCase) Login(state domain.AuthState, username, password string) (bool, error) {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(uc.username)) == 1
	passErr := bcrypt.CompareHashAndPassword(uc.passwordHash, []byte(password))
	if !userOK || passErr != nil {
		uc.log.Warnf("Use Case: Failed admin login for user '%s'", username)
		return false, nil
	}

	if err := state.SetAuthenticated(true); err != nil {
		uc.log.Errorf("Use Case: Failed to persist admin session: %v", err)
		return false, fmt.Errorf("could not start admin session: %w", err)
	}
	uc.log.Infof("Use Case: Admin '%s' logged in", username)
	return true, nil
}

func (uc *authUseCase) Logout(state domain.AuthState) error {
	if err := state.SetAuthenticated(false); err != nil {
		uc.log.Errorf("Use Case: Failed to clear admin session: %v", err)
		return fmt.Errorf("could not end admin session: %w", err)
	}
	uc.log.Info("Use Case: Admin logged out")
	return nil
}
