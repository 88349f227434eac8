package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cafelist/database"
	"cafelist/model"

	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrDuplicateEmail is returned by Register when the email is taken.
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrUnknownEmail is returned by Login when no account has the email.
	ErrUnknownEmail = errors.New("unknown email")
	// ErrInvalidCredential is returned by Login when the password does not match.
	ErrInvalidCredential = errors.New("invalid credential")
	// ErrMissingField is returned by Register when email, password or name is blank.
	ErrMissingField = errors.New("email, password and name are required")
)

// Service registers and authenticates users.
type Service struct {
	users      *database.UserStore
	adminEmail string
	cost       int
}

// NewService builds the service. adminEmail, when set, is registered with the
// admin role; otherwise the first account on an empty database becomes admin.
func NewService(users *database.UserStore, adminEmail string) *Service {
	return &Service{
		users:      users,
		adminEmail: normalizeEmail(adminEmail),
		cost:       bcrypt.DefaultCost,
	}
}

func (s *Service) Register(ctx context.Context, email, password, name string) (*model.User, error) {
	email = normalizeEmail(email)
	name = strings.TrimSpace(name)
	if email == "" || name == "" || strings.TrimSpace(password) == "" {
		return nil, ErrMissingField
	}

	if _, err := s.users.ByEmail(ctx, email); err == nil {
		return nil, ErrDuplicateEmail
	} else if !errors.Is(err, database.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Email:    email,
		Password: string(hash),
		Name:     name,
		Role:     model.Member,
	}
	if s.adminEmail != "" && email == s.adminEmail {
		user.Role = model.Admin
	}

	if err := s.users.Create(ctx, user, s.adminEmail == ""); err != nil {
		// lost a race with a concurrent registration
		if _, lookupErr := s.users.ByEmail(ctx, email); lookupErr == nil {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}
	return user, nil
}

func (s *Service) Login(ctx context.Context, email, password string) (*model.User, error) {
	user, err := s.users.ByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrUnknownEmail
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredential
	}
	return user, nil
}

// Resolve loads the user a session is bound to. An id that no longer exists
// yields a nil user and no error.
func (s *Service) Resolve(ctx context.Context, id uint) (*model.User, error) {
	user, err := s.users.ByID(ctx, id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
