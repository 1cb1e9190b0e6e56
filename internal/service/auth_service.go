package service

import (
	"context"
	"errors"
	"strings"

	"github.com/memberbase/member-registry/internal/domain"
	"github.com/memberbase/member-registry/internal/observability"
	"github.com/memberbase/member-registry/internal/repository"
	"github.com/memberbase/member-registry/internal/security"
)

var ErrInvalidCredentials = errors.New("incorrect username or password")

type RegisterInput struct {
	Username    string
	Password    string
	DisplayName string
}

type AuthService struct {
	users repository.UserRepository
}

func NewAuthService(users repository.UserRepository) *AuthService {
	return &AuthService{users: users}
}

func (in RegisterInput) validate() FieldErrors {
	errs := FieldErrors{}
	if len(strings.TrimSpace(in.Username)) < 3 {
		errs["username"] = "username must be at least 3 characters"
	}
	if len(in.Password) < 6 {
		errs["password"] = "password must be at least 6 characters"
	}
	if len(strings.TrimSpace(in.DisplayName)) < 2 {
		errs["displayName"] = "display name must be at least 2 characters"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	if errs := input.validate(); errs != nil {
		return nil, errs
	}
	hash, err := security.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}
	user := &domain.User{
		Username:    strings.TrimSpace(input.Username),
		Password:    hash,
		DisplayName: strings.TrimSpace(input.DisplayName),
	}
	if err := s.users.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := s.users.FindByUsername(strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			observability.RecordAuthAttempt(ctx, "unknown_user")
			return nil, ErrInvalidCredentials
		}
		observability.RecordAuthAttempt(ctx, "error")
		return nil, err
	}
	ok, err := security.VerifyPassword(user.Password, password)
	if err != nil {
		observability.RecordAuthAttempt(ctx, "error")
		return nil, err
	}
	if !ok {
		observability.RecordAuthAttempt(ctx, "bad_password")
		return nil, ErrInvalidCredentials
	}
	observability.RecordAuthAttempt(ctx, "success")
	return user, nil
}

func (s *AuthService) GetUser(ctx context.Context, id uint) (*domain.User, error) {
	return s.users.FindByID(id)
}
