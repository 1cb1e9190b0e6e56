package service

import (
	"context"

	"github.com/memberbase/member-registry/internal/domain"
)

type MemberServiceInterface interface {
	List(ctx context.Context) ([]domain.Member, error)
	GetByID(ctx context.Context, id uint) (*domain.Member, error)
	Create(ctx context.Context, input CreateMemberInput) (*domain.Member, error)
	Update(ctx context.Context, id uint, input UpdateMemberInput) (*domain.Member, error)
	FilterByVerified(ctx context.Context, verified bool) ([]domain.Member, error)
}

type AuthServiceInterface interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	Login(ctx context.Context, username, password string) (*domain.User, error)
	GetUser(ctx context.Context, id uint) (*domain.User, error)
}

// SSNVerifier stands in for the external identity-verification authority.
// The production binding is a mock; tests substitute a deterministic fake.
type SSNVerifier interface {
	Verify(ctx context.Context, ssn string) (bool, error)
}
