package service

import (
	"context"
	"errors"
	"time"

	"github.com/memberbase/member-registry/internal/domain"
	"github.com/memberbase/member-registry/internal/observability"
	"github.com/memberbase/member-registry/internal/repository"
)

type CreateMemberInput struct {
	Name    string
	Email   string
	Phone   string
	SSN     string
	DOB     string
	Address domain.Address
}

type UpdateMemberInput struct {
	Name     *string
	Email    *string
	Phone    *string
	SSN      *string
	DOB      *string
	Address  *domain.Address
	Verified *bool
}

type MemberService struct {
	repo     repository.MemberRepository
	verifier SSNVerifier
}

func NewMemberService(repo repository.MemberRepository, verifier SSNVerifier) *MemberService {
	return &MemberService{repo: repo, verifier: verifier}
}

func (s *MemberService) List(ctx context.Context) ([]domain.Member, error) {
	start := time.Now()
	outcome := "success"
	defer func() { observability.RecordMemberOperation(ctx, "list", outcome, time.Since(start)) }()

	members, err := s.repo.List()
	if err != nil {
		outcome = "error"
		return nil, err
	}
	return members, nil
}

func (s *MemberService) GetByID(ctx context.Context, id uint) (*domain.Member, error) {
	start := time.Now()
	outcome := "success"
	defer func() { observability.RecordMemberOperation(ctx, "get", outcome, time.Since(start)) }()

	member, err := s.repo.FindByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrMemberNotFound) {
			outcome = "not_found"
		} else {
			outcome = "error"
		}
		return nil, err
	}
	return member, nil
}

// Create validates the payload, asks the verification service about the ssn,
// and persists the member with the verification outcome. The verified flag is
// set exactly once here; later changes go through Update only.
func (s *MemberService) Create(ctx context.Context, input CreateMemberInput) (*domain.Member, error) {
	start := time.Now()
	outcome := "success"
	defer func() { observability.RecordMemberOperation(ctx, "create", outcome, time.Since(start)) }()

	input.normalize()
	if errs := input.validate(); errs != nil {
		outcome = "bad_request"
		return nil, errs
	}

	verified, err := s.verifier.Verify(ctx, input.SSN)
	if err != nil {
		outcome = "error"
		return nil, err
	}

	member := &domain.Member{
		Name:     input.Name,
		Email:    input.Email,
		Phone:    input.Phone,
		SSN:      input.SSN,
		DOB:      input.DOB,
		Address:  input.Address,
		Verified: verified,
	}
	if err := s.repo.Create(member); err != nil {
		if errors.Is(err, repository.ErrDuplicateMember) {
			outcome = "conflict"
		} else {
			outcome = "error"
		}
		return nil, err
	}
	return member, nil
}

// Update merges only the provided fields. The id and dateAdded columns never
// appear in the updates map, so they survive any patch payload.
func (s *MemberService) Update(ctx context.Context, id uint, input UpdateMemberInput) (*domain.Member, error) {
	start := time.Now()
	outcome := "success"
	defer func() { observability.RecordMemberOperation(ctx, "update", outcome, time.Since(start)) }()

	input.normalize()
	if errs := input.validate(); errs != nil {
		outcome = "bad_request"
		return nil, errs
	}

	updates := map[string]any{}
	if input.Name != nil {
		updates["name"] = *input.Name
	}
	if input.Email != nil {
		updates["email"] = *input.Email
	}
	if input.Phone != nil {
		updates["phone"] = *input.Phone
	}
	if input.SSN != nil {
		updates["ssn"] = *input.SSN
	}
	if input.DOB != nil {
		updates["dob"] = *input.DOB
	}
	if input.Address != nil {
		updates["address"] = *input.Address
	}
	if input.Verified != nil {
		updates["verified"] = *input.Verified
	}

	if len(updates) > 0 {
		if err := s.repo.Update(id, updates); err != nil {
			switch {
			case errors.Is(err, repository.ErrMemberNotFound):
				outcome = "not_found"
			case errors.Is(err, repository.ErrDuplicateMember):
				outcome = "conflict"
			default:
				outcome = "error"
			}
			return nil, err
		}
	}
	member, err := s.repo.FindByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrMemberNotFound) {
			outcome = "not_found"
		} else {
			outcome = "error"
		}
		return nil, err
	}
	return member, nil
}

func (s *MemberService) FilterByVerified(ctx context.Context, verified bool) ([]domain.Member, error) {
	start := time.Now()
	outcome := "success"
	defer func() { observability.RecordMemberOperation(ctx, "filter", outcome, time.Since(start)) }()

	members, err := s.repo.ListByVerified(verified)
	if err != nil {
		outcome = "error"
		return nil, err
	}
	return members, nil
}
