package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/memberbase/member-registry/internal/domain"
	"github.com/memberbase/member-registry/internal/observability"
)

var (
	ErrMemberNotFound  = errors.New("member not found")
	ErrDuplicateMember = errors.New("member with this email or ssn already exists")
)

// MemberRepository is satisfied by both the gorm-backed and the in-memory
// store. Both return members ordered by date_added descending (id descending
// as tiebreak) and surface the same sentinel errors.
type MemberRepository interface {
	List() ([]domain.Member, error)
	ListByVerified(verified bool) ([]domain.Member, error)
	FindByID(id uint) (*domain.Member, error)
	Create(member *domain.Member) error
	Update(id uint, updates map[string]any) error
}

type GormMemberRepository struct{ db *gorm.DB }

func NewGormMemberRepository(db *gorm.DB) *GormMemberRepository {
	return &GormMemberRepository{db: db}
}

func (r *GormMemberRepository) List() ([]domain.Member, error) {
	var members []domain.Member
	if err := r.db.Order("date_added desc, id desc").Find(&members).Error; err != nil {
		observability.RecordRepositoryOperation(context.Background(), "member", "list", "error")
		return nil, err
	}
	observability.RecordRepositoryOperation(context.Background(), "member", "list", "success")
	return members, nil
}

func (r *GormMemberRepository) ListByVerified(verified bool) ([]domain.Member, error) {
	var members []domain.Member
	if err := r.db.Where("verified = ?", verified).Order("date_added desc, id desc").Find(&members).Error; err != nil {
		observability.RecordRepositoryOperation(context.Background(), "member", "list_by_verified", "error")
		return nil, err
	}
	observability.RecordRepositoryOperation(context.Background(), "member", "list_by_verified", "success")
	return members, nil
}

func (r *GormMemberRepository) FindByID(id uint) (*domain.Member, error) {
	var member domain.Member
	if err := r.db.First(&member, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			observability.RecordRepositoryOperation(context.Background(), "member", "find_by_id", "not_found")
			return nil, ErrMemberNotFound
		}
		observability.RecordRepositoryOperation(context.Background(), "member", "find_by_id", "error")
		return nil, err
	}
	observability.RecordRepositoryOperation(context.Background(), "member", "find_by_id", "success")
	return &member, nil
}

func (r *GormMemberRepository) Create(member *domain.Member) error {
	member.ID = 0
	member.DateAdded = time.Now().UTC()
	if err := r.db.Create(member).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			observability.RecordRepositoryOperation(context.Background(), "member", "create", "conflict")
			return ErrDuplicateMember
		}
		observability.RecordRepositoryOperation(context.Background(), "member", "create", "error")
		return err
	}
	observability.RecordRepositoryOperation(context.Background(), "member", "create", "success")
	return nil
}

func (r *GormMemberRepository) Update(id uint, updates map[string]any) error {
	// Map-based updates skip the struct serializer, so the address column
	// has to be marshalled here.
	if addr, ok := updates["address"].(domain.Address); ok {
		encoded, err := json.Marshal(addr)
		if err != nil {
			return err
		}
		copied := make(map[string]any, len(updates))
		for k, v := range updates {
			copied[k] = v
		}
		copied["address"] = string(encoded)
		updates = copied
	}
	res := r.db.Model(&domain.Member{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			observability.RecordRepositoryOperation(context.Background(), "member", "update", "conflict")
			return ErrDuplicateMember
		}
		observability.RecordRepositoryOperation(context.Background(), "member", "update", "error")
		return res.Error
	}
	if res.RowsAffected == 0 {
		observability.RecordRepositoryOperation(context.Background(), "member", "update", "not_found")
		return ErrMemberNotFound
	}
	observability.RecordRepositoryOperation(context.Background(), "member", "update", "success")
	return nil
}
