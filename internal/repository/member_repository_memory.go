package repository

import (
	"sort"
	"sync"
	"time"

	"github.com/memberbase/member-registry/internal/domain"
)

// MemoryMemberRepository keeps members in a map guarded by a mutex. It
// mirrors the gorm-backed store's external behavior: monotonically increasing
// ids that are never reused, date_added assigned at create time, email/ssn
// uniqueness, and date_added-descending ordering.
type MemoryMemberRepository struct {
	mu      sync.Mutex
	members map[uint]domain.Member
	nextID  uint
}

func NewMemoryMemberRepository() *MemoryMemberRepository {
	return &MemoryMemberRepository{
		members: make(map[uint]domain.Member),
		nextID:  1,
	}
}

func (r *MemoryMemberRepository) List() ([]domain.Member, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshot(func(domain.Member) bool { return true }), nil
}

func (r *MemoryMemberRepository) ListByVerified(verified bool) ([]domain.Member, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshot(func(m domain.Member) bool { return m.Verified == verified }), nil
}

func (r *MemoryMemberRepository) FindByID(id uint) (*domain.Member, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.members[id]
	if !ok {
		return nil, ErrMemberNotFound
	}
	return &m, nil
}

func (r *MemoryMemberRepository) Create(member *domain.Member) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.conflicts(0, member.Email, member.SSN) {
		return ErrDuplicateMember
	}
	member.ID = r.nextID
	r.nextID++
	member.DateAdded = time.Now().UTC()
	r.members[member.ID] = *member
	return nil
}

func (r *MemoryMemberRepository) Update(id uint, updates map[string]any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.members[id]
	if !ok {
		return ErrMemberNotFound
	}
	next := m
	for column, value := range updates {
		switch column {
		case "name":
			next.Name, _ = value.(string)
		case "email":
			next.Email, _ = value.(string)
		case "phone":
			next.Phone, _ = value.(string)
		case "ssn":
			next.SSN, _ = value.(string)
		case "dob":
			next.DOB, _ = value.(string)
		case "address":
			if addr, ok := value.(domain.Address); ok {
				next.Address = addr
			}
		case "verified":
			next.Verified, _ = value.(bool)
		}
	}
	if r.conflicts(id, next.Email, next.SSN) {
		return ErrDuplicateMember
	}
	r.members[id] = next
	return nil
}

// conflicts reports whether another member already holds the email or ssn.
func (r *MemoryMemberRepository) conflicts(selfID uint, email, ssn string) bool {
	for _, existing := range r.members {
		if existing.ID == selfID {
			continue
		}
		if existing.Email == email || existing.SSN == ssn {
			return true
		}
	}
	return false
}

func (r *MemoryMemberRepository) snapshot(keep func(domain.Member) bool) []domain.Member {
	out := make([]domain.Member, 0, len(r.members))
	for _, m := range r.members {
		if keep(m) {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].DateAdded.Equal(out[j].DateAdded) {
			return out[i].DateAdded.After(out[j].DateAdded)
		}
		return out[i].ID > out[j].ID
	})
	return out
}
