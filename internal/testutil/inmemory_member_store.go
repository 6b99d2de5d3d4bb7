package testutil

import (
	"context"
	"slices"
	"time"

	"alcyxob/gymledger/internal/domain"
	"alcyxob/gymledger/internal/repository"

	"github.com/samber/lo"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// InMemoryMemberStore implements repository.MemberRepository with the same
// version semantics as the Mongo implementation.
type InMemoryMemberStore struct {
	*InMemoryStore[*domain.Member]

	// BeforeUpdate, when set, runs before every Update. Tests use it to
	// simulate a concurrent writer.
	BeforeUpdate func(m *domain.Member)
}

func NewInMemoryMemberStore() *InMemoryMemberStore {
	return &InMemoryMemberStore{InMemoryStore: NewInMemoryStore[*domain.Member]()}
}

var _ repository.MemberRepository = (*InMemoryMemberStore)(nil)

func copyMember(m *domain.Member) *domain.Member {
	if m == nil {
		return nil
	}
	c := *m
	c.PaymentHistory = slices.Clone(m.PaymentHistory)
	c.SupplementHistory = slices.Clone(m.SupplementHistory)
	return &c
}

func (s *InMemoryMemberStore) Create(ctx context.Context, m *domain.Member) (primitive.ObjectID, error) {
	if m.GymID == "" || m.Name == "" {
		return primitive.NilObjectID, domain.ErrMissingMemberFields
	}
	taken := s.List(ctx, func(x *domain.Member) bool {
		return x.GymID == m.GymID && x.Username == m.Username
	})
	if len(taken) > 0 {
		return primitive.NilObjectID, repository.ErrDuplicate
	}

	m.ID = primitive.NewObjectID()
	m.Version = 1
	now := time.Now().UTC()
	m.CreatedAt = now
	m.UpdatedAt = now

	if err := s.InMemoryStore.Create(ctx, m.ID.Hex(), copyMember(m)); err != nil {
		return primitive.NilObjectID, err
	}
	return m.ID, nil
}

func (s *InMemoryMemberStore) GetByID(ctx context.Context, gymID string, id primitive.ObjectID) (*domain.Member, error) {
	m, err := s.InMemoryStore.Get(ctx, id.Hex())
	if err != nil {
		return nil, err
	}
	if m.GymID != gymID {
		return nil, repository.ErrNotFound
	}
	return copyMember(m), nil
}

func (s *InMemoryMemberStore) GetByUsername(ctx context.Context, gymID, username string) (*domain.Member, error) {
	found := s.List(ctx, func(m *domain.Member) bool {
		return m.GymID == gymID && m.Username == username
	})
	if len(found) == 0 {
		return nil, repository.ErrNotFound
	}
	return copyMember(found[0]), nil
}

// ListByGym returns the members of a gym, most recently joined first.
func (s *InMemoryMemberStore) ListByGym(ctx context.Context, gymID string) ([]domain.Member, error) {
	found := s.List(ctx, func(m *domain.Member) bool { return m.GymID == gymID })
	members := lo.Map(found, func(m *domain.Member, _ int) domain.Member { return *copyMember(m) })
	slices.SortStableFunc(members, func(a, b domain.Member) int { return b.JoinDate.Compare(a.JoinDate) })
	return members, nil
}

func (s *InMemoryMemberStore) Update(ctx context.Context, m *domain.Member) error {
	if s.BeforeUpdate != nil {
		s.BeforeUpdate(m)
	}

	return s.WithLock(func(items map[string]*domain.Member) error {
		stored, ok := items[m.ID.Hex()]
		if !ok || stored.GymID != m.GymID {
			return repository.ErrNotFound
		}
		if stored.Version != m.Version {
			return repository.ErrVersionConflict
		}
		for _, other := range items {
			if other.ID != m.ID && other.GymID == m.GymID && other.Username == m.Username {
				return repository.ErrDuplicate
			}
		}

		m.Version++
		m.UpdatedAt = time.Now().UTC()
		items[m.ID.Hex()] = copyMember(m)
		return nil
	})
}

func (s *InMemoryMemberStore) ReassignGym(_ context.Context, oldGymID, newGymID string) (int64, error) {
	n := s.Mutate(func(m *domain.Member) (*domain.Member, bool) {
		if m.GymID != oldGymID {
			return m, false
		}
		c := copyMember(m)
		c.GymID = newGymID
		c.Version++
		return c, true
	})
	return int64(n), nil
}

// Bump increments the stored version of a member as a concurrent writer would.
func (s *InMemoryMemberStore) Bump(id primitive.ObjectID) {
	_ = s.WithLock(func(items map[string]*domain.Member) error {
		if m, ok := items[id.Hex()]; ok {
			c := copyMember(m)
			c.Version++
			items[id.Hex()] = c
		}
		return nil
	})
}
