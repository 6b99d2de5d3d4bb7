package testutil

import (
	"context"
	"time"

	"alcyxob/gymledger/internal/domain"
	"alcyxob/gymledger/internal/repository"

	"github.com/samber/lo"
)

// InMemoryGymStore implements repository.GymRepository.
type InMemoryGymStore struct {
	*InMemoryStore[domain.Gym]
}

func NewInMemoryGymStore() *InMemoryGymStore {
	return &InMemoryGymStore{InMemoryStore: NewInMemoryStore[domain.Gym]()}
}

var _ repository.GymRepository = (*InMemoryGymStore)(nil)

func (s *InMemoryGymStore) Create(ctx context.Context, gym *domain.Gym) error {
	if gym.CreatedAt.IsZero() {
		gym.CreatedAt = time.Now().UTC()
	}
	return s.InMemoryStore.Create(ctx, gym.ID, *gym)
}

func (s *InMemoryGymStore) GetByID(ctx context.Context, id string) (*domain.Gym, error) {
	gym, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &gym, nil
}

func (s *InMemoryGymStore) List(ctx context.Context) ([]domain.Gym, error) {
	return s.InMemoryStore.List(ctx, nil), nil
}

func (s *InMemoryGymStore) Update(ctx context.Context, oldID string, gym *domain.Gym) error {
	if _, err := s.InMemoryStore.Get(ctx, oldID); err != nil {
		return err
	}
	if oldID != gym.ID {
		if err := s.InMemoryStore.Create(ctx, gym.ID, *gym); err != nil {
			return err
		}
		return s.InMemoryStore.Delete(ctx, oldID)
	}
	s.Put(ctx, gym.ID, *gym)
	return nil
}

// IDs lists the stored gym ids in insertion order.
func (s *InMemoryGymStore) IDs(ctx context.Context) []string {
	return lo.Map(s.InMemoryStore.List(ctx, nil), func(g domain.Gym, _ int) string { return g.ID })
}
