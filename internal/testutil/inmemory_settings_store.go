package testutil

import (
	"context"
	"errors"

	"alcyxob/gymledger/internal/domain"
	"alcyxob/gymledger/internal/repository"
)

// InMemorySettingsStore implements repository.SettingsRepository.
type InMemorySettingsStore struct {
	*InMemoryStore[domain.GymSettings]

	// RenameErr, when set, is returned by the next Rename and then cleared.
	RenameErr error
}

func NewInMemorySettingsStore() *InMemorySettingsStore {
	return &InMemorySettingsStore{InMemoryStore: NewInMemoryStore[domain.GymSettings]()}
}

var _ repository.SettingsRepository = (*InMemorySettingsStore)(nil)

func (s *InMemorySettingsStore) Get(ctx context.Context, gymID string) (*domain.GymSettings, error) {
	settings, err := s.InMemoryStore.Get(ctx, gymID)
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

func (s *InMemorySettingsStore) Save(ctx context.Context, settings *domain.GymSettings) error {
	s.Put(ctx, settings.GymID, *settings)
	return nil
}

func (s *InMemorySettingsStore) Rename(ctx context.Context, oldGymID, newGymID string) error {
	if err := s.RenameErr; err != nil {
		s.RenameErr = nil
		return err
	}
	settings, err := s.InMemoryStore.Get(ctx, oldGymID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	settings.GymID = newGymID
	s.Put(ctx, newGymID, settings)
	return s.InMemoryStore.Delete(ctx, oldGymID)
}

func (s *InMemorySettingsStore) Delete(ctx context.Context, gymID string) error {
	err := s.InMemoryStore.Delete(ctx, gymID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	return err
}
