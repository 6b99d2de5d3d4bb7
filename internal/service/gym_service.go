package service

import (
	"context"
	"errors"
	"strings"

	"alcyxob/gymledger/internal/clock"
	"alcyxob/gymledger/internal/domain"
	"alcyxob/gymledger/internal/repository"

	"go.uber.org/zap"
)

// GymInput is the gym form of the super admin. An empty ManagerPassword on
// update keeps the current one.
type GymInput struct {
	ID              string
	Name            string
	ManagerPassword string
	ProfilePhoto    string
	Email           string
	Phone           string
	City            string
	State           string
}

type GymService interface {
	List(ctx context.Context) ([]domain.Gym, error)
	Get(ctx context.Context, id string) (*domain.Gym, error)
	Create(ctx context.Context, in GymInput) (*domain.Gym, error)
	// Update replaces the gym stored under oldID. When in.ID differs, members
	// and settings of oldID are moved to the new id.
	Update(ctx context.Context, oldID string, in GymInput) (*domain.Gym, error)
	Delete(ctx context.Context, id string) error
	GetSettings(ctx context.Context, gymID string) (*domain.GymSettings, error)
	SaveSettings(ctx context.Context, settings domain.GymSettings) (*domain.GymSettings, error)
}

type gymService struct {
	gyms     repository.GymRepository
	members  repository.MemberRepository
	settings repository.SettingsRepository
	clock    clock.Clock
	log      *zap.Logger
}

func NewGymService(
	gyms repository.GymRepository,
	members repository.MemberRepository,
	settings repository.SettingsRepository,
	clk clock.Clock,
	log *zap.Logger,
) GymService {
	return &gymService{
		gyms:     gyms,
		members:  members,
		settings: settings,
		clock:    clk,
		log:      log.Named("gym.service"),
	}
}

func (s *gymService) List(ctx context.Context) ([]domain.Gym, error) {
	return s.gyms.List(ctx)
}

func (s *gymService) Get(ctx context.Context, id string) (*domain.Gym, error) {
	gym, err := s.gyms.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrGymNotFound
		}
		return nil, err
	}
	return gym, nil
}

func (s *gymService) Create(ctx context.Context, in GymInput) (*domain.Gym, error) {
	in = normalizeGymInput(in)
	if in.ID == "" || in.Name == "" {
		return nil, ErrMissingGymField
	}
	hash, err := hashPassword(in.ManagerPassword)
	if err != nil {
		return nil, err
	}

	gym := &domain.Gym{CreatedAt: s.clock.Now()}
	applyGymInput(gym, in)
	gym.ManagerPasswordHash = hash

	if err := s.gyms.Create(ctx, gym); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrGymExists
		}
		return nil, err
	}
	s.log.Info("gym created", zap.String("gym_id", gym.ID))
	return gym, nil
}

func (s *gymService) Update(ctx context.Context, oldID string, in GymInput) (*domain.Gym, error) {
	in = normalizeGymInput(in)
	if in.ID == "" {
		in.ID = oldID
	}
	if in.Name == "" {
		return nil, ErrMissingGymField
	}

	gym, err := s.Get(ctx, oldID)
	if err != nil {
		return nil, err
	}
	original := *gym
	applyGymInput(gym, in)
	if in.ManagerPassword != "" {
		if gym.ManagerPasswordHash, err = hashPassword(in.ManagerPassword); err != nil {
			return nil, err
		}
	}

	if err := s.gyms.Update(ctx, oldID, gym); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicate):
			return nil, ErrGymExists
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrGymNotFound
		}
		return nil, err
	}

	if gym.ID != oldID {
		if err := s.moveGymData(ctx, oldID, gym.ID); err != nil {
			s.rollbackRename(ctx, oldID, original, gym.ID)
			return nil, err
		}
	}
	return gym, nil
}

// moveGymData re-points members and settings from oldID to newID.
func (s *gymService) moveGymData(ctx context.Context, oldID, newID string) error {
	moved, err := s.members.ReassignGym(ctx, oldID, newID)
	if err != nil {
		s.log.Error("failed to move members to renamed gym",
			zap.String("old_gym_id", oldID), zap.String("gym_id", newID), zap.Error(err))
		return err
	}
	if err := s.settings.Rename(ctx, oldID, newID); err != nil {
		s.log.Error("failed to move settings to renamed gym",
			zap.String("old_gym_id", oldID), zap.String("gym_id", newID), zap.Error(err))
		return err
	}
	s.log.Info("gym renamed",
		zap.String("old_gym_id", oldID),
		zap.String("gym_id", newID),
		zap.Int64("members_moved", moved))
	return nil
}

// rollbackRename undoes a rename whose cascade failed. The steps are not
// atomic; anything still split between the two ids is logged with both ids
// so the rename can be retried or finished by hand.
func (s *gymService) rollbackRename(ctx context.Context, oldID string, original domain.Gym, newID string) {
	log := s.log.With(zap.String("old_gym_id", oldID), zap.String("gym_id", newID))

	if _, err := s.members.ReassignGym(ctx, newID, oldID); err != nil {
		log.Error("gym rename left partially applied: members not moved back", zap.Error(err))
	}
	if err := s.settings.Rename(ctx, newID, oldID); err != nil {
		log.Error("gym rename left partially applied: settings not moved back", zap.Error(err))
	}
	if err := s.gyms.Update(ctx, newID, &original); err != nil {
		log.Error("gym rename left partially applied: gym keeps new id", zap.Error(err))
		return
	}
	log.Warn("gym rename rolled back")
}

// Delete removes the gym and its settings. Member records are kept.
func (s *gymService) Delete(ctx context.Context, id string) error {
	if err := s.gyms.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrGymNotFound
		}
		return err
	}
	if err := s.settings.Delete(ctx, id); err != nil && !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	s.log.Info("gym deleted", zap.String("gym_id", id))
	return nil
}

func (s *gymService) GetSettings(ctx context.Context, gymID string) (*domain.GymSettings, error) {
	settings, err := s.settings.Get(ctx, gymID)
	if err == nil {
		return settings, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	gym, err := s.Get(ctx, gymID)
	if err != nil {
		return nil, err
	}
	defaults := domain.DefaultSettings(*gym)
	return &defaults, nil
}

func (s *gymService) SaveSettings(ctx context.Context, settings domain.GymSettings) (*domain.GymSettings, error) {
	gym, err := s.Get(ctx, settings.GymID)
	if err != nil {
		return nil, err
	}
	settings.GymName = strings.TrimSpace(settings.GymName)
	if settings.GymName == "" {
		settings.GymName = gym.Name
	}
	if err := s.settings.Save(ctx, &settings); err != nil {
		return nil, err
	}
	return &settings, nil
}

func normalizeGymInput(in GymInput) GymInput {
	in.ID = strings.TrimSpace(in.ID)
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	return in
}

func applyGymInput(gym *domain.Gym, in GymInput) {
	gym.ID = in.ID
	gym.Name = in.Name
	gym.ProfilePhoto = in.ProfilePhoto
	gym.Email = in.Email
	gym.Phone = in.Phone
	gym.City = in.City
	gym.State = in.State
}
