package repository

import (
	"context"

	"alcyxob/gymledger/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for the repository layer.
var (
	ErrNotFound        = RepositoryError("not found")
	ErrUpdateFailed    = RepositoryError("update failed")
	ErrDeleteFailed    = RepositoryError("delete failed")
	ErrDuplicate       = RepositoryError("already exists")
	ErrVersionConflict = RepositoryError("version conflict")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// MemberRepository stores members together with their billing histories.
// Every lookup is scoped to a gym.
type MemberRepository interface {
	// Create assigns the ID, sets Version to 1 and stamps the timestamps.
	Create(ctx context.Context, member *domain.Member) (primitive.ObjectID, error)
	GetByID(ctx context.Context, gymID string, id primitive.ObjectID) (*domain.Member, error)
	GetByUsername(ctx context.Context, gymID, username string) (*domain.Member, error)
	ListByGym(ctx context.Context, gymID string) ([]domain.Member, error)
	// Update replaces the stored member only if its version still equals
	// member.Version. On success member.Version is incremented. A stale
	// version yields ErrVersionConflict, a missing member ErrNotFound.
	Update(ctx context.Context, member *domain.Member) error
	// ReassignGym moves every member of oldGymID to newGymID.
	ReassignGym(ctx context.Context, oldGymID, newGymID string) (int64, error)
}

// GymRepository stores tenants.
type GymRepository interface {
	Create(ctx context.Context, gym *domain.Gym) error
	GetByID(ctx context.Context, id string) (*domain.Gym, error)
	List(ctx context.Context) ([]domain.Gym, error)
	// Update replaces the gym stored under oldID. gym.ID may differ from oldID.
	Update(ctx context.Context, oldID string, gym *domain.Gym) error
	Delete(ctx context.Context, id string) error
}

// SettingsRepository stores per-gym settings.
type SettingsRepository interface {
	Get(ctx context.Context, gymID string) (*domain.GymSettings, error)
	Save(ctx context.Context, settings *domain.GymSettings) error
	// Rename re-keys the settings of oldGymID. Missing settings are not an error.
	Rename(ctx context.Context, oldGymID, newGymID string) error
	Delete(ctx context.Context, gymID string) error
}
