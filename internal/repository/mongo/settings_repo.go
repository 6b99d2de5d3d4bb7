package mongo

import (
	"context"
	"errors"

	"alcyxob/gymledger/internal/domain"
	"alcyxob/gymledger/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const settingsCollectionName = "settings"

type mongoSettingsRepository struct {
	collection *mongo.Collection
}

func NewMongoSettingsRepository(db *mongo.Database) repository.SettingsRepository {
	return &mongoSettingsRepository{
		collection: db.Collection(settingsCollectionName),
	}
}

func (r *mongoSettingsRepository) Get(ctx context.Context, gymID string) (*domain.GymSettings, error) {
	var settings domain.GymSettings
	err := r.collection.FindOne(ctx, bson.M{"_id": gymID}).Decode(&settings)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &settings, nil
}

// Save upserts the settings of settings.GymID.
func (r *mongoSettingsRepository) Save(ctx context.Context, settings *domain.GymSettings) error {
	opts := options.Replace().SetUpsert(true)
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": settings.GymID}, settings, opts)
	return err
}

func (r *mongoSettingsRepository) Rename(ctx context.Context, oldGymID, newGymID string) error {
	settings, err := r.Get(ctx, oldGymID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	settings.GymID = newGymID
	if err := r.Save(ctx, settings); err != nil {
		return err
	}
	return r.Delete(ctx, oldGymID)
}

// Delete removes the settings of a gym. Missing settings are not an error.
func (r *mongoSettingsRepository) Delete(ctx context.Context, gymID string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": gymID})
	return err
}
