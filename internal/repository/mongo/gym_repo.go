package mongo

import (
	"context"
	"errors"
	"time"

	"alcyxob/gymledger/internal/domain"
	"alcyxob/gymledger/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const gymCollectionName = "gyms"

type mongoGymRepository struct {
	collection *mongo.Collection
}

func NewMongoGymRepository(db *mongo.Database) repository.GymRepository {
	return &mongoGymRepository{
		collection: db.Collection(gymCollectionName),
	}
}

// Create inserts a gym under its admin-chosen ID.
func (r *mongoGymRepository) Create(ctx context.Context, gym *domain.Gym) error {
	if gym.CreatedAt.IsZero() {
		gym.CreatedAt = time.Now().UTC()
	}
	_, err := r.collection.InsertOne(ctx, gym)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrDuplicate
		}
		return err
	}
	return nil
}

func (r *mongoGymRepository) GetByID(ctx context.Context, id string) (*domain.Gym, error) {
	var gym domain.Gym
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&gym)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &gym, nil
}

func (r *mongoGymRepository) List(ctx context.Context) ([]domain.Gym, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	gyms := []domain.Gym{}
	if err = cursor.All(ctx, &gyms); err != nil {
		return nil, err
	}
	return gyms, nil
}

// Update replaces the gym stored under oldID. Since _id is immutable, a
// rename inserts the new document before removing the old one.
func (r *mongoGymRepository) Update(ctx context.Context, oldID string, gym *domain.Gym) error {
	if oldID == gym.ID {
		result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": oldID}, gym)
		if err != nil {
			return err
		}
		if result.MatchedCount == 0 {
			return repository.ErrNotFound
		}
		return nil
	}

	if _, err := r.GetByID(ctx, oldID); err != nil {
		return err
	}
	if err := r.Create(ctx, gym); err != nil {
		return err
	}
	return r.Delete(ctx, oldID)
}

func (r *mongoGymRepository) Delete(ctx context.Context, id string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}
