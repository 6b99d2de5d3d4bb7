package mongo

import (
	"context"
	"errors"
	"time"

	"alcyxob/gymledger/internal/domain"
	"alcyxob/gymledger/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const memberCollectionName = "members"

// mongoMemberRepository implements the repository.MemberRepository interface using MongoDB.
type mongoMemberRepository struct {
	collection *mongo.Collection
}

// NewMongoMemberRepository creates a new instance of mongoMemberRepository.
func NewMongoMemberRepository(db *mongo.Database) repository.MemberRepository {
	return &mongoMemberRepository{
		collection: db.Collection(memberCollectionName),
	}
}

// Create inserts a new member into the database.
func (r *mongoMemberRepository) Create(ctx context.Context, member *domain.Member) (primitive.ObjectID, error) {
	if member.GymID == "" || member.Name == "" {
		return primitive.NilObjectID, domain.ErrMissingMemberFields
	}

	member.ID = primitive.NewObjectID()
	member.Version = 1
	now := time.Now().UTC()
	member.CreatedAt = now
	member.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, member)
	if err != nil {
		// Unique (gymId, username)
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}
	return insertedID, nil
}

func (r *mongoMemberRepository) GetByID(ctx context.Context, gymID string, id primitive.ObjectID) (*domain.Member, error) {
	return r.findOne(ctx, bson.M{"_id": id, "gymId": gymID})
}

func (r *mongoMemberRepository) GetByUsername(ctx context.Context, gymID, username string) (*domain.Member, error) {
	return r.findOne(ctx, bson.M{"gymId": gymID, "username": username})
}

func (r *mongoMemberRepository) findOne(ctx context.Context, filter bson.M) (*domain.Member, error) {
	var member domain.Member
	err := r.collection.FindOne(ctx, filter).Decode(&member)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &member, nil
}

// ListByGym returns the members of a gym, most recently joined first.
func (r *mongoMemberRepository) ListByGym(ctx context.Context, gymID string) ([]domain.Member, error) {
	opts := options.Find().SetSort(bson.D{{Key: "joinDate", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"gymId": gymID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	members := []domain.Member{}
	if err = cursor.All(ctx, &members); err != nil {
		return nil, err
	}
	return members, nil
}

// Update replaces the member document if nobody else wrote it since it was read.
func (r *mongoMemberRepository) Update(ctx context.Context, member *domain.Member) error {
	expected := member.Version
	next := *member
	next.Version = expected + 1
	next.UpdatedAt = time.Now().UTC()

	filter := bson.M{"_id": member.ID, "gymId": member.GymID, "version": expected}
	result, err := r.collection.ReplaceOne(ctx, filter, &next)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrDuplicate
		}
		return err
	}

	if result.MatchedCount == 0 {
		// Tell a stale version apart from a missing document.
		count, err := r.collection.CountDocuments(ctx, bson.M{"_id": member.ID, "gymId": member.GymID})
		if err != nil {
			return err
		}
		if count == 0 {
			return repository.ErrNotFound
		}
		return repository.ErrVersionConflict
	}

	member.Version = next.Version
	member.UpdatedAt = next.UpdatedAt
	return nil
}

// ReassignGym moves members to a renamed gym. Versions are bumped so that
// in-flight writes against the old gym id fail instead of resurrecting it.
func (r *mongoMemberRepository) ReassignGym(ctx context.Context, oldGymID, newGymID string) (int64, error) {
	update := bson.M{
		"$set": bson.M{"gymId": newGymID, "updatedAt": time.Now().UTC()},
		"$inc": bson.M{"version": 1},
	}
	result, err := r.collection.UpdateMany(ctx, bson.M{"gymId": oldGymID}, update)
	if err != nil {
		return 0, err
	}
	return result.ModifiedCount, nil
}

// EnsureMemberIndexes creates necessary indexes for the members collection.
// Call this once during application startup.
func EnsureMemberIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "gymId", Value: 1}, {Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "gymId", Value: 1}, {Key: "joinDate", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "gymId", Value: 1}, {Key: "expiryDate", Value: 1}},
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
