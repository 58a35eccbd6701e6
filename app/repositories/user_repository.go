package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/printipid/printipid/app/models"
	"github.com/printipid/printipid/pkg/docstore"
	"github.com/printipid/printipid/pkg/metrics"
)

// UserRepository handles persistence for user profiles.
type UserRepository struct{}

func NewUserRepository() *UserRepository {
	return &UserRepository{}
}

// FindByEmail looks up a user by their email address.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (models.User, error) {
	defer metrics.ObserveDocQuery("find", time.Now())
	var user models.User
	err := docstore.FindOne(ctx, models.CollectionUsers, bson.M{"email": email}, &user)
	return user, err
}

// FindByID looks up a user profile by ID.
func (r *UserRepository) FindByID(ctx context.Context, id string) (models.User, error) {
	defer metrics.ObserveDocQuery("find", time.Now())
	var user models.User
	err := docstore.FindByID(ctx, models.CollectionUsers, id, &user)
	return user, err
}

// Create persists a new user profile.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	defer metrics.ObserveDocQuery("insert", time.Now())
	return docstore.Insert(ctx, models.CollectionUsers, user)
}

// Update merges the given fields into the user document.
func (r *UserRepository) Update(ctx context.Context, id string, fields bson.M) error {
	defer metrics.ObserveDocQuery("update", time.Now())
	return docstore.UpdateMerge(ctx, models.CollectionUsers, id, withUpdatedAt(fields))
}

// All returns every user profile, newest first.
func (r *UserRepository) All(ctx context.Context) ([]models.User, error) {
	defer metrics.ObserveDocQuery("find", time.Now())
	var users []models.User
	err := docstore.Find(ctx, models.CollectionUsers, bson.M{}, &users,
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}),
	)
	return users, err
}
