package users

import (
	"context"
	"errors"
	"strings"
	"time"

	apperrors "github.com/xyz-asif/civic-connect/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store is the account lookup the one-time-code flow depends on
type Store interface {
	Exists(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, user *User) error
	FindByEmail(ctx context.Context, email string) (*User, error)
}

// ProfileStore is what the profile routes read and write
type ProfileStore interface {
	FindByEmail(ctx context.Context, email string) (*User, error)
	UpdateProfile(ctx context.Context, email string, fields bson.M) (*User, error)
}

// Repository handles database interactions for citizen accounts
type Repository struct {
	collection *mongo.Collection
}

func NewRepository(db *mongo.Database) *Repository {
	collection := db.Collection("users")

	_, _ = collection.Indexes().CreateMany(context.Background(), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	})

	return &Repository{collection: collection}
}

// NormalizeEmail is the canonical account key
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (r *Repository) Exists(ctx context.Context, email string) (bool, error) {
	n, err := r.collection.CountDocuments(ctx, bson.M{"email": NormalizeEmail(email)}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Create inserts a new account; a second account for the same email is an AccountConflict
func (r *Repository) Create(ctx context.Context, user *User) error {
	now := time.Now().UTC()
	user.Email = NormalizeEmail(user.Email)
	user.CreatedAt = now
	user.UpdatedAt = now

	user.ID = primitive.NewObjectID()
	_, err := r.collection.InsertOne(ctx, bson.M{
		"_id":           user.ID,
		"name":          user.Name,
		"email":         user.Email,
		"phone":         user.Phone,
		"createdAt":     user.CreatedAt,
		"updatedAt":     user.UpdatedAt,
		"notifications": bson.A{},
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperrors.Wrap(apperrors.KindAccountConflict, apperrors.ErrAccountConflict.Message, err)
		}
		return err
	}
	return nil
}

func (r *Repository) FindByEmail(ctx context.Context, email string) (*User, error) {
	var user User
	err := r.collection.FindOne(ctx, bson.M{"email": NormalizeEmail(email)}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrAccountNotFound
		}
		return nil, err
	}
	return &user, nil
}

// UpdateProfile sets fields on the account and returns the stored result
func (r *Repository) UpdateProfile(ctx context.Context, email string, fields bson.M) (*User, error) {
	set := bson.M{"updatedAt": time.Now().UTC()}
	for k, v := range fields {
		set[k] = v
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var user User
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"email": NormalizeEmail(email)}, bson.M{"$set": set}, opts).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrAccountNotFound
		}
		return nil, err
	}
	return &user, nil
}
