package auth

import (
	"context"
	"errors"
	"time"

	apperrors "github.com/xyz-asif/civic-connect/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// TokenStore persists one-time codes
type TokenStore interface {
	Create(ctx context.Context, t *OtpToken) error
	// Consume atomically marks the matching live token consumed, or fails with InvalidOrExpired
	Consume(ctx context.Context, target, purpose, code string, now time.Time) (*OtpToken, error)
	PurgeStale(ctx context.Context, now time.Time) (int64, error)
}

// Repository handles the otp_tokens collection
type Repository struct {
	collection *mongo.Collection
}

func NewRepository(db *mongo.Database) *Repository {
	collection := db.Collection("otp_tokens")

	_, _ = collection.Indexes().CreateMany(context.Background(), []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "target", Value: 1},
				{Key: "purpose", Value: 1},
				{Key: "code", Value: 1},
			},
		},
		{
			// Mongo removes expired codes on its own; the purge job also clears consumed ones
			Keys:    bson.D{{Key: "expiresAt", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0),
		},
	})

	return &Repository{collection: collection}
}

func (r *Repository) Create(ctx context.Context, t *OtpToken) error {
	t.ID = primitive.NewObjectID()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	_, err := r.collection.InsertOne(ctx, t)
	return err
}

func (r *Repository) Consume(ctx context.Context, target, purpose, code string, now time.Time) (*OtpToken, error) {
	filter := bson.M{
		"target":     target,
		"purpose":    purpose,
		"code":       code,
		"consumedAt": nil,
		"expiresAt":  bson.M{"$gt": now},
	}
	update := bson.M{"$set": bson.M{"consumedAt": now}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var t OtpToken
	if err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&t); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrInvalidOrExpired
		}
		return nil, err
	}
	return &t, nil
}

// PurgeStale deletes consumed and expired codes
func (r *Repository) PurgeStale(ctx context.Context, now time.Time) (int64, error) {
	result, err := r.collection.DeleteMany(ctx, bson.M{"$or": bson.A{
		bson.M{"expiresAt": bson.M{"$lte": now}},
		bson.M{"consumedAt": bson.M{"$ne": nil}},
	}})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}
