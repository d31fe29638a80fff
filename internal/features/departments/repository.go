package departments

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

type Store interface {
	Create(ctx context.Context, d *Department) error
	FindByCode(ctx context.Context, code string) (*Department, error)
	FindByEmail(ctx context.Context, email string) (*Department, error)
}

type Repository struct {
	collection *mongo.Collection
}

func NewRepository(db *mongo.Database) *Repository {
	collection := db.Collection("departments")

	_, _ = collection.Indexes().CreateMany(context.Background(), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "code", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	})

	return &Repository{collection: collection}
}

func (r *Repository) Create(ctx context.Context, d *Department) error {
	now := time.Now().UTC()
	d.ID = primitive.NewObjectID()
	d.CreatedAt = now
	d.UpdatedAt = now

	_, err := r.collection.InsertOne(ctx, bson.M{
		"_id":           d.ID,
		"name":          d.Name,
		"code":          d.Code,
		"email":         d.Email,
		"passwordHash":  d.PasswordHash,
		"active":        d.Active,
		"createdAt":     d.CreatedAt,
		"updatedAt":     d.UpdatedAt,
		"notifications": bson.A{},
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperrors.Wrap(apperrors.KindConflict, "department already exists", err)
		}
		return err
	}
	return nil
}

func (r *Repository) FindByCode(ctx context.Context, code string) (*Department, error) {
	return r.findOne(ctx, bson.M{"code": code})
}

func (r *Repository) FindByEmail(ctx context.Context, email string) (*Department, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *Repository) findOne(ctx context.Context, filter bson.M) (*Department, error) {
	var d Department
	opts := options.FindOne().SetProjection(bson.M{"notifications": 0})
	if err := r.collection.FindOne(ctx, filter, opts).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.New(apperrors.KindNotFound, "department not found")
		}
		return nil, err
	}
	return &d, nil
}
