package notifications

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	apperrors "github.com/xyz-asif/civic-connect/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store persists notifications inside recipient inboxes
type Store interface {
	Append(ctx context.Context, to Recipient, n *Notification) error
	List(ctx context.Context, of Recipient, unreadOnly bool, page, limit int) ([]Notification, int64, error)
	CountUnread(ctx context.Context, of Recipient) (int64, error)
	MarkAsRead(ctx context.Context, of Recipient, id primitive.ObjectID) error
	MarkAllAsRead(ctx context.Context, of Recipient) (int64, error)
}

// Repository keeps notifications embedded in the users and departments collections
type Repository struct {
	users       *mongo.Collection
	departments *mongo.Collection
	now         func() time.Time
}

func NewRepository(db *mongo.Database) *Repository {
	return &Repository{
		users:       db.Collection("users"),
		departments: db.Collection("departments"),
		now:         time.Now,
	}
}

func (r *Repository) target(to Recipient) (*mongo.Collection, bson.M, error) {
	switch to.Kind {
	case RecipientUser:
		return r.users, bson.M{"email": to.Key}, nil
	case RecipientDepartment:
		return r.departments, bson.M{"code": to.Key}, nil
	default:
		return nil, nil, fmt.Errorf("unknown recipient kind %q", to.Kind)
	}
}

// Append pushes a notification onto the recipient's list in a single atomic update
func (r *Repository) Append(ctx context.Context, to Recipient, n *Notification) error {
	coll, filter, err := r.target(to)
	if err != nil {
		return err
	}

	if n.ID.IsZero() {
		n.ID = primitive.NewObjectID()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = r.now().UTC()
	}
	n.Read = false

	result, err := coll.UpdateOne(ctx, filter, bson.M{"$push": bson.M{"notifications": n}})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return apperrors.Wrap(apperrors.KindNotFound, "recipient not found", fmt.Errorf("%s %s", to.Kind, to.Key))
	}
	return nil
}

type inbox struct {
	Notifications []Notification `bson:"notifications"`
}

func (r *Repository) load(ctx context.Context, of Recipient) ([]Notification, error) {
	coll, filter, err := r.target(of)
	if err != nil {
		return nil, err
	}

	var doc inbox
	opts := options.FindOne().SetProjection(bson.M{"notifications": 1})
	if err := coll.FindOne(ctx, filter, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return doc.Notifications, nil
}

// List returns newest first
func (r *Repository) List(ctx context.Context, of Recipient, unreadOnly bool, page, limit int) ([]Notification, int64, error) {
	all, err := r.load(ctx, of)
	if err != nil {
		return nil, 0, err
	}
	items, total := paginate(all, unreadOnly, page, limit)
	return items, total, nil
}

func (r *Repository) CountUnread(ctx context.Context, of Recipient) (int64, error) {
	all, err := r.load(ctx, of)
	if err != nil {
		return 0, err
	}
	return countUnread(all), nil
}

func (r *Repository) MarkAsRead(ctx context.Context, of Recipient, id primitive.ObjectID) error {
	coll, filter, err := r.target(of)
	if err != nil {
		return err
	}
	filter["notifications._id"] = id

	result, err := coll.UpdateOne(ctx, filter, bson.M{"$set": bson.M{
		"notifications.$.read":   true,
		"notifications.$.readAt": r.now().UTC(),
	}})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return apperrors.New(apperrors.KindNotFound, "notification not found")
	}
	return nil
}

func (r *Repository) MarkAllAsRead(ctx context.Context, of Recipient) (int64, error) {
	unread, err := r.CountUnread(ctx, of)
	if err != nil || unread == 0 {
		return 0, err
	}

	coll, filter, err := r.target(of)
	if err != nil {
		return 0, err
	}

	opts := options.Update().SetArrayFilters(options.ArrayFilters{
		Filters: []interface{}{bson.M{"n.read": false}},
	})
	_, err = coll.UpdateOne(ctx, filter, bson.M{"$set": bson.M{
		"notifications.$[n].read":   true,
		"notifications.$[n].readAt": r.now().UTC(),
	}}, opts)
	if err != nil {
		return 0, err
	}
	return unread, nil
}

func paginate(all []Notification, unreadOnly bool, page, limit int) ([]Notification, int64) {
	items := make([]Notification, 0, len(all))
	for _, n := range all {
		if unreadOnly && n.Read {
			continue
		}
		items = append(items, n)
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})

	total := int64(len(items))
	start := (page - 1) * limit
	if start >= len(items) {
		return []Notification{}, total
	}
	end := start + limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end], total
}

func countUnread(all []Notification) int64 {
	var n int64
	for _, item := range all {
		if !item.Read {
			n++
		}
	}
	return n
}
