package reports

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/xyz-asif/civic-connect/internal/pkg/pagination"
	apperrors "github.com/xyz-asif/civic-connect/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// ErrDuplicateReportID means the allocated id pair collided with a stored report
	ErrDuplicateReportID = errors.New("duplicate report id")
	// ErrVersionConflict means the report changed since it was read
	ErrVersionConflict = errors.New("report was modified concurrently")
)

// Store is the report persistence the orchestrator depends on
type Store interface {
	Create(ctx context.Context, report *Report) error
	FindByReportID(ctx context.Context, reportID string) (*Report, error)
	FindByTrackingCode(ctx context.Context, trackingCode string) (*Report, error)
	// Update applies ch only when the stored version still equals version
	Update(ctx context.Context, reportID string, version int64, ch Change) error
	ListByReporter(ctx context.Context, email string, req pagination.Request) ([]Report, int64, error)
	ListByDepartment(ctx context.Context, department, status string, req pagination.Request) ([]Report, int64, error)
	// List is the public listing; empty filters match everything
	List(ctx context.Context, status, priority string, req pagination.Request) ([]Report, int64, error)
	DailySummary(ctx context.Context, department string, since time.Time) ([]DayCount, error)

	// React records email as a liker or disliker, removing it from the other set
	React(ctx context.Context, reportID, email string, like bool) (ReactionSummary, error)
	AddComment(ctx context.Context, reportID string, comment Comment) ([]Comment, error)
}

// Repository handles database interactions for reports
type Repository struct {
	collection *mongo.Collection
}

func NewRepository(db *mongo.Database) *Repository {
	collection := db.Collection("reports")

	_, _ = collection.Indexes().CreateMany(context.Background(), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "reportId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "trackingCode", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "reporter.email", Value: 1}, {Key: "submittedAt", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "assignment.department", Value: 1}, {Key: "status", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "status", Value: 1}, {Key: "priority", Value: 1}, {Key: "submittedAt", Value: -1}},
		},
	})

	return &Repository{collection: collection}
}

func (r *Repository) Create(ctx context.Context, report *Report) error {
	res, err := r.collection.InsertOne(ctx, report)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			if strings.Contains(err.Error(), "reportId") || strings.Contains(err.Error(), "trackingCode") {
				return ErrDuplicateReportID
			}
			return apperrors.Wrap(apperrors.KindConflict, apperrors.ErrDuplicate.Message, err)
		}
		return err
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		report.ID = id
	}
	return nil
}

func (r *Repository) findOne(ctx context.Context, filter bson.M) (*Report, error) {
	var report Report
	err := r.collection.FindOne(ctx, filter).Decode(&report)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.New(apperrors.KindNotFound, "report not found")
		}
		return nil, err
	}
	return &report, nil
}

func (r *Repository) FindByReportID(ctx context.Context, reportID string) (*Report, error) {
	return r.findOne(ctx, bson.M{"reportId": reportID})
}

func (r *Repository) FindByTrackingCode(ctx context.Context, trackingCode string) (*Report, error) {
	return r.findOne(ctx, bson.M{"trackingCode": trackingCode})
}

func (r *Repository) Update(ctx context.Context, reportID string, version int64, ch Change) error {
	set := bson.M{"updatedAt": time.Now().UTC()}
	for k, v := range ch.Set {
		set[k] = v
	}
	update := bson.M{
		"$set": set,
		"$inc": bson.M{"version": 1},
	}
	if len(ch.Push) > 0 {
		push := bson.M{}
		for k, v := range ch.Push {
			push[k] = v
		}
		update["$push"] = push
	}

	res, err := r.collection.UpdateOne(ctx, bson.M{"reportId": reportID, "version": version}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		n, err := r.collection.CountDocuments(ctx, bson.M{"reportId": reportID}, options.Count().SetLimit(1))
		if err != nil {
			return err
		}
		if n == 0 {
			return apperrors.New(apperrors.KindNotFound, "report not found")
		}
		return ErrVersionConflict
	}
	return nil
}

func (r *Repository) list(ctx context.Context, filter bson.M, req pagination.Request) ([]Report, int64, error) {
	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "submittedAt", Value: -1}}).
		SetSkip(int64(req.Offset())).
		SetLimit(int64(req.Limit))

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	reports := []Report{}
	if err := cursor.All(ctx, &reports); err != nil {
		return nil, 0, err
	}
	return reports, total, nil
}

func (r *Repository) ListByReporter(ctx context.Context, email string, req pagination.Request) ([]Report, int64, error) {
	return r.list(ctx, bson.M{"reporter.email": email}, req)
}

func (r *Repository) ListByDepartment(ctx context.Context, department, status string, req pagination.Request) ([]Report, int64, error) {
	filter := bson.M{"assignment.department": department}
	if status != "" {
		filter["status"] = status
	}
	return r.list(ctx, filter, req)
}

func (r *Repository) List(ctx context.Context, status, priority string, req pagination.Request) ([]Report, int64, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}
	if priority != "" {
		filter["priority"] = priority
	}
	return r.list(ctx, filter, req)
}

func (r *Repository) DailySummary(ctx context.Context, department string, since time.Time) ([]DayCount, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"assignment.department": department,
			"submittedAt":           bson.M{"$gte": since},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id": bson.M{
				"day":    bson.M{"$dateToString": bson.M{"format": "%Y-%m-%d", "date": "$submittedAt"}},
				"status": "$status",
			},
			"count": bson.M{"$sum": 1},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Key struct {
			Day    string `bson:"day"`
			Status string `bson:"status"`
		} `bson:"_id"`
		Count int64 `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}

	out := make([]DayCount, len(rows))
	for i, row := range rows {
		out[i] = DayCount{Day: row.Key.Day, Status: row.Key.Status, Count: row.Count}
	}
	return out, nil
}

// React leaves version alone; reactions never race the workflow fields
func (r *Repository) React(ctx context.Context, reportID, email string, like bool) (ReactionSummary, error) {
	add, remove := "likes", "dislikes"
	if !like {
		add, remove = remove, add
	}
	update := bson.M{
		"$addToSet": bson.M{add: email},
		"$pull":     bson.M{remove: email},
	}
	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(bson.M{"likes": 1, "dislikes": 1})

	var doc struct {
		Likes    []string `bson:"likes"`
		Dislikes []string `bson:"dislikes"`
	}
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"reportId": reportID}, update, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ReactionSummary{}, apperrors.New(apperrors.KindNotFound, "report not found")
		}
		return ReactionSummary{}, err
	}
	return ReactionSummary{Likes: len(doc.Likes), Dislikes: len(doc.Dislikes)}, nil
}

func (r *Repository) AddComment(ctx context.Context, reportID string, comment Comment) ([]Comment, error) {
	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(bson.M{"comments": 1})

	var doc struct {
		Comments []Comment `bson:"comments"`
	}
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"reportId": reportID}, bson.M{"$push": bson.M{"comments": comment}}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.New(apperrors.KindNotFound, "report not found")
		}
		return nil, err
	}
	return doc.Comments, nil
}
