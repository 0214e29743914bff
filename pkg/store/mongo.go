package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sciviz/figlint/pkg/audit"
	"github.com/sciviz/figlint/pkg/errors"
)

// MongoStore archives reports in a MongoDB collection, keyed by report
// ID. Intended for the audit service, where reports outlive a single
// process.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects to MongoDB and verifies the connection with a
// ping. Database and collection are created lazily on first write.
func NewMongoStore(ctx context.Context, uri, database, collection string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "connect to mongodb")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "ping mongodb")
	}

	return &MongoStore{
		client: client,
		coll:   client.Database(database).Collection(collection),
	}, nil
}

// SaveReport stores a report, replacing any existing report with the same ID.
func (s *MongoStore) SaveReport(ctx context.Context, report audit.Report) error {
	if report.ID == "" {
		return errors.New(errors.ErrCodeInvalidInput, "report has no ID")
	}

	opts := options.Replace().SetUpsert(true)
	if _, err := s.coll.ReplaceOne(ctx, bson.M{"_id": report.ID}, report, opts); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "save report %s", report.ID)
	}
	return nil
}

// GetReport retrieves a report by ID.
func (s *MongoStore) GetReport(ctx context.Context, id string) (audit.Report, error) {
	var report audit.Report
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&report)
	if err == mongo.ErrNoDocuments {
		return audit.Report{}, errors.New(errors.ErrCodeReportNotFound, "report %q not found", id)
	}
	if err != nil {
		return audit.Report{}, errors.Wrap(errors.ErrCodeInternal, err, "get report %s", id)
	}
	return report, nil
}

// ListReports returns archived reports, newest first.
func (s *MongoStore) ListReports(ctx context.Context, opts ListOpts) ([]audit.Report, error) {
	filter := bson.M{}
	if opts.Journal != "" {
		filter["journal"] = opts.Journal
	}

	findOpts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if opts.Limit > 0 {
		findOpts.SetLimit(int64(opts.Limit))
	}

	cursor, err := s.coll.Find(ctx, filter, findOpts)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "list reports")
	}
	defer cursor.Close(ctx)

	var reports []audit.Report
	if err := cursor.All(ctx, &reports); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "decode reports")
	}
	return reports, nil
}

// DeleteReport removes a report. Deleting a missing report is not an error.
func (s *MongoStore) DeleteReport(ctx context.Context, id string) error {
	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "delete report %s", id)
	}
	return nil
}

// Close disconnects from MongoDB.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
