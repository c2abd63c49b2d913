package jobs

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	cperrors "github.com/meowble/catprint/pkg/errors"
)

// MongoStore archives jobs in MongoDB. Deployments that want print
// history across restarts configure it via server.mongo_uri.
type MongoStore struct {
	client     *mongo.Client
	collection *mongo.Collection
}

const mongoCollection = "jobs"

// NewMongoStore connects to MongoDB and prepares the job collection.
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, cperrors.Wrap(cperrors.ErrCodeInternal, err, "connect to mongodb")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, cperrors.Wrap(cperrors.ErrCodeInternal, err, "ping mongodb")
	}

	collection := client.Database(database).Collection(mongoCollection)

	// Index for the newest-first listing.
	_, err = collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "created_at", Value: -1}},
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, cperrors.Wrap(cperrors.ErrCodeInternal, err, "create job index")
	}

	return &MongoStore{client: client, collection: collection}, nil
}

// Put inserts or updates a job.
func (s *MongoStore) Put(ctx context.Context, job *Job) error {
	_, err := s.collection.ReplaceOne(ctx,
		bson.D{{Key: "_id", Value: job.ID}},
		job,
		options.Replace().SetUpsert(true))
	if err != nil {
		return cperrors.Wrap(cperrors.ErrCodeInternal, err, "store job %s", job.ID)
	}
	return nil
}

// Get retrieves a job by ID.
func (s *MongoStore) Get(ctx context.Context, id string) (*Job, error) {
	var job Job
	err := s.collection.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&job)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, cperrors.New(cperrors.ErrCodeJobNotFound, "job %s not found", id)
	}
	if err != nil {
		return nil, cperrors.Wrap(cperrors.ErrCodeInternal, err, "load job %s", id)
	}
	return &job, nil
}

// List returns jobs newest first.
func (s *MongoStore) List(ctx context.Context, limit int) ([]*Job, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := s.collection.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, cperrors.Wrap(cperrors.ErrCodeInternal, err, "list jobs")
	}
	defer cursor.Close(ctx)

	var out []*Job
	if err := cursor.All(ctx, &out); err != nil {
		return nil, cperrors.Wrap(cperrors.ErrCodeInternal, err, "decode jobs")
	}
	return out, nil
}

// Close disconnects from MongoDB.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
