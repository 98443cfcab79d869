package store

import (
	"cmp"
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/matzehuels/gridboard/pkg/document"
	errs "github.com/matzehuels/gridboard/pkg/errors"
)

// Mongo defaults.
const (
	DefaultMongoURI        = "mongodb://localhost:27017"
	DefaultMongoDatabase   = "gridboard"
	DefaultMongoCollection = "boards"
)

// MongoConfig configures [NewMongoStore].
type MongoConfig struct {
	URI        string
	Database   string
	Collection string
}

// MongoStore keeps one MongoDB document per board, keyed by dashboard id.
// The board document is embedded as BSON so it can be queried in place.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

type mongoRecord struct {
	ID        string    `bson:"_id"`
	Body      bson.D    `bson:"body"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// NewMongoStore connects to MongoDB and pings the primary, retrying with backoff.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	uri := cmp.Or(cfg.URI, DefaultMongoURI)
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidConfig, err, "mongo uri")
	}
	if err := ping(ctx, func(ctx context.Context) error { return client.Ping(ctx, readpref.Primary()) }); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errs.Wrap(errs.ErrCodeStore, err, "connect mongo")
	}
	coll := client.Database(cmp.Or(cfg.Database, DefaultMongoDatabase)).
		Collection(cmp.Or(cfg.Collection, DefaultMongoCollection))
	return &MongoStore{client: client, coll: coll}, nil
}

func (s *MongoStore) Get(ctx context.Context, id string) (*document.Document, error) {
	var rec mongoRecord
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeStore, err, "mongo get %q", id)
	}
	data, err := bson.MarshalExtJSON(rec.Body, false, false)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeStore, err, "mongo decode %q", id)
	}
	return decode(id, data)
}

func (s *MongoStore) Put(ctx context.Context, doc *document.Document) error {
	data, err := encode(doc)
	if err != nil {
		return err
	}
	var body bson.D
	if err := bson.UnmarshalExtJSON(data, false, &body); err != nil {
		return errs.Wrap(errs.ErrCodeStore, err, "mongo encode %q", doc.DashboardID)
	}
	rec := mongoRecord{ID: doc.DashboardID, Body: body, UpdatedAt: time.Now().UTC()}
	_, err = s.coll.ReplaceOne(ctx, bson.M{"_id": rec.ID}, rec, options.Replace().SetUpsert(true))
	if err != nil {
		return errs.Wrap(errs.ErrCodeStore, err, "mongo put %q", doc.DashboardID)
	}
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, id string) error {
	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return errs.Wrap(errs.ErrCodeStore, err, "mongo delete %q", id)
	}
	return nil
}

func (s *MongoStore) List(ctx context.Context) ([]string, error) {
	opts := options.Find().
		SetProjection(bson.M{"_id": 1}).
		SetSort(bson.D{{Key: "_id", Value: 1}})
	cur, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeStore, err, "mongo list")
	}
	var recs []struct {
		ID string `bson:"_id"`
	}
	if err := cur.All(ctx, &recs); err != nil {
		return nil, errs.Wrap(errs.ErrCodeStore, err, "mongo list")
	}
	ids := make([]string, len(recs))
	for i, r := range recs {
		ids[i] = r.ID
	}
	return ids, nil
}

func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
