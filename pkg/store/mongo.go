package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/logicflow/pkg/snapshot"
)

// MongoConfig configures a [MongoStore].
type MongoConfig struct {
	URI        string
	Database   string
	Collection string
}

// MongoStore keeps one document per circuit, keyed by name.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

type mongoRecord struct {
	Name      string    `bson:"_id"`
	Data      string    `bson:"data"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// mongoSelectTimeout bounds each connection check.
const mongoSelectTimeout = 2 * time.Second

// NewMongoStore connects to MongoDB and verifies the connection, retrying a
// few times while the server comes up.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	opts := options.Client().ApplyURI(cfg.URI).SetServerSelectionTimeout(mongoSelectTimeout)
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, persistence(err, "connect to mongodb")
	}
	ping := func(ctx context.Context) error { return client.Ping(ctx, nil) }
	if err := retry(ctx, connectAttempts, connectDelay, ping); err != nil {
		client.Disconnect(ctx)
		return nil, persistence(err, "ping mongodb")
	}
	db, coll := cfg.Database, cfg.Collection
	if db == "" {
		db = "logicflow"
	}
	if coll == "" {
		coll = "circuits"
	}
	return &MongoStore{client: client, coll: client.Database(db).Collection(coll)}, nil
}

func (s *MongoStore) Save(ctx context.Context, name string, doc *snapshot.Document) error {
	data, err := encode(name, doc)
	if err != nil {
		return err
	}
	rec := mongoRecord{Name: name, Data: string(data), UpdatedAt: time.Now().UTC()}
	_, err = s.coll.ReplaceOne(ctx, bson.M{"_id": name}, rec, options.Replace().SetUpsert(true))
	if err != nil {
		return persistence(err, "save circuit %q", name)
	}
	return nil
}

func (s *MongoStore) Load(ctx context.Context, name string) (*snapshot.Document, error) {
	var rec mongoRecord
	err := s.coll.FindOne(ctx, bson.M{"_id": name}).Decode(&rec)
	if err == mongo.ErrNoDocuments {
		return nil, notFound(name)
	}
	if err != nil {
		return nil, persistence(err, "load circuit %q", name)
	}
	return decode(name, []byte(rec.Data))
}

func (s *MongoStore) List(ctx context.Context) ([]string, error) {
	opts := options.Find().
		SetProjection(bson.M{"_id": 1}).
		SetSort(bson.M{"_id": 1})
	cur, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, persistence(err, "list circuits")
	}
	var recs []struct {
		Name string `bson:"_id"`
	}
	if err := cur.All(ctx, &recs); err != nil {
		return nil, persistence(err, "list circuits")
	}
	names := make([]string, len(recs))
	for i, r := range recs {
		names[i] = r.Name
	}
	return names, nil
}

func (s *MongoStore) Delete(ctx context.Context, name string) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": name})
	if err != nil {
		return persistence(err, "delete circuit %q", name)
	}
	if res.DeletedCount == 0 {
		return notFound(name)
	}
	return nil
}

func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
