// Package mongostore keeps tasks as documents in a MongoDB collection.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"

	"github.com/Makepad-fr/tasktrackr/internal/model"
	"github.com/Makepad-fr/tasktrackr/internal/store"
)

const (
	DefaultDatabase   = "tasktrackr"
	DefaultCollection = "tasks"

	connectTimeout = 10 * time.Second
)

type taskDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Title     string             `bson:"title"`
	Completed bool               `bson:"completed"`
	CreatedAt time.Time          `bson:"createdAt"`
}

func (d taskDocument) task() model.Task {
	return model.Task{ID: d.ID.Hex(), Title: d.Title, Completed: d.Completed}
}

type Store struct {
	client *mongo.Client
	tasks  *mongo.Collection
}

// DatabaseFromURI returns the database named in the URI path, or
// DefaultDatabase when there is none.
func DatabaseFromURI(uri string) (string, error) {
	cs, err := connstring.ParseAndValidate(uri)
	if err != nil {
		return "", fmt.Errorf("parse mongo uri: %w", err)
	}
	if cs.Database == "" {
		return DefaultDatabase, nil
	}
	return cs.Database, nil
}

// Open connects and pings the server. database may be empty, in which case
// it comes from the URI.
func Open(ctx context.Context, uri, database string) (*Store, error) {
	if database == "" {
		db, err := DatabaseFromURI(uri)
		if err != nil {
			return nil, err
		}
		database = db
	}

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	return &Store{
		client: client,
		tasks:  client.Database(database).Collection(DefaultCollection),
	}, nil
}

func (s *Store) List(ctx context.Context) ([]model.Task, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := s.tasks.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, wrap("find", err)
	}
	defer cur.Close(ctx)

	var docs []taskDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, wrap("decode", err)
	}
	out := make([]model.Task, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.task())
	}
	return out, nil
}

func (s *Store) Create(ctx context.Context, t model.Task) (model.Task, error) {
	doc := taskDocument{
		Title:     t.Title,
		Completed: t.Completed,
		CreatedAt: time.Now().UTC(),
	}
	res, err := s.tasks.InsertOne(ctx, doc)
	if err != nil {
		return model.Task{}, wrap("insert", err)
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return model.Task{}, fmt.Errorf("insert: unexpected id type %T", res.InsertedID)
	}
	doc.ID = oid
	return doc.task(), nil
}

func (s *Store) SetCompleted(ctx context.Context, id string, completed bool) (model.Task, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return model.Task{}, store.ErrNotFound
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc taskDocument
	err = s.tasks.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{"completed": completed}},
		opts,
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return model.Task{}, store.ErrNotFound
		}
		return model.Task{}, wrap("update", err)
	}
	return doc.task(), nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return store.ErrNotFound
	}
	res, err := s.tasks.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return wrap("delete", err)
	}
	if res.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// wrap tags connectivity failures with store.ErrUnavailable.
func wrap(op string, err error) error {
	if mongo.IsNetworkError(err) || mongo.IsTimeout(err) ||
		errors.Is(err, mongo.ErrClientDisconnected) {
		return fmt.Errorf("%w: %s: %v", store.ErrUnavailable, op, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
