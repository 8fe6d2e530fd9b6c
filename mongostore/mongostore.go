// Package mongostore provides a MongoDB-backed session store. Sessions are
// documents keyed by _id in a single collection, replaced wholesale on save.
//
// Importing the package registers it as the "mongo" backend; the registry
// factory expects the connection URI under the "dsn" argument:
//
//	import _ "github.com/webstack-go/websession/mongostore"
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/webstack-go/websession"
)

const (
	defaultDatabase   = "websession"
	defaultCollection = "sessions"

	connectTimeout = 5 * time.Second
)

func init() {
	websession.RegisterStore("mongo", func(args map[string]string) (websession.Store, error) {
		dsn := args[websession.ArgDSN]
		if dsn == "" {
			return nil, errors.New("mongostore: missing dsn argument")
		}
		return Connect(context.Background(), dsn)
	})
}

// record is the document shape; Session itself carries json tags, so the
// mapping to bson stays explicit here.
type record struct {
	ID        string         `bson:"_id"`
	Data      map[string]any `bson:"data"`
	CreatedAt time.Time      `bson:"created_at"`
	ExpiresAt time.Time      `bson:"expires_at"`
}

// MongoStore implements websession.Store on a MongoDB collection.
type MongoStore struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// New wraps an existing collection.
func New(collection *mongo.Collection) *MongoStore {
	return &MongoStore{collection: collection}
}

// Connect dials the given URI, verifies the connection with a ping and
// returns a store over the default database and collection.
func Connect(ctx context.Context, uri string) (*MongoStore, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongostore: connect: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongostore: mongo connection failed: %w", err)
	}

	return &MongoStore{
		client:     client,
		collection: client.Database(defaultDatabase).Collection(defaultCollection),
	}, nil
}

// Load retrieves a session by ID. Documents past their expiry are deleted on
// the spot and reported as expired.
func (s *MongoStore) Load(ctx context.Context, id string) (*websession.Session, error) {
	var rec record
	err := s.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&rec)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, websession.ErrSessionNotFound
		}
		return nil, fmt.Errorf("mongostore: load session: %w", err)
	}

	session := &websession.Session{
		ID:        rec.ID,
		Data:      rec.Data,
		CreatedAt: rec.CreatedAt,
		ExpiresAt: rec.ExpiresAt,
	}

	if session.IsExpired() {
		_, _ = s.collection.DeleteOne(ctx, bson.M{"_id": id})
		return nil, websession.ErrSessionExpired
	}

	return session, nil
}

// Save replaces the session document, inserting it if absent.
func (s *MongoStore) Save(ctx context.Context, session *websession.Session) error {
	if session == nil || session.ID == "" {
		return websession.ErrInvalidSession
	}

	rec := record{
		ID:        session.ID,
		Data:      session.Data,
		CreatedAt: session.CreatedAt,
		ExpiresAt: session.ExpiresAt,
	}

	_, err := s.collection.ReplaceOne(ctx, bson.M{"_id": session.ID}, rec,
		options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("mongostore: save session: %w", err)
	}
	return nil
}

// Delete removes a session document. Missing documents are not an error.
func (s *MongoStore) Delete(ctx context.Context, id string) error {
	if _, err := s.collection.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("mongostore: delete session: %w", err)
	}
	return nil
}

// DeleteExpired prunes all documents past their expiry.
func (s *MongoStore) DeleteExpired(ctx context.Context) error {
	if _, err := s.collection.DeleteMany(ctx, bson.M{"expires_at": bson.M{"$lt": time.Now()}}); err != nil {
		return fmt.Errorf("mongostore: delete expired sessions: %w", err)
	}
	return nil
}

// Close disconnects the client if this store owns one.
func (s *MongoStore) Close(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	return s.client.Disconnect(ctx)
}
