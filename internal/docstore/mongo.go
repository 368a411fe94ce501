package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"proconnect_backend/internal/logger"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const colRegistrationIntents = "registration_intents"

// MongoStore - реализация IntentStore на MongoDB
type MongoStore struct {
	client *mongo.Client
	col    *mongo.Collection
}

// intentDocument - bson-представление. Payload хранится строкой, чтобы документ читался в mongosh.
type intentDocument struct {
	UID       string       `bson:"_id"`
	Email     string       `bson:"email"`
	Name      string       `bson:"name,omitempty"`
	Payload   string       `bson:"payload"`
	Status    IntentStatus `bson:"status"`
	Attempts  int          `bson:"attempts"`
	LastError string       `bson:"last_error,omitempty"`
	CreatedAt time.Time    `bson:"created_at"`
	UpdatedAt time.Time    `bson:"updated_at"`
}

func (d *intentDocument) toIntent() *RegistrationIntent {
	return &RegistrationIntent{
		UID:       d.UID,
		Email:     d.Email,
		Name:      d.Name,
		Payload:   json.RawMessage(d.Payload),
		Status:    d.Status,
		Attempts:  d.Attempts,
		LastError: d.LastError,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

// NewMongoStore подключается к MongoDB и создает индексы
func NewMongoStore(uri, dbName string) (*MongoStore, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("docstore: connect failed: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("docstore: ping failed: %w", err)
	}

	s := &MongoStore{
		client: client,
		col:    client.Database(dbName).Collection(colRegistrationIntents),
	}
	if err := s.ensureIndexes(ctx); err != nil {
		logger.Warn("docstore: ensure indexes failed", "error", err)
	}
	return s, nil
}

func (s *MongoStore) ensureIndexes(ctx context.Context) error {
	_, err := s.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "status", Value: 1}, {Key: "attempts", Value: 1}, {Key: "updated_at", Value: 1}},
	})
	return err
}

func (s *MongoStore) Save(ctx context.Context, intent *RegistrationIntent) error {
	now := time.Now().UTC()
	update := bson.D{
		{Key: "$set", Value: bson.D{
			{Key: "email", Value: intent.Email},
			{Key: "name", Value: intent.Name},
			{Key: "payload", Value: string(intent.Payload)},
			{Key: "status", Value: IntentPending},
			{Key: "last_error", Value: ""},
			{Key: "updated_at", Value: now},
		}},
		{Key: "$setOnInsert", Value: bson.D{
			{Key: "created_at", Value: now},
			{Key: "attempts", Value: 0},
		}},
	}
	_, err := s.col.UpdateOne(ctx, bson.D{{Key: "_id", Value: intent.UID}}, update, options.UpdateOne().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("docstore: save intent: %w", err)
	}
	intent.Status = IntentPending
	intent.UpdatedAt = now
	return nil
}

func (s *MongoStore) Get(ctx context.Context, uid string) (*RegistrationIntent, error) {
	var doc intentDocument
	err := s.col.FindOne(ctx, bson.D{{Key: "_id", Value: uid}}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrIntentNotFound
		}
		return nil, fmt.Errorf("docstore: get intent: %w", err)
	}
	return doc.toIntent(), nil
}

func (s *MongoStore) MarkReconciled(ctx context.Context, uid string) error {
	return s.updateFields(ctx, uid, bson.D{
		{Key: "$set", Value: bson.D{
			{Key: "status", Value: IntentReconciled},
			{Key: "last_error", Value: ""},
			{Key: "updated_at", Value: time.Now().UTC()},
		}},
	})
}

func (s *MongoStore) MarkFailed(ctx context.Context, uid string, cause error) error {
	msg := ""
	if cause != nil {
		msg = cause.Error()
	}
	return s.updateFields(ctx, uid, bson.D{
		{Key: "$set", Value: bson.D{
			{Key: "status", Value: IntentFailed},
			{Key: "last_error", Value: msg},
			{Key: "updated_at", Value: time.Now().UTC()},
		}},
		{Key: "$inc", Value: bson.D{{Key: "attempts", Value: 1}}},
	})
}

func (s *MongoStore) updateFields(ctx context.Context, uid string, update bson.D) error {
	res, err := s.col.UpdateOne(ctx, bson.D{{Key: "_id", Value: uid}}, update)
	if err != nil {
		return fmt.Errorf("docstore: update intent: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrIntentNotFound
	}
	return nil
}

func (s *MongoStore) ListPending(ctx context.Context, olderThan time.Time, maxAttempts, limit int) ([]*RegistrationIntent, error) {
	filter := bson.D{
		{Key: "status", Value: bson.D{{Key: "$in", Value: bson.A{IntentPending, IntentFailed}}}},
		{Key: "updated_at", Value: bson.D{{Key: "$lte", Value: olderThan.UTC()}}},
	}
	if maxAttempts > 0 {
		filter = append(filter, bson.E{Key: "attempts", Value: bson.D{{Key: "$lt", Value: maxAttempts}}})
	}
	opts := options.Find().SetSort(bson.D{{Key: "updated_at", Value: 1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := s.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("docstore: list pending: %w", err)
	}
	defer cursor.Close(ctx)

	result := []*RegistrationIntent{}
	for cursor.Next(ctx) {
		var doc intentDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		result = append(result, doc.toIntent())
	}
	return result, cursor.Err()
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
