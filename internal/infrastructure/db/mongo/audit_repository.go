package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/greenhaven/storefront/internal/core/domain"
)

const authEventsCollection = "auth_events"

// AuditRepository appends auth flow transitions to the auth_events collection.
type AuditRepository struct {
	coll *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{coll: db.Collection(authEventsCollection)}
}

type mongoAuthEvent struct {
	SessionID  string    `bson:"session_id"`
	Mode       string    `bson:"mode"`
	Event      string    `bson:"event"`
	Phone      string    `bson:"phone,omitempty"`
	Reason     string    `bson:"reason,omitempty"`
	At         time.Time `bson:"at"`
	RecordedAt time.Time `bson:"recorded_at"`
}

func (r *AuditRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "session_id", Value: 1}, {Key: "at", Value: -1}},
		Options: options.Index().SetName("session_events"),
	})
	if err != nil {
		return fmt.Errorf("auth_events index: %w", err)
	}
	return nil
}

func (r *AuditRepository) Record(ctx context.Context, e domain.AuthEvent) error {
	doc := mongoAuthEvent{
		SessionID:  e.SessionID,
		Mode:       string(e.Mode),
		Event:      e.Event,
		Phone:      e.Phone,
		Reason:     e.Reason,
		At:         e.At.UTC(),
		RecordedAt: time.Now().UTC(),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert auth event: %w", err)
	}
	return nil
}
