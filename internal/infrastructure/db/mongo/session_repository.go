package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/greenhaven/storefront/internal/core/domain"
)

const sessionsCollection = "sessions"

// Slot field names. i18nextLng keeps the name the storefront UI uses.
const (
	slotToken         = "access_token"
	slotUser          = "user"
	slotCartID        = "cart_id"
	slotAuthenticated = "authenticated"
	slotLocale        = "i18nextLng"
)

// SessionRepository stores the per-session client slots, one document per
// session. Each setter is a single-field upsert.
type SessionRepository struct {
	coll *mongo.Collection
	now  func() time.Time
}

func NewSessionRepository(db *mongo.Database) *SessionRepository {
	return &SessionRepository{coll: db.Collection(sessionsCollection), now: time.Now}
}

type mongoSession struct {
	ID            string          `bson:"_id"`
	AccessToken   string          `bson:"access_token,omitempty"`
	User          *domain.Profile `bson:"user,omitempty"`
	CartID        string          `bson:"cart_id,omitempty"`
	Authenticated bool            `bson:"authenticated,omitempty"`
	Locale        string          `bson:"i18nextLng,omitempty"`
	UpdatedAt     time.Time       `bson:"updated_at"`
}

// EnsureIndexes expires sessions idle for longer than idleTTL.
func (r *SessionRepository) EnsureIndexes(ctx context.Context, idleTTL time.Duration) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "updated_at", Value: 1}},
		Options: options.Index().SetName("session_idle_ttl").SetExpireAfterSeconds(int32(idleTTL.Seconds())),
	})
	if err != nil {
		return fmt.Errorf("sessions index: %w", err)
	}
	return nil
}

func (r *SessionRepository) Get(ctx context.Context, sid string) (*domain.Session, error) {
	var doc mongoSession
	if err := r.coll.FindOne(ctx, bson.M{"_id": sid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("find session: %w", err)
	}
	return &domain.Session{
		ID:            doc.ID,
		AccessToken:   doc.AccessToken,
		User:          doc.User,
		CartID:        doc.CartID,
		Authenticated: doc.Authenticated,
		Locale:        doc.Locale,
		UpdatedAt:     doc.UpdatedAt,
	}, nil
}

func (r *SessionRepository) SetToken(ctx context.Context, sid, token string) error {
	return r.set(ctx, sid, slotToken, token)
}

func (r *SessionRepository) SetUser(ctx context.Context, sid string, user *domain.Profile) error {
	if user == nil {
		return r.unset(ctx, sid, slotUser)
	}
	return r.set(ctx, sid, slotUser, user)
}

func (r *SessionRepository) SetAuthenticated(ctx context.Context, sid string, authenticated bool) error {
	return r.set(ctx, sid, slotAuthenticated, authenticated)
}

func (r *SessionRepository) SetCartID(ctx context.Context, sid, cartID string) error {
	return r.set(ctx, sid, slotCartID, cartID)
}

func (r *SessionRepository) SetLocale(ctx context.Context, sid, locale string) error {
	return r.set(ctx, sid, slotLocale, locale)
}

func (r *SessionRepository) ClearCredentials(ctx context.Context, sid string) error {
	return r.unset(ctx, sid, slotToken, slotUser)
}

func (r *SessionRepository) ClearCartID(ctx context.Context, sid string) error {
	return r.unset(ctx, sid, slotCartID)
}

// Clear removes the whole session document.
func (r *SessionRepository) Clear(ctx context.Context, sid string) error {
	if _, err := r.coll.DeleteOne(ctx, bson.M{"_id": sid}); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

func (r *SessionRepository) set(ctx context.Context, sid, slot string, value any) error {
	update := bson.M{"$set": bson.M{slot: value, "updated_at": r.now().UTC()}}
	if _, err := r.coll.UpdateOne(ctx, bson.M{"_id": sid}, update, options.Update().SetUpsert(true)); err != nil {
		return fmt.Errorf("set session %s: %w", slot, err)
	}
	return nil
}

func (r *SessionRepository) unset(ctx context.Context, sid string, slots ...string) error {
	fields := bson.M{}
	for _, s := range slots {
		fields[s] = ""
	}
	update := bson.M{
		"$unset": fields,
		"$set":   bson.M{"updated_at": r.now().UTC()},
	}
	if _, err := r.coll.UpdateOne(ctx, bson.M{"_id": sid}, update); err != nil {
		return fmt.Errorf("unset session slots: %w", err)
	}
	return nil
}
