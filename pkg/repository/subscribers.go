package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/example/evoshop/pkg/errs"
	"github.com/example/evoshop/pkg/models"
)

type SubscriberRepository struct {
	collection *mongo.Collection
}

func NewSubscriberRepository(db *mongo.Database) *SubscriberRepository {
	return &SubscriberRepository{collection: db.Collection(subscribersCollection)}
}

func (r *SubscriberRepository) GetByEmail(ctx context.Context, email string) (*models.Subscriber, error) {
	var subscriber models.Subscriber
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&subscriber)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, errs.E(errs.KindNotFound, "subscriber %s not found", email)
	}
	if err != nil {
		return nil, err
	}
	return &subscriber, nil
}

func (r *SubscriberRepository) Insert(ctx context.Context, subscriber *models.Subscriber) error {
	now := time.Now().UTC()
	subscriber.ID = primitive.NewObjectID()
	subscriber.CreatedAt = now
	subscriber.UpdatedAt = now

	_, err := r.collection.InsertOne(ctx, subscriber)
	if mongo.IsDuplicateKeyError(err) {
		return errs.Wrap(errs.KindConflict, err, "email already subscribed")
	}
	return err
}

// SetActive flips the subscription flag; reactivation refreshes the
// subscription timestamp.
func (r *SubscriberRepository) SetActive(ctx context.Context, email string, active bool) (*models.Subscriber, error) {
	set := bson.M{"active": active, "updatedAt": time.Now().UTC()}
	if active {
		set["subscribedAt"] = time.Now().UTC()
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var subscriber models.Subscriber
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"email": email}, bson.M{"$set": set}, opts).Decode(&subscriber)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, errs.E(errs.KindNotFound, "subscriber %s not found", email)
	}
	if err != nil {
		return nil, err
	}
	return &subscriber, nil
}

// List returns subscribers, optionally filtered by active state, newest
// subscriptions first.
func (r *SubscriberRepository) List(ctx context.Context, active *bool) ([]models.Subscriber, error) {
	filter := bson.M{}
	if active != nil {
		filter["active"] = *active
	}

	opts := options.Find().SetSort(bson.D{{Key: "subscribedAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var subscribers []models.Subscriber
	if err := cursor.All(ctx, &subscribers); err != nil {
		return nil, err
	}
	return subscribers, nil
}
