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

type OrderRepository struct {
	collection *mongo.Collection
}

func NewOrderRepository(db *mongo.Database) *OrderRepository {
	return &OrderRepository{collection: db.Collection(ordersCollection)}
}

func (r *OrderRepository) Insert(ctx context.Context, order *models.Order) error {
	now := time.Now().UTC()
	order.ID = primitive.NewObjectID()
	order.CreatedAt = now
	order.UpdatedAt = now

	_, err := r.collection.InsertOne(ctx, order)
	if mongo.IsDuplicateKeyError(err) {
		return errs.Wrap(errs.KindConflict, err, "order number %s already exists", order.OrderNumber)
	}
	return err
}

func (r *OrderRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	var order models.Order
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, errs.E(errs.KindNotFound, "order %s not found", id.Hex())
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// Find looks up orders by customer email and/or order number, newest first.
// Both filters empty returns every order (admin listing).
func (r *OrderRepository) Find(ctx context.Context, email, orderNumber string) ([]models.Order, error) {
	filter := bson.M{}
	if email != "" {
		filter["customer.email"] = email
	}
	if orderNumber != "" {
		filter["orderNumber"] = orderNumber
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var orders []models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// OrderUpdate is the only mutation allowed on a persisted order; item
// snapshots and totals are immutable.
type OrderUpdate struct {
	Status        *models.OrderStatus   `json:"status"`
	PaymentStatus *models.PaymentStatus `json:"paymentStatus"`
	Notes         *string               `json:"notes"`
}

func (r *OrderRepository) Update(ctx context.Context, id primitive.ObjectID, update *OrderUpdate) (*models.Order, error) {
	set := bson.M{"updatedAt": time.Now().UTC()}
	if update.Status != nil {
		set["status"] = *update.Status
	}
	if update.PaymentStatus != nil {
		set["paymentStatus"] = *update.PaymentStatus
	}
	if update.Notes != nil {
		set["notes"] = *update.Notes
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var order models.Order
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, errs.E(errs.KindNotFound, "order %s not found", id.Hex())
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}
