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

type CategoryRepository struct {
	collection *mongo.Collection
}

func NewCategoryRepository(db *mongo.Database) *CategoryRepository {
	return &CategoryRepository{collection: db.Collection(categoriesCollection)}
}

func (r *CategoryRepository) List(ctx context.Context) ([]models.Category, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var categories []models.Category
	if err := cursor.All(ctx, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *CategoryRepository) GetByIDOrSlug(ctx context.Context, idOrSlug string) (*models.Category, error) {
	filter := bson.M{"slug": idOrSlug}
	if id, err := primitive.ObjectIDFromHex(idOrSlug); err == nil {
		filter = bson.M{"_id": id}
	}

	var category models.Category
	err := r.collection.FindOne(ctx, filter).Decode(&category)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, errs.E(errs.KindNotFound, "category %s not found", idOrSlug)
	}
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *CategoryRepository) Create(ctx context.Context, category *models.Category) error {
	now := time.Now().UTC()
	category.ID = primitive.NewObjectID()
	category.CreatedAt = now
	category.UpdatedAt = now

	_, err := r.collection.InsertOne(ctx, category)
	if mongo.IsDuplicateKeyError(err) {
		return errs.Wrap(errs.KindConflict, err, "category %q already exists", category.Name)
	}
	return err
}

// UpsertBySlug inserts a category if absent. Used by the seeder; existing
// categories are left untouched.
func (r *CategoryRepository) UpsertBySlug(ctx context.Context, category *models.Category) error {
	now := time.Now().UTC()
	update := bson.M{
		"$setOnInsert": bson.M{
			"name":        category.Name,
			"description": category.Description,
			"image":       category.Image,
			"createdAt":   now,
			"updatedAt":   now,
		},
	}
	_, err := r.collection.UpdateOne(ctx, bson.M{"slug": category.Slug}, update, options.Update().SetUpsert(true))
	return err
}
