package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/example/evoshop/pkg/catalog"
	"github.com/example/evoshop/pkg/errs"
	"github.com/example/evoshop/pkg/models"
)

type ProductRepository struct {
	collection *mongo.Collection
}

func NewProductRepository(db *mongo.Database) *ProductRepository {
	return &ProductRepository{collection: db.Collection(productsCollection)}
}

// buildFilter translates a catalog query into a mongo filter document.
func buildFilter(q catalog.Query) bson.M {
	filter := bson.M{}

	if q.Category != "" && q.Category != "All" {
		pattern := primitive.Regex{Pattern: regexQuoteMeta(q.Category), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"category": pattern},
			bson.M{"subcategory": pattern},
		}
	}
	if q.Gender != "" && q.Gender != "All" {
		filter["gender"] = q.Gender
	}
	if q.Featured {
		filter["featured"] = true
	}
	if q.NewArrivals {
		filter["newArrival"] = true
	}
	if q.BestSellers {
		filter["bestSeller"] = true
	}
	if q.InStock {
		filter["inStock"] = true
	}
	if q.Search != "" {
		filter["$text"] = bson.M{"$search": q.Search}
	}

	return filter
}

func buildSort(sort catalog.Sort) bson.D {
	switch sort {
	case catalog.SortPriceLow:
		return bson.D{{Key: "price", Value: 1}}
	case catalog.SortPriceHigh:
		return bson.D{{Key: "price", Value: -1}}
	case catalog.SortName:
		return bson.D{{Key: "name", Value: 1}}
	case catalog.SortNewest:
		return bson.D{{Key: "createdAt", Value: -1}}
	default:
		// Featured first, then newest.
		return bson.D{{Key: "featured", Value: -1}, {Key: "createdAt", Value: -1}}
	}
}

// regexQuoteMeta escapes regex metacharacters so category input is matched
// literally.
func regexQuoteMeta(s string) string {
	const special = `\.+*?()|[]{}^$`
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		for j := 0; j < len(special); j++ {
			if s[i] == special[j] {
				out = append(out, '\\')
				break
			}
		}
		out = append(out, s[i])
	}
	return string(out)
}

func (r *ProductRepository) List(ctx context.Context, q catalog.Query) ([]models.Product, int64, error) {
	filter := buildFilter(q)

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	skip := int64(q.Page-1) * int64(q.Limit)
	opts := options.Find().
		SetSort(buildSort(q.Sort)).
		SetSkip(skip).
		SetLimit(int64(q.Limit))

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, 0, err
	}

	return products, total, nil
}

func (r *ProductRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	var product models.Product
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, errs.E(errs.KindNotFound, "product %s not found", id.Hex())
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *ProductRepository) GetBySlug(ctx context.Context, slug string) (*models.Product, error) {
	var product models.Product
	err := r.collection.FindOne(ctx, bson.M{"slug": slug}).Decode(&product)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, errs.E(errs.KindNotFound, "product %s not found", slug)
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// GetByIDOrSlug accepts either a hex object id or a slug.
func (r *ProductRepository) GetByIDOrSlug(ctx context.Context, idOrSlug string) (*models.Product, error) {
	if id, err := primitive.ObjectIDFromHex(idOrSlug); err == nil {
		return r.GetByID(ctx, id)
	}
	return r.GetBySlug(ctx, idOrSlug)
}

func (r *ProductRepository) Create(ctx context.Context, product *models.Product) error {
	now := time.Now().UTC()
	product.ID = primitive.NewObjectID()
	product.CreatedAt = now
	product.UpdatedAt = now
	product.InStock = product.Quantity > 0

	_, err := r.collection.InsertOne(ctx, product)
	if mongo.IsDuplicateKeyError(err) {
		return errs.Wrap(errs.KindConflict, err, "product with slug %q already exists", product.Slug)
	}
	return err
}

// ProductUpdate carries the admin-updatable fields; nil pointers are left
// untouched.
type ProductUpdate struct {
	Name           *string               `json:"name"`
	Slug           *string               `json:"slug"`
	Price          *float64              `json:"price"`
	CompareAtPrice *float64              `json:"compareAtPrice"`
	Description    *string               `json:"description"`
	Details        []string              `json:"details"`
	Category       *string               `json:"category"`
	Subcategory    *string               `json:"subcategory"`
	Gender         *models.Gender        `json:"gender"`
	Colors         []models.ProductColor `json:"colors"`
	Sizes          []models.ProductSize  `json:"sizes"`
	Images         []string              `json:"images"`
	Thumbnail      *string               `json:"thumbnail"`
	Quantity       *int                  `json:"quantity"`
	Tags           []string              `json:"tags"`
	Featured       *bool                 `json:"featured"`
	NewArrival     *bool                 `json:"newArrival"`
	BestSeller     *bool                 `json:"bestSeller"`
}

func (u *ProductUpdate) setDoc() bson.M {
	set := bson.M{"updatedAt": time.Now().UTC()}
	if u.Name != nil {
		set["name"] = *u.Name
	}
	if u.Slug != nil {
		set["slug"] = *u.Slug
	}
	if u.Price != nil {
		set["price"] = *u.Price
	}
	if u.CompareAtPrice != nil {
		set["compareAtPrice"] = *u.CompareAtPrice
	}
	if u.Description != nil {
		set["description"] = *u.Description
	}
	if u.Details != nil {
		set["details"] = u.Details
	}
	if u.Category != nil {
		set["category"] = *u.Category
	}
	if u.Subcategory != nil {
		set["subcategory"] = *u.Subcategory
	}
	if u.Gender != nil {
		set["gender"] = *u.Gender
	}
	if u.Colors != nil {
		set["colors"] = u.Colors
	}
	if u.Sizes != nil {
		set["sizes"] = u.Sizes
	}
	if u.Images != nil {
		set["images"] = u.Images
	}
	if u.Thumbnail != nil {
		set["thumbnail"] = *u.Thumbnail
	}
	if u.Quantity != nil {
		set["quantity"] = *u.Quantity
		// Keep the derived flag consistent with the new quantity.
		set["inStock"] = *u.Quantity > 0
	}
	if u.Tags != nil {
		set["tags"] = u.Tags
	}
	if u.Featured != nil {
		set["featured"] = *u.Featured
	}
	if u.NewArrival != nil {
		set["newArrival"] = *u.NewArrival
	}
	if u.BestSeller != nil {
		set["bestSeller"] = *u.BestSeller
	}
	return set
}

func (r *ProductRepository) Update(ctx context.Context, id primitive.ObjectID, update *ProductUpdate) (*models.Product, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var product models.Product
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": update.setDoc()}, opts).Decode(&product)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, errs.E(errs.KindNotFound, "product %s not found", id.Hex())
	}
	if mongo.IsDuplicateKeyError(err) {
		return nil, errs.Wrap(errs.KindConflict, err, "product with this slug already exists")
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *ProductRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return errs.E(errs.KindNotFound, "product %s not found", id.Hex())
	}
	return nil
}

// TakeStock atomically decrements quantity by qty only if at least qty is
// available, recomputing the inStock flag in the same write. It reports
// false when the product is missing, out of stock or holds fewer than qty
// units. On error no decrement has been applied; stock is never driven
// negative even under concurrent orders.
func (r *ProductRepository) TakeStock(ctx context.Context, id primitive.ObjectID, qty int) (bool, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.Product
	err := r.collection.FindOneAndUpdate(ctx, takeStockFilter(id, qty), takeStockUpdate(qty), opts).Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func takeStockFilter(id primitive.ObjectID, qty int) bson.M {
	return bson.M{
		"_id":      id,
		"inStock":  true,
		"quantity": bson.M{"$gte": qty},
	}
}

// takeStockUpdate is a pipeline update so the decrement and the flag change
// land in one write; a separate flag update could interleave with a
// concurrent restore and leave inStock=false with quantity>0.
func takeStockUpdate(qty int) bson.A {
	remaining := bson.M{"$subtract": bson.A{"$quantity", qty}}
	return bson.A{bson.M{"$set": bson.M{
		"quantity":  remaining,
		"inStock":   bson.M{"$gt": bson.A{remaining, 0}},
		"updatedAt": "$$NOW",
	}}}
}

// RestoreStock compensates a previously taken decrement.
func (r *ProductRepository) RestoreStock(ctx context.Context, id primitive.ObjectID, qty int) error {
	update := bson.M{
		"$inc": bson.M{"quantity": qty},
		"$set": bson.M{"inStock": true, "updatedAt": time.Now().UTC()},
	}
	_, err := r.collection.UpdateByID(ctx, id, update)
	return err
}

// AppendReview pushes a review and stores the recomputed aggregates in the
// same update.
func (r *ProductRepository) AppendReview(ctx context.Context, id primitive.ObjectID, review models.Review, averageRating float64, reviewCount int) error {
	update := bson.M{
		"$push": bson.M{"reviews": review},
		"$set": bson.M{
			"averageRating": averageRating,
			"reviewCount":   reviewCount,
			"updatedAt":     time.Now().UTC(),
		},
	}
	res, err := r.collection.UpdateByID(ctx, id, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return errs.E(errs.KindNotFound, "product %s not found", id.Hex())
	}
	return nil
}

// UpsertBySlug inserts or replaces a product keyed by slug. Used by the feed
// seeder.
func (r *ProductRepository) UpsertBySlug(ctx context.Context, product *models.Product) error {
	now := time.Now().UTC()
	product.UpdatedAt = now
	if product.CreatedAt.IsZero() {
		product.CreatedAt = now
	}
	product.InStock = product.Quantity > 0

	doc := bson.M{
		"name":           product.Name,
		"slug":           product.Slug,
		"price":          product.Price,
		"compareAtPrice": product.CompareAtPrice,
		"description":    product.Description,
		"category":       product.Category,
		"subcategory":    product.Subcategory,
		"gender":         product.Gender,
		"colors":         product.Colors,
		"sizes":          product.Sizes,
		"images":         product.Images,
		"thumbnail":      product.Thumbnail,
		"inStock":        product.InStock,
		"quantity":       product.Quantity,
		"tags":           product.Tags,
		"featured":       product.Featured,
		"newArrival":     product.NewArrival,
		"bestSeller":     product.BestSeller,
		"updatedAt":      product.UpdatedAt,
	}
	update := bson.M{
		"$set":         doc,
		"$setOnInsert": bson.M{"createdAt": product.CreatedAt, "averageRating": 0.0, "reviewCount": 0},
	}
	_, err := r.collection.UpdateOne(ctx, bson.M{"slug": product.Slug}, update, options.Update().SetUpsert(true))
	return err
}
