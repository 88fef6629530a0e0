package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/example/evoshop/pkg/catalog"
)

func TestBuildFilterEmpty(t *testing.T) {
	assert.Equal(t, bson.M{}, buildFilter(catalog.Query{}))
	assert.Equal(t, bson.M{}, buildFilter(catalog.Query{Category: "All", Gender: "All"}))
}

func TestBuildFilterCategory(t *testing.T) {
	filter := buildFilter(catalog.Query{Category: "Dresses"})

	or, ok := filter["$or"].(bson.A)
	require.True(t, ok)
	require.Len(t, or, 2)

	category := or[0].(bson.M)["category"].(primitive.Regex)
	assert.Equal(t, "Dresses", category.Pattern)
	assert.Equal(t, "i", category.Options)

	subcategory := or[1].(bson.M)["subcategory"].(primitive.Regex)
	assert.Equal(t, "Dresses", subcategory.Pattern)
}

func TestBuildFilterEscapesRegex(t *testing.T) {
	filter := buildFilter(catalog.Query{Category: "Bags (Leather)"})

	or := filter["$or"].(bson.A)
	category := or[0].(bson.M)["category"].(primitive.Regex)
	assert.Equal(t, `Bags \(Leather\)`, category.Pattern)
}

func TestBuildFilterFlagsAndSearch(t *testing.T) {
	filter := buildFilter(catalog.Query{
		Gender:      "Women",
		Featured:    true,
		NewArrivals: true,
		BestSellers: true,
		InStock:     true,
		Search:      "silk dress",
	})

	assert.Equal(t, "Women", filter["gender"])
	assert.Equal(t, true, filter["featured"])
	assert.Equal(t, true, filter["newArrival"])
	assert.Equal(t, true, filter["bestSeller"])
	assert.Equal(t, true, filter["inStock"])
	assert.Equal(t, bson.M{"$search": "silk dress"}, filter["$text"])
}

func TestBuildSort(t *testing.T) {
	tests := []struct {
		sort catalog.Sort
		want bson.D
	}{
		{catalog.SortPriceLow, bson.D{{Key: "price", Value: 1}}},
		{catalog.SortPriceHigh, bson.D{{Key: "price", Value: -1}}},
		{catalog.SortName, bson.D{{Key: "name", Value: 1}}},
		{catalog.SortNewest, bson.D{{Key: "createdAt", Value: -1}}},
		{catalog.SortFeatured, bson.D{{Key: "featured", Value: -1}, {Key: "createdAt", Value: -1}}},
		{catalog.Sort(""), bson.D{{Key: "featured", Value: -1}, {Key: "createdAt", Value: -1}}},
	}

	for _, tt := range tests {
		t.Run(string(tt.sort), func(t *testing.T) {
			assert.Equal(t, tt.want, buildSort(tt.sort))
		})
	}
}

func TestTakeStockFilter(t *testing.T) {
	id := primitive.NewObjectID()

	assert.Equal(t, bson.M{
		"_id":      id,
		"inStock":  true,
		"quantity": bson.M{"$gte": 2},
	}, takeStockFilter(id, 2))
}

func TestTakeStockUpdateSingleWrite(t *testing.T) {
	update := takeStockUpdate(3)

	// One pipeline stage: the decrement and the inStock recomputation must
	// land together, never as a follow-up write.
	require.Len(t, update, 1)
	set, ok := update[0].(bson.M)["$set"].(bson.M)
	require.True(t, ok)

	remaining := bson.M{"$subtract": bson.A{"$quantity", 3}}
	assert.Equal(t, remaining, set["quantity"])
	assert.Equal(t, bson.M{"$gt": bson.A{remaining, 0}}, set["inStock"])
	assert.Equal(t, "$$NOW", set["updatedAt"])
}

func TestBuildSortPriceSymmetry(t *testing.T) {
	low := buildSort(catalog.SortPriceLow)
	high := buildSort(catalog.SortPriceHigh)

	require.Len(t, low, 1)
	require.Len(t, high, 1)
	assert.Equal(t, low[0].Key, high[0].Key)
	assert.Equal(t, low[0].Value.(int), -high[0].Value.(int))
}
