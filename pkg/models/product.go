package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Gender string

const (
	GenderMen    Gender = "Men"
	GenderWomen  Gender = "Women"
	GenderUnisex Gender = "Unisex"
)

func (g Gender) Valid() bool {
	switch g {
	case GenderMen, GenderWomen, GenderUnisex:
		return true
	}
	return false
}

type ProductColor struct {
	Name  string `bson:"name" json:"name"`
	Hex   string `bson:"hex" json:"hex"`
	Image string `bson:"image,omitempty" json:"image,omitempty"`
}

type ProductSize struct {
	Name    string `bson:"name" json:"name"`
	InStock bool   `bson:"inStock" json:"inStock"`
}

type Review struct {
	User      string    `bson:"user" json:"user"`
	Rating    int       `bson:"rating" json:"rating"`
	Text      string    `bson:"text" json:"text"`
	Images    []string  `bson:"images,omitempty" json:"images,omitempty"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

type Product struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name           string             `bson:"name" json:"name"`
	Slug           string             `bson:"slug" json:"slug"`
	Price          float64            `bson:"price" json:"price"`
	CompareAtPrice float64            `bson:"compareAtPrice,omitempty" json:"compareAtPrice,omitempty"`
	Description    string             `bson:"description" json:"description"`
	Details        []string           `bson:"details,omitempty" json:"details,omitempty"`
	Category       string             `bson:"category" json:"category"`
	Subcategory    string             `bson:"subcategory,omitempty" json:"subcategory,omitempty"`
	Gender         Gender             `bson:"gender,omitempty" json:"gender,omitempty"`
	Colors         []ProductColor     `bson:"colors" json:"colors"`
	Sizes          []ProductSize      `bson:"sizes" json:"sizes"`
	Images         []string           `bson:"images" json:"images"`
	Thumbnail      string             `bson:"thumbnail" json:"thumbnail"`
	InStock        bool               `bson:"inStock" json:"inStock"`
	Quantity       int                `bson:"quantity" json:"quantity"`
	Tags           []string           `bson:"tags,omitempty" json:"tags,omitempty"`
	Featured       bool               `bson:"featured" json:"featured"`
	NewArrival     bool               `bson:"newArrival" json:"newArrival"`
	BestSeller     bool               `bson:"bestSeller" json:"bestSeller"`
	Reviews        []Review           `bson:"reviews,omitempty" json:"reviews,omitempty"`
	AverageRating  float64            `bson:"averageRating" json:"averageRating"`
	ReviewCount    int                `bson:"reviewCount" json:"reviewCount"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
}
