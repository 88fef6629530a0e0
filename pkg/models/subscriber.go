package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Provider string

const (
	ProviderEmail  Provider = "email"
	ProviderGoogle Provider = "google"
)

type Preferences struct {
	NewArrivals bool `bson:"newArrivals" json:"newArrivals"`
	Promotions  bool `bson:"promotions" json:"promotions"`
	Newsletter  bool `bson:"newsletter" json:"newsletter"`
}

type Subscriber struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email        string             `bson:"email" json:"email"`
	Name         string             `bson:"name,omitempty" json:"name,omitempty"`
	GoogleID     string             `bson:"googleId,omitempty" json:"googleId,omitempty"`
	Provider     Provider           `bson:"provider" json:"provider"`
	Active       bool               `bson:"active" json:"active"`
	SubscribedAt time.Time          `bson:"subscribedAt" json:"subscribedAt"`
	Preferences  Preferences        `bson:"preferences" json:"preferences"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}
