package models

import "time"

// Service is one offering in the print shop catalog (e.g. "Document
// Printing", "Photo Printing"). Read-mostly; served from the Redis cache.
type Service struct {
	ID           string    `bson:"_id" json:"serviceId"`
	Name         string    `bson:"name" json:"name"`
	Description  string    `bson:"description" json:"description"`
	BasePrice    float64   `bson:"basePrice" json:"basePrice"`
	PricePerPage float64   `bson:"pricePerPage" json:"pricePerPage"`
	IsActive     bool      `bson:"isActive" json:"isActive"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time `bson:"updatedAt" json:"updatedAt"`
}

// CollectionServices is the MongoDB collection name for the service catalog.
const CollectionServices = "services"
