package seeders

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/printipid/printipid/app/models"
	"github.com/printipid/printipid/config"
	"github.com/printipid/printipid/pkg/auth"
)

func init() {
	Register("payment_methods", SeedPaymentMethods)
	Register("services", SeedServices)
	Register("admin_user", SeedAdminUser)
}

// SeedPaymentMethods upserts the two supported payment methods. GCash
// details come from config so real account numbers stay out of the repo.
func SeedPaymentMethods(ctx context.Context, db *mongo.Database) error {
	coll := db.Collection(models.CollectionPaymentMethods)
	upsert := options.Update().SetUpsert(true)
	now := time.Now()

	_, err := coll.UpdateOne(ctx,
		bson.M{"_id": string(models.MethodGCash)},
		bson.M{"$set": bson.M{
			"name":        "GCash",
			"isActive":    true,
			"gcashNumber": config.Get("GCASH_NUMBER", "09XX XXX XXXX"),
			"gcashName":   config.Get("GCASH_NAME", "PrintiPid"),
			"updatedAt":   now,
		}},
		upsert,
	)
	if err != nil {
		return err
	}

	_, err = coll.UpdateOne(ctx,
		bson.M{"_id": string(models.MethodPayOnShop)},
		bson.M{"$set": bson.M{
			"name":      "Pay on Shop",
			"isActive":  true,
			"updatedAt": now,
		}},
		upsert,
	)
	return err
}

// SeedServices inserts the starting catalog. Existing entries (matched by
// name) are left untouched so admin edits survive re-seeding.
func SeedServices(ctx context.Context, db *mongo.Database) error {
	coll := db.Collection(models.CollectionServices)
	now := time.Now()

	catalog := []models.Service{
		{Name: "Document Printing", Description: "Black and white or colored prints on bond paper", PricePerPage: 1, IsActive: true},
		{Name: "Photo Printing", Description: "High quality photo prints on glossy paper", BasePrice: 15, PricePerPage: 10, IsActive: true},
		{Name: "Lamination", Description: "Protective lamination for IDs and documents", BasePrice: 20, IsActive: true},
		{Name: "Binding", Description: "Ring or comb binding for reports and theses", BasePrice: 50, IsActive: true},
	}

	for _, svc := range catalog {
		n, err := coll.CountDocuments(ctx, bson.M{"name": svc.Name})
		if err != nil {
			return err
		}
		if n > 0 {
			continue
		}
		svc.ID = primitive.NewObjectID().Hex()
		svc.CreatedAt = now
		svc.UpdatedAt = now
		if _, err := coll.InsertOne(ctx, svc); err != nil {
			return err
		}
	}
	return nil
}

// SeedAdminUser creates the shop admin account if it does not exist.
// Credentials come from ADMIN_EMAIL / ADMIN_PASSWORD.
func SeedAdminUser(ctx context.Context, db *mongo.Database) error {
	coll := db.Collection(models.CollectionUsers)
	email := config.Get("ADMIN_EMAIL", "admin@printipid.app")

	n, err := coll.CountDocuments(ctx, bson.M{"email": email})
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	hash, err := auth.HashPassword(config.Get("ADMIN_PASSWORD", "change-me-now"))
	if err != nil {
		return err
	}

	now := time.Now()
	_, err = coll.InsertOne(ctx, models.User{
		ID:           primitive.NewObjectID().Hex(),
		Email:        email,
		Name:         "Shop Admin",
		Role:         models.RoleAdmin,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	return err
}
