package models

import "time"

// PaymentMethodConfig is the shop-side configuration for one payment method,
// e.g. the GCash account details and QR code customers pay against.
type PaymentMethodConfig struct {
	ID          string    `bson:"_id" json:"methodId"` // "gcash" | "pay_on_shop"
	Name        string    `bson:"name" json:"name"`
	IsActive    bool      `bson:"isActive" json:"isActive"`
	GCashNumber string    `bson:"gcashNumber,omitempty" json:"gcashNumber,omitempty"`
	GCashName   string    `bson:"gcashName,omitempty" json:"gcashName,omitempty"`
	GCashQRURL  string    `bson:"gcashQrUrl,omitempty" json:"gcashQrUrl,omitempty"`
	UpdatedAt   time.Time `bson:"updatedAt" json:"updatedAt"`
}

// CollectionPaymentMethods is the MongoDB collection name for payment
// method configuration.
const CollectionPaymentMethods = "payment_methods"
