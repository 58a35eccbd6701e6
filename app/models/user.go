package models

import "time"

// Roles recognized by the authorization middleware.
const (
	RoleAdmin    = "admin"
	RoleCustomer = "customer"
	RoleGuest    = "guest"
)

// GuestUserID marks orders placed without an account.
const GuestUserID = "guest"

// User is an account profile. Profiles are created lazily on first login if
// the auth record exists but no profile document does, defaulting to the
// customer role.
type User struct {
	ID           string    `bson:"_id" json:"id"`
	Email        string    `bson:"email" json:"email"`
	Name         string    `bson:"name" json:"name"`
	Role         string    `bson:"role" json:"role"` // admin | customer | guest
	PasswordHash string    `bson:"passwordHash" json:"-"`
	Phone        string    `bson:"phone,omitempty" json:"phone,omitempty"`
	Address      string    `bson:"address,omitempty" json:"address,omitempty"`
	PhotoURL     string    `bson:"photoUrl,omitempty" json:"photoUrl,omitempty"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time `bson:"updatedAt" json:"updatedAt"`
}

// CollectionUsers is the MongoDB collection name for user profiles.
const CollectionUsers = "users"
