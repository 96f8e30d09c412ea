package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role values carried on user documents. Only stored and echoed back; this
// service does not enforce authorization.
const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// User is a user document in the users collection. Password holds the bcrypt
// hash and is never serialized.
type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name"          json:"name"`
	Email     string             `bson:"email"         json:"email"`
	Password  string             `bson:"password"      json:"-"`
	Role      string             `bson:"role"          json:"role"`
	CreatedAt time.Time          `bson:"created_at"    json:"created"`
	UpdatedAt time.Time          `bson:"updated_at"    json:"modified"`
}

// PublicUser is the sanitized projection returned by auth endpoints.
type PublicUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Public returns the sanitized projection of the user.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:    u.ID.Hex(),
		Name:  u.Name,
		Email: u.Email,
		Role:  u.Role,
	}
}
