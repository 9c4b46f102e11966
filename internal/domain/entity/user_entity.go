package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Address is the optional shipping address sub-document on a User.
type Address struct {
	Street  string `bson:"street" json:"street"`
	City    string `bson:"city" json:"city"`
	State   string `bson:"state" json:"state"`
	ZipCode string `bson:"zipCode" json:"zipCode"`
}

// User is the sole aggregate of the account domain.
// Password holds a bcrypt hash; AccessToken holds the currently issued
// token and exists only between login and logout. Neither field ever
// serializes to JSON.
type User struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Fullname        string             `bson:"fullname" json:"fullname"`
	Email           string             `bson:"email" json:"email"`
	Password        string             `bson:"password" json:"-"`
	PhoneNumber     string             `bson:"phoneNumber" json:"phoneNumber"`
	DOB             string             `bson:"dob" json:"dob"`
	Gender          string             `bson:"gender" json:"gender"`
	Avatar          string             `bson:"avatar" json:"avatar"`
	AccessToken     string             `bson:"accessToken,omitempty" json:"-"`
	ShippingAddress *Address           `bson:"shippingAddress,omitempty" json:"shippingAddress,omitempty"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Sanitized returns a copy with the secret fields cleared. Applied at every
// read boundary so password and token never leave the system, regardless of
// how the record is later encoded.
func (u User) Sanitized() User {
	u.Password = ""
	u.AccessToken = ""
	return u
}
