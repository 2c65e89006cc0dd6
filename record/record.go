// Package record defines the three record kinds the store persists, and the
// validation that turns an untyped field mapping from the request boundary
// into a typed row.
package record

import (
	"time"
)

type Kind string

const (
	KindUser  Kind = "user"
	KindDrink Kind = "drink"
	KindPrice Kind = "price"
)

// Table is the storage table name backing the kind.
func (k Kind) Table() string {
	switch k {
	case KindUser:
		return "users"
	case KindDrink:
		return "drinks"
	case KindPrice:
		return "prices"
	}
	return string(k)
}

// Fields is a raw string-keyed mapping as received from the boundary,
// before any validation.
type Fields map[string]any

// FieldError is one field-level validation failure. Validators collect all
// of them instead of stopping at the first.
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func (e FieldError) Error() string {
	return e.Field + ": " + e.Reason
}

type User struct {
	ID    int64  `bson:"id" json:"id"`
	Name  string `bson:"name" json:"name"`
	Email string `bson:"email" json:"email"`
}

type Drink struct {
	ID          int64  `bson:"id" json:"id"`
	Name        string `bson:"name" json:"name"`
	Description string `bson:"description,omitempty" json:"description"`
}

type Price struct {
	PriceID       int64     `bson:"price_id" json:"price_id"`
	DrinkID       int64     `bson:"drink_id" json:"drink_id"`
	Amount        Amount    `bson:"price_amount" json:"price_amount"`
	EffectiveDate Date      `bson:"effective_date" json:"effective_date"`
	EndDate       *Date     `bson:"end_date,omitempty" json:"end_date"`
	CreatedAt     time.Time `bson:"created_at" json:"created_at"`
}
