package entity

import (
	"time"
)

const (
	ProductStatusActive = "active"
	ProductStatusSold   = "sold"
)

type Product struct {
	ID          string   `json:"id" firestore:"id"`
	SellerID    string   `json:"seller_id" firestore:"sellerId"`
	Title       string   `json:"title" firestore:"title"`
	Description string   `json:"description" firestore:"description"`
	Price       float64  `json:"price" firestore:"price"`
	Category    string   `json:"category" firestore:"category"`
	Condition   string   `json:"condition" firestore:"condition"`
	Images      []string `json:"images" firestore:"images"`
	Status      string   `json:"status" firestore:"status"`

	// MinPrice is the seller's undisclosed floor. It is shared with the
	// seller's own agent during negotiation but never serialized to
	// buyers or included in buyer prompts.
	MinPrice *float64 `json:"-" firestore:"minPrice"`

	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}
