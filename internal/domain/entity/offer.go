package entity

import (
	"time"
)

const (
	OfferStatusPending             = "pending"
	OfferStatusPendingConfirmation = "pending_confirmation"
	OfferStatusAccepted            = "accepted"
	OfferStatusRejected            = "rejected"
)

const (
	SellerDecisionAccept  = "accept"
	SellerDecisionCounter = "counter"
	SellerDecisionReject  = "reject"
)

// Offer is one party's proposed price at a point in a negotiation
// thread. InReplyToID links it to the offer it supersedes; each new
// offer is strictly newer, so the chain is acyclic by construction.
type Offer struct {
	ID             string    `json:"id" firestore:"id"`
	ProductID      string    `json:"product_id" firestore:"productId"`
	BuyerID        string    `json:"buyer_id" firestore:"buyerId"`
	Price          float64   `json:"price" firestore:"price"`
	Message        string    `json:"message,omitempty" firestore:"message"`
	Status         string    `json:"status" firestore:"status"`
	SellerDecision string    `json:"seller_decision,omitempty" firestore:"sellerDecision"`
	CounterPrice   *float64  `json:"counter_price,omitempty" firestore:"counterPrice"`
	InReplyToID    string    `json:"in_reply_to_id,omitempty" firestore:"inReplyToId"`
	CreatedAt      time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt      time.Time `json:"updated_at" firestore:"updatedAt"`
}

// offerTransitions is the forward-only status graph. A run either moves
// an offer pending -> pending_confirmation/rejected, and a human later
// moves pending_confirmation -> accepted/rejected. Terminal statuses
// never change.
var offerTransitions = map[string][]string{
	OfferStatusPending:             {OfferStatusPendingConfirmation, OfferStatusRejected},
	OfferStatusPendingConfirmation: {OfferStatusAccepted, OfferStatusRejected},
}

func CanTransitionOffer(from, to string) bool {
	for _, allowed := range offerTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}
