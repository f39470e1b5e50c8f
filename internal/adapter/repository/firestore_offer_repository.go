package repository

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"pasarloak/internal/domain/entity"
	"pasarloak/internal/domain/repository"
	"pasarloak/pkg/errors"
)

type firestoreOfferRepository struct {
	client *firestore.Client
}

func NewFirestoreOfferRepository(client *firestore.Client) repository.OfferRepository {
	return &firestoreOfferRepository{
		client: client,
	}
}

func (r *firestoreOfferRepository) Create(ctx context.Context, offer *entity.Offer) error {
	if offer.Price <= 0 {
		return errors.BadRequest("Offer price must be positive", nil)
	}

	if offer.ID == "" {
		doc := r.client.Collection("offers").NewDoc()
		offer.ID = doc.ID
	}

	now := time.Now()
	if offer.CreatedAt.IsZero() {
		offer.CreatedAt = now
	}
	offer.UpdatedAt = now
	if offer.Status == "" {
		offer.Status = entity.OfferStatusPending
	}

	_, err := r.client.Collection("offers").Doc(offer.ID).Set(ctx, offer)
	if err != nil {
		return errors.Internal("Failed to create offer", err)
	}

	return nil
}

func (r *firestoreOfferRepository) GetByID(ctx context.Context, id string) (*entity.Offer, error) {
	doc, err := r.client.Collection("offers").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Offer", err)
		}
		return nil, errors.Internal("Failed to get offer", err)
	}

	var offer entity.Offer
	if err := doc.DataTo(&offer); err != nil {
		return nil, errors.Internal("Failed to parse offer data", err)
	}

	return &offer, nil
}

func (r *firestoreOfferRepository) UpdateDecision(ctx context.Context, id string, decision string, counterPrice *float64) error {
	updates := []firestore.Update{
		{Path: "sellerDecision", Value: decision},
		{Path: "updatedAt", Value: time.Now()},
	}
	if counterPrice != nil {
		updates = append(updates, firestore.Update{Path: "counterPrice", Value: *counterPrice})
	}

	_, err := r.client.Collection("offers").Doc(id).Update(ctx, updates)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return errors.NotFound("Offer", err)
		}
		return errors.Internal("Failed to update offer decision", err)
	}

	return nil
}

func (r *firestoreOfferRepository) UpdateStatus(ctx context.Context, id string, newStatus string) error {
	ref := r.client.Collection("offers").Doc(id)

	// Read-check-write inside a transaction so a concurrent confirm and
	// reject cannot both succeed.
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(ref)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return errors.NotFound("Offer", err)
			}
			return errors.Internal("Failed to get offer", err)
		}

		var offer entity.Offer
		if err := doc.DataTo(&offer); err != nil {
			return errors.Internal("Failed to parse offer data", err)
		}

		if !entity.CanTransitionOffer(offer.Status, newStatus) {
			return errors.InvalidTransition(fmt.Sprintf("Offer status cannot move from %s to %s", offer.Status, newStatus))
		}

		return tx.Update(ref, []firestore.Update{
			{Path: "status", Value: newStatus},
			{Path: "updatedAt", Value: time.Now()},
		})
	})

	return err
}

func (r *firestoreOfferRepository) ListByProduct(ctx context.Context, productID string) ([]*entity.Offer, error) {
	query := r.client.Collection("offers").
		Where("productId", "==", productID).
		OrderBy("createdAt", firestore.Desc)

	return r.collect(ctx, query)
}

func (r *firestoreOfferRepository) ListPendingConfirmationByBuyer(ctx context.Context, buyerID string) ([]*entity.Offer, error) {
	query := r.client.Collection("offers").
		Where("buyerId", "==", buyerID).
		Where("status", "==", entity.OfferStatusPendingConfirmation).
		OrderBy("createdAt", firestore.Desc)

	return r.collect(ctx, query)
}

func (r *firestoreOfferRepository) ListPendingConfirmationByProducts(ctx context.Context, productIDs []string) ([]*entity.Offer, error) {
	if len(productIDs) == 0 {
		return nil, nil
	}

	// Firestore "in" filters take at most 30 values per query.
	var offers []*entity.Offer
	for start := 0; start < len(productIDs); start += 30 {
		end := start + 30
		if end > len(productIDs) {
			end = len(productIDs)
		}

		query := r.client.Collection("offers").
			Where("productId", "in", productIDs[start:end]).
			Where("status", "==", entity.OfferStatusPendingConfirmation).
			OrderBy("createdAt", firestore.Desc)

		batch, err := r.collect(ctx, query)
		if err != nil {
			return nil, err
		}
		offers = append(offers, batch...)
	}

	return offers, nil
}

func (r *firestoreOfferRepository) collect(ctx context.Context, query firestore.Query) ([]*entity.Offer, error) {
	iter := query.Documents(ctx)
	var offers []*entity.Offer

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to iterate offers", err)
		}

		var offer entity.Offer
		if err := doc.DataTo(&offer); err != nil {
			return nil, errors.Internal("Failed to parse offer data", err)
		}
		offers = append(offers, &offer)
	}

	return offers, nil
}
