package secondme

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"pasarloak/internal/domain/entity"
	"pasarloak/pkg/logger"
)

// DecideBuyerOpen asks the buyer's agent whether it wants the product
// and at what opening price. The seller's floor is never disclosed to
// the buyer role, even when known.
func (c *Client) DecideBuyerOpen(ctx context.Context, accessToken string, productTitle string, listPrice float64, minPrice *float64) (*entity.BuyerOpenDecision, error) {
	message := fmt.Sprintf(
		"You are browsing a secondhand marketplace. Item: %q, listed at %s. As the buyer, are you interested in this item? If yes, suggest an opening bid; if not, explain why.",
		productTitle, formatPrice(listPrice))
	actionControl := `Reply with a single valid JSON value and no explanation.
Shape: {"suggestedPrice": number, "reason": string}.
If interested: suggestedPrice is your opening bid, greater than 0 and reasonably below the list price; reason is one short sentence.
If not interested: set suggestedPrice to 0 and state why in reason.`

	raw, err := c.actStream(ctx, accessToken, message, actionControl)
	if err != nil {
		return nil, err
	}

	var decision entity.BuyerOpenDecision
	if err := decodeReply(raw, &decision); err != nil {
		return nil, err
	}

	return &decision, nil
}

// DecideSeller asks the seller's agent to accept, counter or reject the
// current offer. The seller's own floor is part of the prompt when set.
func (c *Client) DecideSeller(ctx context.Context, accessToken string, productTitle string, listPrice float64, minPrice *float64, offerPrice float64) (*entity.AgentDecision, error) {
	floor := ""
	if minPrice != nil {
		floor = fmt.Sprintf(" Your private floor is %s.", formatPrice(*minPrice))
	}
	message := fmt.Sprintf(
		"Your secondhand item %q is listed at %s.%s A buyer has offered %s. Decide: accept, counter, or reject.",
		productTitle, formatPrice(listPrice), floor, formatPrice(offerPrice))
	actionControl := `Reply with a single valid JSON value and no explanation.
Shape: {"decision": "accept"|"counter"|"reject", "counterPrice": number or omitted, "reason": string}.
accept means you take the current offer; counter means you name a new price and MUST include counterPrice; reject means you decline.`

	return c.decide(ctx, accessToken, message, actionControl)
}

// DecideBuyerCounter asks the buyer's agent how to respond to the
// seller's counter-price.
func (c *Client) DecideBuyerCounter(ctx context.Context, accessToken string, productTitle string, listPrice float64, sellerCounterPrice float64) (*entity.AgentDecision, error) {
	message := fmt.Sprintf(
		"The item %q you want is listed at %s and the seller has countered at %s. Decide: accept, counter again, or walk away.",
		productTitle, formatPrice(listPrice), formatPrice(sellerCounterPrice))
	actionControl := `Reply with a single valid JSON value and no explanation.
Shape: {"decision": "accept"|"counter"|"reject", "counterPrice": number or omitted, "reason": string}.
accept means you take the seller's counter; counter means you propose a new price and MUST include counterPrice; reject means you walk away.`

	return c.decide(ctx, accessToken, message, actionControl)
}

// PickInteresting shows the buyer's agent a batch of listings and asks
// which ones are worth negotiating for.
func (c *Client) PickInteresting(ctx context.Context, accessToken string, candidates []entity.PickCandidate) ([]entity.ProductPick, error) {
	var list strings.Builder
	for i, p := range candidates {
		fmt.Fprintf(&list, "%d. [%s] %s %s (%s, %s)\n", i+1, p.ID, p.Title, formatPrice(p.Price), p.Category, p.Condition)
	}
	message := fmt.Sprintf(
		"You are browsing a secondhand marketplace. Current listings:\n%s\nBased on your interests and needs, pick the items you would like to negotiate for.",
		list.String())
	actionControl := `Reply with a single valid JSON value and no explanation.
Shape: {"picks": [{"id": string, "reason": string}]}.
picks lists the ids of items you are interested in with one short reason each. If nothing interests you, return {"picks": []}.`

	raw, err := c.actStream(ctx, accessToken, message, actionControl)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}

	var body struct {
		Picks []entity.ProductPick `json:"picks"`
	}
	if err := decodeReply(raw, &body); err != nil {
		return nil, err
	}

	return body.Picks, nil
}

// decide runs one accept/counter/reject call and normalizes the reply:
// decisions outside the enum become reject, and counterPrice is kept
// only for counter decisions.
func (c *Client) decide(ctx context.Context, accessToken, message, actionControl string) (*entity.AgentDecision, error) {
	raw, err := c.actStream(ctx, accessToken, message, actionControl)
	if err != nil {
		return nil, err
	}

	var parsed struct {
		Decision     string      `json:"decision"`
		CounterPrice json.Number `json:"counterPrice"`
		Reason       string      `json:"reason"`
	}
	if err := decodeReply(raw, &parsed); err != nil {
		// Unparseable intent is never treated as agreement.
		logger.Warn("Agent decision reply unparseable, treating as reject: %v", err)
		return &entity.AgentDecision{Decision: entity.SellerDecisionReject}, nil
	}

	decision := strings.ToLower(strings.TrimSpace(parsed.Decision))
	if decision != entity.SellerDecisionAccept && decision != entity.SellerDecisionCounter && decision != entity.SellerDecisionReject {
		decision = entity.SellerDecisionReject
	}

	var counterPrice *float64
	if decision == entity.SellerDecisionCounter && parsed.CounterPrice != "" {
		if v, err := parsed.CounterPrice.Float64(); err == nil {
			counterPrice = &v
		}
	}

	return &entity.AgentDecision{
		Decision:     decision,
		CounterPrice: counterPrice,
		Reason:       parsed.Reason,
	}, nil
}

func formatPrice(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("$%d", int64(v))
	}
	return fmt.Sprintf("$%.2f", v)
}
