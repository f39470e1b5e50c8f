package entity

// Terminal outcomes of a negotiation run. Exactly one is returned per
// run, together with the accumulated log and the round count reached.
const (
	OutcomeSkipped             = "skipped"
	OutcomePendingConfirmation = "pending_confirmation"
	OutcomeRejected            = "rejected"
	OutcomeNoDeal              = "no_deal"
	OutcomeError               = "error"
)

const (
	RoleBuyer  = "buyer"
	RoleSeller = "seller"
)

// NegotiationLogEntry records one agent decision during a run. The log
// is built in memory and returned to the caller for audit; it is never
// persisted.
type NegotiationLogEntry struct {
	Role   string   `json:"role"`
	Action string   `json:"action"`
	Price  *float64 `json:"price,omitempty"`
	Reason string   `json:"reason,omitempty"`
}

type NegotiationResult struct {
	Outcome    string                `json:"outcome"`
	FinalPrice *float64              `json:"final_price,omitempty"`
	OfferID    string                `json:"offer_id,omitempty"`
	Rounds     int                   `json:"rounds"`
	Reason     string                `json:"reason,omitempty"`
	Logs       []NegotiationLogEntry `json:"logs"`
}

type BrowseResult struct {
	ProductID    string                `json:"product_id"`
	ProductTitle string                `json:"product_title"`
	Outcome      string                `json:"outcome"`
	FinalPrice   *float64              `json:"final_price,omitempty"`
	OfferID      string                `json:"offer_id,omitempty"`
	Reason       string                `json:"reason,omitempty"`
	Logs         []NegotiationLogEntry `json:"logs"`
}

// BuyerOpenDecision is the buyer agent's answer to "are you interested,
// and at what price". A nil or non-positive suggested price means not
// interested.
type BuyerOpenDecision struct {
	SuggestedPrice *float64 `json:"suggestedPrice"`
	Reason         string   `json:"reason"`
}

func (d *BuyerOpenDecision) Interested() bool {
	return d.SuggestedPrice != nil && *d.SuggestedPrice > 0
}

// AgentDecision is a seller's (or counter-round buyer's) accept/counter/
// reject answer. CounterPrice is only set when Decision is counter.
type AgentDecision struct {
	Decision     string   `json:"decision"`
	CounterPrice *float64 `json:"counterPrice,omitempty"`
	Reason       string   `json:"reason"`
}

// PickCandidate is one product summary shown to the buyer agent when it
// scans the market.
type PickCandidate struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	Price     float64 `json:"price"`
	Category  string  `json:"category"`
	Condition string  `json:"condition"`
}

type ProductPick struct {
	ID     string `json:"id"`
	Reason string `json:"reason"`
}
