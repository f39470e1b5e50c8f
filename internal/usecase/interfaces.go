package usecase

import (
	"context"

	"pasarloak/internal/domain/entity"
	"pasarloak/internal/infrastructure/secondme"
)

// AgentClient is the decision capability of a SecondMe agent. Every call
// takes the bearer credential of the user whose agent should decide.
// The orchestrator only depends on this interface so it can run against
// a scripted fake in tests.
type AgentClient interface {
	DecideBuyerOpen(ctx context.Context, accessToken string, productTitle string, listPrice float64, minPrice *float64) (*entity.BuyerOpenDecision, error)
	DecideSeller(ctx context.Context, accessToken string, productTitle string, listPrice float64, minPrice *float64, offerPrice float64) (*entity.AgentDecision, error)
	DecideBuyerCounter(ctx context.Context, accessToken string, productTitle string, listPrice float64, sellerCounterPrice float64) (*entity.AgentDecision, error)
	PickInteresting(ctx context.Context, accessToken string, candidates []entity.PickCandidate) ([]entity.ProductPick, error)
}

// IdentityClient covers the SecondMe OAuth surface used by the auth flow.
type IdentityClient interface {
	AuthorizeURL(state string, selectAccount bool) string
	ExchangeCode(ctx context.Context, code string) (*secondme.TokenResult, error)
	RefreshToken(ctx context.Context, refreshToken string) (*secondme.TokenResult, error)
	GetUserInfo(ctx context.Context, accessToken string) (*secondme.UserInfo, error)
}
