package usecase

import (
	"context"
	"time"

	"pasarloak/internal/domain/entity"
	"pasarloak/internal/domain/repository"
	"pasarloak/pkg/errors"
	"pasarloak/pkg/logger"
)

type AuthUseCase struct {
	userRepo       repository.UserRepository
	identityClient IdentityClient
}

func NewAuthUseCase(userRepo repository.UserRepository, identityClient IdentityClient) *AuthUseCase {
	return &AuthUseCase{
		userRepo:       userRepo,
		identityClient: identityClient,
	}
}

type LoginResult struct {
	User        *entity.User
	AccessToken string
	ExpiresAt   time.Time
}

// LoginURL returns the SecondMe OAuth authorize redirect.
func (uc *AuthUseCase) LoginURL(state string, selectAccount bool) string {
	return uc.identityClient.AuthorizeURL(state, selectAccount)
}

// HandleCallback exchanges the authorization code, fetches the profile
// and upserts the user with the fresh agent credential.
func (uc *AuthUseCase) HandleCallback(ctx context.Context, code string) (*LoginResult, error) {
	if code == "" {
		return nil, errors.BadRequest("Missing authorization code", nil)
	}

	token, err := uc.identityClient.ExchangeCode(ctx, code)
	if err != nil {
		return nil, err
	}

	info, err := uc.identityClient.GetUserInfo(ctx, token.AccessToken)
	if err != nil {
		return nil, err
	}

	user, err := uc.userRepo.GetBySecondMeUserID(ctx, info.ID)
	if err != nil {
		if !errors.Is(err, "NOT_FOUND") {
			return nil, err
		}
		user = &entity.User{SecondMeUserID: info.ID}
	}

	user.Nickname = info.Nickname
	user.Avatar = info.Avatar
	user.AccessToken = token.AccessToken
	user.RefreshToken = token.RefreshToken
	user.TokenExpiresAt = token.ExpiresAt

	if user.ID == "" {
		if err := uc.userRepo.Create(ctx, user); err != nil {
			return nil, err
		}
		logger.Info("Registered new user %s", user.ID)
	} else {
		if err := uc.userRepo.Update(ctx, user); err != nil {
			return nil, err
		}
	}

	return &LoginResult{
		User:        user,
		AccessToken: token.AccessToken,
		ExpiresAt:   token.ExpiresAt,
	}, nil
}

// Refresh renews a user's agent credential via the refresh token.
func (uc *AuthUseCase) Refresh(ctx context.Context, user *entity.User) (*entity.User, error) {
	if user.RefreshToken == "" {
		return nil, errors.Unauthorized("No refresh token on record", nil)
	}

	token, err := uc.identityClient.RefreshToken(ctx, user.RefreshToken)
	if err != nil {
		return nil, err
	}

	user.AccessToken = token.AccessToken
	user.RefreshToken = token.RefreshToken
	user.TokenExpiresAt = token.ExpiresAt

	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}
