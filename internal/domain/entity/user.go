package entity

import (
	"time"
)

// User is a marketplace member backed by a SecondMe agent. The access
// token is the credential the agent endpoints are called with; an expired
// token means the user's agent is offline.
type User struct {
	ID             string    `json:"id" firestore:"id"`
	SecondMeUserID string    `json:"secondme_user_id" firestore:"secondmeUserId"`
	Nickname       string    `json:"nickname" firestore:"nickname"`
	Avatar         string    `json:"avatar" firestore:"avatar"`
	AccessToken    string    `json:"-" firestore:"accessToken"`
	RefreshToken   string    `json:"-" firestore:"refreshToken"`
	TokenExpiresAt time.Time `json:"-" firestore:"tokenExpiresAt"`
	CreatedAt      time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt      time.Time `json:"updated_at" firestore:"updatedAt"`
}

func (u *User) AgentOnline(now time.Time) bool {
	return u.AccessToken != "" && u.TokenExpiresAt.After(now)
}
