package secondme

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pasarloak/internal/domain/entity"
	"pasarloak/pkg/errors"
)

// sseHandler streams each fragment as one delta frame followed by the
// done sentinel, the way the act endpoint chunks its replies.
func sseHandler(t *testing.T, fragments []string, lastMessage *string) http.HandlerFunc {
	t.Helper()

	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Message       string `json:"message"`
			ActionControl string `json:"actionControl"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if lastMessage != nil {
			*lastMessage = req.Message
		}

		w.Header().Set("Content-Type", "text/event-stream")
		for _, fragment := range fragments {
			frame, err := json.Marshal(map[string]interface{}{
				"choices": []map[string]interface{}{
					{"delta": map[string]string{"content": fragment}},
				},
			})
			require.NoError(t, err)
			fmt.Fprintf(w, "data: %s\n\n", frame)
		}
		fmt.Fprint(w, "data: [DONE]\n\n")
	}
}

func testClient(srv *httptest.Server) *Client {
	return NewClient(Config{
		APIBase:       srv.URL,
		OAuthURL:      srv.URL + "/oauth",
		TokenEndpoint: srv.URL + "/oauth/token/code",
		ClientID:      "client-id",
		ClientSecret:  "client-secret",
		RedirectURI:   "http://localhost:8080/v1/auth/callback",
		Timeout:       5 * time.Second,
	})
}

func TestDecideBuyerOpenReassemblesFragments(t *testing.T) {
	srv := httptest.NewServer(sseHandler(t, []string{`{"suggest`, `edPrice":50,"reason":"`, `ok"}`}, nil))
	defer srv.Close()

	decision, err := testClient(srv).DecideBuyerOpen(context.Background(), "tok", "Used keyboard", 100, nil)
	require.NoError(t, err)
	require.NotNil(t, decision.SuggestedPrice)
	assert.Equal(t, 50.0, *decision.SuggestedPrice)
	assert.Equal(t, "ok", decision.Reason)
	assert.True(t, decision.Interested())
}

func TestDecideBuyerOpenNotInterested(t *testing.T) {
	srv := httptest.NewServer(sseHandler(t, []string{`{"suggestedPrice": 0, "reason": "no use for it"}`}, nil))
	defer srv.Close()

	decision, err := testClient(srv).DecideBuyerOpen(context.Background(), "tok", "Used keyboard", 100, nil)
	require.NoError(t, err)
	assert.False(t, decision.Interested())
}

func TestDecideBuyerOpenWrappedInProse(t *testing.T) {
	srv := httptest.NewServer(sseHandler(t, []string{
		`Sure, here is my decision: {"suggestedPrice": 42, "reason": "fair price"} Hope that helps!`,
	}, nil))
	defer srv.Close()

	decision, err := testClient(srv).DecideBuyerOpen(context.Background(), "tok", "Used keyboard", 100, nil)
	require.NoError(t, err)
	require.NotNil(t, decision.SuggestedPrice)
	assert.Equal(t, 42.0, *decision.SuggestedPrice)
}

func TestDecideBuyerOpenGarbageReply(t *testing.T) {
	srv := httptest.NewServer(sseHandler(t, []string{`I would rather chat about the weather.`}, nil))
	defer srv.Close()

	_, err := testClient(srv).DecideBuyerOpen(context.Background(), "tok", "Used keyboard", 100, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, "AGENT_BAD_REPLY"))
}

func TestBuyerPromptNeverDisclosesFloor(t *testing.T) {
	var message string
	srv := httptest.NewServer(sseHandler(t, []string{`{"suggestedPrice": 80, "reason": "ok"}`}, &message))
	defer srv.Close()

	minPrice := 70.0
	_, err := testClient(srv).DecideBuyerOpen(context.Background(), "tok", "Used keyboard", 100, &minPrice)
	require.NoError(t, err)
	assert.NotContains(t, message, "$70")
	assert.NotContains(t, message, "floor")
}

func TestSellerPromptIncludesFloor(t *testing.T) {
	var message string
	srv := httptest.NewServer(sseHandler(t, []string{`{"decision": "accept", "reason": "fine"}`}, &message))
	defer srv.Close()

	minPrice := 70.0
	decision, err := testClient(srv).DecideSeller(context.Background(), "tok", "Used keyboard", 100, &minPrice, 80)
	require.NoError(t, err)
	assert.Equal(t, entity.SellerDecisionAccept, decision.Decision)
	assert.Contains(t, message, "$70")
	assert.Contains(t, message, "$80")
}

func TestDecideSellerCounter(t *testing.T) {
	srv := httptest.NewServer(sseHandler(t, []string{`{"decision": " Counter ", "counterPrice": 90, "reason": "too low"}`}, nil))
	defer srv.Close()

	decision, err := testClient(srv).DecideSeller(context.Background(), "tok", "Used keyboard", 100, nil, 80)
	require.NoError(t, err)
	assert.Equal(t, entity.SellerDecisionCounter, decision.Decision)
	require.NotNil(t, decision.CounterPrice)
	assert.Equal(t, 90.0, *decision.CounterPrice)
}

func TestDecideSellerUnknownDecisionBecomesReject(t *testing.T) {
	srv := httptest.NewServer(sseHandler(t, []string{`{"decision": "maybe", "counterPrice": 90, "reason": "hmm"}`}, nil))
	defer srv.Close()

	decision, err := testClient(srv).DecideSeller(context.Background(), "tok", "Used keyboard", 100, nil, 80)
	require.NoError(t, err)
	assert.Equal(t, entity.SellerDecisionReject, decision.Decision)
	assert.Nil(t, decision.CounterPrice)
}

func TestDecideSellerUnparseableReplyBecomesReject(t *testing.T) {
	srv := httptest.NewServer(sseHandler(t, []string{`deal or no deal`}, nil))
	defer srv.Close()

	decision, err := testClient(srv).DecideSeller(context.Background(), "tok", "Used keyboard", 100, nil, 80)
	require.NoError(t, err)
	assert.Equal(t, entity.SellerDecisionReject, decision.Decision)
}

func TestDecideSellerCounterWithoutPrice(t *testing.T) {
	srv := httptest.NewServer(sseHandler(t, []string{`{"decision": "counter", "reason": "a bit more"}`}, nil))
	defer srv.Close()

	decision, err := testClient(srv).DecideSeller(context.Background(), "tok", "Used keyboard", 100, nil, 80)
	require.NoError(t, err)
	assert.Equal(t, entity.SellerDecisionCounter, decision.Decision)
	assert.Nil(t, decision.CounterPrice)
}

func TestDecideSellerCounterPriceIgnoredOnAccept(t *testing.T) {
	srv := httptest.NewServer(sseHandler(t, []string{`{"decision": "accept", "counterPrice": 95, "reason": "ok"}`}, nil))
	defer srv.Close()

	decision, err := testClient(srv).DecideSeller(context.Background(), "tok", "Used keyboard", 100, nil, 80)
	require.NoError(t, err)
	assert.Equal(t, entity.SellerDecisionAccept, decision.Decision)
	assert.Nil(t, decision.CounterPrice)
}

func TestActStreamSkipsNoise(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, ": keepalive\n\n")
		fmt.Fprint(w, "event: message\n")
		fmt.Fprint(w, `data: {"choices":[{"delta":{"content":"{\"decision\":\"accept\","}}]}`+"\n\n")
		fmt.Fprint(w, "data: this line is not json\n\n")
		fmt.Fprint(w, `data: {"choices":[{"delta":{"content":"\"reason\":\"ok\"}"}}]}`+"\n\n")
		fmt.Fprint(w, "data: [DONE]\n\n")
		fmt.Fprint(w, `data: {"choices":[{"delta":{"content":"ignored after done"}}]}`+"\n\n")
	}))
	defer srv.Close()

	decision, err := testClient(srv).DecideBuyerCounter(context.Background(), "tok", "Used keyboard", 100, 90)
	require.NoError(t, err)
	assert.Equal(t, entity.SellerDecisionAccept, decision.Decision)
	assert.Equal(t, "ok", decision.Reason)
}

func TestActStreamErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := testClient(srv).DecideSeller(context.Background(), "tok", "Used keyboard", 100, nil, 80)
	require.Error(t, err)
	assert.True(t, errors.Is(err, "AGENT_UNAVAILABLE"))
}

func TestActStreamSendsBearerToken(t *testing.T) {
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		fmt.Fprint(w, `data: {"choices":[{"delta":{"content":"{\"decision\":\"reject\"}"}}]}`+"\n\n")
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	defer srv.Close()

	_, err := testClient(srv).DecideSeller(context.Background(), "secret-token", "Used keyboard", 100, nil, 80)
	require.NoError(t, err)
	assert.Equal(t, "Bearer secret-token", auth)
}

func TestPickInteresting(t *testing.T) {
	srv := httptest.NewServer(sseHandler(t, []string{`{"picks": [{"id": "p1", "reason": "need one"}, {"id": "p3", "reason": "cheap"}]}`}, nil))
	defer srv.Close()

	picks, err := testClient(srv).PickInteresting(context.Background(), "tok", []entity.PickCandidate{
		{ID: "p1", Title: "Keyboard", Price: 100},
		{ID: "p2", Title: "Monitor", Price: 60},
		{ID: "p3", Title: "Mouse", Price: 15},
	})
	require.NoError(t, err)
	require.Len(t, picks, 2)
	assert.Equal(t, "p1", picks[0].ID)
	assert.Equal(t, "p3", picks[1].ID)
}

func TestPickInterestingEmptyStream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	defer srv.Close()

	picks, err := testClient(srv).PickInteresting(context.Background(), "tok", []entity.PickCandidate{{ID: "p1"}})
	require.NoError(t, err)
	assert.Nil(t, picks)
}

func TestExchangeCodeEnvelopeResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "authorization_code", r.PostFormValue("grant_type"))
		assert.Equal(t, "the-code", r.PostFormValue("code"))
		fmt.Fprint(w, `{"code": 0, "data": {"accessToken": "at-1", "refreshToken": "rt-1", "expiresIn": 3600}}`)
	}))
	defer srv.Close()

	result, err := testClient(srv).ExchangeCode(context.Background(), "the-code")
	require.NoError(t, err)
	assert.Equal(t, "at-1", result.AccessToken)
	assert.Equal(t, "rt-1", result.RefreshToken)
	assert.WithinDuration(t, time.Now().Add(time.Hour), result.ExpiresAt, 10*time.Second)
}

func TestExchangeCodePlainOAuthResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"access_token": "at-2", "refresh_token": "rt-2", "expires_in": 7200}`)
	}))
	defer srv.Close()

	result, err := testClient(srv).ExchangeCode(context.Background(), "the-code")
	require.NoError(t, err)
	assert.Equal(t, "at-2", result.AccessToken)
	assert.Equal(t, "rt-2", result.RefreshToken)
}

func TestExchangeCodeMissingToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"code": 1, "message": "invalid code"}`)
	}))
	defer srv.Close()

	_, err := testClient(srv).ExchangeCode(context.Background(), "bad-code")
	require.Error(t, err)
	assert.True(t, errors.Is(err, "UNAUTHORIZED"))
}

func TestRefreshTokenKeepsOldRefreshToken(t *testing.T) {
	var path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		fmt.Fprint(w, `{"code": 0, "data": {"accessToken": "at-3", "expiresIn": 3600}}`)
	}))
	defer srv.Close()

	result, err := testClient(srv).RefreshToken(context.Background(), "rt-old")
	require.NoError(t, err)
	assert.Equal(t, "/oauth/token/refresh", path)
	assert.Equal(t, "at-3", result.AccessToken)
	assert.Equal(t, "rt-old", result.RefreshToken)
}

func TestGetUserInfoNumericID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"code": 0, "data": {"id": 12345, "nickname": "Budi", "avatarUrl": "http://img/avatar.png"}}`)
	}))
	defer srv.Close()

	info, err := testClient(srv).GetUserInfo(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, "12345", info.ID)
	assert.Equal(t, "Budi", info.Nickname)
	assert.Equal(t, "http://img/avatar.png", info.Avatar)
}

func TestGetUserInfoFallbackFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"code": 0, "data": {"userId": "u-9", "name": "Sari", "avatar": ""}}`)
	}))
	defer srv.Close()

	info, err := testClient(srv).GetUserInfo(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, "u-9", info.ID)
	assert.Equal(t, "Sari", info.Nickname)
}

func TestAuthorizeURL(t *testing.T) {
	client := NewClient(Config{
		OAuthURL:    "https://app.secondme.io/oauth",
		ClientID:    "client-id",
		RedirectURI: "http://localhost:8080/v1/auth/callback",
	})

	u := client.AuthorizeURL("state-123", true)
	assert.Contains(t, u, "https://app.secondme.io/oauth?")
	assert.Contains(t, u, "client_id=client-id")
	assert.Contains(t, u, "state=state-123")
	assert.Contains(t, u, "prompt=select_account")

	u = client.AuthorizeURL("state-123", false)
	assert.NotContains(t, u, "prompt=")
}

func TestExtractBalanced(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		want  string
		found bool
	}{
		{"bare object", `{"a":1}`, `{"a":1}`, true},
		{"wrapped object", `noise {"a":1} trailer`, `{"a":1}`, true},
		{"nested object", `{"a":{"b":2}} extra`, `{"a":{"b":2}}`, true},
		{"array", `picks: [1,2,3] done`, `[1,2,3]`, true},
		{"brace inside string", `{"a":"}"} x`, `{"a":"}"}`, true},
		{"escaped quote", `{"a":"\"}"} x`, `{"a":"\"}"}`, true},
		{"unbalanced", `{"a":1`, "", false},
		{"no json", "plain text", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := extractBalanced(tt.in)
			assert.Equal(t, tt.found, found)
			assert.Equal(t, tt.want, got)
		})
	}
}
