package oauth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthorizeURL(t *testing.T) {
	client := NewGitHubClient("client-id", "client-secret", "http://localhost/callback")

	u := client.AuthorizeURL()
	assert.Contains(t, u, "https://github.com/login/oauth/authorize?")
	assert.Contains(t, u, "client_id=client-id")
	assert.Contains(t, u, "scope=read%3Auser")
}

func TestExchangeCode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "client-id", r.FormValue("client_id"))
		assert.Equal(t, "client-secret", r.FormValue("client_secret"))
		assert.Equal(t, "the-code", r.FormValue("code"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"gho_abc","token_type":"bearer","scope":"read:user"}`))
	}))
	defer server.Close()

	client := NewGitHubClient("client-id", "client-secret", "http://localhost/callback")
	client.TokenURL = server.URL

	token, err := client.ExchangeCode("the-code")
	require.NoError(t, err)
	assert.Equal(t, "gho_abc", token.AccessToken)
}

func TestExchangeCodeRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"error":"bad_verification_code","error_description":"The code passed is incorrect or expired."}`))
	}))
	defer server.Close()

	client := NewGitHubClient("client-id", "client-secret", "http://localhost/callback")
	client.TokenURL = server.URL

	_, err := client.ExchangeCode("expired")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad_verification_code")
}

func TestFetchProfile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/user", r.URL.Path)
		assert.Equal(t, "Bearer gho_abc", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":98765,"login":"octo","name":"Octo Cat","avatar_url":"https://avatars.example.com/octo","html_url":"https://github.com/octo"}`))
	}))
	defer server.Close()

	client := NewGitHubClient("client-id", "client-secret", "http://localhost/callback")
	client.APIBaseURL = server.URL

	profile, err := client.FetchProfile("gho_abc")
	require.NoError(t, err)
	assert.Equal(t, "octo", profile.Login)
	assert.Equal(t, "98765", profile.AccountId())
}

func TestFetchProfileUnauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewGitHubClient("client-id", "client-secret", "http://localhost/callback")
	client.APIBaseURL = server.URL

	_, err := client.FetchProfile("bad-token")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
}
