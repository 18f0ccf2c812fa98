package logic

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dootling/dcs/internal/apperr"
	"github.com/dootling/dcs/internal/model"
	"github.com/dootling/dcs/internal/oauth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newFakeGitHub 启动模拟 GitHub 的测试服务器
func newFakeGitHub(t *testing.T) *oauth.GitHubClient {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/login/oauth/access_token", func(w http.ResponseWriter, r *http.Request) {
		if r.FormValue("code") != "good-code" {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"error":"bad_verification_code"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"gho_token","token_type":"bearer","scope":"read:user"}`))
	})
	mux.HandleFunc("/user", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer gho_token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":12345,"login":"ada","name":"Ada Lovelace","avatar_url":"https://avatars.example.com/ada","html_url":"https://github.com/ada"}`))
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client := oauth.NewGitHubClient("client-id", "client-secret", "http://localhost/callback")
	client.TokenURL = server.URL + "/login/oauth/access_token"
	client.APIBaseURL = server.URL
	return client
}

func TestConnectGitHub(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "ada")
	connections := NewConnectionLogic(db, newFakeGitHub(t))

	conn, err := connections.ConnectGitHub(user.Id, "good-code")
	require.NoError(t, err)
	assert.Equal(t, model.ServiceTypeGitHub, conn.ServiceType)
	assert.Equal(t, "12345", conn.ServiceAccountId)
	assert.Equal(t, model.ConnectionStatusActive, conn.ConnectionStatus)
	assert.Contains(t, conn.ConnectionMetadata, `"login":"ada"`)
}

func TestConnectGitHubUpdatesExistingConnection(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "ada")
	connections := NewConnectionLogic(db, newFakeGitHub(t))

	first, err := connections.ConnectGitHub(user.Id, "good-code")
	require.NoError(t, err)

	second, err := connections.ConnectGitHub(user.Id, "good-code")
	require.NoError(t, err)
	assert.Equal(t, first.Id, second.Id)

	var count int64
	require.NoError(t, db.Model(&model.ServiceConnection{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestConnectGitHubBadCode(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "ada")
	connections := NewConnectionLogic(db, newFakeGitHub(t))

	_, err := connections.ConnectGitHub(user.Id, "bad-code")
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestListAndDeleteConnections(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "ada")
	other := createUser(t, db, "bob")
	connections := NewConnectionLogic(db, newFakeGitHub(t))

	conn, err := connections.ConnectGitHub(user.Id, "good-code")
	require.NoError(t, err)

	listed, err := connections.List(user.Id)
	require.NoError(t, err)
	assert.Len(t, listed, 1)

	// 别人不能删除不属于自己的连接
	err = connections.Delete(other.Id, conn.Id)
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	require.NoError(t, connections.Delete(user.Id, conn.Id))

	listed, err = connections.List(user.Id)
	require.NoError(t, err)
	assert.Empty(t, listed)
}
