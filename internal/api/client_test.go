package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"upanel/internal/model"
)

func testUser() model.User {
	return model.User{
		ID:    "5f2d3c1a",
		Nome:  "Usuário 1",
		CPF:   "123.456.789-01",
		Email: "usuario1@exemplo.com",
		Endereco: model.Endereco{
			CEP:    4538133,
			Rua:    "Rua Joaquim Floriano",
			Numero: 243,
			Bairro: "Itaim Bibi",
			Cidade: "São Paulo",
		},
	}
}

func TestSignIn(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/login", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "admin@upanel.dev", body["email"])
		assert.Equal(t, "hunter22", body["password"])

		json.NewEncoder(w).Encode(map[string]string{"token": "tok-123"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 10, time.Second, nil)
	creds, err := c.SignIn(context.Background(), "admin@upanel.dev", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, "tok-123", creds.Token)
	// Backend omitted the email; the request email is kept.
	assert.Equal(t, "admin@upanel.dev", creds.Email)
}

func TestSignInPropagatesBackendError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad credentials", http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 10, time.Second, nil)
	_, err := c.SignIn(context.Background(), "a@b.com", "wrong")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestListUsers(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/usuarios", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "2", q.Get("_page"))
		assert.Equal(t, "10", q.Get("limit"))
		assert.Equal(t, "maria", q.Get("q"))
		assert.Equal(t, "nome", q.Get("_sort"))
		assert.Equal(t, "asc", q.Get("_order"))

		w.Header().Set("X-Total-Count", "25")
		json.NewEncoder(w).Encode([]model.User{testUser()})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 10, time.Second, nil)
	users, total, err := c.ListUsers(context.Background(), 2, "maria", model.Filters{Sort: "nome", Order: "asc"})
	require.NoError(t, err)
	assert.Equal(t, 25, total)
	require.Len(t, users, 1)
	assert.Equal(t, "Usuário 1", users[0].Nome)
}

func TestListUsersRequestsConfiguredPageSize(t *testing.T) {
	var limit string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		limit = r.URL.Query().Get("limit")
		w.Header().Set("X-Total-Count", "0")
		json.NewEncoder(w).Encode([]model.User{})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 20, time.Second, nil)
	_, _, err := c.ListUsers(context.Background(), 1, "", model.Filters{})
	require.NoError(t, err)
	assert.Equal(t, "20", limit, "the configured page size must reach the backend")
}

func TestListUsersRejectsMissingTotalCount(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]model.User{})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 10, time.Second, nil)
	_, _, err := c.ListUsers(context.Background(), 1, "", model.Filters{})
	assert.Error(t, err)
}

func TestCreateUserSendsFullRecord(t *testing.T) {
	var got model.User
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/usuarios", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 10, time.Second, nil)
	require.NoError(t, c.CreateUser(context.Background(), testUser()))
	assert.Equal(t, testUser(), got)
}

func TestUpdateUserOmitsIDFromBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		require.Equal(t, "/usuarios/5f2d3c1a", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		_, hasID := body["id"]
		assert.False(t, hasID, "update body must not carry the identifier")
		assert.Equal(t, "Usuário 1", body["nome"])
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 10, time.Second, nil)
	require.NoError(t, c.UpdateUser(context.Background(), testUser()))
}

func TestDeleteUser(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		require.Equal(t, "/usuarios/5f2d3c1a", r.URL.Path)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 10, time.Second, nil)
	require.NoError(t, c.DeleteUser(context.Background(), "5f2d3c1a"))
}

func TestBearerTokenAttachedWhenSet(t *testing.T) {
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		w.Header().Set("X-Total-Count", "0")
		json.NewEncoder(w).Encode([]model.User{})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 10, time.Second, nil)
	c.SetToken("tok-xyz")
	_, _, err := c.ListUsers(context.Background(), 1, "", model.Filters{})
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-xyz", auth)
}
