package portal

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
)

func TestCreateAccount(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/accounts", r.URL.Path)
		assert.Equal(t, "Bearer token-123", r.Header.Get("Authorization"))

		var account ClientAccount
		require.NoError(t, json.NewDecoder(r.Body).Decode(&account))
		assert.Equal(t, "aisha@example.com", account.Email)
		assert.Equal(t, "lead-1", account.LeadID)

		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"data":{"id":"acct-42","status":"active"}}`)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "token-123", 5*time.Second)
	id, err := client.CreateAccount(context.Background(), &ClientAccount{
		Email:        "aisha@example.com",
		FullName:     "Aisha Rahman",
		LeadID:       "lead-1",
		FreezoneName: "IFZA",
		SetupCost:    18500,
	})
	require.NoError(t, err)
	assert.Equal(t, "acct-42", id)
}

func TestCreateAccount_MissingID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data":{},"message":"quota exceeded"}`)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "token-123", 5*time.Second)
	_, err := client.CreateAccount(context.Background(), &ClientAccount{Email: "a@b.com"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestFindAccountByEmail_EscapesQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/accounts/search", r.URL.Path)
		assert.Equal(t, "aisha+setup@example.com", r.URL.Query().Get("email"))
		fmt.Fprint(w, `{"data":[{"id":"acct-42","email":"aisha+setup@example.com"}]}`)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "token-123", 5*time.Second)
	accounts, err := client.FindAccountByEmail(context.Background(), "aisha+setup@example.com")
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, "acct-42", accounts[0].ID)
}

func TestAttachProposal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/v1/accounts/acct-42/proposal", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "token-123", 5*time.Second)
	err := client.AttachProposal(context.Background(), "acct-42", map[string]string{"doc": "x"})
	assert.NoError(t, err)
}

func TestAttachProposal_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		fmt.Fprint(w, "upstream unavailable")
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "token-123", 5*time.Second)
	err := client.AttachProposal(context.Background(), "acct-42", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 502")
}
