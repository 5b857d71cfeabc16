package graph

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUser_Email(t *testing.T) {
	tests := []struct {
		name     string
		user     User
		expected string
	}{
		{
			name: "mail is set",
			user: User{
				Mail:              "user@example.com",
				UserPrincipalName: "user@tenant.onmicrosoft.com",
			},
			expected: "user@example.com",
		},
		{
			name: "mail is empty, fall back to principal name",
			user: User{
				UserPrincipalName: "user@tenant.onmicrosoft.com",
			},
			expected: "user@tenant.onmicrosoft.com",
		},
		{
			name:     "both empty",
			user:     User{},
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.user.Email())
		})
	}
}

func TestClient_GetUser(t *testing.T) {
	var got *http.Request
	client := newTestClient(t, validStaticSource("token-1"),
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = r.Clone(context.Background())
			fmt.Fprint(w, `{"displayName":"Megan Bowen","mail":"megan@contoso.com","userPrincipalName":"megan@contoso.onmicrosoft.com"}`)
		}))

	user, err := client.GetUser(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "Megan Bowen", user.DisplayName)
	assert.Equal(t, "megan@contoso.com", user.Email())

	assert.Equal(t, "/me", got.URL.Path)
	assert.Equal(t, "$select=displayName,mail,userPrincipalName", got.URL.RawQuery)
}

func TestClient_GetUser_CustomFields(t *testing.T) {
	var got *http.Request
	client := newTestClient(t, validStaticSource("token-1"),
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = r.Clone(context.Background())
			fmt.Fprint(w, `{"displayName":"Megan Bowen","mailboxSettings":{"timeZone":"Pacific Standard Time"}}`)
		}))

	user, err := client.GetUser(context.Background(), "displayName", "mailboxSettings")

	require.NoError(t, err)
	require.NotNil(t, user.MailboxSettings)
	assert.Equal(t, "Pacific Standard Time", user.MailboxSettings.TimeZone)
	assert.Equal(t, "$select=displayName,mailboxSettings", got.URL.RawQuery)
}

func TestClient_GetUser_Error(t *testing.T) {
	client := newTestClient(t, validStaticSource("token-1"),
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))

	_, err := client.GetUser(context.Background())
	assert.ErrorIs(t, err, ErrUnauthorised)
	assert.True(t, InsufficientPermissions(err))
}

func TestClient_ListUsers(t *testing.T) {
	var got *http.Request
	client := newTestClient(t, validStaticSource("token-1"),
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = r.Clone(context.Background())
			fmt.Fprint(w, `{"value":[{"displayName":"Adele Vance","id":"id-1","mail":"adele@contoso.com"}]}`)
		}))

	pager := client.ListUsers(0)
	require.True(t, pager.Next(context.Background()))

	users := pager.Page()
	require.Len(t, users, 1)
	assert.Equal(t, "Adele Vance", users[0].DisplayName)
	assert.Equal(t, "id-1", users[0].ID)
	assert.False(t, pager.More())

	assert.Equal(t, "/users", got.URL.Path)
	assert.Equal(t, "$select=displayName,id,mail&$top=25&$orderby=displayName", got.URL.RawQuery)
}

func TestClient_ListUsers_PageSize(t *testing.T) {
	var got *http.Request
	client := newTestClient(t, validStaticSource("token-1"),
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = r.Clone(context.Background())
			fmt.Fprint(w, `{"value":[]}`)
		}))

	require.True(t, client.ListUsers(5).Next(context.Background()))
	assert.Contains(t, got.URL.RawQuery, "$top=5")
}
