package graph

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	Name string `json:"name"`
}

func TestPager_Next_WalksAllPages(t *testing.T) {
	var requests []*http.Request

	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests = append(requests, r.Clone(context.Background()))
		switch r.URL.Path {
		case "/items":
			fmt.Fprintf(w, `{"value":[{"name":"a"},{"name":"b"}],"@odata.nextLink":%q}`, srv.URL+"/items?$skip=2")
		default:
			fmt.Fprint(w, `{"value":[{"name":"c"}]}`)
		}
	}))
	defer srv.Close()

	client := NewClient(validStaticSource("token-1"), []string{"user.read"}, WithBaseURL(srv.URL))
	initial := NewRequest("items").
		Select("name").
		Top(2).
		Header("Prefer", `outlook.timezone="UTC"`)

	pager := newPager[item](client, initial)
	ctx := context.Background()

	require.True(t, pager.Next(ctx))
	assert.Equal(t, []item{{Name: "a"}, {Name: "b"}}, pager.Page())
	assert.True(t, pager.More())

	require.True(t, pager.Next(ctx))
	assert.Equal(t, []item{{Name: "c"}}, pager.Page())
	assert.False(t, pager.More())

	assert.False(t, pager.Next(ctx))
	assert.NoError(t, pager.Err())

	require.Len(t, requests, 2)

	// The first request carries the full query; the follow-up sends the
	// nextLink verbatim, re-applying only the Prefer header.
	first, second := requests[0], requests[1]
	assert.Equal(t, "$select=name&$top=2", first.URL.RawQuery)
	assert.Equal(t, "$skip=2", second.URL.RawQuery)
	assert.Equal(t, `outlook.timezone="UTC"`, second.Header.Get("Prefer"))
	assert.NotEmpty(t, second.Header.Get("Authorization"))
}

func TestPager_All_PreservesOrderAcrossPages(t *testing.T) {
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.RawQuery {
		case "":
			fmt.Fprintf(w, `{"value":[{"name":"1"},{"name":"2"}],"@odata.nextLink":%q}`, srv.URL+"/items?page=2")
		case "page=2":
			fmt.Fprintf(w, `{"value":[{"name":"3"}],"@odata.nextLink":%q}`, srv.URL+"/items?page=3")
		default:
			fmt.Fprint(w, `{"value":[{"name":"4"},{"name":"5"}]}`)
		}
	}))
	defer srv.Close()

	client := NewClient(validStaticSource("token-1"), []string{"user.read"}, WithBaseURL(srv.URL))
	items, err := newPager[item](client, NewRequest("items")).All(context.Background())

	require.NoError(t, err)
	names := make([]string, len(items))
	for i, it := range items {
		names[i] = it.Name
	}
	assert.Equal(t, []string{"1", "2", "3", "4", "5"}, names)
}

func TestPager_All_ErrorDiscardsPartialResults(t *testing.T) {
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.RawQuery == "" {
			fmt.Fprintf(w, `{"value":[{"name":"1"}],"@odata.nextLink":%q}`, srv.URL+"/items?page=2")
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `{"error":{"code":"InternalServerError"}}`)
	}))
	defer srv.Close()

	client := NewClient(validStaticSource("token-1"), []string{"user.read"}, WithBaseURL(srv.URL))
	items, err := newPager[item](client, NewRequest("items")).All(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrServerError)
	assert.Nil(t, items)
}

func TestPager_Next_AfterErrorStaysStopped(t *testing.T) {
	client := newTestClient(t, validStaticSource("token-1"),
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		}))

	pager := newPager[item](client, NewRequest("items"))
	ctx := context.Background()

	assert.False(t, pager.Next(ctx))
	assert.ErrorIs(t, pager.Err(), ErrForbidden)
	assert.Empty(t, pager.Page())

	assert.False(t, pager.Next(ctx))
	assert.ErrorIs(t, pager.Err(), ErrForbidden)
}

func TestPager_SinglePage(t *testing.T) {
	client := newTestClient(t, validStaticSource("token-1"),
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			fmt.Fprint(w, `{"value":[]}`)
		}))

	pager := newPager[item](client, NewRequest("items"))

	require.True(t, pager.Next(context.Background()))
	assert.Empty(t, pager.Page())
	assert.False(t, pager.More())
	assert.False(t, pager.Next(context.Background()))
	assert.NoError(t, pager.Err())
}
