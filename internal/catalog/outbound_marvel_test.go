package catalog

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *MarvelClient {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c := NewMarvelClient(srv.URL, "pub", "priv", 5*time.Second)
	c.now = func() time.Time { return time.Unix(1700000000, 0) }
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestMarvelClientFetch(t *testing.T) {
	var got url.Values
	var path string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		got = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"total":25,"count":1,"results":[{"id":1,"name":"Spider-Man"}]}}`))
	})

	page, err := c.Fetch(context.Background(), Characters, Query{
		Limit:   10,
		Offset:  20,
		Filters: map[string]string{"nameStartsWith": "Spi"},
	})
	require.NoError(t, err)

	assert.Equal(t, "/characters", path)
	assert.Equal(t, "10", got.Get("limit"))
	assert.Equal(t, "20", got.Get("offset"))
	assert.Equal(t, "Spi", got.Get("nameStartsWith"))
	assert.Equal(t, "pub", got.Get("apikey"))
	assert.Equal(t, "1700000000", got.Get("ts"))

	sum := md5.Sum([]byte("1700000000" + "priv" + "pub"))
	assert.Equal(t, hex.EncodeToString(sum[:]), got.Get("hash"))

	assert.Equal(t, 25, page.Total)
	require.Len(t, page.Records, 1)
	assert.Equal(t, "Spider-Man", page.Records[0].Label)
	assert.Equal(t, Characters, page.Records[0].Kind)
}

func TestMarvelClientAPIError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"code":"InvalidCredentials","message":"The passed API key is invalid."}`))
	})

	_, err := c.Fetch(context.Background(), Comics, Query{Limit: 10})
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Contains(t, apiErr.Body, "InvalidCredentials")
	assert.Contains(t, err.Error(), "marvel api error: 401")
}
