package catalog

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"log"
	"strconv"
	"strings"
	"time"

	"resty.dev/v3"
)

const DefaultBaseURL = "https://gateway.marvel.com:443/v1/public"

type MarvelClient struct {
	client     *resty.Client
	publicKey  string
	privateKey string
	now        func() time.Time
}

func NewMarvelClient(baseURL, publicKey, privateKey string, timeout time.Duration) *MarvelClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")

	return &MarvelClient{
		client:     client,
		publicKey:  publicKey,
		privateKey: privateKey,
		now:        time.Now,
	}
}

func (c *MarvelClient) Close() error {
	return c.client.Close()
}

// Fetch requests one page of the kind's route. Non-2xx answers come back as *APIError.
func (c *MarvelClient) Fetch(ctx context.Context, kind Kind, q Query) (Page, error) {
	params := c.authParams()
	params["limit"] = strconv.Itoa(q.Limit)
	params["offset"] = strconv.Itoa(q.Offset)
	for k, v := range q.Filters {
		params[k] = v
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(params).
		Get("/" + kind.Route())
	if err != nil {
		return Page{}, err
	}

	if resp.IsError() {
		log.Printf("[marvel] %s offset=%d status=%d", kind.Route(), q.Offset, resp.StatusCode())
		return Page{}, &APIError{StatusCode: resp.StatusCode(), Body: resp.String()}
	}

	return DecodePage(kind, resp.Bytes())
}

// authParams signs a request the way the public Marvel API expects:
// hash = md5(ts + privateKey + publicKey).
func (c *MarvelClient) authParams() map[string]string {
	ts := strconv.FormatInt(c.now().Unix(), 10)
	sum := md5.Sum([]byte(ts + c.privateKey + c.publicKey))

	return map[string]string{
		"ts":     ts,
		"apikey": c.publicKey,
		"hash":   hex.EncodeToString(sum[:]),
	}
}
