package catalog

import (
	"context"
	"fmt"

	"github.com/orsinium-labs/enum"
)

// Kind is one of the four catalog categories; the value is the API route.
type Kind enum.Member[string]

var (
	Characters = Kind{"characters"}
	Comics     = Kind{"comics"}
	Events     = Kind{"events"}
	Series     = Kind{"series"}

	Kinds = enum.New(Characters, Comics, Events, Series)
)

// Route returns the path segment of the kind on the catalog API.
func (k Kind) Route() string { return k.Value }

func (k Kind) String() string { return k.Value }

// IsZero reports whether no kind is set.
func (k Kind) IsZero() bool { return k == Kind{} }

// Match selects which filter a paged request carries.
type Match int

const (
	MatchNone Match = iota
	MatchExact
	MatchPrefix
)

func (m Match) String() string {
	switch m {
	case MatchExact:
		return "exact"
	case MatchPrefix:
		return "prefix"
	default:
		return "none"
	}
}

// Creator is a person credited on a comic or series.
type Creator struct {
	Name string
	Role string
}

func (c Creator) String() string {
	return c.Role + ": " + c.Name
}

// Record is one normalized catalog entity. Fields that do not apply to the
// record's kind stay empty.
type Record struct {
	ID          int64
	Kind        Kind
	Label       string // name for characters/events, title for comics/series
	Description string
	ImageURL    string
	DetailURL   string
	ResourceURI string

	WikiURL  string // characters, events
	ComicURL string // characters

	PageCount int       // comics
	Creators  []Creator // comics, series

	Start    string // events: start date, series: start year
	End      string // events: end date, series: end year
	Next     string // events, series: name of the following entity
	Previous string // events, series: name of the preceding entity
}

// Page is one normalized gateway response.
type Page struct {
	Records  []Record
	Returned int
	Total    int
}

// Query is parameters of one paged gateway call.
type Query struct {
	Limit   int
	Offset  int
	Filters map[string]string
}

// Gateway gives stateless paged access to the remote catalog.
type Gateway interface {
	Fetch(ctx context.Context, kind Kind, q Query) (Page, error)
}

// APIError is a non-2xx response of the catalog API.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("marvel api error: %d body=%s", e.StatusCode, e.Body)
}
