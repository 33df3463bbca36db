package catalog

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// CaptionMaxLength is the longest detail caption the chat transport accepts.
const CaptionMaxLength = 1024

// Descriptor holds everything that differs between entity kinds.
type Descriptor struct {
	Kind      Kind
	Title     string // "Characters"
	Plural    string // "characters"
	Criterion string // "name" or "title"
	ExactKey  string
	PrefixKey string
	content   func(r Record) []string
}

var descriptors = map[Kind]Descriptor{
	Characters: {
		Kind:      Characters,
		Title:     "Characters",
		Plural:    "characters",
		Criterion: "name",
		ExactKey:  "name",
		PrefixKey: "nameStartsWith",
		content:   characterContent,
	},
	Comics: {
		Kind:      Comics,
		Title:     "Comics",
		Plural:    "comics",
		Criterion: "title",
		ExactKey:  "title",
		PrefixKey: "titleStartsWith",
		content:   comicContent,
	},
	Events: {
		Kind:      Events,
		Title:     "Events",
		Plural:    "events",
		Criterion: "name",
		ExactKey:  "name",
		PrefixKey: "nameStartsWith",
		content:   eventContent,
	},
	Series: {
		Kind:      Series,
		Title:     "Series",
		Plural:    "series",
		Criterion: "title",
		ExactKey:  "title",
		PrefixKey: "titleStartsWith",
		content:   seriesContent,
	},
}

// Describe returns the descriptor of a kind. It panics on a kind outside Kinds.
func Describe(k Kind) Descriptor {
	d, ok := descriptors[k]
	if !ok {
		panic(fmt.Sprintf("catalog: unknown kind %q", k.Value))
	}
	return d
}

// Filters returns the gateway filter to attach for the given match mode.
func (d Descriptor) Filters(m Match, value string) map[string]string {
	switch m {
	case MatchExact:
		return map[string]string{d.ExactKey: value}
	case MatchPrefix:
		return map[string]string{d.PrefixKey: value}
	default:
		return nil
	}
}

// Caption renders the detail card text of a record.
func (d Descriptor) Caption(r Record) string {
	return clip(strings.Join(d.content(r), "\n\n"), CaptionMaxLength)
}

// Caption renders the detail card text of a record using its own kind.
func Caption(r Record) string {
	return Describe(r.Kind).Caption(r)
}

func characterContent(r Record) []string {
	return []string{
		r.Label,
		r.Description,
		"wiki link: " + r.WikiURL,
		"comics link: " + r.DetailURL,
	}
}

func comicContent(r Record) []string {
	pages := "Unknown"
	if r.PageCount > 0 {
		pages = strconv.Itoa(r.PageCount)
	}
	creators := make([]string, 0, len(r.Creators))
	for _, c := range r.Creators {
		creators = append(creators, c.String())
	}
	return []string{
		r.Label,
		r.Description,
		"Page count: " + pages,
		"detail link: " + r.DetailURL,
		"Creators: " + strings.Join(creators, "\n"),
	}
}

func eventContent(r Record) []string {
	return []string{
		r.Label,
		r.Description,
		"Wiki link: " + r.WikiURL,
		"Comics link: " + r.DetailURL,
		"Next event: " + r.Next,
		"Previous event: " + r.Previous,
	}
}

func seriesContent(r Record) []string {
	return []string{
		r.Label,
		r.Description,
		"detail link: " + r.DetailURL,
		"Start in: " + r.Start,
		"Ends in: " + r.End,
		"Next series are: " + r.Next,
		"Previous series are: " + r.Previous,
	}
}

func clip(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max])
}
