package catalog

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

type envelope struct {
	Data struct {
		Total   int         `json:"total"`
		Count   int         `json:"count"`
		Results []rawResult `json:"results"`
	} `json:"data"`
}

type rawLink struct {
	Type string `json:"type"`
	URL  string `json:"url"`
}

type rawRef struct {
	ResourceURI string `json:"resourceURI"`
	Name        string `json:"name"`
}

type rawResult struct {
	ID                 int64     `json:"id"`
	Name               string    `json:"name"`
	Title              string    `json:"title"`
	Description        string    `json:"description"`
	VariantDescription string    `json:"variantDescription"`
	ResourceURI        string    `json:"resourceURI"`
	URLs               []rawLink `json:"urls"`
	Thumbnail          *struct {
		Path      string `json:"path"`
		Extension string `json:"extension"`
	} `json:"thumbnail"`

	PageCount int `json:"pageCount"`
	Creators  struct {
		Items []struct {
			Name string `json:"name"`
			Role string `json:"role"`
		} `json:"items"`
	} `json:"creators"`

	Start     string  `json:"start"`
	End       string  `json:"end"`
	StartYear int     `json:"startYear"`
	EndYear   int     `json:"endYear"`
	Next      *rawRef `json:"next"`
	Previous  *rawRef `json:"previous"`
}

// DecodePage maps one catalog response body onto a Page of records of the given kind.
func DecodePage(kind Kind, body []byte) (Page, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return Page{}, fmt.Errorf("decode %s page: %w", kind.Route(), err)
	}

	records := make([]Record, 0, len(env.Data.Results))
	for _, res := range env.Data.Results {
		records = append(records, toRecord(kind, res))
	}

	return Page{
		Records:  records,
		Returned: env.Data.Count,
		Total:    env.Data.Total,
	}, nil
}

func toRecord(kind Kind, res rawResult) Record {
	label := res.Name
	if label == "" {
		label = res.Title
	}

	description := res.Description
	if description == "" {
		description = res.VariantDescription
	}
	if description == "" {
		description = "Sorry, I did not find description for " + label + " :("
	}

	var image string
	if res.Thumbnail != nil {
		image = res.Thumbnail.Path + "." + res.Thumbnail.Extension
	}

	r := Record{
		ID:          res.ID,
		Kind:        kind,
		Label:       label,
		Description: description,
		ImageURL:    image,
		DetailURL:   publicLink(res.URLs, "detail"),
		ResourceURI: res.ResourceURI,
	}

	switch kind {
	case Characters:
		r.WikiURL = publicLink(res.URLs, "wiki")
		r.ComicURL = publicLink(res.URLs, "comiclink")
	case Comics:
		r.PageCount = res.PageCount
		r.Creators = creators(res)
	case Events:
		r.WikiURL = publicLink(res.URLs, "wiki")
		r.Start, r.End = res.Start, res.End
		r.Next, r.Previous = refName(res.Next), refName(res.Previous)
	case Series:
		r.Creators = creators(res)
		r.Start, r.End = year(res.StartYear), year(res.EndYear)
		r.Next, r.Previous = refName(res.Next), refName(res.Previous)
	}

	return r
}

// publicLink returns the url of the given type with its tracking query removed.
func publicLink(links []rawLink, typ string) string {
	for _, l := range links {
		if l.Type == typ {
			url, _, _ := strings.Cut(l.URL, "?utm")
			return url
		}
	}
	return ""
}

func creators(res rawResult) []Creator {
	if len(res.Creators.Items) == 0 {
		return nil
	}
	out := make([]Creator, 0, len(res.Creators.Items))
	for _, c := range res.Creators.Items {
		out = append(out, Creator{Name: c.Name, Role: c.Role})
	}
	return out
}

func refName(ref *rawRef) string {
	if ref == nil {
		return ""
	}
	return ref.Name
}

func year(y int) string {
	if y == 0 {
		return ""
	}
	return strconv.Itoa(y)
}
