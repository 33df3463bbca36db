package browse

import (
	"context"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/Vovarama1992/marvel-chat-bot/internal/catalog"
)

const DefaultPageSize = 10

// MaxTokenBytes bounds a button token. Rendering and resolving both truncate
// labels with it, otherwise long labels could never be selected.
const MaxTokenBytes = 64

// Window is one fetched page, sorted for display.
type Window struct {
	Records []catalog.Record // sorted by label, ties keep gateway order
	Offset  int              // where this page starts
	Next    int              // cursor after the forward advance
	Total   int
	HasMore bool
}

// HasPrev reports whether a page precedes this one.
func (w Window) HasPrev() bool { return w.Offset > 0 }

func (w Window) Labels() []string {
	out := make([]string, len(w.Records))
	for i, r := range w.Records {
		out[i] = r.Label
	}
	return out
}

// Pager issues bounded page-sized queries through the gateway.
type Pager struct {
	gateway catalog.Gateway
	size    int
}

func NewPager(gateway catalog.Gateway, size int) *Pager {
	if size <= 0 {
		size = DefaultPageSize
	}
	return &Pager{gateway: gateway, size: size}
}

func (p *Pager) Size() int { return p.size }

// FetchPage loads the page starting at offset.
func (p *Pager) FetchPage(ctx context.Context, kind catalog.Kind, offset int, filters map[string]string) (Window, error) {
	page, err := p.gateway.Fetch(ctx, kind, catalog.Query{
		Limit:   p.size,
		Offset:  offset,
		Filters: filters,
	})
	if err != nil {
		return Window{}, err
	}

	records := slices.Clone(page.Records)
	slices.SortStableFunc(records, func(a, b catalog.Record) int {
		return strings.Compare(a.Label, b.Label)
	})

	return Window{
		Records: records,
		Offset:  offset,
		Next:    Advance(offset, p.size, page.Returned),
		Total:   page.Total,
		HasMore: HasMore(offset, p.size, page.Total),
	}, nil
}

func HasMore(offset, size, total int) bool {
	return offset+size < total
}

// Advance moves the cursor past a page that returned `returned` records.
func Advance(offset, size, returned int) int {
	return offset + min(size, returned)
}

// Retreat moves a cursor that already sits past the rendered page back to the
// start of the page before it. A short tail page is undone by its own length.
// The result never drops below zero.
func Retreat(offset, size int) int {
	step := offset % size
	if step == 0 {
		step = size
	}
	return max(offset-(size+step), 0)
}

// Truncate cuts a label to a button token on a rune boundary.
func Truncate(label string) string {
	if len(label) <= MaxTokenBytes {
		return label
	}
	cut := MaxTokenBytes
	for cut > 0 && !utf8.RuneStart(label[cut]) {
		cut--
	}
	return label[:cut]
}

// RenderKeyboard builds the selection keyboard of a page: one button per label
// in the given order, a paging row, then Back/Done. No labels means no keyboard.
func RenderKeyboard(labels []string, prev, more bool) Keyboard {
	if len(labels) == 0 {
		return nil
	}
	kb := make(Keyboard, 0, len(labels)+2)
	for _, l := range labels {
		kb = append(kb, []Button{{Text: l, Token: Truncate(l)}})
	}
	return append(kb, controls(prev, more)...)
}

// ControlsKeyboard is the keyboard of an empty page.
func ControlsKeyboard(prev, more bool) Keyboard {
	return controls(prev, more)
}

func controls(prev, more bool) Keyboard {
	var kb Keyboard
	var paging []Button
	if prev {
		paging = append(paging, Button{Text: "Prev", Token: TokenPrev})
	}
	if more {
		paging = append(paging, Button{Text: "Next", Token: TokenNext})
	}
	if len(paging) > 0 {
		kb = append(kb, paging)
	}
	return append(kb, closingRow())
}
