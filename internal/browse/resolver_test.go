package browse

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vovarama1992/marvel-chat-bot/internal/catalog"
)

func TestResolveRoundTrip(t *testing.T) {
	displayed := []catalog.Record{
		{ID: 1, Label: "Hulk"},
		{ID: 2, Label: "Iron Man"},
		{ID: 3, Label: strings.Repeat("z", MaxTokenBytes)},
	}
	for _, want := range displayed {
		got, ok := Resolve(want.Label, displayed)
		require.True(t, ok, want.Label)
		assert.Equal(t, want, got)
	}
}

func TestResolveLongLabel(t *testing.T) {
	label := strings.Repeat("Amazing ", 20)
	displayed := []catalog.Record{{ID: 9, Label: label}}

	kb := RenderKeyboard([]string{label}, false, false)
	got, ok := Resolve(kb[0][0].Token, displayed)
	require.True(t, ok)
	assert.Equal(t, int64(9), got.ID)
}

func TestResolveTruncationCollision(t *testing.T) {
	prefix := strings.Repeat("p", MaxTokenBytes)
	displayed := []catalog.Record{
		{ID: 1, Label: prefix + " (2019)"},
		{ID: 2, Label: prefix + " (2020)"},
	}

	got, ok := Resolve(Truncate(displayed[1].Label), displayed)
	require.True(t, ok)
	assert.Equal(t, int64(1), got.ID, "first record in stored order wins")
}

func TestResolveNoMatch(t *testing.T) {
	_, ok := Resolve("Thor", []catalog.Record{{Label: "Loki"}})
	assert.False(t, ok)

	_, ok = Resolve("Thor", nil)
	assert.False(t, ok)
}

func TestParseToken(t *testing.T) {
	assert.Equal(t, Next(), ParseToken(TokenNext))
	assert.Equal(t, Previous(), ParseToken(TokenPrev))
	assert.Equal(t, Back(), ParseToken(TokenBack))
	assert.Equal(t, Done(), ParseToken(TokenDone))
	assert.Equal(t, Finish(), ParseToken(TokenFinish))
	assert.Equal(t, Menu(catalog.Comics), ParseToken("COMICS"))
	assert.Equal(t, List(catalog.Series), ParseToken("LIST_SERIES"))
	assert.Equal(t, SearchExact(catalog.Events), ParseToken("FIND_EVENTS"))
	assert.Equal(t, SearchPrefix(catalog.Characters), ParseToken("FIND_CHARACTERS_BEGINNING"))

	assert.Equal(t, Select("Spider-Man"), ParseToken("Spider-Man"))
	assert.True(t, IsReserved(TokenNext))
	assert.False(t, IsReserved("Spider-Man"))
}
