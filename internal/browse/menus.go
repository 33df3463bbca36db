package browse

import (
	"fmt"
	"strings"

	"github.com/Vovarama1992/marvel-chat-bot/internal/catalog"
)

// Reserved callback tokens. Item tokens are entity labels, so these stay
// short upper-case words that catalog labels are unlikely to equal.
const (
	TokenNext   = "NEXT_PAGE"
	TokenPrev   = "PREV_PAGE"
	TokenBack   = "BACK"
	TokenDone   = "DONE"
	TokenFinish = "FINISH"
)

func MenuToken(k catalog.Kind) string { return strings.ToUpper(k.Route()) }
func ListToken(k catalog.Kind) string { return "LIST_" + MenuToken(k) }
func ExactToken(k catalog.Kind) string { return "FIND_" + MenuToken(k) }
func PrefixToken(k catalog.Kind) string { return "FIND_" + MenuToken(k) + "_BEGINNING" }

var reserved = reservedTokens()

func reservedTokens() map[string]Action {
	m := map[string]Action{
		TokenNext:   Next(),
		TokenPrev:   Previous(),
		TokenBack:   Back(),
		TokenDone:   Done(),
		TokenFinish: Finish(),
	}
	for _, k := range catalog.Kinds.Members() {
		m[MenuToken(k)] = Menu(k)
		m[ListToken(k)] = List(k)
		m[ExactToken(k)] = SearchExact(k)
		m[PrefixToken(k)] = SearchPrefix(k)
	}
	return m
}

// ParseToken decodes a button token. Control tokens are matched first;
// anything else is an item selection.
func ParseToken(token string) Action {
	if a, ok := reserved[token]; ok {
		return a
	}
	return Select(token)
}

// IsReserved reports whether token is a control token.
func IsReserved(token string) bool {
	_, ok := reserved[token]
	return ok
}

const (
	TextGreetings = "Hi, I'm Marvel Bot and I'm here to help you gather information about Marvel Universe."
	TextMenu      = "You may search information about characters, comics, series, events and etc. To abort, simply type /stop."
	TextStop      = "Okay, bye."
	TextEnd       = "See you around!"
	TextAsk       = "Okay, tell me."
	TextError     = "Something went wrong on the Marvel side, please try again later."
	TextEmptyList = "Nothing to show here."
	TextHint      = "Type /start to begin."
)

func NotFoundText(value string) string {
	return "Sorry, I didn't find anything for " + value + "."
}

func KindMenuText(d catalog.Descriptor) string {
	return fmt.Sprintf(
		"You may request list of %s (in alphabetical order), try to find %s by exact %s or by its beginning",
		d.Plural, d.Plural, d.Criterion,
	)
}

func MainKeyboard() Keyboard {
	return Keyboard{
		{
			{Text: "Characters", Token: MenuToken(catalog.Characters)},
			{Text: "Comics", Token: MenuToken(catalog.Comics)},
		},
		{
			{Text: "Events", Token: MenuToken(catalog.Events)},
			{Text: "Series", Token: MenuToken(catalog.Series)},
		},
		{
			{Text: "Finish", Token: TokenFinish},
		},
	}
}

func KindKeyboard(d catalog.Descriptor) Keyboard {
	return Keyboard{
		{{Text: "List " + d.Title, Token: ListToken(d.Kind)}},
		{{Text: "Find by " + d.Criterion, Token: ExactToken(d.Kind)}},
		{{Text: "Find by " + d.Criterion + " beginning", Token: PrefixToken(d.Kind)}},
		closingRow(),
	}
}

func closingRow() []Button {
	return []Button{
		{Text: "Back", Token: TokenBack},
		{Text: "Done", Token: TokenDone},
	}
}
