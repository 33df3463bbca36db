package browse

import "github.com/Vovarama1992/marvel-chat-bot/internal/catalog"

// Resolve maps a selection token back to the displayed record it came from.
// Records are scanned in stored order and the first truncated label equal to
// the token wins.
func Resolve(token string, displayed []catalog.Record) (catalog.Record, bool) {
	for _, r := range displayed {
		if Truncate(r.Label) == token {
			return r, true
		}
	}
	return catalog.Record{}, false
}
