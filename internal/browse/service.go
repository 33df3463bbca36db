package browse

import (
	"context"
	"log"
	"strings"

	"github.com/Vovarama1992/marvel-chat-bot/internal/catalog"
	"github.com/Vovarama1992/marvel-chat-bot/internal/journal"
	"github.com/Vovarama1992/marvel-chat-bot/internal/session"
)

type service struct {
	store   session.Store
	pager   *Pager
	journal journal.Journal
}

func NewService(store session.Store, pager *Pager, j journal.Journal) Service {
	if j == nil {
		j = journal.Nop{}
	}
	return &service{
		store:   store,
		pager:   pager,
		journal: j,
	}
}

// turn collects the replies of one inbound event.
type turn struct {
	ev      Event
	sess    *session.Session
	replies []Reply
}

// show edits the message the button came from, or sends a new one when the
// event was typed text or that message is gone.
func (t *turn) show(text string, kb Keyboard) {
	if t.ev.Callback && t.ev.MessageID != 0 && !t.sess.MessageDeleted {
		t.replies = append(t.replies, Reply{Kind: ReplyEdit, MessageID: t.ev.MessageID, Text: text, Keyboard: kb})
		return
	}
	t.send(text, kb)
}

func (t *turn) send(text string, kb Keyboard) {
	t.sess.MessageDeleted = false
	t.replies = append(t.replies, Reply{Kind: ReplySend, Text: text, Keyboard: kb})
}

func (s *service) Handle(ctx context.Context, ev Event) ([]Reply, error) {
	var replies []Reply

	err := s.store.Update(ctx, ev.ChatID, func(sess *session.Session) error {
		t := &turn{ev: ev, sess: sess}
		s.step(ctx, t)
		replies = t.replies
		return nil
	})
	if err != nil {
		return nil, err
	}

	return replies, nil
}

func (s *service) step(ctx context.Context, t *turn) {
	a := t.ev.Action
	sess := t.sess

	log.Printf("[svc] chat=%d stage=%s action=%d offset=%d", sess.ChatID, sess.Stage, a.Kind, sess.Offset)

	switch a.Kind {
	case ActStart:
		sess.Reset()
		sess.Stage = session.StageMainMenu
		t.send(TextGreetings, nil)
		t.send(TextMenu, MainKeyboard())

	case ActStop:
		sess.Reset()
		t.send(TextStop, nil)

	case ActFinish:
		sess.Reset()
		t.show(TextEnd, nil)

	case ActMenu:
		s.kindMenu(t, a.Entity)

	case ActDone:
		s.mainMenu(t)

	case ActBack:
		switch sess.Stage {
		case session.StageListing, session.StageAwaitingInput:
			s.kindMenu(t, sess.Kind)
		default:
			s.mainMenu(t)
		}

	case ActList:
		s.enter(sess, a.Entity, catalog.MatchNone)
		s.list(ctx, t)

	case ActSearchExact:
		s.enter(sess, a.Entity, catalog.MatchExact)
		s.search(ctx, t)

	case ActSearchPrefix:
		s.enter(sess, a.Entity, catalog.MatchPrefix)
		s.search(ctx, t)

	case ActNext:
		s.page(ctx, t)

	case ActPrevious:
		if sess.Stage == session.StageListing {
			sess.Offset = Retreat(sess.Offset, s.pager.Size())
		}
		s.page(ctx, t)

	case ActSelect:
		s.selectItem(t, a.Token)

	case ActSubmitText:
		s.submit(ctx, t, a.Text)

	default:
		log.Printf("[svc] chat=%d unknown action %d", sess.ChatID, a.Kind)
	}
}

// enter starts a fresh listing or search of a kind.
func (s *service) enter(sess *session.Session, k catalog.Kind, m catalog.Match) {
	sess.Kind = k
	sess.Match = m
	sess.Offset = 0
	sess.SearchValue = ""
	sess.Displayed = nil
}

func (s *service) mainMenu(t *turn) {
	t.sess.Reset()
	t.sess.Stage = session.StageMainMenu
	t.show(TextMenu, MainKeyboard())
}

func (s *service) kindMenu(t *turn, k catalog.Kind) {
	if k.IsZero() {
		s.mainMenu(t)
		return
	}

	sess := t.sess
	sess.Stage = session.StageKindMenu
	sess.Kind = k
	sess.Match = catalog.MatchNone
	sess.Offset = 0
	sess.SearchValue = ""
	sess.Displayed = nil

	d := catalog.Describe(k)
	t.show(KindMenuText(d), KindKeyboard(d))
}

// page repeats the current listing or search at the session's cursor.
func (s *service) page(ctx context.Context, t *turn) {
	sess := t.sess
	if sess.Stage != session.StageListing || sess.Kind.IsZero() {
		log.Printf("[svc] chat=%d stale paging button at stage=%s", sess.ChatID, sess.Stage)
		s.kindMenu(t, sess.Kind)
		return
	}

	if sess.Match == catalog.MatchNone {
		s.list(ctx, t)
		return
	}
	s.search(ctx, t)
}

func (s *service) list(ctx context.Context, t *turn) {
	w, ok := s.fetch(ctx, t, "")
	if !ok {
		return
	}

	if len(w.Records) == 0 {
		t.show(TextEmptyList, ControlsKeyboard(w.HasPrev(), w.HasMore))
		return
	}

	labels := w.Labels()
	t.show(strings.Join(labels, "\n"), RenderKeyboard(labels, w.HasPrev(), w.HasMore))
}

// search runs the pending search of the session. Without a search value it
// asks the user for one first and resumes on the next typed text.
func (s *service) search(ctx context.Context, t *turn) {
	sess := t.sess

	if sess.SearchValue == "" {
		sess.Pending = session.Pending{Kind: sess.Kind, Match: sess.Match}
		sess.Stage = session.StageAwaitingInput
		t.show(TextAsk, nil)
		return
	}

	value := sess.SearchValue
	w, ok := s.fetch(ctx, t, value)
	if !ok {
		return
	}

	if len(w.Records) == 0 {
		d := catalog.Describe(sess.Kind)
		sess.Stage = session.StageKindMenu
		sess.Match = catalog.MatchNone
		sess.SearchValue = ""
		sess.Offset = 0
		sess.Displayed = nil

		t.send(NotFoundText(value), nil)
		t.send(KindMenuText(d), KindKeyboard(d))
		return
	}

	labels := w.Labels()
	t.show(strings.Join(labels, "\n"), RenderKeyboard(labels, w.HasPrev(), w.HasMore))
}

func (s *service) submit(ctx context.Context, t *turn, text string) {
	sess := t.sess

	if sess.Stage != session.StageAwaitingInput || sess.Pending.Kind.IsZero() {
		if sess.Stage == session.StageIdle {
			t.send(TextHint, nil)
		}
		return
	}

	text = strings.TrimSpace(text)
	if text == "" {
		t.send(TextAsk, nil)
		return
	}

	sess.Kind = sess.Pending.Kind
	sess.Match = sess.Pending.Match
	sess.SearchValue = text
	sess.Offset = 0
	s.search(ctx, t)
}

// fetch loads the page at the session cursor and records it as displayed.
// On gateway failure the chat is sent back to the main menu.
func (s *service) fetch(ctx context.Context, t *turn, value string) (Window, bool) {
	sess := t.sess
	d := catalog.Describe(sess.Kind)

	w, err := s.pager.FetchPage(ctx, sess.Kind, sess.Offset, d.Filters(sess.Match, value))
	if err != nil {
		log.Printf("[svc] chat=%d fetch %s offset=%d failed: %v", sess.ChatID, sess.Kind, sess.Offset, err)
		s.fail(t)
		return Window{}, false
	}

	sess.Displayed = w.Records
	sess.Offset = w.Next
	sess.Stage = session.StageListing

	if err := s.journal.Record(ctx, &journal.Entry{
		ChatID:   sess.ChatID,
		Kind:     sess.Kind.Route(),
		Match:    sess.Match.String(),
		Value:    value,
		Offset:   w.Offset,
		Returned: len(w.Records),
		Total:    w.Total,
	}); err != nil {
		log.Printf("[svc] chat=%d journal error: %v", sess.ChatID, err)
	}

	return w, true
}

func (s *service) fail(t *turn) {
	t.sess.Reset()
	t.sess.Stage = session.StageMainMenu
	t.show(TextError, MainKeyboard())
}

// selectItem shows the detail card of the tapped record, removes the list
// message and returns to the kind menu. A token that matches nothing only
// returns to the menu.
func (s *service) selectItem(t *turn, token string) {
	sess := t.sess
	k := sess.Kind
	if k.IsZero() {
		s.mainMenu(t)
		return
	}

	if r, ok := Resolve(token, sess.Displayed); ok {
		t.replies = append(t.replies, Reply{
			Kind:     ReplyPhoto,
			ImageURL: r.ImageURL,
			Text:     catalog.Caption(r),
		})
	} else {
		log.Printf("[svc] chat=%d no displayed record for token %q", sess.ChatID, token)
	}

	if t.ev.MessageID != 0 {
		t.replies = append(t.replies, Reply{Kind: ReplyDelete, MessageID: t.ev.MessageID})
		sess.MessageDeleted = true
	}

	sess.Offset = 0
	s.kindMenu(t, k)
}
