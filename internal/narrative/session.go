package narrative

import (
	"context"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"mav.press/pressroom/internal/language"
	"mav.press/pressroom/internal/translation"
)

// State is the controller's externally visible phase.
type State string

const (
	StateIdle                 State = "idle"
	StateDisplayingEnglish    State = "displaying_english"
	StateTranslating          State = "translating"
	StateDisplayingTranslated State = "displaying_translated"
	StateDisplayingDegraded   State = "displaying_degraded"
)

// Display is the text a session currently shows. Diagnostic marks text
// carrying a provider note, so no caller ever has to sniff the string.
type Display struct {
	Text       string
	Lang       string
	Diagnostic bool
}

// Session keeps one narrative's displayed text in sync with its selected
// language. All state lives on the instance; concurrent sessions never
// share anything. The English original is the only text ever submitted for
// translation, so annotated output cannot feed back into the chain.
type Session struct {
	translator Translator
	logger     zerolog.Logger

	mu                 sync.Mutex
	original           string
	originalDiagnostic bool
	selectedLang       string
	lastTranslatedLang string
	inFlightLang       string
	seq                uint64
	displayed          Display
}

func NewSession(translator Translator, logger zerolog.Logger) *Session {
	return &Session{
		translator: translator,
		logger:     logger,
	}
}

// Display returns the current display snapshot.
func (s *Session) Display() Display {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.displayed
}

// SelectedLang returns the language the session is set to.
func (s *Session) SelectedLang() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectedLang
}

// State derives the controller state from session fields.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case s.original == "":
		return StateIdle
	case s.inFlightLang != "":
		return StateTranslating
	case s.displayed.Diagnostic:
		return StateDisplayingDegraded
	case s.displayed.Lang == translation.PivotLang || s.displayed.Lang == "":
		return StateDisplayingEnglish
	default:
		return StateDisplayingTranslated
	}
}

// Regenerate installs freshly generated English text and re-enters the
// language-change path with the currently selected language. This is the
// single entry point shared with SetLanguage, per the session's contract.
func (s *Session) Regenerate(ctx context.Context, generated string) {
	s.mu.Lock()
	s.original = generated
	// Tag regenerated input that already carries a provider note so it is
	// displayed as-is instead of being re-submitted.
	s.originalDiagnostic = strings.Contains(generated, translation.NoteMarker)
	s.lastTranslatedLang = ""
	s.inFlightLang = ""
	s.seq++
	s.displayed = Display{Text: generated, Lang: translation.PivotLang, Diagnostic: s.originalDiagnostic}
	selected := s.selectedLang
	s.mu.Unlock()

	if selected != "" {
		s.SetLanguage(ctx, selected)
	}
}

// SetLanguage switches the displayed language. Pivot selections restore the
// original with no network call. Redundant selections (already translated
// or already in flight for the same language) are suppressed. Overlapping
// calls resolve last-write-wins: only the most recent transition may apply
// its result.
func (s *Session) SetLanguage(ctx context.Context, lang string) {
	code := language.NormalizeCode(lang)
	if code == "" {
		return
	}

	s.mu.Lock()
	s.selectedLang = code

	if s.original == "" {
		s.mu.Unlock()
		return
	}

	if code == translation.PivotLang {
		s.seq++
		s.inFlightLang = ""
		s.lastTranslatedLang = translation.PivotLang
		s.displayed = Display{Text: s.original, Lang: translation.PivotLang, Diagnostic: s.originalDiagnostic}
		s.mu.Unlock()
		return
	}

	if code == s.inFlightLang {
		s.mu.Unlock()
		return
	}

	if code == s.lastTranslatedLang {
		// The display already matches this selection. Abandon any request
		// still in flight for another language so its resolution cannot
		// overwrite the current text.
		s.seq++
		s.inFlightLang = ""
		s.mu.Unlock()
		return
	}

	if s.originalDiagnostic {
		// Annotated text is never translation input; show it unchanged.
		s.lastTranslatedLang = code
		s.displayed = Display{Text: s.original, Lang: code, Diagnostic: true}
		s.mu.Unlock()
		return
	}

	s.seq++
	mySeq := s.seq
	s.inFlightLang = code
	text := s.original
	s.mu.Unlock()

	outcome := s.translator.Translate(ctx, text, translation.PivotLang, code)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.seq != mySeq {
		// A later selection or regeneration superseded this request.
		s.logger.Debug().Str("lang", code).Msg("discarding stale translation result")
		return
	}
	s.inFlightLang = ""
	if outcome.TransportFailed {
		// The text is still the English original. Leave lastTranslatedLang
		// unset so re-selecting the language retries instead of being
		// suppressed by the already-translated guard.
		s.lastTranslatedLang = ""
		s.displayed = Display{Text: outcome.Text, Lang: translation.PivotLang, Diagnostic: true}
		return
	}
	s.lastTranslatedLang = code
	s.displayed = Display{
		Text:       outcome.Text,
		Lang:       code,
		Diagnostic: outcome.Degraded,
	}
}
