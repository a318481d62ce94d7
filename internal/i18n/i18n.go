// Package i18n provides localized labels and humanized times for API responses.
package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"sync"
	"time"

	"github.com/Xuanwo/go-locale"
	"github.com/vorlif/humanize"
	"github.com/vorlif/spreak"
	"github.com/vorlif/spreak/localize"
	"golang.org/x/text/language"
)

//go:embed locale/*
var locales embed.FS

// Translator localizes message IDs and renders times for one language.
type Translator struct {
	tag       language.Tag
	localizer *spreak.Localizer
	humanizer *humanize.Humanizer
}

// Registry loads the translation bundle once and hands out translators per language.
type Registry struct {
	bundle      *spreak.Bundle
	humanizers  *humanize.Collection
	fallback    language.Tag
	mu          sync.Mutex
	translators map[language.Tag]*Translator
}

// NewRegistry loads the embedded catalogs. An empty loc detects the system locale,
// falling back to English.
func NewRegistry(loc string) (*Registry, error) {
	tag := language.Make(loc)
	if loc == "" {
		detected, err := locale.Detect()
		if err != nil {
			detected = language.English // Unable to detect locale, fallback to English
		}
		tag = detected
	}

	localeFS, err := fs.Sub(locales, "locale")
	if err != nil {
		return nil, fmt.Errorf("failed to load locales: %w", err)
	}

	bundle, err := spreak.NewBundle(
		spreak.WithSourceLanguage(language.English),
		spreak.WithFallbackLanguage(language.English),
		spreak.WithDomainFs("", localeFS),
		spreak.WithLanguage(language.Vietnamese, tag),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create i18n bundle: %w", err)
	}

	humanizers, err := humanize.New()
	if err != nil {
		return nil, fmt.Errorf("failed to create humanizer: %w", err)
	}

	return &Registry{
		bundle:      bundle,
		humanizers:  humanizers,
		fallback:    tag,
		translators: make(map[language.Tag]*Translator),
	}, nil
}

// Default returns the translator for the registry's configured language.
func (r *Registry) Default() *Translator {
	return r.For(r.fallback)
}

// Lookup parses a BCP 47 language string; an empty or invalid value yields Default.
func (r *Registry) Lookup(lang string) *Translator {
	if lang == "" {
		return r.Default()
	}
	tag, err := language.Parse(lang)
	if err != nil {
		return r.Default()
	}
	return r.For(tag)
}

// For returns the translator for tag, creating it on first use.
func (r *Registry) For(tag language.Tag) *Translator {
	r.mu.Lock()
	defer r.mu.Unlock()

	if t, ok := r.translators[tag]; ok {
		return t
	}
	t := &Translator{
		tag:       tag,
		localizer: spreak.NewLocalizer(r.bundle, tag),
		humanizer: r.humanizers.CreateHumanizer(tag),
	}
	r.translators[tag] = t
	return t
}

// Language returns the language the translator was requested for.
func (t *Translator) Language() language.Tag {
	return t.tag
}

// Get translates a message ID, returning it unchanged when no translation exists.
func (t *Translator) Get(id localize.MsgID) string {
	return t.localizer.Get(id)
}

// Ago renders ts relative to now, e.g. "2 hours ago".
func (t *Translator) Ago(ts time.Time) string {
	return t.humanizer.NaturalTime(ts)
}

// FormatTime renders ts in the language's time format.
func (t *Translator) FormatTime(ts time.Time) string {
	return t.humanizer.FormatTime(ts, humanize.TimeFormat)
}
