package sitekit

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// ErrInvalidLanguage is returned for language codes that are not BCP 47 tags.
var ErrInvalidLanguage = errors.New("invalid language")

// CanonicalLang parses raw as a BCP 47 tag and returns its canonical form,
// e.g. "EN" -> "en" and "pt-br" -> "pt-BR".
func CanonicalLang(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrInvalidLanguage
	}
	tag, err := language.Parse(raw)
	if err != nil || tag == language.Und {
		return "", fmt.Errorf("%w: %q", ErrInvalidLanguage, raw)
	}
	return tag.String(), nil
}

// Languages is the set of languages a site publishes in.
type Languages struct {
	codes   []string
	def     string
	matcher language.Matcher
}

// NewLanguages canonicalizes codes and builds a matcher for content
// negotiation. def must be one of codes; it is moved to the front so the
// matcher falls back to it.
func NewLanguages(codes []string, def string) (*Languages, error) {
	defCode, err := CanonicalLang(def)
	if err != nil {
		return nil, err
	}
	seen := map[string]struct{}{defCode: {}}
	ordered := []string{defCode}
	found := false
	for _, raw := range codes {
		code, err := CanonicalLang(raw)
		if err != nil {
			return nil, err
		}
		if code == defCode {
			found = true
		}
		if _, ok := seen[code]; ok {
			continue
		}
		seen[code] = struct{}{}
		ordered = append(ordered, code)
	}
	if !found {
		return nil, fmt.Errorf("default language %q is not in %v", defCode, codes)
	}
	tags := make([]language.Tag, len(ordered))
	for i, code := range ordered {
		tags[i] = language.MustParse(code)
	}
	return &Languages{
		codes:   ordered,
		def:     defCode,
		matcher: language.NewMatcher(tags),
	}, nil
}

// Codes returns the supported language codes, default first.
func (l *Languages) Codes() []string {
	out := make([]string, len(l.codes))
	copy(out, l.codes)
	return out
}

// Default returns the default language code.
func (l *Languages) Default() string {
	return l.def
}

// Supported reports whether code (already canonical) is published.
func (l *Languages) Supported(code string) bool {
	for _, c := range l.codes {
		if c == code {
			return true
		}
	}
	return false
}

// Negotiate picks the best supported language for an Accept-Language header.
func (l *Languages) Negotiate(acceptLanguage string) string {
	acceptLanguage = strings.TrimSpace(acceptLanguage)
	if acceptLanguage == "" {
		return l.def
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return l.def
	}
	_, idx, conf := l.matcher.Match(tags...)
	if conf == language.No {
		return l.def
	}
	return l.codes[idx]
}
