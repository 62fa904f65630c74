package sitekit

import (
	"errors"
	"testing"
)

func TestCanonicalLang(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"en", "en", false},
		{"EN", "en", false},
		{" de ", "de", false},
		{"pt-br", "pt-BR", false},
		{"zh-hant", "zh-Hant", false},
		{"", "", true},
		{"und", "", true},
		{"not a tag", "", true},
		{"../etc", "", true},
	}
	for _, tt := range tests {
		got, err := CanonicalLang(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidLanguage) {
				t.Errorf("CanonicalLang(%q) err = %v, want ErrInvalidLanguage", tt.in, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("CanonicalLang(%q) failed: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("CanonicalLang(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNewLanguages(t *testing.T) {
	l, err := NewLanguages([]string{"de", "EN", "fr", "en"}, "en")
	if err != nil {
		t.Fatalf("NewLanguages failed: %v", err)
	}
	codes := l.Codes()
	want := []string{"en", "de", "fr"}
	if len(codes) != len(want) {
		t.Fatalf("Codes = %v, want %v", codes, want)
	}
	for i := range want {
		if codes[i] != want[i] {
			t.Errorf("Codes[%d] = %q, want %q", i, codes[i], want[i])
		}
	}
	if l.Default() != "en" {
		t.Errorf("Default = %q, want en", l.Default())
	}
	if !l.Supported("fr") || l.Supported("es") {
		t.Error("Supported returned the wrong answer")
	}

	if _, err := NewLanguages([]string{"de"}, "en"); err == nil {
		t.Error("expected an error when the default is not listed")
	}
	if _, err := NewLanguages([]string{"en", "???"}, "en"); err == nil {
		t.Error("expected an error for an invalid code")
	}
}

func TestNegotiate(t *testing.T) {
	l, err := NewLanguages([]string{"en", "de", "fr"}, "en")
	if err != nil {
		t.Fatalf("NewLanguages failed: %v", err)
	}
	tests := map[string]string{
		"":                        "en",
		"de-DE,de;q=0.9,en;q=0.8": "de",
		"fr":                      "fr",
		"ja,ko;q=0.5":             "en",
		"garbage;;q=x":            "en",
	}
	for header, want := range tests {
		if got := l.Negotiate(header); got != want {
			t.Errorf("Negotiate(%q) = %q, want %q", header, got, want)
		}
	}
}
