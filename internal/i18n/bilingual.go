// Package i18n defines the bilingual text value used by every user-facing
// field in the catalog. Text is stored exactly as supplied per language and
// resolved only at the read boundary.
package i18n

import (
	"sort"
	"strings"
)

// Language codes the site ships with. Values are not limited to these two;
// any lower-case code can appear as a key.
const (
	LangIndonesian = "id"
	LangEnglish    = "en"
)

// BilingualText maps a language code to the text in that language.
// It serializes as a plain JSON object, e.g. {"id":"Halo","en":"Hello"}.
// Values are replaced wholesale on edit, never merged field by field.
type BilingualText map[string]string

// New builds a value from the two primary languages.
func New(indonesian, english string) BilingualText {
	return BilingualText{LangIndonesian: indonesian, LangEnglish: english}
}

// Resolve returns the text for the requested language code. It is total:
// a missing or empty entry falls back to English, then Indonesian, then the
// first non-empty entry in sorted key order, then the empty string.
func (b BilingualText) Resolve(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if s := b[lang]; s != "" {
		return s
	}
	if s := b[LangEnglish]; s != "" {
		return s
	}
	if s := b[LangIndonesian]; s != "" {
		return s
	}
	keys := make([]string, 0, len(b))
	for k := range b {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if s := b[k]; s != "" {
			return s
		}
	}
	return ""
}

// IsEmpty reports whether every entry is empty.
func (b BilingualText) IsEmpty() bool {
	for _, s := range b {
		if s != "" {
			return false
		}
	}
	return true
}

// Matches reports whether any entry equals want, ignoring case.
// Used for category filters where the client may send either language.
func (b BilingualText) Matches(want string) bool {
	want = strings.TrimSpace(want)
	for _, s := range b {
		if strings.EqualFold(s, want) {
			return true
		}
	}
	return false
}

// Contains reports whether any entry contains sub, ignoring case.
func (b BilingualText) Contains(sub string) bool {
	sub = strings.ToLower(strings.TrimSpace(sub))
	if sub == "" {
		return true
	}
	for _, s := range b {
		if strings.Contains(strings.ToLower(s), sub) {
			return true
		}
	}
	return false
}

// Clone returns an independent copy. Callers hand out clones where the
// original must stay immutable.
func (b BilingualText) Clone() BilingualText {
	if b == nil {
		return nil
	}
	out := make(BilingualText, len(b))
	for k, v := range b {
		out[k] = v
	}
	return out
}
