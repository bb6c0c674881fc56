package i18n

import (
	"encoding/json"
	"testing"
)

func TestResolve_RequestedLanguage(t *testing.T) {
	b := New("Halo", "Hello")
	if got := b.Resolve("id"); got != "Halo" {
		t.Fatalf("expected 'Halo', got %q", got)
	}
	if got := b.Resolve("en"); got != "Hello" {
		t.Fatalf("expected 'Hello', got %q", got)
	}
}

func TestResolve_FallbackToEnglish(t *testing.T) {
	b := BilingualText{"en": "Hello"}
	if got := b.Resolve("id"); got != "Hello" {
		t.Fatalf("expected fallback to 'Hello', got %q", got)
	}
}

func TestResolve_FallbackToIndonesian(t *testing.T) {
	b := BilingualText{"id": "Halo"}
	if got := b.Resolve("fr"); got != "Halo" {
		t.Fatalf("expected fallback to 'Halo', got %q", got)
	}
}

func TestResolve_FallbackToFirstNonEmpty(t *testing.T) {
	b := BilingualText{"id": "", "en": "", "ja": "やあ", "fr": "Salut"}
	// sorted key order: fr before ja
	if got := b.Resolve("de"); got != "Salut" {
		t.Fatalf("expected 'Salut' (first non-empty in sorted order), got %q", got)
	}
}

func TestResolve_AllEmpty(t *testing.T) {
	if got := (BilingualText{"id": "", "en": ""}).Resolve("en"); got != "" {
		t.Fatalf("expected empty string, got %q", got)
	}
	if got := (BilingualText)(nil).Resolve("en"); got != "" {
		t.Fatalf("expected empty string for nil value, got %q", got)
	}
}

// Total fallback: resolution is non-empty whenever any entry is non-empty.
func TestResolve_TotalFallback(t *testing.T) {
	values := []BilingualText{
		{"id": "a"},
		{"en": "b"},
		{"zz": "c"},
		{"id": "", "en": "", "ko": "d"},
		New("x", "y"),
	}
	codes := []string{"id", "en", "fr", "ja", "", "ID", " en "}
	for _, v := range values {
		for _, code := range codes {
			if v.Resolve(code) == "" {
				t.Fatalf("Resolve(%q) empty for %v", code, v)
			}
		}
	}
}

func TestResolve_NormalizesCode(t *testing.T) {
	b := New("Halo", "Hello")
	if got := b.Resolve(" EN "); got != "Hello" {
		t.Fatalf("expected 'Hello' for ' EN ', got %q", got)
	}
}

func TestResolve_RoundTripThroughJSON(t *testing.T) {
	b := New("Halo", "Hello")
	raw, err := json.Marshal(b)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back BilingualText
	if err := json.Unmarshal(raw, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.Resolve("id") != b.Resolve("id") || back.Resolve("en") != b.Resolve("en") {
		t.Fatalf("round trip changed resolution: %v vs %v", back, b)
	}
}

func TestMatches(t *testing.T) {
	b := New("Doraemon", "Doraemon")
	if !b.Matches("doraemon") {
		t.Fatal("expected case-insensitive match")
	}
	if b.Matches("Shin-chan") {
		t.Fatal("expected no match")
	}
}

func TestContains(t *testing.T) {
	b := New("Petualangan Nobita", "Nobita's Adventure")
	if !b.Contains("nobita") {
		t.Fatal("expected substring match in either language")
	}
	if b.Contains("giant") {
		t.Fatal("expected no match")
	}
	if !b.Contains("") {
		t.Fatal("empty search matches everything")
	}
}

func TestClone_Independent(t *testing.T) {
	b := New("Halo", "Hello")
	c := b.Clone()
	c["en"] = "changed"
	if b["en"] != "Hello" {
		t.Fatal("clone mutation leaked into original")
	}
}

func TestIsEmpty(t *testing.T) {
	if !(BilingualText{"id": "", "en": ""}).IsEmpty() {
		t.Fatal("expected empty")
	}
	if New("", "x").IsEmpty() {
		t.Fatal("expected non-empty")
	}
}
