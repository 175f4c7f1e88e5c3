package generator

import (
	"errors"
	"strings"
	"testing"
)

func words(n int) string {
	return strings.TrimSpace(strings.Repeat("word ", n))
}

func TestLengthGuide(t *testing.T) {
	tests := []struct {
		name    string
		samples []string
		want    string
	}{
		{"no samples", nil, LengthUnknown},
		{"short", []string{words(10), words(20)}, LengthShort},
		{"standard", []string{words(80), words(100)}, LengthStandard},
		{"long", []string{words(200), words(300)}, LengthLong},
		{"tiny samples ignored but counted", []string{words(60), words(3)}, LengthShort},
		{"boundary 40 is standard", []string{words(40)}, LengthStandard},
		{"boundary 150 is standard", []string{words(150)}, LengthStandard},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LengthGuide(tt.samples); got != tt.want {
				t.Errorf("LengthGuide() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestHistoryText(t *testing.T) {
	if got := HistoryText(nil); got != "No previous posts." {
		t.Errorf("empty history = %q", got)
	}

	long := strings.Repeat("я", 300)
	got := HistoryText([]string{"short", long})
	parts := strings.Split(got, "\n---\n")
	if len(parts) != 2 {
		t.Fatalf("parts = %d, want 2", len(parts))
	}
	if parts[0] != "short..." {
		t.Errorf("parts[0] = %q", parts[0])
	}
	if n := len([]rune(parts[1])); n != 203 {
		t.Errorf("excerpt length = %d runes, want 203", n)
	}
}

func TestParsePosts(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []string
	}{
		{"posts key", `{"posts": ["a", "b"]}`, []string{"a", "b"}},
		{"other list key", `{"note": "x", "drafts": ["c"]}`, []string{"c"}},
		{"first list alphabetically", `{"zeta": ["z"], "alpha": ["a"]}`, []string{"a"}},
		{"non-string items", `{"posts": [1, "b"]}`, []string{"1", "b"}},
		{"empty list", `{"posts": []}`, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePosts(tt.content)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if strings.Join(got, "|") != strings.Join(tt.want, "|") || len(got) != len(tt.want) {
				t.Errorf("ParsePosts() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParsePosts_Invalid(t *testing.T) {
	for _, content := range []string{`not json`, `{"posts": "a string"}`, `["a"]`} {
		if _, err := ParsePosts(content); !errors.Is(err, ErrMalformedResponse) {
			t.Errorf("ParsePosts(%q) err = %v, want ErrMalformedResponse", content, err)
		}
	}
}
