package distribution

import (
	"strings"
	"testing"
	"unicode"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "youtube watch url",
			input: "https://www.youtube.com/watch?v=6dyWlM4ej3Q",
			want:  "https_-_www.youtube.com_watchv=6dyWlM4ej3Q",
		},
		{
			name:  "ampersand and spaces",
			input: "http://example.com/a b&c",
			want:  "http_-_example.com_a_b_c",
		},
		{
			name:  "timestamp colons become underscores",
			input: "at 1:30:05",
			want:  "at_1_30_05",
		},
		{
			name:  "accented letters are folded",
			input: "café",
			want:  "cafe",
		},
		{
			name:  "non latin runes become underscores",
			input: "a日本b",
			want:  "a_b",
		},
		{
			name:  "leading dash",
			input: "-abc",
			want:  "_abc",
		},
		{
			name:  "leading dash underscore",
			input: "-_abc",
			want:  "abc",
		},
		{
			name:  "leading dots trimmed",
			input: "..hidden",
			want:  "hidden",
		},
		{
			name:  "only removed characters",
			input: "???",
			want:  "_",
		},
		{
			name:  "empty string",
			input: "",
			want:  "_",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeFilename(tt.input); got != tt.want {
				t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestDeriveKey(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"https://www.youtube.com/watch?v=6dyWlM4ej3Q", "youtube.com_watchv=6dyWlM4ej3Q.mp3"},
		{"http://example.com/watch?v=1", "example.com_watchv=1.mp3"},
		{"https://vimeo.com/12345", "vimeo.com_12345.mp3"},
		{"youtu.be/6dyWlM4ej3Q", "youtu.be_6dyWlM4ej3Q.mp3"},
		{"https://wwwx.example.com/v", "wwwx.example.com_v.mp3"},
		{"http://example.com/a%20b", "example.com_a%20b.mp3"},
		{"http://www.", "_.mp3"},
		{"https://m.", "_.mp3"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := DeriveKey(tt.input); got != tt.want {
				t.Errorf("DeriveKey(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestDeriveKey_VariantsCollapse(t *testing.T) {
	groups := [][]string{
		{
			"https://www.youtube.com/watch?v=X",
			"http://www.youtube.com/watch?v=X",
			"https://m.youtube.com/watch?v=X",
			"http://m.youtube.com/watch?v=X",
			"https://mobile.youtube.com/watch?v=X",
			"https://youtube.com/watch?v=X",
		},
		{
			"http://example.com/watch?v=1",
			"https://www.example.com/watch?v=1",
			"http://mobile.example.com/watch?v=1",
		},
	}

	for _, variants := range groups {
		want := DeriveKey(variants[0])
		for _, v := range variants[1:] {
			if got := DeriveKey(v); got != want {
				t.Errorf("DeriveKey(%q) = %q, want %q (same as %q)", v, got, want, variants[0])
			}
		}
	}
}

func TestDeriveKey_Deterministic(t *testing.T) {
	input := "https://www.youtube.com/watch?v=abc&list=PL1 2"
	first := DeriveKey(input)
	for i := 0; i < 10; i++ {
		if got := DeriveKey(input); got != first {
			t.Fatalf("DeriveKey() not deterministic: %q != %q", got, first)
		}
	}
}

func TestDeriveKey_LegalCharacters(t *testing.T) {
	inputs := []string{
		"https://www.youtube.com/watch?v=abc&list=PL1",
		"http://example.com/some path/with\ttabs",
		"https://example.com/<script>alert('x')</script>",
		"not a url at all",
		"",
	}

	for _, input := range inputs {
		key := DeriveKey(input)
		if strings.Contains(key, "&") {
			t.Errorf("DeriveKey(%q) = %q contains '&'", input, key)
		}
		if strings.Contains(key, "://") || strings.HasPrefix(key, "http") {
			t.Errorf("DeriveKey(%q) = %q contains a scheme", input, key)
		}
		for _, r := range key {
			if unicode.IsSpace(r) {
				t.Errorf("DeriveKey(%q) = %q contains whitespace", input, key)
			}
		}
		if !strings.HasSuffix(key, AudioExtension) {
			t.Errorf("DeriveKey(%q) = %q missing %s extension", input, key, AudioExtension)
		}
	}
}
