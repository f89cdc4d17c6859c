package bookmark

import (
	"strings"
	"testing"

	"huffduff-video/domain/media"
)

func TestTruncateDescription(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantLen  int
		wantTail string
	}{
		{
			name:     "long description truncated",
			input:    strings.Repeat("a", 2000),
			wantLen:  1503,
			wantTail: "aaa...",
		},
		{
			name:    "short description unchanged",
			input:   strings.Repeat("b", 1000),
			wantLen: 1000,
		},
		{
			name:    "exactly at limit unchanged",
			input:   strings.Repeat("c", 1500),
			wantLen: 1500,
		},
		{
			name:     "multibyte runes counted as characters",
			input:    strings.Repeat("é", 1600),
			wantLen:  1503,
			wantTail: "é...",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TruncateDescription(tt.input, DefaultDescriptionLimit)
			if n := len([]rune(got)); n != tt.wantLen {
				t.Errorf("TruncateDescription() length = %d, want %d", n, tt.wantLen)
			}
			if tt.wantTail != "" && !strings.HasSuffix(got, tt.wantTail) {
				t.Errorf("TruncateDescription() = ...%q, want suffix %q", got[len(got)-10:], tt.wantTail)
			}
			if tt.wantTail == "" && got != tt.input {
				t.Errorf("TruncateDescription() changed a description within the limit")
			}
		})
	}
}

func TestBuilder_Build(t *testing.T) {
	b := NewBuilder("", 0)
	info := media.NewInfo("https://example.com/v", "A & B", "hi", []string{"x", "y"})

	got := b.Build(info, "https://store/x.mp3")

	want := RedirectTarget{
		BaseURL:     DefaultBaseURL,
		URL:         "https://store/x.mp3",
		Title:       "A & B",
		Description: "hi",
		Tags:        "x,y",
	}
	if got != want {
		t.Errorf("Build() = %+v, want %+v", got, want)
	}
}

func TestRedirectTarget_AddURL(t *testing.T) {
	b := NewBuilder("https://huffduffer.com/", 0)
	info := media.NewInfo("", "A & B", "hi", []string{"x", "y"})

	got := b.Build(info, "https://store/x.mp3").AddURL()

	want := "https://huffduffer.com/add?" +
		"bookmark[url]=https%3A%2F%2Fstore%2Fx.mp3" +
		"&bookmark[title]=A%20%26%20B" +
		"&bookmark[description]=hi" +
		"&bookmark[tags]=x%2Cy"
	if got != want {
		t.Errorf("AddURL() =\n  %s\nwant\n  %s", got, want)
	}
}

func TestRedirectTarget_AddURL_ParameterOrder(t *testing.T) {
	target := RedirectTarget{BaseURL: DefaultBaseURL}
	got := target.AddURL()

	order := []string{"bookmark[url]=", "bookmark[title]=", "bookmark[description]=", "bookmark[tags]="}
	last := -1
	for _, key := range order {
		idx := strings.Index(got, key)
		if idx <= last {
			t.Fatalf("AddURL() = %q: %s out of order", got, key)
		}
		last = idx
	}
}

func TestRedirectTarget_AddURL_AdversarialValues(t *testing.T) {
	target := RedirectTarget{
		BaseURL:     DefaultBaseURL,
		URL:         "https://store/k.mp3",
		Title:       `"><script>alert(1)</script>`,
		Description: "line1\nline2 + ünïcödé",
		Tags:        "a&b=c",
	}
	got := target.AddURL()

	for _, bad := range []string{"<", ">", "\"", "\n", " ", "a&b"} {
		if strings.Contains(got, bad) {
			t.Errorf("AddURL() = %q contains unescaped %q", got, bad)
		}
	}
	if !strings.Contains(got, "bookmark[tags]=a%26b%3Dc") {
		t.Errorf("AddURL() = %q, want escaped tags", got)
	}
	if !strings.Contains(got, "%2B") {
		t.Errorf("AddURL() = %q, want literal plus escaped as %%2B", got)
	}
}
