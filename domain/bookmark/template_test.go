package bookmark

import (
	"strings"
	"testing"
)

func TestPage_RenderHeader(t *testing.T) {
	got, err := DefaultPage.RenderHeader(PageData{SourceURL: "http://example.com/watch?v=1&t=2"})
	if err != nil {
		t.Fatalf("RenderHeader() error = %v", err)
	}

	checks := []string{
		"<!DOCTYPE html>",
		"<title>huffduff-video: http://example.com/watch?v=1&amp;t=2</title>",
		"Fetching http://example.com/watch?v=1&amp;t=2 <br />",
	}
	for _, check := range checks {
		if !strings.Contains(got, check) {
			t.Errorf("RenderHeader() missing %q in:\n%s", check, got)
		}
	}
}

func TestPage_RenderLine_EscapesMarkup(t *testing.T) {
	got, err := DefaultPage.RenderLine("Uploading <b>x</b>.mp3")
	if err != nil {
		t.Fatalf("RenderLine() error = %v", err)
	}
	if strings.Contains(got, "<b>") {
		t.Errorf("RenderLine() = %q, want markup escaped", got)
	}
	if !strings.HasSuffix(got, " <br />\n") {
		t.Errorf("RenderLine() = %q, want line break suffix", got)
	}
}

func TestPage_RenderRedirect(t *testing.T) {
	target := RedirectTarget{
		BaseURL: DefaultBaseURL,
		URL:     "https://store/x.mp3",
		Title:   `</script><script>alert(1)</script>`,
	}

	got, err := DefaultPage.RenderRedirect(target)
	if err != nil {
		t.Fatalf("RenderRedirect() error = %v", err)
	}

	if !strings.Contains(got, "window.location = ") {
		t.Errorf("RenderRedirect() missing redirect in:\n%s", got)
	}
	if !strings.Contains(got, "huffduffer.com") {
		t.Errorf("RenderRedirect() missing bookmarking service in:\n%s", got)
	}
	if strings.Count(got, "</script>") != 1 {
		t.Errorf("RenderRedirect() produced extra script tags:\n%s", got)
	}
	if !strings.HasSuffix(got, "</html>\n") {
		t.Errorf("RenderRedirect() does not close the page:\n%s", got)
	}
}
