package distribution

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// timestampRegex matches digit groups separated by colons, e.g. "1:30:05"
var timestampRegex = regexp.MustCompile(`[0-9]+(?::[0-9]+)+`)

// accentFolder decomposes a rune and drops its combining marks ("é" -> "e")
var accentFolder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// SanitizeFilename converts an arbitrary string into a restricted, filesystem-safe
// filename. It mirrors the restricted filename mode of the media tool so that a
// URL always sanitizes to the same name the tool would produce:
//
//	https://www.youtube.com/watch?v=X -> https_-_www.youtube.com_watchv=X
func SanitizeFilename(s string) string {
	s = timestampRegex.ReplaceAllStringFunc(s, func(m string) string {
		return strings.ReplaceAll(m, ":", "_")
	})

	var b strings.Builder
	for _, r := range s {
		b.WriteString(replaceRune(r))
	}
	result := b.String()

	for strings.Contains(result, "__") {
		result = strings.ReplaceAll(result, "__", "_")
	}
	result = strings.Trim(result, "_")
	result = strings.TrimPrefix(result, "-_")
	if strings.HasPrefix(result, "-") {
		result = "_" + result[1:]
	}
	result = strings.TrimLeft(result, ".")
	if result == "" {
		result = "_"
	}
	return result
}

func replaceRune(r rune) string {
	switch {
	case r == '?' || r == '"' || r < 32 || r == 127:
		return ""
	case r == ':':
		return "_-"
	case strings.ContainsRune(`\/|*<>`, r):
		return "_"
	case strings.ContainsRune("!&'()[]{}$;`^,#", r) || unicode.IsSpace(r):
		return "_"
	case r > 127:
		return foldAccent(r)
	}
	return string(r)
}

// foldAccent returns the ASCII base letter of an accented rune, or "_" when
// the rune has no ASCII equivalent.
func foldAccent(r rune) string {
	folded, _, err := transform.String(accentFolder, string(r))
	if err != nil || folded == "" {
		return "_"
	}
	for _, c := range folded {
		if c > 127 {
			return "_"
		}
	}
	return folded
}
