package distribution

import "regexp"

// AudioExtension is the extension of every stored audio object
const AudioExtension = ".mp3"

// schemePrefixRegex matches the sanitized scheme marker plus an optional
// mobile or www host prefix
var schemePrefixRegex = regexp.MustCompile(`^https?_-_((www|m|mobile)\.)?`)

// KeyStem returns the extension-less storage key for a source URL. It is
// never empty, so a key is never a bare hidden ".mp3".
func KeyStem(sourceURL string) string {
	stem := schemePrefixRegex.ReplaceAllString(SanitizeFilename(sourceURL), "")
	if stem == "" {
		return "_"
	}
	return stem
}

// DeriveKey maps a source URL to its storage key. The mapping is pure and never
// fails; scheme and www./m./mobile. variants of one URL share a key:
//
//	https://www.youtube.com/watch?v=X -> youtube.com_watchv=X.mp3
//	http://m.youtube.com/watch?v=X    -> youtube.com_watchv=X.mp3
func DeriveKey(sourceURL string) string {
	return KeyStem(sourceURL) + AudioExtension
}
