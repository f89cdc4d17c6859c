package media

// Info is the metadata of a resolved media source
type Info struct {
	PlaybackURL string   // Canonical URL the media library identified
	Title       string
	Description string
	Categories  []string
}

// NewInfo creates an Info, defaulting absent fields to empty values
func NewInfo(playbackURL, title, description string, categories []string) *Info {
	if categories == nil {
		categories = []string{}
	}
	return &Info{
		PlaybackURL: playbackURL,
		Title:       title,
		Description: description,
		Categories:  categories,
	}
}
