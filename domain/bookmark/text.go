package bookmark

import "fmt"

// TextPage renders the pipeline output as plain terminal lines
type TextPage struct{}

// RenderHeader renders the opening line
func (TextPage) RenderHeader(data PageData) (string, error) {
	return fmt.Sprintf("Fetching %s\n", data.SourceURL), nil
}

// RenderLine renders one progress or milestone line
func (TextPage) RenderLine(text string) (string, error) {
	return text + "\n", nil
}

// RenderRedirect renders the add-bookmark URL
func (TextPage) RenderRedirect(target RedirectTarget) (string, error) {
	return fmt.Sprintf("Huffduff it: %s\n", target.AddURL()), nil
}
