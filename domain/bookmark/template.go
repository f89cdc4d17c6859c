package bookmark

import (
	"bytes"
	"fmt"
	"html/template"
)

// PageData contains the fields available to the page header template
type PageData struct {
	SourceURL string
}

// RedirectData contains the fields available to the redirect template
type RedirectData struct {
	Location string
}

// Page contains the templates that make up the streamed response page
type Page struct {
	Header   string
	Line     string
	Redirect string
}

// DefaultPage is the streamed HTML page shown while a source is processed
var DefaultPage = Page{
	Header: `<!DOCTYPE html>
<html>
<head><title>huffduff-video: {{.SourceURL}}</title></head>
<body>
Fetching {{.SourceURL}} <br />
`,
	Line: `{{.}} <br />
`,
	Redirect: `<script type="text/javascript">
window.location = {{.Location}};
</script>
</body>
</html>
`,
}

// RenderHeader renders the opening of the page
func (p *Page) RenderHeader(data PageData) (string, error) {
	return renderTemplate("header", p.Header, data)
}

// RenderLine renders one progress or milestone line
func (p *Page) RenderLine(text string) (string, error) {
	return renderTemplate("line", p.Line, text)
}

// RenderRedirect renders the client-side redirect and closes the page
func (p *Page) RenderRedirect(target RedirectTarget) (string, error) {
	return renderTemplate("redirect", p.Redirect, RedirectData{Location: target.AddURL()})
}

func renderTemplate(name, tmplStr string, data any) (string, error) {
	tmpl, err := template.New(name).Parse(tmplStr)
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.String(), nil
}
