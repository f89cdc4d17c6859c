package pipeline

import (
	"fmt"
	"io"
	"net/http"
	"sync"

	"huffduff-video/domain/bookmark"
	"huffduff-video/domain/media"
)

// Renderer turns pipeline output into the text written to the client
type Renderer interface {
	RenderHeader(data bookmark.PageData) (string, error)
	RenderLine(text string) (string, error)
	RenderRedirect(target bookmark.RedirectTarget) (string, error)
}

// Streamer writes pipeline output to an open response as it happens.
// Writes are serialized so progress callbacks and milestones never interleave.
// After the first failed write (usually a disconnected client) further output
// is dropped while the pipeline keeps running.
type Streamer struct {
	mu       sync.Mutex
	w        io.Writer
	renderer Renderer
	err      error
}

// NewStreamer creates a Streamer writing to w
func NewStreamer(w io.Writer, renderer Renderer) *Streamer {
	if renderer == nil {
		renderer = &bookmark.DefaultPage
	}
	return &Streamer{
		w:        w,
		renderer: renderer,
	}
}

// Open writes the page header for sourceURL
func (s *Streamer) Open(sourceURL string) error {
	text, err := s.renderer.RenderHeader(bookmark.PageData{SourceURL: sourceURL})
	if err != nil {
		return err
	}
	s.write(text)
	return nil
}

// Milestone writes a formatted status line
func (s *Streamer) Milestone(format string, args ...any) {
	s.line(fmt.Sprintf(format, args...))
}

// Progress writes one progress event. Ignorable events are dropped.
func (s *Streamer) Progress(ev media.ProgressEvent) {
	if ev.Ignorable() {
		return
	}
	s.line(ev.String())
}

// Redirect writes the client-side redirect to target and closes the page
func (s *Streamer) Redirect(target bookmark.RedirectTarget) error {
	text, err := s.renderer.RenderRedirect(target)
	if err != nil {
		return err
	}
	s.write(text)
	return nil
}

// Err returns the first write error, if any
func (s *Streamer) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *Streamer) line(text string) {
	rendered, err := s.renderer.RenderLine(text)
	if err != nil {
		s.fail(err)
		return
	}
	s.write(rendered)
}

func (s *Streamer) write(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return
	}
	if _, err := io.WriteString(s.w, text); err != nil {
		s.err = err
		return
	}
	if f, ok := s.w.(http.Flusher); ok {
		f.Flush()
	}
}

func (s *Streamer) fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err == nil {
		s.err = err
	}
}
