package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"huffduff-video/domain/bookmark"
	"huffduff-video/domain/distribution"
	"huffduff-video/domain/media"

	"github.com/sirupsen/logrus/hooks/test"
)

// --- Mock implementations for testing ---

// mockResolver implements media.Resolver for testing
type mockResolver struct {
	info  *media.Info
	err   error
	calls int
}

func (m *mockResolver) Resolve(ctx context.Context, url string) (*media.Info, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.info, nil
}

// mockExecutor implements media.Executor for testing
type mockExecutor struct {
	events []media.ProgressEvent
	err    error
	calls  int
	req    *media.DownloadRequest
}

func (m *mockExecutor) Download(ctx context.Context, req *media.DownloadRequest, onProgress media.ProgressFunc) (string, error) {
	m.calls++
	m.req = req
	var classifier media.ProgressClassifier
	for _, ev := range m.events {
		onProgress(classifier.Classify(ev))
	}
	if m.err != nil {
		return "", m.err
	}
	return req.OutputPath(), nil
}

// mockStore implements distribution.ObjectStore for testing
type mockStore struct {
	objects       map[string]bool
	public        map[string]bool
	existsErr     error
	uploadErr     error
	makePublicErr error
	uploads       []distribution.UploadRequest
}

func newMockStore() *mockStore {
	return &mockStore{
		objects: make(map[string]bool),
		public:  make(map[string]bool),
	}
}

func (m *mockStore) Exists(ctx context.Context, key string) (bool, error) {
	if m.existsErr != nil {
		return false, m.existsErr
	}
	return m.objects[key], nil
}

func (m *mockStore) Upload(ctx context.Context, req distribution.UploadRequest) error {
	m.uploads = append(m.uploads, req)
	if m.uploadErr != nil {
		return m.uploadErr
	}
	m.objects[req.Key] = true
	return nil
}

func (m *mockStore) MakePublic(ctx context.Context, key string) error {
	if m.makePublicErr != nil {
		return m.makePublicErr
	}
	m.public[key] = true
	return nil
}

func (m *mockStore) Delete(ctx context.Context, key string) error {
	delete(m.objects, key)
	return nil
}

func (m *mockStore) PublicURL(key string) string {
	return "https://storage.example.com/bucket/" + key
}

// mockScratch implements media.Scratch for testing
type mockScratch struct {
	created []string
	removed []string
	err     error
}

func (m *mockScratch) MkdirTemp() (string, error) {
	if m.err != nil {
		return "", m.err
	}
	dir := fmt.Sprintf("/tmp/huffduff-%d", len(m.created))
	m.created = append(m.created, dir)
	return dir, nil
}

func (m *mockScratch) RemoveAll(dir string) error {
	m.removed = append(m.removed, dir)
	return nil
}

// failingWriter fails every write after the first n
type failingWriter struct {
	n      int
	writes int
}

func (w *failingWriter) Write(p []byte) (int, error) {
	w.writes++
	if w.writes > w.n {
		return 0, errors.New("client gone")
	}
	return len(p), nil
}

type fixture struct {
	resolver *mockResolver
	executor *mockExecutor
	store    *mockStore
	scratch  *mockScratch
	service  *Service
}

func newFixture() *fixture {
	f := &fixture{
		resolver: &mockResolver{info: media.NewInfo("https://example.com/v", "Title", "Desc", []string{"Music"})},
		executor: &mockExecutor{},
		store:    newMockStore(),
		scratch:  &mockScratch{},
	}
	logger, _ := test.NewNullLogger()
	f.service = NewService(f.resolver, f.executor, f.store, f.scratch, bookmark.NewBuilder("", 0), logger)
	return f
}

func mustRequest(t *testing.T, url string) media.SourceRequest {
	t.Helper()
	req, err := media.NewSourceRequest(url)
	if err != nil {
		t.Fatalf("NewSourceRequest(%q) error = %v", url, err)
	}
	return req
}

func TestService_Run_Success(t *testing.T) {
	f := newFixture()
	f.executor.events = []media.ProgressEvent{
		{Status: media.StatusStarting},
		{Status: media.StatusDownloading, Percent: "50.0%"},
		{Status: media.StatusFinished},
	}
	var buf bytes.Buffer
	stream := NewStreamer(&buf, bookmark.TextPage{})

	result, err := f.service.Run(context.Background(), mustRequest(t, "http://example.com/watch?v=1"), stream)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if result.Key != "example.com_watchv=1.mp3" {
		t.Errorf("Key = %q", result.Key)
	}
	if result.Skipped {
		t.Error("expected download, got skip")
	}
	if result.PublicURL != "https://storage.example.com/bucket/example.com_watchv=1.mp3" {
		t.Errorf("PublicURL = %q", result.PublicURL)
	}
	if !f.store.public[result.Key] {
		t.Error("expected object to be made public")
	}
	if len(f.store.uploads) != 1 || f.store.uploads[0].MimeType != distribution.MimeTypeMP3 {
		t.Errorf("unexpected uploads: %+v", f.store.uploads)
	}

	out := buf.String()
	order := []string{
		"Fetching http://example.com/watch?v=1",
		"Downloading to /tmp/huffduff-0/example.com_watchv=1.mp3",
		"starting",
		"downloading 50.0%",
		"finished",
		"Uploading example.com_watchv=1.mp3",
		"Huffduff it: https://huffduffer.com/add?bookmark[url]=",
	}
	assertInOrder(t, out, order)
}

func TestService_Run_SkipsExistingObject(t *testing.T) {
	f := newFixture()
	f.store.objects["example.com_watchv=1.mp3"] = true
	var buf bytes.Buffer

	result, err := f.service.Run(context.Background(), mustRequest(t, "https://www.example.com/watch?v=1"), NewStreamer(&buf, bookmark.TextPage{}))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if !result.Skipped {
		t.Error("expected skip")
	}
	if f.executor.calls != 0 {
		t.Errorf("executor called %d times, want 0", f.executor.calls)
	}
	if len(f.store.uploads) != 0 {
		t.Errorf("upload called %d times, want 0", len(f.store.uploads))
	}
	if len(f.scratch.created) != 0 {
		t.Error("expected no scratch directory")
	}
	assertInOrder(t, buf.String(), []string{"Fetching", "Already downloaded!", "Huffduff it:"})
}

func TestService_Run_ProgressDropsIgnorableError(t *testing.T) {
	f := newFixture()
	f.executor.events = []media.ProgressEvent{
		{Status: media.StatusStarting},
		{Status: media.StatusDownloading, Percent: "10.0%"},
		{Status: media.StatusDownloading, Percent: "50.0%"},
		{Status: media.StatusFinished},
		{Status: media.StatusError},
	}
	var buf bytes.Buffer

	if _, err := f.service.Run(context.Background(), mustRequest(t, "http://example.com/v"), NewStreamer(&buf, bookmark.TextPage{})); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	out := buf.String()
	assertInOrder(t, out, []string{"starting\n", "downloading 10.0%\n", "downloading 50.0%\n", "finished\n"})
	if strings.Contains(out, "error") {
		t.Errorf("ignorable error was relayed:\n%s", out)
	}
}

func TestService_Run_RelaysRealError(t *testing.T) {
	f := newFixture()
	f.executor.events = []media.ProgressEvent{
		{Status: media.StatusStarting},
		{Status: media.StatusError},
	}
	f.executor.err = fmt.Errorf("%w: network unreachable", media.ErrDownload)
	var buf bytes.Buffer

	_, err := f.service.Run(context.Background(), mustRequest(t, "http://example.com/v"), NewStreamer(&buf, bookmark.TextPage{}))
	if !errors.Is(err, media.ErrDownload) {
		t.Fatalf("Run() error = %v, want ErrDownload", err)
	}
	if !strings.Contains(buf.String(), "error\n") {
		t.Errorf("expected error line, got:\n%s", buf.String())
	}
}

func TestService_Run_Failures(t *testing.T) {
	tests := []struct {
		name       string
		setup      func(f *fixture)
		wantState  State
		wantErr    error
		wantUpload bool
	}{
		{
			name:      "resolution fails",
			setup:     func(f *fixture) { f.resolver.err = fmt.Errorf("%w: unsupported url", media.ErrResolution) },
			wantState: StateResolving,
			wantErr:   media.ErrResolution,
		},
		{
			name:      "existence check fails",
			setup:     func(f *fixture) { f.store.existsErr = errors.New("bucket unreachable") },
			wantState: StateCheckingExistence,
		},
		{
			name:      "download fails",
			setup:     func(f *fixture) { f.executor.err = fmt.Errorf("%w: 404", media.ErrDownload) },
			wantState: StateDownloading,
			wantErr:   media.ErrDownload,
		},
		{
			name:      "transcode fails",
			setup:     func(f *fixture) { f.executor.err = fmt.Errorf("%w: ffmpeg exited 1", media.ErrTranscode) },
			wantState: StateDownloading,
			wantErr:   media.ErrTranscode,
		},
		{
			name:       "upload fails",
			setup:      func(f *fixture) { f.store.uploadErr = errors.New("quota exceeded") },
			wantState:  StateUploading,
			wantErr:    distribution.ErrUpload,
			wantUpload: true,
		},
		{
			name:       "make public fails",
			setup:      func(f *fixture) { f.store.makePublicErr = errors.New("forbidden") },
			wantState:  StatePublishing,
			wantErr:    distribution.ErrPermission,
			wantUpload: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			tt.setup(f)
			var buf bytes.Buffer

			result, err := f.service.Run(context.Background(), mustRequest(t, "http://example.com/v"), NewStreamer(&buf, bookmark.TextPage{}))
			if result != nil {
				t.Errorf("expected nil result, got %+v", result)
			}

			var abort *AbortError
			if !errors.As(err, &abort) {
				t.Fatalf("Run() error = %v, want *AbortError", err)
			}
			if abort.State != tt.wantState {
				t.Errorf("State = %s, want %s", abort.State, tt.wantState)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Run() error = %v, want %v", err, tt.wantErr)
			}
			if got := len(f.store.uploads) > 0; got != tt.wantUpload {
				t.Errorf("upload attempted = %v, want %v", got, tt.wantUpload)
			}
			if len(f.scratch.created) != len(f.scratch.removed) {
				t.Errorf("scratch dirs created %v, removed %v", f.scratch.created, f.scratch.removed)
			}
			if strings.Contains(buf.String(), "Huffduff it:") {
				t.Errorf("redirect written on failure:\n%s", buf.String())
			}
			if len(f.store.objects) != 0 {
				t.Errorf("objects left in store: %v", f.store.objects)
			}
		})
	}
}

func TestService_Run_ResolutionFailureWritesOnlyHeader(t *testing.T) {
	f := newFixture()
	f.resolver.err = media.ErrResolution
	var buf bytes.Buffer

	_, _ = f.service.Run(context.Background(), mustRequest(t, "http://example.com/v"), NewStreamer(&buf, bookmark.TextPage{}))

	if buf.String() != "Fetching http://example.com/v\n" {
		t.Errorf("output = %q, want header only", buf.String())
	}
	if f.executor.calls != 0 {
		t.Error("executor should not run after resolution failure")
	}
}

func TestService_Run_ContinuesAfterClientDisconnect(t *testing.T) {
	f := newFixture()
	f.executor.events = []media.ProgressEvent{
		{Status: media.StatusStarting},
		{Status: media.StatusFinished},
	}
	w := &failingWriter{n: 1}
	stream := NewStreamer(w, bookmark.TextPage{})

	result, err := f.service.Run(context.Background(), mustRequest(t, "http://example.com/v"), stream)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if stream.Err() == nil {
		t.Error("expected stream error after disconnect")
	}
	if w.writes != 2 {
		t.Errorf("writes = %d, want 2 (stop after first failure)", w.writes)
	}
	if !f.store.public[result.Key] {
		t.Error("expected upload to complete after disconnect")
	}
	if len(f.scratch.removed) != 1 {
		t.Error("expected scratch directory removal")
	}
}

func TestService_Run_ScratchFailure(t *testing.T) {
	f := newFixture()
	f.scratch.err = errors.New("disk full")

	_, err := f.service.Run(context.Background(), mustRequest(t, "http://example.com/v"), NewStreamer(&bytes.Buffer{}, bookmark.TextPage{}))

	var abort *AbortError
	if !errors.As(err, &abort) || abort.State != StateDownloading {
		t.Fatalf("Run() error = %v, want abort in downloading", err)
	}
	if f.executor.calls != 0 {
		t.Error("executor should not run without a scratch directory")
	}
}

func TestAbortError(t *testing.T) {
	err := &AbortError{State: StateUploading, Err: distribution.ErrUpload}
	if !contains(err.Error(), "uploading") {
		t.Errorf("Error() = %q, want state name", err.Error())
	}
	if !errors.Is(err, distribution.ErrUpload) {
		t.Error("expected AbortError to unwrap")
	}
}

func assertInOrder(t *testing.T, out string, parts []string) {
	t.Helper()
	pos := 0
	for _, p := range parts {
		idx := strings.Index(out[pos:], p)
		if idx < 0 {
			t.Fatalf("missing %q after offset %d in:\n%s", p, pos, out)
		}
		pos += idx + len(p)
	}
}

// contains checks if s contains substr
func contains(s, substr string) bool {
	return strings.Contains(s, substr)
}
