//go:build integration

package steps

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"

	"huffduff-video/application/pipeline"
	"huffduff-video/domain/bookmark"
	"huffduff-video/domain/distribution"
	"huffduff-video/domain/media"
	"huffduff-video/infrastructure/filesystem"
	"huffduff-video/infrastructure/web"

	"github.com/cucumber/godog"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/spf13/afero"
)

// scriptedResolver implements media.Resolver for testing
type scriptedResolver struct {
	info *media.Info
	err  error
}

func (r *scriptedResolver) Resolve(ctx context.Context, url string) (*media.Info, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.info, nil
}

// scriptedExecutor implements media.Executor, writing the audio file into the scratch fs
type scriptedExecutor struct {
	fs     afero.Fs
	events []media.ProgressEvent
	err    error
	calls  int
}

func (e *scriptedExecutor) Download(ctx context.Context, req *media.DownloadRequest, onProgress media.ProgressFunc) (string, error) {
	e.calls++
	var classifier media.ProgressClassifier
	for _, ev := range e.events {
		onProgress(classifier.Classify(ev))
	}
	if e.err != nil {
		return "", e.err
	}
	if err := afero.WriteFile(e.fs, req.OutputPath(), []byte("ID3"), 0o644); err != nil {
		return "", err
	}
	return req.OutputPath(), nil
}

// memoryStore implements distribution.ObjectStore in memory
type memoryStore struct {
	objects       map[string]bool
	public        map[string]bool
	uploads       int
	failUpload    bool
	failPublicACL bool
}

func (s *memoryStore) Exists(ctx context.Context, key string) (bool, error) {
	return s.objects[key], nil
}

func (s *memoryStore) Upload(ctx context.Context, req distribution.UploadRequest) error {
	s.uploads++
	if s.failUpload {
		return fmt.Errorf("%w: bucket unavailable", distribution.ErrUpload)
	}
	s.objects[req.Key] = true
	return nil
}

func (s *memoryStore) MakePublic(ctx context.Context, key string) error {
	if s.failPublicACL {
		return fmt.Errorf("%w: forbidden", distribution.ErrPermission)
	}
	s.public[key] = true
	return nil
}

func (s *memoryStore) Delete(ctx context.Context, key string) error {
	delete(s.objects, key)
	return nil
}

func (s *memoryStore) PublicURL(key string) string {
	return "https://storage.googleapis.com/huffduff-video/" + key
}

type huffduffContext struct {
	fs        afero.Fs
	resolver  *scriptedResolver
	executor  *scriptedExecutor
	store     *memoryStore
	router    *gin.Engine
	responses []*httptest.ResponseRecorder
}

// SharedHuffduffContext is reset before each scenario
var SharedHuffduffContext = &huffduffContext{}

func InitializeHuffduffScenario(ctx *godog.ScenarioContext) {
	testCtx := SharedHuffduffContext

	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		gin.SetMode(gin.TestMode)
		testCtx.fs = afero.NewMemMapFs()
		testCtx.resolver = &scriptedResolver{info: media.NewInfo("", "", "", nil)}
		testCtx.executor = &scriptedExecutor{fs: testCtx.fs}
		testCtx.store = &memoryStore{objects: map[string]bool{}, public: map[string]bool{}}
		testCtx.responses = nil

		logger, _ := test.NewNullLogger()
		svc := pipeline.NewService(
			testCtx.resolver,
			testCtx.executor,
			testCtx.store,
			filesystem.NewScratch(testCtx.fs, "/work"),
			bookmark.NewBuilder("", 0),
			logger,
		)
		testCtx.router = web.NewRouter(web.NewHandler(svc, logger), logger)
		return c, nil
	})

	ctx.Step(`^the source resolves with title "([^"]*)" and categories "([^"]*)"$`, testCtx.theSourceResolvesWith)
	ctx.Step(`^the source has a description of (\d+) characters$`, testCtx.theSourceHasADescriptionOf)
	ctx.Step(`^the source cannot be resolved$`, testCtx.theSourceCannotBeResolved)
	ctx.Step(`^the download reports:$`, testCtx.theDownloadReports)
	ctx.Step(`^the download fails$`, testCtx.theDownloadFails)
	ctx.Step(`^the bucket rejects uploads$`, testCtx.theBucketRejectsUploads)
	ctx.Step(`^the bucket refuses public access$`, testCtx.theBucketRefusesPublicAccess)
	ctx.Step(`^"([^"]*)" is already stored$`, testCtx.isAlreadyStored)
	ctx.Step(`^I send a (\w+) request for "([^"]*)"$`, testCtx.iSendARequestFor)
	ctx.Step(`^I send a (\w+) request without a url$`, testCtx.iSendARequestWithoutAURL)
	ctx.Step(`^the response status should be (\d+)$`, testCtx.theResponseStatusShouldBe)
	ctx.Step(`^the response body should be empty$`, testCtx.theResponseBodyShouldBeEmpty)
	ctx.Step(`^the response should show in order:$`, testCtx.theResponseShouldShowInOrder)
	ctx.Step(`^the response should not contain "([^"]*)"$`, testCtx.theResponseShouldNotContain)
	ctx.Step(`^the response should redirect to a bookmark containing "([^"]*)"$`, testCtx.theResponseShouldRedirectContaining)
	ctx.Step(`^the response should not redirect$`, testCtx.theResponseShouldNotRedirect)
	ctx.Step(`^the bookmark description should have (\d+) characters followed by "([^"]*)"$`, testCtx.theBookmarkDescriptionShouldHave)
	ctx.Step(`^"([^"]*)" should be stored publicly$`, testCtx.shouldBeStoredPublicly)
	ctx.Step(`^"([^"]*)" should not be stored$`, testCtx.shouldNotBeStored)
	ctx.Step(`^the source should have been downloaded (\d+) times?$`, testCtx.theSourceShouldHaveBeenDownloaded)
	ctx.Step(`^no scratch directories should remain$`, testCtx.noScratchDirectoriesShouldRemain)
}

func (h *huffduffContext) theSourceResolvesWith(title, categories string) error {
	h.resolver.info.Title = title
	h.resolver.info.Categories = strings.Split(categories, ",")
	return nil
}

func (h *huffduffContext) theSourceHasADescriptionOf(n int) error {
	h.resolver.info.Description = strings.Repeat("d", n)
	return nil
}

func (h *huffduffContext) theSourceCannotBeResolved() error {
	h.resolver.err = fmt.Errorf("%w: unsupported url", media.ErrResolution)
	return nil
}

func (h *huffduffContext) theDownloadReports(table *godog.Table) error {
	for i, row := range table.Rows {
		if i == 0 {
			continue // Skip header row
		}
		ev := media.ProgressEvent{Status: media.ProgressStatus(row.Cells[0].Value)}
		if len(row.Cells) > 1 {
			ev.Percent = row.Cells[1].Value
		}
		h.executor.events = append(h.executor.events, ev)
	}
	return nil
}

func (h *huffduffContext) theDownloadFails() error {
	h.executor.err = fmt.Errorf("%w: HTTP Error 403", media.ErrDownload)
	return nil
}

func (h *huffduffContext) theBucketRejectsUploads() error {
	h.store.failUpload = true
	return nil
}

func (h *huffduffContext) theBucketRefusesPublicAccess() error {
	h.store.failPublicACL = true
	return nil
}

func (h *huffduffContext) isAlreadyStored(key string) error {
	h.store.objects[key] = true
	h.store.public[key] = true
	return nil
}

func (h *huffduffContext) iSendARequestFor(method, source string) error {
	var req *http.Request
	if method == http.MethodPost {
		form := url.Values{"url": {source}}
		req = httptest.NewRequest(method, "/", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, "/?url="+url.QueryEscape(source), nil)
	}
	h.serve(req)
	return nil
}

func (h *huffduffContext) iSendARequestWithoutAURL(method string) error {
	h.serve(httptest.NewRequest(method, "/", nil))
	return nil
}

func (h *huffduffContext) serve(req *http.Request) {
	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)
	h.responses = append(h.responses, rec)
}

func (h *huffduffContext) last() (*httptest.ResponseRecorder, error) {
	if len(h.responses) == 0 {
		return nil, fmt.Errorf("no request was sent")
	}
	return h.responses[len(h.responses)-1], nil
}

func (h *huffduffContext) theResponseStatusShouldBe(code int) error {
	rec, err := h.last()
	if err != nil {
		return err
	}
	if rec.Code != code {
		return fmt.Errorf("expected status %d, got %d", code, rec.Code)
	}
	return nil
}

func (h *huffduffContext) theResponseBodyShouldBeEmpty() error {
	rec, err := h.last()
	if err != nil {
		return err
	}
	if rec.Body.Len() != 0 {
		return fmt.Errorf("expected empty body, got %q", rec.Body.String())
	}
	return nil
}

func (h *huffduffContext) theResponseShouldShowInOrder(table *godog.Table) error {
	rec, err := h.last()
	if err != nil {
		return err
	}
	body := rec.Body.String()
	pos := 0
	for i, row := range table.Rows {
		if i == 0 {
			continue // Skip header row
		}
		want := row.Cells[0].Value
		idx := strings.Index(body[pos:], want)
		if idx < 0 {
			return fmt.Errorf("expected %q after offset %d in:\n%s", want, pos, body)
		}
		pos += idx + len(want)
	}
	return nil
}

func (h *huffduffContext) theResponseShouldNotContain(text string) error {
	rec, err := h.last()
	if err != nil {
		return err
	}
	if strings.Contains(rec.Body.String(), text) {
		return fmt.Errorf("response unexpectedly contains %q:\n%s", text, rec.Body.String())
	}
	return nil
}

func (h *huffduffContext) theResponseShouldRedirectContaining(text string) error {
	rec, err := h.last()
	if err != nil {
		return err
	}
	body := rec.Body.String()
	idx := strings.Index(body, "window.location")
	if idx < 0 {
		return fmt.Errorf("response does not redirect:\n%s", body)
	}
	if !strings.Contains(body[idx:], text) {
		return fmt.Errorf("redirect does not contain %q:\n%s", text, body[idx:])
	}
	return nil
}

func (h *huffduffContext) theBookmarkDescriptionShouldHave(n int, suffix string) error {
	rec, err := h.last()
	if err != nil {
		return err
	}
	body := rec.Body.String()
	const param = "bookmark[description]="
	start := strings.Index(body, param)
	if start < 0 {
		return fmt.Errorf("no description in:\n%s", body)
	}
	value := body[start+len(param):]
	if end := strings.IndexAny(value, "&\\\""); end >= 0 {
		value = value[:end]
	}
	if !strings.HasSuffix(value, suffix) {
		return fmt.Errorf("description %q does not end with %q", value, suffix)
	}
	if got := len(strings.TrimSuffix(value, suffix)); got != n {
		return fmt.Errorf("expected %d description characters, got %d", n, got)
	}
	return nil
}

func (h *huffduffContext) theResponseShouldNotRedirect() error {
	return h.theResponseShouldNotContain("window.location")
}

func (h *huffduffContext) shouldBeStoredPublicly(key string) error {
	if !h.store.objects[key] || !h.store.public[key] {
		return fmt.Errorf("expected %s to be stored publicly, objects=%v public=%v", key, h.store.objects, h.store.public)
	}
	return nil
}

func (h *huffduffContext) shouldNotBeStored(key string) error {
	if h.store.objects[key] {
		return fmt.Errorf("expected %s not to be stored", key)
	}
	return nil
}

func (h *huffduffContext) theSourceShouldHaveBeenDownloaded(times string) error {
	n, err := strconv.Atoi(times)
	if err != nil {
		return err
	}
	if h.executor.calls != n {
		return fmt.Errorf("expected %d downloads, got %d", n, h.executor.calls)
	}
	return nil
}

func (h *huffduffContext) noScratchDirectoriesShouldRemain() error {
	if ok, _ := afero.DirExists(h.fs, "/work"); !ok {
		return nil
	}
	entries, err := afero.ReadDir(h.fs, "/work")
	if err != nil {
		return err
	}
	if len(entries) != 0 {
		return fmt.Errorf("expected no scratch directories, found %d", len(entries))
	}
	return nil
}
