package web

import (
	"context"
	"net/http"
	"sync"

	"huffduff-video/application/pipeline"
	"huffduff-video/domain/bookmark"
	"huffduff-video/domain/media"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Runner executes the pipeline for one request
type Runner interface {
	Run(ctx context.Context, req media.SourceRequest, stream *pipeline.Streamer) (*pipeline.Result, error)
}

// Handler turns huffduff requests into pipeline runs.
//
// Runs are not tied to their request: a client that goes away must not
// interrupt an upload in flight. They share a context owned by the handler
// instead, which Cancel ends when the server gives up waiting for them.
type Handler struct {
	runner Runner
	page   pipeline.Renderer
	logger logrus.FieldLogger

	mu       sync.Mutex
	base     context.Context
	cancel   context.CancelFunc
	inflight sync.WaitGroup
}

// NewHandler creates a new handler
func NewHandler(runner Runner, logger logrus.FieldLogger) *Handler {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	base, cancel := context.WithCancel(context.Background())
	return &Handler{
		runner: runner,
		page:   &bookmark.DefaultPage,
		logger: logger,
		base:   base,
		cancel: cancel,
	}
}

// begin registers a run, or reports false once Cancel has been called
func (h *Handler) begin() (context.Context, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.base.Err() != nil {
		return nil, false
	}
	h.inflight.Add(1)
	return h.base, true
}

// Cancel aborts every run in flight and refuses new ones
func (h *Handler) Cancel() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.cancel()
}

// Wait blocks until every run has returned, scratch cleanup included
func (h *Handler) Wait() {
	h.inflight.Wait()
}

// Huffduff validates the request and streams the pipeline output as HTML.
// Once the first byte is written the status is fixed at 200; later failures
// end the page early and are only logged.
func (h *Handler) Huffduff(c *gin.Context) {
	method := c.Request.Method
	if method != http.MethodGet && method != http.MethodPost {
		c.AbortWithStatus(http.StatusMethodNotAllowed)
		return
	}

	raw := c.PostForm("url")
	if raw == "" {
		raw = c.Query("url")
	}
	req, err := media.NewSourceRequest(raw)
	if err != nil {
		c.AbortWithStatus(http.StatusBadRequest)
		return
	}

	ctx, ok := h.begin()
	if !ok {
		c.AbortWithStatus(http.StatusServiceUnavailable)
		return
	}
	defer h.inflight.Done()

	log := h.logger.WithFields(logrus.Fields{
		requestIDKey: c.GetString(requestIDKey),
		"url":        req.URL,
	})

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	stream := pipeline.NewStreamer(c.Writer, h.page)

	result, err := h.runner.Run(ctx, req, stream)
	if err != nil {
		log.WithError(err).Error("pipeline aborted")
		return
	}
	if streamErr := stream.Err(); streamErr != nil {
		log.WithError(streamErr).Warn("client disconnected before the redirect")
	}

	log.WithFields(logrus.Fields{
		"key":     result.Key,
		"skipped": result.Skipped,
	}).Info("huffduffed")
}
