package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	appdist "huffduff-video/application/distribution"
	"huffduff-video/domain/bookmark"
	"huffduff-video/domain/distribution"
	"huffduff-video/domain/media"

	"github.com/sirupsen/logrus"
)

// State is a step of the pipeline
type State string

const (
	StateValidating        State = "validating"
	StateResolving         State = "resolving"
	StateCheckingExistence State = "checking_existence"
	StateSkipDownload      State = "skip_download"
	StateDownloading       State = "downloading"
	StateUploading         State = "uploading"
	StatePublishing        State = "publishing_public_access"
	StateBuildingRedirect  State = "building_redirect"
	StateDone              State = "done"
)

// AbortError reports the state a pipeline run failed in
type AbortError struct {
	State State
	Err   error
}

func (e *AbortError) Error() string {
	return fmt.Sprintf("aborted while %s: %v", e.State, e.Err)
}

func (e *AbortError) Unwrap() error {
	return e.Err
}

// Service orchestrates the resolve, dedupe, download, upload and redirect workflow
type Service struct {
	resolver media.Resolver
	executor media.Executor
	uploads  *appdist.UploadService
	scratch  media.Scratch
	builder  *bookmark.Builder
	logger   logrus.FieldLogger
}

// NewService creates a new pipeline service
func NewService(
	resolver media.Resolver,
	executor media.Executor,
	store distribution.ObjectStore,
	scratch media.Scratch,
	builder *bookmark.Builder,
	logger logrus.FieldLogger,
) *Service {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	if builder == nil {
		builder = bookmark.NewBuilder("", 0)
	}
	return &Service{
		resolver: resolver,
		executor: executor,
		uploads:  appdist.NewUploadService(store, logger),
		scratch:  scratch,
		builder:  builder,
		logger:   logger,
	}
}

// Result contains the outcome of a successful run
type Result struct {
	Key       string
	PublicURL string
	Skipped   bool // Audio was already stored; nothing was downloaded
	Info      *media.Info
	Target    bookmark.RedirectTarget
	Elapsed   time.Duration
}

// Run executes the pipeline for req, streaming every step to stream.
// Errors after the header was written cannot be reported to the client; the
// stream simply ends and the returned *AbortError names the failed state.
func (s *Service) Run(ctx context.Context, req media.SourceRequest, stream *Streamer) (*Result, error) {
	started := time.Now()
	log := s.logger.WithField("url", req.URL)

	if err := stream.Open(req.URL); err != nil {
		return nil, &AbortError{State: StateValidating, Err: err}
	}

	log.Debug("resolving source")
	info, err := s.resolver.Resolve(ctx, req.URL)
	if err != nil {
		return nil, &AbortError{State: StateResolving, Err: err}
	}

	key := req.Key()
	log = log.WithField("key", key)
	obj, err := s.uploads.Lookup(ctx, key)
	if err != nil {
		return nil, &AbortError{State: StateCheckingExistence, Err: err}
	}

	skipped := obj.Exists
	if skipped {
		log.Info("audio already stored, skipping download")
		stream.Milestone("Already downloaded!")
	} else {
		obj, err = s.fetchAndStore(ctx, req, key, stream, log)
		if err != nil {
			return nil, err
		}
	}

	target := s.builder.Build(info, obj.PublicURL)
	if err := stream.Redirect(target); err != nil {
		return nil, &AbortError{State: StateBuildingRedirect, Err: err}
	}

	elapsed := time.Since(started)
	log.WithField("elapsed", elapsed).Info("pipeline done")

	return &Result{
		Key:       key,
		PublicURL: obj.PublicURL,
		Skipped:   skipped,
		Info:      info,
		Target:    target,
		Elapsed:   elapsed,
	}, nil
}

// fetchAndStore downloads the source into a scratch directory, uploads the
// audio and removes the directory again on every path
func (s *Service) fetchAndStore(ctx context.Context, req media.SourceRequest, key string, stream *Streamer, log logrus.FieldLogger) (*distribution.StoredObject, error) {
	dir, err := s.scratch.MkdirTemp()
	if err != nil {
		return nil, &AbortError{State: StateDownloading, Err: fmt.Errorf("failed to create scratch directory: %w", err)}
	}
	defer func() {
		if err := s.scratch.RemoveAll(dir); err != nil {
			log.WithError(err).WithField("dir", dir).Warn("failed to remove scratch directory")
		}
	}()

	downloadReq, err := media.NewDownloadRequest(req.URL, dir)
	if err != nil {
		return nil, &AbortError{State: StateDownloading, Err: err}
	}

	stream.Milestone("Downloading to %s", downloadReq.OutputPath())
	audioPath, err := s.executor.Download(ctx, downloadReq, stream.Progress)
	if err != nil {
		return nil, &AbortError{State: StateDownloading, Err: err}
	}

	stream.Milestone("Uploading %s", key)
	obj, err := s.uploads.UploadAudio(ctx, key, audioPath)
	if err != nil {
		state := StateUploading
		if errors.Is(err, distribution.ErrPermission) {
			state = StatePublishing
		}
		return nil, &AbortError{State: state, Err: err}
	}
	log.WithField("public_url", obj.PublicURL).Info("audio uploaded")

	return obj, nil
}
