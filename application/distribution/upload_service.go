package distribution

import (
	"context"
	"errors"
	"fmt"

	"huffduff-video/domain/distribution"

	"github.com/sirupsen/logrus"
)

// UploadService handles bucket operations for extracted audio
type UploadService struct {
	store  distribution.ObjectStore
	logger logrus.FieldLogger
}

// NewUploadService creates a new upload service
func NewUploadService(store distribution.ObjectStore, logger logrus.FieldLogger) *UploadService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &UploadService{
		store:  store,
		logger: logger,
	}
}

// Lookup reports whether key is already stored and where it is served from
func (s *UploadService) Lookup(ctx context.Context, key string) (*distribution.StoredObject, error) {
	exists, err := s.store.Exists(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to check for existing object %s: %w", key, err)
	}
	return &distribution.StoredObject{
		Key:       key,
		PublicURL: s.store.PublicURL(key),
		Exists:    exists,
	}, nil
}

// UploadAudio uploads an audio file under key and grants public read access.
// If access cannot be granted the uploaded object is deleted again, so a later
// request uploads it afresh instead of finding a private object.
func (s *UploadService) UploadAudio(ctx context.Context, key, audioPath string) (*distribution.StoredObject, error) {
	req := distribution.UploadRequest{
		Key:       key,
		LocalPath: audioPath,
		MimeType:  distribution.MimeTypeMP3,
	}
	if err := s.store.Upload(ctx, req); err != nil {
		return nil, wrapAs(distribution.ErrUpload, fmt.Errorf("failed to upload %s: %w", key, err))
	}

	if err := s.store.MakePublic(ctx, key); err != nil {
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			s.logger.WithError(delErr).WithField("key", key).Warn("failed to delete private object")
		}
		return nil, wrapAs(distribution.ErrPermission, fmt.Errorf("failed to make %s public: %w", key, err))
	}

	return &distribution.StoredObject{
		Key:       key,
		PublicURL: s.store.PublicURL(key),
		Exists:    true,
	}, nil
}

// wrapAs tags err with sentinel unless it already carries it
func wrapAs(sentinel, err error) error {
	if errors.Is(err, sentinel) {
		return err
	}
	return fmt.Errorf("%w: %w", sentinel, err)
}
