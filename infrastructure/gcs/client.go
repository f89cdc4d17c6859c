package gcs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"huffduff-video/domain/distribution"

	"github.com/spf13/afero"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/storage/v1"
)

// DefaultEndpoint is the host public objects are served from
const DefaultEndpoint = "storage.googleapis.com"

// Public read ACL applied by MakePublic
const (
	publicEntity = "allUsers"
	publicRole   = "READER"
)

// StorageService defines the interface for Cloud Storage API operations
// This allows mocking the Cloud Storage API in tests
type StorageService interface {
	GetObject(ctx context.Context, bucket, key string) (*storage.Object, error)
	InsertObject(ctx context.Context, bucket, key, contentType string, media io.Reader) (*storage.Object, error)
	InsertObjectACL(ctx context.Context, bucket, key, entity, role string) error
	DeleteObject(ctx context.Context, bucket, key string) error
}

// GoogleStorageService is the production implementation using the Cloud Storage JSON API
type GoogleStorageService struct {
	service *storage.Service
}

// GetObject fetches object metadata
func (s *GoogleStorageService) GetObject(ctx context.Context, bucket, key string) (*storage.Object, error) {
	return s.service.Objects.Get(bucket, key).Context(ctx).Do()
}

// InsertObject uploads media as a new object
func (s *GoogleStorageService) InsertObject(ctx context.Context, bucket, key, contentType string, media io.Reader) (*storage.Object, error) {
	obj := &storage.Object{
		Name:        key,
		ContentType: contentType,
	}
	return s.service.Objects.Insert(bucket, obj).
		Media(media, googleapi.ContentType(contentType)).
		Context(ctx).
		Do()
}

// InsertObjectACL adds an access control entry to an object
func (s *GoogleStorageService) InsertObjectACL(ctx context.Context, bucket, key, entity, role string) error {
	acl := &storage.ObjectAccessControl{
		Entity: entity,
		Role:   role,
	}
	_, err := s.service.ObjectAccessControls.Insert(bucket, key, acl).Context(ctx).Do()
	return err
}

// DeleteObject removes an object
func (s *GoogleStorageService) DeleteObject(ctx context.Context, bucket, key string) error {
	return s.service.Objects.Delete(bucket, key).Context(ctx).Do()
}

// Client implements distribution.ObjectStore using Google Cloud Storage
type Client struct {
	storageService StorageService
	fs             afero.Fs
	bucket         string
	endpoint       string
}

// ClientOption is a functional option for configuring Client
type ClientOption func(*Client)

// WithStorageService sets a custom storage service (for testing)
func WithStorageService(svc StorageService) ClientOption {
	return func(c *Client) {
		c.storageService = svc
	}
}

// WithFs sets the filesystem credentials and uploads are read from
func WithFs(fs afero.Fs) ClientOption {
	return func(c *Client) {
		c.fs = fs
	}
}

// WithEndpoint sets the host used to build public URLs
func WithEndpoint(endpoint string) ClientOption {
	return func(c *Client) {
		if endpoint != "" {
			c.endpoint = strings.TrimSuffix(endpoint, "/")
		}
	}
}

// NewClient creates a new Cloud Storage client for bucket
// If no storage service option is provided, it initializes a real one from
// the service account key at credentialsPath
func NewClient(ctx context.Context, credentialsPath, bucket string, opts ...ClientOption) (*Client, error) {
	if bucket == "" {
		return nil, fmt.Errorf("bucket is required")
	}

	c := &Client{
		fs:       afero.NewOsFs(),
		bucket:   bucket,
		endpoint: DefaultEndpoint,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.storageService == nil {
		svc, err := newGoogleStorageService(ctx, c.fs, credentialsPath)
		if err != nil {
			return nil, err
		}
		c.storageService = svc
	}

	return c, nil
}

// newGoogleStorageService creates a production Cloud Storage service
func newGoogleStorageService(ctx context.Context, fs afero.Fs, credentialsPath string) (*GoogleStorageService, error) {
	b, err := afero.ReadFile(fs, credentialsPath)
	if err != nil {
		return nil, fmt.Errorf("unable to read credentials file: %w", err)
	}

	config, err := google.JWTConfigFromJSON(b, storage.DevstorageFullControlScope)
	if err != nil {
		return nil, fmt.Errorf("unable to parse credentials: %w", err)
	}

	client := config.Client(ctx)
	srv, err := storage.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("unable to create storage service: %w", err)
	}

	return &GoogleStorageService{service: srv}, nil
}

// Exists implements distribution.ObjectStore
func (c *Client) Exists(ctx context.Context, key string) (bool, error) {
	_, err := c.storageService.GetObject(ctx, c.bucket, key)
	if err == nil {
		return true, nil
	}
	if isNotFound(err) {
		return false, nil
	}
	return false, fmt.Errorf("failed to get object %s: %w", key, err)
}

// Upload implements distribution.ObjectStore
func (c *Client) Upload(ctx context.Context, req distribution.UploadRequest) error {
	f, err := c.fs.Open(req.LocalPath)
	if err != nil {
		return fmt.Errorf("%w: unable to open %s: %w", distribution.ErrUpload, req.LocalPath, err)
	}
	defer f.Close()

	if _, err := c.storageService.InsertObject(ctx, c.bucket, req.Key, req.MimeType, f); err != nil {
		return fmt.Errorf("%w: %s: %w", distribution.ErrUpload, req.Key, err)
	}
	return nil
}

// MakePublic implements distribution.ObjectStore
func (c *Client) MakePublic(ctx context.Context, key string) error {
	if err := c.storageService.InsertObjectACL(ctx, c.bucket, key, publicEntity, publicRole); err != nil {
		return fmt.Errorf("%w: %s: %w", distribution.ErrPermission, key, err)
	}
	return nil
}

// Delete implements distribution.ObjectStore. Deleting a missing object is not an error.
func (c *Client) Delete(ctx context.Context, key string) error {
	if err := c.storageService.DeleteObject(ctx, c.bucket, key); err != nil && !isNotFound(err) {
		return fmt.Errorf("failed to delete object %s: %w", key, err)
	}
	return nil
}

// PublicURL implements distribution.ObjectStore
func (c *Client) PublicURL(key string) string {
	return fmt.Sprintf("https://%s/%s/%s", c.endpoint, c.bucket, key)
}

// Bucket returns the configured bucket name
func (c *Client) Bucket() string {
	return c.bucket
}

func isNotFound(err error) bool {
	var apiErr *googleapi.Error
	return errors.As(err, &apiErr) && apiErr.Code == http.StatusNotFound
}

// Ensure Client implements distribution.ObjectStore
var _ distribution.ObjectStore = (*Client)(nil)
