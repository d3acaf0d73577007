// Package storage provides blob storage operations with an Azure Blob Storage implementation.
package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"

	"github.com/JaimeStill/examiner/pkg/lifecycle"
)

// Metadata describes a stored blob without its content.
type Metadata struct {
	Key          string
	Size         int64
	ContentType  string
	ETag         string
	LastModified time.Time
}

// DownloadResult carries a blob's content stream and properties.
// The caller must close Body.
type DownloadResult struct {
	Body         io.ReadCloser
	Size         int64
	ContentType  string
	ETag         string
	LastModified time.Time
}

// ListOptions narrows a List call. Zero values list from the start of the
// container with the configured page size.
type ListOptions struct {
	Prefix     string
	Marker     string
	MaxResults int32
}

// ListResult holds one page of blob metadata. NextMarker is empty when
// no further pages remain.
type ListResult struct {
	Items      []Metadata
	NextMarker string
}

// System manages blob storage operations and lifecycle coordination.
type System interface {
	// Start registers a startup hook that initializes the storage container.
	Start(lc *lifecycle.Coordinator) error
	// Upload streams data to a blob at the given key with the specified content type.
	Upload(ctx context.Context, key string, reader io.Reader, contentType string) error
	// Download returns the blob at the given key with its properties.
	// Returns ErrNotFound if the blob does not exist.
	Download(ctx context.Context, key string) (*DownloadResult, error)
	// Find returns metadata for the blob at the given key without downloading it.
	// Returns ErrNotFound if the blob does not exist.
	Find(ctx context.Context, key string) (*Metadata, error)
	// List returns one page of blob metadata matching the options.
	List(ctx context.Context, opts ListOptions) (*ListResult, error)
}

type azure struct {
	client    *azblob.Client
	container string
	maxList   int32
	logger    *slog.Logger
}

// New creates a storage system from the given configuration. Connection
// string auth takes precedence; otherwise the service URL is used with
// the default Azure credential chain. No connection is established until
// Start is called.
func New(cfg *Config, logger *slog.Logger) (System, error) {
	client, err := newClient(cfg)
	if err != nil {
		return nil, err
	}

	return &azure{
		client:    client,
		container: cfg.ContainerName,
		maxList:   cfg.MaxListSize,
		logger:    logger.With("system", "storage"),
	}, nil
}

func newClient(cfg *Config) (*azblob.Client, error) {
	if cfg.ConnectionString != "" {
		client, err := azblob.NewClientFromConnectionString(cfg.ConnectionString, nil)
		if err != nil {
			return nil, fmt.Errorf("create storage client: %w", err)
		}
		return client, nil
	}

	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("create storage credential: %w", err)
	}

	client, err := azblob.NewClient(cfg.ServiceURL, cred, nil)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}

	return client, nil
}

func (a *azure) Start(lc *lifecycle.Coordinator) error {
	a.logger.Info("starting storage system")

	lc.OnStartup(func() {
		_, err := a.client.CreateContainer(lc.Context(), a.container, nil)
		if err != nil {
			if !bloberror.HasCode(err, bloberror.ContainerAlreadyExists) {
				a.logger.Error("storage container initialization failed", "error", err)
				return
			}
		}

		a.logger.Info("storage container ready", "container", a.container)
	})

	return nil
}

func (a *azure) Upload(ctx context.Context, key string, reader io.Reader, contentType string) error {
	if err := validateKey(key); err != nil {
		return err
	}

	opts := &azblob.UploadStreamOptions{
		HTTPHeaders: &blob.HTTPHeaders{
			BlobContentType: &contentType,
		},
	}

	_, err := a.client.UploadStream(ctx, a.container, key, reader, opts)
	if err != nil {
		return fmt.Errorf("upload blob %s: %w", key, err)
	}

	return nil
}

func (a *azure) Download(ctx context.Context, key string) (*DownloadResult, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}

	resp, err := a.client.DownloadStream(ctx, a.container, key, nil)
	if err != nil {
		if bloberror.HasCode(err, bloberror.BlobNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("download blob %s: %w", key, err)
	}

	result := &DownloadResult{Body: resp.Body}
	if resp.ContentLength != nil {
		result.Size = *resp.ContentLength
	}
	if resp.ContentType != nil {
		result.ContentType = *resp.ContentType
	}
	if resp.ETag != nil {
		result.ETag = string(*resp.ETag)
	}
	if resp.LastModified != nil {
		result.LastModified = *resp.LastModified
	}

	return result, nil
}

func (a *azure) Find(ctx context.Context, key string) (*Metadata, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}

	blobClient := a.client.
		ServiceClient().
		NewContainerClient(a.container).
		NewBlobClient(key)

	props, err := blobClient.GetProperties(ctx, nil)
	if err != nil {
		if bloberror.HasCode(err, bloberror.BlobNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find blob %s: %w", key, err)
	}

	meta := &Metadata{Key: key}
	if props.ContentLength != nil {
		meta.Size = *props.ContentLength
	}
	if props.ContentType != nil {
		meta.ContentType = *props.ContentType
	}
	if props.ETag != nil {
		meta.ETag = string(*props.ETag)
	}
	if props.LastModified != nil {
		meta.LastModified = *props.LastModified
	}

	return meta, nil
}

func (a *azure) List(ctx context.Context, opts ListOptions) (*ListResult, error) {
	max := opts.MaxResults
	if max <= 0 || max > a.maxList {
		max = a.maxList
	}

	pagerOpts := &azblob.ListBlobsFlatOptions{
		MaxResults: &max,
	}
	if opts.Prefix != "" {
		pagerOpts.Prefix = &opts.Prefix
	}
	if opts.Marker != "" {
		pagerOpts.Marker = &opts.Marker
	}

	pager := a.client.NewListBlobsFlatPager(a.container, pagerOpts)

	page, err := pager.NextPage(ctx)
	if err != nil {
		return nil, fmt.Errorf("list blobs: %w", err)
	}

	result := &ListResult{
		Items: make([]Metadata, 0, len(page.Segment.BlobItems)),
	}

	for _, item := range page.Segment.BlobItems {
		if item.Name == nil {
			continue
		}

		meta := Metadata{Key: *item.Name}
		if item.Properties != nil {
			if item.Properties.ContentLength != nil {
				meta.Size = *item.Properties.ContentLength
			}
			if item.Properties.ContentType != nil {
				meta.ContentType = *item.Properties.ContentType
			}
			if item.Properties.ETag != nil {
				meta.ETag = string(*item.Properties.ETag)
			}
			if item.Properties.LastModified != nil {
				meta.LastModified = *item.Properties.LastModified
			}
		}

		result.Items = append(result.Items, meta)
	}

	if page.NextMarker != nil {
		result.NextMarker = *page.NextMarker
	}

	return result, nil
}

func validateKey(key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	if strings.Contains(key, "..") {
		return ErrInvalidKey
	}
	return nil
}
