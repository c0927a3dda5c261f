package storage

import (
	"io"
	"log"

	"linktree/internal/config"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
)

type Client struct {
	backend StorageProvider
	bucket  string
}

// New returns nil when storage.provider is "none" (or empty).
func New(cfg *config.Config) *Client {
	var backend StorageProvider

	switch cfg.Storage.Provider {
	case "", "none":
		log.Println("Info: storage disabled, status.json will not be published")
		return nil
	case "local":
		backend = NewLocalProvider(cfg.Storage.LocalPath)
	default:
		// S3 compatible (AWS, B2, R2, MinIO)
		s3Config := &aws.Config{
			Credentials:      credentials.NewStaticCredentials(cfg.Storage.KeyID, cfg.Storage.AppKey, ""),
			Endpoint:         aws.String(cfg.Storage.Endpoint),
			Region:           aws.String(cfg.Storage.Region),
			S3ForcePathStyle: aws.Bool(true),
		}
		sess := session.Must(session.NewSession(s3Config))
		backend = NewS3Provider(sess)
	}

	return NewClient(backend, cfg.Storage.Bucket)
}

func NewClient(backend StorageProvider, bucket string) *Client {
	return &Client{backend: backend, bucket: bucket}
}

func (c *Client) UploadStatusFile(key string, body io.ReadSeeker, contentType, cacheControl string) error {
	return c.backend.Put(c.bucket, key, body, contentType, cacheControl)
}

func (c *Client) DownloadStatusFile(key string) (*FileObject, error) {
	return c.backend.Get(c.bucket, key)
}
