// Package storage uploads profile icons to Google Cloud Storage.
package storage

import (
	"context"
	"io"

	"cloud.google.com/go/storage"

	"github.com/oksasatya/go-ddd-identity/internal/application"
	"github.com/oksasatya/go-ddd-identity/pkg/helpers"
)

type IconStore struct {
	Client *storage.Client
	Bucket string
}

func NewIconStore(client *storage.Client, bucket string) *IconStore {
	return &IconStore{Client: client, Bucket: bucket}
}

func (s *IconStore) Upload(ctx context.Context, objectPath, contentType string, r io.Reader) error {
	return helpers.UploadObject(ctx, s.Client, s.Bucket, objectPath, contentType, r)
}

var _ application.IconStore = (*IconStore)(nil)
