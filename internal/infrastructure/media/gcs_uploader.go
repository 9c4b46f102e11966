package media

import (
	"context"
	"io"
	"path/filepath"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"

	"github.com/sanikant20/bookMandala-Server/pkg/helpers"
)

// GCSUploader stores avatar images in a Google Cloud Storage bucket and
// returns their public URL.
type GCSUploader struct {
	Client *storage.Client
	Bucket string
}

func NewGCSUploader(client *storage.Client, bucket string) *GCSUploader {
	return &GCSUploader{Client: client, Bucket: bucket}
}

func (g *GCSUploader) Upload(ctx context.Context, userID, filename, contentType string, r io.Reader) (string, error) {
	id := uuid.NewString()
	ext := strings.ToLower(filepath.Ext(filename))
	objectPath := filepath.ToSlash(filepath.Join("avatars", userID, id+ext))
	return helpers.UploadImageToGCS(ctx, g.Client, g.Bucket, objectPath, contentType, r)
}
