package upload

import "context"

// Storage is the blob delegate: raw bytes in, stable URL out. The
// listing image endpoints are its only consumers; none of the workflow
// logic touches blobs.
type Storage interface {
	Upload(ctx context.Context, data []byte, name, folder string) (string, error)
	Delete(ctx context.Context, url string) error
	Exists(ctx context.Context, url string) (bool, error)
}
