package storage

import "context"

// ObjectStore abstracts the bucket API holding verification documents
// and feedback images. Implementations return the public URL of the
// stored object.
type ObjectStore interface {
	Upload(ctx context.Context, bucket, key, contentType string, data []byte) (string, error)
	Delete(ctx context.Context, bucket, key string) error
	PublicURL(bucket, key string) string
}
