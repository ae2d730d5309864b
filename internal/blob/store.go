package blob

import (
	"context"
	"io"
	"time"
)

// SignedURLValidity bounds how long a generated download link stays
// usable before the holder must request a fresh one.
const SignedURLValidity = 60 * time.Second

// Store persists attachment payloads outside the task database and
// hands out short-lived download links for them.
type Store interface {
	// Put uploads the payload under the given object key.
	Put(ctx context.Context, key, contentType string, body io.Reader) error
	// SignedURL returns a download link for key that expires after
	// SignedURLValidity.
	SignedURL(ctx context.Context, key string) (string, error)
	// Delete removes the payload for key. Deleting a missing key is
	// not an error.
	Delete(ctx context.Context, key string) error
	// Bucket reports the bucket name objects are stored in.
	Bucket() string
}
