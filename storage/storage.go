package storage

import "io"

// SignedURLTTL is the lifetime of every signed URL handed to clients, in
// seconds. Expired URLs are the client's problem; nothing re-issues them.
const SignedURLTTL = 5400

// Store is the blob-storage boundary the services depend on. Keys are
// "{type}/{name}" paths inside a single bucket.
type Store interface {
	Put(key string, body io.Reader, contentType string) error
	Remove(keys []string) error
	SignedURL(key string) (string, error)
}
