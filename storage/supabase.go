package storage

import (
	"io"
	"os"

	storage_go "github.com/supabase-community/storage-go"
)

// Supabase implements Store on top of a Supabase Storage bucket.
type Supabase struct {
	client *storage_go.Client
	bucket string
}

// NewSupabase builds the client from SUPABASE_URL, SUPABASE_KEY and
// SUPABASE_BUCKET.
func NewSupabase() *Supabase {
	supabaseURL := os.Getenv("SUPABASE_URL")
	supabaseKey := os.Getenv("SUPABASE_KEY")
	bucket := os.Getenv("SUPABASE_BUCKET")
	if bucket == "" {
		bucket = "simulator"
	}

	return &Supabase{
		client: storage_go.NewClient(supabaseURL+"/storage/v1", supabaseKey, nil),
		bucket: bucket,
	}
}

func (s *Supabase) Put(key string, body io.Reader, contentType string) error {
	upsert := true
	options := storage_go.FileOptions{
		ContentType: &contentType,
		Upsert:      &upsert,
	}
	_, err := s.client.UploadFile(s.bucket, key, body, options)
	return err
}

func (s *Supabase) Remove(keys []string) error {
	_, err := s.client.RemoveFile(s.bucket, keys)
	return err
}

func (s *Supabase) SignedURL(key string) (string, error) {
	resp, err := s.client.CreateSignedUrl(s.bucket, key, SignedURLTTL)
	if err != nil {
		return "", err
	}
	return resp.SignedURL, nil
}
