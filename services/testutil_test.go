package services_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"

	"github.com/ncerda/simulator-server/config"
	"github.com/ncerda/simulator-server/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))
	return db
}

// fakeStore records every blob call so tests can assert exact keys.
type fakeStore struct {
	mu         sync.Mutex
	puts       []string
	removed    [][]string
	signed     []string
	failSign   bool
	failRemove bool
}

func (f *fakeStore) Put(key string, body io.Reader, contentType string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.puts = append(f.puts, key)
	return nil
}

func (f *fakeStore) Remove(keys []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failRemove {
		return errors.New("storage unreachable")
	}
	f.removed = append(f.removed, keys)
	return nil
}

func (f *fakeStore) SignedURL(key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failSign {
		return "", errors.New("storage unreachable")
	}
	f.signed = append(f.signed, key)
	return "https://signed.example/" + key, nil
}

func (f *fakeStore) removedKeys() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var keys []string
	for _, batch := range f.removed {
		keys = append(keys, batch...)
	}
	return keys
}

// docJSON builds a rich-text document with one image node per title, mixed
// with a paragraph so the walk has something to skip.
func docJSON(t *testing.T, titles ...string) json.RawMessage {
	t.Helper()
	doc := models.Document{Type: "doc", Content: []models.Node{
		{Type: models.NodeParagraph, Content: []models.Node{{Type: models.NodeText, Text: "statement"}}},
	}}
	for _, title := range titles {
		doc.Content = append(doc.Content, models.Node{
			Type:  models.NodeImage,
			Attrs: &models.NodeAttrs{Title: title, Src: "upload://" + title},
		})
	}
	raw, err := doc.JSON()
	require.NoError(t, err)
	return raw
}

func seedCategory(t *testing.T, db *gorm.DB, name string) *models.Category {
	t.Helper()
	cat := models.Category{Name: name}
	require.NoError(t, db.Create(&cat).Error)
	return &cat
}

func seedQuestions(t *testing.T, db *gorm.DB, categoryID uint, n int) []uint {
	t.Helper()
	ids := make([]uint, 0, n)
	for i := 0; i < n; i++ {
		q := models.Question{
			Content:    []byte(`{"type":"doc","content":[]}`),
			CategoryID: &categoryID,
		}
		require.NoError(t, db.Create(&q).Error)
		ids = append(ids, q.ID)
	}
	return ids
}
