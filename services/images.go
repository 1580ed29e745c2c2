package services

import (
	"sync"

	"github.com/ncerda/simulator-server/models"
	"github.com/ncerda/simulator-server/storage"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// ImageRef is one embedded image reference found in a question's documents:
// the entity type it came from plus the image's logical name.
type ImageRef struct {
	Type string
	Name string
}

// Key is the blob-storage key the reference resolves to.
func (r ImageRef) Key() string {
	return r.Type + "/" + r.Name
}

// CollectImageRefs extracts every image reference from a question's body,
// justification and option documents, tagged with the entity type the blob
// key is prefixed with. Empty titles are dropped; duplicates survive until
// the membership diff.
func CollectImageRefs(content, justification []byte, options [][]byte) ([]ImageRef, error) {
	var refs []ImageRef

	body, err := models.ParseDocument(content)
	if err != nil {
		return nil, MalformedDocument("question content")
	}
	for _, title := range body.ImageTitles() {
		refs = append(refs, ImageRef{Type: models.ImageTypeQuestion, Name: title})
	}

	just, err := models.ParseDocument(justification)
	if err != nil {
		return nil, MalformedDocument("justification")
	}
	for _, title := range just.ImageTitles() {
		refs = append(refs, ImageRef{Type: models.ImageTypeJustification, Name: title})
	}

	for _, raw := range options {
		opt, err := models.ParseDocument(raw)
		if err != nil {
			return nil, MalformedDocument("option content")
		}
		for _, title := range opt.ImageTitles() {
			refs = append(refs, ImageRef{Type: models.ImageTypeOption, Name: title})
		}
	}

	return refs, nil
}

// RegisterImages creates one Image row per distinct reference for a freshly
// created question. The blobs themselves are expected to exist already: the
// upload endpoint is a separate, prior client step.
func RegisterImages(tx *gorm.DB, questionID uint, refs []ImageRef) error {
	seen := make(map[string]bool, len(refs))
	for _, ref := range refs {
		if seen[ref.Key()] {
			continue
		}
		seen[ref.Key()] = true
		img := models.Image{
			Name:       ref.Name,
			Key:        ref.Key(),
			Type:       ref.Type,
			QuestionID: questionID,
		}
		if err := tx.Create(&img).Error; err != nil {
			return err
		}
	}
	return nil
}

// ReconcileImages diffs a question's stored Image rows against the references
// its updated documents carry. Rows whose "{type}/{name}" key is no longer
// referenced are orphans: their rows and blobs are deleted together, and any
// count mismatch fails the whole update. References without a row get one
// created.
func ReconcileImages(tx *gorm.DB, store storage.Store, questionID uint, refs []ImageRef) error {
	var existing []models.Image
	if err := tx.Where("question_id = ?", questionID).Find(&existing).Error; err != nil {
		return err
	}

	desired := make(map[string]bool, len(refs))
	for _, ref := range refs {
		desired[ref.Key()] = true
	}

	var orphanIDs []uint
	var orphanKeys []string
	existingKeys := make(map[string]bool, len(existing))
	for _, img := range existing {
		existingKeys[img.Key] = true
		if !desired[img.Key] {
			orphanIDs = append(orphanIDs, img.ID)
			orphanKeys = append(orphanKeys, img.Key)
		}
	}

	if len(orphanIDs) > 0 {
		res := tx.Where("id IN ?", orphanIDs).Delete(&models.Image{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected != int64(len(orphanIDs)) {
			return Internal("not all orphaned images were deleted from the database")
		}
		if err := deleteBlobs(store, orphanKeys); err != nil {
			return err
		}
	}

	for _, ref := range refs {
		if existingKeys[ref.Key()] {
			continue
		}
		existingKeys[ref.Key()] = true
		img := models.Image{
			Name:       ref.Name,
			Key:        ref.Key(),
			Type:       ref.Type,
			QuestionID: questionID,
		}
		if err := tx.Create(&img).Error; err != nil {
			return err
		}
	}

	return nil
}

// DeleteQuestionImages removes every Image row of a question together with
// the backing blobs. Used when the question itself goes away.
func DeleteQuestionImages(tx *gorm.DB, store storage.Store, questionID uint) error {
	var images []models.Image
	if err := tx.Where("question_id = ?", questionID).Find(&images).Error; err != nil {
		return err
	}
	if len(images) == 0 {
		return nil
	}

	keys := make([]string, 0, len(images))
	for _, img := range images {
		keys = append(keys, img.Key)
	}

	res := tx.Where("question_id = ?", questionID).Delete(&models.Image{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected != int64(len(images)) {
		return Internal("not all images were deleted from the database")
	}
	return deleteBlobs(store, keys)
}

// SignedURLMap resolves every Image row of a question to a short-lived signed
// URL, keyed by image name. URL requests fan out concurrently; one failure
// fails the whole map, so callers never see partially signed documents.
func SignedURLMap(db *gorm.DB, store storage.Store, questionID uint) (map[string]string, error) {
	var images []models.Image
	if err := db.Select("name", "key").Where("question_id = ?", questionID).Find(&images).Error; err != nil {
		return nil, err
	}
	if len(images) == 0 {
		return map[string]string{}, nil
	}

	urls := make(map[string]string, len(images))
	var mu sync.Mutex
	var g errgroup.Group
	for _, img := range images {
		img := img
		g.Go(func() error {
			url, err := store.SignedURL(img.Key)
			if err != nil {
				return err
			}
			mu.Lock()
			urls[img.Name] = url
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, Internal("an error occurred generating signed URLs")
	}
	return urls, nil
}

func deleteBlobs(store storage.Store, keys []string) error {
	if err := store.Remove(keys); err != nil {
		return StorageFailure(err)
	}
	return nil
}
