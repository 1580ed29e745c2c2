package services

import (
	"math/rand"

	"github.com/ncerda/simulator-server/models"
	"gorm.io/gorm"
)

// SelectQuestions draws the question set for a simulator: for every quota, in
// input order, exactly NumberOfQuestions distinct question IDs from that
// category, never repeating an ID already drawn for an earlier quota. The
// whole call fails with InsufficientQuestionsError as soon as one category
// cannot cover its quota after exclusions, so a quota listed twice draws its
// second batch from a reduced pool.
//
// Selection is read-only; persisting the association and the cached question
// count is the caller's transaction. rng may be nil, in which case the shared
// math/rand source is used; tests pass a seeded one.
func SelectQuestions(db *gorm.DB, quotas []models.CategoryQuota, rng *rand.Rand) ([]uint, error) {
	var selected []uint

	for _, quota := range quotas {
		var available int64
		if err := eligibleQuestions(db, quota.CategoryID, selected).Count(&available).Error; err != nil {
			return nil, err
		}
		if available < int64(quota.NumberOfQuestions) {
			return nil, &InsufficientQuestionsError{
				CategoryID: quota.CategoryID,
				Requested:  quota.NumberOfQuestions,
				Available:  available,
			}
		}
		if quota.NumberOfQuestions == 0 {
			continue
		}

		var pool []uint
		if err := eligibleQuestions(db, quota.CategoryID, selected).Pluck("id", &pool).Error; err != nil {
			return nil, err
		}

		// Uniform sample without replacement.
		shuffle(pool, rng)
		selected = append(selected, pool[:quota.NumberOfQuestions]...)
	}

	return selected, nil
}

func eligibleQuestions(db *gorm.DB, categoryID uint, selected []uint) *gorm.DB {
	q := db.Model(&models.Question{}).Where("category_id = ?", categoryID)
	if len(selected) > 0 {
		q = q.Where("id NOT IN ?", selected)
	}
	return q
}

func shuffle(ids []uint, rng *rand.Rand) {
	swap := func(i, j int) { ids[i], ids[j] = ids[j], ids[i] }
	if rng != nil {
		rng.Shuffle(len(ids), swap)
		return
	}
	rand.Shuffle(len(ids), swap)
}
