package services

import (
	"errors"
	"math/rand"

	"github.com/google/uuid"
	"github.com/ncerda/simulator-server/models"
	"github.com/ncerda/simulator-server/storage"
	"github.com/ncerda/simulator-server/utils"
	"gorm.io/gorm"
)

type SimulatorInput struct {
	Name              string                 `json:"name" binding:"required,min=3,max=100"`
	Password          string                 `json:"password" binding:"required"`
	Duration          int                    `json:"duration" binding:"required,min=1"`
	Navigate          bool                   `json:"navigate"`
	Review            bool                   `json:"review"`
	Visibility        bool                   `json:"visibility"`
	DurationReview    int                    `json:"durationReview"`
	CategoryQuestions []models.CategoryQuota `json:"categoryQuestions"`
}

type SimulatorUpdateInput struct {
	Name              *string                `json:"name"`
	Duration          *int                   `json:"duration"`
	Navigate          *bool                  `json:"navigate"`
	Review            *bool                  `json:"review"`
	Visibility        *bool                  `json:"visibility"`
	DurationReview    *int                   `json:"durationReview"`
	CategoryQuestions []models.CategoryQuota `json:"categoryQuestions"`
}

// SimulatorView is a simulator as read endpoints return it, questions signed
// and the per-category quota derived from the current association set.
type SimulatorView struct {
	ID                string                 `json:"id"`
	Name              string                 `json:"name"`
	Duration          int                    `json:"duration"`
	Navigate          bool                   `json:"navigate"`
	Review            bool                   `json:"review"`
	Visibility        bool                   `json:"visibility"`
	DurationReview    int                    `json:"duration_review"`
	NumberOfQuestions int                    `json:"number_of_questions"`
	Questions         []QuestionView         `json:"questions"`
	CategoryQuestions []models.CategoryQuota `json:"category_questions,omitempty"`
}

// CreateSimulator samples questions per category quota and creates the
// simulator with its association and cached count in one transaction. The
// sampling reads run outside the transaction; the availability check inside
// SelectQuestions happens immediately before the write.
func CreateSimulator(db *gorm.DB, in SimulatorInput, rng *rand.Rand) (*models.Simulator, error) {
	var count int64
	if err := db.Model(&models.Simulator{}).Where("name = ?", in.Name).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, Conflict("Simulator already exists")
	}

	selected, err := SelectQuestions(db, in.CategoryQuestions, rng)
	if err != nil {
		return nil, err
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	sim := models.Simulator{
		ID:                uuid.New().String(),
		Name:              in.Name,
		Password:          hash,
		Duration:          in.Duration,
		Navigate:          in.Navigate,
		Review:            in.Review,
		Visibility:        in.Visibility,
		DurationReview:    in.DurationReview,
		NumberOfQuestions: len(selected),
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&sim).Error; err != nil {
			return err
		}
		return appendQuestions(tx, &sim, selected)
	})
	if err != nil {
		return nil, err
	}
	return &sim, nil
}

// UpdateSimulator updates scalar fields and, only when the request carries
// category quotas, resamples and replaces the whole question association.
// Without quotas the existing set and count stay untouched.
func UpdateSimulator(db *gorm.DB, id string, in SimulatorUpdateInput, rng *rand.Rand) (*models.Simulator, error) {
	var sim models.Simulator
	if err := db.First(&sim, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFound("Simulator")
		}
		return nil, err
	}

	var selected []uint
	resample := len(in.CategoryQuestions) > 0
	if resample {
		var err error
		selected, err = SelectQuestions(db, in.CategoryQuestions, rng)
		if err != nil {
			return nil, err
		}
	}

	updates := map[string]interface{}{}
	if in.Name != nil {
		updates["name"] = *in.Name
	}
	if in.Duration != nil {
		updates["duration"] = *in.Duration
	}
	if in.Navigate != nil {
		updates["navigate"] = *in.Navigate
	}
	if in.Review != nil {
		updates["review"] = *in.Review
	}
	if in.Visibility != nil {
		updates["visibility"] = *in.Visibility
	}
	if in.DurationReview != nil {
		updates["duration_review"] = *in.DurationReview
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(&sim).Updates(updates).Error; err != nil {
				return err
			}
		}
		if !resample {
			return nil
		}
		if err := tx.Model(&sim).Association("Questions").Clear(); err != nil {
			return err
		}
		if err := appendQuestions(tx, &sim, selected); err != nil {
			return err
		}
		return tx.Model(&sim).Update("number_of_questions", len(selected)).Error
	})
	if err != nil {
		return nil, err
	}
	return &sim, nil
}

func appendQuestions(tx *gorm.DB, sim *models.Simulator, questionIDs []uint) error {
	if len(questionIDs) == 0 {
		return nil
	}
	var questions []*models.Question
	if err := tx.Where("id IN ?", questionIDs).Find(&questions).Error; err != nil {
		return err
	}
	if len(questions) != len(questionIDs) {
		return Internal("selected questions disappeared before the association was written")
	}
	return tx.Model(sim).Association("Questions").Append(questions)
}

// GetSimulator loads a simulator with its signed questions and the quota
// breakdown derived from the current association set.
func GetSimulator(db *gorm.DB, store storage.Store, id string) (*SimulatorView, error) {
	var sim models.Simulator
	err := db.
		Preload("Questions.Options").
		Preload("Questions.Justification").
		Preload("Questions.Category.SuperCategory").
		First(&sim, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFound("Simulator")
		}
		return nil, err
	}

	view := SimulatorView{
		ID:                sim.ID,
		Name:              sim.Name,
		Duration:          sim.Duration,
		Navigate:          sim.Navigate,
		Review:            sim.Review,
		Visibility:        sim.Visibility,
		DurationReview:    sim.DurationReview,
		NumberOfQuestions: sim.NumberOfQuestions,
		Questions:         make([]QuestionView, 0, len(sim.Questions)),
	}

	perCategory := map[uint]int{}
	for _, q := range sim.Questions {
		qView, err := buildQuestionView(db, store, q)
		if err != nil {
			return nil, err
		}
		view.Questions = append(view.Questions, *qView)
		if q.CategoryID != nil {
			perCategory[*q.CategoryID]++
		}
	}
	for categoryID, n := range perCategory {
		view.CategoryQuestions = append(view.CategoryQuestions, models.CategoryQuota{
			CategoryID:        categoryID,
			NumberOfQuestions: n,
		})
	}

	return &view, nil
}

// ListSimulators pages through simulators ordered by name; question documents
// are signed per simulator.
func ListSimulators(db *gorm.DB, store storage.Store, page, count int) (utils.Pagination, []SimulatorView, error) {
	var total int64
	if err := db.Model(&models.Simulator{}).Count(&total).Error; err != nil {
		return utils.Pagination{}, nil, err
	}
	p := utils.CalculatePagination(page, count, total)

	var sims []models.Simulator
	err := db.
		Preload("Questions.Options").
		Preload("Questions.Justification").
		Preload("Questions.Category").
		Offset(p.Offset()).Limit(p.Count).
		Order("name ASC").
		Find(&sims).Error
	if err != nil {
		return utils.Pagination{}, nil, err
	}

	views := make([]SimulatorView, 0, len(sims))
	for i := range sims {
		sim := &sims[i]
		view := SimulatorView{
			ID:                sim.ID,
			Name:              sim.Name,
			Duration:          sim.Duration,
			Navigate:          sim.Navigate,
			Review:            sim.Review,
			Visibility:        sim.Visibility,
			DurationReview:    sim.DurationReview,
			NumberOfQuestions: sim.NumberOfQuestions,
			Questions:         make([]QuestionView, 0, len(sim.Questions)),
		}
		for _, q := range sim.Questions {
			qView, err := buildQuestionView(db, store, q)
			if err != nil {
				return utils.Pagination{}, nil, err
			}
			view.Questions = append(view.Questions, *qView)
		}
		views = append(views, view)
	}
	return p, views, nil
}

// DeleteSimulator removes a simulator and its association rows. The questions
// themselves survive.
func DeleteSimulator(db *gorm.DB, id string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var sim models.Simulator
		if err := tx.First(&sim, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NotFound("Simulator")
			}
			return err
		}
		if err := tx.Model(&sim).Association("Questions").Clear(); err != nil {
			return err
		}
		return tx.Delete(&sim).Error
	})
}

// ResetSimulatorPassword replaces a simulator's password hash.
func ResetSimulatorPassword(db *gorm.DB, id, newPassword string) error {
	var sim models.Simulator
	if err := db.First(&sim, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NotFound("Simulator")
		}
		return err
	}
	hash, err := utils.HashPassword(newPassword)
	if err != nil {
		return err
	}
	return db.Model(&sim).Update("password", hash).Error
}

// SignInSimulator authenticates a simulator session. Invisible simulators are
// reported as absent, not forbidden.
func SignInSimulator(db *gorm.DB, id, password string) (*models.Simulator, error) {
	var sim models.Simulator
	err := db.Where("id = ? AND visibility = ?", id, true).First(&sim).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFound("Simulator")
		}
		return nil, err
	}
	if !utils.CheckPassword(sim.Password, password) {
		return nil, BadRequest("Invalid password")
	}
	return &sim, nil
}
