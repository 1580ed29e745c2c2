package services

import (
	"encoding/json"
	"errors"

	"github.com/ncerda/simulator-server/models"
	"github.com/ncerda/simulator-server/storage"
	"github.com/ncerda/simulator-server/utils"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type OptionInput struct {
	Content   json.RawMessage `json:"content" binding:"required"`
	IsCorrect bool            `json:"isCorrect"`
}

type QuestionInput struct {
	Content       json.RawMessage `json:"content" binding:"required"`
	Justification json.RawMessage `json:"justification"`
	Options       []OptionInput   `json:"options" binding:"required,min=1"`
	CategoryID    *uint           `json:"categoryId"`
	SimulatorIDs  []string        `json:"simulators"`
}

// QuestionView is a question as read endpoints return it: every document
// rewritten so image src attributes point at signed URLs.
type QuestionView struct {
	ID            uint              `json:"id"`
	Content       models.Document   `json:"content"`
	Justification *models.Document  `json:"justification,omitempty"`
	Options       []OptionView      `json:"options"`
	CategoryID    *uint             `json:"category_id,omitempty"`
	Category      *models.Category  `json:"category,omitempty"`
	Simulators    []string          `json:"simulators,omitempty"`
}

type OptionView struct {
	ID        uint            `json:"id"`
	Content   models.Document `json:"content"`
	IsCorrect bool            `json:"is_correct"`
}

func optionDocs(options []OptionInput) [][]byte {
	docs := make([][]byte, len(options))
	for i, opt := range options {
		docs[i] = opt.Content
	}
	return docs
}

// CreateQuestion persists a question with its options, justification and
// image records in one transaction. Referenced images must already be
// uploaded; only their metadata rows are created here.
func CreateQuestion(db *gorm.DB, in QuestionInput) (*models.Question, error) {
	refs, err := CollectImageRefs(in.Content, in.Justification, optionDocs(in.Options))
	if err != nil {
		return nil, err
	}

	question := models.Question{
		Content:    datatypes.JSON(in.Content),
		CategoryID: in.CategoryID,
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&question).Error; err != nil {
			return err
		}
		for _, opt := range in.Options {
			option := models.Option{
				QuestionID: question.ID,
				Content:    datatypes.JSON(opt.Content),
				IsCorrect:  opt.IsCorrect,
			}
			if err := tx.Create(&option).Error; err != nil {
				return err
			}
		}
		if len(in.Justification) > 0 && string(in.Justification) != "null" {
			just := models.Justification{
				QuestionID: question.ID,
				Content:    datatypes.JSON(in.Justification),
			}
			if err := tx.Create(&just).Error; err != nil {
				return err
			}
		}
		if err := RegisterImages(tx, question.ID, refs); err != nil {
			return err
		}
		return associateSimulators(tx, &question, in.SimulatorIDs)
	})
	if err != nil {
		return nil, err
	}
	return &question, nil
}

// UpdateQuestion replaces a question's options wholesale, merges its
// justification in place, reconciles simulator associations against the
// requested set and cleans up image records orphaned by the new documents.
func UpdateQuestion(db *gorm.DB, store storage.Store, id uint, in QuestionInput) error {
	refs, err := CollectImageRefs(in.Content, in.Justification, optionDocs(in.Options))
	if err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		var question models.Question
		if err := tx.Preload("Simulators").First(&question, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NotFound("Question")
			}
			return err
		}

		updates := map[string]interface{}{
			"content":     datatypes.JSON(in.Content),
			"category_id": in.CategoryID,
		}
		if err := tx.Model(&question).Updates(updates).Error; err != nil {
			return err
		}

		// Options are replaced wholesale.
		if err := tx.Where("question_id = ?", id).Delete(&models.Option{}).Error; err != nil {
			return err
		}
		for _, opt := range in.Options {
			option := models.Option{
				QuestionID: id,
				Content:    datatypes.JSON(opt.Content),
				IsCorrect:  opt.IsCorrect,
			}
			if err := tx.Create(&option).Error; err != nil {
				return err
			}
		}

		if err := mergeJustification(tx, id, in.Justification); err != nil {
			return err
		}

		if in.SimulatorIDs != nil {
			if err := reconcileSimulators(tx, &question, in.SimulatorIDs); err != nil {
				return err
			}
		}

		return ReconcileImages(tx, store, id, refs)
	})
}

func mergeJustification(tx *gorm.DB, questionID uint, content json.RawMessage) error {
	hasContent := len(content) > 0 && string(content) != "null"

	var just models.Justification
	err := tx.Where("question_id = ?", questionID).First(&just).Error
	switch {
	case err == nil:
		if !hasContent {
			return tx.Delete(&just).Error
		}
		return tx.Model(&just).Update("content", datatypes.JSON(content)).Error
	case errors.Is(err, gorm.ErrRecordNotFound):
		if !hasContent {
			return nil
		}
		just = models.Justification{QuestionID: questionID, Content: datatypes.JSON(content)}
		return tx.Create(&just).Error
	default:
		return err
	}
}

// associateSimulators links a new question to the given simulators and bumps
// their cached question counts in the same transaction.
func associateSimulators(tx *gorm.DB, question *models.Question, simulatorIDs []string) error {
	for _, simID := range simulatorIDs {
		var sim models.Simulator
		if err := tx.First(&sim, "id = ?", simID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NotFound("Simulator")
			}
			return err
		}
		if err := tx.Model(&sim).Association("Questions").Append(question); err != nil {
			return err
		}
		if err := tx.Model(&sim).
			Update("number_of_questions", gorm.Expr("number_of_questions + 1")).Error; err != nil {
			return err
		}
	}
	return nil
}

// reconcileSimulators moves a question's simulator associations to exactly
// the desired set, adjusting number_of_questions on every simulator that
// gains or loses the question.
func reconcileSimulators(tx *gorm.DB, question *models.Question, desiredIDs []string) error {
	desired := make(map[string]bool, len(desiredIDs))
	for _, id := range desiredIDs {
		desired[id] = true
	}
	existing := make(map[string]bool, len(question.Simulators))
	for _, sim := range question.Simulators {
		existing[sim.ID] = true
	}

	for _, sim := range question.Simulators {
		if desired[sim.ID] {
			continue
		}
		if err := tx.Model(sim).Association("Questions").Delete(question); err != nil {
			return err
		}
		if err := tx.Model(sim).
			Update("number_of_questions", gorm.Expr("number_of_questions - 1")).Error; err != nil {
			return err
		}
	}

	var toAdd []string
	for _, id := range desiredIDs {
		if !existing[id] {
			toAdd = append(toAdd, id)
		}
	}
	return associateSimulators(tx, question, toAdd)
}

// DeleteQuestion removes a question with its options, justification, image
// rows and blobs, and decrements the question count of every simulator it
// belonged to.
func DeleteQuestion(db *gorm.DB, store storage.Store, id uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var question models.Question
		if err := tx.Preload("Simulators").First(&question, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NotFound("Question")
			}
			return err
		}

		if err := DeleteQuestionImages(tx, store, id); err != nil {
			return err
		}
		if err := tx.Where("question_id = ?", id).Delete(&models.Option{}).Error; err != nil {
			return err
		}
		if err := tx.Where("question_id = ?", id).Delete(&models.Justification{}).Error; err != nil {
			return err
		}

		for _, sim := range question.Simulators {
			if err := tx.Model(sim).
				Update("number_of_questions", gorm.Expr("number_of_questions - 1")).Error; err != nil {
				return err
			}
		}
		if err := tx.Model(&question).Association("Simulators").Clear(); err != nil {
			return err
		}

		return tx.Delete(&question).Error
	})
}

// GetQuestion loads a question and rewrites every document's image nodes to
// signed URLs.
func GetQuestion(db *gorm.DB, store storage.Store, id uint) (*QuestionView, error) {
	var question models.Question
	err := db.
		Preload("Options").
		Preload("Justification").
		Preload("Category.SuperCategory").
		Preload("Simulators").
		First(&question, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFound("Question")
		}
		return nil, err
	}
	return buildQuestionView(db, store, &question)
}

// ListQuestions pages through questions, signing each one's documents.
func ListQuestions(db *gorm.DB, store storage.Store, page, count int) (utils.Pagination, []QuestionView, error) {
	var total int64
	if err := db.Model(&models.Question{}).Count(&total).Error; err != nil {
		return utils.Pagination{}, nil, err
	}
	p := utils.CalculatePagination(page, count, total)

	var questions []models.Question
	err := db.
		Preload("Options").
		Preload("Justification").
		Preload("Category").
		Offset(p.Offset()).Limit(p.Count).
		Order("id ASC").
		Find(&questions).Error
	if err != nil {
		return utils.Pagination{}, nil, err
	}

	views := make([]QuestionView, 0, len(questions))
	for i := range questions {
		view, err := buildQuestionView(db, store, &questions[i])
		if err != nil {
			return utils.Pagination{}, nil, err
		}
		views = append(views, *view)
	}
	return p, views, nil
}

// buildQuestionView parses the stored documents, resolves the question's
// image rows to signed URLs and rewrites every matching image node. A stored
// document that fails to parse is a 400, not a silent pass-through.
func buildQuestionView(db *gorm.DB, store storage.Store, question *models.Question) (*QuestionView, error) {
	urls, err := SignedURLMap(db, store, question.ID)
	if err != nil {
		return nil, err
	}

	content, err := models.ParseDocument(question.Content)
	if err != nil {
		return nil, MalformedDocument("question content")
	}
	content.RewriteImageSrc(urls)

	view := QuestionView{
		ID:         question.ID,
		Content:    content,
		CategoryID: question.CategoryID,
		Category:   question.Category,
	}

	if question.Justification != nil {
		just, err := models.ParseDocument(question.Justification.Content)
		if err != nil {
			return nil, MalformedDocument("justification")
		}
		just.RewriteImageSrc(urls)
		view.Justification = &just
	}

	view.Options = make([]OptionView, 0, len(question.Options))
	for _, opt := range question.Options {
		doc, err := models.ParseDocument(opt.Content)
		if err != nil {
			return nil, MalformedDocument("option content")
		}
		doc.RewriteImageSrc(urls)
		view.Options = append(view.Options, OptionView{
			ID:        opt.ID,
			Content:   doc,
			IsCorrect: opt.IsCorrect,
		})
	}

	for _, sim := range question.Simulators {
		view.Simulators = append(view.Simulators, sim.ID)
	}

	return &view, nil
}
