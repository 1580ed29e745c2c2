package models

// Image entity types. The blob key of an image is always "{type}/{name}".
const (
	ImageTypeQuestion      = "question"
	ImageTypeJustification = "justification"
	ImageTypeOption        = "option"
)

// Image links one embedded image reference of a question's documents to its
// blob-storage object. The rows for a question must always mirror the distinct
// image titles referenced across its body, justification and options.
type Image struct {
	ID         uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name       string `gorm:"size:255;not null" json:"name"`
	Key        string `gorm:"size:512;not null" json:"key"`
	Type       string `gorm:"size:20;not null" json:"type"`
	QuestionID uint   `gorm:"not null;index" json:"question_id"`
}
