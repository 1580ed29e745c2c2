package models

import "gorm.io/datatypes"

type Question struct {
	ID            uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	Content       datatypes.JSON `gorm:"type:jsonb;not null" json:"content"`
	CategoryID    *uint          `json:"category_id"`
	Category      *Category      `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Options       []Option       `gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE" json:"options"`
	Justification *Justification `gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE" json:"justification,omitempty"`
	Images        []Image        `gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE" json:"-"`
	Simulators    []*Simulator   `gorm:"many2many:simulator_questions" json:"-"`
}

type Option struct {
	ID         uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	QuestionID uint           `gorm:"not null;index" json:"question_id"`
	Content    datatypes.JSON `gorm:"type:jsonb;not null" json:"content"`
	IsCorrect  bool           `gorm:"not null;default:false" json:"is_correct"`
}

type Justification struct {
	ID         uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	QuestionID uint           `gorm:"not null;uniqueIndex" json:"question_id"`
	Content    datatypes.JSON `gorm:"type:jsonb;not null" json:"content"`
}
