package models

import "time"

type Simulator struct {
	ID                string      `gorm:"primaryKey;size:36" json:"id"`
	Name              string      `gorm:"size:100;unique;not null" json:"name"`
	Password          string      `gorm:"size:255;not null" json:"-"`
	Duration          int         `gorm:"not null" json:"duration"`
	Navigate          bool        `gorm:"not null;default:false" json:"navigate"`
	Review            bool        `gorm:"not null;default:false" json:"review"`
	Visibility        bool        `gorm:"not null;default:true" json:"visibility"`
	DurationReview    int         `gorm:"default:0" json:"duration_review"`
	NumberOfQuestions int         `gorm:"column:number_of_questions;not null;default:0" json:"number_of_questions"`
	CreatedAt         time.Time   `gorm:"autoCreateTime" json:"created_at"`
	Questions         []*Question `gorm:"many2many:simulator_questions" json:"-"`
}

// CategoryQuota is the transient {category, count} pair a simulator create or
// update request carries. It is never persisted.
type CategoryQuota struct {
	CategoryID        uint `json:"categoryId" binding:"required"`
	NumberOfQuestions int  `json:"numberOfQuestions" binding:"min=0"`
}
