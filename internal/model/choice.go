package model

import (
	"time"
)

// Choice is one answer option. QuestionID must reference an existing Question.
type Choice struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	ChoiceText string    `json:"choice_text" gorm:"index"`
	IsCorrect  bool      `json:"is_correct" gorm:"not null;default:false"`
	QuestionID uint      `json:"-" gorm:"not null;index"`
	CreatedAt  time.Time `json:"-"`
	UpdatedAt  time.Time `json:"-"`
}
