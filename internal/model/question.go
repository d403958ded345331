package model

import (
	"time"
)

type Question struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	QuestionText string    `json:"question_text" gorm:"index"`
	Choices      []Choice  `json:"choices" gorm:"foreignKey:QuestionID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CreatedAt    time.Time `json:"-"`
	UpdatedAt    time.Time `json:"-"`
}
