package dto

// ChoiceCreateDTO is one answer option in a create or update request.
type ChoiceCreateDTO struct {
	ChoiceText *string `json:"choice_text" binding:"required" example:"4"`
	IsCorrect  bool    `json:"is_correct" example:"true"` // false when omitted
}

// QuestionCreateDTO is the body of POST /questions/ and PUT /questions/{question_id}.
// Pointers and nil-checks let an empty string or an empty choices array through
// while still rejecting missing fields.
type QuestionCreateDTO struct {
	QuestionText *string           `json:"question_text" binding:"required" example:"2+2?"`
	Choices      []ChoiceCreateDTO `json:"choices" binding:"required,dive"`
}
