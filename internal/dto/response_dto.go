package dto

type ChoiceResponse struct {
	ID         uint   `json:"id" example:"1"`
	ChoiceText string `json:"choice_text" example:"4"`
	IsCorrect  bool   `json:"is_correct" example:"true"`
}

type QuestionResponse struct {
	ID           uint             `json:"id" example:"1"`
	QuestionText string           `json:"question_text" example:"2+2?"`
	Choices      []ChoiceResponse `json:"choices"`
}

type MessageResponse struct {
	Message string `json:"message" example:"Question 1 and its choices were deleted"`
}

type ErrorResponse struct {
	Detail string `json:"detail" example:"Question not found"`
}

// ValidationIssue describes one rejected field, addressed by its JSON path.
type ValidationIssue struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

type ValidationErrorResponse struct {
	Detail []ValidationIssue `json:"detail"`
}

type HealthResponse struct {
	Status string `json:"status" example:"ok"`
}
