package question

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/quizbank/internal/controller"
	"github.com/lshigami/quizbank/internal/dto"
	"github.com/lshigami/quizbank/internal/service"
	"github.com/rs/zerolog/log"
)

type QuestionController struct {
	questionService service.QuestionService
}

func NewQuestionController(questionService service.QuestionService) *QuestionController {
	return &QuestionController{questionService: questionService}
}

func (qc *QuestionController) RegisterRoutes(router gin.IRouter) {
	questions := router.Group("/questions")
	{
		questions.POST("/", qc.CreateQuestion)
		questions.GET("/", qc.GetAllQuestions)
		questions.GET("/:question_id", qc.GetQuestion)
		questions.PUT("/:question_id", qc.UpdateQuestion)
		questions.DELETE("/:question_id", qc.DeleteQuestion)
	}
}

// CreateQuestion godoc
// @Summary Create a question with its choices
// @Description Inserts the question, then one choice row per submitted choice.
// @Tags questions
// @Accept json
// @Produce json
// @Param question body dto.QuestionCreateDTO true "Question text and choices"
// @Success 200 {object} dto.QuestionResponse
// @Failure 422 {object} dto.ValidationErrorResponse "Invalid request body"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /questions/ [post]
func (qc *QuestionController) CreateQuestion(ctx *gin.Context) {
	var req dto.QuestionCreateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		controller.ValidationError(ctx, err)
		return
	}

	resp, err := qc.questionService.CreateQuestion(ctx.Request.Context(), req)
	if err != nil {
		controller.RespondError(ctx, err, "CreateQuestion")
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// GetAllQuestions godoc
// @Summary List all questions
// @Description Returns every question in insertion order, each with its choices.
// @Tags questions
// @Produce json
// @Success 200 {array} dto.QuestionResponse
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /questions/ [get]
func (qc *QuestionController) GetAllQuestions(ctx *gin.Context) {
	questions, err := qc.questionService.GetAllQuestions(ctx.Request.Context())
	if err != nil {
		controller.RespondError(ctx, err, "GetAllQuestions")
		return
	}
	log.Debug().Int("count", len(questions)).Msg("Listed questions")
	ctx.JSON(http.StatusOK, questions)
}

// GetQuestion godoc
// @Summary Get a question by ID
// @Tags questions
// @Produce json
// @Param question_id path int true "Question ID"
// @Success 200 {object} dto.QuestionResponse
// @Failure 404 {object} dto.ErrorResponse "Question not found"
// @Failure 422 {object} dto.ValidationErrorResponse "Invalid question ID"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /questions/{question_id} [get]
func (qc *QuestionController) GetQuestion(ctx *gin.Context) {
	id, ok := controller.ParseID(ctx, "question_id")
	if !ok {
		return
	}

	resp, err := qc.questionService.GetQuestion(ctx.Request.Context(), id)
	if err != nil {
		controller.RespondError(ctx, err, "GetQuestion")
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// UpdateQuestion godoc
// @Summary Replace a question's text and choices
// @Description Overwrites the text and replaces the full choice set. Old choice ids are discarded.
// @Tags questions
// @Accept json
// @Produce json
// @Param question_id path int true "Question ID"
// @Param question body dto.QuestionCreateDTO true "New question text and choices"
// @Success 200 {object} dto.QuestionResponse
// @Failure 404 {object} dto.ErrorResponse "Question not found"
// @Failure 422 {object} dto.ValidationErrorResponse "Invalid request body or question ID"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /questions/{question_id} [put]
func (qc *QuestionController) UpdateQuestion(ctx *gin.Context) {
	id, ok := controller.ParseID(ctx, "question_id")
	if !ok {
		return
	}

	var req dto.QuestionCreateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		controller.ValidationError(ctx, err)
		return
	}

	resp, err := qc.questionService.UpdateQuestion(ctx.Request.Context(), id, req)
	if err != nil {
		controller.RespondError(ctx, err, "UpdateQuestion")
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// DeleteQuestion godoc
// @Summary Delete a question and its choices
// @Tags questions
// @Produce json
// @Param question_id path int true "Question ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 404 {object} dto.ErrorResponse "Question not found"
// @Failure 422 {object} dto.ValidationErrorResponse "Invalid question ID"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /questions/{question_id} [delete]
func (qc *QuestionController) DeleteQuestion(ctx *gin.Context) {
	id, ok := controller.ParseID(ctx, "question_id")
	if !ok {
		return
	}

	resp, err := qc.questionService.DeleteQuestion(ctx.Request.Context(), id)
	if err != nil {
		controller.RespondError(ctx, err, "DeleteQuestion")
		return
	}
	ctx.JSON(http.StatusOK, resp)
}
