package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jinzhu/copier"
	"github.com/lshigami/quizbank/internal/dto"
	"github.com/lshigami/quizbank/internal/model"
	"github.com/lshigami/quizbank/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// ErrQuestionNotFound is returned when no question has the requested id.
var ErrQuestionNotFound = errors.New("question not found")

type QuestionService interface {
	CreateQuestion(ctx context.Context, req dto.QuestionCreateDTO) (*dto.QuestionResponse, error)
	// CreateQuestions inserts every request in one transaction: all are stored or none.
	CreateQuestions(ctx context.Context, reqs []dto.QuestionCreateDTO) (int, error)
	GetQuestion(ctx context.Context, id uint) (*dto.QuestionResponse, error)
	GetAllQuestions(ctx context.Context) ([]dto.QuestionResponse, error)
	UpdateQuestion(ctx context.Context, id uint, req dto.QuestionCreateDTO) (*dto.QuestionResponse, error)
	DeleteQuestion(ctx context.Context, id uint) (*dto.MessageResponse, error)
	CountQuestions(ctx context.Context) (int64, error)
}

type questionService struct {
	db           *gorm.DB // session factory; every operation runs in one transaction
	questionRepo repository.QuestionRepository
	choiceRepo   repository.ChoiceRepository
}

func NewQuestionService(db *gorm.DB, questionRepo repository.QuestionRepository, choiceRepo repository.ChoiceRepository) QuestionService {
	return &questionService{db: db, questionRepo: questionRepo, choiceRepo: choiceRepo}
}

// inSession runs fn with repositories bound to a single transaction. The
// transaction is committed when fn returns nil and rolled back otherwise.
func (s *questionService) inSession(ctx context.Context, fn func(questions repository.QuestionRepository, choices repository.ChoiceRepository) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(s.questionRepo.WithTx(tx), s.choiceRepo.WithTx(tx))
	})
}

func (s *questionService) CreateQuestion(ctx context.Context, req dto.QuestionCreateDTO) (*dto.QuestionResponse, error) {
	var question *model.Question
	err := s.inSession(ctx, func(questions repository.QuestionRepository, choices repository.ChoiceRepository) error {
		var err error
		question, err = insertQuestion(ctx, questions, choices, req)
		return err
	})
	if err != nil {
		log.Error().Err(err).Msg("CreateQuestion: transaction failed")
		return nil, err
	}
	log.Info().Uint("questionID", question.ID).Int("choices", len(question.Choices)).Msg("Question created")
	return toResponse(question)
}

func (s *questionService) CreateQuestions(ctx context.Context, reqs []dto.QuestionCreateDTO) (int, error) {
	err := s.inSession(ctx, func(questions repository.QuestionRepository, choices repository.ChoiceRepository) error {
		for i, req := range reqs {
			if _, err := insertQuestion(ctx, questions, choices, req); err != nil {
				return fmt.Errorf("question %d: %w", i, err)
			}
		}
		return nil
	})
	if err != nil {
		log.Error().Err(err).Int("questions", len(reqs)).Msg("CreateQuestions: transaction failed")
		return 0, err
	}
	return len(reqs), nil
}

func insertQuestion(ctx context.Context, questions repository.QuestionRepository, choices repository.ChoiceRepository, req dto.QuestionCreateDTO) (*model.Question, error) {
	question := &model.Question{QuestionText: deref(req.QuestionText)}
	if err := questions.Create(ctx, question); err != nil {
		return nil, fmt.Errorf("insert question: %w", err)
	}
	newChoices := buildChoices(question.ID, req.Choices)
	if err := choices.CreateBatch(ctx, newChoices); err != nil {
		return nil, fmt.Errorf("insert choices for question %d: %w", question.ID, err)
	}
	question.Choices = newChoices
	return question, nil
}

func (s *questionService) GetQuestion(ctx context.Context, id uint) (*dto.QuestionResponse, error) {
	var question *model.Question
	err := s.inSession(ctx, func(questions repository.QuestionRepository, choices repository.ChoiceRepository) error {
		var err error
		question, err = findQuestion(ctx, questions, id)
		if err != nil {
			return err
		}
		question.Choices, err = choices.FindByQuestionID(ctx, id)
		if err != nil {
			return fmt.Errorf("fetch choices for question %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toResponse(question)
}

func (s *questionService) GetAllQuestions(ctx context.Context) ([]dto.QuestionResponse, error) {
	var all []model.Question
	err := s.inSession(ctx, func(questions repository.QuestionRepository, choices repository.ChoiceRepository) error {
		var err error
		all, err = questions.FindAll(ctx)
		if err != nil {
			return fmt.Errorf("fetch questions: %w", err)
		}
		ids := make([]uint, 0, len(all))
		for _, q := range all {
			ids = append(ids, q.ID)
		}
		grouped, err := choices.FindByQuestionIDs(ctx, ids)
		if err != nil {
			return fmt.Errorf("fetch choices: %w", err)
		}
		for i := range all {
			all[i].Choices = grouped[all[i].ID]
		}
		return nil
	})
	if err != nil {
		log.Error().Err(err).Msg("GetAllQuestions: transaction failed")
		return nil, err
	}

	resp := make([]dto.QuestionResponse, 0, len(all))
	for i := range all {
		r, err := toResponse(&all[i])
		if err != nil {
			return nil, err
		}
		resp = append(resp, *r)
	}
	return resp, nil
}

// UpdateQuestion overwrites the text and replaces the whole choice set. The text
// update, choice delete and choice insert share one transaction.
func (s *questionService) UpdateQuestion(ctx context.Context, id uint, req dto.QuestionCreateDTO) (*dto.QuestionResponse, error) {
	var question *model.Question
	err := s.inSession(ctx, func(questions repository.QuestionRepository, choices repository.ChoiceRepository) error {
		var err error
		question, err = findQuestion(ctx, questions, id)
		if err != nil {
			return err
		}
		text := deref(req.QuestionText)
		if err := questions.UpdateText(ctx, question, text); err != nil {
			return fmt.Errorf("update question %d: %w", id, err)
		}
		question.QuestionText = text

		removed, err := choices.DeleteByQuestionID(ctx, id)
		if err != nil {
			return fmt.Errorf("delete choices for question %d: %w", id, err)
		}
		log.Debug().Uint("questionID", id).Int64("removed", removed).Msg("Old choices removed")

		newChoices := buildChoices(id, req.Choices)
		if err := choices.CreateBatch(ctx, newChoices); err != nil {
			return fmt.Errorf("insert choices for question %d: %w", id, err)
		}
		question.Choices = newChoices
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrQuestionNotFound) {
			log.Error().Err(err).Uint("questionID", id).Msg("UpdateQuestion: transaction failed")
		}
		return nil, err
	}
	log.Info().Uint("questionID", id).Int("choices", len(question.Choices)).Msg("Question updated")
	return toResponse(question)
}

func (s *questionService) DeleteQuestion(ctx context.Context, id uint) (*dto.MessageResponse, error) {
	err := s.inSession(ctx, func(questions repository.QuestionRepository, choices repository.ChoiceRepository) error {
		if _, err := findQuestion(ctx, questions, id); err != nil {
			return err
		}
		if _, err := choices.DeleteByQuestionID(ctx, id); err != nil {
			return fmt.Errorf("delete choices for question %d: %w", id, err)
		}
		if err := questions.Delete(ctx, id); err != nil {
			return fmt.Errorf("delete question %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrQuestionNotFound) {
			log.Error().Err(err).Uint("questionID", id).Msg("DeleteQuestion: transaction failed")
		}
		return nil, err
	}
	log.Info().Uint("questionID", id).Msg("Question deleted")
	return &dto.MessageResponse{Message: fmt.Sprintf("Question %d and its choices were deleted", id)}, nil
}

func (s *questionService) CountQuestions(ctx context.Context) (int64, error) {
	return s.questionRepo.Count(ctx)
}

func findQuestion(ctx context.Context, questions repository.QuestionRepository, id uint) (*model.Question, error) {
	question, err := questions.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: id %d", ErrQuestionNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("fetch question %d: %w", id, err)
	}
	return question, nil
}

func buildChoices(questionID uint, reqs []dto.ChoiceCreateDTO) []model.Choice {
	choices := make([]model.Choice, 0, len(reqs))
	for _, c := range reqs {
		choices = append(choices, model.Choice{
			ChoiceText: deref(c.ChoiceText),
			IsCorrect:  c.IsCorrect,
			QuestionID: questionID,
		})
	}
	return choices
}

func toResponse(question *model.Question) (*dto.QuestionResponse, error) {
	var resp dto.QuestionResponse
	if err := copier.Copy(&resp, question); err != nil {
		return nil, fmt.Errorf("map question %d: %w", question.ID, err)
	}
	if resp.Choices == nil {
		resp.Choices = []dto.ChoiceResponse{}
	}
	return &resp, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
