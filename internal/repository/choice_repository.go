package repository

import (
	"context"

	"github.com/lshigami/quizbank/internal/model"
	"gorm.io/gorm"
)

const (
	// Rows per INSERT statement. Each choice row binds five variables.
	choiceInsertBatchSize = 500
	// Question ids bound per IN clause, well under the SQLite and PostgreSQL variable limits.
	questionIDChunkSize = 1000
)

type ChoiceRepository interface {
	WithTx(tx *gorm.DB) ChoiceRepository
	CreateBatch(ctx context.Context, choices []model.Choice) error
	FindByQuestionID(ctx context.Context, questionID uint) ([]model.Choice, error)
	// FindByQuestionIDs groups the choices of several questions by question id.
	FindByQuestionIDs(ctx context.Context, questionIDs []uint) (map[uint][]model.Choice, error)
	DeleteByQuestionID(ctx context.Context, questionID uint) (int64, error)
}

type choiceRepository struct {
	db *gorm.DB
}

func NewChoiceRepository(db *gorm.DB) ChoiceRepository {
	return &choiceRepository{db: db}
}

func (r *choiceRepository) WithTx(tx *gorm.DB) ChoiceRepository {
	return &choiceRepository{db: tx}
}

func (r *choiceRepository) CreateBatch(ctx context.Context, choices []model.Choice) error {
	if len(choices) == 0 {
		return nil // gorm rejects an empty batch
	}
	return r.db.WithContext(ctx).CreateInBatches(&choices, choiceInsertBatchSize).Error
}

func (r *choiceRepository) FindByQuestionID(ctx context.Context, questionID uint) ([]model.Choice, error) {
	var choices []model.Choice
	err := r.db.WithContext(ctx).Where("question_id = ?", questionID).Order("id ASC").Find(&choices).Error
	return choices, err
}

func (r *choiceRepository) FindByQuestionIDs(ctx context.Context, questionIDs []uint) (map[uint][]model.Choice, error) {
	grouped := make(map[uint][]model.Choice, len(questionIDs))
	if len(questionIDs) == 0 {
		return grouped, nil
	}
	for start := 0; start < len(questionIDs); start += questionIDChunkSize {
		end := min(start+questionIDChunkSize, len(questionIDs))
		var choices []model.Choice
		err := r.db.WithContext(ctx).
			Where("question_id IN ?", questionIDs[start:end]).
			Order("id ASC").
			Find(&choices).Error
		if err != nil {
			return nil, err
		}
		for _, c := range choices {
			grouped[c.QuestionID] = append(grouped[c.QuestionID], c)
		}
	}
	return grouped, nil
}

func (r *choiceRepository) DeleteByQuestionID(ctx context.Context, questionID uint) (int64, error) {
	result := r.db.WithContext(ctx).Where("question_id = ?", questionID).Delete(&model.Choice{})
	return result.RowsAffected, result.Error
}
