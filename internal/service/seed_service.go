package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/lshigami/quizbank/internal/dto"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// SeedDocument is the YAML layout accepted by SEED_FILE.
//
//	questions:
//	  - question_text: "2+2?"
//	    choices:
//	      - choice_text: "4"
//	        is_correct: true
type SeedDocument struct {
	Questions []SeedQuestion `yaml:"questions"`
}

// Text fields are pointers so an absent key is told apart from an empty string,
// matching what the HTTP API accepts.
type SeedQuestion struct {
	QuestionText *string      `yaml:"question_text"`
	Choices      []SeedChoice `yaml:"choices"`
}

type SeedChoice struct {
	ChoiceText *string `yaml:"choice_text"`
	IsCorrect  bool    `yaml:"is_correct"`
}

type SeedService interface {
	// SeedFromFile loads path into an empty questions table and reports how many
	// questions it created. A non-empty table is left untouched.
	SeedFromFile(ctx context.Context, path string) (int, error)
}

type seedService struct {
	questions QuestionService
}

func NewSeedService(questions QuestionService) SeedService {
	return &seedService{questions: questions}
}

func (s *seedService) SeedFromFile(ctx context.Context, path string) (int, error) {
	doc, err := LoadSeedFile(path)
	if err != nil {
		return 0, err
	}

	existing, err := s.questions.CountQuestions(ctx)
	if err != nil {
		return 0, fmt.Errorf("count questions: %w", err)
	}
	if existing > 0 {
		log.Info().Int64("existing", existing).Str("file", path).Msg("Questions table not empty, skipping seed")
		return 0, nil
	}

	reqs := make([]dto.QuestionCreateDTO, 0, len(doc.Questions))
	for _, q := range doc.Questions {
		reqs = append(reqs, q.toRequest())
	}
	created, err := s.questions.CreateQuestions(ctx, reqs)
	if err != nil {
		return 0, fmt.Errorf("seed questions: %w", err)
	}
	log.Info().Int("created", created).Str("file", path).Msg("Seeded questions")
	return created, nil
}

func (q SeedQuestion) toRequest() dto.QuestionCreateDTO {
	req := dto.QuestionCreateDTO{
		QuestionText: q.QuestionText,
		Choices:      make([]dto.ChoiceCreateDTO, 0, len(q.Choices)),
	}
	for _, c := range q.Choices {
		req.Choices = append(req.Choices, dto.ChoiceCreateDTO{ChoiceText: c.ChoiceText, IsCorrect: c.IsCorrect})
	}
	return req
}

// LoadSeedFile reads and strictly decodes a seed document. Unknown keys are errors.
func LoadSeedFile(path string) (SeedDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return SeedDocument{}, fmt.Errorf("read seed file: %w", err)
	}
	return parseSeed(data)
}

func parseSeed(data []byte) (SeedDocument, error) {
	var doc SeedDocument
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&doc); err != nil {
		return SeedDocument{}, fmt.Errorf("parse seed yaml: %w", err)
	}
	var extra yaml.Node
	if err := decoder.Decode(&extra); err != io.EOF {
		if err == nil {
			return SeedDocument{}, fmt.Errorf("parse seed yaml: multiple documents are not supported")
		}
		return SeedDocument{}, fmt.Errorf("parse seed yaml: %w", err)
	}
	for i, q := range doc.Questions {
		if q.QuestionText == nil {
			return SeedDocument{}, fmt.Errorf("parse seed yaml: questions[%d].question_text is required", i)
		}
		if q.Choices == nil {
			return SeedDocument{}, fmt.Errorf("parse seed yaml: questions[%d].choices is required", i)
		}
		for j, c := range q.Choices {
			if c.ChoiceText == nil {
				return SeedDocument{}, fmt.Errorf("parse seed yaml: questions[%d].choices[%d].choice_text is required", i, j)
			}
		}
	}
	return doc, nil
}
