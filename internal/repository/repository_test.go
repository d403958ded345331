package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/lshigami/quizbank/internal/model"
	"github.com/lshigami/quizbank/internal/testutil"
	"gorm.io/gorm"
)

func seedQuestion(t *testing.T, questions QuestionRepository, choices ChoiceRepository, text string, choiceTexts ...string) model.Question {
	t.Helper()
	ctx := context.Background()
	q := model.Question{QuestionText: text}
	if err := questions.Create(ctx, &q); err != nil {
		t.Fatalf("create question: %v", err)
	}
	batch := make([]model.Choice, 0, len(choiceTexts))
	for i, c := range choiceTexts {
		batch = append(batch, model.Choice{ChoiceText: c, IsCorrect: i == 0, QuestionID: q.ID})
	}
	if err := choices.CreateBatch(ctx, batch); err != nil {
		t.Fatalf("create choices: %v", err)
	}
	q.Choices = batch
	return q
}

// TestQuestionCreateAndFind ensures created questions get ids and can be read back.
func TestQuestionCreateAndFind(t *testing.T) {
	db := testutil.NewTestDB(t)
	questions := NewQuestionRepository(db)
	ctx := context.Background()

	q := model.Question{QuestionText: "Capital of France?"}
	if err := questions.Create(ctx, &q); err != nil {
		t.Fatalf("create: %v", err)
	}
	if q.ID == 0 {
		t.Fatalf("expected generated id")
	}
	found, err := questions.FindByID(ctx, q.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if found.QuestionText != "Capital of France?" {
		t.Fatalf("unexpected text %q", found.QuestionText)
	}
}

// TestQuestionFindByIDMissing ensures a missing row surfaces gorm.ErrRecordNotFound.
func TestQuestionFindByIDMissing(t *testing.T) {
	db := testutil.NewTestDB(t)
	_, err := NewQuestionRepository(db).FindByID(context.Background(), 42)
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}

// TestQuestionCreateIgnoresAttachedChoices ensures Create never writes choices implicitly.
func TestQuestionCreateIgnoresAttachedChoices(t *testing.T) {
	db := testutil.NewTestDB(t)
	questions := NewQuestionRepository(db)
	choices := NewChoiceRepository(db)
	ctx := context.Background()

	q := model.Question{QuestionText: "q", Choices: []model.Choice{{ChoiceText: "a"}}}
	if err := questions.Create(ctx, &q); err != nil {
		t.Fatalf("create: %v", err)
	}
	stored, err := choices.FindByQuestionID(ctx, q.ID)
	if err != nil {
		t.Fatalf("find choices: %v", err)
	}
	if len(stored) != 0 {
		t.Fatalf("expected no choices to be written, got %d", len(stored))
	}
}

// TestQuestionFindAllOrdersByID ensures listing follows insertion order.
func TestQuestionFindAllOrdersByID(t *testing.T) {
	db := testutil.NewTestDB(t)
	questions := NewQuestionRepository(db)
	choices := NewChoiceRepository(db)

	first := seedQuestion(t, questions, choices, "first")
	second := seedQuestion(t, questions, choices, "second")

	all, err := questions.FindAll(context.Background())
	if err != nil {
		t.Fatalf("find all: %v", err)
	}
	if len(all) != 2 || all[0].ID != first.ID || all[1].ID != second.ID {
		t.Fatalf("unexpected order: %+v", all)
	}
	count, err := questions.Count(context.Background())
	if err != nil || count != 2 {
		t.Fatalf("expected count 2, got %d (%v)", count, err)
	}
}

// TestQuestionUpdateText ensures only the text column changes.
func TestQuestionUpdateText(t *testing.T) {
	db := testutil.NewTestDB(t)
	questions := NewQuestionRepository(db)
	choices := NewChoiceRepository(db)
	ctx := context.Background()

	q := seedQuestion(t, questions, choices, "old", "a", "b")
	if err := questions.UpdateText(ctx, &q, "new"); err != nil {
		t.Fatalf("update: %v", err)
	}
	found, err := questions.FindByID(ctx, q.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if found.QuestionText != "new" {
		t.Fatalf("expected new text, got %q", found.QuestionText)
	}
	stored, _ := choices.FindByQuestionID(ctx, q.ID)
	if len(stored) != 2 {
		t.Fatalf("expected choices untouched, got %d", len(stored))
	}
}

// TestChoicesCreateBatchEmpty ensures an empty batch is a no-op rather than an error.
func TestChoicesCreateBatchEmpty(t *testing.T) {
	db := testutil.NewTestDB(t)
	if err := NewChoiceRepository(db).CreateBatch(context.Background(), nil); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
}

// TestChoicesScopedToQuestion ensures choice lookups never mix questions.
func TestChoicesScopedToQuestion(t *testing.T) {
	db := testutil.NewTestDB(t)
	questions := NewQuestionRepository(db)
	choices := NewChoiceRepository(db)
	ctx := context.Background()

	q1 := seedQuestion(t, questions, choices, "q1", "a", "b")
	q2 := seedQuestion(t, questions, choices, "q2", "c")
	empty := seedQuestion(t, questions, choices, "q3")

	got, err := choices.FindByQuestionID(ctx, q1.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(got) != 2 || got[0].ChoiceText != "a" || !got[0].IsCorrect || got[1].IsCorrect {
		t.Fatalf("unexpected q1 choices: %+v", got)
	}

	grouped, err := choices.FindByQuestionIDs(ctx, []uint{q1.ID, q2.ID, empty.ID})
	if err != nil {
		t.Fatalf("find grouped: %v", err)
	}
	if len(grouped[q1.ID]) != 2 || len(grouped[q2.ID]) != 1 || len(grouped[empty.ID]) != 0 {
		t.Fatalf("unexpected grouping: %+v", grouped)
	}
	if grouped[q2.ID][0].ChoiceText != "c" {
		t.Fatalf("unexpected q2 choice: %+v", grouped[q2.ID])
	}

	none, err := choices.FindByQuestionIDs(ctx, nil)
	if err != nil || len(none) != 0 {
		t.Fatalf("expected empty map for no ids, got %v (%v)", none, err)
	}
}

// TestChoicesDeleteByQuestionID ensures only the target question's choices are removed.
func TestChoicesDeleteByQuestionID(t *testing.T) {
	db := testutil.NewTestDB(t)
	questions := NewQuestionRepository(db)
	choices := NewChoiceRepository(db)
	ctx := context.Background()

	q1 := seedQuestion(t, questions, choices, "q1", "a", "b")
	q2 := seedQuestion(t, questions, choices, "q2", "c")

	removed, err := choices.DeleteByQuestionID(ctx, q1.ID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if removed != 2 {
		t.Fatalf("expected 2 removed, got %d", removed)
	}
	left, _ := choices.FindByQuestionID(ctx, q2.ID)
	if len(left) != 1 {
		t.Fatalf("expected q2 choices untouched, got %d", len(left))
	}
}

// TestQuestionDeleteCascadesToChoices ensures the foreign key removes orphaned choices.
func TestQuestionDeleteCascadesToChoices(t *testing.T) {
	db := testutil.NewTestDB(t)
	questions := NewQuestionRepository(db)
	choices := NewChoiceRepository(db)
	ctx := context.Background()

	q := seedQuestion(t, questions, choices, "q", "a", "b")
	if err := questions.Delete(ctx, q.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	left, err := choices.FindByQuestionID(ctx, q.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(left) != 0 {
		t.Fatalf("expected cascade to remove choices, %d left", len(left))
	}
}

// TestChoiceRequiresExistingQuestion ensures the foreign key rejects dangling choices.
func TestChoiceRequiresExistingQuestion(t *testing.T) {
	db := testutil.NewTestDB(t)
	err := NewChoiceRepository(db).CreateBatch(context.Background(), []model.Choice{{ChoiceText: "x", QuestionID: 999}})
	if err == nil {
		t.Fatalf("expected foreign key violation")
	}
}

// TestWithTxRollsBack ensures writes through WithTx disappear when the transaction fails.
func TestWithTxRollsBack(t *testing.T) {
	db := testutil.NewTestDB(t)
	questions := NewQuestionRepository(db)
	ctx := context.Background()
	sentinel := errors.New("abort")

	err := db.Transaction(func(tx *gorm.DB) error {
		q := model.Question{QuestionText: "temp"}
		if err := questions.WithTx(tx).Create(ctx, &q); err != nil {
			return err
		}
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected sentinel, got %v", err)
	}
	count, _ := questions.Count(ctx)
	if count != 0 {
		t.Fatalf("expected rollback, found %d questions", count)
	}
}

// TestChoicesCreateBatchLargerThanOneStatement ensures big choice lists are split across INSERTs.
func TestChoicesCreateBatchLargerThanOneStatement(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	questions, choices := NewQuestionRepository(db), NewChoiceRepository(db)

	q := model.Question{QuestionText: "many"}
	if err := questions.Create(ctx, &q); err != nil {
		t.Fatalf("create question: %v", err)
	}
	const total = 7000
	batch := make([]model.Choice, total)
	for i := range batch {
		batch[i] = model.Choice{ChoiceText: "c", QuestionID: q.ID}
	}
	if err := choices.CreateBatch(ctx, batch); err != nil {
		t.Fatalf("create choices: %v", err)
	}
	seen := make(map[uint]bool, total)
	for _, c := range batch {
		if c.ID == 0 || seen[c.ID] {
			t.Fatalf("expected distinct generated ids, got %d", c.ID)
		}
		seen[c.ID] = true
	}
	stored, err := choices.FindByQuestionID(ctx, q.ID)
	if err != nil {
		t.Fatalf("find choices: %v", err)
	}
	if len(stored) != total {
		t.Fatalf("expected %d choices, got %d", total, len(stored))
	}
}

// TestChoicesFindByManyQuestionIDs ensures id lists beyond one IN clause are looked up in chunks.
func TestChoicesFindByManyQuestionIDs(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	questions, choices := NewQuestionRepository(db), NewChoiceRepository(db)

	first := seedQuestion(t, questions, choices, "first", "a", "b")
	last := seedQuestion(t, questions, choices, "last", "c")

	ids := make([]uint, 0, 40000)
	ids = append(ids, first.ID)
	for id := uint(1000); id < 40000; id++ {
		ids = append(ids, id)
	}
	ids = append(ids, last.ID)

	grouped, err := choices.FindByQuestionIDs(ctx, ids)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(grouped) != 2 || len(grouped[first.ID]) != 2 || len(grouped[last.ID]) != 1 {
		t.Fatalf("unexpected grouping: %+v", grouped)
	}
	if grouped[first.ID][0].ChoiceText != "a" || grouped[first.ID][1].ChoiceText != "b" {
		t.Fatalf("expected choices in id order, got %+v", grouped[first.ID])
	}
}
