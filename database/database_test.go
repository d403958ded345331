package database_test

import (
	"testing"

	"github.com/lshigami/quizbank/database"
	"github.com/lshigami/quizbank/internal/model"
	"github.com/lshigami/quizbank/internal/testutil"
)

// TestAutoMigrateIsIdempotent ensures re-running the migration keeps rows and the cascade FK.
func TestAutoMigrateIsIdempotent(t *testing.T) {
	db := testutil.NewTestDB(t)

	q := model.Question{QuestionText: "2+2?"}
	if err := db.Omit("Choices").Create(&q).Error; err != nil {
		t.Fatalf("create question: %v", err)
	}
	choices := []model.Choice{
		{ChoiceText: "4", IsCorrect: true, QuestionID: q.ID},
		{ChoiceText: "5", QuestionID: q.ID},
	}
	if err := db.Create(&choices).Error; err != nil {
		t.Fatalf("create choices: %v", err)
	}

	for i := 0; i < 2; i++ {
		if err := database.AutoMigrate(db); err != nil {
			t.Fatalf("migrate run %d: %v", i+2, err)
		}
	}

	var stored model.Question
	if err := db.Preload("Choices").First(&stored, q.ID).Error; err != nil {
		t.Fatalf("reload question: %v", err)
	}
	if stored.QuestionText != "2+2?" || len(stored.Choices) != 2 {
		t.Fatalf("rows lost across migrations: %+v", stored)
	}

	if err := db.Delete(&model.Question{}, q.ID).Error; err != nil {
		t.Fatalf("delete question: %v", err)
	}
	var remaining int64
	if err := db.Model(&model.Choice{}).Where("question_id = ?", q.ID).Count(&remaining).Error; err != nil {
		t.Fatalf("count choices: %v", err)
	}
	if remaining != 0 {
		t.Fatalf("expected cascade to remove choices, %d left", remaining)
	}
}

// TestPingAndClose ensures Ping fails once the pool is closed.
func TestPingAndClose(t *testing.T) {
	db := testutil.NewTestDB(t)
	if err := database.Ping(t.Context(), db); err != nil {
		t.Fatalf("ping: %v", err)
	}
	if err := database.Close(db); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := database.Ping(t.Context(), db); err == nil {
		t.Fatalf("expected ping on closed pool to fail")
	}
}
