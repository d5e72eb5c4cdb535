package service

import (
	"testing"

	"quiz_platform_backend/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestScoreSelection(t *testing.T) {
	tests := []struct {
		name         string
		questionType model.QuestionType
		points       int
		correct      []uint
		selected     []uint
		wantCorrect  bool
		wantPoints   int
	}{
		{
			name:         "single choice correct",
			questionType: model.SingleChoice,
			points:       3,
			correct:      []uint{1},
			selected:     []uint{1},
			wantCorrect:  true,
			wantPoints:   3,
		},
		{
			name:         "single choice wrong option",
			questionType: model.SingleChoice,
			points:       3,
			correct:      []uint{1},
			selected:     []uint{2},
		},
		{
			name:         "single choice multiple selected",
			questionType: model.SingleChoice,
			points:       3,
			correct:      []uint{1},
			selected:     []uint{1, 2},
		},
		{
			name:         "single choice nothing selected",
			questionType: model.SingleChoice,
			points:       3,
			correct:      []uint{1},
			selected:     nil,
		},
		{
			name:         "multiple choice exact match",
			questionType: model.MultipleChoice,
			points:       2,
			correct:      []uint{1, 3},
			selected:     []uint{3, 1},
			wantCorrect:  true,
			wantPoints:   2,
		},
		{
			name:         "multiple choice missing one",
			questionType: model.MultipleChoice,
			points:       2,
			correct:      []uint{1, 3},
			selected:     []uint{1},
		},
		{
			name:         "multiple choice extra wrong option",
			questionType: model.MultipleChoice,
			points:       2,
			correct:      []uint{1, 3},
			selected:     []uint{1, 2, 3},
		},
		{
			name:         "multiple choice duplicate selection counts once",
			questionType: model.MultipleChoice,
			points:       2,
			correct:      []uint{1, 3},
			selected:     []uint{1, 1, 3},
			wantCorrect:  true,
			wantPoints:   2,
		},
		{
			name:         "multiple choice empty selection",
			questionType: model.MultipleChoice,
			points:       2,
			correct:      []uint{1, 3},
			selected:     nil,
		},
		{
			name:         "multiple choice no correct options and empty selection",
			questionType: model.MultipleChoice,
			points:       2,
			correct:      nil,
			selected:     nil,
			wantCorrect:  true,
			wantPoints:   2,
		},
		{
			name:         "multiple choice no correct options and non-empty selection",
			questionType: model.MultipleChoice,
			points:       2,
			correct:      nil,
			selected:     []uint{1},
		},
		{
			name:         "unknown question type scores nothing",
			questionType: model.QuestionType("TEXT"),
			points:       5,
			correct:      []uint{1},
			selected:     []uint{1},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			gotCorrect, gotPoints := ScoreSelection(tc.questionType, tc.points, tc.correct, tc.selected)
			assert.Equal(t, tc.wantCorrect, gotCorrect)
			assert.Equal(t, tc.wantPoints, gotPoints)
		})
	}
}

func TestScoreAnswerUsesQuestionDefinition(t *testing.T) {
	question := &model.Question{
		Points: 4,
		Type:   model.MultipleChoice,
		Options: []model.Option{
			{BaseModel: model.BaseModel{ID: 10}, IsCorrect: true},
			{BaseModel: model.BaseModel{ID: 11}},
			{BaseModel: model.BaseModel{ID: 12}, IsCorrect: true},
		},
	}

	correct, points := ScoreAnswer(question, []uint{10, 12})
	assert.True(t, correct)
	assert.Equal(t, 4, points)

	correct, points = ScoreAnswer(question, []uint{10, 11})
	assert.False(t, correct)
	assert.Zero(t, points)
}
