package model

import "time"

type QuestionType string

const (
	SingleChoice   QuestionType = "SINGLE_CHOICE"
	MultipleChoice QuestionType = "MULTIPLE_CHOICE"
)

// Test is the catalog definition of a timed test. The attempt lifecycle only
// reads it; mutations go through the authoring service.
// swagger:model Test
type Test struct {
	BaseModel
	Title           string     `gorm:"size:255;not null" json:"title"`
	Subject         string     `gorm:"size:100;not null;index" json:"subject"`
	Description     string     `gorm:"size:1000" json:"description"`
	StartTime       time.Time  `gorm:"not null" json:"startTime"`
	EndTime         time.Time  `gorm:"not null" json:"endTime"`
	DurationMinutes int        `gorm:"not null" json:"durationMinutes"`
	IsActive        bool       `gorm:"default:false" json:"isActive"`
	CreatedByID     uint       `gorm:"index;not null" json:"createdById"`
	Questions       []Question `gorm:"constraint:OnDelete:CASCADE" json:"questions,omitempty"`
}

func (Test) TableName() string {
	return "tests"
}

// AvailableAt reports whether the test can be attempted at the given instant.
func (t *Test) AvailableAt(now time.Time) bool {
	return t.IsActive && !now.Before(t.StartTime) && now.Before(t.EndTime)
}

// MaxScore is the sum of all question points.
func (t *Test) MaxScore() int {
	total := 0
	for _, q := range t.Questions {
		total += q.Points
	}
	return total
}

// swagger:model Question
type Question struct {
	BaseModel
	TestID   uint         `gorm:"index;not null" json:"testId"`
	Text     string       `gorm:"size:1000;not null" json:"text"`
	Points   int          `gorm:"not null;default:1" json:"points"`
	Type     QuestionType `gorm:"size:20;not null;default:'SINGLE_CHOICE'" json:"type"`
	Position int          `gorm:"not null;default:0" json:"position"`
	Options  []Option     `gorm:"constraint:OnDelete:CASCADE" json:"options,omitempty"`
}

func (Question) TableName() string {
	return "questions"
}

// CorrectOptionIDs returns the ids of the options marked correct.
func (q *Question) CorrectOptionIDs() []uint {
	var ids []uint
	for _, o := range q.Options {
		if o.IsCorrect {
			ids = append(ids, o.ID)
		}
	}
	return ids
}

// swagger:model Option
type Option struct {
	BaseModel
	QuestionID uint   `gorm:"index;not null" json:"questionId"`
	Text       string `gorm:"size:500;not null" json:"text"`
	IsCorrect  bool   `gorm:"default:false" json:"isCorrect"`
}

func (Option) TableName() string {
	return "options"
}
