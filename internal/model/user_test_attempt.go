package model

import "time"

// UserTest is one user's timed run through one test. At most one active
// (not completed, not expired) attempt exists per (user, test) pair; the
// unique index cannot express the time condition, so the attempt store
// serializes starts with a locked find-or-create.
// swagger:model UserTest
type UserTest struct {
	BaseModel
	UserID      uint         `gorm:"not null;index:idx_user_test_pair" json:"userId"`
	TestID      uint         `gorm:"not null;index:idx_user_test_pair" json:"testId"`
	StartedAt   time.Time    `gorm:"not null" json:"startedAt"`
	ExpiresAt   time.Time    `gorm:"not null" json:"expiresAt"`
	FinishedAt  *time.Time   `json:"finishedAt,omitempty"`
	IsCompleted bool         `gorm:"not null;default:false" json:"isCompleted"`
	Score       int          `gorm:"not null;default:0" json:"score"`
	MaxScore    int          `gorm:"not null;default:0" json:"maxScore"`
	Answers     []UserAnswer `gorm:"constraint:OnDelete:CASCADE" json:"answers,omitempty"`
}

func (UserTest) TableName() string {
	return "user_tests"
}

// ActiveAt reports whether the attempt is still open for submissions.
func (ut *UserTest) ActiveAt(now time.Time) bool {
	return !ut.IsCompleted && !now.After(ut.ExpiresAt)
}

// UserAnswer records the selected options for one question of one attempt.
// Resubmissions overwrite the row; the unique index backs the upsert.
// swagger:model UserAnswer
type UserAnswer struct {
	BaseModel
	UserTestID      uint     `gorm:"not null;uniqueIndex:idx_attempt_question" json:"userTestId"`
	QuestionID      uint     `gorm:"not null;uniqueIndex:idx_attempt_question" json:"questionId"`
	SelectedOptions []Option `gorm:"many2many:user_answer_options" json:"selectedOptions,omitempty"`
	IsCorrect       bool     `gorm:"not null;default:false" json:"isCorrect"`
	EarnedPoints    int      `gorm:"not null;default:0" json:"earnedPoints"`
}

func (UserAnswer) TableName() string {
	return "user_answers"
}

// SelectedOptionIDs returns the ids of the options the user picked.
func (a *UserAnswer) SelectedOptionIDs() []uint {
	ids := make([]uint, 0, len(a.SelectedOptions))
	for _, o := range a.SelectedOptions {
		ids = append(ids, o.ID)
	}
	return ids
}
