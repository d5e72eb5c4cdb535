package repository

import (
	"time"

	"quiz_platform_backend/internal/model"

	"gorm.io/gorm"
)

// TestRepository is the catalog store. The attempt lifecycle only reads it;
// writes come from the authoring service. Question/option collections are
// preloaded explicitly in question order, never lazily.
type TestRepository struct {
	DB *gorm.DB
}

func NewTestRepository(db *gorm.DB) *TestRepository {
	return &TestRepository{DB: db}
}

func withQuestionGraph(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("position, id")
		}).
		Preload("Questions.Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("id")
		})
}

func (r *TestRepository) FindByID(id uint) (*model.Test, error) {
	var t model.Test
	if err := withQuestionGraph(r.DB).First(&t, id).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TestRepository) FindAll() ([]model.Test, error) {
	var tests []model.Test
	err := withQuestionGraph(r.DB).Order("id").Find(&tests).Error
	return tests, err
}

func (r *TestRepository) FindByCreator(creatorID uint) ([]model.Test, error) {
	var tests []model.Test
	err := withQuestionGraph(r.DB).Where("created_by_id = ?", creatorID).Order("id").Find(&tests).Error
	return tests, err
}

func (r *TestRepository) FindActive(now time.Time) ([]model.Test, error) {
	var tests []model.Test
	err := withQuestionGraph(r.DB).
		Where("is_active = ? AND start_time <= ? AND end_time > ?", true, now, now).
		Order("id").
		Find(&tests).Error
	return tests, err
}

func (r *TestRepository) FindActiveBySubject(now time.Time, subject string) ([]model.Test, error) {
	var tests []model.Test
	err := withQuestionGraph(r.DB).
		Where("is_active = ? AND start_time <= ? AND end_time > ? AND subject = ?", true, now, now, subject).
		Order("id").
		Find(&tests).Error
	return tests, err
}

func (r *TestRepository) ActiveSubjects(now time.Time) ([]string, error) {
	var subjects []string
	err := r.DB.Model(&model.Test{}).
		Where("is_active = ? AND start_time <= ? AND end_time > ?", true, now, now).
		Distinct().
		Order("subject").
		Pluck("subject", &subjects).Error
	return subjects, err
}

func (r *TestRepository) Create(test *model.Test) error {
	return r.DB.Create(test).Error
}

func (r *TestRepository) Save(test *model.Test) error {
	return r.DB.Save(test).Error
}

// ReplaceQuestions swaps the full question/option graph of a test in one
// transaction, the authoring flow's full-overwrite update.
func (r *TestRepository) ReplaceQuestions(test *model.Test, questions []model.Question) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var questionIDs []uint
		if err := tx.Model(&model.Question{}).Where("test_id = ?", test.ID).Pluck("id", &questionIDs).Error; err != nil {
			return err
		}
		if len(questionIDs) > 0 {
			if err := tx.Where("question_id IN ?", questionIDs).Delete(&model.Option{}).Error; err != nil {
				return err
			}
			if err := tx.Where("test_id = ?", test.ID).Delete(&model.Question{}).Error; err != nil {
				return err
			}
		}
		for i := range questions {
			questions[i].ID = 0
			questions[i].TestID = test.ID
			questions[i].Position = i
			for j := range questions[i].Options {
				questions[i].Options[j].ID = 0
			}
		}
		if len(questions) == 0 {
			return nil
		}
		return tx.Create(&questions).Error
	})
}

func (r *TestRepository) Delete(id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var questionIDs []uint
		if err := tx.Model(&model.Question{}).Where("test_id = ?", id).Pluck("id", &questionIDs).Error; err != nil {
			return err
		}
		if len(questionIDs) > 0 {
			if err := tx.Where("question_id IN ?", questionIDs).Delete(&model.Option{}).Error; err != nil {
				return err
			}
			if err := tx.Where("test_id = ?", id).Delete(&model.Question{}).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&model.Test{}, id).Error
	})
}

func (r *TestRepository) FindQuestionByID(id uint) (*model.Question, error) {
	var q model.Question
	err := r.DB.Preload("Options", func(db *gorm.DB) *gorm.DB {
		return db.Order("id")
	}).First(&q, id).Error
	if err != nil {
		return nil, err
	}
	return &q, nil
}
