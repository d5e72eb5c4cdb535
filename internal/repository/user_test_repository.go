package repository

import (
	"time"

	"quiz_platform_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserTestRepository is the attempt store. The two racy write paths,
// starting an attempt and upserting an answer, run as single transactions
// here so the lifecycle manager never does read-then-write across calls.
type UserTestRepository struct {
	DB *gorm.DB
}

func NewUserTestRepository(db *gorm.DB) *UserTestRepository {
	return &UserTestRepository{DB: db}
}

func (r *UserTestRepository) FindByID(id uint) (*model.UserTest, error) {
	var ut model.UserTest
	if err := r.DB.First(&ut, id).Error; err != nil {
		return nil, err
	}
	return &ut, nil
}

func (r *UserTestRepository) FindByIDWithAnswers(id uint) (*model.UserTest, error) {
	var ut model.UserTest
	err := r.DB.
		Preload("Answers", func(db *gorm.DB) *gorm.DB {
			return db.Order("question_id")
		}).
		Preload("Answers.SelectedOptions").
		First(&ut, id).Error
	if err != nil {
		return nil, err
	}
	return &ut, nil
}

func (r *UserTestRepository) FindByUser(userID uint) ([]model.UserTest, error) {
	var attempts []model.UserTest
	err := r.DB.Where("user_id = ?", userID).Order("started_at").Find(&attempts).Error
	return attempts, err
}

// FindOrCreateActive returns the active attempt for (user, test) if one
// exists, otherwise persists attempt as the new one. Concurrent starts are
// serialized with a row lock so they converge on a single attempt; SQLite
// (used in tests) serializes writes on its own and rejects FOR UPDATE.
//
// Under InnoDB two concurrent first-starts can both gap-lock the empty
// range and deadlock on insert. The victim's transaction is rolled back,
// so the whole operation is rerun once; by then the winner's attempt is
// committed and the rerun's find converges on it.
func (r *UserTestRepository) FindOrCreateActive(attempt *model.UserTest, now time.Time) (*model.UserTest, bool, error) {
	result, created, err := r.findOrCreateActive(attempt, now)
	if err != nil {
		result, created, err = r.findOrCreateActive(attempt, now)
	}
	return result, created, err
}

func (r *UserTestRepository) findOrCreateActive(attempt *model.UserTest, now time.Time) (*model.UserTest, bool, error) {
	var result *model.UserTest
	created := false
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		query := tx
		if tx.Dialector.Name() != "sqlite" {
			query = tx.Clauses(clause.Locking{Strength: "UPDATE"})
		}

		var existing model.UserTest
		err := query.
			Where("user_id = ? AND test_id = ? AND is_completed = ? AND expires_at >= ?",
				attempt.UserID, attempt.TestID, false, now).
			First(&existing).Error
		if err == nil {
			result = &existing
			return nil
		}
		if err != gorm.ErrRecordNotFound {
			return err
		}

		if err := tx.Create(attempt).Error; err != nil {
			return err
		}
		result = attempt
		created = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return result, created, nil
}

func (r *UserTestRepository) Save(attempt *model.UserTest) error {
	return r.DB.Save(attempt).Error
}

// ExpiredActiveIDs lists attempts whose expiry has passed but whose
// completion was never recorded.
func (r *UserTestRepository) ExpiredActiveIDs(now time.Time) ([]uint, error) {
	var ids []uint
	err := r.DB.Model(&model.UserTest{}).
		Where("is_completed = ? AND expires_at < ?", false, now).
		Pluck("id", &ids).Error
	return ids, err
}

// UpsertAnswer writes the answer for (attempt, question) in one transaction.
// The unique index on the pair makes the create-or-overwrite atomic; the
// selected-option set is fully replaced, never merged.
func (r *UserTestRepository) UpsertAnswer(answer *model.UserAnswer, selected []model.Option) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		err := tx.Omit("SelectedOptions").Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_test_id"}, {Name: "question_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"is_correct", "earned_points", "updated_at"}),
		}).Create(answer).Error
		if err != nil {
			return err
		}

		var row model.UserAnswer
		if err := tx.Where("user_test_id = ? AND question_id = ?", answer.UserTestID, answer.QuestionID).First(&row).Error; err != nil {
			return err
		}
		answer.ID = row.ID
		answer.CreatedAt = row.CreatedAt

		if err := tx.Model(&row).Association("SelectedOptions").Replace(selected); err != nil {
			return err
		}
		answer.SelectedOptions = selected
		return nil
	})
}

func (r *UserTestRepository) ListAnswers(attemptID uint) ([]model.UserAnswer, error) {
	var answers []model.UserAnswer
	err := r.DB.
		Preload("SelectedOptions").
		Where("user_test_id = ?", attemptID).
		Order("question_id").
		Find(&answers).Error
	return answers, err
}

func (r *UserTestRepository) CountAnswers(attemptID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.UserAnswer{}).Where("user_test_id = ?", attemptID).Count(&count).Error
	return count, err
}
