package service

import (
	"fmt"
	"testing"
	"time"

	"quiz_platform_backend/internal/model"
	"quiz_platform_backend/internal/repository"
	"quiz_platform_backend/pkg/database"
	"quiz_platform_backend/pkg/logger"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func init() {
	logger.Log = zap.NewNop()
}

// newTestDB opens a per-test in-memory database with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

type fixtures struct {
	DB       *gorm.DB
	Users    *repository.UserRepository
	Tests    *repository.TestRepository
	Attempts *repository.UserTestRepository
}

func newFixtures(t *testing.T) *fixtures {
	db := newTestDB(t)
	return &fixtures{
		DB:       db,
		Users:    repository.NewUserRepository(db),
		Tests:    repository.NewTestRepository(db),
		Attempts: repository.NewUserTestRepository(db),
	}
}

func (f *fixtures) seedUser(t *testing.T, username string) *model.User {
	t.Helper()

	user := &model.User{
		TelegramID: "tg-" + username,
		Username:   username,
		FirstName:  "Test",
		Role:       model.RoleUser,
	}
	require.NoError(t, f.Users.Create(user))
	return user
}

func (f *fixtures) seedAdmin(t *testing.T, username string) *model.User {
	t.Helper()

	user := f.seedUser(t, username)
	user.Role = model.RoleAdmin
	require.NoError(t, f.Users.Save(user))
	return user
}

// seedTest creates an active two-question test worth 5 points: a 3-point
// single-choice question and a 2-point multiple-choice question.
func (f *fixtures) seedTest(t *testing.T, creatorID uint) *model.Test {
	t.Helper()

	now := time.Now()
	test := &model.Test{
		Title:           "Algebra basics",
		Subject:         "math",
		StartTime:       now.Add(-time.Hour),
		EndTime:         now.Add(time.Hour),
		DurationMinutes: 30,
		IsActive:        true,
		CreatedByID:     creatorID,
		Questions: []model.Question{
			{
				Text:     "2 + 2 = ?",
				Points:   3,
				Type:     model.SingleChoice,
				Position: 0,
				Options: []model.Option{
					{Text: "4", IsCorrect: true},
					{Text: "5"},
					{Text: "22"},
				},
			},
			{
				Text:     "Which numbers are even?",
				Points:   2,
				Type:     model.MultipleChoice,
				Position: 1,
				Options: []model.Option{
					{Text: "2", IsCorrect: true},
					{Text: "3"},
					{Text: "6", IsCorrect: true},
				},
			},
		},
	}
	require.NoError(t, f.Tests.Create(test))

	loaded, err := f.Tests.FindByID(test.ID)
	require.NoError(t, err)
	return loaded
}

// correctOptionIDs picks the correct option ids of the given question.
func correctOptionIDs(q *model.Question) []uint {
	var ids []uint
	for _, o := range q.Options {
		if o.IsCorrect {
			ids = append(ids, o.ID)
		}
	}
	return ids
}

// wrongOptionID picks one incorrect option id of the given question.
func wrongOptionID(t *testing.T, q *model.Question) uint {
	t.Helper()

	for _, o := range q.Options {
		if !o.IsCorrect {
			return o.ID
		}
	}
	t.Fatalf("question %d has no incorrect option", q.ID)
	return 0
}
