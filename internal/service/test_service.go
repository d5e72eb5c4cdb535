package service

import (
	"context"
	"encoding/json"
	"time"

	"quiz_platform_backend/internal/model"
	"quiz_platform_backend/internal/repository"
	"quiz_platform_backend/internal/util"
	"quiz_platform_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const (
	activeTestsCacheKey = "catalog:active_tests"
	activeTestsCacheTTL = 30 * time.Second
)

// TestService is the authoring side of the catalog: create, replace, delete
// and (de)activate tests. The attempt lifecycle never goes through it.
type TestService struct {
	Repo  *repository.TestRepository
	Users *repository.UserRepository
	Redis *redis.Client
}

func NewTestService(repo *repository.TestRepository, users *repository.UserRepository, rdb *redis.Client) *TestService {
	return &TestService{Repo: repo, Users: users, Redis: rdb}
}

type OptionCreateRequest struct {
	Text      string `json:"text" binding:"required"`
	IsCorrect bool   `json:"isCorrect"`
}

type QuestionCreateRequest struct {
	Text    string                `json:"text" binding:"required"`
	Points  int                   `json:"points"`
	Type    model.QuestionType    `json:"type"`
	Options []OptionCreateRequest `json:"options" binding:"required"`
}

type TestCreateRequest struct {
	Title           string                  `json:"title" binding:"required"`
	Subject         string                  `json:"subject" binding:"required"`
	Description     string                  `json:"description"`
	StartTime       time.Time               `json:"startTime" binding:"required"`
	EndTime         time.Time               `json:"endTime" binding:"required"`
	DurationMinutes int                     `json:"durationMinutes" binding:"required,gt=0"`
	IsActive        bool                    `json:"isActive"`
	Questions       []QuestionCreateRequest `json:"questions"`
}

// TestResponse is the catalog listing view: enough to choose a test,
// nothing about its answers.
type TestResponse struct {
	ID              uint      `json:"id"`
	Title           string    `json:"title"`
	Subject         string    `json:"subject"`
	Description     string    `json:"description"`
	StartTime       time.Time `json:"startTime"`
	EndTime         time.Time `json:"endTime"`
	DurationMinutes int       `json:"durationMinutes"`
	IsActive        bool      `json:"isActive"`
	CreatedByID     uint      `json:"createdById"`
	QuestionCount   int       `json:"questionCount"`
	TotalPoints     int       `json:"totalPoints"`
}

func (s *TestService) GetAllTests() ([]TestResponse, error) {
	tests, err := s.Repo.FindAll()
	if err != nil {
		return nil, err
	}
	return mapTestResponses(tests), nil
}

func (s *TestService) GetTestByID(id uint) (*model.Test, error) {
	test, err := s.Repo.FindByID(id)
	if err != nil {
		return nil, asDomainErr(err, util.ErrTestNotFound)
	}
	return test, nil
}

// GetActiveTests serves the attemptable catalog, backed by a short-TTL
// Redis cache. Any authoring write drops the cache entry.
func (s *TestService) GetActiveTests() ([]TestResponse, error) {
	ctx := context.Background()

	if s.Redis != nil {
		if val, err := s.Redis.Get(ctx, activeTestsCacheKey).Result(); err == nil {
			var cached []TestResponse
			if err := json.Unmarshal([]byte(val), &cached); err == nil {
				return cached, nil
			}
		}
	}

	tests, err := s.Repo.FindActive(time.Now())
	if err != nil {
		return nil, err
	}
	responses := mapTestResponses(tests)

	if s.Redis != nil {
		if data, err := json.Marshal(responses); err == nil {
			if err := s.Redis.Set(ctx, activeTestsCacheKey, data, activeTestsCacheTTL).Err(); err != nil {
				logger.Log.Warn("active tests cache write failed", zap.Error(err))
			}
		}
	}

	return responses, nil
}

func (s *TestService) GetActiveTestsBySubject(subject string) ([]TestResponse, error) {
	tests, err := s.Repo.FindActiveBySubject(time.Now(), subject)
	if err != nil {
		return nil, err
	}
	return mapTestResponses(tests), nil
}

func (s *TestService) GetActiveSubjects() ([]string, error) {
	return s.Repo.ActiveSubjects(time.Now())
}

func (s *TestService) CreateTest(req TestCreateRequest, creatorID uint) (*model.Test, error) {
	if _, err := s.Users.FindByID(creatorID); err != nil {
		return nil, asDomainErr(err, util.ErrUserNotFound)
	}

	test := &model.Test{
		Title:           req.Title,
		Subject:         req.Subject,
		Description:     req.Description,
		StartTime:       req.StartTime,
		EndTime:         req.EndTime,
		DurationMinutes: req.DurationMinutes,
		IsActive:        req.IsActive,
		CreatedByID:     creatorID,
		Questions:       buildQuestions(req.Questions),
	}

	if err := s.Repo.Create(test); err != nil {
		return nil, err
	}
	s.dropActiveCache()
	return test, nil
}

// UpdateTest overwrites the test header and its whole question graph, as the
// authoring UI always sends the complete definition.
func (s *TestService) UpdateTest(testID uint, req TestCreateRequest) (*model.Test, error) {
	test, err := s.Repo.FindByID(testID)
	if err != nil {
		return nil, asDomainErr(err, util.ErrTestNotFound)
	}

	test.Title = req.Title
	test.Subject = req.Subject
	test.Description = req.Description
	test.StartTime = req.StartTime
	test.EndTime = req.EndTime
	test.DurationMinutes = req.DurationMinutes
	test.IsActive = req.IsActive
	test.Questions = nil

	if err := s.Repo.Save(test); err != nil {
		return nil, err
	}
	if err := s.Repo.ReplaceQuestions(test, buildQuestions(req.Questions)); err != nil {
		return nil, err
	}
	s.dropActiveCache()

	return s.GetTestByID(testID)
}

func (s *TestService) DeleteTest(testID uint) error {
	if _, err := s.Repo.FindByID(testID); err != nil {
		return asDomainErr(err, util.ErrTestNotFound)
	}
	if err := s.Repo.Delete(testID); err != nil {
		return err
	}
	s.dropActiveCache()
	return nil
}

func (s *TestService) ActivateTest(testID uint) (*model.Test, error) {
	return s.setActive(testID, true)
}

func (s *TestService) DeactivateTest(testID uint) (*model.Test, error) {
	return s.setActive(testID, false)
}

func (s *TestService) setActive(testID uint, active bool) (*model.Test, error) {
	test, err := s.Repo.FindByID(testID)
	if err != nil {
		return nil, asDomainErr(err, util.ErrTestNotFound)
	}
	test.IsActive = active
	if err := s.Repo.Save(test); err != nil {
		return nil, err
	}
	s.dropActiveCache()
	return test, nil
}

func (s *TestService) dropActiveCache() {
	if s.Redis == nil {
		return
	}
	if err := s.Redis.Del(context.Background(), activeTestsCacheKey).Err(); err != nil {
		logger.Log.Warn("active tests cache invalidation failed", zap.Error(err))
	}
}

func buildQuestions(reqs []QuestionCreateRequest) []model.Question {
	questions := make([]model.Question, len(reqs))
	for i, qr := range reqs {
		points := qr.Points
		if points < 1 {
			points = 1
		}
		qType := qr.Type
		if qType == "" {
			qType = model.SingleChoice
		}

		options := make([]model.Option, len(qr.Options))
		for j, or := range qr.Options {
			options[j] = model.Option{Text: or.Text, IsCorrect: or.IsCorrect}
		}

		questions[i] = model.Question{
			Text:     qr.Text,
			Points:   points,
			Type:     qType,
			Position: i,
			Options:  options,
		}
	}
	return questions
}

func MapTestResponse(test *model.Test) TestResponse {
	return TestResponse{
		ID:              test.ID,
		Title:           test.Title,
		Subject:         test.Subject,
		Description:     test.Description,
		StartTime:       test.StartTime,
		EndTime:         test.EndTime,
		DurationMinutes: test.DurationMinutes,
		IsActive:        test.IsActive,
		CreatedByID:     test.CreatedByID,
		QuestionCount:   len(test.Questions),
		TotalPoints:     test.MaxScore(),
	}
}

func mapTestResponses(tests []model.Test) []TestResponse {
	responses := make([]TestResponse, len(tests))
	for i := range tests {
		responses[i] = MapTestResponse(&tests[i])
	}
	return responses
}
