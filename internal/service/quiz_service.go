package service

import (
	"errors"
	"time"

	"quiz_platform_backend/internal/model"
	"quiz_platform_backend/internal/repository"
	"quiz_platform_backend/internal/util"
	"quiz_platform_backend/pkg/logger"
	"quiz_platform_backend/pkg/monitoring"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// QuizService drives the attempt lifecycle: NotStarted -> Active ->
// {Completed, Expired}. Expired is reached passively by time and is
// materialized either by the periodic sweep or lazily on the progress and
// result read paths; once materialized it is indistinguishable from Completed.
type QuizService struct {
	Users    *repository.UserRepository
	Tests    *repository.TestRepository
	Attempts *repository.UserTestRepository
}

func NewQuizService(users *repository.UserRepository, tests *repository.TestRepository, attempts *repository.UserTestRepository) *QuizService {
	return &QuizService{Users: users, Tests: tests, Attempts: attempts}
}

type OptionResponse struct {
	OptionID uint   `json:"optionId"`
	Text     string `json:"text"`
}

// QuestionResponse is the view served during an active attempt. It never
// carries correctness flags.
type QuestionResponse struct {
	QuestionID uint               `json:"questionId"`
	Text       string             `json:"text"`
	Type       model.QuestionType `json:"type"`
	Points     int                `json:"points"`
	Options    []OptionResponse   `json:"options"`
}

type TestProgressResponse struct {
	UserTestID         uint      `json:"userTestId"`
	TestID             uint      `json:"testId"`
	TestTitle          string    `json:"testTitle"`
	StartedAt          time.Time `json:"startedAt"`
	ExpiresAt          time.Time `json:"expiresAt"`
	IsCompleted        bool      `json:"isCompleted"`
	RemainingSeconds   int64     `json:"remainingSeconds"`
	TotalQuestions     int       `json:"totalQuestions"`
	AnsweredQuestions  int       `json:"answeredQuestions"`
	ProgressPercentage float64   `json:"progressPercentage"`
}

// OptionResult carries the correctness flag: safe to reveal only after the
// attempt is finished, which every caller of TestResultResponse guarantees.
type OptionResult struct {
	OptionID  uint   `json:"optionId"`
	Text      string `json:"text"`
	IsCorrect bool   `json:"isCorrect"`
}

type QuestionResult struct {
	QuestionID        uint           `json:"questionId"`
	Text              string         `json:"text"`
	Points            int            `json:"points"`
	IsAnswered        bool           `json:"isAnswered"`
	IsCorrect         bool           `json:"isCorrect"`
	EarnedPoints      int            `json:"earnedPoints"`
	SelectedOptionIDs []uint         `json:"selectedOptionIds"`
	Options           []OptionResult `json:"options"`
}

type TestResultResponse struct {
	UserTestID      uint             `json:"userTestId"`
	TestID          uint             `json:"testId"`
	TestTitle       string           `json:"testTitle"`
	StartedAt       time.Time        `json:"startedAt"`
	FinishedAt      *time.Time       `json:"finishedAt,omitempty"`
	Score           int              `json:"score"`
	MaxScore        int              `json:"maxScore"`
	ScorePercentage float64          `json:"scorePercentage"`
	QuestionResults []QuestionResult `json:"questionResults"`
}

// StartTest opens an attempt for the user against an available test. If an
// active attempt already exists for the pair it is returned unchanged; the
// store's locked find-or-create keeps concurrent starts from creating two.
func (s *QuizService) StartTest(userID, testID uint) (*model.UserTest, error) {
	if _, err := s.Users.FindByID(userID); err != nil {
		return nil, asDomainErr(err, util.ErrUserNotFound)
	}

	test, err := s.Tests.FindByID(testID)
	if err != nil {
		return nil, asDomainErr(err, util.ErrTestNotFound)
	}

	now := time.Now()
	if !test.AvailableAt(now) {
		return nil, util.ErrTestNotActive
	}

	// The attempt never outlives the test's own closing time, even when its
	// personal duration would permit it.
	expiresAt := now.Add(time.Duration(test.DurationMinutes) * time.Minute)
	if expiresAt.After(test.EndTime) {
		expiresAt = test.EndTime
	}

	attempt := &model.UserTest{
		UserID:      userID,
		TestID:      testID,
		StartedAt:   now,
		ExpiresAt:   expiresAt,
		IsCompleted: false,
		MaxScore:    test.MaxScore(),
	}

	result, created, err := s.Attempts.FindOrCreateActive(attempt, now)
	if err != nil {
		return nil, err
	}
	if created {
		monitoring.AttemptsStarted.Inc()
		logger.Log.Info("attempt started",
			zap.Uint("userId", userID),
			zap.Uint("testId", testID),
			zap.Uint("userTestId", result.ID),
			zap.Time("expiresAt", result.ExpiresAt))
	}
	return result, nil
}

// GetAttempt fetches one attempt, for ownership checks and raw views.
func (s *QuizService) GetAttempt(userTestID uint) (*model.UserTest, error) {
	attempt, err := s.Attempts.FindByID(userTestID)
	if err != nil {
		return nil, asDomainErr(err, util.ErrAttemptNotFound)
	}
	return attempt, nil
}

// SubmitAnswer records (or overwrites) the answer for one question of an
// active attempt and returns it scored. Submissions after expiry are
// rejected, never silently scored.
func (s *QuizService) SubmitAnswer(userTestID, questionID uint, optionIDs []uint) (*model.UserAnswer, error) {
	attempt, err := s.Attempts.FindByID(userTestID)
	if err != nil {
		return nil, asDomainErr(err, util.ErrAttemptNotFound)
	}

	question, err := s.Tests.FindQuestionByID(questionID)
	if err != nil {
		return nil, asDomainErr(err, util.ErrQuestionNotFound)
	}

	now := time.Now()
	if attempt.IsCompleted || now.After(attempt.ExpiresAt) {
		return nil, util.ErrAttemptClosed
	}

	if question.TestID != attempt.TestID {
		return nil, util.ErrQuestionNotInTest
	}

	selected := make([]model.Option, 0, len(optionIDs))
	for _, id := range optionIDs {
		opt, ok := findOption(question.Options, id)
		if !ok {
			return nil, util.ErrOptionNotInQuestion
		}
		selected = append(selected, opt)
	}

	isCorrect, earned := ScoreAnswer(question, optionIDs)

	answer := &model.UserAnswer{
		UserTestID:   attempt.ID,
		QuestionID:   question.ID,
		IsCorrect:    isCorrect,
		EarnedPoints: earned,
	}
	if err := s.Attempts.UpsertAnswer(answer, selected); err != nil {
		return nil, err
	}

	monitoring.AnswersSubmitted.Inc()
	return answer, nil
}

// CompleteTest finalizes the attempt. The moment it runs is the single point
// at which the score becomes authoritative; running it again is a no-op.
func (s *QuizService) CompleteTest(userTestID uint) (*model.UserTest, error) {
	return s.completeTest(userTestID, "user")
}

func (s *QuizService) completeTest(userTestID uint, trigger string) (*model.UserTest, error) {
	attempt, err := s.Attempts.FindByID(userTestID)
	if err != nil {
		return nil, asDomainErr(err, util.ErrAttemptNotFound)
	}

	if attempt.IsCompleted {
		return attempt, nil
	}

	answers, err := s.Attempts.ListAnswers(attempt.ID)
	if err != nil {
		return nil, err
	}
	score := 0
	for _, a := range answers {
		score += a.EarnedPoints
	}

	now := time.Now()
	attempt.IsCompleted = true
	attempt.FinishedAt = &now
	attempt.Score = score

	if err := s.Attempts.Save(attempt); err != nil {
		return nil, err
	}

	monitoring.AttemptsCompleted.WithLabelValues(trigger).Inc()
	logger.Log.Info("attempt completed",
		zap.Uint("userTestId", attempt.ID),
		zap.Int("score", attempt.Score),
		zap.Int("maxScore", attempt.MaxScore),
		zap.String("trigger", trigger))
	return attempt, nil
}

// AutoCompleteExpiredTests finalizes every attempt whose expiry has passed.
// Safe to run repeatedly and concurrently with user completion: the
// isCompleted guard makes each attempt's completion idempotent.
func (s *QuizService) AutoCompleteExpiredTests() error {
	ids, err := s.Attempts.ExpiredActiveIDs(time.Now())
	if err != nil {
		return err
	}

	for _, id := range ids {
		if _, err := s.completeTest(id, "sweep"); err != nil {
			logger.Log.Error("auto-complete failed", zap.Uint("userTestId", id), zap.Error(err))
		}
	}
	return nil
}

// GetNextQuestion returns the first question, in the test's defined order,
// without a recorded answer. A nil response with nil error means every
// question has been answered.
func (s *QuizService) GetNextQuestion(userTestID uint) (*QuestionResponse, error) {
	attempt, test, err := s.activeAttemptWithTest(userTestID)
	if err != nil {
		return nil, err
	}

	answers, err := s.Attempts.ListAnswers(attempt.ID)
	if err != nil {
		return nil, err
	}
	answered := make(map[uint]struct{}, len(answers))
	for _, a := range answers {
		answered[a.QuestionID] = struct{}{}
	}

	for i := range test.Questions {
		if _, ok := answered[test.Questions[i].ID]; !ok {
			resp := mapQuestionResponse(&test.Questions[i])
			return &resp, nil
		}
	}
	return nil, nil
}

// GetAllQuestions lists the test's questions for an attempt, in order,
// without correctness flags.
func (s *QuizService) GetAllQuestions(userTestID uint) ([]QuestionResponse, error) {
	attempt, err := s.Attempts.FindByID(userTestID)
	if err != nil {
		return nil, asDomainErr(err, util.ErrAttemptNotFound)
	}

	test, err := s.Tests.FindByID(attempt.TestID)
	if err != nil {
		return nil, asDomainErr(err, util.ErrTestNotFound)
	}

	responses := make([]QuestionResponse, len(test.Questions))
	for i := range test.Questions {
		responses[i] = mapQuestionResponse(&test.Questions[i])
	}
	return responses, nil
}

// GetTestProgress reports the attempt's counters. Like the result path, it
// finalizes an attempt whose expiry has passed so the caller never sees a
// logically finished attempt as active.
func (s *QuizService) GetTestProgress(userTestID uint) (*TestProgressResponse, error) {
	attempt, err := s.Attempts.FindByID(userTestID)
	if err != nil {
		return nil, asDomainErr(err, util.ErrAttemptNotFound)
	}

	if !attempt.IsCompleted && time.Now().After(attempt.ExpiresAt) {
		attempt, err = s.completeTest(attempt.ID, "lazy")
		if err != nil {
			return nil, err
		}
	}

	test, err := s.Tests.FindByID(attempt.TestID)
	if err != nil {
		return nil, asDomainErr(err, util.ErrTestNotFound)
	}

	answered, err := s.Attempts.CountAnswers(attempt.ID)
	if err != nil {
		return nil, err
	}

	resp := &TestProgressResponse{
		UserTestID:        attempt.ID,
		TestID:            test.ID,
		TestTitle:         test.Title,
		StartedAt:         attempt.StartedAt,
		ExpiresAt:         attempt.ExpiresAt,
		IsCompleted:       attempt.IsCompleted,
		TotalQuestions:    len(test.Questions),
		AnsweredQuestions: int(answered),
	}

	now := time.Now()
	if !attempt.IsCompleted && now.Before(attempt.ExpiresAt) {
		resp.RemainingSeconds = int64(attempt.ExpiresAt.Sub(now).Seconds())
	}

	if resp.TotalQuestions > 0 {
		resp.ProgressPercentage = float64(resp.AnsweredQuestions) / float64(resp.TotalQuestions) * 100
	}

	return resp, nil
}

// GetTestResult projects the attempt's result. Reading the result of an
// attempt past its expiry finalizes it first, so a logically finished
// attempt is never observed as Active.
func (s *QuizService) GetTestResult(userTestID uint) (*TestResultResponse, error) {
	attempt, err := s.Attempts.FindByID(userTestID)
	if err != nil {
		return nil, asDomainErr(err, util.ErrAttemptNotFound)
	}

	if !attempt.IsCompleted && time.Now().After(attempt.ExpiresAt) {
		attempt, err = s.completeTest(attempt.ID, "lazy")
		if err != nil {
			return nil, err
		}
	}

	test, err := s.Tests.FindByID(attempt.TestID)
	if err != nil {
		return nil, asDomainErr(err, util.ErrTestNotFound)
	}

	answers, err := s.Attempts.ListAnswers(attempt.ID)
	if err != nil {
		return nil, err
	}
	answerByQuestion := make(map[uint]*model.UserAnswer, len(answers))
	for i := range answers {
		answerByQuestion[answers[i].QuestionID] = &answers[i]
	}

	resp := &TestResultResponse{
		UserTestID: attempt.ID,
		TestID:     test.ID,
		TestTitle:  test.Title,
		StartedAt:  attempt.StartedAt,
		FinishedAt: attempt.FinishedAt,
		Score:      attempt.Score,
		MaxScore:   attempt.MaxScore,
	}
	if attempt.MaxScore > 0 {
		resp.ScorePercentage = float64(attempt.Score) / float64(attempt.MaxScore) * 100
	}

	resp.QuestionResults = make([]QuestionResult, len(test.Questions))
	for i := range test.Questions {
		q := &test.Questions[i]
		qr := QuestionResult{
			QuestionID:        q.ID,
			Text:              q.Text,
			Points:            q.Points,
			SelectedOptionIDs: []uint{},
		}

		if ans, ok := answerByQuestion[q.ID]; ok {
			qr.IsAnswered = true
			qr.IsCorrect = ans.IsCorrect
			qr.EarnedPoints = ans.EarnedPoints
			qr.SelectedOptionIDs = ans.SelectedOptionIDs()
		}

		qr.Options = make([]OptionResult, len(q.Options))
		for j, o := range q.Options {
			qr.Options[j] = OptionResult{
				OptionID:  o.ID,
				Text:      o.Text,
				IsCorrect: o.IsCorrect,
			}
		}

		resp.QuestionResults[i] = qr
	}

	return resp, nil
}

// GetUserTestHistory returns the result of every completed attempt of the
// user, oldest first.
func (s *QuizService) GetUserTestHistory(userID uint) ([]TestResultResponse, error) {
	if _, err := s.Users.FindByID(userID); err != nil {
		return nil, asDomainErr(err, util.ErrUserNotFound)
	}

	attempts, err := s.Attempts.FindByUser(userID)
	if err != nil {
		return nil, err
	}

	history := make([]TestResultResponse, 0, len(attempts))
	for _, attempt := range attempts {
		if !attempt.IsCompleted {
			continue
		}
		result, err := s.GetTestResult(attempt.ID)
		if err != nil {
			return nil, err
		}
		history = append(history, *result)
	}
	return history, nil
}

func (s *QuizService) activeAttemptWithTest(userTestID uint) (*model.UserTest, *model.Test, error) {
	attempt, err := s.Attempts.FindByID(userTestID)
	if err != nil {
		return nil, nil, asDomainErr(err, util.ErrAttemptNotFound)
	}

	if attempt.IsCompleted || time.Now().After(attempt.ExpiresAt) {
		return nil, nil, util.ErrAttemptClosed
	}

	test, err := s.Tests.FindByID(attempt.TestID)
	if err != nil {
		return nil, nil, asDomainErr(err, util.ErrTestNotFound)
	}
	return attempt, test, nil
}

func mapQuestionResponse(q *model.Question) QuestionResponse {
	options := make([]OptionResponse, len(q.Options))
	for i, o := range q.Options {
		options[i] = OptionResponse{OptionID: o.ID, Text: o.Text}
	}
	return QuestionResponse{
		QuestionID: q.ID,
		Text:       q.Text,
		Type:       q.Type,
		Points:     q.Points,
		Options:    options,
	}
}

func findOption(options []model.Option, id uint) (model.Option, bool) {
	for _, o := range options {
		if o.ID == id {
			return o, true
		}
	}
	return model.Option{}, false
}

// asDomainErr translates a missing row into the matching domain error and
// passes everything else through.
func asDomainErr(err, notFound error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}
	return err
}
