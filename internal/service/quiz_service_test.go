package service

import (
	"testing"
	"time"

	"quiz_platform_backend/internal/model"
	"quiz_platform_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newQuizService(f *fixtures) *QuizService {
	return NewQuizService(f.Users, f.Tests, f.Attempts)
}

func TestStartTestCreatesAttempt(t *testing.T) {
	f := newFixtures(t)
	svc := newQuizService(f)
	user := f.seedUser(t, "alice")
	test := f.seedTest(t, user.ID)

	attempt, err := svc.StartTest(user.ID, test.ID)
	require.NoError(t, err)

	assert.Equal(t, user.ID, attempt.UserID)
	assert.Equal(t, test.ID, attempt.TestID)
	assert.False(t, attempt.IsCompleted)
	assert.Equal(t, 5, attempt.MaxScore)
	assert.WithinDuration(t, time.Now().Add(30*time.Minute), attempt.ExpiresAt, 5*time.Second)
}

func TestStartTestReturnsExistingActiveAttempt(t *testing.T) {
	f := newFixtures(t)
	svc := newQuizService(f)
	user := f.seedUser(t, "alice")
	test := f.seedTest(t, user.ID)

	first, err := svc.StartTest(user.ID, test.ID)
	require.NoError(t, err)

	second, err := svc.StartTest(user.ID, test.ID)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.ExpiresAt.Unix(), second.ExpiresAt.Unix())
}

func TestStartTestExpiryNeverOutlivesTestEnd(t *testing.T) {
	f := newFixtures(t)
	svc := newQuizService(f)
	user := f.seedUser(t, "alice")
	test := f.seedTest(t, user.ID)

	// Closing in 10 minutes while the duration allows 30.
	test.EndTime = time.Now().Add(10 * time.Minute)
	require.NoError(t, f.Tests.Save(test))

	attempt, err := svc.StartTest(user.ID, test.ID)
	require.NoError(t, err)

	assert.WithinDuration(t, test.EndTime, attempt.ExpiresAt, time.Second)
}

func TestStartTestOutsideAvailabilityWindow(t *testing.T) {
	f := newFixtures(t)
	svc := newQuizService(f)
	user := f.seedUser(t, "alice")

	cases := []struct {
		name   string
		mutate func(*model.Test)
	}{
		{"deactivated", func(tst *model.Test) { tst.IsActive = false }},
		{"not yet open", func(tst *model.Test) { tst.StartTime = time.Now().Add(time.Hour) }},
		{"already closed", func(tst *model.Test) { tst.EndTime = time.Now().Add(-time.Minute) }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			test := f.seedTest(t, user.ID)
			tc.mutate(test)
			require.NoError(t, f.Tests.Save(test))

			_, err := svc.StartTest(user.ID, test.ID)
			assert.ErrorIs(t, err, util.ErrTestNotActive)
			assert.True(t, util.IsInvalidState(err))
		})
	}
}

func TestStartTestUnknownEntities(t *testing.T) {
	f := newFixtures(t)
	svc := newQuizService(f)
	user := f.seedUser(t, "alice")
	test := f.seedTest(t, user.ID)

	_, err := svc.StartTest(9999, test.ID)
	assert.ErrorIs(t, err, util.ErrUserNotFound)

	_, err = svc.StartTest(user.ID, 9999)
	assert.ErrorIs(t, err, util.ErrTestNotFound)
}

func TestSubmitAnswerScoresBothQuestionTypes(t *testing.T) {
	f := newFixtures(t)
	svc := newQuizService(f)
	user := f.seedUser(t, "alice")
	test := f.seedTest(t, user.ID)
	attempt, err := svc.StartTest(user.ID, test.ID)
	require.NoError(t, err)

	single := &test.Questions[0]
	multiple := &test.Questions[1]

	answer, err := svc.SubmitAnswer(attempt.ID, single.ID, correctOptionIDs(single))
	require.NoError(t, err)
	assert.True(t, answer.IsCorrect)
	assert.Equal(t, 3, answer.EarnedPoints)

	// Partial selection on a multiple-choice question earns nothing.
	answer, err = svc.SubmitAnswer(attempt.ID, multiple.ID, correctOptionIDs(multiple)[:1])
	require.NoError(t, err)
	assert.False(t, answer.IsCorrect)
	assert.Zero(t, answer.EarnedPoints)
}

func TestSubmitAnswerOverwritesPreviousAnswer(t *testing.T) {
	f := newFixtures(t)
	svc := newQuizService(f)
	user := f.seedUser(t, "alice")
	test := f.seedTest(t, user.ID)
	attempt, err := svc.StartTest(user.ID, test.ID)
	require.NoError(t, err)

	question := &test.Questions[0]
	wrong := wrongOptionID(t, question)

	first, err := svc.SubmitAnswer(attempt.ID, question.ID, []uint{wrong})
	require.NoError(t, err)
	assert.False(t, first.IsCorrect)

	second, err := svc.SubmitAnswer(attempt.ID, question.ID, correctOptionIDs(question))
	require.NoError(t, err)
	assert.True(t, second.IsCorrect)
	assert.Equal(t, 3, second.EarnedPoints)

	answers, err := f.Attempts.ListAnswers(attempt.ID)
	require.NoError(t, err)
	require.Len(t, answers, 1)
	assert.True(t, answers[0].IsCorrect)
	assert.Equal(t, correctOptionIDs(question), answers[0].SelectedOptionIDs())
}

func TestSubmitAnswerRejectedAfterExpiry(t *testing.T) {
	f := newFixtures(t)
	svc := newQuizService(f)
	user := f.seedUser(t, "alice")
	test := f.seedTest(t, user.ID)
	attempt, err := svc.StartTest(user.ID, test.ID)
	require.NoError(t, err)

	attempt.ExpiresAt = time.Now().Add(-time.Minute)
	require.NoError(t, f.Attempts.Save(attempt))

	_, err = svc.SubmitAnswer(attempt.ID, test.Questions[0].ID, correctOptionIDs(&test.Questions[0]))
	assert.ErrorIs(t, err, util.ErrAttemptClosed)
}

func TestSubmitAnswerRejectedAfterCompletion(t *testing.T) {
	f := newFixtures(t)
	svc := newQuizService(f)
	user := f.seedUser(t, "alice")
	test := f.seedTest(t, user.ID)
	attempt, err := svc.StartTest(user.ID, test.ID)
	require.NoError(t, err)

	_, err = svc.CompleteTest(attempt.ID)
	require.NoError(t, err)

	_, err = svc.SubmitAnswer(attempt.ID, test.Questions[0].ID, correctOptionIDs(&test.Questions[0]))
	assert.ErrorIs(t, err, util.ErrAttemptClosed)
}

func TestSubmitAnswerForeignQuestion(t *testing.T) {
	f := newFixtures(t)
	svc := newQuizService(f)
	user := f.seedUser(t, "alice")
	test := f.seedTest(t, user.ID)
	other := f.seedTest(t, user.ID)
	attempt, err := svc.StartTest(user.ID, test.ID)
	require.NoError(t, err)

	foreign := &other.Questions[0]
	_, err = svc.SubmitAnswer(attempt.ID, foreign.ID, correctOptionIDs(foreign))
	assert.ErrorIs(t, err, util.ErrQuestionNotInTest)
	assert.True(t, util.IsConflict(err))
}

func TestSubmitAnswerForeignOption(t *testing.T) {
	f := newFixtures(t)
	svc := newQuizService(f)
	user := f.seedUser(t, "alice")
	test := f.seedTest(t, user.ID)
	attempt, err := svc.StartTest(user.ID, test.ID)
	require.NoError(t, err)

	// An option belonging to the second question submitted for the first.
	foreignOption := test.Questions[1].Options[0].ID
	_, err = svc.SubmitAnswer(attempt.ID, test.Questions[0].ID, []uint{foreignOption})
	assert.ErrorIs(t, err, util.ErrOptionNotInQuestion)
}

func TestCompleteTestScoresAndIsIdempotent(t *testing.T) {
	f := newFixtures(t)
	svc := newQuizService(f)
	user := f.seedUser(t, "alice")
	test := f.seedTest(t, user.ID)
	attempt, err := svc.StartTest(user.ID, test.ID)
	require.NoError(t, err)

	_, err = svc.SubmitAnswer(attempt.ID, test.Questions[0].ID, correctOptionIDs(&test.Questions[0]))
	require.NoError(t, err)
	_, err = svc.SubmitAnswer(attempt.ID, test.Questions[1].ID, []uint{wrongOptionID(t, &test.Questions[1])})
	require.NoError(t, err)

	completed, err := svc.CompleteTest(attempt.ID)
	require.NoError(t, err)
	assert.True(t, completed.IsCompleted)
	assert.Equal(t, 3, completed.Score)
	assert.Equal(t, 5, completed.MaxScore)
	require.NotNil(t, completed.FinishedAt)
	firstFinish := *completed.FinishedAt

	again, err := svc.CompleteTest(attempt.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, again.Score)
	require.NotNil(t, again.FinishedAt)
	assert.Equal(t, firstFinish.Unix(), again.FinishedAt.Unix())
}

func TestGetNextQuestionWalksDefinedOrder(t *testing.T) {
	f := newFixtures(t)
	svc := newQuizService(f)
	user := f.seedUser(t, "alice")
	test := f.seedTest(t, user.ID)
	attempt, err := svc.StartTest(user.ID, test.ID)
	require.NoError(t, err)

	next, err := svc.GetNextQuestion(attempt.ID)
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Equal(t, test.Questions[0].ID, next.QuestionID)

	_, err = svc.SubmitAnswer(attempt.ID, test.Questions[0].ID, correctOptionIDs(&test.Questions[0]))
	require.NoError(t, err)

	next, err = svc.GetNextQuestion(attempt.ID)
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Equal(t, test.Questions[1].ID, next.QuestionID)

	_, err = svc.SubmitAnswer(attempt.ID, test.Questions[1].ID, correctOptionIDs(&test.Questions[1]))
	require.NoError(t, err)

	next, err = svc.GetNextQuestion(attempt.ID)
	require.NoError(t, err)
	assert.Nil(t, next)
}

func TestGetNextQuestionOnClosedAttempt(t *testing.T) {
	f := newFixtures(t)
	svc := newQuizService(f)
	user := f.seedUser(t, "alice")
	test := f.seedTest(t, user.ID)
	attempt, err := svc.StartTest(user.ID, test.ID)
	require.NoError(t, err)

	_, err = svc.CompleteTest(attempt.ID)
	require.NoError(t, err)

	_, err = svc.GetNextQuestion(attempt.ID)
	assert.ErrorIs(t, err, util.ErrAttemptClosed)
}

func TestGetAllQuestionsHidesCorrectness(t *testing.T) {
	f := newFixtures(t)
	svc := newQuizService(f)
	user := f.seedUser(t, "alice")
	test := f.seedTest(t, user.ID)
	attempt, err := svc.StartTest(user.ID, test.ID)
	require.NoError(t, err)

	questions, err := svc.GetAllQuestions(attempt.ID)
	require.NoError(t, err)
	require.Len(t, questions, 2)
	assert.Equal(t, test.Questions[0].ID, questions[0].QuestionID)
	assert.Equal(t, model.SingleChoice, questions[0].Type)
	assert.Len(t, questions[0].Options, 3)
}

func TestGetTestProgress(t *testing.T) {
	f := newFixtures(t)
	svc := newQuizService(f)
	user := f.seedUser(t, "alice")
	test := f.seedTest(t, user.ID)
	attempt, err := svc.StartTest(user.ID, test.ID)
	require.NoError(t, err)

	_, err = svc.SubmitAnswer(attempt.ID, test.Questions[0].ID, correctOptionIDs(&test.Questions[0]))
	require.NoError(t, err)

	progress, err := svc.GetTestProgress(attempt.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, progress.TotalQuestions)
	assert.Equal(t, 1, progress.AnsweredQuestions)
	assert.InDelta(t, 50, progress.ProgressPercentage, 0.01)
	assert.Greater(t, progress.RemainingSeconds, int64(0))
	assert.LessOrEqual(t, progress.RemainingSeconds, int64(30*60))
}

func TestGetTestProgressFinalizesExpiredAttempt(t *testing.T) {
	f := newFixtures(t)
	svc := newQuizService(f)
	user := f.seedUser(t, "alice")
	test := f.seedTest(t, user.ID)
	attempt, err := svc.StartTest(user.ID, test.ID)
	require.NoError(t, err)

	attempt.ExpiresAt = time.Now().Add(-time.Minute)
	require.NoError(t, f.Attempts.Save(attempt))

	progress, err := svc.GetTestProgress(attempt.ID)
	require.NoError(t, err)
	assert.Zero(t, progress.RemainingSeconds)
	assert.True(t, progress.IsCompleted)

	stored, err := f.Attempts.FindByID(attempt.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsCompleted)
}

func TestProjectionsOnQuestionlessTest(t *testing.T) {
	f := newFixtures(t)
	svc := newQuizService(f)
	user := f.seedUser(t, "alice")

	now := time.Now()
	test := &model.Test{
		Title:           "Placeholder",
		Subject:         "misc",
		StartTime:       now.Add(-time.Hour),
		EndTime:         now.Add(time.Hour),
		DurationMinutes: 30,
		IsActive:        true,
		CreatedByID:     user.ID,
	}
	require.NoError(t, f.Tests.Create(test))

	attempt, err := svc.StartTest(user.ID, test.ID)
	require.NoError(t, err)
	assert.Zero(t, attempt.MaxScore)

	progress, err := svc.GetTestProgress(attempt.ID)
	require.NoError(t, err)
	assert.Zero(t, progress.TotalQuestions)
	assert.Zero(t, progress.ProgressPercentage)

	_, err = svc.CompleteTest(attempt.ID)
	require.NoError(t, err)

	result, err := svc.GetTestResult(attempt.ID)
	require.NoError(t, err)
	assert.Zero(t, result.Score)
	assert.Zero(t, result.MaxScore)
	assert.Zero(t, result.ScorePercentage)
	assert.Empty(t, result.QuestionResults)
}

func TestGetTestResultFinalizesExpiredAttempt(t *testing.T) {
	f := newFixtures(t)
	svc := newQuizService(f)
	user := f.seedUser(t, "alice")
	test := f.seedTest(t, user.ID)
	attempt, err := svc.StartTest(user.ID, test.ID)
	require.NoError(t, err)

	_, err = svc.SubmitAnswer(attempt.ID, test.Questions[0].ID, correctOptionIDs(&test.Questions[0]))
	require.NoError(t, err)

	attempt.ExpiresAt = time.Now().Add(-time.Minute)
	require.NoError(t, f.Attempts.Save(attempt))

	result, err := svc.GetTestResult(attempt.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Score)
	assert.Equal(t, 5, result.MaxScore)
	assert.InDelta(t, 60, result.ScorePercentage, 0.01)
	assert.NotNil(t, result.FinishedAt)

	stored, err := f.Attempts.FindByID(attempt.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsCompleted)
}

func TestGetTestResultBreakdown(t *testing.T) {
	f := newFixtures(t)
	svc := newQuizService(f)
	user := f.seedUser(t, "alice")
	test := f.seedTest(t, user.ID)
	attempt, err := svc.StartTest(user.ID, test.ID)
	require.NoError(t, err)

	_, err = svc.SubmitAnswer(attempt.ID, test.Questions[0].ID, correctOptionIDs(&test.Questions[0]))
	require.NoError(t, err)

	_, err = svc.CompleteTest(attempt.ID)
	require.NoError(t, err)

	result, err := svc.GetTestResult(attempt.ID)
	require.NoError(t, err)
	require.Len(t, result.QuestionResults, 2)

	answered := result.QuestionResults[0]
	assert.True(t, answered.IsAnswered)
	assert.True(t, answered.IsCorrect)
	assert.Equal(t, 3, answered.EarnedPoints)
	assert.Equal(t, correctOptionIDs(&test.Questions[0]), answered.SelectedOptionIDs)

	unanswered := result.QuestionResults[1]
	assert.False(t, unanswered.IsAnswered)
	assert.Zero(t, unanswered.EarnedPoints)
	assert.Empty(t, unanswered.SelectedOptionIDs)

	// Correctness flags are revealed in the finished view.
	var flagged int
	for _, o := range answered.Options {
		if o.IsCorrect {
			flagged++
		}
	}
	assert.Equal(t, 1, flagged)
}

func TestGetUserTestHistoryListsCompletedOnly(t *testing.T) {
	f := newFixtures(t)
	svc := newQuizService(f)
	user := f.seedUser(t, "alice")
	finished := f.seedTest(t, user.ID)
	running := f.seedTest(t, user.ID)

	done, err := svc.StartTest(user.ID, finished.ID)
	require.NoError(t, err)
	_, err = svc.SubmitAnswer(done.ID, finished.Questions[0].ID, correctOptionIDs(&finished.Questions[0]))
	require.NoError(t, err)
	_, err = svc.CompleteTest(done.ID)
	require.NoError(t, err)

	_, err = svc.StartTest(user.ID, running.ID)
	require.NoError(t, err)

	history, err := svc.GetUserTestHistory(user.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, done.ID, history[0].UserTestID)
	assert.Equal(t, 3, history[0].Score)
}

func TestAutoCompleteExpiredTests(t *testing.T) {
	f := newFixtures(t)
	svc := newQuizService(f)
	alice := f.seedUser(t, "alice")
	bob := f.seedUser(t, "bob")
	test := f.seedTest(t, alice.ID)

	expired, err := svc.StartTest(alice.ID, test.ID)
	require.NoError(t, err)
	expired.ExpiresAt = time.Now().Add(-time.Minute)
	require.NoError(t, f.Attempts.Save(expired))

	active, err := svc.StartTest(bob.ID, test.ID)
	require.NoError(t, err)

	require.NoError(t, svc.AutoCompleteExpiredTests())

	got, err := f.Attempts.FindByID(expired.ID)
	require.NoError(t, err)
	assert.True(t, got.IsCompleted)

	got, err = f.Attempts.FindByID(active.ID)
	require.NoError(t, err)
	assert.False(t, got.IsCompleted)
}
