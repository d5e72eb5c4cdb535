package service

import (
	"testing"
	"time"

	"quiz_platform_backend/internal/model"
	"quiz_platform_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(f *fixtures) *TestService {
	// Nil Redis client: the catalog cache is skipped entirely.
	return NewTestService(f.Tests, f.Users, nil)
}

func sampleCreateRequest() TestCreateRequest {
	now := time.Now()
	return TestCreateRequest{
		Title:           "Geometry",
		Subject:         "math",
		StartTime:       now.Add(-time.Hour),
		EndTime:         now.Add(time.Hour),
		DurationMinutes: 20,
		IsActive:        true,
		Questions: []QuestionCreateRequest{
			{
				Text:   "How many sides does a triangle have?",
				Points: 2,
				Type:   model.SingleChoice,
				Options: []OptionCreateRequest{
					{Text: "3", IsCorrect: true},
					{Text: "4"},
				},
			},
			{
				Text: "Which of these are quadrilaterals?",
				Type: model.MultipleChoice,
				Options: []OptionCreateRequest{
					{Text: "square", IsCorrect: true},
					{Text: "circle"},
					{Text: "rhombus", IsCorrect: true},
				},
			},
		},
	}
}

func TestCreateTestBuildsQuestionGraph(t *testing.T) {
	f := newFixtures(t)
	svc := newTestService(f)
	admin := f.seedAdmin(t, "admin")

	test, err := svc.CreateTest(sampleCreateRequest(), admin.ID)
	require.NoError(t, err)

	loaded, err := svc.GetTestByID(test.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Questions, 2)

	assert.Equal(t, 0, loaded.Questions[0].Position)
	assert.Equal(t, 1, loaded.Questions[1].Position)
	assert.Equal(t, 2, loaded.Questions[0].Points)
	// Points default to 1 and the type to single choice when omitted.
	assert.Equal(t, 1, loaded.Questions[1].Points)
	assert.Len(t, loaded.Questions[1].Options, 3)
	assert.Equal(t, 3, loaded.MaxScore())
}

func TestCreateTestUnknownCreator(t *testing.T) {
	f := newFixtures(t)
	svc := newTestService(f)

	_, err := svc.CreateTest(sampleCreateRequest(), 42)
	assert.ErrorIs(t, err, util.ErrUserNotFound)
}

func TestUpdateTestReplacesQuestionGraph(t *testing.T) {
	f := newFixtures(t)
	svc := newTestService(f)
	admin := f.seedAdmin(t, "admin")

	test, err := svc.CreateTest(sampleCreateRequest(), admin.ID)
	require.NoError(t, err)
	oldQuestionID := test.Questions[0].ID

	req := sampleCreateRequest()
	req.Title = "Geometry v2"
	req.Questions = req.Questions[:1]

	updated, err := svc.UpdateTest(test.ID, req)
	require.NoError(t, err)
	assert.Equal(t, "Geometry v2", updated.Title)
	require.Len(t, updated.Questions, 1)
	assert.NotEqual(t, oldQuestionID, updated.Questions[0].ID)

	var orphaned int64
	require.NoError(t, f.DB.Model(&model.Question{}).Where("test_id = ?", test.ID).Count(&orphaned).Error)
	assert.EqualValues(t, 1, orphaned)
}

func TestActiveCatalog(t *testing.T) {
	f := newFixtures(t)
	svc := newTestService(f)
	admin := f.seedAdmin(t, "admin")

	_, err := svc.CreateTest(sampleCreateRequest(), admin.ID)
	require.NoError(t, err)

	physics := sampleCreateRequest()
	physics.Subject = "physics"
	_, err = svc.CreateTest(physics, admin.ID)
	require.NoError(t, err)

	inactive := sampleCreateRequest()
	inactive.IsActive = false
	_, err = svc.CreateTest(inactive, admin.ID)
	require.NoError(t, err)

	active, err := svc.GetActiveTests()
	require.NoError(t, err)
	assert.Len(t, active, 2)
	assert.Equal(t, 2, active[0].QuestionCount)
	assert.Equal(t, 3, active[0].TotalPoints)

	subjects, err := svc.GetActiveSubjects()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"math", "physics"}, subjects)

	math, err := svc.GetActiveTestsBySubject("math")
	require.NoError(t, err)
	assert.Len(t, math, 1)
}

func TestActivateDeactivate(t *testing.T) {
	f := newFixtures(t)
	svc := newTestService(f)
	admin := f.seedAdmin(t, "admin")

	req := sampleCreateRequest()
	req.IsActive = false
	test, err := svc.CreateTest(req, admin.ID)
	require.NoError(t, err)

	activated, err := svc.ActivateTest(test.ID)
	require.NoError(t, err)
	assert.True(t, activated.IsActive)

	deactivated, err := svc.DeactivateTest(test.ID)
	require.NoError(t, err)
	assert.False(t, deactivated.IsActive)
}

func TestDeleteTestRemovesGraph(t *testing.T) {
	f := newFixtures(t)
	svc := newTestService(f)
	admin := f.seedAdmin(t, "admin")

	test, err := svc.CreateTest(sampleCreateRequest(), admin.ID)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteTest(test.ID))

	_, err = svc.GetTestByID(test.ID)
	assert.ErrorIs(t, err, util.ErrTestNotFound)

	var questions int64
	require.NoError(t, f.DB.Model(&model.Question{}).Where("test_id = ?", test.ID).Count(&questions).Error)
	assert.Zero(t, questions)
}
