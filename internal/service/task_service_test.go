package service

import (
	"testing"
	"time"

	"quiz_platform_backend/internal/model"
	"quiz_platform_backend/internal/repository"
	"quiz_platform_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTaskService(f *fixtures) *TaskService {
	return NewTaskService(repository.NewTaskRepository(f.DB), f.Users)
}

func TestTaskLifecycle(t *testing.T) {
	f := newFixtures(t)
	svc := newTaskService(f)
	user := f.seedUser(t, "alice")

	task, err := svc.CreateTask(user.ID, TaskCreateRequest{
		Title:    "Grade submissions",
		DueDate:  time.Now().Add(24 * time.Hour),
		Category: "teaching",
	})
	require.NoError(t, err)
	assert.Equal(t, model.TaskCreated, task.Status)

	task, err = svc.ChangeTaskStatus(user.ID, task.ID, model.TaskInProgress)
	require.NoError(t, err)
	assert.Equal(t, model.TaskInProgress, task.Status)
	assert.Nil(t, task.CompletedAt)

	task, err = svc.ChangeTaskStatus(user.ID, task.ID, model.TaskCompleted)
	require.NoError(t, err)
	require.NotNil(t, task.CompletedAt)

	// Reopening clears the completion stamp.
	task, err = svc.ChangeTaskStatus(user.ID, task.ID, model.TaskInProgress)
	require.NoError(t, err)
	assert.Nil(t, task.CompletedAt)
}

func TestTaskOwnershipIsEnforced(t *testing.T) {
	f := newFixtures(t)
	svc := newTaskService(f)
	alice := f.seedUser(t, "alice")
	bob := f.seedUser(t, "bob")

	task, err := svc.CreateTask(alice.ID, TaskCreateRequest{Title: "Private"})
	require.NoError(t, err)

	_, err = svc.GetTask(bob.ID, task.ID)
	assert.ErrorIs(t, err, util.ErrTaskNotFound)

	err = svc.DeleteTask(bob.ID, task.ID)
	assert.ErrorIs(t, err, util.ErrTaskNotFound)
}

func TestUpdateTaskPartialFields(t *testing.T) {
	f := newFixtures(t)
	svc := newTaskService(f)
	user := f.seedUser(t, "alice")

	task, err := svc.CreateTask(user.ID, TaskCreateRequest{Title: "Draft", Priority: 1})
	require.NoError(t, err)

	newTitle := "Final"
	important := true
	updated, err := svc.UpdateTask(user.ID, task.ID, TaskUpdateRequest{
		Title:       &newTitle,
		IsImportant: &important,
	})
	require.NoError(t, err)
	assert.Equal(t, "Final", updated.Title)
	assert.True(t, updated.IsImportant)
	assert.Equal(t, 1, updated.Priority)
}

func TestTaskStatistics(t *testing.T) {
	f := newFixtures(t)
	svc := newTaskService(f)
	user := f.seedUser(t, "alice")

	yesterday := time.Now().Add(-24 * time.Hour)
	tomorrow := time.Now().Add(24 * time.Hour)

	done, err := svc.CreateTask(user.ID, TaskCreateRequest{Title: "a", Category: "teaching", DueDate: yesterday})
	require.NoError(t, err)
	_, err = svc.ChangeTaskStatus(user.ID, done.ID, model.TaskCompleted)
	require.NoError(t, err)

	_, err = svc.CreateTask(user.ID, TaskCreateRequest{Title: "b", Category: "teaching", DueDate: yesterday, IsImportant: true})
	require.NoError(t, err)
	_, err = svc.CreateTask(user.ID, TaskCreateRequest{Title: "c", Category: "admin", DueDate: tomorrow})
	require.NoError(t, err)
	_, err = svc.CreateTask(user.ID, TaskCreateRequest{Title: "d"})
	require.NoError(t, err)

	stats, err := svc.GetTaskStatistics(user.ID)
	require.NoError(t, err)

	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 1, stats.ByStatus[string(model.TaskCompleted)])
	assert.Equal(t, 3, stats.ByStatus[string(model.TaskCreated)])
	assert.Equal(t, 2, stats.ByCategory["teaching"])
	assert.Equal(t, 1, stats.ByCategory["admin"])
	// Only "b" is past due and not completed; "a" finished, "d" has no due date.
	assert.Equal(t, 1, stats.Overdue)
	assert.Equal(t, 1, stats.Important)
	assert.InDelta(t, 25, stats.CompletionRate, 0.01)
}

func TestTaskQueries(t *testing.T) {
	f := newFixtures(t)
	svc := newTaskService(f)
	user := f.seedUser(t, "alice")

	_, err := svc.CreateTask(user.ID, TaskCreateRequest{Title: "a", Category: "teaching", IsImportant: true})
	require.NoError(t, err)
	overdue, err := svc.CreateTask(user.ID, TaskCreateRequest{Title: "b", DueDate: time.Now().Add(-time.Hour)})
	require.NoError(t, err)

	byCategory, err := svc.GetUserTasksByCategory(user.ID, "teaching")
	require.NoError(t, err)
	assert.Len(t, byCategory, 1)

	important, err := svc.GetImportantTasks(user.ID)
	require.NoError(t, err)
	assert.Len(t, important, 1)

	late, err := svc.GetOverdueTasks(user.ID)
	require.NoError(t, err)
	require.Len(t, late, 1)
	assert.Equal(t, overdue.ID, late[0].ID)
}
