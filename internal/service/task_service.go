package service

import (
	"time"

	"quiz_platform_backend/internal/model"
	"quiz_platform_backend/internal/repository"
	"quiz_platform_backend/internal/util"
	"quiz_platform_backend/pkg/logger"

	"go.uber.org/zap"
)

type TaskService struct {
	Repo  *repository.TaskRepository
	Users *repository.UserRepository
}

func NewTaskService(repo *repository.TaskRepository, users *repository.UserRepository) *TaskService {
	return &TaskService{Repo: repo, Users: users}
}

type TaskCreateRequest struct {
	Title       string    `json:"title" binding:"required"`
	Description string    `json:"description"`
	DueDate     time.Time `json:"dueDate"`
	Priority    int       `json:"priority"`
	Category    string    `json:"category"`
	IsImportant bool      `json:"isImportant"`
}

type TaskUpdateRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	DueDate     *time.Time `json:"dueDate"`
	Priority    *int       `json:"priority"`
	Category    *string    `json:"category"`
	IsImportant *bool      `json:"isImportant"`
}

// TaskStatistics summarizes one user's workload.
type TaskStatistics struct {
	Total          int            `json:"total"`
	ByStatus       map[string]int `json:"byStatus"`
	ByCategory     map[string]int `json:"byCategory"`
	Overdue        int            `json:"overdue"`
	Important      int            `json:"important"`
	CompletionRate float64        `json:"completionRate"`
}

func (s *TaskService) CreateTask(userID uint, req TaskCreateRequest) (*model.Task, error) {
	if _, err := s.Users.FindByID(userID); err != nil {
		return nil, asDomainErr(err, util.ErrUserNotFound)
	}

	task := &model.Task{
		Title:       req.Title,
		Description: req.Description,
		Status:      model.TaskCreated,
		DueDate:     req.DueDate,
		Priority:    req.Priority,
		Category:    req.Category,
		IsImportant: req.IsImportant,
		UserID:      userID,
	}
	if err := s.Repo.Create(task); err != nil {
		return nil, err
	}
	logger.Log.Info("task created", zap.Uint("taskId", task.ID), zap.Uint("userId", userID))
	return task, nil
}

func (s *TaskService) GetTask(userID, taskID uint) (*model.Task, error) {
	task, err := s.Repo.FindByID(taskID)
	if err != nil {
		return nil, asDomainErr(err, util.ErrTaskNotFound)
	}
	if task.UserID != userID {
		return nil, util.ErrTaskNotFound
	}
	return task, nil
}

func (s *TaskService) GetUserTasks(userID uint) ([]model.Task, error) {
	return s.Repo.FindByUser(userID)
}

func (s *TaskService) GetUserTasksByStatus(userID uint, status model.TaskStatus) ([]model.Task, error) {
	return s.Repo.FindByUserAndStatus(userID, status)
}

func (s *TaskService) GetUserTasksByCategory(userID uint, category string) ([]model.Task, error) {
	return s.Repo.FindByUserAndCategory(userID, category)
}

func (s *TaskService) GetImportantTasks(userID uint) ([]model.Task, error) {
	return s.Repo.FindImportantByUser(userID)
}

func (s *TaskService) GetOverdueTasks(userID uint) ([]model.Task, error) {
	return s.Repo.FindOverdueByUser(userID, time.Now())
}

func (s *TaskService) UpdateTask(userID, taskID uint, req TaskUpdateRequest) (*model.Task, error) {
	task, err := s.GetTask(userID, taskID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		task.Title = *req.Title
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.DueDate != nil {
		task.DueDate = *req.DueDate
	}
	if req.Priority != nil {
		task.Priority = *req.Priority
	}
	if req.Category != nil {
		task.Category = *req.Category
	}
	if req.IsImportant != nil {
		task.IsImportant = *req.IsImportant
	}

	if err := s.Repo.Save(task); err != nil {
		return nil, err
	}
	return task, nil
}

// ChangeTaskStatus moves a task through its lifecycle. CompletedAt is
// stamped on the transition into COMPLETED and cleared if the task reopens.
func (s *TaskService) ChangeTaskStatus(userID, taskID uint, status model.TaskStatus) (*model.Task, error) {
	task, err := s.GetTask(userID, taskID)
	if err != nil {
		return nil, err
	}

	task.Status = status
	if status == model.TaskCompleted {
		now := time.Now()
		task.CompletedAt = &now
	} else {
		task.CompletedAt = nil
	}

	if err := s.Repo.Save(task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *TaskService) DeleteTask(userID, taskID uint) error {
	if _, err := s.GetTask(userID, taskID); err != nil {
		return err
	}
	return s.Repo.Delete(taskID)
}

func (s *TaskService) GetTaskStatistics(userID uint) (*TaskStatistics, error) {
	tasks, err := s.Repo.FindByUser(userID)
	if err != nil {
		return nil, err
	}

	stats := &TaskStatistics{
		Total:      len(tasks),
		ByStatus:   make(map[string]int),
		ByCategory: make(map[string]int),
	}

	now := time.Now()
	completed := 0
	for _, t := range tasks {
		stats.ByStatus[string(t.Status)]++
		if t.Category != "" {
			stats.ByCategory[t.Category]++
		}
		if t.IsImportant {
			stats.Important++
		}
		if t.Status == model.TaskCompleted {
			completed++
		} else if !t.DueDate.IsZero() && t.DueDate.Before(now) {
			stats.Overdue++
		}
	}
	if stats.Total > 0 {
		stats.CompletionRate = float64(completed) / float64(stats.Total) * 100
	}
	return stats, nil
}
