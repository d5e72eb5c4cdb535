package repository

import (
	"time"

	"quiz_platform_backend/internal/model"

	"gorm.io/gorm"
)

type TaskRepository struct {
	DB *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{DB: db}
}

func (r *TaskRepository) Create(task *model.Task) error {
	return r.DB.Create(task).Error
}

func (r *TaskRepository) Save(task *model.Task) error {
	return r.DB.Save(task).Error
}

func (r *TaskRepository) FindByID(id uint) (*model.Task, error) {
	var t model.Task
	if err := r.DB.First(&t, id).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TaskRepository) FindByUser(userID uint) ([]model.Task, error) {
	var tasks []model.Task
	err := r.DB.Where("user_id = ?", userID).Order("id").Find(&tasks).Error
	return tasks, err
}

func (r *TaskRepository) FindByUserAndStatus(userID uint, status model.TaskStatus) ([]model.Task, error) {
	var tasks []model.Task
	err := r.DB.Where("user_id = ? AND status = ?", userID, status).Order("id").Find(&tasks).Error
	return tasks, err
}

func (r *TaskRepository) FindByUserAndCategory(userID uint, category string) ([]model.Task, error) {
	var tasks []model.Task
	err := r.DB.Where("user_id = ? AND category = ?", userID, category).Order("id").Find(&tasks).Error
	return tasks, err
}

func (r *TaskRepository) FindImportantByUser(userID uint) ([]model.Task, error) {
	var tasks []model.Task
	err := r.DB.Where("user_id = ? AND is_important = ?", userID, true).Order("id").Find(&tasks).Error
	return tasks, err
}

func (r *TaskRepository) FindOverdueByUser(userID uint, now time.Time) ([]model.Task, error) {
	var tasks []model.Task
	err := r.DB.
		Where("user_id = ? AND due_date < ? AND status <> ?", userID, now, model.TaskCompleted).
		Order("due_date").
		Find(&tasks).Error
	return tasks, err
}

func (r *TaskRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Task{}, id).Error
}

func (r *TaskRepository) ExistsByID(id uint) (bool, error) {
	var count int64
	err := r.DB.Model(&model.Task{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}
