package model

import "time"

type TaskStatus string

const (
	TaskCreated    TaskStatus = "CREATED"
	TaskInProgress TaskStatus = "IN_PROGRESS"
	TaskCompleted  TaskStatus = "COMPLETED"
)

// swagger:model Task
type Task struct {
	BaseModel
	Title       string     `gorm:"size:255;not null" json:"title"`
	Description string     `gorm:"size:1000" json:"description"`
	Status      TaskStatus `gorm:"size:20;not null;default:'CREATED'" json:"status"`
	DueDate     time.Time  `json:"dueDate"`
	Priority    int        `gorm:"default:0" json:"priority"`
	Category    string     `gorm:"size:100;index" json:"category"`
	IsImportant bool       `gorm:"default:false" json:"isImportant"`
	UserID      uint       `gorm:"index;not null" json:"userId"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

func (Task) TableName() string {
	return "tasks"
}
