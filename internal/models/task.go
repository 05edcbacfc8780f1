package model

import (
	"time"

	"task-manager.com/task-manager/internal/constants"
)

type Task struct {
	ID          string               `gorm:"primaryKey;size:36" json:"id"`
	Title       string               `gorm:"not null" json:"title"`
	Description string               `gorm:"not null" json:"description"`
	Completed   bool                 `gorm:"not null" json:"completed"`
	Status      constants.TaskStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	CreatedAt   time.Time            `gorm:"index" json:"createdAt"`
	UpdatedAt   time.Time            `json:"updatedAt"`
}

// TaskPatch carries the fields of a partial update. Nil fields are left
// untouched.
type TaskPatch struct {
	Title       *string
	Description *string
	Completed   *bool
	Status      *constants.TaskStatus
}

func (p TaskPatch) Apply(task *Task) {
	if p.Title != nil {
		task.Title = *p.Title
	}
	if p.Description != nil {
		task.Description = *p.Description
	}
	if p.Completed != nil {
		task.Completed = *p.Completed
	}
	if p.Status != nil {
		task.Status = *p.Status
	}
}

func (p TaskPatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Completed == nil && p.Status == nil
}

// TaskFilter narrows a listing. A zero Status or an empty Query means the
// filter is not applied.
type TaskFilter struct {
	Status constants.TaskStatus
	Query  string
}
