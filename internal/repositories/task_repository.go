package repository

import (
	"context"

	model "task-manager.com/task-manager/internal/models"
)

// TaskRepository is the storage contract shared by every backend. Misses are
// reported as errors.ErrTaskNotFound.
type TaskRepository interface {
	Create(ctx context.Context, task *model.Task) error
	FindByID(ctx context.Context, id string) (*model.Task, error)
	List(ctx context.Context, filter model.TaskFilter) ([]model.Task, error)
	Update(ctx context.Context, id string, patch model.TaskPatch) (*model.Task, error)
	Delete(ctx context.Context, id string) error
	Close(ctx context.Context) error
}
