package repository

import (
	"context"
	"strconv"
	"sync"
	"time"

	apperrors "task-manager.com/task-manager/internal/errors"
	model "task-manager.com/task-manager/internal/models"
)

// MemoryTaskRepository keeps tasks in insertion order and hands out
// sequential numeric ids. Contents are lost when the process exits.
type MemoryTaskRepository struct {
	mu     sync.RWMutex
	tasks  []model.Task
	nextID int
	now    func() time.Time
}

func NewMemoryTaskRepository() *MemoryTaskRepository {
	return &MemoryTaskRepository{
		nextID: 1,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (r *MemoryTaskRepository) Create(_ context.Context, task *model.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	task.ID = strconv.Itoa(r.nextID)
	task.CreatedAt = now
	task.UpdatedAt = now
	r.nextID++

	r.tasks = append(r.tasks, *task)
	return nil
}

func (r *MemoryTaskRepository) FindByID(_ context.Context, id string) (*model.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.indexOf(id)
	if i < 0 {
		return nil, apperrors.ErrTaskNotFound
	}
	task := r.tasks[i]
	return &task, nil
}

func (r *MemoryTaskRepository) List(_ context.Context, filter model.TaskFilter) ([]model.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tasks := make([]model.Task, 0, len(r.tasks))
	for _, task := range r.tasks {
		if matchesFilter(task, filter) {
			tasks = append(tasks, task)
		}
	}
	return tasks, nil
}

func (r *MemoryTaskRepository) Update(_ context.Context, id string, patch model.TaskPatch) (*model.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return nil, apperrors.ErrTaskNotFound
	}

	patch.Apply(&r.tasks[i])
	r.tasks[i].UpdatedAt = r.now()

	task := r.tasks[i]
	return &task, nil
}

func (r *MemoryTaskRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return apperrors.ErrTaskNotFound
	}
	r.tasks = append(r.tasks[:i], r.tasks[i+1:]...)
	return nil
}

func (r *MemoryTaskRepository) Close(context.Context) error {
	return nil
}

// indexOf compares ids numerically, so "01" finds task 1 and anything that
// is not a number finds nothing.
func (r *MemoryTaskRepository) indexOf(id string) int {
	n, err := strconv.Atoi(id)
	if err != nil {
		return -1
	}
	want := strconv.Itoa(n)
	for i := range r.tasks {
		if r.tasks[i].ID == want {
			return i
		}
	}
	return -1
}
