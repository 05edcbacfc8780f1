package services

import (
	"context"
	"strings"

	"task-manager.com/task-manager/internal/constants"
	dto "task-manager.com/task-manager/internal/data_models"
	apperrors "task-manager.com/task-manager/internal/errors"
	model "task-manager.com/task-manager/internal/models"
	repository "task-manager.com/task-manager/internal/repositories"
)

type TaskService struct {
	repo repository.TaskRepository
}

func NewTaskService(repo repository.TaskRepository) *TaskService {
	return &TaskService{repo: repo}
}

func (s *TaskService) CreateTask(ctx context.Context, req dto.CreateTaskRequest) (*model.Task, error) {
	task, err := newTaskFromRequest(req)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, task); err != nil {
		return nil, apperrors.Internal("Failed to create task", err)
	}
	return task, nil
}

func newTaskFromRequest(req dto.CreateTaskRequest) (*model.Task, error) {
	if req.Title == nil || *req.Title == "" {
		return nil, apperrors.ErrTitleRequired
	}

	task := &model.Task{
		Title:  *req.Title,
		Status: constants.StatusPending,
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.Completed != nil {
		task.Completed = *req.Completed
	}
	if req.Status != nil {
		status, ok := constants.ParseTaskStatus(*req.Status)
		if !ok {
			return nil, apperrors.ErrInvalidStatus
		}
		task.Status = status
	}
	return task, nil
}

// ListTasks drops a status that is not one of the literals and a query that
// is blank after trimming, then lists what is left.
func (s *TaskService) ListTasks(ctx context.Context, query dto.ListTasksQuery) ([]model.Task, error) {
	filter := model.TaskFilter{Query: strings.TrimSpace(query.Q)}
	if status, ok := constants.ParseTaskStatus(query.Status); ok {
		filter.Status = status
	}

	tasks, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, apperrors.Internal("Failed to fetch tasks", err)
	}
	return tasks, nil
}

func (s *TaskService) GetTask(ctx context.Context, id string) (*model.Task, error) {
	if id == "" {
		return nil, apperrors.ErrTaskIDRequired
	}

	task, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apperrors.Internal("Failed to fetch task", err)
	}
	return task, nil
}

func (s *TaskService) UpdateTask(ctx context.Context, id string, req dto.UpdateTaskRequest) (*model.Task, error) {
	if id == "" {
		return nil, apperrors.ErrTaskIDRequired
	}

	patch := model.TaskPatch{
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
	}
	if req.StatusNull {
		return nil, apperrors.ErrInvalidStatus
	}
	if req.Status != nil {
		status, ok := constants.ParseTaskStatus(*req.Status)
		if !ok {
			return nil, apperrors.ErrInvalidStatus
		}
		patch.Status = &status
	}

	if patch.Empty() {
		return s.GetTask(ctx, id)
	}

	task, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, apperrors.Internal("Failed to update task", err)
	}
	return task, nil
}

func (s *TaskService) DeleteTask(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.ErrTaskIDRequired
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return apperrors.Internal("Failed to delete task", err)
	}
	return nil
}
