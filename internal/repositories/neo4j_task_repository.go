package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"task-manager.com/task-manager/internal/constants"
	apperrors "task-manager.com/task-manager/internal/errors"
	model "task-manager.com/task-manager/internal/models"
)

const neo4jReturnTask = "RETURN t.id AS id, t.title AS title, t.description AS description, " +
	"t.completed AS completed, t.status AS status, t.createdAt AS createdAt, t.updatedAt AS updatedAt"

// Neo4jTaskRepository stores every task as a :Task node. Timestamps are kept
// as unix milliseconds so ordering is plain integer comparison.
type Neo4jTaskRepository struct {
	driver   neo4j.DriverWithContext
	database string
}

func NewNeo4jTaskRepository(driver neo4j.DriverWithContext, database string) *Neo4jTaskRepository {
	return &Neo4jTaskRepository{driver: driver, database: database}
}

func (r *Neo4jTaskRepository) session(ctx context.Context, mode neo4j.AccessMode) neo4j.SessionWithContext {
	return r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: mode, DatabaseName: r.database})
}

func (r *Neo4jTaskRepository) Create(ctx context.Context, task *model.Task) error {
	session := r.session(ctx, neo4j.AccessModeWrite)
	defer session.Close(ctx)

	now := time.Now().UTC().Truncate(time.Millisecond)
	task.ID = uuid.NewString()
	task.CreatedAt = now
	task.UpdatedAt = now

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		_, err := tx.Run(ctx,
			"CREATE (t:Task {id: $id, title: $title, description: $description, "+
				"completed: $completed, status: $status, createdAt: $createdAt, updatedAt: $updatedAt})",
			map[string]any{
				"id":          task.ID,
				"title":       task.Title,
				"description": task.Description,
				"completed":   task.Completed,
				"status":      string(task.Status),
				"createdAt":   now.UnixMilli(),
				"updatedAt":   now.UnixMilli(),
			},
		)
		return nil, err
	})
	if err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

func (r *Neo4jTaskRepository) FindByID(ctx context.Context, id string) (*model.Task, error) {
	session := r.session(ctx, neo4j.AccessModeRead)
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, "MATCH (t:Task {id: $id}) "+neo4jReturnTask, map[string]any{"id": id})
		if err != nil {
			return nil, err
		}
		return collectTasks(ctx, res)
	})
	if err != nil {
		return nil, fmt.Errorf("find task: %w", err)
	}

	tasks := result.([]model.Task)
	if len(tasks) == 0 {
		return nil, apperrors.ErrTaskNotFound
	}
	return &tasks[0], nil
}

func (r *Neo4jTaskRepository) List(ctx context.Context, filter model.TaskFilter) ([]model.Task, error) {
	session := r.session(ctx, neo4j.AccessModeRead)
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx,
			"MATCH (t:Task) "+
				"WHERE ($status = '' OR t.status = $status) "+
				"AND ($q = '' OR toLower(t.title) CONTAINS $q OR toLower(t.description) CONTAINS $q) "+
				neo4jReturnTask+" ORDER BY t.createdAt DESC",
			map[string]any{
				"status": string(filter.Status),
				"q":      strings.ToLower(filter.Query),
			},
		)
		if err != nil {
			return nil, err
		}
		return collectTasks(ctx, res)
	})
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return result.([]model.Task), nil
}

func (r *Neo4jTaskRepository) Update(ctx context.Context, id string, patch model.TaskPatch) (*model.Task, error) {
	session := r.session(ctx, neo4j.AccessModeWrite)
	defer session.Close(ctx)

	result, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx,
			"MATCH (t:Task {id: $id}) SET t += $props "+neo4jReturnTask,
			map[string]any{
				"id":    id,
				"props": neo4jProps(patch, time.Now().UTC()),
			},
		)
		if err != nil {
			return nil, err
		}
		return collectTasks(ctx, res)
	})
	if err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}

	tasks := result.([]model.Task)
	if len(tasks) == 0 {
		return nil, apperrors.ErrTaskNotFound
	}
	return &tasks[0], nil
}

func (r *Neo4jTaskRepository) Delete(ctx context.Context, id string) error {
	session := r.session(ctx, neo4j.AccessModeWrite)
	defer session.Close(ctx)

	deleted, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, "MATCH (t:Task {id: $id}) DETACH DELETE t", map[string]any{"id": id})
		if err != nil {
			return nil, err
		}
		summary, err := res.Consume(ctx)
		if err != nil {
			return nil, err
		}
		return summary.Counters().NodesDeleted(), nil
	})
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if deleted.(int) == 0 {
		return apperrors.ErrTaskNotFound
	}
	return nil
}

func (r *Neo4jTaskRepository) Close(ctx context.Context) error {
	return r.driver.Close(ctx)
}

func neo4jProps(patch model.TaskPatch, now time.Time) map[string]any {
	props := map[string]any{"updatedAt": now.UnixMilli()}
	if patch.Title != nil {
		props["title"] = *patch.Title
	}
	if patch.Description != nil {
		props["description"] = *patch.Description
	}
	if patch.Completed != nil {
		props["completed"] = *patch.Completed
	}
	if patch.Status != nil {
		props["status"] = string(*patch.Status)
	}
	return props
}

func collectTasks(ctx context.Context, res neo4j.ResultWithContext) ([]model.Task, error) {
	tasks := []model.Task{}
	for res.Next(ctx) {
		tasks = append(tasks, taskFromValues(res.Record().AsMap()))
	}
	if err := res.Err(); err != nil {
		return nil, err
	}
	return tasks, nil
}

func taskFromValues(values map[string]any) model.Task {
	task := model.Task{}
	task.ID, _ = values["id"].(string)
	task.Title, _ = values["title"].(string)
	task.Description, _ = values["description"].(string)
	task.Completed, _ = values["completed"].(bool)
	status, _ := values["status"].(string)
	task.Status = constants.TaskStatus(status)
	if ms, ok := values["createdAt"].(int64); ok {
		task.CreatedAt = time.UnixMilli(ms).UTC()
	}
	if ms, ok := values["updatedAt"].(int64); ok {
		task.UpdatedAt = time.UnixMilli(ms).UTC()
	}
	return task
}
