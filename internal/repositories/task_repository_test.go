package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"task-manager.com/task-manager/internal/constants"
	apperrors "task-manager.com/task-manager/internal/errors"
	model "task-manager.com/task-manager/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.Task{}))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	return db
}

func repositories(t *testing.T) map[string]TaskRepository {
	return map[string]TaskRepository{
		"memory": NewMemoryTaskRepository(),
		"gorm":   NewGormTaskRepository(setupTestDB(t)),
	}
}

func newTask(title, description string, status constants.TaskStatus) *model.Task {
	return &model.Task{Title: title, Description: description, Status: status}
}

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }

func TestTaskRepository_CreateAndFind(t *testing.T) {
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			task := newTask("Buy milk", "", constants.StatusPending)

			require.NoError(t, repo.Create(ctx, task))
			require.NotEmpty(t, task.ID)
			assert.False(t, task.CreatedAt.IsZero())

			found, err := repo.FindByID(ctx, task.ID)
			require.NoError(t, err)
			assert.Equal(t, "Buy milk", found.Title)
			assert.Equal(t, constants.StatusPending, found.Status)
			assert.False(t, found.Completed)

			_, err = repo.FindByID(ctx, "does-not-exist")
			assert.ErrorIs(t, err, apperrors.ErrTaskNotFound)
		})
	}
}

func TestTaskRepository_ListFilters(t *testing.T) {
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, repo.Create(ctx, newTask("Alpha release", "", constants.StatusPending)))
			require.NoError(t, repo.Create(ctx, newTask("Write docs", "mention ALPHA", constants.StatusInProgress)))
			require.NoError(t, repo.Create(ctx, newTask("Ship", "beta", constants.StatusInProgress)))
			require.NoError(t, repo.Create(ctx, newTask("a.c literal", "", constants.StatusCompleted)))

			all, err := repo.List(ctx, model.TaskFilter{})
			require.NoError(t, err)
			assert.Len(t, all, 4)

			inProgress, err := repo.List(ctx, model.TaskFilter{Status: constants.StatusInProgress})
			require.NoError(t, err)
			assert.ElementsMatch(t, []string{"Write docs", "Ship"}, titles(inProgress))

			alpha, err := repo.List(ctx, model.TaskFilter{Query: "alpha"})
			require.NoError(t, err)
			assert.ElementsMatch(t, []string{"Alpha release", "Write docs"}, titles(alpha))

			upper, err := repo.List(ctx, model.TaskFilter{Query: "ALPHA"})
			require.NoError(t, err)
			assert.ElementsMatch(t, titles(alpha), titles(upper))

			both, err := repo.List(ctx, model.TaskFilter{Status: constants.StatusInProgress, Query: "alpha"})
			require.NoError(t, err)
			assert.Equal(t, []string{"Write docs"}, titles(both))

			literal, err := repo.List(ctx, model.TaskFilter{Query: "a.c"})
			require.NoError(t, err)
			assert.Equal(t, []string{"a.c literal"}, titles(literal))

			percent, err := repo.List(ctx, model.TaskFilter{Query: "%"})
			require.NoError(t, err)
			assert.Empty(t, percent)

			require.NoError(t, repo.Create(ctx, newTask("Äpfel kaufen", "", constants.StatusPending)))
			folded, err := repo.List(ctx, model.TaskFilter{Query: "äpfel"})
			require.NoError(t, err)
			assert.Equal(t, []string{"Äpfel kaufen"}, titles(folded))

			folded, err = repo.List(ctx, model.TaskFilter{Query: "ÄPFEL"})
			require.NoError(t, err)
			assert.Equal(t, []string{"Äpfel kaufen"}, titles(folded))
		})
	}
}

func TestTaskRepository_UpdateIsPartial(t *testing.T) {
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			task := newTask("Title", "Description", constants.StatusPending)
			require.NoError(t, repo.Create(ctx, task))

			updated, err := repo.Update(ctx, task.ID, model.TaskPatch{Completed: boolPtr(true)})
			require.NoError(t, err)
			assert.True(t, updated.Completed)
			assert.Equal(t, constants.StatusPending, updated.Status)
			assert.Equal(t, "Title", updated.Title)
			assert.Equal(t, "Description", updated.Description)

			status := constants.StatusInProgress
			updated, err = repo.Update(ctx, task.ID, model.TaskPatch{Title: strPtr("Renamed"), Status: &status})
			require.NoError(t, err)
			assert.Equal(t, "Renamed", updated.Title)
			assert.Equal(t, constants.StatusInProgress, updated.Status)
			assert.True(t, updated.Completed)

			_, err = repo.Update(ctx, "missing", model.TaskPatch{Title: strPtr("x")})
			assert.ErrorIs(t, err, apperrors.ErrTaskNotFound)
		})
	}
}

func TestTaskRepository_Delete(t *testing.T) {
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			task := newTask("Doomed", "", constants.StatusPending)
			require.NoError(t, repo.Create(ctx, task))
			require.NoError(t, repo.Create(ctx, newTask("Survivor", "", constants.StatusPending)))

			require.NoError(t, repo.Delete(ctx, task.ID))

			_, err := repo.FindByID(ctx, task.ID)
			assert.ErrorIs(t, err, apperrors.ErrTaskNotFound)

			assert.ErrorIs(t, repo.Delete(ctx, task.ID), apperrors.ErrTaskNotFound)

			rest, err := repo.List(ctx, model.TaskFilter{})
			require.NoError(t, err)
			assert.Equal(t, []string{"Survivor"}, titles(rest))
		})
	}
}

func TestMemoryTaskRepository_SequentialIDsInInsertionOrder(t *testing.T) {
	repo := NewMemoryTaskRepository()
	ctx := context.Background()

	for _, title := range []string{"first", "second", "third"} {
		require.NoError(t, repo.Create(ctx, newTask(title, "", constants.StatusPending)))
	}

	tasks, err := repo.List(ctx, model.TaskFilter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second", "third"}, titles(tasks))
	assert.Equal(t, "1", tasks[0].ID)
	assert.Equal(t, "3", tasks[2].ID)

	found, err := repo.FindByID(ctx, "02")
	require.NoError(t, err)
	assert.Equal(t, "second", found.Title)

	require.NoError(t, repo.Delete(ctx, "1"))
	require.NoError(t, repo.Create(ctx, newTask("fourth", "", constants.StatusPending)))
	found, err = repo.FindByID(ctx, "4")
	require.NoError(t, err)
	assert.Equal(t, "fourth", found.Title)
}

func TestMemoryTaskRepository_InstancesAreIsolated(t *testing.T) {
	a := NewMemoryTaskRepository()
	b := NewMemoryTaskRepository()
	ctx := context.Background()

	require.NoError(t, a.Create(ctx, newTask("only in a", "", constants.StatusPending)))

	tasks, err := b.List(ctx, model.TaskFilter{})
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestGormTaskRepository_NewestFirst(t *testing.T) {
	repo := NewGormTaskRepository(setupTestDB(t))
	ctx := context.Background()

	for _, title := range []string{"old", "middle", "new"} {
		require.NoError(t, repo.Create(ctx, newTask(title, "", constants.StatusPending)))
		time.Sleep(2 * time.Millisecond)
	}

	tasks, err := repo.List(ctx, model.TaskFilter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"new", "middle", "old"}, titles(tasks))
}

func titles(tasks []model.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, task := range tasks {
		out = append(out, task.Title)
	}
	return out
}
