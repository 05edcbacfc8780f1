package repository

import (
	"strings"

	model "task-manager.com/task-manager/internal/models"
)

// matchesFilter applies the listing rules in Go for stores that cannot push
// them down: exact status, then a case-insensitive substring of title or
// description.
func matchesFilter(task model.Task, filter model.TaskFilter) bool {
	if filter.Status != "" && task.Status != filter.Status {
		return false
	}
	needle := strings.ToLower(strings.TrimSpace(filter.Query))
	if needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(task.Title), needle) ||
		strings.Contains(strings.ToLower(task.Description), needle)
}
