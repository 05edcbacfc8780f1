package console

import (
	"net/url"
	"strings"

	"task-manager.com/task-manager/internal/constants"
	model "task-manager.com/task-manager/internal/models"
)

// Resolution is the outcome of reading the search box and the status
// dropdown together.
type Resolution struct {
	Trimmed       string
	QueryIsStatus bool
	Effective     constants.TaskStatus
}

// Resolve lowercases and trims the query. A query that spells a status acts
// as a status selector unless the dropdown already picked one.
func Resolve(query, statusFilter string) Resolution {
	trimmed := strings.ToLower(strings.TrimSpace(query))
	asStatus, isStatus := constants.ParseTaskStatus(trimmed)

	r := Resolution{Trimmed: trimmed, QueryIsStatus: isStatus}
	switch {
	case statusFilter != "":
		r.Effective = constants.TaskStatus(statusFilter)
	case isStatus:
		r.Effective = asStatus
	}
	return r
}

// RequestParams sends the raw query as q only when it was not taken as a
// status, so the server does not filter twice.
func RequestParams(query, statusFilter string) url.Values {
	r := Resolve(query, statusFilter)
	params := url.Values{}
	if r.Effective != "" {
		params.Set("status", string(r.Effective))
	}
	if !r.QueryIsStatus && query != "" {
		params.Set("q", query)
	}
	return params
}

// DisplayStatus falls back to the completed flag for tasks without a status.
func DisplayStatus(task model.Task) constants.TaskStatus {
	if task.Status != "" {
		return task.Status
	}
	if task.Completed {
		return constants.StatusCompleted
	}
	return constants.StatusPending
}

// Visible narrows fetched tasks once more. With an effective status only
// that status survives; otherwise a non-empty query keeps exact,
// case-insensitive title matches.
func Visible(tasks []model.Task, query, statusFilter string) []model.Task {
	r := Resolve(query, statusFilter)

	out := make([]model.Task, 0, len(tasks))
	for _, task := range tasks {
		switch {
		case r.Effective != "":
			if DisplayStatus(task) != r.Effective {
				continue
			}
		case r.Trimmed != "":
			if strings.ToLower(task.Title) != r.Trimmed {
				continue
			}
		}
		out = append(out, task)
	}
	return out
}
