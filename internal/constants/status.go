package constants

type TaskStatus string

const (
	StatusPending    TaskStatus = "pending"
	StatusInProgress TaskStatus = "in-progress"
	StatusCompleted  TaskStatus = "completed"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// ParseTaskStatus reports whether raw is one of the three status literals.
func ParseTaskStatus(raw string) (TaskStatus, bool) {
	s := TaskStatus(raw)
	return s, s.Valid()
}
