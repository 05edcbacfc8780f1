package console

import (
	"fmt"
	"io"
)

// Render prints a snapshot as a numbered list; the numbers are what the
// terminal commands refer to.
func Render(w io.Writer, s Snapshot) {
	filter := s.StatusFilter
	if filter == "" {
		filter = "all"
	}
	fmt.Fprintf(w, "search: %q  status: %s\n", s.Query, filter)

	if s.Error != "" {
		fmt.Fprintf(w, "! %s\n", s.Error)
	}
	if s.Loading {
		fmt.Fprintln(w, "loading...")
	}
	if s.NoResults {
		fmt.Fprintln(w, "No results")
	}

	for i, task := range s.Tasks {
		mark := " "
		if task.Completed {
			mark = "x"
		}
		fmt.Fprintf(w, "%3d. [%s] %s (%s)\n", i+1, mark, task.Title, DisplayStatus(task))
		if task.Description != "" {
			fmt.Fprintf(w, "       %s\n", task.Description)
		}
	}
}
