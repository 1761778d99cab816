package fixtures

import (
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Task is an entry of the tasks fixture.
type Task struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Priority string `json:"priority"`
	DueDate  string `json:"dueDate"`
	Status   string `json:"status"`
}

var tasks = []Task{
	{ID: "t001", Title: "Complete project proposal", Priority: "High", DueDate: "2025-05-25", Status: "Pending"},
	{ID: "t002", Title: "Review code changes", Priority: "Medium", DueDate: "2025-05-20", Status: "In Progress"},
	{ID: "t003", Title: "Update documentation", Priority: "Low", DueDate: "2025-05-30", Status: "Pending"},
	{ID: "t004", Title: "Fix reported bug", Priority: "High", DueDate: "2025-05-19", Status: "In Progress"},
	{ID: "t005", Title: "Implement new feature", Priority: "Medium", DueDate: "2025-06-05", Status: "Not Started"},
	{ID: "t006", Title: "Prepare presentation", Priority: "High", DueDate: "2025-05-28", Status: "Not Started"},
	{ID: "t007", Title: "Attend team meeting", Priority: "Medium", DueDate: "2025-05-21", Status: "Pending"},
	{ID: "t008", Title: "Conduct testing", Priority: "Medium", DueDate: "2025-05-26", Status: "Not Started"},
	{ID: "t009", Title: "Deploy to production", Priority: "High", DueDate: "2025-06-10", Status: "Not Started"},
	{ID: "t010", Title: "Client follow-up", Priority: "Low", DueDate: "2025-05-22", Status: "Pending"},
}

// Tasks returns a copy of the tasks fixture.
func Tasks() []Task { return slices.Clone(tasks) }

// SortTasks orders tasks by title with English collation when order is
// non-empty. The value of order is ignored, so "desc" still sorts
// ascending.
func SortTasks(in []Task, order string) []Task {
	out := slices.Clone(in)
	if order == "" {
		return out
	}
	c := collate.New(language.English)
	slices.SortStableFunc(out, func(a, b Task) int {
		return c.CompareString(a.Title, b.Title)
	})
	return out
}
